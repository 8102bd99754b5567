package weather

import "time"

// NearestSample picks the sample whose timestamp is closest to target.
// When two samples are equally close the earlier one wins, so selection is
// deterministic regardless of series order. Returns false for an empty
// series; callers degrade to an absent forecast rather than failing.
func NearestSample(samples []Sample, target time.Time) (Sample, bool) {
	if len(samples) == 0 {
		return Sample{}, false
	}

	best := samples[0]
	bestDiff := absDuration(best.Time.Sub(target))
	for _, s := range samples[1:] {
		diff := absDuration(s.Time.Sub(target))
		if diff < bestDiff || (diff == bestDiff && s.Time.Before(best.Time)) {
			best = s
			bestDiff = diff
		}
	}
	return best, true
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
