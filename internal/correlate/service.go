package correlate

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/cduggan1/group-design-project-10/internal/segment"
	"github.com/cduggan1/group-design-project-10/internal/trail"
	"github.com/cduggan1/group-design-project-10/internal/weather"
)

// TrailFinder ranks trails near a query point. *trail.Service satisfies it.
type TrailFinder interface {
	FindNear(ctx context.Context, lat, lng, radiusKm float64, activity string, limit int) ([]trail.RankedTrail, error)
}

// SegmentLoader returns a trail's stored segments. *segment.Service
// satisfies it.
type SegmentLoader interface {
	Segments(ctx context.Context, trailID string) ([]segment.Segment, error)
}

// Sampler provides forecast time series. *weather.Client satisfies it.
type Sampler interface {
	Forecast(ctx context.Context, lat, lng float64) ([]weather.Sample, error)
}

const (
	// Forecast fetches per request run concurrently up to this bound.
	defaultMaxInFlight = 8
	// Each forecast fetch gets its own deadline; a slow provider degrades
	// one segment's weather, not the whole response.
	defaultSampleTimeout = 5 * time.Second
)

type Service struct {
	trails    TrailFinder
	segments  SegmentLoader
	forecasts Sampler

	maxInFlight   int
	sampleTimeout time.Duration
}

func NewService(trails TrailFinder, segments SegmentLoader, forecasts Sampler) *Service {
	return &Service{
		trails:        trails,
		segments:      segments,
		forecasts:     forecasts,
		maxInFlight:   defaultMaxInFlight,
		sampleTimeout: defaultSampleTimeout,
	}
}

// Query are the parameters of a top-trails-with-weather request.
type Query struct {
	Lat           float64
	Lng           float64
	Base          time.Time
	Activity      string
	MaxDistanceKm float64
	Limit         int
}

// forecastJob addresses one segment slot in the assembled response so
// concurrent fetches write results by index, never by completion order.
type forecastJob struct {
	trailIdx int
	segIdx   int
	seg      segment.Segment
	at       time.Time
}

// TopWeather ranks the trails nearest the query point and annotates each
// of their segments with the forecast sample closest to its estimated
// arrival time (query base time plus the segment's pace offset). The
// operation is read-only: trails without stored segments are segmented
// in memory, nothing is persisted.
func (s *Service) TopWeather(ctx context.Context, q Query) (FeatureCollection, error) {
	ranked, err := s.trails.FindNear(ctx, q.Lat, q.Lng, q.MaxDistanceKm, q.Activity, q.Limit)
	if err != nil {
		return FeatureCollection{}, err
	}

	features := make([]Feature, len(ranked))
	var jobs []forecastJob
	for i, rt := range ranked {
		segs := s.segmentsFor(ctx, rt)
		sw := make([]SegmentWeather, len(segs))
		for j, seg := range segs {
			at := q.Base.Add(seg.Offset())
			sw[j] = SegmentWeather{
				ForecastDatetime: at,
				Coordinates:      []float64{seg.Point.Lng, seg.Point.Lat},
			}
			jobs = append(jobs, forecastJob{trailIdx: i, segIdx: j, seg: seg, at: at})
		}
		features[i] = Feature{
			Type:     "Feature",
			Geometry: routeGeometry(rt.Route),
			Properties: Properties{
				ObjectID:  rt.ObjectID,
				Name:      rt.Name,
				Activity:  rt.Activity,
				LengthKm:  rt.LengthKm,
				DistanceM: rt.DistanceM,
				Segments:  sw,
			},
		}
	}

	s.fetchForecasts(ctx, jobs, features)

	return FeatureCollection{Type: "FeatureCollection", Features: features}, nil
}

// segmentsFor loads a trail's stored segments, falling back to an
// in-memory segmentation when none have been generated yet. Degenerate
// trails yield an empty list and stay in the ranking.
func (s *Service) segmentsFor(ctx context.Context, rt trail.RankedTrail) []segment.Segment {
	stored, err := s.segments.Segments(ctx, rt.ID)
	if err != nil {
		log.Printf("correlate: loading segments for trail %s: %v", rt.ID, err)
	}
	if len(stored) > 0 {
		return stored
	}

	built, err := segment.BuildForLabel(rt.Route, rt.LengthKm, rt.Activity)
	if err != nil {
		log.Printf("correlate: segmenting trail %s: %v", rt.ID, err)
		return nil
	}
	return built
}

// fetchForecasts resolves weather for every job with a bounded number of
// in-flight provider calls. Results land in their pre-assigned slots, so
// trail and segment order is unaffected by completion order. Any failed
// or timed-out fetch leaves its slot's weather null.
func (s *Service) fetchForecasts(ctx context.Context, jobs []forecastJob, features []Feature) {
	sem := make(chan struct{}, s.maxInFlight)
	var wg sync.WaitGroup
	for _, job := range jobs {
		wg.Add(1)
		sem <- struct{}{}
		go func(job forecastJob) {
			defer wg.Done()
			defer func() { <-sem }()

			callCtx, cancel := context.WithTimeout(ctx, s.sampleTimeout)
			defer cancel()

			samples, err := s.forecasts.Forecast(callCtx, job.seg.Point.Lat, job.seg.Point.Lng)
			if err != nil {
				log.Printf("correlate: forecast for segment %d of trail %s: %v", job.seg.Index, job.seg.TrailID, err)
				return
			}
			sample, ok := weather.NearestSample(samples, job.at)
			if !ok {
				return
			}
			features[job.trailIdx].Properties.Segments[job.segIdx].Weather = &sample
		}(job)
	}
	wg.Wait()
}
