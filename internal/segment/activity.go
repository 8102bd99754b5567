package segment

// Activity is a trail's activity tag, mapped to an assumed travel pace.
type Activity int

const (
	ActivityWalking Activity = iota
	ActivitySnorkelling
	ActivityHorseSport
	ActivityCycling
	ActivityPaddling
)

// ParseActivity maps the imported activity labels onto the enumerated type.
// The second return value reports whether the label was recognized; callers
// decide how loudly to treat an unknown label before falling back to walking.
func ParseActivity(label string) (Activity, bool) {
	switch label {
	case "Walking":
		return ActivityWalking, true
	case "Snorkelling":
		return ActivitySnorkelling, true
	case "Horse Sport":
		return ActivityHorseSport, true
	case "Cycling":
		return ActivityCycling, true
	case "Canoeing/Kayaking/Paddling":
		return ActivityPaddling, true
	}
	return ActivityWalking, false
}

// PaceKmh returns the assumed constant travel speed for an activity.
func (a Activity) PaceKmh() float64 {
	switch a {
	case ActivitySnorkelling:
		return 7
	case ActivityHorseSport:
		return 10
	case ActivityCycling:
		return 15
	case ActivityWalking, ActivityPaddling:
		return 5
	}
	return 5
}

func (a Activity) String() string {
	switch a {
	case ActivityWalking:
		return "Walking"
	case ActivitySnorkelling:
		return "Snorkelling"
	case ActivityHorseSport:
		return "Horse Sport"
	case ActivityCycling:
		return "Cycling"
	case ActivityPaddling:
		return "Canoeing/Kayaking/Paddling"
	}
	return "Walking"
}
