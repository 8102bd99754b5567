package alerts

import (
	"fmt"
	"math"
	"time"

	"github.com/cduggan1/group-design-project-10/internal/shared/geo"
	"github.com/cduggan1/group-design-project-10/internal/weather"
)

// Severity levels as mapped from Met Éireann warning colours.
const (
	SeverityLow      = "LOW"      // Yellow
	SeverityModerate = "MODERATE" // Orange
	SeveritySevere   = "SEVERE"   // Red
)

// Alert is a regional weather warning with a centre point and coverage
// radius. Alerts from a feed refresh replace the previously active set.
type Alert struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Severity    string    `json:"severity"`
	Centre      geo.Point `json:"centre"`
	RadiusKm    float64   `json:"radius_km"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Active      bool      `json:"active"`
}

// Rule condition kinds.
const (
	ConditionSunny = "SUNNY"
	ConditionRainy = "RAINY"
	ConditionWindy = "WINDY"
	ConditionHot   = "HOT"
	ConditionCold  = "COLD"
)

// Rule comparison operators.
const (
	CompareGT = "GT"
	CompareLT = "LT"
	CompareEQ = "EQ"
)

// Rule is a user-defined notification rule matched against forecast
// samples, e.g. "windy: wind_speed GT 40".
type Rule struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Condition  string  `json:"condition"`
	Threshold  float64 `json:"threshold"`
	Comparison string  `json:"comparison"`
	Active     bool    `json:"active"`
}

func ValidCondition(c string) bool {
	switch c {
	case ConditionSunny, ConditionRainy, ConditionWindy, ConditionHot, ConditionCold:
		return true
	}
	return false
}

func ValidComparison(c string) bool {
	switch c {
	case CompareGT, CompareLT, CompareEQ:
		return true
	}
	return false
}

// Matches reports whether a forecast sample satisfies the rule. Sunshine
// is the inverse of cloud cover; equality tolerates a 0.1 margin.
func (r Rule) Matches(s weather.Sample) bool {
	var value float64
	switch r.Condition {
	case ConditionSunny:
		value = 100 - float64(s.CloudinessPct)
	case ConditionRainy:
		value = s.RainMm
	case ConditionWindy:
		value = float64(s.WindSpeedKmh)
	case ConditionHot, ConditionCold:
		value = s.TemperatureC
	default:
		return false
	}

	switch r.Comparison {
	case CompareGT:
		return value > r.Threshold
	case CompareLT:
		return value < r.Threshold
	case CompareEQ:
		return math.Abs(value-r.Threshold) < 0.1
	}
	return false
}

// Message describes a matched rule for notification payloads.
func (r Rule) Message() string {
	return fmt.Sprintf("%s: %s is %s %g", r.Name, r.Condition, r.Comparison, r.Threshold)
}
