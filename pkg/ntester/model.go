package ntester

import (
	"errors"
	"math"

	"agronomy/entities"
)

var (
	ErrInvalidReading = errors.New("invalid n-tester reading")
	ErrUnknownSegment = errors.New("unknown land segment")
)

type Urgency string

const (
	UrgencyUrgent   Urgency = "urgent"
	UrgencyModerate Urgency = "moderate"
	UrgencyLow      Urgency = "low"
)

// UrgencyFor grades a recommended top-up in kg N/ha.
func UrgencyFor(topUp int) Urgency {
	switch {
	case topUp >= 70:
		return UrgencyUrgent
	case topUp >= 40:
		return UrgencyModerate
	default:
		return UrgencyLow
	}
}

// Recommendation is a lookup preview. TopUp is nil and Urgency empty when no
// band covers the reading.
type Recommendation struct {
	Reading         int     `json:"reading"`
	Crop            string  `json:"crop"`
	CultivationType string  `json:"cultivation_type"`
	TopUp           *int    `json:"top_up"`
	Unit            string  `json:"unit"`
	Urgency         Urgency `json:"urgency,omitempty"`
}

type Filter struct {
	Crop          string
	Query         string
	LandSegmentID string
}

// ReadingView is a stored reading joined with its segment name.
type ReadingView struct {
	entities.NTesterReading
	SegmentName string  `json:"segment_name"`
	Urgency     Urgency `json:"urgency,omitempty"`
}

type Stats struct {
	Count          int `json:"count"`
	AverageReading int `json:"average_reading"`
	AverageTopUp   int `json:"average_top_up"`
	Urgent         int `json:"urgent"`
}

// ComputeStats averages readings and top-ups, rounding half up. The top-up
// average only covers readings that got a recommendation.
func ComputeStats(readings []ReadingView) Stats {
	st := Stats{Count: len(readings)}
	if len(readings) == 0 {
		return st
	}
	var sumReading, sumTopUp, withTopUp int
	for _, r := range readings {
		sumReading += r.Reading
		if r.RecommendedTopUp == nil {
			continue
		}
		withTopUp++
		sumTopUp += *r.RecommendedTopUp
		if UrgencyFor(*r.RecommendedTopUp) == UrgencyUrgent {
			st.Urgent++
		}
	}
	st.AverageReading = roundHalfUp(float64(sumReading) / float64(len(readings)))
	if withTopUp > 0 {
		st.AverageTopUp = roundHalfUp(float64(sumTopUp) / float64(withTopUp))
	}
	return st
}

func roundHalfUp(v float64) int { return int(math.Floor(v + 0.5)) }
