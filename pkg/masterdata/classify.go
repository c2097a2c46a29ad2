package masterdata

import "strings"

// Classify compares value with the range. Both grades count as optimal.
func Classify(value float64, r NutrientRange) Status {
	switch {
	case value < r.LowGrade:
		return StatusLow
	case value > r.HighGrade:
		return StatusHigh
	default:
		return StatusOptimal
	}
}

// StatusCounts tallies classified values, e.g. for a leaf sample summary.
type StatusCounts struct {
	Optimal int `json:"optimal"`
	Low     int `json:"low"`
	High    int `json:"high"`
	Unknown int `json:"unknown"`
}

func (c *StatusCounts) Add(s Status) {
	switch s {
	case StatusOptimal:
		c.Optimal++
	case StatusLow:
		c.Low++
	case StatusHigh:
		c.High++
	default:
		c.Unknown++
	}
}

// Measurement is one raw lab value before classification. Unit may be empty.
type Measurement struct {
	Nutrient string  `json:"nutrient"`
	Value    float64 `json:"value"`
	Unit     string  `json:"unit,omitempty"`
}

type ClassifiedValue struct {
	Nutrient string  `json:"nutrient"`
	Value    float64 `json:"value"`
	Unit     string  `json:"unit"`
	Status   Status  `json:"status"`
}

// ClassifyAll classifies a batch against one consistent view of the ranges
// for key. Values without a range are StatusUnknown. An empty unit takes the
// range's unit.
func (s *Store) ClassifyAll(key CropPart, values []Measurement) ([]ClassifiedValue, StatusCounts) {
	// stored slices are replaced on write, never mutated
	s.mu.RLock()
	ranges := s.ranges[key]
	s.mu.RUnlock()

	var counts StatusCounts
	out := make([]ClassifiedValue, 0, len(values))
	for _, m := range values {
		cv := ClassifiedValue{Nutrient: strings.TrimSpace(m.Nutrient), Value: m.Value, Unit: strings.TrimSpace(m.Unit), Status: StatusUnknown}
		for _, r := range ranges {
			if r.Nutrient == cv.Nutrient {
				cv.Status = Classify(m.Value, r)
				if cv.Unit == "" {
					cv.Unit = string(r.Unit)
				}
				break
			}
		}
		counts.Add(cv.Status)
		out = append(out, cv)
	}
	return out, counts
}
