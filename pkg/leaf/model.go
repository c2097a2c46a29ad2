// Package leaf holds leaf-sample analysis: lab values classified against the
// nutrient ranges, stored with the status they had at ingestion.
package leaf

import (
	"errors"

	"agronomy/entities"
	"agronomy/pkg/masterdata"
)

var (
	ErrInvalidSample  = errors.New("invalid leaf sample")
	ErrUnknownSegment = errors.New("unknown land segment")
)

const DefaultPlantPart = "Leaf"

type Filter struct {
	Crop          string
	Query         string
	LandSegmentID string
}

// SampleView is a stored sample with its segment name and status tally.
// Live and LiveCounts are set only when the caller asks for the statuses
// against the current ranges.
type SampleView struct {
	entities.LeafSample
	SegmentName string                       `json:"segment_name"`
	Counts      masterdata.StatusCounts      `json:"counts"`
	Live        []masterdata.ClassifiedValue `json:"live,omitempty"`
	LiveCounts  *masterdata.StatusCounts     `json:"live_counts,omitempty"`
}

// CountStored tallies the statuses frozen on the sample's values.
func CountStored(values []entities.NutrientValue) masterdata.StatusCounts {
	var c masterdata.StatusCounts
	for _, v := range values {
		c.Add(masterdata.Status(v.Status))
	}
	return c
}

// Measurements turns stored values back into raw lab input.
func Measurements(values []entities.NutrientValue) []masterdata.Measurement {
	out := make([]masterdata.Measurement, 0, len(values))
	for _, v := range values {
		out = append(out, masterdata.Measurement{Nutrient: v.Nutrient, Value: v.Value, Unit: v.Unit})
	}
	return out
}
