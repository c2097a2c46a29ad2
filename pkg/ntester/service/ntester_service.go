package service

import (
	"io"

	"agronomy/pkg/ntester"
)

type RecordInput struct {
	LandSegmentID   string `json:"land_segment_id"`
	ReadingDate     string `json:"reading_date"` // YYYY-MM-DD, defaults to today
	Reading         int    `json:"reading"`
	Crop            string `json:"crop"`             // defaults to the segment's crop
	CultivationType string `json:"cultivation_type"` // defaults to the segment's cultivation type
}

type NTesterService interface {
	Recommend(reading int, crop, cultivationType string) ntester.Recommendation
	Record(in RecordInput) (*ntester.ReadingView, error)
	List(f ntester.Filter) ([]ntester.ReadingView, error)
	Stats(f ntester.Filter) (ntester.Stats, error)
	Export(w io.Writer, f ntester.Filter) error
}

