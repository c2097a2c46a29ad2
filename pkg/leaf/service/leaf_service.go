package service

import (
	"io"

	"agronomy/pkg/leaf"
	"agronomy/pkg/masterdata"
)

type IngestInput struct {
	LandSegmentID string                   `json:"land_segment_id"`
	SampleDate    string                   `json:"sample_date"` // YYYY-MM-DD, defaults to today
	Crop          string                   `json:"crop"`        // defaults to the segment's crop
	PlantPart     string                   `json:"plant_part"`  // defaults to Leaf
	Source        string                   `json:"source"`
	Values        []masterdata.Measurement `json:"values"`
}

type LeafService interface {
	Ingest(in IngestInput) (*leaf.SampleView, error)
	// ImportReport parses an HTML lab report and ingests its values. Values
	// in the input are ignored.
	ImportReport(in IngestInput, report io.Reader) (*leaf.SampleView, error)
	Get(id string, live bool) (*leaf.SampleView, error)
	List(f leaf.Filter, live bool) ([]leaf.SampleView, error)
}
