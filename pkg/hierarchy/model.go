package hierarchy

import "agronomy/entities"

// Summary backs the dashboard tiles.
type Summary struct {
	LandSegments    int64 `json:"land_segments"`
	LandOwners      int64 `json:"land_owners"`
	AnalyzedSamples int64 `json:"analyzed_samples"`
	NTesterReadings int64 `json:"ntester_readings"`
}

type OwnerOverview struct {
	entities.LandOwner
	AgronomistName string `json:"agronomist_name"`
	SegmentCount   int64  `json:"segment_count"`
}

type SegmentOverview struct {
	entities.LandSegment
	OwnerName    string `json:"owner_name"`
	SampleCount  int64  `json:"sample_count"`
	ReadingCount int64  `json:"reading_count"`
}
