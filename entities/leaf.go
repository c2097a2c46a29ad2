package entities

import "time"

const (
	SampleStatusPending  = "pending"
	SampleStatusAnalyzed = "analyzed"
)

type LeafSample struct {
	ID            string          `gorm:"primaryKey" json:"id"`
	LandSegmentID string          `gorm:"index" json:"land_segment_id"`
	SampleDate    string          `gorm:"index" json:"sample_date"` // YYYY-MM-DD
	Crop          string          `gorm:"index" json:"crop"`
	PlantPart     string          `json:"plant_part"`
	Status        string          `json:"status"` // pending|analyzed
	Source        string          `json:"source,omitempty"`
	Nutrients     []NutrientValue `gorm:"foreignKey:SampleID;constraint:OnDelete:CASCADE" json:"nutrients"`

	CreatedAt time.Time `json:"created_at"`
}

// NutrientValue keeps the status computed when the sample was ingested.
type NutrientValue struct {
	ID       uint    `gorm:"primaryKey" json:"-"`
	SampleID string  `gorm:"index" json:"-"`
	Position int     `json:"-"`
	Nutrient string  `json:"nutrient"`
	Value    float64 `json:"value"`
	Unit     string  `json:"unit"`
	Status   string  `json:"status"` // optimal|low|high|unknown
}
