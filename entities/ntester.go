package entities

import "time"

type NTesterReading struct {
	ID               string `gorm:"primaryKey" json:"id"`
	LandSegmentID    string `gorm:"index" json:"land_segment_id"`
	ReadingDate      string `gorm:"index" json:"reading_date"` // YYYY-MM-DD
	Reading          int    `json:"reading"`
	Crop             string `gorm:"index" json:"crop"`
	CultivationType  string `json:"cultivation_type"`
	RecommendedTopUp *int   `json:"recommended_top_up"` // nil when no band covers the reading
	TopUpUnit        string `json:"top_up_unit"`

	CreatedAt time.Time `json:"created_at"`
}

func (NTesterReading) TableName() string { return "ntester_readings" }
