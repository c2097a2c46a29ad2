package masterdata

import (
	"fmt"
	"strings"
)

type Unit string

const (
	UnitPercent Unit = "%"
	UnitPPM     Unit = "ppm"
	UnitMgPerKg Unit = "mg/kg"
)

func (u Unit) Valid() bool {
	switch u {
	case UnitPercent, UnitPPM, UnitMgPerKg:
		return true
	}
	return false
}

// Status is the classification of a measured nutrient value against its range.
type Status string

const (
	StatusOptimal Status = "optimal"
	StatusLow     Status = "low"
	StatusHigh    Status = "high"
	// StatusUnknown marks a value that had no configured range at ingestion.
	StatusUnknown Status = "unknown"
)

// TopUpUnit is the unit of every band recommendation.
const TopUpUnit = "kg N/ha"

type NutrientRange struct {
	Nutrient  string  `json:"nutrient" yaml:"nutrient"`
	LowGrade  float64 `json:"low_grade" yaml:"low_grade"`
	HighGrade float64 `json:"high_grade" yaml:"high_grade"`
	Unit      Unit    `json:"unit" yaml:"unit"`
}

// NewNutrientRange trims the nutrient name and checks low < high and the unit.
func NewNutrientRange(nutrient string, low, high float64, unit Unit) (NutrientRange, error) {
	r := NutrientRange{Nutrient: strings.TrimSpace(nutrient), LowGrade: low, HighGrade: high, Unit: unit}
	return r, r.Validate()
}

func (r NutrientRange) Validate() error {
	if r.Nutrient == "" {
		return fmt.Errorf("%w: nutrient name is required", ErrInvalidRange)
	}
	if !(r.LowGrade < r.HighGrade) {
		return fmt.Errorf("%w: %s low grade %g must be below high grade %g", ErrInvalidRange, r.Nutrient, r.LowGrade, r.HighGrade)
	}
	if !r.Unit.Valid() {
		return fmt.Errorf("%w: %s has unsupported unit %q", ErrInvalidRange, r.Nutrient, r.Unit)
	}
	return nil
}

type BandRow struct {
	MinReading int `json:"min_reading" yaml:"min"`
	MaxReading int `json:"max_reading" yaml:"max"`
	TopUp      int `json:"top_up" yaml:"top_up"`
}

func NewBandRow(minReading, maxReading, topUp int) (BandRow, error) {
	r := BandRow{MinReading: minReading, MaxReading: maxReading, TopUp: topUp}
	if err := r.validate(); err != nil {
		return r, fmt.Errorf("%w: %s", ErrInvalidBand, err)
	}
	return r, nil
}

func (r BandRow) validate() error {
	if r.MinReading > r.MaxReading {
		return fmt.Errorf("min reading %d is above max reading %d", r.MinReading, r.MaxReading)
	}
	if r.TopUp < 0 {
		return fmt.Errorf("top-up %d is negative", r.TopUp)
	}
	return nil
}

// Contains reports whether reading lies in [MinReading, MaxReading].
func (r BandRow) Contains(reading int) bool {
	return reading >= r.MinReading && reading <= r.MaxReading
}

type CropPart struct {
	Crop      string `json:"crop" yaml:"crop"`
	PlantPart string `json:"plant_part" yaml:"plant_part"`
}

func (k CropPart) String() string { return k.Crop + "/" + k.PlantPart }

type CropCultivation struct {
	Crop            string `json:"crop" yaml:"crop"`
	CultivationType string `json:"cultivation_type" yaml:"cultivation_type"`
}

func (k CropCultivation) String() string { return k.Crop + "/" + k.CultivationType }

// Reading is a lookup query; it is never stored.
type Reading struct {
	Value           int
	Crop            string
	CultivationType string
}

func (r Reading) Key() CropCultivation {
	return CropCultivation{Crop: r.Crop, CultivationType: r.CultivationType}
}
