package masterdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	nitrogen, err := NewNutrientRange("Nitrogen (N)", 1.8, 2.5, UnitPercent)
	require.NoError(t, err)

	tests := []struct {
		name  string
		value float64
		want  Status
	}{
		{"below low grade", 1.2, StatusLow},
		{"inside range", 2.1, StatusOptimal},
		{"above high grade", 3.0, StatusHigh},
		{"low grade is optimal", 1.8, StatusOptimal},
		{"high grade is optimal", 2.5, StatusOptimal},
		{"just under low grade", 1.8 - 1e-9, StatusLow},
		{"just over high grade", 2.5 + 1e-9, StatusHigh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.value, nitrogen))
		})
	}
}

func TestClassifyBoundsAcrossRanges(t *testing.T) {
	const eps = 1e-6
	for _, r := range []NutrientRange{
		{Nutrient: "Iron (Fe)", LowGrade: 50, HighGrade: 200, Unit: UnitPPM},
		{Nutrient: "Phosphorus (P)", LowGrade: 0.15, HighGrade: 0.25, Unit: UnitPercent},
		{Nutrient: "Negative", LowGrade: -3, HighGrade: -1, Unit: UnitMgPerKg},
	} {
		assert.Equal(t, StatusOptimal, Classify(r.LowGrade, r), r.Nutrient)
		assert.Equal(t, StatusOptimal, Classify(r.HighGrade, r), r.Nutrient)
		assert.Equal(t, StatusLow, Classify(r.LowGrade-eps, r), r.Nutrient)
		assert.Equal(t, StatusHigh, Classify(r.HighGrade+eps, r), r.Nutrient)
	}
}

func TestNewNutrientRange(t *testing.T) {
	r, err := NewNutrientRange("  Zinc (Zn) ", 15, 50, UnitPPM)
	require.NoError(t, err)
	assert.Equal(t, "Zinc (Zn)", r.Nutrient)

	_, err = NewNutrientRange("Zinc (Zn)", 50, 50, UnitPPM)
	assert.ErrorIs(t, err, ErrInvalidRange, "low grade must be strictly below high grade")

	_, err = NewNutrientRange("Zinc (Zn)", 60, 50, UnitPPM)
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = NewNutrientRange("", 1, 2, UnitPPM)
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = NewNutrientRange("Zinc (Zn)", 1, 2, Unit("g"))
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestStatusCounts(t *testing.T) {
	var c StatusCounts
	for _, s := range []Status{StatusOptimal, StatusOptimal, StatusLow, StatusHigh, StatusUnknown} {
		c.Add(s)
	}
	assert.Equal(t, StatusCounts{Optimal: 2, Low: 1, High: 1, Unknown: 1}, c)
}

func TestStoreClassifyAll(t *testing.T) {
	s := newDefaultStore(t)

	got, counts := s.ClassifyAll(sugarcaneLeaf, []Measurement{
		{Nutrient: "Nitrogen (N)", Value: 2.1},
		{Nutrient: " Zinc (Zn) ", Value: 12, Unit: "ppm"},
		{Nutrient: "Sulfur (S)", Value: 0.25},
		{Nutrient: "Molybdenum (Mo)", Value: 0.1, Unit: "ppm"},
	})
	require.Len(t, got, 4)
	assert.Equal(t, ClassifiedValue{Nutrient: "Nitrogen (N)", Value: 2.1, Unit: "%", Status: StatusOptimal}, got[0])
	assert.Equal(t, StatusLow, got[1].Status)
	assert.Equal(t, "Zinc (Zn)", got[1].Nutrient)
	assert.Equal(t, StatusHigh, got[2].Status)
	assert.Equal(t, StatusUnknown, got[3].Status, "missing range is unknown, not an error")
	assert.Equal(t, "ppm", got[3].Unit)
	assert.Equal(t, StatusCounts{Optimal: 1, Low: 1, High: 1, Unknown: 1}, counts)

	got, counts = s.ClassifyAll(CropPart{Crop: "Mango", PlantPart: "Leaf"}, []Measurement{{Nutrient: "Nitrogen (N)", Value: 1}})
	assert.Equal(t, StatusUnknown, got[0].Status)
	assert.Empty(t, got[0].Unit)
	assert.Equal(t, 1, counts.Unknown)
}
