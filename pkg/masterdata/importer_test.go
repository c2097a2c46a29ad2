package masterdata

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bandsCSV = "\uFEFFCrop, Cultivation Type, Min Reading, Max Reading, N Top-up (kg N/ha)\n" +
	"Sugarcane,Irrigated,401,450,65\n" +
	"Sugarcane,Irrigated,0,400,80\n" +
	",,,,\n" +
	"Cotton,Rainfed,0,320,85\n"

func TestParseBandRecordsCSV(t *testing.T) {
	recs, err := ReadRecords("bands.csv", strings.NewReader(bandsCSV), "")
	require.NoError(t, err)

	tables, order, err := ParseBandRecords(recs)
	require.NoError(t, err)
	assert.Equal(t, []CropCultivation{
		{Crop: "Sugarcane", CultivationType: "Irrigated"},
		{Crop: "Cotton", CultivationType: "Rainfed"},
	}, order)
	assert.Equal(t, []BandRow{{401, 450, 65}, {0, 400, 80}}, tables[order[0]], "rows keep file order until normalised")
	assert.Equal(t, []BandRow{{0, 320, 85}}, tables[order[1]])
}

func TestParseBandRecordsErrors(t *testing.T) {
	_, _, err := ParseBandRecords(nil)
	assert.ErrorIs(t, err, ErrImport)

	_, _, err = ParseBandRecords([][]string{{"crop", "min", "max"}})
	assert.ErrorIs(t, err, ErrImport)

	_, _, err = ParseBandRecords([][]string{
		{"crop", "cultivation", "min", "max", "topup"},
		{"Wheat", "Irrigated", "0", "3.5e2", "90"},
	})
	require.ErrorIs(t, err, ErrImport)
	assert.Contains(t, err.Error(), "line 2")

	_, _, err = ParseBandRecords([][]string{
		{"crop", "cultivation_type", "min_reading", "max_reading", "top_up"},
		{"Sugarcane", "Irrigated", "0", "400", "80"},
		{"Wheat", "Irrigated", "0", "350", "90"},
		{"Sugarcane", "Irrigated", "401", "450", "65"},
		{"Wheat", "Irrigated", "500", "400", "75"},
	})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, 5, verr.Line, "file line, header included")
	assert.Equal(t, 1, verr.Row, "position inside the Wheat/Irrigated table")
	assert.Contains(t, err.Error(), "line 5")
	assert.ErrorIs(t, err, ErrInvalidBand)

	_, err = ReadRecords("bands.json", strings.NewReader("{}"), "")
	assert.ErrorIs(t, err, ErrImport)
}

func TestParseRangeRecords(t *testing.T) {
	recs := [][]string{
		{"Crop", "Plant Part", "Nutrient", "Low Grade", "High Grade", "Unit"},
		{"Wheat", "Leaf", "Nitrogen (N)", "2.5", "4.0", "%"},
		{"Wheat", "Leaf", "Iron (Fe)", "25", "100", "ppm"},
		{"Wheat", "Stem", "Boron (B)", "5", "25", ""},
	}
	tables, order, err := ParseRangeRecords(recs)
	require.NoError(t, err)
	require.Len(t, order, 2)
	assert.Len(t, tables[CropPart{Crop: "Wheat", PlantPart: "Leaf"}], 2)
	assert.Equal(t, UnitPercent, tables[CropPart{Crop: "Wheat", PlantPart: "Stem"}][0].Unit)

	recs[1][3] = "5"
	_, _, err = ParseRangeRecords(recs)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestWorkbookRoundTrip(t *testing.T) {
	s := newDefaultStore(t)
	snap := s.Snapshot()

	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, snap))
	raw := buf.Bytes()

	recs, err := ReadRecords("master.xlsx", bytes.NewReader(raw), SheetBands)
	require.NoError(t, err)
	bands, order, err := ParseBandRecords(recs)
	require.NoError(t, err)
	require.Len(t, order, len(snap.BandTables))
	for _, bt := range snap.BandTables {
		assert.Equal(t, bt.Bands, bands[bt.CropCultivation], bt.CropCultivation.String())
	}

	recs, err = ReadRecords("master.xlsx", bytes.NewReader(raw), SheetRanges)
	require.NoError(t, err)
	ranges, _, err := ParseRangeRecords(recs)
	require.NoError(t, err)
	for _, rt := range snap.NutrientRanges {
		assert.Equal(t, rt.Ranges, ranges[rt.CropPart], rt.CropPart.String())
	}

	recs, err = ReadRecords("master.xlsx", bytes.NewReader(raw), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Crop", "Plant Part", "Cultivation Type"}, recs[0], "first sheet holds the catalogs")
}
