package serviceImp

import (
	"bytes"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agronomy/pkg/logging"
	"agronomy/pkg/masterdata"
	"agronomy/pkg/masterdata/service"
	"agronomy/pkg/metrics"
)

var (
	sugarcaneLeaf      = masterdata.CropPart{Crop: "Sugarcane", PlantPart: "Leaf"}
	sugarcaneIrrigated = masterdata.CropCultivation{Crop: "Sugarcane", CultivationType: "Irrigated"}
)

func newService(t *testing.T) (service.MasterDataService, *metrics.Metrics) {
	t.Helper()
	doc, err := masterdata.DefaultDocument()
	require.NoError(t, err)
	store := masterdata.NewStore()
	require.NoError(t, store.Apply(doc))
	m := metrics.NewUnregistered()
	return NewMasterDataService(store, m, logging.Discard()), m
}

func TestLookupTopUpCountsOutcome(t *testing.T) {
	svc, m := newService(t)

	got, ok := svc.LookupTopUp(masterdata.Reading{Value: 420, Crop: "Sugarcane", CultivationType: "Irrigated"})
	require.True(t, ok)
	assert.Equal(t, 65, got)

	got, ok = svc.LookupTopUp(masterdata.Reading{Value: 420, Crop: "sugarcane", CultivationType: "irrigated"})
	require.True(t, ok, "names resolve case-insensitively")
	assert.Equal(t, 65, got)

	_, ok = svc.LookupTopUp(masterdata.Reading{Value: 1200, Crop: "Sugarcane", CultivationType: "Irrigated"})
	assert.False(t, ok)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Lookups.WithLabelValues("match")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Lookups.WithLabelValues("no_match")))
}

func TestBandEditsRequireCatalogKeys(t *testing.T) {
	svc, m := newService(t)

	_, err := svc.AddBandRow(masterdata.CropCultivation{Crop: "Rice", CultivationType: "Irrigated"},
		masterdata.BandRow{MinReading: 0, MaxReading: 10, TopUp: 5})
	assert.ErrorIs(t, err, masterdata.ErrNotInCatalog)

	tbl, err := svc.AddBandRow(masterdata.CropCultivation{Crop: "mango", CultivationType: "drip irrigation"},
		masterdata.BandRow{MinReading: 0, MaxReading: 400, TopUp: 60})
	require.NoError(t, err)
	assert.Equal(t, masterdata.CropCultivation{Crop: "Mango", CultivationType: "Drip Irrigation"}, tbl.CropCultivation)

	_, err = svc.EditBandRow(masterdata.CropCultivation{Crop: "Grapes", CultivationType: "Sprinkler"}, 0, masterdata.BandRow{})
	assert.ErrorIs(t, err, masterdata.ErrNotFound)

	tbl, err = svc.AddBandRow(sugarcaneIrrigated, masterdata.BandRow{MinReading: 380, MaxReading: 420, TopUp: 70})
	require.NoError(t, err)
	assert.NotEmpty(t, tbl.Overlaps, "overlap is reported, not rejected")

	_, err = svc.ReplaceBandTable(sugarcaneIrrigated, []masterdata.BandRow{{MinReading: 5, MaxReading: 1, TopUp: 1}})
	assert.ErrorIs(t, err, masterdata.ErrInvalidBand)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.BandEdits.WithLabelValues("add", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BandEdits.WithLabelValues("add", "rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BandEdits.WithLabelValues("replace", "rejected")))
}

func TestNutrientRangeEdits(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.NutrientRanges(masterdata.CropPart{Crop: "Mango", PlantPart: "Leaf"})
	assert.ErrorIs(t, err, masterdata.ErrNotFound)

	r, err := masterdata.NewNutrientRange("Nitrogen (N)", 1.0, 1.5, masterdata.UnitPercent)
	require.NoError(t, err)
	rs, err := svc.UpsertNutrientRange(masterdata.CropPart{Crop: "mango", PlantPart: "leaf"}, r)
	require.NoError(t, err)
	assert.Len(t, rs, 1)

	_, err = svc.UpsertNutrientRange(masterdata.CropPart{Crop: "Mango", PlantPart: "Flower"}, r)
	assert.ErrorIs(t, err, masterdata.ErrNotInCatalog)

	vals, counts := svc.Classify(masterdata.CropPart{Crop: "Mango", PlantPart: "Leaf"}, []masterdata.Measurement{{Nutrient: "Nitrogen (N)", Value: 2}})
	assert.Equal(t, masterdata.StatusHigh, vals[0].Status)
	assert.Equal(t, 1, counts.High)

	require.NoError(t, svc.DeleteNutrientRange(masterdata.CropPart{Crop: "Mango", PlantPart: "Leaf"}, "Nitrogen (N)"))
	_, err = svc.NutrientRanges(masterdata.CropPart{Crop: "Mango", PlantPart: "Leaf"})
	assert.ErrorIs(t, err, masterdata.ErrNotFound)

	rs, err = svc.NutrientRanges(sugarcaneLeaf)
	require.NoError(t, err)
	assert.Len(t, rs, 10)
}

func TestImportBands(t *testing.T) {
	svc, _ := newService(t)

	csv := "crop,cultivation_type,min_reading,max_reading,top_up\n" +
		"wheat,irrigated,0,500,50\n" +
		"Wheat,Irrigated,501,999,0\n"
	tables, err := svc.ImportBands("bands.csv", strings.NewReader(csv), "")
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, "Wheat", tables[0].Crop)
	assert.Len(t, tables[0].Bands, 2)

	got, ok := svc.LookupTopUp(masterdata.Reading{Value: 450, Crop: "Wheat", CultivationType: "Irrigated"})
	require.True(t, ok)
	assert.Equal(t, 50, got)

	_, err = svc.ImportBands("bands.csv", strings.NewReader("crop,cultivation_type,min_reading,max_reading,top_up\nRice,Paddy,0,1,1\n"), "")
	assert.ErrorIs(t, err, masterdata.ErrNotInCatalog)
}

func TestImportRanges(t *testing.T) {
	svc, _ := newService(t)

	csv := "Crop,Plant Part,Nutrient,Low Grade,High Grade,Unit\n" +
		"wheat,leaf,Nitrogen (N),2.5,4.0,%\n" +
		"Wheat,Leaf,Iron (Fe),25,100,ppm\n"
	tables, err := svc.ImportRanges("ranges.csv", strings.NewReader(csv), "")
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, masterdata.CropPart{Crop: "Wheat", PlantPart: "Leaf"}, tables[0].CropPart)
	assert.Len(t, tables[0].Ranges, 2)

	out, _ := svc.Classify(masterdata.CropPart{Crop: "Wheat", PlantPart: "Leaf"}, []masterdata.Measurement{{Nutrient: "Iron (Fe)", Value: 10}})
	assert.Equal(t, masterdata.StatusLow, out[0].Status)

	_, err = svc.ImportRanges("ranges.csv", strings.NewReader("crop,plant_part,nutrient,low_grade,high_grade\nRice,Leaf,N,1,2\n"), "")
	assert.ErrorIs(t, err, masterdata.ErrNotInCatalog)

	_, err = svc.ImportRanges("ranges.csv", strings.NewReader("crop,plant_part,nutrient,low_grade,high_grade\nWheat,Leaf,N,3,2\n"), "")
	assert.ErrorIs(t, err, masterdata.ErrInvalidRange)
	rs, err := svc.NutrientRanges(masterdata.CropPart{Crop: "Wheat", PlantPart: "Leaf"})
	require.NoError(t, err)
	assert.Len(t, rs, 2, "rejected import keeps the prior ranges")
}

func TestDocumentAndExport(t *testing.T) {
	svc, _ := newService(t)

	doc := svc.Document()
	assert.Len(t, doc.BandTables, 4)

	bad := *doc
	bad.Crops = nil
	assert.ErrorIs(t, svc.ReplaceDocument(&bad), masterdata.ErrNotInCatalog)
	assert.Len(t, svc.Catalog(masterdata.CatalogCrops), 6, "rejected document leaves the store untouched")

	var buf bytes.Buffer
	require.NoError(t, svc.ExportWorkbook(&buf))
	assert.NotZero(t, buf.Len())

	require.NoError(t, svc.AddCatalogEntry(masterdata.CatalogCrops, "Rice"))
	require.NoError(t, svc.RenameCatalogEntry(masterdata.CatalogCrops, "Rice", "Paddy Rice"))
	require.NoError(t, svc.RemoveCatalogEntry(masterdata.CatalogCrops, "Paddy Rice"))
	assert.ErrorIs(t, svc.RemoveCatalogEntry(masterdata.CatalogCrops, "Sugarcane"), masterdata.ErrInUse)
}
