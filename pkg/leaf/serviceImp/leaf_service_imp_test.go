package serviceImp

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"agronomy/database"
	"agronomy/pkg/leaf"
	"agronomy/pkg/leaf/repositoryImp"
	"agronomy/pkg/leaf/service"
	"agronomy/pkg/logging"
	"agronomy/pkg/masterdata"
	mdService "agronomy/pkg/masterdata/service"
	mdServiceImp "agronomy/pkg/masterdata/serviceImp"
	"agronomy/pkg/metrics"
)

type fixture struct {
	svc     *leafSvc
	md      mdService.MasterDataService
	metrics *metrics.Metrics
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	log := logging.Discard()
	db, err := database.OpenSQLite(":memory:", log)
	require.NoError(t, err)
	doc, err := masterdata.DefaultDocument()
	require.NoError(t, err)
	store := masterdata.NewStore()
	require.NoError(t, store.Apply(doc))
	require.NoError(t, database.SeedDemo(db, store, log))

	m := metrics.NewUnregistered()
	md := mdServiceImp.NewMasterDataService(store, m, log)
	svc := NewLeafService(repositoryImp.New(db), md, m, log).(*leafSvc)
	svc.now = func() time.Time { return time.Date(2024, 2, 3, 9, 0, 0, 0, time.UTC) }
	return fixture{svc: svc, md: md, metrics: m}
}

func TestIngestClassifiesOnce(t *testing.T) {
	f := newFixture(t)

	got, err := f.svc.Ingest(service.IngestInput{
		LandSegmentID: "ls1",
		Values: []masterdata.Measurement{
			{Nutrient: " Nitrogen (N) ", Value: 1.2},
			{Nutrient: "Molybdenum (Mo)", Value: 0.1, Unit: "ppm"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Sugarcane", got.Crop, "crop defaults to the segment's")
	assert.Equal(t, leaf.DefaultPlantPart, got.PlantPart)
	assert.Equal(t, "2024-02-03", got.SampleDate)
	assert.Equal(t, "North Field - Block A", got.SegmentName)
	assert.Equal(t, "analyzed", got.Status)
	require.Len(t, got.Nutrients, 2)
	assert.Equal(t, "Nitrogen (N)", got.Nutrients[0].Nutrient)
	assert.Equal(t, "%", got.Nutrients[0].Unit, "unit comes from the range")
	assert.Equal(t, "low", got.Nutrients[0].Status)
	assert.Equal(t, "unknown", got.Nutrients[1].Status)
	assert.Equal(t, masterdata.StatusCounts{Low: 1, Unknown: 1}, got.Counts)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.SamplesTotal))

	stored, err := f.svc.Get(got.ID, false)
	require.NoError(t, err)
	assert.Equal(t, got.Nutrients[0].Status, stored.Nutrients[0].Status)
	assert.Equal(t, "Molybdenum (Mo)", stored.Nutrients[1].Nutrient, "values keep their order")

	empty, err := f.svc.Ingest(service.IngestInput{LandSegmentID: "ls3", SampleDate: "2024-02-01"})
	require.NoError(t, err)
	assert.Equal(t, "pending", empty.Status)
}

func TestIngestRejects(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Ingest(service.IngestInput{LandSegmentID: "nope"})
	assert.ErrorIs(t, err, leaf.ErrUnknownSegment)

	_, err = f.svc.Ingest(service.IngestInput{LandSegmentID: "ls1", SampleDate: "03/02/2024"})
	assert.ErrorIs(t, err, leaf.ErrInvalidSample)

	_, err = f.svc.Ingest(service.IngestInput{LandSegmentID: "ls1", Values: []masterdata.Measurement{
		{Nutrient: "Zinc (Zn)", Value: 10}, {Nutrient: "zinc (zn)", Value: 11},
	}})
	assert.ErrorIs(t, err, leaf.ErrInvalidSample)

	_, err = f.svc.Ingest(service.IngestInput{LandSegmentID: "ls1", Values: []masterdata.Measurement{{Nutrient: "Zinc (Zn)", Value: -1}}})
	assert.ErrorIs(t, err, leaf.ErrInvalidSample)

	_, err = f.svc.Get("missing", false)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestLiveViewDoesNotRewriteStoredStatus(t *testing.T) {
	f := newFixture(t)

	before, err := f.svc.Get("sample1", true)
	require.NoError(t, err)
	want := masterdata.StatusCounts{Optimal: 7, Low: 2, High: 1}
	assert.Equal(t, want, before.Counts)
	require.NotNil(t, before.LiveCounts)
	assert.Equal(t, want, *before.LiveCounts)

	p, err := masterdata.NewNutrientRange("Phosphorus (P)", 0.1, 0.25, masterdata.UnitPercent)
	require.NoError(t, err)
	_, err = f.md.UpsertNutrientRange(masterdata.CropPart{Crop: "Sugarcane", PlantPart: "Leaf"}, p)
	require.NoError(t, err)

	after, err := f.svc.Get("sample1", true)
	require.NoError(t, err)
	assert.Equal(t, want, after.Counts, "stored snapshot is unchanged")
	assert.Equal(t, "low", after.Nutrients[1].Status)
	assert.Equal(t, masterdata.StatusOptimal, after.Live[1].Status)
	assert.Equal(t, masterdata.StatusCounts{Optimal: 8, Low: 1, High: 1}, *after.LiveCounts)

	plain, err := f.svc.Get("sample1", false)
	require.NoError(t, err)
	assert.Nil(t, plain.Live)
	assert.Nil(t, plain.LiveCounts)
	assert.Equal(t, "low", plain.Nutrients[1].Status)
}

func TestList(t *testing.T) {
	f := newFixture(t)

	all, err := f.svc.List(leaf.Filter{}, false)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"sample3", "sample2", "sample1"}, []string{all[0].ID, all[1].ID, all[2].ID})
	assert.Equal(t, "Wheat Field Alpha", all[0].SegmentName)
	assert.Len(t, all[0].Nutrients, 10)

	cotton, err := f.svc.List(leaf.Filter{Crop: "cotton"}, false)
	require.NoError(t, err)
	require.Len(t, cotton, 1)
	assert.Equal(t, "sample2", cotton[0].ID)

	north, err := f.svc.List(leaf.Filter{Query: "NORTH"}, true)
	require.NoError(t, err)
	require.Len(t, north, 1)
	assert.Equal(t, "sample1", north[0].ID)
	assert.Len(t, north[0].Live, 10)

	bySeg, err := f.svc.List(leaf.Filter{LandSegmentID: "ls5"}, false)
	require.NoError(t, err)
	assert.Len(t, bySeg, 1)
}

func TestImportReport(t *testing.T) {
	f := newFixture(t)
	report := `<table>
<tr><th>Nutrient</th><th>Value</th><th>Unit</th></tr>
<tr><td>Nitrogen (N)</td><td>2.1</td><td>%</td></tr>
<tr><td>Iron (Fe)</td><td>120</td><td>ppm</td></tr>
<tr><td>Zinc (Zn)</td><td>12</td><td>ppm</td></tr>
</table>`

	got, err := f.svc.ImportReport(service.IngestInput{LandSegmentID: "ls5", SampleDate: "2024-02-02"}, strings.NewReader(report))
	require.NoError(t, err)
	assert.Equal(t, "Wheat", got.Crop)
	assert.Equal(t, "lab-report", got.Source)
	assert.Equal(t, masterdata.StatusCounts{Low: 2, High: 1}, got.Counts)

	_, err = f.svc.ImportReport(service.IngestInput{LandSegmentID: "ls5"}, strings.NewReader("<table><tr><th>Nutrient</th><th>Value</th></tr></table>"))
	assert.ErrorIs(t, err, leaf.ErrLabReport)
}
