package controllerImp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agronomy/database"
	"agronomy/pkg/logging"
	"agronomy/pkg/masterdata"
	mdServiceImp "agronomy/pkg/masterdata/serviceImp"
	"agronomy/pkg/metrics"
	"agronomy/pkg/ntester"
	"agronomy/pkg/ntester/repositoryImp"
	"agronomy/pkg/ntester/serviceImp"
)

func newServer(t *testing.T) *echo.Echo {
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
	e := echo.New()
	New(serviceImp.NewNTesterService(repositoryImp.New(db), md, m, log)).Register(e)
	return e
}

func serve(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRecommendationEndpoint(t *testing.T) {
	e := newServer(t)

	rec := serve(e, http.MethodGet, "/ntester/recommendation?reading=520&crop=Sugarcane&cultivation_type=Rainfed", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var out ntester.Recommendation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.NotNil(t, out.TopUp)
	assert.Equal(t, 30, *out.TopUp)
	assert.Equal(t, ntester.UrgencyLow, out.Urgency)

	rec = serve(e, http.MethodGet, "/ntester/recommendation?reading=1200&crop=Sugarcane&cultivation_type=Irrigated", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"top_up":null`)

	rec = serve(e, http.MethodGet, "/ntester/recommendation?reading=4.5&crop=Sugarcane&cultivation_type=Irrigated", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code, "integer readings only")
}

func TestReadingsEndpoints(t *testing.T) {
	e := newServer(t)

	rec := serve(e, http.MethodPost, "/ntester/readings", `{"land_segment_id":"ls5","reading":340,"reading_date":"2024-02-02"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created ntester.ReadingView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotNil(t, created.RecommendedTopUp)
	assert.Equal(t, 90, *created.RecommendedTopUp)
	assert.Equal(t, ntester.UrgencyUrgent, created.Urgency)

	rec = serve(e, http.MethodPost, "/ntester/readings", `{"land_segment_id":"zz","reading":340}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(e, http.MethodGet, "/ntester/readings?crop=Wheat", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []ntester.ReadingView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 3)

	rec = serve(e, http.MethodGet, "/ntester/stats?crop=all", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var st ntester.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.Equal(t, 6, st.Count)
	assert.Equal(t, 2, st.Urgent)

	rec = serve(e, http.MethodGet, "/ntester/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "ntester-readings.xlsx")
}
