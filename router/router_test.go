package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agronomy/database"
	healthCtrlImp "agronomy/pkg/health/controllerImp"
	hierCtrlImp "agronomy/pkg/hierarchy/controllerImp"
	hierRepoImp "agronomy/pkg/hierarchy/repositoryImp"
	hierServiceImp "agronomy/pkg/hierarchy/serviceImp"
	"agronomy/pkg/logging"
	"agronomy/pkg/masterdata"
	mdCtrlImp "agronomy/pkg/masterdata/controllerImp"
	mdServiceImp "agronomy/pkg/masterdata/serviceImp"
	"agronomy/pkg/metrics"
	ntCtrlImp "agronomy/pkg/ntester/controllerImp"
	ntRepoImp "agronomy/pkg/ntester/repositoryImp"
	ntServiceImp "agronomy/pkg/ntester/serviceImp"
)

func newApp(t *testing.T) *echo.Echo {
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
	return New(echo.New(), log, "a1", m.Registry(),
		healthCtrlImp.NewHealthCtrl(db, store),
		hierCtrlImp.New(hierServiceImp.NewHierarchyService(hierRepoImp.New(db))),
		mdCtrlImp.New(md),
		ntCtrlImp.New(ntServiceImp.NewNTesterService(ntRepoImp.New(db), md, m, log)),
	)
}

func get(e *echo.Echo, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestRouterServesControllersAndMetrics(t *testing.T) {
	e := newApp(t)

	assert.Equal(t, http.StatusOK, get(e, "/health").Code)

	rec := get(e, "/session")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"a1"`)

	rec = get(e, "/session?agronomist=a2")
	assert.Contains(t, rec.Body.String(), `"id":"a2"`)

	require.Equal(t, http.StatusOK, get(e, "/ntester/recommendation?reading=420&crop=Sugarcane&cultivation_type=Irrigated").Code)

	rec = get(e, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `agronomy_topup_lookups_total{outcome="match"} 1`), rec.Body.String())

	assert.Equal(t, http.StatusNotFound, get(e, "/fields/1").Code)
}
