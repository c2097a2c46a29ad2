package controllerImp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agronomy/database"
	"agronomy/pkg/logging"
	"agronomy/pkg/masterdata"
)

type healthBody struct {
	Status struct {
		OK bool `json:"ok"`
	} `json:"status"`
	Checks struct {
		Database   sub            `json:"database"`
		MasterData map[string]int `json:"master_data"`
	} `json:"checks"`
}

func check(t *testing.T, h *HealthCtrl) (int, healthBody) {
	t.Helper()
	e := echo.New()
	h.Register(e)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	var body healthBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestHealth(t *testing.T) {
	db, err := database.OpenSQLite(":memory:", logging.Discard())
	require.NoError(t, err)
	doc, err := masterdata.DefaultDocument()
	require.NoError(t, err)
	store := masterdata.NewStore()
	require.NoError(t, store.Apply(doc))

	code, body := check(t, NewHealthCtrl(db, store))
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, body.Status.OK)
	assert.True(t, body.Checks.Database.OK)
	assert.Equal(t, map[string]int{"crops": 6, "nutrient_ranges": 3, "band_tables": 4}, body.Checks.MasterData)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
	code, body = check(t, NewHealthCtrl(db, masterdata.NewStore()))
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.False(t, body.Checks.Database.OK)
	assert.Equal(t, 0, body.Checks.MasterData["band_tables"])
}
