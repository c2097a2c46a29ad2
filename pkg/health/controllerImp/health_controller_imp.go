package controllerImp

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

var appStart = time.Now()

// ReferenceData is the part of the master-data store health looks at.
type ReferenceData interface {
	Counts() (crops, ranges, bands int)
}

type HealthCtrl struct {
	db  *gorm.DB
	ref ReferenceData
}

func NewHealthCtrl(db *gorm.DB, ref ReferenceData) *HealthCtrl { return &HealthCtrl{db: db, ref: ref} }

func (h *HealthCtrl) Register(e *echo.Echo) { e.GET("/health", h.Health) }

type sub struct {
	OK  bool   `json:"ok"`
	Err string `json:"err,omitempty"`
}

func (h *HealthCtrl) database(ctx context.Context) sub {
	if h.db == nil {
		return sub{Err: "gorm db is nil"}
	}
	sqlDB, err := h.db.DB()
	if err != nil {
		return sub{Err: "db.DB(): " + err.Error()}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return sub{Err: "ping: " + err.Error()}
	}
	return sub{OK: true}
}

// Health is 503 when the record store is unreachable. Empty reference tables
// are reported but do not fail the check.
func (h *HealthCtrl) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 800*time.Millisecond)
	defer cancel()

	db := h.database(ctx)
	crops, ranges, bands := h.ref.Counts()
	status := http.StatusOK
	if !db.OK {
		status = http.StatusServiceUnavailable
	}

	return c.JSON(status, map[string]any{
		"status":     map[string]any{"ok": db.OK},
		"uptime_sec": int(time.Since(appStart).Seconds()),
		"checks": map[string]any{
			"database": db,
			"master_data": map[string]any{
				"crops":           crops,
				"nutrient_ranges": ranges,
				"band_tables":     bands,
			},
		},
		"time": time.Now().Format(time.RFC3339),
	})
}
