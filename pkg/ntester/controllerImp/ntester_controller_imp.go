package controllerImp

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"agronomy/pkg/ntester"
	"agronomy/pkg/ntester/service"
)

type NTesterCtrl struct{ s service.NTesterService }

func New(s service.NTesterService) *NTesterCtrl { return &NTesterCtrl{s} }

func (h *NTesterCtrl) Register(e *echo.Echo) {
	g := e.Group("/ntester")
	g.GET("/recommendation", h.Recommendation)
	g.GET("/readings", h.List)
	g.POST("/readings", h.Create)
	g.GET("/stats", h.Stats)
	g.GET("/export", h.Export)
}

func filter(c echo.Context) ntester.Filter {
	f := ntester.Filter{
		Crop:          c.QueryParam("crop"),
		Query:         c.QueryParam("q"),
		LandSegmentID: c.QueryParam("land_segment_id"),
	}
	if f.Crop == "all" {
		f.Crop = ""
	}
	return f
}

// Recommendation previews the top-up for a reading without storing anything.
func (h *NTesterCtrl) Recommendation(c echo.Context) error {
	reading, err := strconv.Atoi(c.QueryParam("reading"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "reading must be a whole number"})
	}
	crop, cult := c.QueryParam("crop"), c.QueryParam("cultivation_type")
	if crop == "" || cult == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "crop and cultivation_type are required"})
	}
	return c.JSON(http.StatusOK, h.s.Recommend(reading, crop, cult))
}

func (h *NTesterCtrl) Create(c echo.Context) error {
	var req service.RecordInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad json"})
	}
	out, err := h.s.Record(req)
	switch {
	case errors.Is(err, ntester.ErrUnknownSegment):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, ntester.ErrInvalidReading):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *NTesterCtrl) List(c echo.Context) error {
	out, err := h.s.List(filter(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, out)
}

func (h *NTesterCtrl) Stats(c echo.Context) error {
	out, err := h.s.Stats(filter(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, out)
}

func (h *NTesterCtrl) Export(c echo.Context) error {
	var buf bytes.Buffer
	if err := h.s.Export(&buf, filter(c)); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="ntester-readings.xlsx"`)
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
