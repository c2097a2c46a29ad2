package controllerImp

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"agronomy/pkg/leaf"
	"agronomy/pkg/leaf/service"
)

type LeafCtrl struct {
	s     service.LeafService
	fetch *leaf.Fetcher
}

type importReq struct {
	service.IngestInput
	HTML string `json:"html"`
	URL  string `json:"url"`
}

func New(s service.LeafService, fetch *leaf.Fetcher) *LeafCtrl { return &LeafCtrl{s: s, fetch: fetch} }

func (h *LeafCtrl) Register(e *echo.Echo) {
	e.GET("/leaf-samples", h.List)
	e.POST("/leaf-samples", h.Create)
	e.POST("/leaf-samples/import", h.Import)
	e.GET("/leaf-samples/:id", h.Get)
}

func fail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, leaf.ErrUnknownSegment):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, leaf.ErrDomainNotAllowed):
		return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
	case errors.Is(err, leaf.ErrInvalidSample), errors.Is(err, leaf.ErrLabReport):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
}

func live(c echo.Context) bool {
	v, _ := strconv.ParseBool(c.QueryParam("live"))
	return v
}

func (h *LeafCtrl) List(c echo.Context) error {
	f := leaf.Filter{
		Crop:          c.QueryParam("crop"),
		Query:         c.QueryParam("q"),
		LandSegmentID: c.QueryParam("land_segment_id"),
	}
	if f.Crop == "all" {
		f.Crop = ""
	}
	out, err := h.s.List(f, live(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *LeafCtrl) Get(c echo.Context) error {
	out, err := h.s.Get(c.Param("id"), live(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *LeafCtrl) Create(c echo.Context) error {
	var req service.IngestInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad json"})
	}
	out, err := h.s.Ingest(req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

// Import takes a lab report as an uploaded file ("report"), inline HTML, or a
// URL on an allowed lab portal.
func (h *LeafCtrl) Import(c echo.Context) error {
	var (
		req    importReq
		report io.Reader
	)
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		req.LandSegmentID = c.FormValue("land_segment_id")
		req.SampleDate = c.FormValue("sample_date")
		req.Crop = c.FormValue("crop")
		req.PlantPart = c.FormValue("plant_part")
		fh, err := c.FormFile("report")
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "report file required"})
		}
		if fh.Size > h.fetch.MaxBytes {
			return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"error": "report too large"})
		}
		f, err := fh.Open()
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		defer f.Close()
		req.Source = fh.Filename
		report = f
	} else {
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad json"})
		}
		switch {
		case strings.TrimSpace(req.HTML) != "":
			report = strings.NewReader(req.HTML)
		case req.URL != "":
			b, err := h.fetch.Fetch(c.Request().Context(), req.URL)
			if errors.Is(err, leaf.ErrDomainNotAllowed) || errors.Is(err, leaf.ErrLabReport) {
				return fail(c, err)
			}
			if err != nil {
				return c.JSON(http.StatusBadGateway, echo.Map{"error": err.Error()})
			}
			if req.Source == "" {
				req.Source = req.URL
			}
			report = bytes.NewReader(b)
		default:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "html or url required"})
		}
	}
	out, err := h.s.ImportReport(req.IngestInput, report)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}
