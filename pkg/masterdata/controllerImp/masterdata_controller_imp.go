package controllerImp

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"agronomy/pkg/masterdata"
	"agronomy/pkg/masterdata/service"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type MasterDataCtrl struct {
	s        service.MasterDataService
	maxBytes int64
}

func New(s service.MasterDataService) *MasterDataCtrl {
	return &MasterDataCtrl{s: s, maxBytes: 10 << 20}
}

func (h *MasterDataCtrl) Register(e *echo.Echo) {
	g := e.Group("/master-data")
	g.GET("", h.Get)
	g.PUT("", h.Put)
	g.GET("/export", h.Export)
	g.POST("/bands/import", h.ImportBands)
	g.POST("/ranges/import", h.ImportRanges)

	g.GET("/catalogs/:kind", h.ListCatalog)
	g.POST("/catalogs/:kind", h.AddCatalogEntry)
	g.PUT("/catalogs/:kind/:name", h.RenameCatalogEntry)
	g.DELETE("/catalogs/:kind/:name", h.RemoveCatalogEntry)

	g.GET("/ranges/:crop/:part", h.ListRanges)
	g.PUT("/ranges/:crop/:part", h.ReplaceRanges)
	g.POST("/ranges/:crop/:part", h.UpsertRange)
	g.DELETE("/ranges/:crop/:part/:nutrient", h.DeleteRange)

	g.GET("/bands/:crop/:cultivation", h.GetBands)
	g.PUT("/bands/:crop/:cultivation", h.ReplaceBands)
	g.POST("/bands/:crop/:cultivation", h.AddBand)
	g.PUT("/bands/:crop/:cultivation/:index", h.EditBand)
	g.DELETE("/bands/:crop/:cultivation/:index", h.DeleteBand)

	e.POST("/classify", h.Classify)
}

// param unescapes a path segment; names such as "Drip Irrigation" or
// "Nitrogen (N)" arrive percent-encoded.
func param(c echo.Context, name string) string {
	v := c.Param(name)
	if u, err := url.PathUnescape(v); err == nil {
		return u
	}
	return v
}

func cropPart(c echo.Context) masterdata.CropPart {
	return masterdata.CropPart{Crop: param(c, "crop"), PlantPart: param(c, "part")}
}

func cropCultivation(c echo.Context) masterdata.CropCultivation {
	return masterdata.CropCultivation{Crop: param(c, "crop"), CultivationType: param(c, "cultivation")}
}

// fail maps master data errors onto HTTP statuses.
func fail(c echo.Context, err error) error {
	var verr *masterdata.ValidationError
	switch {
	case errors.As(err, &verr):
		body := echo.Map{"error": err.Error(), "row": verr.Row}
		if verr.Line > 0 {
			body["line"] = verr.Line
		}
		return c.JSON(http.StatusUnprocessableEntity, body)
	case errors.Is(err, masterdata.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, masterdata.ErrDuplicate), errors.Is(err, masterdata.ErrInUse):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, masterdata.ErrInvalidBand), errors.Is(err, masterdata.ErrInvalidRange),
		errors.Is(err, masterdata.ErrNotInCatalog), errors.Is(err, masterdata.ErrRowIndex):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	case errors.Is(err, masterdata.ErrImport):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
}

// ---- whole document ----

func (h *MasterDataCtrl) Get(c echo.Context) error {
	if strings.Contains(c.Request().Header.Get(echo.HeaderAccept), "yaml") {
		var buf bytes.Buffer
		if err := masterdata.EncodeDocument(&buf, h.s.Document()); err != nil {
			return fail(c, err)
		}
		return c.Blob(http.StatusOK, "application/yaml", buf.Bytes())
	}
	return c.JSON(http.StatusOK, h.s.Document())
}

// Put replaces all master data. YAML bodies use the seed file format; anything
// else is read as JSON.
func (h *MasterDataCtrl) Put(c echo.Context) error {
	var doc *masterdata.Document
	if strings.Contains(c.Request().Header.Get(echo.HeaderContentType), "yaml") {
		d, err := masterdata.DecodeDocument(http.MaxBytesReader(c.Response(), c.Request().Body, h.maxBytes))
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		doc = d
	} else {
		doc = &masterdata.Document{}
		if err := c.Bind(doc); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid json"})
		}
	}
	if err := h.s.ReplaceDocument(doc); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, h.s.Document())
}

func (h *MasterDataCtrl) Export(c echo.Context) error {
	var buf bytes.Buffer
	if err := h.s.ExportWorkbook(&buf); err != nil {
		return fail(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="master-data.xlsx"`)
	return c.Blob(http.StatusOK, xlsxMIME, buf.Bytes())
}

// ImportBands takes a multipart "file" field holding a CSV or XLSX sheet.
func (h *MasterDataCtrl) ImportBands(c echo.Context) error {
	return h.importFile(c, masterdata.SheetBands, func(name string, r io.Reader, sheet string) (any, error) {
		return h.s.ImportBands(name, r, sheet)
	})
}

// ImportRanges takes the same upload as ImportBands, read from the
// nutrient range sheet of a workbook.
func (h *MasterDataCtrl) ImportRanges(c echo.Context) error {
	return h.importFile(c, masterdata.SheetRanges, func(name string, r io.Reader, sheet string) (any, error) {
		return h.s.ImportRanges(name, r, sheet)
	})
}

func (h *MasterDataCtrl) importFile(c echo.Context, defaultSheet string, load func(string, io.Reader, string) (any, error)) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file is required"})
	}
	if fh.Size > h.maxBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"error": "file too large"})
	}
	f, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	defer f.Close()

	sheet := c.FormValue("sheet")
	if sheet == "" {
		sheet = defaultSheet
	}
	tables, err := load(fh.Filename, f, sheet)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"imported": tables})
}

// ---- catalogs ----

type catalogReq struct {
	Name string `json:"name"`
}

func (h *MasterDataCtrl) ListCatalog(c echo.Context) error {
	kind, err := masterdata.ParseCatalogKind(c.Param("kind"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, h.s.Catalog(kind))
}

func (h *MasterDataCtrl) AddCatalogEntry(c echo.Context) error {
	kind, err := masterdata.ParseCatalogKind(c.Param("kind"))
	if err != nil {
		return fail(c, err)
	}
	var req catalogReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid json"})
	}
	if err := h.s.AddCatalogEntry(kind, req.Name); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, h.s.Catalog(kind))
}

func (h *MasterDataCtrl) RenameCatalogEntry(c echo.Context) error {
	kind, err := masterdata.ParseCatalogKind(c.Param("kind"))
	if err != nil {
		return fail(c, err)
	}
	var req catalogReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid json"})
	}
	if err := h.s.RenameCatalogEntry(kind, param(c, "name"), req.Name); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, h.s.Catalog(kind))
}

func (h *MasterDataCtrl) RemoveCatalogEntry(c echo.Context) error {
	kind, err := masterdata.ParseCatalogKind(c.Param("kind"))
	if err != nil {
		return fail(c, err)
	}
	if err := h.s.RemoveCatalogEntry(kind, param(c, "name")); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ---- nutrient ranges ----

func (h *MasterDataCtrl) ListRanges(c echo.Context) error {
	rs, err := h.s.NutrientRanges(cropPart(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, rs)
}

func (h *MasterDataCtrl) ReplaceRanges(c echo.Context) error {
	var req []masterdata.NutrientRange
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid json"})
	}
	rs, err := h.s.ReplaceNutrientRanges(cropPart(c), req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, rs)
}

func (h *MasterDataCtrl) UpsertRange(c echo.Context) error {
	var req masterdata.NutrientRange
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid json"})
	}
	rs, err := h.s.UpsertNutrientRange(cropPart(c), req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, rs)
}

func (h *MasterDataCtrl) DeleteRange(c echo.Context) error {
	if err := h.s.DeleteNutrientRange(cropPart(c), param(c, "nutrient")); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ---- band tables ----

func (h *MasterDataCtrl) GetBands(c echo.Context) error {
	t, err := h.s.BandTable(cropCultivation(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *MasterDataCtrl) ReplaceBands(c echo.Context) error {
	var req []masterdata.BandRow
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid json"})
	}
	t, err := h.s.ReplaceBandTable(cropCultivation(c), req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *MasterDataCtrl) AddBand(c echo.Context) error {
	var req masterdata.BandRow
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid json"})
	}
	t, err := h.s.AddBandRow(cropCultivation(c), req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *MasterDataCtrl) EditBand(c echo.Context) error {
	idx, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid index"})
	}
	var req masterdata.BandRow
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid json"})
	}
	t, err := h.s.EditBandRow(cropCultivation(c), idx, req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *MasterDataCtrl) DeleteBand(c echo.Context) error {
	idx, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid index"})
	}
	t, err := h.s.DeleteBandRow(cropCultivation(c), idx)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

// ---- classification ----

type classifyReq struct {
	Crop      string                   `json:"crop"`
	PlantPart string                   `json:"plant_part"`
	Values    []masterdata.Measurement `json:"values"`
}

// Classify is a preview; nothing is stored.
func (h *MasterDataCtrl) Classify(c echo.Context) error {
	var req classifyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid json"})
	}
	if req.Crop == "" || req.PlantPart == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "crop and plant_part are required"})
	}
	vals, counts := h.s.Classify(masterdata.CropPart{Crop: req.Crop, PlantPart: req.PlantPart}, req.Values)
	return c.JSON(http.StatusOK, echo.Map{"values": vals, "counts": counts})
}
