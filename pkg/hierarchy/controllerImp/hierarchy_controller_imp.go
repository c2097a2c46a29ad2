package controllerImp

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"agronomy/pkg/hierarchy/service"
	"agronomy/pkg/middleware"
)

type HierarchyCtrl struct{ s service.HierarchyService }

func New(s service.HierarchyService) *HierarchyCtrl { return &HierarchyCtrl{s} }

func (h *HierarchyCtrl) Register(e *echo.Echo) {
	e.GET("/session", h.Session)
	e.GET("/me/land-owners", h.MyLandOwners)
	e.GET("/dashboard", h.Dashboard)

	e.GET("/countries", h.Countries)
	e.GET("/countries/:id/regions", h.Regions)
	e.GET("/regions/:id/agronomists", h.Agronomists)
	e.GET("/agronomists/:id/land-owners", h.LandOwners)
	e.GET("/land-owners/:id/land-segments", h.LandSegments)
	e.GET("/land-segments/:id", h.LandSegment)
	e.GET("/land-segments/:id/breadcrumb", h.Breadcrumb)

	e.GET("/land-owners", h.SearchLandOwners)
	e.GET("/land-segments", h.SearchSegments)
}

func respond(c echo.Context, v any, err error) error {
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, v)
}

func (h *HierarchyCtrl) Session(c echo.Context) error {
	a, err := h.s.Agronomist(middleware.AgronomistID(c))
	return respond(c, a, err)
}

func (h *HierarchyCtrl) MyLandOwners(c echo.Context) error {
	out, err := h.s.LandOwners(middleware.AgronomistID(c))
	return respond(c, out, err)
}

func (h *HierarchyCtrl) Dashboard(c echo.Context) error {
	out, err := h.s.Dashboard()
	return respond(c, out, err)
}

func (h *HierarchyCtrl) Countries(c echo.Context) error {
	out, err := h.s.Countries()
	return respond(c, out, err)
}

func (h *HierarchyCtrl) Regions(c echo.Context) error {
	out, err := h.s.Regions(c.Param("id"))
	return respond(c, out, err)
}

func (h *HierarchyCtrl) Agronomists(c echo.Context) error {
	out, err := h.s.Agronomists(c.Param("id"))
	return respond(c, out, err)
}

func (h *HierarchyCtrl) LandOwners(c echo.Context) error {
	out, err := h.s.LandOwners(c.Param("id"))
	return respond(c, out, err)
}

func (h *HierarchyCtrl) LandSegments(c echo.Context) error {
	out, err := h.s.LandSegments(c.Param("id"))
	return respond(c, out, err)
}

func (h *HierarchyCtrl) LandSegment(c echo.Context) error {
	out, err := h.s.LandSegment(c.Param("id"))
	return respond(c, out, err)
}

func (h *HierarchyCtrl) Breadcrumb(c echo.Context) error {
	out, err := h.s.Breadcrumb(c.Param("id"))
	return respond(c, out, err)
}

func (h *HierarchyCtrl) SearchLandOwners(c echo.Context) error {
	out, err := h.s.SearchLandOwners(c.QueryParam("q"))
	return respond(c, out, err)
}

func (h *HierarchyCtrl) SearchSegments(c echo.Context) error {
	out, err := h.s.SearchSegments(c.QueryParam("q"))
	return respond(c, out, err)
}
