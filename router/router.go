package router

import (
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"agronomy/pkg/middleware"
)

// Registrar is implemented by every controller.
type Registrar interface{ Register(e *echo.Echo) }

func New(
	e *echo.Echo,
	log logrus.FieldLogger,
	defaultAgronomist string,
	registry *prometheus.Registry,
	ctrls ...Registrar,
) *echo.Echo {
	e.HideBanner = true
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.Session(defaultAgronomist))
	e.Use(middleware.RequestLogger(log))

	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	for _, c := range ctrls {
		c.Register(e)
	}
	return e
}
