package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// RequestLogger logs one entry per request with its status and latency.
func RequestLogger(log logrus.FieldLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			req := c.Request()
			entry := log.WithFields(logrus.Fields{
				"method":  req.Method,
				"path":    req.URL.Path,
				"status":  c.Response().Status,
				"latency": time.Since(start).String(),
			})
			if id := AgronomistID(c); id != "" {
				entry = entry.WithField("agronomist", id)
			}
			switch s := c.Response().Status; {
			case s >= 500:
				entry.WithError(err).Error("request failed")
			case s >= 400:
				entry.Warn("request rejected")
			default:
				entry.Debug("request")
			}
			return nil
		}
	}
}
