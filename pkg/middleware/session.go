package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const (
	SessionCookie = "AGRONOMIST_ID"
	SessionKey    = "agronomist_id"
)

// Session picks the acting agronomist from the ?agronomist= query parameter or
// the session cookie, falling back to defaultID. There is no authentication.
func Session(defaultID string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := ""
			if q := c.QueryParam("agronomist"); q != "" {
				id = q
				c.SetCookie(&http.Cookie{Name: SessionCookie, Value: id, Path: "/"})
			} else if ck, err := c.Cookie(SessionCookie); err == nil && ck.Value != "" {
				id = ck.Value
			} else {
				id = defaultID
				c.SetCookie(&http.Cookie{Name: SessionCookie, Value: id, Path: "/"})
			}
			c.Set(SessionKey, id)
			return next(c)
		}
	}
}

// AgronomistID returns the id stored by Session, or "" outside it.
func AgronomistID(c echo.Context) string {
	id, _ := c.Get(SessionKey).(string)
	return id
}
