package middleware

import (
	"net/http"
	"regexp"

	"github.com/labstack/echo/v4"
)

// CORS allows the origins matching pattern. The catalog is read-only, so
// only safe methods are announced on preflight.
func CORS(pattern *regexp.Regexp) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Response().Header()
			header.Add(echo.HeaderVary, echo.HeaderOrigin)

			origin := c.Request().Header.Get(echo.HeaderOrigin)
			if origin == "" || !pattern.MatchString(origin) {
				return next(c)
			}
			header.Set(echo.HeaderAccessControlAllowOrigin, origin)
			header.Set(echo.HeaderAccessControlExposeHeaders, XRequestID)
			if c.Request().Method == http.MethodOptions {
				header.Set(echo.HeaderAccessControlAllowHeaders, "*")
				header.Set(echo.HeaderAccessControlAllowMethods, "OPTIONS, GET, HEAD")
				return c.NoContent(http.StatusNoContent)
			}
			return next(c)
		}
	}
}
