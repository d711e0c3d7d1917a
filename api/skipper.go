package api

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func RouteSkipper(routes []string) middleware.Skipper {
	routesMap := map[string]struct{}{}
	for _, route := range routes {
		routesMap[route] = struct{}{}
	}

	return func(ec echo.Context) bool {
		_, ok := routesMap[ec.Path()]
		return ok
	}
}

// PrefixSkipper skips every request whose path is outside of prefix
func PrefixSkipper(prefix string) middleware.Skipper {
	return func(ec echo.Context) bool {
		return !strings.HasPrefix(ec.Request().URL.Path, prefix)
	}
}

// WithSkipper applies m only to the requests that skipper does not skip
func WithSkipper(m echo.MiddlewareFunc, skipper middleware.Skipper) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		wrapped := m(next)
		return func(c echo.Context) error {
			if skipper(c) {
				return next(c)
			}
			return wrapped(c)
		}
	}
}
