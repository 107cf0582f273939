package middleware

import (
	"reflect"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/quentin418/clear-fashion/pkg/util"
)

type MetricsConfig struct {
	Skipper             Skipper
	Name                string
	NormalizeHTTPStatus bool
}

const notFoundPath = "/not-found"

var DefaultMetricsConfig = MetricsConfig{
	Skipper: func(c echo.Context) bool {
		return c.Path() == "/metrics"
	},
	Name: "http_request_duration_seconds",
}

func normalizeHTTPStatus(status int) string {
	switch {
	case status < 200:
		return "1xx"
	case status < 300:
		return "2xx"
	case status < 400:
		return "3xx"
	case status < 500:
		return "4xx"
	}
	return "5xx"
}

func isNotFoundHandler(handler echo.HandlerFunc) bool {
	return reflect.ValueOf(handler).Pointer() == reflect.ValueOf(echo.NotFoundHandler).Pointer()
}

// MetricsHandler exposes the default prometheus registry.
func MetricsHandler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}

func Metrics() echo.MiddlewareFunc {
	return MetricsWithConfig(DefaultMetricsConfig)
}

// MetricsWithConfig observes the latency of every request labelled by status
// code, method and route.
func MetricsWithConfig(config MetricsConfig) echo.MiddlewareFunc {
	if config.Skipper == nil {
		config.Skipper = DefaultSkipper
	}
	if config.Name == "" {
		config.Name = DefaultMetricsConfig.Name
	}
	httpMetrics, err := util.GetHistogramVec(config.Name, "code", "method", "path")
	if err != nil {
		panic(err)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if config.Skipper(c) {
				return next(c)
			}

			path := c.Path()
			// bounded cardinality for unknown routes
			if isNotFoundHandler(c.Handler()) {
				path = notFoundPath
			}

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := strconv.Itoa(c.Response().Status)
			if config.NormalizeHTTPStatus {
				status = normalizeHTTPStatus(c.Response().Status)
			}
			httpMetrics.WithLabelValues(status, c.Request().Method, path).Observe(time.Since(start).Seconds())

			return nil
		}
	}
}
