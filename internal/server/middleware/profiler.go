package middleware

import (
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"
	"gopkg.in/alexcesaro/statsd.v2"
)

type ProfilerConfig struct {
	Log     Logger
	Skipper Skipper
	Address string
	Service string
}

// Profiler sends a timing per request to statsd as
// response.<service>.<method>.<route>.<status>.
func Profiler(config ProfilerConfig) (echo.MiddlewareFunc, *statsd.Client, error) {
	if config.Skipper == nil {
		config.Skipper = DefaultSkipper
	}
	if config.Address == "" {
		config.Address = ":8125"
	}
	if config.Service == "" {
		config.Service = "clear-fashion"
	}

	client, err := statsd.New(statsd.Address(config.Address))
	if err != nil {
		return nil, nil, fmt.Errorf("statsd client: %w", err)
	}

	mw := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if config.Skipper(c) {
				return next(c)
			}

			t := client.NewTiming()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			bucket := strings.ToLower(fmt.Sprintf("response.%s.%s.%s.%d",
				config.Service, c.Request().Method, c.Path(), c.Response().Status))
			if config.Log != nil {
				config.Log.Debugw("statsd timing", "bucket", bucket)
			}
			t.Send(bucket)
			return nil
		}
	}
	return mw, client, nil
}
