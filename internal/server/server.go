package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/quentin418/clear-fashion/internal/config"
	pkgmdw "github.com/quentin418/clear-fashion/internal/server/middleware"
	"github.com/quentin418/clear-fashion/pkg/logger"
	"github.com/quentin418/clear-fashion/pkg/logger/log"
	"go.uber.org/fx"
)

func StartServer(
	lc fx.Lifecycle,
	sd fx.Shutdowner,
	conf *config.Config,
	handler Controller,
) error {
	e, cleanup, err := newEcho(conf, handler)
	if err != nil {
		return err
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Infow(ctx, "starting HTTP server", "addr", conf.Server.Addr)
				if err := e.Start(conf.Server.Addr); !errors.Is(err, http.ErrServerClosed) {
					log.Errorw(ctx, "HTTP server stopped", "error", err)
					_ = sd.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			defer cleanup()
			return e.Shutdown(ctx)
		},
	})
	return nil
}

func newEcho(conf *config.Config, handler Controller) (*echo.Echo, func(), error) {
	cors, err := regexp.Compile(conf.Server.CORSPattern)
	if err != nil {
		return nil, nil, fmt.Errorf("compile cors pattern: %w", err)
	}

	httpLog := logger.MustNamed("http")
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = pkgmdw.NewValidator()
	e.HTTPErrorHandler = pkgmdw.ErrorHandler(httpLog)

	logConfig := pkgmdw.LogRequestConfig{
		Logger: httpLog,
		Enabled: func(c echo.Context) bool {
			path := c.Request().URL.Path
			return path != "/health" && path != "/metrics"
		},
	}

	cleanup := func() {}
	e.Use(pkgmdw.Metrics())
	e.Use(pkgmdw.RequestID())
	e.Use(pkgmdw.LogRequest(logConfig))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			log.Errorw(c.Request().Context(), "PANIC RECOVER", "error", err, "stack", string(stack))
			return err
		},
	}))
	e.Use(pkgmdw.CORS(cors))
	if conf.Server.StatsdAddr != "" {
		profiler, client, err := pkgmdw.Profiler(pkgmdw.ProfilerConfig{
			Log:     logger.MustNamed("statsd"),
			Address: conf.Server.StatsdAddr,
		})
		if err != nil {
			return nil, nil, err
		}
		e.Use(profiler)
		cleanup = client.Close
	}
	if conf.Server.Pprof {
		pkgmdw.Pprof(e, "")
	}

	e.GET("/", handler.Root)
	e.GET("/health", handler.Health)
	e.GET("/metrics", pkgmdw.MetricsHandler())

	e.GET("/products", pkgmdw.WrapHandler(handler.ListProducts))
	e.GET("/products/search", handler.SearchProducts)
	e.GET("/products/:id", pkgmdw.WrapHandler(handler.GetProduct))
	e.GET("/brands", pkgmdw.WrapHandler(handler.Brands))

	return e, cleanup, nil
}
