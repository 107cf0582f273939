package app

import (
	"context"

	"github.com/quentin418/clear-fashion/internal/config"
	"github.com/quentin418/clear-fashion/internal/kafka"
	"github.com/quentin418/clear-fashion/internal/repo/mongodb"
	"github.com/quentin418/clear-fashion/internal/scheduler"
	"github.com/quentin418/clear-fashion/internal/server"
	"github.com/quentin418/clear-fashion/internal/usecase"
	"github.com/quentin418/clear-fashion/pkg/logger"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap/zapcore"
)

// Invoke builds the application container and runs funcs once every
// dependency is ready.
func Invoke(funcs ...any) *fx.App {
	conf := config.MustLoad()
	if err := logger.Setup(logConfig(conf.Log)); err != nil {
		panic(err)
	}
	log := logger.MustNamed("app")
	log.Debugw("config loaded", "server", conf.Server, "scrape", conf.Scrape, "kafka", conf.Kafka)

	return fx.New(
		fx.WithLogger(func() fxevent.Logger {
			l := &fxevent.ZapLogger{
				Logger: log.Unwrap().Desugar(),
			}
			l.UseLogLevel(zapcore.DebugLevel)
			return l
		}),
		fx.Provide(
			newMongoDB,
			newRestyClient,
			newRateLimiter,
			newScraperRegistry,

			server.NewController,

			usecase.NewProductUsecase,
			usecase.NewScrapeUsecase,
			newProductHandler,

			mongodb.NewProductRepository,
			mongodb.NewMigrationRepository,

			kafka.NewProducer,
			kafka.NewConsumer,

			scheduler.New,
		),
		fx.Supply(conf),
		fx.Invoke(MigrateIndexes),
		fx.Invoke(funcs...),
	)
}

// MigrateIndexes ensures the product indexes once mongo is reachable.
func MigrateIndexes(lc fx.Lifecycle, repo mongodb.MigrationRepository) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			_, err := repo.EnsureIndexes(ctx)
			return err
		},
	})
}

func logConfig(c config.LogConfig) logger.Config {
	return logger.Config{
		Level:      c.Level,
		Format:     c.Format,
		File:       c.File,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
	}
}
