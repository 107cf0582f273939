package app

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/quentin418/clear-fashion/internal/config"
	"github.com/quentin418/clear-fashion/internal/kafka"
	"github.com/quentin418/clear-fashion/internal/repo/mongodb"
	"github.com/quentin418/clear-fashion/internal/repo/scraper"
	"github.com/quentin418/clear-fashion/internal/usecase"
	"github.com/quentin418/clear-fashion/pkg/util"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/fx"
	"golang.org/x/time/rate"
)

func newMongoDB(lc fx.Lifecycle, cfg *config.Config) (*mongodb.DB, error) {
	opts := mongoOptions(cfg.Database)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	mongoClient, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("init mongo client: %w", err)
	}

	mongoDB := mongoClient.Database(cfg.Database.Database)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return mongoClient.Ping(ctx, nil)
		},
		OnStop: func(ctx context.Context) error {
			return mongoClient.Disconnect(ctx)
		},
	})

	return &mongodb.DB{
		Client:   mongoClient,
		Database: mongoDB,
	}, nil
}

// mongoOptions prefers the URI when set, otherwise the host list.
func mongoOptions(cfg config.DatabaseConfig) *options.ClientOptions {
	opts := options.Client()
	if cfg.URI != "" {
		opts.ApplyURI(cfg.URI)
	} else {
		opts.SetHosts(cfg.Hosts).SetDirect(cfg.Direct)
	}
	opts.SetAppName(cfg.AppName)

	if cfg.Username != "" {
		opts.SetAuth(options.Credential{
			Username:   cfg.Username,
			Password:   cfg.Password,
			AuthSource: cfg.AuthDB,
		})
	}
	return opts
}

func newRestyClient(cfg *config.Config) *resty.Client {
	return util.NewRestyClient(util.RestyOptions{
		Timeout:    cfg.Scrape.Timeout,
		RetryCount: 2,
		UserAgent:  cfg.Scrape.UserAgent,
	})
}

// newRateLimiter throttles page requests against a single e-shop.
func newRateLimiter(cfg *config.Config) *rate.Limiter {
	if cfg.Scrape.RatePerSec <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(cfg.Scrape.RatePerSec), 1)
}

func newScraperRegistry(client *resty.Client, limiter *rate.Limiter) scraper.Registry {
	return scraper.NewDefaultRegistry(client, limiter)
}

func newProductHandler(uc usecase.ProductUsecase) kafka.ProductHandler {
	return uc
}
