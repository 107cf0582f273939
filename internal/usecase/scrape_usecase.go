package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/quentin418/clear-fashion/internal/config"
	"github.com/quentin418/clear-fashion/internal/models"
	"github.com/quentin418/clear-fashion/internal/repo/mongodb"
	"github.com/quentin418/clear-fashion/internal/repo/scraper"
	"github.com/quentin418/clear-fashion/pkg/logger/log"
	"github.com/quentin418/clear-fashion/pkg/util"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/sync/errgroup"
)

type ScrapeUsecase interface {
	// Run scrapes every configured shop and stores the result. A failing shop
	// is reported in the batch report and does not stop the others.
	Run(ctx context.Context) (*models.ScrapeReport, error)
	// Reset empties the catalog before a full re-scrape.
	Reset(ctx context.Context) (int64, error)
}

type scrapeUsecase struct {
	conf      config.ScrapeConfig
	registry  scraper.Registry
	repo      mongodb.ProductRepository
	publisher ProductPublisher
	metrics   *prometheus.HistogramVec
}

func NewScrapeUsecase(
	conf *config.Config,
	registry scraper.Registry,
	repo mongodb.ProductRepository,
	publisher ProductPublisher,
) (ScrapeUsecase, error) {
	metrics, err := util.GetHistogramVec("scrape_source_duration_seconds", "brand", "status")
	if err != nil {
		return nil, fmt.Errorf("get histogram vec: %w", err)
	}
	return &scrapeUsecase{
		conf:      conf.Scrape,
		registry:  registry,
		repo:      repo,
		publisher: publisher,
		metrics:   metrics,
	}, nil
}

type sourceResult struct {
	report   models.SourceReport
	products []models.Product
}

func (uc *scrapeUsecase) Run(ctx context.Context) (*models.ScrapeReport, error) {
	shops, err := uc.conf.ShopConfigs()
	if err != nil {
		return nil, err
	}

	results := make([]sourceResult, len(shops))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(max(uc.conf.Concurrency, 1))
	for i, shop := range shops {
		group.Go(func() error {
			results[i] = uc.scrapeShop(groupCtx, shop)
			return nil
		})
	}
	_ = group.Wait()

	report := &models.ScrapeReport{
		Sources: util.ConvertList(results, func(res sourceResult) models.SourceReport {
			return res.report
		}),
	}
	seen := make(map[string]struct{})
	var products []models.Product
	for _, res := range results {
		for _, p := range res.products {
			if _, dup := seen[p.ID]; dup {
				continue
			}
			seen[p.ID] = struct{}{}
			products = append(products, p)
		}
	}
	report.Total = len(products)

	if err := ctx.Err(); err != nil {
		return report, err
	}
	if len(products) == 0 {
		log.Warnw(ctx, "scrape produced no products", "sources", len(shops))
		return report, nil
	}

	report.Upserted, err = uc.repo.UpsertMany(ctx, products)
	if err != nil {
		return report, fmt.Errorf("store scraped products: %w", err)
	}
	if uc.publisher != nil {
		if err := uc.publisher.PublishProducts(ctx, products); err != nil {
			return report, fmt.Errorf("publish scraped products: %w", err)
		}
	}

	report.Catalog, err = uc.repo.Count(ctx, bson.M{})
	if err != nil {
		log.Warnw(ctx, "count catalog failed", "error", err)
	}

	log.Infow(ctx, "scrape finished", "total", report.Total, "upserted", report.Upserted, "catalog", report.Catalog)
	return report, nil
}

func (uc *scrapeUsecase) Reset(ctx context.Context) (int64, error) {
	n, err := uc.repo.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("reset catalog: %w", err)
	}
	log.Infow(ctx, "catalog reset", "deleted", n)
	return n, nil
}

func (uc *scrapeUsecase) scrapeShop(ctx context.Context, shop config.ShopConfig) (res sourceResult) {
	ctx = log.WithFields(ctx, "brand", shop.Brand, "link", shop.Link)
	res.report = models.SourceReport{Brand: shop.Brand, Link: shop.Link}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			res.products = nil
			res.report.Products = 0
			res.report.Error = fmt.Sprintf("panic: %v", r)
		}
		status := "ok"
		if res.report.Error != "" {
			status = "error"
			log.Errorw(ctx, "scrape source failed", "error", res.report.Error)
		} else {
			log.Infow(ctx, "scrape source done", "products", res.report.Products, "skipped", res.report.Skipped)
		}
		uc.metrics.WithLabelValues(shop.Brand, status).Observe(time.Since(start).Seconds())
	}()

	s, ok := uc.registry.Get(shop.Brand)
	if !ok {
		res.report.Error = fmt.Sprintf("no scraper for brand %q", shop.Brand)
		return res
	}

	if uc.conf.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.conf.Timeout)
		defer cancel()
	}

	scraped, err := s.Scrape(ctx, shop.Link)
	if err != nil {
		res.report.Error = err.Error()
		return res
	}

	res.products, res.report.Skipped = keepValid(scraped)
	res.report.Products = len(res.products)

	if uc.conf.OutputDir != "" {
		if err := dumpProducts(uc.conf.OutputDir, shop.Brand, res.products); err != nil {
			log.Warnw(ctx, "dump scraped products failed", "error", err)
		}
	}
	return res
}

// dumpProducts writes <dir>/<brand>.json.
func dumpProducts(dir, brand string, products []models.Product) error {
	if brand == "" || filepath.Base(brand) != brand {
		return errors.New("invalid brand for file name")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if products == nil {
		products = []models.Product{}
	}
	data, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal products: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, brand+".json"), data, 0o644)
}
