package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/quentin418/clear-fashion/internal/models"
	"github.com/quentin418/clear-fashion/internal/repo/scraper"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type fakeRepo struct {
	mu        sync.Mutex
	products  []models.Product
	brands    []string
	err       error
	upserted  []models.Product
	lastQuery bson.M
}

func (r *fakeRepo) Find(_ context.Context, query bson.M, _ ...*options.FindOptions) ([]models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastQuery = query
	return r.products, r.err
}

func (r *fakeRepo) FindByID(_ context.Context, id string) (*models.Product, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, p := range r.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *fakeRepo) Brands(context.Context) ([]string, error) {
	return r.brands, r.err
}

func (r *fakeRepo) Count(context.Context, bson.M) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.products) + len(r.upserted)), r.err
}

func (r *fakeRepo) UpsertMany(_ context.Context, products []models.Product) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	r.upserted = append(r.upserted, products...)
	return int64(len(products)), nil
}

func (r *fakeRepo) DeleteAll(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	n := int64(len(r.products) + len(r.upserted))
	r.products, r.upserted = nil, nil
	return n, nil
}

type fakePublisher struct {
	published []models.Product
	err       error
}

func (p *fakePublisher) PublishProducts(_ context.Context, products []models.Product) error {
	p.published = append(p.published, products...)
	return p.err
}

type fakeScraper struct {
	brand    string
	products []models.Product
	err      error
	panics   bool
	block    bool
}

func (s *fakeScraper) Brand() string {
	return s.brand
}

func (s *fakeScraper) Scrape(ctx context.Context, _ string) ([]models.Product, error) {
	if s.panics {
		panic("selector changed")
	}
	if s.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return s.products, s.err
}

var _ scraper.Scraper = (*fakeScraper)(nil)

var errUnavailable = errors.New("unavailable")
