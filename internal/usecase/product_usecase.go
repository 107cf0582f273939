package usecase

import (
	"context"
	"fmt"
	"net/url"

	"github.com/quentin418/clear-fashion/internal/config"
	"github.com/quentin418/clear-fashion/internal/models"
	"github.com/quentin418/clear-fashion/internal/repo/mongodb"
	"github.com/quentin418/clear-fashion/internal/search"
	"go.mongodb.org/mongo-driver/bson"
)

type ProductUsecase interface {
	Search(ctx context.Context, raw url.Values, extra ...search.Constraint) models.Response
	List(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Brands(ctx context.Context) ([]string, error)
	Ingest(ctx context.Context, products []models.Product) (int64, error)
}

type productUsecase struct {
	repo     mongodb.ProductRepository
	searcher *search.Searcher
	conf     config.ServerConfig
}

func NewProductUsecase(conf *config.Config, repo mongodb.ProductRepository) ProductUsecase {
	return &productUsecase{
		repo:     repo,
		searcher: search.NewSearcher(repo),
		conf:     conf.Server,
	}
}

func (uc *productUsecase) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if uc.conf.QueryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, uc.conf.QueryTimeout)
}

// Search runs a product search. Extra constraints are AND-ed with the ones
// compiled from raw.
func (uc *productUsecase) Search(ctx context.Context, raw url.Values, extra ...search.Constraint) models.Response {
	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()
	q := search.ParseQuery(raw)
	q.Filter = q.Filter.With(extra...)
	return uc.searcher.Search(ctx, q)
}

func (uc *productUsecase) List(ctx context.Context) ([]models.Product, error) {
	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()
	products, err := uc.repo.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (uc *productUsecase) GetByID(ctx context.Context, id string) (*models.Product, error) {
	if id == "" {
		return nil, models.ErrInvalidInput
	}
	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()
	product, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product %s: %w", id, err)
	}
	return product, nil
}

func (uc *productUsecase) Brands(ctx context.Context) ([]string, error) {
	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()
	brands, err := uc.repo.Brands(ctx)
	if err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}
	return brands, nil
}

// Ingest stores products received from another service. Invalid products are
// dropped.
func (uc *productUsecase) Ingest(ctx context.Context, products []models.Product) (int64, error) {
	valid, _ := keepValid(products)
	if len(valid) == 0 {
		return 0, nil
	}
	return uc.repo.UpsertMany(ctx, valid)
}
