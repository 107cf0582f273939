package mongodb

import (
	"context"
	"fmt"

	"github.com/quentin418/clear-fashion/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ProductRepository interface {
	Find(ctx context.Context, query bson.M, opts ...*options.FindOptions) ([]models.Product, error)
	FindByID(ctx context.Context, id string) (*models.Product, error)
	Brands(ctx context.Context) ([]string, error)
	Count(ctx context.Context, query bson.M) (int64, error)
	UpsertMany(ctx context.Context, products []models.Product) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
}

type productRepo struct {
	baseRepo[models.Product]
}

func NewProductRepository(db *DB) ProductRepository {
	return &productRepo{
		baseRepo: newBaseRepo[models.Product](db),
	}
}

// Brands lists the distinct brands in ascending order as returned by the
// server. Non-string values are skipped.
func (r *productRepo) Brands(ctx context.Context) ([]string, error) {
	values, err := r.Distinct(ctx, "brand", bson.M{})
	if err != nil {
		return nil, err
	}
	brands := make([]string, 0, len(values))
	for _, v := range values {
		if brand, ok := v.(string); ok {
			brands = append(brands, brand)
		}
	}
	return brands, nil
}

func (r *productRepo) Count(ctx context.Context, query bson.M) (int64, error) {
	n, err := r.baseRepo.Count(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

func (r *productRepo) UpsertMany(ctx context.Context, products []models.Product) (int64, error) {
	n, err := r.BulkUpsert(ctx, products)
	if err != nil {
		return 0, fmt.Errorf("upsert products: %w", err)
	}
	return n, nil
}

func (r *productRepo) DeleteAll(ctx context.Context) (int64, error) {
	return r.DeleteMany(ctx, bson.M{})
}
