package mongodb

import (
	"context"
	"fmt"

	"github.com/quentin418/clear-fashion/internal/models"
	"github.com/quentin418/clear-fashion/pkg/logger/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MigrationRepository prepares the collections before the app serves.
type MigrationRepository interface {
	EnsureIndexes(ctx context.Context) ([]string, error)
}

type migrationRepo struct {
	db *DB
}

func NewMigrationRepository(db *DB) MigrationRepository {
	return &migrationRepo{
		db: db,
	}
}

// indexes backing the filters and sorts pushed down by searches
var productIndexes = []mongo.IndexModel{
	{Keys: bson.D{{Key: "brand", Value: 1}}, Options: options.Index().SetName("brand_1")},
	{Keys: bson.D{{Key: "price", Value: 1}}, Options: options.Index().SetName("price_1")},
	{Keys: bson.D{{Key: "released", Value: -1}}, Options: options.Index().SetName("released_-1")},
	{Keys: bson.D{{Key: "brand", Value: 1}, {Key: "price", Value: 1}}, Options: options.Index().SetName("brand_1_price_1")},
}

// EnsureIndexes creates the missing product indexes. Existing indexes with
// the same definition are left alone by the server.
func (r *migrationRepo) EnsureIndexes(ctx context.Context) ([]string, error) {
	coll := r.db.Database.Collection(models.Product{}.CollectionName())
	names, err := coll.Indexes().CreateMany(ctx, productIndexes)
	if err != nil {
		return nil, fmt.Errorf("create indexes on %s: %w", coll.Name(), err)
	}
	log.Infow(ctx, "indexes ensured", "collection", coll.Name(), "indexes", names)
	return names, nil
}
