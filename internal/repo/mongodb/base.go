package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/quentin418/clear-fashion/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type IEntity interface {
	CollectionName() string
	GetID() string
}

type baseRepo[E IEntity] struct {
	coll *mongo.Collection
}

func newBaseRepo[E IEntity](db *DB) baseRepo[E] {
	var entity E
	return baseRepo[E]{
		coll: db.Database.Collection(entity.CollectionName()),
	}
}

func (r *baseRepo[E]) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]E, error) {
	cursor, err := r.coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("find: %w", err)
	}
	entities := []E{}
	if err := cursor.All(ctx, &entities); err != nil {
		return nil, fmt.Errorf("cursor all: %w", err)
	}
	return entities, nil
}

func (r *baseRepo[E]) FindByID(ctx context.Context, id string) (*E, error) {
	return r.FindOne(ctx, bson.M{"_id": id})
}

func (r *baseRepo[E]) FindOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*E, error) {
	var entity E
	err := r.coll.FindOne(ctx, filter, opts...).Decode(&entity)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

func (r *baseRepo[E]) Distinct(ctx context.Context, field string, filter bson.M) ([]any, error) {
	values, err := r.coll.Distinct(ctx, field, filter)
	if err != nil {
		return nil, fmt.Errorf("distinct %s: %w", field, err)
	}
	return values, nil
}

// BulkUpsert replaces every document by id, inserting the missing ones. The
// write is unordered so one bad document does not stop the others. It
// returns the number of matched plus inserted documents.
func (r *baseRepo[E]) BulkUpsert(ctx context.Context, docs []E) (int64, error) {
	if len(docs) == 0 {
		return 0, nil
	}
	writes := make([]mongo.WriteModel, 0, len(docs))
	for _, doc := range docs {
		model := mongo.
			NewReplaceOneModel().
			SetFilter(bson.M{"_id": doc.GetID()}).
			SetReplacement(doc).
			SetUpsert(true)
		writes = append(writes, model)
	}
	result, err := r.coll.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, fmt.Errorf("bulk write: %w", err)
	}
	return result.MatchedCount + result.UpsertedCount, nil
}

func (r *baseRepo[E]) DeleteMany(ctx context.Context, filter bson.M) (int64, error) {
	result, err := r.coll.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("delete many: %w", err)
	}
	return result.DeletedCount, nil
}

func (r *baseRepo[E]) Count(ctx context.Context, filter bson.M, opts ...*options.CountOptions) (int64, error) {
	return r.coll.CountDocuments(ctx, filter, opts...)
}
