package store

import (
	"context"
	"errors"
	"regexp"

	catalogerrors "github.com/abgdnv/shoecatalog/internal/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const skuIndexName = "sku_unique"

// MongoStore implements ProductStore on top of a MongoDB collection,
// one document per product.
type MongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore creates a new instance of ProductStore backed by the given collection.
func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

// EnsureIndexes creates the unique index on sku. It is idempotent.
func (m *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := m.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "sku", Value: 1}},
		Options: options.Index().SetUnique(true).SetName(skuIndexName),
	})
	if err != nil {
		return storeError("create sku index", err)
	}
	return nil
}

func (m *MongoStore) FindAll(ctx context.Context) ([]Product, error) {
	return m.Find(ctx, Query{})
}

func (m *MongoStore) Find(ctx context.Context, q Query) ([]Product, error) {
	opts := options.Find().SetProjection(bson.D{{Key: "_id", Value: 0}})
	if sort := mongoSort(q.Sort); sort != nil {
		opts.SetSort(sort)
	}
	cursor, err := m.coll.Find(ctx, mongoFilter(q), opts)
	if err != nil {
		return nil, storeError("find products", err)
	}
	products := make([]Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, storeError("decode products", err)
	}
	return products, nil
}

func (m *MongoStore) FindBySKU(ctx context.Context, sku int64) (*Product, error) {
	var p Product
	err := m.coll.FindOne(ctx, bson.D{{Key: "sku", Value: sku}}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, catalogerrors.ErrProductNotFound
		}
		return nil, storeError("find product by sku", err)
	}
	return &p, nil
}

func (m *MongoStore) Insert(ctx context.Context, p Product) error {
	if _, err := m.coll.InsertOne(ctx, p); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return catalogerrors.ErrDuplicateSKU
		}
		return storeError("insert product", err)
	}
	return nil
}

func (m *MongoStore) ReplaceBySKU(ctx context.Context, sku int64, p Product) error {
	p.SKU = sku
	res, err := m.coll.ReplaceOne(ctx, bson.D{{Key: "sku", Value: sku}}, p)
	if err != nil {
		return storeError("replace product", err)
	}
	if res.MatchedCount == 0 {
		return catalogerrors.ErrProductNotFound
	}
	return nil
}

func (m *MongoStore) DeleteBySKU(ctx context.Context, sku int64) (bool, error) {
	res, err := m.coll.DeleteOne(ctx, bson.D{{Key: "sku", Value: sku}})
	if err != nil {
		return false, storeError("delete product", err)
	}
	return res.DeletedCount > 0, nil
}

func (m *MongoStore) Ping(ctx context.Context) error {
	if err := m.coll.Database().Client().Ping(ctx, readpref.Primary()); err != nil {
		return storeError("ping mongo", err)
	}
	return nil
}

// mongoFilter translates a query into a bson filter document.
func mongoFilter(q Query) bson.D {
	filter := bson.D{}
	if q.Price != nil {
		filter = append(filter, bson.E{Key: "price", Value: bson.D{
			{Key: "$gte", Value: q.Price.Min},
			{Key: "$lte", Value: q.Price.Max},
		}})
	}
	if q.Available != nil {
		filter = append(filter, bson.E{Key: "available", Value: *q.Available})
	}
	if q.Name != "" {
		filter = append(filter, bson.E{Key: "name", Value: primitive.Regex{
			Pattern: regexp.QuoteMeta(q.Name),
			Options: "i",
		}})
	}
	return filter
}

func mongoSort(key SortKey) bson.D {
	switch key {
	case SortBySKU:
		return bson.D{{Key: "sku", Value: 1}}
	case SortByPrice:
		return bson.D{{Key: "price", Value: 1}, {Key: "sku", Value: 1}}
	default:
		return nil
	}
}
