package store

import (
	"context"
	"errors"
	"fmt"

	perrors "github.com/artztall/product_service/internal/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const productsCollection = "products"

// MongoStore implements ProductStore using a MongoDB collection as the data store.
type MongoStore struct {
	col *mongo.Collection
}

// NewMongoStore creates a new instance of ProductStore backed by the given MongoDB database.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		col: db.Collection(productsCollection),
	}
}

// Save inserts the record when it has no ID, assigning a fresh ObjectID hex,
// and replaces the record with the same ID otherwise.
func (s *MongoStore) Save(ctx context.Context, product *Product) (*Product, error) {
	if product.ID == "" {
		product.ID = primitive.NewObjectID().Hex()
		if _, err := s.col.InsertOne(ctx, product); err != nil {
			return nil, fmt.Errorf("failed to insert product: %w", err)
		}
		return product, nil
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.col.ReplaceOne(ctx, bson.M{"_id": product.ID}, product, opts); err != nil {
		return nil, fmt.Errorf("failed to replace product %s: %w", product.ID, err)
	}
	return product, nil
}

// FindByID retrieves a product by its unique identifier.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *MongoStore) FindByID(ctx context.Context, id string) (*Product, error) {
	var product Product
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, perrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}
	return &product, nil
}

// DeleteByID removes a product by its unique identifier.
// A delete that matches no document is treated as success.
func (s *MongoStore) DeleteByID(ctx context.Context, id string) error {
	if _, err := s.col.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete product by ID: %w", err)
	}
	return nil
}

// FindAll retrieves one page of products and the total record count.
// Documents are ordered by _id to keep pagination stable.
func (s *MongoStore) FindAll(ctx context.Context, page, size int32) ([]Product, int64, error) {
	total, err := s.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(int64(page) * int64(size)).
		SetLimit(int64(size))
	products, err := s.find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// FindByArtistID retrieves all products owned by the given artist.
func (s *MongoStore) FindByArtistID(ctx context.Context, artistID string) ([]Product, error) {
	return s.find(ctx, bson.M{"artist_id": artistID})
}

// FindByCategory retrieves all products in the given category.
func (s *MongoStore) FindByCategory(ctx context.Context, category string) ([]Product, error) {
	return s.find(ctx, bson.M{"category": category})
}

// FindByPriceRange retrieves all products whose price lies within the inclusive bounds.
func (s *MongoStore) FindByPriceRange(ctx context.Context, minPrice, maxPrice float64) ([]Product, error) {
	return s.find(ctx, bson.M{"price": bson.M{"$gte": minPrice, "$lte": maxPrice}})
}

// FindByTag retrieves all products carrying the given tag.
func (s *MongoStore) FindByTag(ctx context.Context, tag string) ([]Product, error) {
	return s.find(ctx, bson.M{"tags": tag})
}

// find runs a filtered query and decodes the full result set.
func (s *MongoStore) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]Product, error) {
	cursor, err := s.col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	products := make([]Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}
