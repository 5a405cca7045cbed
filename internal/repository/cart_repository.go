package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dkhanna99/JerseyWorld-sub000/internal/apperrors"
	"github.com/dkhanna99/JerseyWorld-sub000/internal/models"
)

type CartRepository struct {
	collection *mongo.Collection
}

func NewCartRepository(db *mongo.Database) *CartRepository {
	return &CartRepository{collection: db.Collection("carts")}
}

func (r *CartRepository) FindByCartID(ctx context.Context, cartID string) (*models.Cart, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	var cart models.Cart
	err := r.collection.FindOne(ctx, bson.M{"cart_id": cartID}).Decode(&cart)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.NotFound("cart %s not found", cartID)
		}
		return nil, apperrors.Dependency(err, "find cart")
	}
	return &cart, nil
}

// ReplaceItems overwrites the cart's whole item list, creating the
// document when absent. expectedVersion 0 writes unconditionally; a
// positive value must match the stored version or the write is rejected
// with a conflict. Every successful write increments version.
func (r *CartRepository) ReplaceItems(ctx context.Context, cartID string, items []models.CartItem, expectedVersion int64) (*models.Cart, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if items == nil {
		items = []models.CartItem{}
	}
	now := time.Now()
	update := bson.M{
		"$set":         bson.M{"items": items, "updated_at": now},
		"$inc":         bson.M{"version": 1},
		"$setOnInsert": bson.M{"created_at": now},
	}

	filter := bson.M{"cart_id": cartID}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if expectedVersion > 0 {
		filter["version"] = expectedVersion
	} else {
		opts.SetUpsert(true)
	}

	var cart models.Cart
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&cart)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, r.versionMiss(ctx, cartID)
		}
		return nil, apperrors.Dependency(err, "write cart")
	}
	return &cart, nil
}

// Delete removes the cart document. Same version semantics as
// ReplaceItems, except a missing document is always NotFound.
func (r *CartRepository) Delete(ctx context.Context, cartID string, expectedVersion int64) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	filter := bson.M{"cart_id": cartID}
	if expectedVersion > 0 {
		filter["version"] = expectedVersion
	}

	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return apperrors.Dependency(err, "delete cart")
	}
	if result.DeletedCount == 0 {
		return r.versionMiss(ctx, cartID)
	}
	return nil
}

// versionMiss distinguishes a missing cart from a stale version after a
// conditional write matched nothing.
func (r *CartRepository) versionMiss(ctx context.Context, cartID string) error {
	n, err := r.collection.CountDocuments(ctx, bson.M{"cart_id": cartID})
	if err != nil {
		return apperrors.Dependency(err, "check cart existence")
	}
	if n == 0 {
		return apperrors.NotFound("cart %s not found", cartID)
	}
	return apperrors.Conflict("cart %s was modified concurrently", cartID)
}

// NonEmpty returns carts that hold at least one item, newest first.
func (r *CartRepository) NonEmpty(ctx context.Context) ([]*models.Cart, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := bson.M{"items.0": bson.M{"$exists": true}}
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, apperrors.Dependency(err, "find carts")
	}
	defer cursor.Close(ctx)

	carts := make([]*models.Cart, 0)
	if err := cursor.All(ctx, &carts); err != nil {
		return nil, apperrors.Dependency(err, "decode carts")
	}
	return carts, nil
}

func (r *CartRepository) CountNonEmpty(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	n, err := r.collection.CountDocuments(ctx, bson.M{"items.0": bson.M{"$exists": true}})
	if err != nil {
		return 0, apperrors.Dependency(err, "count carts")
	}
	return n, nil
}
