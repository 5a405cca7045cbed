package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dkhanna99/JerseyWorld-sub000/internal/apperrors"
	"github.com/dkhanna99/JerseyWorld-sub000/internal/models"
)

type VariantRepository struct {
	collection *mongo.Collection
}

func NewVariantRepository(db *mongo.Database) *VariantRepository {
	return &VariantRepository{collection: db.Collection("product_variants")}
}

func (r *VariantRepository) Create(ctx context.Context, v *models.ProductVariant) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	v.ID = primitive.NewObjectID()
	now := time.Now()
	v.CreatedAt = now
	v.UpdatedAt = now
	if v.SKU == "" {
		v.SKU = models.DeriveSKU(v.ProductID, v.Color, v.Size)
	}

	if _, err := r.collection.InsertOne(ctx, v); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.Conflict("variant %s/%s or sku %s already exists for product", v.Color, v.Size, v.SKU)
		}
		return apperrors.Dependency(err, "insert variant")
	}
	return nil
}

func (r *VariantRepository) FindByID(ctx context.Context, id string) (*models.ProductVariant, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.Validation("invalid variant id %q", id)
	}

	var v models.ProductVariant
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&v)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.NotFound("variant %s not found", id)
		}
		return nil, apperrors.Dependency(err, "find variant")
	}
	return &v, nil
}

func (r *VariantRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.ProductVariant, error) {
	out := make(map[primitive.ObjectID]*models.ProductVariant, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, apperrors.Dependency(err, "find variants")
	}
	defer cursor.Close(ctx)

	var variants []*models.ProductVariant
	if err := cursor.All(ctx, &variants); err != nil {
		return nil, apperrors.Dependency(err, "decode variants")
	}
	for _, v := range variants {
		out[v.ID] = v
	}
	return out, nil
}

func (r *VariantRepository) FindByProduct(ctx context.Context, productID primitive.ObjectID) ([]*models.ProductVariant, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "color", Value: 1}, {Key: "size", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"product_id": productID}, opts)
	if err != nil {
		return nil, apperrors.Dependency(err, "find variants")
	}
	defer cursor.Close(ctx)

	variants := make([]*models.ProductVariant, 0)
	if err := cursor.All(ctx, &variants); err != nil {
		return nil, apperrors.Dependency(err, "decode variants")
	}
	return variants, nil
}

func (r *VariantRepository) Update(ctx context.Context, id string, update bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.Validation("invalid variant id %q", id)
	}

	update["updated_at"] = time.Now()
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": update})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.Conflict("variant color/size already taken for product")
		}
		return apperrors.Dependency(err, "update variant")
	}
	if result.MatchedCount == 0 {
		return apperrors.NotFound("variant %s not found", id)
	}
	return nil
}

func (r *VariantRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.Validation("invalid variant id %q", id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return apperrors.Dependency(err, "delete variant")
	}
	if result.DeletedCount == 0 {
		return apperrors.NotFound("variant %s not found", id)
	}
	return nil
}

func (r *VariantRepository) CountByProduct(ctx context.Context, productID primitive.ObjectID) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	n, err := r.collection.CountDocuments(ctx, bson.M{"product_id": productID})
	if err != nil {
		return 0, apperrors.Dependency(err, "count variants")
	}
	return n, nil
}
