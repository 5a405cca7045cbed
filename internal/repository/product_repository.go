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

const (
	readTimeout  = 3 * time.Second
	writeTimeout = 5 * time.Second
	queryTimeout = 10 * time.Second
)

type ProductRepository struct {
	collection *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{collection: db.Collection("products")}
}

func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	product.ID = primitive.NewObjectID()
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now
	if product.Images == nil {
		product.Images = []string{}
	}

	if _, err := r.collection.InsertOne(ctx, product); err != nil {
		return apperrors.Dependency(err, "insert product")
	}
	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.Validation("invalid product id %q", id)
	}

	var product models.Product
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.NotFound("product %s not found", id)
		}
		return nil, apperrors.Dependency(err, "find product")
	}
	return &product, nil
}

// FindByIDs fetches products in one query. Missing ids are simply absent
// from the result map.
func (r *ProductRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Product, error) {
	out := make(map[primitive.ObjectID]*models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, apperrors.Dependency(err, "find products")
	}
	defer cursor.Close(ctx)

	var products []*models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, apperrors.Dependency(err, "decode products")
	}
	for _, p := range products {
		out[p.ID] = p
	}
	return out, nil
}

type ProductFilter struct {
	CategoryID string
	Featured   *bool
	Query      string
	Page       int
	PageSize   int
}

// FindAll lists products with filters and pagination, newest first.
func (r *ProductRepository) FindAll(ctx context.Context, f ProductFilter) ([]*models.Product, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := bson.M{}
	if f.CategoryID != "" {
		catID, err := primitive.ObjectIDFromHex(f.CategoryID)
		if err != nil {
			return nil, 0, apperrors.Validation("invalid category id %q", f.CategoryID)
		}
		filter["category_id"] = catID
	}
	if f.Featured != nil {
		filter["is_featured"] = *f.Featured
	}
	if f.Query != "" {
		filter["$or"] = []bson.M{
			{"name": bson.M{"$regex": f.Query, "$options": "i"}},
			{"description": bson.M{"$regex": f.Query, "$options": "i"}},
		}
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.Dependency(err, "count products")
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if f.Page > 0 && f.PageSize > 0 {
		findOptions.SetSkip(int64((f.Page - 1) * f.PageSize))
		findOptions.SetLimit(int64(f.PageSize))
	} else {
		findOptions.SetLimit(100)
	}

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, apperrors.Dependency(err, "find products")
	}
	defer cursor.Close(ctx)

	products := make([]*models.Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, apperrors.Dependency(err, "decode products")
	}
	return products, total, nil
}

func (r *ProductRepository) Update(ctx context.Context, id string, update bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.Validation("invalid product id %q", id)
	}

	update["updated_at"] = time.Now()
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": update})
	if err != nil {
		return apperrors.Dependency(err, "update product")
	}
	if result.MatchedCount == 0 {
		return apperrors.NotFound("product %s not found", id)
	}
	return nil
}

func (r *ProductRepository) SetHasVariants(ctx context.Context, id primitive.ObjectID, has bool) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"has_variants": has, "updated_at": time.Now()}})
	if err != nil {
		return apperrors.Dependency(err, "update product")
	}
	return nil
}

// Delete removes the product document. Existing cart/order lines that
// reference it are left alone and render with a nil product.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.Validation("invalid product id %q", id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return apperrors.Dependency(err, "delete product")
	}
	if result.DeletedCount == 0 {
		return apperrors.NotFound("product %s not found", id)
	}
	return nil
}

func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	n, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, apperrors.Dependency(err, "count products")
	}
	return n, nil
}

func (r *ProductRepository) CountFeatured(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	n, err := r.collection.CountDocuments(ctx, bson.M{"is_featured": true})
	if err != nil {
		return 0, apperrors.Dependency(err, "count featured products")
	}
	return n, nil
}

// CountMissingImages counts products whose image list is absent or empty.
func (r *ProductRepository) CountMissingImages(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	filter := bson.M{"$or": []bson.M{
		{"images": bson.M{"$exists": false}},
		{"images": bson.M{"$size": 0}},
	}}
	n, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, apperrors.Dependency(err, "count products without images")
	}
	return n, nil
}
