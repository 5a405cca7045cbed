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

type CategoryRepository struct {
	collection *mongo.Collection
}

func NewCategoryRepository(db *mongo.Database) *CategoryRepository {
	return &CategoryRepository{collection: db.Collection("categories")}
}

func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	category.ID = primitive.NewObjectID()
	category.CreatedAt = time.Now()
	if category.Images == nil {
		category.Images = []string{}
	}

	if _, err := r.collection.InsertOne(ctx, category); err != nil {
		return apperrors.Dependency(err, "insert category")
	}
	return nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id string) (*models.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.Validation("invalid category id %q", id)
	}

	var category models.Category
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&category)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.NotFound("category %s not found", id)
		}
		return nil, apperrors.Dependency(err, "find category")
	}
	return &category, nil
}

func (r *CategoryRepository) FindAll(ctx context.Context) ([]*models.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, apperrors.Dependency(err, "find categories")
	}
	defer cursor.Close(ctx)

	categories := make([]*models.Category, 0)
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, apperrors.Dependency(err, "decode categories")
	}
	return categories, nil
}

func (r *CategoryRepository) Update(ctx context.Context, id string, update bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.Validation("invalid category id %q", id)
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": update})
	if err != nil {
		return apperrors.Dependency(err, "update category")
	}
	if result.MatchedCount == 0 {
		return apperrors.NotFound("category %s not found", id)
	}
	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.Validation("invalid category id %q", id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return apperrors.Dependency(err, "delete category")
	}
	if result.DeletedCount == 0 {
		return apperrors.NotFound("category %s not found", id)
	}
	return nil
}
