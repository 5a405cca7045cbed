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

type ContactRepository struct {
	collection *mongo.Collection
}

func NewContactRepository(db *mongo.Database) *ContactRepository {
	return &ContactRepository{collection: db.Collection("contacts")}
}

func (r *ContactRepository) Create(ctx context.Context, msg *models.ContactMessage) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	msg.ID = primitive.NewObjectID()
	msg.CreatedAt = time.Now()

	if _, err := r.collection.InsertOne(ctx, msg); err != nil {
		return apperrors.Dependency(err, "insert contact message")
	}
	return nil
}

func (r *ContactRepository) FindAll(ctx context.Context) ([]*models.ContactMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, apperrors.Dependency(err, "find contact messages")
	}
	defer cursor.Close(ctx)

	messages := make([]*models.ContactMessage, 0)
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, apperrors.Dependency(err, "decode contact messages")
	}
	return messages, nil
}

func (r *ContactRepository) Recent(ctx context.Context, limit int64) ([]*models.ContactMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, apperrors.Dependency(err, "find contact messages")
	}
	defer cursor.Close(ctx)

	messages := make([]*models.ContactMessage, 0)
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, apperrors.Dependency(err, "decode contact messages")
	}
	return messages, nil
}

func (r *ContactRepository) CountUnread(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	n, err := r.collection.CountDocuments(ctx, bson.M{"status": models.ContactUnread})
	if err != nil {
		return 0, apperrors.Dependency(err, "count unread messages")
	}
	return n, nil
}

func (r *ContactRepository) UpdateStatus(ctx context.Context, id string, status models.ContactStatus) (*models.ContactMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.Validation("invalid contact id %q", id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var msg models.ContactMessage
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objID},
		bson.M{"$set": bson.M{"status": status}}, opts).Decode(&msg)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.NotFound("contact message %s not found", id)
		}
		return nil, apperrors.Dependency(err, "update contact status")
	}
	return &msg, nil
}
