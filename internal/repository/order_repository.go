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

type OrderRepository struct {
	collection *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{collection: db.Collection("orders")}
}

// Insert persists a new order. A duplicate order_number surfaces as a
// conflict so the caller can regenerate and retry.
func (r *OrderRepository) Insert(ctx context.Context, order *models.Order) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	order.ID = primitive.NewObjectID()
	order.CreatedAt = time.Now()

	if _, err := r.collection.InsertOne(ctx, order); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.Conflict("order number %s already exists", order.OrderNumber)
		}
		return apperrors.Dependency(err, "insert order")
	}
	return nil
}

// All returns every order, newest first.
func (r *OrderRepository) All(ctx context.Context) ([]*models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, apperrors.Dependency(err, "find orders")
	}
	defer cursor.Close(ctx)

	orders := make([]*models.Order, 0)
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, apperrors.Dependency(err, "decode orders")
	}
	return orders, nil
}

// DailyTotals groups revenue and order counts by calendar day in the
// given timezone over [from, to), one aggregation for the whole range.
func (r *OrderRepository) DailyTotals(ctx context.Context, from, to time.Time, tz string) (map[string]models.DayTotal, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"created_at": bson.M{"$gte": from, "$lt": to},
		}}},
		{{Key: "$project", Value: bson.M{
			"day": bson.M{"$dateToString": bson.M{
				"format":   "%Y-%m-%d",
				"date":     "$created_at",
				"timezone": tz,
			}},
			"order_total": bson.M{"$sum": bson.M{"$map": bson.M{
				"input": "$items",
				"as":    "it",
				"in":    bson.M{"$multiply": []interface{}{"$$it.price_cents", "$$it.quantity"}},
			}}},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":           "$day",
			"revenue_cents": bson.M{"$sum": "$order_total"},
			"orders":        bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, apperrors.Dependency(err, "aggregate daily totals")
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Day          string `bson:"_id"`
		RevenueCents int64  `bson:"revenue_cents"`
		Orders       int64  `bson:"orders"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, apperrors.Dependency(err, "decode daily totals")
	}

	out := make(map[string]models.DayTotal, len(rows))
	for _, row := range rows {
		out[row.Day] = models.DayTotal{
			Day:          row.Day,
			RevenueCents: row.RevenueCents,
			Orders:       row.Orders,
		}
	}
	return out, nil
}
