package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Category struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name" binding:"required"`
	Images    []string           `json:"images" bson:"images"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

type CategoryUpdate struct {
	Name   *string  `json:"name,omitempty"`
	Images []string `json:"images,omitempty"`
}
