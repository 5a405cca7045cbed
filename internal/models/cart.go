package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem is one line in a cart. Price is a server-resolved snapshot of
// the product or variant price at the time the line was written; client
// input never carries a price.
type CartItem struct {
	ItemID      string              `json:"item_id" bson:"item_id"`
	ProductID   primitive.ObjectID  `json:"product_id" bson:"product_id"`
	AttributeID *primitive.ObjectID `json:"attribute_id,omitempty" bson:"attribute_id,omitempty"`
	Quantity    int64               `json:"quantity" bson:"quantity"`
	PriceCents  int64               `json:"price_cents" bson:"price_cents"`
}

// Cart is keyed by a client-generated opaque cart_id. Version increments
// on every successful mutation and backs the optimistic write check.
type Cart struct {
	ID        primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	CartID    string             `json:"cart_id" bson:"cart_id"`
	Items     []CartItem         `json:"items" bson:"items"`
	Version   int64              `json:"version" bson:"version"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// CartItemView is a cart line with its product and variant attached for
// display. Product or Variant is nil when the referenced document no
// longer exists.
type CartItemView struct {
	CartItem
	Product *Product        `json:"product"`
	Variant *ProductVariant `json:"variant,omitempty"`
}

// CartView is what cart reads and listings return.
type CartView struct {
	CartID    string         `json:"cart_id"`
	Items     []CartItemView `json:"items"`
	Version   int64          `json:"version"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
