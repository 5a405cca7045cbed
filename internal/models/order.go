package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderItem is a verbatim snapshot of a cart line taken at checkout.
type OrderItem struct {
	ItemID      string              `json:"item_id" bson:"item_id"`
	ProductID   primitive.ObjectID  `json:"product_id" bson:"product_id"`
	AttributeID *primitive.ObjectID `json:"attribute_id,omitempty" bson:"attribute_id,omitempty"`
	Quantity    int64               `json:"quantity" bson:"quantity"`
	PriceCents  int64               `json:"price_cents" bson:"price_cents"`
}

// Order is immutable once written.
type Order struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	OrderNumber string             `json:"order_number" bson:"order_number"`
	ShopperName string             `json:"shopper_name" bson:"shopper_name"`
	Email       string             `json:"email" bson:"email"`
	Phone       string             `json:"phone" bson:"phone"`
	Items       []OrderItem        `json:"items" bson:"items"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}

// TotalCents sums price x quantity over the order's items.
func (o *Order) TotalCents() int64 {
	var total int64
	for _, it := range o.Items {
		total += it.PriceCents * it.Quantity
	}
	return total
}

// OrderItemView is an order line with display fields attached.
type OrderItemView struct {
	OrderItem
	Product *Product        `json:"product"`
	Variant *ProductVariant `json:"variant,omitempty"`
}

type OrderView struct {
	ID          primitive.ObjectID `json:"id"`
	OrderNumber string             `json:"order_number"`
	ShopperName string             `json:"shopper_name"`
	Email       string             `json:"email"`
	Phone       string             `json:"phone"`
	Items       []OrderItemView    `json:"items"`
	TotalCents  int64              `json:"total_cents"`
	CreatedAt   time.Time          `json:"created_at"`
}
