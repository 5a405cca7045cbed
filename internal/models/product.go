package models

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a catalog entry. Prices are stored in cents.
type Product struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name" binding:"required"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Images      []string           `json:"images" bson:"images"`
	PriceCents  int64              `json:"price_cents" bson:"price_cents"`
	Rating      float64            `json:"rating" bson:"rating"`
	CategoryID  primitive.ObjectID `json:"category_id,omitempty" bson:"category_id,omitempty"`
	IsFeatured  bool               `json:"is_featured" bson:"is_featured"`
	HasVariants bool               `json:"has_variants" bson:"has_variants"`
	Colors      []string           `json:"colors,omitempty" bson:"colors,omitempty"`
	Sizes       []string           `json:"sizes,omitempty" bson:"sizes,omitempty"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

// ProductUpdate holds the admin-editable fields for a partial update.
type ProductUpdate struct {
	Name        *string             `json:"name,omitempty"`
	Description *string             `json:"description,omitempty"`
	Images      []string            `json:"images,omitempty"`
	PriceCents  *int64              `json:"price_cents,omitempty"`
	Rating      *float64            `json:"rating,omitempty"`
	CategoryID  *primitive.ObjectID `json:"category_id,omitempty"`
	IsFeatured  *bool               `json:"is_featured,omitempty"`
	HasVariants *bool               `json:"has_variants,omitempty"`
	Colors      []string            `json:"colors,omitempty"`
	Sizes       []string            `json:"sizes,omitempty"`
}

// ProductVariant is one color/size/price/stock combination of a product.
// (product_id, color, size) and sku are unique across the collection.
type ProductVariant struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ProductID  primitive.ObjectID `json:"product_id" bson:"product_id"`
	Color      string             `json:"color" bson:"color" binding:"required"`
	Size       string             `json:"size" bson:"size" binding:"required"`
	PriceCents int64              `json:"price_cents" bson:"price_cents"`
	Stock      int64              `json:"stock" bson:"stock"`
	SKU        string             `json:"sku" bson:"sku"`
	IsActive   bool               `json:"is_active" bson:"is_active"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at" bson:"updated_at"`
}

// VariantUpdate holds the admin-editable fields of a variant.
type VariantUpdate struct {
	Color      *string `json:"color,omitempty"`
	Size       *string `json:"size,omitempty"`
	PriceCents *int64  `json:"price_cents,omitempty"`
	Stock      *int64  `json:"stock,omitempty"`
	IsActive   *bool   `json:"is_active,omitempty"`
}

// DeriveSKU builds a deterministic SKU from the owning product id and the
// variant's color/size, used when the admin does not supply one.
func DeriveSKU(productID primitive.ObjectID, color, size string) string {
	hex := productID.Hex()
	if len(hex) > 6 {
		hex = hex[len(hex)-6:]
	}
	clean := func(s string) string {
		s = strings.ToUpper(strings.TrimSpace(s))
		return strings.ReplaceAll(s, " ", "-")
	}
	return fmt.Sprintf("%s-%s-%s", strings.ToUpper(hex), clean(color), clean(size))
}
