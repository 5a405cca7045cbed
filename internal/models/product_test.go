package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestDeriveSKUIsDeterministic(t *testing.T) {
	id, err := primitive.ObjectIDFromHex("65f0a1b2c3d4e5f6a7b8c9d0")
	assert.NoError(t, err)

	first := DeriveSKU(id, "red", "L")
	second := DeriveSKU(id, "red", "L")
	assert.Equal(t, first, second)
	assert.Equal(t, "B8C9D0-RED-L", first)
}

func TestDeriveSKUNormalizesLabels(t *testing.T) {
	id := primitive.NewObjectID()
	assert.Equal(t, DeriveSKU(id, " Navy Blue ", "xl"), DeriveSKU(id, "navy blue", "XL"))
}

func TestOrderTotalCents(t *testing.T) {
	o := &Order{Items: []OrderItem{
		{Quantity: 2, PriceCents: 4900},
		{Quantity: 1, PriceCents: 1500},
	}}
	assert.Equal(t, int64(11300), o.TotalCents())

	empty := &Order{}
	assert.Zero(t, empty.TotalCents())
}
