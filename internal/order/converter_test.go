package order

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dkhanna99/JerseyWorld-sub000/internal/apperrors"
	"github.com/dkhanna99/JerseyWorld-sub000/internal/logger"
	"github.com/dkhanna99/JerseyWorld-sub000/internal/models"
)

type fakeCarts struct {
	byID map[string]*models.Cart
}

func (f *fakeCarts) FindByCartID(_ context.Context, cartID string) (*models.Cart, error) {
	if c, ok := f.byID[cartID]; ok {
		copied := *c
		copied.Items = append([]models.CartItem(nil), c.Items...)
		return &copied, nil
	}
	return nil, apperrors.NotFound("cart %s not found", cartID)
}

func (f *fakeCarts) Delete(_ context.Context, cartID string, expectedVersion int64) error {
	existing, ok := f.byID[cartID]
	if !ok {
		return apperrors.NotFound("cart %s not found", cartID)
	}
	if expectedVersion > 0 && existing.Version != expectedVersion {
		return apperrors.Conflict("cart %s was modified concurrently", cartID)
	}
	delete(f.byID, cartID)
	return nil
}

type fakeOrders struct {
	inserted  []*models.Order
	taken     map[string]bool
	insertErr error
}

func (f *fakeOrders) Insert(_ context.Context, order *models.Order) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	if f.taken == nil {
		f.taken = make(map[string]bool)
	}
	if f.taken[order.OrderNumber] {
		return apperrors.Conflict("order number %s already exists", order.OrderNumber)
	}
	f.taken[order.OrderNumber] = true
	order.ID = primitive.NewObjectID()
	copied := *order
	copied.Items = append([]models.OrderItem(nil), order.Items...)
	f.inserted = append(f.inserted, &copied)
	return nil
}

func seedCart(carts *fakeCarts, cartID string) *models.Cart {
	attr := primitive.NewObjectID()
	c := &models.Cart{
		CartID:  cartID,
		Version: 1,
		Items: []models.CartItem{
			{ItemID: "line-1", ProductID: primitive.NewObjectID(), AttributeID: &attr, Quantity: 2, PriceCents: 4900},
			{ItemID: "line-2", ProductID: primitive.NewObjectID(), Quantity: 1, PriceCents: 1500},
		},
	}
	carts.byID[cartID] = c
	return c
}

func TestPlaceOrderSnapshotsCartAndDeletesIt(t *testing.T) {
	carts := &fakeCarts{byID: make(map[string]*models.Cart)}
	orders := &fakeOrders{}
	seeded := seedCart(carts, "cart-1")

	conv := NewConverter(carts, orders, logger.NewNop())
	number, err := conv.PlaceOrder(context.Background(), PlaceInput{
		CartID:      "cart-1",
		ShopperName: "Ada Lovelace",
		Email:       "ada@example.com",
		Phone:       "555-0100",
	})
	require.NoError(t, err)
	assert.Regexp(t, `^ORD-`, number)

	require.Len(t, orders.inserted, 1)
	placed := orders.inserted[0]
	assert.Equal(t, number, placed.OrderNumber)
	assert.Equal(t, "Ada Lovelace", placed.ShopperName)
	require.Len(t, placed.Items, len(seeded.Items))
	for i, it := range placed.Items {
		assert.Equal(t, seeded.Items[i].ItemID, it.ItemID)
		assert.Equal(t, seeded.Items[i].ProductID, it.ProductID)
		assert.Equal(t, seeded.Items[i].Quantity, it.Quantity)
		assert.Equal(t, seeded.Items[i].PriceCents, it.PriceCents, "cart price honored verbatim")
	}

	_, err = carts.FindByCartID(context.Background(), "cart-1")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err), "cart is gone after checkout")
}

func TestPlaceOrderDeepCopiesVariantRefs(t *testing.T) {
	carts := &fakeCarts{byID: make(map[string]*models.Cart)}
	orders := &fakeOrders{}
	seeded := seedCart(carts, "cart-1")
	want := *seeded.Items[0].AttributeID

	conv := NewConverter(carts, orders, logger.NewNop())
	_, err := conv.PlaceOrder(context.Background(), PlaceInput{
		CartID: "cart-1", ShopperName: "A", Email: "a@example.com", Phone: "1",
	})
	require.NoError(t, err)

	// Mutating the source cart's pointer must not reach the order.
	*seeded.Items[0].AttributeID = primitive.NewObjectID()
	assert.Equal(t, want, *orders.inserted[0].Items[0].AttributeID)
}

func TestPlaceOrderMissingCart(t *testing.T) {
	carts := &fakeCarts{byID: make(map[string]*models.Cart)}
	conv := NewConverter(carts, &fakeOrders{}, logger.NewNop())

	_, err := conv.PlaceOrder(context.Background(), PlaceInput{
		CartID: "ghost", ShopperName: "A", Email: "a@example.com", Phone: "1",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	carts := &fakeCarts{byID: map[string]*models.Cart{
		"cart-1": {CartID: "cart-1", Version: 1, Items: []models.CartItem{}},
	}}
	conv := NewConverter(carts, &fakeOrders{}, logger.NewNop())

	_, err := conv.PlaceOrder(context.Background(), PlaceInput{
		CartID: "cart-1", ShopperName: "A", Email: "a@example.com", Phone: "1",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestPlaceOrderStaleVersionWritesNothing(t *testing.T) {
	carts := &fakeCarts{byID: make(map[string]*models.Cart)}
	orders := &fakeOrders{}
	seeded := seedCart(carts, "cart-1")
	seeded.Version = 2

	conv := NewConverter(carts, orders, logger.NewNop())
	_, err := conv.PlaceOrder(context.Background(), PlaceInput{
		CartID: "cart-1", ShopperName: "A", Email: "a@example.com", Phone: "1",
		ExpectedVersion: 1,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
	assert.Empty(t, orders.inserted, "no order exists after a version miss")

	got, err := carts.FindByCartID(context.Background(), "cart-1")
	require.NoError(t, err, "cart is untouched after a version miss")
	assert.Len(t, got.Items, 2)
}

func TestPlaceOrderMatchingVersionSucceeds(t *testing.T) {
	carts := &fakeCarts{byID: make(map[string]*models.Cart)}
	orders := &fakeOrders{}
	seedCart(carts, "cart-1")

	conv := NewConverter(carts, orders, logger.NewNop())
	number, err := conv.PlaceOrder(context.Background(), PlaceInput{
		CartID: "cart-1", ShopperName: "A", Email: "a@example.com", Phone: "1",
		ExpectedVersion: 1,
	})
	require.NoError(t, err)
	assert.Regexp(t, `^ORD-`, number)
	assert.Len(t, orders.inserted, 1)
}

func TestPlaceOrderInsertFailureKeepsCart(t *testing.T) {
	carts := &fakeCarts{byID: make(map[string]*models.Cart)}
	orders := &fakeOrders{insertErr: apperrors.Dependency(assert.AnError, "store down")}
	seedCart(carts, "cart-1")

	conv := NewConverter(carts, orders, logger.NewNop())
	_, err := conv.PlaceOrder(context.Background(), PlaceInput{
		CartID: "cart-1", ShopperName: "A", Email: "a@example.com", Phone: "1",
	})
	require.Error(t, err)

	got, err := carts.FindByCartID(context.Background(), "cart-1")
	require.NoError(t, err, "failed order never destroys the cart")
	assert.Len(t, got.Items, 2)
}

func TestPlaceOrderRetriesOnNumberCollision(t *testing.T) {
	carts := &fakeCarts{byID: make(map[string]*models.Cart)}
	orders := &fakeOrders{taken: map[string]bool{"ORD-TAKEN111": true}}
	seedCart(carts, "cart-1")

	conv := NewConverter(carts, orders, logger.NewNop())
	sequence := []string{"ORD-TAKEN111", "ORD-FRESH222"}
	conv.newNumber = func() string {
		next := sequence[0]
		if len(sequence) > 1 {
			sequence = sequence[1:]
		}
		return next
	}

	number, err := conv.PlaceOrder(context.Background(), PlaceInput{
		CartID: "cart-1", ShopperName: "A", Email: "a@example.com", Phone: "1",
	})
	require.NoError(t, err)
	assert.Equal(t, "ORD-FRESH222", number)
	assert.Len(t, orders.inserted, 1)
}

func TestPlaceOrderCollisionExhaustionKeepsCart(t *testing.T) {
	carts := &fakeCarts{byID: make(map[string]*models.Cart)}
	orders := &fakeOrders{taken: map[string]bool{"ORD-TAKEN111": true}}
	seedCart(carts, "cart-1")

	conv := NewConverter(carts, orders, logger.NewNop())
	conv.newNumber = func() string { return "ORD-TAKEN111" }

	_, err := conv.PlaceOrder(context.Background(), PlaceInput{
		CartID: "cart-1", ShopperName: "A", Email: "a@example.com", Phone: "1",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsDependency(err))

	_, err = carts.FindByCartID(context.Background(), "cart-1")
	require.NoError(t, err)
}

func TestNewOrderNumberFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^ORD-[0-9ABCDEFGHJKMNPQRSTVWXYZ]{8}$`)
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		n := NewOrderNumber()
		assert.Regexp(t, pattern, n)
		seen[n] = true
	}
	assert.Greater(t, len(seen), 190, "numbers are effectively unique")
}
