package order

import (
	"context"
	"crypto/rand"

	"github.com/dkhanna99/JerseyWorld-sub000/internal/apperrors"
	"github.com/dkhanna99/JerseyWorld-sub000/internal/logger"
	"github.com/dkhanna99/JerseyWorld-sub000/internal/models"
)

type CartStore interface {
	FindByCartID(ctx context.Context, cartID string) (*models.Cart, error)
	Delete(ctx context.Context, cartID string, expectedVersion int64) error
}

type Store interface {
	Insert(ctx context.Context, order *models.Order) error
}

// maxNumberAttempts bounds order-number regeneration when an insert hits
// the unique index.
const maxNumberAttempts = 3

// Converter turns a cart into a permanent order and removes the cart.
type Converter struct {
	carts     CartStore
	orders    Store
	log       *logger.Logger
	newNumber func() string
}

func NewConverter(carts CartStore, orders Store, log *logger.Logger) *Converter {
	return &Converter{
		carts:     carts,
		orders:    orders,
		log:       log,
		newNumber: NewOrderNumber,
	}
}

type PlaceInput struct {
	CartID          string
	ShopperName     string
	Email           string
	Phone           string
	ExpectedVersion int64
}

// PlaceOrder snapshots the cart's items into a new order and deletes the
// cart. Items are copied verbatim; the price recorded at add-to-cart time
// is honored, never re-derived here. A stale expected version fails
// before anything is written. The cart is only deleted after the order
// insert succeeds, so a failed order never destroys the cart. A delete
// failure after a successful insert leaves the cart behind; that window
// is logged and accepted.
func (c *Converter) PlaceOrder(ctx context.Context, in PlaceInput) (string, error) {
	cart, err := c.carts.FindByCartID(ctx, in.CartID)
	if err != nil {
		return "", err
	}
	if in.ExpectedVersion > 0 && cart.Version != in.ExpectedVersion {
		return "", apperrors.Conflict("cart %s was modified concurrently", in.CartID)
	}
	if len(cart.Items) == 0 {
		return "", apperrors.Validation("cart %s is empty", in.CartID)
	}

	order := &models.Order{
		ShopperName: in.ShopperName,
		Email:       in.Email,
		Phone:       in.Phone,
		Items:       snapshotItems(cart.Items),
	}

	var insertErr error
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		order.OrderNumber = c.newNumber()
		insertErr = c.orders.Insert(ctx, order)
		if insertErr == nil {
			break
		}
		if !apperrors.IsConflict(insertErr) {
			return "", insertErr
		}
		c.log.Warn("order number collision, regenerating",
			"order_number", order.OrderNumber, "cart_id", in.CartID)
	}
	if insertErr != nil {
		return "", apperrors.Dependency(insertErr, "could not allocate a unique order number")
	}

	if err := c.carts.Delete(ctx, in.CartID, in.ExpectedVersion); err != nil {
		// Order is already persisted; the lingering cart is a known
		// inconsistency window, not a failure of the checkout.
		c.log.Error("cart delete failed after order insert",
			"cart_id", in.CartID, "order_number", order.OrderNumber, "error", err)
	}

	return order.OrderNumber, nil
}

func snapshotItems(items []models.CartItem) []models.OrderItem {
	out := make([]models.OrderItem, 0, len(items))
	for _, it := range items {
		oi := models.OrderItem{
			ItemID:     it.ItemID,
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			PriceCents: it.PriceCents,
		}
		if it.AttributeID != nil {
			attr := *it.AttributeID
			oi.AttributeID = &attr
		}
		out = append(out, oi)
	}
	return out
}

// Crockford base32, no I/L/O/U, so numbers read unambiguously over the
// phone.
const numberAlphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// NewOrderNumber returns a human-readable collision-resistant order
// number of the form ORD-XXXXXXXX.
func NewOrderNumber() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	for i, b := range buf {
		buf[i] = numberAlphabet[int(b)%len(numberAlphabet)]
	}
	return "ORD-" + string(buf)
}
