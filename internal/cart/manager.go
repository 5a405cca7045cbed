package cart

import (
	"context"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dkhanna99/JerseyWorld-sub000/internal/apperrors"
	"github.com/dkhanna99/JerseyWorld-sub000/internal/models"
)

// ProductStore is the slice of the catalog the cart flow reads.
type ProductStore interface {
	FindByID(ctx context.Context, id string) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Product, error)
}

type VariantStore interface {
	FindByID(ctx context.Context, id string) (*models.ProductVariant, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.ProductVariant, error)
}

type Store interface {
	FindByCartID(ctx context.Context, cartID string) (*models.Cart, error)
	ReplaceItems(ctx context.Context, cartID string, items []models.CartItem, expectedVersion int64) (*models.Cart, error)
	Delete(ctx context.Context, cartID string, expectedVersion int64) error
}

// Manager owns the mapping from a cartId to its priced line items. Prices
// are always re-derived from the catalog at write time; input never
// carries one.
type Manager struct {
	products ProductStore
	variants VariantStore
	carts    Store
}

func NewManager(products ProductStore, variants VariantStore, carts Store) *Manager {
	return &Manager{products: products, variants: variants, carts: carts}
}

// ItemInput is one requested cart line. ItemID is kept when the client
// echoes back an existing line; new lines get a generated one.
type ItemInput struct {
	ItemID      string `json:"item_id,omitempty"`
	ProductID   string `json:"product_id" binding:"required"`
	AttributeID string `json:"attribute_id,omitempty"`
	Quantity    int64  `json:"quantity" binding:"required,min=1"`
}

// ItemUpdate carries the mutable fields of one existing line. A nil field
// is left unchanged; an empty AttributeID drops the variant.
type ItemUpdate struct {
	Quantity    *int64  `json:"quantity,omitempty"`
	AttributeID *string `json:"attribute_id,omitempty"`
}

// Fetch returns the cart with product and variant display fields
// attached. Dangling references render with a nil product/variant.
func (m *Manager) Fetch(ctx context.Context, cartID string) (*models.CartView, error) {
	cart, err := m.carts.FindByCartID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	return m.populate(ctx, cart)
}

// Upsert validates every input against the live catalog, then replaces
// the cart's whole item list (creating the cart when absent). It is a
// full replace: lines missing from the input are removed. Any validation
// failure aborts before a single write.
func (m *Manager) Upsert(ctx context.Context, cartID string, inputs []ItemInput, expectedVersion int64) (*models.CartView, error) {
	items := make([]models.CartItem, 0, len(inputs))
	for _, in := range inputs {
		item, err := m.resolve(ctx, in)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	cart, err := m.carts.ReplaceItems(ctx, cartID, items, expectedVersion)
	if err != nil {
		return nil, err
	}
	return m.populate(ctx, cart)
}

// UpdateItem re-resolves price for one line addressed by its item id,
// leaving the others untouched.
func (m *Manager) UpdateItem(ctx context.Context, cartID, itemID string, upd ItemUpdate, expectedVersion int64) (*models.CartView, error) {
	cart, err := m.carts.FindByCartID(ctx, cartID)
	if err != nil {
		return nil, err
	}

	idx := indexOf(cart.Items, itemID)
	if idx < 0 {
		return nil, apperrors.NotFound("item %s not found in cart %s", itemID, cartID)
	}
	existing := cart.Items[idx]

	in := ItemInput{
		ItemID:    existing.ItemID,
		ProductID: existing.ProductID.Hex(),
		Quantity:  existing.Quantity,
	}
	if existing.AttributeID != nil {
		in.AttributeID = existing.AttributeID.Hex()
	}
	if upd.Quantity != nil {
		in.Quantity = *upd.Quantity
	}
	if upd.AttributeID != nil {
		in.AttributeID = *upd.AttributeID
	}

	item, err := m.resolve(ctx, in)
	if err != nil {
		return nil, err
	}
	cart.Items[idx] = item

	updated, err := m.carts.ReplaceItems(ctx, cartID, cart.Items, expectedVersion)
	if err != nil {
		return nil, err
	}
	return m.populate(ctx, updated)
}

// RemoveItem deletes one line addressed by its item id.
func (m *Manager) RemoveItem(ctx context.Context, cartID, itemID string, expectedVersion int64) (*models.CartView, error) {
	cart, err := m.carts.FindByCartID(ctx, cartID)
	if err != nil {
		return nil, err
	}

	idx := indexOf(cart.Items, itemID)
	if idx < 0 {
		return nil, apperrors.NotFound("item %s not found in cart %s", itemID, cartID)
	}

	items := append(cart.Items[:idx:idx], cart.Items[idx+1:]...)
	updated, err := m.carts.ReplaceItems(ctx, cartID, items, expectedVersion)
	if err != nil {
		return nil, err
	}
	return m.populate(ctx, updated)
}

// Clear deletes the cart document entirely.
func (m *Manager) Clear(ctx context.Context, cartID string, expectedVersion int64) error {
	return m.carts.Delete(ctx, cartID, expectedVersion)
}

// resolve turns one input line into a validated, server-priced item.
// Price authority lives here: variant price when a valid variant is
// supplied, product base price otherwise.
func (m *Manager) resolve(ctx context.Context, in ItemInput) (models.CartItem, error) {
	if in.Quantity < 1 {
		return models.CartItem{}, apperrors.Validation("quantity must be at least 1")
	}

	product, err := m.products.FindByID(ctx, in.ProductID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return models.CartItem{}, apperrors.Validation("unknown product %s", in.ProductID)
		}
		return models.CartItem{}, err
	}

	item := models.CartItem{
		ItemID:     in.ItemID,
		ProductID:  product.ID,
		Quantity:   in.Quantity,
		PriceCents: product.PriceCents,
	}
	if item.ItemID == "" {
		item.ItemID = uuid.NewString()
	}

	if product.HasVariants && in.AttributeID != "" {
		variant, err := m.variants.FindByID(ctx, in.AttributeID)
		if err != nil {
			if apperrors.IsNotFound(err) || apperrors.IsValidation(err) {
				return models.CartItem{}, apperrors.Validation("invalid variant %s for product %s", in.AttributeID, in.ProductID)
			}
			return models.CartItem{}, err
		}
		if variant.ProductID != product.ID {
			return models.CartItem{}, apperrors.Validation("invalid variant %s for product %s", in.AttributeID, in.ProductID)
		}
		attrID := variant.ID
		item.AttributeID = &attrID
		item.PriceCents = variant.PriceCents
	}

	return item, nil
}

func (m *Manager) populate(ctx context.Context, cart *models.Cart) (*models.CartView, error) {
	productIDs := make([]primitive.ObjectID, 0, len(cart.Items))
	variantIDs := make([]primitive.ObjectID, 0, len(cart.Items))
	for _, it := range cart.Items {
		productIDs = append(productIDs, it.ProductID)
		if it.AttributeID != nil {
			variantIDs = append(variantIDs, *it.AttributeID)
		}
	}

	products, err := m.products.FindByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	variants, err := m.variants.FindByIDs(ctx, variantIDs)
	if err != nil {
		return nil, err
	}

	view := &models.CartView{
		CartID:    cart.CartID,
		Items:     make([]models.CartItemView, 0, len(cart.Items)),
		Version:   cart.Version,
		CreatedAt: cart.CreatedAt,
		UpdatedAt: cart.UpdatedAt,
	}
	for _, it := range cart.Items {
		iv := models.CartItemView{CartItem: it, Product: products[it.ProductID]}
		if it.AttributeID != nil {
			iv.Variant = variants[*it.AttributeID]
		}
		view.Items = append(view.Items, iv)
	}
	return view, nil
}

func indexOf(items []models.CartItem, itemID string) int {
	for i, it := range items {
		if it.ItemID == itemID {
			return i
		}
	}
	return -1
}
