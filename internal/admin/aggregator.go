package admin

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dkhanna99/JerseyWorld-sub000/internal/models"
)

// OrderStore must return orders newest first from All.
type OrderStore interface {
	All(ctx context.Context) ([]*models.Order, error)
	DailyTotals(ctx context.Context, from, to time.Time, tz string) (map[string]models.DayTotal, error)
}

type CartStore interface {
	NonEmpty(ctx context.Context) ([]*models.Cart, error)
	CountNonEmpty(ctx context.Context) (int64, error)
}

type ContactStore interface {
	CountUnread(ctx context.Context) (int64, error)
	Recent(ctx context.Context, limit int64) ([]*models.ContactMessage, error)
}

type ProductStore interface {
	Count(ctx context.Context) (int64, error)
	CountFeatured(ctx context.Context) (int64, error)
	CountMissingImages(ctx context.Context) (int64, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Product, error)
}

type VariantStore interface {
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.ProductVariant, error)
}

const (
	recentOrderLimit   = 10
	recentContactLimit = 5
	contactPreviewLen  = 100
)

// Aggregator computes read-only dashboard views over orders, carts,
// contacts and products. It never writes.
type Aggregator struct {
	orders   OrderStore
	carts    CartStore
	contacts ContactStore
	products ProductStore
	variants VariantStore
	loc      *time.Location
	now      func() time.Time
}

func NewAggregator(orders OrderStore, carts CartStore, contacts ContactStore, products ProductStore, variants VariantStore, loc *time.Location) *Aggregator {
	if loc == nil {
		loc = time.Local
	}
	return &Aggregator{
		orders:   orders,
		carts:    carts,
		contacts: contacts,
		products: products,
		variants: variants,
		loc:      loc,
		now:      time.Now,
	}
}

// Summary computes the dashboard metrics. Revenue windows use calendar-day
// boundaries in the configured timezone: today, the last 7 days and the
// last 30 days, each including today.
func (a *Aggregator) Summary(ctx context.Context) (*models.DashboardSummary, error) {
	orders, err := a.orders.All(ctx)
	if err != nil {
		return nil, err
	}

	now := a.now().In(a.loc)
	startToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, a.loc)
	start7 := startToday.AddDate(0, 0, -6)
	start30 := startToday.AddDate(0, 0, -29)

	s := &models.DashboardSummary{
		TotalOrders:    int64(len(orders)),
		RecentOrders:   make([]models.RecentOrder, 0, recentOrderLimit),
		RecentContacts: make([]models.RecentContact, 0, recentContactLimit),
	}
	for _, o := range orders {
		total := o.TotalCents()
		s.TotalRevenueCents += total

		created := o.CreatedAt.In(a.loc)
		if !created.Before(startToday) {
			s.RevenueTodayCents += total
			s.OrdersToday++
		}
		if !created.Before(start7) {
			s.Revenue7DaysCents += total
			s.Orders7Days++
		}
		if !created.Before(start30) {
			s.Revenue30DaysCents += total
			s.Orders30Days++
		}

		if len(s.RecentOrders) < recentOrderLimit {
			s.RecentOrders = append(s.RecentOrders, models.RecentOrder{
				ID:          o.ID,
				OrderNumber: o.OrderNumber,
				ShopperName: o.ShopperName,
				TotalCents:  total,
				ItemCount:   len(o.Items),
				CreatedAt:   o.CreatedAt,
			})
		}
	}

	if s.ActiveCarts, err = a.carts.CountNonEmpty(ctx); err != nil {
		return nil, err
	}
	if s.TotalProducts, err = a.products.Count(ctx); err != nil {
		return nil, err
	}
	if s.UnreadContacts, err = a.contacts.CountUnread(ctx); err != nil {
		return nil, err
	}
	if s.ProductsNoImage, err = a.products.CountMissingImages(ctx); err != nil {
		return nil, err
	}
	if s.FeaturedProducts, err = a.products.CountFeatured(ctx); err != nil {
		return nil, err
	}

	contacts, err := a.contacts.Recent(ctx, recentContactLimit)
	if err != nil {
		return nil, err
	}
	for _, msg := range contacts {
		s.RecentContacts = append(s.RecentContacts, models.RecentContact{
			ID:        msg.ID,
			Name:      msg.Name,
			Email:     msg.Email,
			Message:   truncate(msg.Message, contactPreviewLen),
			Status:    msg.Status,
			CreatedAt: msg.CreatedAt,
		})
	}

	return s, nil
}

// DailySeries returns one bucket per calendar day for the last N days,
// oldest first, zero-filled for days with no orders. The buckets come
// from a single grouped aggregation over the whole range.
func (a *Aggregator) DailySeries(ctx context.Context, days int) ([]models.DayTotal, error) {
	if days < 1 {
		days = 1
	}

	now := a.now().In(a.loc)
	startToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, a.loc)
	start := startToday.AddDate(0, 0, -(days - 1))
	end := startToday.AddDate(0, 0, 1)

	totals, err := a.orders.DailyTotals(ctx, start, end, a.mongoTimezone(now))
	if err != nil {
		return nil, err
	}

	series := make([]models.DayTotal, 0, days)
	for day := start; day.Before(end); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		if bucket, ok := totals[key]; ok {
			series = append(series, bucket)
			continue
		}
		series = append(series, models.DayTotal{Day: key})
	}
	return series, nil
}

// ListOrders returns all orders newest first with display fields
// populated.
func (a *Aggregator) ListOrders(ctx context.Context) ([]models.OrderView, error) {
	orders, err := a.orders.All(ctx)
	if err != nil {
		return nil, err
	}

	var productIDs, variantIDs []primitive.ObjectID
	for _, o := range orders {
		for _, it := range o.Items {
			productIDs = append(productIDs, it.ProductID)
			if it.AttributeID != nil {
				variantIDs = append(variantIDs, *it.AttributeID)
			}
		}
	}
	products, variants, err := a.lookups(ctx, productIDs, variantIDs)
	if err != nil {
		return nil, err
	}

	views := make([]models.OrderView, 0, len(orders))
	for _, o := range orders {
		view := models.OrderView{
			ID:          o.ID,
			OrderNumber: o.OrderNumber,
			ShopperName: o.ShopperName,
			Email:       o.Email,
			Phone:       o.Phone,
			Items:       make([]models.OrderItemView, 0, len(o.Items)),
			TotalCents:  o.TotalCents(),
			CreatedAt:   o.CreatedAt,
		}
		for _, it := range o.Items {
			iv := models.OrderItemView{OrderItem: it, Product: products[it.ProductID]}
			if it.AttributeID != nil {
				iv.Variant = variants[*it.AttributeID]
			}
			view.Items = append(view.Items, iv)
		}
		views = append(views, view)
	}
	return views, nil
}

// ListCarts returns all non-empty carts newest first with display fields
// populated.
func (a *Aggregator) ListCarts(ctx context.Context) ([]models.CartView, error) {
	carts, err := a.carts.NonEmpty(ctx)
	if err != nil {
		return nil, err
	}

	var productIDs, variantIDs []primitive.ObjectID
	for _, c := range carts {
		for _, it := range c.Items {
			productIDs = append(productIDs, it.ProductID)
			if it.AttributeID != nil {
				variantIDs = append(variantIDs, *it.AttributeID)
			}
		}
	}
	products, variants, err := a.lookups(ctx, productIDs, variantIDs)
	if err != nil {
		return nil, err
	}

	views := make([]models.CartView, 0, len(carts))
	for _, c := range carts {
		view := models.CartView{
			CartID:    c.CartID,
			Items:     make([]models.CartItemView, 0, len(c.Items)),
			Version:   c.Version,
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		}
		for _, it := range c.Items {
			iv := models.CartItemView{CartItem: it, Product: products[it.ProductID]}
			if it.AttributeID != nil {
				iv.Variant = variants[*it.AttributeID]
			}
			view.Items = append(view.Items, iv)
		}
		views = append(views, view)
	}
	return views, nil
}

// mongoTimezone renders the location the way $dateToString accepts it:
// the Olson name when there is one, otherwise the current numeric
// offset. time.Local stringifies as "Local", which Mongo rejects.
func (a *Aggregator) mongoTimezone(now time.Time) string {
	if name := a.loc.String(); name != "Local" {
		return name
	}
	return now.Format("-07:00")
}

func (a *Aggregator) lookups(ctx context.Context, productIDs, variantIDs []primitive.ObjectID) (map[primitive.ObjectID]*models.Product, map[primitive.ObjectID]*models.ProductVariant, error) {
	products, err := a.products.FindByIDs(ctx, productIDs)
	if err != nil {
		return nil, nil, err
	}
	variants, err := a.variants.FindByIDs(ctx, variantIDs)
	if err != nil {
		return nil, nil, err
	}
	return products, variants, nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
