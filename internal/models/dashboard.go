package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DayTotal is one calendar-day bucket of the dashboard series. Day is
// formatted 2006-01-02 in the dashboard timezone.
type DayTotal struct {
	Day          string `json:"day"`
	RevenueCents int64  `json:"revenue_cents"`
	Orders       int64  `json:"orders"`
}

// RecentOrder is the condensed order row shown on the dashboard.
type RecentOrder struct {
	ID          primitive.ObjectID `json:"id"`
	OrderNumber string             `json:"order_number"`
	ShopperName string             `json:"shopper_name"`
	TotalCents  int64              `json:"total_cents"`
	ItemCount   int                `json:"item_count"`
	CreatedAt   time.Time          `json:"created_at"`
}

// RecentContact is the condensed contact row shown on the dashboard;
// Message is truncated for display.
type RecentContact struct {
	ID        primitive.ObjectID `json:"id"`
	Name      string             `json:"name"`
	Email     string             `json:"email"`
	Message   string             `json:"message"`
	Status    ContactStatus      `json:"status"`
	CreatedAt time.Time          `json:"created_at"`
}

// DashboardSummary is the aggregate payload for the admin dashboard.
type DashboardSummary struct {
	TotalRevenueCents  int64           `json:"total_revenue_cents"`
	RevenueTodayCents  int64           `json:"revenue_today_cents"`
	Revenue7DaysCents  int64           `json:"revenue_7_days_cents"`
	Revenue30DaysCents int64           `json:"revenue_30_days_cents"`
	TotalOrders        int64           `json:"total_orders"`
	OrdersToday        int64           `json:"orders_today"`
	Orders7Days        int64           `json:"orders_7_days"`
	Orders30Days       int64           `json:"orders_30_days"`
	ActiveCarts        int64           `json:"active_carts"`
	TotalProducts      int64           `json:"total_products"`
	UnreadContacts     int64           `json:"unread_contacts"`
	ProductsNoImage    int64           `json:"products_no_image"`
	FeaturedProducts   int64           `json:"featured_products"`
	RecentOrders       []RecentOrder   `json:"recent_orders"`
	RecentContacts     []RecentContact `json:"recent_contacts"`
}
