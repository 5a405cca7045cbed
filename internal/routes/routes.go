package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dkhanna99/JerseyWorld-sub000/internal/admin"
	"github.com/dkhanna99/JerseyWorld-sub000/internal/cache"
	"github.com/dkhanna99/JerseyWorld-sub000/internal/cart"
	"github.com/dkhanna99/JerseyWorld-sub000/internal/config"
	"github.com/dkhanna99/JerseyWorld-sub000/internal/contact"
	"github.com/dkhanna99/JerseyWorld-sub000/internal/handlers"
	"github.com/dkhanna99/JerseyWorld-sub000/internal/logger"
	"github.com/dkhanna99/JerseyWorld-sub000/internal/order"
	"github.com/dkhanna99/JerseyWorld-sub000/internal/repository"
)

// RegisterRoutes wires repositories, services and handlers onto the
// router.
func RegisterRoutes(router *gin.Engine, db *mongo.Database, cfg *config.Config, log *logger.Logger) {
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "If-Match", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	products := repository.NewProductRepository(db)
	variants := repository.NewVariantRepository(db)
	categories := repository.NewCategoryRepository(db)
	carts := repository.NewCartRepository(db)
	orders := repository.NewOrderRepository(db)
	contacts := repository.NewContactRepository(db)

	store := cache.New(5 * time.Minute)

	cartManager := cart.NewManager(products, variants, carts)
	orderConverter := order.NewConverter(carts, orders, log)
	aggregator := admin.NewAggregator(orders, carts, contacts, products, variants, cfg.Location)
	contactService := contact.NewService(contacts)

	productHandler := handlers.NewProductHandler(products, variants, store)
	variantHandler := handlers.NewVariantHandler(variants, products, store, log)
	categoryHandler := handlers.NewCategoryHandler(categories)
	cartHandler := handlers.NewCartHandler(cartManager)
	orderHandler := handlers.NewOrderHandler(orderConverter)
	contactHandler := handlers.NewContactHandler(contactService)
	adminHandler := handlers.NewAdminHandler(aggregator, store)

	router.GET("/healthz", handlers.HealthCheck)

	v1 := router.Group("/v1")
	{
		v1.GET("/categories", categoryHandler.ListCategories)
		v1.GET("/categories/:id", categoryHandler.GetCategory)
		v1.GET("/products", productHandler.ListProducts)
		v1.GET("/products/:id", productHandler.GetProduct)
		v1.GET("/products/:id/variants", variantHandler.ListVariants)

		v1.GET("/cart/:cartId", cartHandler.GetCart)
		v1.PUT("/cart/:cartId", cartHandler.UpsertCart)
		v1.PATCH("/cart/:cartId/items/:itemId", cartHandler.UpdateItem)
		v1.DELETE("/cart/:cartId/items/:itemId", cartHandler.RemoveItem)
		v1.DELETE("/cart/:cartId", cartHandler.ClearCart)

		v1.POST("/orders", orderHandler.PlaceOrder)
		v1.POST("/contact", contactHandler.SubmitMessage)
	}

	adminGroup := v1.Group("/admin")
	{
		adminGroup.POST("/products", productHandler.CreateProduct)
		adminGroup.PATCH("/products/:id", productHandler.UpdateProduct)
		adminGroup.DELETE("/products/:id", productHandler.DeleteProduct)
		adminGroup.POST("/products/:id/variants", variantHandler.CreateVariant)
		adminGroup.PATCH("/variants/:id", variantHandler.UpdateVariant)
		adminGroup.DELETE("/variants/:id", variantHandler.DeleteVariant)

		adminGroup.POST("/categories", categoryHandler.CreateCategory)
		adminGroup.PATCH("/categories/:id", categoryHandler.UpdateCategory)
		adminGroup.DELETE("/categories/:id", categoryHandler.DeleteCategory)

		adminGroup.GET("/orders", adminHandler.ListOrders)
		adminGroup.GET("/carts", adminHandler.ListCarts)
		adminGroup.GET("/contacts", contactHandler.ListMessages)
		adminGroup.PATCH("/contacts/:id/status", contactHandler.UpdateStatus)

		adminGroup.GET("/dashboard/summary", adminHandler.Summary)
		adminGroup.GET("/dashboard/series", adminHandler.DailySeries)
	}
}
