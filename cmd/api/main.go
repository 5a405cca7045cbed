package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/dkhanna99/JerseyWorld-sub000/internal/config"
	"github.com/dkhanna99/JerseyWorld-sub000/internal/database"
	"github.com/dkhanna99/JerseyWorld-sub000/internal/logger"
	"github.com/dkhanna99/JerseyWorld-sub000/internal/routes"
)

func main() {
	cfg := config.Load()

	zlog, err := logger.New(cfg.Mode)
	if err != nil {
		log.Fatal("init logger: ", err)
	}
	defer zlog.Sync()

	client, err := database.Connect(cfg.MongoURI)
	if err != nil {
		zlog.Fatal("mongo connect failed", "error", err)
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	db := client.Database(cfg.MongoDB)
	if err := database.EnsureIndexes(context.Background(), db); err != nil {
		zlog.Fatal("index bootstrap failed", "error", err)
	}

	gin.SetMode(cfg.Mode)
	router := gin.Default()
	routes.RegisterRoutes(router, db, cfg, zlog)

	zlog.Info("server starting", "port", cfg.Port, "db", cfg.MongoDB)
	if err := router.Run(":" + cfg.Port); err != nil {
		zlog.Fatal("server stopped", "error", err)
	}
}
