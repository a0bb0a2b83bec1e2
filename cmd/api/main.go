package main

import (
	"context"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"humanglue-backend/internal/config"
	"humanglue-backend/pkg/container"
	"humanglue-backend/pkg/logger"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load config", err)
		os.Exit(1)
	}

	logger.Init(cfg.App.Environment)

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	c, err := container.New(context.Background(), cfg)
	if err != nil {
		logger.Error("Failed to initialize container", err)
		os.Exit(1)
	}
	defer c.Cleanup()

	router := SetupRouter(c)
	if err := Serve(router, cfg.App.Port); err != nil {
		logger.Error("Server stopped with error", err)
		os.Exit(1)
	}
}
