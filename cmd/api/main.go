package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"netshop-backend/pkg/logger"
)

func main() {
	// .env chỉ dùng cho local; production đọc system environment variables
	if err := godotenv.Load(); err != nil {
		logger.Warn("⚠️  No .env file found, using system environment variables", nil)
	}

	if os.Getenv("APP_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	Serve()
}
