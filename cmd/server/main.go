package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/neurotrain/transcribe/internal/ai"
	"github.com/neurotrain/transcribe/internal/api"
	"github.com/neurotrain/transcribe/internal/config"
	"github.com/neurotrain/transcribe/internal/storage"
)

func main() {
	// Load .env file if it exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode (default to release mode)
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := ai.NewOpenAIEngine(cfg.OpenAIKey, cfg.WhisperModel, cfg.SummaryModel)
	store := storage.NewStore(cfg.UploadDir)

	r := gin.Default()

	// Add CORS middleware for mobile app
	r.Use(corsMiddleware())

	// Register routes
	api.NewServer(engine, store).RegisterRoutes(r)

	log.Printf("Transcribe API running on :%s (model: %s)", cfg.Port, engine.Name())
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// corsMiddleware adds CORS headers for mobile app
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
