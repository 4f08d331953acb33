package main

import (
	"log"
	"os"
	"time"

	"eventura-api/config"
	"eventura-api/handlers"
	"eventura-api/middleware"
	"eventura-api/routes"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	db, err := config.InitDB()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	log.Println("✅ Database connected successfully")

	if err := config.RunMigrations(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	wsHandler := handlers.NewWSHandler()

	router := gin.Default()

	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = "http://localhost:3000"
	}

	allowedOrigins := []string{frontendURL}

	log.Printf("🌍 CORS: Allowing origins:")
	for _, origin := range allowedOrigins {
		log.Printf("   - %s", origin)
	}

	corsConfig := cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           86400,
	}
	router.Use(cors.New(corsConfig))

	router.Use(func(c *gin.Context) {
		start := time.Now()
		log.Printf("📨 %s %s from %s", c.Request.Method, c.Request.URL.Path, c.ClientIP())
		c.Next()
		duration := time.Since(start)
		log.Printf("✅ %s %s - %d (%v)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), duration)
	})

	router.Use(middleware.RateLimiter())

	v1 := router.Group("/api/v1")
	{
		routes.SetupAuthRoutes(v1, db)
		v1.GET("/ws/projects/:id", wsHandler.HandleWS)

		protected := v1.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			routes.SetupProjectRoutes(protected, db, wsHandler)
			routes.SetupInvitationRoutes(protected, db, wsHandler)
			routes.SetupUserRoutes(protected, db)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("🚀 Server starting on port %s...", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
