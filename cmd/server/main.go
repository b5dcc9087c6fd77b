package main

import (
	"context" // context package is needed for the Redis ping
	"log"     // log package is needed for logging
	"time"    // Durations for token lifetime and cache TTL

	"github.com/DinoSarlija/StockInformer/internal/api"        // Custom package for API handlers
	"github.com/DinoSarlija/StockInformer/internal/config"     // Custom package for configuration
	"github.com/DinoSarlija/StockInformer/internal/middleware" // Custom package for middleware
	"github.com/DinoSarlija/StockInformer/internal/utils"      // Cache helpers
	"github.com/DinoSarlija/StockInformer/internal/yahoo"      // Quote lookup adapter

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/driver/mysql"         // MySQL driver for GORM
	"gorm.io/gorm"                 // GORM ORM library
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// An empty signing secret would silently issue forgeable tokens, so the
	// process refuses to start without one.
	if cfg.JWTSecret == "" {
		logrus.Fatal("JWT_SECRET is not set")
	}

	// Setup Data Source Name (DSN) and connect to the database
	dsn := cfg.DBUser + ":" + cfg.DBPassword + "@tcp(" + cfg.DBHost + ":" + cfg.DBPort + ")/" + cfg.DBName + "?parseTime=true"
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	_, err = redisClient.Ping(context.Background()).Result()
	if err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	cache := utils.NewCache(redisClient, 60*time.Second) // Short-TTL read cache
	quotes := yahoo.NewClient()                          // Quote provider with bounded timeout
	lifetime := time.Duration(cfg.JWTLifetime) * time.Second

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	// Dual-scheme authentication gate for protected routes
	auth := middleware.AuthMiddleware(db, cfg.JWTSecret)

	// Open routes
	r.POST("/register", api.RegisterHandler(db))                          // Registration endpoint
	r.GET("/login", api.LoginHandler(db, cfg.JWTSecret, lifetime))        // Login endpoint
	r.GET("/users", api.ListUsersHandler(db, cache))                      // User catalogue
	r.GET("/user", api.GetUserHandler(db))                                // User by id

	// User routes (protected)
	userGroup := r.Group("/user", auth)
	userGroup.PUT("/email", api.UpdateUserEmailHandler(db, cache))    // Change email
	userGroup.PUT("/password", api.UpdateUserPasswordHandler(db))     // Change password
	userGroup.PUT("/:id", api.DeleteUserHandler(db, cache))           // Soft-delete user + cascade

	// Portfolio routes (protected)
	r.GET("/portfolios", auth, api.GetPortfoliosHandler(db)) // Portfolios of a user
	portfolioGroup := r.Group("/portfolio", auth)
	portfolioGroup.GET("", api.GetPortfolioHandler(db))             // Portfolio by id
	portfolioGroup.POST("/new", api.CreatePortfolioHandler(db))     // Create portfolio
	portfolioGroup.PUT("/name", api.UpdatePortfolioNameHandler(db)) // Rename portfolio
	portfolioGroup.PUT("/:id", api.DeletePortfolioHandler(db))      // Soft-delete portfolio + tickers

	// Ticker routes (protected)
	tickerGroup := r.Group("/ticker", auth)
	tickerGroup.GET("/info", api.GetLatestTickerInfoHandler(quotes, cache))            // Latest quote + dividend
	tickerGroup.POST("/new", api.AddTickerHandler(db, quotes))                         // Attach ticker
	tickerGroup.PUT("/:id", api.DeleteTickerHandler(db))                               // Soft-delete ticker
	tickerGroup.GET("/search/:name", api.TickerSearchHandler(quotes, cache))           // Best search match
	tickerGroup.GET("/search/:name/extended", api.TickerExtensiveSearchHandler(quotes)) // All search matches
	r.GET("/tickers/:portfolio_id", auth, api.TickersFromPortfolioHandler(db, quotes)) // Portfolio ticker views

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server on port cfg.AppPort
}
