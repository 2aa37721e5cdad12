package main

import (
	"context" // context package is needed for Redis operations
	"log"     // log package is needed for logging

	"split_wallet/internal/api"        // Custom package for API handlers
	"split_wallet/internal/config"     // Custom package for configuration
	"split_wallet/internal/middleware" // Custom package for middleware
	"split_wallet/internal/wallet"     // Wallet core service

	"github.com/gin-contrib/cors"  // CORS middleware for the SPA origin
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

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Wallet core service; holds only the DB handle
	walletSvc := wallet.NewService(db)

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	// Allow the SPA origin to call the API with credentials
	if cfg.ClientURL != "" {
		corsCfg := cors.DefaultConfig()
		corsCfg.AllowOrigins = []string{cfg.ClientURL}
		corsCfg.AllowCredentials = true
		corsCfg.AddAllowHeaders("Authorization")
		r.Use(cors.New(corsCfg))
	}

	// Auth routes
	authGroup := r.Group("/auth")
	authGroup.POST("/signup", api.SignupHandler(db))              // Registration endpoint
	authGroup.POST("/login", api.LoginHandler(db, cfg.JWTSecret)) // Login endpoint
	authGroup.GET("/me",
		middleware.JWTAuthMiddleware(cfg.JWTSecret),
		api.ProfileHandler(db, walletSvc)) // Profile endpoint

	// Wallet routes (protected by JWT)
	walletGroup := r.Group("/wallet")
	// Protect wallet routes with JWT middleware and inject Redis client into context
	walletGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret), func(c *gin.Context) {
		c.Set("redisClient", redisClient)
		c.Next()
	})
	walletGroup.POST("", api.CreateWalletHandler(walletSvc))                            // Create wallet endpoint
	walletGroup.GET("", api.ListWalletsHandler(walletSvc, redisClient))                 // List wallets endpoint
	walletGroup.GET("/:id", api.GetWalletHandler(walletSvc))                            // Get wallet endpoint
	walletGroup.PUT("/:id", api.RenameWalletHandler(walletSvc))                         // Rename wallet endpoint
	walletGroup.DELETE("/:id", api.DeleteWalletHandler(walletSvc))                      // Delete wallet endpoint
	walletGroup.POST("/deposit", api.DepositHandler(walletSvc))                         // Deposit endpoint
	walletGroup.POST("/withdraw", api.WithdrawHandler(walletSvc))                       // Withdraw endpoint
	walletGroup.POST("/split", api.SplitHandler(walletSvc))                             // Split endpoint
	walletGroup.GET("/:id/transactions", api.GetTransactionsHandler(walletSvc, redisClient)) // Transaction history endpoint

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server on port cfg.AppPort
}
