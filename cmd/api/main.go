package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"planbook/internal/config"
	"planbook/internal/database"
	"planbook/internal/handlers"
	"planbook/internal/logger"
	"planbook/internal/middleware"
	"planbook/internal/services"
	"planbook/internal/validator"

	_ "planbook/internal/docs" // Import swagger docs
)

// @title           Planbook API
// @version         1.0
// @description     Planbook is a revenue budgeting backend: it projects next-year income per product through growth, capacity, and collection forecasting, plans personnel and expense budgets, and finalizes yearly targets.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom request validators
	validator.Register()

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	auditService := services.NewAuditService(db)
	growthService := services.NewGrowthService(db)
	capacityService := services.NewCapacityService(db, appConfig.HoursPerDay)
	collectionService := services.NewCollectionService(db)
	resultService := services.NewResultService(db)
	personnelService := services.NewPersonnelService(db)
	expenseService := services.NewExpenseService(db)
	finalizationService := services.NewFinalizationService(db, collectionService)
	budgetService := services.NewBudgetService(db, growthService, expenseService, appConfig.DefaultIncreasePct)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, finalizationService, auditService)
	growthHandler := handlers.NewGrowthHandler(growthService)
	capacityHandler := handlers.NewCapacityHandler(capacityService)
	collectionHandler := handlers.NewCollectionHandler(collectionService)
	resultHandler := handlers.NewResultHandler(resultService)
	personnelHandler := handlers.NewPersonnelHandler(personnelService)
	expenseHandler := handlers.NewExpenseHandler(expenseService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)

	// Budget routes
	budgets := protected.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/year/:year", budgetHandler.GetBudgetByYear)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.PUT("/:id/opex-increase", budgetHandler.SetOpexIncrease)
	budgets.PUT("/:id/tax-increase", budgetHandler.SetTaxIncrease)
	budgets.GET("/:id/readiness", budgetHandler.GetReadiness)
	budgets.POST("/:id/finalize", budgetHandler.Finalize)
	budgets.POST("/:id/revert", budgetHandler.Revert)

	// Growth forecasting routes
	budgets.GET("/:id/growth", growthHandler.ListEntries)
	budgets.GET("/:id/growth/:productId", growthHandler.GetEntry)
	budgets.PUT("/:id/growth/:productId", growthHandler.UpdateEntry)
	budgets.POST("/:id/growth/:productId/project", growthHandler.Project)

	// Capacity forecasting routes
	budgets.GET("/:id/capacity", capacityHandler.ListEntries)
	budgets.GET("/:id/capacity/:productId", capacityHandler.GetEntry)
	budgets.PUT("/:id/capacity/:productId", capacityHandler.UpdateEntry)
	budgets.POST("/:id/capacity/:productId/hires", capacityHandler.AddHire)
	budgets.PUT("/:id/capacity/:productId/hires/:hireId", capacityHandler.UpdateHire)
	budgets.DELETE("/:id/capacity/:productId/hires/:hireId", capacityHandler.RemoveHire)
	protected.GET("/capacity/hours/:year", capacityHandler.GetAvailableHours)

	// Collection forecasting routes
	budgets.GET("/:id/collection", collectionHandler.ListEntries)
	budgets.GET("/:id/collection/:productId", collectionHandler.GetEntry)
	budgets.PUT("/:id/collection/:productId", collectionHandler.UpdateEntry)
	budgets.POST("/:id/collection/:productId/patterns", collectionHandler.AddPattern)
	budgets.GET("/:id/collection/:productId/patterns/validate", collectionHandler.ValidatePatterns)
	budgets.PUT("/:id/collection/:productId/patterns/:patternId", collectionHandler.UpdatePattern)
	budgets.DELETE("/:id/collection/:productId/patterns/:patternId", collectionHandler.RemovePattern)

	// Result consolidation routes
	budgets.GET("/:id/results", resultHandler.ListEntries)
	budgets.POST("/:id/results/recompute", resultHandler.RecomputeAll)
	budgets.GET("/:id/results/:productId", resultHandler.GetEntry)
	budgets.POST("/:id/results/:productId/recompute", resultHandler.Recompute)
	budgets.PUT("/:id/results/:productId/final", resultHandler.SelectFinal)
	budgets.GET("/:id/results/:productId/variance", resultHandler.Variance)

	// Personnel planning routes
	budgets.GET("/:id/personnel", personnelHandler.ListEntries)
	budgets.GET("/:id/personnel/:employeeId", personnelHandler.GetEntry)
	budgets.PUT("/:id/personnel/:employeeId", personnelHandler.UpdateEntry)
	budgets.PUT("/:id/personnel/:employeeId/allocations", personnelHandler.SetAllocations)
	budgets.GET("/:id/personnel/:employeeId/cost-breakdown", personnelHandler.CostBreakdown)

	// Expense planning routes
	budgets.GET("/:id/expenses", expenseHandler.ListEntries)
	budgets.GET("/:id/expenses/rollup", expenseHandler.Rollup)
	budgets.GET("/:id/expenses/:categoryId", expenseHandler.GetEntry)
	budgets.PUT("/:id/expenses/:categoryId", expenseHandler.UpdateEntry)

	log.Infof("Starting Planbook backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
