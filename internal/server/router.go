// Package server assembles the HTTP routes of the ledger API.
package server

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"asrama/internal/handlers"
	"asrama/internal/middleware"
	"asrama/internal/services"

	_ "asrama/internal/docs" // Import swagger docs
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Transactions services.TransactionServicer
	Audit        services.AuditServicer
	Verifier     *middleware.AdminVerifier
	Sessions     *middleware.SessionManager
	DB           handlers.Pinger // optional
	CORSOrigin   string
}

// NewRouter builds the gin engine. Mutating routes pass through the admin
// middleware before any handler binds the request body.
func NewRouter(d Deps) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS(d.CORSOrigin))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	transactionHandler := handlers.NewTransactionHandler(d.Transactions, d.Audit)
	authHandler := handlers.NewAuthHandler(d.Sessions)
	requireAdmin := middleware.AdminAuthMiddleware(d.Verifier, d.Sessions)

	api := router.Group("/api")
	api.GET("/health", handlers.Health(d.DB))
	api.GET("/stats", transactionHandler.GetStats)

	transactions := api.Group("/transactions")
	transactions.GET("", transactionHandler.ListTransactions)
	transactions.GET("/:id", transactionHandler.GetTransactionByID)
	transactions.POST("", requireAdmin, transactionHandler.CreateTransaction)
	transactions.DELETE("/:id", requireAdmin, transactionHandler.DeleteTransaction)

	auth := api.Group("/auth", requireAdmin)
	auth.GET("/verify", authHandler.Verify)
	auth.POST("/session", authHandler.CreateSession)

	return router
}
