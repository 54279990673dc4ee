package router

import (
	"github.com/gin-gonic/gin"

	"recscan/internal/handler"
	"recscan/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	receiptH *handler.ReceiptHandler,
	healthH *handler.HealthHandler,
	corsOrigins []string,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(corsOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")
	receipts := v1.Group("/receipts")
	receipts.POST("/analyze", receiptH.Analyze)
	receipts.POST("/export", receiptH.Export)

	// Legacy route kept for existing OCR clients
	r.POST("/analyze-receipt", receiptH.Analyze)

	return r
}
