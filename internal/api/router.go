package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ASAFDIGITAL/orderup-asaf-hub/internal/api/handlers"
	"github.com/ASAFDIGITAL/orderup-asaf-hub/internal/api/middleware"
	"github.com/ASAFDIGITAL/orderup-asaf-hub/internal/config"
	"github.com/ASAFDIGITAL/orderup-asaf-hub/internal/service"
	"github.com/ASAFDIGITAL/orderup-asaf-hub/internal/store"
)

// Deps bundles everything the control API serves.
type Deps struct {
	Agent     *service.Agent
	Device    *service.Device
	Session   handlers.PrinterSession
	Printer   handlers.ReceiptPrinter
	Formatter handlers.ReceiptFormatter
	Store     *store.Store
	Hub       *Hub
}

// NewRouter creates and configures the Gin router for the local control API.
func NewRouter(cfg *config.Config, deps Deps, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := router.Group("/v1")
	v1.Use(middleware.AuthMiddleware(deps.Store, logger))
	{
		v1.GET("/ws", deps.Hub.HandleWS())

		v1.POST("/device/login", handlers.HandleLogin(deps.Device, logger))
		v1.POST("/device/logout", handlers.HandleLogout(deps.Device))
		v1.GET("/device/status", handlers.HandleDeviceStatus(deps.Device))

		v1.GET("/orders", handlers.HandleListOrders(deps.Agent, deps.Store, logger))
		v1.POST("/orders/refresh", handlers.HandleRefreshOrders(deps.Agent))
		v1.PUT("/orders/:id/status", handlers.HandleUpdateStatus(deps.Agent, logger))
		v1.POST("/orders/:id/print", handlers.HandlePrintOrder(deps.Agent, deps.Printer, deps.Store, logger))
		v1.GET("/orders/:id/receipt", handlers.HandlePreviewReceipt(deps.Agent, deps.Store, deps.Formatter))

		v1.POST("/printer/scan", handlers.HandleScanPrinters(deps.Session, logger))
		v1.POST("/printer/connect", handlers.HandleConnectPrinter(deps.Session, logger))
		v1.POST("/printer/disconnect", handlers.HandleDisconnectPrinter(deps.Session))
		v1.GET("/printer/status", handlers.HandlePrinterStatus(deps.Session))

		v1.GET("/settings/branding", handlers.HandleGetBranding(deps.Store))
		v1.PUT("/settings/branding", handlers.HandlePutBranding(deps.Store))
		v1.GET("/settings/auto-print", handlers.HandleGetAutoPrint(deps.Store))
		v1.PUT("/settings/auto-print", handlers.HandlePutAutoPrint(deps.Store, logger))
		v1.POST("/settings/ledger/clear", handlers.HandleClearLedger(deps.Store))
	}

	return router
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
		)
	}
}
