package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ASAFDIGITAL/orderup-asaf-hub/internal/domain"
	apperrors "github.com/ASAFDIGITAL/orderup-asaf-hub/pkg/errors"
)

// OrderSource is the polling agent surface the order handlers drive.
type OrderSource interface {
	Orders() []domain.Order
	LastError() error
	RefreshNow()
	UpdateStatus(ctx context.Context, orderID int64, status domain.OrderStatus) error
}

// ReceiptPrinter prints one order.
type ReceiptPrinter interface {
	PrintReceipt(ctx context.Context, order domain.Order) (string, error)
}

// PrintLedger records manual prints alongside automatic ones.
type PrintLedger interface {
	HasPrinted(orderID int64) bool
	MarkPrinted(orderID int64)
}

// BrandingSource loads the branding used for receipt previews.
type BrandingSource interface {
	LoadBranding() domain.BrandingConfig
}

// ReceiptFormatter renders an order into printable lines.
type ReceiptFormatter interface {
	Format(order domain.Order, branding domain.BrandingConfig) []string
}

type orderListItem struct {
	domain.Order
	StatusLabel string `json:"status_label"`
	Printed     bool   `json:"printed"`
}

// HandleListOrders handles GET /v1/orders. The optional status query filters
// to one tab of the list; "all" or absent returns everything.
func HandleListOrders(agent OrderSource, ledger PrintLedger, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := c.Query("status")
		if filter != "" && filter != "all" && !domain.OrderStatus(filter).IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status filter"})
			return
		}

		counts := map[string]int{}
		orders := agent.Orders()
		items := make([]orderListItem, 0, len(orders))
		for _, order := range orders {
			counts[string(order.Status)]++
			if filter != "" && filter != "all" && string(order.Status) != filter {
				continue
			}
			items = append(items, orderListItem{
				Order:       order,
				StatusLabel: order.Status.LabelHe(),
				Printed:     ledger.HasPrinted(order.ID),
			})
		}

		resp := gin.H{"orders": items, "counts": counts}
		if err := agent.LastError(); err != nil {
			resp["poll_error"] = err.Error()
		}
		c.JSON(http.StatusOK, resp)
	}
}

// HandleRefreshOrders handles POST /v1/orders/refresh.
func HandleRefreshOrders(agent OrderSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		agent.RefreshNow()
		c.JSON(http.StatusAccepted, gin.H{"status": "refresh scheduled"})
	}
}

type updateStatusRequest struct {
	Status domain.OrderStatus `json:"status" binding:"required"`
}

// HandleUpdateStatus handles PUT /v1/orders/:id/status.
func HandleUpdateStatus(agent OrderSource, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order ID"})
			return
		}

		var req updateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if !req.Status.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}

		if err := agent.UpdateStatus(c.Request.Context(), orderID, req.Status); err != nil {
			writeAgentError(c, logger, "Failed to update order status", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "updated"})
	}
}

// HandlePrintOrder handles POST /v1/orders/:id/print. Manual prints go to
// the ledger too so a later auto-print pass skips them.
func HandlePrintOrder(agent OrderSource, printer ReceiptPrinter, ledger PrintLedger, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, ok := findOrder(c, agent)
		if !ok {
			return
		}

		jobID, err := printer.PrintReceipt(c.Request.Context(), order)
		if err != nil {
			var notConnected *apperrors.ErrNotConnected
			if errors.As(err, &notConnected) {
				c.JSON(http.StatusConflict, gin.H{"error": "no printer connected"})
				return
			}
			logger.Error("Manual print failed", zap.Int64("order_id", order.ID), zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "print failed"})
			return
		}

		ledger.MarkPrinted(order.ID)
		c.JSON(http.StatusOK, gin.H{"status": "printed", "job_id": jobID})
	}
}

// HandlePreviewReceipt handles GET /v1/orders/:id/receipt. Returns the
// formatted lines without touching the printer.
func HandlePreviewReceipt(agent OrderSource, branding BrandingSource, formatter ReceiptFormatter) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, ok := findOrder(c, agent)
		if !ok {
			return
		}
		lines := formatter.Format(order, branding.LoadBranding())
		c.JSON(http.StatusOK, gin.H{"lines": lines})
	}
}

func findOrder(c *gin.Context, agent OrderSource) (domain.Order, bool) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order ID"})
		return domain.Order{}, false
	}
	for _, order := range agent.Orders() {
		if order.ID == orderID {
			return order, true
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
	return domain.Order{}, false
}

func writeAgentError(c *gin.Context, logger *zap.Logger, msg string, err error) {
	var (
		unauthorized *apperrors.ErrUnauthorized
		authFailure  *apperrors.ErrAuthFailure
		netFailure   *apperrors.ErrNetworkFailure
	)
	switch {
	case errors.As(err, &unauthorized), errors.As(err, &authFailure):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.As(err, &netFailure):
		c.JSON(http.StatusBadGateway, gin.H{"error": "order API unreachable"})
	default:
		logger.Error(msg, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
