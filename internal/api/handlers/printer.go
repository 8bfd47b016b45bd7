package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ASAFDIGITAL/orderup-asaf-hub/internal/printer"
	apperrors "github.com/ASAFDIGITAL/orderup-asaf-hub/pkg/errors"
)

// PrinterSession is the session-manager surface the printer handlers drive.
type PrinterSession interface {
	Scan(ctx context.Context, timeout time.Duration) ([]printer.Device, error)
	Connect(ctx context.Context, address string) error
	Disconnect() error
	IsConnected() bool
	CurrentAddress() string
	CurrentState() printer.State
}

const defaultScanWindow = 10 * time.Second

// HandleScanPrinters handles POST /v1/printer/scan. Blocks for the scan
// window and returns the discovered devices.
func HandleScanPrinters(session PrinterSession, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		devices, err := session.Scan(c.Request.Context(), defaultScanWindow)
		if err != nil {
			var (
				noDevices  *apperrors.ErrNoDevicesFound
				inProgress *apperrors.ErrScanInProgress
			)
			switch {
			case errors.As(err, &noDevices):
				c.JSON(http.StatusOK, gin.H{"devices": []printer.Device{}, "message": err.Error()})
			case errors.As(err, &inProgress):
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			default:
				logger.Error("Printer scan failed", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "scan failed"})
			}
			return
		}
		c.JSON(http.StatusOK, gin.H{"devices": devices})
	}
}

type connectRequest struct {
	Address string `json:"address" binding:"required"`
}

// HandleConnectPrinter handles POST /v1/printer/connect. The address comes
// either from a scan result or typed in directly for non-discoverable
// printers.
func HandleConnectPrinter(session PrinterSession, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req connectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "address is required"})
			return
		}

		if err := session.Connect(c.Request.Context(), req.Address); err != nil {
			var inProgress *apperrors.ErrConnectInProgress
			if errors.As(err, &inProgress) {
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				return
			}
			logger.Warn("Printer connect failed", zap.String("address", req.Address), zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "connected", "address": req.Address})
	}
}

// HandleDisconnectPrinter handles POST /v1/printer/disconnect.
func HandleDisconnectPrinter(session PrinterSession) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := session.Disconnect(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "disconnected"})
	}
}

// HandlePrinterStatus handles GET /v1/printer/status.
func HandlePrinterStatus(session PrinterSession) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"state":     session.CurrentState(),
			"connected": session.IsConnected(),
			"address":   session.CurrentAddress(),
		})
	}
}
