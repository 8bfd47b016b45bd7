package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ASAFDIGITAL/orderup-asaf-hub/internal/domain"
	"github.com/ASAFDIGITAL/orderup-asaf-hub/internal/service"
	apperrors "github.com/ASAFDIGITAL/orderup-asaf-hub/pkg/errors"
)

// DeviceAuth is the login/logout surface.
type DeviceAuth interface {
	Login(ctx context.Context, apiURL, token string) (string, error)
	Logout()
	Status() service.DeviceStatus
}

// SettingsStore bundles the device settings the handlers read and write.
type SettingsStore interface {
	LoadBranding() domain.BrandingConfig
	SaveBranding(cfg domain.BrandingConfig)
	AutoPrintEnabled() bool
	SetAutoPrintEnabled(enabled bool) error
	ClearLedger()
}

type loginRequest struct {
	APIURL string `json:"api_url" binding:"required"`
	Token  string `json:"token" binding:"required"`
}

// HandleLogin handles POST /v1/device/login.
func HandleLogin(device DeviceAuth, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "api_url and token are required"})
			return
		}

		name, err := device.Login(c.Request.Context(), req.APIURL, req.Token)
		if err != nil {
			var (
				authFailure *apperrors.ErrAuthFailure
				netFailure  *apperrors.ErrNetworkFailure
			)
			switch {
			case errors.As(err, &authFailure):
				c.JSON(http.StatusUnauthorized, gin.H{"error": "token rejected"})
			case errors.As(err, &netFailure):
				c.JSON(http.StatusBadGateway, gin.H{"error": "order API unreachable"})
			default:
				logger.Error("Login failed", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			}
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "logged_in", "device_name": name})
	}
}

// HandleLogout handles POST /v1/device/logout.
func HandleLogout(device DeviceAuth) gin.HandlerFunc {
	return func(c *gin.Context) {
		device.Logout()
		c.JSON(http.StatusOK, gin.H{"status": "logged_out"})
	}
}

// HandleDeviceStatus handles GET /v1/device/status.
func HandleDeviceStatus(device DeviceAuth) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, device.Status())
	}
}

// HandleGetBranding handles GET /v1/settings/branding.
func HandleGetBranding(settings SettingsStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, settings.LoadBranding())
	}
}

// HandlePutBranding handles PUT /v1/settings/branding. The stored branding is
// merged over the defaults on the way back out, so partial configs are fine.
func HandlePutBranding(settings SettingsStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var cfg domain.BrandingConfig
		if err := c.ShouldBindJSON(&cfg); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid branding payload"})
			return
		}
		settings.SaveBranding(cfg)
		c.JSON(http.StatusOK, settings.LoadBranding())
	}
}

type autoPrintRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// HandleGetAutoPrint handles GET /v1/settings/auto-print.
func HandleGetAutoPrint(settings SettingsStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"enabled": settings.AutoPrintEnabled()})
	}
}

// HandlePutAutoPrint handles PUT /v1/settings/auto-print.
func HandlePutAutoPrint(settings SettingsStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req autoPrintRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Enabled == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "enabled is required"})
			return
		}
		if err := settings.SetAutoPrintEnabled(*req.Enabled); err != nil {
			logger.Error("Failed to persist auto-print toggle", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"enabled": *req.Enabled})
	}
}

// HandleClearLedger handles POST /v1/settings/ledger/clear. Orders still in
// the new status will auto-print again afterwards.
func HandleClearLedger(settings SettingsStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		settings.ClearLedger()
		c.JSON(http.StatusOK, gin.H{"status": "cleared"})
	}
}
