package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// KeyHashSource returns the bcrypt hash of the control API key, if one was
// provisioned.
type KeyHashSource interface {
	ControlKeyHash() (string, bool)
}

// AuthMiddleware checks the X-API-Key header against the provisioned control
// key. When no key was ever provisioned the API stays open for local
// first-time setup, with a one-time warning in the log.
func AuthMiddleware(keys KeyHashSource, logger *zap.Logger) gin.HandlerFunc {
	var warnOnce sync.Once
	return func(c *gin.Context) {
		hash, ok := keys.ControlKeyHash()
		if !ok || hash == "" {
			warnOnce.Do(func() {
				logger.Warn("No control API key provisioned, requests are unauthenticated")
			})
			c.Next()
			return
		}

		apiKey := c.GetHeader("X-API-Key")
		if apiKey == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing API key"})
			c.Abort()
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(apiKey)); err != nil {
			logger.Warn("Rejected request with invalid API key", zap.String("path", c.Request.URL.Path))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid API key"})
			c.Abort()
			return
		}
		c.Next()
	}
}
