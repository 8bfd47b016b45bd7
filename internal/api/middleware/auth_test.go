package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fixedHash struct {
	hash string
}

func (f fixedHash) ControlKeyHash() (string, bool) { return f.hash, f.hash != "" }

func serve(keys KeyHashSource, apiKey string) *httptest.ResponseRecorder {
	router := gin.New()
	router.Use(AuthMiddleware(keys, zap.NewNop()))
	router.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"pong": true}) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestOpenWhenNoKeyProvisioned(t *testing.T) {
	if w := serve(fixedHash{}, ""); w.Code != http.StatusOK {
		t.Errorf("an unprovisioned device must stay reachable for setup, status = %d", w.Code)
	}
}

func TestRejectsMissingAndWrongKey(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("right-key"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	keys := fixedHash{hash: string(hash)}

	if w := serve(keys, ""); w.Code != http.StatusUnauthorized {
		t.Errorf("missing key: status = %d", w.Code)
	}
	if w := serve(keys, "wrong-key"); w.Code != http.StatusUnauthorized {
		t.Errorf("wrong key: status = %d", w.Code)
	}
	if w := serve(keys, "right-key"); w.Code != http.StatusOK {
		t.Errorf("right key: status = %d", w.Code)
	}
}
