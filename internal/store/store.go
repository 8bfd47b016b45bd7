package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ASAFDIGITAL/orderup-asaf-hub/internal/domain"
)

// Keys of the string-valued settings. They mirror the keys the POS device has
// always persisted, so an upgraded installation keeps its state.
const (
	KeyAPIURL          = "pos_api_url"
	KeyDeviceToken     = "pos_token"
	KeyDeviceName      = "device_name"
	KeyPrinterAddress  = "printer_address"
	KeyAutoPrint       = "auto_print_enabled"
	KeyControlKeyHash  = "control_key_hash"
	KeyDirectionPolicy = "direction_policy"
	KeyBranding        = "branding"
)

// Setting is a single persisted key-value pair.
type Setting struct {
	Key       string `gorm:"primaryKey"`
	Value     string
	UpdatedAt time.Time
}

// PrintedOrder is one entry in the printed-order ledger.
type PrintedOrder struct {
	OrderID   int64 `gorm:"primaryKey"`
	PrintedAt time.Time
}

// Store is the device-local persisted state: settings, branding and the
// printed-order ledger. When the underlying database fails, ledger and
// branding operations degrade to in-memory behavior instead of propagating.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger

	mu          sync.Mutex
	memLedger   map[int64]struct{}
	memBranding *domain.BrandingConfig
}

// Open opens (and migrates) the sqlite store at path.
func Open(path string, log *zap.Logger) (*Store, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}

	if err := db.AutoMigrate(&Setting{}, &PrintedOrder{}); err != nil {
		return nil, fmt.Errorf("failed to migrate local store: %w", err)
	}

	return &Store{
		db:        db,
		logger:    log,
		memLedger: make(map[int64]struct{}),
	}, nil
}

// Get returns the value of a setting and whether it was present.
func (s *Store) Get(key string) (string, bool) {
	var setting Setting
	err := s.db.First(&setting, "key = ?", key).Error
	if err == gorm.ErrRecordNotFound {
		return "", false
	}
	if err != nil {
		s.logger.Warn("Failed to read setting", zap.String("key", key), zap.Error(err))
		return "", false
	}
	return setting.Value, true
}

// Set writes a setting, overwriting any previous value.
func (s *Store) Set(key, value string) error {
	setting := Setting{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	if err := s.db.Save(&setting).Error; err != nil {
		s.logger.Warn("Failed to write setting", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

// Delete removes a setting. Missing keys are not an error.
func (s *Store) Delete(key string) error {
	if err := s.db.Delete(&Setting{}, "key = ?", key).Error; err != nil {
		s.logger.Warn("Failed to delete setting", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}
