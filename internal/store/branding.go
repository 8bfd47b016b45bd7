package store

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/ASAFDIGITAL/orderup-asaf-hub/internal/domain"
)

// LoadBranding returns the persisted branding merged over the defaults.
// Branding is cosmetic: storage problems are logged and swallowed, falling
// back to the last branding saved in this process, then to the defaults.
func (s *Store) LoadBranding() domain.BrandingConfig {
	raw, ok := s.Get(KeyBranding)
	if !ok || raw == "" {
		if cached := s.cachedBranding(); cached != nil {
			return cached.MergeDefaults()
		}
		return domain.DefaultBranding()
	}

	var cfg domain.BrandingConfig
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		s.logger.Warn("Stored branding is unreadable, using defaults", zap.Error(err))
		return domain.DefaultBranding()
	}
	return cfg.MergeDefaults()
}

// SaveBranding persists the branding verbatim. A subsequent LoadBranding
// reflects it immediately, even if the write to disk failed.
func (s *Store) SaveBranding(cfg domain.BrandingConfig) {
	s.mu.Lock()
	s.memBranding = &cfg
	s.mu.Unlock()

	raw, err := json.Marshal(cfg)
	if err != nil {
		s.logger.Warn("Failed to serialize branding", zap.Error(err))
		return
	}
	if err := s.Set(KeyBranding, string(raw)); err != nil {
		s.logger.Warn("Failed to persist branding, keeping it in memory only", zap.Error(err))
	}
}

func (s *Store) cachedBranding() *domain.BrandingConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.memBranding
}
