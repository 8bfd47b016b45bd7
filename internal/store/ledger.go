package store

import (
	"time"

	"go.uber.org/zap"
)

// The printed-order ledger suppresses duplicate auto-prints for orders that
// were already seen as new once. Entries are only added; the set grows until
// cleared explicitly. When sqlite misbehaves the ledger keeps working against
// an in-memory set so a flaky disk never turns into double receipts.

// HasPrinted reports whether an order id is in the ledger.
func (s *Store) HasPrinted(orderID int64) bool {
	s.mu.Lock()
	if _, ok := s.memLedger[orderID]; ok {
		s.mu.Unlock()
		return true
	}
	s.mu.Unlock()

	var count int64
	if err := s.db.Model(&PrintedOrder{}).Where("order_id = ?", orderID).Count(&count).Error; err != nil {
		s.logger.Warn("Ledger read failed", zap.Int64("order_id", orderID), zap.Error(err))
		return false
	}
	return count > 0
}

// MarkPrinted adds an order id to the ledger. Idempotent.
func (s *Store) MarkPrinted(orderID int64) {
	s.mu.Lock()
	s.memLedger[orderID] = struct{}{}
	s.mu.Unlock()

	entry := PrintedOrder{OrderID: orderID, PrintedAt: time.Now().UTC()}
	if err := s.db.Save(&entry).Error; err != nil {
		s.logger.Warn("Ledger write failed, entry kept in memory only",
			zap.Int64("order_id", orderID), zap.Error(err))
	}
}

// ClearLedger empties the ledger. Intended for a periodic manual reset,
// never automatic.
func (s *Store) ClearLedger() {
	s.mu.Lock()
	s.memLedger = make(map[int64]struct{})
	s.mu.Unlock()

	if err := s.db.Where("1 = 1").Delete(&PrintedOrder{}).Error; err != nil {
		s.logger.Warn("Ledger clear failed", zap.Error(err))
	}
}
