package store

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/ASAFDIGITAL/orderup-asaf-hub/internal/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "orderup.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return s
}

func TestSettingsRoundTrip(t *testing.T) {
	s := openTestStore(t)

	if _, ok := s.Get(KeyDeviceToken); ok {
		t.Fatal("fresh store must have no token")
	}
	if err := s.Set(KeyDeviceToken, "secret"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v, ok := s.Get(KeyDeviceToken); !ok || v != "secret" {
		t.Errorf("get = %q, %v", v, ok)
	}

	// Overwrite, then delete.
	if err := s.Set(KeyDeviceToken, "rotated"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v, _ := s.Get(KeyDeviceToken); v != "rotated" {
		t.Errorf("overwrite lost: %q", v)
	}
	if err := s.Delete(KeyDeviceToken); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := s.Get(KeyDeviceToken); ok {
		t.Error("deleted key must be gone")
	}
	// Deleting a missing key is not an error.
	if err := s.Delete(KeyDeviceToken); err != nil {
		t.Errorf("second delete: %v", err)
	}
}

func TestLedger(t *testing.T) {
	s := openTestStore(t)

	if s.HasPrinted(101) {
		t.Fatal("fresh ledger must be empty")
	}
	s.MarkPrinted(101)
	s.MarkPrinted(101)
	if !s.HasPrinted(101) {
		t.Error("marked order must be in the ledger")
	}
	if s.HasPrinted(102) {
		t.Error("unmarked order must not be in the ledger")
	}

	s.ClearLedger()
	if s.HasPrinted(101) {
		t.Error("cleared ledger must forget everything")
	}
}

func TestBrandingDefaultsAndRoundTrip(t *testing.T) {
	s := openTestStore(t)

	got := s.LoadBranding()
	want := domain.DefaultBranding()
	if got.Name != want.Name || got.Footer != want.Footer {
		t.Errorf("fresh store must return defaults, got %+v", got)
	}

	s.SaveBranding(domain.BrandingConfig{Name: "Beit HaShawarma", Phone: "03-1234567"})
	got = s.LoadBranding()
	if got.Name != "Beit HaShawarma" || got.Phone != "03-1234567" {
		t.Errorf("saved branding lost: %+v", got)
	}
	// Unset footer pair falls back to the defaults.
	if got.Footer != want.Footer || got.FooterAr != want.FooterAr {
		t.Errorf("missing footers must come from defaults, got %+v", got)
	}
}

func TestAutoPrintDefaultsOn(t *testing.T) {
	s := openTestStore(t)

	if !s.AutoPrintEnabled() {
		t.Error("auto-print must default to enabled")
	}
	if err := s.SetAutoPrintEnabled(false); err != nil {
		t.Fatalf("set: %v", err)
	}
	if s.AutoPrintEnabled() {
		t.Error("auto-print off must stick")
	}
}

func TestPrinterAddressLifecycle(t *testing.T) {
	s := openTestStore(t)

	if _, ok := s.PrinterAddress(); ok {
		t.Fatal("fresh store must have no printer address")
	}
	if err := s.SetPrinterAddress("AA:BB"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if addr, ok := s.PrinterAddress(); !ok || addr != "AA:BB" {
		t.Errorf("address = %q, %v", addr, ok)
	}
	if err := s.ClearPrinterAddress(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok := s.PrinterAddress(); ok {
		t.Error("cleared address must be gone")
	}
}
