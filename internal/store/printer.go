package store

// PrinterAddress returns the persisted auto-reconnect address, if any.
func (s *Store) PrinterAddress() (string, bool) {
	return s.Get(KeyPrinterAddress)
}

// SetPrinterAddress persists the address of the paired printer.
func (s *Store) SetPrinterAddress(address string) error {
	return s.Set(KeyPrinterAddress, address)
}

// ClearPrinterAddress forgets the paired printer.
func (s *Store) ClearPrinterAddress() error {
	return s.Delete(KeyPrinterAddress)
}

// AutoPrintEnabled reports whether new orders are printed automatically.
// Defaults to true when never configured, matching the device's historical
// behavior.
func (s *Store) AutoPrintEnabled() bool {
	v, ok := s.Get(KeyAutoPrint)
	if !ok {
		return true
	}
	return v == "true" || v == "1"
}

// SetAutoPrintEnabled persists the auto-print toggle.
func (s *Store) SetAutoPrintEnabled(enabled bool) error {
	v := "false"
	if enabled {
		v = "true"
	}
	return s.Set(KeyAutoPrint, v)
}
