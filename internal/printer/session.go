package printer

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ASAFDIGITAL/orderup-asaf-hub/internal/domain"
	apperrors "github.com/ASAFDIGITAL/orderup-asaf-hub/pkg/errors"
)

// State of the printer session.
type State string

const (
	StateDisconnected State = "disconnected"
	StateScanning     State = "scanning"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
)

// AddressStore persists the last paired printer address for auto-resume.
type AddressStore interface {
	PrinterAddress() (string, bool)
	SetPrinterAddress(address string) error
	ClearPrinterAddress() error
}

// BrandingSource supplies the branding printed on every receipt.
type BrandingSource interface {
	LoadBranding() domain.BrandingConfig
}

// Formatter renders an order into printable lines.
type Formatter interface {
	Format(order domain.Order, branding domain.BrandingConfig) []string
}

// Session owns the single printer handle: scan lifecycle, connect, reconnect,
// disconnect and receipt dispatch. No other component touches the transport.
type Session struct {
	transport Transport
	store     AddressStore
	branding  BrandingSource
	formatter Formatter
	logger    *zap.Logger
	feedLines int

	mu         sync.Mutex
	state      State
	conn       io.WriteCloser
	address    string
	scanning   bool
	connecting bool

	// printMu serializes whole print jobs so two auto-prints never
	// interleave their command streams on the one device handle.
	printMu sync.Mutex
}

// NewSession wires a session over the given transport.
func NewSession(transport Transport, store AddressStore, branding BrandingSource, formatter Formatter, feedLines int, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	if feedLines <= 0 {
		feedLines = 3
	}
	return &Session{
		transport: transport,
		store:     store,
		branding:  branding,
		formatter: formatter,
		feedLines: feedLines,
		logger:    logger,
		state:     StateDisconnected,
	}
}

// Resume attempts to reconnect to the previously persisted printer address.
// Failure is non-fatal: the session simply stays disconnected and the device
// works without a printer until the user pairs one.
func (s *Session) Resume(ctx context.Context) {
	address, ok := s.store.PrinterAddress()
	if !ok || address == "" {
		return
	}
	if err := s.Connect(ctx, address); err != nil {
		s.logger.Info("Could not resume printer session",
			zap.String("address", address), zap.Error(err))
	}
}

// Scan discovers printers for the given window. Only one scan may be in
// flight; the discovery listener is released on every exit path. An empty
// window resolves as ErrNoDevicesFound and the caller should offer the manual
// direct-address path instead.
func (s *Session) Scan(ctx context.Context, timeout time.Duration) ([]Device, error) {
	s.mu.Lock()
	if s.scanning {
		s.mu.Unlock()
		return nil, &apperrors.ErrScanInProgress{}
	}
	s.scanning = true
	prev := s.state
	if prev == StateDisconnected {
		s.state = StateScanning
	}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.scanning = false
		if s.state == StateScanning {
			s.state = prev
		}
		s.mu.Unlock()
	}()

	var (
		foundMu sync.Mutex
		found   []Device
		seen    = map[string]bool{}
	)
	cancel, err := s.transport.Discover(func(d Device) {
		foundMu.Lock()
		defer foundMu.Unlock()
		if !seen[d.Address] {
			seen[d.Address] = true
			found = append(found, d)
		}
	})
	if err != nil {
		return nil, &apperrors.ErrConnectionFailed{Address: "scan", Err: err}
	}
	defer cancel()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}

	// Unsubscribe before reading the result so late events cannot race in.
	cancel()

	foundMu.Lock()
	devices := make([]Device, len(found))
	copy(devices, found)
	foundMu.Unlock()

	if len(devices) == 0 {
		return nil, &apperrors.ErrNoDevicesFound{Timeout: timeout}
	}
	s.logger.Info("Printer scan finished", zap.Int("devices", len(devices)))
	return devices, nil
}

// Connect opens a session to the printer at address, superseding any prior
// session, and persists the address for auto-resume. Overlapping connects are
// rejected.
func (s *Session) Connect(ctx context.Context, address string) error {
	s.mu.Lock()
	if s.connecting {
		s.mu.Unlock()
		return &apperrors.ErrConnectInProgress{}
	}
	s.connecting = true
	s.state = StateConnecting
	s.mu.Unlock()

	conn, err := s.transport.Dial(ctx, address)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.connecting = false

	if err != nil {
		if s.conn == nil {
			s.state = StateDisconnected
		} else {
			s.state = StateConnected
		}
		return &apperrors.ErrConnectionFailed{Address: address, Err: err}
	}

	if s.conn != nil {
		s.conn.Close()
	}
	s.conn = conn
	s.address = address
	s.state = StateConnected

	if err := s.store.SetPrinterAddress(address); err != nil {
		s.logger.Warn("Failed to persist printer address", zap.Error(err))
	}
	s.logger.Info("Printer connected", zap.String("address", address))
	return nil
}

// Disconnect tears down the session and clears the persisted address.
// Idempotent when already disconnected.
func (s *Session) Disconnect() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
	s.address = ""
	s.state = StateDisconnected

	if err := s.store.ClearPrinterAddress(); err != nil {
		s.logger.Warn("Failed to clear persisted printer address", zap.Error(err))
	}
	return nil
}

// Close releases the connection without forgetting the paired address, so
// the next start auto-resumes. Used on process shutdown.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
	s.address = ""
	s.state = StateDisconnected
}

// PrintReceipt formats the order and writes it to the printer as one job.
// Requires a connected session; a transport error surfaces as ErrPrintFailed
// and forces the session to Disconnected, so the caller must reconnect before
// the next print. Silent partial receipts are worse than re-pairing.
func (s *Session) PrintReceipt(ctx context.Context, order domain.Order) (string, error) {
	s.printMu.Lock()
	defer s.printMu.Unlock()

	s.mu.Lock()
	conn := s.conn
	connected := s.state == StateConnected && conn != nil
	s.mu.Unlock()

	if !connected {
		return "", &apperrors.ErrNotConnected{}
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	jobID := uuid.NewString()
	lines := s.formatter.Format(order, s.branding.LoadBranding())

	job := NewCommandBuffer().Init().Align(AlignRight)
	for _, line := range lines {
		job.Text(line)
	}
	job.Feed(s.feedLines).Cut()

	if _, err := conn.Write(job.Bytes()); err != nil {
		s.mu.Lock()
		if s.conn == conn {
			s.conn.Close()
			s.conn = nil
			s.address = ""
			s.state = StateDisconnected
		}
		s.mu.Unlock()
		s.logger.Error("Print job failed, session dropped",
			zap.String("job_id", jobID), zap.Int64("order_id", order.ID), zap.Error(err))
		return "", &apperrors.ErrPrintFailed{JobID: jobID, Err: err}
	}

	s.logger.Info("Receipt printed",
		zap.String("job_id", jobID), zap.Int64("order_id", order.ID))
	return jobID, nil
}

// IsConnected reports whether a printer session is active.
func (s *Session) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateConnected && s.conn != nil
}

// CurrentAddress returns the connected printer address, empty when none.
func (s *Session) CurrentAddress() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.address
}

// CurrentState returns the session state.
func (s *Session) CurrentState() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
