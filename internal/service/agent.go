package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ASAFDIGITAL/orderup-asaf-hub/internal/domain"
	apperrors "github.com/ASAFDIGITAL/orderup-asaf-hub/pkg/errors"
)

// OrderClient is the remote order API surface the agent drives.
type OrderClient interface {
	ListOrders(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, orderID int64, status domain.OrderStatus) error
}

// ReceiptPrinter prints a receipt for one order.
type ReceiptPrinter interface {
	IsConnected() bool
	PrintReceipt(ctx context.Context, order domain.Order) (string, error)
}

// DeviceStore is the slice of local state the agent needs: the printed-order
// ledger and the auto-print toggle.
type DeviceStore interface {
	HasPrinted(orderID int64) bool
	MarkPrinted(orderID int64)
	AutoPrintEnabled() bool
}

// Event is a notification pushed to connected control clients.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

const (
	EventOrders      = "orders"
	EventOrderNew    = "order_new"
	EventAuthExpired = "auth_expired"
	EventPollError   = "poll_error"
)

// Publisher fans events out to whoever is listening. A nil publisher is
// replaced by a no-op.
type Publisher interface {
	Publish(event Event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(Event) {}

// Agent polls the remote API, keeps the current order list cached, and
// auto-prints orders in the new status exactly once. The client can be swapped
// at runtime when the device logs in or out.
type Agent struct {
	store      DeviceStore
	printer    ReceiptPrinter
	events     Publisher
	logger     *zap.Logger
	interval   time.Duration
	onAuthLost func()

	kick chan struct{}

	mu       sync.Mutex
	client   OrderClient
	orders   []domain.Order
	lastErr  error
	notified map[int64]struct{}
}

// NewAgent builds an agent. onAuthLost runs once whenever the remote API
// rejects the device token; the caller clears the stored credentials there.
func NewAgent(store DeviceStore, printer ReceiptPrinter, events Publisher, interval time.Duration, onAuthLost func(), logger *zap.Logger) *Agent {
	if events == nil {
		events = nopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Agent{
		store:      store,
		printer:    printer,
		events:     events,
		interval:   interval,
		onAuthLost: onAuthLost,
		logger:     logger,
		kick:       make(chan struct{}, 1),
		notified:   make(map[int64]struct{}),
	}
}

// SetClient installs the authenticated API client and wakes the poll loop.
func (a *Agent) SetClient(client OrderClient) {
	a.mu.Lock()
	a.client = client
	a.lastErr = nil
	a.mu.Unlock()
	a.RefreshNow()
}

// ClearClient detaches the API client, e.g. on logout. The cached order list
// is dropped with it.
func (a *Agent) ClearClient() {
	a.mu.Lock()
	a.client = nil
	a.orders = nil
	a.lastErr = nil
	a.mu.Unlock()
}

// Orders returns a copy of the most recently fetched order list.
func (a *Agent) Orders() []domain.Order {
	a.mu.Lock()
	defer a.mu.Unlock()
	orders := make([]domain.Order, len(a.orders))
	copy(orders, a.orders)
	return orders
}

// LastError returns the error of the most recent poll, nil after a success.
func (a *Agent) LastError() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}

// RefreshNow asks the poll loop to run immediately. Non-blocking; a refresh
// already queued is enough.
func (a *Agent) RefreshNow() {
	select {
	case a.kick <- struct{}{}:
	default:
	}
}

// UpdateStatus forwards a status change to the remote API and refreshes the
// cache on success.
func (a *Agent) UpdateStatus(ctx context.Context, orderID int64, status domain.OrderStatus) error {
	a.mu.Lock()
	client := a.client
	a.mu.Unlock()
	if client == nil {
		return &apperrors.ErrUnauthorized{Message: "device is not logged in"}
	}

	if err := client.UpdateStatus(ctx, orderID, status); err != nil {
		return err
	}

	a.mu.Lock()
	for i := range a.orders {
		if a.orders[i].ID == orderID {
			a.orders[i].Status = status
		}
	}
	a.mu.Unlock()

	a.events.Publish(Event{Type: EventOrders})
	return nil
}

// Run polls until ctx is canceled. The first poll happens immediately.
func (a *Agent) Run(ctx context.Context) {
	a.poll(ctx)

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.poll(ctx)
		case <-a.kick:
			a.poll(ctx)
		}
	}
}

func (a *Agent) poll(ctx context.Context) {
	a.mu.Lock()
	client := a.client
	a.mu.Unlock()
	if client == nil {
		return
	}

	orders, err := client.ListOrders(ctx)
	if err != nil {
		var authErr *apperrors.ErrAuthFailure
		if errors.As(err, &authErr) {
			a.logger.Warn("Device token rejected, logging out", zap.Error(err))
			a.ClearClient()
			if a.onAuthLost != nil {
				a.onAuthLost()
			}
			a.events.Publish(Event{Type: EventAuthExpired})
			return
		}
		// Keep showing the last known orders through transient failures.
		a.mu.Lock()
		a.lastErr = err
		a.mu.Unlock()
		a.logger.Warn("Order poll failed", zap.Error(err))
		a.events.Publish(Event{Type: EventPollError, Payload: err.Error()})
		return
	}

	a.mu.Lock()
	a.orders = orders
	a.lastErr = nil
	a.mu.Unlock()

	a.events.Publish(Event{Type: EventOrders})
	a.notifyNew(orders)
	a.autoPrint(ctx, orders)
}

// notifyNew publishes one EventOrderNew per new-status order, once per id for
// the lifetime of the process.
func (a *Agent) notifyNew(orders []domain.Order) {
	for _, order := range orders {
		if order.Status != domain.OrderStatusNew {
			continue
		}
		a.mu.Lock()
		_, seen := a.notified[order.ID]
		if !seen {
			a.notified[order.ID] = struct{}{}
		}
		a.mu.Unlock()
		if !seen {
			a.events.Publish(Event{Type: EventOrderNew, Payload: order.ID})
		}
	}
}

// autoPrint sends each order that is in the new status and not yet in the
// ledger to the printer. An order enters the ledger only after a successful
// print, so a disconnected printer retries on the next poll.
func (a *Agent) autoPrint(ctx context.Context, orders []domain.Order) {
	if !a.store.AutoPrintEnabled() {
		return
	}
	for _, order := range orders {
		if order.Status != domain.OrderStatusNew || a.store.HasPrinted(order.ID) {
			continue
		}
		if !a.printer.IsConnected() {
			a.logger.Info("New order waiting, no printer connected",
				zap.Int64("order_id", order.ID))
			continue
		}
		jobID, err := a.printer.PrintReceipt(ctx, order)
		if err != nil {
			a.logger.Error("Auto-print failed",
				zap.Int64("order_id", order.ID), zap.Error(err))
			continue
		}
		a.store.MarkPrinted(order.ID)
		a.logger.Info("Order auto-printed",
			zap.Int64("order_id", order.ID), zap.String("job_id", jobID))
	}
}
