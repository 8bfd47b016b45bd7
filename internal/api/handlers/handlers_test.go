package handlers

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ASAFDIGITAL/orderup-asaf-hub/internal/domain"
	"github.com/ASAFDIGITAL/orderup-asaf-hub/internal/printer"
	"github.com/ASAFDIGITAL/orderup-asaf-hub/internal/service"
	apperrors "github.com/ASAFDIGITAL/orderup-asaf-hub/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAgent struct {
	orders    []domain.Order
	lastErr   error
	refreshed bool
	updated   map[int64]domain.OrderStatus
	updateErr error
}

func (a *fakeAgent) Orders() []domain.Order { return a.orders }
func (a *fakeAgent) LastError() error       { return a.lastErr }
func (a *fakeAgent) RefreshNow()            { a.refreshed = true }

func (a *fakeAgent) UpdateStatus(_ context.Context, orderID int64, status domain.OrderStatus) error {
	if a.updateErr != nil {
		return a.updateErr
	}
	if a.updated == nil {
		a.updated = map[int64]domain.OrderStatus{}
	}
	a.updated[orderID] = status
	return nil
}

type fakeLedger struct {
	marked map[int64]bool
}

func (l *fakeLedger) HasPrinted(orderID int64) bool { return l.marked[orderID] }
func (l *fakeLedger) MarkPrinted(orderID int64) {
	if l.marked == nil {
		l.marked = map[int64]bool{}
	}
	l.marked[orderID] = true
}

type fakeReceiptPrinter struct {
	err    error
	jobID  string
	orders []int64
}

func (p *fakeReceiptPrinter) PrintReceipt(_ context.Context, order domain.Order) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	p.orders = append(p.orders, order.ID)
	return p.jobID, nil
}

type fakeBranding struct{}

func (fakeBranding) LoadBranding() domain.BrandingConfig { return domain.DefaultBranding() }

type fakeFormatter struct{}

func (fakeFormatter) Format(order domain.Order, _ domain.BrandingConfig) []string {
	return []string{"line one", "line two"}
}

type fakeSession struct {
	devices    []printer.Device
	scanErr    error
	connectErr error
	connected  bool
	address    string
}

func (s *fakeSession) Scan(context.Context, time.Duration) ([]printer.Device, error) {
	return s.devices, s.scanErr
}

func (s *fakeSession) Connect(_ context.Context, address string) error {
	if s.connectErr != nil {
		return s.connectErr
	}
	s.connected, s.address = true, address
	return nil
}

func (s *fakeSession) Disconnect() error {
	s.connected, s.address = false, ""
	return nil
}

func (s *fakeSession) IsConnected() bool      { return s.connected }
func (s *fakeSession) CurrentAddress() string { return s.address }
func (s *fakeSession) CurrentState() printer.State {
	if s.connected {
		return printer.StateConnected
	}
	return printer.StateDisconnected
}

func doRequest(handler gin.HandlerFunc, method, path, body string, params ...gin.Param) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
		c.Request = httptest.NewRequest(method, path, reader)
		c.Request.Header.Set("Content-Type", "application/json")
	} else {
		c.Request = httptest.NewRequest(method, path, nil)
	}
	c.Params = params
	handler(c)
	return w
}

func sampleOrders() []domain.Order {
	return []domain.Order{
		{ID: 101, Status: domain.OrderStatusNew, Total: 60},
		{ID: 102, Status: domain.OrderStatusPreparing, Total: 45},
		{ID: 103, Status: domain.OrderStatusCompleted, Total: 80},
	}
}

func TestListOrdersFilter(t *testing.T) {
	agent := &fakeAgent{orders: sampleOrders()}
	ledger := &fakeLedger{marked: map[int64]bool{101: true}}
	handler := HandleListOrders(agent, ledger, zap.NewNop())

	w := doRequest(handler, http.MethodGet, "/v1/orders?status=new", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Orders []struct {
			ID      int64 `json:"id"`
			Printed bool  `json:"printed"`
		} `json:"orders"`
		Counts map[string]int `json:"counts"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Orders) != 1 || resp.Orders[0].ID != 101 {
		t.Errorf("filter must return only the new order, got %+v", resp.Orders)
	}
	if !resp.Orders[0].Printed {
		t.Error("ledgered order must be flagged printed")
	}
	// Counts span the full list regardless of the filter.
	if resp.Counts["preparing"] != 1 || resp.Counts["completed"] != 1 {
		t.Errorf("counts = %+v", resp.Counts)
	}
}

func TestListOrdersInvalidFilter(t *testing.T) {
	handler := HandleListOrders(&fakeAgent{}, &fakeLedger{}, zap.NewNop())
	w := doRequest(handler, http.MethodGet, "/v1/orders?status=bogus", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d", w.Code)
	}
}

func TestListOrdersSurfacesPollError(t *testing.T) {
	agent := &fakeAgent{lastErr: stderrors.New("timeout")}
	handler := HandleListOrders(agent, &fakeLedger{}, zap.NewNop())
	w := doRequest(handler, http.MethodGet, "/v1/orders", "")
	if !strings.Contains(w.Body.String(), "poll_error") {
		t.Error("a failing poll must be surfaced in the response")
	}
}

func TestUpdateStatus(t *testing.T) {
	agent := &fakeAgent{}
	handler := HandleUpdateStatus(agent, zap.NewNop())

	w := doRequest(handler, http.MethodPut, "/v1/orders/101/status",
		`{"status":"preparing"}`, gin.Param{Key: "id", Value: "101"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if agent.updated[101] != domain.OrderStatusPreparing {
		t.Error("status change must reach the agent")
	}
}

func TestUpdateStatusRejectsBadInput(t *testing.T) {
	handler := HandleUpdateStatus(&fakeAgent{}, zap.NewNop())

	w := doRequest(handler, http.MethodPut, "/v1/orders/abc/status",
		`{"status":"preparing"}`, gin.Param{Key: "id", Value: "abc"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad id: status = %d", w.Code)
	}

	w = doRequest(handler, http.MethodPut, "/v1/orders/101/status",
		`{"status":"sideways"}`, gin.Param{Key: "id", Value: "101"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad status: status = %d", w.Code)
	}
}

func TestUpdateStatusWhenLoggedOut(t *testing.T) {
	agent := &fakeAgent{updateErr: &apperrors.ErrUnauthorized{Message: "device is not logged in"}}
	handler := HandleUpdateStatus(agent, zap.NewNop())
	w := doRequest(handler, http.MethodPut, "/v1/orders/101/status",
		`{"status":"preparing"}`, gin.Param{Key: "id", Value: "101"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d", w.Code)
	}
}

func TestPrintOrder(t *testing.T) {
	agent := &fakeAgent{orders: sampleOrders()}
	ledger := &fakeLedger{}
	prn := &fakeReceiptPrinter{jobID: "job-1"}
	handler := HandlePrintOrder(agent, prn, ledger, zap.NewNop())

	w := doRequest(handler, http.MethodPost, "/v1/orders/101/print", "",
		gin.Param{Key: "id", Value: "101"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if !ledger.HasPrinted(101) {
		t.Error("manual print must enter the ledger")
	}
}

func TestPrintOrderNoPrinter(t *testing.T) {
	agent := &fakeAgent{orders: sampleOrders()}
	prn := &fakeReceiptPrinter{err: &apperrors.ErrNotConnected{}}
	handler := HandlePrintOrder(agent, prn, &fakeLedger{}, zap.NewNop())

	w := doRequest(handler, http.MethodPost, "/v1/orders/101/print", "",
		gin.Param{Key: "id", Value: "101"})
	if w.Code != http.StatusConflict {
		t.Errorf("status = %d", w.Code)
	}
}

func TestPrintOrderUnknownID(t *testing.T) {
	handler := HandlePrintOrder(&fakeAgent{}, &fakeReceiptPrinter{}, &fakeLedger{}, zap.NewNop())
	w := doRequest(handler, http.MethodPost, "/v1/orders/999/print", "",
		gin.Param{Key: "id", Value: "999"})
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d", w.Code)
	}
}

func TestPreviewReceipt(t *testing.T) {
	agent := &fakeAgent{orders: sampleOrders()}
	handler := HandlePreviewReceipt(agent, fakeBranding{}, fakeFormatter{})

	w := doRequest(handler, http.MethodGet, "/v1/orders/101/receipt", "",
		gin.Param{Key: "id", Value: "101"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "line one") {
		t.Error("preview must return the formatted lines")
	}
}

func TestScanPrinters(t *testing.T) {
	session := &fakeSession{devices: []printer.Device{{Name: "Printer-58", Address: "AA"}}}
	handler := HandleScanPrinters(session, zap.NewNop())
	w := doRequest(handler, http.MethodPost, "/v1/printer/scan", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Printer-58") {
		t.Errorf("status = %d, body %s", w.Code, w.Body.String())
	}
}

func TestScanPrintersEmptyIsNotAnError(t *testing.T) {
	session := &fakeSession{scanErr: &apperrors.ErrNoDevicesFound{Timeout: time.Second}}
	handler := HandleScanPrinters(session, zap.NewNop())
	w := doRequest(handler, http.MethodPost, "/v1/printer/scan", "")
	if w.Code != http.StatusOK {
		t.Errorf("an empty scan is a normal outcome, status = %d", w.Code)
	}
}

func TestConnectPrinter(t *testing.T) {
	session := &fakeSession{}
	handler := HandleConnectPrinter(session, zap.NewNop())
	w := doRequest(handler, http.MethodPost, "/v1/printer/connect", `{"address":"AA:BB"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if !session.connected || session.address != "AA:BB" {
		t.Error("connect must reach the session")
	}

	w = doRequest(handler, http.MethodPost, "/v1/printer/connect", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing address: status = %d", w.Code)
	}
}

func TestLoginRejected(t *testing.T) {
	device := &fakeDevice{loginErr: &apperrors.ErrAuthFailure{Status: 401, Message: "bad token"}}
	handler := HandleLogin(device, zap.NewNop())
	w := doRequest(handler, http.MethodPost, "/v1/device/login",
		`{"api_url":"orders.example.com","token":"bad"}`)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d", w.Code)
	}
}

func TestLoginSuccess(t *testing.T) {
	device := &fakeDevice{name: "Kitchen Tablet"}
	handler := HandleLogin(device, zap.NewNop())
	w := doRequest(handler, http.MethodPost, "/v1/device/login",
		`{"api_url":"orders.example.com","token":"secret"}`)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Kitchen Tablet") {
		t.Errorf("status = %d, body %s", w.Code, w.Body.String())
	}
}

type fakeDevice struct {
	name      string
	loginErr  error
	loggedOut bool
}

func (d *fakeDevice) Login(context.Context, string, string) (string, error) {
	if d.loginErr != nil {
		return "", d.loginErr
	}
	return d.name, nil
}

func (d *fakeDevice) Logout() { d.loggedOut = true }

func (d *fakeDevice) Status() service.DeviceStatus {
	return service.DeviceStatus{LoggedIn: d.name != "" && !d.loggedOut, DeviceName: d.name}
}
