package errors

import (
	"fmt"
	"time"
)

// ErrAuthFailure indicates the remote API rejected the device token.
// The caller must force a logout and ask for new credentials.
type ErrAuthFailure struct {
	Status  int
	Message string
}

func (e *ErrAuthFailure) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("authentication failed (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("authentication failed (status %d)", e.Status)
}

// ErrAPIFailure indicates a non-2xx or non-JSON response from the remote API.
type ErrAPIFailure struct {
	Status  int
	Message string
}

func (e *ErrAPIFailure) Error() string {
	return fmt.Sprintf("order API request failed (status %d): %s", e.Status, e.Message)
}

// ErrNetworkFailure indicates the remote API was unreachable. Retried only on
// the next scheduled poll.
type ErrNetworkFailure struct {
	Op  string
	Err error
}

func (e *ErrNetworkFailure) Error() string {
	return fmt.Sprintf("network failure during %s: %v", e.Op, e.Err)
}

func (e *ErrNetworkFailure) Unwrap() error { return e.Err }

// ErrNotConnected is returned when a print is attempted without an active
// printer session. No transport write is performed.
type ErrNotConnected struct{}

func (e *ErrNotConnected) Error() string { return "no printer connected" }

// ErrConnectionFailed indicates the transport rejected or timed out a connect.
type ErrConnectionFailed struct {
	Address string
	Err     error
}

func (e *ErrConnectionFailed) Error() string {
	return fmt.Sprintf("failed to connect to printer %s: %v", e.Address, e.Err)
}

func (e *ErrConnectionFailed) Unwrap() error { return e.Err }

// ErrPrintFailed indicates a transport error during a receipt write. The
// session is forced to Disconnected; the caller must reconnect before the
// next print.
type ErrPrintFailed struct {
	JobID string
	Err   error
}

func (e *ErrPrintFailed) Error() string {
	return fmt.Sprintf("print job %s failed: %v", e.JobID, e.Err)
}

func (e *ErrPrintFailed) Unwrap() error { return e.Err }

// ErrNoDevicesFound indicates a scan window elapsed without any discovery.
// The user should be directed to manual address entry.
type ErrNoDevicesFound struct {
	Timeout time.Duration
}

func (e *ErrNoDevicesFound) Error() string {
	return fmt.Sprintf("no printers found within %s", e.Timeout)
}

// ErrScanInProgress rejects a second scan while one is active.
type ErrScanInProgress struct{}

func (e *ErrScanInProgress) Error() string { return "a scan is already in progress" }

// ErrConnectInProgress rejects overlapping connect calls.
type ErrConnectInProgress struct{}

func (e *ErrConnectInProgress) Error() string { return "a connect is already in progress" }

// ErrStorageFailure indicates the local store was unavailable. Branding and
// ledger operations degrade to in-memory behavior instead of propagating it.
type ErrStorageFailure struct {
	Op  string
	Err error
}

func (e *ErrStorageFailure) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *ErrStorageFailure) Unwrap() error { return e.Err }

// ErrNotFound indicates a missing resource.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// ErrUnauthorized indicates a rejected control-API key.
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string { return e.Message }
