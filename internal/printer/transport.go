package printer

import (
	"context"
	"io"
	"net"
	"os"
	"time"
)

// Device is a discovered printer.
type Device struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// Transport is the capability the session manager drives. The production
// device uses a Bluetooth plugin behind this boundary; a TCP printer or a
// file sink plug in the same way, and all of them receive the identical
// begin/align/text/cut/commit byte stream.
type Transport interface {
	// Discover starts device discovery and delivers findings to onFound.
	// The returned cancel stops discovery and releases the listener; the
	// session calls it on every exit path.
	Discover(onFound func(Device)) (cancel func(), err error)

	// Dial opens a writable connection to the printer at address.
	Dial(ctx context.Context, address string) (io.WriteCloser, error)
}

// TCPTransport drives network ESC/POS printers (address "host:port").
// Network printers are not discoverable here; pairing goes through the
// manual direct-address path.
type TCPTransport struct {
	DialTimeout time.Duration
}

func (t *TCPTransport) Discover(onFound func(Device)) (func(), error) {
	return func() {}, nil
}

func (t *TCPTransport) Dial(ctx context.Context, address string) (io.WriteCloser, error) {
	timeout := t.DialTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// FileTransport writes jobs to a file or character device. Used for serial
// printer devices and for inspecting raw jobs during bring-up.
type FileTransport struct{}

func (t *FileTransport) Discover(onFound func(Device)) (func(), error) {
	return func() {}, nil
}

func (t *FileTransport) Dial(_ context.Context, address string) (io.WriteCloser, error) {
	return os.OpenFile(address, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
}
