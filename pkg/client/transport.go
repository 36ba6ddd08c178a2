package client

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"
)

const (
	// MaxFrameSize bounds a single newline delimited message.
	MaxFrameSize = 1 << 20

	// DefaultRetries is the number of extra dial attempts.
	DefaultRetries = 3
	// DefaultInterval is the pause between dial attempts.
	DefaultInterval = 100 * time.Millisecond
)

// ErrFrameTooLarge is returned by Receive for a message above MaxFrameSize.
var ErrFrameTooLarge = errors.New("frame exceeds maximum size")

// Transport moves complete protocol messages to and from the device service.
// Framing is the transport's concern: Receive returns exactly one message.
type Transport interface {
	Send(ctx context.Context, frame []byte) error
	Receive(ctx context.Context) ([]byte, error)
	Close() error
}

// TCPTransport speaks newline delimited JSON over TCP.
type TCPTransport struct {
	conn    net.Conn
	scanner *bufio.Scanner
	writeMu sync.Mutex
}

// Dial connects to addr, retrying up to retries more times with interval
// between attempts.
func Dial(ctx context.Context, addr string, retries int, interval time.Duration) (*TCPTransport, error) {
	var dialer net.Dialer
	var lastErr error

	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(interval):
			}
		}

		conn, err := dialer.DialContext(ctx, "tcp", addr)
		if err == nil {
			return NewTCPTransport(conn), nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("failed to connect to %s after %d attempts: %w", addr, retries+1, lastErr)
}

// NewTCPTransport wraps an established connection.
func NewTCPTransport(conn net.Conn) *TCPTransport {
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxFrameSize)
	return &TCPTransport{
		conn:    conn,
		scanner: scanner,
	}
}

// Send writes frame followed by a newline.
func (t *TCPTransport) Send(ctx context.Context, frame []byte) error {
	if bytes.IndexByte(frame, '\n') >= 0 {
		return errors.New("frame must not contain a newline")
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	stop := t.watch(ctx, t.conn.SetWriteDeadline)
	defer stop()

	buf := make([]byte, 0, len(frame)+1)
	buf = append(append(buf, frame...), '\n')
	if _, err := t.conn.Write(buf); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("failed to send frame: %w", err)
	}
	return nil
}

// Receive returns the next non-empty line. It is not safe for concurrent use,
// and a Receive interrupted by ctx leaves the transport unusable.
func (t *TCPTransport) Receive(ctx context.Context) ([]byte, error) {
	stop := t.watch(ctx, t.conn.SetReadDeadline)
	defer stop()

	for t.scanner.Scan() {
		line := bytes.TrimSpace(t.scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		return bytes.Clone(line), nil
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if err := t.scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, ErrFrameTooLarge
		}
		return nil, fmt.Errorf("failed to receive frame: %w", err)
	}
	return nil, net.ErrClosed
}

// Close closes the connection.
func (t *TCPTransport) Close() error {
	return t.conn.Close()
}

// watch interrupts a blocked read or write once ctx is done.
func (t *TCPTransport) watch(ctx context.Context, setDeadline func(time.Time) error) func() {
	stop := context.AfterFunc(ctx, func() {
		_ = setDeadline(time.Now())
	})
	return func() {
		stop()
		_ = setDeadline(time.Time{})
	}
}
