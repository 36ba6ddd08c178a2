package client

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/nymi/nea-helpers/internal/logging"
	"github.com/nymi/nea-helpers/pkg/nea"
	"github.com/nymi/nea-helpers/pkg/protocol"
)

const defaultEventBuffer = 16

// ErrClosed is returned by Do once the client has shut down.
var ErrClosed = errors.New("client closed")

// Client correlates responses with requests by exchange id and fans events
// out to subscribers. Run must be running for Do to complete.
type Client struct {
	transport   Transport
	logger      *logging.ContextLogger
	eventBuffer int

	mu          sync.Mutex
	pending     map[string]chan reply
	subscribers map[*Subscription]struct{}
	closed      bool
	err         error

	done      chan struct{}
	closeOnce sync.Once
}

type reply struct {
	result nea.Result
	err    error
}

// Subscription receives every event routed after Subscribe. C is closed when
// the subscription ends.
type Subscription struct {
	C <-chan nea.Event
	c chan nea.Event
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *logging.Logger) Option {
	return func(c *Client) {
		c.logger = l.WithFields(map[string]any{"component": "client"})
	}
}

// WithEventBuffer sets the per-subscriber channel capacity.
func WithEventBuffer(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.eventBuffer = n
		}
	}
}

// New creates a client on top of t.
func New(t Transport, opts ...Option) *Client {
	c := &Client{
		transport:   t,
		eventBuffer: defaultEventBuffer,
		pending:     make(map[string]chan reply),
		subscribers: make(map[*Subscription]struct{}),
		done:        make(chan struct{}),
	}
	WithLogger(logging.Discard())(c)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run reads messages until the transport fails or ctx is cancelled. Pending
// requests fail and subscriptions close when it returns.
func (c *Client) Run(ctx context.Context) error {
	for {
		frame, err := c.transport.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				err = ctx.Err()
			} else {
				c.logger.Error("connection to device service lost", map[string]any{"error": err.Error()})
			}
			c.shutdown(err)
			return err
		}
		c.handle(frame)
	}
}

func (c *Client) handle(frame []byte) {
	env, err := protocol.Decode(frame)
	if err != nil {
		c.logger.Warn("dropping undecodable message", map[string]any{
			"error":       err.Error(),
			"frame_bytes": len(frame),
		})
		return
	}

	result, routeErr := nea.Route(env)

	if env.Exchange != "" && c.deliver(env, result, routeErr) {
		return
	}

	if routeErr != nil {
		c.logger.Warn("dropping invalid message", map[string]any{
			"path":  env.PathString(),
			"error": routeErr.Error(),
		})
		return
	}

	if ev, ok := result.(nea.Event); ok {
		c.publish(ev)
		return
	}

	if result == nil {
		c.logger.Debug("dropping unrecognized message", map[string]any{"path": env.PathString()})
		return
	}

	c.logger.Debug("dropping response for unknown exchange", map[string]any{
		"path":     env.PathString(),
		"exchange": env.Exchange,
	})
}

// deliver hands the routed message to the request waiting on its exchange.
// A message the router does not know yields the bare acknowledgement.
func (c *Client) deliver(env *protocol.Envelope, result nea.Result, err error) bool {
	c.mu.Lock()
	ch, ok := c.pending[env.Exchange]
	if ok {
		delete(c.pending, env.Exchange)
	}
	c.mu.Unlock()

	if !ok {
		return false
	}

	if err == nil && result == nil {
		ack := nea.NewAcknowledgement(env)
		result = &ack
	}
	ch <- reply{result: result, err: err}
	return true
}

func (c *Client) publish(ev nea.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for sub := range c.subscribers {
		select {
		case sub.c <- ev:
		default:
			c.logger.Warn("subscriber full, dropping event", map[string]any{
				"path":       ev.Ack().PathString(),
				"event_kind": ev.EventKind(),
			})
		}
	}
}

// Do sends req and waits for the response carrying the same exchange id.
func (c *Client) Do(ctx context.Context, req *protocol.Request) (nea.Result, error) {
	data, err := req.Marshal()
	if err != nil {
		return nil, err
	}

	ch := make(chan reply, 1)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	if _, exists := c.pending[req.Exchange]; exists {
		c.mu.Unlock()
		return nil, protocol.NewInvalidRequestError(fmt.Sprintf("exchange %s already in flight", req.Exchange), nil)
	}
	c.pending[req.Exchange] = ch
	c.mu.Unlock()

	c.logger.Debug("sending request", map[string]any{
		"path":     req.Path,
		"exchange": req.Exchange,
	})

	if err := c.transport.Send(ctx, data); err != nil {
		c.forget(req.Exchange)
		return nil, err
	}

	select {
	case r := <-ch:
		return r.result, r.err
	case <-ctx.Done():
		c.forget(req.Exchange)
		return nil, ctx.Err()
	case <-c.done:
		return nil, c.closeErr()
	}
}

func (c *Client) forget(exchange string) {
	c.mu.Lock()
	delete(c.pending, exchange)
	c.mu.Unlock()
}

// Subscribe registers a new event subscriber.
func (c *Client) Subscribe() *Subscription {
	ch := make(chan nea.Event, c.eventBuffer)
	sub := &Subscription{C: ch, c: ch}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		close(ch)
		return sub
	}
	c.subscribers[sub] = struct{}{}
	return sub
}

// Unsubscribe removes sub and closes its channel.
func (c *Client) Unsubscribe(sub *Subscription) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.subscribers[sub]; ok {
		delete(c.subscribers, sub)
		close(sub.c)
	}
}

// Close closes the transport and shuts the client down.
func (c *Client) Close() error {
	err := c.transport.Close()
	c.shutdown(ErrClosed)
	return err
}

// Done is closed when the client has shut down.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

func (c *Client) shutdown(cause error) {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.err = cause
		for sub := range c.subscribers {
			close(sub.c)
		}
		c.subscribers = nil
		c.pending = nil
		c.mu.Unlock()

		close(c.done)
	})
}

func (c *Client) closeErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.err == nil || errors.Is(c.err, ErrClosed) {
		return ErrClosed
	}
	return fmt.Errorf("%w: %w", ErrClosed, c.err)
}
