// Package telnet implements a Telnet protocol engine for MUD-style
// interactive text clients: frame codec, option negotiation state machine,
// per-connection I/O pipeline, and the capability model those options
// mutate as they negotiate.
package telnet

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"

	"github.com/google/uuid"
)

// Connection owns one accepted Telnet session: reader, writer, and
// negotiation tasks; the option registry; the read and app-data buffers;
// the outbound queue; and the capability record (spec §3).
//
// Its lifetime runs from construction (on accept) to Shutdown or transport
// EOF, at which point all three per-connection tasks unwind.
type Connection struct {
	ID uuid.UUID

	conn net.Conn
	cfg  ConnectionConfig
	hooks *EventHooks

	registry *registry
	caps     *capabilityStore

	outQueue *queue
	lines    chan LineEvent

	readBuf []byte
	appBuf  []byte

	compressor   *outboundCompressor
	decompressor *inboundDecompressor

	shutdownOnce sync.Once
	shutdownCh   chan struct{}
	shutdownMu   sync.Mutex
	shutdownCause string

	doneCh chan struct{}
	wg     sync.WaitGroup
}

// NewConnection constructs a Connection over an already-accepted net.Conn
// and starts its three per-connection tasks (spec §4.F, §5). ctx bounds the
// whole connection lifetime: cancellation triggers the same shutdown path
// as a transport EOF.
func NewConnection(ctx context.Context, conn net.Conn, cfg ConnectionConfig) (*Connection, error) {
	c := &Connection{
		conn:       conn,
		cfg:        cfg,
		hooks:      cfg.Hooks,
		caps:       newCapabilityStore(),
		outQueue:   newQueue(),
		lines:      make(chan LineEvent, 64),
		shutdownCh: make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
	if c.hooks == nil {
		c.hooks = newEventHooks()
	}
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("telnet: generating connection id: %w", err)
	}
	c.ID = id

	c.caps.Apply(CapabilityDelta{
		Encryption:  Bool(cfg.Encryption),
		HostAddress: Str(cfg.HostAddress),
		HostPort:    &cfg.HostPort,
		HostNames:   cfg.HostNames,
	})

	reg, err := newRegistry(c, cfg.Options)
	if err != nil {
		return nil, err
	}
	c.registry = reg

	c.wg.Add(3)
	go c.readLoop(ctx)
	go c.writeLoop(ctx)
	go c.negotiateLoop(ctx)

	go func() {
		select {
		case <-ctx.Done():
			c.Shutdown("context_canceled")
		case <-c.shutdownCh:
		}
	}()

	go func() {
		c.wg.Wait()
		close(c.doneCh)
	}()

	return c, nil
}

// Capabilities returns a snapshot of the live capability record.
func (c *Connection) Capabilities() Capabilities {
	return c.caps.Snapshot()
}

// ChangeCapabilities merges delta into the capability record and fires
// CapabilityChange, per spec §4.F's outward API.
func (c *Connection) ChangeCapabilities(delta CapabilityDelta) Capabilities {
	snapshot := c.caps.Apply(delta)
	c.hooks.CapabilityChange.Fire(CapabilityChangeEvent{Capabilities: snapshot, Delta: delta})
	return snapshot
}

// SendText CRLF-normalizes and IAC-escapes s (spec §4.G) and enqueues it as
// a raw outbound byte run.
func (c *Connection) SendText(s string) {
	c.outQueue.Push(outboundItem{raw: NormalizeOutput(s), isRaw: true})
}

// RaiseColor sets the color capability only if newColor outranks the
// current value (spec §4.D's MTTS "only update if the computed value
// differs" rule), firing CapabilityChange when it does.
func (c *Connection) RaiseColor(newColor Color) {
	before := c.caps.Color()
	c.caps.RaiseColor(newColor)
	after := c.caps.Color()
	if after != before {
		c.hooks.CapabilityChange.Fire(CapabilityChangeEvent{
			Capabilities: c.caps.Snapshot(),
			Delta:        CapabilityDelta{Color: ColorP(after)},
		})
	}
}

// SendGMCP emits a GMCP subnegotiation if the session has negotiated GMCP;
// otherwise it is silently dropped (spec §4.F).
func (c *Connection) SendGMCP(command string, data any) error {
	if !c.caps.Snapshot().GMCP {
		return nil
	}

	payload := []byte(command)
	if data != nil {
		encoded, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("telnet: encoding GMCP payload: %w", err)
		}
		payload = append(payload, ' ')
		payload = append(payload, encoded...)
	}

	c.EnqueueSubnegotiate(OptionGMCP, payload)
	return nil
}

// SendMSSP emits an MSSP subnegotiation if the session has negotiated
// MSSP; otherwise it is silently dropped (spec §4.F, §4.D).
func (c *Connection) SendMSSP(values map[string]string) {
	if !c.caps.Snapshot().MSSP {
		return
	}
	if len(values) == 0 {
		return
	}

	var payload []byte
	for key, value := range values {
		payload = append(payload, msspVar)
		payload = append(payload, key...)
		payload = append(payload, msspVal)
		payload = append(payload, value...)
	}

	c.EnqueueSubnegotiate(OptionMSSP, payload)
}

const (
	msspVar byte = 1
	msspVal byte = 2
)

// EnqueueNegotiate enqueues a WILL/WONT/DO/DONT for opt. It is exported so
// telopts in a separate package can drive negotiation from their hooks, and
// is also the engine's own internal entry point for replies sent by the
// registry's transition matrix and unknown-option fallback.
func (c *Connection) EnqueueNegotiate(cmd byte, opt OptionCode, after func()) {
	c.outQueue.Push(outboundItem{message: NegotiateMessage(cmd, opt)})
	if after != nil {
		after()
	}
}

// EnqueueSubnegotiate enqueues a subnegotiation payload for opt.
func (c *Connection) EnqueueSubnegotiate(opt OptionCode, payload []byte) {
	c.outQueue.Push(outboundItem{message: SubNegotiateMessage(opt, payload)})
}

// Lines returns the channel of assembled application lines (spec §4.F's
// application input queue). Closed once the connection's reader task
// exits.
func (c *Connection) Lines() <-chan LineEvent {
	return c.lines
}

// Hooks returns the connection's event publishers.
func (c *Connection) Hooks() *EventHooks {
	return c.hooks
}

func (c *Connection) fireTelOptEvent(opt OptionCode, event string) {
	c.hooks.TelOptEvent.Fire(TelOptEvent{Option: opt, Event: event})
}

// Shutdown requests connection teardown with the given cause. Safe to call
// more than once or concurrently; only the first call's cause sticks.
func (c *Connection) Shutdown(cause string) {
	c.shutdownOnce.Do(func() {
		c.shutdownMu.Lock()
		c.shutdownCause = cause
		c.shutdownMu.Unlock()
		close(c.shutdownCh)
		c.outQueue.Close()
		_ = c.conn.Close()
	})
}

// ShutdownCause returns the cause string passed to the first Shutdown call,
// or "" if the connection is still live.
func (c *Connection) ShutdownCause() string {
	c.shutdownMu.Lock()
	defer c.shutdownMu.Unlock()
	return c.shutdownCause
}

// WaitForExit blocks until all three per-connection tasks have exited.
func (c *Connection) WaitForExit() {
	<-c.doneCh
}
