package telnet

import "time"

// ConnectionConfig configures a single Connection at construction, the way
// moodclient-telnet's TerminalConfig configures a Terminal — minus the
// charset-negotiation fields this engine's option set has no use for.
type ConnectionConfig struct {
	// Options lists the telopts this connection registers, in the order
	// Start is invoked (spec §5's "start() invoked in registry order").
	Options []Option

	// Hooks receives every event this connection fires. If nil, a fresh
	// (unobserved) EventHooks is created.
	Hooks *EventHooks

	// ReadChunkSize bounds a single reader-task socket read. Zero means the
	// spec's suggested default of 1024 bytes.
	ReadChunkSize int

	// NegotiationTimeout bounds the startup negotiation settle barrier.
	// Zero means the spec's hard default of 500ms.
	NegotiationTimeout time.Duration

	// Encryption marks the connection as TLS-terminated, seeding
	// capabilities.encryption at construction (spec §6, Transport).
	Encryption bool

	// HostAddress/HostPort/HostNames seed the corresponding read-only
	// capability fields; populated by the service façade from the accepted
	// socket (spec §6 — reverse DNS/session naming are external
	// collaborators, out of the engine's scope).
	HostAddress string
	HostPort    int
	HostNames   []string
}

const (
	defaultReadChunkSize      = 1024
	defaultNegotiationTimeout = 500 * time.Millisecond
)

func (c ConnectionConfig) readChunkSize() int {
	if c.ReadChunkSize > 0 {
		return c.ReadChunkSize
	}
	return defaultReadChunkSize
}

func (c ConnectionConfig) negotiationTimeout() time.Duration {
	if c.NegotiationTimeout > 0 {
		return c.NegotiationTimeout
	}
	return defaultNegotiationTimeout
}
