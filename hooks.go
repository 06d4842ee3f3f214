package telnet

import "sync"

// EventHook is one registered callback in an EventPublisher's list.
type EventHook[T any] func(T)

// EventPublisher is a minimal generic pub/sub list: Register appends a
// hook, Fire invokes every registered hook in registration order. There is
// no unregister — connections are short-lived and hooks are wired once at
// construction, matching moodclient-telnet's hooks.go shape.
type EventPublisher[T any] struct {
	mu    sync.Mutex
	hooks []EventHook[T]
}

// NewPublisher constructs an empty EventPublisher.
func NewPublisher[T any]() *EventPublisher[T] {
	return &EventPublisher[T]{}
}

// Register adds a hook to be invoked on every future Fire.
func (p *EventPublisher[T]) Register(hook EventHook[T]) {
	p.mu.Lock()
	p.hooks = append(p.hooks, hook)
	p.mu.Unlock()
}

// Fire invokes every registered hook, in registration order, with value.
func (p *EventPublisher[T]) Fire(value T) {
	p.mu.Lock()
	hooks := make([]EventHook[T], len(p.hooks))
	copy(hooks, p.hooks)
	p.mu.Unlock()

	for _, hook := range hooks {
		hook(value)
	}
}

// ErrorEvent is fired whenever a connection task hits an error, whether the
// task then continues (reader) or ends (writer) (spec §7 — per-task errors
// are logged and recovered or end that task).
type ErrorEvent struct {
	Err      error
	Fatal    bool
	TaskName string
}

// LineEvent is fired for every complete application line the engine
// assembles (spec §4.F dispatch rule for Data).
type LineEvent struct {
	Text string
}

// OutboundDataEvent is fired just after raw bytes are written to the wire.
type OutboundDataEvent struct {
	Bytes []byte
}

// OutboundMessageEvent is fired just after a typed Message is written to
// the wire.
type OutboundMessageEvent struct {
	Message Message
}

// TelOptEvent is fired on any per-option state transition
// (AtLocal/AtRemote Enable/Disable/Reject).
type TelOptEvent struct {
	Option OptionCode
	Event  string
}

// CapabilityChangeEvent is fired after every ChangeCapabilities call.
type CapabilityChangeEvent struct {
	Capabilities Capabilities
	Delta        CapabilityDelta
}

// GMCPEvent is fired for every inbound GMCP subnegotiation. The core
// prescribes no inbound GMCP handling (spec §4.D) — this is the
// pass-through the application reads.
type GMCPEvent struct {
	Payload []byte
}

// NegotiationCompleteEvent is fired once by the negotiation task after its
// settle barrier resolves (by every option settling, or by timeout), per
// spec §4.F's "signal the hosting application that negotiation is
// complete" step — the engine's analogue of the original's `run_link`.
type NegotiationCompleteEvent struct {
	Capabilities Capabilities
	TimedOut     bool
}

// EventHooks bundles the full set of event publishers a Connection
// exposes to the embedding application, grounded in moodclient-telnet's
// EventHooks struct.
type EventHooks struct {
	Error                *EventPublisher[ErrorEvent]
	Line                 *EventPublisher[LineEvent]
	OutboundData         *EventPublisher[OutboundDataEvent]
	OutboundMessage      *EventPublisher[OutboundMessageEvent]
	TelOptEvent          *EventPublisher[TelOptEvent]
	CapabilityChange     *EventPublisher[CapabilityChangeEvent]
	GMCP                 *EventPublisher[GMCPEvent]
	NegotiationComplete  *EventPublisher[NegotiationCompleteEvent]
}

func newEventHooks() *EventHooks {
	return &EventHooks{
		Error:               NewPublisher[ErrorEvent](),
		Line:                NewPublisher[LineEvent](),
		OutboundData:        NewPublisher[OutboundDataEvent](),
		OutboundMessage:     NewPublisher[OutboundMessageEvent](),
		TelOptEvent:         NewPublisher[TelOptEvent](),
		CapabilityChange:    NewPublisher[CapabilityChangeEvent](),
		GMCP:                NewPublisher[GMCPEvent](),
		NegotiationComplete: NewPublisher[NegotiationCompleteEvent](),
	}
}
