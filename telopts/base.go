// Package telopts provides the concrete MUD telopt implementations (SGA,
// NAWS, MTTS, MSSP, MCCP2, MCCP3, GMCP, LINEMODE, EOR) layered on top of
// the telnet package's Option interface.
package telopts

import (
	"sync"

	"github.com/cannibalvox/mudtelnet"
)

// BaseOption supplies the shared negotiation bookkeeping every concrete
// telopt needs: descriptor flags, half-states, and the startup Start hook.
// The negotiation transition matrix itself (spec §4.C) lives centrally in
// the telnet package's option registry, not here — it mutates half-state
// through SetLocal/SetRemote and invokes the AtLocal*/AtRemote* hooks
// through the Option interface, so overrides in concrete option types take
// effect without any virtual-dispatch workaround. Concrete options embed
// BaseOption and override only the hooks they care about.
type BaseOption struct {
	code telnet.OptionCode
	name string
	conn *telnet.Connection

	mu      sync.Mutex
	local   telnet.HalfState
	remote  telnet.HalfState
	usage   telnet.Usage
	settled chan struct{}
	once    sync.Once
}

// NewBaseOption constructs a BaseOption for the given code, display name,
// and usage flags.
func NewBaseOption(code telnet.OptionCode, name string, usage telnet.Usage) BaseOption {
	return BaseOption{
		code:    code,
		name:    name,
		usage:   usage,
		settled: make(chan struct{}),
	}
}

func (o *BaseOption) Code() telnet.OptionCode { return o.code }
func (o *BaseOption) String() string          { return o.name }
func (o *BaseOption) Usage() telnet.Usage     { return o.usage }

func (o *BaseOption) Init(conn *telnet.Connection) { o.conn = conn }
func (o *BaseOption) Connection() *telnet.Connection {
	return o.conn
}

func (o *BaseOption) Local() telnet.HalfState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.local
}

func (o *BaseOption) Remote() telnet.HalfState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.remote
}

// SetLocal overwrites the local half-state. Called only by the registry as
// part of the negotiation transition matrix.
func (o *BaseOption) SetLocal(h telnet.HalfState) {
	o.mu.Lock()
	o.local = h
	o.mu.Unlock()
}

// SetRemote overwrites the remote half-state. Called only by the registry.
func (o *BaseOption) SetRemote(h telnet.HalfState) {
	o.mu.Lock()
	o.remote = h
	o.mu.Unlock()
}

func (o *BaseOption) Settled() <-chan struct{} {
	return o.settled
}

// signalSettled closes the settled channel exactly once.
func (o *BaseOption) signalSettled() {
	o.once.Do(func() { close(o.settled) })
}

// Start enqueues the startup negotiation requests this option's usage flags
// call for, per spec §4.C's default Start hook.
func (o *BaseOption) Start() {
	o.mu.Lock()
	startLocal := o.usage&telnet.StartLocal != 0
	startRemote := o.usage&telnet.StartRemote != 0
	if startLocal {
		o.local.Negotiating = true
	}
	if startRemote {
		o.remote.Negotiating = true
	}
	o.mu.Unlock()

	if startLocal {
		o.conn.EnqueueNegotiate(telnet.WILL, o.code, nil)
	}
	if startRemote {
		o.conn.EnqueueNegotiate(telnet.DO, o.code, nil)
	}
}

// Default hooks: no-op save for signaling settled, per spec §4.C's hook
// table ("Default: each signals the per-option settled event").
func (o *BaseOption) AtReceiveSubnegotiate(payload []byte) {}
func (o *BaseOption) AtSendNegotiate(cmd byte)              {}
func (o *BaseOption) AtSendSubnegotiate(payload []byte)     {}
func (o *BaseOption) AtLocalEnable()                        { o.signalSettled() }
func (o *BaseOption) AtLocalDisable()                       { o.signalSettled() }
func (o *BaseOption) AtLocalReject()                        { o.signalSettled() }
func (o *BaseOption) AtRemoteEnable()                       { o.signalSettled() }
func (o *BaseOption) AtRemoteDisable()                      { o.signalSettled() }
func (o *BaseOption) AtRemoteReject()                       { o.signalSettled() }
