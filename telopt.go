package telnet

import "fmt"

// Usage is a bitset of flags describing how a telopt may be used by a
// Connection: whether each side may be activated at all, and whether this
// side should request activation at startup (spec §3, Option descriptor).
type Usage byte

const (
	// SupportLocal permits the remote to activate this option on our side
	// (a DO we may answer WILL to).
	SupportLocal Usage = 1 << iota
	// SupportRemote permits us to activate this option on the remote's side
	// (a WILL we may answer DO to).
	SupportRemote
	// StartLocal requests, at connection startup, that this side's half be
	// activated (we send WILL). Requires SupportLocal.
	StartLocal
	// StartRemote requests, at connection startup, that the remote's half be
	// activated (we send DO). Requires SupportRemote.
	StartRemote
)

// HalfState is the state of one side (local or remote) of a single option,
// per spec §3: enabled only after the confirming negotiation completes,
// negotiating while a request is outstanding.
type HalfState struct {
	Enabled     bool
	Negotiating bool
}

// Side distinguishes the local half of an option (what we do) from the
// remote half (what the peer does).
type Side byte

const (
	SideLocal Side = iota
	SideRemote
)

func (s Side) String() string {
	if s == SideRemote {
		return "remote"
	}
	return "local"
}

// Option is the per-connection instance of a telopt. Implementations embed
// BaseOption (in the telopts package) and override only the hooks they need
// — the zero-value behavior for every hook is a no-op save for the shared
// negotiation bookkeeping BaseOption supplies.
//
// The negotiation transition matrix itself (spec §4.C) is not a hook: it is
// owned centrally by the connection's option registry, the way
// moodclient-telnet's telOptStack.ProcessCommand owns it centrally rather
// than delegating it to the telopt. Options only ever override the leaf
// hooks below.
type Option interface {
	// Code is this option's wire code. Must be stable before Init is called.
	Code() OptionCode
	// String is a short human-readable name, used in logs.
	String() string
	// Usage reports how this option is permitted to be used.
	Usage() Usage

	// Init binds this option instance to its owning connection. Called once,
	// before Start or any negotiation hook.
	Init(conn *Connection)
	// Connection returns the bound connection, or nil before Init.
	Connection() *Connection

	// Local returns the current local half-state.
	Local() HalfState
	// Remote returns the current remote half-state.
	Remote() HalfState
	// SetLocal overwrites the local half-state. Called only by the registry.
	SetLocal(HalfState)
	// SetRemote overwrites the remote half-state. Called only by the registry.
	SetRemote(HalfState)

	// Start is invoked once at connection setup, in registry order. The
	// default behavior (spec §4.C) enqueues a WILL/DO request per the usage
	// flags and marks the relevant half negotiating.
	Start()

	// AtReceiveSubnegotiate handles an inbound subnegotiation payload.
	AtReceiveSubnegotiate(payload []byte)
	// AtSendNegotiate is invoked just after the writer transmits our own
	// WILL/WONT/DO/DONT for this option.
	AtSendNegotiate(cmd byte)
	// AtSendSubnegotiate is invoked just after the writer transmits our own
	// subnegotiation for this option.
	AtSendSubnegotiate(payload []byte)

	// AtLocalEnable fires each time the local half goes from disabled to
	// enabled (a repeated confirmation while enabled does not fire it).
	AtLocalEnable()
	// AtLocalDisable fires when an enabled local half is turned off.
	AtLocalDisable()
	// AtLocalReject fires when a negotiating (never enabled) local half is
	// rejected.
	AtLocalReject()
	// AtRemoteEnable fires each time the remote half goes from disabled to
	// enabled (a repeated confirmation while enabled does not fire it).
	AtRemoteEnable()
	// AtRemoteDisable fires when an enabled remote half is turned off.
	AtRemoteDisable()
	// AtRemoteReject fires when a negotiating (never enabled) remote half is
	// rejected.
	AtRemoteReject()

	// Settled returns a channel closed exactly once, the first time this
	// option's startup negotiation resolves one way or another. Used by the
	// connection's negotiation bootstrap barrier.
	Settled() <-chan struct{}
}

// registry owns the live set of options for one connection, keyed by code,
// and implements the shared dispatch/negotiation-matrix logic of spec §4.C.
type registry struct {
	ordered []Option
	byCode  map[OptionCode]Option
}

func newRegistry(conn *Connection, options []Option) (*registry, error) {
	byCode := make(map[OptionCode]Option, len(options))

	for _, opt := range options {
		if _, exists := byCode[opt.Code()]; exists {
			return nil, fmt.Errorf("telnet: option code %d registered twice (%s)", opt.Code(), opt.String())
		}
		if err := validateUsage(opt.Usage()); err != nil {
			return nil, fmt.Errorf("telnet: option %s: %w", opt.String(), err)
		}

		opt.Init(conn)
		byCode[opt.Code()] = opt
	}

	return &registry{ordered: options, byCode: byCode}, nil
}

func validateUsage(u Usage) error {
	if u&StartLocal != 0 && u&SupportLocal == 0 {
		return fmt.Errorf("StartLocal requires SupportLocal")
	}
	if u&StartRemote != 0 && u&SupportRemote == 0 {
		return fmt.Errorf("StartRemote requires SupportRemote")
	}
	return nil
}

// start calls Start on every registered option, in registration order.
func (r *registry) start() {
	for _, opt := range r.ordered {
		opt.Start()
	}
}

func (r *registry) options() []Option {
	return r.ordered
}

func (r *registry) get(code OptionCode) (Option, bool) {
	opt, ok := r.byCode[code]
	return opt, ok
}

// dispatch routes a decoded Negotiate/SubNegotiate message to its option,
// applying the transition matrix for Negotiate frames, or the unknown-
// option fallback from spec §4.C.
func (r *registry) dispatch(conn *Connection, msg Message) {
	switch msg.Kind {
	case KindNegotiate:
		opt, ok := r.byCode[msg.Option]
		if !ok {
			fallbackReject(conn, msg)
			return
		}
		applyNegotiation(conn, opt, msg.Command)
	case KindSubNegotiate:
		opt, ok := r.byCode[msg.Option]
		if !ok {
			return
		}
		opt.AtReceiveSubnegotiate(msg.Data)
	}
}

// applyNegotiation implements spec §4.C's negotiation transition matrix for
// one inbound WILL/WONT/DO/DONT against a registered option.
func applyNegotiation(conn *Connection, opt Option, cmd byte) {
	switch cmd {
	case cmdWILL:
		activate(conn, opt, SideRemote)
	case cmdDO:
		activate(conn, opt, SideLocal)
	case cmdWONT:
		deactivate(conn, opt, SideRemote)
	case cmdDONT:
		deactivate(conn, opt, SideLocal)
	}
}

func activate(conn *Connection, opt Option, side Side) {
	usage := opt.Usage()
	if side == SideRemote {
		half := opt.Remote()
		if usage&SupportRemote == 0 {
			conn.EnqueueNegotiate(cmdDONT, opt.Code(), nil)
			return
		}
		if half.Enabled {
			return
		}
		wasNegotiating := half.Negotiating
		opt.SetRemote(HalfState{Enabled: true})
		if !wasNegotiating {
			conn.EnqueueNegotiate(cmdDO, opt.Code(), nil)
		}
		opt.AtRemoteEnable()
		conn.fireTelOptEvent(opt.Code(), "remote_enable")
		return
	}

	half := opt.Local()
	if usage&SupportLocal == 0 {
		conn.EnqueueNegotiate(cmdWONT, opt.Code(), nil)
		return
	}
	if half.Enabled {
		return
	}
	wasNegotiating := half.Negotiating
	opt.SetLocal(HalfState{Enabled: true})
	if !wasNegotiating {
		conn.EnqueueNegotiate(cmdWILL, opt.Code(), nil)
	}
	opt.AtLocalEnable()
	conn.fireTelOptEvent(opt.Code(), "local_enable")
}

func deactivate(conn *Connection, opt Option, side Side) {
	usage := opt.Usage()

	if side == SideRemote {
		if usage&SupportRemote == 0 {
			return
		}
		half := opt.Remote()
		opt.SetRemote(HalfState{})
		if half.Enabled {
			opt.AtRemoteDisable()
			conn.fireTelOptEvent(opt.Code(), "remote_disable")
		} else if half.Negotiating {
			opt.AtRemoteReject()
			conn.fireTelOptEvent(opt.Code(), "remote_reject")
		}
		return
	}

	if usage&SupportLocal == 0 {
		return
	}
	half := opt.Local()
	opt.SetLocal(HalfState{})
	if half.Enabled {
		opt.AtLocalDisable()
		conn.fireTelOptEvent(opt.Code(), "local_disable")
	} else if half.Negotiating {
		opt.AtLocalReject()
		conn.fireTelOptEvent(opt.Code(), "local_reject")
	}
}

// fallbackReject implements spec §4.C's fallback for unregistered options:
// reply DONT to any WILL, WONT to any DO; unsolicited WONT/DONT are
// dropped silently.
func fallbackReject(conn *Connection, msg Message) {
	switch msg.Command {
	case cmdWILL:
		conn.EnqueueNegotiate(cmdDONT, msg.Option, nil)
	case cmdDO:
		conn.EnqueueNegotiate(cmdWONT, msg.Option, nil)
	}
}
