package telopts

import (
	"strconv"
	"strings"
	"sync"

	"github.com/cannibalvox/mudtelnet"
)

// mttsDetectClients is the set of client names (upper-cased) whose request-1
// reply raises the color ceiling to EIGHT_BIT (spec §4.D).
var mttsDetectClients = map[string]bool{
	"ATLANTIS": true, "CMUD": true, "KILDCLIENT": true, "MUDLET": true,
	"MUSHCLIENT": true, "PUTTY": true, "BEIP": true, "POTATO": true,
	"TINYFUGUE": true,
}

// MTTS is the Mud Terminal Type Standard option (code 24): remote-only,
// startup-requested, a 3-step pull negotiation driven entirely by the
// engine rather than the peer (spec §4.D).
type MTTS struct {
	BaseOption

	mu       sync.Mutex
	requests int
	previous string
	seenPrev bool
}

// NewMTTS constructs the MTTS option.
func NewMTTS() *MTTS {
	return &MTTS{BaseOption: NewBaseOption(
		telnet.OptionMTTS, "MTTS", telnet.SupportRemote|telnet.StartRemote,
	)}
}

// AtRemoteEnable starts the 3-step pull. Unlike BaseOption's default, it
// does not signal settled here — MTTS settles only once the sub-exchange
// completes (step 3, or an unexpected repeated payload), per spec §4.D /
// the glossary's "Settled event" definition.
func (o *MTTS) AtRemoteEnable() {
	o.Connection().ChangeCapabilities(telnet.CapabilityDelta{MTTS: telnet.Bool(true)})
	o.sendRequest()
}

// sendRequest increments the request counter and sends the MTTS pull
// (spec §4.D: "increments before each send").
func (o *MTTS) sendRequest() {
	o.mu.Lock()
	o.requests++
	o.mu.Unlock()
	o.Connection().EnqueueSubnegotiate(telnet.OptionMTTS, []byte{0x01})
}

// AtReceiveSubnegotiate dispatches an MTTS reply (payload[0] == 0) by
// request index, per spec §4.D's 3-step pull.
func (o *MTTS) AtReceiveSubnegotiate(payload []byte) {
	if len(payload) < 1 || payload[0] != 0 {
		return
	}
	s := string(payload[1:])

	o.mu.Lock()
	if o.seenPrev && s == o.previous {
		o.mu.Unlock()
		o.signalSettled()
		return
	}
	o.previous = s
	o.seenPrev = true
	step := o.requests
	o.mu.Unlock()

	switch step {
	case 1:
		o.handleClientName(s)
		o.sendRequest()
	case 2:
		o.handleTerminalType(s)
		o.sendRequest()
	case 3:
		o.handleBitfield(s)
		o.signalSettled()
	}
}

func (o *MTTS) handleClientName(s string) {
	name, version, _ := strings.Cut(s, " ")

	o.Connection().ChangeCapabilities(telnet.CapabilityDelta{
		ClientName:    telnet.Str(name),
		ClientVersion: telnet.Str(version),
	})
	o.Connection().RaiseColor(telnet.ColorStandard)

	upper := strings.ToUpper(name)
	if mttsDetectClients[upper] {
		o.Connection().RaiseColor(telnet.ColorEightBit)
	}
	if upper == "MUDLET" && strings.HasPrefix(version, "1.1") {
		o.Connection().RaiseColor(telnet.ColorEightBit)
	}
}

func (o *MTTS) handleTerminalType(s string) {
	upper := strings.ToUpper(s)
	first, _, _ := strings.Cut(upper, "-")

	if strings.HasSuffix(upper, "-256COLOR") || (strings.HasSuffix(upper, "XTERM") && !strings.Contains(upper, "-COLOR")) {
		o.Connection().RaiseColor(telnet.ColorEightBit)
	}
	if first == "VT100" {
		o.Connection().ChangeCapabilities(telnet.CapabilityDelta{VT100: telnet.Bool(true)})
	}
	if first == "XTERM" {
		o.Connection().RaiseColor(telnet.ColorEightBit)
	}
}

func (o *MTTS) handleBitfield(s string) {
	if !strings.HasPrefix(s, "MTTS ") {
		return
	}
	bits, err := strconv.Atoi(strings.TrimSpace(s[len("MTTS "):]))
	if err != nil {
		return
	}

	// Bit 2048 is the client's self-reported encryption claim, which is
	// kept distinct from the transport-set Encryption capability (spec
	// §3 lists both fields; only the TLS listener sets Encryption, only
	// this bit sets EncryptionClient — see DESIGN.md).
	delta := telnet.CapabilityDelta{}
	if bits&2048 != 0 {
		delta.EncryptionClient = telnet.Bool(true)
	}
	if bits&1024 != 0 {
		delta.MSLP = telnet.Bool(true)
	}
	if bits&512 != 0 {
		delta.MNES = telnet.Bool(true)
	}
	if bits&256 != 0 {
		o.Connection().RaiseColor(telnet.ColorTrueColor)
	}
	if bits&128 != 0 {
		delta.Proxy = telnet.Bool(true)
	}
	if bits&64 != 0 {
		delta.ScreenReader = telnet.Bool(true)
	}
	if bits&32 != 0 {
		delta.OSCColorPalette = telnet.Bool(true)
	}
	if bits&16 != 0 {
		delta.MouseTracking = telnet.Bool(true)
	}
	if bits&8 != 0 {
		o.Connection().RaiseColor(telnet.ColorEightBit)
	}
	if bits&4 != 0 {
		delta.Encoding = telnet.Str("utf-8")
	}
	if bits&2 != 0 {
		delta.VT100 = telnet.Bool(true)
	}
	if bits&1 != 0 {
		o.Connection().RaiseColor(telnet.ColorStandard)
	}

	o.Connection().ChangeCapabilities(delta)
}
