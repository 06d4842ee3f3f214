package telopts

import "github.com/cannibalvox/mudtelnet"

// LINEMODE (code 34) and EOR (code 25) are placeholder options: registered
// for acknowledgment only, with no behavioral side effects beyond the
// shared negotiation bookkeeping BaseOption already provides (spec §4.D).
// Neither side initiates — they only accept whatever the peer proposes.

// LineMode is the LINEMODE placeholder option.
type LineMode struct {
	BaseOption
}

// NewLineMode constructs the LINEMODE option.
func NewLineMode() *LineMode {
	return &LineMode{BaseOption: NewBaseOption(
		telnet.OptionLINEMODE, "LINEMODE", telnet.SupportLocal|telnet.SupportRemote,
	)}
}

// EOR is the end-of-record placeholder option.
type EOR struct {
	BaseOption
}

// NewEOR constructs the EOR option.
func NewEOR() *EOR {
	return &EOR{BaseOption: NewBaseOption(
		telnet.OptionEOR, "EOR", telnet.SupportLocal|telnet.SupportRemote,
	)}
}
