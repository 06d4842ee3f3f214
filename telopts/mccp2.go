package telopts

import "github.com/cannibalvox/mudtelnet"

// MCCP2 is the outbound compression option (code 86): local-only,
// startup-requested. Once enabled, it announces activation with an empty
// subnegotiation; the connection's writer installs the deflate stream
// immediately after that subnegotiation's IAC SE reaches the wire,
// preserving the ordering invariant from spec §4.D.
type MCCP2 struct {
	BaseOption
}

// NewMCCP2 constructs the MCCP2 option.
func NewMCCP2() *MCCP2 {
	return &MCCP2{BaseOption: NewBaseOption(
		telnet.OptionMCCP2, "MCCP2", telnet.SupportLocal|telnet.StartLocal,
	)}
}

func (o *MCCP2) AtLocalEnable() {
	o.Connection().ChangeCapabilities(telnet.CapabilityDelta{MCCP2: telnet.Bool(true)})
	o.BaseOption.AtLocalEnable()
	o.Connection().EnqueueSubnegotiate(telnet.OptionMCCP2, nil)
}
