package telopts

import "github.com/cannibalvox/mudtelnet"

// MCCP3 is the inbound compression option (code 87): local-only,
// startup-requested. Any subnegotiation received on this option — the
// peer's activation announcement — triggers installing the inflate
// stream, including retroactive decompression of bytes already buffered
// past the activation SB's terminator (spec §4.D, §9 Design Note).
type MCCP3 struct {
	BaseOption
}

// NewMCCP3 constructs the MCCP3 option.
func NewMCCP3() *MCCP3 {
	return &MCCP3{BaseOption: NewBaseOption(
		telnet.OptionMCCP3, "MCCP3", telnet.SupportLocal|telnet.StartLocal,
	)}
}

func (o *MCCP3) AtLocalEnable() {
	o.Connection().ChangeCapabilities(telnet.CapabilityDelta{MCCP3: telnet.Bool(true)})
	o.BaseOption.AtLocalEnable()
}

func (o *MCCP3) AtReceiveSubnegotiate(payload []byte) {
	o.Connection().ActivateMCCP3()
}
