package telopts

import "github.com/cannibalvox/mudtelnet"

// NAWS is Negotiate About Window Size (code 31): remote-only, startup-
// requested. The peer reports an 80x24-style terminal size as a 4-byte
// big-endian subnegotiation (spec §4.D).
type NAWS struct {
	BaseOption
}

// NewNAWS constructs the NAWS option.
func NewNAWS() *NAWS {
	return &NAWS{BaseOption: NewBaseOption(
		telnet.OptionNAWS, "NAWS", telnet.SupportRemote|telnet.StartRemote,
	)}
}

func (o *NAWS) AtRemoteEnable() {
	o.Connection().ChangeCapabilities(telnet.CapabilityDelta{NAWS: telnet.Bool(true)})
	o.BaseOption.AtRemoteEnable()
}

// AtReceiveSubnegotiate parses a 4-byte payload as two big-endian u16s:
// width then height. Any other length is ignored (spec §4.D, §7).
func (o *NAWS) AtReceiveSubnegotiate(payload []byte) {
	if len(payload) != 4 {
		return
	}

	width := uint16(payload[0])<<8 | uint16(payload[1])
	height := uint16(payload[2])<<8 | uint16(payload[3])

	o.Connection().ChangeCapabilities(telnet.CapabilityDelta{
		Width:  telnet.U16(width),
		Height: telnet.U16(height),
	})
}
