package telopts

import "github.com/cannibalvox/mudtelnet"

// GMCP is the Generic MUD Communication Protocol option (code 201):
// local-only, startup-requested. Outbound payloads are built by
// Connection.SendGMCP; inbound subnegotiations have no prescribed
// handling in the core and are simply passed through to the application
// (spec §4.D).
type GMCP struct {
	BaseOption
}

// NewGMCP constructs the GMCP option.
func NewGMCP() *GMCP {
	return &GMCP{BaseOption: NewBaseOption(
		telnet.OptionGMCP, "GMCP", telnet.SupportLocal|telnet.StartLocal,
	)}
}

func (o *GMCP) AtLocalEnable() {
	o.Connection().ChangeCapabilities(telnet.CapabilityDelta{GMCP: telnet.Bool(true)})
	o.BaseOption.AtLocalEnable()
}

func (o *GMCP) AtReceiveSubnegotiate(payload []byte) {
	o.Connection().Hooks().GMCP.Fire(telnet.GMCPEvent{Payload: payload})
}
