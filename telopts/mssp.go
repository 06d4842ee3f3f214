package telopts

import "github.com/cannibalvox/mudtelnet"

// MSSP is the MUD Server Status Protocol option (code 70): local-only,
// startup-requested. Outbound status payloads are built by
// Connection.SendMSSP; this option just tracks negotiation (spec §4.D).
type MSSP struct {
	BaseOption
}

// NewMSSP constructs the MSSP option.
func NewMSSP() *MSSP {
	return &MSSP{BaseOption: NewBaseOption(
		telnet.OptionMSSP, "MSSP", telnet.SupportLocal|telnet.StartLocal,
	)}
}

func (o *MSSP) AtLocalEnable() {
	o.Connection().ChangeCapabilities(telnet.CapabilityDelta{MSSP: telnet.Bool(true)})
	o.BaseOption.AtLocalEnable()
}
