package telopts

import "github.com/cannibalvox/mudtelnet"

// SGA is the Suppress Go-Ahead option (code 3): a local-only, startup-
// requested option with no payload. Spec §4.D treats setting a "sga"
// capability as optional and elides it here — BaseOption's default hooks
// (settle the option, nothing else) are all this needs.
type SGA struct {
	BaseOption
}

// NewSGA constructs the SGA option.
func NewSGA() *SGA {
	return &SGA{BaseOption: NewBaseOption(
		telnet.OptionSGA, "SGA", telnet.SupportLocal|telnet.StartLocal,
	)}
}
