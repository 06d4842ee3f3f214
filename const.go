package telnet

// OptionCode identifies a telnet option (telopt) on the wire. Each option
// occupies a single byte between 0 and 255.
type OptionCode byte

// Telnet option codes used by the MUD extension suite this engine speaks.
const (
	OptionSGA      OptionCode = 3
	OptionMTTS     OptionCode = 24
	OptionEOR      OptionCode = 25
	OptionNAWS     OptionCode = 31
	OptionLINEMODE OptionCode = 34
	OptionMNES     OptionCode = 39
	OptionMSDP     OptionCode = 69
	OptionMSSP     OptionCode = 70
	OptionMCCP2    OptionCode = 86
	OptionMCCP3    OptionCode = 87
	OptionMXP      OptionCode = 91
	OptionGMCP     OptionCode = 201
)

// Single-byte IAC commands and negotiation verbs.
const (
	cmdNULL byte = 0
	cmdBEL  byte = 7
	cmdLF   byte = 10
	cmdCR   byte = 13
	cmdEOR  byte = 239
	cmdSE   byte = 240
	cmdNOP  byte = 241
	cmdGA   byte = 249
	cmdSB   byte = 250
	cmdWILL byte = 251
	cmdWONT byte = 252
	cmdDO   byte = 253
	cmdDONT byte = 254
	cmdIAC  byte = 255
)

// Exported aliases for the IAC command bytes, useful to callers composing
// or logging raw Command/Negotiate messages.
const (
	NUL  byte = cmdNULL
	BEL  byte = cmdBEL
	LF   byte = cmdLF
	CR   byte = cmdCR
	EOR  byte = cmdEOR
	SE   byte = cmdSE
	NOP  byte = cmdNOP
	GA   byte = cmdGA
	SB   byte = cmdSB
	WILL byte = cmdWILL
	WONT byte = cmdWONT
	DO   byte = cmdDO
	DONT byte = cmdDONT
	IAC  byte = cmdIAC
)

var negotiationNames = map[byte]string{
	cmdWILL: "WILL",
	cmdWONT: "WONT",
	cmdDO:   "DO",
	cmdDONT: "DONT",
}

var commandNames = map[byte]string{
	cmdEOR: "EOR",
	cmdSE:  "SE",
	cmdNOP: "NOP",
	cmdGA:  "GA",
	cmdSB:  "SB",
}

func isNegotiation(b byte) bool {
	_, ok := negotiationNames[b]
	return ok
}
