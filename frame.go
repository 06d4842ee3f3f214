package telnet

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// MessageKind tags the four shapes a decoded Telnet frame can take.
type MessageKind byte

const (
	// KindData is an opaque run of application bytes with IAC-escaping
	// already unfolded.
	KindData MessageKind = iota
	// KindCommand is a single-byte IAC command (NOP, GA, EOR).
	KindCommand
	// KindNegotiate is a WILL/WONT/DO/DONT exchange for a single option.
	KindNegotiate
	// KindSubNegotiate carries a variable-length option-specific payload.
	KindSubNegotiate
)

// Message is a decoded (or to-be-encoded) Telnet frame. Only the fields
// relevant to Kind are meaningful:
//
//	KindData:         Data
//	KindCommand:      Command
//	KindNegotiate:    Command (WILL/WONT/DO/DONT), Option
//	KindSubNegotiate: Option, Data (the subnegotiation payload)
type Message struct {
	Kind    MessageKind
	Command byte
	Option  OptionCode
	Data    []byte
}

// DataMessage builds a KindData message.
func DataMessage(b []byte) Message {
	return Message{Kind: KindData, Data: b}
}

// CommandMessage builds a KindCommand message for a single-byte IAC command.
func CommandMessage(c byte) Message {
	return Message{Kind: KindCommand, Command: c}
}

// NegotiateMessage builds a KindNegotiate message.
func NegotiateMessage(cmd byte, opt OptionCode) Message {
	return Message{Kind: KindNegotiate, Command: cmd, Option: opt}
}

// SubNegotiateMessage builds a KindSubNegotiate message. payload is written
// to the wire verbatim by Encode — callers who want to embed a literal IAC
// byte in the payload must double it themselves.
func SubNegotiateMessage(opt OptionCode, payload []byte) Message {
	return Message{Kind: KindSubNegotiate, Option: opt, Data: payload}
}

// Decode implements the frame codec's decoder contract (spec §4.A): given
// a byte sequence, it returns how many bytes to advance past and the
// message found there, or ok=false if the buffer doesn't yet contain a
// complete frame ("incomplete" — the caller should wait for more input
// before calling again).
//
// Decode never returns an error: malformed input either stalls (ok=false)
// or degrades to a Command/Data frame. Policy decisions about malformed or
// unrecognized frames belong to the dispatcher, not the codec.
func Decode(b []byte) (advance int, msg Message, ok bool) {
	if len(b) == 0 {
		return 0, Message{}, false
	}

	if b[0] != cmdIAC {
		end := bytes.IndexByte(b, cmdIAC)
		if end < 0 {
			end = len(b)
		}
		return end, DataMessage(b[:end]), true
	}

	if len(b) < 2 {
		return 0, Message{}, false
	}

	if b[1] == cmdIAC {
		return 2, DataMessage([]byte{cmdIAC}), true
	}

	if isNegotiation(b[1]) {
		if len(b) < 3 {
			return 0, Message{}, false
		}
		return 3, NegotiateMessage(b[1], OptionCode(b[2])), true
	}

	if b[1] == cmdSB {
		return decodeSubNegotiation(b)
	}

	return 2, CommandMessage(b[1]), true
}

// decodeSubNegotiation scans from index 2 of b (just past "IAC SB") for an
// unescaped "IAC SE" terminator, per spec §4.A rule 6.
func decodeSubNegotiation(b []byte) (advance int, msg Message, ok bool) {
	i := 2
	for {
		iacIdx := bytes.IndexByte(b[i:], cmdIAC)
		if iacIdx < 0 {
			return 0, Message{}, false
		}
		i += iacIdx

		if i+1 >= len(b) {
			return 0, Message{}, false
		}

		if b[i+1] == cmdSE {
			end := i + 2
			if end < 5 {
				return 0, Message{}, false
			}
			return end, SubNegotiateMessage(OptionCode(b[2]), unescapeIAC(b[3:end-2])), true
		}

		if b[i+1] == cmdIAC {
			i += 2
			continue
		}

		i++
	}
}

// unescapeIAC collapses interior "IAC IAC" pairs to a single IAC byte, the
// way a SubNegotiate payload's embedded binary data is unescaped once its
// option handler decides it matters (spec §4.A rule 6 note).
func unescapeIAC(b []byte) []byte {
	if bytes.IndexByte(b, cmdIAC) < 0 {
		return b
	}

	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		out = append(out, b[i])
		if b[i] == cmdIAC && i+1 < len(b) && b[i+1] == cmdIAC {
			i++
		}
	}
	return out
}

// Encode serializes a Message back to wire bytes per spec §4.A's encoder
// contract. Data runs have their IAC bytes doubled; SubNegotiate payloads
// are written verbatim (not escaped) — see SubNegotiateMessage.
func (m Message) Encode() []byte {
	switch m.Kind {
	case KindData:
		return escapeIAC(m.Data)
	case KindCommand:
		return []byte{cmdIAC, m.Command}
	case KindNegotiate:
		return []byte{cmdIAC, m.Command, byte(m.Option)}
	case KindSubNegotiate:
		out := make([]byte, 0, len(m.Data)+5)
		out = append(out, cmdIAC, cmdSB, byte(m.Option))
		out = append(out, m.Data...)
		out = append(out, cmdIAC, cmdSE)
		return out
	default:
		return nil
	}
}

func escapeIAC(b []byte) []byte {
	if bytes.IndexByte(b, cmdIAC) < 0 {
		return b
	}

	out := make([]byte, 0, len(b)+4)
	for _, c := range b {
		out = append(out, c)
		if c == cmdIAC {
			out = append(out, cmdIAC)
		}
	}
	return out
}

// String renders a Message for logging, in the "IAC WILL 31" style (option
// codes are printed as numbers).
func (m Message) String() string {
	var sb strings.Builder
	sb.WriteString("IAC ")

	switch m.Kind {
	case KindData:
		sb.WriteString(fmt.Sprintf("%q", m.Data))
		return sb.String()
	case KindCommand:
		sb.WriteString(commandName(m.Command))
		return sb.String()
	case KindNegotiate:
		sb.WriteString(negotiationNames[m.Command])
		sb.WriteByte(' ')
		sb.WriteString(strconv.Itoa(int(m.Option)))
		return sb.String()
	case KindSubNegotiate:
		sb.WriteString("SB ")
		sb.WriteString(strconv.Itoa(int(m.Option)))
		sb.WriteString(fmt.Sprintf(" %+v IAC SE", m.Data))
		return sb.String()
	default:
		return "?"
	}
}

func commandName(c byte) string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return strconv.Itoa(int(c))
}
