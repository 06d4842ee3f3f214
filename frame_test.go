package telnet

import (
	"bytes"
	"testing"
)

func TestDecodePlainData(t *testing.T) {
	b := []byte("hello\r\n")
	advance, msg, ok := Decode(b)
	if !ok {
		t.Fatalf("expected complete decode")
	}
	if advance != len(b) {
		t.Fatalf("advance = %d, want %d", advance, len(b))
	}
	if msg.Kind != KindData || !bytes.Equal(msg.Data, b) {
		t.Fatalf("msg = %+v", msg)
	}
}

func TestDecodeIncompleteEmpty(t *testing.T) {
	advance, _, ok := Decode(nil)
	if ok || advance != 0 {
		t.Fatalf("expected incomplete on empty buffer")
	}
}

func TestDecodeEscapedIAC(t *testing.T) {
	b := []byte{cmdIAC, cmdIAC}
	advance, msg, ok := Decode(b)
	if !ok || advance != 2 {
		t.Fatalf("advance=%d ok=%v, want 2/true", advance, ok)
	}
	if msg.Kind != KindData || !bytes.Equal(msg.Data, []byte{cmdIAC}) {
		t.Fatalf("msg = %+v", msg)
	}
}

func TestDecodeLoneIACIncomplete(t *testing.T) {
	advance, _, ok := Decode([]byte{cmdIAC})
	if ok || advance != 0 {
		t.Fatalf("expected incomplete for a lone trailing IAC")
	}
}

func TestDecodeNegotiate(t *testing.T) {
	b := []byte{cmdIAC, cmdWILL, byte(OptionMSSP)}
	advance, msg, ok := Decode(b)
	if !ok || advance != 3 {
		t.Fatalf("advance=%d ok=%v", advance, ok)
	}
	if msg.Kind != KindNegotiate || msg.Command != cmdWILL || msg.Option != OptionMSSP {
		t.Fatalf("msg = %+v", msg)
	}
}

func TestDecodeNegotiateIncomplete(t *testing.T) {
	advance, _, ok := Decode([]byte{cmdIAC, cmdWILL})
	if ok || advance != 0 {
		t.Fatalf("expected incomplete negotiate missing option byte")
	}
}

func TestDecodeSubNegotiate(t *testing.T) {
	// IAC SB NAWS 0x00 0x50 0x00 0x18 IAC SE
	b := []byte{cmdIAC, cmdSB, byte(OptionNAWS), 0x00, 0x50, 0x00, 0x18, cmdIAC, cmdSE}
	advance, msg, ok := Decode(b)
	if !ok || advance != len(b) {
		t.Fatalf("advance=%d ok=%v", advance, ok)
	}
	if msg.Kind != KindSubNegotiate || msg.Option != OptionNAWS {
		t.Fatalf("msg = %+v", msg)
	}
	want := []byte{0x00, 0x50, 0x00, 0x18}
	if !bytes.Equal(msg.Data, want) {
		t.Fatalf("payload = %v, want %v", msg.Data, want)
	}
}

func TestDecodeSubNegotiateEscapedIAC(t *testing.T) {
	// payload contains a doubled IAC that must collapse to one.
	b := []byte{cmdIAC, cmdSB, byte(OptionGMCP), 0x01, cmdIAC, cmdIAC, 0x02, cmdIAC, cmdSE}
	advance, msg, ok := Decode(b)
	if !ok || advance != len(b) {
		t.Fatalf("advance=%d ok=%v", advance, ok)
	}
	want := []byte{0x01, cmdIAC, 0x02}
	if !bytes.Equal(msg.Data, want) {
		t.Fatalf("payload = %v, want %v", msg.Data, want)
	}
}

func TestDecodeSubNegotiateIncomplete(t *testing.T) {
	b := []byte{cmdIAC, cmdSB, byte(OptionNAWS), 0x00, 0x50}
	advance, _, ok := Decode(b)
	if ok || advance != 0 {
		t.Fatalf("expected incomplete subnegotiation missing terminator")
	}
}

func TestDecodeCommand(t *testing.T) {
	b := []byte{cmdIAC, cmdGA}
	advance, msg, ok := Decode(b)
	if !ok || advance != 2 {
		t.Fatalf("advance=%d ok=%v", advance, ok)
	}
	if msg.Kind != KindCommand || msg.Command != cmdGA {
		t.Fatalf("msg = %+v", msg)
	}
}

func TestEncodeDataEscapesIAC(t *testing.T) {
	msg := DataMessage([]byte{0x41, cmdIAC, 0x42})
	got := msg.Encode()
	want := []byte{0x41, cmdIAC, cmdIAC, 0x42}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestEncodeDecodeRoundTripNoIAC(t *testing.T) {
	msg := DataMessage([]byte("plain text, no escapes"))
	encoded := msg.Encode()
	_, decoded, ok := Decode(encoded)
	if !ok {
		t.Fatalf("expected complete decode")
	}
	if !bytes.Equal(decoded.Data, msg.Data) {
		t.Fatalf("got %q, want %q", decoded.Data, msg.Data)
	}
}

func TestEncodeDecodeRoundTripWithIAC(t *testing.T) {
	// Decode splits a Data run at each IAC, so the round trip is checked
	// over the concatenated payloads of every decoded frame.
	msg := DataMessage([]byte{0x01, cmdIAC, 0x02})
	encoded := msg.Encode()
	var got []byte
	for len(encoded) > 0 {
		advance, decoded, ok := Decode(encoded)
		if !ok || advance == 0 || decoded.Kind != KindData {
			t.Fatalf("advance=%d ok=%v kind=%v", advance, ok, decoded.Kind)
		}
		got = append(got, decoded.Data...)
		encoded = encoded[advance:]
	}
	if !bytes.Equal(got, msg.Data) {
		t.Fatalf("got %v, want %v", got, msg.Data)
	}
}

func TestEncodeSubNegotiate(t *testing.T) {
	msg := SubNegotiateMessage(OptionMCCP2, nil)
	got := msg.Encode()
	want := []byte{cmdIAC, cmdSB, byte(OptionMCCP2), cmdIAC, cmdSE}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

// TestDecodeDrainsConcatenatedMessages exercises the codec's invariant that
// feeding back in "advance" never drops input: decoding a concatenation
// of several well-formed messages consumes every byte.
func TestDecodeDrainsConcatenatedMessages(t *testing.T) {
	var buf []byte
	buf = append(buf, DataMessage([]byte("abc")).Encode()...)
	buf = append(buf, NegotiateMessage(cmdWILL, OptionNAWS).Encode()...)
	buf = append(buf, SubNegotiateMessage(OptionNAWS, []byte{0, 80, 0, 24}).Encode()...)

	var kinds []MessageKind
	for len(buf) > 0 {
		advance, msg, ok := Decode(buf)
		if !ok {
			t.Fatalf("unexpected incomplete with %d bytes remaining", len(buf))
		}
		if advance == 0 {
			t.Fatalf("advance stalled at zero with bytes remaining")
		}
		kinds = append(kinds, msg.Kind)
		buf = buf[advance:]
	}

	want := []MessageKind{KindData, KindNegotiate, KindSubNegotiate}
	if len(kinds) != len(want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("kinds[%d] = %v, want %v", i, kinds[i], want[i])
		}
	}
}
