package telnet_test

import (
	"bytes"
	"compress/zlib"
	"context"
	"net"
	"testing"
	"time"

	telnet "github.com/cannibalvox/mudtelnet"
	"github.com/cannibalvox/mudtelnet/telopts"
)

// readExact reads exactly n bytes from conn within a deadline, failing the
// test on timeout or short read.
func readExact(t *testing.T, conn net.Conn, n int) []byte {
	t.Helper()
	buf := make([]byte, n)
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, err := readFull(conn, buf); err != nil {
		t.Fatalf("reading %d bytes: %v", n, err)
	}
	return buf
}

func readFull(conn net.Conn, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := conn.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func TestWILLDOHandshakeForMSSP(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tc, err := telnet.NewConnection(ctx, server, telnet.ConnectionConfig{
		Options: []telnet.Option{telopts.NewMSSP()},
	})
	if err != nil {
		t.Fatalf("NewConnection: %v", err)
	}
	defer tc.Shutdown("test_done")

	want := []byte{telnet.IAC, telnet.WILL, byte(telnet.OptionMSSP)}
	got := readExact(t, client, len(want))
	if !bytes.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	changed := make(chan telnet.CapabilityChangeEvent, 4)
	tc.Hooks().CapabilityChange.Register(func(e telnet.CapabilityChangeEvent) {
		changed <- e
	})

	_, err = client.Write([]byte{telnet.IAC, telnet.DO, byte(telnet.OptionMSSP)})
	if err != nil {
		t.Fatalf("write DO: %v", err)
	}

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for capability change")
	}

	if !tc.Capabilities().MSSP {
		t.Fatalf("expected capabilities.mssp = true")
	}
}

func TestNAWSSubnegotiationSetsWindowSize(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tc, err := telnet.NewConnection(ctx, server, telnet.ConnectionConfig{
		Options: []telnet.Option{telopts.NewNAWS()},
	})
	if err != nil {
		t.Fatalf("NewConnection: %v", err)
	}
	defer tc.Shutdown("test_done")

	want := []byte{telnet.IAC, telnet.DO, byte(telnet.OptionNAWS)}
	got := readExact(t, client, len(want))
	if !bytes.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	changed := make(chan telnet.CapabilityChangeEvent, 4)
	tc.Hooks().CapabilityChange.Register(func(e telnet.CapabilityChangeEvent) {
		changed <- e
	})

	_, err = client.Write([]byte{telnet.IAC, telnet.WILL, byte(telnet.OptionNAWS)})
	if err != nil {
		t.Fatalf("write WILL: %v", err)
	}
	<-changed // remote-enable capability change

	_, err = client.Write([]byte{
		telnet.IAC, telnet.SB, byte(telnet.OptionNAWS),
		0x00, 0x50, 0x00, 0x18,
		telnet.IAC, telnet.SE,
	})
	if err != nil {
		t.Fatalf("write SB: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case <-changed:
			caps := tc.Capabilities()
			if caps.Width == 80 && caps.Height == 24 {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for width/height, got %+v", tc.Capabilities())
		}
	}
}

func TestMCCP3RetroactiveInflate(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tc, err := telnet.NewConnection(ctx, server, telnet.ConnectionConfig{
		Options: []telnet.Option{telopts.NewMCCP3()},
	})
	if err != nil {
		t.Fatalf("NewConnection: %v", err)
	}
	defer tc.Shutdown("test_done")

	want := []byte{telnet.IAC, telnet.WILL, byte(telnet.OptionMCCP3)}
	got := readExact(t, client, len(want))
	if !bytes.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	var deflated bytes.Buffer
	zw := zlib.NewWriter(&deflated)
	_, _ = zw.Write([]byte("hello-compressed\n"))
	_ = zw.Close()

	payload := append([]byte{telnet.IAC, telnet.DO, byte(telnet.OptionMCCP3)},
		telnet.IAC, telnet.SB, byte(telnet.OptionMCCP3), telnet.IAC, telnet.SE)
	payload = append(payload, deflated.Bytes()...)

	if _, err := client.Write(payload); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case line := <-tc.Lines():
		if line.Text != "hello-compressed" {
			t.Fatalf("line = %q, want %q", line.Text, "hello-compressed")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for decompressed line")
	}
}

func TestSendTextNormalizesAndEscapes(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tc, err := telnet.NewConnection(ctx, server, telnet.ConnectionConfig{})
	if err != nil {
		t.Fatalf("NewConnection: %v", err)
	}
	defer tc.Shutdown("test_done")

	tc.SendText("hi\xff\n")

	got := readExact(t, client, 6)
	want := []byte("hi\xff\xff\r\n")
	if !bytes.Equal(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestReaderEOFShutsDownWithCause(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tc, err := telnet.NewConnection(ctx, server, telnet.ConnectionConfig{})
	if err != nil {
		t.Fatalf("NewConnection: %v", err)
	}

	_ = client.Close()
	tc.WaitForExit()

	if tc.ShutdownCause() != "reader_eof" {
		t.Fatalf("ShutdownCause() = %q, want %q", tc.ShutdownCause(), "reader_eof")
	}
}
