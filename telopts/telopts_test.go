package telopts_test

import (
	"context"
	"net"
	"testing"
	"time"

	telnet "github.com/cannibalvox/mudtelnet"
)

// newHarness builds a Connection around one end of a net.Pipe, registering
// opts, and hands back the peer end for driving negotiation from the
// test. The peer's initial handshake bytes (one WILL or DO per
// StartLocal/StartRemote option, in registration order) must be drained
// by the caller before exercising further behavior.
func newHarness(t *testing.T, opts []telnet.Option) (*telnet.Connection, net.Conn) {
	t.Helper()
	server, client := net.Pipe()
	t.Cleanup(func() { _ = server.Close(); _ = client.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	conn, err := telnet.NewConnection(ctx, server, telnet.ConnectionConfig{Options: opts})
	if err != nil {
		t.Fatalf("NewConnection: %v", err)
	}
	return conn, client
}

func readN(t *testing.T, conn net.Conn, n int) []byte {
	t.Helper()
	buf := make([]byte, n)
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	total := 0
	for total < n {
		k, err := conn.Read(buf[total:])
		total += k
		if err != nil {
			t.Fatalf("read: %v", err)
		}
	}
	return buf
}

func awaitCapabilityChange(t *testing.T, conn *telnet.Connection) telnet.CapabilityChangeEvent {
	t.Helper()
	ch := make(chan telnet.CapabilityChangeEvent, 1)
	conn.Hooks().CapabilityChange.Register(func(e telnet.CapabilityChangeEvent) {
		select {
		case ch <- e:
		default:
		}
	})
	select {
	case e := <-ch:
		return e
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for a capability change")
		return telnet.CapabilityChangeEvent{}
	}
}
