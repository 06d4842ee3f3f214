// Command mudtelnetd is a minimal demo listener exercising the telnet
// engine's service façade: it accepts plain TCP connections (or TLS, if
// -cert/-key are given), registers the full MUD option suite, and echoes
// back every line it receives until the client sends "quit", which ends
// the session, grounded in moodclient-telnet's
// examples/tls_echo bootstrap shape.
package main

import (
	"context"
	"crypto/tls"
	"flag"
	"log"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/cannibalvox/mudtelnet"
	"github.com/cannibalvox/mudtelnet/telopts"
	"github.com/cannibalvox/mudtelnet/utils"
)

func main() {
	addr := flag.String("addr", ":4000", "listen address")
	certFile := flag.String("cert", "", "TLS certificate file (optional)")
	keyFile := flag.String("key", "", "TLS key file (optional)")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		<-sigs
		cancel()
	}()

	listener, encrypted, err := newListener(*addr, *certFile, *keyFile)
	if err != nil {
		log.Fatalln(err)
	}

	log.Printf("mudtelnetd listening on %s (tls=%v)", *addr, encrypted)
	serve(ctx, listener, encrypted)
}

func newListener(addr, certFile, keyFile string) (net.Listener, bool, error) {
	if certFile == "" || keyFile == "" {
		l, err := net.Listen("tcp", addr)
		return l, false, err
	}

	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, false, err
	}

	l, err := tls.Listen("tcp", addr, &tls.Config{Certificates: []tls.Certificate{cert}})
	return l, true, err
}

func serve(ctx context.Context, listener net.Listener, encrypted bool) {
	go func() {
		<-ctx.Done()
		_ = listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return
			default:
			}
			log.Println(err)
			continue
		}

		go handleConnection(ctx, conn, encrypted)
	}
}

func handleConnection(ctx context.Context, conn net.Conn, encrypted bool) {
	host, port := splitHostPort(conn.RemoteAddr())

	tc, err := telnet.NewConnection(ctx, conn, telnet.ConnectionConfig{
		Encryption: encrypted,
		HostAddress: host,
		HostPort:    port,
		Options: []telnet.Option{
			telopts.NewSGA(),
			telopts.NewNAWS(),
			telopts.NewMTTS(),
			telopts.NewMSSP(),
			telopts.NewMCCP2(),
			telopts.NewMCCP3(),
			telopts.NewGMCP(),
			telopts.NewLineMode(),
			telopts.NewEOR(),
		},
	})
	if err != nil {
		log.Println(err)
		return
	}

	logHandler := slog.New(slog.NewTextHandler(os.Stderr, nil))
	_ = utils.NewDebugLog(tc, logHandler, utils.DefaultDebugLogConfig())

	tc.SendText("Welcome! Type anything; I'll echo it back.\r\n")

	for line := range tc.Lines() {
		if line.Text == "quit" {
			tc.Shutdown("client_quit")
			break
		}
		tc.SendText("you said: " + line.Text + "\n")
	}

	tc.WaitForExit()
}

func splitHostPort(addr net.Addr) (string, int) {
	tcpAddr, ok := addr.(*net.TCPAddr)
	if !ok {
		return addr.String(), 0
	}
	return tcpAddr.IP.String(), tcpAddr.Port
}
