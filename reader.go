package telnet

import (
	"context"
	"errors"
	"io"
	"unicode/utf8"
)

// readLoop is the reader task of spec §4.F: it pulls chunks off the
// socket, decompresses them if MCCP3 is active, and hands the result to
// ingest. A zero-byte read (EOF) shuts the connection down with cause
// "reader_eof"; any other read error is logged and the loop continues,
// except when the connection is already shutting down.
func (c *Connection) readLoop(ctx context.Context) {
	defer c.wg.Done()
	defer close(c.lines)

	chunk := make([]byte, c.cfg.readChunkSize())

	for {
		select {
		case <-ctx.Done():
			c.Shutdown("context_canceled")
			return
		case <-c.shutdownCh:
			return
		default:
		}

		n, err := c.read(chunk)
		if n > 0 {
			c.ingest(chunk[:n])
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				c.Shutdown("reader_eof")
				return
			}
			select {
			case <-c.shutdownCh:
				return
			default:
			}
			c.hooks.Error.Fire(ErrorEvent{Err: err, TaskName: "reader"})
			continue
		}
		if n == 0 {
			c.Shutdown("reader_eof")
			return
		}
	}
}

// read pulls one chunk from the transport, passing it through the active
// MCCP3 inflate stream if one is installed.
func (c *Connection) read(chunk []byte) (int, error) {
	if c.decompressor != nil {
		n, err := c.decompressor.Read(chunk)
		if err != nil {
			c.disableMCCP3()
			if n == 0 {
				return c.conn.Read(chunk)
			}
			return n, nil
		}
		return n, nil
	}
	return c.conn.Read(chunk)
}

// disableMCCP3 tears down the inflate stream and tells the peer to stop
// compressing (spec §4.D, §7 — "disable MCCP3, send WONT, continue in
// plain mode").
func (c *Connection) disableMCCP3() {
	if c.decompressor == nil {
		return
	}
	_ = c.decompressor.Close()
	c.decompressor = nil
	c.ChangeCapabilities(CapabilityDelta{MCCP3Enabled: Bool(false)})
	c.EnqueueNegotiate(WONT, OptionMCCP3, nil)
}

// ActivateMCCP3 installs the inflate stream and retroactively decompresses
// whatever bytes are already sitting in the read buffer past the
// activation SB's terminator (spec §4.D, §9 Design Note). Exported so the
// MCCP3 telopt, in a separate package, can trigger it from
// AtReceiveSubnegotiate on "any SubNegotiate(MCCP3, _)".
func (c *Connection) ActivateMCCP3() {
	remainder := c.readBuf
	c.readBuf = nil

	decomp, err := newInboundDecompressor(remainder, c.conn)
	if err != nil {
		c.hooks.Error.Fire(ErrorEvent{Err: err, TaskName: "reader"})
		c.EnqueueNegotiate(WONT, OptionMCCP3, nil)
		return
	}
	c.decompressor = decomp
	c.ChangeCapabilities(CapabilityDelta{MCCP3Enabled: Bool(true)})
}

// ingest implements spec §4.F's ingest procedure: append to the read
// buffer, then drain complete frames from it via the codec, dispatching
// each.
func (c *Connection) ingest(b []byte) {
	c.readBuf = append(c.readBuf, b...)

	for {
		advance, msg, ok := Decode(c.readBuf)
		if !ok {
			return
		}
		c.readBuf = c.readBuf[advance:]
		c.dispatch(msg)
	}
}

// dispatch implements spec §4.F's dispatch table.
func (c *Connection) dispatch(msg Message) {
	switch msg.Kind {
	case KindData:
		c.dispatchData(msg.Data)
	case KindCommand:
		// no-op in core.
	case KindNegotiate:
		c.registry.dispatch(c, msg)
	case KindSubNegotiate:
		c.registry.dispatch(c, msg)
	}
}

// dispatchData appends payload to the app-data buffer and extracts every
// complete line, per spec §4.F's Data dispatch rule.
func (c *Connection) dispatchData(payload []byte) {
	c.appBuf = append(c.appBuf, payload...)

	for {
		idx := indexByte(c.appBuf, cmdLF)
		if idx < 0 {
			return
		}

		line := c.appBuf[:idx]
		c.appBuf = c.appBuf[idx+1:]

		line = trimTrailingCR(line)
		text := decodeUTF8Lenient(line)

		if text == "IDLE" {
			continue
		}

		c.lines <- LineEvent{Text: text}
		c.hooks.Line.Fire(LineEvent{Text: text})
	}
}

func indexByte(b []byte, c byte) int {
	for i, x := range b {
		if x == c {
			return i
		}
	}
	return -1
}

// trimTrailingCR strips a trailing "\r\n" or "\r" from a line already
// split at '\n' (the '\n' itself is not present in line).
func trimTrailingCR(line []byte) []byte {
	if len(line) > 0 && line[len(line)-1] == cmdCR {
		return line[:len(line)-1]
	}
	return line
}

// decodeUTF8Lenient decodes b as UTF-8, replacing malformed sequences with
// the Unicode replacement character, per spec §4.F.
func decodeUTF8Lenient(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}

	var out []rune
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		out = append(out, r)
		b = b[size:]
	}
	return string(out)
}
