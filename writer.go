package telnet

import (
	"context"
	"io"
)

// writeLoop is the writer task of spec §4.F: it dequeues outbound items,
// encodes and writes them, routes bytes through the MCCP2 deflate stream
// once active, and fires the at_send_* hooks after each write.
func (c *Connection) writeLoop(ctx context.Context) {
	defer c.wg.Done()

	for {
		item, ok := c.outQueue.Dequeue()
		if !ok {
			c.closeWriter()
			return
		}

		select {
		case <-ctx.Done():
			c.closeWriter()
			return
		default:
		}

		if err := c.writeItem(item); err != nil {
			c.hooks.Error.Fire(ErrorEvent{Err: err, TaskName: "writer"})
			c.closeWriter()
			return
		}
	}
}

func (c *Connection) writeItem(item outboundItem) error {
	var out io.Writer = c.conn
	if c.compressor != nil {
		out = c.compressor
	}

	if item.isRaw {
		if _, err := out.Write(item.raw); err != nil {
			return err
		}
		c.hooks.OutboundData.Fire(OutboundDataEvent{Bytes: item.raw})
		return nil
	}

	encoded := item.message.Encode()
	if _, err := out.Write(encoded); err != nil {
		return err
	}
	c.hooks.OutboundMessage.Fire(OutboundMessageEvent{Message: item.message})

	c.afterSend(item.message)
	return nil
}

// afterSend invokes the at_send_negotiate/at_send_subnegotiate hooks on the
// relevant option now that the bytes are in the transport layer, per spec
// §4.F's "hook dispatch on outbound send" design note. MCCP2's compressor
// is installed here, after its activation SB's terminator has already
// reached the wire, preserving the ordering invariant in spec §4.D.
func (c *Connection) afterSend(msg Message) {
	opt, ok := c.registry.get(msg.Option)
	if !ok {
		return
	}

	switch msg.Kind {
	case KindNegotiate:
		opt.AtSendNegotiate(msg.Command)
	case KindSubNegotiate:
		opt.AtSendSubnegotiate(msg.Data)
		if msg.Option == OptionMCCP2 {
			c.activateMCCP2()
		}
	}
}

// activateMCCP2 installs the outbound deflate stream. Called only from the
// writer task, immediately after the MCCP2 activation SB's IAC SE has been
// written.
func (c *Connection) activateMCCP2() {
	c.compressor = newOutboundCompressor(c.conn)
	c.ChangeCapabilities(CapabilityDelta{MCCP2Enabled: Bool(true)})
}

func (c *Connection) closeWriter() {
	if c.compressor != nil {
		_ = c.compressor.Close()
	}
}
