package telnet

import (
	"context"
	"sync"
	"time"
)

// negotiateLoop is the negotiation task of spec §4.F: it starts every
// registered option, then awaits the logical AND of all per-option
// settled events with a hard timeout, proceeding regardless on expiry
// (spec §5, §9 Design Note).
func (c *Connection) negotiateLoop(ctx context.Context) {
	defer c.wg.Done()

	c.registry.start()

	settled := make(chan struct{})
	go func() {
		var wg sync.WaitGroup
		for _, opt := range c.registry.options() {
			wg.Add(1)
			go func(o Option) {
				defer wg.Done()
				select {
				case <-o.Settled():
				case <-c.shutdownCh:
				}
			}(opt)
		}
		wg.Wait()
		close(settled)
	}()

	timer := time.NewTimer(c.cfg.negotiationTimeout())
	defer timer.Stop()

	timedOut := false
	select {
	case <-settled:
	case <-timer.C:
		timedOut = true
	case <-ctx.Done():
	case <-c.shutdownCh:
	}

	c.hooks.NegotiationComplete.Fire(NegotiationCompleteEvent{
		Capabilities: c.caps.Snapshot(),
		TimedOut:     timedOut,
	})
}
