package telnet

import "sync"

// outboundItem is one entry in the writer's outbound queue: either a typed
// Telnet message or a pre-encoded byte run (from SendText), per spec
// §4.F's writer task description.
type outboundItem struct {
	message Message
	raw     []byte
	isRaw   bool
}

// queue is an unbounded, growable FIFO with a blocking Dequeue, adapted
// from moodclient-telnet's queue.go generic growable-buffer pattern but
// specialized to outboundItem and built on a condition variable instead of
// a bespoke straighten/grow scheme, since this queue only needs FIFO
// semantics, not random access.
type queue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []outboundItem
	closed bool
}

func newQueue() *queue {
	q := &queue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push appends an item and wakes one blocked Dequeue, if any.
func (q *queue) Push(item outboundItem) {
	q.mu.Lock()
	q.items = append(q.items, item)
	q.mu.Unlock()
	q.cond.Signal()
}

// Dequeue blocks until an item is available or the queue is closed. ok is
// false only once the queue is closed and drained.
func (q *queue) Dequeue() (item outboundItem, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}
	if len(q.items) == 0 {
		return outboundItem{}, false
	}

	item = q.items[0]
	q.items = q.items[1:]
	return item, true
}

// Close unblocks any pending Dequeue; subsequent Dequeues drain remaining
// items before reporting closed.
func (q *queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.cond.Broadcast()
}
