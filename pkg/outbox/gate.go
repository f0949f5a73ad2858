package outbox

import "sync/atomic"

// Gate wraps an Outbox which can be forced busy.
type Gate struct {
	Outbox Outbox

	busy int32
}

// SetBusy forces Submit to fail with ErrBusy while busy is true.
func (g *Gate) SetBusy(busy bool) {
	var val int32
	if busy {
		val = 1
	}
	atomic.StoreInt32(&g.busy, val)
}

// Forced tells if the gate is forced busy.
func (g *Gate) Forced() bool {
	return atomic.LoadInt32(&g.busy) != 0
}

// Submit implements Outbox.
func (g *Gate) Submit(msg []byte) (*Transaction, error) {
	if g.Forced() {
		return nil, ErrBusy
	}
	return g.Outbox.Submit(msg)
}
