package outbox

import (
	"context"
	"time"
)

// Delivery is a message received from a Pipe. Data is valid until Ack.
type Delivery struct {
	Data []byte

	txn  *Transaction
	slot *Slot
}

// Ack completes the transaction with err (nil for success).
func (d *Delivery) Ack(err error) {
	d.slot.Release(d.txn, err)
}

// Pipe is an in-memory Outbox. Submitted messages are received from
// Deliveries and stay in flight until acknowledged.
type Pipe struct {
	slot Slot
	ch   chan *Delivery
}

// NewPipe creates a Pipe.
func NewPipe() *Pipe {
	p := &Pipe{ch: make(chan *Delivery, 1)}
	p.slot.Name = "pipe"
	return p
}

// Submit implements Outbox.
func (p *Pipe) Submit(msg []byte) (*Transaction, error) {
	data, txn, err := p.slot.Acquire(msg)
	if err != nil {
		return nil, err
	}
	p.ch <- &Delivery{Data: data, txn: txn, slot: &p.slot}
	return txn, nil
}

// Deliveries receives submitted messages.
func (p *Pipe) Deliveries() <-chan *Delivery {
	return p.ch
}

// Busy tells if a message is in flight.
func (p *Pipe) Busy() bool {
	return p.slot.Busy()
}

// Close implements io.Closer.
func (p *Pipe) Close() error {
	return p.slot.Close()
}

// PipeReceiver acknowledges Pipe deliveries after a fixed latency,
// simulating a paired host.
type PipeReceiver struct {
	Pipe    *Pipe
	Latency time.Duration
	// Handler consumes the message; its error fails the transaction.
	Handler func([]byte) error
}

// Run implements Runnable.
func (r *PipeReceiver) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d := <-r.Pipe.Deliveries():
			if r.Latency > 0 {
				select {
				case <-time.After(r.Latency):
				case <-ctx.Done():
					d.Ack(ctx.Err())
					return ctx.Err()
				}
			}
			var err error
			if h := r.Handler; h != nil {
				err = h(d.Data)
			}
			d.Ack(err)
		}
	}
}
