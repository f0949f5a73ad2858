// Package outbox provides the asynchronous, single-slot outbound channel
// frames are handed to. An Outbox accepts one message at a time and
// reports completion through a Transaction.
package outbox

import (
	"errors"
	"fmt"
)

// MaxMessageSize is the capacity of an outbox slot in bytes.
const MaxMessageSize = 512

var (
	// ErrBusy indicates a previous message is still in flight.
	ErrBusy = errors.New("outbox busy")
	// ErrClosed indicates the outbox is closed.
	ErrClosed = errors.New("outbox closed")
	// ErrTooLarge indicates the message exceeds MaxMessageSize.
	ErrTooLarge = errors.New("message too large")
)

// Outbox accepts one outbound message at a time.
type Outbox interface {
	// Submit hands msg to the channel and returns immediately.
	// It fails with ErrBusy while a previous transaction is pending.
	// msg is copied; the caller may reuse it after Submit returns.
	Submit(msg []byte) (*Transaction, error)
}

// InFlight tells if o has a transaction pending. Outboxes without a
// Busy method are never reported in flight.
func InFlight(o Outbox) bool {
	if b, ok := o.(interface{ Busy() bool }); ok {
		return b.Busy()
	}
	return false
}

// SendError is the failure of a submitted message. Reason is specific
// to the channel and opaque to the sender.
type SendError struct {
	Reason string
	Err    error
}

// Error implements error.
func (e *SendError) Error() string {
	if e.Err == nil {
		return "send failed: " + e.Reason
	}
	return fmt.Sprintf("send failed: %s: %v", e.Reason, e.Err)
}

// Unwrap returns the underlying error.
func (e *SendError) Unwrap() error {
	return e.Err
}

// Result is the completion of a Transaction.
type Result struct {
	// Err is nil when the message was sent.
	Err error
}

// OK tells if the message was sent.
func (r Result) OK() bool {
	return r.Err == nil
}

// Transaction is a submitted message awaiting completion.
type Transaction struct {
	resultCh chan Result
}

// NewTransaction creates an incomplete Transaction.
func NewTransaction() *Transaction {
	return &Transaction{resultCh: make(chan Result, 1)}
}

// ResultChan delivers exactly one Result.
func (t *Transaction) ResultChan() <-chan Result {
	return t.resultCh
}

// Poll returns the Result without blocking if the transaction completed.
// The Result is consumed by the first successful Poll or receive.
func (t *Transaction) Poll() (Result, bool) {
	select {
	case r := <-t.ResultChan():
		return r, true
	default:
		return Result{}, false
	}
}

// Complete finishes the transaction. It must be called exactly once.
func (t *Transaction) Complete(r Result) {
	t.resultCh <- r
	close(t.resultCh)
}
