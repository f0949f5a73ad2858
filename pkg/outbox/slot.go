package outbox

import "sync"

// Slot is the single message buffer shared by Outbox implementations.
// It enforces at most one transaction in flight.
type Slot struct {
	Name string

	lock   sync.Mutex
	busy   bool
	closed bool
	buf    [MaxMessageSize]byte
}

// Acquire copies msg into the slot and marks it busy.
// The returned bytes stay valid until Release.
func (s *Slot) Acquire(msg []byte) ([]byte, *Transaction, error) {
	if len(msg) > MaxMessageSize {
		return nil, nil, ErrTooLarge
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.closed {
		return nil, nil, ErrClosed
	}
	if s.busy {
		return nil, nil, ErrBusy
	}
	s.busy = true
	n := copy(s.buf[:], msg)
	return s.buf[:n], NewTransaction(), nil
}

// Release frees the slot and completes txn. A non-nil err is reported
// as a *SendError.
func (s *Slot) Release(txn *Transaction, err error) {
	s.lock.Lock()
	s.busy = false
	s.lock.Unlock()
	if err != nil {
		if _, ok := err.(*SendError); !ok {
			err = &SendError{Reason: s.Name, Err: err}
		}
	}
	txn.Complete(Result{Err: err})
}

// Busy tells if a transaction is in flight.
func (s *Slot) Busy() bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.busy
}

// Close rejects further Acquire calls.
func (s *Slot) Close() error {
	s.lock.Lock()
	s.closed = true
	s.lock.Unlock()
	return nil
}
