package mqtt

import (
	"errors"
	"time"

	"github.com/robotalks/accstream/pkg/outbox"
)

// DefaultTimeout bounds how long a publish may stay in flight.
const DefaultTimeout = 5 * time.Second

// ErrNotConnected is returned by Submit while the broker is unreachable.
var ErrNotConnected = errors.New("mqtt not connected")

// Outbox publishes each message to one topic.
type Outbox struct {
	Queue   *Queue
	Topic   string
	QoS     byte
	Timeout time.Duration

	slot outbox.Slot
}

// NewOutbox creates an Outbox publishing to topic with QoS 1, so a
// transaction completes when the broker acknowledges it.
func NewOutbox(q *Queue, topic string) *Outbox {
	o := &Outbox{Queue: q, Topic: topic, QoS: 1, Timeout: DefaultTimeout}
	o.slot.Name = "mqtt"
	return o
}

// Submit implements outbox.Outbox.
func (o *Outbox) Submit(msg []byte) (*outbox.Transaction, error) {
	if !o.Queue.Connected() {
		return nil, ErrNotConnected
	}
	data, txn, err := o.slot.Acquire(msg)
	if err != nil {
		return nil, err
	}
	// paho keeps the payload for redelivery after the slot is released.
	payload := append([]byte(nil), data...)
	token := o.Queue.PubWith(o.Topic, payload, o.QoS, false)
	timeout := o.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	go func() {
		select {
		case <-token.Done():
			o.slot.Release(txn, token.Error())
		case <-time.After(timeout):
			o.slot.Release(txn, &outbox.SendError{Reason: "mqtt timeout"})
		}
	}()
	return txn, nil
}

// Busy tells if a publish is in flight.
func (o *Outbox) Busy() bool {
	return o.slot.Busy()
}

// Close implements io.Closer. The Queue is left open.
func (o *Outbox) Close() error {
	return o.slot.Close()
}
