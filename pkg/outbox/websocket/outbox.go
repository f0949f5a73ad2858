// Package websocket sends frames as binary websocket messages.
package websocket

import (
	"golang.org/x/net/websocket"

	"github.com/robotalks/accstream/pkg/outbox"
)

// Outbox implements outbox.Outbox over a websocket connection.
type Outbox struct {
	conn *websocket.Conn
	slot outbox.Slot
}

// New wraps a websocket.Conn.
func New(conn *websocket.Conn) *Outbox {
	o := &Outbox{conn: conn}
	o.slot.Name = "websocket"
	return o
}

// Dial connects to a websocket server, e.g. ws://host:8080/frames.
func Dial(url, origin string) (*Outbox, error) {
	conn, err := websocket.Dial(url, "", origin)
	if err != nil {
		return nil, err
	}
	return New(conn), nil
}

// Submit implements outbox.Outbox.
func (o *Outbox) Submit(msg []byte) (*outbox.Transaction, error) {
	data, txn, err := o.slot.Acquire(msg)
	if err != nil {
		return nil, err
	}
	go func() {
		o.slot.Release(txn, websocket.Message.Send(o.conn, data))
	}()
	return txn, nil
}

// Busy tells if a send is in flight.
func (o *Outbox) Busy() bool {
	return o.slot.Busy()
}

// Close implements io.Closer.
func (o *Outbox) Close() error {
	o.slot.Close()
	return o.conn.Close()
}

// Receive reads one message from a connection, for the receiving side.
func Receive(conn *websocket.Conn) (msg []byte, err error) {
	err = websocket.Message.Receive(conn, &msg)
	return
}
