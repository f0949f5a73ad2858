package outbox

import (
	"encoding/binary"
	"io"
)

// Stream is an Outbox over a byte stream such as a serial port.
// Each message is prefixed by its 4-byte little-endian length.
type Stream struct {
	w    io.Writer
	slot Slot
}

// NewStream creates a Stream writing to w.
func NewStream(w io.Writer) *Stream {
	s := &Stream{w: w}
	s.slot.Name = "stream"
	return s
}

// Submit implements Outbox. The write happens on another goroutine.
func (s *Stream) Submit(msg []byte) (*Transaction, error) {
	data, txn, err := s.slot.Acquire(msg)
	if err != nil {
		return nil, err
	}
	go func() {
		s.slot.Release(txn, WriteMessage(s.w, data))
	}()
	return txn, nil
}

// Busy tells if a message is in flight.
func (s *Stream) Busy() bool {
	return s.slot.Busy()
}

// Close implements io.Closer. The underlying writer is closed if it
// implements io.Closer.
func (s *Stream) Close() error {
	s.slot.Close()
	if closer, ok := s.w.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// WriteMessage writes one length-prefixed message.
func WriteMessage(w io.Writer, msg []byte) error {
	var head [4]byte
	binary.LittleEndian.PutUint32(head[:], uint32(len(msg)))
	if _, err := w.Write(head[:]); err != nil {
		return err
	}
	_, err := w.Write(msg)
	return err
}

// ReadMessage reads one length-prefixed message.
func ReadMessage(r io.Reader) ([]byte, error) {
	var size uint32
	if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
		return nil, err
	}
	if size > MaxMessageSize {
		return nil, ErrTooLarge
	}
	msg := make([]byte, size)
	_, err := io.ReadFull(r, msg)
	return msg, err
}
