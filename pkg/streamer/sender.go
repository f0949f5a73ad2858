package streamer

import (
	"github.com/robotalks/accstream/pkg/accel/frame"
	"github.com/robotalks/accstream/pkg/outbox"
)

// Sender wraps frames into tagged messages and submits them.
// Messages are encoded into a fixed buffer owned by the Sender.
type Sender struct {
	Outbox outbox.Outbox

	buf [outbox.MaxMessageSize]byte
}

// Send encodes payload, with txID if txID >= 0, and submits it. It fails
// with outbox.ErrBusy if the outbox can't take a new transaction.
func (s *Sender) Send(payload []int8, txID int32) (*outbox.Transaction, error) {
	msg, err := frame.Encode(s.buf[:], payload, txID)
	if err != nil {
		return nil, err
	}
	return s.Outbox.Submit(msg)
}
