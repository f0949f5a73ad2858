package frame

import (
	"fmt"

	"github.com/robotalks/accstream/pkg/accel"
	"github.com/robotalks/accstream/pkg/dict"
)

// Message keys.
const (
	KeyTransactionID uint32 = 0x1
	KeyNumBytes      uint32 = 0x2
	KeyData          uint32 = 0x3
)

// NoTransactionID leaves the transaction id out of the message.
const NoTransactionID int32 = -1

// MessageSize is the largest encoded message carrying capacity bytes.
func MessageSize(capacity int) int {
	return dict.HeaderSize +
		dict.TupleSize(4) + // transaction id
		dict.TupleSize(1) + // length
		dict.TupleSize(capacity)
}

// Encode writes a frame message into buf and returns the encoded bytes,
// which alias buf. The transaction id is included only if txID >= 0.
func Encode(buf []byte, payload []int8, txID int32) ([]byte, error) {
	if len(payload) > MaxCapacity {
		return nil, fmt.Errorf("frame of %d bytes exceeds %d", len(payload), MaxCapacity)
	}
	var w dict.Writer
	if err := w.Begin(buf); err != nil {
		return nil, err
	}
	if txID >= 0 {
		if err := w.WriteInt32(KeyTransactionID, txID); err != nil {
			return nil, err
		}
	}
	if err := w.WriteUint8(KeyNumBytes, uint8(len(payload))); err != nil {
		return nil, err
	}
	if err := w.WriteInt8s(KeyData, payload); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// Message is a decoded frame message.
type Message struct {
	// TransactionID is NoTransactionID when absent.
	TransactionID int32
	Payload       []int8
}

// Decode parses a frame message.
func Decode(data []byte) (*Message, error) {
	d, err := dict.Decode(data)
	if err != nil {
		return nil, err
	}
	msg := &Message{TransactionID: NoTransactionID}
	if t, ok := d.Find(KeyTransactionID); ok {
		id, err := t.Int()
		if err != nil {
			return nil, err
		}
		msg.TransactionID = int32(id)
	}
	lenTuple, ok := d.Find(KeyNumBytes)
	if !ok {
		return nil, fmt.Errorf("missing length tuple %d", KeyNumBytes)
	}
	size, err := lenTuple.Uint()
	if err != nil {
		return nil, err
	}
	dataTuple, ok := d.Find(KeyData)
	if !ok {
		return nil, fmt.Errorf("missing data tuple %d", KeyData)
	}
	if uint64(len(dataTuple.Value)) != size {
		return nil, fmt.Errorf("length %d mismatches %d payload bytes", size, len(dataTuple.Value))
	}
	msg.Payload = make([]int8, size)
	if _, err = dataTuple.Int8s(msg.Payload); err != nil {
		return nil, err
	}
	return msg, nil
}

// Samples splits the payload into x,y,z triplets. A trailing partial
// triplet is ignored.
func (m *Message) Samples() []accel.QuantizedSample {
	samples := make([]accel.QuantizedSample, len(m.Payload)/accel.Axes)
	for i := range samples {
		p := m.Payload[i*accel.Axes:]
		samples[i] = accel.QuantizedSample{X: p[0], Y: p[1], Z: p[2]}
	}
	return samples
}
