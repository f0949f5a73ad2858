package dict

import (
	"encoding/binary"
	"errors"
)

var (
	// ErrOverflow indicates the buffer can't hold the tuple, or the
	// dictionary already has MaxTuples entries.
	ErrOverflow = errors.New("dictionary overflow")
	// ErrValueTooLong indicates a value longer than the 16-bit length field.
	ErrValueTooLong = errors.New("tuple value too long")
)

// Writer serializes tuples into a fixed buffer.
// The zero value is unusable until Begin is called.
type Writer struct {
	buf []byte
	n   int
}

// Begin starts a new dictionary in buf, discarding previous content.
func (w *Writer) Begin(buf []byte) error {
	if len(buf) < HeaderSize {
		w.buf, w.n = nil, 0
		return ErrOverflow
	}
	w.buf, w.n = buf, HeaderSize
	w.buf[0] = 0
	return nil
}

// Bytes returns the encoded dictionary. It aliases the buffer passed
// to Begin.
func (w *Writer) Bytes() []byte {
	return w.buf[:w.n]
}

// WriteInt32 writes a 4-byte signed integer tuple.
func (w *Writer) WriteInt32(key uint32, v int32) error {
	val, err := w.tuple(key, TypeInt, 4)
	if err == nil {
		binary.LittleEndian.PutUint32(val, uint32(v))
	}
	return err
}

// WriteUint8 writes a 1-byte unsigned integer tuple.
func (w *Writer) WriteUint8(key uint32, v uint8) error {
	val, err := w.tuple(key, TypeUint, 1)
	if err == nil {
		val[0] = v
	}
	return err
}

// WriteInt8s writes signed bytes as a byte array tuple.
func (w *Writer) WriteInt8s(key uint32, data []int8) error {
	val, err := w.tuple(key, TypeBytes, len(data))
	if err == nil {
		for i, v := range data {
			val[i] = byte(v)
		}
	}
	return err
}

func (w *Writer) tuple(key uint32, typ TupleType, size int) ([]byte, error) {
	if w.buf == nil {
		return nil, ErrOverflow
	}
	if size > 0xffff {
		return nil, ErrValueTooLong
	}
	if w.buf[0] == MaxTuples {
		return nil, ErrOverflow
	}
	end := w.n + TupleSize(size)
	if end > len(w.buf) {
		return nil, ErrOverflow
	}
	head := w.buf[w.n:]
	binary.LittleEndian.PutUint32(head, key)
	head[4] = byte(typ)
	binary.LittleEndian.PutUint16(head[5:], uint16(size))
	val := w.buf[w.n+TupleHeaderSize : end]
	w.n = end
	w.buf[0]++
	return val, nil
}
