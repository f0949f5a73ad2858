package dict

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrTruncated indicates the data ends in the middle of a tuple.
var ErrTruncated = errors.New("dictionary truncated")

// Dict is a decoded dictionary.
type Dict []Tuple

// Find looks up a tuple by key.
func (d Dict) Find(key uint32) (Tuple, bool) {
	for _, t := range d {
		if t.Key == key {
			return t, true
		}
	}
	return Tuple{}, false
}

// Decode parses an encoded dictionary. Tuple values alias data.
func Decode(data []byte) (Dict, error) {
	if len(data) < HeaderSize {
		return nil, ErrTruncated
	}
	count := int(data[0])
	d := make(Dict, 0, count)
	pos := HeaderSize
	for i := 0; i < count; i++ {
		if pos+TupleHeaderSize > len(data) {
			return nil, ErrTruncated
		}
		key := binary.LittleEndian.Uint32(data[pos:])
		typ := TupleType(data[pos+4])
		size := int(binary.LittleEndian.Uint16(data[pos+5:]))
		pos += TupleHeaderSize
		if pos+size > len(data) {
			return nil, ErrTruncated
		}
		if typ > TypeInt {
			return nil, fmt.Errorf("tuple %d: unknown type %d", key, byte(typ))
		}
		d = append(d, Tuple{Key: key, Type: typ, Value: data[pos : pos+size]})
		pos += size
	}
	if pos != len(data) {
		return nil, fmt.Errorf("%d trailing bytes after dictionary", len(data)-pos)
	}
	return d, nil
}
