package dict

import (
	"encoding/binary"
	"fmt"
)

// TupleType is the value type of a tuple.
type TupleType byte

// Tuple types.
const (
	TypeBytes   TupleType = 0
	TypeCString TupleType = 1
	TypeUint    TupleType = 2
	TypeInt     TupleType = 3
)

// String implements fmt.Stringer.
func (t TupleType) String() string {
	switch t {
	case TypeBytes:
		return "bytes"
	case TypeCString:
		return "cstring"
	case TypeUint:
		return "uint"
	case TypeInt:
		return "int"
	}
	return fmt.Sprintf("type(%d)", byte(t))
}

// Size constants.
const (
	// HeaderSize is the size of the tuple count.
	HeaderSize = 1
	// TupleHeaderSize is key + type + length.
	TupleHeaderSize = 4 + 1 + 2
	// MaxTuples is the maximum tuples in one dictionary.
	MaxTuples = 0xff
)

// TupleSize is the encoded size of a tuple with valueLen bytes of value.
func TupleSize(valueLen int) int {
	return TupleHeaderSize + valueLen
}

// Tuple is a decoded key/value pair. Value aliases the decoded buffer.
type Tuple struct {
	Key   uint32
	Type  TupleType
	Value []byte
}

// TupleTypeError indicates a tuple can't be read as the requested type.
type TupleTypeError struct {
	Key  uint32
	Type TupleType
	Len  int
}

// Error implements error.
func (e *TupleTypeError) Error() string {
	return fmt.Sprintf("tuple %d: unexpected %s of %d bytes", e.Key, e.Type, e.Len)
}

// Int reads a signed integer tuple.
func (t Tuple) Int() (int64, error) {
	if t.Type != TypeInt {
		return 0, t.typeErr()
	}
	switch len(t.Value) {
	case 1:
		return int64(int8(t.Value[0])), nil
	case 2:
		return int64(int16(binary.LittleEndian.Uint16(t.Value))), nil
	case 4:
		return int64(int32(binary.LittleEndian.Uint32(t.Value))), nil
	}
	return 0, t.typeErr()
}

// Uint reads an unsigned integer tuple.
func (t Tuple) Uint() (uint64, error) {
	if t.Type != TypeUint {
		return 0, t.typeErr()
	}
	switch len(t.Value) {
	case 1:
		return uint64(t.Value[0]), nil
	case 2:
		return uint64(binary.LittleEndian.Uint16(t.Value)), nil
	case 4:
		return uint64(binary.LittleEndian.Uint32(t.Value)), nil
	}
	return 0, t.typeErr()
}

// Int8s reinterprets a byte array tuple as signed bytes into dst and
// returns the count copied.
func (t Tuple) Int8s(dst []int8) (int, error) {
	if t.Type != TypeBytes {
		return 0, t.typeErr()
	}
	n := len(t.Value)
	if n > len(dst) {
		n = len(dst)
	}
	for i := 0; i < n; i++ {
		dst[i] = int8(t.Value[i])
	}
	return n, nil
}

func (t Tuple) typeErr() error {
	return &TupleTypeError{Key: t.Key, Type: t.Type, Len: len(t.Value)}
}
