// Package dict encodes and decodes tagged key/value dictionaries in the
// layout used by Pebble AppMessage.
package dict

// A dictionary is a tuple count followed by tuples, all little-endian:
//
//	dictionary := count:u8 tuple*
//	tuple      := key:u32 type:u8 length:u16 value[length]
//
// Integer tuples carry 1, 2 or 4 byte values; byte array tuples carry raw
// bytes; cstring tuples include the trailing NUL.
//
// The Writer never allocates: it writes into a caller owned buffer (the
// outbox) and fails with ErrOverflow when the tuple does not fit.
