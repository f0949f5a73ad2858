// Package frame provides the fixed-capacity accumulator of quantized
// samples which becomes the payload of one outbound message.
package frame

import (
	"fmt"

	"github.com/robotalks/accstream/pkg/accel"
)

const (
	// MaxCapacity bounds the frame so its length fits the 8-bit
	// length field of the wire message.
	MaxCapacity = 255
	// MaxSampleRate is the largest number of samples per frame.
	MaxSampleRate = MaxCapacity / accel.Axes
	// DefaultSampleRate gives one frame per second after decimation.
	DefaultSampleRate = accel.DecimatedRate
)

// Buffer accumulates interleaved x,y,z scalars. The storage is a fixed
// array reused in place; a Buffer is never reallocated while in use.
// Buffer is not safe for concurrent use.
type Buffer struct {
	data       [MaxCapacity]int8
	capacity   int
	cursor     int
	totalBytes uint32
}

// New creates a Buffer holding sampleRate samples.
func New(sampleRate int) (*Buffer, error) {
	if sampleRate < 1 || sampleRate > MaxSampleRate {
		return nil, fmt.Errorf("frame sample rate %d out of range [1, %d]", sampleRate, MaxSampleRate)
	}
	return &Buffer{capacity: sampleRate * accel.Axes}, nil
}

// Append writes one sample at the cursor. It returns true when the frame
// became full; the cursor is then reset to 0 and the capacity is added to
// the byte counter. The full frame stays readable via Bytes until the
// next Append overwrites it.
func (b *Buffer) Append(s accel.QuantizedSample) bool {
	b.data[b.cursor] = s.X
	b.data[b.cursor+1] = s.Y
	b.data[b.cursor+2] = s.Z
	b.cursor += accel.Axes
	if b.cursor < b.capacity {
		return false
	}
	b.cursor = 0
	b.totalBytes += uint32(b.capacity)
	return true
}

// Bytes returns the whole frame, always Cap() long.
func (b *Buffer) Bytes() []int8 {
	return b.data[:b.capacity]
}

// CopyTo copies the whole frame into dst and returns the count copied.
func (b *Buffer) CopyTo(dst []int8) int {
	return copy(dst, b.data[:b.capacity])
}

// Cap is the frame capacity in bytes.
func (b *Buffer) Cap() int {
	return b.capacity
}

// SampleRate is the number of samples per frame.
func (b *Buffer) SampleRate() int {
	return b.capacity / accel.Axes
}

// Cursor is the next write position, always in [0, Cap()).
func (b *Buffer) Cursor() int {
	return b.cursor
}

// TotalBytes is the running count of bytes in completed frames.
func (b *Buffer) TotalBytes() uint32 {
	return b.totalBytes
}
