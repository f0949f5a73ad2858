package streamer

import (
	"fmt"
	"strings"

	"github.com/robotalks/accstream/pkg/accel"
	"github.com/robotalks/accstream/pkg/accel/frame"
	"github.com/robotalks/accstream/pkg/streamer/msgs"
)

// Snapshot is a read-only copy of the Controller state.
type Snapshot struct {
	State      State
	SampleRate int
	// Cursor is the number of bytes written into the current frame.
	Cursor    int
	PendingID int32
	Timestamp uint64
	Stats     Stats

	frame    [frame.MaxCapacity]int8
	frameLen int
}

// Frame returns the frame bytes, including stale bytes past Cursor.
func (s *Snapshot) Frame() []int8 {
	return s.frame[:s.frameLen]
}

// Sample returns the i-th x,y,z triplet of the frame.
func (s *Snapshot) Sample(i int) accel.QuantizedSample {
	off := i * accel.Axes
	if off+accel.Axes > s.frameLen {
		return accel.QuantizedSample{}
	}
	return accel.QuantizedSample{X: s.frame[off], Y: s.frame[off+1], Z: s.frame[off+2]}
}

// String renders the sample rate, the first three triplets and the
// byte counter.
func (s *Snapshot) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "SampRate=%d\n  X, Y, Z\n", s.SampleRate)
	for i := 0; i < 3; i++ {
		q := s.Sample(i)
		fmt.Fprintf(&sb, "%d %d,%d,%d\n", i, q.X, q.Y, q.Z)
	}
	fmt.Fprintf(&sb, "bytes: %d", s.Stats.TotalBytes)
	return sb.String()
}

// Diagnostics converts the snapshot into a diagnostics event.
func (s *Snapshot) Diagnostics(deviceID string) *msgs.Diagnostics {
	return &msgs.Diagnostics{
		DeviceID:        deviceID,
		Timestamp:       s.Timestamp,
		SampleRate:      uint32(s.SampleRate),
		TotalBytes:      s.Stats.TotalBytes,
		FramesSent:      s.Stats.FramesSent,
		FramesDelivered: s.Stats.FramesDelivered,
		FramesFailed:    s.Stats.FramesFailed,
		FramesDropped:   s.Stats.FramesDropped,
		SamplesDropped:  s.Stats.SamplesDropped,
		Pending:         s.State == SendPending,
	}
}
