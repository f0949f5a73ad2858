// Package streamer owns the accelerometer pipeline: it filters,
// quantizes and frames raw batches and hands full frames to an outbox.
package streamer

import (
	"fmt"

	"github.com/golang/glog"

	"github.com/robotalks/accstream/pkg/accel"
	"github.com/robotalks/accstream/pkg/accel/dsp"
	"github.com/robotalks/accstream/pkg/accel/frame"
	"github.com/robotalks/accstream/pkg/outbox"
)

// State is the transmission state of the Controller.
type State int

// States.
const (
	Idle State = iota
	SendPending
)

// String implements fmt.Stringer.
func (s State) String() string {
	if s == SendPending {
		return "send-pending"
	}
	return "idle"
}

// Stats are the Controller counters. All are monotonic.
type Stats struct {
	// TotalBytes counts bytes in completed frames, sent or not.
	TotalBytes uint32
	Batches    uint32
	// SamplesDropped counts raw samples left over from partial blocks.
	SamplesDropped  uint32
	FramesSent      uint32
	FramesDelivered uint32
	FramesFailed    uint32
	// FramesDropped counts frames never submitted because the outbox was
	// busy or a transaction was still pending.
	FramesDropped uint32
}

// Controller runs the pipeline. It is not safe for concurrent use: all
// calls must come from the same processing context (see Control).
type Controller struct {
	// TxIDs attaches an incrementing transaction id to every message.
	TxIDs bool

	frame     *frame.Buffer
	sender    Sender
	pending   *outbox.Transaction
	pendingID int32
	lastID    int32
	stats     Stats
	lastTS    uint64

	filtered [accel.DefaultBatchSize / dsp.BlockSize]accel.FilteredSample
}

// NewController creates a Controller framing sampleRate samples per
// message and sending to ob.
func NewController(sampleRate int, ob outbox.Outbox) (*Controller, error) {
	buf, err := frame.New(sampleRate)
	if err != nil {
		return nil, err
	}
	if size := frame.MessageSize(buf.Cap()); size > outbox.MaxMessageSize {
		return nil, fmt.Errorf("frame message of %d bytes exceeds outbox size %d", size, outbox.MaxMessageSize)
	}
	c := &Controller{frame: buf, pendingID: frame.NoTransactionID}
	c.sender.Outbox = ob
	return c, nil
}

// HandleBatch runs a batch through filter, quantizer and frame buffer,
// sending every frame that becomes full. Failures never surface here:
// an unsendable frame is dropped.
func (c *Controller) HandleBatch(b accel.Batch) {
	c.Poll()
	c.stats.Batches++
	c.lastTS = b.Timestamp
	samples := b.Samples
	blocks := dsp.Blocks(len(samples))
	if rem := len(samples) - blocks*dsp.BlockSize; rem > 0 {
		c.stats.SamplesDropped += uint32(rem)
		glog.V(2).Infof("batch of %d samples: ignored %d trailing", len(samples), rem)
	}
	for len(samples) >= dsp.BlockSize {
		n := dsp.Decimate(c.filtered[:], samples)
		for _, f := range c.filtered[:n] {
			if c.frame.Append(dsp.QuantizeSample(f)) {
				c.sendFrame()
			}
		}
		samples = samples[n*dsp.BlockSize:]
	}
}

// sendFrame consumes a transaction id for every full frame, sent or
// dropped, so receivers see drops as gaps.
func (c *Controller) sendFrame() {
	txID := frame.NoTransactionID
	if c.TxIDs {
		if c.lastID++; c.lastID < 0 {
			c.lastID = 0
		}
		txID = c.lastID
	}
	if c.pending != nil {
		c.stats.FramesDropped++
		glog.V(1).Infof("frame %d dropped: transaction %d pending", txID, c.pendingID)
		return
	}
	txn, err := c.sender.Send(c.frame.Bytes(), txID)
	if err != nil {
		c.stats.FramesDropped++
		glog.V(1).Infof("frame dropped: %v", err)
		return
	}
	c.pending, c.pendingID = txn, txID
	c.stats.FramesSent++
}

// Poll checks the pending transaction without blocking and returns true
// if it completed.
func (c *Controller) Poll() bool {
	if c.pending == nil {
		return false
	}
	r, ok := c.pending.Poll()
	if ok {
		c.Complete(r)
	}
	return ok
}

// Complete records the completion of the pending transaction and
// returns to Idle. Nothing is retransmitted.
func (c *Controller) Complete(r outbox.Result) {
	if c.pending == nil {
		return
	}
	if r.OK() {
		c.stats.FramesDelivered++
	} else {
		c.stats.FramesFailed++
		glog.Warningf("frame %d not delivered: %v", c.pendingID, r.Err)
	}
	c.pending, c.pendingID = nil, frame.NoTransactionID
}

// State reports whether a transaction is pending.
func (c *Controller) State() State {
	if c.pending != nil {
		return SendPending
	}
	return Idle
}

// Stats returns a copy of the counters.
func (c *Controller) Stats() Stats {
	s := c.stats
	s.TotalBytes = c.frame.TotalBytes()
	return s
}

// Snapshot returns a read-only copy of the frame and counters.
func (c *Controller) Snapshot() Snapshot {
	s := Snapshot{
		State:      c.State(),
		SampleRate: c.frame.SampleRate(),
		Cursor:     c.frame.Cursor(),
		PendingID:  c.pendingID,
		Timestamp:  c.lastTS,
		Stats:      c.Stats(),
	}
	s.frameLen = c.frame.CopyTo(s.frame[:])
	return s
}
