package streamer

import (
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/accstream/pkg/accel"
	fx "github.com/robotalks/accstream/pkg/framework"
	"github.com/robotalks/accstream/pkg/streamer/msgs"
)

// BatchMsg delivers a batch from a sample source to the Controller.
type BatchMsg struct {
	Batch accel.Batch
}

// SnapshotQuery asks the Controller for a Snapshot from outside the loop.
type SnapshotQuery struct {
	ReplyCh chan Snapshot
}

// NewSnapshotQuery creates a SnapshotQuery.
func NewSnapshotQuery() *SnapshotQuery {
	return &SnapshotQuery{ReplyCh: make(chan Snapshot, 1)}
}

// AddToLoop implements fx.LoopAdder.
func (c *Controller) AddToLoop(l *fx.Loop) {
	l.AddController(fx.StageControl, c)
}

// Control implements fx.Controller.
func (c *Controller) Control(cc fx.ControlContext) error {
	cc.Messages().ProcessMessages(func(msg fx.Message) bool {
		switch m := msg.(type) {
		case *BatchMsg:
			c.HandleBatch(m.Batch)
		case *SnapshotQuery:
			m.ReplyCh <- c.Snapshot()
		default:
			return false
		}
		return true
	})
	c.Poll()
	return nil
}

// Reporter periodically publishes a diagnostics event of a Controller.
type Reporter struct {
	Controller *Controller
	DeviceID   string
	Interval   time.Duration
	Publish    func(*msgs.Diagnostics) error

	last time.Time
}

// AddToLoop implements fx.LoopAdder.
func (r *Reporter) AddToLoop(l *fx.Loop) {
	l.AddController(fx.StageReport, r)
}

// Control implements fx.Controller.
func (r *Reporter) Control(cc fx.ControlContext) error {
	if r.Interval <= 0 || cc.Time().Sub(r.last) < r.Interval {
		return nil
	}
	r.last = cc.Time()
	snapshot := r.Controller.Snapshot()
	ev := snapshot.Diagnostics(r.DeviceID)
	glog.V(2).Infof("STATS %s", ev)
	return r.Publish(ev)
}
