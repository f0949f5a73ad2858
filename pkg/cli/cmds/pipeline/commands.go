// Package pipeline provides shell commands inspecting a running pipeline.
package pipeline

import (
	"bytes"
	"fmt"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/accstream/pkg/accel"
	"github.com/robotalks/accstream/pkg/cli/sh"
	"github.com/robotalks/accstream/pkg/outbox"
	"github.com/robotalks/accstream/pkg/streamer"
)

// FormatStats renders the counters and state of a snapshot.
func FormatStats(s *streamer.Snapshot) string {
	var w bytes.Buffer
	fmt.Fprintf(&w, "state:     %s", s.State)
	if s.State == streamer.SendPending && s.PendingID >= 0 {
		fmt.Fprintf(&w, " (txid %d)", s.PendingID)
	}
	fmt.Fprintf(&w, "\nbatches:   %d\n", s.Stats.Batches)
	fmt.Fprintf(&w, "bytes:     %d\n", s.Stats.TotalBytes)
	fmt.Fprintf(&w, "sent:      %d\n", s.Stats.FramesSent)
	fmt.Fprintf(&w, "delivered: %d\n", s.Stats.FramesDelivered)
	fmt.Fprintf(&w, "failed:    %d\n", s.Stats.FramesFailed)
	fmt.Fprintf(&w, "dropped:   %d frames, %d samples", s.Stats.FramesDropped, s.Stats.SamplesDropped)
	return w.String()
}

// FormatFrame renders all triplets of the frame, marking the cursor.
func FormatFrame(s *streamer.Snapshot) string {
	var w bytes.Buffer
	n := len(s.Frame()) / accel.Axes
	for i := 0; i < n; i++ {
		q := s.Sample(i)
		mark := " "
		if i*accel.Axes == s.Cursor {
			mark = ">"
		}
		fmt.Fprintf(&w, "%s%2d %4d,%4d,%4d\n", mark, i, q.X, q.Y, q.Z)
	}
	return w.String()
}

// FormatBusy renders the forced state of the gate and whether a frame
// is in flight behind it.
func FormatBusy(g *outbox.Gate) string {
	state := "off"
	if g.Forced() {
		state = "on"
	}
	if outbox.InFlight(g.Outbox) {
		return "busy: " + state + " (in flight)"
	}
	return "busy: " + state
}

func withSnapshot(fn func(c *ishell.Context, s *streamer.Snapshot)) func(c *ishell.Context) {
	return sh.MustBeRunning(func(c *ishell.Context) {
		snapshot, err := sh.ShellFrom(c).Snapshot()
		if err != nil {
			c.Err(err)
			return
		}
		fn(c, snapshot)
	})
}

var (
	// StatsCmd prints the counters.
	StatsCmd = ishell.Cmd{
		Name:    "stats",
		Aliases: []string{"st"},
		Help:    "",
		Func: withSnapshot(func(c *ishell.Context, s *streamer.Snapshot) {
			shell := sh.ShellFrom(c)
			shell.Print(c, s.Diagnostics(shell.Config.DeviceID), FormatStats(s))
		}),
	}

	// ShowCmd prints the sample rate, the first samples and bytes.
	ShowCmd = ishell.Cmd{
		Name: "show",
		Help: "",
		Func: withSnapshot(func(c *ishell.Context, s *streamer.Snapshot) {
			c.Println(s.String())
		}),
	}

	// FrameCmd dumps the frame buffer.
	FrameCmd = ishell.Cmd{
		Name:    "frame",
		Aliases: []string{"f"},
		Help:    "",
		Func: withSnapshot(func(c *ishell.Context, s *streamer.Snapshot) {
			sh.ShellFrom(c).Print(c, s.Frame(), FormatFrame(s))
		}),
	}

	// BusyCmd forces the outbox busy to exercise frame dropping.
	BusyCmd = ishell.Cmd{
		Name: "busy",
		Help: "[on|off]",
		Func: sh.MustBeRunning(func(c *ishell.Context) {
			gate := sh.ShellFrom(c).Loop.Gate
			if len(c.Args) > 0 {
				switch c.Args[0] {
				case "on":
					gate.SetBusy(true)
				case "off":
					gate.SetBusy(false)
				default:
					c.Err(fmt.Errorf("expect on or off"))
					return
				}
			}
			c.Println(FormatBusy(gate))
		}),
	}
)

func init() {
	sh.AddCmds(
		&StatsCmd,
		&ShowCmd,
		&FrameCmd,
		&BusyCmd,
	)
}
