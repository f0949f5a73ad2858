package pipeline

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/accstream/pkg/cli/sh"
	"github.com/robotalks/accstream/pkg/env"
	"github.com/robotalks/accstream/pkg/outbox"
	"github.com/robotalks/accstream/pkg/streamer"
)

func startShell(t *testing.T, sourceURL string) *sh.Shell {
	conf := env.NewConfig()
	conf.OutboxURL = "pipe:"
	conf.SourceURL = sourceURL
	conf.StatsInterval = 0
	s := &sh.Shell{Config: conf}
	require.NoError(t, s.Start())
	return s
}

func waitSnapshot(t *testing.T, s *sh.Shell, cond func(*streamer.Snapshot) bool) *streamer.Snapshot {
	var snapshot *streamer.Snapshot
	require.Eventually(t, func() bool {
		var err error
		if snapshot, err = s.Snapshot(); err != nil {
			return false
		}
		return cond(snapshot)
	}, 3*time.Second, 10*time.Millisecond)
	return snapshot
}

func TestPipelineDelivered(t *testing.T) {
	s := startShell(t, "synth:?x=1600&count=100")
	defer s.Stop()
	snapshot := waitSnapshot(t, s, func(s *streamer.Snapshot) bool {
		return s.Stats.FramesDelivered == 1
	})
	require.Equal(t, "SampRate=20\n  X, Y, Z\n0 100,0,0\n1 100,0,0\n2 100,0,0\nbytes: 60", snapshot.String())
	stats := FormatStats(snapshot)
	require.Contains(t, stats, "delivered: 1\n")
	require.Contains(t, stats, "state:     idle\n")

	frame := FormatFrame(snapshot)
	lines := strings.Split(strings.TrimSpace(frame), "\n")
	require.Len(t, lines, 20)
	require.Equal(t, "> 0  100,   0,   0", lines[0])
}

func TestPipelineBusy(t *testing.T) {
	conf := env.NewConfig()
	conf.OutboxURL = "pipe:"
	conf.SourceURL = "synth:?x=1600&count=100"
	conf.StatsInterval = 0
	s := &sh.Shell{Config: conf}
	// synth runs at 100Hz, so the frame completes long after the gate closes.
	require.NoError(t, s.Start())
	defer s.Stop()
	s.Loop.Gate.SetBusy(true)
	snapshot := waitSnapshot(t, s, func(s *streamer.Snapshot) bool {
		return s.Stats.TotalBytes == 60
	})
	require.EqualValues(t, 1, snapshot.Stats.FramesDropped)
	require.EqualValues(t, 0, snapshot.Stats.FramesSent)
	require.Equal(t, streamer.Idle, snapshot.State)
}

func TestSnapshotNotRunning(t *testing.T) {
	s := &sh.Shell{Config: env.NewConfig()}
	_, err := s.Snapshot()
	require.Error(t, err)
	s.Stop()
}

func TestFormatBusy(t *testing.T) {
	pipe := outbox.NewPipe()
	defer pipe.Close()
	gate := &outbox.Gate{Outbox: pipe}
	require.Equal(t, "busy: off", FormatBusy(gate))
	gate.SetBusy(true)
	require.Equal(t, "busy: on", FormatBusy(gate))
	gate.SetBusy(false)

	txn, err := gate.Submit([]byte{1})
	require.NoError(t, err)
	require.True(t, outbox.InFlight(pipe))
	require.Equal(t, "busy: off (in flight)", FormatBusy(gate))
	(<-pipe.Deliveries()).Ack(nil)
	require.True(t, (<-txn.ResultChan()).OK())
	require.Equal(t, "busy: off", FormatBusy(gate))
}
