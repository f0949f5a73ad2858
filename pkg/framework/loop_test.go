package framework

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoopStagesAndMessages(t *testing.T) {
	var order []string
	var seen []Message
	loop := NewLoop()
	loop.AddController(StageReport, ControlFunc(func(cc ControlContext) error {
		order = append(order, "report")
		cc.Messages().ProcessMessages(func(msg Message) bool {
			seen = append(seen, msg)
			return true
		})
		return nil
	}))
	loop.AddController(StageControl, ControlFunc(func(cc ControlContext) error {
		order = append(order, "control")
		cc.Messages().ProcessMessages(func(msg Message) bool {
			return msg == 1
		})
		return errors.New("logged only")
	}))
	loop.PostMessage(1)
	loop.PostMessage(2)
	loop.PostMessage(3)
	loop.RunIteration(context.Background())
	require.Equal(t, []string{"control", "report"}, order)
	require.Equal(t, []Message{2, 3}, seen)

	seen = nil
	loop.RunIteration(context.Background())
	require.Empty(t, seen)
}

func TestLoopRunTrigger(t *testing.T) {
	loop := NewLoop()
	loop.Interval = time.Hour
	got := make(chan Message, 1)
	loop.AddController(StageControl, ControlFunc(func(cc ControlContext) error {
		cc.Messages().ProcessMessages(func(msg Message) bool {
			got <- msg
			return true
		})
		return nil
	}))
	loop.AddRunnable(RunFunc(func(ctx context.Context) error {
		ctl := LoopCtlFrom(ctx)
		ctl.PostMessage("hello")
		ctl.TriggerNext()
		<-ctx.Done()
		return ctx.Err()
	}))
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- loop.Run(ctx) }()
	select {
	case msg := <-got:
		require.Equal(t, "hello", msg)
	case <-time.After(time.Second):
		t.Fatal("message not processed")
	}
	cancel()
	require.Equal(t, context.Canceled, <-errCh)
}

func TestRunnerWait(t *testing.T) {
	r := NewRunner()
	r.Go(
		NamedRun("ok", RunFunc(func(context.Context) error { return nil })),
		RunFunc(func(context.Context) error { return errors.New("e1") }),
		RunFunc(func(context.Context) error { return errors.New("e2") }),
	)
	err := r.Wait()
	require.Error(t, err)
	agg, ok := err.(*AggregatedError)
	require.True(t, ok)
	require.Len(t, agg.Errors, 2)
}

type closer struct{ closed chan struct{} }

func (c *closer) Close() error {
	close(c.closed)
	return nil
}

func TestRunWithContextCloser(t *testing.T) {
	c := &closer{closed: make(chan struct{})}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := RunWithContextCloser(ctx, c, func() error {
		<-c.closed
		return errors.New("closed")
	})
	require.Equal(t, context.Canceled, err)
}

func TestAggregatedError(t *testing.T) {
	var errs AggregatedError
	require.NoError(t, errs.Aggregate())
	e1 := errors.New("e1")
	errs.Add(nil, e1)
	require.Equal(t, e1, errs.Aggregate())
	errs.Add(errors.New("e2"))
	require.Equal(t, "Multiple errors:\ne1\ne2", errs.Aggregate().Error())
}
