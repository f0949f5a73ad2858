// Package source produces batches of raw accelerometer samples.
package source

import (
	"context"
	"io"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/accstream/pkg/accel"
	fx "github.com/robotalks/accstream/pkg/framework"
	"github.com/robotalks/accstream/pkg/streamer"
)

// Reader reads one raw sample. It returns io.EOF when no more samples
// are available.
type Reader interface {
	ReadSample() (accel.RawSample, error)
}

// Sink receives completed batches.
type Sink func(accel.Batch)

// LoopSink posts batches to a loop as streamer.BatchMsg.
func LoopSink(ctl fx.LoopControl) Sink {
	return func(b accel.Batch) {
		ctl.PostMessage(&streamer.BatchMsg{Batch: b})
		ctl.TriggerNext()
	}
}

// Sampler reads samples from a Reader and delivers them in batches.
type Sampler struct {
	SourceName string
	Reader     Reader
	// Rate is the polling rate in Hz. With 0 the Reader paces itself.
	Rate      int
	BatchSize int
	// Sink defaults to LoopSink of the loop running the Sampler.
	Sink Sink
	// Closer is closed when the Sampler stops.
	Closer io.Closer
}

// Name implements fx.Named.
func (s *Sampler) Name() string {
	return s.SourceName
}

// AddToLoop implements fx.LoopAdder.
func (s *Sampler) AddToLoop(l *fx.Loop) {
	l.AddRunnable(s)
}

// Run implements fx.Runnable.
func (s *Sampler) Run(ctx context.Context) error {
	if s.Closer == nil {
		return s.run(ctx)
	}
	return fx.RunWithContextCloser(ctx, s.Closer, func() error {
		return s.run(ctx)
	})
}

func (s *Sampler) run(ctx context.Context) error {
	sink := s.Sink
	if sink == nil {
		sink = LoopSink(fx.LoopCtlFrom(ctx))
	}
	size := s.BatchSize
	if size <= 0 {
		size = accel.DefaultBatchSize
	}
	var tick <-chan time.Time
	if s.Rate > 0 {
		ticker := time.NewTicker(time.Second / time.Duration(s.Rate))
		defer ticker.Stop()
		tick = ticker.C
	}

	start := time.Now()
	batch := accel.Batch{Samples: make([]accel.RawSample, 0, size)}
	for {
		if tick != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tick:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}
		sample, err := s.Reader.ReadSample()
		if err == io.EOF {
			if len(batch.Samples) > 0 {
				sink(batch)
			}
			glog.V(4).Infof("source %s exhausted", s.SourceName)
			return nil
		}
		if err != nil {
			return err
		}
		if len(batch.Samples) == 0 {
			batch.Timestamp = uint64(time.Since(start) / time.Millisecond)
		}
		batch.Samples = append(batch.Samples, sample)
		if len(batch.Samples) >= size {
			sink(batch)
			batch = accel.Batch{Samples: make([]accel.RawSample, 0, size)}
		}
	}
}
