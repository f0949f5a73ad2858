package source

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"io"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2ctest"

	"github.com/robotalks/accstream/pkg/accel"
	fx "github.com/robotalks/accstream/pkg/framework"
	"github.com/robotalks/accstream/pkg/outbox"
	"github.com/robotalks/accstream/pkg/streamer"
)

func collect(batches *[]accel.Batch) Sink {
	return func(b accel.Batch) {
		*batches = append(*batches, b)
	}
}

func TestSynthFromURL(t *testing.T) {
	tests := []struct {
		url    string
		expect Synth
		err    bool
	}{
		{url: "synth:", expect: Synth{Wave: WaveConstant, Period: 100}},
		{url: "synth:?x=1600&z=-1000&count=7", expect: Synth{Wave: WaveConstant, X: 1600, Z: -1000, Period: 100, Count: 7}},
		{url: "synth:?wave=sine&y=500&period=20", expect: Synth{Wave: WaveSine, Y: 500, Period: 20}},
		{url: "synth:?wave=square", err: true},
		{url: "synth:?x=40000", err: true},
		{url: "synth:?count=-1", err: true},
	}
	for _, test := range tests {
		t.Run(test.url, func(t *testing.T) {
			u, err := url.Parse(test.url)
			require.NoError(t, err)
			s, err := SynthFromURL(u)
			if test.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, test.expect, *s)
		})
	}
}

func TestSynthSine(t *testing.T) {
	s := &Synth{Wave: WaveSine, X: 1000, Period: 4, Count: 5}
	var xs []int16
	for {
		sample, err := s.ReadSample()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		xs = append(xs, sample.X)
	}
	require.Len(t, xs, 5)
	require.Equal(t, int16(0), xs[0])
	require.Equal(t, int16(1000), xs[1])
	require.InDelta(t, 0, xs[2], 1)
	require.Equal(t, int16(-1000), xs[3])
	require.Equal(t, int16(0), xs[4])
}

func TestSamplerBatches(t *testing.T) {
	var batches []accel.Batch
	s := &Sampler{
		Reader: &Synth{Wave: WaveConstant, X: 1600, Count: 47},
		Sink:   collect(&batches),
	}
	require.NoError(t, s.Run(context.Background()))
	require.Len(t, batches, 3)
	require.Len(t, batches[0].Samples, accel.DefaultBatchSize)
	require.Len(t, batches[1].Samples, accel.DefaultBatchSize)
	require.Len(t, batches[2].Samples, 7)
	require.Equal(t, accel.RawSample{X: 1600}, batches[2].Samples[6])
}

func TestSamplerRate(t *testing.T) {
	var batches []accel.Batch
	s := &Sampler{
		Reader:    &Synth{Count: 10},
		Rate:      1000,
		BatchSize: 5,
		Sink:      collect(&batches),
	}
	require.NoError(t, s.Run(context.Background()))
	require.Len(t, batches, 2)
	require.True(t, batches[1].Timestamp >= batches[0].Timestamp)
}

func TestSamplerCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := &Sampler{Reader: &Synth{}, Rate: 100, Sink: func(accel.Batch) {}}
	require.Equal(t, context.Canceled, s.Run(ctx))
}

type failReader struct{}

func (failReader) ReadSample() (accel.RawSample, error) {
	return accel.RawSample{}, errors.New("sensor gone")
}

func TestSamplerReadError(t *testing.T) {
	s := &Sampler{Reader: failReader{}, Sink: func(accel.Batch) {}}
	require.EqualError(t, s.Run(context.Background()), "sensor gone")
}

type closeRecorder struct{ closed int }

func (c *closeRecorder) Close() error {
	c.closed++
	return nil
}

func TestSamplerCloser(t *testing.T) {
	closer := &closeRecorder{}
	s := &Sampler{Reader: &Synth{Count: 3}, Sink: func(accel.Batch) {}, Closer: closer}
	require.NoError(t, s.Run(context.Background()))
	require.Equal(t, 1, closer.closed)
}

func TestSamplerLoopSink(t *testing.T) {
	loop := fx.NewLoop()
	loop.Interval = time.Hour
	s := &Sampler{SourceName: "synth", Reader: &Synth{X: 1600, Count: 20}}
	ctl, err := streamer.NewController(20, &nopOutbox{})
	require.NoError(t, err)
	loop.Add(s, ctl)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)
	require.Eventually(t, func() bool {
		query := streamer.NewSnapshotQuery()
		loop.PostMessage(query)
		loop.TriggerNext()
		s := <-query.ReplyCh
		return s.Cursor == 12
	}, time.Second, 10*time.Millisecond)
}

type nopOutbox struct{}

func (nopOutbox) Submit([]byte) (*outbox.Transaction, error) {
	return nil, outbox.ErrBusy
}

func TestStreamReader(t *testing.T) {
	var buf bytes.Buffer
	for _, v := range []int16{1600, -1, 32767, -32768, 0, 5} {
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, v))
	}
	buf.WriteByte(0x01)
	r := NewStreamReader(&buf)
	s, err := r.ReadSample()
	require.NoError(t, err)
	require.Equal(t, accel.RawSample{X: 1600, Y: -1, Z: 32767}, s)
	s, err = r.ReadSample()
	require.NoError(t, err)
	require.Equal(t, accel.RawSample{X: -32768, Y: 0, Z: 5}, s)
	_, err = r.ReadSample()
	require.Equal(t, io.EOF, err)
}

func TestMPU6050(t *testing.T) {
	bus := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: MPU6050Addr, W: []byte{regPwrMgmt1, 0}},
			{Addr: MPU6050Addr, W: []byte{regAccelConfig, accelFS4G}},
			{Addr: MPU6050Addr, W: []byte{regAccelXOutH}, R: []byte{0x20, 0x00, 0xe0, 0x00, 0x7f, 0xff}},
		},
		DontPanic: true,
	}
	m, err := NewMPU6050(&i2c.Dev{Bus: bus, Addr: MPU6050Addr})
	require.NoError(t, err)
	s, err := m.ReadSample()
	require.NoError(t, err)
	require.Equal(t, accel.RawSample{X: 1000, Y: -1000, Z: 3999}, s)
	require.NoError(t, bus.Close())
}
