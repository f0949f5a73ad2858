package source

import (
	"fmt"
	"io"
	"math"
	"net/url"
	"strconv"

	"github.com/robotalks/accstream/pkg/accel"
)

// Waveforms of Synth.
const (
	WaveConstant = "constant"
	WaveSine     = "sine"
)

// Synth generates samples without hardware.
type Synth struct {
	Wave string
	// X, Y, Z are the constant values or the sine amplitudes.
	X, Y, Z int16
	// Period is the number of samples per sine cycle.
	Period int
	// Count limits the number of samples, 0 is unlimited.
	Count int

	n int
}

// SynthFromURL configures a Synth from query parameters, e.g.
// synth:?wave=sine&x=1000&period=100&count=500.
func SynthFromURL(u *url.URL) (*Synth, error) {
	q := u.Query()
	s := &Synth{Wave: q.Get("wave"), Period: accel.RawRate}
	if s.Wave == "" {
		s.Wave = WaveConstant
	}
	if s.Wave != WaveConstant && s.Wave != WaveSine {
		return nil, fmt.Errorf("unknown wave %q", s.Wave)
	}
	axes := []struct {
		name string
		val  *int16
	}{{"x", &s.X}, {"y", &s.Y}, {"z", &s.Z}}
	for _, axis := range axes {
		str := q.Get(axis.name)
		if str == "" {
			continue
		}
		v, err := strconv.ParseInt(str, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %v", axis.name, err)
		}
		*axis.val = int16(v)
	}
	for _, param := range []struct {
		name string
		val  *int
	}{{"period", &s.Period}, {"count", &s.Count}} {
		str := q.Get(param.name)
		if str == "" {
			continue
		}
		v, err := strconv.Atoi(str)
		if err != nil || v < 0 {
			return nil, fmt.Errorf("invalid %s: %q", param.name, str)
		}
		*param.val = v
	}
	if s.Period == 0 {
		s.Period = accel.RawRate
	}
	return s, nil
}

// ReadSample implements Reader.
func (s *Synth) ReadSample() (accel.RawSample, error) {
	if s.Count > 0 && s.n >= s.Count {
		return accel.RawSample{}, io.EOF
	}
	n := s.n
	s.n++
	if s.Wave != WaveSine {
		return accel.RawSample{X: s.X, Y: s.Y, Z: s.Z}, nil
	}
	f := math.Sin(2 * math.Pi * float64(n%s.Period) / float64(s.Period))
	return accel.RawSample{
		X: int16(f * float64(s.X)),
		Y: int16(f * float64(s.Y)),
		Z: int16(f * float64(s.Z)),
	}, nil
}
