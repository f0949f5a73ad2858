package dsp

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/accstream/pkg/accel"
)

func xBlock(vals ...int16) []accel.RawSample {
	block := make([]accel.RawSample, len(vals))
	for i, v := range vals {
		block[i] = accel.RawSample{X: v, Y: -v, Z: v / 2}
	}
	return block
}

func TestFilterBlockGolden(t *testing.T) {
	testCases := []struct {
		name   string
		block  []int16
		expect int32
	}{
		{"zero", []int16{0, 0, 0, 0, 0}, 0},
		{"constant 1600", []int16{1600, 1600, 1600, 1600, 1600}, 1600},
		{"minus one", []int16{-1, -1, -1, -1, -1}, -2},
		{"max", []int16{32767, 32767, 32767, 32767, 32767}, 32766},
		{"min", []int16{-32768, -32768, -32768, -32768, -32768}, -32768},
		{"impulse tap 0", []int16{1000, 0, 0, 0, 0}, 31},
		{"impulse tap 1", []int16{0, 1000, 0, 0, 0}, 235},
		{"impulse tap 2", []int16{0, 0, 1000, 0, 0}, 469},
		{"impulse tap 3", []int16{0, 0, 0, 1000, 0}, 235},
		{"impulse tap 4", []int16{0, 0, 0, 0, 1000}, 31},
		{"mixed", []int16{100, -100, 200, 50, -7}, 85},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			block := make([]accel.RawSample, len(tc.block))
			for i, v := range tc.block {
				block[i] = accel.RawSample{X: v}
			}
			out := FilterBlock(block)
			require.Equal(t, tc.expect, out.X)
			require.Zero(t, out.Y)
			require.Zero(t, out.Z)
		})
	}
}

func TestFilterBlockAxesIndependent(t *testing.T) {
	block := []accel.RawSample{
		{X: 1000, Y: 0, Z: 0},
		{X: 0, Y: 1000, Z: 0},
		{X: 0, Y: 0, Z: 1000},
		{X: 0, Y: 0, Z: 0},
		{X: 0, Y: 0, Z: 0},
	}
	require.Equal(t, accel.FilteredSample{X: 31, Y: 235, Z: 469}, FilterBlock(block))
}

func TestFilterBlockStateless(t *testing.T) {
	block := xBlock(100, -100, 200, 50, -7)
	first := FilterBlock(block)
	FilterBlock(xBlock(32767, 32767, 32767, 32767, 32767))
	FilterBlock(xBlock(-32768, 0, 5, 9, 1))
	require.Equal(t, first, FilterBlock(block))
}

func TestDecimate(t *testing.T) {
	testCases := []struct {
		name    string
		samples int
		dst     int
		expect  int
	}{
		{"one block", 5, 8, 1},
		{"batch of 20", 20, 8, 4},
		{"remainder of 7", 7, 8, 1},
		{"shorter than a block", 4, 8, 0},
		{"dst limits", 20, 2, 2},
		{"empty", 0, 8, 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			src := make([]accel.RawSample, tc.samples)
			for i := range src {
				src[i] = accel.RawSample{X: 1600}
			}
			dst := make([]accel.FilteredSample, tc.dst)
			require.Equal(t, tc.expect, Decimate(dst, src))
			for i := 0; i < tc.expect; i++ {
				require.Equal(t, int32(1600), dst[i].X)
			}
		})
	}
}

func TestDecimateIgnoresRemainder(t *testing.T) {
	src := xBlock(1600, 1600, 1600, 1600, 1600, 32767, -32768)
	dst := make([]accel.FilteredSample, 2)
	require.Equal(t, 1, Decimate(dst, src))
	require.Equal(t, FilterBlock(src[:5]), dst[0])
	require.Zero(t, dst[1])
}
