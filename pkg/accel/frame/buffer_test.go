package frame

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/accstream/pkg/accel"
)

func TestNew(t *testing.T) {
	testCases := []struct {
		name  string
		rate  int
		valid bool
	}{
		{"default", DefaultSampleRate, true},
		{"min", 1, true},
		{"max", MaxSampleRate, true},
		{"zero", 0, false},
		{"negative", -1, false},
		{"too large", MaxSampleRate + 1, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := New(tc.rate)
			if !tc.valid {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.rate*3, b.Cap())
			require.Equal(t, tc.rate, b.SampleRate())
			require.Len(t, b.Bytes(), b.Cap())
			require.LessOrEqual(t, b.Cap(), MaxCapacity)
		})
	}
}

func TestAppendFillsAndResets(t *testing.T) {
	b, err := New(4)
	require.NoError(t, err)
	for round := 0; round < 3; round++ {
		for i := 0; i < 4; i++ {
			require.Equal(t, i*3, b.Cursor())
			full := b.Append(accel.QuantizedSample{X: int8(i), Y: int8(-i), Z: int8(round)})
			require.Equal(t, i == 3, full)
		}
		require.Zero(t, b.Cursor())
		require.Equal(t, uint32((round+1)*12), b.TotalBytes())
		require.Equal(t, []int8{
			0, 0, int8(round),
			1, -1, int8(round),
			2, -2, int8(round),
			3, -3, int8(round),
		}, b.Bytes())
	}
}

func TestCursorStaysBounded(t *testing.T) {
	b, err := New(DefaultSampleRate)
	require.NoError(t, err)
	for i := 0; i < 1000; i++ {
		b.Append(accel.QuantizedSample{X: 1, Y: 2, Z: 3})
		require.GreaterOrEqual(t, b.Cursor(), 0)
		require.Less(t, b.Cursor(), b.Cap())
	}
}

func TestCopyTo(t *testing.T) {
	b, err := New(1)
	require.NoError(t, err)
	b.Append(accel.QuantizedSample{X: 7, Y: -8, Z: 9})
	dst := make([]int8, 5)
	require.Equal(t, 3, b.CopyTo(dst))
	require.Equal(t, []int8{7, -8, 9, 0, 0}, dst)
}
