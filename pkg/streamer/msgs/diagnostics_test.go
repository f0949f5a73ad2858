package msgs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiagnosticsEncodeDecode(t *testing.T) {
	ev := &Diagnostics{
		DeviceID:        "dev1",
		Timestamp:       1234,
		SampleRate:      20,
		TotalBytes:      600,
		FramesSent:      10,
		FramesDelivered: 8,
		FramesFailed:    1,
		FramesDropped:   3,
		Pending:         true,
	}
	data, err := ev.Encode()
	require.NoError(t, err)
	decoded, err := DecodeDiagnostics(data)
	require.NoError(t, err)
	require.Equal(t, ev, decoded)
}

func TestDecodeDiagnosticsGarbage(t *testing.T) {
	_, err := DecodeDiagnostics([]byte{0x0a, 0xff})
	require.Error(t, err)
}
