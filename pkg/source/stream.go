package source

import (
	"encoding/binary"
	"io"

	"github.com/robotalks/accstream/pkg/accel"
	"github.com/robotalks/accstream/pkg/outbox/serial"
)

// StreamReader reads samples as little-endian int16 x,y,z triplets.
type StreamReader struct {
	r   io.Reader
	buf [accel.Axes * 2]byte
}

// NewStreamReader creates a StreamReader.
func NewStreamReader(r io.Reader) *StreamReader {
	return &StreamReader{r: r}
}

// ReadSample implements Reader.
func (s *StreamReader) ReadSample() (accel.RawSample, error) {
	if _, err := io.ReadFull(s.r, s.buf[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return accel.RawSample{}, io.EOF
		}
		return accel.RawSample{}, err
	}
	return accel.RawSample{
		X: int16(binary.LittleEndian.Uint16(s.buf[0:])),
		Y: int16(binary.LittleEndian.Uint16(s.buf[2:])),
		Z: int16(binary.LittleEndian.Uint16(s.buf[4:])),
	}, nil
}

// OpenSerial creates a device-paced Sampler reading a serial port.
func OpenSerial(name string, baudRate uint) (*Sampler, error) {
	port, err := serial.OpenPort(name, baudRate)
	if err != nil {
		return nil, err
	}
	return &Sampler{
		SourceName: "serial:" + name,
		Reader:     NewStreamReader(port),
		Closer:     port,
	}, nil
}
