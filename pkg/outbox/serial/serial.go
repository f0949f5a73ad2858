// Package serial opens a UART as a length-prefixed frame outbox.
package serial

import (
	"io"

	"github.com/jacobsa/go-serial/serial"

	"github.com/robotalks/accstream/pkg/outbox"
)

// DefaultBaudRate is used when the baud rate is not specified.
const DefaultBaudRate = 115200

// OpenPort opens a serial port in raw 8N1 mode.
func OpenPort(name string, baudRate uint) (io.ReadWriteCloser, error) {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}
	return serial.Open(serial.OpenOptions{
		PortName:        name,
		BaudRate:        baudRate,
		DataBits:        8,
		StopBits:        1,
		MinimumReadSize: 1,
		ParityMode:      serial.PARITY_NONE,
	})
}

// Open opens the port and wraps it as an outbox.Stream.
// Closing the Stream closes the port.
func Open(name string, baudRate uint) (*outbox.Stream, error) {
	port, err := OpenPort(name, baudRate)
	if err != nil {
		return nil, err
	}
	return outbox.NewStream(port), nil
}
