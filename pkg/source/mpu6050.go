package source

import (
	"encoding/binary"
	"fmt"

	"github.com/golang/glog"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/robotalks/accstream/pkg/accel"
)

// MPU6050Addr is the default I2C address of an MPU-6050.
const MPU6050Addr = 0x68

// MPU-6050 registers.
const (
	regAccelConfig = 0x1C
	regAccelXOutH  = 0x3B
	regPwrMgmt1    = 0x6B

	// ±4g full scale, 8192 LSB/g.
	accelFS4G     = 0x08
	lsbPerG       = 8192
	milliGPerG    = 1000
	accelDataSize = 6
)

// MPU6050 reads acceleration from an MPU-6050 in milli-g.
type MPU6050 struct {
	dev conn.Conn
	reg [1]byte
	buf [accelDataSize]byte
}

// NewMPU6050 wakes up the sensor behind dev and sets ±4g full scale.
func NewMPU6050(dev conn.Conn) (*MPU6050, error) {
	if err := dev.Tx([]byte{regPwrMgmt1, 0}, nil); err != nil {
		return nil, fmt.Errorf("mpu6050 wake up: %v", err)
	}
	if err := dev.Tx([]byte{regAccelConfig, accelFS4G}, nil); err != nil {
		return nil, fmt.Errorf("mpu6050 config: %v", err)
	}
	return &MPU6050{dev: dev, reg: [1]byte{regAccelXOutH}}, nil
}

// ReadSample implements Reader.
func (m *MPU6050) ReadSample() (accel.RawSample, error) {
	if err := m.dev.Tx(m.reg[:], m.buf[:]); err != nil {
		return accel.RawSample{}, err
	}
	return accel.RawSample{
		X: toMilliG(binary.BigEndian.Uint16(m.buf[0:])),
		Y: toMilliG(binary.BigEndian.Uint16(m.buf[2:])),
		Z: toMilliG(binary.BigEndian.Uint16(m.buf[4:])),
	}, nil
}

func toMilliG(raw uint16) int16 {
	return int16(int32(int16(raw)) * milliGPerG / lsbPerG)
}

// OpenMPU6050 opens the I2C bus (empty name for the first one) and the
// sensor at addr. The returned bus must be closed by the caller.
func OpenMPU6050(busName string, addr uint16) (*MPU6050, i2c.BusCloser, error) {
	if _, err := host.Init(); err != nil {
		return nil, nil, fmt.Errorf("periph host init: %v", err)
	}
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, nil, fmt.Errorf("open i2c bus %q: %v", busName, err)
	}
	m, err := NewMPU6050(&i2c.Dev{Bus: bus, Addr: addr})
	if err != nil {
		bus.Close()
		return nil, nil, err
	}
	glog.Infof("MPU-6050 on %s at 0x%02x", bus, addr)
	return m, bus, nil
}
