package env

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/robotalks/accstream/pkg/accel"
	"github.com/robotalks/accstream/pkg/source"
)

// NewSource creates the sample source selected by SourceURL.
func (c *Config) NewSource() (*source.Sampler, error) {
	u, err := url.Parse(c.SourceURL)
	if err != nil {
		return nil, fmt.Errorf("invalid source URL %q: %v", c.SourceURL, err)
	}
	switch u.Scheme {
	case "synth":
		synth, err := source.SynthFromURL(u)
		if err != nil {
			return nil, fmt.Errorf("synth: %v", err)
		}
		return &source.Sampler{SourceName: "synth", Reader: synth, Rate: accel.RawRate}, nil
	case "i2c":
		addr := uint64(source.MPU6050Addr)
		if val := u.Query().Get("addr"); val != "" {
			if addr, err = strconv.ParseUint(val, 0, 16); err != nil {
				return nil, fmt.Errorf("invalid i2c address %q: %v", val, err)
			}
		}
		busName := u.Host
		if busName == "" {
			busName = u.Opaque
		}
		dev, bus, err := source.OpenMPU6050(busName, uint16(addr))
		if err != nil {
			return nil, err
		}
		return &source.Sampler{SourceName: "i2c", Reader: dev, Rate: accel.RawRate, Closer: bus}, nil
	case "serial":
		baud, err := baudRate(u)
		if err != nil {
			return nil, err
		}
		return source.OpenSerial(urlPath(u), baud)
	}
	return nil, fmt.Errorf("unsupported source scheme %q", u.Scheme)
}
