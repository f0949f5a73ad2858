// Package env builds the pipeline of a device from configuration.
package env

import (
	"flag"
	"os"
	"time"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"

	"github.com/robotalks/accstream/pkg/accel/frame"
)

// AppID salts the machine id into the default device id.
const AppID = "accstream"

// Config defines the configurations of a device.
type Config struct {
	// DeviceID prefixes the topics a device publishes to.
	DeviceID string
	// OutboxURL selects the transport, e.g. mqtt://host:1883/accstream/,
	// ws://host:8080/frames, serial:/dev/ttyUSB0?baud=115200,
	// pipe:?latency=20ms.
	OutboxURL string
	// SourceURL selects the sample source, e.g. synth:?x=1600,
	// i2c://1?addr=0x68, serial:/dev/ttyACM0.
	SourceURL     string
	SampleRate    int
	TxIDs         bool
	StatsInterval time.Duration
}

var defaultConfig = Config{
	DeviceID:      AppID,
	OutboxURL:     "mqtt://localhost:1883/accstream/",
	SourceURL:     "synth:",
	SampleRate:    frame.DefaultSampleRate,
	StatsInterval: 5 * time.Second,
}

func init() {
	if id, err := MachineID(); err == nil {
		defaultConfig.DeviceID = id
	}
	if val := os.Getenv("ACCSTREAM_ID"); val != "" {
		defaultConfig.DeviceID = val
	}
	if val := os.Getenv("ACCSTREAM_OUTBOX"); val != "" {
		defaultConfig.OutboxURL = val
	}
	if val := os.Getenv("ACCSTREAM_SOURCE"); val != "" {
		defaultConfig.SourceURL = val
	}
}

// MachineID derives a stable device id from the machine id.
func MachineID() (string, error) {
	id, err := machineid.ProtectedID(AppID)
	if err != nil {
		glog.V(1).Infof("machine id unavailable: %v", err)
		return "", err
	}
	if len(id) > 12 {
		id = id[:12]
	}
	return id, nil
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.DeviceID, "id", defaultConfig.DeviceID, "Device ID")
	flag.StringVar(&defaultConfig.OutboxURL, "outbox", defaultConfig.OutboxURL, "Outbox URL")
	flag.StringVar(&defaultConfig.SourceURL, "source", defaultConfig.SourceURL, "Sample source URL")
	flag.IntVar(&defaultConfig.SampleRate, "rate", defaultConfig.SampleRate, "Samples per frame")
	flag.BoolVar(&defaultConfig.TxIDs, "txid", defaultConfig.TxIDs, "Attach transaction ids")
	flag.DurationVar(&defaultConfig.StatsInterval, "stats-interval", defaultConfig.StatsInterval, "Diagnostics interval, 0 to disable")
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}
