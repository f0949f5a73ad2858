// Package host receives frames and diagnostics on the paired host.
package host

import (
	"context"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	"github.com/robotalks/accstream/pkg/accel/frame"
	"github.com/robotalks/accstream/pkg/outbox"
	"github.com/robotalks/accstream/pkg/outbox/mqtt"
	ws "github.com/robotalks/accstream/pkg/outbox/websocket"
	"github.com/robotalks/accstream/pkg/streamer/msgs"
)

// DeviceStats are per-device counters seen by the Monitor.
type DeviceStats struct {
	Frames uint32
	Bytes  uint32
	// Lost counts gaps in transaction ids.
	Lost      uint32
	BadFrames uint32
	LastTxID  int32
	// Reported is the latest diagnostics event of the device.
	Reported *msgs.Diagnostics
}

// Monitor decodes frames and diagnostics from devices.
type Monitor struct {
	// OnFrame is called for every decoded frame.
	OnFrame func(device string, msg *frame.Message)
	// OnStats is called for every diagnostics event.
	OnStats func(device string, ev *msgs.Diagnostics)

	lock    sync.Mutex
	devices map[string]*DeviceStats
}

// NewMonitor creates a Monitor logging what it receives.
func NewMonitor() *Monitor {
	return &Monitor{OnFrame: LogFrame, OnStats: LogStats, devices: make(map[string]*DeviceStats)}
}

// LogFrame logs a frame with its first sample.
func LogFrame(device string, msg *frame.Message) {
	samples := msg.Samples()
	if len(samples) == 0 {
		glog.Infof("%s: empty frame txid=%d", device, msg.TransactionID)
		return
	}
	glog.Infof("%s: txid=%d samples=%d first=%d,%d,%d", device, msg.TransactionID,
		len(samples), samples[0].X, samples[0].Y, samples[0].Z)
}

// LogStats logs a diagnostics event.
func LogStats(device string, ev *msgs.Diagnostics) {
	glog.Infof("%s: stats %s", device, ev)
}

func (m *Monitor) device(id string) *DeviceStats {
	if m.devices == nil {
		m.devices = make(map[string]*DeviceStats)
	}
	s := m.devices[id]
	if s == nil {
		s = &DeviceStats{LastTxID: frame.NoTransactionID}
		m.devices[id] = s
	}
	return s
}

// HandleFrame decodes a frame message from device.
func (m *Monitor) HandleFrame(device string, data []byte) error {
	msg, err := frame.Decode(data)
	m.lock.Lock()
	s := m.device(device)
	if err != nil {
		s.BadFrames++
		m.lock.Unlock()
		glog.Warningf("%s: bad frame: %v", device, err)
		return err
	}
	s.Frames++
	s.Bytes += uint32(len(msg.Payload))
	if id := msg.TransactionID; id >= 0 {
		// An id at or below the last one is a wrap or a device restart.
		if s.LastTxID >= 0 && int64(id) > int64(s.LastTxID)+1 {
			s.Lost += uint32(int64(id) - int64(s.LastTxID) - 1)
		}
		s.LastTxID = id
	}
	m.lock.Unlock()
	if fn := m.OnFrame; fn != nil {
		fn(device, msg)
	}
	return nil
}

// HandleStats decodes a diagnostics event from device.
func (m *Monitor) HandleStats(device string, data []byte) error {
	ev, err := msgs.DecodeDiagnostics(data)
	if err != nil {
		glog.Warningf("%s: bad stats: %v", device, err)
		return err
	}
	m.lock.Lock()
	m.device(device).Reported = ev
	m.lock.Unlock()
	if fn := m.OnStats; fn != nil {
		fn(device, ev)
	}
	return nil
}

// Devices lists the devices seen, sorted.
func (m *Monitor) Devices() []string {
	m.lock.Lock()
	defer m.lock.Unlock()
	devices := make([]string, 0, len(m.devices))
	for id := range m.devices {
		devices = append(devices, id)
	}
	sort.Strings(devices)
	return devices
}

// LogSummary logs the counters of every device seen.
func (m *Monitor) LogSummary() {
	for _, device := range m.Devices() {
		if s, ok := m.Stats(device); ok {
			glog.Infof("%s: frames=%d bytes=%d lost=%d bad=%d", device, s.Frames, s.Bytes, s.Lost, s.BadFrames)
		}
	}
}

// Stats returns a copy of the counters of device.
func (m *Monitor) Stats(device string) (DeviceStats, bool) {
	m.lock.Lock()
	defer m.lock.Unlock()
	s, ok := m.devices[device]
	if !ok {
		return DeviceStats{}, false
	}
	return *s, true
}

// HandleMessage dispatches an MQTT message by its <device>/<kind> topic.
func (m *Monitor) HandleMessage(topic string, payload []byte) {
	pos := strings.LastIndex(topic, "/")
	if pos < 0 {
		return
	}
	device, kind := topic[:pos], topic[pos+1:]
	switch kind {
	case "frames":
		m.HandleFrame(device, payload)
	case "stats":
		m.HandleStats(device, payload)
	}
}

// Subscribe receives from all devices on q until ctx is done.
func (m *Monitor) Subscribe(ctx context.Context, q *mqtt.Queue) error {
	subs := []*mqtt.Subscription{
		q.Sub("+/frames", m.HandleMessage),
		q.Sub("+/stats", m.HandleMessage),
	}
	<-ctx.Done()
	for _, sub := range subs {
		sub.Close()
	}
	return ctx.Err()
}

// ReadStream receives length-prefixed frames, e.g. from a serial port,
// until r fails.
func (m *Monitor) ReadStream(device string, r io.Reader) error {
	for {
		data, err := outbox.ReadMessage(r)
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		m.HandleFrame(device, data)
	}
}

// WebsocketHandler receives frames from websocket clients.
func (m *Monitor) WebsocketHandler() http.Handler {
	return websocket.Handler(func(conn *websocket.Conn) {
		device := conn.Request().RemoteAddr
		glog.Infof("%s: websocket connected", device)
		for {
			data, err := ws.Receive(conn)
			if err != nil {
				if err != io.EOF {
					glog.Warningf("%s: websocket: %v", device, err)
				}
				return
			}
			m.HandleFrame(device, data)
		}
	})
}
