package env

import (
	"fmt"
	"io"
	"net/url"
	"strconv"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/accstream/pkg/accel/frame"
	fx "github.com/robotalks/accstream/pkg/framework"
	"github.com/robotalks/accstream/pkg/outbox"
	"github.com/robotalks/accstream/pkg/outbox/mqtt"
	"github.com/robotalks/accstream/pkg/outbox/serial"
	"github.com/robotalks/accstream/pkg/outbox/websocket"
)

// Topics under the device id.
const (
	FramesTopic = "frames"
	StatsTopic  = "stats"
)

// Transport is an opened outbox.
type Transport struct {
	Outbox outbox.Outbox
	// Queue is set for MQTT transports and carries diagnostics too.
	Queue *mqtt.Queue
	// Receiver is set for pipe transports.
	Receiver *outbox.PipeReceiver
	Closer   io.Closer
}

// AddToLoop implements fx.LoopAdder.
func (t *Transport) AddToLoop(l *fx.Loop) {
	if t.Receiver != nil {
		l.AddRunnable(fx.NamedRun("pipe", t.Receiver))
	}
}

// Close implements io.Closer.
func (t *Transport) Close() error {
	if t.Closer != nil {
		return t.Closer.Close()
	}
	return nil
}

// DeviceTopic is the topic of the device under the queue prefix.
func DeviceTopic(deviceID, topic string) string {
	return deviceID + "/" + topic
}

// NewOutbox opens the transport selected by OutboxURL.
func (c *Config) NewOutbox() (*Transport, error) {
	u, err := url.Parse(c.OutboxURL)
	if err != nil {
		return nil, fmt.Errorf("invalid outbox URL %q: %v", c.OutboxURL, err)
	}
	switch u.Scheme {
	case "mqtt", "tcp", "ssl":
		q, err := mqtt.NewQueueFromURL(c.OutboxURL)
		if err != nil {
			return nil, fmt.Errorf("mqtt: %v", err)
		}
		if token := q.Connect(); token.Wait() && token.Error() != nil {
			return nil, fmt.Errorf("mqtt connect %s: %v", u.Host, token.Error())
		}
		ob := mqtt.NewOutbox(q, DeviceTopic(c.DeviceID, FramesTopic))
		return &Transport{Outbox: ob, Queue: q, Closer: closerFunc(func() error {
			ob.Close()
			return q.Close()
		})}, nil
	case "ws", "wss":
		origin := "http://" + u.Host + "/"
		ob, err := websocket.Dial(c.OutboxURL, origin)
		if err != nil {
			return nil, fmt.Errorf("websocket: %v", err)
		}
		return &Transport{Outbox: ob, Closer: ob}, nil
	case "serial":
		baud, err := baudRate(u)
		if err != nil {
			return nil, err
		}
		ob, err := serial.Open(urlPath(u), baud)
		if err != nil {
			return nil, fmt.Errorf("serial: %v", err)
		}
		return &Transport{Outbox: ob, Closer: ob}, nil
	case "pipe":
		var latency time.Duration
		if val := u.Query().Get("latency"); val != "" {
			if latency, err = time.ParseDuration(val); err != nil {
				return nil, fmt.Errorf("invalid latency %q: %v", val, err)
			}
		}
		pipe := outbox.NewPipe()
		return &Transport{
			Outbox:   pipe,
			Receiver: &outbox.PipeReceiver{Pipe: pipe, Latency: latency, Handler: logFrame},
			Closer:   pipe,
		}, nil
	}
	return nil, fmt.Errorf("unsupported outbox scheme %q", u.Scheme)
}

type closerFunc func() error

func (f closerFunc) Close() error {
	return f()
}

func logFrame(data []byte) error {
	msg, err := frame.Decode(data)
	if err != nil {
		return err
	}
	glog.V(2).Infof("RCV frame txid=%d %d bytes", msg.TransactionID, len(msg.Payload))
	return nil
}

func urlPath(u *url.URL) string {
	if u.Opaque != "" {
		return u.Opaque
	}
	return u.Path
}

func baudRate(u *url.URL) (uint, error) {
	val := u.Query().Get("baud")
	if val == "" {
		return serial.DefaultBaudRate, nil
	}
	baud, err := strconv.ParseUint(val, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid baud rate %q: %v", val, err)
	}
	return uint(baud), nil
}
