package env

import (
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"

	fx "github.com/robotalks/accstream/pkg/framework"
	"github.com/robotalks/accstream/pkg/source"
	"github.com/robotalks/accstream/pkg/streamer"
	"github.com/robotalks/accstream/pkg/streamer/msgs"
)

// Env is the assembled pipeline of a device.
type Env struct {
	Config     *Config
	Transport  *Transport
	Source     *source.Sampler
	Controller *streamer.Controller
	Reporter   *streamer.Reporter

	statsFailed uint32
}

// StatsPublishTimeout bounds the wait for a diagnostics publish.
const StatsPublishTimeout = 5 * time.Second

// NewEnv opens the transport and the source and creates the Controller.
func (c *Config) NewEnv() (*Env, error) {
	if c.DeviceID == "" {
		return nil, fmt.Errorf("device id must be specified")
	}
	t, err := c.NewOutbox()
	if err != nil {
		return nil, err
	}
	env, err := c.NewEnvWith(t)
	if err != nil {
		t.Close()
		return nil, err
	}
	return env, nil
}

// NewEnvWith creates an Env on an opened transport.
func (c *Config) NewEnvWith(t *Transport) (*Env, error) {
	ctl, err := streamer.NewController(c.SampleRate, t.Outbox)
	if err != nil {
		return nil, err
	}
	ctl.TxIDs = c.TxIDs
	src, err := c.NewSource()
	if err != nil {
		return nil, err
	}
	env := &Env{Config: c, Transport: t, Source: src, Controller: ctl}
	if c.StatsInterval > 0 {
		env.Reporter = &streamer.Reporter{
			Controller: ctl,
			DeviceID:   c.DeviceID,
			Interval:   c.StatsInterval,
			Publish:    env.publishStats,
		}
	}
	glog.Infof("device %s: %s -> %s, %d samples per frame", c.DeviceID, c.SourceURL, c.OutboxURL, c.SampleRate)
	return env, nil
}

// MustNewEnv creates Env and fails on error.
func (c *Config) MustNewEnv() *Env {
	env, err := c.NewEnv()
	if err != nil {
		log.Fatalln(err)
	}
	return env
}

// AddToLoop adds controllers/runners to loop.
func (e *Env) AddToLoop(loop *fx.Loop) {
	loop.Add(e.Transport, e.Source, e.Controller)
	if e.Reporter != nil {
		loop.Add(e.Reporter)
	}
}

// Close implements io.Closer.
func (e *Env) Close() error {
	return e.Transport.Close()
}

func (e *Env) publishStats(ev *msgs.Diagnostics) error {
	if e.Transport.Queue == nil {
		glog.Infof("stats %s", ev)
		return nil
	}
	data, err := ev.Encode()
	if err != nil {
		return err
	}
	token := e.Transport.Queue.Pub(DeviceTopic(e.Config.DeviceID, StatsTopic), data)
	go e.watchPublish(token)
	return nil
}

// watchPublish waits for a diagnostics publish off the loop and logs
// failures with a running count.
func (e *Env) watchPublish(token paho.Token) {
	err := errors.New("timeout")
	if token.WaitTimeout(StatsPublishTimeout) {
		err = token.Error()
	}
	if err != nil {
		n := atomic.AddUint32(&e.statsFailed, 1)
		glog.V(1).Infof("stats publish failed (%d so far): %v", n, err)
	}
}
