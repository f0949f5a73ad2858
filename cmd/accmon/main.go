package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"

	"github.com/golang/glog"

	fx "github.com/robotalks/accstream/pkg/framework"
	"github.com/robotalks/accstream/pkg/host"
	"github.com/robotalks/accstream/pkg/outbox/mqtt"
	"github.com/robotalks/accstream/pkg/outbox/serial"
)

var (
	mqttURL    = "mqtt://localhost:1883/accstream/"
	listenAddr string
	serialPort string
	baudRate   uint = serial.DefaultBaudRate
)

func init() {
	if val := os.Getenv("ACCSTREAM_OUTBOX"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL, empty to disable.")
	flag.StringVar(&listenAddr, "listen", listenAddr, "Websocket listen address, e.g. :8080.")
	flag.StringVar(&serialPort, "serial", serialPort, "Serial port receiving frames.")
	flag.UintVar(&baudRate, "baud", baudRate, "Serial baud rate.")
}

func main() {
	flag.Parse()

	mon := host.NewMonitor()
	runner := fx.NewRunner().HandleSignals()
	if mqttURL != "" {
		q, err := mqtt.NewQueueFromURL(mqttURL)
		if err != nil {
			log.Fatalln(err)
		}
		if token := q.Connect(); token.Wait() && token.Error() != nil {
			log.Fatalln(token.Error())
		}
		defer q.Close()
		runner.Go(fx.NamedRun("mqtt", fx.RunFunc(func(ctx context.Context) error {
			return mon.Subscribe(ctx, q)
		})))
	}
	if listenAddr != "" {
		srv := &http.Server{Addr: listenAddr, Handler: mon.WebsocketHandler()}
		runner.Go(fx.NamedRun("websocket", fx.RunFunc(func(ctx context.Context) error {
			glog.Infof("websocket listening on %s", listenAddr)
			return fx.RunWithContextCancel(ctx, func() { srv.Close() }, srv.ListenAndServe)
		})))
	}
	if serialPort != "" {
		port, err := serial.OpenPort(serialPort, baudRate)
		if err != nil {
			log.Fatalln(err)
		}
		runner.Go(fx.NamedRun("serial", fx.RunFunc(func(ctx context.Context) error {
			return fx.RunWithContextCloser(ctx, port, func() error {
				return mon.ReadStream(serialPort, port)
			})
		})))
	}
	if len(runner.Runners) == 0 {
		log.Fatalln("nothing to monitor")
	}
	err := runner.Wait()
	mon.LogSummary()
	glog.Flush()
	if err != nil {
		log.Fatalln(err)
	}
}
