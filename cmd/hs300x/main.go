// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// hs300x reads temperature and humidity from an HS300x sensor.
//
// Readings are printed to stdout and can also be shown on an SSD1306 OLED on
// the same bus and exposed as Prometheus metrics.
package main

import (
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GermanBionicSystems/humidity/hs300x"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

var (
	busName    = flag.String("bus", "", "I²C bus to use, empty for the first one")
	addr       = flag.Uint("addr", uint(hs300x.DefaultAddress), "I²C address of the sensor")
	count      = flag.Int("n", 1, "number of readings, 0 to read until interrupted")
	interval   = flag.Duration("interval", 2*time.Second, "time between readings")
	debug      = flag.Bool("debug", false, "log protocol diagnostics")
	raw        = flag.Bool("raw", false, "also print the raw fractions")
	oled       = flag.Bool("oled", false, "show readings on an SSD1306 on the same bus")
	listenAddr = flag.String("listen", "", "address to serve /metrics on, empty to disable")
)

// sink receives the outcome of every measurement cycle.
type sink interface {
	Update(r hs300x.RawReading, err error) error
}

func init() {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})
}

func main() {
	flag.Parse()
	if err := mainImpl(); err != nil {
		log.Fatal(err)
	}
}

func mainImpl() error {
	if *debug {
		log.SetLevel(log.DebugLevel)
	}
	if *count < 0 {
		return errors.Errorf("invalid -n %d", *count)
	}
	if _, err := host.Init(); err != nil {
		return errors.Wrap(err, "failed to initialize periph")
	}
	b, err := i2creg.Open(*busName)
	if err != nil {
		return errors.Wrap(err, "failed to open I²C")
	}
	defer b.Close()

	d, err := hs300x.NewI2C(b, &hs300x.Opts{
		Address: uint16(*addr),
		Debug:   *debug,
		Logger:  log.WithField("dev", "hs300x"),
	})
	if err != nil {
		return errors.Wrap(err, "failed to initialize HS300x")
	}
	defer d.End()

	sinks := []sink{newConsole(os.Stdout, *raw)}
	if *listenAddr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewBuildInfoCollector())
		sinks = append(sinks, newExporter(reg))
		go func() {
			http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{
				// Opt into OpenMetrics to support exemplars.
				EnableOpenMetrics: true,
			}))
			log.Fatal(errors.Wrap(http.ListenAndServe(*listenAddr, nil), "metrics server"))
		}()
		log.Infof("serving metrics on %s", *listenAddr)
	}
	var scr *screen
	if *oled {
		if scr, err = newScreen(b); err != nil {
			return err
		}
		sinks = append(sinks, scr)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	tick := time.NewTicker(*interval)
	defer tick.Stop()

	for i := 0; *count == 0 || i < *count; i++ {
		if i != 0 {
			select {
			case <-stop:
				// The last frame stays on screen unless interrupted.
				if scr != nil {
					return scr.Halt()
				}
				return nil
			case <-tick.C:
			}
		}
		r, err := d.TemperatureHumidityRaw()
		if err != nil {
			log.Errorf("failed to read from sensor: %s", err)
		}
		for _, s := range sinks {
			if err := s.Update(r, err); err != nil {
				log.Warnf("failed to publish reading: %s", err)
			}
		}
	}
	return nil
}
