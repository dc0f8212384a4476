// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"github.com/GermanBionicSystems/humidity/hs300x"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// exporter publishes the last good reading as gauges and counts failed
// cycles by cause.
type exporter struct {
	temperature prometheus.Gauge
	humidity    prometheus.Gauge
	failures    *prometheus.CounterVec
}

func newExporter(reg prometheus.Registerer) *exporter {
	e := &exporter{
		temperature: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hs300x_temperature_celsius",
			Help: "Last temperature measured by the sensor.",
		}),
		humidity: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hs300x_relative_humidity_percent",
			Help: "Last relative humidity measured by the sensor.",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hs300x_read_errors_total",
			Help: "Measurement cycles that did not produce a reading.",
		}, []string{"reason"}),
	}
	reg.MustRegister(e.temperature, e.humidity, e.failures)
	return e
}

func (e *exporter) Update(r hs300x.RawReading, err error) error {
	if err != nil {
		e.failures.WithLabelValues(failureReason(err)).Inc()
		return nil
	}
	v := r.Reading()
	e.temperature.Set(v.Temperature)
	e.humidity.Set(v.Humidity)
	return nil
}

func failureReason(err error) string {
	var (
		timeout *hs300x.ReadTimeoutError
		trigger *hs300x.TriggerError
		status  *hs300x.StatusError
		short   *hs300x.ShortReadError
		param   *hs300x.InvalidParameterError
	)
	switch {
	case errors.As(err, &timeout):
		return "timeout"
	case errors.As(err, &trigger):
		return "trigger"
	case errors.As(err, &status):
		return "status"
	case errors.As(err, &short):
		return "short_read"
	case errors.As(err, &param):
		return "invalid_parameter"
	default:
		return "other"
	}
}
