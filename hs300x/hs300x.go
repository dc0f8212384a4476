// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hs300x

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/GermanBionicSystems/humidity/twowire"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

// DefaultAddress is the factory I²C address of every HS300x part.
const DefaultAddress uint16 = 0x44

const (
	// MeasurementDelay is the time to wait after a trigger before the result
	// can be read. The datasheet gives 33.9ms max for 14 bit RH and T.
	MeasurementDelay = 40 * time.Millisecond
	// MeasurementTimeout bounds how long a result is polled for once
	// MeasurementDelay has elapsed.
	MeasurementTimeout = 100 * time.Millisecond
)

const (
	statusShift       = 6
	statusStale uint8 = 1

	probeSize    = 2
	responseSize = 4

	// Magic numbers for count to value conversions.
	countDivisor      float64 = 16384.0
	temperatureScalar float64 = 165.0
	temperatureOffset float64 = -40.0
	humidityScalar    float64 = 100.0
)

// Logger receives diagnostic lines when Opts.Debug is set. logrus loggers
// and entries implement it.
type Logger interface {
	Debugf(format string, args ...interface{})
}

// Opts holds the configuration options for the device.
type Opts struct {
	// Address is the 7 bit I²C address. Zero means DefaultAddress.
	Address uint16
	// Debug enables diagnostic logging to Logger.
	Debug bool
	// Logger receives diagnostics. If nil and Debug is set, a logrus logger at
	// debug level is used.
	Logger Logger
	// Clock is used for the conversion delay and the polling deadline. Nil
	// means the wall clock.
	Clock clockwork.Clock
}

// DefaultOpts holds the default configuration options for the device.
var DefaultOpts = Opts{
	Address: DefaultAddress,
}

// RawReading holds the two fractions of a measurement. Both are left
// justified 14 bit values; the low two bits are always zero.
type RawReading struct {
	Temperature uint16
	Humidity    uint16
}

// Reading converts the fractions to physical units.
func (r RawReading) Reading() Reading {
	return Reading{
		Temperature: CountToCelsius(r.Temperature >> 2),
		Humidity:    CountToPercentRH(r.Humidity >> 2),
	}
}

// Reading is a measurement in °C and %RH. Failed reads return NaN for both.
type Reading struct {
	Temperature float64
	Humidity    float64
}

var nanReading = Reading{Temperature: math.NaN(), Humidity: math.NaN()}

// CountToCelsius converts a 14 bit temperature count to °C.
func CountToCelsius(count uint16) float64 {
	return float64(count)/countDivisor*temperatureScalar + temperatureOffset
}

// CountToPercentRH converts a 14 bit humidity count to %RH.
func CountToPercentRH(count uint16) float64 {
	return float64(count) / countDivisor * humidityScalar
}

// Dev is a handle to an HS300x sensor.
type Dev struct {
	t     twowire.Transport
	addr  int
	debug bool
	log   Logger
	clock clockwork.Clock

	mu       sync.Mutex
	shutdown chan struct{}
	wg       sync.WaitGroup
}

// New returns a Dev that talks over t. It does not touch the bus; call Begin
// to check that the sensor answers. The Opts can be nil.
func New(t twowire.Transport, opts *Opts) (*Dev, error) {
	if t == nil {
		return nil, errors.New("hs300x: nil transport")
	}
	if opts == nil {
		opts = &DefaultOpts
	}
	addr := opts.Address
	if addr == 0 {
		addr = DefaultAddress
	}
	if addr > 0x7f {
		return nil, fmt.Errorf("hs300x: invalid 7 bit address 0x%x", addr)
	}
	d := &Dev{t: t, addr: int(addr), debug: opts.Debug, log: opts.Logger, clock: opts.Clock}
	if d.clock == nil {
		d.clock = clockwork.NewRealClock()
	}
	if d.debug && d.log == nil {
		l := logrus.New()
		l.SetLevel(logrus.DebugLevel)
		d.log = l.WithField("dev", "hs300x")
	}
	return d, nil
}

// NewI2C returns an object that communicates over I²C to an HS300x sensor
// and checks that it responds. The Opts can be nil.
func NewI2C(b i2c.Bus, opts *Opts) (*Dev, error) {
	d, err := New(twowire.NewI2C(b), opts)
	if err != nil {
		return nil, err
	}
	if err := d.Begin(); err != nil {
		return nil, err
	}
	return d, nil
}

// Begin opens the bus and reads whatever result the sensor has ready to see
// whether it is present. No measurement is started. An error means the
// sensor did not answer; Begin can be called again later.
func (d *Dev) Begin() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.t.Begin(); err != nil {
		return fmt.Errorf("hs300x: %w", err)
	}
	var buf [probeSize]byte
	return d.readResponse(buf[:])
}

// End is the counterpart of Begin. The sensor has nothing to release.
func (d *Dev) End() error {
	return nil
}

// StartMeasurement triggers a conversion and returns how long to wait before
// MeasurementResults or MeasurementResultsRaw can succeed. On error the
// duration is 0 and nothing was triggered.
func (d *Dev) StartMeasurement() (time.Duration, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.startMeasurement()
}

// MeasurementResultsRaw reads one pending result without triggering or
// polling.
func (d *Dev) MeasurementResultsRaw() (RawReading, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.measurementResultsRaw()
}

// MeasurementResults reads and converts one pending result without
// triggering or polling. Use it after StartMeasurement and a wait of the
// returned duration.
func (d *Dev) MeasurementResults() (Reading, error) {
	r, err := d.MeasurementResultsRaw()
	if err != nil {
		return nanReading, err
	}
	return r.Reading(), nil
}

// TemperatureHumidityRaw runs a full measurement cycle: trigger, sleep
// MeasurementDelay, then read back-to-back until a valid result arrives or
// MeasurementTimeout has passed. The reading is zero on error.
func (d *Dev) TemperatureHumidityRaw() (RawReading, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.temperatureHumidityRaw()
}

// TemperatureHumidity is TemperatureHumidityRaw converted to °C and %RH.
// Both values are NaN on error.
func (d *Dev) TemperatureHumidity() (Reading, error) {
	r, err := d.TemperatureHumidityRaw()
	if err != nil {
		return nanReading, err
	}
	return r.Reading(), nil
}

// Sense implements physic.SenseEnv. It runs a full measurement cycle, which
// takes at least MeasurementDelay. The pressure is not modified.
func (d *Dev) Sense(e *physic.Env) error {
	r, err := d.TemperatureHumidity()
	if err != nil {
		return err
	}
	e.Temperature = physic.ZeroCelsius + physic.Temperature(math.Round(r.Temperature*float64(physic.Celsius)))
	e.Humidity = physic.RelativeHumidity(math.Round(r.Humidity * float64(physic.PercentRH)))
	return nil
}

// SenseContinuous implements physic.SenseEnv. It returns a channel that
// receives a measurement every interval; failed measurements are skipped.
// Call Halt to stop it.
func (d *Dev) SenseContinuous(interval time.Duration) (<-chan physic.Env, error) {
	if interval < MeasurementDelay {
		return nil, errors.New("hs300x: sample interval is < measurement delay")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.shutdown != nil {
		return nil, errors.New("hs300x: SenseContinuous already running")
	}
	stop := make(chan struct{})
	d.shutdown = stop
	ch := make(chan physic.Env, 16)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer close(ch)
		ticker := d.clock.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.Chan():
				var e physic.Env
				if err := d.Sense(&e); err != nil {
					d.debugf("senseContinuous: %v", err)
					continue
				}
				select {
				case ch <- e:
				case <-stop:
					return
				}
			}
		}
	}()
	return ch, nil
}

// Precision implements physic.SenseEnv.
func (d *Dev) Precision(e *physic.Env) {
	e.Temperature = physic.Temperature(math.Round(temperatureScalar / countDivisor * float64(physic.Kelvin)))
	e.Humidity = physic.RelativeHumidity(math.Round(humidityScalar / countDivisor * float64(physic.PercentRH)))
}

// Halt stops a running SenseContinuous and waits for its channel to close.
// Implements conn.Resource.
func (d *Dev) Halt() error {
	d.mu.Lock()
	stop := d.shutdown
	d.shutdown = nil
	d.mu.Unlock()
	if stop != nil {
		close(stop)
		d.wg.Wait()
	}
	return nil
}

// Addr returns the configured address, or -1 if there is none.
func (d *Dev) Addr() int {
	return d.addr
}

func (d *Dev) String() string {
	return "hs300x"
}

func (d *Dev) startMeasurement() (time.Duration, error) {
	if d.addr < 0 {
		d.debugf("startMeasurement: invalid parameter: address not configured")
		return 0, &InvalidParameterError{Reason: "address not configured"}
	}
	d.t.BeginTransmission(uint16(d.addr))
	if s := d.t.EndTransmission(); s != twowire.StatusOK {
		d.debugf("startMeasurement: can't select device: error %d", uint8(s))
		return 0, &TriggerError{Status: s}
	}
	return MeasurementDelay, nil
}

func (d *Dev) measurementResultsRaw() (RawReading, error) {
	var buf [responseSize]byte
	if err := d.readResponse(buf[:]); err != nil {
		return RawReading{}, err
	}
	r, err := decode(buf)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) {
			d.debugf("measurementResultsRaw: invalid data status: %d", se.Status)
		}
		return RawReading{}, err
	}
	return r, nil
}

func (d *Dev) temperatureHumidityRaw() (RawReading, error) {
	delay, err := d.startMeasurement()
	if err != nil {
		return RawReading{}, err
	}
	d.clock.Sleep(delay)
	start := d.clock.Now()
	for {
		r, err := d.measurementResultsRaw()
		if err == nil {
			return r, nil
		}
		var ip *InvalidParameterError
		if errors.As(err, &ip) {
			return RawReading{}, err
		}
		if d.clock.Since(start) >= MeasurementTimeout {
			return RawReading{}, &ReadTimeoutError{Err: err}
		}
	}
}

// readResponse fills buf with a single read. It fails when fewer or more
// bytes than len(buf) were received; a disagreeing grant count alone is only
// logged.
func (d *Dev) readResponse(buf []byte) error {
	var reason string
	switch {
	case buf == nil:
		reason = "nil buffer"
	case len(buf) > twowire.BufferSize:
		reason = fmt.Sprintf("read of %d bytes exceeds %d", len(buf), twowire.BufferSize)
	case d.addr < 0:
		reason = "address not configured"
	}
	if reason != "" {
		d.debugf("readResponse: invalid parameter: %s", reason)
		return &InvalidParameterError{Reason: reason}
	}

	n := len(buf)
	if granted := d.t.RequestFrom(uint16(d.addr), n); granted != n {
		d.debugf("readResponse: bus granted %d of %d bytes", granted, n)
	}
	got := 0
	for avail := d.t.Available(); got < avail; got++ {
		c, err := d.t.ReadByte()
		if err != nil {
			break
		}
		if got < n {
			buf[got] = c
		}
	}
	if got != n {
		d.debugf("readResponse: received %d of %d bytes", got, n)
		return &ShortReadError{Want: n, Got: got}
	}
	return nil
}

func (d *Dev) debugf(format string, args ...interface{}) {
	if d.debug && d.log != nil {
		d.log.Debugf(format, args...)
	}
}

// decode validates the status bits and unpacks a measurement response.
//
//	byte 0: status[7:6] humidity[13:8]
//	byte 1: humidity[7:0]
//	byte 2: temperature[13:6]
//	byte 3: temperature[5:0] xx
func decode(buf [responseSize]byte) (RawReading, error) {
	if s := buf[0] >> statusShift; s != 0 {
		return RawReading{}, &StatusError{Status: s}
	}
	return RawReading{
		Temperature: (uint16(buf[2])<<8 | uint16(buf[3])) & 0xFFFC,
		Humidity:    uint16(buf[0])<<10 | uint16(buf[1])<<2,
	}, nil
}

var _ conn.Resource = &Dev{}
var _ physic.SenseEnv = &Dev{}
