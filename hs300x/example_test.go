// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hs300x_test

import (
	"fmt"
	"log"
	"time"

	"github.com/GermanBionicSystems/humidity/hs300x"
	"github.com/GermanBionicSystems/humidity/twowire"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

func Example() {
	// Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}

	// Use i2creg I²C bus registry to find the first available I²C bus.
	b, err := i2creg.Open("")
	if err != nil {
		log.Fatalf("failed to open I²C: %v", err)
	}
	defer b.Close()

	// Create a new HS300x device and check that it answers.
	d, err := hs300x.NewI2C(b, nil) // nil for default options or &hs300x.DefaultOpts
	if err != nil {
		log.Fatalf("failed to initialize HS300x: %v", err)
	}

	// Read temperature and humidity from the sensor
	e := physic.Env{}
	if err := d.Sense(&e); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%8s %9s\n", e.Temperature, e.Humidity)
}

func ExampleDev_StartMeasurement() {
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}
	b, err := i2creg.Open("")
	if err != nil {
		log.Fatalf("failed to open I²C: %v", err)
	}
	defer b.Close()

	d, err := hs300x.New(twowire.NewI2C(b), &hs300x.Opts{Address: hs300x.DefaultAddress, Debug: true})
	if err != nil {
		log.Fatal(err)
	}
	if err := d.Begin(); err != nil {
		log.Fatalf("sensor not answering: %v", err)
	}

	// Trigger now, do something else, collect later.
	delay, err := d.StartMeasurement()
	if err != nil {
		log.Fatal(err)
	}
	time.Sleep(delay)
	r, err := d.MeasurementResults()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%.2f°C %.2f%%RH\n", r.Temperature, r.Humidity)
}
