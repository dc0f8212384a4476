// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"image"

	"github.com/GermanBionicSystems/humidity/hs300x"
	"github.com/fogleman/gg"
	"github.com/pkg/errors"
	"golang.org/x/image/font/basicfont"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/devices/v3/ssd1306"
)

// screen renders readings on an SSD1306 sharing the sensor's bus.
type screen struct {
	dev *ssd1306.Dev
	dc  *gg.Context
}

func newScreen(b i2c.Bus) (*screen, error) {
	opts := ssd1306.DefaultOpts
	dev, err := ssd1306.NewI2C(b, &opts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize SSD1306")
	}
	r := dev.Bounds()
	return &screen{dev: dev, dc: newCanvas(r.Dx(), r.Dy())}, nil
}

func (s *screen) Update(r hs300x.RawReading, err error) error {
	render(s.dc, r, err)
	return s.dev.Draw(s.dev.Bounds(), s.dc.Image(), image.Point{})
}

// Halt blanks the display.
func (s *screen) Halt() error {
	return s.dev.Halt()
}

func newCanvas(w, h int) *gg.Context {
	dc := gg.NewContext(w, h)
	dc.SetFontFace(basicfont.Face7x13)
	return dc
}

// render draws one reading centered on dc. basicfont only carries ASCII so
// units are spelled out.
func render(dc *gg.Context, r hs300x.RawReading, err error) {
	dc.SetRGB(0, 0, 0)
	dc.Clear()
	dc.SetRGB(1, 1, 1)
	w, h := float64(dc.Width()), float64(dc.Height())
	if err != nil {
		dc.DrawStringAnchored("no reading", w/2, h/2, 0.5, 0.5)
		return
	}
	v := r.Reading()
	dc.DrawStringAnchored(fmt.Sprintf("%.1f C", v.Temperature), w/2, h/3, 0.5, 0.5)
	dc.DrawStringAnchored(fmt.Sprintf("%.1f %%RH", v.Humidity), w/2, 2*h/3, 0.5, 0.5)
}
