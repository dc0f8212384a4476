// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"image/color"
	"io"
	"os"

	"github.com/GermanBionicSystems/humidity/hs300x"
	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// Temperatures at or below coldC are drawn blue, at or above hotC red.
const (
	coldC = -10.0
	hotC  = 40.0
)

// console prints one line per reading, prefixed by a colored block when
// stdout is a terminal.
type console struct {
	w       io.Writer
	raw     bool
	color   bool
	palette *ansi256.Palette
}

func newConsole(f *os.File, raw bool) *console {
	c := &console{w: f, raw: raw, palette: ansi256.Default}
	if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
		c.w = colorable.NewColorable(f)
		c.color = true
	}
	return c
}

func (c *console) Update(r hs300x.RawReading, err error) error {
	line := formatReading(r, err, c.raw)
	if c.color && err == nil {
		line = c.palette.Block(temperatureColor(r.Reading().Temperature)) + "\033[0m " + line
	}
	_, err = io.WriteString(c.w, line+"\n")
	return err
}

func formatReading(r hs300x.RawReading, err error, raw bool) string {
	if err != nil {
		return fmt.Sprintf("read failed: %v", err)
	}
	v := r.Reading()
	s := fmt.Sprintf("%6.2f°C %6.2f%%RH", v.Temperature, v.Humidity)
	if raw {
		s += fmt.Sprintf(" (t=0x%04x rh=0x%04x)", r.Temperature, r.Humidity)
	}
	return s
}

// temperatureColor maps coldC..hotC linearly from blue to red.
func temperatureColor(celsius float64) color.NRGBA {
	f := (celsius - coldC) / (hotC - coldC)
	if f < 0 {
		f = 0
	} else if f > 1 {
		f = 1
	}
	return color.NRGBA{R: uint8(255 * f), G: 0, B: uint8(255 * (1 - f)), A: 255}
}
