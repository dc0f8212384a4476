// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package twowire

import (
	"errors"
	"fmt"
	"io"

	"periph.io/x/conn/v3/i2c"
)

// I2C implements Transport on top of a periph.io I²C bus.
//
// Every EndTransmission and RequestFrom is a single i2c.Bus.Tx call. A failed
// Tx is reported as StatusOther or as zero bytes granted; the underlying
// error is kept and returned by Err.
type I2C struct {
	b i2c.Bus

	addr uint16
	tx   []byte
	inTx bool

	rx  [BufferSize]byte
	n   int
	pos int

	err error
}

// NewI2C returns a Transport that talks over b.
func NewI2C(b i2c.Bus) *I2C {
	return &I2C{b: b, tx: make([]byte, 0, BufferSize)}
}

// Begin implements Transport. The periph bus is opened by its registry, so
// there is nothing left to do beyond resetting the buffers.
func (t *I2C) Begin() error {
	if t.b == nil {
		return errors.New("twowire: nil i2c bus")
	}
	t.tx = t.tx[:0]
	t.inTx = false
	t.n, t.pos = 0, 0
	t.err = nil
	return nil
}

// BeginTransmission implements Transport.
func (t *I2C) BeginTransmission(addr uint16) {
	t.addr = addr
	t.tx = t.tx[:0]
	t.inTx = true
}

// Write buffers p for the current transmission. It implements io.Writer.
func (t *I2C) Write(p []byte) (int, error) {
	if !t.inTx {
		return 0, errors.New("twowire: write outside of a transmission")
	}
	if len(t.tx)+len(p) > BufferSize {
		n := BufferSize - len(t.tx)
		t.tx = append(t.tx, p[:n]...)
		return n, io.ErrShortWrite
	}
	t.tx = append(t.tx, p...)
	return len(p), nil
}

// EndTransmission implements Transport.
func (t *I2C) EndTransmission() Status {
	if !t.inTx {
		t.err = errors.New("twowire: EndTransmission without BeginTransmission")
		return StatusOther
	}
	t.inTx = false
	var w []byte
	if len(t.tx) != 0 {
		w = t.tx
	}
	if err := t.b.Tx(t.addr, w, nil); err != nil {
		t.err = fmt.Errorf("twowire: write to 0x%02x: %w", t.addr, err)
		return StatusOther
	}
	t.err = nil
	return StatusOK
}

// RequestFrom implements Transport. Requests larger than BufferSize are
// truncated.
func (t *I2C) RequestFrom(addr uint16, n int) int {
	t.n, t.pos = 0, 0
	if n <= 0 {
		return 0
	}
	if n > BufferSize {
		n = BufferSize
	}
	if err := t.b.Tx(addr, nil, t.rx[:n]); err != nil {
		t.err = fmt.Errorf("twowire: read %d bytes from 0x%02x: %w", n, addr, err)
		return 0
	}
	t.err = nil
	t.n = n
	return n
}

// Available implements Transport.
func (t *I2C) Available() int {
	return t.n - t.pos
}

// ReadByte implements Transport and io.ByteReader.
func (t *I2C) ReadByte() (byte, error) {
	if t.pos >= t.n {
		return 0, io.EOF
	}
	c := t.rx[t.pos]
	t.pos++
	return c, nil
}

// Err returns the bus error of the last EndTransmission or RequestFrom, if
// any.
func (t *I2C) Err() error {
	return t.err
}

func (t *I2C) String() string {
	if t.b == nil {
		return "twowire(<nil>)"
	}
	return "twowire(" + t.b.String() + ")"
}

var _ Transport = &I2C{}
var _ io.ByteReader = &I2C{}
var _ io.Writer = &I2C{}
