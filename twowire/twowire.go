// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package twowire defines a byte oriented two-wire bus transport.
//
// Sensors like the HS300x are triggered by an address-only transaction and
// then read back with a plain "request N bytes" call whose result may be
// shorter than asked. Transport exposes exactly these primitives so the
// driver can tell a short read from a failed one. I2C adapts any
// periph.io i2c.Bus to it.
package twowire

import "strconv"

// BufferSize is the largest read a Transport is required to support.
const BufferSize = 32

// Status is the completion code of EndTransmission.
type Status uint8

// Completion codes. Zero means the addressed device acknowledged.
const (
	StatusOK          Status = 0
	StatusDataTooLong Status = 1
	StatusAddrNACK    Status = 2
	StatusDataNACK    Status = 3
	StatusOther       Status = 4
	StatusTimeout     Status = 5
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusDataTooLong:
		return "data too long"
	case StatusAddrNACK:
		return "address nack"
	case StatusDataNACK:
		return "data nack"
	case StatusOther:
		return "bus error"
	case StatusTimeout:
		return "timeout"
	}
	return "status(" + strconv.Itoa(int(s)) + ")"
}

// Transport is a two-wire bus controller.
//
// Transport is not safe for concurrent use; a Transport is owned by a single
// device driver.
type Transport interface {
	// Begin opens the bus. It may be called more than once.
	Begin() error
	// BeginTransmission starts buffering a write to the device at addr.
	BeginTransmission(addr uint16)
	// EndTransmission sends the buffered write, possibly empty, and reports
	// how the device responded.
	EndTransmission() Status
	// RequestFrom reads up to n bytes from the device at addr into the
	// receive buffer and returns how many the bus granted.
	RequestFrom(addr uint16, n int) int
	// Available returns the number of received bytes not yet read.
	Available() int
	// ReadByte returns the next received byte.
	ReadByte() (byte, error)
}
