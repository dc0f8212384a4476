// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hs300x

import (
	"fmt"

	"github.com/GermanBionicSystems/humidity/twowire"
)

// TriggerError is returned when the device did not acknowledge the
// measurement request.
type TriggerError struct {
	Status twowire.Status
}

func (e *TriggerError) Error() string {
	return fmt.Sprintf("hs300x: can't select device: %s (%d)", e.Status, uint8(e.Status))
}

// StatusError is returned when the status bits of a response are not 00.
type StatusError struct {
	Status uint8
}

// Stale reports whether the device flagged the data as already read.
func (e *StatusError) Stale() bool {
	return e.Status == statusStale
}

func (e *StatusError) Error() string {
	if e.Stale() {
		return "hs300x: stale data"
	}
	return fmt.Sprintf("hs300x: invalid data status %d", e.Status)
}

// ShortReadError is returned when the bus delivered fewer or more bytes than
// requested.
type ShortReadError struct {
	Want int
	Got  int
}

func (e *ShortReadError) Error() string {
	return fmt.Sprintf("hs300x: read %d bytes, expected %d", e.Got, e.Want)
}

// ReadTimeoutError is returned when no valid response arrived before
// MeasurementTimeout. Err is the failure of the last attempt.
type ReadTimeoutError struct {
	Err error
}

func (e *ReadTimeoutError) Error() string {
	if e.Err == nil {
		return "hs300x: read timeout"
	}
	return "hs300x: read timeout: " + e.Err.Error()
}

func (e *ReadTimeoutError) Unwrap() error {
	return e.Err
}

// InvalidParameterError is returned before any bus access when a read
// cannot be issued.
type InvalidParameterError struct {
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return "hs300x: invalid parameter: " + e.Reason
}
