// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package twowire

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"periph.io/x/conn/v3/i2c/i2ctest"
)

func TestI2C_Trigger(t *testing.T) {
	bus := i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: 0x44},
			{Addr: 0x40, W: []byte{0xfe}},
		},
	}
	tr := NewI2C(&bus)
	if err := tr.Begin(); err != nil {
		t.Fatal(err)
	}
	tr.BeginTransmission(0x44)
	if s := tr.EndTransmission(); s != StatusOK {
		t.Fatalf("got status %s", s)
	}
	tr.BeginTransmission(0x40)
	if _, err := tr.Write([]byte{0xfe}); err != nil {
		t.Fatal(err)
	}
	if s := tr.EndTransmission(); s != StatusOK {
		t.Fatalf("got status %s", s)
	}
	if err := bus.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestI2C_TriggerNACK(t *testing.T) {
	bus := i2ctest.Playback{DontPanic: true}
	tr := NewI2C(&bus)
	tr.BeginTransmission(0x44)
	if s := tr.EndTransmission(); s != StatusOther {
		t.Fatalf("got status %s, expected %s", s, StatusOther)
	}
	if tr.Err() == nil {
		t.Fatal("expected the bus error to be kept")
	}
}

func TestI2C_EndWithoutBegin(t *testing.T) {
	tr := NewI2C(&i2ctest.Playback{})
	if s := tr.EndTransmission(); s != StatusOther {
		t.Fatalf("got status %s", s)
	}
}

func TestI2C_RequestFrom(t *testing.T) {
	want := []byte{0x1a, 0x2b, 0x3c, 0x4d}
	bus := i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: 0x44, R: want},
		},
	}
	tr := NewI2C(&bus)
	if n := tr.RequestFrom(0x44, len(want)); n != len(want) {
		t.Fatalf("granted %d", n)
	}
	if n := tr.Available(); n != len(want) {
		t.Fatalf("available %d", n)
	}
	var got []byte
	for tr.Available() > 0 {
		c, err := tr.ReadByte()
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, c)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %#v, expected %#v", got, want)
	}
	if _, err := tr.ReadByte(); err != io.EOF {
		t.Fatalf("got %v, expected io.EOF", err)
	}
	if err := bus.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestI2C_RequestFromError(t *testing.T) {
	bus := i2ctest.Playback{DontPanic: true}
	tr := NewI2C(&bus)
	if n := tr.RequestFrom(0x44, 4); n != 0 {
		t.Fatalf("granted %d", n)
	}
	if tr.Available() != 0 {
		t.Fatal("nothing should be available")
	}
	if tr.Err() == nil {
		t.Fatal("expected the bus error to be kept")
	}
}

func TestI2C_RequestFromBounds(t *testing.T) {
	bus := i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: 0x44, R: make([]byte, BufferSize)},
		},
	}
	tr := NewI2C(&bus)
	if n := tr.RequestFrom(0x44, 0); n != 0 {
		t.Fatalf("granted %d", n)
	}
	if n := tr.RequestFrom(0x44, BufferSize+8); n != BufferSize {
		t.Fatalf("granted %d, expected %d", n, BufferSize)
	}
}

func TestI2C_Write(t *testing.T) {
	tr := NewI2C(&i2ctest.Playback{})
	if _, err := tr.Write([]byte{1}); err == nil {
		t.Fatal("expected an error outside of a transmission")
	}
	tr.BeginTransmission(0x44)
	n, err := tr.Write(make([]byte, BufferSize+1))
	if !errors.Is(err, io.ErrShortWrite) || n != BufferSize {
		t.Fatalf("got %d, %v", n, err)
	}
}

func TestI2C_NilBus(t *testing.T) {
	tr := NewI2C(nil)
	if err := tr.Begin(); err == nil {
		t.Fatal("expected an error")
	}
	if s := tr.String(); s != "twowire(<nil>)" {
		t.Fatal(s)
	}
}

func TestStatus_String(t *testing.T) {
	data := []struct {
		s    Status
		want string
	}{
		{StatusOK, "ok"},
		{StatusAddrNACK, "address nack"},
		{StatusOther, "bus error"},
		{Status(9), "status(9)"},
	}
	for _, line := range data {
		if got := line.s.String(); got != line.want {
			t.Errorf("%d: got %q, expected %q", line.s, got, line.want)
		}
	}
}
