// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package twowiretest is meant to be used to test drivers over a fake
// twowire.Transport.
package twowiretest

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/GermanBionicSystems/humidity/twowire"
	"github.com/jonboulle/clockwork"
)

// IO is one expected transaction.
//
// An IO with Trigger set matches a BeginTransmission/EndTransmission pair and
// EndTransmission returns Status. Otherwise it matches a RequestFrom of
// len(R) bytes: RequestFrom reports Granted (len(R) when zero) and R is what
// becomes available to ReadByte.
type IO struct {
	Addr    uint16
	Trigger bool
	Status  twowire.Status
	Granted int
	R       []byte
	// Short limits the bytes made available, to simulate a transfer that
	// stopped early. Zero means all of R.
	Short int
	// NACK makes a read grant and deliver nothing, like an absent device.
	NACK bool
	// Forever keeps the IO at the head of the queue so it matches every
	// following transaction.
	Forever bool
}

// Playback implements twowire.Transport and plays back a scripted flow.
//
// Set DontPanic to true to return errors instead of panicking, which is the
// default. Set Clock to advance a fake clock by Latency on every
// transaction.
type Playback struct {
	sync.Mutex
	Ops       []IO
	Count     int
	DontPanic bool
	Clock     *clockwork.FakeClock
	Latency   time.Duration

	// Begins counts Begin calls, Calls counts every other method call.
	Begins int
	Calls  int

	addr uint16
	inTx bool
	rx   []byte
	pos  int
	err  error
}

func (p *Playback) String() string {
	return "twowiretest.Playback"
}

// Close verifies that all the expected Ops have been consumed.
func (p *Playback) Close() error {
	p.Lock()
	defer p.Unlock()
	if n := len(p.Ops); n != p.Count && !(n > 0 && p.Ops[n-1].Forever && p.Count == n-1) {
		return p.errorf("twowiretest: expected playback to be empty: I/O count %d; expected %d", p.Count, len(p.Ops))
	}
	return nil
}

// Err returns the first playback mismatch when DontPanic is set.
func (p *Playback) Err() error {
	p.Lock()
	defer p.Unlock()
	return p.err
}

// Begin implements twowire.Transport.
func (p *Playback) Begin() error {
	p.Lock()
	defer p.Unlock()
	p.Begins++
	return nil
}

// BeginTransmission implements twowire.Transport.
func (p *Playback) BeginTransmission(addr uint16) {
	p.Lock()
	defer p.Unlock()
	p.Calls++
	p.addr = addr
	p.inTx = true
}

// EndTransmission implements twowire.Transport.
func (p *Playback) EndTransmission() twowire.Status {
	p.Lock()
	defer p.Unlock()
	p.Calls++
	if !p.inTx {
		_ = p.errorf("twowiretest: EndTransmission without BeginTransmission")
		return twowire.StatusOther
	}
	p.inTx = false
	op, ok := p.next(p.addr, true, 0)
	if !ok {
		return twowire.StatusAddrNACK
	}
	return op.Status
}

// RequestFrom implements twowire.Transport.
func (p *Playback) RequestFrom(addr uint16, n int) int {
	p.Lock()
	defer p.Unlock()
	p.Calls++
	p.rx, p.pos = nil, 0
	op, ok := p.next(addr, false, n)
	if !ok || op.NACK {
		return 0
	}
	p.rx = op.R
	if op.Short != 0 && op.Short < len(op.R) {
		p.rx = op.R[:op.Short]
	}
	if op.Granted != 0 {
		return op.Granted
	}
	return len(op.R)
}

// Available implements twowire.Transport.
func (p *Playback) Available() int {
	p.Lock()
	defer p.Unlock()
	p.Calls++
	return len(p.rx) - p.pos
}

// ReadByte implements twowire.Transport.
func (p *Playback) ReadByte() (byte, error) {
	p.Lock()
	defer p.Unlock()
	p.Calls++
	if p.pos >= len(p.rx) {
		return 0, io.EOF
	}
	c := p.rx[p.pos]
	p.pos++
	return c, nil
}

func (p *Playback) next(addr uint16, trigger bool, n int) (IO, bool) {
	if p.Clock != nil && p.Latency > 0 {
		p.Clock.Advance(p.Latency)
	}
	if len(p.Ops) <= p.Count {
		_ = p.errorf("twowiretest: unexpected transaction (count #%d) addr=%d trigger=%t n=%d", p.Count, addr, trigger, n)
		return IO{}, false
	}
	op := p.Ops[p.Count]
	if op.Addr != addr {
		_ = p.errorf("twowiretest: unexpected addr (count #%d) %d != %d", p.Count, addr, op.Addr)
		return IO{}, false
	}
	if op.Trigger != trigger {
		_ = p.errorf("twowiretest: unexpected transaction kind (count #%d) trigger=%t", p.Count, trigger)
		return IO{}, false
	}
	if !trigger && len(op.R) != n {
		_ = p.errorf("twowiretest: unexpected read length (count #%d) %d != %d", p.Count, n, len(op.R))
		return IO{}, false
	}
	if !op.Forever {
		p.Count++
	}
	return op, true
}

func (p *Playback) errorf(format string, a ...interface{}) error {
	err := fmt.Errorf(format, a...)
	if !p.DontPanic {
		panic(err)
	}
	if p.err == nil {
		p.err = err
	}
	return err
}

var _ twowire.Transport = &Playback{}
