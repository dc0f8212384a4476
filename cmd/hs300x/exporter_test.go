// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"testing"

	"github.com/GermanBionicSystems/humidity/hs300x"
	"github.com/GermanBionicSystems/humidity/twowire"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestExporter_Update(t *testing.T) {
	reg := prometheus.NewRegistry()
	e := newExporter(reg)
	if err := e.Update(sample, nil); err != nil {
		t.Fatal(err)
	}
	if v := testutil.ToFloat64(e.temperature); v != 42.5 {
		t.Fatalf("temperature %g", v)
	}
	if v := testutil.ToFloat64(e.humidity); v != 50 {
		t.Fatalf("humidity %g", v)
	}

	// A failed cycle keeps the last good values.
	if err := e.Update(hs300x.RawReading{}, &hs300x.ReadTimeoutError{Err: &hs300x.StatusError{Status: 1}}); err != nil {
		t.Fatal(err)
	}
	if v := testutil.ToFloat64(e.temperature); v != 42.5 {
		t.Fatalf("temperature %g", v)
	}
	if v := testutil.ToFloat64(e.failures.WithLabelValues("timeout")); v != 1 {
		t.Fatalf("timeouts %g", v)
	}
	if n := testutil.CollectAndCount(e.failures); n != 1 {
		t.Fatalf("got %d failure series", n)
	}
	if n, err := testutil.GatherAndCount(reg); err != nil || n != 3 {
		t.Fatalf("got %d series, %v", n, err)
	}
}

func TestFailureReason(t *testing.T) {
	data := []struct {
		err  error
		want string
	}{
		{&hs300x.ReadTimeoutError{Err: &hs300x.ShortReadError{Want: 4}}, "timeout"},
		{&hs300x.TriggerError{Status: twowire.StatusAddrNACK}, "trigger"},
		{errors.Wrap(&hs300x.TriggerError{Status: twowire.StatusOther}, "cycle"), "trigger"},
		{&hs300x.StatusError{Status: 2}, "status"},
		{&hs300x.ShortReadError{Want: 4, Got: 1}, "short_read"},
		{&hs300x.InvalidParameterError{Reason: "nil buffer"}, "invalid_parameter"},
		{errors.New("boom"), "other"},
	}
	for i, line := range data {
		if got := failureReason(line.err); got != line.want {
			t.Errorf("#%d: got %q, want %q", i, got, line.want)
		}
	}
}
