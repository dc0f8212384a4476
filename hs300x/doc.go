// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package hs300x controls a Renesas HS300x humidity and temperature sensor
// over I²C.
//
// A measurement is started by an address-only write. The device needs about
// 34ms to convert at 14 bits, after which a 4 byte read returns a 2 bit status
// followed by 14 bits of humidity and 14 bits of temperature. The status is
// 00 for a fresh result and 01 while the result is stale.
//
// The hs300x.Dev type implements the physic.SenseEnv interface. The pressure
// of the physic.Env is never set.
//
// # Datasheet
//
// https://www.renesas.com/us/en/document/dst/hs300x-datasheet
package hs300x
