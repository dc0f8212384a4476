// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package humidity is a container for the HS300x humidity and temperature
// sensor driver and its tools.
//
// See hs300x for the driver, twowire for the bus transactions it is built on
// and cmd/hs300x for a command line reader.
package humidity
