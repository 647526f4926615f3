// Copyright 2025 The PmodAQS Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ccs811 controls an ams CCS811 digital gas sensor over an I²C bus,
// as found on the Digilent Pmod AQS module.
//
// The CCS811 ships running its bootloader. Creating a device with NewI2C
// performs the boot handshake (firmware verify, application start, measure
// mode programming) and leaves the sensor in continuous measurement mode.
// Equivalent CO₂ concentration is then read from the ALG_RESULT_DATA
// mailbox, either directly or driven by the sensor's data-ready interrupt
// pin (see the airquality package).
//
// eCO₂ range: 400ppm - 8192ppm
//
// # Datasheet
//
// https://www.sciosense.com/wp-content/uploads/documents/SC-001232-DS-3-CCS811B-Datasheet-Revision-2.pdf
package ccs811
