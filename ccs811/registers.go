// Copyright 2025 The PmodAQS Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ccs811

import "strings"

// Register is a CCS811 mailbox address.
type Register byte

const (
	RegStatus        Register = 0x00 // Status register
	RegMeasMode      Register = 0x01 // Measurement mode and conditions
	RegAlgResultData Register = 0x02 // Algorithm result (eCO₂, TVOC, status, raw)
	RegRawData       Register = 0x03 // Raw ADC values for sense resistance and current
	RegEnvData       Register = 0x05 // Temperature and humidity compensation input
	RegNTC           Register = 0x06 // Voltage across reference and NTC resistors
	RegThresholds    Register = 0x10 // eCO₂ interrupt thresholds
	RegHWID          Register = 0x20 // Hardware ID, always 0x81
	RegHWVersion     Register = 0x21 // Hardware version
	RegFWBootVersion Register = 0x23 // Firmware bootloader version
	RegFWAppVersion  Register = 0x24 // Firmware application version
	RegErrorID       Register = 0xE0 // Error source bits
	RegFWErase       Register = 0xF1 // Bootloader: application erase
	RegFWProgram     Register = 0xF2 // Bootloader: program flash
	RegFWVerify      Register = 0xF3 // Bootloader: verify application
	RegAppStart      Register = 0xF4 // Leave bootloader, start application
	RegSWReset       Register = 0xFF // Software reset
)

// regInfo describes a register's declared transfer width and access
// direction. Every transfer is validated against this table; lengths are
// never inferred from a buffer.
type regInfo struct {
	name  string
	width int
	read  bool
	write bool
}

var registers = map[Register]regInfo{
	RegStatus:        {"STATUS", 1, true, false},
	RegMeasMode:      {"MEAS_MODE", 1, true, true},
	RegAlgResultData: {"ALG_RESULT_DATA", 8, true, false},
	RegRawData:       {"RAW_DATA", 2, true, false},
	RegEnvData:       {"ENV_DATA", 4, false, true},
	RegNTC:           {"NTC", 4, true, false},
	RegThresholds:    {"THRESHOLDS", 4, false, true},
	RegHWID:          {"HW_ID", 1, true, false},
	RegHWVersion:     {"HW_VERSION", 1, true, false},
	RegFWBootVersion: {"FW_BOOT_VERSION", 2, true, false},
	RegFWAppVersion:  {"FW_APP_VERSION", 2, true, false},
	RegErrorID:       {"ERROR_ID", 1, true, false},
	RegFWErase:       {"FW_ERASE", 4, false, true},
	RegFWProgram:     {"FW_PROGRAM", 9, false, true},
	RegFWVerify:      {"FW_VERIFY", 0, false, true},
	RegAppStart:      {"APP_START", 0, false, true},
	RegSWReset:       {"SW_RESET", 4, false, true},
}

func (r Register) String() string {
	if info, ok := registers[r]; ok {
		return info.name
	}
	return "UNKNOWN"
}

// DriveMode selects the measurement cadence of the sensor. The modes are
// mutually exclusive.
type DriveMode byte

const (
	// DriveIdle disables measurements.
	DriveIdle DriveMode = iota
	// Drive1Sec performs a measurement every second (IAQ mode 1).
	Drive1Sec
	// Drive10Sec performs a measurement every 10 seconds (IAQ mode 2).
	Drive10Sec
	// Drive60Sec performs a measurement every 60 seconds (IAQ mode 3).
	Drive60Sec
	// DriveRaw250ms performs a raw measurement every 250ms for external
	// algorithms (IAQ mode 4).
	DriveRaw250ms
)

var driveModeNames = []string{"idle", "1s", "10s", "60s", "raw"}

func (m DriveMode) String() string {
	if int(m) < len(driveModeNames) {
		return driveModeNames[m]
	}
	return "invalid"
}

const (
	driveModeShift = 4
	driveModeMask  = 0x07 << driveModeShift
	// Assert the nINT pin when a new result is ready in ALG_RESULT_DATA.
	flagInterrupt = 1 << 3
	// Only assert nINT when eCO₂ crosses one of the programmed thresholds.
	flagThreshold = 1 << 2
)

// MeasureMode is the byte encoding of the MEAS_MODE register: the drive
// mode in bits 4-6 and the two interrupt enable flags in bits 3 and 2.
type MeasureMode byte

// NewMeasureMode encodes a MEAS_MODE value from a drive mode and the
// data-ready and threshold interrupt enables.
func NewMeasureMode(d DriveMode, dataReadyInt, thresholdInt bool) MeasureMode {
	m := MeasureMode(d) << driveModeShift
	if dataReadyInt {
		m |= flagInterrupt
	}
	if thresholdInt {
		m |= flagThreshold
	}
	return m
}

// DriveMode returns the cadence field of the mode.
func (m MeasureMode) DriveMode() DriveMode {
	return DriveMode(m&driveModeMask) >> driveModeShift
}

// InterruptEnabled reports whether the data-ready interrupt is enabled.
func (m MeasureMode) InterruptEnabled() bool {
	return m&flagInterrupt != 0
}

// ThresholdEnabled reports whether threshold-crossing interrupts are
// enabled.
func (m MeasureMode) ThresholdEnabled() bool {
	return m&flagThreshold != 0
}

func (m MeasureMode) String() string {
	s := "drive=" + m.DriveMode().String()
	if m.InterruptEnabled() {
		s += "+int"
	}
	if m.ThresholdEnabled() {
		s += "+thresh"
	}
	return s
}

// Status is the decoded STATUS register.
type Status byte

const (
	statusError     = 1 << 0
	statusDataReady = 1 << 3
	statusAppValid  = 1 << 4
	statusFWMode    = 1 << 7
)

// Error reports whether an error is latched; read ERROR_ID to clear and
// identify it.
func (s Status) Error() bool { return s&statusError != 0 }

// DataReady reports whether a new result is waiting in ALG_RESULT_DATA.
func (s Status) DataReady() bool { return s&statusDataReady != 0 }

// AppValid reports whether valid application firmware is present.
func (s Status) AppValid() bool { return s&statusAppValid != 0 }

// FirmwareMode reports true in application mode, false in boot mode.
func (s Status) FirmwareMode() bool { return s&statusFWMode != 0 }

func (s Status) String() string {
	var parts []string
	if s.FirmwareMode() {
		parts = append(parts, "app")
	} else {
		parts = append(parts, "boot")
	}
	if s.AppValid() {
		parts = append(parts, "app-valid")
	}
	if s.DataReady() {
		parts = append(parts, "data-ready")
	}
	if s.Error() {
		parts = append(parts, "error")
	}
	return strings.Join(parts, ",")
}

// ErrorID is the raw ERROR_ID register. It is surfaced for diagnostics
// only; the driver never acts on its contents.
type ErrorID byte

var errorIDNames = []string{
	"WRITE_REG_INVALID",
	"READ_REG_INVALID",
	"MEASMODE_INVALID",
	"MAX_RESISTANCE",
	"HEATER_FAULT",
	"HEATER_SUPPLY",
}

func (e ErrorID) String() string {
	if e == 0 {
		return "none"
	}
	var parts []string
	for i, name := range errorIDNames {
		if e&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, ",")
}
