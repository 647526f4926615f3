// Copyright 2025 The PmodAQS Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ccs811

import (
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3/i2c"
)

// SensorAddress is the 7-bit I²C address of the CCS811 as wired on the
// Pmod AQS (ADDR pin high).
const SensorAddress uint16 = 0x5B

// Settle delays for the boot handshake. These were measured against the
// part; the datasheet only gives the 1s application start time.
const (
	settleDelay   = 10 * time.Millisecond
	verifyDelay   = 100 * time.Millisecond
	appStartDelay = 1000 * time.Millisecond // application boot time
	resetDelay    = 2 * time.Millisecond    // t_START after reset
)

// swResetKey is the sequence that must be written to SW_RESET to trigger a
// software reset.
var swResetKey = []byte{0x11, 0xE5, 0x72, 0x8A}

// Opts holds the configuration options for the device.
type Opts struct {
	// Mode is the MEAS_MODE value programmed during the boot handshake.
	// The mode is fixed for the lifetime of the device; reprogramming it
	// at runtime is not supported.
	Mode MeasureMode
}

// DefaultOpts measures every second and asserts the nINT pin on every new
// result.
var DefaultOpts = Opts{
	Mode: NewMeasureMode(Drive1Sec, true, false),
}

// BootReport holds the diagnostic values captured during the boot
// handshake. None of them alter the handshake; they are recorded for the
// caller to inspect or log.
type BootReport struct {
	// HardwareID as read from HW_ID. 0x81 on a genuine part.
	HardwareID byte
	// Status before the application was started.
	Status Status
	// ErrorID read after programming the measure mode.
	ErrorID ErrorID
	// ModeEcho is the MEAS_MODE register read back after programming it.
	ModeEcho MeasureMode
}

// Dev is a handle to a CCS811 running in application mode.
type Dev struct {
	d    *i2c.Dev
	opts Opts

	mu   sync.Mutex
	boot BootReport
}

// NewI2C returns a CCS811 device on the given bus and runs the boot
// handshake: firmware verify, application start and measure mode
// programming, each separated by the required settle delay. The handshake
// is linear and not retried; the first transport failure aborts it and is
// returned. The caller decides whether to retry the whole sequence.
//
// The Opts can be nil, in which case DefaultOpts is used.
func NewI2C(b i2c.Bus, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	d := &Dev{d: &i2c.Dev{Bus: b, Addr: SensorAddress}, opts: *opts}
	if err := d.start(); err != nil {
		return nil, err
	}
	return d, nil
}

// start runs the fixed boot sequence. The HW_ID, STATUS, ERROR_ID and
// MEAS_MODE reads are diagnostic: their values are recorded in the boot
// report but never branch the sequence.
func (d *Dev) start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	id, err := d.readMailbox(RegHWID, 1)
	if err != nil {
		return err
	}
	d.boot.HardwareID = id[0]
	time.Sleep(settleDelay)

	st, err := d.readMailbox(RegStatus, 1)
	if err != nil {
		return err
	}
	d.boot.Status = Status(st[0])
	time.Sleep(settleDelay)

	if err := d.writeCommand(RegFWVerify); err != nil {
		return err
	}
	time.Sleep(verifyDelay)

	if err := d.writeCommand(RegAppStart); err != nil {
		return err
	}
	time.Sleep(appStartDelay)

	if err := d.writeRegister(RegMeasMode, byte(d.opts.Mode)); err != nil {
		return err
	}
	time.Sleep(settleDelay)

	errID, err := d.readMailbox(RegErrorID, 1)
	if err != nil {
		return err
	}
	d.boot.ErrorID = ErrorID(errID[0])
	time.Sleep(settleDelay)

	echo, err := d.readMailbox(RegMeasMode, 1)
	if err != nil {
		return err
	}
	d.boot.ModeEcho = MeasureMode(echo[0])
	return nil
}

// BootReport returns the diagnostics captured during the boot handshake.
func (d *Dev) BootReport() BootReport {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.boot
}

// Mode returns the measure mode the device was booted with.
func (d *Dev) Mode() MeasureMode {
	return d.opts.Mode
}

// WriteCommand issues a write-only transaction with no payload. Used for
// the FW_VERIFY and APP_START mailboxes.
func (d *Dev) WriteCommand(reg Register) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.writeCommand(reg)
}

// WriteRegister writes a single payload byte to reg in one transaction.
func (d *Dev) WriteRegister(reg Register, value byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.writeRegister(reg, value)
}

// WriteMailbox writes payload to reg in one transaction. len(payload) must
// equal the register's declared width or the call fails without touching
// the bus.
func (d *Dev) WriteMailbox(reg Register, payload []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.writeMailbox(reg, payload)
}

// ReadMailbox reads exactly length bytes from reg in one write-then-read
// transaction. On failure no partial data is returned.
func (d *Dev) ReadMailbox(reg Register, length int) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.readMailbox(reg, length)
}

// Status reads and decodes the STATUS register.
func (d *Dev) Status() (Status, error) {
	b, err := d.ReadMailbox(RegStatus, 1)
	if err != nil {
		return 0, err
	}
	return Status(b[0]), nil
}

// ErrorID reads the ERROR_ID register. Reading it clears the error flag in
// STATUS. The value is diagnostic; the driver never interprets it.
func (d *Dev) ErrorID() (ErrorID, error) {
	b, err := d.ReadMailbox(RegErrorID, 1)
	if err != nil {
		return 0, err
	}
	return ErrorID(b[0]), nil
}

// HardwareID reads the HW_ID register. 0x81 identifies a CCS811.
func (d *Dev) HardwareID() (byte, error) {
	b, err := d.ReadMailbox(RegHWID, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// HardwareVersion reads the HW_VERSION register.
func (d *Dev) HardwareVersion() (byte, error) {
	b, err := d.ReadMailbox(RegHWVersion, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// FirmwareBootVersion reads the bootloader version.
func (d *Dev) FirmwareBootVersion() (uint16, error) {
	b, err := d.ReadMailbox(RegFWBootVersion, 2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

// FirmwareAppVersion reads the application firmware version.
func (d *Dev) FirmwareAppVersion() (uint16, error) {
	b, err := d.ReadMailbox(RegFWAppVersion, 2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

// ReadAlgorithmResult reads the current equivalent CO₂ concentration in
// ppm from ALG_RESULT_DATA. The value is transferred high byte first.
func (d *Dev) ReadAlgorithmResult() (uint16, error) {
	b, err := d.ReadMailbox(RegAlgResultData, 2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

// ReadRaw reads RAW_DATA: the sense resistor current in µA and the raw
// 10-bit ADC reading.
func (d *Dev) ReadRaw() (currentUA uint8, adc uint16, err error) {
	b, err := d.ReadMailbox(RegRawData, 2)
	if err != nil {
		return 0, 0, err
	}
	return b[0] >> 2, uint16(b[0]&0x03)<<8 | uint16(b[1]), nil
}

// SetEnvironmentData programs the temperature and humidity compensation
// inputs. Temperature is in °C, humidity in %RH; both are encoded in
// 1/512 steps, temperature offset by +25°C.
func (d *Dev) SetEnvironmentData(temperature, humidity float64) error {
	if humidity < 0 {
		humidity = 0
	} else if humidity > 100 {
		humidity = 100
	}
	if temperature < -25 {
		temperature = -25
	}
	var p [4]byte
	binary.BigEndian.PutUint16(p[0:2], uint16(humidity*512))
	binary.BigEndian.PutUint16(p[2:4], uint16((temperature+25)*512))
	return d.WriteMailbox(RegEnvData, p[:])
}

// SetThresholds programs the eCO₂ concentrations (in ppm) at which the
// sensor asserts a threshold interrupt, if enabled in the measure mode.
func (d *Dev) SetThresholds(low, high uint16) error {
	var p [4]byte
	binary.BigEndian.PutUint16(p[0:2], low)
	binary.BigEndian.PutUint16(p[2:4], high)
	return d.WriteMailbox(RegThresholds, p[:])
}

// Reset performs a software reset. The sensor returns to boot mode and
// stops measuring; a new device must be created to use it again.
func (d *Dev) Reset() error {
	if err := d.WriteMailbox(RegSWReset, swResetKey); err != nil {
		return err
	}
	time.Sleep(resetDelay)
	return nil
}

// Halt implements conn.Resource. It resets the sensor into boot mode,
// which stops measurements.
func (d *Dev) Halt() error {
	return d.Reset()
}

func (d *Dev) String() string {
	return fmt.Sprintf("ccs811: %s", d.d.String())
}

func (d *Dev) writeCommand(reg Register) error {
	info := registers[reg]
	if !info.write {
		return &AccessError{Register: reg, Op: "write"}
	}
	if err := d.d.Tx([]byte{byte(reg)}, nil); err != nil {
		return fmt.Errorf("ccs811: command %s: %w", reg, err)
	}
	return nil
}

func (d *Dev) writeRegister(reg Register, value byte) error {
	return d.writeMailbox(reg, []byte{value})
}

func (d *Dev) writeMailbox(reg Register, payload []byte) error {
	info := registers[reg]
	if !info.write {
		return &AccessError{Register: reg, Op: "write"}
	}
	if len(payload) != info.width {
		return &PayloadSizeError{Register: reg, Want: info.width, Got: len(payload)}
	}
	// The register id and payload go out in a single transaction so no
	// other transfer can interleave between them.
	w := make([]byte, 1+len(payload))
	w[0] = byte(reg)
	copy(w[1:], payload)
	if err := d.d.Tx(w, nil); err != nil {
		return fmt.Errorf("ccs811: write %s: %w", reg, err)
	}
	return nil
}

func (d *Dev) readMailbox(reg Register, length int) ([]byte, error) {
	info := registers[reg]
	if !info.read {
		return nil, &AccessError{Register: reg, Op: "read"}
	}
	if length <= 0 || length > info.width {
		return nil, &PayloadSizeError{Register: reg, Want: info.width, Got: length}
	}
	r := make([]byte, length)
	if err := d.d.Tx([]byte{byte(reg)}, r); err != nil {
		return nil, fmt.Errorf("ccs811: read %s: %w", reg, err)
	}
	return r, nil
}
