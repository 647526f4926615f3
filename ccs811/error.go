// Copyright 2025 The PmodAQS Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ccs811

import "fmt"

// PayloadSizeError is returned when a mailbox transfer length does not
// match the register's declared width. The transaction is rejected before
// any bus I/O happens.
type PayloadSizeError struct {
	Register Register
	Want     int
	Got      int
}

func (e *PayloadSizeError) Error() string {
	return fmt.Sprintf("ccs811: %s expects %d bytes, got %d", e.Register, e.Want, e.Got)
}

// AccessError is returned when reading a write-only register or writing a
// read-only one.
type AccessError struct {
	Register Register
	Op       string
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("ccs811: %s does not support %s", e.Register, e.Op)
}
