// Copyright 2025 The PmodAQS Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package indicator

import (
	"bytes"
	"fmt"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"

	"github.com/IbeVdV/PmodAQS/airquality"
)

// ScreenOpts represents the options available for the terminal indicator.
type ScreenOpts struct {
	// Palette for the level colors. Nil uses ansi256.Default.
	Palette *ansi256.Palette
	// W overrides the output writer. Nil writes to a colorable stdout.
	W io.Writer
}

// Screen renders the current level as a colored block on a single
// terminal line, overwriting it in place.
type Screen struct {
	w       io.Writer
	palette ansi256.Palette
	buf     bytes.Buffer
}

var levelColors = map[airquality.Level]color.NRGBA{
	airquality.Good:    {0x00, 0xFF, 0x00, 0xFF},
	airquality.Warning: {0xFF, 0xFF, 0x00, 0xFF},
	airquality.Alert:   {0xFF, 0x00, 0x00, 0xFF},
}

// NewScreen returns a Screen that displays at the console.
func NewScreen(opts *ScreenOpts) *Screen {
	if opts == nil {
		opts = &ScreenOpts{}
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	w := opts.W
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	return &Screen{w: w, palette: *p}
}

// SetLevel implements Indicator.
func (s *Screen) SetLevel(l airquality.Level) error {
	s.buf.Reset()
	_, _ = s.buf.WriteString("\r\033[0m")
	_, _ = io.WriteString(&s.buf, s.palette.Block(levelColors[l]))
	fmt.Fprintf(&s.buf, "\033[0m %-7s", l)
	_, err := s.buf.WriteTo(s.w)
	return err
}

// Halt implements Indicator.
//
// It resets the terminal state so the line is not left corrupted.
func (s *Screen) Halt() error {
	_, err := s.w.Write([]byte("\n\033[0m"))
	return err
}

func (s *Screen) String() string {
	return "aqs-screen"
}

var _ Indicator = &Screen{}
