// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qrlogo

import "fmt"

// CapacityError is returned when the payload does not fit a version
// 40 code at the requested level.
type CapacityError struct {
	Level    Level
	Bits     int // encoded length of the payload in bits
	Capacity int // data capacity of version 40 at Level in bits
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("qrlogo: %d bits of data exceed capacity of %d bits at level %v",
		e.Bits, e.Capacity, e.Level)
}

// InvalidParameterError is returned for an out of range argument.
type InvalidParameterError struct {
	Name   string // parameter name
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return "qrlogo: invalid " + e.Name + ": " + e.Reason
}

// UnsupportedCharacterError is returned when a payload built for a
// specific mode holds a byte or character the mode cannot encode.
type UnsupportedCharacterError struct {
	Mode   string // mode name: numeric, alphanumeric or latin-1
	Offset int    // byte offset in the payload
	Byte   byte   // first byte of the offending character
}

func (e *UnsupportedCharacterError) Error() string {
	return fmt.Sprintf("qrlogo: %s payload: unsupported byte %#02x at offset %d",
		e.Mode, e.Byte, e.Offset)
}
