// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"fmt"
	"strconv"
)

// A Mode is a QR segment encoding mode.
type Mode int8

// Supported encoding modes, from most to least compact.
const (
	Numeric      Mode = iota // digits 0-9
	Alphanumeric             // 0-9, A-Z, SPACE and $%*+-./:
	Byte                     // any data
)

// A modeEncoder describes how a Mode is encoded.
type modeEncoder struct {
	name      string
	indicator uint32 // 4 bit mode indicator

	// countLength lists lengths of the character count field in
	// the three QR version size classes.
	countLength [3]int

	// accepts reports whether the mode can encode the byte.
	accepts func(byte) bool

	// encodedLength returns the length in bits of n bytes of
	// data, without the header.
	encodedLength func(n int) int

	// encode writes s to b.  s has been validated.
	encode func(b *Bits, s string)
}

const alphamask uint64 = 0x07fffffe_07ffec31 // SPACE $% *+ -./ [0-9] : [A-Z]

// Alphanumeric values, indexed by the low 6 bits of a character
// accepted by alphamask.
// "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ $%*+-./:"
var alpha = [64]byte{
	00, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24, // 0x40
	25, 26, 27, 28, 29, 30, 31, 32, 33, 34, 35, 00, 00, 00, 00, 00, // 0x50
	36, 00, 00, 00, 37, 38, 00, 00, 00, 00, 39, 40, 00, 41, 42, 43, // 0x20
	00, 01, 02, 03, 04, 05, 06, 07, 010, 9, 44, 00, 00, 00, 00, 00, // 0x30
}

var modes = [...]modeEncoder{
	Numeric: {
		name:          "numeric",
		indicator:     1,
		countLength:   [3]int{10, 12, 14},
		accepts:       func(c byte) bool { return c-'0' < 10 },
		encodedLength: func(n int) int { return (10*n + 2) / 3 },
		encode: func(b *Bits, s string) {
			for len(s) >= 3 {
				b.Write(uint32(s[0]-'0')*100+uint32(s[1]-'0')*10+
					uint32(s[2]-'0'), 10)
				s = s[3:]
			}
			switch len(s) {
			case 2:
				b.Write(uint32(s[0]-'0')*10+uint32(s[1]-'0'), 7)
			case 1:
				b.Write(uint32(s[0]-'0'), 4)
			}
		},
	},
	Alphanumeric: {
		name:          "alphanumeric",
		indicator:     2,
		countLength:   [3]int{9, 11, 13},
		accepts:       func(c byte) bool { return alphamask>>(c-' ')&1 != 0 },
		encodedLength: func(n int) int { return (11*n + 1) / 2 },
		encode: func(b *Bits, s string) {
			for len(s) >= 2 {
				b.Write(uint32(alpha[s[0]&0x3f])*45+
					uint32(alpha[s[1]&0x3f]), 11)
				s = s[2:]
			}
			if len(s) == 1 {
				b.Write(uint32(alpha[s[0]&0x3f]), 6)
			}
		},
	},
	Byte: {
		name:          "byte",
		indicator:     4,
		countLength:   [3]int{8, 16, 16},
		accepts:       func(byte) bool { return true },
		encodedLength: func(n int) int { return n * 8 },
		encode: func(b *Bits, s string) {
			if b.nbit&7 == 0 {
				b.b = append(b.b, s...)
				b.nbit += len(s) * 8
				return
			}
			for i := 0; i < len(s); i++ {
				b.Write(uint32(s[i]), 8)
			}
		},
	},
}

func (mode Mode) valid() bool {
	return 0 <= mode && int(mode) < len(modes)
}

func (mode Mode) String() string {
	if mode.valid() {
		return modes[mode].name
	}
	return strconv.Itoa(int(mode))
}

// Accepts reports whether c is encodable in mode.
func (mode Mode) Accepts(c byte) bool {
	return mode.valid() && modes[mode].accepts(c)
}

// CountLength returns the width in bits of the character count field
// of mode at the given QR version size class.
func (mode Mode) CountLength(class int) int {
	return modes[mode].countLength[class]
}

// Classify returns the most compact mode accepting every byte of s.
func Classify(s string) Mode {
	mode := Numeric
	for i := 0; i < len(s) && mode < Byte; i++ {
		for !modes[mode].accepts(s[i]) {
			mode++
		}
	}
	return mode
}

// A Segment describes a QR code segment.
type Segment struct {
	Text string // data to encode
	Mode Mode   // encoding mode
}

// SegmentError represents a Segment that is not encodable in its
// Mode.  Offset is the position of the first offending byte.
type SegmentError struct {
	Segment
	Offset int
}

func (e *SegmentError) Error() string {
	if !e.Mode.valid() {
		return fmt.Sprintf("qr: invalid mode %d", int(e.Mode))
	}
	return fmt.Sprintf("qr: non-%s byte %#02x at offset %d",
		e.Mode, e.Text[e.Offset], e.Offset)
}

// Check returns a *SegmentError unless seg is encodable.
func (seg Segment) Check() error {
	if !seg.Mode.valid() {
		return &SegmentError{Segment: seg}
	}
	accepts := modes[seg.Mode].accepts
	for i := 0; i < len(seg.Text); i++ {
		if !accepts(seg.Text[i]) {
			return &SegmentError{Segment: seg, Offset: i}
		}
	}
	return nil
}

// tooLong is the encoded length reported for segments that cannot be
// encoded at a given size class.  It exceeds the capacity of any QR
// code.
const tooLong = 1 << 30

// EncodedLength returns the encoded length in bits of seg in the
// given QR version size class, including the header.  The segment
// is not validated.  If the character count does not fit the count
// field, the returned length exceeds the capacity of any code.
func (seg Segment) EncodedLength(class int) int {
	m := &modes[seg.Mode]
	cl := seg.Mode.CountLength(class)
	if len(seg.Text) >= 1<<cl {
		return tooLong
	}
	return 4 + cl + m.encodedLength(len(seg.Text))
}

// Encode writes seg encoded for the given QR version size class to b.
func (seg Segment) Encode(b *Bits, class int) error {
	if err := seg.Check(); err != nil {
		return err
	}
	m := &modes[seg.Mode]
	cl := seg.Mode.CountLength(class)
	if len(seg.Text) >= 1<<cl {
		return fmt.Errorf("qr: %s segment of %d bytes too long for count field of %d bits",
			m.name, len(seg.Text), cl)
	}
	b.Write(m.indicator, 4)
	b.Write(uint32(len(seg.Text)), cl)
	m.encode(b, seg.Text)
	return nil
}
