// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package qrlogo encodes QR codes with room for a logo.

Encode turns a payload into the module matrix of a QR code of the
smallest version that holds it.  With WithImage, it also places an
overlay image over the code in module units and optionally clears
(excavates) the modules under it.  Excavation is an overlay: Black
always reads the decodable matrix, Visible the modules to paint.

Cleared modules are recovered by error correction.  No decoding is
done to verify the result: a large image at a low level may leave
the code unreadable.
*/
package qrlogo // import "github.com/unixdj/qrlogo"

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/unixdj/qrlogo/coding"
)

// A Level denotes a QR error correction level.
// From least to most tolerant of errors, they are L, M, Q, H.
type Level int

const (
	L Level = iota // 20% redundant
	M              // 38% redundant
	Q              // 55% redundant
	H              // 65% redundant
)

func (l Level) String() string {
	return coding.Level(l).String()
}

// ParseLevel returns the Level named by s, one of l, m, q or h in
// either case.
func ParseLevel(s string) (Level, error) {
	if len(s) == 1 {
		if i := strings.IndexByte("LMQH", s[0]&^0x20); i >= 0 {
			return Level(i), nil
		}
	}
	return 0, &InvalidParameterError{"level", "unknown level " + s}
}

// A Payload is data to encode.  The zero Payload is empty.
type Payload struct {
	data   string
	mode   coding.Mode
	strict bool   // mode is forced
	name   string // mode name for errors
	err    error  // deferred construction error
}

// Text returns a Payload encoding the UTF-8 text s in the most
// compact mode able to hold all of it.
func Text(s string) Payload {
	return Payload{data: s}
}

// Bytes returns a Payload encoding a copy of b in the most compact
// mode able to hold all of it.
func Bytes(b []byte) Payload {
	return Payload{data: string(b)}
}

// Binary returns a Payload encoding a copy of b in byte mode.
func Binary(b []byte) Payload {
	return Payload{data: string(b), mode: coding.Byte, strict: true,
		name: "byte"}
}

// Numeric returns a Payload encoding the digits in s in numeric mode.
func Numeric(s string) Payload {
	return Payload{data: s, mode: coding.Numeric, strict: true,
		name: "numeric"}
}

// Alphanumeric returns a Payload encoding s in alphanumeric mode:
// digits, upper case letters, space and $%*+-./:.
func Alphanumeric(s string) Payload {
	return Payload{data: s, mode: coding.Alphanumeric, strict: true,
		name: "alphanumeric"}
}

// Latin1 returns a Payload encoding the UTF-8 text s transcoded to
// ISO 8859-1 in byte mode.  QR readers assume ISO 8859-1 for byte
// mode data without ECI.
func Latin1(s string) Payload {
	p := Payload{mode: coding.Byte, strict: true, name: "latin-1"}
	for i, r := range s {
		if r > 0xff || r == utf8.RuneError {
			p.err = &UnsupportedCharacterError{p.name, i, s[i]}
			return p
		}
	}
	t, err := charmap.ISO8859_1.NewEncoder().String(s)
	if err != nil {
		p.err = err
	}
	p.data = t
	return p
}

// Len returns the length of the encoded data in bytes.
func (p Payload) Len() int { return len(p.data) }

// segments returns the segments encoding p.  An empty payload has
// none.
func (p Payload) segments() ([]coding.Segment, error) {
	if p.err != nil {
		return nil, p.err
	}
	if p.data == "" {
		return nil, nil
	}
	seg := coding.Segment{Text: p.data, Mode: coding.Classify(p.data)}
	if p.strict {
		seg.Mode = p.mode
		if err := seg.Check(); err != nil {
			off := err.(*coding.SegmentError).Offset
			return nil, &UnsupportedCharacterError{p.name, off, p.data[off]}
		}
	}
	return []coding.Segment{seg}, nil
}

// An Option configures Encode.
type Option interface {
	apply(*options)
}

type options struct {
	image *ImageGeometry
	boost bool
}

// funcOption wraps a function that modifies options into an
// implementation of the Option interface.
type funcOption struct {
	f func(o *options)
}

func (fo *funcOption) apply(o *options) {
	fo.f(o)
}

func newFuncOption(f func(o *options)) *funcOption {
	return &funcOption{f: f}
}

// WithImage places an overlay image over the code.  See Excavation.
func WithImage(g ImageGeometry) Option {
	return newFuncOption(func(o *options) {
		o.image = &g
	})
}

// Boost raises the error correction level to the highest one that
// does not need a larger version.
func Boost() Option {
	return newFuncOption(func(o *options) {
		o.boost = true
	})
}

// A Code is a square pixel grid.
type Code struct {
	Version int   // QR version, 1 to 40
	Level   Level // error correction level
	Mask    int   // mask pattern, 0 to 7
	Size    int   // number of modules on a side, 4*Version+17

	// Excavation is the placement of the overlay image, or nil
	// without WithImage.
	Excavation *Excavation

	code *coding.Code
}

// Black reports whether the module at x, y is dark in the encoded
// matrix, regardless of excavation.  Modules outside the code are
// light.
func (c *Code) Black(x, y int) bool {
	return c.code.Black(x, y)
}

// Cleared reports whether the module at x, y is excavated.
func (c *Code) Cleared(x, y int) bool {
	e := c.Excavation
	return e != nil && e.Cleared && e.contains(x, y)
}

// Visible reports whether the module at x, y is to be painted dark:
// black and not cleared.
func (c *Code) Visible(x, y int) bool {
	return c.Black(x, y) && !c.Cleared(x, y)
}

// Matrix returns a copy of the encoded matrix indexed by row and
// column.
func (c *Code) Matrix() [][]bool {
	m := make([][]bool, c.Size)
	for y := range m {
		m[y] = make([]bool, c.Size)
		for x := range m[y] {
			m[y][x] = c.Black(x, y)
		}
	}
	return m
}

// encodedLength returns the length in bits of segs at version size
// class class.
func encodedLength(segs []coding.Segment, class int) int {
	n := 0
	for _, s := range segs {
		n += s.EncodedLength(class)
	}
	return n
}

// chooseVersion returns the smallest version not below minv holding
// segs at level l, and the encoded length of segs in bits.
func chooseVersion(segs []coding.Segment, l coding.Level, minv coding.Version) (coding.Version, int, error) {
	for v := minv; v <= coding.MaxVersion; v++ {
		if n := encodedLength(segs, v.SizeClass()); n <= v.DataBits(l) {
			return v, n, nil
		}
	}
	top := coding.MaxVersion
	return 0, 0, &CapacityError{
		Level:    Level(l),
		Bits:     encodedLength(segs, top.SizeClass()),
		Capacity: top.DataBits(l),
	}
}

// Encode returns a QR code holding p at the given error correction
// level, of version minVersion or larger.
//
// Encode is safe for concurrent use.
func Encode(p Payload, level Level, minVersion int, opts ...Option) (*Code, error) {
	if !coding.Level(level).Valid() {
		return nil, &InvalidParameterError{"level", "out of range"}
	}
	if !coding.Version(minVersion).Valid() {
		return nil, &InvalidParameterError{"minVersion",
			"must be between 1 and 40"}
	}
	var o options
	for _, opt := range opts {
		opt.apply(&o)
	}
	if o.image != nil {
		if err := o.image.check(); err != nil {
			return nil, err
		}
	}

	segs, err := p.segments()
	if err != nil {
		return nil, err
	}
	l := coding.Level(level)
	v, n, err := chooseVersion(segs, l, coding.Version(minVersion))
	if err != nil {
		return nil, err
	}
	if o.boost {
		for l < coding.H && n <= v.DataBits(l+1) {
			l++
		}
	}

	cc, mask, err := coding.Encode(v, l, segs...)
	if err != nil {
		panic(err) // segments are checked and fit
	}
	c := &Code{
		Version: int(v),
		Level:   Level(l),
		Mask:    int(mask),
		Size:    cc.Size,
		code:    cc,
	}
	if o.image != nil {
		c.Excavation = o.image.excavation(c.Size)
	}
	return c, nil
}
