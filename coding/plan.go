// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"errors"
	"sync"
)

var (
	ErrLevel   = errors.New("qr: invalid level")
	ErrVersion = errors.New("qr: invalid version")
)

// A Code is a square pixel grid.
type Code struct {
	Bitmap []byte // 1 is black, 0 is white
	Size   int    // number of pixels on a side
	Stride int    // number of bytes per row
}

// NewCode returns an all white Code with siz pixels on a side.
func NewCode(siz int) *Code {
	stride := (siz + 7) >> 3
	return &Code{
		Bitmap: make([]byte, siz*stride),
		Size:   siz,
		Stride: stride,
	}
}

// Black reports whether the pixel at x, y is black.  Pixels outside
// the grid are white.
func (c *Code) Black(x, y int) bool {
	return 0 <= x && x < c.Size && 0 <= y && y < c.Size &&
		c.Bitmap[y*c.Stride+x/8]&(0x80>>uint(x&7)) != 0
}

// Set sets the colour of the pixel at x, y.
func (c *Code) Set(x, y int, black bool) {
	off, bit := y*c.Stride+x/8, byte(0x80)>>uint(x&7)
	if black {
		c.Bitmap[off] |= bit
	} else {
		c.Bitmap[off] &^= bit
	}
}

// Clone returns a copy of c.
func (c *Code) Clone() *Code {
	cc := *c
	cc.Bitmap = append([]byte(nil), c.Bitmap...)
	return &cc
}

// A Plan describes the layout of a QR code of a specific version:
// which pixels hold function patterns and what colour they are.
// Data and check bits go in all other pixels.
type Plan struct {
	Version Version // QR code version
	Size    int     // number of pixels on a side

	Map     *Code // black pixels are reserved for function patterns
	Pattern *Code // colours of function patterns, format excluded
}

// Plans are created the first time a version is used and shared
// afterwards.  They are read-only.
var plans [MaxVersion + 1]struct {
	once sync.Once
	p    *Plan
}

// NewPlan returns the Plan for a QR code of version v.  The Plan is
// shared and must not be modified.
func NewPlan(v Version) (*Plan, error) {
	if !v.Valid() {
		return nil, ErrVersion
	}
	p := &plans[v]
	p.once.Do(func() { p.p = vplan(v) })
	return p.p, nil
}

// reserve marks the pixel at x, y as a function pattern pixel of
// the given colour.
func (p *Plan) reserve(x, y int, black bool) {
	p.Map.Set(x, y, true)
	p.Pattern.Set(x, y, black)
}

// vplan creates a Plan for the given version.
func vplan(v Version) *Plan {
	siz := v.Size()
	p := &Plan{
		Version: v,
		Size:    siz,
		Map:     NewCode(siz),
		Pattern: NewCode(siz),
	}

	// Timing markers (overwritten by boxes).
	for i := 0; i < siz; i++ {
		p.reserve(i, 6, i&1 == 0)
		p.reserve(6, i, i&1 == 0)
	}

	// Position boxes.
	posBox(p, 0, 0)
	posBox(p, siz-7, 0)
	posBox(p, 0, siz-7)

	// Alignment boxes.
	pos := alignPositions(v)
	last := len(pos) - 1
	for i, y := range pos {
		for j, x := range pos {
			if i == 0 && (j == 0 || j == last) || j == 0 && i == last {
				continue // position box
			}
			alignBox(p, x, y)
		}
	}

	// Format pixels, drawn later for each mask.
	for i := 0; i < 9; i++ {
		p.Map.Set(8, i, true)
		p.Map.Set(i, 8, true)
	}
	for i := 0; i < 8; i++ {
		p.Map.Set(siz-1-i, 8, true)
		p.Map.Set(8, siz-1-i, true)
	}

	// Version pattern.
	if pat := vtab[v].pattern; pat != 0 {
		for i := 0; i < 18; i++ {
			black := pat>>uint(i)&1 != 0
			p.reserve(siz-11+i%3, i/3, black)
			p.reserve(i/3, siz-11+i%3, black)
		}
	}

	// One lonely black pixel
	p.reserve(8, siz-8, true)

	return p
}

// posBox draws a position (large) box at upper left x, y, together
// with its white separator.
func posBox(p *Plan, x, y int) {
	for dy := -1; dy <= 7; dy++ {
		for dx := -1; dx <= 7; dx++ {
			xx, yy := x+dx, y+dy
			if xx < 0 || xx >= p.Size || yy < 0 || yy >= p.Size {
				continue
			}
			ring := max(abs(dx-3), abs(dy-3))
			p.reserve(xx, yy, ring != 2 && ring != 4)
		}
	}
}

// alignBox draws an alignment (small) box centred at x, y.
func alignBox(p *Plan, x, y int) {
	for dy := -2; dy <= 2; dy++ {
		for dx := -2; dx <= 2; dx++ {
			p.reserve(x+dx, y+dy, max(abs(dx), abs(dy)) != 1)
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// drawFormat draws the two copies of 15 bit format information fb
// into c, least significant bit first.
func drawFormat(c *Code, fb uint16) {
	siz := c.Size
	for i := 0; i < 15; i++ {
		black := fb>>uint(i)&1 != 0
		// top left
		switch {
		case i < 6:
			c.Set(8, i, black)
		case i < 8:
			c.Set(8, i+1, black)
		case i == 8:
			c.Set(7, 8, black)
		default:
			c.Set(14-i, 8, black)
		}
		// top right and bottom left
		if i < 8 {
			c.Set(siz-1-i, 8, black)
		} else {
			c.Set(8, siz-15+i, black)
		}
	}
}

// A Mask is a QR mask pattern number.
type Mask int

// MaskCount is the number of QR mask patterns.
const MaskCount = 8

// Mask patterns, for row i and column j:
//
//	0: ▄▀▄▀▄▀▄▀▄▀▄▀  1: ▄▄▄▄▄▄▄▄▄▄▄▄  2:  ██ ██ ██ ██  3: ▄█▀▄█▀▄█▀▄█▀
//	   ▄▀▄▀▄▀▄▀▄▀▄▀     ▄▄▄▄▄▄▄▄▄▄▄▄      ██ ██ ██ ██     ▀▄█▀▄█▀▄█▀▄█
//	   ▄▀▄▀▄▀▄▀▄▀▄▀     ▄▄▄▄▄▄▄▄▄▄▄▄      ██ ██ ██ ██     █▀▄█▀▄█▀▄█▀▄
//
//	4:    ███   ███  5:  ▄▄▄▄▄ ▄▄▄▄▄  6:    ▄▄▄   ▄▄▄  7: ▄█▄▀ ▀▄█▄▀ ▀
//	   ███   ███         █▀▄▀█ █▀▄▀█      ▄▀▄ █ ▄▀▄ █     ▄▀█▀▄ ▄▀█▀▄
//	      ███   ███      ██▄██ ██▄██      █▄▄▀  █▄▄▀      ▄  ▀██▄  ▀██
var mfunc = [MaskCount]func(i, j int) bool{
	func(i, j int) bool { return (i+j)%2 == 0 },
	func(i, j int) bool { return i%2 == 0 },
	func(i, j int) bool { return j%3 == 0 },
	func(i, j int) bool { return (i+j)%3 == 0 },
	func(i, j int) bool { return (i/2+j/3)%2 == 0 },
	func(i, j int) bool { return i*j%2+i*j%3 == 0 },
	func(i, j int) bool { return (i*j%2+i*j%3)%2 == 0 },
	func(i, j int) bool { return (i*j%3+(i+j)%2)%2 == 0 },
}

// Invert reports whether mask m inverts the pixel at row y, column x.
func (m Mask) Invert(y, x int) bool {
	return mfunc[m](y, x)
}

// apply XORs mask m over the data pixels of c, those not reserved
// in p.
func (p *Plan) apply(c *Code, m Mask) {
	for y := 0; y < p.Size; y++ {
		for x := 0; x < p.Size; x++ {
			if !p.Map.Black(x, y) && m.Invert(y, x) {
				c.Bitmap[y*c.Stride+x/8] ^= 0x80 >> uint(x&7)
			}
		}
	}
}

// DataPixels returns the number of pixels available for data and
// check bits, including remainder bits.
func (p *Plan) DataPixels() int {
	n := 0
	for y := 0; y < p.Size; y++ {
		for x := 0; x < p.Size; x++ {
			if !p.Map.Black(x, y) {
				n++
			}
		}
	}
	return n
}
