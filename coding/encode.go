// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import "fmt"

// Serialise writes bits from s to the data pixels of c in zigzag scan
// order: pairs of columns from right to left, skipping the vertical
// timing strip, sweeping up and down alternately, right column first.
func (p *Plan) Serialise(s BitStream, c *Code) {
	siz := p.Size
	for right := siz - 1; right >= 1; right -= 2 {
		if right == 6 { // vertical timing strip
			right = 5
		}
		up := (right+1)&2 == 0
		for n := 0; n < siz; n++ {
			y := n
			if up {
				y = siz - 1 - n
			}
			for x := right; x >= right-1; x-- {
				if !p.Map.Black(x, y) && s.Next() != 0 {
					c.Set(x, y, true)
				}
			}
		}
	}
}

// compose returns the QR code consisting of data masked with m, the
// function patterns and the format information for level l.
func (p *Plan) compose(data *Code, l Level, m Mask) *Code {
	c := data.Clone()
	p.apply(c, m)
	for i, v := range p.Map.Bitmap {
		c.Bitmap[i] = c.Bitmap[i]&^v | p.Pattern.Bitmap[i]
	}
	drawFormat(c, formatBits(l, m))
	return c
}

// Encoder encodes a QR code.
type Encoder struct {
	p *Plan
	l Level
	b *Bits
}

// NewEncoder returns an Encoder for the given version and level.
func NewEncoder(version Version, level Level) (*Encoder, error) {
	p, err := NewPlan(version)
	if err != nil {
		return nil, err
	}
	if !level.Valid() {
		return nil, ErrLevel
	}
	return &Encoder{p: p, l: level, b: NewBits(version)}, nil
}

// Write adds text to e.
func (e *Encoder) Write(text ...Segment) error {
	class := e.p.Version.SizeClass()
	for _, t := range text {
		if err := t.Encode(e.b, class); err != nil {
			return err
		}
	}
	return nil
}

// Reset discards data written to e, so that it can be reused.
func (e *Encoder) Reset() { e.b.Reset() }

// Code returns a QR code containing data written to e and the mask
// chosen for it.  Masks are tried in ascending order and the first
// one with the lowest penalty wins.
func (e *Encoder) Code() (*Code, Mask, error) {
	v, l := e.p.Version, e.l
	if nb := v.DataBits(l); e.b.Bits() > nb {
		return nil, 0, fmt.Errorf("qr: cannot encode %d bits into %d-bit code",
			e.b.Bits(), nb)
	}
	e.b.AddCheckBytes(v, l)

	// Now we have the checksum bytes and the data bytes.
	// Construct the bitmap consisting of data and checksum bits.
	data := NewCode(e.p.Size)
	e.p.Serialise(NewBitStream(e.b.Interleave(v, l)), data)

	// Apply masks to the bitmap to construct the actual codes.
	// Choose the code with the smallest penalty.
	var best *Code
	var mask Mask
	pen := 1 << 30 // largest penalty is < 1<<20
	for m := Mask(0); m < MaskCount; m++ {
		c := e.p.compose(data, l, m)
		if p := c.Penalty(); p < pen {
			best, mask, pen = c, m, p
		}
	}
	return best, mask, nil
}

// Encode is a wrapper around Write and Code.
func (e *Encoder) Encode(text ...Segment) (*Code, Mask, error) {
	if err := e.Write(text...); err != nil {
		return nil, 0, err
	}
	return e.Code()
}

// Encode encodes text using an Encoder with the given version and level.
func Encode(version Version, level Level, text ...Segment) (*Code, Mask, error) {
	e, err := NewEncoder(version, level)
	if err != nil {
		return nil, 0, err
	}
	return e.Encode(text...)
}
