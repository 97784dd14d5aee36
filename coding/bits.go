// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import "github.com/unixdj/qrlogo/gf256"

// Field is the field for QR error correction.
var Field = gf256.NewField(0x11d, 2)

// Bits is a big endian bit buffer.
type Bits struct {
	b    []byte
	nbit int
}

// NewBits returns Bits with enough capacity for a QR code of
// version v.
func NewBits(v Version) *Bits {
	return &Bits{b: make([]byte, 0, v.Bytes())}
}

func (b *Bits) Reset() {
	b.b = b.b[:0]
	b.nbit = 0
}

// Bits returns the number of bits written to b.
func (b *Bits) Bits() int {
	return b.nbit
}

// Bytes returns the contents of b.  It panics unless b holds
// a whole number of bytes.
func (b *Bits) Bytes() []byte {
	if b.nbit%8 != 0 {
		panic("qr: fractional byte")
	}
	return b.b
}

// Append appends whole bytes to b.
func (b *Bits) Append(p []byte) {
	if b.nbit%8 != 0 {
		panic("qr: fractional byte")
	}
	b.b = append(b.b, p...)
	b.nbit += 8 * len(p)
}

// Write appends the low nbit bits of v to b, most significant first.
func (b *Bits) Write(v uint32, nbit int) {
	for nbit > 0 {
		n := nbit
		if n > 8 {
			n = 8
		}
		if b.nbit%8 == 0 {
			b.b = append(b.b, 0)
		} else if m := -b.nbit & 7; n > m {
			n = m
		}
		b.nbit += n
		sh := uint(nbit - n)
		b.b[len(b.b)-1] |= uint8(v >> sh << uint(-b.nbit&7))
		v -= v >> sh << sh
		nbit -= n
	}
}

// Pad adds the terminator and padding to b to fill n bits.  The
// terminator is up to 4 zero bits, followed by zero bits up to the
// byte boundary and alternating 0xec, 0x11 pad bytes.  n must be a
// multiple of 8 no less than b.Bits().
func (b *Bits) Pad(n int) {
	if n < b.nbit || n%8 != 0 {
		panic("qr: invalid pad size")
	}
	b.Write(0, min(4, n-b.nbit))
	b.Write(0, -b.nbit&7)
	for pad := byte(0xec); b.nbit < n; pad ^= 0xec ^ 0x11 {
		b.Write(uint32(pad), 8)
	}
}

// AddCheckBytes adds terminator, padding and check bytes to b for the
// given QR version and level.  The data is split into blocks, the
// last blocks one byte longer when the data does not divide evenly,
// and each block is followed in b by its check bytes.
func (b *Bits) AddCheckBytes(v Version, l Level) {
	nd := v.DataBytes(l)
	if b.nbit > nd*8 {
		panic("qr: too much data")
	}
	b.Pad(nd * 8)

	dat := append([]byte(nil), b.Bytes()...)
	b.Reset()
	nblock, check := v.Blocks(l)
	db := nd / nblock
	extra := nd % nblock
	chk := make([]byte, check)
	rs := gf256.NewRSEncoder(Field, check)
	for i := 0; i < nblock; i++ {
		if i == nblock-extra {
			db++
		}
		rs.ECC(dat[:db], chk)
		b.Append(dat[:db])
		b.Append(chk)
		dat = dat[db:]
	}

	if len(b.Bytes()) != v.Bytes() {
		panic("qr: internal error")
	}
}

// Interleave returns the codewords in b, as laid out by
// AddCheckBytes, in the order they are placed in the symbol: the
// first data byte of each block, the second and so on, then the check
// bytes in the same fashion.
func (b *Bits) Interleave(v Version, l Level) []byte {
	src := b.Bytes()
	if len(src) != v.Bytes() {
		panic("qr: wrong data length")
	}
	nblock, check := v.Blocks(l)
	nd := v.DataBytes(l)
	db := nd / nblock
	short := nblock - nd%nblock

	// Split src into blocks of data and check bytes.
	data := make([][]byte, nblock)
	chk := make([][]byte, nblock)
	for i := range data {
		n := db
		if i >= short {
			n++
		}
		data[i], src = src[:n], src[n:]
		chk[i], src = src[:check], src[check:]
	}

	dst := make([]byte, 0, v.Bytes())
	for i := 0; i <= db; i++ {
		for _, d := range data {
			if i < len(d) {
				dst = append(dst, d[i])
			}
		}
	}
	for i := 0; i < check; i++ {
		for _, c := range chk {
			dst = append(dst, c[i])
		}
	}
	return dst
}

// BitStream reads bits from the underlying buffer.
type BitStream struct {
	b   []byte
	pos int
}

// NewBitStream returns a BitStream reading from b.
func NewBitStream(b []byte) BitStream { return BitStream{b: b} }

// Next returns the next bit from s as 0 or 1.
// Past end of buffer Next returns 0.
func (s *BitStream) Next() byte {
	var b byte
	if i := s.pos >> 3; i < len(s.b) {
		b = s.b[i] >> (7 &^ s.pos) & 1
		s.pos++
	}
	return b
}
