// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unixdj/qrlogo/gf256"
)

func TestBitsWrite(t *testing.T) {
	var b Bits
	b.Write(0b101, 3)
	b.Write(0xabc, 12)
	b.Write(1, 1)
	assert.Equal(t, 16, b.Bits())
	assert.Equal(t, []byte{0xb5, 0x79}, b.Bytes())

	b.Reset()
	b.Write(0x12345, 20)
	assert.Panics(t, func() { b.Bytes() })
	b.Write(0x6, 4)
	assert.Equal(t, []byte{0x12, 0x34, 0x56}, b.Bytes())
}

func TestBitsPad(t *testing.T) {
	for _, tt := range []struct {
		nbit int
		n    int
		want []byte
	}{
		{0, 0, []byte{}},
		{0, 8, []byte{0x00}},
		{0, 24, []byte{0x00, 0xec, 0x11}},
		{3, 32, []byte{0xe0, 0xec, 0x11, 0xec}},
		{6, 8, []byte{0xfc}}, // terminator truncated to 2 bits
		{14, 16, []byte{0xff, 0xfc}},
		{16, 16, []byte{0xff, 0xff}}, // no room for terminator
	} {
		var b Bits
		for i := 0; i < tt.nbit; i++ {
			b.Write(1, 1)
		}
		b.Pad(tt.n)
		assert.Equal(t, tt.n, b.Bits(), "%d to %d", tt.nbit, tt.n)
		assert.Equal(t, tt.want, append([]byte{}, b.Bytes()...),
			"%d to %d", tt.nbit, tt.n)
	}
	assert.Panics(t, func() {
		var b Bits
		b.Write(0, 9)
		b.Pad(8)
	})
}

// HELLO WORLD encoded as a version 1-M QR code.
var (
	helloData = []byte{
		32, 91, 11, 120, 209, 114, 220, 77,
		67, 64, 236, 17, 236, 17, 236, 17,
	}
	helloCheck = []byte{196, 35, 39, 119, 235, 215, 231, 226, 93, 23}
)

func TestHelloWorld(t *testing.T) {
	b := NewBits(1)
	seg := Segment{"HELLO WORLD", Alphanumeric}
	require.NoError(t, seg.Encode(b, Class0))
	assert.Equal(t, 74, b.Bits())
	assert.Equal(t, seg.EncodedLength(Class0), b.Bits())
	b.AddCheckBytes(1, M)
	assert.Equal(t, append(append([]byte{}, helloData...), helloCheck...),
		b.Bytes())
	// one block: interleaving is the identity
	assert.Equal(t, b.Bytes(), b.Interleave(1, M))
}

func TestInterleave(t *testing.T) {
	// 5-Q has two blocks of 15 and two of 16 data bytes.
	const v, l = Version(5), Q
	nd := v.DataBytes(l)
	require.Equal(t, 62, nd)
	b := NewBits(v)
	for i := 0; i < nd; i++ {
		b.Write(uint32(i), 8)
	}
	b.AddCheckBytes(v, l)
	out := b.Interleave(v, l)
	require.Len(t, out, v.Bytes())
	assert.Equal(t, []byte{0, 15, 30, 46, 1, 16, 31, 47}, out[:8])
	assert.Equal(t, []byte{14, 29, 44, 60, 45, 61}, out[56:62])

	nblock, check := v.Blocks(l)
	rs := gf256.NewRSEncoder(Field, check)
	starts := []int{0, 15, 30, 46}
	ends := []int{15, 30, 46, 62}
	data := make([]byte, nd)
	for i := range data {
		data[i] = byte(i)
	}
	for i := 0; i < nblock; i++ {
		chk := make([]byte, check)
		rs.ECC(data[starts[i]:ends[i]], chk)
		for j, c := range chk {
			assert.Equal(t, c, out[nd+j*nblock+i], "block %d check %d", i, j)
		}
	}
}

func TestBitStream(t *testing.T) {
	s := NewBitStream([]byte{0xa5})
	var got []byte
	for i := 0; i < 10; i++ {
		got = append(got, s.Next())
	}
	assert.Equal(t, []byte{1, 0, 1, 0, 0, 1, 0, 1, 0, 0}, got)
}

func TestClassify(t *testing.T) {
	for _, tt := range []struct {
		s    string
		want Mode
	}{
		{"", Numeric},
		{"1234567890", Numeric},
		{"HELLO WORLD", Alphanumeric},
		{"$%*+-./:", Alphanumeric},
		{"1A", Alphanumeric},
		{"hello", Byte},
		{"HELLO!", Byte},
		{"火と氷", Byte},
		{"123\x00", Byte},
	} {
		assert.Equal(t, tt.want, Classify(tt.s), "%q", tt.s)
	}
}

func TestModeAccepts(t *testing.T) {
	const alnum = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ $%*+-./:"
	for c := 0; c < 256; c++ {
		b := byte(c)
		assert.Equal(t, '0' <= b && b <= '9', Numeric.Accepts(b), "%#02x", c)
		assert.Equal(t, strings.IndexByte(alnum, b) >= 0,
			Alphanumeric.Accepts(b), "%#02x", c)
		assert.True(t, Byte.Accepts(b))
		if i := strings.IndexByte(alnum, b); i >= 0 {
			assert.Equal(t, byte(i), alpha[b&0x3f], "%q", b)
		}
	}
	assert.False(t, Mode(9).Accepts('0'))
}

func TestEncodedLength(t *testing.T) {
	for _, tt := range []struct {
		seg   Segment
		class int
		want  int
	}{
		{Segment{"01234567", Numeric}, Class0, 4 + 10 + 27},
		{Segment{"0", Numeric}, Class2, 4 + 14 + 4},
		{Segment{"01", Numeric}, Class1, 4 + 12 + 7},
		{Segment{"AC-42", Alphanumeric}, Class0, 4 + 9 + 28},
		{Segment{"abc", Byte}, Class0, 4 + 8 + 24},
		{Segment{"abc", Byte}, Class1, 4 + 16 + 24},
		{Segment{strings.Repeat("a", 256), Byte}, Class0, tooLong},
	} {
		assert.Equal(t, tt.want, tt.seg.EncodedLength(tt.class), "%v", tt.seg)
		if tt.want == tooLong {
			assert.GreaterOrEqual(t, len(tt.seg.Text),
				1<<tt.seg.Mode.CountLength(tt.class))
			continue
		}
		var b Bits
		require.NoError(t, tt.seg.Encode(&b, tt.class))
		assert.Equal(t, tt.want, b.Bits(), "%v", tt.seg)
	}

	for _, tt := range []struct {
		mode Mode
		want [3]int
	}{
		{Numeric, [3]int{10, 12, 14}},
		{Alphanumeric, [3]int{9, 11, 13}},
		{Byte, [3]int{8, 16, 16}},
	} {
		for class, want := range tt.want {
			assert.Equal(t, want, tt.mode.CountLength(class), "%v %d", tt.mode, class)
		}
	}
}

func TestSegmentEncode(t *testing.T) {
	// ISO/IEC 18004 examples.
	var b Bits
	require.NoError(t, Segment{"01234567", Numeric}.Encode(&b, Class0))
	b.Write(0, 7)
	assert.Equal(t, []byte{
		0b0001_0000, 0b0010_0000, 0b0000_1100, 0b0101_0110, 0b0110_0001,
		0b1000_0000,
	}, b.Bytes())

	b.Reset()
	require.NoError(t, Segment{"AC-42", Alphanumeric}.Encode(&b, Class0))
	b.Write(0, 7)
	assert.Equal(t, []byte{
		0b0010_0000, 0b0010_1001, 0b1100_1110, 0b1110_0111, 0b0010_0001,
		0b0000_0000,
	}, b.Bytes())

	b.Reset()
	b.Write(1, 1)
	require.NoError(t, Segment{"\xff\x01", Byte}.Encode(&b, Class0))
	b.Write(0, 3)
	assert.Equal(t, []byte{0xa0, 0x17, 0xf8, 0x08}, b.Bytes())
}

func TestSegmentError(t *testing.T) {
	err := Segment{"12a4", Numeric}.Encode(new(Bits), Class0)
	var se *SegmentError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 2, se.Offset)
	assert.Equal(t, `qr: non-numeric byte 0x61 at offset 2`, err.Error())

	err = Segment{"abc", Alphanumeric}.Check()
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 0, se.Offset)

	assert.NoError(t, Segment{"", Numeric}.Check())
	assert.EqualError(t, Segment{"x", Mode(5)}.Check(), "qr: invalid mode 5")
}
