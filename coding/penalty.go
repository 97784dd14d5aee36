// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

// Penalty returns the penalty value for a QR code.  The value is used
// for choosing the mask: the lower, the better.
//
// Total penalty is the sum of penalties for runs and boxes of
// same-colour pixels, finder patterns and colour balance.
//
//   - RunP: for non-overlapping runs of n pixels, n>=5 -> n-2
//   - BoxP: for possibly overlapping 2x2 boxes -> 3
//   - FindP: for finder-like patterns -> 40
//     The pattern is runs of 1:1:3:1:1 dark:light:dark:light:dark
//     of any unit width n, with 4n light on one side and n light
//     on the other; may extend into the quiet zone
//   - BalP: for n% of black pixels -> 10*(ceiling(abs(n-50)/5)-1)
//
// https://www.nayuki.io/page/creating-a-qr-code-step-by-step
func (c *Code) Penalty() int {
	const (
		MinRun    = 5  // RunP:  minimum run length
		RunPDelta = -2 // RunP:  add to run length
		BoxPP     = 3  // BoxP:  points per box
		FindPP    = 40 // FindP: points per pattern
		BalPP     = 10 // BalP:  10 points for every 5%
	)
	siz := c.Size
	p := 0
	dark := 0

	// line scans one row or column, reading pixel i with at.
	// Finder patterns are counted whenever a light run ends.
	// The quiet zone on both sides is light.
	line := func(at func(i int) bool) {
		var h runHistory
		col := false
		r := 0
		for i := 0; i < siz; i++ {
			b := at(i)
			if b == col {
				r++
				continue
			}
			if r >= MinRun {
				p += r + RunPDelta
			}
			h.push(r, siz)
			if !col {
				p += h.finders() * FindPP
			}
			col, r = b, 1
		}
		if r >= MinRun {
			p += r + RunPDelta
		}
		if col {
			h.push(r, siz)
			r = 0
		}
		h.push(r+siz, siz)
		p += h.finders() * FindPP
	}

	for y := 0; y < siz; y++ {
		line(func(x int) bool { return c.Black(x, y) })
	}
	for x := 0; x < siz; x++ {
		line(func(y int) bool { return c.Black(x, y) })
	}

	for y := 0; y < siz; y++ {
		for x := 0; x < siz; x++ {
			b := c.Black(x, y)
			if b {
				dark++
			}
			if x > 0 && y > 0 && b == c.Black(x-1, y) &&
				b == c.Black(x, y-1) && b == c.Black(x-1, y-1) {
				p += BoxPP
			}
		}
	}

	total := siz * siz
	k := (abs(dark*20-total*10)+total-1)/total - 1
	p += k * BalPP
	return p
}

// runHistory holds the lengths of the last seven runs in a line,
// the newest first.
type runHistory [7]int

// push records a finished run of n pixels.  The first run of a line
// is extended by the quiet zone.
func (h *runHistory) push(n, siz int) {
	if h[0] == 0 {
		n += siz
	}
	copy(h[1:], h[:6])
	h[0] = n
}

// finders returns the number of finder-like patterns around h[1:6]:
// dark, light, dark, light and dark runs in proportion 1:1:3:1:1,
// with light runs h[0] and h[6] on the sides, one of them at least 4
// times as long as the unit.  A pattern with two such sides counts
// twice.
func (h *runHistory) finders() int {
	n := h[1]
	if n == 0 || h[2] != n || h[3] != 3*n || h[4] != n || h[5] != n {
		return 0
	}
	f := 0
	if h[0] >= 4*n && h[6] >= n {
		f++
	}
	if h[6] >= 4*n && h[0] >= n {
		f++
	}
	return f
}
