// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"bufio"
	"io"
	"math"

	"github.com/unixdj/qrlogo"
)

// halfBlocks are indexed by two bits: top module dark (2), bottom
// module dark (1).  Light modules are painted, for terminals with
// light text on a dark background.
var halfBlocks = [4]string{"█", "▀", "▄", " "}

// Text writes c to w as UTF-8 text, two modules to a character cell.
// Only o.Margin is used, rounded to whole modules.
func Text(w io.Writer, c *qrlogo.Code, o Options) error {
	o = o.norm()
	b := bufio.NewWriter(w)
	bord := int(math.Round(o.Margin))
	for y := -bord; y < c.Size+bord; y += 2 {
		for x := -bord; x < c.Size+bord; x++ {
			n := 0
			if c.Visible(x, y) {
				n = 2
			}
			if c.Visible(x, y+1) {
				n++
			}
			b.WriteString(halfBlocks[n])
		}
		b.WriteByte('\n')
	}
	return b.Flush()
}
