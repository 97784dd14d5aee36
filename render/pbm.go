// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"bufio"
	"io"
	"strconv"

	"github.com/unixdj/qrlogo"
)

// PBM writes a Portable Bit Map image displaying c to w, for use with
// netpbm.  PBM disregards o.Foreground and o.Background, as other PNM
// formats are not supported.
func PBM(w io.Writer, c *qrlogo.Code, o Options) error {
	o = o.norm()
	b := bufio.NewWriter(w)
	siz := c.Size
	scale := o.Scale
	bord := o.border()
	length := scale*siz + bord*2
	ls := strconv.Itoa(length)
	if _, err := b.WriteString("P4\n" + ls + " " + ls + "\n"); err != nil {
		return err
	}
	row := make([]byte, (length+7)/8)
	for i := 0; i < bord; i++ {
		if _, err := b.Write(row); err != nil {
			return err
		}
	}
	for y := 0; y < siz; y++ {
		pbmRow(row, c, y, scale, bord)
		for i := 0; i < scale; i++ {
			if _, err := b.Write(row); err != nil {
				return err
			}
		}
	}
	clear(row)
	for i := 0; i < bord; i++ {
		if _, err := b.Write(row); err != nil {
			return err
		}
	}
	return b.Flush()
}

// pbmRow encodes row y of c in PBM format, after bord pixels of
// quiet zone.  1 is black.
func pbmRow(row []byte, c *qrlogo.Code, y, scale, bord int) {
	clear(row)
	j := bord
	runs(c, y, func(x, n int) {
		for p := j + x*scale; p < j+(x+n)*scale; p++ {
			row[p>>3] |= 0x80 >> uint(p&7)
		}
	})
}
