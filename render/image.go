// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"image"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"

	"github.com/unixdj/qrlogo"
)

// Image returns an image displaying c.  If logo is not nil and c has
// an image geometry, logo is scaled to the placement and drawn over
// the code.
func Image(c *qrlogo.Code, logo image.Image, o Options) image.Image {
	o = o.norm()
	s := float64(o.Scale)
	m := o.Margin
	px := o.pixels(c)
	dc := gg.NewContext(px, px)
	dc.SetColor(o.Background)
	dc.Clear()

	dc.SetColor(o.Foreground)
	for y := 0; y < c.Size; y++ {
		runs(c, y, func(x, n int) {
			dc.DrawRectangle((float64(x)+m)*s, (float64(y)+m)*s,
				float64(n)*s, s)
		})
	}
	dc.Fill()

	if e := c.Excavation; e != nil && logo != nil {
		x0 := int(math.Round((e.X + m) * s))
		y0 := int(math.Round((e.Y + m) * s))
		x1 := int(math.Round((e.X + e.Width + m) * s))
		y1 := int(math.Round((e.Y + e.Height + m) * s))
		if x1 > x0 && y1 > y0 {
			dst := image.NewRGBA(image.Rect(0, 0, x1-x0, y1-y0))
			draw.CatmullRom.Scale(dst, dst.Bounds(), logo, logo.Bounds(),
				draw.Over, nil)
			dc.DrawImage(dst, x0, y0)
		}
	}
	return dc.Image()
}
