// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"

	svgo "github.com/ajstarks/svgo"

	"github.com/unixdj/qrlogo"
)

// SVG writes an SVG document displaying c to w.  The view box is in
// pixels; the code is drawn in module units scaled by o.Scale.
func SVG(w io.Writer, c *qrlogo.Code, o Options) error {
	o = o.norm()
	px := o.pixels(c)
	m := o.Margin
	b := bufio.NewWriter(w)
	canvas := svgo.New(b)
	canvas.Startview(px, px, 0, 0, px, px)
	if o.Title != "" {
		canvas.Title(o.Title)
	}
	canvas.Gtransform(fmt.Sprintf("scale(%d)", o.Scale))

	canvas.Group(`shape-rendering="crispEdges"`)
	n := ftoa(o.side(c))
	canvas.Path("M0 0h"+n+"v"+n+"H0z", fill(o.Background)...)
	var d strings.Builder
	for y := 0; y < c.Size; y++ {
		runs(c, y, func(x, l int) {
			x0, y0 := ftoa(float64(x)+m), ftoa(float64(y)+m)
			fmt.Fprintf(&d, "M%s %sh%dv1H%sz", x0, y0, l, x0)
		})
	}
	canvas.Path(d.String(), fill(o.Foreground)...)
	canvas.Gend()

	if e := c.Excavation; e != nil && o.Href != "" {
		// unit square stretched over the placement
		canvas.Gtransform(fmt.Sprintf("translate(%s %s) scale(%s %s)",
			ftoa(e.X+m), ftoa(e.Y+m), ftoa(e.Width), ftoa(e.Height)))
		attr := []string{`preserveAspectRatio="none"`}
		if co := o.CrossOrigin; co != nil {
			s := *co
			if s == "" {
				s = "anonymous"
			}
			attr = append(attr, `crossorigin="`+escape(s)+`"`)
		}
		canvas.Image(0, 0, 1, 1, escape(o.Href), attr...)
		canvas.Gend()
	}
	canvas.Gend()
	canvas.End()
	return b.Flush()
}

// fill returns fill and fill-opacity attributes for c.
func fill(c color.Color) []string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	a := []string{fmt.Sprintf(`fill="#%02x%02x%02x"`, n.R, n.G, n.B)}
	if n.A != 0xff {
		a = append(a, fmt.Sprintf(`fill-opacity="%.3g"`, float64(n.A)/0xff))
	}
	return a
}

// escape returns s escaped for use in an attribute value.
func escape(s string) string {
	var b strings.Builder
	xml.EscapeText(&b, []byte(s))
	return b.String()
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
