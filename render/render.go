// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package render draws QR codes produced by package qrlogo as SVG,
// raster images, netpbm bitmaps and terminal text.
//
// All renderers paint the visible modules of a code: modules cleared
// by excavation are drawn as background.
package render // import "github.com/unixdj/qrlogo/render"

import (
	"image/color"
	"math"

	"github.com/unixdj/qrlogo"
)

// DefaultMargin is the quiet zone width required by ISO/IEC 18004.
const DefaultMargin = 4

// Options control rendering.  The zero value renders black on white
// at one pixel per module without a quiet zone.
type Options struct {
	Margin float64 // quiet zone in modules, possibly fractional
	Scale  int     // pixels per module

	Foreground, Background color.Color // nil for black and white

	// Href is the URL of the overlay image in SVG output.  The image
	// is drawn only for codes made with an image geometry.
	Href string

	// CrossOrigin sets the crossorigin attribute of the SVG image.
	// If nil, the attribute is omitted; the empty string means
	// "anonymous".
	CrossOrigin *string

	// Title is the title of the SVG document, if not empty.
	Title string
}

func (o Options) norm() Options {
	if !(o.Margin > 0) || math.IsInf(o.Margin, 0) {
		o.Margin = 0
	}
	if o.Scale < 1 {
		o.Scale = 1
	}
	if o.Foreground == nil {
		o.Foreground = color.Black
	}
	if o.Background == nil {
		o.Background = color.White
	}
	return o
}

// side returns the side length of the rendered code in modules.
func (o Options) side(c *qrlogo.Code) float64 {
	return float64(c.Size) + 2*o.Margin
}

// pixels returns the side length of the rendered code in pixels.
func (o Options) pixels(c *qrlogo.Code) int {
	return int(math.Round(o.side(c) * float64(o.Scale)))
}

// border returns the quiet zone width in pixels.
func (o Options) border() int {
	return int(math.Round(o.Margin * float64(o.Scale)))
}

// runs calls f for each horizontal run of n visible modules starting
// at x in row y.
func runs(c *qrlogo.Code, y int, f func(x, n int)) {
	siz := c.Size
	for x := 0; x < siz; {
		for x < siz && !c.Visible(x, y) {
			x++
		}
		s := x
		for x < siz && c.Visible(x, y) {
			x++
		}
		if x > s {
			f(s, x-s)
		}
	}
}
