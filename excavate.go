// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qrlogo

import (
	"image"
	"math"
)

// ImageGeometry places an overlay image over a code, in the pixel
// space of the rendered code without margin.
type ImageGeometry struct {
	// X and Y are the position of the upper left corner of the
	// image.  If nil, the image is centred.
	X, Y *float64

	Width, Height float64 // image size

	// Size is the rendered side length of the code.  The image is
	// scaled to module units by the code size in modules over Size.
	Size float64

	// Excavate clears the modules under the image.
	Excavate bool
}

func finite(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}

// check returns an *InvalidParameterError if g is unusable.
func (g *ImageGeometry) check() error {
	for _, v := range []struct {
		name string
		f    float64
	}{
		{"image width", g.Width},
		{"image height", g.Height},
		{"image size", g.Size},
	} {
		if !(v.f > 0) || !finite(v.f) {
			return &InvalidParameterError{v.name, "must be positive"}
		}
	}
	if g.X != nil && !finite(*g.X) {
		return &InvalidParameterError{"image x", "must be finite"}
	}
	if g.Y != nil && !finite(*g.Y) {
		return &InvalidParameterError{"image y", "must be finite"}
	}
	return nil
}

// An Excavation is an image placed over a code, in module units.
type Excavation struct {
	// Rect is the module-aligned rectangle covering the image,
	// clipped to the part of the code clear of position boxes,
	// timing and format and version information: Rect lies
	// within [9, Size) on both axes.  It may be empty.
	// Rect.Min.X is the column, Rect.Min.Y the row.
	Rect image.Rectangle

	// Image placement, not rounded or clipped.
	X, Y, Width, Height float64

	// Cleared reports whether the modules in Rect are excavated.
	// If not, Rect is advisory and the image is drawn over the
	// modules.
	Cleared bool
}

func (e *Excavation) contains(x, y int) bool {
	return image.Pt(x, y).In(e.Rect)
}

// SafeZone returns the region of a code of siz modules on a side in
// which excavation is allowed: right of and below the format
// information, which also keeps it off the finders, timing patterns and
// version blocks.
func SafeZone(siz int) image.Rectangle {
	return image.Rect(9, 9, siz, siz)
}

// excavation places g over a code of siz modules on a side.
func (g *ImageGeometry) excavation(siz int) *Excavation {
	n := float64(siz)
	s := n / g.Size
	e := &Excavation{
		Width:   g.Width * s,
		Height:  g.Height * s,
		Cleared: g.Excavate,
	}
	e.X = (n - e.Width) / 2
	if g.X != nil {
		e.X = *g.X * s
	}
	e.Y = (n - e.Height) / 2
	if g.Y != nil {
		e.Y = *g.Y * s
	}

	// Round edges outwards to module boundaries.
	clamp := func(f float64) int {
		return int(math.Max(-1, math.Min(f, n+1)))
	}
	x0, y0 := math.Floor(e.X), math.Floor(e.Y)
	x1 := x0 + math.Ceil(e.X+e.Width-x0)
	y1 := y0 + math.Ceil(e.Y+e.Height-y0)
	r := image.Rect(clamp(x0), clamp(y0), clamp(x1), clamp(y1))
	e.Rect = r.Intersect(SafeZone(siz))
	return e
}
