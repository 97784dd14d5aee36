// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"bytes"
	"encoding/xml"
	"image"
	"image/color"
	"io"
	"math"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unixdj/qrlogo"
)

const url = "http://picturesofpeoplescanningqrcodes.tumblr.com/"

func encode(t *testing.T, excavate bool) *qrlogo.Code {
	t.Helper()
	c, err := qrlogo.Encode(qrlogo.Text(url), qrlogo.L, 1,
		qrlogo.WithImage(qrlogo.ImageGeometry{
			Width: 24, Height: 24, Size: 128, Excavate: excavate,
		}))
	require.NoError(t, err)
	require.Equal(t, 29, c.Size)
	return c
}

func countRuns(c *qrlogo.Code) int {
	n := 0
	for y := 0; y < c.Size; y++ {
		for x := 0; x < c.Size; x++ {
			if c.Visible(x, y) && !c.Visible(x-1, y) {
				n++
			}
		}
	}
	return n
}

func TestRuns(t *testing.T) {
	c := encode(t, true)
	total := 0
	for y := 0; y < c.Size; y++ {
		last := -1
		runs(c, y, func(x, n int) {
			require.Greater(t, n, 0)
			require.Greater(t, x, last)
			for i := x; i < x+n; i++ {
				require.True(t, c.Visible(i, y))
			}
			assert.False(t, c.Visible(x-1, y))
			assert.False(t, c.Visible(x+n, y))
			last = x + n
			total++
		})
	}
	assert.Equal(t, countRuns(c), total)
}

type svgPath struct {
	Fill    string `xml:"fill,attr"`
	Opacity string `xml:"fill-opacity,attr"`
	D       string `xml:"d,attr"`
}

type svgGroup struct {
	Transform string     `xml:"transform,attr"`
	Rendering string     `xml:"shape-rendering,attr"`
	Paths     []svgPath  `xml:"path"`
	Groups    []svgGroup `xml:"g"`
	Image     *struct {
		Href        string `xml:"href,attr"`
		X           string `xml:"x,attr"`
		Width       string `xml:"width,attr"`
		Aspect      string `xml:"preserveAspectRatio,attr"`
		CrossOrigin string `xml:"crossorigin,attr"`
	} `xml:"image"`
}

// svgDoc holds the parts of SVG output under test.
type svgDoc struct {
	Width   string   `xml:"width,attr"`
	ViewBox string   `xml:"viewBox,attr"`
	Title   string   `xml:"title"`
	Root    svgGroup `xml:"g"`
}

// paths returns the background and module paths.
func (d *svgDoc) paths(t *testing.T) []svgPath {
	t.Helper()
	require.NotEmpty(t, d.Root.Groups)
	g := d.Root.Groups[0]
	assert.Equal(t, "crispEdges", g.Rendering)
	require.Len(t, g.Paths, 2)
	return g.Paths
}

func parseSVG(t *testing.T, c *qrlogo.Code, o Options) *svgDoc {
	t.Helper()
	var b bytes.Buffer
	require.NoError(t, SVG(&b, c, o))
	var doc svgDoc
	require.NoError(t, xml.Unmarshal(b.Bytes(), &doc), b.String())
	return &doc
}

func TestSVG(t *testing.T) {
	plain := encode(t, false)
	doc := parseSVG(t, plain, Options{Margin: DefaultMargin, Scale: 4})
	assert.Equal(t, "148", doc.Width)
	assert.Equal(t, "0 0 148 148", doc.ViewBox)
	assert.Equal(t, "scale(4)", doc.Root.Transform)
	assert.Empty(t, doc.Title)
	paths := doc.paths(t)
	assert.Equal(t, "#ffffff", paths[0].Fill)
	assert.Equal(t, "M0 0h37v37H0z", paths[0].D)
	assert.Equal(t, "#000000", paths[1].Fill)
	assert.Empty(t, paths[1].Opacity)
	assert.True(t, strings.HasPrefix(paths[1].D, "M4 4h7v1H4z"),
		paths[1].D[:20])
	assert.Equal(t, countRuns(plain), strings.Count(paths[1].D, "M"))
	assert.Len(t, doc.Root.Groups, 1)

	dug := encode(t, true)
	paths2 := parseSVG(t, dug, Options{Margin: DefaultMargin, Scale: 4}).paths(t)
	assert.Equal(t, countRuns(dug), strings.Count(paths2[1].D, "M"))
	assert.Less(t, len(paths2[1].D), len(paths[1].D))
}

func TestSVGMargin(t *testing.T) {
	c := encode(t, false)
	doc := parseSVG(t, c, Options{Margin: 6.5, Scale: 4, Title: "a < b & c"})
	assert.Equal(t, "168", doc.Width)
	assert.Equal(t, "0 0 168 168", doc.ViewBox)
	assert.Equal(t, "a < b & c", doc.Title)
	paths := doc.paths(t)
	assert.Equal(t, "M0 0h42v42H0z", paths[0].D)
	assert.True(t, strings.HasPrefix(paths[1].D, "M6.5 6.5h7v1H6.5z"),
		paths[1].D[:20])

	// negative and NaN margins are none
	for _, m := range []float64{-1, math.NaN()} {
		doc = parseSVG(t, c, Options{Margin: m})
		assert.Equal(t, "0 0 29 29", doc.ViewBox)
	}
}

func TestSVGImage(t *testing.T) {
	c := encode(t, true)
	empty, anon := "", "use-credentials"
	for _, tt := range []struct {
		co   *string
		want string
	}{
		{nil, ""},
		{&empty, "anonymous"},
		{&anon, "use-credentials"},
	} {
		doc := parseSVG(t, c, Options{Scale: 2,
			Href: "logo.png?a=1&b=2", CrossOrigin: tt.co})
		require.Len(t, doc.Root.Groups, 2)
		g := doc.Root.Groups[1]
		assert.Equal(t, "translate(11.78125 11.78125) scale(5.4375 5.4375)",
			g.Transform)
		require.NotNil(t, g.Image)
		assert.Equal(t, "logo.png?a=1&b=2", g.Image.Href)
		assert.Equal(t, "0", g.Image.X)
		assert.Equal(t, "1", g.Image.Width)
		assert.Equal(t, "none", g.Image.Aspect)
		assert.Equal(t, tt.want, g.Image.CrossOrigin)
	}

	// no image without geometry
	plain, err := qrlogo.Encode(qrlogo.Text(url), qrlogo.L, 1)
	require.NoError(t, err)
	doc := parseSVG(t, plain, Options{Href: "logo.png"})
	assert.Len(t, doc.Root.Groups, 1)
	assert.Equal(t, "0 0 29 29", doc.ViewBox)
}

func TestSVGColour(t *testing.T) {
	c := encode(t, false)
	paths := parseSVG(t, c, Options{
		Foreground: color.RGBA{0x11, 0x22, 0x33, 0xff},
		Background: color.NRGBA{0xff, 0, 0, 0x80},
	}).paths(t)
	assert.Equal(t, "#112233", paths[1].Fill)
	assert.Equal(t, "#ff0000", paths[0].Fill)
	assert.Equal(t, "0.502", paths[0].Opacity)
}

func rgba(c color.Color) color.RGBA {
	return color.RGBAModel.Convert(c).(color.RGBA)
}

func TestImage(t *testing.T) {
	const m, s = DefaultMargin, 4
	c := encode(t, true)
	img := Image(c, nil, Options{Margin: m, Scale: s})
	require.Equal(t, image.Rect(0, 0, 148, 148), img.Bounds())
	black, white := color.RGBA{0, 0, 0, 0xff}, color.RGBA{0xff, 0xff, 0xff, 0xff}
	for y := -m; y < c.Size+m; y++ {
		for x := -m; x < c.Size+m; x++ {
			want := white
			if c.Visible(x, y) {
				want = black
			}
			px, py := (x+m)*s+s/2, (y+m)*s+s/2
			require.Equal(t, want, rgba(img.At(px, py)), "%d,%d", x, y)
		}
	}

	logo := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for i := range logo.Pix {
		logo.Pix[i] = 0xff
		if i%4 == 1 || i%4 == 2 {
			logo.Pix[i] = 0
		}
	}
	img = Image(c, logo, Options{Margin: m, Scale: s,
		Background: color.White, Foreground: color.Black})
	// centre of the placement, 14.5 modules in
	p := rgba(img.At(74, 74))
	assert.InDelta(t, 0xff, int(p.R), 2)
	assert.InDelta(t, 0, int(p.G), 2)
	// outside the placement
	assert.Equal(t, black, rgba(img.At(m*s+1, m*s+1)))
}

func TestPBM(t *testing.T) {
	c := encode(t, true)
	var b bytes.Buffer
	require.NoError(t, PBM(&b, c, Options{Margin: DefaultMargin, Scale: 3}))
	const n = (29 + 8) * 3
	head := "P4\n111 111\n"
	require.True(t, strings.HasPrefix(b.String(), head))
	data := b.Bytes()[len(head):]
	stride := (n + 7) / 8
	require.Len(t, data, stride*n)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			bit := data[y*stride+x/8]&(0x80>>uint(x&7)) != 0
			want := c.Visible(x/3-DefaultMargin, y/3-DefaultMargin)
			require.Equal(t, want, bit, "%d,%d", x, y)
		}
	}

	b.Reset()
	require.NoError(t, PBM(&b, c, Options{}))
	assert.Equal(t, len("P4\n29 29\n")+29*4, b.Len())
}

func TestPBMMargin(t *testing.T) {
	c := encode(t, true)
	var b bytes.Buffer
	// 6.5 modules of 2 pixels
	require.NoError(t, PBM(&b, c, Options{Margin: 6.5, Scale: 2}))
	const n, bord = 29*2 + 2*13, 13
	head := "P4\n84 84\n"
	require.True(t, strings.HasPrefix(b.String(), head))
	data := b.Bytes()[len(head):]
	stride := (n + 7) / 8
	require.Len(t, data, stride*n)
	floor := func(p int) int {
		if p < 0 {
			return (p - 1) / 2
		}
		return p / 2
	}
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			bit := data[y*stride+x/8]&(0x80>>uint(x&7)) != 0
			want := c.Visible(floor(x-bord), floor(y-bord))
			require.Equal(t, want, bit, "%d,%d", x, y)
		}
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, io.ErrShortWrite }

func TestWriteError(t *testing.T) {
	c := encode(t, false)
	assert.Error(t, PBM(failWriter{}, c, Options{Margin: 4, Scale: 8}))
	assert.Error(t, SVG(failWriter{}, c, Options{}))
	assert.Error(t, Text(failWriter{}, c, Options{}))
}

func TestText(t *testing.T) {
	c := encode(t, false)
	var b bytes.Buffer
	require.NoError(t, Text(&b, c, Options{Margin: DefaultMargin}))
	lines := strings.Split(strings.TrimSuffix(b.String(), "\n"), "\n")
	require.Len(t, lines, 19)
	for _, l := range lines {
		assert.Equal(t, 37, utf8.RuneCountInString(l))
	}
	assert.Equal(t, strings.Repeat("█", 37), lines[0])
	assert.Equal(t, strings.Repeat("█", 37), lines[1])
	// rows 0 and 1 of the top left finder pattern: both dark, then
	// dark over light
	r := []rune(lines[2])
	assert.Equal(t, ' ', r[4])
	assert.Equal(t, '▄', r[5])
	assert.Equal(t, ' ', r[10])
	// the last margin row and the row past it
	assert.Equal(t, strings.Repeat("█", 37), lines[18])
}

func TestTextMargin(t *testing.T) {
	c := encode(t, false)
	var b bytes.Buffer
	// rounded to 7 modules
	require.NoError(t, Text(&b, c, Options{Margin: 6.5}))
	lines := strings.Split(strings.TrimSuffix(b.String(), "\n"), "\n")
	require.Len(t, lines, 22)
	for _, l := range lines {
		assert.Equal(t, 43, utf8.RuneCountInString(l))
	}
}
