// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Qrlogo writes a QR code with room for a logo.
package main

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/pborman/getopt/v2"
	"golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/unixdj/qrlogo"
	"github.com/unixdj/qrlogo/render"
)

var g = struct {
	scale    int          // pixels per module
	margin   int          // quiet zone
	lev      qrlogo.Level // error correction level
	minv     int          // minimum version
	format   string       // output format
	fn       string       // output file name
	logo     string       // logo file name
	title    string       // SVG title
	w, h     float        // logo size in pixels
	x, y     float        // logo position in pixels
	bg, fg   rgba         // colours
	colSet   bool         // colour set
	excavate bool         // clear modules under the logo
	boost    bool         // raise error correction level
	latin1   bool         // Latin-1 byte mode
	byteOnly bool         // byte mode only
	debug    bool         // debug logging
}{
	bg: rgba{0xff, 0xff, 0xff, 0xff},
	fg: rgba{0x00, 0x00, 0x00, 0xff},
}

var logger *log.Logger

// logoFraction is the default logo width relative to the code.
const logoFraction = 0.2

func printUsage(w io.Writer) {
	cl := getopt.CommandLine
	prog := cl.Program()
	ul := make([]string, 1, 4)
	ul[0] = cl.UsageLine() + " [string ...]"
	ml := max(70-len("Usage: ")-1-len(prog), 0)
	for i := 0; len(ul[i]) > ml; i++ {
		s := ul[i]
		n := ml - 1
		for n > 0 && (s[n] != ' ' || s[n+1] != '[') {
			n--
		}
		ul = append(ul, s[n+1:])
		ul[i] = s[:max(n, 0)]
		ml = 60
	}
	fmt.Fprint(w, "QR code generator with logo support\nUsage: ", prog, " ",
		strings.Join(ul, "\n          "), `
If no string is given, data is read from standard input and the final
newline is stripped.  Defaults are taken from the environment variables
QRLOGO_LEVEL, QRLOGO_SCALE, QRLOGO_MARGIN, QRLOGO_FORMAT and
QRLOGO_LOG_LEVEL.

`)
	cl.PrintOptions(w)
}

type opt func()

func (opt) String() string                    { return "" }
func (o opt) Set(string, getopt.Option) error { o(); return nil }

func usage() {
	printUsage(os.Stderr)
	os.Exit(2)
}

func help() {
	printUsage(os.Stdout)
	os.Exit(0)
}

func version() {
	fmt.Println(`qrlogo version 0.1.0
Copyright (c) 2011 The Go Authors
Copyright (c) 2024 Vadim Vygonets`)
	os.Exit(0)
}

// float is a floating point flag value.
type float struct {
	f   float64
	set bool
}

func (f *float) String() string {
	if !f.set {
		return ""
	}
	return strconv.FormatFloat(f.f, 'g', -1, 64)
}

func (f *float) Set(s string, _ getopt.Option) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("%q: bad number", s)
	}
	f.f, f.set = v, true
	return nil
}

// ptr returns the value, or nil if unset.
func (f *float) ptr() *float64 {
	if !f.set {
		return nil
	}
	return &f.f
}

type rgba struct {
	R, G, B, A uint8
}

func (c *rgba) String() string {
	switch {
	case *c == (rgba{0x00, 0x00, 0x00, 0xff}):
		return "black"
	case *c == (rgba{0xff, 0xff, 0xff, 0xff}):
		return "white"
	case c.A == 0xff:
		return fmt.Sprintf("%02x%02x%02x", c.R, c.G, c.B)
	default:
		return fmt.Sprintf("%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
	}
}

func (c *rgba) Set(s string, _ getopt.Option) error {
	g.colSet = true
	switch strings.ToLower(s) {
	case "black":
		*c = rgba{0x00, 0x00, 0x00, 0xff}
		return nil
	case "white":
		*c = rgba{0xff, 0xff, 0xff, 0xff}
		return nil
	}
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return fmt.Errorf("%q: bad colour spec", s)
	}
	switch len(s) {
	case 3:
		n = n<<4 | 0xf
		fallthrough
	case 4:
		var nn uint64
		for i := 0; i < 4; i++ {
			nn <<= 8
			nn |= n >> 12 & 0xf * 0x11
			n <<= 4
		}
		n = nn
	case 6:
		n = n<<8 | 0xff
	case 8:
	default:
		return fmt.Errorf("%q: bad colour spec", s)
	}
	c.R, c.G, c.B, c.A = uint8(n>>24), uint8(n>>16), uint8(n>>8), uint8(n)
	return nil
}

var formats = []string{"svg", "png", "bmp", "pbm", "utf8"}

type writer func(w io.Writer, c *qrlogo.Code, logo image.Image, o render.Options) error

var writers = map[string]writer{
	"svg": func(w io.Writer, c *qrlogo.Code, _ image.Image, o render.Options) error {
		return render.SVG(w, c, o)
	},
	"png": func(w io.Writer, c *qrlogo.Code, logo image.Image, o render.Options) error {
		return png.Encode(w, render.Image(c, logo, o))
	},
	"bmp": func(w io.Writer, c *qrlogo.Code, logo image.Image, o render.Options) error {
		return bmp.Encode(w, render.Image(c, logo, o))
	},
	"pbm": func(w io.Writer, c *qrlogo.Code, _ image.Image, o render.Options) error {
		return render.PBM(w, c, o)
	},
	"utf8": func(w io.Writer, c *qrlogo.Code, _ image.Image, o render.Options) error {
		return render.Text(w, c, o)
	},
}

func parseFlags(cfg config) {
	getopt.SetUsage(usage)
	getopt.Flag(opt(help), 'h', "show this help").SetFlag()
	getopt.Flag(opt(version), 'V', "print version and copyright").SetFlag()
	getopt.FlagLong(&g.bg, "background", 'B', `background colour; see -F`,
		"RGB[A]|name")
	getopt.FlagLong(&g.fg, "foreground", 'F', `foreground colour `+
		`as 3, 4, 6 or 8 hex digits, "black" or "white"; `+
		`not for types pbm and utf8`, "RGB[A]|name")
	getopt.Flag(&g.latin1, '1', "encode data as Latin-1 in byte mode")
	getopt.Flag(&g.byteOnly, '8', "encode entire data in byte mode")
	getopt.Flag(&g.boost, 'b', "raise error correction level "+
		"while the version does not grow")
	getopt.Flag(&g.debug, 'd', "log debugging information")
	getopt.Flag(&g.excavate, 'e', "clear modules under the logo")
	getopt.Flag(&g.logo, 'i', `logo image file (PNG, JPEG or WebP); `+
		`for type svg, referenced by name`, "file")
	getopt.Flag(&g.w, 'W', `logo width in pixels [20% of the code]`, "width")
	getopt.Flag(&g.h, 'H', `logo height in pixels `+
		`[width scaled by the logo aspect ratio]`, "height")
	getopt.Flag(&g.x, 'x', `logo left edge in pixels from the code, `+
		`quiet zone excluded [centred]`, "x")
	getopt.Flag(&g.y, 'y', `logo top edge in pixels [centred]`, "y")
	getopt.Flag(&g.title, 'T', `document title; for type svg only`, "title")
	fno := getopt.Flag(&g.fn, 'o', `output file, or "-" for `+
		`standard output`, "file")
	margin := getopt.Unsigned('m', uint64(cfg.Margin),
		&getopt.UnsignedLimit{Base: 0, Bits: 8, Min: 0, Max: 255}, "quiet zone modules", "margin")
	ver := getopt.Unsigned('v', 1, &getopt.UnsignedLimit{Base: 0, Bits: 8, Min: 1, Max: 40},
		"minimum QR code version", "ver")
	lev := getopt.Enum('l',
		[]string{"l", "m", "q", "h", "L", "M", "Q", "H"}, cfg.Level,
		"error correction level, lowest to highest", "l|m|q|h")
	scale := getopt.Unsigned('s', uint64(cfg.Scale),
		&(getopt.UnsignedLimit{Base: 0, Bits: 28, Min: 1, Max: 1 << 12}),
		`image pixels per QR module; ignored for type utf8`, "scale")
	ff := getopt.Enum('t', formats, cfg.Format, `output format, one of: `+
		strings.Join(formats, ", ")+
		`; if no -o is given and standard output is a TTY, `+
		`default is utf8, otherwise png`, "type")

	getopt.Parse()
	if g.latin1 && g.byteOnly {
		fmt.Fprintln(os.Stderr, "-1 and -8 are incompatible")
		usage()
	}
	var err error
	if g.lev, err = qrlogo.ParseLevel(*lev); err != nil {
		logger.Fatal("bad level", "err", err)
	}
	g.scale = int(*scale)
	g.margin = int(*margin)
	g.minv = int(*ver)
	if *ff == "" {
		if !fno.Seen() && isatty.IsTerminal(uintptr(syscall.Stdout)) {
			*ff = "utf8"
		} else {
			*ff = "png"
		}
	}
	if _, ok := writers[*ff]; !ok {
		logger.Fatal("unknown output format", "format", *ff)
	}
	g.format = *ff
	if g.fn == "-" {
		g.fn = ""
	}
	if g.debug {
		logger.SetLevel(log.DebugLevel)
	}
}

// input returns the data to encode.
func input() string {
	if args := getopt.Args(); len(args) != 0 {
		return strings.Join(args, " ")
	}
	var b strings.Builder
	if _, err := io.Copy(&b, os.Stdin); err != nil {
		logger.Fatal("reading input", "err", err)
	}
	s, _ := strings.CutSuffix(
		strings.ReplaceAll(b.String(), "\r\n", "\n"), "\n")
	return s
}

func payload(s string) qrlogo.Payload {
	switch {
	case g.latin1:
		return qrlogo.Latin1(s)
	case g.byteOnly:
		return qrlogo.Binary([]byte(s))
	}
	return qrlogo.Text(s)
}

// loadLogo reads the logo image.  Both results are nil without -i.
func loadLogo() (image.Image, *image.Point) {
	if g.logo == "" {
		return nil, nil
	}
	b, err := os.ReadFile(g.logo)
	if err != nil {
		logger.Fatal("reading logo", "err", err)
	}
	img, kind, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		logger.Fatal("decoding logo", "file", g.logo, "err", err)
	}
	sz := img.Bounds().Size()
	logger.Debug("logo", "file", g.logo, "format", kind,
		"width", sz.X, "height", sz.Y)
	return img, &sz
}

// geometry places the logo over a code of siz modules, or returns nil
// if there is no logo.
func geometry(siz int, logo *image.Point) *qrlogo.ImageGeometry {
	if logo == nil && !g.w.set && !g.h.set {
		return nil
	}
	px := float64(siz * g.scale)
	aspect := 1.0
	if logo != nil && logo.X > 0 && logo.Y > 0 {
		aspect = float64(logo.Y) / float64(logo.X)
	}
	w, h := g.w.f, g.h.f
	switch {
	case g.w.set && g.h.set:
	case g.w.set:
		h = w * aspect
	case g.h.set:
		w = h / aspect
	default:
		w = px * logoFraction
		h = w * aspect
	}
	return &qrlogo.ImageGeometry{
		X:        g.x.ptr(),
		Y:        g.y.ptr(),
		Width:    w,
		Height:   h,
		Size:     px,
		Excavate: g.excavate,
	}
}

func main() {
	cfg, cerr := loadConfig()
	var err error
	logger, err = newLogger(cfg.LogLevel)
	if cerr != nil {
		logger.Fatal("bad environment", "err", cerr)
	}
	if err != nil {
		logger.Warn("bad log level", "level", cfg.LogLevel, "err", err)
	}
	parseFlags(cfg)

	p := payload(input())
	logo, logoSize := loadLogo()
	var opts []qrlogo.Option
	if g.boost {
		opts = append(opts, qrlogo.Boost())
	}
	c, err := qrlogo.Encode(p, g.lev, g.minv, opts...)
	if err != nil {
		logger.Fatal("encoding", "err", err)
	}
	// The image geometry is in pixels, so it needs the code size.
	if geo := geometry(c.Size, logoSize); geo != nil {
		opts = append(opts, qrlogo.WithImage(*geo))
		if c, err = qrlogo.Encode(p, g.lev, c.Version, opts...); err != nil {
			logger.Fatal("placing logo", "err", err)
		}
		e := c.Excavation
		logger.Debug("excavation", "rect", e.Rect, "cleared", e.Cleared)
	}
	logger.Debug("encoded", "bytes", p.Len(), "version", c.Version,
		"level", c.Level, "mask", c.Mask)

	write(c, logo)
}

func write(c *qrlogo.Code, logo image.Image) {
	o := render.Options{
		Margin: float64(g.margin),
		Scale:  g.scale,
		Href:   g.logo,
		Title:  g.title,
	}
	if g.colSet {
		o.Background, o.Foreground = color.RGBA(g.bg), color.RGBA(g.fg)
	}
	w := os.Stdout
	if g.fn != "" {
		var err error
		if w, err = os.OpenFile(g.fn, os.O_WRONLY|os.O_CREATE|os.O_TRUNC,
			0666); err != nil {
			logger.Fatal("opening output", "err", err)
		}
	}
	err := writers[g.format](w, c, logo, o)
	if g.fn != "" && err == nil {
		err = w.Close()
	}
	if err != nil {
		logger.Fatal("writing output", "err", err)
	}
}
