// Package font implements the engine's Face and FontLoader interfaces
// on golang.org/x/image/font/sfnt, rasterizing glyph outlines on the
// CPU with golang.org/x/image/vector.
package font

import (
	"fmt"
	"image"
	"image/draw"
	"os"

	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/adithasan/genesis"
)

// Loader implements genesis.FontLoader by parsing TTF and OTF files.
// The zero value is ready to use.
type Loader struct {
	// Hinting is applied to advance and kerning lookups.
	Hinting xfont.Hinting
}

// NewLoader returns a Loader with hinting disabled.
func NewLoader() *Loader {
	return &Loader{}
}

// LoadFace reads and parses a font file.
func (l *Loader) LoadFace(path string) (genesis.Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	f, err := New(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %q: %w", path, err)
	}
	f.hinting = l.Hinting
	return f, nil
}

// Face is one parsed font. It owns an sfnt parsing buffer and a
// rasterizer, so it must not be used from more than one goroutine.
type Face struct {
	font    *sfnt.Font
	buffer  sfnt.Buffer
	raster  vector.Rasterizer
	hinting xfont.Hinting
}

// New parses font data. The data must stay unmodified for the life of
// the face; sfnt parses it lazily.
func New(data []byte) (*Face, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, err
	}
	return &Face{font: f}, nil
}

// Glyph rasterizes the glyph for ch at the given pixel size. Runes
// the font does not map return an error wrapping
// genesis.ErrGlyphNotFound.
func (f *Face) Glyph(ch rune, size int) (*genesis.RasterGlyph, error) {
	ppem := fixed.I(size)
	index, err := f.font.GlyphIndex(&f.buffer, ch)
	if err != nil {
		return nil, fmt.Errorf("glyph index for %q: %w", ch, err)
	}
	if index == 0 {
		return nil, fmt.Errorf("%w: %q", genesis.ErrGlyphNotFound, ch)
	}

	segments, err := f.font.LoadGlyph(&f.buffer, index, ppem, nil)
	if err != nil {
		return nil, fmt.Errorf("load glyph %q: %w", ch, err)
	}
	advance, err := f.font.GlyphAdvance(&f.buffer, index, ppem, f.hinting)
	if err != nil {
		return nil, fmt.Errorf("glyph advance %q: %w", ch, err)
	}

	bmp, left, top := f.rasterize(segments)
	return &genesis.RasterGlyph{
		Bitmap: bmp,
		Left:   left,
		Top:    top,
		// 26.6 to 16.16 fixed point.
		AdvanceX: int32(advance) << 10,
		AdvanceY: 0,
		Index:    genesis.GlyphIndex(index),
	}, nil
}

// Kern returns the kerning between two glyphs in 1/64 pixel units.
// Pairs without kerning data, and the zero "no previous glyph"
// sentinel, yield no adjustment.
func (f *Face) Kern(prev, curr genesis.GlyphIndex, size int) (dx, dy int32) {
	if prev == 0 || curr == 0 {
		return 0, 0
	}
	k, err := f.font.Kern(&f.buffer, sfnt.GlyphIndex(prev), sfnt.GlyphIndex(curr), fixed.I(size), f.hinting)
	if err != nil {
		// sfnt.ErrNotFound means the pair simply has no kerning.
		return 0, 0
	}
	return int32(k), 0
}

// rasterize fills an outline into a tight gray bitmap. The returned
// bearings locate the bitmap relative to the glyph origin: left in
// pixels from the pen to the first column, top in pixels from the
// baseline up to the first row.
func (f *Face) rasterize(segments sfnt.Segments) (genesis.Bitmap, int, int) {
	if len(segments) == 0 {
		return genesis.Bitmap{Mode: genesis.PixelModeGray}, 0, 0
	}

	// Outline coordinates are 26.6 with the y axis pointing down.
	// Shift everything into the positive quadrant at whole-pixel
	// granularity, so the bearings stay exact.
	bounds := segments.Bounds()
	floorMinX := bounds.Min.X &^ 63
	floorMinY := bounds.Min.Y &^ 63
	width := (bounds.Max.X - floorMinX).Ceil()
	height := (bounds.Max.Y - floorMinY).Ceil()
	if width <= 0 || height <= 0 {
		return genesis.Bitmap{Mode: genesis.PixelModeGray}, 0, 0
	}

	f.raster.Reset(width, height)
	f.raster.DrawOp = draw.Src
	shift := func(p fixed.Point26_6) (float32, float32) {
		return float32(p.X-floorMinX) / 64, float32(p.Y-floorMinY) / 64
	}
	for _, seg := range segments {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			x, y := shift(seg.Args[0])
			f.raster.MoveTo(x, y)
		case sfnt.SegmentOpLineTo:
			x, y := shift(seg.Args[0])
			f.raster.LineTo(x, y)
		case sfnt.SegmentOpQuadTo:
			cx, cy := shift(seg.Args[0])
			x, y := shift(seg.Args[1])
			f.raster.QuadTo(cx, cy, x, y)
		case sfnt.SegmentOpCubeTo:
			cax, cay := shift(seg.Args[0])
			cbx, cby := shift(seg.Args[1])
			x, y := shift(seg.Args[2])
			f.raster.CubeTo(cax, cay, cbx, cby, x, y)
		}
	}

	mask := image.NewAlpha(image.Rect(0, 0, width, height))
	f.raster.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	bmp := genesis.Bitmap{
		Width:  width,
		Height: height,
		Pitch:  width,
		Mode:   genesis.PixelModeGray,
		Pix:    mask.Pix,
	}
	return bmp, int(floorMinX >> 6), -int(floorMinY >> 6)
}
