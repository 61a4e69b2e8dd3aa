package genesis

import "fmt"

// GlyphIndex identifies a glyph within a face. Index zero is the
// missing-glyph slot; kerning lookups also use it as the "no previous
// glyph" sentinel, which yields zero adjustment in any sane face.
type GlyphIndex uint32

// RasterGlyph is one glyph rasterized by a Face at a fixed pixel size.
type RasterGlyph struct {
	// Bitmap is the coverage image. It may be empty for glyphs with
	// no ink, like the space character.
	Bitmap Bitmap

	// Left is the horizontal bearing from the pen position to the
	// leftmost bitmap column, in pixels.
	Left int

	// Top is the vertical bearing from the baseline up to the
	// topmost bitmap row, in pixels.
	Top int

	// AdvanceX and AdvanceY are the pen advance in 1/65536 pixel
	// units.
	AdvanceX int32
	AdvanceY int32

	// Index is the glyph's index within its face, for kerning
	// lookups against the following glyph.
	Index GlyphIndex
}

// Face is the interface for a single loaded font face. The engine does
// not depend on any concrete font implementation; applications inject
// one (the font sub-package provides an sfnt-backed implementation,
// tests use hand-built fakes).
//
// Faces are used from the rendering thread only and need not be safe
// for concurrent use.
type Face interface {
	// Glyph rasterizes the glyph for a rune at the given pixel size.
	// It returns an error wrapping ErrGlyphNotFound when the face
	// has no mapping for the rune.
	Glyph(ch rune, size int) (*RasterGlyph, error)

	// Kern returns the pen adjustment to apply between two glyphs at
	// the given pixel size, in 1/64 pixel units. Unknown pairs and
	// the zero sentinel return no adjustment.
	Kern(prev, curr GlyphIndex, size int) (dx, dy int32)
}

// FontLoader opens font files and produces faces. Injected into the
// Gui so the engine never touches font parsing itself.
//
//	ui, err := genesis.New(backend, genesis.WithFontLoader(font.NewLoader()))
//	face, err := ui.LoadFace("assets/OpenSans-Regular.ttf")
type FontLoader interface {
	LoadFace(path string) (Face, error)
}

// FaceRegistry is an append-only list of loaded faces. The integer
// position of a face is its handle; handles stay valid for the life of
// the registry because faces are never removed.
type FaceRegistry struct {
	faces []Face
}

// Add appends a face and returns its index.
func (r *FaceRegistry) Add(f Face) int {
	r.faces = append(r.faces, f)
	return len(r.faces) - 1
}

// At returns the face for an index previously returned by Add.
// Passing any other index is a programming error and panics.
func (r *FaceRegistry) At(index int) Face {
	if index < 0 || index >= len(r.faces) {
		panic(fmt.Sprintf("genesis: face index %d out of range (registry holds %d)", index, len(r.faces)))
	}
	return r.faces[index]
}

// Len reports the number of registered faces.
func (r *FaceRegistry) Len() int {
	return len(r.faces)
}
