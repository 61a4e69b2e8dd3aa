package genesis

import "errors"

// Sentinel errors returned by the text pipeline. Callers can match
// them with errors.Is; most carry extra context via wrapping.
var (
	// ErrGlyphNotFound reports that a face maps a rune to no glyph.
	// The glyph cache recovers from it by substituting a placeholder.
	ErrGlyphNotFound = errors.New("glyph not found in face")

	// ErrUnsupportedFormat reports a rasterized bitmap whose pixel
	// mode or row layout the texture conversion cannot handle.
	ErrUnsupportedFormat = errors.New("unsupported raster format")

	// ErrNoFontLoader is returned by Gui.LoadFace when the Gui was
	// built without a FontLoader.
	ErrNoFontLoader = errors.New("no font loader configured")
)
