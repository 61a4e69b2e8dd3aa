package genesis

import "fmt"

// PixelMode describes the pixel format of a rasterized glyph bitmap.
type PixelMode uint8

const (
	// PixelModeGray is 8-bit coverage, one byte per pixel. The only
	// mode the texture conversion accepts.
	PixelModeGray PixelMode = iota
	// PixelModeMono is 1-bit packed coverage.
	PixelModeMono
	// PixelModeBGRA is 32-bit premultiplied color, as produced for
	// embedded color glyphs.
	PixelModeBGRA
)

func (m PixelMode) String() string {
	switch m {
	case PixelModeGray:
		return "gray"
	case PixelModeMono:
		return "mono"
	case PixelModeBGRA:
		return "bgra"
	}
	return fmt.Sprintf("mode(%d)", uint8(m))
}

// Bitmap is a rasterized glyph image as delivered by a Face. Pitch is
// the byte offset between rows; a negative pitch means the rows are
// stored bottom-up.
type Bitmap struct {
	Width  int
	Height int
	Pitch  int
	Mode   PixelMode
	Pix    []byte
}

// GrayPixels validates the bitmap for texture upload and returns its
// tightly packed coverage bytes. Only gray bitmaps with top-down,
// unpadded rows are supported; anything else returns an error
// wrapping ErrUnsupportedFormat.
func (b Bitmap) GrayPixels() ([]byte, error) {
	if b.Mode != PixelModeGray {
		return nil, fmt.Errorf("%w: pixel mode %s", ErrUnsupportedFormat, b.Mode)
	}
	if b.Pitch < 0 {
		return nil, fmt.Errorf("%w: negative pitch %d (bottom-up rows)", ErrUnsupportedFormat, b.Pitch)
	}
	if b.Pitch != b.Width {
		return nil, fmt.Errorf("%w: pitch %d does not match width %d", ErrUnsupportedFormat, b.Pitch, b.Width)
	}
	if want := b.Width * b.Height; len(b.Pix) < want {
		return nil, fmt.Errorf("bitmap pixel data too short: have %d bytes, want %d", len(b.Pix), want)
	}
	return b.Pix[:b.Width*b.Height], nil
}
