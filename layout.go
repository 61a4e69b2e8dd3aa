package genesis

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Text layout runs in two passes over the code points of a string.
// The bounding box must be known before the destination texture can
// be allocated, and glyph placement inside it depends on the tallest
// ascent in the whole string, so a measure pass has to finish before
// the render pass can start. Both passes advance the pen identically,
// which keeps their per-glyph positions in lockstep.

// textMetrics is the product of the measure pass.
type textMetrics struct {
	// width and height are the bounding box in pixels.
	width  int
	height int
	// above is the unrounded baseline offset: the tallest extent
	// above the baseline seen in the string.
	above float32
}

// measureText computes the bounding box of text at the given face and
// size, filling the glyph cache along the way.
func (tr *TextRenderer) measureText(faceIndex, size int, text string) (textMetrics, error) {
	var (
		aboveSize     float32
		belowSize     float32
		boundingWidth int
		penX, penY    float32
		prev          GlyphIndex
		first         = true
	)
	for _, ch := range text {
		entry, err := tr.cache.GetOrRasterize(CacheKey{Face: faceIndex, Size: size, Ch: ch})
		if err != nil {
			return textMetrics{}, err
		}
		if first {
			first = false
			dx, _ := tr.faces.At(faceIndex).Kern(prev, entry.Index, size)
			penX += float32(dx) / 64
		}

		// The pen rides the baseline; a glyph can extend above and
		// below it.
		left := penX + float32(entry.Left)
		top := penY + float32(entry.Top)
		right := int(math.Ceil(float64(left + float32(entry.Width))))

		aboveSize = max(aboveSize, top)
		belowSize = max(belowSize, float32(entry.Height)-top)
		boundingWidth = right

		prev = entry.Index
		penX += float32(entry.AdvanceX) / 65536
		penY += float32(entry.AdvanceY) / 65536
	}
	return textMetrics{
		width:  boundingWidth,
		height: int(math.Ceil(float64(aboveSize + belowSize))),
		above:  aboveSize,
	}, nil
}

// renderText stamps each glyph into dst, a surface of exactly the
// measured bounding size. Glyphs are drawn through the grayscale
// program with the color forced to opaque black; tinting happens
// later when the finished texture is composited on screen.
func (tr *TextRenderer) renderText(dst Surface, m textMetrics, faceIndex, size int, text string) error {
	projection := mgl32.Ortho2D(0, float32(m.width), 0, float32(m.height))
	var (
		penX, penY float32
		prev       GlyphIndex
		first      = true
	)
	for _, ch := range text {
		entry, err := tr.cache.GetOrRasterize(CacheKey{Face: faceIndex, Size: size, Ch: ch})
		if err != nil {
			return err
		}
		if first {
			first = false
			dx, _ := tr.faces.At(faceIndex).Kern(prev, entry.Index, size)
			penX += float32(dx) / 64
		}

		left := penX + float32(entry.Left)
		top := m.above - float32(entry.Top)

		quad, err := tr.backend.NewVertexBuffer(quadVertices(float32(entry.Width), float32(entry.Height)))
		if err != nil {
			return err
		}
		model := mgl32.Translate3D(left, top, 0)
		err = dst.Draw(DrawCall{
			Vertices: quad,
			Indices:  tr.quadIndices,
			Program:  tr.glyphProgram,
			Uniforms: Uniforms{
				Matrix:  projection.Mul4(model),
				Texture: entry.Texture,
				Color:   ColorBlack,
			},
			Blend: BlendNone,
		})
		quad.Release()
		if err != nil {
			return err
		}

		prev = entry.Index
		penX += float32(entry.AdvanceX) / 65536
		penY += float32(entry.AdvanceY) / 65536
	}
	return nil
}
