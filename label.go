package genesis

import "github.com/go-gl/mathgl/mgl32"

// Label is a drawable run of text. It renders its string once into a
// private texture and then draws that texture as a single tinted quad
// per frame, so the per-frame cost is one draw call regardless of
// string length.
//
// Mutations (SetText, SetSize, SetFace) are cheap and only take
// effect at the next Update call, which re-runs layout and replaces
// the texture. SetColor needs no Update; the tint is applied at draw
// time.
type Label struct {
	tr        *TextRenderer
	faceIndex int
	text      string
	size      int
	color     Color

	// texture and quad are nil while the laid-out text is empty.
	texture Texture
	quad    VertexBuffer
	width   int
	height  int
}

// NewLabel creates a label with the default text "label" at size 16
// in white, backed by a fresh 16x16 texture. Call Update after
// changing the text to render it.
func NewLabel(tr *TextRenderer, faceIndex int) (*Label, error) {
	l := &Label{
		tr:        tr,
		faceIndex: faceIndex,
		text:      "label",
		size:      16,
		color:     ColorWhite,
		width:     16,
		height:    16,
	}
	tex, err := tr.backend.NewTexture(16, 16)
	if err != nil {
		return nil, err
	}
	tex.Surface().Clear(ColorTransparent)
	quad, err := tr.backend.NewVertexBuffer(quadVertices(16, 16))
	if err != nil {
		tex.Release()
		return nil, err
	}
	l.texture = tex
	l.quad = quad
	return l, nil
}

// SetText stores new text. Nothing is re-rendered until Update.
func (l *Label) SetText(text string) {
	l.text = text
}

// Text returns the stored text, which may not be rendered yet.
func (l *Label) Text() string {
	return l.text
}

// SetColor sets the tint color applied at draw time.
func (l *Label) SetColor(c Color) {
	l.color = c
}

// Color returns the current tint color.
func (l *Label) Color() Color {
	return l.color
}

// SetSize stores a new font pixel size, effective at the next Update.
func (l *Label) SetSize(size int) {
	l.size = size
}

// Size returns the font pixel size.
func (l *Label) Size() int {
	return l.size
}

// SetFace stores a new face index, effective at the next Update.
// The index must come from the renderer's face registry.
func (l *Label) SetFace(faceIndex int) {
	l.faceIndex = faceIndex
}

// Face returns the face index.
func (l *Label) Face() int {
	return l.faceIndex
}

// Bounds returns the pixel size of the rendered texture. Zero for a
// label whose laid-out text was empty.
func (l *Label) Bounds() (width, height int) {
	return l.width, l.height
}

// Update lays the stored text out and renders it into a new texture
// of exactly the bounding size. Empty text is legal and leaves the
// label with no texture, making Draw a no-op.
func (l *Label) Update() error {
	m, err := l.tr.measureText(l.faceIndex, l.size, l.text)
	if err != nil {
		return err
	}

	l.releaseBuffers()
	l.width, l.height = m.width, m.height
	if m.width == 0 || m.height == 0 {
		return nil
	}

	tex, err := l.tr.backend.NewTexture(m.width, m.height)
	if err != nil {
		return err
	}
	dst := tex.Surface()
	dst.Clear(ColorTransparent)
	if err := l.tr.renderText(dst, m, l.faceIndex, l.size, l.text); err != nil {
		tex.Release()
		return err
	}
	quad, err := l.tr.backend.NewVertexBuffer(quadVertices(float32(m.width), float32(m.height)))
	if err != nil {
		tex.Release()
		return err
	}
	l.texture = tex
	l.quad = quad
	return nil
}

// Draw composites the label's texture with the given matrix, tinting
// it with the label color through the text program.
func (l *Label) Draw(surface Surface, matrix mgl32.Mat4) error {
	if l.texture == nil {
		return nil
	}
	return surface.Draw(DrawCall{
		Vertices: l.quad,
		Indices:  l.tr.quadIndices,
		Program:  l.tr.textProgram,
		Uniforms: Uniforms{Matrix: matrix, Texture: l.texture, Color: l.color},
		Blend:    BlendAlpha,
	})
}

// AnchorPos reports the label's transform pivot, its top-left corner.
func (l *Label) AnchorPos() (x, y float32) {
	return 0, 0
}

// Release frees the label's texture and vertex buffer.
func (l *Label) Release() {
	l.releaseBuffers()
	l.width, l.height = 0, 0
}

func (l *Label) releaseBuffers() {
	if l.texture != nil {
		l.texture.Release()
		l.texture = nil
	}
	if l.quad != nil {
		l.quad.Release()
		l.quad = nil
	}
}
