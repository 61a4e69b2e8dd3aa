package genesis

import (
	"image"
	"image/draw"

	"github.com/go-gl/mathgl/mgl32"
)

// Sprite is a drawable static image. The source image is uploaded
// once at construction; drawing is a single tinted quad.
type Sprite struct {
	tr      *TextRenderer
	texture Texture
	quad    VertexBuffer
	color   Color

	anchorX float32
	anchorY float32
	width   int
	height  int
}

// NewSprite uploads img and builds a quad of its pixel size. Images
// that are not already RGBA are converted first.
func NewSprite(tr *TextRenderer, img image.Image) (*Sprite, error) {
	b := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != 4*b.Dx() || b.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	}

	tex, err := tr.backend.NewRGBATexture(b.Dx(), b.Dy(), rgba.Pix)
	if err != nil {
		return nil, err
	}
	quad, err := tr.backend.NewVertexBuffer(quadVertices(float32(b.Dx()), float32(b.Dy())))
	if err != nil {
		tex.Release()
		return nil, err
	}
	return &Sprite{
		tr:      tr,
		texture: tex,
		quad:    quad,
		color:   ColorWhite,
		width:   b.Dx(),
		height:  b.Dy(),
	}, nil
}

// SetColor sets the tint multiplied into the image at draw time.
// White leaves the image unchanged.
func (s *Sprite) SetColor(c Color) {
	s.color = c
}

// Color returns the current tint.
func (s *Sprite) Color() Color {
	return s.color
}

// SetAnchor sets the pivot reported to the owning widget. Negative
// values pivot the widget's rotation and scale around an interior
// point; SetAnchor(-w/2, -h/2) pivots around the center.
func (s *Sprite) SetAnchor(x, y float32) {
	s.anchorX = x
	s.anchorY = y
}

// Bounds returns the image size in pixels.
func (s *Sprite) Bounds() (width, height int) {
	return s.width, s.height
}

// Draw composites the sprite with the given matrix through the image
// program.
func (s *Sprite) Draw(surface Surface, matrix mgl32.Mat4) error {
	return surface.Draw(DrawCall{
		Vertices: s.quad,
		Indices:  s.tr.quadIndices,
		Program:  s.tr.imageProgram,
		Uniforms: Uniforms{Matrix: matrix, Texture: s.texture, Color: s.color},
		Blend:    BlendAlpha,
	})
}

// AnchorPos reports the pivot set by SetAnchor.
func (s *Sprite) AnchorPos() (x, y float32) {
	return s.anchorX, s.anchorY
}

// Release frees the sprite's texture and vertex buffer.
func (s *Sprite) Release() {
	if s.texture != nil {
		s.texture.Release()
		s.texture = nil
	}
	if s.quad != nil {
		s.quad.Release()
		s.quad = nil
	}
}
