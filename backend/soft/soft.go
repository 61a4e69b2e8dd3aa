// Package soft implements the genesis.Backend interface entirely on
// the CPU. It exists for headless rendering and for tests that need
// to assert on real pixels without a GPU context.
//
// The backend recognizes the engine's stock shader sources instead of
// compiling GLSL; unknown sources fail CompileProgram. Geometry is
// rasterized with affine barycentric interpolation and textures are
// sampled nearest-neighbor, which matches the GL backend exactly for
// the engine's axis-aligned unscaled draws and closely enough
// elsewhere.
package soft

import (
	"fmt"
	"image"

	"github.com/adithasan/genesis"
)

// Backend is a CPU implementation of genesis.Backend.
type Backend struct {
	width  int
	height int
	frame  *Texture
}

// New creates a backend with a frame surface of the given size.
func New(width, height int) *Backend {
	b := &Backend{}
	b.Resize(width, height)
	return b
}

// Resize replaces the frame surface. The old frame contents are
// discarded, like a window framebuffer on resize.
func (b *Backend) Resize(width, height int) {
	b.width, b.height = width, height
	b.frame = newTexture(width, height, false)
}

// Frame returns the frame texture for pixel inspection after a
// DrawFrame.
func (b *Backend) Frame() *Texture {
	return b.frame
}

// CompileProgram accepts the engine's stock shader sources and maps
// them to built-in pixel pipelines. Any other source fails, which is
// also how tests exercise the fatal-at-startup compile path.
func (b *Backend) CompileProgram(vertexSrc, fragmentSrc string) (genesis.Program, error) {
	if vertexSrc != genesis.VertexShader {
		return nil, fmt.Errorf("soft: unrecognized vertex shader")
	}
	switch fragmentSrc {
	case genesis.GlyphFragmentShader:
		return &program{kind: programGlyph}, nil
	case genesis.TextFragmentShader:
		return &program{kind: programText}, nil
	case genesis.ImageFragmentShader:
		return &program{kind: programImage}, nil
	}
	return nil, fmt.Errorf("soft: unrecognized fragment shader")
}

// NewTexture creates an empty RGBA render target.
func (b *Backend) NewTexture(width, height int) (genesis.Texture, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("soft: invalid texture size %dx%d", width, height)
	}
	return newTexture(width, height, false), nil
}

// NewGrayTexture creates a single-channel texture from tight coverage
// rows.
func (b *Backend) NewGrayTexture(width, height int, pix []byte) (genesis.Texture, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("soft: invalid texture size %dx%d", width, height)
	}
	if len(pix) < width*height {
		return nil, fmt.Errorf("soft: gray texture data too short: have %d bytes, want %d", len(pix), width*height)
	}
	t := newTexture(width, height, true)
	for i := 0; i < width*height; i++ {
		t.pix[i] = float32(pix[i]) / 255
	}
	return t, nil
}

// NewRGBATexture creates a color texture from tight RGBA rows.
func (b *Backend) NewRGBATexture(width, height int, pix []byte) (genesis.Texture, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("soft: invalid texture size %dx%d", width, height)
	}
	if len(pix) < 4*width*height {
		return nil, fmt.Errorf("soft: rgba texture data too short: have %d bytes, want %d", len(pix), 4*width*height)
	}
	t := newTexture(width, height, false)
	for i := 0; i < 4*width*height; i++ {
		t.pix[i] = float32(pix[i]) / 255
	}
	return t, nil
}

// NewVertexBuffer copies the vertex data.
func (b *Backend) NewVertexBuffer(vertices []genesis.Vertex) (genesis.VertexBuffer, error) {
	vb := &VertexBuffer{verts: make([]genesis.Vertex, len(vertices))}
	copy(vb.verts, vertices)
	return vb, nil
}

// NewIndexBuffer copies the index data.
func (b *Backend) NewIndexBuffer(indices []uint16) (genesis.IndexBuffer, error) {
	ib := &IndexBuffer{indices: make([]uint16, len(indices))}
	copy(ib.indices, indices)
	return ib, nil
}

// BeginFrame returns the frame surface.
func (b *Backend) BeginFrame() genesis.Surface {
	return b.frame
}

// EndFrame is a no-op; the frame stays readable until the next draw.
func (b *Backend) EndFrame() {}

// FramebufferSize reports the frame surface size.
func (b *Backend) FramebufferSize() (width, height int) {
	return b.width, b.height
}

const (
	programGlyph = iota
	programText
	programImage
)

// program selects one of the built-in pixel pipelines.
type program struct {
	kind int
}

func (p *program) Release() {}

// shade evaluates the fragment stage for one sample.
func (p *program) shade(tex *Texture, u, v float32, c genesis.Color) [4]float32 {
	s := tex.sample(u, v)
	switch p.kind {
	case programGlyph:
		return [4]float32{c.R, c.G, c.B, c.A * s[0]}
	case programText:
		return [4]float32{c.R, c.G, c.B, s[3] * c.A}
	default:
		return [4]float32{s[0] * c.R, s[1] * c.G, s[2] * c.B, s[3] * c.A}
	}
}

// VertexBuffer holds copied vertex data.
type VertexBuffer struct {
	verts []genesis.Vertex
}

// Release drops the data.
func (vb *VertexBuffer) Release() { vb.verts = nil }

// IndexBuffer holds copied index data.
type IndexBuffer struct {
	indices []uint16
}

// Release drops the data.
func (ib *IndexBuffer) Release() { ib.indices = nil }

// Texture is a CPU texture. RGBA textures double as render targets;
// every texture stores float32 channels with row 0 at texture
// coordinate v=0, the same orientation GL uses for uploaded data.
type Texture struct {
	width  int
	height int
	gray   bool
	pix    []float32
}

func newTexture(width, height int, gray bool) *Texture {
	channels := 4
	if gray {
		channels = 1
	}
	n := 0
	if width > 0 && height > 0 {
		n = channels * width * height
	}
	return &Texture{width: width, height: height, gray: gray, pix: make([]float32, n)}
}

// Size reports the texture dimensions.
func (t *Texture) Size() (width, height int) {
	return t.width, t.height
}

// Surface returns the texture as a render target.
func (t *Texture) Surface() genesis.Surface {
	return t
}

// Release drops the pixel storage.
func (t *Texture) Release() {
	t.pix = nil
}

// Clear fills the texture with a color, alpha included.
func (t *Texture) Clear(c genesis.Color) {
	if t.gray {
		for i := range t.pix {
			t.pix[i] = c.R
		}
		return
	}
	for i := 0; i < len(t.pix); i += 4 {
		t.pix[i] = c.R
		t.pix[i+1] = c.G
		t.pix[i+2] = c.B
		t.pix[i+3] = c.A
	}
}

// sample reads the texel nearest to (u, v), clamping to the edge.
// Gray textures land in the red channel, like a GL RED texture.
func (t *Texture) sample(u, v float32) [4]float32 {
	if t.width == 0 || t.height == 0 || t.pix == nil {
		return [4]float32{}
	}
	x := clampi(int(u*float32(t.width)), 0, t.width-1)
	y := clampi(int(v*float32(t.height)), 0, t.height-1)
	if t.gray {
		return [4]float32{t.pix[y*t.width+x], 0, 0, 1}
	}
	i := (y*t.width + x) * 4
	return [4]float32{t.pix[i], t.pix[i+1], t.pix[i+2], t.pix[i+3]}
}

// Image copies the texture out as an image.RGBA with rows flipped, so
// the top row of the returned image is the top of the rendered
// output.
func (t *Texture) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, t.width, t.height))
	for y := 0; y < t.height; y++ {
		src := t.height - 1 - y
		for x := 0; x < t.width; x++ {
			di := img.PixOffset(x, y)
			if t.gray {
				g := to8(t.pix[src*t.width+x])
				img.Pix[di] = g
				img.Pix[di+1] = g
				img.Pix[di+2] = g
				img.Pix[di+3] = 0xff
				continue
			}
			si := (src*t.width + x) * 4
			img.Pix[di] = to8(t.pix[si])
			img.Pix[di+1] = to8(t.pix[si+1])
			img.Pix[di+2] = to8(t.pix[si+2])
			img.Pix[di+3] = to8(t.pix[si+3])
		}
	}
	return img
}

func to8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 0xff
	}
	return uint8(v*255 + 0.5)
}

func clampi(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
