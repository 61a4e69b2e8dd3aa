package soft

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/adithasan/genesis"
)

// shadedVertex is a vertex after the vertex stage: window-space
// position plus interpolated texture coordinates.
type shadedVertex struct {
	x, y float32
	u, v float32
}

// Draw rasterizes one call into the texture. The index buffer is
// interpreted as a triangle strip and both windings are filled,
// matching a GL pipeline with face culling disabled.
func (t *Texture) Draw(call genesis.DrawCall) error {
	if t.gray {
		return fmt.Errorf("soft: gray texture is not a render target")
	}
	if t.pix == nil {
		return fmt.Errorf("soft: draw into released texture")
	}
	prog, ok := call.Program.(*program)
	if !ok {
		return fmt.Errorf("soft: foreign program %T", call.Program)
	}
	vb, ok := call.Vertices.(*VertexBuffer)
	if !ok {
		return fmt.Errorf("soft: foreign vertex buffer %T", call.Vertices)
	}
	ib, ok := call.Indices.(*IndexBuffer)
	if !ok {
		return fmt.Errorf("soft: foreign index buffer %T", call.Indices)
	}
	tex, ok := call.Uniforms.Texture.(*Texture)
	if !ok {
		return fmt.Errorf("soft: foreign texture %T", call.Uniforms.Texture)
	}

	shaded := make([]shadedVertex, len(vb.verts))
	for i, vert := range vb.verts {
		clip := call.Uniforms.Matrix.Mul4x1(mgl32.Vec4{vert.Position[0], vert.Position[1], vert.Position[2], 1})
		w := clip.W()
		if w == 0 {
			return fmt.Errorf("soft: vertex %d projects to w=0", i)
		}
		// NDC to window coordinates, y up.
		shaded[i] = shadedVertex{
			x: (clip.X()/w + 1) / 2 * float32(t.width),
			y: (clip.Y()/w + 1) / 2 * float32(t.height),
			u: vert.TexCoords[0],
			v: vert.TexCoords[1],
		}
	}

	for k := 0; k+2 < len(ib.indices); k++ {
		i0, i1, i2 := int(ib.indices[k]), int(ib.indices[k+1]), int(ib.indices[k+2])
		if i0 >= len(shaded) || i1 >= len(shaded) || i2 >= len(shaded) {
			return fmt.Errorf("soft: index out of range at strip position %d", k)
		}
		t.fillTriangle(shaded[i0], shaded[i1], shaded[i2], prog, tex, call.Uniforms.Color, call.Blend)
	}
	return nil
}

// edge is twice the signed area of the triangle (a, b, p).
func edge(a, b shadedVertex, px, py float32) float32 {
	return (b.x-a.x)*(py-a.y) - (b.y-a.y)*(px-a.x)
}

func (t *Texture) fillTriangle(v0, v1, v2 shadedVertex, prog *program, tex *Texture, color genesis.Color, blend genesis.Blend) {
	area := edge(v0, v1, v2.x, v2.y)
	if area == 0 {
		return
	}

	minX := clampi(int(math.Floor(float64(min(v0.x, v1.x, v2.x)))), 0, t.width)
	maxX := clampi(int(math.Ceil(float64(max(v0.x, v1.x, v2.x)))), 0, t.width)
	minY := clampi(int(math.Floor(float64(min(v0.y, v1.y, v2.y)))), 0, t.height)
	maxY := clampi(int(math.Ceil(float64(max(v0.y, v1.y, v2.y)))), 0, t.height)

	for py := minY; py < maxY; py++ {
		cy := float32(py) + 0.5
		for px := minX; px < maxX; px++ {
			cx := float32(px) + 0.5
			w0 := edge(v1, v2, cx, cy)
			w1 := edge(v2, v0, cx, cy)
			w2 := edge(v0, v1, cx, cy)
			if area > 0 {
				if w0 < 0 || w1 < 0 || w2 < 0 {
					continue
				}
			} else {
				if w0 > 0 || w1 > 0 || w2 > 0 {
					continue
				}
			}
			b0 := w0 / area
			b1 := w1 / area
			b2 := w2 / area
			u := b0*v0.u + b1*v1.u + b2*v2.u
			v := b0*v0.v + b1*v1.v + b2*v2.v
			t.blendPixel(px, py, prog.shade(tex, u, v, color), blend)
		}
	}
}

func (t *Texture) blendPixel(x, y int, src [4]float32, blend genesis.Blend) {
	i := (y*t.width + x) * 4
	switch blend {
	case genesis.BlendAlpha:
		// glBlendFunc(GL_SRC_ALPHA, GL_ONE_MINUS_SRC_ALPHA) applies
		// the same factors to all four channels.
		a := src[3]
		for k := 0; k < 4; k++ {
			t.pix[i+k] = src[k]*a + t.pix[i+k]*(1-a)
		}
	default:
		t.pix[i] = src[0]
		t.pix[i+1] = src[1]
		t.pix[i+2] = src[2]
		t.pix[i+3] = src[3]
	}
}
