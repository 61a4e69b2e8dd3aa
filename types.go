package genesis

import "github.com/go-gl/mathgl/mgl32"

// Color is an RGBA color with float components in [0, 1].
type Color struct {
	R, G, B, A float32
}

// Common colors.
var (
	ColorWhite       = Color{1, 1, 1, 1}
	ColorBlack       = Color{0, 0, 0, 1}
	ColorRed         = Color{1, 0, 0, 1}
	ColorGreen       = Color{0, 1, 0, 1}
	ColorBlue        = Color{0, 0, 1, 1}
	ColorTransparent = Color{0, 0, 0, 0}
)

// RGB returns an opaque color.
func RGB(r, g, b float32) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// Vertex is one corner of a textured quad.
// Memory layout matches the vertex attribute expectations of the
// OpenGL backend: vec3 position followed by vec2 texture coordinates.
type Vertex struct {
	Position  [3]float32
	TexCoords [2]float32
}

// Blend selects how a draw call combines with the pixels already in
// the target surface.
type Blend uint8

const (
	// BlendNone overwrites the destination, alpha included.
	BlendNone Blend = iota
	// BlendAlpha is standard alpha blending:
	// src*alpha + dst*(1-alpha).
	BlendAlpha
)

// Uniforms are the per-draw shader inputs. Every program used by this
// package declares exactly these three uniforms.
type Uniforms struct {
	Matrix  mgl32.Mat4
	Texture Texture
	Color   Color
}

// DrawCall is a single textured-quad draw submitted to a Surface.
type DrawCall struct {
	Vertices VertexBuffer
	Indices  IndexBuffer
	Program  Program
	Uniforms Uniforms
	Blend    Blend
}

// quadIndices is the index order shared by every quad in this package.
// The four vertices are emitted top-left, bottom-left, top-right,
// bottom-right and drawn as a triangle strip.
var quadIndices = []uint16{0, 1, 2, 3}

// quadVertices builds the vertex data for a w by h quad with its
// top-left corner at the origin and texture coordinates covering the
// full texture.
func quadVertices(w, h float32) []Vertex {
	return []Vertex{
		{Position: [3]float32{0, 0, 0}, TexCoords: [2]float32{0, 0}},
		{Position: [3]float32{0, h, 0}, TexCoords: [2]float32{0, 1}},
		{Position: [3]float32{w, 0, 0}, TexCoords: [2]float32{1, 0}},
		{Position: [3]float32{w, h, 0}, TexCoords: [2]float32{1, 1}},
	}
}
