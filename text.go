package genesis

import "fmt"

// Shader sources shared by every backend. Backends that cannot
// compile GLSL (backend/soft) recognize these exact strings instead.
//
// All three programs declare the same uniform set: a mat4 "matrix", a
// sampler2D "tex" and a vec4 "color".
const (
	// VertexShader is the vertex stage used by all three programs.
	VertexShader = `
#version 410 core
layout (location = 0) in vec3 position;
layout (location = 1) in vec2 texCoords;

out vec2 TexCoord;

uniform mat4 matrix;

void main() {
    gl_Position = matrix * vec4(position, 1.0);
    TexCoord = texCoords;
}
`

	// GlyphFragmentShader stamps a single-channel glyph texture into
	// a label's destination texture. Coverage lands in the alpha
	// channel so the tinted pass can read it back later.
	GlyphFragmentShader = `
#version 410 core
in vec2 TexCoord;

out vec4 FragColor;

uniform sampler2D tex;
uniform vec4 color;

void main() {
    FragColor = vec4(color.rgb, color.a * texture(tex, TexCoord).r);
}
`

	// TextFragmentShader draws a finished label texture tinted by the
	// label color, reading coverage from the texture's alpha channel.
	TextFragmentShader = `
#version 410 core
in vec2 TexCoord;

out vec4 FragColor;

uniform sampler2D tex;
uniform vec4 color;

void main() {
    FragColor = vec4(color.rgb, texture(tex, TexCoord).a * color.a);
}
`

	// ImageFragmentShader draws a full-color texture modulated by a
	// tint color.
	ImageFragmentShader = `
#version 410 core
in vec2 TexCoord;

out vec4 FragColor;

uniform sampler2D tex;
uniform vec4 color;

void main() {
    FragColor = texture(tex, TexCoord) * color;
}
`
)

// TextRenderer owns the shared text rendering state: the compiled
// shader programs, the quad index buffer, the face registry and the
// glyph cache. One instance serves every label and sprite of a Gui.
//
// Used from the rendering thread only.
type TextRenderer struct {
	backend Backend
	faces   *FaceRegistry
	cache   *GlyphCache

	glyphProgram Program
	textProgram  Program
	imageProgram Program
	quadIndices  IndexBuffer
}

// NewTextRenderer compiles the shader programs and builds the shared
// quad index buffer. Compilation failure is fatal to construction;
// there is no fallback rendering path.
func NewTextRenderer(backend Backend) (*TextRenderer, error) {
	faces := &FaceRegistry{}
	tr := &TextRenderer{
		backend: backend,
		faces:   faces,
		cache:   NewGlyphCache(backend, faces),
	}

	var err error
	if tr.glyphProgram, err = backend.CompileProgram(VertexShader, GlyphFragmentShader); err != nil {
		return nil, fmt.Errorf("compile glyph program: %w", err)
	}
	if tr.textProgram, err = backend.CompileProgram(VertexShader, TextFragmentShader); err != nil {
		return nil, fmt.Errorf("compile text program: %w", err)
	}
	if tr.imageProgram, err = backend.CompileProgram(VertexShader, ImageFragmentShader); err != nil {
		return nil, fmt.Errorf("compile image program: %w", err)
	}
	if tr.quadIndices, err = backend.NewIndexBuffer(quadIndices); err != nil {
		return nil, fmt.Errorf("create quad index buffer: %w", err)
	}
	return tr, nil
}

// AddFace registers a loaded face and returns the index used to refer
// to it in labels and cache keys.
func (tr *TextRenderer) AddFace(f Face) int {
	return tr.faces.Add(f)
}

// Faces returns the face registry.
func (tr *TextRenderer) Faces() *FaceRegistry {
	return tr.faces
}

// Cache returns the glyph cache, mainly for inspecting its stats.
func (tr *TextRenderer) Cache() *GlyphCache {
	return tr.cache
}

// Release frees the programs and the shared index buffer. Cached
// glyph textures stay alive; they belong to the cache.
func (tr *TextRenderer) Release() {
	if tr.glyphProgram != nil {
		tr.glyphProgram.Release()
	}
	if tr.textProgram != nil {
		tr.textProgram.Release()
	}
	if tr.imageProgram != nil {
		tr.imageProgram.Release()
	}
	if tr.quadIndices != nil {
		tr.quadIndices.Release()
	}
}
