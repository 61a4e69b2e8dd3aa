// Package opengl renders genesis draw calls through OpenGL 4.1 core.
//
// The backend owns no window machinery beyond swapping buffers; the
// application creates the GLFW window (see CreateWindow), makes the
// context current and calls gl.Init before constructing the Backend.
// All methods must run on the thread that owns the GL context.
package opengl

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/adithasan/genesis"
)

// Backend implements genesis.Backend on an OpenGL 4.1 core context.
type Backend struct {
	window *glfw.Window
	vao    uint32
}

// New creates a backend for a window whose GL context is current and
// initialized.
func New(window *glfw.Window) (*Backend, error) {
	if window == nil {
		return nil, fmt.Errorf("opengl: nil window")
	}
	b := &Backend{window: window}
	gl.GenVertexArrays(1, &b.vao)
	if b.vao == 0 {
		return nil, fmt.Errorf("opengl: create vertex array failed")
	}
	return b, nil
}

// Delete releases the backend's GL objects. Programs, textures and
// buffers handed out earlier are released through their own Release
// methods.
func (b *Backend) Delete() {
	if b.vao != 0 {
		gl.DeleteVertexArrays(1, &b.vao)
		b.vao = 0
	}
}

// CompileProgram compiles and links a GLSL program and resolves the
// engine's uniform locations.
func (b *Backend) CompileProgram(vertexSrc, fragmentSrc string) (genesis.Program, error) {
	id, err := createShaderProgram(vertexSrc+"\x00", fragmentSrc+"\x00")
	if err != nil {
		return nil, err
	}
	return &Program{
		id:        id,
		locMatrix: gl.GetUniformLocation(id, gl.Str("matrix\x00")),
		locTex:    gl.GetUniformLocation(id, gl.Str("tex\x00")),
		locColor:  gl.GetUniformLocation(id, gl.Str("color\x00")),
	}, nil
}

// NewTexture creates an uninitialized RGBA texture usable as a render
// target through its Surface.
func (b *Backend) NewTexture(width, height int) (genesis.Texture, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("opengl: invalid texture size %dx%d", width, height)
	}
	t := b.newTexture(width, height)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return t, nil
}

// NewGrayTexture uploads tight single-channel rows into a RED
// texture.
func (b *Backend) NewGrayTexture(width, height int, pix []byte) (genesis.Texture, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("opengl: invalid texture size %dx%d", width, height)
	}
	if len(pix) < width*height {
		return nil, fmt.Errorf("opengl: gray texture data too short: have %d bytes, want %d", len(pix), width*height)
	}
	t := b.newTexture(width, height)
	// Rows are byte-tight, not 4-aligned.
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.R8, int32(width), int32(height), 0, gl.RED, gl.UNSIGNED_BYTE, ptr(pix))
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return t, nil
}

// NewRGBATexture uploads tight RGBA rows.
func (b *Backend) NewRGBATexture(width, height int, pix []byte) (genesis.Texture, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("opengl: invalid texture size %dx%d", width, height)
	}
	if len(pix) < 4*width*height {
		return nil, fmt.Errorf("opengl: rgba texture data too short: have %d bytes, want %d", len(pix), 4*width*height)
	}
	t := b.newTexture(width, height)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, ptr(pix))
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return t, nil
}

// NewVertexBuffer uploads vertex data into a buffer object.
func (b *Backend) NewVertexBuffer(vertices []genesis.Vertex) (genesis.VertexBuffer, error) {
	vb := &VertexBuffer{}
	gl.GenBuffers(1, &vb.id)
	gl.BindBuffer(gl.ARRAY_BUFFER, vb.id)
	if len(vertices) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*int(unsafe.Sizeof(genesis.Vertex{})), gl.Ptr(vertices), gl.STATIC_DRAW)
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return vb, nil
}

// NewIndexBuffer uploads index data. The upload binds the backend VAO
// because the element buffer binding lives in VAO state.
func (b *Backend) NewIndexBuffer(indices []uint16) (genesis.IndexBuffer, error) {
	ib := &IndexBuffer{count: int32(len(indices))}
	gl.BindVertexArray(b.vao)
	gl.GenBuffers(1, &ib.id)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ib.id)
	if len(indices) > 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*2, gl.Ptr(indices), gl.STATIC_DRAW)
	}
	gl.BindVertexArray(0)
	return ib, nil
}

// BeginFrame targets the window framebuffer at its current size.
func (b *Backend) BeginFrame() genesis.Surface {
	w, h := b.window.GetFramebufferSize()
	return &frameSurface{backend: b, width: w, height: h}
}

// EndFrame presents the finished frame.
func (b *Backend) EndFrame() {
	b.window.SwapBuffers()
}

// FramebufferSize reports the window framebuffer size in pixels.
func (b *Backend) FramebufferSize() (width, height int) {
	return b.window.GetFramebufferSize()
}

// draw issues one call against whatever framebuffer and viewport the
// calling surface has bound.
func (b *Backend) draw(call genesis.DrawCall) error {
	prog, ok := call.Program.(*Program)
	if !ok {
		return fmt.Errorf("opengl: foreign program %T", call.Program)
	}
	vb, ok := call.Vertices.(*VertexBuffer)
	if !ok {
		return fmt.Errorf("opengl: foreign vertex buffer %T", call.Vertices)
	}
	ib, ok := call.Indices.(*IndexBuffer)
	if !ok {
		return fmt.Errorf("opengl: foreign index buffer %T", call.Indices)
	}
	tex, ok := call.Uniforms.Texture.(*Texture)
	if !ok {
		return fmt.Errorf("opengl: foreign texture %T", call.Uniforms.Texture)
	}

	gl.UseProgram(prog.id)

	matrix := call.Uniforms.Matrix
	gl.UniformMatrix4fv(prog.locMatrix, 1, false, &matrix[0])

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, tex.id)
	gl.Uniform1i(prog.locTex, 0)

	c := call.Uniforms.Color
	gl.Uniform4f(prog.locColor, c.R, c.G, c.B, c.A)

	switch call.Blend {
	case genesis.BlendAlpha:
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	default:
		gl.Disable(gl.BLEND)
	}
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.Disable(gl.SCISSOR_TEST)

	gl.BindVertexArray(b.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vb.id)
	stride := int32(unsafe.Sizeof(genesis.Vertex{}))
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, stride, unsafe.Offsetof(genesis.Vertex{}.TexCoords))
	gl.EnableVertexAttribArray(1)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ib.id)

	gl.DrawElementsWithOffset(gl.TRIANGLE_STRIP, ib.count, gl.UNSIGNED_SHORT, 0)

	gl.BindVertexArray(0)
	return nil
}

// Program is a linked GLSL program with the engine uniforms resolved.
type Program struct {
	id        uint32
	locMatrix int32
	locTex    int32
	locColor  int32
}

// Release deletes the program object.
func (p *Program) Release() {
	if p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}

// VertexBuffer is a GL buffer object holding vertices.
type VertexBuffer struct {
	id uint32
}

// Release deletes the buffer object.
func (vb *VertexBuffer) Release() {
	if vb.id != 0 {
		gl.DeleteBuffers(1, &vb.id)
		vb.id = 0
	}
}

// IndexBuffer is a GL buffer object holding triangle strip indices.
type IndexBuffer struct {
	id    uint32
	count int32
}

// Release deletes the buffer object.
func (ib *IndexBuffer) Release() {
	if ib.id != 0 {
		gl.DeleteBuffers(1, &ib.id)
		ib.id = 0
	}
}

// Texture is a GL texture, lazily paired with a framebuffer object
// the first time it is rendered into.
type Texture struct {
	backend *Backend
	id      uint32
	fbo     uint32
	width   int
	height  int
}

// newTexture generates and binds a texture with the engine's sampling
// parameters. The caller uploads data and unbinds.
func (b *Backend) newTexture(width, height int) *Texture {
	t := &Texture{backend: b, width: width, height: height}
	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	return t
}

// Size reports the texture dimensions.
func (t *Texture) Size() (width, height int) {
	return t.width, t.height
}

// Surface returns a render target drawing into the texture.
func (t *Texture) Surface() genesis.Surface {
	return &textureSurface{t: t}
}

// Release deletes the texture and its framebuffer, if one was made.
func (t *Texture) Release() {
	if t.fbo != 0 {
		gl.DeleteFramebuffers(1, &t.fbo)
		t.fbo = 0
	}
	if t.id != 0 {
		gl.DeleteTextures(1, &t.id)
		t.id = 0
	}
}

// frameSurface targets the default framebuffer.
type frameSurface struct {
	backend *Backend
	width   int
	height  int
}

func (s *frameSurface) bind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, int32(s.width), int32(s.height))
}

// Size reports the framebuffer size.
func (s *frameSurface) Size() (width, height int) {
	return s.width, s.height
}

// Clear fills the framebuffer with a color.
func (s *frameSurface) Clear(c genesis.Color) {
	s.bind()
	gl.ClearColor(c.R, c.G, c.B, c.A)
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

// Draw issues one call against the framebuffer.
func (s *frameSurface) Draw(call genesis.DrawCall) error {
	s.bind()
	return s.backend.draw(call)
}

// textureSurface targets a texture through a lazily created FBO.
type textureSurface struct {
	t *Texture
}

func (s *textureSurface) bind() error {
	if s.t.id == 0 {
		return fmt.Errorf("opengl: render into released texture")
	}
	if s.t.fbo == 0 {
		gl.GenFramebuffers(1, &s.t.fbo)
		gl.BindFramebuffer(gl.FRAMEBUFFER, s.t.fbo)
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, s.t.id, 0)
		if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
			return fmt.Errorf("opengl: framebuffer incomplete: 0x%x", status)
		}
	} else {
		gl.BindFramebuffer(gl.FRAMEBUFFER, s.t.fbo)
	}
	gl.Viewport(0, 0, int32(s.t.width), int32(s.t.height))
	return nil
}

// Size reports the texture dimensions.
func (s *textureSurface) Size() (width, height int) {
	return s.t.width, s.t.height
}

// Clear fills the texture with a color, alpha included.
func (s *textureSurface) Clear(c genesis.Color) {
	if err := s.bind(); err != nil {
		return
	}
	gl.ClearColor(c.R, c.G, c.B, c.A)
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

// Draw issues one call against the texture.
func (s *textureSurface) Draw(call genesis.DrawCall) error {
	if err := s.bind(); err != nil {
		return err
	}
	return s.t.backend.draw(call)
}

// createShaderProgram compiles and links a shader program. Sources
// must be NUL terminated.
func createShaderProgram(vertexSource, fragmentSource string) (uint32, error) {
	vertexShader := gl.CreateShader(gl.VERTEX_SHADER)
	csource, free := gl.Strs(vertexSource)
	gl.ShaderSource(vertexShader, 1, csource, nil)
	free()
	gl.CompileShader(vertexShader)

	var status int32
	gl.GetShaderiv(vertexShader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(vertexShader, gl.INFO_LOG_LENGTH, &logLength)
		log := make([]byte, logLength+1)
		gl.GetShaderInfoLog(vertexShader, logLength, nil, &log[0])
		return 0, fmt.Errorf("vertex shader compilation failed: %s", string(log))
	}

	fragmentShader := gl.CreateShader(gl.FRAGMENT_SHADER)
	csource, free = gl.Strs(fragmentSource)
	gl.ShaderSource(fragmentShader, 1, csource, nil)
	free()
	gl.CompileShader(fragmentShader)

	gl.GetShaderiv(fragmentShader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(fragmentShader, gl.INFO_LOG_LENGTH, &logLength)
		log := make([]byte, logLength+1)
		gl.GetShaderInfoLog(fragmentShader, logLength, nil, &log[0])
		return 0, fmt.Errorf("fragment shader compilation failed: %s", string(log))
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := make([]byte, logLength+1)
		gl.GetProgramInfoLog(program, logLength, nil, &log[0])
		return 0, fmt.Errorf("shader program linking failed: %s", string(log))
	}

	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)

	return program, nil
}

// ptr returns a GL upload pointer for a byte slice, nil for empty
// data.
func ptr(pix []byte) unsafe.Pointer {
	if len(pix) == 0 {
		return nil
	}
	return gl.Ptr(pix)
}
