package genesis

// Backend abstracts the rendering API the engine draws with. The
// backend/opengl package implements it on OpenGL 4.1 core; the
// backend/soft package implements it on the CPU for headless use and
// tests. All methods must be called from the thread that owns the
// rendering context.
type Backend interface {
	// CompileProgram builds a shader program from a vertex and a
	// fragment stage. Failure is fatal to engine construction.
	CompileProgram(vertexSrc, fragmentSrc string) (Program, error)

	// NewTexture creates an empty RGBA texture that can serve as a
	// render target via its Surface method. Zero dimensions are
	// legal and produce a texture that cannot be drawn into.
	NewTexture(width, height int) (Texture, error)

	// NewGrayTexture creates a single-channel texture from tightly
	// packed 8-bit coverage rows. Sampling yields the value in the
	// red channel.
	NewGrayTexture(width, height int, pix []byte) (Texture, error)

	// NewRGBATexture creates a texture from tightly packed 8-bit
	// RGBA rows.
	NewRGBATexture(width, height int, pix []byte) (Texture, error)

	// NewVertexBuffer uploads vertex data for later draws.
	NewVertexBuffer(vertices []Vertex) (VertexBuffer, error)

	// NewIndexBuffer uploads index data for later draws.
	NewIndexBuffer(indices []uint16) (IndexBuffer, error)

	// BeginFrame returns the surface for the current frame.
	BeginFrame() Surface

	// EndFrame presents the frame begun by BeginFrame.
	EndFrame()

	// FramebufferSize reports the pixel size of the frame surface.
	FramebufferSize() (width, height int)
}

// Surface is a render target: either the frame itself or a texture
// being drawn into. Coordinates are whatever the draw call's matrix
// maps to clip space; the engine uses pixel-space orthographic
// projections throughout.
type Surface interface {
	// Clear fills the whole surface with a color, alpha included.
	Clear(c Color)

	// Draw renders one textured quad.
	Draw(call DrawCall) error

	// Size reports the surface dimensions in pixels.
	Size() (width, height int)
}

// Texture is an image living on the backend. Textures created by
// NewTexture can additionally be rendered into.
type Texture interface {
	// Size reports the texture dimensions in pixels.
	Size() (width, height int)

	// Surface returns a render target backed by this texture.
	Surface() Surface

	// Release frees the texture. The texture must not be used
	// afterwards.
	Release()
}

// Program is a compiled shader program.
type Program interface {
	Release()
}

// VertexBuffer holds uploaded vertex data.
type VertexBuffer interface {
	Release()
}

// IndexBuffer holds uploaded index data.
type IndexBuffer interface {
	Release()
}
