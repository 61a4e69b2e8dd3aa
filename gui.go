package genesis

import (
	"fmt"
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

// Gui owns the engine state for one window: the backend, the shared
// text renderer and the widget set. All methods must be called from
// the rendering thread.
type Gui struct {
	backend    Backend
	tr         *TextRenderer
	widgets    *WidgetSet
	loader     FontLoader
	background Color

	width      int
	height     int
	projection mgl32.Mat4
}

// Option configures a Gui instance.
type Option func(*Gui)

// WithFontLoader injects the loader used by LoadFace. Without it,
// faces can still be registered directly through AddFace.
func WithFontLoader(l FontLoader) Option {
	return func(g *Gui) { g.loader = l }
}

// WithBackground sets the frame clear color. The default is a dark
// gray, {0.3, 0.3, 0.3, 1}.
func WithBackground(c Color) Option {
	return func(g *Gui) { g.background = c }
}

// New builds a Gui on the given backend, compiling the shader
// programs and sizing the projection to the current framebuffer.
// Shader compilation failure is fatal.
func New(backend Backend, opts ...Option) (*Gui, error) {
	g := &Gui{
		backend:    backend,
		widgets:    NewWidgetSet(),
		background: Color{0.3, 0.3, 0.3, 1},
	}
	for _, opt := range opts {
		opt(g)
	}

	tr, err := NewTextRenderer(backend)
	if err != nil {
		return nil, fmt.Errorf("init text renderer: %w", err)
	}
	g.tr = tr
	g.Resize()
	return g, nil
}

// Resize re-reads the framebuffer size and rebuilds the screen
// projection, mapping (0,0) to the top-left corner. Call it from the
// window's resize callback.
func (g *Gui) Resize() {
	g.width, g.height = g.backend.FramebufferSize()
	g.projection = mgl32.Ortho2D(0, float32(g.width), float32(g.height), 0)
}

// Size returns the frame size in pixels.
func (g *Gui) Size() (width, height int) {
	return g.width, g.height
}

// LoadFace opens a font file through the configured FontLoader and
// registers it, returning the face index for labels and cache keys.
// Failure leaves the Gui fully usable; the caller can retry or fall
// back to another font.
func (g *Gui) LoadFace(path string) (int, error) {
	if g.loader == nil {
		return 0, ErrNoFontLoader
	}
	face, err := g.loader.LoadFace(path)
	if err != nil {
		return 0, fmt.Errorf("load face %q: %w", path, err)
	}
	return g.tr.AddFace(face), nil
}

// AddFace registers an already-built face and returns its index.
func (g *Gui) AddFace(f Face) int {
	return g.tr.AddFace(f)
}

// TextRenderer returns the shared text renderer.
func (g *Gui) TextRenderer() *TextRenderer {
	return g.tr
}

// Widgets returns the widget set.
func (g *Gui) Widgets() *WidgetSet {
	return g.widgets
}

// CreateLabel builds a Label on the given face, wraps it in a widget
// and returns the strong handle. The label starts with the default
// text "label"; call Item().SetText and Item().Update to change it.
func (g *Gui) CreateLabel(faceIndex int) (*Widget[*Label], error) {
	l, err := NewLabel(g.tr, faceIndex)
	if err != nil {
		return nil, err
	}
	return RegisterWidget(g.widgets, l), nil
}

// CreateSprite uploads an image and wraps it in a widget.
func (g *Gui) CreateSprite(img image.Image) (*Widget[*Sprite], error) {
	s, err := NewSprite(g.tr, img)
	if err != nil {
		return nil, err
	}
	return RegisterWidget(g.widgets, s), nil
}

// AddWidget wraps a custom drawable in a widget registered with the
// Gui's set. It is a function rather than a method because Go methods
// cannot introduce type parameters.
func AddWidget[T Drawable](g *Gui, item T) *Widget[T] {
	return RegisterWidget(g.widgets, item)
}

// DrawFrame renders one frame: clear to the background color, draw
// every live widget in creation order, present.
func (g *Gui) DrawFrame() {
	surface := g.backend.BeginFrame()
	surface.Clear(g.background)
	g.widgets.Draw(surface, g.projection)
	g.backend.EndFrame()
}

// Release frees the renderer-owned resources: shader programs and
// the shared index buffer. Labels and sprites release their own
// textures.
func (g *Gui) Release() {
	g.tr.Release()
}
