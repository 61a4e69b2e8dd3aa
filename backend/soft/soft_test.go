package soft_test

import (
	"image/color"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/adithasan/genesis"
	"github.com/adithasan/genesis/backend/soft"
)

// fullQuad builds vertex data for a w by h quad at the origin, in the
// engine's top-left, bottom-left, top-right, bottom-right strip order.
func fullQuad(w, h float32) []genesis.Vertex {
	return []genesis.Vertex{
		{Position: [3]float32{0, 0, 0}, TexCoords: [2]float32{0, 0}},
		{Position: [3]float32{0, h, 0}, TexCoords: [2]float32{0, 1}},
		{Position: [3]float32{w, 0, 0}, TexCoords: [2]float32{1, 0}},
		{Position: [3]float32{w, h, 0}, TexCoords: [2]float32{1, 1}},
	}
}

func quadCall(t *testing.T, b *soft.Backend, fragment string, w, h float32, tex genesis.Texture, c genesis.Color, blend genesis.Blend, matrix mgl32.Mat4) genesis.DrawCall {
	t.Helper()
	prog, err := b.CompileProgram(genesis.VertexShader, fragment)
	if err != nil {
		t.Fatalf("CompileProgram: %v", err)
	}
	vb, err := b.NewVertexBuffer(fullQuad(w, h))
	if err != nil {
		t.Fatalf("NewVertexBuffer: %v", err)
	}
	ib, err := b.NewIndexBuffer([]uint16{0, 1, 2, 3})
	if err != nil {
		t.Fatalf("NewIndexBuffer: %v", err)
	}
	return genesis.DrawCall{
		Vertices: vb,
		Indices:  ib,
		Program:  prog,
		Uniforms: genesis.Uniforms{Matrix: matrix, Texture: tex, Color: c},
		Blend:    blend,
	}
}

func TestCompileProgramRecognizesStockShaders(t *testing.T) {
	b := soft.New(4, 4)
	for _, src := range []string{
		genesis.GlyphFragmentShader,
		genesis.TextFragmentShader,
		genesis.ImageFragmentShader,
	} {
		if _, err := b.CompileProgram(genesis.VertexShader, src); err != nil {
			t.Errorf("expected stock shader accepted, got %v", err)
		}
	}
}

func TestCompileProgramRejectsUnknownSource(t *testing.T) {
	b := soft.New(4, 4)
	if _, err := b.CompileProgram("void main() {}", genesis.ImageFragmentShader); err == nil {
		t.Error("expected an unknown vertex shader to fail")
	}
	_, err := b.CompileProgram(genesis.VertexShader, "void main() {}")
	if err == nil {
		t.Fatal("expected an unknown fragment shader to fail")
	}
	if !strings.Contains(err.Error(), "unrecognized fragment shader") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestClearAndImageOrientation(t *testing.T) {
	b := soft.New(2, 2)
	surface := b.BeginFrame()
	surface.Clear(genesis.ColorGreen)
	b.EndFrame()

	img := b.Frame().Image()
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if got := img.RGBAAt(x, y); got != (color.RGBA{G: 255, A: 255}) {
				t.Errorf("pixel (%d, %d) = %v, want green", x, y, got)
			}
		}
	}
}

func TestDrawSamplesTextureUpright(t *testing.T) {
	b := soft.New(2, 2)

	// Row 0 of the upload is red, row 1 blue. Drawn 1:1 under the
	// engine's top-left-origin projection, row 0 must come out on top.
	tex, err := b.NewRGBATexture(2, 2, []byte{
		255, 0, 0, 255, 255, 0, 0, 255,
		0, 0, 255, 255, 0, 0, 255, 255,
	})
	if err != nil {
		t.Fatalf("NewRGBATexture: %v", err)
	}

	surface := b.BeginFrame()
	surface.Clear(genesis.ColorBlack)
	call := quadCall(t, b, genesis.ImageFragmentShader, 2, 2, tex, genesis.ColorWhite,
		genesis.BlendNone, mgl32.Ortho2D(0, 2, 2, 0))
	if err := surface.Draw(call); err != nil {
		t.Fatalf("Draw: %v", err)
	}

	img := b.Frame().Image()
	red := color.RGBA{R: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}
	for x := 0; x < 2; x++ {
		if got := img.RGBAAt(x, 0); got != red {
			t.Errorf("top pixel (%d, 0) = %v, want red", x, got)
		}
		if got := img.RGBAAt(x, 1); got != blue {
			t.Errorf("bottom pixel (%d, 1) = %v, want blue", x, got)
		}
	}
}

func TestDrawCoversOnlyTheQuad(t *testing.T) {
	b := soft.New(4, 4)
	tex, err := b.NewRGBATexture(1, 1, []byte{255, 255, 255, 255})
	if err != nil {
		t.Fatalf("NewRGBATexture: %v", err)
	}

	surface := b.BeginFrame()
	surface.Clear(genesis.ColorBlack)
	call := quadCall(t, b, genesis.ImageFragmentShader, 2, 2, tex, genesis.ColorRed,
		genesis.BlendNone, mgl32.Ortho2D(0, 4, 4, 0))
	if err := surface.Draw(call); err != nil {
		t.Fatalf("Draw: %v", err)
	}

	img := b.Frame().Image()
	red := color.RGBA{R: 255, A: 255}
	black := color.RGBA{A: 255}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			want := black
			if x < 2 && y < 2 {
				want = red
			}
			if got := img.RGBAAt(x, y); got != want {
				t.Errorf("pixel (%d, %d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestGlyphProgramModulatesCoverageIntoAlpha(t *testing.T) {
	b := soft.New(1, 1)
	tex, err := b.NewGrayTexture(1, 1, []byte{128})
	if err != nil {
		t.Fatalf("NewGrayTexture: %v", err)
	}

	surface := b.BeginFrame()
	surface.Clear(genesis.ColorWhite)
	call := quadCall(t, b, genesis.GlyphFragmentShader, 1, 1, tex, genesis.ColorBlack,
		genesis.BlendNone, mgl32.Ortho2D(0, 1, 1, 0))
	if err := surface.Draw(call); err != nil {
		t.Fatalf("Draw: %v", err)
	}

	// Overwrite blending leaves the half coverage in the alpha channel.
	got := b.Frame().Image().RGBAAt(0, 0)
	if want := (color.RGBA{A: 128}); got != want {
		t.Errorf("pixel = %v, want %v", got, want)
	}
}

func TestTextProgramUsesTextureAlpha(t *testing.T) {
	b := soft.New(1, 1)
	// RGB of the texture is ignored by the text program.
	tex, err := b.NewRGBATexture(1, 1, []byte{9, 9, 9, 255})
	if err != nil {
		t.Fatalf("NewRGBATexture: %v", err)
	}

	surface := b.BeginFrame()
	surface.Clear(genesis.ColorTransparent)
	call := quadCall(t, b, genesis.TextFragmentShader, 1, 1, tex, genesis.Color{R: 0.25, G: 0.5, B: 0.75, A: 1},
		genesis.BlendNone, mgl32.Ortho2D(0, 1, 1, 0))
	if err := surface.Draw(call); err != nil {
		t.Fatalf("Draw: %v", err)
	}

	got := b.Frame().Image().RGBAAt(0, 0)
	if want := (color.RGBA{R: 64, G: 128, B: 191, A: 255}); got != want {
		t.Errorf("pixel = %v, want %v", got, want)
	}
}

func TestBlendAlphaMixesWithDestination(t *testing.T) {
	b := soft.New(1, 1)
	tex, err := b.NewRGBATexture(1, 1, []byte{255, 0, 0, 128})
	if err != nil {
		t.Fatalf("NewRGBATexture: %v", err)
	}

	surface := b.BeginFrame()
	surface.Clear(genesis.Color{R: 0, G: 0, B: 1, A: 1})
	call := quadCall(t, b, genesis.ImageFragmentShader, 1, 1, tex, genesis.ColorWhite,
		genesis.BlendAlpha, mgl32.Ortho2D(0, 1, 1, 0))
	if err := surface.Draw(call); err != nil {
		t.Fatalf("Draw: %v", err)
	}

	got := b.Frame().Image().RGBAAt(0, 0)
	// src {1,0,0,~0.502} over dst {0,0,1,1}.
	want := color.RGBA{R: 128, G: 0, B: 127, A: 191}
	if !within(got, want, 1) {
		t.Errorf("pixel = %v, want %v within 1", got, want)
	}
}

// within reports whether every channel of got is at most tol away from
// want, absorbing float rounding in blend math.
func within(got, want color.RGBA, tol int) bool {
	diff := func(a, b uint8) int {
		d := int(a) - int(b)
		if d < 0 {
			return -d
		}
		return d
	}
	return diff(got.R, want.R) <= tol && diff(got.G, want.G) <= tol &&
		diff(got.B, want.B) <= tol && diff(got.A, want.A) <= tol
}

func TestGrayTextureIsNotARenderTarget(t *testing.T) {
	b := soft.New(4, 4)
	tex, err := b.NewGrayTexture(2, 2, []byte{0, 0, 0, 0})
	if err != nil {
		t.Fatalf("NewGrayTexture: %v", err)
	}

	err = tex.Surface().Draw(genesis.DrawCall{})
	if err == nil || !strings.Contains(err.Error(), "not a render target") {
		t.Errorf("expected a render target error, got %v", err)
	}
}

func TestDrawIntoReleasedTexture(t *testing.T) {
	b := soft.New(4, 4)
	tex, err := b.NewTexture(2, 2)
	if err != nil {
		t.Fatalf("NewTexture: %v", err)
	}
	surface := tex.Surface()
	tex.Release()

	if err := surface.Draw(genesis.DrawCall{}); err == nil {
		t.Error("expected an error drawing into a released texture")
	}
}

func TestDrawRejectsForeignObjects(t *testing.T) {
	b := soft.New(4, 4)
	surface := b.BeginFrame()

	err := surface.Draw(genesis.DrawCall{})
	if err == nil || !strings.Contains(err.Error(), "foreign program") {
		t.Errorf("expected a foreign program error, got %v", err)
	}
}

func TestTextureUploadLengthChecks(t *testing.T) {
	b := soft.New(4, 4)
	if _, err := b.NewGrayTexture(3, 3, make([]byte, 8)); err == nil {
		t.Error("expected short gray data rejected")
	}
	if _, err := b.NewRGBATexture(2, 2, make([]byte, 15)); err == nil {
		t.Error("expected short rgba data rejected")
	}
}

func TestResizeReplacesFrame(t *testing.T) {
	b := soft.New(8, 6)
	if w, h := b.FramebufferSize(); w != 8 || h != 6 {
		t.Fatalf("expected 8x6, got %dx%d", w, h)
	}
	old := b.Frame()

	b.Resize(4, 3)
	if w, h := b.FramebufferSize(); w != 4 || h != 3 {
		t.Errorf("expected 4x3 after resize, got %dx%d", w, h)
	}
	if b.Frame() == old {
		t.Error("expected a fresh frame texture after resize")
	}
}
