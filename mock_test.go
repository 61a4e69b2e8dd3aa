package genesis_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/adithasan/genesis"
)

// mockBackend is a test backend that records every resource it hands
// out and every call made against its surfaces.
type mockBackend struct {
	failCompile bool
	width       int
	height      int
	frame       *mockSurface
	programs    []*mockProgram
	textures    []*mockTexture
	frames      int
}

func newMockBackend(width, height int) *mockBackend {
	return &mockBackend{
		width:  width,
		height: height,
		frame:  &mockSurface{width: width, height: height},
	}
}

func (b *mockBackend) CompileProgram(vertexSrc, fragmentSrc string) (genesis.Program, error) {
	if b.failCompile {
		return nil, errors.New("compile failed")
	}
	p := &mockProgram{fragment: fragmentSrc}
	b.programs = append(b.programs, p)
	return p, nil
}

func (b *mockBackend) NewTexture(width, height int) (genesis.Texture, error) {
	t := &mockTexture{width: width, height: height, surface: &mockSurface{width: width, height: height}}
	b.textures = append(b.textures, t)
	return t, nil
}

func (b *mockBackend) NewGrayTexture(width, height int, pix []byte) (genesis.Texture, error) {
	t := &mockTexture{
		width: width, height: height, gray: true,
		pix:     append([]byte(nil), pix...),
		surface: &mockSurface{width: width, height: height},
	}
	b.textures = append(b.textures, t)
	return t, nil
}

func (b *mockBackend) NewRGBATexture(width, height int, pix []byte) (genesis.Texture, error) {
	t := &mockTexture{
		width: width, height: height,
		pix:     append([]byte(nil), pix...),
		surface: &mockSurface{width: width, height: height},
	}
	b.textures = append(b.textures, t)
	return t, nil
}

func (b *mockBackend) NewVertexBuffer(vertices []genesis.Vertex) (genesis.VertexBuffer, error) {
	return &mockVertexBuffer{verts: append([]genesis.Vertex(nil), vertices...)}, nil
}

func (b *mockBackend) NewIndexBuffer(indices []uint16) (genesis.IndexBuffer, error) {
	return &mockIndexBuffer{indices: append([]uint16(nil), indices...)}, nil
}

func (b *mockBackend) BeginFrame() genesis.Surface { return b.frame }

func (b *mockBackend) EndFrame() { b.frames++ }

func (b *mockBackend) FramebufferSize() (width, height int) { return b.width, b.height }

// grayTextures returns the textures uploaded from glyph coverage.
func (b *mockBackend) grayTextures() []*mockTexture {
	var out []*mockTexture
	for _, t := range b.textures {
		if t.gray {
			out = append(out, t)
		}
	}
	return out
}

type mockProgram struct {
	fragment string
	released bool
}

func (p *mockProgram) Release() { p.released = true }

type mockVertexBuffer struct {
	verts    []genesis.Vertex
	released bool
}

func (vb *mockVertexBuffer) Release() { vb.released = true }

type mockIndexBuffer struct {
	indices []uint16
}

func (ib *mockIndexBuffer) Release() {}

type mockTexture struct {
	width    int
	height   int
	gray     bool
	pix      []byte
	surface  *mockSurface
	released bool
}

func (t *mockTexture) Size() (width, height int) { return t.width, t.height }

func (t *mockTexture) Surface() genesis.Surface { return t.surface }

func (t *mockTexture) Release() { t.released = true }

type mockSurface struct {
	width   int
	height  int
	clears  []genesis.Color
	calls   []genesis.DrawCall
	drawErr error
}

func (s *mockSurface) Size() (width, height int) { return s.width, s.height }

func (s *mockSurface) Clear(c genesis.Color) { s.clears = append(s.clears, c) }

func (s *mockSurface) Draw(call genesis.DrawCall) error {
	if s.drawErr != nil {
		return s.drawErr
	}
	s.calls = append(s.calls, call)
	return nil
}

// glyphSpec describes one fake glyph: bitmap size, baseline bearings
// and a whole-pixel advance.
type glyphSpec struct {
	width   int
	height  int
	left    int
	top     int
	advance int
	index   genesis.GlyphIndex
}

// mockFace serves hand-authored glyph metrics so layouts can be
// computed by hand in tests.
type mockFace struct {
	glyphs     map[rune]glyphSpec
	glyphErrs  map[rune]error
	kern       map[[2]genesis.GlyphIndex]int32
	glyphCalls map[rune]int
	kernCalls  [][2]genesis.GlyphIndex
}

func newMockFace() *mockFace {
	return &mockFace{
		glyphs:     make(map[rune]glyphSpec),
		glyphErrs:  make(map[rune]error),
		kern:       make(map[[2]genesis.GlyphIndex]int32),
		glyphCalls: make(map[rune]int),
	}
}

func (f *mockFace) add(ch rune, spec glyphSpec) { f.glyphs[ch] = spec }

func (f *mockFace) Glyph(ch rune, size int) (*genesis.RasterGlyph, error) {
	f.glyphCalls[ch]++
	if err := f.glyphErrs[ch]; err != nil {
		return nil, err
	}
	spec, ok := f.glyphs[ch]
	if !ok {
		return nil, fmt.Errorf("%w: %q", genesis.ErrGlyphNotFound, ch)
	}
	pix := make([]byte, spec.width*spec.height)
	for i := range pix {
		pix[i] = 0xff
	}
	return &genesis.RasterGlyph{
		Bitmap: genesis.Bitmap{
			Width:  spec.width,
			Height: spec.height,
			Pitch:  spec.width,
			Mode:   genesis.PixelModeGray,
			Pix:    pix,
		},
		Left:     spec.left,
		Top:      spec.top,
		AdvanceX: int32(spec.advance) << 16,
		Index:    spec.index,
	}, nil
}

func (f *mockFace) Kern(prev, curr genesis.GlyphIndex, size int) (dx, dy int32) {
	f.kernCalls = append(f.kernCalls, [2]genesis.GlyphIndex{prev, curr})
	return f.kern[[2]genesis.GlyphIndex{prev, curr}], 0
}

// mockLoader returns a fixed face for any path.
type mockLoader struct {
	face genesis.Face
	err  error
}

func (l *mockLoader) LoadFace(path string) (genesis.Face, error) {
	if l.err != nil {
		return nil, l.err
	}
	return l.face, nil
}

// recordHandler captures slog records for assertions.
type recordHandler struct {
	records *[]slog.Record
}

func (h recordHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h recordHandler) Handle(_ context.Context, r slog.Record) error {
	*h.records = append(*h.records, r)
	return nil
}

func (h recordHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h recordHandler) WithGroup(string) slog.Handler { return h }

// captureLogs routes engine logging into a slice for the duration of
// a test.
func captureLogs(t *testing.T) *[]slog.Record {
	t.Helper()
	records := &[]slog.Record{}
	genesis.SetLogger(slog.New(recordHandler{records: records}))
	t.Cleanup(func() { genesis.SetLogger(nil) })
	return records
}

// logMessages flattens captured records into their messages.
func logMessages(records []slog.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Message
	}
	return out
}

// newTestRenderer builds a TextRenderer on a mock backend with one
// face registered at index 0.
func newTestRenderer(t *testing.T, backend *mockBackend, face genesis.Face) *genesis.TextRenderer {
	t.Helper()
	tr, err := genesis.NewTextRenderer(backend)
	if err != nil {
		t.Fatalf("NewTextRenderer: %v", err)
	}
	if idx := tr.AddFace(face); idx != 0 {
		t.Fatalf("expected first face at index 0, got %d", idx)
	}
	return tr
}
