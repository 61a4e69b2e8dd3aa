/*
Package genesis is a retained-mode widget engine built around texture
backed text rendering.

# Overview

The package renders text by rasterizing glyphs once into cached
textures, compositing each label into its own texture, and drawing
that texture as a single tinted quad per frame. Widgets wrap any
drawable item with a position, scale and rotation; the Gui tracks them
weakly, so dropping the last strong reference to a widget removes it
from the scene without an explicit unregister call.

Rendering is abstracted behind the Backend interface. Two backends
ship with the engine:

  - backend/opengl renders through an OpenGL 4.1 core context on a
    GLFW window.
  - backend/soft rasterizes on the CPU for headless use and for tests
    that assert on pixels.

Font loading lives behind the FontLoader interface; the font package
implements it with sfnt parsing and outline rasterization from
golang.org/x/image.

# Quick Start

	// Setup (after glfw.Init, window creation and gl.Init)
	backend, _ := opengl.New(window)
	ui, err := genesis.New(backend, genesis.WithFontLoader(font.NewLoader()))
	if err != nil {
	    // a shader that fails to compile is unrecoverable
	    log.Fatal(err)
	}
	face, _ := ui.LoadFace("assets/OpenSans-Regular.ttf")

	label, _ := ui.CreateLabel(face)
	label.Item().SetText("hello")
	label.Item().Update()
	label.SetPos(100, 100)

	// Frame loop
	for !window.ShouldClose() {
	    glfw.PollEvents()
	    ui.DrawFrame()
	}

# Labels

A Label owns the texture its text is rendered into. SetText, SetColor,
SetSize and SetFace only record state; nothing is rasterized until
Update runs, so several changes batch into one re-render. Text is laid
out in two passes over the same glyphs: the first measures the
bounding box, the second stamps glyph coverage into a texture of
exactly that size. Color is applied when the finished texture is
drawn, which makes recoloring free.

# Widgets

Widget[T] positions any Drawable. Its model matrix composes
translation, scale, rotation about the origin, and the item's own
anchor offset, in that order. Widgets draw in creation order; IDs
are monotonic and never reused. The Gui holds widgets through weak
pointers and prunes collected ones during DrawFrame.

# Error Handling

Failures are contained at the smallest useful scope. A glyph missing
from a face, or arriving in an unsupported raster format, is replaced
with a placeholder box and logged; layout continues. A widget whose
draw fails is logged and skipped for that frame. Only shader
compilation failures at startup are treated as unrecoverable, by
returning an error from New.

# Logging

The package is silent by default. Wire it to an application *slog.Logger
with SetLogger:

	genesis.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

Warnings cover placeholder substitutions and skipped draws; debug
covers widget pruning and background waveform completion.

# Concurrency

The engine is single-threaded: every Gui, Label, Widget and Backend
call belongs on the rendering thread. The wave package is the one
concurrent component, decoding audio on a worker goroutine behind
read-locked accessors.
*/
package genesis
