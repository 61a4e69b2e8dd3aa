// Example restores the original genesis demo: a GLFW window with two
// text labels, arrow-key movement and an audio file decoding in the
// background with its load state mirrored into a third label.
//
// Prerequisites:
//
//	Install devbox: https://www.jetify.com/devbox
//	devbox shell                      # dev environment (Go + OpenGL/X11 headers)
//	go run ./example/ <audio-file>    # run this example
//
// The font is read from assets/OpenSans-Regular.ttf relative to the
// working directory.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/adithasan/genesis"
	"github.com/adithasan/genesis/backend/opengl"
	"github.com/adithasan/genesis/font"
	"github.com/adithasan/genesis/wave"
)

const (
	windowWidth  = 800
	windowHeight = 600
	windowTitle  = "genesis"
)

func init() {
	// GLFW must run on the main thread.
	runtime.LockOSThread()
}

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <file>\n", os.Args[0])
		os.Exit(1)
	}
	if err := run(os.Args[1]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(audioPath string) error {
	genesis.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw init: %w", err)
	}
	defer glfw.Terminate()

	window, err := opengl.CreateWindow(windowWidth, windowHeight, windowTitle)
	if err != nil {
		return err
	}

	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init: %w", err)
	}

	backend, err := opengl.New(window)
	if err != nil {
		return fmt.Errorf("gl backend: %w", err)
	}
	defer backend.Delete()

	ui, err := genesis.New(backend, genesis.WithFontLoader(font.NewLoader()))
	if err != nil {
		return err
	}
	defer ui.Release()

	face, err := ui.LoadFace("assets/OpenSans-Regular.ttf")
	if err != nil {
		return err
	}

	alphabet, err := ui.CreateLabel(face)
	if err != nil {
		return err
	}
	alphabet.Item().SetText("abcdefghijklmnopqrstuvwxyz")
	alphabet.Item().SetColor(genesis.ColorWhite)
	if err := alphabet.Item().Update(); err != nil {
		return fmt.Errorf("render label: %w", err)
	}
	alphabet.SetPos(100, 100)

	hurray, err := ui.CreateLabel(face)
	if err != nil {
		return err
	}
	hurray.Item().SetText("hurray, font rendering!")
	hurray.Item().SetColor(genesis.ColorBlue)
	if err := hurray.Item().Update(); err != nil {
		return fmt.Errorf("render label: %w", err)
	}
	hurray.SetPos(200, 200)

	status, err := ui.CreateLabel(face)
	if err != nil {
		return err
	}
	status.Item().SetColor(genesis.ColorWhite)
	status.SetPos(10, 10)

	waveform := wave.Load(context.Background(), audioPath)

	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action != glfw.Press && action != glfw.Repeat {
			return
		}
		x, y := alphabet.Pos()
		switch key {
		case glfw.KeyEscape:
			w.SetShouldClose(true)
		case glfw.KeyLeft:
			alphabet.SetPos(x-1, y)
		case glfw.KeyRight:
			alphabet.SetPos(x+1, y)
		case glfw.KeyUp:
			alphabet.SetPos(x, y-1)
		case glfw.KeyDown:
			alphabet.SetPos(x, y+1)
		}
	})
	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		ui.Resize()
	})

	// The status label re-renders only when the loader changes state.
	lastState := wave.State(-1)
	for !window.ShouldClose() {
		glfw.PollEvents()

		if st := waveform.State(); st != lastState {
			lastState = st
			text := fmt.Sprintf("waveform: %v", st)
			if st == wave.StateError {
				text = fmt.Sprintf("waveform: %v (%v)", st, waveform.Err())
			}
			status.Item().SetText(text)
			if err := status.Item().Update(); err != nil {
				return fmt.Errorf("render status: %w", err)
			}
		}

		ui.DrawFrame()
	}

	return nil
}
