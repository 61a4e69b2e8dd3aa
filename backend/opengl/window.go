package opengl

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// CreateWindow creates a GLFW window with an OpenGL 4.1 core context,
// makes the context current and enables vsync. glfw.Init must have
// been called, on a locked OS thread.
//
// The caller still calls gl.Init before constructing the Backend; the
// gl bindings belong to the application so that it can issue its own
// GL alongside the GUI.
func CreateWindow(width, height int, title string) (*glfw.Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(1) // vsync

	return window, nil
}
