package main

import (
	"blockworld/internal/block"
	"blockworld/internal/config"

	"github.com/go-gl/glfw/v3.3/glfw"
)

const (
	mouseSensitivity = 0.1
	placeRadius      = 12
	carveRadius      = 16
)

type inputState struct {
	paused     bool
	firstMouse bool
	lastX      float64
	lastY      float64
}

func setupInputHandlers(l *Loop) *inputState {
	in := &inputState{firstMouse: true}

	l.window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		if in.paused {
			return
		}
		if in.firstMouse {
			in.lastX, in.lastY = xpos, ypos
			in.firstMouse = false
			return
		}
		dx, dy := xpos-in.lastX, in.lastY-ypos
		in.lastX, in.lastY = xpos, ypos
		l.camera.Rotate(float32(dx*mouseSensitivity), float32(dy*mouseSensitivity))
	})

	l.window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		if in.paused {
			in.paused = false
			in.firstMouse = true
			w.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
			return
		}
		switch button {
		case glfw.MouseButtonLeft:
			l.blob(block.Grass, placeRadius, false)
		case glfw.MouseButtonRight:
			l.blob(block.Air, carveRadius, true)
		}
	})

	l.window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		switch key {
		case glfw.KeyF:
			on := config.ToggleWireframeMode()
			l.log.Info("wireframe", "on", on)
		case glfw.KeyV:
			config.SetShowStats(!config.GetShowStats())
		case glfw.KeyEscape:
			if in.paused {
				w.SetShouldClose(true)
				return
			}
			in.paused = true
			w.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
		}
	})

	l.window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		if height == 0 {
			return
		}
		l.renderer.Resize(width, height)
		l.text.Resize(width, height)
		l.camera.AspectRatio = float32(width) / float32(height)
	})
	return in
}

// blob edits a sphere at a random position inside the world, roughened when noisy.
func (l *Loop) blob(t block.Type, radius int, noisy bool) {
	sx, sy, sz := l.world.Dims()
	s := l.world.ChunkSize()
	x, y, z := l.rng.Intn(sx*s), l.rng.Intn(sy*s), l.rng.Intn(sz*s)
	rng := l.rng
	if !noisy {
		rng = nil
	}
	n := l.world.FillSphere(x, y, z, radius, t, rng)
	l.log.Info("blob edit", "block", t, "x", x, "y", y, "z", z, "radius", radius, "changed", n)
}
