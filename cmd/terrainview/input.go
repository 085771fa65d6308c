package main

import (
	"lodterrain/internal/config"

	"github.com/go-gl/glfw/v3.3/glfw"
)

const helpText = "WASD move, Space/Shift up/down, F wireframe, O outline, L lod tint, N smooth, M weld, R rebuild, +/- chunks per frame, H hud, Esc release mouse"

func setupInputHandlers(window *glfw.Window, loop *ViewLoop) {
	window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		if !loop.paused {
			loop.eye.HandleMouseMovement(xpos, ypos)
		}
	})

	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		loop.renderer.UpdateViewport(width, height)
	})

	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		switch key {
		case glfw.KeyEscape:
			loop.paused = !loop.paused
			if loop.paused {
				w.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
			} else {
				w.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
				loop.eye.FirstMouse = true
			}
		case glfw.KeyF:
			loop.renderer.ToggleWireframe()
		case glfw.KeyO:
			loop.outline.Toggle()
		case glfw.KeyL:
			loop.chunks.ToggleLODTint()
		case glfw.KeyH:
			loop.hud.Toggle()
		case glfw.KeyN:
			config.SetSmoothShading(!config.GetSmoothShading())
			loop.logger.Printf("smooth shading %v", config.GetSmoothShading())
		case glfw.KeyM:
			config.SetWeldVertices(!config.GetWeldVertices())
			loop.logger.Printf("weld vertices %v", config.GetWeldVertices())
		case glfw.KeyR:
			loop.terrain.MarkAllDirty()
		case glfw.KeyEqual, glfw.KeyKPAdd:
			config.SetChunksPerFrame(loop.chunksPerFrame() * 2)
		case glfw.KeyMinus, glfw.KeyKPSubtract:
			config.SetChunksPerFrame(max(1, loop.chunksPerFrame()/2))
		}
	})
}

// movementAxes reads the held movement keys as forward, right and up in [-1, 1].
func movementAxes(w *glfw.Window) (forward, right, up float32) {
	held := func(k glfw.Key) bool { return w.GetKey(k) == glfw.Press }
	if held(glfw.KeyW) {
		forward++
	}
	if held(glfw.KeyS) {
		forward--
	}
	if held(glfw.KeyD) {
		right++
	}
	if held(glfw.KeyA) {
		right--
	}
	if held(glfw.KeySpace) {
		up++
	}
	if held(glfw.KeyLeftShift) {
		up--
	}
	return forward, right, up
}
