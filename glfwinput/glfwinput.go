// Package glfwinput records GLFW window input into a tool.EventRecorder.
package glfwinput

import (
	"github.com/gekko3d/brushedit/tool"

	"github.com/go-gl/glfw/v3.3/glfw"
)

var keyFromGlfw = map[glfw.Key]tool.Key{
	glfw.KeyLeftShift:    tool.KeyShift,
	glfw.KeyRightShift:   tool.KeyShift,
	glfw.KeyLeftControl:  tool.KeyCtrlCmd,
	glfw.KeyRightControl: tool.KeyCtrlCmd,
	glfw.KeyLeftSuper:    tool.KeyCtrlCmd,
	glfw.KeyRightSuper:   tool.KeyCtrlCmd,
	glfw.KeyLeftAlt:      tool.KeyAlt,
	glfw.KeyRightAlt:     tool.KeyAlt,
	glfw.KeyEscape:       tool.KeyEscape,
	glfw.KeyDelete:       tool.KeyDelete,
	glfw.KeyBackspace:    tool.KeyBackspace,
	glfw.KeyEnter:        tool.KeyEnter,
	glfw.KeyKPEnter:      tool.KeyEnter,
}

var buttonFromGlfw = map[glfw.MouseButton]tool.MouseButtons{
	glfw.MouseButtonLeft:   tool.MouseLeft,
	glfw.MouseButtonRight:  tool.MouseRight,
	glfw.MouseButtonMiddle: tool.MouseMiddle,
}

// Key translates a GLFW key. Keys the tools do not use map to KeyUnknown.
func Key(key glfw.Key) tool.Key {
	if k, ok := keyFromGlfw[key]; ok {
		return k
	}
	return tool.KeyUnknown
}

func Button(button glfw.MouseButton) tool.MouseButtons {
	return buttonFromGlfw[button]
}

// Attach installs window callbacks that record into r. Events are only
// queued; the owner drains r after glfw.PollEvents.
func Attach(window *glfw.Window, r *tool.EventRecorder) {
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		k := Key(key)
		if k == tool.KeyUnknown {
			return
		}
		switch action {
		case glfw.Press:
			r.RecordKey(tool.KeyDown, k)
		case glfw.Release:
			r.RecordKey(tool.KeyUp, k)
		}
	})

	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		b := Button(button)
		if b == tool.MouseNone {
			return
		}
		x, y := w.GetCursorPos()
		if action == glfw.Press {
			r.RecordMouseDown(b, x, y)
		} else if action == glfw.Release {
			r.RecordMouseUp(b, x, y)
		}
	})

	window.SetCursorPosCallback(func(w *glfw.Window, x, y float64) {
		r.RecordMouseMove(x, y)
	})

	window.SetScrollCallback(func(w *glfw.Window, dx, dy float64) {
		if dy != 0 {
			r.RecordScroll(tool.ScrollMouse, tool.ScrollVertical, dy)
		}
		if dx != 0 {
			r.RecordScroll(tool.ScrollMouse, tool.ScrollHorizontal, dx)
		}
	})
}

// Detach removes the callbacks installed by Attach.
func Detach(window *glfw.Window) {
	window.SetKeyCallback(nil)
	window.SetMouseButtonCallback(nil)
	window.SetCursorPosCallback(nil)
	window.SetScrollCallback(nil)
}
