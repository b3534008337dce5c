package tool

import (
	"github.com/gekko3d/brushedit/geom"
	"github.com/gekko3d/brushedit/pick"

	"github.com/go-gl/mathgl/mgl64"
)

type MouseButtons uint8

const (
	MouseNone   MouseButtons = 0
	MouseLeft   MouseButtons = 1 << 0
	MouseMiddle MouseButtons = 1 << 1
	MouseRight  MouseButtons = 1 << 2
)

type ModifierKeys uint8

const (
	ModNone    ModifierKeys = 0
	ModShift   ModifierKeys = 1 << 0
	ModCtrlCmd ModifierKeys = 1 << 1
	ModAlt     ModifierKeys = 1 << 2
)

// ModifierKeyPressed is a per-key condition for CheckModifierKeys.
type ModifierKeyPressed int

const (
	KeyNo ModifierKeyPressed = iota
	KeyYes
	KeyDontCare
)

// InputState is the input snapshot handed to controllers for one event.
type InputState struct {
	modifiers ModifierKeys
	buttons   MouseButtons

	mouseX, mouseY   float64
	mouseDX, mouseDY float64
	scrollX, scrollY float64

	gestureZoom     float64
	gestureRotation float64

	anyToolDragging bool

	camera     *geom.Camera
	pickRay    geom.Ray
	pickResult *pick.Result
}

func NewInputState(camera *geom.Camera) *InputState {
	return &InputState{camera: camera, pickResult: pick.NewResult()}
}

func (s *InputState) ModifierKeys() ModifierKeys {
	return s.modifiers
}

// ModifierKeysDown reports whether all keys in keys are held, ignoring others.
func (s *InputState) ModifierKeysDown(keys ModifierKeys) bool {
	return s.modifiers&keys == keys
}

// ModifierKeysPressed reports whether exactly keys are held.
func (s *InputState) ModifierKeysPressed(keys ModifierKeys) bool {
	return s.modifiers == keys
}

func (s *InputState) checkModifierKey(state ModifierKeyPressed, key ModifierKeys) bool {
	switch state {
	case KeyYes:
		return s.ModifierKeysDown(key)
	case KeyNo:
		return !s.ModifierKeysDown(key)
	default:
		return true
	}
}

func (s *InputState) CheckModifierKeys(shift, ctrlCmd, alt ModifierKeyPressed) bool {
	return s.checkModifierKey(shift, ModShift) &&
		s.checkModifierKey(ctrlCmd, ModCtrlCmd) &&
		s.checkModifierKey(alt, ModAlt)
}

func (s *InputState) SetModifierKeys(keys ModifierKeys) {
	s.modifiers = keys
}

func (s *InputState) MouseButtons() MouseButtons {
	return s.buttons
}

func (s *InputState) MouseButtonsDown(buttons MouseButtons) bool {
	return s.buttons&buttons == buttons
}

// MouseButtonsPressed reports whether exactly buttons are held.
func (s *InputState) MouseButtonsPressed(buttons MouseButtons) bool {
	return s.buttons == buttons
}

func (s *InputState) MouseDown(button MouseButtons) {
	s.buttons |= button
}

func (s *InputState) MouseUp(button MouseButtons) {
	s.buttons &^= button
}

func (s *InputState) ClearMouseButtons() {
	s.buttons = MouseNone
}

func (s *InputState) MouseMove(x, y, dx, dy float64) {
	s.mouseX, s.mouseY = x, y
	s.mouseDX, s.mouseDY = dx, dy
}

func (s *InputState) MouseX() float64  { return s.mouseX }
func (s *InputState) MouseY() float64  { return s.mouseY }
func (s *InputState) MouseDX() float64 { return s.mouseDX }
func (s *InputState) MouseDY() float64 { return s.mouseDY }

func (s *InputState) MousePosition() mgl64.Vec2 {
	return mgl64.Vec2{s.mouseX, s.mouseY}
}

func (s *InputState) Scroll(dx, dy float64) {
	s.scrollX, s.scrollY = dx, dy
}

func (s *InputState) ScrollX() float64 { return s.scrollX }
func (s *InputState) ScrollY() float64 { return s.scrollY }

func (s *InputState) SetGestureZoom(v float64)     { s.gestureZoom = v }
func (s *InputState) SetGestureRotation(v float64) { s.gestureRotation = v }
func (s *InputState) GestureZoom() float64         { return s.gestureZoom }
func (s *InputState) GestureRotation() float64     { return s.gestureRotation }

func (s *InputState) AnyToolDragging() bool {
	return s.anyToolDragging
}

func (s *InputState) SetAnyToolDragging(dragging bool) {
	s.anyToolDragging = dragging
}

func (s *InputState) Camera() *geom.Camera {
	return s.camera
}

func (s *InputState) SetCamera(camera *geom.Camera) {
	s.camera = camera
}

func (s *InputState) PickRay() geom.Ray {
	return s.pickRay
}

func (s *InputState) SetPickRay(ray geom.Ray) {
	s.pickRay = ray
}

func (s *InputState) PickResult() *pick.Result {
	return s.pickResult
}

func (s *InputState) SetPickResult(result *pick.Result) {
	s.pickResult = result
}
