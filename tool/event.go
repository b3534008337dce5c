package tool

// Event is one canonical input event produced by a platform adapter.
type Event interface {
	Process(p EventProcessor)
}

type EventProcessor interface {
	ProcessKey(e KeyEvent)
	ProcessMouse(e MouseEvent)
	ProcessScroll(e ScrollEvent)
	ProcessGesture(e GestureEvent)
	ProcessCancel(e CancelEvent)
}

type KeyEventType int

const (
	KeyDown KeyEventType = iota
	KeyUp
)

type Key int

const (
	KeyUnknown Key = iota
	KeyShift
	KeyCtrlCmd
	KeyAlt
	KeyEscape
	KeyDelete
	KeyBackspace
	KeyEnter
)

// Modifier returns the modifier flag of k, or ModNone for ordinary keys.
func (k Key) Modifier() ModifierKeys {
	switch k {
	case KeyShift:
		return ModShift
	case KeyCtrlCmd:
		return ModCtrlCmd
	case KeyAlt:
		return ModAlt
	default:
		return ModNone
	}
}

type KeyEvent struct {
	Type KeyEventType
	Key  Key
}

func (e KeyEvent) Process(p EventProcessor) { p.ProcessKey(e) }

type MouseEventType int

const (
	MouseButtonDown MouseEventType = iota
	MouseButtonUp
	MouseClick
	MouseDoubleClick
	MouseMotion
	MouseDragStart
	MouseDrag
	MouseDragEnd
)

func (t MouseEventType) String() string {
	switch t {
	case MouseButtonDown:
		return "down"
	case MouseButtonUp:
		return "up"
	case MouseClick:
		return "click"
	case MouseDoubleClick:
		return "double-click"
	case MouseMotion:
		return "motion"
	case MouseDragStart:
		return "drag-start"
	case MouseDrag:
		return "drag"
	case MouseDragEnd:
		return "drag-end"
	default:
		return "unknown"
	}
}

type MouseEvent struct {
	Type   MouseEventType
	Button MouseButtons
	X, Y   float64
}

func (e MouseEvent) Process(p EventProcessor) { p.ProcessMouse(e) }

type ScrollSource int

const (
	ScrollMouse ScrollSource = iota
	ScrollTrackpad
)

type ScrollAxis int

const (
	ScrollVertical ScrollAxis = iota
	ScrollHorizontal
)

type ScrollEvent struct {
	Source   ScrollSource
	Axis     ScrollAxis
	Distance float64
}

func (e ScrollEvent) Process(p EventProcessor) { p.ProcessScroll(e) }

type GestureEventType int

const (
	GestureStart GestureEventType = iota
	GestureEnd
	GesturePan
	GestureZoom
	GestureRotate
)

type GestureEvent struct {
	Type  GestureEventType
	X, Y  float64
	Value float64
}

func (e GestureEvent) Process(p EventProcessor) { p.ProcessGesture(e) }

type CancelEvent struct{}

func (e CancelEvent) Process(p EventProcessor) { p.ProcessCancel(e) }
