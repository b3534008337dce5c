package tool

import (
	"math"
	"time"
)

const (
	// DragThreshold is the pointer travel, in pixels, that turns a press into a drag.
	DragThreshold = 2.0
	// DoubleClickInterval bounds the time between two clicks of a double click.
	DoubleClickInterval = 400 * time.Millisecond
)

// EventRecorder turns raw platform input into the canonical event stream.
// A press followed by little travel yields down, up, click; more travel
// yields down, drag-start, drag..., drag-end, up.
type EventRecorder struct {
	queue []Event
	now   func() time.Time

	buttonDown   MouseButtons
	downX, downY float64
	dragging     bool

	lastClick       time.Time
	lastClickButton MouseButtons
	lastClickX      float64
	lastClickY      float64
}

func NewEventRecorder() *EventRecorder {
	return &EventRecorder{now: time.Now}
}

// SetClock replaces the time source used for double-click detection.
func (r *EventRecorder) SetClock(now func() time.Time) {
	r.now = now
}

func (r *EventRecorder) RecordKey(t KeyEventType, key Key) {
	r.enqueue(KeyEvent{Type: t, Key: key})
}

func (r *EventRecorder) RecordMouseDown(button MouseButtons, x, y float64) {
	if r.buttonDown != MouseNone {
		// Chorded presses are folded into the first button's gesture.
		return
	}
	r.buttonDown = button
	r.downX, r.downY = x, y
	r.enqueue(MouseEvent{Type: MouseButtonDown, Button: button, X: x, Y: y})
}

func (r *EventRecorder) RecordMouseMove(x, y float64) {
	if r.buttonDown == MouseNone {
		r.enqueue(MouseEvent{Type: MouseMotion, X: x, Y: y})
		return
	}
	if !r.dragging {
		if math.Hypot(x-r.downX, y-r.downY) < DragThreshold {
			return
		}
		r.dragging = true
		r.enqueue(MouseEvent{Type: MouseDragStart, Button: r.buttonDown, X: r.downX, Y: r.downY})
	}
	r.enqueue(MouseEvent{Type: MouseDrag, Button: r.buttonDown, X: x, Y: y})
}

func (r *EventRecorder) RecordMouseUp(button MouseButtons, x, y float64) {
	if button != r.buttonDown {
		return
	}
	r.buttonDown = MouseNone
	if r.dragging {
		r.dragging = false
		r.enqueue(MouseEvent{Type: MouseDragEnd, Button: button, X: x, Y: y})
		r.enqueue(MouseEvent{Type: MouseButtonUp, Button: button, X: x, Y: y})
		return
	}

	r.enqueue(MouseEvent{Type: MouseButtonUp, Button: button, X: x, Y: y})
	now := r.now()
	if button == r.lastClickButton &&
		now.Sub(r.lastClick) <= DoubleClickInterval &&
		math.Hypot(x-r.lastClickX, y-r.lastClickY) < DragThreshold {
		r.enqueue(MouseEvent{Type: MouseDoubleClick, Button: button, X: x, Y: y})
		r.lastClick = time.Time{}
		return
	}
	r.enqueue(MouseEvent{Type: MouseClick, Button: button, X: x, Y: y})
	r.lastClick = now
	r.lastClickButton = button
	r.lastClickX, r.lastClickY = x, y
}

func (r *EventRecorder) RecordScroll(source ScrollSource, axis ScrollAxis, distance float64) {
	r.enqueue(ScrollEvent{Source: source, Axis: axis, Distance: distance})
}

func (r *EventRecorder) RecordGesture(t GestureEventType, x, y, value float64) {
	r.enqueue(GestureEvent{Type: t, X: x, Y: y, Value: value})
}

// RecordCancel queues a cancel event, e.g. for the Escape key.
func (r *EventRecorder) RecordCancel() {
	r.enqueue(CancelEvent{})
}

func (r *EventRecorder) Pending() int {
	return len(r.queue)
}

// ProcessEvents drains the queue in arrival order.
func (r *EventRecorder) ProcessEvents(p EventProcessor) {
	for len(r.queue) > 0 {
		e := r.queue[0]
		r.queue = r.queue[1:]
		e.Process(p)
	}
}

func (r *EventRecorder) enqueue(e Event) {
	r.queue = append(r.queue, e)
}
