package tool

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type eventLog struct {
	events []string
}

func (l *eventLog) ProcessKey(e KeyEvent)         { l.events = append(l.events, "key") }
func (l *eventLog) ProcessMouse(e MouseEvent)     { l.events = append(l.events, e.Type.String()) }
func (l *eventLog) ProcessScroll(e ScrollEvent)   { l.events = append(l.events, "scroll") }
func (l *eventLog) ProcessGesture(e GestureEvent) { l.events = append(l.events, "gesture") }
func (l *eventLog) ProcessCancel(e CancelEvent)   { l.events = append(l.events, "cancel") }

func drain(r *EventRecorder) []string {
	var l eventLog
	r.ProcessEvents(&l)
	return l.events
}

func TestEventRecorder_Click(t *testing.T) {
	r := NewEventRecorder()
	r.RecordMouseDown(MouseLeft, 10, 10)
	r.RecordMouseMove(11, 10)
	r.RecordMouseUp(MouseLeft, 11, 10)

	assert.Equal(t, []string{"down", "up", "click"}, drain(r))
	assert.Zero(t, r.Pending())
}

func TestEventRecorder_Drag(t *testing.T) {
	r := NewEventRecorder()
	r.RecordMouseMove(5, 5)
	r.RecordMouseDown(MouseLeft, 10, 10)
	r.RecordMouseMove(20, 10)
	r.RecordMouseMove(30, 10)
	r.RecordMouseUp(MouseLeft, 30, 10)

	assert.Equal(t, []string{"motion", "down", "drag-start", "drag", "drag", "drag-end", "up"}, drain(r))
}

func TestEventRecorder_DragStartsAtPressPosition(t *testing.T) {
	r := NewEventRecorder()
	r.RecordMouseDown(MouseLeft, 10, 10)
	r.RecordMouseMove(20, 10)

	var starts []MouseEvent
	for _, e := range r.queue {
		if m, ok := e.(MouseEvent); ok && m.Type == MouseDragStart {
			starts = append(starts, m)
		}
	}
	if assert.Len(t, starts, 1) {
		assert.Equal(t, 10.0, starts[0].X)
		assert.Equal(t, 10.0, starts[0].Y)
	}
}

func TestEventRecorder_DoubleClick(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r := NewEventRecorder()
	r.SetClock(func() time.Time { return now })

	r.RecordMouseDown(MouseLeft, 10, 10)
	r.RecordMouseUp(MouseLeft, 10, 10)
	now = now.Add(100 * time.Millisecond)
	r.RecordMouseDown(MouseLeft, 10, 10)
	r.RecordMouseUp(MouseLeft, 10, 10)
	now = now.Add(time.Second)
	r.RecordMouseDown(MouseLeft, 10, 10)
	r.RecordMouseUp(MouseLeft, 10, 10)

	assert.Equal(t, []string{
		"down", "up", "click",
		"down", "up", "double-click",
		"down", "up", "click",
	}, drain(r))
}

func TestEventRecorder_ChordedButtonsIgnored(t *testing.T) {
	r := NewEventRecorder()
	r.RecordMouseDown(MouseLeft, 0, 0)
	r.RecordMouseDown(MouseRight, 0, 0)
	r.RecordMouseUp(MouseRight, 0, 0)
	r.RecordMouseUp(MouseLeft, 0, 0)
	r.RecordCancel()
	r.RecordKey(KeyDown, KeyShift)

	assert.Equal(t, []string{"down", "up", "click", "cancel", "key"}, drain(r))
}
