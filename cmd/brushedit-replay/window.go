package main

import (
	"fmt"
	"runtime"
	"time"

	"github.com/gekko3d/brushedit"
	"github.com/gekko3d/brushedit/glfwinput"
	"github.com/gekko3d/brushedit/internal/replay"
	"github.com/gekko3d/brushedit/logging"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func init() {
	// glfw must be driven from the main thread.
	runtime.LockOSThread()
}

// runWindow feeds window input into the session's map view until the
// window is closed.
func runWindow(session *replay.Session, script *replay.Script, logger logging.Logger) error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("init glfw: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.False)
	width, height := script.Camera.Size()
	window, err := glfw.CreateWindow(width, height, "brushedit", nil, nil)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	defer window.Destroy()

	view := session.View
	view.Recorder().SetClock(time.Now)
	session.ToolBox.SetPageListener(func(p brushedit.Page) {
		window.SetTitle("brushedit - " + string(p))
	})
	defer session.ToolBox.SetPageListener(nil)

	glfwinput.Attach(window, view.Recorder())
	defer glfwinput.Detach(window)

	logger.Infof("editing in a %dx%d window, close it to print the report", width, height)
	for !window.ShouldClose() {
		glfw.WaitEventsTimeout(0.05)
		view.Flush()
	}
	// A gesture still open when the window closes is rolled back.
	view.Connector().CancelDrag()
	return nil
}
