package tool

import (
	"github.com/gekko3d/brushedit/logging"
)

// Observer is notified after tool state changes.
type Observer interface {
	ToolActivated(t Tool)
	ToolDeactivated(t Tool)
}

// Box owns the tools of one editor and arbitrates between them: tools in
// an exclusive group are mutually exclusive, and a primary tool
// suppresses other tools while it is active.
type Box struct {
	tools      []Tool
	exclusive  map[Tool][]Tool
	suppressed map[Tool][]Tool
	enabled    bool
	observer   Observer
	interrupts []func()
	log        logging.Logger
}

func NewBox(logger logging.Logger) *Box {
	return &Box{
		exclusive:  make(map[Tool][]Tool),
		suppressed: make(map[Tool][]Tool),
		enabled:    true,
		log:        logging.OrNop(logger),
	}
}

func (b *Box) SetObserver(o Observer) {
	b.observer = o
}

func (b *Box) AddTool(t Tool) {
	for _, existing := range b.tools {
		if existing == t {
			return
		}
	}
	b.tools = append(b.tools, t)
}

func (b *Box) Tools() []Tool {
	return b.tools
}

// AddExclusiveGroup makes the given tools mutually exclusive.
func (b *Box) AddExclusiveGroup(tools ...Tool) {
	for _, t := range tools {
		b.AddTool(t)
		for _, other := range tools {
			if other != t {
				b.exclusive[t] = append(b.exclusive[t], other)
			}
		}
	}
}

// SuppressWhileActive hides the suppressed tools from event dispatch while
// primary is active. Suppressed tools keep their own activation state.
func (b *Box) SuppressWhileActive(primary Tool, suppressed ...Tool) {
	b.AddTool(primary)
	for _, t := range suppressed {
		b.AddTool(t)
	}
	b.suppressed[primary] = append(b.suppressed[primary], suppressed...)
}

func (b *Box) Suppressed(t Tool) bool {
	for primary, tools := range b.suppressed {
		if !primary.Active() {
			continue
		}
		for _, s := range tools {
			if s == t {
				return true
			}
		}
	}
	return false
}

// Eligible reports whether t currently receives events.
func (b *Box) Eligible(t Tool) bool {
	return b.enabled && t.Active() && !b.Suppressed(t)
}

func (b *Box) Enabled() bool {
	return b.enabled
}

func (b *Box) Enable() {
	b.enabled = true
}

func (b *Box) Disable() {
	b.enabled = false
}

// ActivateTool deactivates the exclusive peers of t, then activates t.
// If a peer or t itself refuses, the peers deactivated so far are
// reactivated and the group is left as it was. Observers hear about the
// change only once it has succeeded, deactivations first, so they never
// see a moment in which no member of the group is active.
func (b *Box) ActivateTool(t Tool) bool {
	if t.Active() {
		return true
	}
	b.Interrupt()

	var deactivated []Tool
	restore := func() {
		for _, other := range deactivated {
			if !other.Activate() {
				b.log.Errorf("tool %s could not be reactivated", other.Name())
			}
		}
	}
	for _, other := range b.exclusive[t] {
		if !other.Active() {
			continue
		}
		if !other.Deactivate() {
			b.log.Warnf("tool %s refused deactivation, not activating %s", other.Name(), t.Name())
			restore()
			return false
		}
		deactivated = append(deactivated, other)
	}
	if !t.Activate() {
		b.log.Debugf("tool %s refused activation", t.Name())
		restore()
		return false
	}

	if b.observer != nil {
		for _, other := range deactivated {
			b.observer.ToolDeactivated(other)
		}
		b.observer.ToolActivated(t)
	}
	return true
}

func (b *Box) DeactivateTool(t Tool) bool {
	if !t.Active() {
		return true
	}
	b.Interrupt()
	if !t.Deactivate() {
		return false
	}
	if b.observer != nil {
		b.observer.ToolDeactivated(t)
	}
	return true
}

// AddInterruptHandler registers f to run before any tool changes state.
// Connectors use it to cancel a live gesture, which would otherwise
// outlive the tool that started it.
func (b *Box) AddInterruptHandler(f func()) {
	b.interrupts = append(b.interrupts, f)
}

// Interrupt runs the interrupt handlers.
func (b *Box) Interrupt() {
	for _, f := range b.interrupts {
		f()
	}
}

// ToggleTool activates an inactive tool or deactivates an active one.
func (b *Box) ToggleTool(t Tool) bool {
	if t.Active() {
		return b.DeactivateTool(t)
	}
	return b.ActivateTool(t)
}

// DeactivateAllTools deactivates every active member of an exclusive group.
// Tools outside any group stay as they are.
func (b *Box) DeactivateAllTools() {
	for _, t := range b.tools {
		if _, ok := b.exclusive[t]; ok && t.Active() {
			b.DeactivateTool(t)
		}
	}
}
