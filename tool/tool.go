package tool

// Tool is an activatable editing mode.
type Tool interface {
	Name() string
	Active() bool
	Activate() bool
	Deactivate() bool
}

// Lifecycle hooks run when a tool changes state. Returning false vetoes the change.
type Lifecycle interface {
	DoActivate() bool
	DoDeactivate() bool
}

// Base implements Tool. Concrete tools embed it and pass themselves as
// the Lifecycle when they need activation hooks.
type Base struct {
	name      string
	active    bool
	lifecycle Lifecycle
}

func NewBase(name string, initiallyActive bool, lifecycle Lifecycle) Base {
	return Base{name: name, active: initiallyActive, lifecycle: lifecycle}
}

func (b *Base) Name() string {
	return b.name
}

func (b *Base) Active() bool {
	return b.active
}

func (b *Base) Activate() bool {
	if b.active {
		return true
	}
	if b.lifecycle != nil && !b.lifecycle.DoActivate() {
		return false
	}
	b.active = true
	return true
}

func (b *Base) Deactivate() bool {
	if !b.active {
		return true
	}
	if b.lifecycle != nil && !b.lifecycle.DoDeactivate() {
		return false
	}
	b.active = false
	return true
}
