// Package replay runs scripted input against a map view over an in-memory
// document. Scripts are YAML; see Script.
package replay

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gekko3d/brushedit"
	"github.com/gekko3d/brushedit/document"
	"github.com/gekko3d/brushedit/geom"
	"github.com/gekko3d/brushedit/logging"
	"github.com/gekko3d/brushedit/tool"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidScript = errors.New("replay: invalid script")
	ErrUnknownKey    = errors.New("replay: unknown key")
)

type Script struct {
	Grid    float64     `yaml:"grid"` // overrides the preferences when set
	Camera  CameraSpec  `yaml:"camera"`
	Brushes []BrushSpec `yaml:"brushes"`
	Steps   []Step      `yaml:"steps"`
}

// CameraSpec defaults to a 200x200 top-down orthographic view at zoom 1.
type CameraSpec struct {
	Perspective bool       `yaml:"perspective"`
	Position    mgl64.Vec3 `yaml:"position"`
	Direction   mgl64.Vec3 `yaml:"direction"`
	Up          mgl64.Vec3 `yaml:"up"`
	Zoom        float64    `yaml:"zoom"`
	Fov         float64    `yaml:"fov"`
	Width       int        `yaml:"width"`
	Height      int        `yaml:"height"`
}

type BrushSpec struct {
	Name     string     `yaml:"name"`
	Min      mgl64.Vec3 `yaml:"min"`
	Max      mgl64.Vec3 `yaml:"max"`
	Selected bool       `yaml:"selected"`
}

// Step is one scripted action. Exactly one action field must be set.
// Modifiers are held down for the duration of the step.
type Step struct {
	Modifiers []string `yaml:"modifiers"`

	Toggle       string       `yaml:"toggle"`
	Click        *[2]float64  `yaml:"click"`
	DoubleClick  *[2]float64  `yaml:"double_click"`
	Drag         [][2]float64 `yaml:"drag"`
	Move         *[2]float64  `yaml:"move"`
	Key          string       `yaml:"key"`
	Cancel       bool         `yaml:"cancel"`
	MoveVertices *mgl64.Vec3  `yaml:"move_vertices"`
}

func (s Step) actions() int {
	n := 0
	for _, set := range []bool{
		s.Toggle != "", s.Click != nil, s.DoubleClick != nil, len(s.Drag) > 0,
		s.Move != nil, s.Key != "", s.Cancel, s.MoveVertices != nil,
	} {
		if set {
			n++
		}
	}
	return n
}

func Parse(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Script) Validate() error {
	names := make(map[string]bool)
	for i, b := range s.Brushes {
		if b.Name == "" {
			return fmt.Errorf("%w: brush %d has no name", ErrInvalidScript, i)
		}
		if names[b.Name] {
			return fmt.Errorf("%w: duplicate brush %q", ErrInvalidScript, b.Name)
		}
		names[b.Name] = true
		size := b.Max.Sub(b.Min)
		if size.X() <= 0 || size.Y() <= 0 || size.Z() <= 0 {
			return fmt.Errorf("%w: brush %q has no volume", ErrInvalidScript, b.Name)
		}
	}
	for i, step := range s.Steps {
		if n := step.actions(); n != 1 {
			return fmt.Errorf("%w: step %d has %d actions", ErrInvalidScript, i+1, n)
		}
		if len(step.Drag) == 1 {
			return fmt.Errorf("%w: step %d drags to nowhere", ErrInvalidScript, i+1)
		}
	}
	return nil
}

// Size returns the viewport size in pixels.
func (c CameraSpec) Size() (width, height int) {
	width, height = c.Width, c.Height
	if width == 0 {
		width = 200
	}
	if height == 0 {
		height = 200
	}
	return width, height
}

func (c CameraSpec) camera() *geom.Camera {
	c.Width, c.Height = c.Size()
	if c.Direction == (mgl64.Vec3{}) {
		c.Direction = mgl64.Vec3{0, 0, -1}
	}
	if c.Up == (mgl64.Vec3{}) {
		c.Up = mgl64.Vec3{0, 1, 0}
	}
	if c.Position == (mgl64.Vec3{}) {
		c.Position = c.Direction.Mul(-100)
	}
	if c.Perspective {
		if c.Fov == 0 {
			c.Fov = 90
		}
		return geom.NewPerspectiveCamera(c.Position, c.Direction, c.Up, c.Fov, c.Width, c.Height)
	}
	if c.Zoom == 0 {
		c.Zoom = 1
	}
	return geom.NewOrthographicCamera(c.Position, c.Direction, c.Up, c.Zoom, c.Width, c.Height)
}

var keysByName = map[string]tool.Key{
	"shift":     tool.KeyShift,
	"ctrl":      tool.KeyCtrlCmd,
	"cmd":       tool.KeyCtrlCmd,
	"alt":       tool.KeyAlt,
	"escape":    tool.KeyEscape,
	"delete":    tool.KeyDelete,
	"backspace": tool.KeyBackspace,
	"enter":     tool.KeyEnter,
}

func keyByName(name string) (tool.Key, error) {
	k, ok := keysByName[strings.ToLower(name)]
	if !ok {
		return tool.KeyUnknown, fmt.Errorf("%w: %q", ErrUnknownKey, name)
	}
	return k, nil
}

// Session is a map view over a scripted document.
type Session struct {
	Doc     *document.Memory
	ToolBox *brushedit.MapViewToolBox
	View    *brushedit.MapView

	release func()
	clock   time.Time
	log     logging.Logger
}

func NewSession(script *Script, prefs brushedit.Preferences, logger logging.Logger) *Session {
	logger = logging.OrNop(logger)
	gridSize := prefs.GridSize
	if script.Grid > 0 {
		gridSize = script.Grid
	}
	s := &Session{
		Doc:   document.NewMemory(geom.NewGrid(gridSize)),
		clock: time.Unix(0, 0),
		log:   logger,
	}
	var selected []document.BrushID
	for _, spec := range script.Brushes {
		b := document.NewCuboid(spec.Min, spec.Max)
		b.ID = document.BrushID(spec.Name)
		s.Doc.AddBrush(b)
		if spec.Selected {
			selected = append(selected, b.ID)
		}
	}
	if len(selected) > 0 {
		s.Doc.SelectBrushes(selected, false)
	}

	var ref document.Ref
	ref, s.release = document.NewRef(s.Doc)
	s.ToolBox = brushedit.NewMapViewToolBox(ref, prefs, logger)
	s.View = brushedit.NewMapView(s.ToolBox, ref, script.Camera.camera(), logger)
	s.View.Recorder().SetClock(func() time.Time { return s.clock })
	s.ToolBox.DocumentNewedOrLoaded()
	return s
}

// Close invalidates the document for every tool.
func (s *Session) Close() {
	s.release()
}

// Run executes the steps in order. Each step starts a second after the
// previous one, so separate clicks never combine into a double click.
func (s *Session) Run(steps []Step) error {
	for i, step := range steps {
		if err := s.runStep(step); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}

func (s *Session) runStep(step Step) error {
	s.clock = s.clock.Add(time.Second)
	r := s.View.Recorder()

	var mods []tool.Key
	for _, name := range step.Modifiers {
		k, err := keyByName(name)
		if err != nil {
			return err
		}
		if k.Modifier() == tool.ModNone {
			return fmt.Errorf("%w: %q is not a modifier", ErrInvalidScript, name)
		}
		mods = append(mods, k)
		r.RecordKey(tool.KeyDown, k)
	}
	defer func() {
		for _, k := range mods {
			r.RecordKey(tool.KeyUp, k)
		}
		s.View.Flush()
	}()

	switch {
	case step.Toggle != "":
		s.View.Flush()
		active, err := s.ToolBox.ToggleTool(step.Toggle)
		if err != nil {
			return err
		}
		s.log.Debugf("tool %s active: %v", step.Toggle, active)
	case step.Click != nil:
		s.click(step.Click[0], step.Click[1])
	case step.DoubleClick != nil:
		s.click(step.DoubleClick[0], step.DoubleClick[1])
		s.click(step.DoubleClick[0], step.DoubleClick[1])
	case len(step.Drag) > 0:
		first, last := step.Drag[0], step.Drag[len(step.Drag)-1]
		r.RecordMouseDown(tool.MouseLeft, first[0], first[1])
		for _, p := range step.Drag[1:] {
			r.RecordMouseMove(p[0], p[1])
		}
		r.RecordMouseUp(tool.MouseLeft, last[0], last[1])
	case step.Move != nil:
		r.RecordMouseMove(step.Move[0], step.Move[1])
	case step.Key != "":
		k, err := keyByName(step.Key)
		if err != nil {
			return err
		}
		r.RecordKey(tool.KeyDown, k)
		r.RecordKey(tool.KeyUp, k)
	case step.Cancel:
		r.RecordCancel()
	case step.MoveVertices != nil:
		s.View.Flush()
		if !s.ToolBox.AnyVertexToolActive() {
			return fmt.Errorf("%w: move_vertices needs an active vertex tool", ErrInvalidScript)
		}
		s.log.Debugf("move vertices: %v", s.ToolBox.MoveVertices(*step.MoveVertices))
		s.ToolBox.DocumentChanged()
	}
	return nil
}

func (s *Session) click(x, y float64) {
	r := s.View.Recorder()
	r.RecordMouseDown(tool.MouseLeft, x, y)
	r.RecordMouseUp(tool.MouseLeft, x, y)
}

// Report writes the brushes, the selection and the undo history.
func (s *Session) Report(w io.Writer) error {
	selected := make(map[document.BrushID]bool)
	for _, b := range s.Doc.SelectedBrushes() {
		selected[b.ID] = true
	}
	var sb strings.Builder
	for _, b := range s.Doc.Brushes() {
		bounds := b.Bounds()
		mark := " "
		if selected[b.ID] {
			mark = "*"
		}
		fmt.Fprintf(&sb, "%s %s: %d vertices, %d faces, bounds %s - %s\n",
			mark, b.ID, len(b.Vertices), len(b.Faces), formatVec(bounds.Min), formatVec(bounds.Max))
	}
	for i, name := range s.Doc.History() {
		fmt.Fprintf(&sb, "history %d: %s\n", i+1, name)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func formatVec(v mgl64.Vec3) string {
	return fmt.Sprintf("(%g %g %g)", v.X(), v.Y(), v.Z())
}
