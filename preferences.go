package brushedit

import (
	"errors"
	"fmt"
	"os"

	"github.com/gekko3d/brushedit/logging"
	"github.com/gekko3d/brushedit/render"

	"gopkg.in/yaml.v3"
)

// Preferences configures the tools of a map view.
type Preferences struct {
	GridSize          float64 `yaml:"grid_size"`
	HandleRadius      float64 `yaml:"handle_radius"`
	MaxHandleDistance float64 `yaml:"max_handle_distance"`
	LassoDistance     float64 `yaml:"lasso_distance"`
	RotateAngleStep   float64 `yaml:"rotate_angle_step"` // degrees, 0 disables snapping

	Debug     bool          `yaml:"debug"` // forces log_level debug
	LogLevel  logging.Level `yaml:"log_level"`
	LogPrefix string        `yaml:"log_prefix"`

	Colors ColorPreferences `yaml:"colors"`
}

type ColorPreferences struct {
	Handle         render.Color `yaml:"handle"`
	SelectedHandle render.Color `yaml:"selected_handle"`
	Highlight      render.Color `yaml:"highlight"`
	Guide          render.Color `yaml:"guide"`
	Lasso          render.Color `yaml:"lasso"`
}

func DefaultPreferences() Preferences {
	return Preferences{
		GridSize:          16,
		HandleRadius:      3,
		MaxHandleDistance: 0.25,
		LassoDistance:     64,
		RotateAngleStep:   15,
		LogLevel:          logging.LevelInfo,
		LogPrefix:         "brushedit",
		Colors: ColorPreferences{
			Handle:         render.HandleColor,
			SelectedHandle: render.SelectedHandleColor,
			Highlight:      render.HighlightColor,
			Guide:          render.GuideColor,
			Lasso:          render.LassoColor,
		},
	}
}

var ErrInvalidPreferences = errors.New("brushedit: invalid preferences")

// ParsePreferences reads YAML on top of the defaults; missing fields keep their default.
func ParsePreferences(data []byte) (Preferences, error) {
	prefs := DefaultPreferences()
	if err := yaml.Unmarshal(data, &prefs); err != nil {
		return Preferences{}, fmt.Errorf("parse preferences: %w", err)
	}
	if err := prefs.Validate(); err != nil {
		return Preferences{}, err
	}
	return prefs, nil
}

func LoadPreferences(path string) (Preferences, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Preferences{}, fmt.Errorf("load preferences: %w", err)
	}
	return ParsePreferences(data)
}

// NewLogger builds the logger the preferences describe.
func (p Preferences) NewLogger() *logging.StreamLogger {
	level := p.LogLevel
	if p.Debug {
		level = logging.LevelDebug
	}
	return logging.NewStreamLogger(p.LogPrefix, level)
}

func (p Preferences) Validate() error {
	switch {
	case p.GridSize <= 0:
		return fmt.Errorf("%w: grid_size must be positive, got %v", ErrInvalidPreferences, p.GridSize)
	case p.HandleRadius <= 0:
		return fmt.Errorf("%w: handle_radius must be positive, got %v", ErrInvalidPreferences, p.HandleRadius)
	case p.MaxHandleDistance < 0:
		return fmt.Errorf("%w: max_handle_distance must not be negative, got %v", ErrInvalidPreferences, p.MaxHandleDistance)
	case p.LassoDistance <= 0:
		return fmt.Errorf("%w: lasso_distance must be positive, got %v", ErrInvalidPreferences, p.LassoDistance)
	case p.RotateAngleStep < 0:
		return fmt.Errorf("%w: rotate_angle_step must not be negative, got %v", ErrInvalidPreferences, p.RotateAngleStep)
	}
	return nil
}

// Apply installs the configured colors as the render defaults.
func (c ColorPreferences) Apply() {
	render.HandleColor = c.Handle
	render.SelectedHandleColor = c.SelectedHandle
	render.HighlightColor = c.Highlight
	render.GuideColor = c.Guide
	render.LassoColor = c.Lasso
}
