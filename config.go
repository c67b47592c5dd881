package morph

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Config holds everything NewField needs. Start from DefaultConfig and
// override fields, or load JSON with LoadConfig.
type Config struct {
	// Particles is the number of points in every shape.
	Particles int `json:"particles"`
	// Seed makes shape generation reproducible when non-zero.
	Seed uint64 `json:"seed"`
	// InitialShape is loaded into the buffer at startup.
	InitialShape ShapeName `json:"initialShape"`
	// MorphDuration is the transition length in seconds.
	MorphDuration float64 `json:"morphDuration"`
	// Policy selects how a morph request during a transition is handled.
	Policy RetargetPolicy `json:"policy"`
	// RotationSpeed spins the field about Y, in radians per second.
	RotationSpeed float64 `json:"rotationSpeed"`

	// Sections is the scroll trigger table.
	Sections []Section `json:"sections"`
	// PageHeight bounds scrolling when positive.
	PageHeight float64 `json:"pageHeight"`

	// ViewportWidth and ViewportHeight size the camera and the scroll
	// center line until the host reports its real size.
	ViewportWidth  float64 `json:"viewportWidth"`
	ViewportHeight float64 `json:"viewportHeight"`

	// Color1 and Color2 are the bottom and top of the vertical gradient.
	Color1 Color `json:"color1"`
	Color2 Color `json:"color2"`
	// Blend is the compositing mode for particles.
	Blend BlendMode `json:"-"`

	// Debug logs per-frame timing at debug level.
	Debug bool `json:"debug"`
}

// DefaultConfig returns the portfolio setup: 5000 particles starting as a
// sphere, four scroll sections, 2 second ease-in-out morphs.
func DefaultConfig() Config {
	return Config{
		Particles:      5000,
		InitialShape:   ShapeSphere,
		MorphDuration:  DefaultMorphDuration,
		Policy:         RetargetRestart,
		RotationSpeed:  0.05,
		Sections:       DefaultSections(900, 1800, 2700, 3600),
		PageHeight:     4500,
		ViewportWidth:  1280,
		ViewportHeight: 720,
		Color1:         ColorCyan,
		Color2:         ColorPurple,
		Blend:          BlendAdd,
	}
}

// Validate reports the first problem with c, wrapped in ErrInvalidConfig.
func (c Config) Validate() error {
	if c.Particles <= 0 {
		return fmt.Errorf("particles = %d: %w", c.Particles, ErrInvalidConfig)
	}
	if c.InitialShape == "" {
		return fmt.Errorf("initial shape is empty: %w", ErrInvalidConfig)
	}
	if c.MorphDuration < 0 || c.MorphDuration != c.MorphDuration {
		return fmt.Errorf("morph duration = %v: %w", c.MorphDuration, ErrInvalidConfig)
	}
	if c.ViewportWidth < 0 || c.ViewportHeight < 0 {
		return fmt.Errorf("viewport %vx%v: %w", c.ViewportWidth, c.ViewportHeight, ErrInvalidConfig)
	}
	for i, s := range c.Sections {
		if s.Name == "" || s.Enter == "" || s.LeaveBack == "" {
			return fmt.Errorf("section %d is incomplete: %w", i, ErrInvalidConfig)
		}
	}
	return nil
}

// LoadConfig parses JSON over DefaultConfig and validates the result. Keys
// missing from the JSON keep their default values.
func LoadConfig(jsonData []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := json.Unmarshal(jsonData, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// MarshalText implements encoding.TextMarshaler.
func (p RetargetPolicy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, accepting "restart",
// "snap" and "queue".
func (p *RetargetPolicy) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "restart", "":
		*p = RetargetRestart
	case "snap":
		*p = RetargetSnap
	case "queue":
		*p = RetargetQueue
	default:
		return fmt.Errorf("unknown retarget policy %q: %w", text, ErrInvalidConfig)
	}
	return nil
}
