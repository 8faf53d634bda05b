// Package config handles viewer configuration loading and management.
package config

import "time"

// Config holds all viewer settings.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Camera   CameraConfig   `yaml:"camera"`
	Input    InputConfig    `yaml:"input"`
	Bindings BindingsConfig `yaml:"bindings"`
	ViewCube ViewCubeConfig `yaml:"viewcube"`
	Geodetic GeodeticConfig `yaml:"geodetic"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// CameraConfig holds camera rig settings.
type CameraConfig struct {
	FOV            float64       `yaml:"fov"`  // degrees
	Near           float64       `yaml:"near"` // world units
	Far            float64       `yaml:"far"`  // world units
	MinDistance    float64       `yaml:"min_distance"`
	MaxDistance    float64       `yaml:"max_distance"`
	LookAtDuration time.Duration `yaml:"look_at_duration"`
	ToggleDuration time.Duration `yaml:"toggle_duration"` // projection toggle
	InitialView    string        `yaml:"initial_view"`
}

// InputConfig holds gesture sensitivities.
type InputConfig struct {
	PanSpeed    float64       `yaml:"pan_speed"`    // pixels per scroll step
	ZoomSpeed   float64       `yaml:"zoom_speed"`   // log scale per scroll step
	PinchSpeed  float64       `yaml:"pinch_speed"`  // log scale per pinch unit
	OrbitSpeed  float64       `yaml:"orbit_speed"`  // radians per scroll step
	PivotRepick time.Duration `yaml:"pivot_repick"` // min interval between pivot picks
}

// BindingsConfig maps key chords to actions. Views maps chord specs such
// as "cmd+1" to default-view ids; ProjectionToggle is the chord invoking
// the perspective/orthographic switch.
type BindingsConfig struct {
	Views            map[string]string `yaml:"views"`
	ProjectionToggle string            `yaml:"projection_toggle"`
}

// ViewCubeConfig holds orientation-cube widget settings.
type ViewCubeConfig struct {
	Size          int     `yaml:"size"`    // widget footprint in pixels
	Margin        int     `yaml:"margin"`  // gap from the viewport corner in pixels
	Chamfer       float64 `yaml:"chamfer"` // corner cut as a fraction of the edge
	DragThreshold float64 `yaml:"drag_threshold"`
	RotateSpeed   float64 `yaml:"rotate_speed"`
}

// GeodeticConfig anchors the scene to an ellipsoid position. When
// enabled, the local frame originates at the given geodetic coordinate
// and the render origin rebases whenever the camera target drifts past
// RebaseDistance from it.
type GeodeticConfig struct {
	Enabled        bool    `yaml:"enabled"`
	OriginLat      float64 `yaml:"origin_lat"`    // degrees
	OriginLon      float64 `yaml:"origin_lon"`    // degrees
	OriginHeight   float64 `yaml:"origin_height"` // meters
	RebaseDistance float64 `yaml:"rebase_distance"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:      "Viewer",
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Camera: CameraConfig{
			FOV:            45,
			Near:           0.1,
			Far:            10000,
			MinDistance:    0.01,
			MaxDistance:    5000,
			LookAtDuration: 400 * time.Millisecond,
			ToggleDuration: 300 * time.Millisecond,
			InitialView:    "home",
		},
		Input: InputConfig{
			PanSpeed:    30,
			ZoomSpeed:   0.12,
			PinchSpeed:  4,
			OrbitSpeed:  0.05,
			PivotRepick: 180 * time.Millisecond,
		},
		Bindings: BindingsConfig{
			Views: map[string]string{
				"cmd+1": "home",
				"cmd+2": "top",
				"cmd+3": "front",
				"cmd+4": "right",
			},
			ProjectionToggle: "cmd+0",
		},
		ViewCube: ViewCubeConfig{
			Size:          120,
			Margin:        16,
			Chamfer:       0.2,
			DragThreshold: 4,
			RotateSpeed:   0.01,
		},
		Geodetic: GeodeticConfig{
			Enabled:        false,
			OriginLat:      0,
			OriginLon:      0,
			OriginHeight:   0,
			RebaseDistance: 10000,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
