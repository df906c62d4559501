// Package config loads the game's tuning and setup from a YAML file with OXY_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Carmen-Shannon/oxy-fps/common"
	"github.com/Carmen-Shannon/oxy-fps/engine/input"
	"github.com/Carmen-Shannon/oxy-fps/engine/logger"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	Window      WindowConfig      `yaml:"window"`
	Engine      EngineConfig      `yaml:"engine"`
	Player      PlayerConfig      `yaml:"player"`
	Input       InputConfig       `yaml:"input"`
	Interaction InteractionConfig `yaml:"interaction"`
	Logging     LoggingConfig     `yaml:"logging"`
}

type WindowConfig struct {
	Title      string `yaml:"title" env:"OXY_WINDOW_TITLE"`
	Width      int    `yaml:"width" env:"OXY_WINDOW_WIDTH"`
	Height     int    `yaml:"height" env:"OXY_WINDOW_HEIGHT"`
	LockCursor bool   `yaml:"lock_cursor" env:"OXY_WINDOW_LOCK_CURSOR"`
	VSync      bool   `yaml:"vsync" env:"OXY_WINDOW_VSYNC"`
}

type EngineConfig struct {
	TickRate         float64 `yaml:"tick_rate" env:"OXY_ENGINE_TICK_RATE"`
	RenderFrameLimit float64 `yaml:"render_frame_limit" env:"OXY_ENGINE_RENDER_FRAME_LIMIT"`
	Profiling        bool    `yaml:"profiling" env:"OXY_ENGINE_PROFILING"`
}

type PlayerConfig struct {
	MoveSpeed       float32 `yaml:"move_speed" env:"OXY_PLAYER_MOVE_SPEED"`
	LookSensitivity float32 `yaml:"look_sensitivity" env:"OXY_PLAYER_LOOK_SENSITIVITY"`
	MinPitch        float32 `yaml:"min_pitch" env:"OXY_PLAYER_MIN_PITCH"`
	MaxPitch        float32 `yaml:"max_pitch" env:"OXY_PLAYER_MAX_PITCH"`
	EyeHeight       float32 `yaml:"eye_height" env:"OXY_PLAYER_EYE_HEIGHT"`
	// MoveInterval is the minimum seconds between movement steps; 0 steps every tick.
	MoveInterval float32 `yaml:"move_interval" env:"OXY_PLAYER_MOVE_INTERVAL"`
}

// InputConfig holds key names as accepted by common.KeyCode.
type InputConfig struct {
	Forward  string `yaml:"forward" env:"OXY_INPUT_FORWARD"`
	Back     string `yaml:"back" env:"OXY_INPUT_BACK"`
	Left     string `yaml:"left" env:"OXY_INPUT_LEFT"`
	Right    string `yaml:"right" env:"OXY_INPUT_RIGHT"`
	Interact string `yaml:"interact" env:"OXY_INPUT_INTERACT"`
}

type InteractionConfig struct {
	Workers int `yaml:"workers" env:"OXY_INTERACTION_WORKERS"`
}

type LoggingConfig struct {
	Level       string `yaml:"level" env:"OXY_LOG_LEVEL"`
	Format      string `yaml:"format" env:"OXY_LOG_FORMAT"`
	Development bool   `yaml:"development" env:"OXY_LOG_DEVELOPMENT"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:      "oxy-fps",
			Width:      1280,
			Height:     720,
			LockCursor: true,
			VSync:      true,
		},
		Engine: EngineConfig{
			TickRate: 60,
		},
		Player: PlayerConfig{
			MoveSpeed:       5,
			LookSensitivity: 0.1,
			MinPitch:        -80,
			MaxPitch:        80,
			EyeHeight:       1.7,
		},
		Input: InputConfig{
			Forward:  "w",
			Back:     "s",
			Left:     "a",
			Right:    "d",
			Interact: "e",
		},
		Interaction: InteractionConfig{
			Workers: 2,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load builds a Config from the defaults, the YAML file at path (skipped when path is empty) and
// OXY_* environment variables, in that order, and validates the result.
//
// Parameters:
//   - path: the YAML file path, or "" for defaults plus environment only
//
// Returns:
//   - *Config: the loaded configuration
//   - error: read, parse or validation error (validation errors wrap ErrInvalid)
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every section and reports all problems at once.
//
// Returns:
//   - error: nil, or an error wrapping ErrInvalid listing each problem
func (c *Config) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		add("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Engine.TickRate <= 0 {
		add("engine.tick_rate must be positive, got %v", c.Engine.TickRate)
	}
	if c.Engine.RenderFrameLimit < 0 {
		add("engine.render_frame_limit must not be negative, got %v", c.Engine.RenderFrameLimit)
	}
	if c.Player.MoveSpeed < 0 {
		add("player.move_speed must not be negative, got %v", c.Player.MoveSpeed)
	}
	if c.Player.LookSensitivity < 0 {
		add("player.look_sensitivity must not be negative, got %v", c.Player.LookSensitivity)
	}
	if c.Player.MoveInterval < 0 {
		add("player.move_interval must not be negative, got %v", c.Player.MoveInterval)
	}
	if c.Player.MinPitch > c.Player.MaxPitch {
		add("player.min_pitch %v is above max_pitch %v", c.Player.MinPitch, c.Player.MaxPitch)
	}
	if c.Player.MinPitch < -90 || c.Player.MaxPitch > 90 {
		add("player pitch limits must lie within [-90, 90], got [%v, %v]", c.Player.MinPitch, c.Player.MaxPitch)
	}
	for _, k := range []struct{ field, name string }{
		{"forward", c.Input.Forward},
		{"back", c.Input.Back},
		{"left", c.Input.Left},
		{"right", c.Input.Right},
		{"interact", c.Input.Interact},
	} {
		if _, err := common.KeyCode(k.name); err != nil {
			add("input.%s: unknown key %q", k.field, k.name)
		}
	}
	if c.Interaction.Workers < 1 {
		add("interaction.workers must be at least 1, got %d", c.Interaction.Workers)
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

// Bindings resolves the input section into key bindings.
//
// Returns:
//   - input.Bindings: the key bindings
//   - error: error wrapping input.ErrUnknownKey for an unknown key name
func (c *Config) Bindings() (input.Bindings, error) {
	return input.BindingsFromNames(c.Input.Forward, c.Input.Back, c.Input.Left, c.Input.Right, c.Input.Interact)
}

// LoggerConfig converts the logging section for logger.New.
func (c *Config) LoggerConfig() logger.Config {
	return logger.Config{
		Level:       c.Logging.Level,
		Format:      c.Logging.Format,
		Development: c.Logging.Development,
	}
}
