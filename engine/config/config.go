// Package config loads engine settings from TOML or YAML files and turns them into engine
// options. Fields missing from a file keep their defaults.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/safehouse/common"
	"github.com/Carmen-Shannon/safehouse/engine"
	"github.com/Carmen-Shannon/safehouse/engine/logger"
	"github.com/Carmen-Shannon/safehouse/engine/profiler"
	"github.com/Carmen-Shannon/safehouse/engine/render_manager"
	"github.com/Carmen-Shannon/safehouse/engine/renderer"
	"github.com/Carmen-Shannon/safehouse/engine/texture"
	"github.com/Carmen-Shannon/safehouse/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a configuration file syntax.
type Format int

const (
	FormatTOML Format = iota
	FormatYAML
)

// WindowConfig configures the window.
type WindowConfig struct {
	Title  string `toml:"title" yaml:"title"`
	Width  int    `toml:"width" yaml:"width"`
	Height int    `toml:"height" yaml:"height"`
}

// RenderConfig configures the GPU context and the render manager.
type RenderConfig struct {
	// PresentMode is "vsync" or "uncapped".
	PresentMode string `toml:"present_mode" yaml:"present_mode"`
	// ClearColor is RGBA in [0, 1].
	ClearColor [4]float64 `toml:"clear_color" yaml:"clear_color"`
}

// LoopConfig configures the main loop rates.
type LoopConfig struct {
	// TickRate is game logic ticks per second.
	TickRate float64 `toml:"tick_rate" yaml:"tick_rate"`
	// FrameLimit is the maximum frames per second; 0 renders every iteration.
	FrameLimit float64 `toml:"frame_limit" yaml:"frame_limit"`
}

// ProfileConfig configures profiling.
type ProfileConfig struct {
	// Report enables the per-second FPS and memory log line.
	Report bool `toml:"report" yaml:"report"`
	// Mode is a profiler.Mode name, empty for none.
	Mode string `toml:"mode" yaml:"mode"`
	Dir  string `toml:"dir" yaml:"dir"`
}

// EngineConfig is the complete file configuration.
type EngineConfig struct {
	Window  WindowConfig  `toml:"window" yaml:"window"`
	Render  RenderConfig  `toml:"render" yaml:"render"`
	Loop    LoopConfig    `toml:"loop" yaml:"loop"`
	Profile ProfileConfig `toml:"profile" yaml:"profile"`
	// LogLevel is a logger level name.
	LogLevel string `toml:"log_level" yaml:"log_level"`
	// ShaderDir is the directory shader files are loaded and watched from.
	ShaderDir string `toml:"shader_dir" yaml:"shader_dir"`
	// Textures lists image files the application decodes at startup.
	Textures []string `toml:"textures" yaml:"textures"`
}

// Default returns the configuration used for missing fields.
func Default() EngineConfig {
	return EngineConfig{
		Window:    WindowConfig{Title: "safehouse", Width: 800, Height: 800},
		Render:    RenderConfig{PresentMode: "vsync", ClearColor: [4]float64{0, 0, 0, 1}},
		Loop:      LoopConfig{TickRate: 60, FrameLimit: 62.5},
		LogLevel:  "info",
		ShaderDir: "shaders",
	}
}

// FormatOf picks the format from a file extension.
//
// Parameters:
//   - path: the file path
//
// Returns:
//   - Format: the format
//   - error: an error if the extension is not .toml, .yaml or .yml
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return 0, fmt.Errorf("unsupported config format %q", filepath.Ext(path))
}

// Load reads and validates the configuration file at path.
//
// Parameters:
//   - path: a .toml, .yaml or .yml file
//
// Returns:
//   - EngineConfig: the configuration
//   - error: an error if the file cannot be read, parsed or validated
func Load(path string) (EngineConfig, error) {
	format, err := FormatOf(path)
	if err != nil {
		return EngineConfig{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return EngineConfig{}, fmt.Errorf("failed to read config %q: %w", path, err)
	}
	c, err := Parse(data, format)
	if err != nil {
		return EngineConfig{}, fmt.Errorf("config %q: %w", path, err)
	}
	return c, nil
}

// Parse decodes data over the defaults and validates the result. Unknown keys are errors.
//
// Parameters:
//   - data: the file contents
//   - format: the syntax of data
//
// Returns:
//   - EngineConfig: the configuration
//   - error: an error if data cannot be decoded or is invalid
func Parse(data []byte, format Format) (EngineConfig, error) {
	c := Default()
	switch format {
	case FormatTOML:
		if err := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(&c); err != nil {
			return EngineConfig{}, err
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
			return EngineConfig{}, err
		}
	default:
		return EngineConfig{}, fmt.Errorf("unknown config format %d", format)
	}
	if err := c.Validate(); err != nil {
		return EngineConfig{}, err
	}
	return c, nil
}

// Validate checks every field.
func (c EngineConfig) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d is not positive", c.Window.Width, c.Window.Height))
	}
	if _, err := c.presentMode(); err != nil {
		errs = append(errs, err)
	}
	for i, v := range c.Render.ClearColor {
		if v < 0 || v > 1 {
			errs = append(errs, fmt.Errorf("clear_color[%d] = %g is outside [0, 1]", i, v))
		}
	}
	if c.Loop.TickRate < 0 || c.Loop.FrameLimit < 0 {
		errs = append(errs, errors.New("tick_rate and frame_limit must not be negative"))
	}
	if _, ok := logger.ParseLevel(c.LogLevel); !ok {
		errs = append(errs, fmt.Errorf("unknown log level %q", c.LogLevel))
	}
	if _, err := profiler.ParseMode(c.Profile.Mode); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (c EngineConfig) presentMode() (renderer.PresentMode, error) {
	switch strings.ToLower(c.Render.PresentMode) {
	case "", "vsync", "fifo":
		return renderer.PresentModeVSync, nil
	case "uncapped", "immediate":
		return renderer.PresentModeUncapped, nil
	}
	return 0, fmt.Errorf("unknown present mode %q", c.Render.PresentMode)
}

// ApplyLogging sets the engine log level.
func (c EngineConfig) ApplyLogging() {
	level, _ := logger.ParseLevel(c.LogLevel)
	logger.SetLevel(level)
}

// ShaderPath joins name to the shader directory.
func (c EngineConfig) ShaderPath(name string) string {
	return filepath.Join(c.ShaderDir, name)
}

// DecodeTextures decodes every file in Textures concurrently. Uploading the results is left to
// the caller.
//
// Parameters:
//   - workers: the maximum number of concurrent decoders
//
// Returns:
//   - []common.TextureStagingData: the decoded images, indexed like Textures
//   - error: the first decode error in Textures order, if any
func (c EngineConfig) DecodeTextures(workers int) ([]common.TextureStagingData, error) {
	return texture.DecodeAll(c.Textures, workers)
}

// Options converts a validated configuration into engine options.
//
// Returns:
//   - []engine.EngineBuilderOption: the options, to be passed to engine.NewEngine before any
//     caller overrides
func (c EngineConfig) Options() []engine.EngineBuilderOption {
	present, _ := c.presentMode()
	mode, _ := profiler.ParseMode(c.Profile.Mode)
	cc := c.Render.ClearColor

	return []engine.EngineBuilderOption{
		engine.WithWindowOptions(
			window.WithTitle(c.Window.Title),
			window.WithSize(c.Window.Width, c.Window.Height),
		),
		engine.WithGPUOptions(renderer.WithPresentMode(present)),
		engine.WithRenderManagerOptions(
			render_manager.WithClearColor(wgpu.Color{R: cc[0], G: cc[1], B: cc[2], A: cc[3]}),
		),
		engine.WithTickRate(c.Loop.TickRate),
		engine.WithRenderFrameLimit(c.Loop.FrameLimit),
		engine.WithProfiling(c.Profile.Report),
		engine.WithProfileMode(mode, c.Profile.Dir),
	}
}
