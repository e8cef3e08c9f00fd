// Package config handles objsvg configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/taigrr/objsvg/pkg/math3d"
	"github.com/taigrr/objsvg/pkg/render"
)

// Config holds all settings.
type Config struct {
	Render  RenderConfig  `yaml:"render"`
	Camera  CameraConfig  `yaml:"camera"`
	Preview PreviewConfig `yaml:"preview"`
	Logging LoggingConfig `yaml:"logging"`
}

// RenderConfig holds image and stroke settings.
type RenderConfig struct {
	Width           int     `yaml:"width"`
	Height          int     `yaml:"height"`
	CanvasWidth     float64 `yaml:"canvas_width"`
	CanvasHeight    float64 `yaml:"canvas_height"`
	Stroke          string  `yaml:"stroke"`
	StrokeWidth     float64 `yaml:"stroke_width"`
	ColorByMaterial bool    `yaml:"color_by_material"`
	Background      string  `yaml:"background"`
}

// CameraConfig places the camera. With Fit set the matrix is ignored and an
// orbit camera frames the model instead.
type CameraConfig struct {
	CameraToWorld []float64 `yaml:"camera_to_world"`
	Fit           bool      `yaml:"fit"`
	Yaw           float64   `yaml:"yaw"`   // degrees
	Pitch         float64   `yaml:"pitch"` // degrees
}

// PreviewConfig tunes the terminal preview.
type PreviewConfig struct {
	FPS       int     `yaml:"fps"`
	Frequency float64 `yaml:"frequency"`
	Damping   float64 `yaml:"damping"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Render: RenderConfig{
			Width:        512,
			Height:       512,
			CanvasWidth:  2,
			CanvasHeight: 2,
			Stroke:       "#000000",
			StrokeWidth:  1,
			Background:   "none",
		},
		Camera: CameraConfig{
			CameraToWorld: append([]float64(nil), render.DefaultCameraToWorld[:]...),
			Yaw:           30,
			Pitch:         20,
		},
		Preview: PreviewConfig{
			FPS:       30,
			Frequency: 4,
			Damping:   0.6,
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// Matrix returns the configured camera-to-world matrix.
func (c CameraConfig) Matrix() (math3d.Mat4, error) {
	var m math3d.Mat4
	if len(c.CameraToWorld) != len(m) {
		return m, fmt.Errorf("camera_to_world needs %d values, got %d", len(m), len(c.CameraToWorld))
	}
	copy(m[:], c.CameraToWorld)
	return m, nil
}

// StrokeColor parses Render.Stroke.
func (c RenderConfig) StrokeColor() (render.Color, error) {
	return render.ParseColor(c.Stroke)
}

// BackgroundColor parses Render.Background.
func (c RenderConfig) BackgroundColor() (render.Color, error) {
	return render.ParseColor(c.Background)
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var errs error
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("render size must be positive, got %dx%d", c.Render.Width, c.Render.Height))
	}
	if c.Render.CanvasWidth <= 0 || c.Render.CanvasHeight <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("canvas size must be positive, got %gx%g", c.Render.CanvasWidth, c.Render.CanvasHeight))
	}
	if c.Render.StrokeWidth <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("stroke_width must be positive, got %g", c.Render.StrokeWidth))
	}
	if _, err := c.Render.StrokeColor(); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("stroke: %w", err))
	}
	if _, err := c.Render.BackgroundColor(); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("background: %w", err))
	}
	if _, err := c.Camera.Matrix(); err != nil {
		errs = multierr.Append(errs, err)
	}
	if c.Preview.FPS <= 0 {
		errs = multierr.Append(errs, errors.New("preview fps must be positive"))
	}
	return errs
}
