// Package pipeline - orchestrates detection filtering, rescaling, label
// lookup, and drawing into one annotation pass.
package pipeline

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/visionkit/go-annotate/detections"
)

// InputShape is the fixed resolution the model was run on.
type InputShape struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Config holds the per-model annotation settings. Thresholds and limits
// are explicit configuration, never package-level globals.
type Config struct {
	// Family selects per-family layout defaults. Optional when Layout
	// is set explicitly.
	Family detections.Family `json:"family" yaml:"family"`
	// Layout is the box coordinate convention. Zero value means
	// "derive from Family".
	Layout detections.Layout `json:"layout" yaml:"layout"`
	// Threshold is the minimum confidence a detection must exceed to
	// be drawn. Nil means DefaultThreshold; an explicit 0 keeps every
	// detection with a positive score.
	Threshold *float32 `json:"threshold" yaml:"threshold"`
	// MaxDetections caps how many of the highest-scoring detections
	// are drawn. Non-positive means no cap.
	MaxDetections int `json:"max_detections" yaml:"max_detections"`
	// Input is the model input resolution detections are decoded in.
	Input InputShape `json:"input" yaml:"input"`
	// CopyImage annotates a clone instead of mutating the caller's
	// buffer in place.
	CopyImage bool `json:"copy_image" yaml:"copy_image"`
}

// DefaultThreshold is used when a config does not set one.
const DefaultThreshold float32 = 0.5

// applyDefaults fills the layout from the family and the threshold from
// DefaultThreshold.
func (c *Config) applyDefaults() error {
	if c.Layout.Order == "" {
		if c.Family == "" {
			return fmt.Errorf("either a model family or an explicit box layout is required")
		}
		layout, err := detections.FamilyLayout(c.Family)
		if err != nil {
			return err
		}
		c.Layout = layout
	}
	if c.Threshold == nil {
		t := DefaultThreshold
		c.Threshold = &t
	}
	return nil
}

// Validate checks the config for values the pipeline cannot work with.
func (c *Config) Validate() error {
	if err := c.applyDefaults(); err != nil {
		return err
	}
	if c.Input.Width <= 0 || c.Input.Height <= 0 {
		return fmt.Errorf("invalid input shape: %dx%d", c.Input.Width, c.Input.Height)
	}
	if *c.Threshold < 0 || *c.Threshold >= 1 {
		return fmt.Errorf("threshold %v outside [0, 1)", *c.Threshold)
	}
	return nil
}

// LoadConfig reads and validates a YAML pipeline configuration.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "failed to read config %s", path)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "failed to parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
