// Package application wires the scoring engine's components together:
// configuration loading, reference-data fetching, and the leaderboard
// service consumers call.
package application

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/asherv/festrank/infrastructure/leaderboard"
	"github.com/asherv/festrank/infrastructure/roster"
	"github.com/asherv/festrank/infrastructure/scoring"
	"github.com/asherv/festrank/internal/domain"
)

// Package-level validator instance for configuration validation.
var validate = validator.New()

// EngineConfig is the complete configuration for one festival's scoring
// engine: the marking scheme, the chest-number resolution rules, and
// leaderboard presentation defaults. Every section has working defaults,
// so an empty file configures the standard festival.
type EngineConfig struct {
	// Marking is the position-rule table and grade bonus scheme.
	Marking scoring.Config `yaml:"marking" validate:"required"`

	// Chest is the chest-number prefix remap and numeric range rules.
	Chest roster.Config `yaml:"chest"`

	// Leaderboard carries presentation defaults for built standings.
	Leaderboard leaderboard.Config `yaml:"leaderboard"`
}

// DefaultEngineConfig returns the standard festival configuration.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Marking:     scoring.DefaultConfig(),
		Chest:       roster.DefaultConfig(),
		Leaderboard: leaderboard.DefaultAggregatorConfig(),
	}
}

// LoadEngineConfig reads a YAML engine configuration from path, overlaying
// it on the defaults. Strict decoding catches unknown fields early.
func LoadEngineConfig(path string) (EngineConfig, error) {
	cfg := DefaultEngineConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return EngineConfig{}, fmt.Errorf("read engine config: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return EngineConfig{}, fmt.Errorf("parse engine config: %w", err)
	}

	if err := validate.Struct(cfg); err != nil {
		return EngineConfig{}, configError("engine config", err)
	}

	return cfg, nil
}

// configError converts validator field errors into a domain
// ValidationError listing every failed constraint.
func configError(entity string, err error) error {
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return fmt.Errorf("%s: %w", entity, err)
	}
	issues := make([]string, 0, len(fields))
	for _, f := range fields {
		issues = append(issues, fmt.Sprintf("%s failed %q", f.Namespace(), f.Tag()))
	}
	return domain.NewValidationError(entity, issues...)
}
