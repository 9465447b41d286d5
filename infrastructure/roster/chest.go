// Package roster derives team attribution from free-text chest numbers.
// A chest number encodes its wearer's team by convention: a letter
// prefix, a numeric allocation block, or as a last resort the team code
// embedded somewhere in the string.
package roster

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"

	"github.com/asherv/festrank/internal/domain"
	"github.com/asherv/festrank/internal/ports"
)

var _ ports.TeamResolver = (*ChestResolver)(nil)

// Package-level validator instance for configuration validation.
var validate = validator.New()

// folder performs Unicode-aware case folding for roster lookups.
var folder = cases.Fold()

// RemapRule rewrites a two-letter chest prefix onto a full team code.
// Real chest-number data abbreviates some team codes to two letters, so
// the remap table is part of the festival's configuration rather than a
// code constant.
type RemapRule struct {
	// Prefix is the two-letter chest prefix, matched case-insensitively.
	Prefix string `yaml:"prefix" json:"prefix" validate:"required,len=2,alpha"`

	// Code is the team code the prefix stands for.
	Code string `yaml:"code" json:"code" validate:"required"`
}

// RangeRule maps a half-open numeric chest-number block [Low, High) onto
// a team code. Ranges are evaluated in order and the first hit wins.
type RangeRule struct {
	// Low is the inclusive lower bound of the block.
	Low int `yaml:"low" json:"low" validate:"min=0"`

	// High is the exclusive upper bound of the block.
	High int `yaml:"high" json:"high" validate:"gtfield=Low"`

	// Code is the team code the block is allocated to.
	Code string `yaml:"code" json:"code" validate:"required"`
}

// Config holds the chest-number resolution rules for one festival.
type Config struct {
	// Remaps is the two-letter prefix rewrite table.
	Remaps []RemapRule `yaml:"remaps" json:"remaps" validate:"dive"`

	// Ranges is the ordered numeric allocation table.
	Ranges []RangeRule `yaml:"ranges" json:"ranges" validate:"dive"`
}

// ChestResolver resolves team codes from chest numbers using an ordered
// heuristic: explicit letter prefixes outrank numeric-range lookup,
// which outranks scanning the roster for an embedded code. The ordering
// is load-bearing; real chest-number data depends on it.
//
// The resolver is stateless after construction and safe for concurrent use.
type ChestResolver struct {
	config Config
}

// NewChestResolver creates a ChestResolver with a validated rule set.
// Both rule tables may be empty; an empty table simply never matches.
func NewChestResolver(config Config) (*ChestResolver, error) {
	if err := validate.Struct(config); err != nil {
		return nil, configError("chest rules", err)
	}
	return &ChestResolver{config: config}, nil
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

// ResolveTeam derives a team code from a chest number. Heuristics are
// tried in order and the first match wins:
//
//  1. Three or more leading letters: the first three, upper-cased.
//  2. Exactly two leading letters: the remap table's rewrite, or the two
//     letters themselves when no remap applies.
//  3. One leading letter: that letter.
//  4. A fully numeric string: the numeric allocation table, falling back
//     to the raw string's first character when no block covers the value.
//  5. A roster team code embedded anywhere in the string, matched
//     case-insensitively, first roster hit wins.
//  6. Empty string: unresolvable, the caller drops the winner silently.
func (cr *ChestResolver) ResolveTeam(chestNumber string, roster []domain.Team) string {
	s := strings.TrimSpace(chestNumber)
	if s == "" {
		return ""
	}

	upper := strings.ToUpper(s)
	letters := leadingLetters(upper)

	switch {
	case letters >= 3:
		return upper[:3]
	case letters == 2:
		prefix := upper[:2]
		for _, remap := range cr.config.Remaps {
			if strings.ToUpper(remap.Prefix) == prefix {
				return remap.Code
			}
		}
		return prefix
	case letters == 1:
		return upper[:1]
	}

	if value, err := strconv.Atoi(s); err == nil {
		for _, block := range cr.config.Ranges {
			if value >= block.Low && value < block.High {
				return block.Code
			}
		}
		return s[:1]
	}

	folded := folder.String(s)
	for _, team := range roster {
		if team.Code == "" {
			continue
		}
		if strings.Contains(folded, folder.String(team.Code)) {
			return team.Code
		}
	}

	return ""
}

// leadingLetters counts the run of ASCII letters at the start of an
// already upper-cased string.
func leadingLetters(s string) int {
	n := 0
	for ; n < len(s); n++ {
		if s[n] < 'A' || s[n] > 'Z' {
			break
		}
	}
	return n
}

// DefaultConfig returns the festival's standard chest-number rules:
// the SM/IN/AQ prefix remaps and the numeric allocation blocks handed
// out to each team, with the 100 block allocated to team A.
func DefaultConfig() Config {
	return Config{
		Remaps: []RemapRule{
			{Prefix: "SM", Code: "SMD"},
			{Prefix: "IN", Code: "INT"},
			{Prefix: "AQ", Code: "AQS"},
		},
		Ranges: []RangeRule{
			{Low: 600, High: 700, Code: "AQS"},
			{Low: 400, High: 500, Code: "INT"},
			{Low: 200, High: 300, Code: "SMD"},
			{Low: 100, High: 200, Code: "A"},
		},
	}
}

// NewChestResolverFromConfig creates a ChestResolver from a configuration
// map. This is the boundary adapter for YAML/JSON configuration: defaults
// are applied first, then the user config is overlaid.
func NewChestResolverFromConfig(config map[string]any) (*ChestResolver, error) {
	data, err := yaml.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return NewChestResolver(cfg)
}
