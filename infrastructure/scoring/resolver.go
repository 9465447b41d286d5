package scoring

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/asherv/festrank/internal/domain"
	"github.com/asherv/festrank/internal/ports"
)

var _ ports.PointsResolver = (*Resolver)(nil)

// PositionRule matches one (category, section, position type) combination
// onto its placement base points. Empty Section or PositionTypes act as
// wildcards; Category always binds. Rules are evaluated in order and the
// first match wins, so more specific rules belong earlier in the list.
type PositionRule struct {
	// Category the rule applies to. A result with no resolvable category
	// is treated as arts before matching, mirroring the marking scheme's
	// arts-by-default convention.
	Category string `yaml:"category" json:"category" validate:"required,oneof=arts sports"`

	// Section the rule applies to; empty matches every section.
	Section string `yaml:"section,omitempty" json:"section,omitempty" validate:"omitempty,oneof=senior junior sub-junior general"`

	// PositionTypes the rule applies to; empty matches every position type.
	PositionTypes []string `yaml:"position_types,omitempty" json:"position_types,omitempty" validate:"omitempty,dive,oneof=individual group general"`

	// Points awarded for first, second, and third place under this rule.
	Points ports.PositionPoints `yaml:"points" json:"points"`
}

// matches reports whether the rule covers the normalized inputs.
func (r PositionRule) matches(category, section, positionType string) bool {
	if r.Category != category {
		return false
	}
	if r.Section != "" && r.Section != section {
		return false
	}
	if len(r.PositionTypes) == 0 {
		return true
	}
	for _, pt := range r.PositionTypes {
		if pt == positionType {
			return true
		}
	}
	return false
}

// Config holds the full marking scheme: the ordered position-rule list,
// the fallback triple for combinations no rule covers, and the grade
// bonus table keyed by upper-case grade letter. Configuration is
// immutable after resolver creation.
type Config struct {
	// Rules is the ordered position-rule list; first match wins.
	Rules []PositionRule `yaml:"rules" json:"rules" validate:"required,min=1,dive"`

	// Fallback is returned for combinations no rule covers. The marking
	// scheme treats an unknown combination as worth a token point rather
	// than failing the result.
	Fallback ports.PositionPoints `yaml:"fallback" json:"fallback"`

	// Grades maps a grade's leading letter onto its bonus points.
	// Letters absent from the table are worth zero.
	Grades map[string]int `yaml:"grades" json:"grades" validate:"required,min=1"`
}

// Resolver is the marking rule resolver. It is a pure total function of
// its inputs: deterministic, stateless after construction, and safe for
// concurrent use. Unknown combinations report matched=false instead of
// logging, leaving the logging decision to callers.
type Resolver struct {
	config Config
}

// NewResolver creates a Resolver with a validated marking configuration.
//
// Returns ErrNoRules or ErrNoGrades for empty scheme parts, or a
// validation error when a rule violates its constraints.
func NewResolver(config Config) (*Resolver, error) {
	if len(config.Rules) == 0 {
		return nil, ErrNoRules
	}
	if len(config.Grades) == 0 {
		return nil, ErrNoGrades
	}
	if err := validate.Struct(config); err != nil {
		return nil, configError("marking configuration", err)
	}

	// Grade lookups go through Grade.Letter, which upper-cases, so the
	// table must be keyed the same way regardless of config casing.
	grades := make(map[string]int, len(config.Grades))
	for letter, points := range config.Grades {
		grades[strings.ToUpper(strings.TrimSpace(letter))] = points
	}
	config.Grades = grades

	return &Resolver{config: config}, nil
}

// PositionPoints resolves the base points for the three placements of a
// programme contested in the given section, position type, and category.
// Inputs are case-insensitive; an empty category is treated as arts.
//
// The boolean reports whether a rule matched. When none does, the
// configured fallback triple is returned with matched=false; the
// resolver never fails.
func (r *Resolver) PositionPoints(section domain.Section, positionType domain.PositionType, category domain.Category) (ports.PositionPoints, bool) {
	cat := norm(string(category))
	if cat == "" {
		cat = string(domain.CategoryArts)
	}
	sec := norm(string(section))
	pos := norm(string(positionType))

	for _, rule := range r.config.Rules {
		if rule.matches(cat, sec, pos) {
			return rule.Points, true
		}
	}
	return r.config.Fallback, false
}

// GradePoints returns the bonus for a grade. Only the grade's leading
// letter is considered, folded to upper case, so "a-" and "A+" are both
// worth the A bonus. Letters absent from the grade table, including the
// empty grade, are worth zero.
func (r *Resolver) GradePoints(grade domain.Grade) int {
	letter := grade.Letter()
	if letter == "" {
		return 0
	}
	return r.config.Grades[letter]
}

// TotalPoints returns the placement's base points plus the grade bonus,
// along with the rule-matched flag from PositionPoints.
func (r *Resolver) TotalPoints(section domain.Section, positionType domain.PositionType, placement domain.Placement, grade domain.Grade, category domain.Category) (int, bool) {
	points, matched := r.PositionPoints(section, positionType, category)
	return points.For(placement) + r.GradePoints(grade), matched
}

// DefaultConfig returns the standard festival marking scheme.
//
// Sports: team-vs-team (general section) awards 15/10/5; individual
// events 3/2/1; group events 5/3/1. Arts: the general section awards
// 10/6/3 for individual and 15/10/5 for group and team events; the
// senior, junior, and sub-junior sections award 3/2/1 for individual and
// 5/3/1 for group and team events. Anything else is worth the 1/1/1
// fallback. Grade bonuses are A=5, B=3, C=1.
func DefaultConfig() Config {
	individual := []string{string(domain.PositionIndividual)}
	grouped := []string{string(domain.PositionGroup)}
	collective := []string{string(domain.PositionGroup), string(domain.PositionGeneral)}

	rules := []PositionRule{
		{Category: "sports", Section: "general", Points: ports.PositionPoints{First: 15, Second: 10, Third: 5}},
		{Category: "sports", PositionTypes: individual, Points: ports.PositionPoints{First: 3, Second: 2, Third: 1}},
		{Category: "sports", PositionTypes: grouped, Points: ports.PositionPoints{First: 5, Second: 3, Third: 1}},
		{Category: "arts", Section: "general", PositionTypes: individual, Points: ports.PositionPoints{First: 10, Second: 6, Third: 3}},
		{Category: "arts", Section: "general", PositionTypes: collective, Points: ports.PositionPoints{First: 15, Second: 10, Third: 5}},
	}
	for _, section := range []string{"senior", "junior", "sub-junior"} {
		rules = append(rules,
			PositionRule{Category: "arts", Section: section, PositionTypes: individual, Points: ports.PositionPoints{First: 3, Second: 2, Third: 1}},
			PositionRule{Category: "arts", Section: section, PositionTypes: collective, Points: ports.PositionPoints{First: 5, Second: 3, Third: 1}},
		)
	}

	return Config{
		Rules:    rules,
		Fallback: ports.PositionPoints{First: 1, Second: 1, Third: 1},
		Grades:   map[string]int{"A": 5, "B": 3, "C": 1},
	}
}

// NewResolverFromConfig creates a Resolver from a configuration map.
// This is the boundary adapter for YAML/JSON configuration: defaults are
// applied first, then the user config is overlaid.
func NewResolverFromConfig(config map[string]any) (*Resolver, error) {
	data, err := yaml.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return NewResolver(cfg)
}
