// Package leaderboard folds raw result records into ranked per-team
// standings. It is the single aggregation path every consumer goes
// through; read endpoints must not reimplement the join/filter/fold.
package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/asherv/festrank/internal/domain"
	"github.com/asherv/festrank/internal/ports"
)

var _ ports.LeaderboardBuilder = (*Aggregator)(nil)

// Package-level validator instance for configuration validation.
var validate = validator.New()

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

// Config controls presentation details of built standings.
type Config struct {
	// DefaultColor is attached to teams whose record carries no color.
	DefaultColor string `yaml:"default_color" json:"default_color" validate:"omitempty,hexcolor"`
}

// DefaultAggregatorConfig returns the standard presentation defaults.
func DefaultAggregatorConfig() Config {
	return Config{DefaultColor: domain.DefaultTeamColor}
}

// Report describes what one Build actually did with its input: how many
// results and winner entries contributed, and which entries were dropped
// and why. The fold itself never fails on bad data; the report is how
// callers decide what deserves a log line.
type Report struct {
	// ResultsProcessed counts published results that survived the filter.
	ResultsProcessed int

	// ResultsSkipped counts results dropped as unpublished or filtered out.
	ResultsSkipped int

	// WinnersAttributed counts winner entries that added points to a team
	// bucket. Only entries whose joined programme has a resolvable
	// category count; each contributes to exactly one team.
	WinnersAttributed int

	// UnresolvedChestNumbers lists chest numbers no heuristic could map
	// to a team code. The corresponding winners earned nothing.
	UnresolvedChestNumbers []string

	// UnknownTeamCodes lists resolved or explicit team codes absent from
	// the roster. The corresponding winners earned nothing.
	UnknownTeamCodes []string

	// MissingProgrammes lists programme IDs referenced by results that
	// have no programme document. Those results match no concrete
	// category filter and contribute to neither partition.
	MissingProgrammes []string
}

// Aggregator builds leaderboards from result records, team rosters, and
// programme reference data. Position base points are read from each
// record as frozen by the write path; only grade bonuses are resolved
// live through the points resolver, so a grade-table change shows up on
// the next build while historical placements keep their recorded value.
//
// The aggregator is stateless across builds and safe for concurrent use.
type Aggregator struct {
	points  ports.PointsResolver
	teams   ports.TeamResolver
	metrics ports.MetricsCollector
	tracer  trace.Tracer
	config  Config
}

// NewAggregator creates an Aggregator. The points and team resolvers are
// required; metrics may be nil to disable collection.
func NewAggregator(points ports.PointsResolver, teams ports.TeamResolver, metrics ports.MetricsCollector, config Config) (*Aggregator, error) {
	if points == nil {
		return nil, fmt.Errorf("%w: points resolver is required", domain.ErrInvalidConfiguration)
	}
	if teams == nil {
		return nil, fmt.Errorf("%w: team resolver is required", domain.ErrInvalidConfiguration)
	}
	if err := validate.Struct(config); err != nil {
		return nil, configError("aggregator configuration", err)
	}
	if config.DefaultColor == "" {
		config.DefaultColor = domain.DefaultTeamColor
	}
	if metrics == nil {
		metrics = ports.NoopMetrics{}
	}

	return &Aggregator{
		points:  points,
		teams:   teams,
		metrics: metrics,
		tracer:  otel.Tracer("leaderboard-aggregator"),
		config:  config,
	}, nil
}

// Build implements ports.LeaderboardBuilder, discarding the report.
func (a *Aggregator) Build(ctx context.Context, results []domain.ResultRecord, teams []domain.Team, programmes []domain.Programme, filter domain.CategoryFilter) []domain.Standing {
	standings, _ := a.BuildWithReport(ctx, results, teams, programmes, filter)
	return standings
}

// BuildWithReport folds results into ranked standings and reports what
// was dropped along the way.
//
// The fold:
//  1. Joins each published result to its programme by ID. A failed join
//     leaves the result without a category; it passes only the pass-all
//     filter and contributes nothing either way.
//  2. Applies the category filter's programme predicate.
//  3. Starts every roster team at zero, then folds each winner entry of
//     each surviving result into its team's totals: the record's frozen
//     placement points plus the live grade bonus, partitioned into arts
//     or sports by the joined programme's category. Chest-number winners
//     go through team resolution; team-code winners are taken as-is.
//     Unknown codes and unresolvable chest numbers are dropped silently.
//  4. Projects display points per the filter, drops teams that earned
//     nothing, and stable-sorts descending, so tied teams keep roster
//     order.
func (a *Aggregator) BuildWithReport(ctx context.Context, results []domain.ResultRecord, teams []domain.Team, programmes []domain.Programme, filter domain.CategoryFilter) ([]domain.Standing, Report) {
	_, span := a.tracer.Start(ctx, "Aggregator.Build",
		trace.WithAttributes(
			attribute.String("leaderboard.filter", string(filter)),
			attribute.Int("leaderboard.results", len(results)),
			attribute.Int("leaderboard.teams", len(teams)),
		),
	)
	defer span.End()

	start := time.Now()

	programmeByID := make(map[string]domain.Programme, len(programmes))
	for _, p := range programmes {
		programmeByID[p.ID] = p.Canonical()
	}

	totals := make(map[string]domain.TeamTotals, len(teams))
	for _, team := range teams {
		totals[team.Code] = domain.TeamTotals{}
	}

	var report Report
	for _, result := range results {
		if !result.Published() {
			report.ResultsSkipped++
			continue
		}

		var programme *domain.Programme
		if p, ok := programmeByID[result.ProgrammeID]; ok {
			programme = &p
		} else if result.ProgrammeID != "" {
			report.MissingProgrammes = append(report.MissingProgrammes, result.ProgrammeID)
		}

		if !filter.Matches(programme) {
			report.ResultsSkipped++
			continue
		}
		report.ResultsProcessed++

		var category domain.Category
		if programme != nil {
			category = programme.Category
		}

		for _, placement := range []domain.Placement{domain.PlacementFirst, domain.PlacementSecond, domain.PlacementThird} {
			base := result.PointsFor(placement)

			for _, winner := range chestWinners(result, placement) {
				code := a.teams.ResolveTeam(winner.ChestNumber, teams)
				if code == "" {
					report.UnresolvedChestNumbers = append(report.UnresolvedChestNumbers, winner.ChestNumber)
					continue
				}
				a.credit(totals, &report, code, base+a.points.GradePoints(winner.Grade), category)
			}

			for _, winner := range teamWinners(result, placement) {
				a.credit(totals, &report, winner.TeamCode, base+a.points.GradePoints(winner.Grade), category)
			}
		}
	}

	standings := a.rank(teams, totals, filter)

	latency := time.Since(start)
	labels := map[string]string{"filter": string(filter)}
	a.metrics.RecordLatency("leaderboard_build", latency, labels)
	a.metrics.RecordCounter("leaderboard_results_processed", float64(report.ResultsProcessed), labels)
	a.metrics.RecordCounter("leaderboard_winners_attributed", float64(report.WinnersAttributed), labels)
	a.metrics.RecordCounter("leaderboard_winners_unresolved", float64(len(report.UnresolvedChestNumbers)+len(report.UnknownTeamCodes)), labels)
	a.metrics.RecordGauge("leaderboard_teams_ranked", float64(len(standings)), labels)

	span.SetAttributes(
		attribute.Int("leaderboard.results_processed", report.ResultsProcessed),
		attribute.Int("leaderboard.winners_attributed", report.WinnersAttributed),
		attribute.Int("leaderboard.teams_ranked", len(standings)),
		attribute.Int64("leaderboard.latency_ms", latency.Milliseconds()),
	)

	return standings, report
}

// credit folds one winner entry into its team bucket. Codes absent from
// the roster are recorded and dropped; winners without a resolvable
// programme category leave the bucket unchanged by TeamTotals.Add.
func (a *Aggregator) credit(totals map[string]domain.TeamTotals, report *Report, code string, points int, category domain.Category) {
	current, ok := totals[code]
	if !ok {
		report.UnknownTeamCodes = append(report.UnknownTeamCodes, code)
		return
	}

	next := current.Add(points, category)
	if next != current {
		report.WinnersAttributed++
	}
	totals[code] = next
}

// rank projects totals for display, drops teams with nothing to show,
// and stable-sorts by display points descending. Secondary order for
// ties is the roster order the rows were built in.
func (a *Aggregator) rank(teams []domain.Team, totals map[string]domain.TeamTotals, filter domain.CategoryFilter) []domain.Standing {
	standings := make([]domain.Standing, 0, len(teams))
	for _, team := range teams {
		t := totals[team.Code]

		points, results := t.ArtsPoints, t.ArtsResults
		if filter.DisplaySports() {
			points, results = t.SportsPoints, t.SportsResults
		}
		if points <= 0 {
			continue
		}

		color := team.Color
		if color == "" {
			color = a.config.DefaultColor
		}

		standings = append(standings, domain.Standing{
			TeamCode:      team.Code,
			Name:          team.Name,
			Points:        points,
			Results:       results,
			ArtsPoints:    t.ArtsPoints,
			SportsPoints:  t.SportsPoints,
			ArtsResults:   t.ArtsResults,
			SportsResults: t.SportsResults,
			Color:         color,
		})
	}

	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Points > standings[j].Points
	})

	return standings
}

// chestWinners returns the chest-number winner list for a placement.
func chestWinners(r domain.ResultRecord, p domain.Placement) []domain.Winner {
	switch p {
	case domain.PlacementFirst:
		return r.FirstPlace
	case domain.PlacementSecond:
		return r.SecondPlace
	case domain.PlacementThird:
		return r.ThirdPlace
	}
	return nil
}

// teamWinners returns the team-code winner list for a placement.
func teamWinners(r domain.ResultRecord, p domain.Placement) []domain.TeamWinner {
	switch p {
	case domain.PlacementFirst:
		return r.FirstPlaceTeams
	case domain.PlacementSecond:
		return r.SecondPlaceTeams
	case domain.PlacementThird:
		return r.ThirdPlaceTeams
	}
	return nil
}
