package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/asherv/festrank/infrastructure/leaderboard"
	"github.com/asherv/festrank/infrastructure/roster"
	"github.com/asherv/festrank/infrastructure/scoring"
	"github.com/asherv/festrank/internal/domain"
	"github.com/asherv/festrank/internal/ports"
)

// NewAggregatorFromConfig assembles the scoring pipeline described by an
// EngineConfig: marking resolver, chest-number resolver, and aggregator.
// Metrics may be nil to disable collection.
func NewAggregatorFromConfig(cfg EngineConfig, metrics ports.MetricsCollector) (*leaderboard.Aggregator, error) {
	points, err := scoring.NewResolver(cfg.Marking)
	if err != nil {
		return nil, fmt.Errorf("marking resolver: %w", err)
	}

	chest, err := roster.NewChestResolver(cfg.Chest)
	if err != nil {
		return nil, fmt.Errorf("chest resolver: %w", err)
	}

	agg, err := leaderboard.NewAggregator(points, chest, metrics, cfg.Leaderboard)
	if err != nil {
		return nil, fmt.Errorf("aggregator: %w", err)
	}
	return agg, nil
}

// LeaderboardService is the read path consumers call: it fetches all
// reference data fresh, folds it through the aggregator, and logs what
// the fold had to drop. There is no caching layer; each call reflects
// the stores as read at call time.
type LeaderboardService struct {
	results    ports.ResultStore
	teams      ports.TeamStore
	programmes ports.ProgrammeStore
	aggregator *leaderboard.Aggregator
	logger     *slog.Logger
}

// NewLeaderboardService creates a LeaderboardService. All stores and the
// aggregator are required; a nil logger discards diagnostics.
func NewLeaderboardService(
	results ports.ResultStore,
	teams ports.TeamStore,
	programmes ports.ProgrammeStore,
	aggregator *leaderboard.Aggregator,
	logger *slog.Logger,
) (*LeaderboardService, error) {
	if results == nil || teams == nil || programmes == nil {
		return nil, fmt.Errorf("%w: all three stores are required", domain.ErrInvalidConfiguration)
	}
	if aggregator == nil {
		return nil, fmt.Errorf("%w: aggregator is required", domain.ErrInvalidConfiguration)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &LeaderboardService{
		results:    results,
		teams:      teams,
		programmes: programmes,
		aggregator: aggregator,
		logger:     logger,
	}, nil
}

// Leaderboard builds the ranked standings for a category filter. The
// three reference-data fetches have no ordering dependency and are
// issued concurrently; the first store error aborts the call. The fold
// itself never fails: imperfect data is dropped, logged, and the
// best-effort leaderboard is returned.
func (s *LeaderboardService) Leaderboard(ctx context.Context, filter domain.CategoryFilter) ([]domain.Standing, error) {
	results, teams, programmes, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}

	standings, report := s.aggregator.BuildWithReport(ctx, results, teams, programmes, filter)
	s.logReport(filter, teams, report)

	return standings, nil
}

// TeamStanding returns one team's leaderboard row for a filter. A roster
// team that earned no display points under the filter is absent from the
// ranked standings but still gets a zeroed row here; only a code missing
// from the roster is an error.
func (s *LeaderboardService) TeamStanding(ctx context.Context, filter domain.CategoryFilter, teamCode string) (domain.Standing, error) {
	results, teams, programmes, err := s.fetch(ctx)
	if err != nil {
		return domain.Standing{}, err
	}
	if len(teams) == 0 {
		return domain.Standing{}, domain.ErrEmptyRoster
	}

	var team *domain.Team
	for i := range teams {
		if strings.EqualFold(teams[i].Code, teamCode) {
			team = &teams[i]
			break
		}
	}
	if team == nil {
		return domain.Standing{}, fmt.Errorf("%w: %q", domain.ErrUnknownTeam, teamCode)
	}

	standings, report := s.aggregator.BuildWithReport(ctx, results, teams, programmes, filter)
	s.logReport(filter, teams, report)

	for _, standing := range standings {
		if standing.TeamCode == team.Code {
			return standing, nil
		}
	}

	color := team.Color
	if color == "" {
		color = domain.DefaultTeamColor
	}
	return domain.Standing{TeamCode: team.Code, Name: team.Name, Color: color}, nil
}

// fetch loads the three reference-data collections. They have no
// ordering dependency and are fetched concurrently; the first store
// error aborts the call.
func (s *LeaderboardService) fetch(ctx context.Context) ([]domain.ResultRecord, []domain.Team, []domain.Programme, error) {
	var (
		results    []domain.ResultRecord
		teams      []domain.Team
		programmes []domain.Programme
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		results, err = s.results.ListPublished(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		teams, err = s.teams.ListTeams(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		programmes, err = s.programmes.ListProgrammes(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, nil, fmt.Errorf("fetch reference data: %w", err)
	}
	return results, teams, programmes, nil
}

// LeaderboardFor is Leaderboard with a raw, request-supplied filter
// string; an empty string yields the default arts-total leaderboard.
func (s *LeaderboardService) LeaderboardFor(ctx context.Context, filterParam string) ([]domain.Standing, error) {
	return s.Leaderboard(ctx, domain.ParseCategoryFilter(filterParam))
}

// logReport surfaces the fold's dropped entries. Unresolved chest
// numbers get a nearest-team suggestion to speed up fixing the source
// documents; the suggestion never changes attribution.
func (s *LeaderboardService) logReport(filter domain.CategoryFilter, teams []domain.Team, report leaderboard.Report) {
	for _, chest := range report.UnresolvedChestNumbers {
		attrs := []any{
			slog.String("filter", string(filter)),
			slog.String("chest_number", chest),
		}
		if suggestion, ok := roster.SuggestTeam(chest, teams); ok {
			attrs = append(attrs, slog.String("closest_team", suggestion.Code))
		}
		s.logger.Warn("winner dropped: unresolvable chest number", attrs...)
	}

	for _, code := range report.UnknownTeamCodes {
		s.logger.Warn("winner dropped: team code not in roster",
			slog.String("filter", string(filter)),
			slog.String("team_code", code),
		)
	}

	for _, id := range report.MissingProgrammes {
		s.logger.Warn("result has no programme document",
			slog.String("filter", string(filter)),
			slog.String("programme_id", id),
		)
	}
}
