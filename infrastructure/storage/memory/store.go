// Package memory provides in-memory implementations of the engine's
// store ports, backing tests, examples, and the demo server. A Store
// holds full snapshots of the three collections the engine reads and
// serves copies so callers can never mutate shared state.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/asherv/festrank/internal/domain"
	"github.com/asherv/festrank/internal/ports"
)

var (
	_ ports.ResultStore    = (*Store)(nil)
	_ ports.TeamStore      = (*Store)(nil)
	_ ports.ProgrammeStore = (*Store)(nil)
)

// Store is an in-memory document store for results, teams, and
// programmes. Safe for concurrent use.
type Store struct {
	mu         sync.RWMutex
	results    []domain.ResultRecord
	teams      []domain.Team
	programmes []domain.Programme
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{}
}

// Seed is the JSON document shape accepted by LoadSeed.
type Seed struct {
	Teams      []domain.Team         `json:"teams"`
	Programmes []domain.Programme    `json:"programmes"`
	Results    []domain.ResultRecord `json:"results"`
}

// LoadSeed reads a JSON seed file and replaces the store's contents.
func (s *Store) LoadSeed(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}

	var seed Seed
	if err := json.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.teams = seed.Teams
	s.programmes = seed.Programmes
	s.results = seed.Results
	return nil
}

// SaveResults replaces the stored result collection.
func (s *Store) SaveResults(results []domain.ResultRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = cloneRecords(results)
}

// cloneRecords copies records including their winner lists. The record
// struct embeds six slices, so a shallow copy would still share backing
// arrays between the store and its callers.
func cloneRecords(records []domain.ResultRecord) []domain.ResultRecord {
	out := make([]domain.ResultRecord, len(records))
	for i, r := range records {
		r.FirstPlace = append([]domain.Winner(nil), r.FirstPlace...)
		r.SecondPlace = append([]domain.Winner(nil), r.SecondPlace...)
		r.ThirdPlace = append([]domain.Winner(nil), r.ThirdPlace...)
		r.FirstPlaceTeams = append([]domain.TeamWinner(nil), r.FirstPlaceTeams...)
		r.SecondPlaceTeams = append([]domain.TeamWinner(nil), r.SecondPlaceTeams...)
		r.ThirdPlaceTeams = append([]domain.TeamWinner(nil), r.ThirdPlaceTeams...)
		out[i] = r
	}
	return out
}

// SaveTeams replaces the stored team roster.
func (s *Store) SaveTeams(teams []domain.Team) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teams = append([]domain.Team(nil), teams...)
}

// SaveProgrammes replaces the stored programme collection.
func (s *Store) SaveProgrammes(programmes []domain.Programme) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.programmes = append([]domain.Programme(nil), programmes...)
}

// ListPublished implements ports.ResultStore. It filters to published
// results server-side; the aggregator re-checks status regardless.
func (s *Store) ListPublished(ctx context.Context) ([]domain.ResultRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	published := make([]domain.ResultRecord, 0, len(s.results))
	for _, r := range s.results {
		if r.Published() {
			published = append(published, r)
		}
	}
	return cloneRecords(published), nil
}

// ListTeams implements ports.TeamStore.
func (s *Store) ListTeams(ctx context.Context) ([]domain.Team, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Team(nil), s.teams...), nil
}

// ListProgrammes implements ports.ProgrammeStore.
func (s *Store) ListProgrammes(ctx context.Context) ([]domain.Programme, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Programme(nil), s.programmes...), nil
}
