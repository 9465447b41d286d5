// Package ports defines the core interfaces that form the contract between
// the domain/application layers and the infrastructure layer.
// These interfaces enable dependency inversion and make the system testable.
package ports

import (
	"context"

	"github.com/asherv/festrank/internal/domain"
)

// ResultStore provides read access to the result document collection.
// The engine needs no write access; results are captured elsewhere and
// consumed here as immutable input.
type ResultStore interface {
	// ListPublished returns every result whose status is published.
	// Implementations may filter server-side or return all statuses and
	// let the aggregator filter; the aggregator re-checks status either
	// way, so both behaviors are equivalent.
	ListPublished(ctx context.Context) ([]domain.ResultRecord, error)
}

// TeamStore provides read access to the team roster.
type TeamStore interface {
	// ListTeams returns every team document, unfiltered.
	ListTeams(ctx context.Context) ([]domain.Team, error)
}

// ProgrammeStore provides read access to programme reference data.
type ProgrammeStore interface {
	// ListProgrammes returns every programme document, unfiltered.
	ListProgrammes(ctx context.Context) ([]domain.Programme, error)
}
