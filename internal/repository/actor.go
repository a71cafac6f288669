package repository

import (
	"context"

	"unidoc/internal/model"
)

// ActorRepository provides read-only access to the actor directory. The
// workflow never mutates actor state.
type ActorRepository interface {
	// FindByID returns an actor by ID. Missing actors surface sql.ErrNoRows.
	FindByID(ctx context.Context, id string) (*model.Actor, error)
}
