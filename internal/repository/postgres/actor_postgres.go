package postgres

import (
	"context"
	"database/sql"

	"unidoc/internal/model"
	"unidoc/internal/repository"
)

// ActorPostgres is a PostgreSQL implementation of repository.ActorRepository.
type ActorPostgres struct {
	db *sql.DB
}

// NewActorPostgres creates a new ActorPostgres repository.
func NewActorPostgres(db *sql.DB) *ActorPostgres {
	return &ActorPostgres{db: db}
}

var _ repository.ActorRepository = (*ActorPostgres)(nil)

// FindByID fetches a single actor by ID.
func (r *ActorPostgres) FindByID(ctx context.Context, id string) (*model.Actor, error) {
	const q = `
		SELECT id, username, email, first_name, last_name, role,
		       department, faculty, student_number, student_group,
		       is_active, created_at
		FROM users
		WHERE id = $1
	`
	var a model.Actor
	if err := r.db.QueryRowContext(ctx, q, id).Scan(
		&a.ID,
		&a.Username,
		&a.Email,
		&a.FirstName,
		&a.LastName,
		&a.Role,
		&a.Department,
		&a.Faculty,
		&a.StudentNumber,
		&a.StudentGroup,
		&a.IsActive,
		&a.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}
