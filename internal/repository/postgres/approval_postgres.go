package postgres

import (
	"context"
	"database/sql"

	"unidoc/internal/model"
	"unidoc/internal/repository"
)

// ApprovalPostgres is a PostgreSQL implementation of repository.ApprovalRepository.
type ApprovalPostgres struct {
	db *sql.DB
}

// NewApprovalPostgres creates a new ApprovalPostgres repository.
func NewApprovalPostgres(db *sql.DB) *ApprovalPostgres {
	return &ApprovalPostgres{db: db}
}

var _ repository.ApprovalRepository = (*ApprovalPostgres)(nil)

// ListByDocument returns the current cycle's ledger entries, oldest first.
func (r *ApprovalPostgres) ListByDocument(ctx context.Context, documentID string) ([]model.ApprovalEntry, error) {
	const q = `
		SELECT id, document_id, approver_id, stage, decision, comments, created_at
		FROM document_approvals
		WHERE document_id = $1
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.db.QueryContext(ctx, q, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]model.ApprovalEntry, 0)
	for rows.Next() {
		var e model.ApprovalEntry
		if err := rows.Scan(
			&e.ID,
			&e.DocumentID,
			&e.ApproverID,
			&e.Stage,
			&e.Decision,
			&e.Comments,
			&e.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
