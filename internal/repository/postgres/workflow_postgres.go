package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"unidoc/internal/model"
	"unidoc/internal/repository"
)

// WorkflowPostgres commits approval transitions atomically. The status
// update is an optimistic compare-and-swap on the expected source status: a
// concurrent transition against a stale snapshot matches zero rows and the
// whole transaction rolls back, never silently overwrites.
type WorkflowPostgres struct {
	db *sql.DB
}

// NewWorkflowPostgres creates a new WorkflowPostgres repository.
func NewWorkflowPostgres(db *sql.DB) *WorkflowPostgres {
	return &WorkflowPostgres{db: db}
}

var _ repository.WorkflowRepository = (*WorkflowPostgres)(nil)

// TransitionTx applies one transition: CAS status update, optional ledger
// clear, ledger appends — all in one transaction.
func (r *WorkflowPostgres) TransitionTx(ctx context.Context, documentID string, from, to model.Status, entries []model.ApprovalEntry, clearLedger bool) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transition: %w", err)
	}
	defer tx.Rollback()

	const qStatus = `
		UPDATE documents
		SET status = $1, updated_at = now()
		WHERE id = $2 AND status = $3
	`
	res, err := tx.ExecContext(ctx, qStatus, to, documentID, from)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if affected == 0 {
		return repository.ErrConflict
	}

	if clearLedger {
		const qClear = `DELETE FROM document_approvals WHERE document_id = $1`
		if _, err := tx.ExecContext(ctx, qClear, documentID); err != nil {
			return fmt.Errorf("clear ledger: %w", err)
		}
	}

	const qEntry = `
		INSERT INTO document_approvals (id, document_id, approver_id, stage, decision, comments, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, e := range entries {
		if _, err := tx.ExecContext(ctx, qEntry,
			e.ID,
			e.DocumentID,
			e.ApproverID,
			e.Stage,
			e.Decision,
			e.Comments,
			e.CreatedAt,
		); err != nil {
			return fmt.Errorf("append ledger entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transition: %w", err)
	}
	return nil
}
