package repository

import (
	"context"

	"unidoc/internal/model"
)

// ApprovalRepository reads the approval ledger. Writes happen only through
// WorkflowRepository.TransitionTx so a decision can never land without its
// status change.
type ApprovalRepository interface {
	// ListByDocument returns the current cycle's entries, oldest first.
	ListByDocument(ctx context.Context, documentID string) ([]model.ApprovalEntry, error)
}
