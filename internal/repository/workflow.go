package repository

import (
	"context"

	"unidoc/internal/model"
)

// WorkflowRepository commits one approval transition atomically: the status
// compare-and-swap, the ledger writes, and the optional ledger clear either
// all land or none do. Partial application would corrupt downstream approval
// counts and the resubmission discard, so it is treated as a correctness
// violation, not a display issue.
type WorkflowRepository interface {
	// TransitionTx flips the document from the expected status to the new
	// one inside a single transaction. The UPDATE is guarded by
	// `WHERE status = from`; zero affected rows means a concurrent
	// transition won the race and the whole transaction rolls back with
	// ErrConflict. When clearLedger is set, every approval entry for the
	// document is deleted in the same transaction (history is per
	// submission cycle), then the given entries are appended.
	TransitionTx(ctx context.Context, documentID string, from, to model.Status, entries []model.ApprovalEntry, clearLedger bool) error
}
