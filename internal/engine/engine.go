// Package engine implements the document approval state machine. Apply is a
// pure, synchronous function: it performs no I/O, holds no locks, and returns
// the writes the caller must persist atomically together with the status
// change. It is safe to call from any number of concurrent goroutines.
package engine

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"unidoc/internal/model"
)

var (
	// ErrUnauthorized means the actor lacks standing for this action on this
	// document. Wrong role and right-role-but-not-the-assigned-approver are
	// deliberately the same error, so approver identity is never leaked.
	ErrUnauthorized = errors.New("actor is not authorized for this action")

	// ErrInvalidTransition means the action is not defined for the document's
	// current status. A retried action on a document that already advanced
	// fails with this rather than repeating the effect.
	ErrInvalidTransition = errors.New("action is not valid for the current document status")

	// ErrInactiveActor means the actor's account is disabled. Checked before
	// any guard evaluation.
	ErrInactiveActor = errors.New("actor account is inactive")
)

// Result describes everything one successful transition intends to write.
// The caller must persist NewStatus, Entries, and the ClearLedger delete in
// a single atomic unit; Notifications are dispatched after commit,
// fire-and-forget.
type Result struct {
	NewStatus     model.Status
	Entries       []model.ApprovalEntry
	Notifications []model.Notification
	// ClearLedger requests that all existing approval entries for the
	// document be discarded in the same transaction. Set only on resubmit:
	// approval history is scoped to one submission cycle.
	ClearLedger bool
}

type transitionKey struct {
	from   model.Status
	action model.Action
}

type transitionRule struct {
	to      model.Status
	guard   func(actor model.Actor, doc model.Document) bool
	effects func(actor model.Actor, doc model.Document, comments string, now time.Time) ([]model.ApprovalEntry, []model.Notification, bool)
}

// transitions is the complete state machine. A (status, action) pair absent
// from this table is an invalid transition; a present pair whose guard fails
// is unauthorized.
var transitions = map[transitionKey]transitionRule{
	{model.StatusDraft, model.ActionSubmit}: {
		to:    model.StatusSubmitted,
		guard: isAuthor,
		effects: func(actor model.Actor, doc model.Document, _ string, _ time.Time) ([]model.ApprovalEntry, []model.Notification, bool) {
			return nil, submittedNotices(actor, doc), false
		},
	},
	{model.StatusSubmitted, model.ActionApprove}: {
		to:      model.StatusSupervisorApproved,
		guard:   isAssignedApprover(model.RoleTeacher, supervisorOf),
		effects: decisionEffects(model.StageSupervisor, model.DecisionApproved),
	},
	{model.StatusSubmitted, model.ActionReject}: {
		to:      model.StatusRejected,
		guard:   isAssignedApprover(model.RoleTeacher, supervisorOf),
		effects: decisionEffects(model.StageSupervisor, model.DecisionRejected),
	},
	{model.StatusSupervisorApproved, model.ActionApprove}: {
		to:      model.StatusDepartmentApproved,
		guard:   isAssignedApprover(model.RoleDepartmentHead, departmentHeadOf),
		effects: decisionEffects(model.StageDepartmentHead, model.DecisionApproved),
	},
	{model.StatusSupervisorApproved, model.ActionReject}: {
		to:      model.StatusRejected,
		guard:   isAssignedApprover(model.RoleDepartmentHead, departmentHeadOf),
		effects: decisionEffects(model.StageDepartmentHead, model.DecisionRejected),
	},
	{model.StatusDepartmentApproved, model.ActionApprove}: {
		to:      model.StatusApproved,
		guard:   isAssignedApprover(model.RoleDean, deanOf),
		effects: decisionEffects(model.StageDean, model.DecisionApproved),
	},
	{model.StatusDepartmentApproved, model.ActionReject}: {
		to:      model.StatusRejected,
		guard:   isAssignedApprover(model.RoleDean, deanOf),
		effects: decisionEffects(model.StageDean, model.DecisionRejected),
	},
	{model.StatusRejected, model.ActionResubmit}: {
		to:    model.StatusSubmitted,
		guard: isAuthor,
		effects: func(actor model.Actor, doc model.Document, _ string, _ time.Time) ([]model.ApprovalEntry, []model.Notification, bool) {
			return nil, resubmittedNotices(actor, doc), true
		},
	},
}

// Apply decides whether actor may perform action on doc and, if so, computes
// the next status plus the ledger entries and notifications the transition
// produces. Nothing is persisted here; the caller commits the returned
// writes in one transaction keyed by the document's current status.
func Apply(actor model.Actor, doc model.Document, action model.Action, comments string) (*Result, error) {
	if !actor.IsActive {
		return nil, ErrInactiveActor
	}

	rule, ok := transitions[transitionKey{doc.Status, action}]
	if !ok {
		return nil, ErrInvalidTransition
	}
	if !rule.guard(actor, doc) {
		return nil, ErrUnauthorized
	}

	now := time.Now().UTC()
	entries, notices, clear := rule.effects(actor, doc, comments, now)
	return &Result{
		NewStatus:     rule.to,
		Entries:       entries,
		Notifications: notices,
		ClearLedger:   clear,
	}, nil
}

func isAuthor(actor model.Actor, doc model.Document) bool {
	return actor.ID == doc.AuthorID
}

// isAssignedApprover requires both the stage's role and assignment to this
// specific document. The caller collapses either failure into ErrUnauthorized.
func isAssignedApprover(role model.Role, assignee func(model.Document) *string) func(model.Actor, model.Document) bool {
	return func(actor model.Actor, doc model.Document) bool {
		id := assignee(doc)
		return actor.Role == role && id != nil && *id == actor.ID
	}
}

func supervisorOf(doc model.Document) *string     { return doc.SupervisorID }
func departmentHeadOf(doc model.Document) *string { return doc.DepartmentHeadID }
func deanOf(doc model.Document) *string           { return doc.DeanID }

// decisionEffects builds the ledger entry and author notification shared by
// every approve/reject row. The entry is constructed before the caller sees
// the new status so both land in the same transaction.
func decisionEffects(stage model.Stage, decision model.Decision) func(model.Actor, model.Document, string, time.Time) ([]model.ApprovalEntry, []model.Notification, bool) {
	return func(actor model.Actor, doc model.Document, comments string, now time.Time) ([]model.ApprovalEntry, []model.Notification, bool) {
		entry := model.ApprovalEntry{
			ID:         uuid.New().String(),
			DocumentID: doc.ID,
			ApproverID: actor.ID,
			Stage:      stage,
			Decision:   decision,
			Comments:   comments,
			CreatedAt:  now,
		}

		var notices []model.Notification
		if decision == model.DecisionApproved {
			notices = approvedNotices(actor, doc)
		} else {
			notices = rejectedNotices(actor, doc, comments)
		}
		return []model.ApprovalEntry{entry}, notices, false
	}
}
