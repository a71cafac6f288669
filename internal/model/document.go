package model

import "time"

// Status is a document's position in the approval chain. It only ever
// advances draft -> submitted -> supervisor_approved -> department_approved
// -> approved, diverts to rejected from one of the pending states, or
// returns from rejected to submitted via resubmission.
type Status string

const (
	StatusDraft              Status = "draft"
	StatusSubmitted          Status = "submitted"
	StatusSupervisorApproved Status = "supervisor_approved"
	StatusDepartmentApproved Status = "department_approved"
	StatusApproved           Status = "approved"
	StatusRejected           Status = "rejected"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusSupervisorApproved,
		StatusDepartmentApproved, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Action is a workflow operation requested against a document.
type Action string

const (
	ActionSubmit   Action = "submit"
	ActionApprove  Action = "approve"
	ActionReject   Action = "reject"
	ActionResubmit Action = "resubmit"
)

// Valid reports whether a is one of the known actions.
func (a Action) Valid() bool {
	switch a {
	case ActionSubmit, ActionApprove, ActionReject, ActionResubmit:
		return true
	}
	return false
}

// Document is a work item moving through the approval chain. Approver
// assignments are fixed at creation and never mutated by the workflow;
// UpdatedAt advances on every status transition.
type Document struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description,omitempty"`
	DocumentType     string    `json:"document_type"`
	Status           Status    `json:"status"`
	FilePath         string    `json:"file_path,omitempty"`
	AuthorID         string    `json:"author_id"`
	SupervisorID     *string   `json:"supervisor_id,omitempty"`
	DepartmentHeadID *string   `json:"department_head_id,omitempty"`
	DeanID           *string   `json:"dean_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
