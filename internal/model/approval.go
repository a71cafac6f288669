package model

import "time"

// Stage is the position in the approval chain a decision corresponds to.
// It is captured at decision time, not derived from the approver's current
// role when the record is read back.
type Stage string

const (
	StageSupervisor     Stage = "supervisor"
	StageDepartmentHead Stage = "department_head"
	StageDean           Stage = "dean"
)

// Decision is the outcome recorded by an approver.
type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionRejected Decision = "rejected"
)

// ApprovalEntry is one recorded approve/reject decision for one document
// within one submission cycle. Entries are discarded when the document is
// resubmitted; history is per-cycle, not cumulative across rejections.
type ApprovalEntry struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	ApproverID string    `json:"approver_id"`
	Stage      Stage     `json:"stage"`
	Decision   Decision  `json:"decision"`
	Comments   string    `json:"comments,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
