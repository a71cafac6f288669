package engine

import (
	"fmt"

	"unidoc/internal/model"
)

// Notification construction is pure: each helper maps (event, actor,
// document) to the records that must eventually be delivered, each at most
// once. Recipients without an assignment produce no record.

func submittedNotices(actor model.Actor, doc model.Document) []model.Notification {
	if doc.SupervisorID == nil {
		return nil
	}
	return []model.Notification{{
		RecipientID: *doc.SupervisorID,
		Title:       "Document awaiting review",
		Message:     fmt.Sprintf("%s submitted '%s' for approval.", actor.FullName(), doc.Title),
	}}
}

func resubmittedNotices(actor model.Actor, doc model.Document) []model.Notification {
	if doc.SupervisorID == nil {
		return nil
	}
	return []model.Notification{{
		RecipientID: *doc.SupervisorID,
		Title:       "Document resubmitted",
		Message:     fmt.Sprintf("%s resubmitted '%s' for approval.", actor.FullName(), doc.Title),
	}}
}

func approvedNotices(actor model.Actor, doc model.Document) []model.Notification {
	return []model.Notification{{
		RecipientID: doc.AuthorID,
		Title:       "Document approved",
		Message:     fmt.Sprintf("Your document '%s' was approved by %s.", doc.Title, actor.FullName()),
	}}
}

func rejectedNotices(actor model.Actor, doc model.Document, comments string) []model.Notification {
	msg := fmt.Sprintf("Your document '%s' was rejected by %s.", doc.Title, actor.FullName())
	if comments != "" {
		msg += " Reason: " + comments
	}
	return []model.Notification{{
		RecipientID: doc.AuthorID,
		Title:       "Document rejected",
		Message:     msg,
	}}
}
