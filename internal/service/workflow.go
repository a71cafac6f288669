package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"unidoc/internal/engine"
	"unidoc/internal/model"
	"unidoc/internal/repository"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
)

// WorkflowService runs approval transitions end to end: load the actor and
// document snapshots, let the engine decide, persist the decision atomically,
// then dispatch notifications fire-and-forget.
type WorkflowService interface {
	// Apply performs one workflow action on a document on behalf of actorID.
	// It returns the document with its new status, or one of: ErrNotFound
	// (actor or document missing), engine.ErrUnauthorized,
	// engine.ErrInvalidTransition, engine.ErrInactiveActor, or
	// repository.ErrConflict when a concurrent transition won the race.
	Apply(ctx context.Context, actorID, documentID string, action model.Action, comments string) (*model.Document, error)
}

type workflowService struct {
	actors   repository.ActorRepository
	docs     repository.DocumentRepository
	workflow repository.WorkflowRepository
	notifs   repository.NotificationRepository
}

// NewWorkflowService constructs a new WorkflowService.
func NewWorkflowService(actors repository.ActorRepository, docs repository.DocumentRepository, workflow repository.WorkflowRepository, notifs repository.NotificationRepository) WorkflowService {
	return &workflowService{actors: actors, docs: docs, workflow: workflow, notifs: notifs}
}

func (s *workflowService) Apply(ctx context.Context, actorID, documentID string, action model.Action, comments string) (*model.Document, error) {
	actor, err := s.actors.FindByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load actor: %w", err)
	}

	doc, err := s.docs.FindByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load document: %w", err)
	}

	res, err := engine.Apply(*actor, *doc, action, comments)
	if err != nil {
		return nil, err
	}

	if err := s.workflow.TransitionTx(ctx, doc.ID, doc.Status, res.NewStatus, res.Entries, res.ClearLedger); err != nil {
		return nil, err
	}

	// Notifications are best-effort once the transition is committed: a
	// failed insert is logged and never fails the call.
	now := time.Now().UTC()
	for _, n := range res.Notifications {
		n.ID = uuid.New().String()
		n.CreatedAt = now
		if err := s.notifs.Insert(ctx, &n); err != nil {
			logNotifyFailure(doc.ID, n.RecipientID, err)
		}
	}

	doc.Status = res.NewStatus
	doc.UpdatedAt = now
	return doc, nil
}

func logNotifyFailure(documentID, recipientID string, err error) {
	entry := map[string]any{
		"ts":          time.Now().UTC().Format(time.RFC3339Nano),
		"level":       "error",
		"msg":         "notification_insert_failed",
		"document_id": documentID,
		"recipient":   recipientID,
		"error":       err.Error(),
	}
	if b, mErr := json.Marshal(entry); mErr == nil {
		log.SetFlags(0)
		log.Println(string(b))
	}
}
