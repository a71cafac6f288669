package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"unidoc/internal/engine"
	"unidoc/internal/model"
	"unidoc/internal/repository"
	"unidoc/internal/storage"
)

var (
	ErrTitleRequired       = errors.New("title is required")
	ErrInvalidDocumentType = errors.New("document type not allowed for this role")
)

// CreateDocumentRequest carries everything needed to create a document.
// AuthorID defaults to the creator; approver assignments are fixed here and
// never mutated by the workflow afterwards. File fields are optional.
type CreateDocumentRequest struct {
	CreatorID        string
	AuthorID         string
	Title            string
	Description      string
	DocumentType     string
	SupervisorID     *string
	DepartmentHeadID *string
	DeanID           *string

	File        io.Reader
	Filename    string
	ContentType string
	FileSize    int64
}

// StageProgress describes one step of the approval chain for display.
type StageProgress struct {
	Completed bool `json:"completed"`
	Active    bool `json:"active"`
}

// Progress is the author-facing view of where a document stands.
type Progress struct {
	Document model.Document           `json:"document"`
	Steps    map[string]StageProgress `json:"steps"`
	History  []model.ApprovalEntry    `json:"history"`
}

// DocumentListResult is the service-level DTO for paginated documents.
type DocumentListResult struct {
	Items []model.Document `json:"data"`
	Total int              `json:"total"`
}

// DocumentService defines the document use cases around the workflow:
// creation (with eligibility gating and approver assignment), lookup, and
// the author/approver views.
type DocumentService interface {
	// Create validates creation eligibility and the role's allowed document
	// types, optionally uploads the file content to object storage, and
	// stores the document in draft status.
	Create(ctx context.Context, req CreateDocumentRequest) (*model.Document, error)

	// Get returns a single document by ID. Only the author, the three
	// assigned approvers, and admins may view a document; everyone else
	// gets ErrForbidden without learning anything about it.
	Get(ctx context.Context, actorID, id string) (*model.Document, error)

	// ListByAuthor returns the author's documents, newest first.
	ListByAuthor(ctx context.Context, authorID string, limit, offset int) (*DocumentListResult, error)

	// ListPendingForApprover returns documents waiting on the given actor.
	ListPendingForApprover(ctx context.Context, approverID string) ([]model.Document, error)

	// GetProgress returns the per-stage progress view with the current
	// cycle's approval history. Only the document's author may view it.
	GetProgress(ctx context.Context, actorID, documentID string) (*Progress, error)
}

type documentService struct {
	actors    repository.ActorRepository
	docs      repository.DocumentRepository
	approvals repository.ApprovalRepository
	store     storage.Storage
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(actors repository.ActorRepository, docs repository.DocumentRepository, approvals repository.ApprovalRepository, store storage.Storage) DocumentService {
	return &documentService{actors: actors, docs: docs, approvals: approvals, store: store}
}

func (s *documentService) Create(ctx context.Context, req CreateDocumentRequest) (*model.Document, error) {
	if req.Title == "" {
		return nil, ErrTitleRequired
	}

	creator, err := s.actors.FindByID(ctx, req.CreatorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load creator: %w", err)
	}
	if !creator.IsActive {
		return nil, engine.ErrInactiveActor
	}

	// The "other" type is an escape hatch open to every role.
	if _, ok := engine.AllowedDocumentTypes(creator.Role)[req.DocumentType]; !ok && req.DocumentType != "other" {
		return nil, ErrInvalidDocumentType
	}

	authorID := req.AuthorID
	if authorID == "" {
		authorID = creator.ID
	}
	author := creator
	if authorID != creator.ID {
		author, err = s.actors.FindByID(ctx, authorID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("load author: %w", err)
		}
	}

	if !engine.CanCreateFor(*creator, *author) {
		return nil, ErrForbidden
	}

	var filePath string
	if req.File != nil {
		ext := filepath.Ext(req.Filename)
		key := filepath.ToSlash(filepath.Join("documents", uuid.New().String()+ext))
		if _, err := s.store.Put(ctx, key, req.File, storage.PutObjectOptions{
			Size:        req.FileSize,
			ContentType: req.ContentType,
			Metadata: map[string]string{
				"original-filename": req.Filename,
			},
		}); err != nil {
			return nil, fmt.Errorf("upload to storage: %w", err)
		}
		filePath = key
	}

	now := time.Now().UTC()
	doc := &model.Document{
		ID:               uuid.New().String(),
		Title:            req.Title,
		Description:      req.Description,
		DocumentType:     req.DocumentType,
		Status:           model.StatusDraft,
		FilePath:         filePath,
		AuthorID:         author.ID,
		SupervisorID:     req.SupervisorID,
		DepartmentHeadID: req.DepartmentHeadID,
		DeanID:           req.DeanID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	stored, err := s.docs.Create(ctx, doc)
	if err != nil {
		// Rollback: drop the uploaded object so storage does not leak.
		if filePath != "" {
			if delErr := s.store.Delete(ctx, filePath); delErr != nil {
				return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
			}
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return stored, nil
}

func (s *documentService) Get(ctx context.Context, actorID, id string) (*model.Document, error) {
	doc, err := s.docs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	actor, err := s.actors.FindByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load actor: %w", err)
	}
	if !canView(actor, doc) {
		return nil, ErrForbidden
	}
	return doc, nil
}

// canView restricts document viewing to its participants: the author, the
// assigned approvers, and admins.
func canView(actor *model.Actor, doc *model.Document) bool {
	if actor.Role == model.RoleAdmin || doc.AuthorID == actor.ID {
		return true
	}
	for _, assignee := range []*string{doc.SupervisorID, doc.DepartmentHeadID, doc.DeanID} {
		if assignee != nil && *assignee == actor.ID {
			return true
		}
	}
	return false
}

// ListByAuthor returns paginated documents without exposing repository types.
func (s *documentService) ListByAuthor(ctx context.Context, authorID string, limit, offset int) (*DocumentListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.docs.ListByAuthor(ctx, authorID, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &DocumentListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *documentService) ListPendingForApprover(ctx context.Context, approverID string) ([]model.Document, error) {
	return s.docs.ListPendingForApprover(ctx, approverID)
}

func (s *documentService) GetProgress(ctx context.Context, actorID, documentID string) (*Progress, error) {
	doc, err := s.docs.FindByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if doc.AuthorID != actorID {
		return nil, ErrForbidden
	}

	history, err := s.approvals.ListByDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	return &Progress{
		Document: *doc,
		Steps:    progressSteps(doc.Status),
		History:  history,
	}, nil
}

// progressSteps marks each chain step completed/active for the given status.
// A rejected document shows every step completed: the cycle ended, and the
// history entries say where.
func progressSteps(status model.Status) map[string]StageProgress {
	past := func(states ...model.Status) bool {
		for _, s := range states {
			if status == s {
				return true
			}
		}
		return false
	}

	return map[string]StageProgress{
		"submitted": {
			Completed: past(model.StatusSubmitted, model.StatusSupervisorApproved, model.StatusDepartmentApproved, model.StatusApproved, model.StatusRejected),
			Active:    status == model.StatusSubmitted,
		},
		"supervisor": {
			Completed: past(model.StatusSupervisorApproved, model.StatusDepartmentApproved, model.StatusApproved, model.StatusRejected),
			Active:    status == model.StatusSupervisorApproved,
		},
		"department": {
			Completed: past(model.StatusDepartmentApproved, model.StatusApproved, model.StatusRejected),
			Active:    status == model.StatusDepartmentApproved,
		},
		// approved is terminal, so the dean step is never active.
		"dean": {
			Completed: past(model.StatusApproved, model.StatusRejected),
			Active:    false,
		},
	}
}
