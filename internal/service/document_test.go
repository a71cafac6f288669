package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"unidoc/internal/engine"
	"unidoc/internal/model"
	repoMocks "unidoc/internal/repository/mocks"
	"unidoc/internal/storage"
	storageMocks "unidoc/internal/storage/mocks"
)

func studentActor(id string) *model.Actor {
	return &model.Actor{
		ID:         id,
		FirstName:  "Aziz",
		LastName:   "Tashkentov",
		Role:       model.RoleStudent,
		Department: "cs",
		Faculty:    "engineering",
		IsActive:   true,
	}
}

func TestDocumentService_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		req        CreateDocumentRequest
		setupMocks func(actors *repoMocks.MockActorRepository, docs *repoMocks.MockDocumentRepository, store *storageMocks.MockStorage)
		wantErr    error
	}{
		{
			name: "student creates own course work",
			req: CreateDocumentRequest{
				CreatorID:    "student-1",
				Title:        "Course work",
				DocumentType: "course_work",
			},
			setupMocks: func(actors *repoMocks.MockActorRepository, docs *repoMocks.MockDocumentRepository, store *storageMocks.MockStorage) {
				actors.On("FindByID", ctx, "student-1").Return(studentActor("student-1"), nil)
				docs.On("Create", ctx, mock.MatchedBy(func(d *model.Document) bool {
					return d.Status == model.StatusDraft && d.AuthorID == "student-1" && d.ID != ""
				})).Return(func(ctx context.Context, d *model.Document) *model.Document { return d }, nil)
			},
		},
		{
			name: "upload then create stores the object key",
			req: CreateDocumentRequest{
				CreatorID:    "student-1",
				Title:        "Diploma project",
				DocumentType: "diploma_project",
				File:         strings.NewReader("pdf bytes"),
				Filename:     "diploma.pdf",
				ContentType:  "application/pdf",
				FileSize:     9,
			},
			setupMocks: func(actors *repoMocks.MockActorRepository, docs *repoMocks.MockDocumentRepository, store *storageMocks.MockStorage) {
				actors.On("FindByID", ctx, "student-1").Return(studentActor("student-1"), nil)
				store.On("Put", ctx, mock.MatchedBy(func(key string) bool {
					return strings.HasPrefix(key, "documents/") && strings.HasSuffix(key, ".pdf")
				}), mock.Anything, mock.MatchedBy(func(opt storage.PutObjectOptions) bool {
					return opt.ContentType == "application/pdf" && opt.Metadata["original-filename"] == "diploma.pdf"
				})).Return(storage.ObjectInfo{}, nil)
				docs.On("Create", ctx, mock.MatchedBy(func(d *model.Document) bool {
					return strings.HasPrefix(d.FilePath, "documents/")
				})).Return(func(ctx context.Context, d *model.Document) *model.Document { return d }, nil)
			},
		},
		{
			name: "db failure rolls back the uploaded object",
			req: CreateDocumentRequest{
				CreatorID:    "student-1",
				Title:        "Diploma project",
				DocumentType: "diploma_project",
				File:         strings.NewReader("pdf bytes"),
				Filename:     "diploma.pdf",
				FileSize:     9,
			},
			setupMocks: func(actors *repoMocks.MockActorRepository, docs *repoMocks.MockDocumentRepository, store *storageMocks.MockStorage) {
				actors.On("FindByID", ctx, "student-1").Return(studentActor("student-1"), nil)
				store.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).Return(storage.ObjectInfo{}, nil)
				docs.On("Create", ctx, mock.Anything).Return(nil, errors.New("connection reset"))
				store.On("Delete", ctx, mock.MatchedBy(func(key string) bool {
					return strings.HasPrefix(key, "documents/")
				})).Return(nil)
			},
			wantErr: errors.New("db save failed"),
		},
		{
			name: "empty title",
			req: CreateDocumentRequest{
				CreatorID:    "student-1",
				DocumentType: "course_work",
			},
			setupMocks: func(actors *repoMocks.MockActorRepository, docs *repoMocks.MockDocumentRepository, store *storageMocks.MockStorage) {},
			wantErr:    ErrTitleRequired,
		},
		{
			name: "document type outside the role's list",
			req: CreateDocumentRequest{
				CreatorID:    "student-1",
				Title:        "Order",
				DocumentType: "faculty_order",
			},
			setupMocks: func(actors *repoMocks.MockActorRepository, docs *repoMocks.MockDocumentRepository, store *storageMocks.MockStorage) {
				actors.On("FindByID", ctx, "student-1").Return(studentActor("student-1"), nil)
			},
			wantErr: ErrInvalidDocumentType,
		},
		{
			name: "other type is open to every role",
			req: CreateDocumentRequest{
				CreatorID:    "student-1",
				Title:        "Misc",
				DocumentType: "other",
			},
			setupMocks: func(actors *repoMocks.MockActorRepository, docs *repoMocks.MockDocumentRepository, store *storageMocks.MockStorage) {
				actors.On("FindByID", ctx, "student-1").Return(studentActor("student-1"), nil)
				docs.On("Create", ctx, mock.Anything).Return(func(ctx context.Context, d *model.Document) *model.Document { return d }, nil)
			},
		},
		{
			name: "student cannot create for a classmate",
			req: CreateDocumentRequest{
				CreatorID:    "student-1",
				AuthorID:     "student-2",
				Title:        "Course work",
				DocumentType: "course_work",
			},
			setupMocks: func(actors *repoMocks.MockActorRepository, docs *repoMocks.MockDocumentRepository, store *storageMocks.MockStorage) {
				actors.On("FindByID", ctx, "student-1").Return(studentActor("student-1"), nil)
				actors.On("FindByID", ctx, "student-2").Return(studentActor("student-2"), nil)
			},
			wantErr: ErrForbidden,
		},
		{
			name: "inactive creator",
			req: CreateDocumentRequest{
				CreatorID:    "student-1",
				Title:        "Course work",
				DocumentType: "course_work",
			},
			setupMocks: func(actors *repoMocks.MockActorRepository, docs *repoMocks.MockDocumentRepository, store *storageMocks.MockStorage) {
				actor := studentActor("student-1")
				actor.IsActive = false
				actors.On("FindByID", ctx, "student-1").Return(actor, nil)
			},
			wantErr: engine.ErrInactiveActor,
		},
		{
			name: "unknown creator",
			req: CreateDocumentRequest{
				CreatorID:    "ghost",
				Title:        "Course work",
				DocumentType: "course_work",
			},
			setupMocks: func(actors *repoMocks.MockActorRepository, docs *repoMocks.MockDocumentRepository, store *storageMocks.MockStorage) {
				actors.On("FindByID", ctx, "ghost").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actors := new(repoMocks.MockActorRepository)
			docs := new(repoMocks.MockDocumentRepository)
			approvals := new(repoMocks.MockApprovalRepository)
			store := new(storageMocks.MockStorage)
			svc := NewDocumentService(actors, docs, approvals, store)

			tt.setupMocks(actors, docs, store)

			doc, err := svc.Create(ctx, tt.req)

			if tt.wantErr != nil {
				require.Error(t, err)
				if errors.Is(tt.wantErr, ErrTitleRequired) || errors.Is(tt.wantErr, ErrInvalidDocumentType) ||
					errors.Is(tt.wantErr, ErrForbidden) || errors.Is(tt.wantErr, ErrNotFound) ||
					errors.Is(tt.wantErr, engine.ErrInactiveActor) {
					assert.ErrorIs(t, err, tt.wantErr)
				} else {
					assert.Contains(t, err.Error(), tt.wantErr.Error())
				}
				assert.Nil(t, doc)
			} else {
				require.NoError(t, err)
				require.NotNil(t, doc)
				assert.Equal(t, model.StatusDraft, doc.Status)
			}

			actors.AssertExpectations(t)
			docs.AssertExpectations(t)
			store.AssertExpectations(t)
		})
	}
}

func TestDocumentService_Get(t *testing.T) {
	ctx := context.Background()
	supervisor := "supervisor-1"

	doc := &model.Document{
		ID:           "doc-1",
		Title:        "Course work",
		Status:       model.StatusSubmitted,
		AuthorID:     "student-1",
		SupervisorID: &supervisor,
	}

	tests := []struct {
		name       string
		actorID    string
		setupMocks func(actors *repoMocks.MockActorRepository, docs *repoMocks.MockDocumentRepository)
		wantErr    error
	}{
		{
			name:    "author sees own document",
			actorID: "student-1",
			setupMocks: func(actors *repoMocks.MockActorRepository, docs *repoMocks.MockDocumentRepository) {
				docs.On("FindByID", ctx, "doc-1").Return(doc, nil)
				actors.On("FindByID", ctx, "student-1").Return(studentActor("student-1"), nil)
			},
		},
		{
			name:    "assigned supervisor sees the document",
			actorID: "supervisor-1",
			setupMocks: func(actors *repoMocks.MockActorRepository, docs *repoMocks.MockDocumentRepository) {
				docs.On("FindByID", ctx, "doc-1").Return(doc, nil)
				actor := studentActor("supervisor-1")
				actor.Role = model.RoleTeacher
				actors.On("FindByID", ctx, "supervisor-1").Return(actor, nil)
			},
		},
		{
			name:    "admin sees any document",
			actorID: "admin-1",
			setupMocks: func(actors *repoMocks.MockActorRepository, docs *repoMocks.MockDocumentRepository) {
				docs.On("FindByID", ctx, "doc-1").Return(doc, nil)
				actor := studentActor("admin-1")
				actor.Role = model.RoleAdmin
				actors.On("FindByID", ctx, "admin-1").Return(actor, nil)
			},
		},
		{
			name:    "unrelated actor is refused",
			actorID: "student-2",
			setupMocks: func(actors *repoMocks.MockActorRepository, docs *repoMocks.MockDocumentRepository) {
				docs.On("FindByID", ctx, "doc-1").Return(doc, nil)
				actors.On("FindByID", ctx, "student-2").Return(studentActor("student-2"), nil)
			},
			wantErr: ErrForbidden,
		},
		{
			name:    "unknown actor",
			actorID: "ghost",
			setupMocks: func(actors *repoMocks.MockActorRepository, docs *repoMocks.MockDocumentRepository) {
				docs.On("FindByID", ctx, "doc-1").Return(doc, nil)
				actors.On("FindByID", ctx, "ghost").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
		{
			name:    "missing document",
			actorID: "student-1",
			setupMocks: func(actors *repoMocks.MockActorRepository, docs *repoMocks.MockDocumentRepository) {
				docs.On("FindByID", ctx, "doc-1").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actors := new(repoMocks.MockActorRepository)
			docs := new(repoMocks.MockDocumentRepository)
			svc := NewDocumentService(actors, docs, new(repoMocks.MockApprovalRepository), new(storageMocks.MockStorage))

			tt.setupMocks(actors, docs)

			got, err := svc.Get(ctx, tt.actorID, "doc-1")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				assert.Equal(t, doc.ID, got.ID)
			}

			actors.AssertExpectations(t)
			docs.AssertExpectations(t)
		})
	}
}

func TestDocumentService_GetProgress(t *testing.T) {
	ctx := context.Background()
	supervisor := "supervisor-1"

	doc := &model.Document{
		ID:           "doc-1",
		Title:        "Course work",
		Status:       model.StatusSupervisorApproved,
		AuthorID:     "student-1",
		SupervisorID: &supervisor,
	}
	entry := model.ApprovalEntry{
		ID:         "entry-1",
		DocumentID: "doc-1",
		ApproverID: supervisor,
		Stage:      model.StageSupervisor,
		Decision:   model.DecisionApproved,
	}

	t.Run("author sees steps and history", func(t *testing.T) {
		docs := new(repoMocks.MockDocumentRepository)
		approvals := new(repoMocks.MockApprovalRepository)
		svc := NewDocumentService(new(repoMocks.MockActorRepository), docs, approvals, new(storageMocks.MockStorage))

		docs.On("FindByID", ctx, "doc-1").Return(doc, nil)
		approvals.On("ListByDocument", ctx, "doc-1").Return([]model.ApprovalEntry{entry}, nil)

		progress, err := svc.GetProgress(ctx, "student-1", "doc-1")
		require.NoError(t, err)

		assert.True(t, progress.Steps["submitted"].Completed)
		assert.True(t, progress.Steps["supervisor"].Completed)
		assert.True(t, progress.Steps["supervisor"].Active)
		assert.False(t, progress.Steps["department"].Completed)
		assert.False(t, progress.Steps["dean"].Completed)
		assert.Len(t, progress.History, 1)
	})

	t.Run("approved document has no active step", func(t *testing.T) {
		docs := new(repoMocks.MockDocumentRepository)
		approvals := new(repoMocks.MockApprovalRepository)
		svc := NewDocumentService(new(repoMocks.MockActorRepository), docs, approvals, new(storageMocks.MockStorage))

		approved := *doc
		approved.Status = model.StatusApproved
		docs.On("FindByID", ctx, "doc-1").Return(&approved, nil)
		approvals.On("ListByDocument", ctx, "doc-1").Return([]model.ApprovalEntry{entry}, nil)

		progress, err := svc.GetProgress(ctx, "student-1", "doc-1")
		require.NoError(t, err)

		for step, state := range progress.Steps {
			assert.True(t, state.Completed, step)
			assert.False(t, state.Active, step)
		}
	})

	t.Run("rejected document shows the whole chain completed", func(t *testing.T) {
		docs := new(repoMocks.MockDocumentRepository)
		approvals := new(repoMocks.MockApprovalRepository)
		svc := NewDocumentService(new(repoMocks.MockActorRepository), docs, approvals, new(storageMocks.MockStorage))

		rejected := *doc
		rejected.Status = model.StatusRejected
		docs.On("FindByID", ctx, "doc-1").Return(&rejected, nil)
		approvals.On("ListByDocument", ctx, "doc-1").Return([]model.ApprovalEntry{entry}, nil)

		progress, err := svc.GetProgress(ctx, "student-1", "doc-1")
		require.NoError(t, err)

		for step, state := range progress.Steps {
			assert.True(t, state.Completed, step)
			assert.False(t, state.Active, step)
		}
	})

	t.Run("non-author is refused", func(t *testing.T) {
		docs := new(repoMocks.MockDocumentRepository)
		svc := NewDocumentService(new(repoMocks.MockActorRepository), docs, new(repoMocks.MockApprovalRepository), new(storageMocks.MockStorage))

		docs.On("FindByID", ctx, "doc-1").Return(doc, nil)

		_, err := svc.GetProgress(ctx, "supervisor-1", "doc-1")
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("missing document", func(t *testing.T) {
		docs := new(repoMocks.MockDocumentRepository)
		svc := NewDocumentService(new(repoMocks.MockActorRepository), docs, new(repoMocks.MockApprovalRepository), new(storageMocks.MockStorage))

		docs.On("FindByID", ctx, "doc-1").Return(nil, sql.ErrNoRows)

		_, err := svc.GetProgress(ctx, "student-1", "doc-1")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
