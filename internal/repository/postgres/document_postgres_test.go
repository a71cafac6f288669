package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"unidoc/internal/model"
	"unidoc/internal/repository"
)

var documentCols = []string{
	"id", "title", "description", "document_type", "status", "file_path",
	"author_id", "supervisor_id", "department_head_id", "dean_id",
	"created_at", "updated_at",
}

func documentRow(id string, status model.Status, now time.Time) []driverValue {
	return []driverValue{
		id, "Diploma project", "final draft", "diploma_project", string(status), "",
		"author-1", "supervisor-1", nil, nil, now, now,
	}
}

type driverValue = driver.Value

func TestDocumentPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	supervisor := "supervisor-1"
	doc := &model.Document{
		ID:           "doc-1",
		Title:        "Diploma project",
		Description:  "final draft",
		DocumentType: "diploma_project",
		Status:       model.StatusDraft,
		AuthorID:     "author-1",
		SupervisorID: &supervisor,
		CreatedAt:    now,
	}

	rows := sqlmock.NewRows(documentCols).
		AddRow(documentRow("doc-1", model.StatusDraft, now)...)

	mock.ExpectQuery("INSERT INTO documents").
		WithArgs(doc.ID, doc.Title, doc.Description, doc.DocumentType, doc.Status, doc.FilePath,
			doc.AuthorID, doc.SupervisorID, doc.DepartmentHeadID, doc.DeanID, doc.CreatedAt).
		WillReturnRows(rows)

	result, err := repo.Create(ctx, doc)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, doc.ID, result.ID)
	assert.Equal(t, model.StatusDraft, result.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows(documentCols).
			AddRow(documentRow("doc-1", model.StatusSubmitted, time.Now())...)

		mock.ExpectQuery("SELECT (.+) FROM documents WHERE id = ?").
			WithArgs("doc-1").
			WillReturnRows(rows)

		doc, err := repo.FindByID(ctx, "doc-1")

		assert.NoError(t, err)
		assert.NotNil(t, doc)
		assert.Equal(t, "doc-1", doc.ID)
		assert.Equal(t, "supervisor-1", *doc.SupervisorID)
		assert.Nil(t, doc.DeanID)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM documents WHERE id = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		doc, err := repo.FindByID(ctx, "missing")

		assert.Error(t, err)
		assert.True(t, errors.Is(err, sql.ErrNoRows))
		assert.Nil(t, doc)
	})
}

func TestDocumentPostgres_ListByAuthor(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM documents WHERE author_id = ?").
		WithArgs("author-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	rows := sqlmock.NewRows(documentCols).
		AddRow(documentRow("doc-2", model.StatusDraft, time.Now())...).
		AddRow(documentRow("doc-1", model.StatusApproved, time.Now())...)

	mock.ExpectQuery("SELECT (.+) FROM documents WHERE author_id = (.+) ORDER BY").
		WithArgs("author-1", 10, 0).
		WillReturnRows(rows)

	res, err := repo.ListByAuthor(ctx, "author-1", repository.PageQuery{Limit: 10, Offset: 0})

	assert.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	assert.Len(t, res.Items, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_ListPendingForApprover(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("pending queue", func(t *testing.T) {
		rows := sqlmock.NewRows(documentCols).
			AddRow(documentRow("doc-1", model.StatusSubmitted, time.Now())...)

		mock.ExpectQuery("SELECT (.+) FROM documents WHERE \\(supervisor_id = (.+)").
			WithArgs("supervisor-1").
			WillReturnRows(rows)

		docs, err := repo.ListPendingForApprover(ctx, "supervisor-1")

		assert.NoError(t, err)
		assert.Len(t, docs, 1)
		assert.Equal(t, model.StatusSubmitted, docs[0].Status)
	})

	t.Run("empty queue", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM documents WHERE \\(supervisor_id = (.+)").
			WithArgs("nobody").
			WillReturnRows(sqlmock.NewRows(documentCols))

		docs, err := repo.ListPendingForApprover(ctx, "nobody")

		assert.NoError(t, err)
		assert.Empty(t, docs)
	})
}
