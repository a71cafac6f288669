package repository

import (
	"context"

	"unidoc/internal/model"
)

// DocumentRepository defines data access for documents using SQL queries only.
type DocumentRepository interface {
	// Create inserts a new document record and returns the stored row.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document by its ID.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// ListByAuthor returns a page of the author's documents, newest first,
	// and the author's total row count.
	ListByAuthor(ctx context.Context, authorID string, pq PageQuery) (*PageResult[model.Document], error)

	// ListPendingForApprover returns documents currently waiting on the
	// given actor: submitted documents they supervise, supervisor-approved
	// documents of their department queue, and department-approved
	// documents of their dean queue.
	ListPendingForApprover(ctx context.Context, approverID string) ([]model.Document, error)
}
