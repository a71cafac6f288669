package postgres

import (
	"context"
	"database/sql"

	"unidoc/internal/model"
	"unidoc/internal/repository"
)

const documentColumns = `id, title, description, document_type, status, file_path,
		       author_id, supervisor_id, department_head_id, dean_id,
		       created_at, updated_at`

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

func scanDocument(row interface{ Scan(dest ...any) error }) (*model.Document, error) {
	var d model.Document
	if err := row.Scan(
		&d.ID,
		&d.Title,
		&d.Description,
		&d.DocumentType,
		&d.Status,
		&d.FilePath,
		&d.AuthorID,
		&d.SupervisorID,
		&d.DepartmentHeadID,
		&d.DeanID,
		&d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &d, nil
}

// Create inserts a new document row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO documents (id, title, description, document_type, status, file_path,
		                       author_id, supervisor_id, department_head_id, dean_id,
		                       created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
		RETURNING ` + documentColumns
	row := r.db.QueryRowContext(ctx, q,
		doc.ID,
		doc.Title,
		doc.Description,
		doc.DocumentType,
		doc.Status,
		doc.FilePath,
		doc.AuthorID,
		doc.SupervisorID,
		doc.DepartmentHeadID,
		doc.DeanID,
		doc.CreatedAt,
	)
	return scanDocument(row)
}

// FindByID fetches a single document by its ID.
func (r *DocumentPostgres) FindByID(ctx context.Context, id string) (*model.Document, error) {
	const q = `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE id = $1
	`
	return scanDocument(r.db.QueryRowContext(ctx, q, id))
}

// ListByAuthor returns the author's documents using LIMIT/OFFSET pagination
// and the author's total row count.
func (r *DocumentPostgres) ListByAuthor(ctx context.Context, authorID string, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	const qCount = `SELECT COUNT(*) FROM documents WHERE author_id = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, authorID).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE author_id = $1
		ORDER BY updated_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, qList, authorID, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Document]{
		Items: items,
		Total: total,
	}, nil
}

// ListPendingForApprover returns documents waiting on the given actor at the
// stage they are assigned for. One query covers all three stages.
func (r *DocumentPostgres) ListPendingForApprover(ctx context.Context, approverID string) ([]model.Document, error) {
	const q = `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE (supervisor_id = $1 AND status = 'submitted')
		   OR (department_head_id = $1 AND status = 'supervisor_approved')
		   OR (dean_id = $1 AND status = 'department_approved')
		ORDER BY updated_at ASC
	`
	rows, err := r.db.QueryContext(ctx, q, approverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
