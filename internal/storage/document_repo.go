package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// DocumentStore defines the interface for document registry operations.
type DocumentStore interface {
	// Insert inserts a new document record. The record's ID must be set.
	Insert(ctx context.Context, doc *DocumentRecord) error
	// GetByID gets a document by ID. Returns ErrNotFound if not found.
	GetByID(ctx context.Context, id string) (*DocumentRecord, error)
	// GetCurrentBySourceName returns the non-superseded document for a
	// source name. Returns ErrNotFound if none exists.
	GetCurrentBySourceName(ctx context.Context, sourceName string) (*DocumentRecord, error)
	// MarkSuperseded records that oldID has been replaced by newID.
	MarkSuperseded(ctx context.Context, oldID, newID string) error
	// ListCurrent returns all non-superseded documents, newest first.
	ListCurrent(ctx context.Context) ([]*DocumentRecord, error)
}

// DocumentRepo provides methods for document operations.
// It implements the DocumentStore interface.
type DocumentRepo struct {
	db *sql.DB
}

// NewDocumentRepo creates a new DocumentRepo.
func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

// Insert inserts a new document record.
func (r *DocumentRepo) Insert(ctx context.Context, doc *DocumentRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO documents (id, source_name, title, author, page_count, raw_text, hash)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.SourceName, doc.Title, doc.Author, doc.PageCount, doc.RawText, doc.Hash,
	)
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}
	return nil
}

// GetByID gets a document by ID. Returns ErrNotFound if not found.
func (r *DocumentRepo) GetByID(ctx context.Context, id string) (*DocumentRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, source_name, title, author, page_count, raw_text, hash, COALESCE(superseded_by, ''), created_at
		 FROM documents WHERE id = ?`, id)
	return scanDocument(row)
}

// GetCurrentBySourceName returns the newest non-superseded document for a
// source name. Returns ErrNotFound if none exists.
func (r *DocumentRepo) GetCurrentBySourceName(ctx context.Context, sourceName string) (*DocumentRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, source_name, title, author, page_count, raw_text, hash, COALESCE(superseded_by, ''), created_at
		 FROM documents
		 WHERE source_name = ? AND superseded_by IS NULL
		 ORDER BY created_at DESC LIMIT 1`, sourceName)
	return scanDocument(row)
}

// MarkSuperseded records that oldID has been replaced by newID.
func (r *DocumentRepo) MarkSuperseded(ctx context.Context, oldID, newID string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE documents SET superseded_by = ? WHERE id = ?", newID, oldID)
	if err != nil {
		return fmt.Errorf("failed to mark document superseded: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListCurrent returns all non-superseded documents, newest first.
func (r *DocumentRepo) ListCurrent(ctx context.Context) ([]*DocumentRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, source_name, title, author, page_count, raw_text, hash, COALESCE(superseded_by, ''), created_at
		 FROM documents WHERE superseded_by IS NULL
		 ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var docs []*DocumentRecord
	for rows.Next() {
		var doc DocumentRecord
		if err := rows.Scan(&doc.ID, &doc.SourceName, &doc.Title, &doc.Author,
			&doc.PageCount, &doc.RawText, &doc.Hash, &doc.SupersededBy, &doc.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, &doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return docs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*DocumentRecord, error) {
	var doc DocumentRecord
	err := row.Scan(&doc.ID, &doc.SourceName, &doc.Title, &doc.Author,
		&doc.PageCount, &doc.RawText, &doc.Hash, &doc.SupersededBy, &doc.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query document: %w", err)
	}
	return &doc, nil
}
