package repository

import (
	"context"

	"github.com/gogotex/gogotex/backend/doc-revisions/internal/document"
)

// ErrNotFound is kept as an alias so callers of the repository can match on
// the document package sentinel.
var ErrNotFound = document.ErrNotFound

// Repository persists document revision chains.
type Repository interface {
	// LoadChain returns all revisions of a document ordered by Order. An
	// unknown document yields an empty chain.
	LoadChain(ctx context.Context, documentKey string) ([]document.DocumentRevision, error)
	// Persist upserts revisions by ID as one unit: either all are written or
	// none. A new revision whose (key, order) is already taken by another ID
	// fails with document.ErrConflict.
	Persist(ctx context.Context, revisions []document.DocumentRevision) error
	// ListDocumentKeys returns the keys of all documents, sorted.
	ListDocumentKeys(ctx context.Context) ([]string, error)
}
