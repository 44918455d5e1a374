package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/gogotex/gogotex/backend/doc-revisions/internal/document"
	"github.com/stretchr/testify/require"
)

func rev(id, key string, order int, text string) document.DocumentRevision {
	return document.DocumentRevision{
		ID:    id,
		Key:   key,
		Order: order,
		Title: "t",
		Sections: []document.SectionRevision{
			{Revision: id + "-s", Key: "s1", Type: "markdown", Content: document.Content{"text": text}},
		},
	}
}

func TestMemoryRepo_PersistAndLoad(t *testing.T) {
	r := NewMemoryRepo()
	ctx := context.Background()

	chain, err := r.LoadChain(ctx, "d1")
	require.NoError(t, err)
	require.Empty(t, chain)

	require.NoError(t, r.Persist(ctx, []document.DocumentRevision{rev("r2", "d1", 1, "b"), rev("r1", "d1", 0, "a")}))
	require.NoError(t, r.Persist(ctx, []document.DocumentRevision{rev("x1", "d2", 0, "x")}))

	chain, err = r.LoadChain(ctx, "d1")
	require.NoError(t, err)
	require.Len(t, chain, 2)
	require.Equal(t, "r1", chain[0].ID)
	require.Equal(t, "r2", chain[1].ID)

	keys, err := r.ListDocumentKeys(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"d1", "d2"}, keys)
}

func TestMemoryRepo_ReturnsCopies(t *testing.T) {
	r := NewMemoryRepo()
	ctx := context.Background()
	in := rev("r1", "d1", 0, "a")
	require.NoError(t, r.Persist(ctx, []document.DocumentRevision{in}))

	in.Sections[0].Content["text"] = "changed by caller"
	chain, err := r.LoadChain(ctx, "d1")
	require.NoError(t, err)
	require.Equal(t, "a", chain[0].Sections[0].Content["text"])

	chain[0].Sections[0].Content = nil
	again, err := r.LoadChain(ctx, "d1")
	require.NoError(t, err)
	require.False(t, again[0].Sections[0].IsTombstone())
}

func TestMemoryRepo_UpdateInPlace(t *testing.T) {
	r := NewMemoryRepo()
	ctx := context.Background()
	require.NoError(t, r.Persist(ctx, []document.DocumentRevision{rev("r1", "d1", 0, "a")}))

	updated := rev("r1", "d1", 0, "a")
	updated.Sections[0].Content = nil
	updated.Sections[0].DeletedBy = "u1"
	require.NoError(t, r.Persist(ctx, []document.DocumentRevision{updated}))

	chain, err := r.LoadChain(ctx, "d1")
	require.NoError(t, err)
	require.Len(t, chain, 1)
	require.True(t, chain[0].Sections[0].IsTombstone())
}

func TestMemoryRepo_ConflictIsAllOrNothing(t *testing.T) {
	r := NewMemoryRepo()
	ctx := context.Background()
	require.NoError(t, r.Persist(ctx, []document.DocumentRevision{rev("r1", "d1", 0, "a")}))

	tombstoned := rev("r1", "d1", 0, "a")
	tombstoned.Sections[0].Content = nil
	err := r.Persist(ctx, []document.DocumentRevision{tombstoned, rev("other", "d1", 0, "b")})
	require.Error(t, err)
	require.True(t, errors.Is(err, document.ErrConflict))

	chain, err := r.LoadChain(ctx, "d1")
	require.NoError(t, err)
	require.Len(t, chain, 1)
	require.False(t, chain[0].Sections[0].IsTombstone(), "first write of the failed set must not be applied")
}

func TestMemoryRepo_RejectsOrderChange(t *testing.T) {
	r := NewMemoryRepo()
	ctx := context.Background()
	require.NoError(t, r.Persist(ctx, []document.DocumentRevision{rev("r1", "d1", 0, "a")}))
	err := r.Persist(ctx, []document.DocumentRevision{rev("r1", "d1", 3, "a")})
	require.True(t, errors.Is(err, document.ErrConflict))
}
