package sqlite

import (
	"context"
	"strings"
	"testing"

	"github.com/marknote/marknote/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestSlotRepository_PutGet(t *testing.T) {
	db := NewTestDB(t)
	repo := NewSlotRepository(db)
	ctx := context.Background()

	_, err := repo.Get(ctx, "marknote_theme")
	require.Equal(t, repository.ErrNotFound, err)

	require.NoError(t, repo.Put(ctx, "marknote_theme", "dark"))
	value, err := repo.Get(ctx, "marknote_theme")
	require.NoError(t, err)
	require.Equal(t, "dark", value)

	// Overwrite
	require.NoError(t, repo.Put(ctx, "marknote_theme", "sepia"))
	value, err = repo.Get(ctx, "marknote_theme")
	require.NoError(t, err)
	require.Equal(t, "sepia", value)
}

func TestSlotRepository_LargeValues(t *testing.T) {
	db := NewTestDB(t)
	repo := NewSlotRepository(db)
	ctx := context.Background()

	big := `[{"id":"n1","content":"` + strings.Repeat("A", 1<<20) + `"}]`
	require.NoError(t, repo.Put(ctx, "marknote_notes", big))

	value, err := repo.Get(ctx, "marknote_notes")
	require.NoError(t, err)
	require.Equal(t, big, value)
}

func TestSlotRepository_Delete(t *testing.T) {
	db := NewTestDB(t)
	repo := NewSlotRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, "k", "v"))
	require.NoError(t, repo.Delete(ctx, "k"))
	require.NoError(t, repo.Delete(ctx, "k"))

	_, err := repo.Get(ctx, "k")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSlotRepository_RejectsEmptyKey(t *testing.T) {
	db := NewTestDB(t)
	repo := NewSlotRepository(db)
	require.ErrorIs(t, repo.Put(context.Background(), "", "v"), repository.ErrInvalidInput)
}
