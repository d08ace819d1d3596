package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/marknote/marknote/internal/domain/activity"
	"github.com/stretchr/testify/require"
)

func TestActivityRepository_LogList(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	repo := NewActivityRepository(db)
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	noteID := "n1"
	entry1 := &activity.ActivityEntry{
		ActivityType: "ADD_NOTE",
		SubjectID:    &noteID,
		Summary:      "created note",
		CreatedAt:    base,
	}
	entry2 := &activity.ActivityEntry{
		ActivityType: "ADD_FOLDER",
		Summary:      "created folder",
		CreatedAt:    base.Add(time.Minute),
	}

	require.NoError(t, repo.Log(ctx, entry1))
	require.NoError(t, repo.Log(ctx, entry2))
	require.NotZero(t, entry1.ID)

	entries, err := repo.List(ctx, activity.ListActivityOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, entry2.ActivityType, entries[0].ActivityType)
	require.Equal(t, entry1.ActivityType, entries[1].ActivityType)
	require.Nil(t, entries[0].SubjectID)
	require.Equal(t, "n1", *entries[1].SubjectID)
}

func TestActivityRepository_Filters(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	repo := NewActivityRepository(db)
	subject := "f1"
	for i, kind := range []activity.ActivityType{"ADD_FOLDER", "UPDATE_FOLDER", "DELETE_FOLDER"} {
		require.NoError(t, repo.Log(ctx, &activity.ActivityEntry{
			ActivityType: kind,
			SubjectID:    &subject,
			Summary:      string(kind),
			CreatedAt:    time.Date(2025, 3, 1, 12, i, 0, 0, time.UTC),
		}))
	}

	kind := activity.ActivityType("UPDATE_FOLDER")
	entries, err := repo.List(ctx, activity.ListActivityOptions{ActivityType: &kind, SubjectID: &subject})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entries, err = repo.List(ctx, activity.ListActivityOptions{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, kind, entries[0].ActivityType)

	entries, err = repo.List(ctx, activity.ListActivityOptions{Offset: 2})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, activity.ActivityType("ADD_FOLDER"), entries[0].ActivityType)
}
