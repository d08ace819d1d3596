package activity_test

import (
	"context"
	"errors"
	"testing"

	"github.com/marknote/marknote/internal/domain/activity"
	"github.com/marknote/marknote/internal/domain/notes"
	"github.com/marknote/marknote/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestActivityService_LogAndList(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.ActivityRepository{}
	entry := &activity.ActivityEntry{
		ActivityType: activity.ActivityType(notes.KindAddNote),
		Summary:      "created",
	}

	repo.On("Log", ctx, entry).Return(nil)
	repo.On("List", ctx, activity.ListActivityOptions{Limit: 10}).Return([]activity.ActivityEntry{}, nil)

	svc := activity.NewService(repo, nil)
	require.NoError(t, svc.LogActivity(ctx, entry))
	require.False(t, entry.CreatedAt.IsZero())
	_, err := svc.GetRecentActivity(ctx, activity.ListActivityOptions{Limit: 10})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestActivityService_RejectsEmptyEntry(t *testing.T) {
	svc := activity.NewService(&mocks.ActivityRepository{}, nil)
	require.ErrorIs(t, svc.LogActivity(context.Background(), nil), activity.ErrInvalidInput)
	require.ErrorIs(t, svc.LogActivity(context.Background(), &activity.ActivityEntry{}), activity.ErrInvalidInput)
}

func TestActivityService_ObserverJournalsActions(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ActivityRepository{}
	repo.On("Log", ctx, mock.MatchedBy(func(e *activity.ActivityEntry) bool {
		return e.ActivityType == activity.ActivityType(notes.KindDeleteFolder) &&
			e.SubjectID != nil && *e.SubjectID == "f1"
	})).Return(nil).Once()

	svc := activity.NewService(repo, nil)
	store := notes.NewStore(nil, notes.State{})
	store.Subscribe(svc.Observer(ctx))

	store.Dispatch(notes.SetSearchQuery{Query: "ignored"})
	store.Dispatch(notes.DeleteFolder{ID: "f1"})

	repo.AssertExpectations(t)
}

func TestActivityService_ObserverSwallowsErrors(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ActivityRepository{}
	repo.On("Log", ctx, mock.Anything).Return(errors.New("disk full"))

	svc := activity.NewService(repo, nil)
	store := notes.NewStore(nil, notes.State{})
	store.Subscribe(svc.Observer(ctx))

	next := store.Dispatch(notes.AddFolder{Folder: notes.Folder{ID: "f1", Name: "Work"}})
	require.Len(t, next.Folders, 1)
}

func TestEntryFor(t *testing.T) {
	entry := activity.EntryFor(notes.MoveNoteToFolder{NoteID: "n1"})
	require.Equal(t, "moved note n1 to root", entry.Summary)
	require.Equal(t, "n1", *entry.SubjectID)

	entry = activity.EntryFor(notes.AddNote{Note: notes.Note{ID: "n2"}})
	require.Equal(t, `created note "Untitled note"`, entry.Summary)
}
