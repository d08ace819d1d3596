package workspace_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/marknote/marknote/internal/autosave"
	"github.com/marknote/marknote/internal/domain/notes"
	"github.com/marknote/marknote/internal/domain/workspace"
	"github.com/stretchr/testify/require"
)

type manualTimer struct {
	f       func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

// harness drives a Service with a stepping clock, predictable ids and
// manually fired autosave timers.
type harness struct {
	mu     sync.Mutex
	now    time.Time
	ids    int
	timers []*manualTimer
}

func (h *harness) clock() time.Time {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.now = h.now.Add(time.Second)
	return h.now
}

func (h *harness) newID() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ids++
	return fmt.Sprintf("id-%d", h.ids)
}

func (h *harness) afterFunc(_ time.Duration, f func()) autosave.Timer {
	h.mu.Lock()
	defer h.mu.Unlock()
	t := &manualTimer{f: f}
	h.timers = append(h.timers, t)
	return t
}

func (h *harness) elapse() {
	h.mu.Lock()
	timers := h.timers
	h.timers = nil
	h.mu.Unlock()
	for _, t := range timers {
		if !t.stopped {
			t.stopped = true
			t.f()
		}
	}
}

func newService(t *testing.T, opts workspace.Options) (*workspace.Service, *harness) {
	t.Helper()
	h := &harness{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	opts.Clock = h.clock
	opts.NewID = h.newID
	opts.AfterFunc = h.afterFunc
	svc := workspace.NewService(opts, nil)
	require.NoError(t, svc.Hydrate(context.Background()))
	t.Cleanup(svc.Close)
	return svc, h
}

func strPtr(s string) *string { return &s }

func TestCreateNote_Defaults(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, workspace.Options{})

	first, err := svc.CreateNote(ctx, workspace.CreateNoteRequest{})
	require.NoError(t, err)
	require.Equal(t, "id-1", first.ID)
	require.Equal(t, notes.UntitledNote, first.Title)
	require.Nil(t, first.FolderID)
	require.Equal(t, first.CreatedAt, first.UpdatedAt)

	second, err := svc.CreateNote(ctx, workspace.CreateNoteRequest{Title: "Second", Content: "body"})
	require.NoError(t, err)

	state := svc.Snapshot()
	require.Equal(t, []string{second.ID, first.ID}, []string{state.Notes[0].ID, state.Notes[1].ID})
	current, ok := svc.CurrentNote()
	require.True(t, ok)
	require.Equal(t, second.ID, current.ID)
}

func TestCreateNote_UsesCurrentFolder(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, workspace.Options{})

	folder, err := svc.CreateFolder(ctx, workspace.CreateFolderRequest{Name: "Work"})
	require.NoError(t, err)
	require.NoError(t, svc.SelectFolder(ctx, &folder.ID))

	inFolder, err := svc.CreateNote(ctx, workspace.CreateNoteRequest{Title: "A"})
	require.NoError(t, err)
	require.Equal(t, folder.ID, *inFolder.FolderID)

	atRoot, err := svc.CreateNote(ctx, workspace.CreateNoteRequest{Title: "B", AtRoot: true})
	require.NoError(t, err)
	require.Nil(t, atRoot.FolderID)

	_, err = svc.CreateNote(ctx, workspace.CreateNoteRequest{FolderID: strPtr("missing")})
	require.ErrorIs(t, err, workspace.ErrFolderNotFound)
}

func TestUpdateNote(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, workspace.Options{})

	n, err := svc.CreateNote(ctx, workspace.CreateNoteRequest{Title: "A", Content: "x"})
	require.NoError(t, err)

	updated, err := svc.UpdateNote(ctx, workspace.UpdateNoteRequest{ID: n.ID, Content: strPtr("y")})
	require.NoError(t, err)
	require.Equal(t, "A", updated.Title)
	require.Equal(t, "y", updated.Content)
	require.Greater(t, updated.UpdatedAt, n.UpdatedAt)

	_, err = svc.UpdateNote(ctx, workspace.UpdateNoteRequest{ID: "missing", Title: strPtr("z")})
	require.ErrorIs(t, err, workspace.ErrNoteNotFound)
}

func TestEditNote_CoalescesIntoOneUpdate(t *testing.T) {
	ctx := context.Background()
	svc, h := newService(t, workspace.Options{})

	n, err := svc.CreateNote(ctx, workspace.CreateNoteRequest{Title: "Draft"})
	require.NoError(t, err)

	require.NoError(t, svc.EditNote(ctx, workspace.UpdateNoteRequest{ID: n.ID, Title: strPtr("Plan")}))
	require.NoError(t, svc.EditNote(ctx, workspace.UpdateNoteRequest{ID: n.ID, Content: strPtr("# Plan")}))
	require.NoError(t, svc.EditNote(ctx, workspace.UpdateNoteRequest{ID: n.ID, Content: strPtr("# Plan\n\n- one")}))

	unchanged, err := svc.Note(n.ID)
	require.NoError(t, err)
	require.Equal(t, "Draft", unchanged.Title)

	h.elapse()

	saved, err := svc.Note(n.ID)
	require.NoError(t, err)
	require.Equal(t, "Plan", saved.Title)
	require.Equal(t, "# Plan\n\n- one", saved.Content)
	require.Greater(t, saved.UpdatedAt, n.UpdatedAt)

	require.ErrorIs(t, svc.EditNote(ctx, workspace.UpdateNoteRequest{ID: "missing"}), workspace.ErrNoteNotFound)
}

func TestEditNote_NoopEditKeepsTimestamp(t *testing.T) {
	ctx := context.Background()
	svc, h := newService(t, workspace.Options{})

	n, err := svc.CreateNote(ctx, workspace.CreateNoteRequest{Title: "Same"})
	require.NoError(t, err)
	require.NoError(t, svc.EditNote(ctx, workspace.UpdateNoteRequest{ID: n.ID, Title: strPtr("Same")}))
	h.elapse()

	saved, err := svc.Note(n.ID)
	require.NoError(t, err)
	require.Equal(t, n.UpdatedAt, saved.UpdatedAt)
}

func TestUpdateNote_FoldsPendingEdit(t *testing.T) {
	ctx := context.Background()
	svc, h := newService(t, workspace.Options{})

	n, err := svc.CreateNote(ctx, workspace.CreateNoteRequest{Title: "A"})
	require.NoError(t, err)
	require.NoError(t, svc.EditNote(ctx, workspace.UpdateNoteRequest{ID: n.ID, Content: strPtr("typed")}))

	updated, err := svc.UpdateNote(ctx, workspace.UpdateNoteRequest{ID: n.ID, Title: strPtr("B")})
	require.NoError(t, err)
	require.Equal(t, "B", updated.Title)
	require.Equal(t, "typed", updated.Content)

	before := updated.UpdatedAt
	h.elapse()
	after, err := svc.Note(n.ID)
	require.NoError(t, err)
	require.Equal(t, before, after.UpdatedAt)
}

func TestDeleteNote(t *testing.T) {
	ctx := context.Background()
	svc, h := newService(t, workspace.Options{})

	a, err := svc.CreateNote(ctx, workspace.CreateNoteRequest{Title: "A"})
	require.NoError(t, err)
	b, err := svc.CreateNote(ctx, workspace.CreateNoteRequest{Title: "B"})
	require.NoError(t, err)

	require.NoError(t, svc.EditNote(ctx, workspace.UpdateNoteRequest{ID: b.ID, Title: strPtr("B2")}))
	require.NoError(t, svc.DeleteNote(ctx, b.ID))
	h.elapse()

	state := svc.Snapshot()
	require.Len(t, state.Notes, 1)
	require.Equal(t, a.ID, *state.CurrentNoteID)

	require.ErrorIs(t, svc.DeleteNote(ctx, b.ID), workspace.ErrNoteNotFound)
}

func TestSelectNote(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, workspace.Options{})

	a, err := svc.CreateNote(ctx, workspace.CreateNoteRequest{Title: "A"})
	require.NoError(t, err)
	_, err = svc.CreateNote(ctx, workspace.CreateNoteRequest{Title: "B"})
	require.NoError(t, err)

	require.NoError(t, svc.SelectNote(ctx, &a.ID))
	current, ok := svc.CurrentNote()
	require.True(t, ok)
	require.Equal(t, a.ID, current.ID)

	require.NoError(t, svc.SelectNote(ctx, nil))
	_, ok = svc.CurrentNote()
	require.False(t, ok)

	require.ErrorIs(t, svc.SelectNote(ctx, strPtr("missing")), workspace.ErrNoteNotFound)
}

func TestSearchAndMove(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, workspace.Options{})

	folder, err := svc.CreateFolder(ctx, workspace.CreateFolderRequest{Name: "Recipes"})
	require.NoError(t, err)
	soup, err := svc.CreateNote(ctx, workspace.CreateNoteRequest{Title: "Soup", Content: "Leek and potato"})
	require.NoError(t, err)
	_, err = svc.CreateNote(ctx, workspace.CreateNoteRequest{Title: "Taxes"})
	require.NoError(t, err)

	found := svc.Search(ctx, "POTATO")
	require.Len(t, found, 1)
	require.Equal(t, soup.ID, found[0].ID)

	moved, err := svc.MoveNote(ctx, soup.ID, &folder.ID)
	require.NoError(t, err)
	require.Equal(t, folder.ID, *moved.FolderID)

	require.Len(t, svc.Search(ctx, ""), 2)
	require.NoError(t, svc.SelectFolder(ctx, &folder.ID))
	require.Len(t, svc.ListNotes(), 1)

	_, err = svc.MoveNote(ctx, soup.ID, strPtr("missing"))
	require.ErrorIs(t, err, workspace.ErrFolderNotFound)
	_, err = svc.MoveNote(ctx, "missing", nil)
	require.ErrorIs(t, err, workspace.ErrNoteNotFound)

	moved, err = svc.MoveNote(ctx, soup.ID, nil)
	require.NoError(t, err)
	require.Nil(t, moved.FolderID)
}

func TestRenderNote(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, workspace.Options{})

	n, err := svc.CreateNote(ctx, workspace.CreateNoteRequest{Content: "# Hello\n\n## World"})
	require.NoError(t, err)

	res, err := svc.RenderNote(n.ID)
	require.NoError(t, err)
	require.Len(t, res.Outline, 2)
	require.Equal(t, "hello", res.Outline[0].ID)
	require.Contains(t, res.HTML, `<h1 id="hello">Hello</h1>`)

	_, err = svc.RenderNote("missing")
	require.ErrorIs(t, err, workspace.ErrNoteNotFound)
}
