package workspace

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/marknote/marknote/internal/autosave"
	"github.com/stretchr/testify/require"
)

type heldTimer struct {
	f func()
}

func (t *heldTimer) Stop() bool { return true }

func strRef(s string) *string { return &s }

// newTimedService returns a service whose autosave timers are collected
// instead of started.
func newTimedService(t *testing.T) (*Service, *[]*heldTimer, *sync.Mutex) {
	t.Helper()
	var mu sync.Mutex
	timers := []*heldTimer{}
	svc := NewService(Options{
		AfterFunc: func(_ time.Duration, f func()) autosave.Timer {
			mu.Lock()
			defer mu.Unlock()
			tm := &heldTimer{f: f}
			timers = append(timers, tm)
			return tm
		},
	}, nil)
	require.NoError(t, svc.Hydrate(context.Background()))
	t.Cleanup(svc.Close)
	return svc, &timers, &mu
}

func TestAutosave_TimerFiringDuringUpdateDoesNotOverwrite(t *testing.T) {
	ctx := context.Background()
	svc, timers, timersMu := newTimedService(t)

	note, err := svc.CreateNote(ctx, CreateNoteRequest{Title: "Draft"})
	require.NoError(t, err)
	require.NoError(t, svc.EditNote(ctx, UpdateNoteRequest{ID: note.ID, Content: strRef("stale autosave")}))

	timersMu.Lock()
	require.Len(t, *timers, 1)
	timer := (*timers)[0]
	timersMu.Unlock()

	// Queue the explicit update and the timer behind the workspace lock.
	svc.mu.Lock()
	var wg sync.WaitGroup
	var updateErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, updateErr = svc.UpdateNote(ctx, UpdateNoteRequest{ID: note.ID, Content: strRef("fresh explicit update")})
	}()
	go func() {
		defer wg.Done()
		timer.f()
	}()
	time.Sleep(20 * time.Millisecond)
	svc.mu.Unlock()
	wg.Wait()
	require.NoError(t, updateErr)

	svc.FlushEdits()
	got, err := svc.Note(note.ID)
	require.NoError(t, err)
	require.Equal(t, "fresh explicit update", got.Content)
}

func TestAutosave_TimerFiringDuringInsertImageKeepsImage(t *testing.T) {
	ctx := context.Background()
	svc, timers, timersMu := newTimedService(t)

	note, err := svc.CreateNote(ctx, CreateNoteRequest{Title: "Draft"})
	require.NoError(t, err)
	require.NoError(t, svc.EditNote(ctx, UpdateNoteRequest{ID: note.ID, Content: strRef("typed")}))

	timersMu.Lock()
	timer := (*timers)[0]
	timersMu.Unlock()

	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	svc.mu.Lock()
	var wg sync.WaitGroup
	var insertErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, insertErr = svc.InsertImage(ctx, InsertImageRequest{NoteID: note.ID, Name: "dot", Data: png})
	}()
	go func() {
		defer wg.Done()
		timer.f()
	}()
	time.Sleep(20 * time.Millisecond)
	svc.mu.Unlock()
	wg.Wait()
	require.NoError(t, insertErr)

	got, err := svc.Note(note.ID)
	require.NoError(t, err)
	require.Contains(t, got.Content, "typed")
	require.Contains(t, got.Content, "![dot](data:image/png;base64,")
}
