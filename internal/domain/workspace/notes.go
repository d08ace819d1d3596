package workspace

import (
	"context"

	"github.com/marknote/marknote/internal/domain/notes"
)

// CreateNoteRequest defines note creation inputs.
type CreateNoteRequest struct {
	Title   string
	Content string
	// FolderID places the note. Nil uses the current folder.
	FolderID *string
	// AtRoot forces a root note even when a folder is selected.
	AtRoot bool
}

// UpdateNoteRequest changes the fields that are non-nil.
type UpdateNoteRequest struct {
	ID      string
	Title   *string
	Content *string
}

// CreateNote adds a note, prepends it to the list and selects it.
func (s *Service) CreateNote(ctx context.Context, req CreateNoteRequest) (notes.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.store.State()
	folderID := state.CurrentFolderID
	if req.AtRoot {
		folderID = nil
	} else if req.FolderID != nil {
		folderID = req.FolderID
	}
	if folderID != nil {
		if _, ok := notes.FolderByID(state, *folderID); !ok {
			return notes.Note{}, ErrFolderNotFound
		}
		folderID = notes.Ref(*folderID)
	}

	title := req.Title
	if title == "" {
		title = notes.UntitledNote
	}

	now := s.nowMillis()
	note := notes.Note{
		ID:        s.newID(),
		Title:     title,
		Content:   req.Content,
		FolderID:  folderID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.store.Dispatch(notes.AddNote{Note: note})
	return note, nil
}

// UpdateNote applies an edit immediately. A pending autosave for the same note
// is folded in underneath it.
func (s *Service) UpdateNote(ctx context.Context, req UpdateNoteRequest) (notes.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := notes.NoteByID(s.store.State(), req.ID); !ok {
		return notes.Note{}, ErrNoteNotFound
	}
	if pending, ok := s.edits.Take(req.ID); ok {
		req = mergeUpdates(pending, req)
	}
	return s.applyUpdate(req), nil
}

// EditNote records an edit and commits it once edits to the note have been
// quiet for the autosave delay.
func (s *Service) EditNote(ctx context.Context, req UpdateNoteRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := notes.NoteByID(s.store.State(), req.ID); !ok {
		return ErrNoteNotFound
	}
	return s.edits.Schedule(req.ID, req)
}

// DeleteNote removes a note and discards its pending edits.
func (s *Service) DeleteNote(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := notes.NoteByID(s.store.State(), id); !ok {
		return ErrNoteNotFound
	}
	s.edits.Cancel(id)
	s.store.Dispatch(notes.DeleteNote{ID: id})
	return nil
}

// SelectNote changes the current note. Nil clears the selection.
func (s *Service) SelectNote(ctx context.Context, id *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id != nil {
		if _, ok := notes.NoteByID(s.store.State(), *id); !ok {
			return ErrNoteNotFound
		}
		id = notes.Ref(*id)
	}
	s.store.Dispatch(notes.SetCurrentNote{ID: id})
	return nil
}

// Search sets the search query and returns the matching notes.
func (s *Service) Search(ctx context.Context, query string) []notes.Note {
	s.mu.Lock()
	defer s.mu.Unlock()

	return notes.FilteredNotes(s.store.Dispatch(notes.SetSearchQuery{Query: query}))
}

// MoveNote moves a note into a folder, or to the root when folderID is nil.
func (s *Service) MoveNote(ctx context.Context, noteID string, folderID *string) (notes.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.store.State()
	if _, ok := notes.NoteByID(state, noteID); !ok {
		return notes.Note{}, ErrNoteNotFound
	}
	if folderID != nil {
		if _, ok := notes.FolderByID(state, *folderID); !ok {
			return notes.Note{}, ErrFolderNotFound
		}
		folderID = notes.Ref(*folderID)
	}

	next := s.store.Dispatch(notes.MoveNoteToFolder{NoteID: noteID, FolderID: folderID})
	moved, _ := notes.NoteByID(next, noteID)
	return moved, nil
}

// commitEdit is the autosave callback. The debouncer calls it with s.mu held,
// after claiming the edit; edits taken by UpdateNote or InsertImage never
// reach it.
func (s *Service) commitEdit(id string, req UpdateNoteRequest) {
	current, ok := notes.NoteByID(s.store.State(), id)
	if !ok {
		s.logger.Warn("dropping edit for missing note", "note_id", id)
		return
	}
	if !changes(current, req) {
		return
	}
	s.applyUpdate(req)
	s.logger.Debug("autosaved note", "note_id", id)
}

// applyUpdate dispatches req against an existing note. Callers hold s.mu.
func (s *Service) applyUpdate(req UpdateNoteRequest) notes.Note {
	current, _ := notes.NoteByID(s.store.State(), req.ID)
	if req.Title != nil {
		current.Title = *req.Title
	}
	if req.Content != nil {
		current.Content = *req.Content
	}
	next := s.store.Dispatch(notes.UpdateNote{Note: current})
	updated, _ := notes.NoteByID(next, req.ID)
	return updated
}

func changes(n notes.Note, req UpdateNoteRequest) bool {
	return (req.Title != nil && *req.Title != n.Title) ||
		(req.Content != nil && *req.Content != n.Content)
}

func mergeUpdates(prev, next UpdateNoteRequest) UpdateNoteRequest {
	if next.Title == nil {
		next.Title = prev.Title
	}
	if next.Content == nil {
		next.Content = prev.Content
	}
	return next
}
