package workspace

import (
	"context"
	"strings"

	"github.com/marknote/marknote/internal/domain/notes"
)

// CreateFolderRequest defines folder creation inputs.
type CreateFolderRequest struct {
	Name string
	// ParentID nests the folder. Nil uses the current folder.
	ParentID *string
	// AtRoot forces a root folder even when a folder is selected.
	AtRoot bool
}

// CreateFolder appends a folder with a trimmed, non-empty name.
func (s *Service) CreateFolder(ctx context.Context, req CreateFolderRequest) (notes.Folder, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return notes.Folder{}, ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.store.State()
	parentID := state.CurrentFolderID
	if req.AtRoot {
		parentID = nil
	} else if req.ParentID != nil {
		parentID = req.ParentID
	}
	if parentID != nil {
		if _, ok := notes.FolderByID(state, *parentID); !ok {
			return notes.Folder{}, ErrFolderNotFound
		}
		parentID = notes.Ref(*parentID)
	}

	folder := notes.Folder{
		ID:        s.newID(),
		Name:      name,
		ParentID:  parentID,
		CreatedAt: s.nowMillis(),
	}
	s.store.Dispatch(notes.AddFolder{Folder: folder})
	return folder, nil
}

// RenameFolder changes a folder's name.
func (s *Service) RenameFolder(ctx context.Context, id, name string) (notes.Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return notes.Folder{}, ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	folder, ok := notes.FolderByID(s.store.State(), id)
	if !ok {
		return notes.Folder{}, ErrFolderNotFound
	}
	folder.Name = name
	s.store.Dispatch(notes.UpdateFolder{Folder: folder})
	return folder, nil
}

// MoveFolder reparents a folder. Moving a folder under itself or one of its
// descendants fails with ErrFolderCycle.
func (s *Service) MoveFolder(ctx context.Context, id string, parentID *string) (notes.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.store.State()
	folder, ok := notes.FolderByID(state, id)
	if !ok {
		return notes.Folder{}, ErrFolderNotFound
	}
	if parentID != nil {
		if _, ok := notes.FolderByID(state, *parentID); !ok {
			return notes.Folder{}, ErrFolderNotFound
		}
		if *parentID == id || notes.IsDescendant(state.Folders, id, *parentID) {
			return notes.Folder{}, ErrFolderCycle
		}
		parentID = notes.Ref(*parentID)
	}

	folder.ParentID = parentID
	s.store.Dispatch(notes.UpdateFolder{Folder: folder})
	return folder, nil
}

// DeleteFolder removes a folder and its descendants. Their notes move to the
// root.
func (s *Service) DeleteFolder(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := notes.FolderByID(s.store.State(), id); !ok {
		return ErrFolderNotFound
	}
	s.store.Dispatch(notes.DeleteFolder{ID: id})
	return nil
}

// SelectFolder scopes the note list to a folder. Nil shows all notes.
func (s *Service) SelectFolder(ctx context.Context, id *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id != nil {
		if _, ok := notes.FolderByID(s.store.State(), *id); !ok {
			return ErrFolderNotFound
		}
		id = notes.Ref(*id)
	}
	s.store.Dispatch(notes.SetCurrentFolder{ID: id})
	return nil
}
