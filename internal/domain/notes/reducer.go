package notes

import "time"

// Clock returns the current time. The reducer reads it only for UpdateNote.
type Clock func() time.Time

// Reducer applies actions to state. It performs no I/O and never mutates its
// input state.
type Reducer struct {
	now Clock
}

// NewReducer creates a reducer using clock for UpdateNote timestamps. A nil
// clock falls back to time.Now.
func NewReducer(clock Clock) *Reducer {
	if clock == nil {
		clock = time.Now
	}
	return &Reducer{now: clock}
}

// Reduce returns the state that results from applying a to s. Unrecognized
// or nil actions return s unchanged.
func (r *Reducer) Reduce(s State, a Action) State {
	switch act := a.(type) {
	case SetNotes:
		s.Notes = act.Notes
	case AddNote:
		list := make([]Note, 0, len(s.Notes)+1)
		list = append(list, act.Note)
		s.Notes = append(list, s.Notes...)
		s.CurrentNoteID = Ref(act.Note.ID)
	case UpdateNote:
		s.Notes = r.updateNote(s.Notes, act.Note)
	case DeleteNote:
		s = deleteNote(s, act.ID)
	case SetCurrentNote:
		s.CurrentNoteID = act.ID
	case SetSearchQuery:
		s.SearchQuery = act.Query
	case SetFolders:
		s.Folders = act.Folders
	case AddFolder:
		list := make([]Folder, 0, len(s.Folders)+1)
		list = append(list, s.Folders...)
		s.Folders = append(list, act.Folder)
	case UpdateFolder:
		idx, ok := findFolder(s.Folders, act.Folder.ID)
		if !ok {
			return s
		}
		list := append([]Folder(nil), s.Folders...)
		list[idx] = act.Folder
		s.Folders = list
	case DeleteFolder:
		s = deleteFolder(s, act.ID)
	case SetCurrentFolder:
		s.CurrentFolderID = act.ID
	case MoveNoteToFolder:
		idx, ok := findNote(s.Notes, act.NoteID)
		if !ok {
			return s
		}
		list := append([]Note(nil), s.Notes...)
		list[idx].FolderID = act.FolderID
		s.Notes = list
	}
	return s
}

func (r *Reducer) updateNote(list []Note, next Note) []Note {
	idx, ok := findNote(list, next.ID)
	if !ok {
		return list
	}
	prev := list[idx]
	stamp := r.now().UnixMilli()
	stamp = max(stamp, prev.UpdatedAt, next.CreatedAt)

	out := append([]Note(nil), list...)
	next.UpdatedAt = stamp
	out[idx] = next
	return out
}

func deleteNote(s State, id string) State {
	kept := make([]Note, 0, len(s.Notes))
	for _, n := range s.Notes {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	s.Notes = kept

	if s.CurrentNoteID != nil && *s.CurrentNoteID == id {
		if len(kept) > 0 {
			s.CurrentNoteID = Ref(kept[0].ID)
		} else {
			s.CurrentNoteID = nil
		}
	}
	return s
}

func deleteFolder(s State, id string) State {
	doomed := Descendants(s.Folders, id)

	folders := make([]Folder, 0, len(s.Folders))
	for _, f := range s.Folders {
		if _, gone := doomed[f.ID]; !gone {
			folders = append(folders, f)
		}
	}
	s.Folders = folders

	list := make([]Note, len(s.Notes))
	for i, n := range s.Notes {
		if refIn(n.FolderID, doomed) {
			n.FolderID = nil
		}
		list[i] = n
	}
	s.Notes = list

	if refIn(s.CurrentFolderID, doomed) {
		s.CurrentFolderID = nil
	}
	return s
}
