package notes

// Kind names an action variant. Values match the dispatch tags used by the
// activity journal.
type Kind string

const (
	KindSetNotes         Kind = "SET_NOTES"
	KindAddNote          Kind = "ADD_NOTE"
	KindUpdateNote       Kind = "UPDATE_NOTE"
	KindDeleteNote       Kind = "DELETE_NOTE"
	KindSetCurrentNote   Kind = "SET_CURRENT_NOTE"
	KindSetSearchQuery   Kind = "SET_SEARCH_QUERY"
	KindSetFolders       Kind = "SET_FOLDERS"
	KindAddFolder        Kind = "ADD_FOLDER"
	KindUpdateFolder     Kind = "UPDATE_FOLDER"
	KindDeleteFolder     Kind = "DELETE_FOLDER"
	KindSetCurrentFolder Kind = "SET_CURRENT_FOLDER"
	KindMoveNoteToFolder Kind = "MOVE_NOTE_TO_FOLDER"
)

// AffectsNotes reports whether an action of this kind can change the notes
// collection.
func (k Kind) AffectsNotes() bool {
	switch k {
	case KindSetNotes, KindAddNote, KindUpdateNote, KindDeleteNote, KindDeleteFolder, KindMoveNoteToFolder:
		return true
	}
	return false
}

// AffectsFolders reports whether an action of this kind can change the
// folders collection.
func (k Kind) AffectsFolders() bool {
	switch k {
	case KindSetFolders, KindAddFolder, KindUpdateFolder, KindDeleteFolder:
		return true
	}
	return false
}

// Action is the closed set of state transitions. Only types in this package
// implement it.
type Action interface {
	Kind() Kind
	action()
}

type (
	// SetNotes replaces the notes collection wholesale (hydration).
	SetNotes struct{ Notes []Note }
	// AddNote prepends a note and makes it current.
	AddNote struct{ Note Note }
	// UpdateNote replaces the note with the same id and bumps UpdatedAt.
	UpdateNote struct{ Note Note }
	// DeleteNote removes a note by id.
	DeleteNote struct{ ID string }
	// SetCurrentNote selects a note without checking that it exists.
	SetCurrentNote struct{ ID *string }
	// SetSearchQuery replaces the search text.
	SetSearchQuery struct{ Query string }
	// SetFolders replaces the folders collection wholesale (hydration).
	SetFolders struct{ Folders []Folder }
	// AddFolder appends a folder.
	AddFolder struct{ Folder Folder }
	// UpdateFolder replaces the folder with the same id.
	UpdateFolder struct{ Folder Folder }
	// DeleteFolder removes a folder and all of its descendants.
	DeleteFolder struct{ ID string }
	// SetCurrentFolder sets the folder scope without checking that it exists.
	SetCurrentFolder struct{ ID *string }
	// MoveNoteToFolder re-files a note. A nil FolderID moves it to the root.
	MoveNoteToFolder struct {
		NoteID   string
		FolderID *string
	}
)

func (SetNotes) Kind() Kind         { return KindSetNotes }
func (AddNote) Kind() Kind          { return KindAddNote }
func (UpdateNote) Kind() Kind       { return KindUpdateNote }
func (DeleteNote) Kind() Kind       { return KindDeleteNote }
func (SetCurrentNote) Kind() Kind   { return KindSetCurrentNote }
func (SetSearchQuery) Kind() Kind   { return KindSetSearchQuery }
func (SetFolders) Kind() Kind       { return KindSetFolders }
func (AddFolder) Kind() Kind        { return KindAddFolder }
func (UpdateFolder) Kind() Kind     { return KindUpdateFolder }
func (DeleteFolder) Kind() Kind     { return KindDeleteFolder }
func (SetCurrentFolder) Kind() Kind { return KindSetCurrentFolder }
func (MoveNoteToFolder) Kind() Kind { return KindMoveNoteToFolder }

func (SetNotes) action()         {}
func (AddNote) action()          {}
func (UpdateNote) action()       {}
func (DeleteNote) action()       {}
func (SetCurrentNote) action()   {}
func (SetSearchQuery) action()   {}
func (SetFolders) action()       {}
func (AddFolder) action()        {}
func (UpdateFolder) action()     {}
func (DeleteFolder) action()     {}
func (SetCurrentFolder) action() {}
func (MoveNoteToFolder) action() {}

// SubjectID returns the id of the entity an action is about, if any.
func SubjectID(a Action) string {
	switch act := a.(type) {
	case AddNote:
		return act.Note.ID
	case UpdateNote:
		return act.Note.ID
	case DeleteNote:
		return act.ID
	case SetCurrentNote:
		return derefOr(act.ID, "")
	case AddFolder:
		return act.Folder.ID
	case UpdateFolder:
		return act.Folder.ID
	case DeleteFolder:
		return act.ID
	case SetCurrentFolder:
		return derefOr(act.ID, "")
	case MoveNoteToFolder:
		return act.NoteID
	}
	return ""
}

func derefOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
