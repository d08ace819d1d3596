package notes

// Note is a titled Markdown document that belongs to at most one folder.
// Timestamps are milliseconds since the Unix epoch.
type Note struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	FolderID  *string `json:"folderId"`
	CreatedAt int64   `json:"createdAt"`
	UpdatedAt int64   `json:"updatedAt"`
}

// Folder is a named grouping node. A nil ParentID places it at the root.
type Folder struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	ParentID  *string `json:"parentId"`
	CreatedAt int64   `json:"createdAt"`
}

// State is the aggregate owned by the Store. Values are treated as immutable:
// the reducer always builds new slices instead of writing into existing ones.
type State struct {
	Notes           []Note
	Folders         []Folder
	CurrentNoteID   *string
	CurrentFolderID *string
	SearchQuery     string
}

// UntitledNote is shown in place of an empty note title.
const UntitledNote = "Untitled note"

// DisplayTitle returns the label a list entry should show for n.
func DisplayTitle(n Note) string {
	if n.Title == "" {
		return UntitledNote
	}
	return n.Title
}

// InFolder reports whether the note's folder reference equals folderID.
func (n Note) InFolder(folderID *string) bool {
	return sameRef(n.FolderID, folderID)
}

// Ref returns a pointer to a copy of id, for building nullable references.
func Ref(id string) *string {
	return &id
}

func sameRef(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func refIn(ref *string, set map[string]struct{}) bool {
	if ref == nil {
		return false
	}
	_, ok := set[*ref]
	return ok
}

func findNote(list []Note, id string) (int, bool) {
	for i := range list {
		if list[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

func findFolder(list []Folder, id string) (int, bool) {
	for i := range list {
		if list[i].ID == id {
			return i, true
		}
	}
	return -1, false
}
