package notes

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// CurrentNote returns the note selected by CurrentNoteID.
func CurrentNote(s State) (Note, bool) {
	if s.CurrentNoteID == nil {
		return Note{}, false
	}
	idx, ok := findNote(s.Notes, *s.CurrentNoteID)
	if !ok {
		return Note{}, false
	}
	return s.Notes[idx], true
}

// CurrentFolder returns the folder selected by CurrentFolderID.
func CurrentFolder(s State) (Folder, bool) {
	if s.CurrentFolderID == nil {
		return Folder{}, false
	}
	return FolderByID(s, *s.CurrentFolderID)
}

// NoteByID looks up a note.
func NoteByID(s State, id string) (Note, bool) {
	idx, ok := findNote(s.Notes, id)
	if !ok {
		return Note{}, false
	}
	return s.Notes[idx], true
}

// FolderByID looks up a folder.
func FolderByID(s State, id string) (Folder, bool) {
	idx, ok := findFolder(s.Folders, id)
	if !ok {
		return Folder{}, false
	}
	return s.Folders[idx], true
}

// FilteredNotes returns the notes in the current folder scope whose title or
// content contains the search query, most recently updated first. A folder
// scope that no longer resolves to a folder is ignored.
func FilteredNotes(s State) []Note {
	var scope *string
	if _, ok := CurrentFolder(s); ok {
		scope = s.CurrentFolderID
	}
	query := strings.ToLower(s.SearchQuery)

	out := make([]Note, 0, len(s.Notes))
	for _, n := range s.Notes {
		if scope != nil && !n.InFolder(scope) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(n.Title), query) &&
			!strings.Contains(strings.ToLower(n.Content), query) {
			continue
		}
		out = append(out, n)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt > out[j].UpdatedAt
	})
	return out
}

// FolderNode is a folder with its child folders, for tree rendering.
type FolderNode struct {
	Folder   Folder       `json:"folder"`
	Children []FolderNode `json:"children"`
}

// FolderTree arranges the folders into a forest. Siblings are ordered by name
// using locale-aware collation. Folders whose parent does not exist are
// treated as roots; folders caught in a parent cycle are left out.
func FolderTree(s State) []FolderNode {
	known := make(map[string]struct{}, len(s.Folders))
	for _, f := range s.Folders {
		known[f.ID] = struct{}{}
	}
	children := make(map[string][]Folder)
	var roots []Folder
	for _, f := range s.Folders {
		if f.ParentID == nil || !refIn(f.ParentID, known) {
			roots = append(roots, f)
			continue
		}
		children[*f.ParentID] = append(children[*f.ParentID], f)
	}

	col := collate.New(language.Und)
	seen := make(map[string]struct{}, len(s.Folders))
	var build func(level []Folder) []FolderNode
	build = func(level []Folder) []FolderNode {
		sorted := append([]Folder(nil), level...)
		sort.SliceStable(sorted, func(i, j int) bool {
			return col.CompareString(sorted[i].Name, sorted[j].Name) < 0
		})
		nodes := make([]FolderNode, 0, len(sorted))
		for _, f := range sorted {
			if _, dup := seen[f.ID]; dup {
				continue
			}
			seen[f.ID] = struct{}{}
			nodes = append(nodes, FolderNode{Folder: f, Children: build(children[f.ID])})
		}
		return nodes
	}
	return build(roots)
}
