package mcp

import (
	"time"

	"github.com/marknote/marknote/internal/domain/activity"
	"github.com/marknote/marknote/internal/domain/notes"
	"github.com/marknote/marknote/internal/markup"
	"github.com/marknote/marknote/internal/persistence"
)

type ListNotesParams struct {
	// All lists every note in store order, ignoring folder scope and search.
	All bool `json:"all,omitempty"`
}

type GetNoteParams struct {
	ID string `json:"id,omitempty"`
}

type CreateNoteParams struct {
	Title    string  `json:"title,omitempty"`
	Content  string  `json:"content,omitempty"`
	FolderID *string `json:"folder_id,omitempty"`
	AtRoot   bool    `json:"at_root,omitempty"`
}

type UpdateNoteParams struct {
	ID      string  `json:"id"`
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

type InsertImageParams struct {
	NoteID    string `json:"note_id"`
	Name      string `json:"name,omitempty"`
	MediaType string `json:"media_type,omitempty"`
	// Data is the base64-encoded image.
	Data string `json:"data"`
}

type InsertColorParams struct {
	NoteID string `json:"note_id"`
	Color  string `json:"color"`
	Text   string `json:"text,omitempty"`
}

type IDParams struct {
	ID string `json:"id"`
}

type SelectParams struct {
	ID *string `json:"id,omitempty"`
}

type SearchNotesParams struct {
	Query string `json:"query"`
}

type MoveNoteParams struct {
	NoteID   string  `json:"note_id"`
	FolderID *string `json:"folder_id,omitempty"`
}

type CreateFolderParams struct {
	Name     string  `json:"name"`
	ParentID *string `json:"parent_id,omitempty"`
	AtRoot   bool    `json:"at_root,omitempty"`
}

type RenameFolderParams struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type MoveFolderParams struct {
	ID       string  `json:"id"`
	ParentID *string `json:"parent_id,omitempty"`
}

type RenderMarkdownParams struct {
	Markdown string `json:"markdown"`
}

type SetPreferencesParams struct {
	Theme            *persistence.Theme         `json:"theme,omitempty"`
	MarkdownStyle    *persistence.MarkdownStyle `json:"markdown_style,omitempty"`
	SplitPosition    *float64                   `json:"split_position,omitempty"`
	SidebarCollapsed *bool                      `json:"sidebar_collapsed,omitempty"`
}

type GetRecentActivityParams struct {
	Type      *activity.ActivityType `json:"type,omitempty"`
	SubjectID *string                `json:"subject_id,omitempty"`
	Limit     int                    `json:"limit,omitempty"`
	Offset    int                    `json:"offset,omitempty"`
}

// NoteSummary is a list entry without the note body.
type NoteSummary struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	FolderID  *string `json:"folderId"`
	CreatedAt int64   `json:"createdAt"`
	UpdatedAt int64   `json:"updatedAt"`
	Excerpt   string  `json:"excerpt"`
}

type ListNotesResponse struct {
	Notes           []NoteSummary `json:"notes"`
	CurrentNoteID   *string       `json:"currentNoteId"`
	CurrentFolderID *string       `json:"currentFolderId"`
	SearchQuery     string        `json:"searchQuery"`
}

type NoteResponse struct {
	Note    notes.Note           `json:"note"`
	HTML    string               `json:"html"`
	Outline []markup.OutlineItem `json:"outline"`
}

type ListFoldersResponse struct {
	Tree            []notes.FolderNode `json:"tree"`
	CurrentFolderID *string            `json:"currentFolderId"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type ActivityEntryResponse struct {
	Timestamp time.Time             `json:"timestamp"`
	Type      activity.ActivityType `json:"type"`
	SubjectID *string               `json:"subjectId"`
	Summary   string                `json:"summary"`
}

const excerptLength = 120

func summarize(n notes.Note) NoteSummary {
	excerpt := []rune(n.Content)
	if len(excerpt) > excerptLength {
		excerpt = excerpt[:excerptLength]
	}
	return NoteSummary{
		ID:        n.ID,
		Title:     notes.DisplayTitle(n),
		FolderID:  n.FolderID,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
		Excerpt:   string(excerpt),
	}
}

func summarizeAll(list []notes.Note) []NoteSummary {
	out := make([]NoteSummary, 0, len(list))
	for _, n := range list {
		out = append(out, summarize(n))
	}
	return out
}
