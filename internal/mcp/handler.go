package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/marknote/marknote/internal/domain/activity"
	"github.com/marknote/marknote/internal/domain/notes"
	"github.com/marknote/marknote/internal/domain/workspace"
	"github.com/marknote/marknote/internal/markup"
	"github.com/marknote/marknote/internal/persistence"
)

// WorkspaceService defines workspace operations needed by MCP.
type WorkspaceService interface {
	Snapshot() notes.State
	ListNotes() []notes.Note
	Note(id string) (notes.Note, error)
	CurrentNote() (notes.Note, bool)
	Tree() []notes.FolderNode
	Render(src string) markup.Result
	RenderNote(id string) (markup.Result, error)
	StyleSheet() (string, error)
	CreateNote(ctx context.Context, req workspace.CreateNoteRequest) (notes.Note, error)
	UpdateNote(ctx context.Context, req workspace.UpdateNoteRequest) (notes.Note, error)
	EditNote(ctx context.Context, req workspace.UpdateNoteRequest) error
	InsertImage(ctx context.Context, req workspace.InsertImageRequest) (notes.Note, error)
	InsertColor(ctx context.Context, req workspace.InsertColorRequest) (notes.Note, error)
	DeleteNote(ctx context.Context, id string) error
	SelectNote(ctx context.Context, id *string) error
	Search(ctx context.Context, query string) []notes.Note
	MoveNote(ctx context.Context, noteID string, folderID *string) (notes.Note, error)
	CreateFolder(ctx context.Context, req workspace.CreateFolderRequest) (notes.Folder, error)
	RenameFolder(ctx context.Context, id, name string) (notes.Folder, error)
	MoveFolder(ctx context.Context, id string, parentID *string) (notes.Folder, error)
	DeleteFolder(ctx context.Context, id string) error
	SelectFolder(ctx context.Context, id *string) error
	Preferences() persistence.Preferences
	SetPreferences(ctx context.Context, p persistence.Preferences) (persistence.Preferences, error)
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

const defaultActivityLimit = 20

// Handler dispatches MCP tool calls.
type Handler struct {
	workspace WorkspaceService
	activity  ActivityService
}

// NewHandler creates a new MCP handler. activitySvc may be nil.
func NewHandler(workspaceSvc WorkspaceService, activitySvc ActivityService) *Handler {
	return &Handler{
		workspace: workspaceSvc,
		activity:  activitySvc,
	}
}

// Handle dispatches a tool call to the domain services.
func (h *Handler) Handle(ctx context.Context, method string, params json.RawMessage) (any, error) {
	switch method {
	case "list_notes":
		var req ListNotesParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		state := h.workspace.Snapshot()
		list := state.Notes
		if !req.All {
			list = h.workspace.ListNotes()
		}
		return ListNotesResponse{
			Notes:           summarizeAll(list),
			CurrentNoteID:   state.CurrentNoteID,
			CurrentFolderID: state.CurrentFolderID,
			SearchQuery:     state.SearchQuery,
		}, nil
	case "get_note":
		var req GetNoteParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		var n notes.Note
		if req.ID == "" {
			current, ok := h.workspace.CurrentNote()
			if !ok {
				return nil, mapError(workspace.ErrNoteNotFound)
			}
			n = current
		} else {
			found, err := h.workspace.Note(req.ID)
			if err != nil {
				return nil, mapError(err)
			}
			n = found
		}
		return h.noteResponse(n), nil
	case "create_note":
		var req CreateNoteParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		n, err := h.workspace.CreateNote(ctx, workspace.CreateNoteRequest{
			Title:    req.Title,
			Content:  req.Content,
			FolderID: emptyAsNil(req.FolderID),
			AtRoot:   req.AtRoot,
		})
		if err != nil {
			return nil, mapError(err)
		}
		return h.noteResponse(n), nil
	case "update_note":
		req, err := decodeUpdate(params)
		if err != nil {
			return nil, err
		}
		n, err := h.workspace.UpdateNote(ctx, req)
		if err != nil {
			return nil, mapError(err)
		}
		return h.noteResponse(n), nil
	case "edit_note":
		req, err := decodeUpdate(params)
		if err != nil {
			return nil, err
		}
		if err := h.workspace.EditNote(ctx, req); err != nil {
			return nil, mapError(err)
		}
		return StatusResponse{Status: "scheduled"}, nil
	case "insert_image":
		var req InsertImageParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if req.NoteID == "" {
			return nil, invalidInput("note_id is required")
		}
		data, err := base64.StdEncoding.DecodeString(req.Data)
		if err != nil {
			return nil, invalidInput("data is not valid base64: %v", err)
		}
		n, err := h.workspace.InsertImage(ctx, workspace.InsertImageRequest{
			NoteID:    req.NoteID,
			Name:      req.Name,
			MediaType: req.MediaType,
			Data:      data,
		})
		if err != nil {
			return nil, mapError(err)
		}
		return h.noteResponse(n), nil
	case "insert_color":
		var req InsertColorParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if req.NoteID == "" {
			return nil, invalidInput("note_id is required")
		}
		n, err := h.workspace.InsertColor(ctx, workspace.InsertColorRequest{
			NoteID: req.NoteID,
			Color:  req.Color,
			Text:   req.Text,
		})
		if err != nil {
			return nil, mapError(err)
		}
		return h.noteResponse(n), nil
	case "delete_note":
		id, err := requireID(params)
		if err != nil {
			return nil, err
		}
		if err := h.workspace.DeleteNote(ctx, id); err != nil {
			return nil, mapError(err)
		}
		return StatusResponse{Status: "deleted"}, nil
	case "select_note":
		var req SelectParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := h.workspace.SelectNote(ctx, emptyAsNil(req.ID)); err != nil {
			return nil, mapError(err)
		}
		return StatusResponse{Status: "selected"}, nil
	case "search_notes":
		var req SearchNotesParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		found := h.workspace.Search(ctx, req.Query)
		state := h.workspace.Snapshot()
		return ListNotesResponse{
			Notes:           summarizeAll(found),
			CurrentNoteID:   state.CurrentNoteID,
			CurrentFolderID: state.CurrentFolderID,
			SearchQuery:     state.SearchQuery,
		}, nil
	case "move_note":
		var req MoveNoteParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if req.NoteID == "" {
			return nil, invalidInput("note_id is required")
		}
		n, err := h.workspace.MoveNote(ctx, req.NoteID, emptyAsNil(req.FolderID))
		if err != nil {
			return nil, mapError(err)
		}
		return summarize(n), nil
	case "list_folders":
		state := h.workspace.Snapshot()
		return ListFoldersResponse{
			Tree:            h.workspace.Tree(),
			CurrentFolderID: state.CurrentFolderID,
		}, nil
	case "create_folder":
		var req CreateFolderParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		f, err := h.workspace.CreateFolder(ctx, workspace.CreateFolderRequest{
			Name:     req.Name,
			ParentID: emptyAsNil(req.ParentID),
			AtRoot:   req.AtRoot,
		})
		if err != nil {
			return nil, mapError(err)
		}
		return f, nil
	case "rename_folder":
		var req RenameFolderParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if req.ID == "" {
			return nil, invalidInput("id is required")
		}
		f, err := h.workspace.RenameFolder(ctx, req.ID, req.Name)
		if err != nil {
			return nil, mapError(err)
		}
		return f, nil
	case "move_folder":
		var req MoveFolderParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if req.ID == "" {
			return nil, invalidInput("id is required")
		}
		f, err := h.workspace.MoveFolder(ctx, req.ID, emptyAsNil(req.ParentID))
		if err != nil {
			return nil, mapError(err)
		}
		return f, nil
	case "delete_folder":
		id, err := requireID(params)
		if err != nil {
			return nil, err
		}
		if err := h.workspace.DeleteFolder(ctx, id); err != nil {
			return nil, mapError(err)
		}
		return StatusResponse{Status: "deleted"}, nil
	case "select_folder":
		var req SelectParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := h.workspace.SelectFolder(ctx, emptyAsNil(req.ID)); err != nil {
			return nil, mapError(err)
		}
		return StatusResponse{Status: "selected"}, nil
	case "render_markdown":
		var req RenderMarkdownParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.workspace.Render(req.Markdown), nil
	case "get_preferences":
		return h.workspace.Preferences(), nil
	case "set_preferences":
		var req SetPreferencesParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		prefs := h.workspace.Preferences()
		if req.Theme != nil {
			prefs.Theme = *req.Theme
		}
		if req.MarkdownStyle != nil {
			prefs.MarkdownStyle = *req.MarkdownStyle
		}
		if req.SplitPosition != nil {
			prefs.SplitPosition = *req.SplitPosition
		}
		if req.SidebarCollapsed != nil {
			prefs.SidebarCollapsed = *req.SidebarCollapsed
		}
		saved, err := h.workspace.SetPreferences(ctx, prefs)
		if err != nil {
			return nil, mapError(err)
		}
		return saved, nil
	case "get_recent_activity":
		var req GetRecentActivityParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if h.activity == nil {
			return []ActivityEntryResponse{}, nil
		}
		limit := req.Limit
		if limit <= 0 {
			limit = defaultActivityLimit
		}
		entries, err := h.activity.GetRecentActivity(ctx, activity.ListActivityOptions{
			ActivityType: req.Type,
			SubjectID:    req.SubjectID,
			Limit:        limit,
			Offset:       req.Offset,
		})
		if err != nil {
			return nil, mapError(err)
		}
		resp := make([]ActivityEntryResponse, 0, len(entries))
		for _, entry := range entries {
			resp = append(resp, ActivityEntryResponse{
				Timestamp: entry.CreatedAt,
				Type:      entry.ActivityType,
				SubjectID: entry.SubjectID,
				Summary:   entry.Summary,
			})
		}
		return resp, nil
	default:
		return nil, fmt.Errorf("unknown method: %s", method)
	}
}

func (h *Handler) noteResponse(n notes.Note) NoteResponse {
	res := h.workspace.Render(n.Content)
	return NoteResponse{Note: n, HTML: res.HTML, Outline: res.Outline}
}

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 || string(params) == "null" {
		return nil
	}
	if err := json.Unmarshal(params, out); err != nil {
		return invalidInput("malformed arguments: %v", err)
	}
	return nil
}

func decodeUpdate(params json.RawMessage) (workspace.UpdateNoteRequest, error) {
	var req UpdateNoteParams
	if err := decodeParams(params, &req); err != nil {
		return workspace.UpdateNoteRequest{}, err
	}
	if req.ID == "" {
		return workspace.UpdateNoteRequest{}, invalidInput("id is required")
	}
	return workspace.UpdateNoteRequest{ID: req.ID, Title: req.Title, Content: req.Content}, nil
}

func requireID(params json.RawMessage) (string, error) {
	var req IDParams
	if err := decodeParams(params, &req); err != nil {
		return "", err
	}
	if req.ID == "" {
		return "", invalidInput("id is required")
	}
	return req.ID, nil
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}

// emptyAsNil treats "" like null so clients can clear a reference either way.
func emptyAsNil(id *string) *string {
	if id == nil || *id == "" {
		return nil
	}
	return id
}
