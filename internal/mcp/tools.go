package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/marknote/marknote/internal/domain/workspace"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// ToolDefinition describes a tool and its JSON input schema.
type ToolDefinition struct {
	Name        string
	Description string
	InputSchema map[string]any
}

func object(properties map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func prop(typ, description string) map[string]any {
	return map[string]any{"type": typ, "description": description}
}

func nullableString(description string) map[string]any {
	return map[string]any{"type": []string{"string", "null"}, "description": description}
}

func enum(description string, values ...string) map[string]any {
	return map[string]any{"type": "string", "description": description, "enum": values}
}

// buildToolCatalog returns all available MCP tools
func buildToolCatalog() []ToolDefinition {
	return []ToolDefinition{
		// Notes
		{
			Name:        "list_notes",
			Description: "List notes in the current folder matching the current search query, most recently updated first",
			InputSchema: object(map[string]any{
				"all": prop("boolean", "List every note regardless of folder and search"),
			}),
		},
		{
			Name:        "get_note",
			Description: "Get a note with its rendered HTML and heading outline",
			InputSchema: object(map[string]any{
				"id": prop("string", "Note ID (omit for the current note)"),
			}),
		},
		{
			Name:        "create_note",
			Description: "Create a note and select it. It lands in the current folder unless folder_id or at_root is given",
			InputSchema: object(map[string]any{
				"title":     prop("string", "Note title (defaults to \"Untitled note\")"),
				"content":   prop("string", "Markdown body"),
				"folder_id": prop("string", "Folder to create the note in"),
				"at_root":   prop("boolean", "Create the note outside any folder"),
			}),
		},
		{
			Name:        "update_note",
			Description: "Replace a note's title and/or content immediately",
			InputSchema: object(map[string]any{
				"id":      prop("string", "Note ID"),
				"title":   prop("string", "New title"),
				"content": prop("string", "New Markdown body"),
			}, "id"),
		},
		{
			Name:        "edit_note",
			Description: "Record a keystroke-level edit; edits to a note are saved together once they pause",
			InputSchema: object(map[string]any{
				"id":      prop("string", "Note ID"),
				"title":   prop("string", "New title"),
				"content": prop("string", "New Markdown body"),
			}, "id"),
		},
		{
			Name:        "insert_image",
			Description: "Append an image (at most 1 MiB) to a note as an inline data URL",
			InputSchema: object(map[string]any{
				"note_id":    prop("string", "Note ID"),
				"name":       prop("string", "Alt text, usually the file name"),
				"media_type": prop("string", "MIME type such as image/png (sniffed when omitted)"),
				"data":       prop("string", "Base64-encoded image bytes"),
			}, "note_id", "data"),
		},
		{
			Name:        "insert_color",
			Description: "Append a line of colored text to a note as <span style=\"color: ...\">",
			InputSchema: object(map[string]any{
				"note_id": prop("string", "Note ID"),
				"color":   prop("string", "#rgb, #rrggbb or a color name; the editor palette is "+strings.Join(workspace.TextColors, ", ")),
				"text":    prop("string", "Single line of text (defaults to "+workspace.DefaultColorText+")"),
			}, "note_id", "color"),
		},
		{
			Name:        "delete_note",
			Description: "Delete a note. If it was selected, the first remaining note becomes selected",
			InputSchema: object(map[string]any{
				"id": prop("string", "Note ID"),
			}, "id"),
		},
		{
			Name:        "select_note",
			Description: "Select a note, or clear the selection with null",
			InputSchema: object(map[string]any{
				"id": nullableString("Note ID, or null"),
			}),
		},
		{
			Name:        "search_notes",
			Description: "Set the search query (case-insensitive, title or content) and return the matching notes",
			InputSchema: object(map[string]any{
				"query": prop("string", "Search text; empty clears the search"),
			}, "query"),
		},
		{
			Name:        "move_note",
			Description: "Move a note into a folder, or to the root with a null folder_id",
			InputSchema: object(map[string]any{
				"note_id":   prop("string", "Note ID"),
				"folder_id": nullableString("Target folder ID, or null for the root"),
			}, "note_id"),
		},

		// Folders
		{
			Name:        "list_folders",
			Description: "Get the folder tree, children sorted by name",
			InputSchema: object(map[string]any{}),
		},
		{
			Name:        "create_folder",
			Description: "Create a folder. It nests under the current folder unless parent_id or at_root is given",
			InputSchema: object(map[string]any{
				"name":      prop("string", "Folder name (surrounding whitespace is trimmed)"),
				"parent_id": prop("string", "Parent folder ID"),
				"at_root":   prop("boolean", "Create the folder at the root"),
			}, "name"),
		},
		{
			Name:        "rename_folder",
			Description: "Rename a folder",
			InputSchema: object(map[string]any{
				"id":   prop("string", "Folder ID"),
				"name": prop("string", "New name"),
			}, "id", "name"),
		},
		{
			Name:        "move_folder",
			Description: "Move a folder under another folder, or to the root with a null parent_id",
			InputSchema: object(map[string]any{
				"id":        prop("string", "Folder ID"),
				"parent_id": nullableString("New parent folder ID, or null for the root"),
			}, "id"),
		},
		{
			Name:        "delete_folder",
			Description: "Delete a folder and all of its subfolders. Their notes move to the root",
			InputSchema: object(map[string]any{
				"id": prop("string", "Folder ID"),
			}, "id"),
		},
		{
			Name:        "select_folder",
			Description: "Scope list_notes to a folder, or show all notes with null",
			InputSchema: object(map[string]any{
				"id": nullableString("Folder ID, or null"),
			}),
		},

		// Rendering
		{
			Name:        "render_markdown",
			Description: "Render Markdown to HTML and extract its heading outline",
			InputSchema: object(map[string]any{
				"markdown": prop("string", "Markdown source"),
			}, "markdown"),
		},

		// Preferences
		{
			Name:        "get_preferences",
			Description: "Get the editor preferences",
			InputSchema: object(map[string]any{}),
		},
		{
			Name:        "set_preferences",
			Description: "Change one or more editor preferences",
			InputSchema: object(map[string]any{
				"theme":             enum("Colour theme", "light", "dark", "sepia"),
				"markdown_style":    enum("Preview stylesheet", "standard", "github"),
				"split_position":    prop("number", "Editor width in percent, clamped to 20..80"),
				"sidebar_collapsed": prop("boolean", "Whether the sidebar is collapsed"),
			}),
		},

		// Activity
		{
			Name:        "get_recent_activity",
			Description: "List recent workspace changes, newest first",
			InputSchema: object(map[string]any{
				"type":       prop("string", "Filter by action kind, e.g. ADD_NOTE or DELETE_FOLDER"),
				"subject_id": prop("string", "Filter by note or folder ID"),
				"limit":      prop("integer", "Maximum number of entries (default 20)"),
				"offset":     prop("integer", "Offset for pagination"),
			}),
		},
	}
}

// registerTools adds every catalog tool to server, routed through h.
func registerTools(server *sdkmcp.Server, h *Handler, logger *slog.Logger) {
	for _, def := range buildToolCatalog() {
		name := def.Name
		server.AddTool(&sdkmcp.Tool{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.InputSchema,
		}, func(ctx context.Context, req *sdkmcp.CallToolRequest) (*sdkmcp.CallToolResult, error) {
			var args json.RawMessage
			if req != nil && req.Params != nil {
				args = req.Params.Arguments
			}
			result, err := h.Handle(ctx, name, args)
			if err != nil {
				return errorResult(logger, name, err), nil
			}
			return jsonResult(result)
		})
	}
}

func jsonResult(v any) (*sdkmcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode tool result: %w", err)
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}, nil
}

// errorResult reports a failed call in-band so the model can see and react to
// it.
func errorResult(logger *slog.Logger, tool string, err error) *sdkmcp.CallToolResult {
	apiErr := MapError(err)
	if apiErr == nil {
		if logger != nil {
			logger.Error("tool failed", "tool", tool, "error", err)
		}
		apiErr = &APIError{Code: "INTERNAL", Message: err.Error()}
	}
	data, _ := json.Marshal(apiErr)
	return &sdkmcp.CallToolResult{
		IsError: true,
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}
}
