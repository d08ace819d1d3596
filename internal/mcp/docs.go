package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `marknote keeps Markdown notes organised in a folder tree.

Mental model:
- Note: id, title, Markdown content, optional folder, createdAt/updatedAt (ms since epoch).
- Folder: id, name, optional parent. Deleting a folder deletes its whole subtree; notes inside move to the root.
- Selection: one current note and one current folder. The current folder plus the search query scope list_notes.

Typical workflow:
1) Orient: list_folders, then list_notes (or search_notes).
2) Read: get_note returns the note with rendered HTML and its heading outline.
3) Write: create_note, then update_note for whole-field replacement, or edit_note while typing (edits are saved once they pause).
4) Organise: create_folder, move_note, move_folder, rename_folder, delete_folder.

Docs:
- marknote://docs/index
- marknote://docs/markdown
- marknote://styles/highlight.css (stylesheet for highlighted code blocks)
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "marknote://docs/index",
		Name:        "docs_index",
		Title:       "marknote docs index",
		Description: "Entry point: what the tools do and which doc to read next.",
		Content: `# marknote: docs index

## Tools by task

| Task | Tools |
|---|---|
| Browse | list_notes, search_notes, list_folders, get_note |
| Write | create_note, update_note, edit_note, insert_image, insert_color |
| Organise | move_note, create_folder, rename_folder, move_folder, delete_folder |
| Select | select_note, select_folder |
| Preview | render_markdown, get_note |
| Settings | get_preferences, set_preferences |
| History | get_recent_activity |

## Rules worth knowing

- New notes and folders land in the current folder unless a folder is given.
- A note with an empty title is listed as "Untitled note".
- list_notes is sorted by last update, newest first.
- Moving a folder under itself or one of its descendants fails with FOLDER_CYCLE.
- Errors come back as tool results with isError set and a JSON body
  {"code", "message", "recovery_hint"}. Codes: NOTE_NOT_FOUND, FOLDER_NOT_FOUND,
  FOLDER_CYCLE, INVALID_INPUT, IMAGE_TOO_LARGE.

Read marknote://docs/markdown for the supported syntax.
`,
	},
	{
		URI:         "marknote://docs/markdown",
		Name:        "docs_markdown",
		Title:       "Supported Markdown",
		Description: "Markdown dialect, heading anchors and code highlighting used by the preview.",
		Content: `# Supported Markdown

CommonMark plus GitHub extensions:

- Tables, ~~strikethrough~~, task lists (- [ ] / - [x]) and bare URL autolinks.
- A single newline inside a paragraph is a line break.
- Fenced code blocks are syntax highlighted when the language is known,
  e.g. a go or python fence. Unknown languages render as plain code.
- Inline code is passed through exactly as typed.
- Raw HTML is not rendered, except <span style="color: X">...</span> where X
  is #rgb, #rrggbb or a color name and the closing tag is in the same
  paragraph (insert_color produces these).
- Images may use data:image/... URLs (insert_image produces these).

## Headings and the outline

Every heading gets an id derived from its text: lower-cased, with each run of
characters other than ASCII letters, digits, underscore or CJK ideographs replaced by
a single "-". "## Hello, World!" becomes "hello-world-". Duplicate headings get
the same id. The outline lists {id, text, level} for every heading in document
order.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}

// registerStyleSheet serves the code highlighting CSS matching the renderer's
// configured style.
func registerStyleSheet(server *sdkmcp.Server, ws WorkspaceService) {
	const uri = "marknote://styles/highlight.css"
	server.AddResource(&sdkmcp.Resource{
		URI:         uri,
		Name:        "highlight_css",
		Title:       "Code highlighting stylesheet",
		Description: "CSS classes used by highlighted code blocks in rendered HTML.",
		MIMEType:    "text/css",
	}, func(_ context.Context, _ *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
		css, err := ws.StyleSheet()
		if err != nil {
			return nil, err
		}
		return &sdkmcp.ReadResourceResult{
			Contents: []*sdkmcp.ResourceContents{{
				URI:      uri,
				MIMEType: "text/css",
				Text:     css,
			}},
		}, nil
	})
}
