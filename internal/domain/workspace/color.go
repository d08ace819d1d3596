package workspace

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/marknote/marknote/internal/domain/notes"
	"github.com/marknote/marknote/internal/markup"
)

// DefaultColorText is the placeholder inserted when no text is given.
const DefaultColorText = "彩色文字"

// TextColors is the editor's color palette.
var TextColors = []string{"#ff6b6b", "#ffd93d", "#6bcb77", "#4d96ff"}

// InsertColorRequest describes colored text to append to a note.
type InsertColorRequest struct {
	NoteID string
	Color  string
	// Text defaults to DefaultColorText.
	Text string
}

// InsertColor appends a <span style="color: ..."> line to the note's content.
func (s *Service) InsertColor(ctx context.Context, req InsertColorRequest) (notes.Note, error) {
	color := strings.TrimSpace(req.Color)
	if !markup.ValidTextColor(color) {
		return notes.Note{}, fmt.Errorf("%w: unsupported color %q", ErrInvalidInput, req.Color)
	}
	text := req.Text
	if text == "" {
		text = DefaultColorText
	}
	if strings.ContainsAny(text, "\r\n") {
		return notes.Note{}, fmt.Errorf("%w: colored text must be a single line", ErrInvalidInput)
	}

	return s.appendContent(req.NoteID, fmt.Sprintf("\n<span style=\"color: %s\">%s</span>\n", color, html.EscapeString(text)))
}
