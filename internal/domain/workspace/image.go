package workspace

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/marknote/marknote/internal/domain/notes"
)

// MaxImageSize bounds images embedded into note content.
const MaxImageSize = 1 << 20

// InsertImageRequest describes an image to append to a note as a data URL.
type InsertImageRequest struct {
	NoteID string
	Name   string
	// MediaType is sniffed from Data when empty.
	MediaType string
	Data      []byte
}

// InsertImage appends an inline image to the note's content.
func (s *Service) InsertImage(ctx context.Context, req InsertImageRequest) (notes.Note, error) {
	if len(req.Data) == 0 {
		return notes.Note{}, ErrInvalidInput
	}
	if len(req.Data) > MaxImageSize {
		return notes.Note{}, ErrImageTooLarge
	}
	mediaType := req.MediaType
	if mediaType == "" {
		mediaType = http.DetectContentType(req.Data)
	}
	if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = mediaType[:i]
	}
	if !strings.HasPrefix(mediaType, "image/") {
		return notes.Note{}, fmt.Errorf("%w: %s is not an image", ErrInvalidInput, mediaType)
	}

	return s.appendContent(req.NoteID, fmt.Sprintf("\n![%s](data:%s;base64,%s)\n", req.Name, mediaType, base64.StdEncoding.EncodeToString(req.Data)))
}

// appendContent adds suffix to a note's content, on top of any pending
// autosave edit.
func (s *Service) appendContent(noteID, suffix string) (notes.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := notes.NoteByID(s.store.State(), noteID)
	if !ok {
		return notes.Note{}, ErrNoteNotFound
	}

	update := UpdateNoteRequest{ID: noteID}
	if pending, ok := s.edits.Take(noteID); ok {
		update = mergeUpdates(pending, update)
	}
	content := current.Content
	if update.Content != nil {
		content = *update.Content
	}
	content += suffix
	update.Content = &content

	return s.applyUpdate(update), nil
}
