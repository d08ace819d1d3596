package activity

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/marknote/marknote/internal/domain/notes"
)

// Service handles activity log operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new activity service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// LogActivity logs an activity entry with the current timestamp if missing.
func (s *Service) LogActivity(ctx context.Context, entry *ActivityEntry) error {
	if entry == nil || entry.ActivityType == "" {
		return ErrInvalidInput
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now()
	}
	if err := s.repo.Log(ctx, entry); err != nil {
		return fmt.Errorf("logging activity: %w", err)
	}
	return nil
}

// GetRecentActivity lists activity entries with filtering.
func (s *Service) GetRecentActivity(ctx context.Context, opts ListActivityOptions) ([]ActivityEntry, error) {
	return s.repo.List(ctx, opts)
}

// Observer returns a store observer that journals every dispatched action.
// Search-box keystrokes are not journaled. Failures are logged and dropped so
// they never affect the dispatch.
func (s *Service) Observer(ctx context.Context) notes.Observer {
	return func(a notes.Action, _ notes.State) {
		if a.Kind() == notes.KindSetSearchQuery {
			return
		}
		entry := EntryFor(a)
		if err := s.LogActivity(ctx, &entry); err != nil {
			s.logger.Warn("failed to journal action", "kind", a.Kind(), "error", err)
		}
	}
}

// EntryFor describes an action as an activity entry.
func EntryFor(a notes.Action) ActivityEntry {
	entry := ActivityEntry{ActivityType: ActivityType(a.Kind())}
	subject := notes.SubjectID(a)
	if subject != "" {
		entry.SubjectID = &subject
	}

	switch act := a.(type) {
	case notes.SetNotes:
		entry.Summary = fmt.Sprintf("loaded %d notes", len(act.Notes))
	case notes.SetFolders:
		entry.Summary = fmt.Sprintf("loaded %d folders", len(act.Folders))
	case notes.AddNote:
		entry.Summary = fmt.Sprintf("created note %q", notes.DisplayTitle(act.Note))
	case notes.UpdateNote:
		entry.Summary = fmt.Sprintf("updated note %q", notes.DisplayTitle(act.Note))
	case notes.AddFolder:
		entry.Summary = fmt.Sprintf("created folder %q", act.Folder.Name)
	case notes.UpdateFolder:
		entry.Summary = fmt.Sprintf("updated folder %q", act.Folder.Name)
	case notes.MoveNoteToFolder:
		entry.Summary = fmt.Sprintf("moved note %s to %s", act.NoteID, folderLabel(act.FolderID))
	default:
		if subject != "" {
			entry.Summary = fmt.Sprintf("%s %s", a.Kind(), subject)
		} else {
			entry.Summary = string(a.Kind())
		}
	}
	return entry
}

func folderLabel(id *string) string {
	if id == nil {
		return "root"
	}
	return "folder " + *id
}
