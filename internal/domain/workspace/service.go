package workspace

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/marknote/marknote/internal/autosave"
	"github.com/marknote/marknote/internal/domain/activity"
	"github.com/marknote/marknote/internal/domain/notes"
	"github.com/marknote/marknote/internal/markup"
	"github.com/marknote/marknote/internal/persistence"
)

// DefaultAutosaveDelay is the quiescence period before a burst of edits is
// committed.
const DefaultAutosaveDelay = 500 * time.Millisecond

// Options configures a Service. Every field is optional.
type Options struct {
	// Persistence loads and saves state. Nil keeps everything in memory.
	Persistence *persistence.Adapter
	// Journal receives every dispatched action once hydrated.
	Journal       *activity.Service
	Renderer      *markup.Renderer
	Clock         notes.Clock
	NewID         func() string
	AutosaveDelay time.Duration
	// AfterFunc replaces the autosave timer source.
	AfterFunc autosave.AfterFunc
}

// Service is the single writer in front of the notes Store. It assigns ids and
// timestamps, validates input and keeps multi-step operations atomic.
type Service struct {
	mu       sync.Mutex
	store    *notes.Store
	persist  *persistence.Adapter
	journal  *activity.Service
	renderer *markup.Renderer
	clock    notes.Clock
	newID    func() string
	edits    *autosave.Debouncer[UpdateNoteRequest]
	logger   *slog.Logger

	prefs    persistence.Preferences
	hydrated bool
}

// NewService creates a new workspace service with an empty state.
func NewService(opts Options, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.Renderer == nil {
		opts.Renderer = markup.New(markup.DefaultConfig())
	}
	if opts.AutosaveDelay <= 0 {
		opts.AutosaveDelay = DefaultAutosaveDelay
	}

	s := &Service{
		store:    notes.NewStore(notes.NewReducer(opts.Clock), notes.State{Notes: []notes.Note{}, Folders: []notes.Folder{}}),
		persist:  opts.Persistence,
		journal:  opts.Journal,
		renderer: opts.Renderer,
		clock:    opts.Clock,
		newID:    opts.NewID,
		logger:   logger,
		prefs:    persistence.DefaultPreferences(),
	}
	s.edits = autosave.New(opts.AutosaveDelay, s.commitEdit, mergeUpdates).WithLocker(&s.mu)
	if opts.AfterFunc != nil {
		s.edits.WithAfterFunc(opts.AfterFunc)
	}
	return s
}

// Hydrate loads persisted state, selects the first note and starts write-through
// persistence and journaling. ctx is kept, without its cancellation, for those
// later writes. Calling Hydrate again is a no-op.
func (s *Service) Hydrate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hydrated {
		return nil
	}

	if s.persist != nil {
		loaded, err := s.persist.Load(ctx)
		if err != nil {
			return err
		}
		prefs, err := s.persist.LoadPreferences(ctx)
		if err != nil {
			return err
		}
		s.prefs = prefs

		s.store.Dispatch(notes.SetNotes{Notes: loaded.Notes})
		s.store.Dispatch(notes.SetFolders{Folders: loaded.Folders})
		if len(loaded.Notes) > 0 {
			s.store.Dispatch(notes.SetCurrentNote{ID: notes.Ref(loaded.Notes[0].ID)})
		}
		s.logger.Info("workspace loaded", "notes", len(loaded.Notes), "folders", len(loaded.Folders))
	}

	bg := context.WithoutCancel(ctx)
	if s.persist != nil {
		s.store.Subscribe(s.persist.Observer(bg))
	}
	if s.journal != nil {
		s.store.Subscribe(s.journal.Observer(bg))
	}
	s.hydrated = true
	return nil
}

// Close commits pending edits and stops autosave. It must not be called with
// s.mu held.
func (s *Service) Close() {
	s.edits.Close()
}

// FlushEdits commits pending edits immediately.
func (s *Service) FlushEdits() {
	s.edits.Flush()
}

// Snapshot returns the current state.
func (s *Service) Snapshot() notes.State {
	return s.store.State()
}

// CurrentNote returns the selected note, if any.
func (s *Service) CurrentNote() (notes.Note, bool) {
	return notes.CurrentNote(s.store.State())
}

// ListNotes returns the notes visible under the current folder and search
// query, most recently updated first.
func (s *Service) ListNotes() []notes.Note {
	return notes.FilteredNotes(s.store.State())
}

// Note returns a note by id.
func (s *Service) Note(id string) (notes.Note, error) {
	n, ok := notes.NoteByID(s.store.State(), id)
	if !ok {
		return notes.Note{}, ErrNoteNotFound
	}
	return n, nil
}

// Tree returns the folder forest.
func (s *Service) Tree() []notes.FolderNode {
	return notes.FolderTree(s.store.State())
}

// Render renders arbitrary Markdown.
func (s *Service) Render(src string) markup.Result {
	return s.renderer.Render(src)
}

// RenderNote renders a note's content.
func (s *Service) RenderNote(id string) (markup.Result, error) {
	n, err := s.Note(id)
	if err != nil {
		return markup.Result{}, err
	}
	return s.renderer.Render(n.Content), nil
}

// StyleSheet returns the CSS for highlighted code blocks.
func (s *Service) StyleSheet() (string, error) {
	return s.renderer.StyleSheet()
}

// Preferences returns the scalar client settings.
func (s *Service) Preferences() persistence.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs
}

// SetPreferences validates, clamps and stores the client settings.
func (s *Service) SetPreferences(ctx context.Context, p persistence.Preferences) (persistence.Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.persist == nil {
		if err := p.Validate(); err != nil {
			return persistence.Preferences{}, err
		}
		p.SplitPosition = persistence.ClampSplit(p.SplitPosition)
		s.prefs = p
		return p, nil
	}

	saved, err := s.persist.SavePreferences(ctx, p)
	if err != nil {
		return persistence.Preferences{}, err
	}
	s.prefs = saved
	return saved, nil
}

func (s *Service) nowMillis() int64 {
	return s.clock().UnixMilli()
}
