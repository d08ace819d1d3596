package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/marknote/marknote/internal/domain/notes"
	"github.com/marknote/marknote/internal/repository"
)

// Adapter moves the notes and folders collections between a Store and slot
// storage.
type Adapter struct {
	slots  repository.SlotRepository
	logger *slog.Logger
}

// NewAdapter creates a new Adapter.
func NewAdapter(slots repository.SlotRepository, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{slots: slots, logger: logger}
}

// Load reads the persisted collections. Missing or undecodable slots yield
// empty collections; only storage failures are returned.
func (a *Adapter) Load(ctx context.Context) (notes.State, error) {
	var state notes.State

	list, err := loadList[notes.Note](ctx, a, KeyNotes)
	if err != nil {
		return notes.State{}, err
	}
	state.Notes = list

	folders, err := loadList[notes.Folder](ctx, a, KeyFolders)
	if err != nil {
		return notes.State{}, err
	}
	state.Folders = folders

	return state, nil
}

// SaveNotes writes the notes collection.
func (a *Adapter) SaveNotes(ctx context.Context, list []notes.Note) error {
	return saveList(ctx, a, KeyNotes, list)
}

// SaveFolders writes the folders collection.
func (a *Adapter) SaveFolders(ctx context.Context, list []notes.Folder) error {
	return saveList(ctx, a, KeyFolders, list)
}

// Observer returns a store observer that writes through the collections an
// action can change. Write failures are logged; the in-memory state stays
// authoritative until the next successful write.
func (a *Adapter) Observer(ctx context.Context) notes.Observer {
	return func(act notes.Action, next notes.State) {
		kind := act.Kind()
		if kind.AffectsNotes() {
			if err := a.SaveNotes(ctx, next.Notes); err != nil {
				a.logger.Error("failed to persist notes", "kind", kind, "error", err)
			}
		}
		if kind.AffectsFolders() {
			if err := a.SaveFolders(ctx, next.Folders); err != nil {
				a.logger.Error("failed to persist folders", "kind", kind, "error", err)
			}
		}
	}
}

func loadList[T any](ctx context.Context, a *Adapter, key string) ([]T, error) {
	raw, err := a.slots.Get(ctx, key)
	if errors.Is(err, repository.ErrNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", key, err)
	}

	var list []T
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		a.logger.Warn("discarding undecodable slot", "key", key, "error", err)
		return []T{}, nil
	}
	if list == nil {
		list = []T{}
	}
	return list, nil
}

func saveList[T any](ctx context.Context, a *Adapter, key string, list []T) error {
	if list == nil {
		list = []T{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	if err := a.slots.Put(ctx, key, string(data)); err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}
	return nil
}
