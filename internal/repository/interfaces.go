package repository

import (
	"context"

	"github.com/marknote/marknote/internal/domain/activity"
)

// SlotRepository is a durable key-value store of string slots. It plays the
// part browser local storage plays for the web client.
type SlotRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// ActivityRepository manages activity log persistence
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.ActivityEntry) error
	List(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}
