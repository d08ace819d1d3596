package persistence

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/marknote/marknote/internal/repository"
)

// Theme is the colour scheme of the client.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeSepia Theme = "sepia"
)

// MarkdownStyle selects the preview stylesheet.
type MarkdownStyle string

const (
	StyleStandard MarkdownStyle = "standard"
	StyleGitHub   MarkdownStyle = "github"
)

// Split position bounds, in percent of the editor width.
const (
	DefaultSplitPosition = 50.0
	MinSplitPosition     = 20.0
	MaxSplitPosition     = 80.0
)

// ErrInvalidPreference is returned when a preference value is out of range.
var ErrInvalidPreference = errors.New("invalid preference")

// Preferences are the scalar client settings.
type Preferences struct {
	Theme            Theme         `json:"theme"`
	MarkdownStyle    MarkdownStyle `json:"markdownStyle"`
	SplitPosition    float64       `json:"splitPosition"`
	SidebarCollapsed bool          `json:"sidebarCollapsed"`
}

// DefaultPreferences returns the settings used when nothing is stored.
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:         ThemeLight,
		MarkdownStyle: StyleStandard,
		SplitPosition: DefaultSplitPosition,
	}
}

// Validate reports whether p holds only known values.
func (p Preferences) Validate() error {
	switch p.Theme {
	case ThemeLight, ThemeDark, ThemeSepia:
	default:
		return fmt.Errorf("%w: theme %q", ErrInvalidPreference, p.Theme)
	}
	switch p.MarkdownStyle {
	case StyleStandard, StyleGitHub:
	default:
		return fmt.Errorf("%w: markdown style %q", ErrInvalidPreference, p.MarkdownStyle)
	}
	return nil
}

// ClampSplit bounds a split position to the allowed range.
func ClampSplit(v float64) float64 {
	return max(MinSplitPosition, min(MaxSplitPosition, v))
}

// LoadPreferences reads every preference slot once. Missing values fall back
// to their defaults; unrecognised values are deleted from storage and fall back
// too.
func (a *Adapter) LoadPreferences(ctx context.Context) (Preferences, error) {
	prefs := DefaultPreferences()

	raw, ok, err := a.read(ctx, KeyTheme)
	if err != nil {
		return prefs, err
	}
	if ok {
		switch t := Theme(raw); t {
		case ThemeLight, ThemeDark, ThemeSepia:
			prefs.Theme = t
		default:
			a.discard(ctx, KeyTheme, raw)
		}
	}

	raw, ok, err = a.read(ctx, KeyMarkdownStyle)
	if err != nil {
		return prefs, err
	}
	if ok {
		switch s := MarkdownStyle(raw); s {
		case StyleStandard, StyleGitHub:
			prefs.MarkdownStyle = s
		default:
			a.discard(ctx, KeyMarkdownStyle, raw)
		}
	}

	raw, ok, err = a.read(ctx, KeySplitPosition)
	if err != nil {
		return prefs, err
	}
	if ok {
		if v, perr := strconv.ParseFloat(raw, 64); perr == nil {
			prefs.SplitPosition = ClampSplit(v)
		} else {
			a.discard(ctx, KeySplitPosition, raw)
		}
	}

	raw, ok, err = a.read(ctx, KeySidebarCollapsed)
	if err != nil {
		return prefs, err
	}
	if ok {
		if v, perr := strconv.ParseBool(raw); perr == nil {
			prefs.SidebarCollapsed = v
		} else {
			a.discard(ctx, KeySidebarCollapsed, raw)
		}
	}

	return prefs, nil
}

// discard removes a slot holding an unusable value. Failures are logged only;
// the default is used either way.
func (a *Adapter) discard(ctx context.Context, key, raw string) {
	a.logger.Warn("discarding stored preference", "key", key, "value", raw)
	if err := a.slots.Delete(ctx, key); err != nil {
		a.logger.Error("failed to delete preference slot", "key", key, "error", err)
	}
}

// SavePreferences validates p, clamps the split position and writes every
// slot.
func (a *Adapter) SavePreferences(ctx context.Context, p Preferences) (Preferences, error) {
	if err := p.Validate(); err != nil {
		return Preferences{}, err
	}
	p.SplitPosition = ClampSplit(p.SplitPosition)

	writes := []struct{ key, value string }{
		{KeyTheme, string(p.Theme)},
		{KeyMarkdownStyle, string(p.MarkdownStyle)},
		{KeySplitPosition, strconv.FormatFloat(p.SplitPosition, 'f', -1, 64)},
		{KeySidebarCollapsed, strconv.FormatBool(p.SidebarCollapsed)},
	}
	for _, w := range writes {
		if err := a.slots.Put(ctx, w.key, w.value); err != nil {
			return Preferences{}, fmt.Errorf("saving %s: %w", w.key, err)
		}
	}
	return p, nil
}

func (a *Adapter) read(ctx context.Context, key string) (string, bool, error) {
	raw, err := a.slots.Get(ctx, key)
	if errors.Is(err, repository.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("loading %s: %w", key, err)
	}
	return raw, true, nil
}
