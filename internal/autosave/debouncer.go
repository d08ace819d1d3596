// Package autosave coalesces bursts of edits into single commits.
package autosave

import (
	"errors"
	"slices"
	"sync"
	"time"
)

// ErrClosed is returned by Schedule after Close.
var ErrClosed = errors.New("autosave: debouncer closed")

// Timer is the part of *time.Timer the debouncer needs.
type Timer interface {
	Stop() bool
}

// AfterFunc starts a timer that calls f once d has elapsed.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

type entry[T any] struct {
	value T
	timer Timer
	seq   uint64
}

// Debouncer holds at most one pending value per key. A value is committed
// once delay passes without another Schedule for the same key.
//
// Commits run with the commit lock held, and the pending value is claimed only
// after that lock is acquired. A caller that takes the value under the same
// lock therefore never races a commit of it.
type Debouncer[T any] struct {
	mu        sync.Mutex
	commitMu  sync.Mutex
	locker    sync.Locker
	delay     time.Duration
	commit    func(key string, value T)
	merge     func(prev, next T) T
	afterFunc AfterFunc
	pending   map[string]*entry[T]
	seq       uint64
	closed    bool
}

// New creates a Debouncer. merge combines a still-pending value with a newer
// one; nil means the newer value replaces the older.
func New[T any](delay time.Duration, commit func(key string, value T), merge func(prev, next T) T) *Debouncer[T] {
	d := &Debouncer[T]{
		delay:     delay,
		commit:    commit,
		merge:     merge,
		afterFunc: realAfterFunc,
		pending:   make(map[string]*entry[T]),
	}
	d.locker = &d.commitMu
	return d
}

// WithAfterFunc replaces the timer source. Call before the first Schedule.
func (d *Debouncer[T]) WithAfterFunc(f AfterFunc) *Debouncer[T] {
	d.afterFunc = f
	return d
}

// WithLocker makes commits run under l instead of a private mutex. commit is
// then called with l held and must not acquire it. Call before the first
// Schedule.
func (d *Debouncer[T]) WithLocker(l sync.Locker) *Debouncer[T] {
	d.locker = l
	return d
}

// Schedule records value for key and restarts the key's quiescence timer.
func (d *Debouncer[T]) Schedule(key string, value T) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrClosed
	}

	if p, ok := d.pending[key]; ok {
		p.timer.Stop()
		if d.merge != nil {
			value = d.merge(p.value, value)
		}
	}

	d.seq++
	seq := d.seq
	d.pending[key] = &entry[T]{
		value: value,
		seq:   seq,
		timer: d.afterFunc(d.delay, func() { d.fire(key, seq) }),
	}
	return nil
}

// Cancel drops the pending value for key without committing it.
func (d *Debouncer[T]) Cancel(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if p, ok := d.pending[key]; ok {
		p.timer.Stop()
		delete(d.pending, key)
	}
}

// Take removes and returns the pending value for key without committing it.
func (d *Debouncer[T]) Take(key string) (T, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.pending[key]
	if !ok {
		var zero T
		return zero, false
	}
	p.timer.Stop()
	delete(d.pending, key)
	return p.value, true
}

// Flush commits every pending value now, in key order.
func (d *Debouncer[T]) Flush() {
	d.mu.Lock()
	keys := make([]string, 0, len(d.pending))
	for key := range d.pending {
		keys = append(keys, key)
	}
	d.mu.Unlock()

	slices.Sort(keys)
	for _, key := range keys {
		d.claimAndCommit(key, func(*entry[T]) bool { return true })
	}
}

// Close flushes and rejects further edits.
func (d *Debouncer[T]) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	d.Flush()
}

func (d *Debouncer[T]) fire(key string, seq uint64) {
	d.claimAndCommit(key, func(p *entry[T]) bool { return p.seq == seq })
}

// claimAndCommit removes key's entry, if match accepts it, and commits its
// value. Superseded, taken or cancelled entries are skipped.
func (d *Debouncer[T]) claimAndCommit(key string, match func(*entry[T]) bool) {
	d.locker.Lock()
	defer d.locker.Unlock()

	d.mu.Lock()
	p, ok := d.pending[key]
	if !ok || !match(p) {
		d.mu.Unlock()
		return
	}
	p.timer.Stop()
	delete(d.pending, key)
	d.mu.Unlock()

	d.commit(key, p.value)
}
