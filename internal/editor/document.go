// ABOUTME: Singleton document editor for hero, footer, registration and titles
// ABOUTME: The draft is always open; Save replaces the stored copy with the response

package editor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/2389/confadmin/internal/cms"
)

// DocumentResource is a remote singleton. cms.Document satisfies it.
type DocumentResource[T any] interface {
	Get(ctx context.Context) (T, error)
	Put(ctx context.Context, v T) (T, error)
}

// DocumentSchema describes a singleton to the editor.
type DocumentSchema[T any] struct {
	Name     string
	Clone    func(T) T
	Validate func(T) error
	Sanitize func(T) T
}

// DocumentView is a snapshot of a document editor.
type DocumentView[T any] struct {
	Saved    T
	Draft    T
	Loaded   bool
	LoadErr  error
	DraftErr error
	Busy     bool
}

// Document edits one singleton resource.
type Document[T any] struct {
	mu      sync.Mutex
	res     DocumentResource[T]
	schema  DocumentSchema[T]
	notices *Notices
	logger  *slog.Logger

	saved    T
	draft    T
	loaded   bool
	loadErr  error
	draftErr error
	busy     bool
	gen      uint64
}

// NewDocument creates a document editor over res.
func NewDocument[T any](res DocumentResource[T], schema DocumentSchema[T], notices *Notices) *Document[T] {
	if notices == nil {
		notices = NewNotices(0)
	}
	if schema.Clone == nil {
		schema.Clone = func(v T) T { return v }
	}
	return &Document[T]{
		res:     res,
		schema:  schema,
		notices: notices,
		logger:  slog.Default().With("component", "editor", "resource", schema.Name),
	}
}

// Load fetches the document and resets the draft to it.
func (d *Document[T]) Load(ctx context.Context) error {
	d.mu.Lock()
	gen := d.gen
	d.mu.Unlock()

	doc, err := d.res.Get(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()
	if gen != d.gen {
		return nil
	}
	if err != nil {
		d.loadErr = err
		d.notices.Error(cms.Reason(err, "Failed to fetch "+d.schema.Name))
		return err
	}
	d.saved = doc
	d.draft = d.schema.Clone(doc)
	d.loaded, d.loadErr, d.draftErr = true, nil, nil
	return nil
}

// Snapshot returns a copy of the editor's state.
func (d *Document[T]) Snapshot() DocumentView[T] {
	d.mu.Lock()
	defer d.mu.Unlock()

	return DocumentView[T]{
		Saved:    d.schema.Clone(d.saved),
		Draft:    d.schema.Clone(d.draft),
		Loaded:   d.loaded,
		LoadErr:  d.loadErr,
		DraftErr: d.draftErr,
		Busy:     d.busy,
	}
}

// Draft returns a copy of the draft.
func (d *Document[T]) Draft() T {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.schema.Clone(d.draft)
}

// Mutate replaces the draft with fn applied to a copy of it.
func (d *Document[T]) Mutate(fn func(T) T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.draft = fn(d.schema.Clone(d.draft))
}

// Reset discards draft changes.
func (d *Document[T]) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.draft = d.schema.Clone(d.saved)
	d.draftErr = nil
}

// Save validates and sends the draft. The response becomes both the stored
// copy and the new draft. A document that never loaded is not sent.
func (d *Document[T]) Save(ctx context.Context) (T, error) {
	var zero T

	d.mu.Lock()
	if !d.loaded {
		d.mu.Unlock()
		return zero, ErrNotEditing
	}
	draft := d.schema.Clone(d.draft)
	if d.schema.Sanitize != nil {
		draft = d.schema.Sanitize(draft)
	}
	if d.schema.Validate != nil {
		if err := d.schema.Validate(draft); err != nil {
			d.draftErr = err
			d.notices.Error(capitalize(err.Error()))
			d.mu.Unlock()
			return zero, err
		}
	}
	if d.busy {
		d.mu.Unlock()
		return zero, ErrBusy
	}
	d.busy = true
	gen := d.gen
	d.mu.Unlock()

	saved, err := d.res.Put(ctx, draft)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.busy = false
	if gen != d.gen {
		return saved, err
	}
	if err != nil {
		d.draftErr = err
		d.notices.Error(cms.Reason(err, fmt.Sprintf("Failed to update %s", d.schema.Name)))
		d.logger.Error("save failed", "error", err)
		return saved, err
	}

	d.saved = saved
	d.draft = d.schema.Clone(saved)
	d.draftErr = nil
	d.notices.Success(capitalize(d.schema.Name) + " updated successfully")
	return saved, nil
}

// Unmount drops responses to requests still in flight.
func (d *Document[T]) Unmount() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	d.draft = d.schema.Clone(d.saved)
	d.draftErr = nil
}
