// ABOUTME: Generic collection editor: viewing, editing a draft, and confirming deletes
// ABOUTME: Guards in-flight saves per entity and drops responses that land after unmount

package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/2389/confadmin/internal/cms"
	"github.com/2389/confadmin/internal/content"
)

// Editor errors
var (
	ErrBusy            = errors.New("a request for this item is already in flight")
	ErrNotEditing      = errors.New("no draft is open")
	ErrNoPendingDelete = errors.New("no delete is pending confirmation")
	ErrNotFound        = errors.New("item not found")
)

// Mode is the editor's state.
type Mode int

// Editor modes.
const (
	Viewing Mode = iota
	Editing
	ConfirmingDelete
)

func (m Mode) String() string {
	switch m {
	case Viewing:
		return "viewing"
	case Editing:
		return "editing"
	case ConfirmingDelete:
		return "confirming-delete"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// newKey marks the busy slot of a draft that has no id yet.
const newKey = "+new"

// Resource is a remote collection. cms.Collection satisfies it.
type Resource[T any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, v T) (T, error)
	Update(ctx context.Context, id string, v T) (T, error)
	Delete(ctx context.Context, id string) error
}

// Schema describes one entity type to the editor.
type Schema[T any] struct {
	// Name is the singular noun used in notices, e.g. "speaker".
	Name string
	// ID returns the server-assigned id.
	ID func(T) string
	// Blank builds the template for a new draft from the current items.
	Blank func(items []T) T
	// Clone returns a deep copy.
	Clone func(T) T
	// Validate checks required fields before any request.
	Validate func(T) error
	// Sanitize, when set, runs on the draft right before it is saved.
	Sanitize func(T) T
	// Order, when set, sorts items ascending after every change.
	Order func(T) int
	// Refetch lists the collection again after every mutation instead of
	// applying the response locally.
	Refetch bool
	// Prepend puts created items first.
	Prepend bool
}

// View is a consistent snapshot of an editor for rendering.
type View[T any] struct {
	Items         []T
	Loaded        bool
	LoadErr       error
	Mode          Mode
	Draft         T
	Creating      bool
	DraftErr      error
	Focus         int
	PendingDelete string
	busy          map[string]bool
}

// IsBusy reports whether a request for id was in flight at snapshot time.
// An empty id asks about the new-item draft.
func (v View[T]) IsBusy(id string) bool {
	if id == "" {
		id = newKey
	}
	return v.busy[id]
}

// Editor manages one collection and its open draft.
type Editor[T any] struct {
	mu      sync.Mutex
	res     Resource[T]
	schema  Schema[T]
	notices *Notices
	logger  *slog.Logger

	items   []T
	loaded  bool
	loadErr error

	mode     Mode
	draft    T
	draftID  string
	creating bool
	draftErr error
	focus    int

	confirm ConfirmGate
	busy    map[string]bool
	gen     uint64
}

// New creates an editor over res.
func New[T any](res Resource[T], schema Schema[T], notices *Notices) *Editor[T] {
	if notices == nil {
		notices = NewNotices(0)
	}
	if schema.Clone == nil {
		schema.Clone = func(v T) T { return v }
	}
	return &Editor[T]{
		res:     res,
		schema:  schema,
		notices: notices,
		logger:  slog.Default().With("component", "editor", "resource", schema.Name),
		focus:   -1,
		busy:    make(map[string]bool),
	}
}

// Notices returns the notice list outcomes are reported to.
func (e *Editor[T]) Notices() *Notices {
	return e.notices
}

// Load fetches the collection. A response that lands after Unmount is dropped.
func (e *Editor[T]) Load(ctx context.Context) error {
	e.mu.Lock()
	gen := e.gen
	e.mu.Unlock()

	items, err := e.res.List(ctx)

	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.gen {
		return nil
	}
	if err != nil {
		e.loadErr = err
		e.notices.Error(cms.Reason(err, "Failed to fetch "+plural(e.schema.Name)))
		return err
	}
	e.setItemsLocked(items)
	e.loaded, e.loadErr = true, nil
	return nil
}

// Snapshot returns a copy of the editor's state.
func (e *Editor[T]) Snapshot() View[T] {
	e.mu.Lock()
	defer e.mu.Unlock()

	items := make([]T, len(e.items))
	for i, it := range e.items {
		items[i] = e.schema.Clone(it)
	}
	busy := make(map[string]bool, len(e.busy))
	for k, v := range e.busy {
		busy[k] = v
	}
	pending, _ := e.confirm.Pending()

	v := View[T]{
		Items:         items,
		Loaded:        e.loaded,
		LoadErr:       e.loadErr,
		Mode:          e.mode,
		Creating:      e.creating,
		DraftErr:      e.draftErr,
		Focus:         e.focus,
		PendingDelete: pending,
		busy:          busy,
	}
	if e.mode == Editing {
		v.Draft = e.schema.Clone(e.draft)
	}
	return v
}

// Items returns a copy of the current items.
func (e *Editor[T]) Items() []T {
	return e.Snapshot().Items
}

// Find returns the item with id.
func (e *Editor[T]) Find(id string) (T, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if i := e.indexLocked(id); i >= 0 {
		return e.schema.Clone(e.items[i]), true
	}
	var zero T
	return zero, false
}

// BeginCreate opens a draft from the blank template.
func (e *Editor[T]) BeginCreate() {
	e.mu.Lock()
	defer e.mu.Unlock()

	var draft T
	if e.schema.Blank != nil {
		draft = e.schema.Blank(e.items)
	}
	e.openLocked(draft, "", true)
}

// BeginEdit opens a draft holding a deep copy of the item with id.
func (e *Editor[T]) BeginEdit(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := e.indexLocked(id)
	if i < 0 {
		return fmt.Errorf("%s %s: %w", e.schema.Name, id, ErrNotFound)
	}
	e.openLocked(e.schema.Clone(e.items[i]), id, false)
	return nil
}

func (e *Editor[T]) openLocked(draft T, id string, creating bool) {
	e.confirm.Cancel()
	e.mode = Editing
	e.draft = draft
	e.draftID = id
	e.creating = creating
	e.draftErr = nil
	e.focus = -1
}

// Mutate replaces the draft with fn applied to a copy of it.
func (e *Editor[T]) Mutate(fn func(T) T) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode != Editing {
		return ErrNotEditing
	}
	e.draft = fn(e.schema.Clone(e.draft))
	return nil
}

// MutateRemoving applies fn, which removes the nested entry at index, and
// keeps the focused index pointing at the same entry. Removing the focused
// entry clears focus; removing an earlier one shifts focus down by one.
func (e *Editor[T]) MutateRemoving(index int, fn func(T) T) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode != Editing {
		return ErrNotEditing
	}
	e.draft = fn(e.schema.Clone(e.draft))
	switch {
	case e.focus == index:
		e.focus = -1
	case e.focus > index:
		e.focus--
	}
	return nil
}

// SetFocus marks nested entry i as open. A negative i clears focus.
func (e *Editor[T]) SetFocus(i int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode != Editing {
		return ErrNotEditing
	}
	if i < 0 {
		i = -1
	}
	e.focus = i
	return nil
}

// Focus returns the open nested index, or -1.
func (e *Editor[T]) Focus() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.focus
}

// Draft returns a copy of the open draft.
func (e *Editor[T]) Draft() (T, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode != Editing {
		var zero T
		return zero, ErrNotEditing
	}
	return e.schema.Clone(e.draft), nil
}

// Cancel discards the open draft.
func (e *Editor[T]) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closeLocked()
}

func (e *Editor[T]) closeLocked() {
	var zero T
	e.mode = Viewing
	e.draft = zero
	e.draftID = ""
	e.creating = false
	e.draftErr = nil
	e.focus = -1
}

// Save validates and sends the draft. On failure the draft stays open with
// the error; on success the editor returns to Viewing.
func (e *Editor[T]) Save(ctx context.Context) (T, error) {
	var zero T

	e.mu.Lock()
	if e.mode != Editing {
		e.mu.Unlock()
		return zero, ErrNotEditing
	}

	draft := e.schema.Clone(e.draft)
	if e.schema.Sanitize != nil {
		draft = e.schema.Sanitize(draft)
	}
	if e.schema.Validate != nil {
		if err := e.schema.Validate(draft); err != nil {
			e.draftErr = err
			e.notices.Error(capitalize(err.Error()))
			e.mu.Unlock()
			return zero, err
		}
	}

	key, id, creating := e.draftID, e.draftID, e.creating
	if creating {
		key = newKey
	}
	if e.busy[key] {
		e.mu.Unlock()
		return zero, ErrBusy
	}
	e.busy[key] = true
	gen := e.gen
	e.mu.Unlock()

	var (
		saved T
		err   error
	)
	if creating {
		saved, err = e.res.Create(ctx, draft)
	} else {
		saved, err = e.res.Update(ctx, id, draft)
	}

	var refreshed []T
	if err == nil && e.schema.Refetch {
		var listErr error
		refreshed, listErr = e.res.List(ctx)
		if listErr != nil {
			e.logger.Warn("refetch after save failed", "error", listErr)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.busy, key)
	if gen != e.gen {
		return saved, err
	}

	verb := "update"
	if creating {
		verb = "create"
	}
	if err != nil {
		e.draftErr = err
		e.notices.Error(cms.Reason(err, fmt.Sprintf("Failed to %s %s", verb, e.schema.Name)))
		e.logger.Error("save failed", "id", id, "error", err)
		return saved, err
	}

	switch {
	case refreshed != nil:
		e.setItemsLocked(refreshed)
	case creating:
		if e.schema.Prepend {
			e.items = append([]T{saved}, e.items...)
		} else {
			e.items = content.Append(e.items, saved)
		}
		e.sortLocked()
	default:
		e.replaceLocked(id, saved)
	}

	e.notices.Success(fmt.Sprintf("%s %sd successfully", capitalize(e.schema.Name), verb))
	// A delete confirmation opened meanwhile stays up.
	if e.mode == Editing {
		e.closeLocked()
	}
	return saved, nil
}

// Apply replaces the local copy of an item with one obtained outside the
// editor, such as the response of a toggle endpoint.
func (e *Editor[T]) Apply(v T) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.replaceLocked(e.schema.ID(v), v)
}

// Reload lists the collection again, keeping any open draft.
func (e *Editor[T]) Reload(ctx context.Context) error {
	return e.Load(ctx)
}

// RequestDelete arms the confirmation gate for id. No request is sent.
func (e *Editor[T]) RequestDelete(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.indexLocked(id) < 0 {
		return fmt.Errorf("%s %s: %w", e.schema.Name, id, ErrNotFound)
	}
	e.closeLocked()
	e.confirm.Request(id)
	e.mode = ConfirmingDelete
	return nil
}

// CancelDelete disarms the confirmation gate without a request.
func (e *Editor[T]) CancelDelete() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.confirm.Cancel()
	if e.mode == ConfirmingDelete {
		e.mode = Viewing
	}
}

// ConfirmDelete deletes the pending target and returns to Viewing. While
// another request for the target is in flight the gate stays armed.
func (e *Editor[T]) ConfirmDelete(ctx context.Context) error {
	e.mu.Lock()
	id, ok := e.confirm.Pending()
	if !ok {
		e.mu.Unlock()
		return ErrNoPendingDelete
	}
	if e.busy[id] {
		e.mu.Unlock()
		return ErrBusy
	}
	e.confirm.Take()
	e.mode = Viewing
	e.busy[id] = true
	gen := e.gen
	e.mu.Unlock()

	err := e.res.Delete(ctx, id)

	var refreshed []T
	if err == nil && e.schema.Refetch {
		var listErr error
		refreshed, listErr = e.res.List(ctx)
		if listErr != nil {
			e.logger.Warn("refetch after delete failed", "error", listErr)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.busy, id)
	if gen != e.gen {
		return err
	}

	if err != nil {
		e.notices.Error(cms.Reason(err, "Failed to delete "+e.schema.Name))
		e.logger.Error("delete failed", "id", id, "error", err)
		return err
	}

	if refreshed != nil {
		e.setItemsLocked(refreshed)
	} else if i := e.indexLocked(id); i >= 0 {
		e.items = content.RemoveAt(e.items, i)
	}
	e.notices.Success(capitalize(e.schema.Name) + " deleted successfully")
	return nil
}

// Unmount discards the draft and pending delete. Responses to requests
// already in flight are dropped when they land.
func (e *Editor[T]) Unmount() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.gen++
	e.confirm.Cancel()
	e.closeLocked()
}

func (e *Editor[T]) setItemsLocked(items []T) {
	if items == nil {
		items = []T{}
	}
	e.items = items
	e.sortLocked()
}

func (e *Editor[T]) sortLocked() {
	if e.schema.Order != nil {
		e.items = content.SortByOrder(e.items, e.schema.Order)
	}
}

func (e *Editor[T]) replaceLocked(id string, v T) {
	if i := e.indexLocked(id); i >= 0 {
		e.items = content.ReplaceAt(e.items, i, v)
		e.sortLocked()
	}
}

func (e *Editor[T]) indexLocked(id string) int {
	if id == "" || e.schema.ID == nil {
		return -1
	}
	for i, it := range e.items {
		if e.schema.ID(it) == id {
			return i
		}
	}
	return -1
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func plural(noun string) string {
	switch {
	case noun == "":
		return "items"
	case strings.HasSuffix(noun, "y") && !strings.HasSuffix(noun, "ey"):
		return noun[:len(noun)-1] + "ies"
	case strings.HasSuffix(noun, "s"):
		return noun
	default:
		return noun + "s"
	}
}
