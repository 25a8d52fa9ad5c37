// ABOUTME: Package editor implements draft-based editing of remote collections
// ABOUTME: Editor for lists, Document for singletons, ConfirmGate and Notices

// Package editor holds the state machine shared by every content manager.
//
// An Editor is Viewing, Editing a draft (a blank template or a deep copy of
// an item), or ConfirmingDelete a pending id. Drafts change only through
// Mutate, which hands the callback a copy. Saves and deletes for the same
// item cannot overlap (ErrBusy), and Unmount makes any response still in
// flight land as a no-op.
package editor
