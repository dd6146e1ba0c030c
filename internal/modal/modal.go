// Package modal holds the open/close state of an edit dialog.
package modal

// Mode tells whether an open modal creates a new record or edits one.
type Mode string

const (
	ModeClosed Mode = ""
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// Modal is the dialog state for one entity type. It never stacks: opening an
// already open modal replaces its draft.
type Modal[T any] struct {
	mode  Mode
	draft T
}

// OpenCreate opens the modal with a blank draft.
func (m *Modal[T]) OpenCreate() {
	var zero T
	m.mode = ModeCreate
	m.draft = zero
}

// OpenEdit opens the modal prefilled with entity.
func (m *Modal[T]) OpenEdit(entity T) {
	m.mode = ModeEdit
	m.draft = entity
}

// Close discards the draft.
func (m *Modal[T]) Close() {
	var zero T
	m.mode = ModeClosed
	m.draft = zero
}

func (m *Modal[T]) IsOpen() bool {
	return m.mode != ModeClosed
}

func (m *Modal[T]) Mode() Mode {
	return m.mode
}

// Draft returns the current draft. It is the zero value while closed.
func (m *Modal[T]) Draft() T {
	return m.draft
}

// SetDraft replaces the draft of an open modal. It is a no-op while closed.
func (m *Modal[T]) SetDraft(draft T) {
	if !m.IsOpen() {
		return
	}
	m.draft = draft
}
