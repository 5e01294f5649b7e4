package habit

import (
	"context"
	"strings"
)

type EditState int

const (
	Idle EditState = iota
	Editing
)

// Editor is the rename state machine. At most one habit is being edited.
type Editor struct {
	state   EditState
	habitID string
	draft   string
}

func (e *Editor) State() EditState { return e.state }

// Target returns the habit under edit, if any.
func (e *Editor) Target() (string, bool) {
	return e.habitID, e.state == Editing
}

func (e *Editor) Draft() string { return e.draft }

// Start begins editing id with name as the draft. Starting while another
// habit is in edit drops that draft.
func (e *Editor) Start(id, name string) {
	e.state = Editing
	e.habitID = id
	e.draft = name
}

func (e *Editor) SetDraft(s string) {
	if e.state == Editing {
		e.draft = s
	}
}

// Save commits a non-blank draft through t and returns to Idle whatever the
// outcome of the write.
func (e *Editor) Save(ctx context.Context, t *Tracker) error {
	if e.state != Editing {
		return nil
	}
	id, draft := e.habitID, e.draft
	e.reset()
	if strings.TrimSpace(draft) == "" {
		return nil
	}
	return t.Rename(ctx, id, draft)
}

func (e *Editor) Cancel() { e.reset() }

func (e *Editor) reset() {
	e.state = Idle
	e.habitID = ""
	e.draft = ""
}
