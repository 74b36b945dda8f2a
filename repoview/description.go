package repoview

import "github.com/gitden/gitden-go/internal/apierr"

// The description editor is optimistic about typing and pessimistic about
// committing: the draft is free-typed locally, but the snapshot only adopts
// it after server confirmation. A failed save keeps the editor open with the
// draft intact so nothing the user typed is lost.

// StartEditingDescription opens the editor seeded with the current
// description. Owner-only; non-owners never see the control, and a bypass
// ends here.
func (v *View) StartEditingDescription() error {
	if err := v.requireOwner(); err != nil {
		return err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.editing = true
	v.draft = v.snapshot.Description
	return nil
}

// SetDraft replaces the local draft text.
func (v *View) SetDraft(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.draft = text
}

// Draft returns the current draft text.
func (v *View) Draft() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.draft
}

// IsEditingDescription reports whether the editor is open.
func (v *View) IsEditingDescription() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.editing
}

// CancelEditingDescription closes the editor and discards the draft.
func (v *View) CancelEditingDescription() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.editing = false
	if v.snapshot != nil {
		v.draft = v.snapshot.Description
	}
}

// SaveDescription commits the draft. Owner-only. On success the snapshot is
// replaced with the server's repository and the editor closes; on failure
// the editor stays open, the draft survives, and the error is annotated.
func (v *View) SaveDescription() error {
	if err := v.requireOwner(); err != nil {
		v.mu.Lock()
		v.errMsg = err.Error()
		v.mu.Unlock()
		return err
	}
	v.mu.Lock()
	if !v.editing {
		v.mu.Unlock()
		return apierr.Validation("description editor is not open")
	}
	draft := v.draft
	v.mu.Unlock()

	if err := v.begin("description"); err != nil {
		return err
	}
	repo, err := v.client.UpdateDescription(v.ctx, v.repoID, draft)
	if err != nil {
		return v.fail("description", err)
	}
	v.finish("description", func() {
		v.snapshot = repo
		v.editing = false
		v.draft = repo.Description
	})
	return nil
}
