package repoview

// Controls tells the presentation shell which actions to enable. It is the
// first layer of the ownership gate; the controller re-checks before every
// dispatch so a bypassed control still cannot produce a misleading success.
type Controls struct {
	CanCommit           bool
	CanPush             bool
	CanPull             bool
	CanToggleVisibility bool
	CanEditDescription  bool
	CanDelete           bool
	CanStar             bool
	// StarHint is non-empty when the star control is disabled and explains
	// what the user must do to enable it.
	StarHint string
}

// Controls derives the enabled-state of every action from the session and
// snapshot. Owner-only controls are off for non-owners and while loading;
// starring only needs a login.
func (v *View) Controls() Controls {
	loggedIn := v.sess.LoggedIn()
	owner := v.IsOwner()
	c := Controls{
		CanCommit:           owner,
		CanPush:             owner,
		CanPull:             owner,
		CanToggleVisibility: owner,
		CanEditDescription:  owner,
		CanDelete:           owner,
		CanStar:             loggedIn,
	}
	if !loggedIn {
		c.StarHint = "Log in to star"
	}
	return c
}
