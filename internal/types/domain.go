package types

import "time"

// ------------------------------
// Core Domain Entities
// ------------------------------

// RepoOwner is the embedded owner reference carried on every repository.
type RepoOwner struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
}

// Repository is the client-side snapshot of one repository. Content is an
// append-only sequence whose order is server-defined and treated as opaque.
type Repository struct {
	ID            string         `json:"_id"`
	Name          string         `json:"name"`
	Description   string         `json:"description,omitempty"`
	Visibility    bool           `json:"visibility"`
	Owner         RepoOwner      `json:"owner"`
	CreatedAt     time.Time      `json:"createdAt"`
	LatestContent string         `json:"latestContent,omitempty"`
	Content       []CommitRecord `json:"content"`
}

// CommitRecord is immutable once created; the client never edits or deletes one.
type CommitRecord struct {
	ID        string    `json:"_id"`
	Message   string    `json:"message"`
	Content   string    `json:"content,omitempty"`
	AuthorID  string    `json:"authorId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserProfile is the server's view of a user, including the social-graph
// fields the profile page renders. IsFollowing is computed server-side for
// the acting (token) user.
type UserProfile struct {
	ID             string       `json:"_id"`
	Username       string       `json:"username"`
	Email          string       `json:"email,omitempty"`
	AvatarURL      string       `json:"avatarUrl,omitempty"`
	FollowerCount  int          `json:"followerCount"`
	FollowingCount int          `json:"followingCount"`
	IsFollowing    bool         `json:"isFollowing"`
	StarRepos      []string     `json:"starRepos"`
	Repositories   []Repository `json:"repositories"`
}

// IsStarred reports whether repoID is in this profile's starred set.
func (u *UserProfile) IsStarred(repoID string) bool {
	for _, id := range u.StarRepos {
		if id == repoID {
			return true
		}
	}
	return false
}

// UserSummary is the reduced user shape returned by search.
type UserSummary struct {
	ID        string `json:"_id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// Issue belongs to one repository and is append-only.
type Issue struct {
	ID        string    `json:"_id"`
	Content   string    `json:"content"`
	RepoID    string    `json:"repository,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Event is an upcoming calendar entry shown on the dashboard.
type Event struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	EventDate time.Time `json:"eventDate"`
}

// ContributionPoint is one day of pre-aggregated activity. Date is a
// "2006-01-02" string; the client performs no aggregation math on it.
type ContributionPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}
