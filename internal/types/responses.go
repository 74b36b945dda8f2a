package types

// ------------------------------
// Response Types
// ------------------------------

// AuthResponse is returned by both login and signup.
type AuthResponse struct {
	Token     string `json:"token"`
	UserID    string `json:"userId"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// CreateRepositoryResponse carries the new repository's id.
type CreateRepositoryResponse struct {
	RepositoryID string `json:"repositoryID"`
}

// RepositoryEnvelope wraps the mutation endpoints that return the updated
// repository under a "repository" key.
type RepositoryEnvelope struct {
	Repository *Repository `json:"repository"`
}

// ListUserRepositoriesResponse mirrors GET /repo/user/:id.
type ListUserRepositoriesResponse struct {
	Repositories []Repository `json:"repositories"`
}

// MessageResponse is the generic {"message": ...} acknowledgment used by
// push, pull, follow and unfollow.
type MessageResponse struct {
	Message string `json:"message"`
}

// SearchResults groups the two result families of GET /search.
type SearchResults struct {
	Users        []UserSummary `json:"users"`
	Repositories []Repository  `json:"repositories"`
}
