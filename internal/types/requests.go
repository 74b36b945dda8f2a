package types

// ------------------------------
// Request Types
// ------------------------------

// LoginRequest holds credentials for /user/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRequest holds parameters for /user/signup.
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateRepositoryRequest holds parameters for a new repository.
type CreateRepositoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Visibility  bool   `json:"visibility"`
}

// CreateCommitRequest holds parameters for a new commit.
type CreateCommitRequest struct {
	Message string `json:"message"`
	Content string `json:"content,omitempty"`
	UserID  string `json:"userId,omitempty"`
}

// UpdateDescriptionRequest holds the replacement description text.
type UpdateDescriptionRequest struct {
	Description string `json:"description"`
}

// CreateIssueRequest holds the body of a new issue.
type CreateIssueRequest struct {
	Content string `json:"content"`
}

// UpdateProfileRequest carries settings-page edits. Password is omitted when
// the user leaves it unchanged.
type UpdateProfileRequest struct {
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
}

// CreateEventRequest holds parameters for a new upcoming event.
// EventDate is a "2006-01-02" string, matching the backend's date-only field.
type CreateEventRequest struct {
	Title     string `json:"title"`
	EventDate string `json:"eventDate"`
}
