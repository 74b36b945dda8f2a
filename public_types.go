package gitden

import "github.com/gitden/gitden-go/internal/types"

// Public type aliases so SDK consumers can import only the gitden package.
type (
	// Requests
	LoginRequest             = types.LoginRequest
	SignupRequest            = types.SignupRequest
	CreateRepositoryRequest  = types.CreateRepositoryRequest
	CreateCommitRequest      = types.CreateCommitRequest
	UpdateDescriptionRequest = types.UpdateDescriptionRequest
	CreateIssueRequest       = types.CreateIssueRequest
	UpdateProfileRequest     = types.UpdateProfileRequest
	CreateEventRequest       = types.CreateEventRequest

	// Domain entities
	Repository        = types.Repository
	RepoOwner         = types.RepoOwner
	CommitRecord      = types.CommitRecord
	UserProfile       = types.UserProfile
	UserSummary       = types.UserSummary
	Issue             = types.Issue
	Event             = types.Event
	ContributionPoint = types.ContributionPoint

	// Responses
	SearchResults = types.SearchResults
)
