package gitdentest

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gitden/gitden-go/internal/types"
)

// ------------------------- auth -------------------------

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req types.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" || req.Username == "" {
		writeErr(w, http.StatusBadRequest, "username, email and password are required")
		return
	}
	s.mu.Lock()
	if _, exists := s.usersByEmail[req.Email]; exists {
		s.mu.Unlock()
		writeErr(w, http.StatusBadRequest, "email already registered")
		return
	}
	s.mu.Unlock()
	id := s.SeedUser(req.Username, req.Email, req.Password)
	writeJSON(w, http.StatusCreated, types.AuthResponse{Token: s.TokenFor(id), UserID: id})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.mu.Lock()
	id, ok := s.usersByEmail[req.Email]
	var u *user
	if ok {
		u = s.users[id]
	}
	s.mu.Unlock()
	if u == nil || u.Password != req.Password {
		// Auth endpoints answer with "message", matching the real backend.
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid credentials"})
		return
	}
	writeJSON(w, http.StatusOK, types.AuthResponse{Token: s.TokenFor(id), UserID: id, AvatarURL: u.AvatarURL})
}

// ------------------------- users -------------------------

func (s *Server) handleUserProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	actor := s.actorID(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		writeErr(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, s.profileLocked(u, actor))
}

// profileLocked builds the profile response; callers hold s.mu.
func (s *Server) profileLocked(u *user, actor string) types.UserProfile {
	stars := make([]string, 0, len(u.StarRepos))
	for id := range u.StarRepos {
		stars = append(stars, id)
	}
	sort.Strings(stars)
	var repos []types.Repository
	for _, rp := range s.repos {
		if rp.Owner.ID == u.ID {
			repos = append(repos, *rp)
		}
	}
	sort.Slice(repos, func(i, j int) bool { return repos[i].Name < repos[j].Name })
	isFollowing := actor != "" && u.Followers[actor]
	return types.UserProfile{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		AvatarURL:      u.AvatarURL,
		FollowerCount:  len(u.Followers),
		FollowingCount: len(u.Following),
		IsFollowing:    isFollowing,
		StarRepos:      stars,
		Repositories:   repos,
	}
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	actor := actorFrom(r)
	if actor != id {
		writeErr(w, http.StatusForbidden, "cannot edit another user's profile")
		return
	}
	var req types.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeErr(w, http.StatusBadRequest, "email is required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.users[id]
	delete(s.usersByEmail, u.Email)
	u.Email = req.Email
	s.usersByEmail[req.Email] = id
	if req.Password != "" {
		u.Password = req.Password
	}
	writeJSON(w, http.StatusOK, s.profileLocked(u, actor))
}

func (s *Server) handleStarred(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		writeErr(w, http.StatusNotFound, "user not found")
		return
	}
	repos := make([]types.Repository, 0)
	for repoID := range u.StarRepos {
		if rp, ok := s.repos[repoID]; ok {
			repos = append(repos, *rp)
		}
	}
	sort.Slice(repos, func(i, j int) bool { return repos[i].Name < repos[j].Name })
	writeJSON(w, http.StatusOK, repos)
}

func (s *Server) handleContributions(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	points := make([]types.ContributionPoint, 0)
	for date, count := range s.contributions[id] {
		points = append(points, types.ContributionPoint{Date: date, Count: count})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	writeJSON(w, http.StatusOK, points)
}

// ------------------------- social graph -------------------------

func (s *Server) handleStar(w http.ResponseWriter, r *http.Request) { s.setStar(w, r, true) }

func (s *Server) handleUnstar(w http.ResponseWriter, r *http.Request) { s.setStar(w, r, false) }

func (s *Server) setStar(w http.ResponseWriter, r *http.Request, starred bool) {
	repoID := chi.URLParam(r, "id")
	actor := actorFrom(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.repos[repoID]; !ok {
		writeErr(w, http.StatusNotFound, "repository not found")
		return
	}
	u := s.users[actor]
	if starred {
		u.StarRepos[repoID] = true
	} else {
		delete(u.StarRepos, repoID)
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "ok"})
}

func (s *Server) handleFollow(w http.ResponseWriter, r *http.Request) { s.setFollow(w, r, true) }

func (s *Server) handleUnfollow(w http.ResponseWriter, r *http.Request) { s.setFollow(w, r, false) }

func (s *Server) setFollow(w http.ResponseWriter, r *http.Request, follow bool) {
	subjectID := chi.URLParam(r, "id")
	actor := actorFrom(r)
	if subjectID == actor {
		writeErr(w, http.StatusBadRequest, "cannot follow yourself")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	subject, ok := s.users[subjectID]
	if !ok {
		writeErr(w, http.StatusNotFound, "user not found")
		return
	}
	u := s.users[actor]
	msg := "followed"
	if follow {
		subject.Followers[actor] = true
		u.Following[subjectID] = true
	} else {
		delete(subject.Followers, actor)
		delete(u.Following, subjectID)
		msg = "unfollowed"
	}
	writeJSON(w, http.StatusOK, types.MessageResponse{Message: msg + " " + subject.Username})
}

// ------------------------- repositories -------------------------

func (s *Server) handleGetRepo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	actor := s.actorID(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	rp, ok := s.repos[id]
	if !ok {
		writeErr(w, http.StatusNotFound, "repository not found")
		return
	}
	if !rp.Visibility && rp.Owner.ID != actor {
		writeErr(w, http.StatusNotFound, "repository not found")
		return
	}
	writeJSON(w, http.StatusOK, rp)
}

func (s *Server) handleCreateRepo(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r)
	var req types.CreateRepositoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		writeErr(w, http.StatusBadRequest, "repository name is required")
		return
	}
	id := s.SeedRepository(actor, req.Name, req.Description, req.Visibility)
	writeJSON(w, http.StatusCreated, types.CreateRepositoryResponse{RepositoryID: id})
}

func (s *Server) handlePublicRepos(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	repos := make([]types.Repository, 0)
	for _, rp := range s.repos {
		if rp.Visibility {
			repos = append(repos, *rp)
		}
	}
	sort.Slice(repos, func(i, j int) bool { return repos[i].Name < repos[j].Name })
	writeJSON(w, http.StatusOK, repos)
}

func (s *Server) handleUserRepos(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	actor := s.actorID(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	repos := make([]types.Repository, 0)
	for _, rp := range s.repos {
		if rp.Owner.ID != id {
			continue
		}
		if !rp.Visibility && actor != id {
			continue
		}
		repos = append(repos, *rp)
	}
	sort.Slice(repos, func(i, j int) bool { return repos[i].Name < repos[j].Name })
	writeJSON(w, http.StatusOK, types.ListUserRepositoriesResponse{Repositories: repos})
}

// requireOwner resolves the repo and enforces ownership; callers hold no
// lock. A nil return means the response was already written.
func (s *Server) requireOwner(w http.ResponseWriter, r *http.Request) *types.Repository {
	id := chi.URLParam(r, "id")
	actor := actorFrom(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	rp, ok := s.repos[id]
	if !ok {
		writeErr(w, http.StatusNotFound, "repository not found")
		return nil
	}
	if rp.Owner.ID != actor {
		writeErr(w, http.StatusForbidden, "only the owner may do that")
		return nil
	}
	return rp
}

func (s *Server) handleCommit(w http.ResponseWriter, r *http.Request) {
	var req types.CreateCommitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		writeErr(w, http.StatusBadRequest, "commit message is required")
		return
	}
	rp := s.requireOwner(w, r)
	if rp == nil {
		return
	}
	actor := actorFrom(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := types.CommitRecord{
		ID:        uuid.NewString(),
		Message:   strings.TrimSpace(req.Message),
		Content:   req.Content,
		AuthorID:  actor,
		CreatedAt: time.Now().UTC(),
	}
	rp.Content = append(rp.Content, rec)
	if req.Content != "" {
		rp.LatestContent = req.Content
	}
	day := time.Now().UTC().Format("2006-01-02")
	if s.contributions[actor] == nil {
		s.contributions[actor] = make(map[string]int)
	}
	s.contributions[actor][day]++
	writeJSON(w, http.StatusOK, rp)
}

func (s *Server) handlePush(w http.ResponseWriter, r *http.Request) {
	if rp := s.requireOwner(w, r); rp != nil {
		writeJSON(w, http.StatusOK, types.MessageResponse{Message: "pushed to remote"})
	}
}

func (s *Server) handlePull(w http.ResponseWriter, r *http.Request) {
	if rp := s.requireOwner(w, r); rp != nil {
		writeJSON(w, http.StatusOK, types.MessageResponse{Message: "pulled from remote"})
	}
}

func (s *Server) handleToggleVisibility(w http.ResponseWriter, r *http.Request) {
	rp := s.requireOwner(w, r)
	if rp == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rp.Visibility = !rp.Visibility
	writeJSON(w, http.StatusOK, types.RepositoryEnvelope{Repository: rp})
}

func (s *Server) handleUpdateDescription(w http.ResponseWriter, r *http.Request) {
	var req types.UpdateDescriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	rp := s.requireOwner(w, r)
	if rp == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rp.Description = req.Description
	writeJSON(w, http.StatusOK, types.RepositoryEnvelope{Repository: rp})
}

func (s *Server) handleDeleteRepo(w http.ResponseWriter, r *http.Request) {
	rp := s.requireOwner(w, r)
	if rp == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.repos, rp.ID)
	delete(s.issues, rp.ID)
	for _, u := range s.users {
		delete(u.StarRepos, rp.ID)
	}
	w.WriteHeader(http.StatusNoContent)
}

// ------------------------- issues -------------------------

func (s *Server) handleListIssues(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.repos[id]; !ok {
		writeErr(w, http.StatusNotFound, "repository not found")
		return
	}
	issues := s.issues[id]
	if issues == nil {
		issues = []types.Issue{}
	}
	writeJSON(w, http.StatusOK, issues)
}

func (s *Server) handleCreateIssue(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req types.CreateIssueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		writeErr(w, http.StatusBadRequest, "issue content is required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.repos[id]; !ok {
		writeErr(w, http.StatusNotFound, "repository not found")
		return
	}
	issue := types.Issue{
		ID:        uuid.NewString(),
		Content:   req.Content,
		RepoID:    id,
		CreatedAt: time.Now().UTC(),
	}
	s.issues[id] = append(s.issues[id], issue)
	writeJSON(w, http.StatusCreated, issue)
}

// ------------------------- events -------------------------

func (s *Server) handleUpcomingEvents(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := make([]types.Event, len(s.events))
	copy(events, s.events)
	sort.Slice(events, func(i, j int) bool { return events[i].EventDate.Before(events[j].EventDate) })
	writeJSON(w, http.StatusOK, events)
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var req types.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Title) == "" || req.EventDate == "" {
		writeErr(w, http.StatusBadRequest, "event title and date are required")
		return
	}
	date, err := time.ParseInLocation("2006-01-02", req.EventDate, time.UTC)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "event date must be YYYY-MM-DD")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ev := types.Event{ID: uuid.NewString(), Title: req.Title, EventDate: date}
	s.events = append(s.events, ev)
	writeJSON(w, http.StatusCreated, ev)
}

// ------------------------- search -------------------------

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
	s.mu.Lock()
	defer s.mu.Unlock()
	res := types.SearchResults{Users: []types.UserSummary{}, Repositories: []types.Repository{}}
	if q == "" {
		writeJSON(w, http.StatusOK, res)
		return
	}
	for _, u := range s.users {
		if strings.Contains(strings.ToLower(u.Username), q) {
			res.Users = append(res.Users, types.UserSummary{ID: u.ID, Username: u.Username, AvatarURL: u.AvatarURL})
		}
	}
	for _, rp := range s.repos {
		if rp.Visibility && strings.Contains(strings.ToLower(rp.Name), q) {
			res.Repositories = append(res.Repositories, *rp)
		}
	}
	sort.Slice(res.Users, func(i, j int) bool { return res.Users[i].Username < res.Users[j].Username })
	sort.Slice(res.Repositories, func(i, j int) bool { return res.Repositories[i].Name < res.Repositories[j].Name })
	writeJSON(w, http.StatusOK, res)
}
