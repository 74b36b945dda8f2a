package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gitden/gitden-go/internal/apierr"
	"github.com/gitden/gitden-go/internal/types"
)

// GetRepository retrieves one repository snapshot. Auth is optional; the
// server decides visibility from the bearer token when one is present.
func GetRepository(ctx context.Context, httpClient *http.Client, baseURL, repoID string) (*types.Repository, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s%s/repo/%s", baseURL, basePath, repoID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, apierr.Network("get repository", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, apierr.FromResponse("get repository", resp)
	}

	var repo types.Repository
	if err := json.NewDecoder(resp.Body).Decode(&repo); err != nil {
		return nil, err
	}
	if repo.ID == "" {
		return nil, apierr.New(apierr.KindNotFound, "repository not found or invalid response")
	}
	return &repo, nil
}

// CreateRepository creates a repository and returns the new id.
func CreateRepository(ctx context.Context, httpClient *http.Client, baseURL string, req types.CreateRepositoryRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := types.ValidateRepositoryName(req.Name); err != nil {
		return "", err
	}
	body, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	url := fmt.Sprintf("%s%s/repo/create", baseURL, basePath)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return "", apierr.Network("create repository", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusCreated {
		return "", apierr.FromResponse("create repository", resp)
	}

	var cr types.CreateRepositoryResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", err
	}
	if cr.RepositoryID == "" {
		return "", apierr.New(apierr.KindServer, "create repository: response missing repositoryID")
	}
	return cr.RepositoryID, nil
}

// ListPublicRepositories returns every public repository. No auth required.
func ListPublicRepositories(ctx context.Context, httpClient *http.Client, baseURL string) ([]types.Repository, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s%s/repo/public", baseURL, basePath)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, apierr.Network("list public repositories", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, apierr.FromResponse("list public repositories", resp)
	}

	var repos []types.Repository
	if err := json.NewDecoder(resp.Body).Decode(&repos); err != nil {
		return nil, err
	}
	return repos, nil
}

// ListUserRepositories returns the repositories owned by userID.
func ListUserRepositories(ctx context.Context, httpClient *http.Client, baseURL, userID string) ([]types.Repository, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s%s/repo/user/%s", baseURL, basePath, userID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, apierr.Network("list user repositories", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, apierr.FromResponse("list user repositories", resp)
	}

	var lr types.ListUserRepositoriesResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return nil, err
	}
	return lr.Repositories, nil
}

// CreateCommit appends a commit to the repository and returns the updated
// repository as the server sees it.
func CreateCommit(ctx context.Context, httpClient *http.Client, baseURL, repoID string, req types.CreateCommitRequest) (*types.Repository, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateCommitMessage(req.Message); err != nil {
		return nil, err
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s%s/repo/%s/commit", baseURL, basePath, repoID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, apierr.Network("create commit", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, apierr.FromResponse("create commit", resp)
	}

	var repo types.Repository
	if err := json.NewDecoder(resp.Body).Decode(&repo); err != nil {
		return nil, err
	}
	return &repo, nil
}

// Push triggers a push on the server side. Stateless; only the returned
// message matters to the caller.
func Push(ctx context.Context, httpClient *http.Client, baseURL, repoID string) (string, error) {
	return trigger(ctx, httpClient, baseURL, repoID, "push")
}

// Pull triggers a pull on the server side.
func Pull(ctx context.Context, httpClient *http.Client, baseURL, repoID string) (string, error) {
	return trigger(ctx, httpClient, baseURL, repoID, "pull")
}

func trigger(ctx context.Context, httpClient *http.Client, baseURL, repoID, op string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	url := fmt.Sprintf("%s%s/repo/%s/%s", baseURL, basePath, repoID, op)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return "", apierr.Network(op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", apierr.FromResponse(op, resp)
	}

	var mr types.MessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return "", err
	}
	return mr.Message, nil
}

// ToggleVisibility flips public/private and returns the full updated
// repository, which the caller adopts as the new snapshot wholesale.
func ToggleVisibility(ctx context.Context, httpClient *http.Client, baseURL, repoID string) (*types.Repository, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s%s/repo/toggle/%s", baseURL, basePath, repoID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, apierr.Network("toggle visibility", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, apierr.FromResponse("toggle visibility", resp)
	}

	var env types.RepositoryEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, err
	}
	if env.Repository == nil {
		return nil, apierr.New(apierr.KindServer, "toggle visibility: response missing repository")
	}
	return env.Repository, nil
}

// UpdateDescription replaces the repository description and returns the full
// updated repository.
func UpdateDescription(ctx context.Context, httpClient *http.Client, baseURL, repoID, description string) (*types.Repository, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	body, err := json.Marshal(types.UpdateDescriptionRequest{Description: description})
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s%s/repo/update/%s", baseURL, basePath, repoID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, apierr.Network("update description", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, apierr.FromResponse("update description", resp)
	}

	var env types.RepositoryEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, err
	}
	if env.Repository == nil {
		return nil, apierr.New(apierr.KindServer, "update description: response missing repository")
	}
	return env.Repository, nil
}

// DeleteRepository removes the repository. Any 2xx counts as success.
func DeleteRepository(ctx context.Context, httpClient *http.Client, baseURL, repoID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	url := fmt.Sprintf("%s%s/repo/delete/%s", baseURL, basePath, repoID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return err
	}
	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return apierr.Network("delete repository", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apierr.FromResponse("delete repository", resp)
	}
	return nil
}
