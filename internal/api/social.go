package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gitden/gitden-go/internal/apierr"
	"github.com/gitden/gitden-go/internal/types"
)

// Star adds repoID to the acting user's starred set.
func Star(ctx context.Context, httpClient *http.Client, baseURL, repoID string) error {
	return starAction(ctx, httpClient, baseURL, "star", repoID)
}

// Unstar removes repoID from the acting user's starred set.
func Unstar(ctx context.Context, httpClient *http.Client, baseURL, repoID string) error {
	return starAction(ctx, httpClient, baseURL, "unstar", repoID)
}

func starAction(ctx context.Context, httpClient *http.Client, baseURL, action, repoID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	url := fmt.Sprintf("%s%s/user/%s/%s", baseURL, basePath, action, repoID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return err
	}
	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return apierr.Network(action, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apierr.FromResponse(action, resp)
	}
	return nil
}

// Follow subscribes the acting user to subjectID and returns the server's
// acknowledgment message.
func Follow(ctx context.Context, httpClient *http.Client, baseURL, subjectID string) (string, error) {
	return followAction(ctx, httpClient, baseURL, "follow", subjectID)
}

// Unfollow removes the acting user's subscription to subjectID.
func Unfollow(ctx context.Context, httpClient *http.Client, baseURL, subjectID string) (string, error) {
	return followAction(ctx, httpClient, baseURL, "unfollow", subjectID)
}

func followAction(ctx context.Context, httpClient *http.Client, baseURL, action, subjectID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	url := fmt.Sprintf("%s%s/user/%s/%s", baseURL, basePath, action, subjectID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return "", apierr.Network(action, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", apierr.FromResponse(action, resp)
	}

	var mr types.MessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return "", err
	}
	return mr.Message, nil
}

// ListStarred returns the repositories userID has starred.
func ListStarred(ctx context.Context, httpClient *http.Client, baseURL, userID string) ([]types.Repository, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s%s/user/%s/starred", baseURL, basePath, userID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, apierr.Network("list starred", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, apierr.FromResponse("list starred", resp)
	}

	var repos []types.Repository
	if err := json.NewDecoder(resp.Body).Decode(&repos); err != nil {
		return nil, err
	}
	return repos, nil
}
