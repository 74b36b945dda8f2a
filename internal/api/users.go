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

// GetUserProfile retrieves a user's profile. With a bearer token present the
// server also fills IsFollowing and the acting user's starred set.
func GetUserProfile(ctx context.Context, httpClient *http.Client, baseURL, userID string) (*types.UserProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s%s/user/userProfile/%s", baseURL, basePath, userID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, apierr.Network("get user profile", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, apierr.FromResponse("get user profile", resp)
	}

	var up types.UserProfile
	if err := json.NewDecoder(resp.Body).Decode(&up); err != nil {
		return nil, err
	}
	if up.ID == "" {
		return nil, apierr.New(apierr.KindServer, "get user profile: invalid user data")
	}
	return &up, nil
}

// UpdateProfile applies settings-page edits (email, optionally password) and
// returns the updated profile.
func UpdateProfile(ctx context.Context, httpClient *http.Client, baseURL, userID string, req types.UpdateProfileRequest) (*types.UserProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s%s/user/updateProfile/%s", baseURL, basePath, userID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, apierr.Network("update profile", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, apierr.FromResponse("update profile", resp)
	}

	var up types.UserProfile
	if err := json.NewDecoder(resp.Body).Decode(&up); err != nil {
		return nil, err
	}
	return &up, nil
}

// Contributions returns the pre-aggregated per-day activity series used by
// the heatmap. The client never mutates or re-aggregates these points.
func Contributions(ctx context.Context, httpClient *http.Client, baseURL, userID string) ([]types.ContributionPoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s%s/user/%s/contributions", baseURL, basePath, userID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, apierr.Network("contributions", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, apierr.FromResponse("contributions", resp)
	}

	var points []types.ContributionPoint
	if err := json.NewDecoder(resp.Body).Decode(&points); err != nil {
		return nil, err
	}
	return points, nil
}
