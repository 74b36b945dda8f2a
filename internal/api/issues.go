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

// ListIssues returns the issues of one repository, server-ordered.
func ListIssues(ctx context.Context, httpClient *http.Client, baseURL, repoID string) ([]types.Issue, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s%s/repo/%s/issues", baseURL, basePath, repoID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, apierr.Network("list issues", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, apierr.FromResponse("list issues", resp)
	}

	var issues []types.Issue
	if err := json.NewDecoder(resp.Body).Decode(&issues); err != nil {
		return nil, err
	}
	return issues, nil
}

// CreateIssue opens a new issue. Callers re-fetch the list afterwards so
// ordering and ids stay server-assigned.
func CreateIssue(ctx context.Context, httpClient *http.Client, baseURL, repoID string, req types.CreateIssueRequest) (*types.Issue, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateIssueContent(req.Content); err != nil {
		return nil, err
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s%s/repo/%s/issues", baseURL, basePath, repoID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, apierr.Network("create issue", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, apierr.FromResponse("create issue", resp)
	}

	var issue types.Issue
	if err := json.NewDecoder(resp.Body).Decode(&issue); err != nil {
		return nil, err
	}
	return &issue, nil
}
