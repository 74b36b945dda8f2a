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

// Login exchanges credentials for a bearer token. No auth header is sent.
func Login(ctx context.Context, httpClient *http.Client, baseURL string, req types.LoginRequest) (*types.AuthResponse, error) {
	return postAuth(ctx, httpClient, baseURL, "login", req)
}

// Signup registers a new account and returns the same shape as Login.
func Signup(ctx context.Context, httpClient *http.Client, baseURL string, req types.SignupRequest) (*types.AuthResponse, error) {
	return postAuth(ctx, httpClient, baseURL, "signup", req)
}

func postAuth(ctx context.Context, httpClient *http.Client, baseURL, op string, payload any) (*types.AuthResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s%s/user/%s", baseURL, basePath, op)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, apierr.Network(op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, apierr.FromResponse(op, resp)
	}

	var ar types.AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil {
		return nil, err
	}
	if ar.Token == "" || ar.UserID == "" {
		return nil, apierr.New(apierr.KindServer, op+": response missing token or userId")
	}
	return &ar, nil
}
