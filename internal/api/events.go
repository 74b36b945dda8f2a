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

// ListUpcomingEvents returns the dashboard's upcoming-events panel data.
func ListUpcomingEvents(ctx context.Context, httpClient *http.Client, baseURL string) ([]types.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s%s/events/upcoming", baseURL, basePath)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, apierr.Network("list upcoming events", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, apierr.FromResponse("list upcoming events", resp)
	}

	var events []types.Event
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return nil, err
	}
	return events, nil
}

// CreateEvent schedules a new event.
func CreateEvent(ctx context.Context, httpClient *http.Client, baseURL string, req types.CreateEventRequest) (*types.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateEvent(req.Title, req.EventDate); err != nil {
		return nil, err
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s%s/events/create", baseURL, basePath)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, apierr.Network("create event", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, apierr.FromResponse("create event", resp)
	}

	var ev types.Event
	if err := json.NewDecoder(resp.Body).Decode(&ev); err != nil {
		return nil, err
	}
	return &ev, nil
}
