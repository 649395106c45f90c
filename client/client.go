// Package client talks to the Awardly HTTP API from Go programs such as
// kiosks and load tools.
package client

import (
	"Awardly/models"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// APIError is a non 2xx answer of the API
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("awardly: %d %s", e.Status, e.Message)
}

type Client struct {
	baseURL string
	http    *http.Client
	// Token is sent as a bearer token when set
	Token string
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// WithHTTPClient swaps the underlying http.Client
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.http = h
	return c
}

// CastVote posts a vote and returns its id
func (c *Client) CastVote(ctx context.Context, lobbyID models.LobbyID, vote models.VoteCast) (models.VoteID, error) {
	var out struct {
		VoteID models.VoteID `json:"vote_id"`
	}
	err := c.do(ctx, http.MethodPost, "/lobbies/"+lobbyID.String()+"/votes", vote, &out)
	return out.VoteID, err
}

// LobbyByShareCode resolves a share code to a lobby id
func (c *Client) LobbyByShareCode(ctx context.Context, code string) (models.LobbyID, error) {
	var out struct {
		ID models.LobbyID `json:"id"`
	}
	err := c.do(ctx, http.MethodGet, "/join/"+code, nil, &out)
	return out.ID, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return &APIError{Status: resp.StatusCode, Message: apiErr.Error}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
