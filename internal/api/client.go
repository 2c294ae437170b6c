// Package api talks to the external persistence service that is the
// durable owner of record for users and friendships. It is consulted
// on load and treated as advisory thereafter: callers apply optimistic
// local state first and log, rather than retry, a failed call.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultTimeout = 10 * time.Second

// StatusError is returned for any non-2xx response and carries the
// response body, which the service uses for human-readable messages.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api responded %d: %s", e.StatusCode, e.Body)
}

// User is the persistence service's view of a person
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role,omitempty"`
}

// Client wraps the REST endpoints of the persistence service.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the given base URL, e.g.
// "http://localhost:4000/api".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// CreateUser registers a user. An empty role defaults server-side.
func (c *Client) CreateUser(ctx context.Context, id, name, role string) (*User, error) {
	body := map[string]string{"id": id, "name": name}
	if role != "" {
		body["role"] = role
	}
	var user User
	if err := c.post(ctx, "/users", body, &user); err != nil {
		return nil, fmt.Errorf("create user %s: %w", id, err)
	}
	return &user, nil
}

// GetUser fetches a user by id.
func (c *Client) GetUser(ctx context.Context, id string) (*User, error) {
	var user User
	if err := c.get(ctx, "/users/"+id, &user); err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return &user, nil
}

// GetFriends lists a user's confirmed friends.
func (c *Client) GetFriends(ctx context.Context, userID string) ([]User, error) {
	var friends []User
	if err := c.get(ctx, "/users/"+userID+"/friends", &friends); err != nil {
		return nil, fmt.Errorf("get friends of %s: %w", userID, err)
	}
	return friends, nil
}

// GetPendingRequests lists the users with requests pending toward userID.
func (c *Client) GetPendingRequests(ctx context.Context, userID string) ([]User, error) {
	var pending []User
	if err := c.get(ctx, "/users/"+userID+"/requests", &pending); err != nil {
		return nil, fmt.Errorf("get pending requests of %s: %w", userID, err)
	}
	return pending, nil
}

// SendFriendRequest records a pending friendship proposal.
func (c *Client) SendFriendRequest(ctx context.Context, from, to string) error {
	body := map[string]string{"fromId": from, "toId": to}
	if err := c.post(ctx, "/friend-request", body, nil); err != nil {
		return fmt.Errorf("send friend request %s->%s: %w", from, to, err)
	}
	return nil
}

// AcceptFriendRequest converts a pending proposal into a friendship.
func (c *Client) AcceptFriendRequest(ctx context.Context, from, to string) error {
	body := map[string]string{"fromId": from, "toId": to}
	if err := c.post(ctx, "/friend-accept", body, nil); err != nil {
		return fmt.Errorf("accept friend request %s->%s: %w", from, to, err)
	}
	return nil
}

// DeclineFriendRequest discards a pending proposal.
func (c *Client) DeclineFriendRequest(ctx context.Context, from, to string) error {
	body := map[string]string{"fromId": from, "toId": to}
	if err := c.post(ctx, "/friend-decline", body, nil); err != nil {
		return fmt.Errorf("decline friend request %s->%s: %w", from, to, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return &StatusError{StatusCode: res.StatusCode, Body: string(body)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
