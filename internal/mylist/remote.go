package mylist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Credentials supplies the session token. An empty token means signed out.
type Credentials interface {
	Token() string
}

// StaticToken is a fixed token, typically taken from the environment.
type StaticToken string

func (t StaticToken) Token() string { return string(t) }

// TokenFile reads the token saved by a previous login.
type TokenFile struct {
	path string
}

func NewTokenFile(path string) *TokenFile {
	return &TokenFile{path: path}
}

func (f *TokenFile) Token() string {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func (f *TokenFile) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o750); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	if err := os.WriteFile(f.path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	return nil
}

func (f *TokenFile) Clear() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}

// RemoteMovie is the catalog part of a server watchlist entry.
type RemoteMovie struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Rating      float64  `json:"rating"`
	Year        int      `json:"year"`
	Category    string   `json:"category"`
	Genres      []string `json:"genre"`
}

type RemoteEntry struct {
	ID      string       `json:"id"`
	MovieID string       `json:"movieId"`
	Movie   *RemoteMovie `json:"movie"`
	AddedAt time.Time    `json:"addedAt"`
	Watched bool         `json:"watched"`
}

// Remote is the server side of the watchlist.
type Remote interface {
	Fetch(ctx context.Context, token string) ([]RemoteEntry, error)
	Add(ctx context.Context, token, itemID string) (*RemoteEntry, error)
	Remove(ctx context.Context, token, itemID string) error
}

// RemoteError is a non-2xx answer from the API.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("api returned status %d: %s", e.Status, e.Message)
}

// IsRemoteStatus reports whether err is a RemoteError with the given status.
func IsRemoteStatus(err error, status int) bool {
	var re *RemoteError
	return errors.As(err, &re) && re.Status == status
}

const fetchPageSize = 200

// APIClient talks to the catalog API over HTTP. It has no retries; the
// client timeout bounds every call.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewAPIClient(baseURL string, timeout time.Duration) *APIClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &APIClient{
		baseURL: strings.TrimSuffix(baseURL, "/") + "/api/v1",
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Login exchanges credentials for a session token.
func (c *APIClient) Login(ctx context.Context, email, password string) (string, error) {
	var session struct {
		Token string `json:"token"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", body, &session); err != nil {
		return "", err
	}
	if session.Token == "" {
		return "", errors.New("login response carried no token")
	}
	return session.Token, nil
}

// Fetch returns every entry on the server list, watched or not.
func (c *APIClient) Fetch(ctx context.Context, token string) ([]RemoteEntry, error) {
	var all []RemoteEntry
	for _, watched := range []bool{false, true} {
		for skip := 0; ; skip += fetchPageSize {
			q := url.Values{}
			q.Set("watched", strconv.FormatBool(watched))
			q.Set("limit", strconv.Itoa(fetchPageSize))
			q.Set("skip", strconv.Itoa(skip))

			var page []RemoteEntry
			if err := c.do(ctx, http.MethodGet, "/watchlist?"+q.Encode(), token, nil, &page); err != nil {
				return nil, err
			}
			all = append(all, page...)
			if len(page) < fetchPageSize {
				break
			}
		}
	}
	return all, nil
}

func (c *APIClient) Add(ctx context.Context, token, itemID string) (*RemoteEntry, error) {
	var entry RemoteEntry
	body := map[string]string{"priority": "medium"}
	if err := c.do(ctx, http.MethodPost, "/watchlist/"+url.PathEscape(itemID), token, body, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (c *APIClient) Remove(ctx context.Context, token, itemID string) error {
	return c.do(ctx, http.MethodDelete, "/watchlist/"+url.PathEscape(itemID), token, nil, nil)
}

func (c *APIClient) do(ctx context.Context, method, path, token string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := env.Message
		if decodeErr != nil || msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &RemoteError{Status: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return fmt.Errorf("failed to decode response: %w", decodeErr)
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}
