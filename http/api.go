package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/attfetch/attfetch"
)

// DefaultPageSize is the page size used when draining paginated endpoints.
const DefaultPageSize = 100

// APIClient talks to the listing site's JSON API using OAuth client
// credentials. The bearer token has a single synchronized owner: refresh
// goes through a mutex, and requests read a snapshot of the token — call
// sites never mutate shared header state.
type APIClient struct {
	client  *http.Client
	baseURL string
	uid     string
	secret  string

	mu    sync.Mutex
	token string
}

// NewAPIClient creates an APIClient for baseURL with the given client
// credentials. If client is nil, http.DefaultClient is used. No token is
// fetched until the first request needs one.
func NewAPIClient(client *http.Client, baseURL, uid, secret string) *APIClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &APIClient{
		client:  client,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		uid:     uid,
		secret:  secret,
	}
}

// Get performs an authenticated GET against endpoint and decodes the JSON
// response into out. Params may be nil; the caller's map is never mutated.
func (c *APIClient) Get(ctx context.Context, endpoint string, params url.Values, out any) error {
	token, err := c.currentToken(ctx)
	if err != nil {
		return err
	}

	u := c.baseURL + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &attfetch.RetrievalError{Op: "api get", URL: u, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return attfetch.Errorf(attfetch.EINTERNAL, "invalid JSON response from %s: %v", endpoint, err)
	}

	return nil
}

// GetAllPages drains a paginated endpoint, fetching page after page until
// an empty or short page signals the end. Params are cloned per page, so
// the caller's map is never mutated across calls.
func (c *APIClient) GetAllPages(ctx context.Context, endpoint string, params url.Values, pageSize int) ([]json.RawMessage, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	var all []json.RawMessage
	for page := 1; ; page++ {
		p := url.Values{}
		for k, vs := range params {
			p[k] = append([]string(nil), vs...)
		}
		p.Set("page[number]", strconv.Itoa(page))
		p.Set("page[size]", strconv.Itoa(pageSize))

		var results []json.RawMessage
		if err := c.Get(ctx, endpoint, p, &results); err != nil {
			return nil, err
		}
		if len(results) == 0 {
			break
		}
		all = append(all, results...)
		if len(results) < pageSize {
			break
		}
	}

	return all, nil
}

// currentToken returns the cached bearer token, fetching one if none is
// held yet. Concurrent callers serialize on the mutex so at most one
// refresh is in flight.
func (c *APIClient) currentToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" {
		return c.token, nil
	}

	token, err := c.fetchToken(ctx)
	if err != nil {
		return "", err
	}
	c.token = token
	return token, nil
}

// InvalidateToken discards the cached token so the next request fetches a
// fresh one. Callers use this after a 401.
func (c *APIClient) InvalidateToken() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
}

func (c *APIClient) fetchToken(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.uid)
	form.Set("client_secret", c.secret)

	u := c.baseURL + "/oauth/token"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &attfetch.RetrievalError{Op: "oauth token", URL: u, Status: resp.StatusCode}
	}

	var payload struct {
		AccessToken      string `json:"access_token"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", attfetch.Errorf(attfetch.EINTERNAL, "invalid JSON response from /oauth/token: %v", err)
	}
	if payload.AccessToken == "" {
		return "", attfetch.Errorf(attfetch.EUNAVAILABLE, "token request rejected: %s", payload.ErrorDescription)
	}

	return payload.AccessToken, nil
}
