package overleaf

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	// DefaultBaseURL is the hosted platform. Self-hosted instances
	// override it via OVERLEAF_BASE_URL.
	DefaultBaseURL = "https://www.overleaf.com"

	// sessionCookieName is the platform's login cookie.
	sessionCookieName = "overleaf_session2"
)

// Project is one entry from the authenticated project listing.
type Project struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Client talks to the document platform's JSON API using a session
// cookie. It resolves human project names to project ids and hands out
// per-project stores.
type Client struct {
	http    *http.Client
	baseURL string
	cookie  string

	ids *lru.Cache[string, string]
}

// NewClient builds a client for the given base URL. An empty baseURL
// selects the hosted platform. The session cookie value comes from the
// user's browser session and must not be empty.
func NewClient(baseURL, sessionCookie string) (*Client, error) {
	sessionCookie = strings.TrimSpace(sessionCookie)
	if sessionCookie == "" {
		return nil, fmt.Errorf("overleaf: session cookie is required")
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	ids, err := lru.New[string, string](128)
	if err != nil {
		return nil, err
	}
	return &Client{
		http:    &http.Client{Timeout: 60 * time.Second},
		baseURL: baseURL,
		cookie:  sessionCookie,
		ids:     ids,
	}, nil
}

// Projects returns the authenticated project listing.
func (c *Client) Projects(ctx context.Context) ([]Project, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	req, err := c.newRequest(ctx, http.MethodGet, "/api/projects", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	var projects []Project
	if err := json.NewDecoder(resp.Body).Decode(&projects); err != nil {
		return nil, fmt.Errorf("decode project listing: %w", err)
	}
	for _, p := range projects {
		if p.Name != "" && p.ID != "" {
			c.ids.Add(p.Name, p.ID)
		}
	}
	return projects, nil
}

// ResolveProjectID maps a human project name to its id, hitting the
// listing endpoint only on cache misses.
func (c *Client) ResolveProjectID(ctx context.Context, name string) (string, error) {
	if c == nil {
		return "", fmt.Errorf("client is nil")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("project name is required")
	}
	if id, ok := c.ids.Get(name); ok {
		return id, nil
	}
	projects, err := c.Projects(ctx)
	if err != nil {
		return "", err
	}
	for _, p := range projects {
		if p.Name == name {
			return p.ID, nil
		}
	}
	return "", fmt.Errorf("project %q not found", name)
}

// OpenProject resolves the project name and returns a store scoped to
// that project.
func (c *Client) OpenProject(ctx context.Context, name string) (*RemoteProject, error) {
	id, err := c.ResolveProjectID(ctx, name)
	if err != nil {
		return nil, err
	}
	return &RemoteProject{client: c, projectID: id}, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: c.cookie})
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(resp.Body)
	const max = 2048
	if len(body) > max {
		body = body[:max]
	}
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("overleaf: authentication failed (%s): check the session cookie", resp.Status)
	case http.StatusNotFound:
		return ErrNotFound
	}
	return fmt.Errorf("overleaf: unexpected status %s: %s", resp.Status, string(body))
}

// RemoteProject is a ProjectStore bound to one hosted project.
type RemoteProject struct {
	client    *Client
	projectID string
}

// ID exposes the resolved project id.
func (p *RemoteProject) ID() string {
	if p == nil {
		return ""
	}
	return p.projectID
}

func (p *RemoteProject) apiPath() string {
	return "/api/projects/" + url.PathEscape(p.projectID)
}

func (p *RemoteProject) Listdir(ctx context.Context, path string) ([]Entry, error) {
	if p == nil || p.client == nil {
		return nil, fmt.Errorf("project store is nil")
	}
	q := url.Values{"path": {normalizePath(path)}}
	req, err := p.client.newRequest(ctx, http.MethodGet, p.apiPath()+"/entries?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.client.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	var entries []Entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode folder listing: %w", err)
	}
	return entries, nil
}

func (p *RemoteProject) Exists(ctx context.Context, path string) (bool, error) {
	if p == nil || p.client == nil {
		return false, fmt.Errorf("project store is nil")
	}
	if normalizePath(path) == "" {
		return true, nil
	}
	q := url.Values{"path": {normalizePath(path)}}
	req, err := p.client.newRequest(ctx, http.MethodGet, p.apiPath()+"/stat?"+q.Encode(), nil)
	if err != nil {
		return false, err
	}
	resp, err := p.client.http.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		io.Copy(io.Discard, resp.Body)
		return false, nil
	}
	if err := checkStatus(resp); err != nil {
		return false, err
	}
	io.Copy(io.Discard, resp.Body)
	return true, nil
}

func (p *RemoteProject) Read(ctx context.Context, path string) ([]byte, error) {
	if p == nil || p.client == nil {
		return nil, fmt.Errorf("project store is nil")
	}
	if normalizePath(path) == "" {
		return nil, fmt.Errorf("path is required")
	}
	q := url.Values{"path": {normalizePath(path)}}
	req, err := p.client.newRequest(ctx, http.MethodGet, p.apiPath()+"/file?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.client.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	return io.ReadAll(resp.Body)
}

func (p *RemoteProject) Write(ctx context.Context, path string, content []byte) error {
	if p == nil || p.client == nil {
		return fmt.Errorf("project store is nil")
	}
	if normalizePath(path) == "" {
		return fmt.Errorf("path is required")
	}
	if content == nil {
		content = []byte{}
	}
	q := url.Values{"path": {normalizePath(path)}}
	req, err := p.client.newRequest(ctx, http.MethodPut, p.apiPath()+"/file?"+q.Encode(), bytes.NewReader(content))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	resp, err := p.client.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return checkStatus(resp)
}

func (p *RemoteProject) Mkdir(ctx context.Context, path string) error {
	if p == nil || p.client == nil {
		return fmt.Errorf("project store is nil")
	}
	if normalizePath(path) == "" {
		return nil
	}
	body, err := json.Marshal(map[string]string{"path": normalizePath(path)})
	if err != nil {
		return err
	}
	req, err := p.client.newRequest(ctx, http.MethodPost, p.apiPath()+"/folder", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := p.client.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	// Recreating an existing folder is fine.
	if resp.StatusCode == http.StatusConflict {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return checkStatus(resp)
}

func (p *RemoteProject) Remove(ctx context.Context, path string) error {
	if p == nil || p.client == nil {
		return fmt.Errorf("project store is nil")
	}
	if normalizePath(path) == "" {
		return fmt.Errorf("path is required")
	}
	q := url.Values{"path": {normalizePath(path)}}
	req, err := p.client.newRequest(ctx, http.MethodDelete, p.apiPath()+"/entity?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := p.client.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusConflict {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("folder %q is not empty", normalizePath(path))
	}
	return checkStatus(resp)
}
