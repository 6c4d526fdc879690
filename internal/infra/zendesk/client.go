// Package zendesk is a thin HTTP client for the Zendesk Support and Help Center REST APIs.
package zendesk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/zendesk-mcp/zendesk-mcp-go/internal/logger"
)

// maxPages bounds pagination loops
const maxPages = 50

// Config contains client configuration
type Config struct {
	Subdomain string
	Email     string
	APIKey    string
	// BaseURL overrides https://<subdomain>.zendesk.com
	BaseURL string
	Timeout time.Duration
	// MaxDownloadBytes bounds attachment downloads; 0 means unbounded
	MaxDownloadBytes int64
}

// Client is the HTTP client for the Zendesk API
type Client struct {
	baseURL    *url.URL
	email      string
	apiKey     string
	maxBytes   int64
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a new Zendesk client
func NewClient(cfg Config) (*Client, error) {
	raw := cfg.BaseURL
	if raw == "" {
		if cfg.Subdomain == "" {
			return nil, fmt.Errorf("zendesk subdomain or base url is required")
		}
		raw = fmt.Sprintf("https://%s.zendesk.com", cfg.Subdomain)
	}
	base, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid zendesk base url: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL:  base,
		email:    cfg.Email,
		apiKey:   cfg.APIKey,
		maxBytes: cfg.MaxDownloadBytes,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: logger.WithComponent("zendesk"),
	}, nil
}

// APIError is a non-2xx response
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// Message extracts the human-readable part of a Zendesk error body
func (e *APIError) Message() string {
	var body struct {
		Error       any    `json:"error"`
		Description string `json:"description"`
		Details     any    `json:"details"`
	}
	if err := json.Unmarshal([]byte(e.Body), &body); err != nil {
		return strings.TrimSpace(e.Body)
	}
	parts := make([]string, 0, 2)
	switch v := body.Error.(type) {
	case string:
		parts = append(parts, v)
	case map[string]any:
		if title, ok := v["title"].(string); ok {
			parts = append(parts, title)
		}
		if msg, ok := v["message"].(string); ok {
			parts = append(parts, msg)
		}
	}
	if body.Description != "" {
		parts = append(parts, body.Description)
	}
	if len(parts) == 0 {
		return strings.TrimSpace(e.Body)
	}
	return strings.Join(parts, ": ")
}

// ============ Tickets ============

// GetTicket gets a ticket by id
func (c *Client) GetTicket(ctx context.Context, id int64) (*Ticket, error) {
	var result struct {
		Ticket Ticket `json:"ticket"`
	}
	if err := c.get(ctx, fmt.Sprintf("/api/v2/tickets/%d.json", id), nil, &result); err != nil {
		return nil, err
	}
	return &result.Ticket, nil
}

// GetTicketComments gets all comments of a ticket, following pagination
func (c *Client) GetTicketComments(ctx context.Context, ticketID int64) ([]Comment, error) {
	var comments []Comment
	next := c.resolve(fmt.Sprintf("/api/v2/tickets/%d/comments.json", ticketID), nil)
	for page := 0; next != "" && page < maxPages; page++ {
		var result struct {
			Comments []Comment `json:"comments"`
			NextPage string    `json:"next_page"`
		}
		if err := c.getURL(ctx, next, &result); err != nil {
			return nil, err
		}
		comments = append(comments, result.Comments...)
		next = result.NextPage
	}
	if next != "" {
		c.log.Warn("pagination limit reached, comments truncated", "ticket_id", ticketID, "pages", maxPages, "count", len(comments))
	}
	return comments, nil
}

// UpdateTicket sends a ticket update and returns the updated ticket with its audit
func (c *Client) UpdateTicket(ctx context.Context, id int64, update any) (*TicketUpdateResult, error) {
	var result TicketUpdateResult
	if err := c.put(ctx, fmt.Sprintf("/api/v2/tickets/%d.json", id), update, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AddComment adds an HTML comment to a ticket
func (c *Client) AddComment(ctx context.Context, ticketID int64, htmlBody string, public bool) (*TicketUpdateResult, error) {
	body := map[string]any{
		"ticket": map[string]any{
			"comment": map[string]any{
				"html_body": htmlBody,
				"public":    public,
			},
		},
	}
	return c.UpdateTicket(ctx, ticketID, body)
}

// ============ Attachments ============

// GetAttachment gets attachment metadata
func (c *Client) GetAttachment(ctx context.Context, id int64) (*Attachment, error) {
	var result struct {
		Attachment Attachment `json:"attachment"`
	}
	if err := c.get(ctx, fmt.Sprintf("/api/v2/attachments/%d.json", id), nil, &result); err != nil {
		return nil, err
	}
	return &result.Attachment, nil
}

// Download fetches the bytes behind a content url.
// Credentials are only sent when the url is on the API host.
func (c *Client) Download(ctx context.Context, contentURL string) ([]byte, string, error) {
	u, err := url.Parse(contentURL)
	if err != nil {
		return nil, "", fmt.Errorf("invalid content url: %w", err)
	}
	if !u.IsAbs() {
		u = c.baseURL.ResolveReference(u)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("HTTP GET failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, "", &APIError{Method: http.MethodGet, Path: u.Path, StatusCode: resp.StatusCode, Body: string(body)}
	}

	var reader io.Reader = resp.Body
	if c.maxBytes > 0 {
		// one extra byte lets the caller see the payload was over the cap
		reader = io.LimitReader(resp.Body, c.maxBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read attachment: %w", err)
	}
	return data, resp.Header.Get("Content-Type"), nil
}

// ============ Help Center ============

// ListSections lists all help center sections, following pagination
func (c *Client) ListSections(ctx context.Context) ([]Section, error) {
	var sections []Section
	next := c.resolve("/api/v2/help_center/sections.json", url.Values{"per_page": {"100"}})
	for page := 0; next != "" && page < maxPages; page++ {
		var result struct {
			Sections []Section `json:"sections"`
			NextPage string    `json:"next_page"`
		}
		if err := c.getURL(ctx, next, &result); err != nil {
			return nil, err
		}
		sections = append(sections, result.Sections...)
		next = result.NextPage
	}
	if next != "" {
		c.log.Warn("pagination limit reached, sections truncated", "pages", maxPages, "count", len(sections))
	}
	return sections, nil
}

// GetArticle gets an article in a locale
func (c *Client) GetArticle(ctx context.Context, id int64, locale string) (*Article, error) {
	var result struct {
		Article Article `json:"article"`
	}
	path := fmt.Sprintf("/api/v2/help_center/%s/articles/%d.json", url.PathEscape(locale), id)
	if err := c.get(ctx, path, nil, &result); err != nil {
		return nil, err
	}
	return &result.Article, nil
}

// SearchArticles runs a help center search
func (c *Client) SearchArticles(ctx context.Context, query, locale string, limit int) ([]Article, error) {
	var result struct {
		Results []Article `json:"results"`
	}
	params := url.Values{
		"query":    {query},
		"locale":   {locale},
		"per_page": {strconv.Itoa(limit)},
	}
	if err := c.get(ctx, "/api/v2/help_center/articles/search.json", params, &result); err != nil {
		return nil, err
	}
	return result.Results, nil
}

// ListSectionArticles lists the first page of a section's articles
func (c *Client) ListSectionArticles(ctx context.Context, sectionID int64, locale string, limit int) ([]Article, error) {
	var result struct {
		Articles []Article `json:"articles"`
	}
	path := fmt.Sprintf("/api/v2/help_center/%s/sections/%d/articles.json", url.PathEscape(locale), sectionID)
	if err := c.get(ctx, path, url.Values{"per_page": {strconv.Itoa(limit)}}, &result); err != nil {
		return nil, err
	}
	return result.Articles, nil
}

// ============ Macros ============

// SearchMacros searches macros by title
func (c *Client) SearchMacros(ctx context.Context, query string, limit int) ([]Macro, error) {
	var result struct {
		Macros []Macro `json:"macros"`
	}
	params := url.Values{
		"query":    {query},
		"per_page": {strconv.Itoa(limit)},
	}
	if err := c.get(ctx, "/api/v2/macros/search.json", params, &result); err != nil {
		return nil, err
	}
	return result.Macros, nil
}

// GetMacro gets a macro by id
func (c *Client) GetMacro(ctx context.Context, id int64) (*Macro, error) {
	var result struct {
		Macro Macro `json:"macro"`
	}
	if err := c.get(ctx, fmt.Sprintf("/api/v2/macros/%d.json", id), nil, &result); err != nil {
		return nil, err
	}
	return &result.Macro, nil
}

// ApplyMacro returns the changes a macro would make to a ticket without saving them
func (c *Client) ApplyMacro(ctx context.Context, ticketID, macroID int64) (*MacroApplyResult, error) {
	var result struct {
		Result MacroApplyResult `json:"result"`
	}
	path := fmt.Sprintf("/api/v2/tickets/%d/macros/%d/apply.json", ticketID, macroID)
	if err := c.get(ctx, path, nil, &result); err != nil {
		return nil, err
	}
	return &result.Result, nil
}

// ============ HTTP Helpers ============

func (c *Client) resolve(path string, params url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(c.baseURL.Path, "/") + path
	if len(params) > 0 {
		u.RawQuery = params.Encode()
	}
	return u.String()
}

// authorize adds credentials, but only for requests to the API host
func (c *Client) authorize(req *http.Request) {
	if c.email == "" && c.apiKey == "" {
		return
	}
	if !strings.EqualFold(req.URL.Host, c.baseURL.Host) {
		return
	}
	req.SetBasicAuth(c.email+"/token", c.apiKey)
}

func (c *Client) get(ctx context.Context, path string, params url.Values, result any) error {
	return c.getURL(ctx, c.resolve(path, params), result)
}

func (c *Client) getURL(ctx context.Context, rawURL string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req, result)
}

func (c *Client) put(ctx context.Context, path string, body any, result any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.resolve(path, nil), bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, result)
}

func (c *Client) do(req *http.Request, result any) error {
	req.Header.Set("Accept", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP %s failed: %w", req.Method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{Method: req.Method, Path: req.URL.Path, StatusCode: resp.StatusCode, Body: string(body)}
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
