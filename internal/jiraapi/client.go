package jiraapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	jira "github.com/andygrunwald/go-jira"
	"github.com/roeyazroel/jira-tui/internal/logger"
)

const (
	// DefaultTimeout bounds each HTTP request when ClientConfig.Timeout is unset.
	DefaultTimeout = 30 * time.Second

	boardPageSize = 50
	// maxBoardPages stops a misbehaving server from paginating forever.
	maxBoardPages = 40

	// jiraTimeLayout is the timestamp layout Jira uses in worklog payloads.
	jiraTimeLayout = "2006-01-02T15:04:05.000-0700"

	issueFields = "summary,description,status,priority,assignee,created,updated"
)

// ClientConfig contains configuration for creating a new Jira client.
type ClientConfig struct {
	// BaseURL is the site root, e.g. https://acme.atlassian.net.
	BaseURL string
	// Email and Token are the basic-auth credentials (account email and API token).
	Email string
	Token string
	// HTTPClient is optional. Its transport is wrapped with basic auth.
	HTTPClient *http.Client
	// Timeout is the HTTP request timeout (defaults to 30s).
	Timeout time.Duration
}

// Client talks to the Jira Cloud REST and Agile APIs. It holds no per-call
// state and is safe for concurrent use.
type Client struct {
	jira    *jira.Client
	baseURL string
}

// NewClient creates a Jira client from cfg.
func NewClient(cfg ClientConfig) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("new client: empty base URL")
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	tp := jira.BasicAuthTransport{
		Username: cfg.Email,
		Password: cfg.Token,
	}
	if cfg.HTTPClient != nil && cfg.HTTPClient.Transport != nil {
		tp.Transport = cfg.HTTPClient.Transport
	}
	httpClient := tp.Client()
	httpClient.Timeout = timeout

	jc, err := jira.NewClient(httpClient, base+"/")
	if err != nil {
		return nil, fmt.Errorf("new client: %w", err)
	}

	return &Client{jira: jc, baseURL: base}, nil
}

// BaseURL returns the site root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// BrowseURL returns the web link for an issue.
func (c *Client) BrowseURL(issueKey string) string {
	return c.baseURL + "/browse/" + url.PathEscape(issueKey)
}

// do sends a request and decodes the response into v when v is non-nil.
func (c *Client) do(ctx context.Context, op, method, path string, body, v any) error {
	req, err := c.jira.NewRequestWithContext(ctx, method, path, body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}

	resp, err := c.jira.Do(req, v)
	if err != nil {
		if resp != nil && resp.Body != nil {
			defer resp.Body.Close()
		}
		return classify(op, resp, err)
	}
	if v == nil && resp != nil && resp.Body != nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}
	return nil
}

type boardListDTO struct {
	Values []struct {
		ID       uint64 `json:"id"`
		Name     string `json:"name"`
		Type     string `json:"type"`
		Location *struct {
			ProjectKey string `json:"projectKey"`
		} `json:"location"`
	} `json:"values"`
	IsLast bool `json:"isLast"`
}

// ListBoards fetches every board visible to the user.
func (c *Client) ListBoards(ctx context.Context) ([]Board, error) {
	var boards []Board
	startAt := 0

	for page := 0; page < maxBoardPages; page++ {
		q := url.Values{}
		q.Set("startAt", strconv.Itoa(startAt))
		q.Set("maxResults", strconv.Itoa(boardPageSize))

		var dto boardListDTO
		if err := c.do(ctx, "list boards", http.MethodGet, "rest/agile/1.0/board?"+q.Encode(), nil, &dto); err != nil {
			logger.ErrorWithErr(err, "jiraapi: ListBoards failed start_at=%d", startAt)
			return nil, err
		}

		for _, v := range dto.Values {
			projectKey := "UNKNOWN"
			if v.Location != nil && v.Location.ProjectKey != "" {
				projectKey = v.Location.ProjectKey
			}
			boards = append(boards, Board{
				ID:         v.ID,
				Name:       v.Name,
				ProjectKey: projectKey,
				Type:       v.Type,
			})
		}

		if dto.IsLast || len(dto.Values) == 0 {
			break
		}
		startAt += len(dto.Values)
	}

	logger.Debug("jiraapi: listed boards count=%d", len(boards))
	return boards, nil
}

type namedDTO struct {
	Name string `json:"name"`
}

type userDTO struct {
	DisplayName string `json:"displayName"`
}

type issuePageDTO struct {
	StartAt    int `json:"startAt"`
	MaxResults int `json:"maxResults"`
	Total      int `json:"total"`
	Issues     []struct {
		Key    string `json:"key"`
		Fields struct {
			Summary     string          `json:"summary"`
			Description json.RawMessage `json:"description"`
			Status      *namedDTO       `json:"status"`
			Priority    *namedDTO       `json:"priority"`
			Assignee    *userDTO        `json:"assignee"`
			Created     string          `json:"created"`
			Updated     string          `json:"updated"`
		} `json:"fields"`
	} `json:"issues"`
}

// ListIssues fetches one page of a board's issues matching filter.
func (c *Client) ListIssues(ctx context.Context, boardID uint64, startAt, maxResults int, filter IssueFilter) (Page[Issue], error) {
	q := url.Values{}
	q.Set("startAt", strconv.Itoa(startAt))
	q.Set("maxResults", strconv.Itoa(maxResults))
	q.Set("fields", issueFields)
	if jql := filter.JQL(); jql != "" {
		q.Set("jql", jql)
	}

	path := fmt.Sprintf("rest/agile/1.0/board/%d/issue?%s", boardID, q.Encode())
	var dto issuePageDTO
	if err := c.do(ctx, fmt.Sprintf("list issues for board %d", boardID), http.MethodGet, path, nil, &dto); err != nil {
		logger.ErrorWithErr(err, "jiraapi: ListIssues failed board=%d start_at=%d", boardID, startAt)
		return Page[Issue]{}, err
	}

	issues := make([]Issue, 0, len(dto.Issues))
	for _, raw := range dto.Issues {
		f := raw.Fields
		issue := Issue{
			Key:         raw.Key,
			Summary:     f.Summary,
			Description: flattenRichText(f.Description),
			Created:     parseTime(f.Created),
			Updated:     parseTime(f.Updated),
		}
		if f.Status != nil {
			issue.Status = ParseStatus(f.Status.Name)
		}
		if f.Priority != nil {
			issue.Priority = f.Priority.Name
		}
		if f.Assignee != nil {
			issue.Assignee = f.Assignee.DisplayName
		}
		issues = append(issues, issue)
	}

	logger.Debug("jiraapi: listed issues board=%d start_at=%d count=%d total=%d", boardID, dto.StartAt, len(issues), dto.Total)
	return Page[Issue]{
		Items:      issues,
		Total:      dto.Total,
		StartAt:    dto.StartAt,
		MaxResults: dto.MaxResults,
	}, nil
}

// TransitionIssue moves an issue through its workflow.
func (c *Client) TransitionIssue(ctx context.Context, issueKey, transitionID string) error {
	return fmt.Errorf("transition issue %s: %w", issueKey, ErrUnimplemented)
}

// parseTime parses Jira timestamps, returning the zero time when s is empty or
// malformed.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{jiraTimeLayout, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
