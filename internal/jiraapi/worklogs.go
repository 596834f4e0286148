package jiraapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/roeyazroel/jira-tui/internal/logger"
)

type worklogPayload struct {
	TimeSpentSeconds int      `json:"timeSpentSeconds"`
	Started          string   `json:"started"`
	Comment          *adfNode `json:"comment,omitempty"`
}

type worklogPageDTO struct {
	StartAt    int `json:"startAt"`
	MaxResults int `json:"maxResults"`
	Total      int `json:"total"`
	Worklogs   []struct {
		ID               string          `json:"id"`
		IssueID          string          `json:"issueId"`
		TimeSpentSeconds int             `json:"timeSpentSeconds"`
		Comment          json.RawMessage `json:"comment"`
		Started          string          `json:"started"`
		Author           *userDTO        `json:"author"`
		Created          string          `json:"created"`
		Updated          string          `json:"updated"`
	} `json:"worklogs"`
}

func worklogPath(issueKey string, worklogID ...string) string {
	path := "rest/api/3/issue/" + url.PathEscape(issueKey) + "/worklog"
	if len(worklogID) > 0 {
		path += "/" + url.PathEscape(worklogID[0])
	}
	return path
}

func (w Worklog) payload() (worklogPayload, error) {
	if strings.TrimSpace(w.IssueKey) == "" {
		return worklogPayload{}, fmt.Errorf("%w: missing issue key", ErrInvalidWorklog)
	}
	if w.TimeSpentSeconds <= 0 {
		return worklogPayload{}, fmt.Errorf("%w: time spent must be positive", ErrInvalidWorklog)
	}
	if w.Started.IsZero() {
		return worklogPayload{}, fmt.Errorf("%w: missing start time", ErrInvalidWorklog)
	}
	return worklogPayload{
		TimeSpentSeconds: w.TimeSpentSeconds,
		Started:          w.Started.UTC().Format(jiraTimeLayout),
		Comment:          newADFDocument(w.Comment),
	}, nil
}

// AddWorklog records time against w.IssueKey.
func (c *Client) AddWorklog(ctx context.Context, w Worklog) error {
	body, err := w.payload()
	if err != nil {
		return err
	}
	op := "add worklog to " + w.IssueKey
	if err := c.do(ctx, op, http.MethodPost, worklogPath(w.IssueKey), body, nil); err != nil {
		logger.ErrorWithErr(err, "jiraapi: AddWorklog failed issue=%s", w.IssueKey)
		return err
	}
	logger.Info("jiraapi: worklog added issue=%s seconds=%d", w.IssueKey, w.TimeSpentSeconds)
	return nil
}

// ListWorklogs fetches one page of worklogs for an issue.
func (c *Client) ListWorklogs(ctx context.Context, issueKey string, startAt, maxResults int) (Page[WorklogEntry], error) {
	q := url.Values{}
	q.Set("startAt", strconv.Itoa(startAt))
	q.Set("maxResults", strconv.Itoa(maxResults))

	var dto worklogPageDTO
	if err := c.do(ctx, "list worklogs for "+issueKey, http.MethodGet, worklogPath(issueKey)+"?"+q.Encode(), nil, &dto); err != nil {
		logger.ErrorWithErr(err, "jiraapi: ListWorklogs failed issue=%s", issueKey)
		return Page[WorklogEntry]{}, err
	}

	entries := make([]WorklogEntry, 0, len(dto.Worklogs))
	for _, raw := range dto.Worklogs {
		entry := WorklogEntry{
			ID:               raw.ID,
			IssueID:          raw.IssueID,
			TimeSpentSeconds: raw.TimeSpentSeconds,
			Comment:          flattenRichText(raw.Comment),
			Started:          parseTime(raw.Started),
			Created:          parseTime(raw.Created),
			Updated:          parseTime(raw.Updated),
		}
		if raw.Author != nil {
			entry.Author = raw.Author.DisplayName
		}
		entries = append(entries, entry)
	}

	return Page[WorklogEntry]{
		Items:      entries,
		Total:      dto.Total,
		StartAt:    dto.StartAt,
		MaxResults: dto.MaxResults,
	}, nil
}

// UpdateWorklog replaces the duration, start and comment of an existing worklog.
func (c *Client) UpdateWorklog(ctx context.Context, issueKey, worklogID string, w Worklog) error {
	if w.IssueKey == "" {
		w.IssueKey = issueKey
	}
	body, err := w.payload()
	if err != nil {
		return err
	}
	op := fmt.Sprintf("update worklog %s on %s", worklogID, issueKey)
	if err := c.do(ctx, op, http.MethodPut, worklogPath(issueKey, worklogID), body, nil); err != nil {
		logger.ErrorWithErr(err, "jiraapi: UpdateWorklog failed issue=%s worklog=%s", issueKey, worklogID)
		return err
	}
	logger.Info("jiraapi: worklog updated issue=%s worklog=%s", issueKey, worklogID)
	return nil
}

// DeleteWorklog removes a worklog.
func (c *Client) DeleteWorklog(ctx context.Context, issueKey, worklogID string) error {
	op := fmt.Sprintf("delete worklog %s on %s", worklogID, issueKey)
	if err := c.do(ctx, op, http.MethodDelete, worklogPath(issueKey, worklogID), nil, nil); err != nil {
		logger.ErrorWithErr(err, "jiraapi: DeleteWorklog failed issue=%s worklog=%s", issueKey, worklogID)
		return err
	}
	logger.Info("jiraapi: worklog deleted issue=%s worklog=%s", issueKey, worklogID)
	return nil
}
