package jiraapi

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	jira "github.com/andygrunwald/go-jira"
)

var (
	// ErrAPI covers transport failures, unexpected status codes and
	// undecodable responses.
	ErrAPI = errors.New("jira api error")
	// ErrNotFound is returned for 404 responses.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is returned for 401 responses.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUnimplemented is returned by operations that are not supported yet.
	ErrUnimplemented = errors.New("not implemented yet")
	// ErrInvalidWorklog is returned when a worklog payload fails local checks.
	ErrInvalidWorklog = errors.New("invalid worklog")
)

// StatusError is a non-2xx response. It unwraps to ErrUnauthorized,
// ErrNotFound or ErrAPI.
type StatusError struct {
	StatusCode int
	Message    string
	kind       error
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s (status %d)", e.kind, e.StatusCode)
	}
	return fmt.Sprintf("%s (status %d): %s", e.kind, e.StatusCode, e.Message)
}

func (e *StatusError) Unwrap() error { return e.kind }

// classify converts a go-jira Do error into the package taxonomy. resp may be
// nil for transport failures.
func classify(op string, resp *jira.Response, err error) error {
	if resp == nil || resp.Response == nil {
		return fmt.Errorf("%s: %w: %v", op, ErrAPI, err)
	}

	code := resp.StatusCode
	if code >= 200 && code < 300 {
		// 2xx with an error means the body did not decode.
		return fmt.Errorf("%s: %w: decode response: %v", op, ErrAPI, err)
	}

	kind := ErrAPI
	switch code {
	case http.StatusUnauthorized:
		kind = ErrUnauthorized
	case http.StatusNotFound:
		kind = ErrNotFound
	}

	return fmt.Errorf("%s: %w", op, &StatusError{
		StatusCode: code,
		Message:    responseMessage(resp, err),
		kind:       kind,
	})
}

// responseMessage extracts Jira's errorMessages/errors text from the body.
func responseMessage(resp *jira.Response, err error) string {
	if resp.Body == nil {
		return ""
	}
	jerr := jira.NewJiraError(resp, err)
	var detail *jira.Error
	if errors.As(jerr, &detail) {
		var parts []string
		parts = append(parts, detail.ErrorMessages...)
		fields := make([]string, 0, len(detail.Errors))
		for field := range detail.Errors {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			parts = append(parts, field+": "+detail.Errors[field])
		}
		return strings.Join(parts, "; ")
	}
	return ""
}
