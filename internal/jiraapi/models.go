package jiraapi

import (
	"fmt"
	"strings"
	"time"
)

// Board represents an agile board.
type Board struct {
	ID         uint64
	Name       string
	ProjectKey string
	Type       string // scrum, kanban, simple
}

// StatusKind groups workflow statuses into the categories the UI colors by.
type StatusKind int

const (
	StatusOther StatusKind = iota
	StatusTodo
	StatusInProgress
	StatusDone
)

// Status is an issue's workflow status. Name keeps the server label.
type Status struct {
	Kind StatusKind
	Name string
}

// ParseStatus maps a workflow status name onto a StatusKind.
func ParseStatus(name string) Status {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "to do", "new", "open":
		return Status{Kind: StatusTodo, Name: name}
	case "in progress", "in review":
		return Status{Kind: StatusInProgress, Name: name}
	case "done", "closed", "resolved":
		return Status{Kind: StatusDone, Name: name}
	default:
		return Status{Kind: StatusOther, Name: name}
	}
}

// String returns the display label.
func (s Status) String() string {
	switch s.Kind {
	case StatusTodo:
		return "To Do"
	case StatusInProgress:
		return "In Progress"
	case StatusDone:
		return "Done"
	default:
		if s.Name == "" {
			return "Unknown"
		}
		return s.Name
	}
}

// Issue is a read-only snapshot of a Jira issue. Empty Assignee and Priority
// mean the field is unset.
type Issue struct {
	Key         string
	Summary     string
	Description string
	Status      Status
	Assignee    string
	Priority    string
	Created     time.Time
	Updated     time.Time
}

// WorklogEntry is a recorded worklog.
type WorklogEntry struct {
	ID               string
	IssueID          string
	TimeSpentSeconds int
	Comment          string
	Started          time.Time
	Author           string
	Created          time.Time
	Updated          time.Time
}

// Worklog is the payload for creating or updating a worklog.
type Worklog struct {
	IssueKey         string
	TimeSpentSeconds int
	Started          time.Time
	Comment          string
}

// Page is one page of a server-side collection plus the reported total.
type Page[T any] struct {
	Items      []T
	Total      int
	StartAt    int
	MaxResults int
}

// Criteria values understood by IssueFilter.
const (
	AssigneeCurrentUser = "currentUser()"
	AssigneeUnassigned  = "EMPTY"

	OrderUpdatedDesc = "updated DESC"
	OrderCreatedDesc = "created DESC"
)

// IssueFilter narrows a board's issue listing. Empty fields are unrestricted.
type IssueFilter struct {
	Assignee string
	Status   string
	OrderBy  string
}

// JQL renders the filter as a JQL query string.
func (f IssueFilter) JQL() string {
	var clauses []string
	switch f.Assignee {
	case "":
	case AssigneeUnassigned:
		clauses = append(clauses, "assignee is EMPTY")
	default:
		clauses = append(clauses, "assignee = "+f.Assignee)
	}
	if f.Status != "" {
		clauses = append(clauses, fmt.Sprintf("status = %q", f.Status))
	}

	jql := strings.Join(clauses, " AND ")
	if f.OrderBy != "" {
		if jql != "" {
			jql += " "
		}
		jql += "ORDER BY " + f.OrderBy
	}
	return jql
}

// FormatDuration renders seconds the way Jira shows logged time: "1h 30m",
// "2h", "45m".
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	switch {
	case hours == 0:
		return fmt.Sprintf("%dm", minutes)
	case minutes == 0:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
}
