// Package filter holds the backlog filter selections and compiles them into
// gateway query criteria.
package filter

import "github.com/roeyazroel/jira-tui/internal/jiraapi"

// AssigneeScope restricts issues by assignee.
type AssigneeScope int

const (
	AssigneeCurrentUser AssigneeScope = iota
	AssigneeUnassigned
	AssigneeAll
)

// Next rotates CurrentUser -> Unassigned -> All -> CurrentUser.
func (a AssigneeScope) Next() AssigneeScope {
	return (a + 1) % 3
}

func (a AssigneeScope) String() string {
	switch a {
	case AssigneeCurrentUser:
		return "Me"
	case AssigneeUnassigned:
		return "Unassigned"
	default:
		return "All"
	}
}

// StatusScope restricts issues by status category.
type StatusScope int

const (
	StatusAll StatusScope = iota
	StatusTodo
	StatusInProgress
	StatusDone
)

// Next rotates All -> To Do -> In Progress -> Done -> All.
func (s StatusScope) Next() StatusScope {
	return (s + 1) % 4
}

func (s StatusScope) String() string {
	switch s {
	case StatusTodo:
		return "To Do"
	case StatusInProgress:
		return "In Progress"
	case StatusDone:
		return "Done"
	default:
		return "All"
	}
}

// SortOrder is the backlog ordering.
type SortOrder int

const (
	SortUpdatedDesc SortOrder = iota
	SortCreatedDesc
)

// Next toggles between the two orders.
func (o SortOrder) Next() SortOrder {
	return (o + 1) % 2
}

func (o SortOrder) String() string {
	if o == SortCreatedDesc {
		return "Created (newest)"
	}
	return "Updated (newest)"
}

// Field is a focusable row of the filter modal.
type Field int

const (
	FieldAssignee Field = iota
	FieldStatus
	FieldOrderBy
)

const fieldCount = 3

// Next moves focus down, wrapping to the first field.
func (f Field) Next() Field {
	return (f + 1) % fieldCount
}

// Prev moves focus up, wrapping to the last field.
func (f Field) Prev() Field {
	return (f + fieldCount - 1) % fieldCount
}

func (f Field) String() string {
	switch f {
	case FieldAssignee:
		return "Assignee"
	case FieldStatus:
		return "Status"
	default:
		return "Order by"
	}
}

// Selection is the set of choices made in the filter modal. The zero value is
// the default: my issues, any status, most recently updated first.
type Selection struct {
	Assignee AssigneeScope
	Status   StatusScope
	Order    SortOrder
}

// Default returns the initial selection.
func Default() Selection {
	return Selection{}
}

// Cycle advances the value of field.
func (s Selection) Cycle(field Field) Selection {
	switch field {
	case FieldAssignee:
		s.Assignee = s.Assignee.Next()
	case FieldStatus:
		s.Status = s.Status.Next()
	case FieldOrderBy:
		s.Order = s.Order.Next()
	}
	return s
}

// Value returns the display label of field's current value.
func (s Selection) Value(field Field) string {
	switch field {
	case FieldAssignee:
		return s.Assignee.String()
	case FieldStatus:
		return s.Status.String()
	default:
		return s.Order.String()
	}
}

// Compile translates the selection into query criteria. Assignee and status
// may be absent; ordering is always present.
func (s Selection) Compile() jiraapi.IssueFilter {
	var f jiraapi.IssueFilter

	switch s.Assignee {
	case AssigneeCurrentUser:
		f.Assignee = jiraapi.AssigneeCurrentUser
	case AssigneeUnassigned:
		f.Assignee = jiraapi.AssigneeUnassigned
	}

	switch s.Status {
	case StatusTodo:
		f.Status = "To Do"
	case StatusInProgress:
		f.Status = "In Progress"
	case StatusDone:
		f.Status = "Done"
	}

	if s.Order == SortCreatedDesc {
		f.OrderBy = jiraapi.OrderCreatedDesc
	} else {
		f.OrderBy = jiraapi.OrderUpdatedDesc
	}
	return f
}
