package jiraapi

import (
	"bytes"
	"encoding/json"
	"strings"
)

// adfNode is a node of an Atlassian Document Format tree. Only the parts
// needed to read and write plain text are modelled.
type adfNode struct {
	Type    string    `json:"type"`
	Version int       `json:"version,omitempty"`
	Text    string    `json:"text,omitempty"`
	Content []adfNode `json:"content,omitempty"`
}

// newADFDocument wraps text in a document with one paragraph per line.
// Blank lines are dropped. Returns nil for blank text.
func newADFDocument(text string) *adfNode {
	var paragraphs []adfNode
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		paragraphs = append(paragraphs, adfNode{
			Type:    "paragraph",
			Content: []adfNode{{Type: "text", Text: line}},
		})
	}
	if len(paragraphs) == 0 {
		return nil
	}
	return &adfNode{Type: "doc", Version: 1, Content: paragraphs}
}

// flattenRichText returns the plain text of a field that may hold either a
// JSON string or an ADF document.
func flattenRichText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	}

	var doc adfNode
	if err := json.Unmarshal(raw, &doc); err != nil {
		return ""
	}
	return doc.plainText()
}

// plainText joins inline text with spaces and blocks with newlines.
func (n adfNode) plainText() string {
	if n.Type == "text" {
		return n.Text
	}

	var lines []string
	var visit func(node adfNode)
	visit = func(node adfNode) {
		var words []string
		for _, child := range node.Content {
			switch child.Type {
			case "text":
				words = append(words, child.Text)
			case "hardBreak":
				if len(words) > 0 {
					lines = append(lines, strings.Join(words, " "))
					words = nil
				}
			default:
				visit(child)
			}
		}
		if len(words) > 0 {
			lines = append(lines, strings.Join(words, " "))
		}
	}
	visit(n)
	return strings.Join(lines, "\n")
}
