// Package ajax decodes the Drupal AJAX envelope the court site answers form
// submissions and detail requests with: a JSON array of command objects,
// served either bare (XHR transport) or wrapped in a <textarea> (iframe
// transport).
package ajax

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Command is one entry of the AJAX response array. Only "insert" commands
// carry HTML payloads the crawler cares about.
type Command struct {
	Command  string `json:"command"`
	Selector string `json:"selector"`
	Data     string `json:"data"`
}

// SectionSelector returns the command's selector without its leading dot,
// matching the keys of the section schema registry.
func (c Command) SectionSelector() string {
	return strings.TrimPrefix(c.Selector, ".")
}

// IsInsert reports whether the command inserts an HTML payload.
func (c Command) IsInsert() bool {
	return c.Command == "insert" && c.Data != ""
}

// Decode parses a response body into its command array. Bodies starting with
// a JSON array are decoded directly; anything else is treated as an HTML
// page whose first <textarea> holds the array.
func Decode(body []byte) ([]Command, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty response body")
	}

	if trimmed[0] != '[' {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(trimmed))
		if err != nil {
			return nil, fmt.Errorf("failed to parse response HTML: %w", err)
		}
		text := doc.Find("textarea").First().Text()
		if strings.TrimSpace(text) == "" {
			return nil, fmt.Errorf("no JSON payload found in response")
		}
		trimmed = []byte(text)
	}

	var commands []Command
	if err := json.Unmarshal(trimmed, &commands); err != nil {
		return nil, fmt.Errorf("failed to decode AJAX commands: %w", err)
	}
	return commands, nil
}

// FindInsert returns the HTML payload of the first insert command targeting
// the given selector (leading dot ignored on both sides).
func FindInsert(commands []Command, selector string) (string, bool) {
	want := strings.TrimPrefix(selector, ".")
	for _, cmd := range commands {
		if cmd.IsInsert() && cmd.SectionSelector() == want {
			return cmd.Data, true
		}
	}
	return "", false
}
