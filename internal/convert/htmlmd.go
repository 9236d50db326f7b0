// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
)

// HTMLMarkdown converts article HTML to Markdown, keeping links and images.
type HTMLMarkdown struct {
	conv *md.Converter
}

// NewHTMLMarkdown builds the default converter backend.
func NewHTMLMarkdown() *HTMLMarkdown {
	return &HTMLMarkdown{conv: md.NewConverter("", true, nil)}
}

// Convert renders the HTML fragment as Markdown. The output is trimmed and
// terminated with a single newline so article files diff cleanly across runs.
func (h *HTMLMarkdown) Convert(html string) (string, error) {
	out, err := h.conv.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("converting HTML: %w", err)
	}
	return strings.TrimSpace(out) + "\n", nil
}
