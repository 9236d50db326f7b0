// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns Help Center HTML bodies into Markdown.
package convert

// Converter transforms an HTML fragment into Markdown text.
type Converter interface {
	Convert(html string) (string, error)
}
