// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Article holds a Help Center article as returned by the listing API.
type Article struct {
	// ID is the numeric article identifier.
	ID int64 `json:"id" yaml:"id"`

	// Title is the article title.
	Title string `json:"title" yaml:"title"`

	// Body is the raw HTML body.
	Body string `json:"body" yaml:"body"`

	// HTMLURL is the public URL of the article
	// (e.g. "https://support.optisigns.com/hc/en-us/articles/360051014713").
	HTMLURL string `json:"html_url" yaml:"html_url"`
}

// SyncSummary aggregates the outcome of one sync run. It is immutable once
// the run completes and is handed to the run reporter as-is.
type SyncSummary struct {
	// Timestamp is the UTC completion time of the run.
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`

	// Added counts documents uploaded for the first time.
	Added int `json:"added" yaml:"added"`

	// Updated counts documents whose content changed and were re-uploaded.
	Updated int `json:"updated" yaml:"updated"`

	// Skipped counts documents whose content was unchanged.
	Skipped int `json:"skipped" yaml:"skipped"`

	// Details lists one "Added: <name>" or "Updated: <name>" line per mutated
	// document, in processing order. Skipped documents produce no line.
	Details []string `json:"details,omitempty" yaml:"details,omitempty"`
}

// Total returns the number of documents processed.
func (s SyncSummary) Total() int {
	return s.Added + s.Updated + s.Skipped
}

// StoreMetadata records a created vector store, written by `store create`.
type StoreMetadata struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}
