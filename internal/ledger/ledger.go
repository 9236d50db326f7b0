// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger persists the tracking snapshot of what is currently synced
// to the remote vector store: one entry per article file, holding the content
// hash and the remote file id from the last successful run.
package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrCorrupt marks a ledger file that exists but cannot be parsed. The sync
// must not proceed past it: guessing around a broken ledger risks duplicate
// uploads and orphaned remote files.
var ErrCorrupt = errors.New("corrupt ledger")

// Entry records the last synced state of one article file.
type Entry struct {
	// Hash is the content fingerprint at the last successful sync.
	Hash string `json:"hash"`

	// FileID is the remote file id currently attached to the vector store,
	// or "" if the article was never uploaded.
	FileID string `json:"file_id"`
}

// Load reads the ledger snapshot at path. A missing file is an empty ledger.
// An unreadable or unparseable file returns an error wrapping ErrCorrupt.
func Load(path string) (map[string]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]Entry{}, nil
		}
		return nil, fmt.Errorf("reading ledger %s: %w", path, err)
	}

	entries := map[string]Entry{}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing ledger %s: %w: %v", path, ErrCorrupt, err)
	}
	return entries, nil
}

// Save replaces the ledger snapshot wholesale. The write is atomic with
// respect to process crash: the snapshot is written to a temp file in the
// same directory and renamed over the destination, so a half-written ledger
// is never observable.
func Save(path string, entries map[string]Entry) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating ledger directory: %w", err)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling ledger: %w", err)
	}
	data = append(data, '\n')

	tmpFile, err := os.CreateTemp(dir, ".ledger-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.Write(data)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing ledger: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
