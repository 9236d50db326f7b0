// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package reconcile drives the incremental sync between the local article
// directory and the remote vector store. For every article it classifies the
// content as unchanged, changed, or new against the tracking ledger, performs
// the minimal remote mutations, and assembles the next ledger snapshot. The
// snapshot save is the commit point of a run: nothing before it is durable.
package reconcile

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/optisigns/optibot/internal/ledger"
	"github.com/optisigns/optibot/internal/store"
	"github.com/optisigns/optibot/pkg/types"
)

// Remote is the capability set the reconciler needs from the vector store.
// *vectorstore.Client implements it.
type Remote interface {
	// UploadFile stores raw content remotely and returns an opaque file id.
	UploadFile(ctx context.Context, name string, content []byte) (string, error)

	// Attach associates an uploaded file with the search index under the
	// given attributes.
	Attach(ctx context.Context, fileID string, attributes map[string]string) error

	// Detach removes a previously attached file from the search index.
	Detach(ctx context.Context, fileID string) error
}

// Syncer reconciles one article directory against one vector store.
type Syncer struct {
	Store      *store.Store
	Remote     Remote
	LedgerPath string
}

// Run executes one sync pass. Per-item progress lines go to w. Upload and
// attach failures abort the run before the ledger is rewritten, so a failed
// run never misrepresents remote state; detach failures are logged and
// swallowed. An empty article directory still completes and returns an
// all-zero summary.
func (s *Syncer) Run(ctx context.Context, w io.Writer) (types.SyncSummary, error) {
	prev, err := ledger.Load(s.LedgerPath)
	if err != nil {
		return types.SyncSummary{}, err
	}

	docs, err := s.Store.List()
	if err != nil {
		return types.SyncSummary{}, err
	}

	var summary types.SyncSummary
	next := make(map[string]ledger.Entry, len(docs))

	for _, doc := range docs {
		select {
		case <-ctx.Done():
			return types.SyncSummary{}, ctx.Err()
		default:
		}

		content, err := s.Store.Read(doc)
		if err != nil {
			return types.SyncSummary{}, err
		}
		hash := store.Fingerprint(content)

		prevEntry, known := prev[doc.Name]
		if known && prevEntry.Hash == hash {
			// Unchanged: carry the entry forward, no remote calls.
			next[doc.Name] = prevEntry
			summary.Skipped++
			fmt.Fprintf(w, "skipped %s\n", doc.Name)
			continue
		}

		if known && prevEntry.FileID != "" {
			// Changed: drop the stale attachment first, best effort. A failed
			// detach orphans the old file but must not block fresh content.
			if err := s.Remote.Detach(ctx, prevEntry.FileID); err != nil {
				fmt.Fprintf(w, "warning: detach of old file %s failed: %v\n", prevEntry.FileID, err)
			}
		}

		fileID, err := s.Remote.UploadFile(ctx, doc.Name, content)
		if err != nil {
			return types.SyncSummary{}, fmt.Errorf("syncing %s: %w", doc.Name, err)
		}
		if err := s.Remote.Attach(ctx, fileID, attributes(content, doc.Name)); err != nil {
			return types.SyncSummary{}, fmt.Errorf("syncing %s: %w", doc.Name, err)
		}

		next[doc.Name] = ledger.Entry{Hash: hash, FileID: fileID}

		if known {
			summary.Updated++
			summary.Details = append(summary.Details, "Updated: "+doc.Name)
			fmt.Fprintf(w, "updated %s\n", doc.Name)
		} else {
			summary.Added++
			summary.Details = append(summary.Details, "Added: "+doc.Name)
			fmt.Fprintf(w, "added   %s\n", doc.Name)
		}
	}

	// Commit point. Entries for articles no longer on disk drop out here;
	// their remote attachments are left in place.
	if err := ledger.Save(s.LedgerPath, next); err != nil {
		return types.SyncSummary{}, err
	}

	summary.Timestamp = time.Now().UTC()
	fmt.Fprintf(w, "\nadded: %d, updated: %d, skipped: %d\n",
		summary.Added, summary.Updated, summary.Skipped)
	return summary, nil
}

// attributes derives the attach metadata for a document: the display title,
// plus the origin URL when the content carries one.
func attributes(content []byte, name string) map[string]string {
	attrs := map[string]string{
		"title": store.Title(content, name),
	}
	if src := store.SourceURL(content); src != "" {
		attrs["source"] = src
	}
	return attrs
}
