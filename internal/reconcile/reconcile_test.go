// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reconcile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/optisigns/optibot/internal/ledger"
	"github.com/optisigns/optibot/internal/store"
)

type attachCall struct {
	fileID string
	attrs  map[string]string
}

// fakeRemote records remote calls and hands out sequential file ids.
type fakeRemote struct {
	uploads   []string
	attaches  []attachCall
	detaches  []string
	uploadErr error
	attachErr error
	detachErr error
	nextID    int
}

func (f *fakeRemote) UploadFile(_ context.Context, name string, _ []byte) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	f.uploads = append(f.uploads, name)
	f.nextID++
	return fmt.Sprintf("file-%d", f.nextID), nil
}

func (f *fakeRemote) Attach(_ context.Context, fileID string, attrs map[string]string) error {
	if f.attachErr != nil {
		return f.attachErr
	}
	f.attaches = append(f.attaches, attachCall{fileID: fileID, attrs: attrs})
	return nil
}

func (f *fakeRemote) Detach(_ context.Context, fileID string) error {
	f.detaches = append(f.detaches, fileID)
	return f.detachErr
}

// newSyncer builds a Syncer over a temp article dir and ledger path.
func newSyncer(t *testing.T, remote *fakeRemote) (*Syncer, string) {
	t.Helper()
	dir := t.TempDir()
	articles := filepath.Join(dir, "articles")
	if err := os.MkdirAll(articles, 0o755); err != nil {
		t.Fatal(err)
	}
	ledgerPath := filepath.Join(dir, "data", "vector_files.json")
	return &Syncer{
		Store:      store.New(articles),
		Remote:     remote,
		LedgerPath: ledgerPath,
	}, articles
}

func writeArticle(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRun_EmptyStoreEmptyLedger(t *testing.T) {
	remote := &fakeRemote{}
	s, _ := newSyncer(t, remote)

	var out bytes.Buffer
	summary, err := s.Run(context.Background(), &out)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if summary.Added != 0 || summary.Updated != 0 || summary.Skipped != 0 {
		t.Errorf("summary = %+v, want all zero", summary)
	}
	if len(summary.Details) != 0 {
		t.Errorf("details = %v, want none", summary.Details)
	}
	if summary.Timestamp.IsZero() {
		t.Error("summary must carry a timestamp even with no activity")
	}
	if len(remote.uploads)+len(remote.attaches)+len(remote.detaches) != 0 {
		t.Error("no remote calls expected for an empty store")
	}

	entries, err := ledger.Load(s.LedgerPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("ledger = %v, want empty", entries)
	}
}

func TestRun_NewDocument(t *testing.T) {
	remote := &fakeRemote{}
	s, articles := newSyncer(t, remote)
	writeArticle(t, articles, "getting-started-360051014713.md",
		"# Getting Started\n\nbody\n\n---\n\nArticle URL: https://support.optisigns.com/hc/en-us/articles/360051014713\n")

	var out bytes.Buffer
	summary, err := s.Run(context.Background(), &out)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if summary.Added != 1 || summary.Updated != 0 || summary.Skipped != 0 {
		t.Errorf("summary = %+v, want added=1", summary)
	}
	if len(summary.Details) != 1 || summary.Details[0] != "Added: getting-started-360051014713.md" {
		t.Errorf("details = %v", summary.Details)
	}
	if len(remote.uploads) != 1 || len(remote.attaches) != 1 || len(remote.detaches) != 0 {
		t.Errorf("remote calls: uploads=%d attaches=%d detaches=%d, want 1/1/0",
			len(remote.uploads), len(remote.attaches), len(remote.detaches))
	}

	attrs := remote.attaches[0].attrs
	if attrs["title"] != "Getting Started" {
		t.Errorf("title attribute = %q", attrs["title"])
	}
	if attrs["source"] != "https://support.optisigns.com/hc/en-us/articles/360051014713" {
		t.Errorf("source attribute = %q", attrs["source"])
	}

	entries, err := ledger.Load(s.LedgerPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	entry, ok := entries["getting-started-360051014713.md"]
	if !ok {
		t.Fatalf("ledger missing entry: %v", entries)
	}
	if entry.FileID != "file-1" || entry.Hash == "" {
		t.Errorf("entry = %+v", entry)
	}
}

func TestRun_ChangedDocument(t *testing.T) {
	remote := &fakeRemote{}
	s, articles := newSyncer(t, remote)
	writeArticle(t, articles, "doc1-111111111.md", "old content")

	// Seed the ledger with the previous state of doc1.
	oldHash := store.Fingerprint([]byte("old content"))
	if err := ledger.Save(s.LedgerPath, map[string]ledger.Entry{
		"doc1-111111111.md": {Hash: oldHash, FileID: "file-X"},
	}); err != nil {
		t.Fatal(err)
	}

	writeArticle(t, articles, "doc1-111111111.md", "new content")

	var out bytes.Buffer
	summary, err := s.Run(context.Background(), &out)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if summary.Added != 0 || summary.Updated != 1 || summary.Skipped != 0 {
		t.Errorf("summary = %+v, want updated=1", summary)
	}
	if len(remote.detaches) != 1 || remote.detaches[0] != "file-X" {
		t.Errorf("detaches = %v, want [file-X]", remote.detaches)
	}
	if len(remote.uploads) != 1 || len(remote.attaches) != 1 {
		t.Errorf("uploads=%d attaches=%d, want 1/1", len(remote.uploads), len(remote.attaches))
	}

	entries, _ := ledger.Load(s.LedgerPath)
	entry := entries["doc1-111111111.md"]
	if entry.Hash != store.Fingerprint([]byte("new content")) {
		t.Errorf("ledger hash not updated: %+v", entry)
	}
	if entry.FileID != "file-1" {
		t.Errorf("ledger file id = %q, want the fresh upload", entry.FileID)
	}
}

func TestRun_UnchangedDocument(t *testing.T) {
	remote := &fakeRemote{}
	s, articles := newSyncer(t, remote)
	writeArticle(t, articles, "doc1-111111111.md", "same content")

	hash := store.Fingerprint([]byte("same content"))
	if err := ledger.Save(s.LedgerPath, map[string]ledger.Entry{
		"doc1-111111111.md": {Hash: hash, FileID: "file-X"},
	}); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	summary, err := s.Run(context.Background(), &out)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if summary.Skipped != 1 || summary.Added != 0 || summary.Updated != 0 {
		t.Errorf("summary = %+v, want skipped=1", summary)
	}
	if len(summary.Details) != 0 {
		t.Errorf("details = %v, skipped docs produce no detail line", summary.Details)
	}
	if len(remote.uploads)+len(remote.attaches)+len(remote.detaches) != 0 {
		t.Error("unchanged document must trigger zero remote calls")
	}

	entries, _ := ledger.Load(s.LedgerPath)
	if entries["doc1-111111111.md"] != (ledger.Entry{Hash: hash, FileID: "file-X"}) {
		t.Errorf("entry changed: %+v", entries["doc1-111111111.md"])
	}
}

func TestRun_Idempotence(t *testing.T) {
	remote := &fakeRemote{}
	s, articles := newSyncer(t, remote)
	for i := 0; i < 3; i++ {
		writeArticle(t, articles, fmt.Sprintf("doc%d-11111111%d.md", i, i), fmt.Sprintf("content %d", i))
	}

	var out bytes.Buffer
	first, err := s.Run(context.Background(), &out)
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}
	if first.Added != 3 {
		t.Fatalf("first run: %+v, want added=3", first)
	}

	before, _ := os.ReadFile(s.LedgerPath)

	second, err := s.Run(context.Background(), &out)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if second.Added != 0 || second.Updated != 0 || second.Skipped != 3 {
		t.Errorf("second run: %+v, want skipped=3", second)
	}
	if len(remote.uploads) != 3 {
		t.Errorf("second run must not upload again: %d uploads total", len(remote.uploads))
	}

	after, _ := os.ReadFile(s.LedgerPath)
	if !bytes.Equal(before, after) {
		t.Error("ledger snapshot must be unchanged after an idle run")
	}
}

func TestRun_DropsVanishedDocuments(t *testing.T) {
	remote := &fakeRemote{}
	s, articles := newSyncer(t, remote)
	writeArticle(t, articles, "keep-111111111.md", "keep")

	if err := ledger.Save(s.LedgerPath, map[string]ledger.Entry{
		"keep-111111111.md": {Hash: store.Fingerprint([]byte("keep")), FileID: "file-K"},
		"gone-222222222.md": {Hash: "deadbeef", FileID: "file-G"},
	}); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if _, err := s.Run(context.Background(), &out); err != nil {
		t.Fatalf("Run: %v", err)
	}

	entries, _ := ledger.Load(s.LedgerPath)
	if _, ok := entries["gone-222222222.md"]; ok {
		t.Error("vanished document must drop out of the ledger")
	}
	if _, ok := entries["keep-111111111.md"]; !ok {
		t.Error("surviving document must stay in the ledger")
	}
	// The orphaned remote file is deliberately left attached.
	if len(remote.detaches) != 0 {
		t.Errorf("detaches = %v, vanished documents are not detached", remote.detaches)
	}
}

func TestRun_DetachFailureIsNonFatal(t *testing.T) {
	remote := &fakeRemote{detachErr: errors.New("remote says no")}
	s, articles := newSyncer(t, remote)
	writeArticle(t, articles, "doc1-111111111.md", "v2")

	if err := ledger.Save(s.LedgerPath, map[string]ledger.Entry{
		"doc1-111111111.md": {Hash: store.Fingerprint([]byte("v1")), FileID: "file-X"},
	}); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	summary, err := s.Run(context.Background(), &out)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Updated != 1 {
		t.Errorf("summary = %+v, want updated=1 despite detach failure", summary)
	}
	// The log line must carry the actual error, not just its presence.
	if !strings.Contains(out.String(), "remote says no") {
		t.Errorf("output %q should include the detach error", out.String())
	}
}

func TestRun_UploadFailureAbortsBeforeLedgerWrite(t *testing.T) {
	remote := &fakeRemote{uploadErr: errors.New("transport down")}
	s, articles := newSyncer(t, remote)
	writeArticle(t, articles, "doc1-111111111.md", "content")

	var out bytes.Buffer
	if _, err := s.Run(context.Background(), &out); err == nil {
		t.Fatal("want error when upload fails")
	}

	if _, err := os.Stat(s.LedgerPath); !os.IsNotExist(err) {
		t.Error("a failed run must not persist a ledger snapshot")
	}
}

func TestRun_AttachFailureAbortsBeforeLedgerWrite(t *testing.T) {
	remote := &fakeRemote{attachErr: errors.New("index rejected file")}
	s, articles := newSyncer(t, remote)
	writeArticle(t, articles, "doc1-111111111.md", "content")

	var out bytes.Buffer
	_, err := s.Run(context.Background(), &out)
	if err == nil {
		t.Fatal("want error when attach fails")
	}
	if !strings.Contains(err.Error(), "doc1-111111111.md") {
		t.Errorf("error %q should name the document", err)
	}
	if _, statErr := os.Stat(s.LedgerPath); !os.IsNotExist(statErr) {
		t.Error("a failed run must not persist a ledger snapshot")
	}
}

func TestRun_CorruptLedgerIsFatal(t *testing.T) {
	remote := &fakeRemote{}
	s, articles := newSyncer(t, remote)
	writeArticle(t, articles, "doc1-111111111.md", "content")

	if err := os.MkdirAll(filepath.Dir(s.LedgerPath), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(s.LedgerPath, []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	_, err := s.Run(context.Background(), &out)
	if !errors.Is(err, ledger.ErrCorrupt) {
		t.Fatalf("err = %v, want ErrCorrupt", err)
	}
	if len(remote.uploads) != 0 {
		t.Error("no remote calls after a corrupt ledger")
	}
}

func TestRun_MissingSourceURLOmitsAttribute(t *testing.T) {
	remote := &fakeRemote{}
	s, articles := newSyncer(t, remote)
	writeArticle(t, articles, "no-url-111111111.md", "# No URL\n\njust text\n")

	var out bytes.Buffer
	summary, err := s.Run(context.Background(), &out)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Added != 1 {
		t.Fatalf("summary = %+v", summary)
	}

	attrs := remote.attaches[0].attrs
	if _, ok := attrs["source"]; ok {
		t.Errorf("source attribute must be omitted when the URL pattern is absent: %v", attrs)
	}
	if attrs["title"] != "No URL" {
		t.Errorf("title = %q", attrs["title"])
	}
}
