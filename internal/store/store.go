// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store manages the local article directory: one Markdown file per
// Help Center article, named from the title slug and the numeric article id.
package store

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/gosimple/slug"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/optisigns/optibot/pkg/types"
)

// articleURLPattern matches the origin URL embedded in an article's trailing
// block, e.g. "https://support.optisigns.com/hc/en-us/articles/360051014713".
var articleURLPattern = regexp.MustCompile(`https://[^/\s]+/hc/en-us/articles/(\d+)`)

// nameSuffixPattern matches the trailing numeric-id (and optional part
// number) appended to article filenames.
var nameSuffixPattern = regexp.MustCompile(`-\d{9,}(-part\d+)?$`)

var titleCaser = cases.Title(language.English)

// Document is one article file in the store.
type Document struct {
	// Name is the filename, e.g. "getting-started-360051014713.md".
	Name string

	// Path is the full filesystem path.
	Path string
}

// Store is a directory of Markdown article files.
type Store struct {
	dir string
}

// New returns a Store rooted at dir.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Filename derives the deterministic store filename for an article.
func Filename(title string, id int64) string {
	return fmt.Sprintf("%s-%d.md", slug.Make(title), id)
}

// Write renders an article to its store file: a "# <title>" heading, the
// Markdown body, and a trailing block carrying the origin URL. An existing
// file is overwritten.
func (s *Store) Write(a types.Article, markdown string) (Document, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return Document{}, fmt.Errorf("creating articles directory: %w", err)
	}

	name := Filename(a.Title, a.ID)
	path := filepath.Join(s.dir, name)

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", a.Title)
	b.WriteString(markdown)
	fmt.Fprintf(&b, "\n\n---\n\nArticle URL: %s\n", a.HTMLURL)

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return Document{}, fmt.Errorf("writing article %s: %w", name, err)
	}
	return Document{Name: name, Path: path}, nil
}

// List returns every Markdown document in the store, sorted by name. A
// missing directory is an empty store, not an error.
func (s *Store) List() ([]Document, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading articles directory %s: %w", s.dir, err)
	}

	var docs []Document
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		docs = append(docs, Document{
			Name: entry.Name(),
			Path: filepath.Join(s.dir, entry.Name()),
		})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Name < docs[j].Name })
	return docs, nil
}

// Read returns the content bytes of a document.
func (s *Store) Read(doc Document) ([]byte, error) {
	data, err := os.ReadFile(doc.Path)
	if err != nil {
		return nil, fmt.Errorf("reading article %s: %w", doc.Name, err)
	}
	return data, nil
}

// Fingerprint computes the content digest used for change detection:
// lowercase hex SHA-256 of the exact bytes.
func Fingerprint(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// SourceURL extracts the canonical origin URL embedded in the article
// content. Returns "" when the pattern is absent.
func SourceURL(content []byte) string {
	return string(articleURLPattern.Find(content))
}

// ArticleID extracts the numeric article id from the embedded origin URL.
// Returns "" when the pattern is absent.
func ArticleID(content []byte) string {
	m := articleURLPattern.FindSubmatch(content)
	if m == nil {
		return ""
	}
	return string(m[1])
}

// Title returns the display title for a document. The "# " heading on the
// first line is authoritative; when it is missing the filename is de-slugged
// as a lossy fallback.
func Title(content []byte, name string) string {
	line, _, _ := strings.Cut(string(content), "\n")
	if t := strings.TrimSpace(strings.TrimPrefix(line, "# ")); t != "" && strings.HasPrefix(line, "# ") {
		return t
	}
	return titleFromName(name)
}

// titleFromName de-slugifies a filename: the extension and trailing numeric
// id are stripped, separators become spaces, and words are title-cased.
func titleFromName(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	base = nameSuffixPattern.ReplaceAllString(base, "")
	base = strings.ReplaceAll(base, "-", " ")
	base = strings.ReplaceAll(base, "_", " ")
	return titleCaser.String(base)
}
