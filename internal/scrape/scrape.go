// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scrape materializes Help Center articles as local Markdown files:
// list articles from the API, convert each HTML body, and write one file per
// article into the articles directory.
package scrape

import (
	"context"
	"fmt"
	"io"

	"github.com/optisigns/optibot/internal/convert"
	"github.com/optisigns/optibot/internal/store"
	"github.com/optisigns/optibot/internal/zendesk"
)

// Result holds the outcome of a scrape run.
type Result struct {
	Written int
	Failed  int
}

// HasFailures reports whether any articles failed conversion or writing.
func (r Result) HasFailures() bool {
	return r.Failed > 0
}

// Run fetches up to limit articles and writes them to the store. A listing
// failure is fatal (a partial article set must not feed the sync); a
// conversion or write failure of one article is reported and skipped.
func Run(ctx context.Context, client *zendesk.Client, conv convert.Converter, st *store.Store, limit int, w io.Writer) (Result, error) {
	articles, err := client.ListArticles(ctx, limit)
	if err != nil {
		return Result{}, err
	}

	var result Result
	for _, a := range articles {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		markdown, err := conv.Convert(a.Body)
		if err != nil {
			fmt.Fprintf(w, "failed  %d (%s): %v\n", a.ID, a.Title, err)
			result.Failed++
			continue
		}

		doc, err := st.Write(a, markdown)
		if err != nil {
			fmt.Fprintf(w, "failed  %d (%s): %v\n", a.ID, a.Title, err)
			result.Failed++
			continue
		}

		fmt.Fprintf(w, "saved   %s\n", doc.Name)
		result.Written++
	}

	fmt.Fprintf(w, "\nsaved: %d, failed: %d\n", result.Written, result.Failed)
	return result, nil
}
