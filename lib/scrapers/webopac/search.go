package webopac

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const DefaultMaxPages = 3

type SearchOptions struct {
	// hard cap on fetched pages, DefaultMaxPages when <= 0. the cap always
	// wins over the discovered page count.
	MaxPages     int
	ViewBranch   string
	SearchBranch string
	// nil means DefaultRestrictions
	Restrictions []Restriction
}

// Search drives the whole multi-page protocol: session bootstrap, search
// submit, then page after page in discovered order, each page's next link
// only known after parsing the previous one. progress lands on the returned
// channel, one event per page, the last one with Complete set; the channel
// closes after it. a blank term produces no events at all.
//
// cancelling ctx stops the workflow at its next checkpoint between
// requests; nothing is emitted into an abandoned receiver.
func (c *Client) Search(ctx context.Context, term string, opts SearchOptions) <-chan SearchProgress {
	out := make(chan SearchProgress, 1)
	if strings.TrimSpace(term) == "" {
		close(out)
		return out
	}

	go c.runSearch(ctx, term, opts, out)
	return out
}

func (c *Client) runSearch(ctx context.Context, term string, opts SearchOptions, out chan<- SearchProgress) {
	defer close(out)

	ctx, span := tracer.Start(ctx, "client:Search")
	defer span.End()
	span.SetAttributes(attribute.String("term", term))

	emit := func(p SearchProgress) bool {
		select {
		case out <- p:
			return true
		case <-ctx.Done():
			return false
		}
	}
	fail := func(err error, message string) {
		span.RecordError(err)
		span.SetStatus(codes.Error, message)
		slog.WarnContext(ctx, "search failed", "term", term, "err", err)
		emit(SearchProgress{
			Complete: true,
			Success:  false,
			Message:  fmt.Sprintf("%s: %v", message, err),
		})
	}

	maxPages := opts.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	_, err := c.FetchStartPage(ctx)
	if err != nil {
		fail(err, "could not establish a catalogue session")
		return
	}

	doc, err := c.SubmitSearch(ctx, term, SubmitSearchOptions{
		ViewBranch:   opts.ViewBranch,
		SearchBranch: opts.SearchBranch,
		Restrictions: opts.Restrictions,
	})
	if err != nil {
		fail(err, "search request failed")
		return
	}

	if hasNoHits(doc) {
		emit(SearchProgress{
			CurrentPage: 1,
			TotalPages:  1,
			Complete:    true,
			Success:     true,
			Message:     fmt.Sprintf("no hits for %q", term),
		})
		return
	}

	totalPages := discoverTotalPages(doc)
	limit := totalPages
	if maxPages < limit {
		limit = maxPages
	}
	span.SetAttributes(
		attribute.Int("total_pages", totalPages),
		attribute.Int("page_limit", limit),
	)

	results := ParseResultList(doc, c.BaseUrl)
	currentPage := 1

	for {
		next := nextPageLink(doc)
		last := currentPage >= limit || next == ""

		ok := emit(SearchProgress{
			Results:     slices.Clone(results),
			CurrentPage: currentPage,
			TotalPages:  totalPages,
			Complete:    last,
			Success:     true,
			Message:     fmt.Sprintf("loaded page %d of %d", currentPage, totalPages),
		})
		if !ok || last {
			return
		}

		doc, err = c.FetchPage(ctx, c.AbsoluteUrl(next))
		if err != nil {
			fail(err, fmt.Sprintf("failed to load page %d", currentPage+1))
			return
		}

		currentPage++
		results = append(results, ParseResultList(doc, c.BaseUrl)...)
	}
}
