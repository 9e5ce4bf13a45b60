package catalogue

import (
	"context"
	"errors"
	"log/slog"

	"bibassist-backend/lib/scrapers/webopac"
	"bibassist-backend/services/wishlist"

	"go.opentelemetry.io/otel/codes"
)

// RefreshWishlist re-resolves every stored item against the live catalogue
// and writes the fresh records back. stored URLs that went stale are
// recovered through a title search and a fuzzy match against its results.
//
// an expired session aborts the whole refresh so the caller can prompt for
// a re-login; a single unrecoverable item is logged and kept as-is.
func (s Service) RefreshWishlist(ctx context.Context, store wishlist.Store) error {
	ctx, span := tracer.Start(ctx, "service:RefreshWishlist")
	defer span.End()

	entries, err := store.List(ctx)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		fresh, err := s.refreshEntry(ctx, entry)
		if errors.Is(err, webopac.ErrSessionExpired) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "session expired during refresh")
			return err
		}
		if err != nil {
			slog.WarnContext(
				ctx, "could not refresh wishlist item",
				"title", entry.Item.Title,
				"url", entry.Item.SourceUrl,
				"err", err,
			)
			continue
		}

		// a re-matched item comes back under a new session-minted URL;
		// drop the stale row so the entry moves instead of duplicating
		if fresh.SourceUrl != entry.Item.SourceUrl {
			err = store.Remove(ctx, entry.Item.SourceUrl)
			if err != nil {
				return err
			}
		}
		err = store.Add(ctx, *fresh)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s Service) refreshEntry(ctx context.Context, entry wishlist.Entry) (*webopac.Item, error) {
	item, err := s.Item(ctx, entry.Item.SourceUrl, entry.Item.Available)
	if err == nil && item.Title != "" {
		return item, nil
	}
	if errors.Is(err, webopac.ErrSessionExpired) {
		return nil, err
	}

	// the stored URL is stale, find the item again by title
	progress, err := s.Search(ctx, entry.Item.Title)
	if err != nil {
		return nil, err
	}
	var final webopac.SearchProgress
	for p := range progress {
		final = p
	}
	if !final.Success {
		return nil, errors.New(final.Message)
	}

	match, ok := bestTitleMatch(entry.Item.Title, final.Results)
	if !ok {
		return nil, errors.New("no matching catalogue entry found")
	}
	return s.Item(ctx, match.SourceUrl, match.Available)
}
