package webopac

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// ResolveItem fetches an item's detail page and assembles the full record.
// availability comes from the list context the caller found the item in,
// the detail page does not restate it.
//
// an expired session surfaces as ErrSessionExpired so the caller can prompt
// for a re-login instead of treating the item as missing.
func (c *Client) ResolveItem(ctx context.Context, itemUrl string, available bool) (*Item, error) {
	ctx, span := tracer.Start(ctx, "client:ResolveItem")
	defer span.End()
	span.SetAttributes(attribute.String("url", itemUrl))

	doc, err := c.FetchPage(ctx, itemUrl)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch detail page")
		return nil, err
	}

	item := ParseDetailPage(doc)
	item.SourceUrl = itemUrl
	item.Available = available
	if item.Available {
		item.DueDates = nil
	}

	// audiovisual media keep director, language and cast on a second tab
	if ext := ExtendedTabLink(doc); ext != "" {
		extDoc, err := c.FetchPage(ctx, c.AbsoluteUrl(ext))
		if err != nil {
			slog.WarnContext(ctx, "failed to load extended detail tab", "url", ext, "err", err)
		} else {
			item = mergeDetail(item, ParseDetailPage(extDoc))
		}
	}

	return &item, nil
}
