package catalogue

import (
	"context"
	"time"

	"bibassist-backend/lib/scrapers/webopac"
	"bibassist-backend/lib/textutil"
)

const dueDateLayout = "02.01.2006"

// applies the media-type allow-list and the due-date-before filter to each
// progress event. events keep their page counters and flags, only the
// result sequence shrinks.
func (s Service) filterProgress(ctx context.Context, in <-chan webopac.SearchProgress) <-chan webopac.SearchProgress {
	if len(s.settings.MediaTypes) == 0 && s.settings.DueDateBefore == "" {
		return in
	}

	out := make(chan webopac.SearchProgress, 1)
	go func() {
		defer close(out)
		for progress := range in {
			progress.Results = s.filterItems(progress.Results)
			select {
			case out <- progress:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

func (s Service) filterItems(items []webopac.Item) []webopac.Item {
	var kept []webopac.Item
	for _, item := range items {
		if !s.mediumAllowed(item.Medium) {
			continue
		}
		if !s.dueBefore(item) {
			continue
		}
		kept = append(kept, item)
	}
	return kept
}

func (s Service) mediumAllowed(medium webopac.MediumKind) bool {
	if len(s.settings.MediaTypes) == 0 {
		return true
	}
	for _, allowed := range s.settings.MediaTypes {
		if textutil.NormalizeName(allowed) == textutil.NormalizeName(medium.String()) {
			return true
		}
	}
	return false
}

// with a due-date-before filter set, unavailable items only stay when they
// come back before the cutoff. available items always pass, and items with
// unparseable dates are kept rather than silently dropped.
func (s Service) dueBefore(item webopac.Item) bool {
	if s.settings.DueDateBefore == "" || item.Available || len(item.DueDates) == 0 {
		return true
	}
	cutoff, err := time.Parse(dueDateLayout, s.settings.DueDateBefore)
	if err != nil {
		return true
	}

	for _, raw := range item.DueDates {
		due, err := time.Parse(dueDateLayout, raw)
		if err != nil {
			return true
		}
		if due.Before(cutoff) {
			return true
		}
	}
	return false
}
