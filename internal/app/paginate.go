package app

import (
	"context"

	"github.com/rs/zerolog"

	"roomreviews/internal/domain"
)

// pagerState tracks one room's walk through its reviews feed.
type pagerState uint8

const (
	pagerStart pagerState = iota
	pagerFetching
	pagerHasMore
	pagerExhausted
	pagerFailed
)

// pageStats summarizes one walk for logs and tests.
type pageStats struct {
	pages    int
	skipped  int
	dupes    int
	admitted int
}

// paginator walks one room's feed until the cursor runs out, the item
// budget fills, or a page fails. Every transition out of pagerFetching
// either carries a fresh cursor or ends the walk, so no page is ever
// requested twice.
type paginator struct {
	feed domain.FeedClient
	room domain.RoomRef
	adm  *admitter
	log  zerolog.Logger
}

// run returns the admitted records in feed order. On failure the
// records admitted so far come back alongside the error.
func (p *paginator) run(ctx context.Context) ([]domain.ReviewRecord, pageStats, error) {
	var (
		out    []domain.ReviewRecord
		stats  pageStats
		cursor string
		next   string
		runErr error
	)

	state := pagerStart
	for {
		switch state {
		case pagerStart:
			state = pagerFetching

		case pagerFetching:
			payload, err := p.feed.FetchReviews(ctx, p.room, cursor)
			if err != nil {
				runErr = err
				state = pagerFailed
				continue
			}
			page, err := extractPage(payload)
			if err != nil {
				runErr = err
				state = pagerFailed
				continue
			}
			stats.pages++
			stats.skipped += page.skipped

			for _, rec := range page.records {
				v := p.adm.admit(rec.ID)
				if v == admitBudget {
					break // budget filled, drop the rest of the page
				}
				if v == admitDuplicate {
					stats.dupes++
					continue
				}
				out = append(out, rec)
			}

			switch {
			case p.adm.exhausted(), page.nextCursor == "":
				state = pagerExhausted
			default:
				next = page.nextCursor
				state = pagerHasMore
			}

		case pagerHasMore:
			cursor = next
			state = pagerFetching

		case pagerExhausted:
			stats.admitted = p.adm.admitted()
			p.log.Debug().
				Int("pages", stats.pages).
				Int("admitted", stats.admitted).
				Msg("room feed exhausted")
			return out, stats, nil

		case pagerFailed:
			stats.admitted = p.adm.admitted()
			return out, stats, runErr
		}
	}
}
