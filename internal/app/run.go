package app

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"roomreviews/internal/domain"
)

// Orchestrator fans room scrapes out over a bounded worker pool and
// always returns one RoomResult per input URL, in input order. A
// failed room never aborts the others.
type Orchestrator struct {
	feed    domain.FeedClient
	workers int
}

func NewOrchestrator(feed domain.FeedClient, workers int) *Orchestrator {
	if workers <= 0 {
		workers = 2
	}
	return &Orchestrator{feed: feed, workers: workers}
}

// Report is the run summary the CLI and the scrape API hand back.
type Report struct {
	RunID     string        `json:"runId"`
	Rooms     int           `json:"rooms"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Reviews   int           `json:"reviews"`
	Duration  time.Duration `json:"-"`
}

func (r Report) AllFailed() bool { return r.Rooms > 0 && r.Failed == r.Rooms }

// Run scrapes every URL. maxItems caps admitted reviews per room;
// <= 0 means no cap. Cancelling ctx stops new fetches, but every URL
// still gets a result slot.
func (o *Orchestrator) Run(ctx context.Context, urls []string, maxItems int) ([]domain.RoomResult, Report) {
	start := time.Now()
	report := Report{RunID: uuid.NewString(), Rooms: len(urls)}

	results := make([]domain.RoomResult, len(urls))
	sem := semaphore.NewWeighted(int64(o.workers))
	var wg sync.WaitGroup

	for i, raw := range urls {
		if err := sem.Acquire(ctx, 1); err != nil {
			results[i] = domain.RoomResult{
				RoomURL: raw,
				Reviews: []domain.ReviewRecord{},
				Err:     domain.NewRoomError(&domain.TransportError{Kind: domain.TransportNetwork, Err: err}),
			}
			continue
		}
		wg.Add(1)
		go func(i int, raw string) {
			defer wg.Done()
			defer sem.Release(1)
			results[i] = o.scrapeRoom(ctx, raw, maxItems)
		}(i, raw)
	}
	wg.Wait()

	for _, res := range results {
		if res.Failed() {
			report.Failed++
			continue
		}
		report.Succeeded++
		report.Reviews += len(res.Reviews)
	}
	report.Duration = time.Since(start)

	log.Info().
		Str("run_id", report.RunID).
		Int("rooms", report.Rooms).
		Int("succeeded", report.Succeeded).
		Int("failed", report.Failed).
		Int("reviews", report.Reviews).
		Dur("took", report.Duration).
		Msg("run finished")
	return results, report
}

func (o *Orchestrator) scrapeRoom(ctx context.Context, raw string, maxItems int) domain.RoomResult {
	res := domain.RoomResult{RoomURL: raw, Reviews: []domain.ReviewRecord{}}

	room, err := domain.ParseRoomURL(raw)
	if err != nil {
		res.Err = domain.NewRoomError(err)
		log.Warn().Err(err).Str("url", raw).Msg("room skipped")
		return res
	}

	pg := &paginator{
		feed: o.feed,
		room: room,
		adm:  newAdmitter(maxItems),
		log:  log.With().Str("room", room.ID).Logger(),
	}
	records, stats, err := pg.run(ctx)
	if len(records) > 0 {
		res.Reviews = records
	}
	if err != nil {
		res.Err = domain.NewRoomError(err)
		log.Warn().Err(err).
			Str("url", raw).
			Int("pages", stats.pages).
			Int("admitted", stats.admitted).
			Msg("room scrape failed")
		return res
	}

	log.Info().
		Str("url", raw).
		Int("pages", stats.pages).
		Int("reviews", stats.admitted).
		Int("skipped", stats.skipped).
		Int("duplicates", stats.dupes).
		Msg("room scraped")
	return res
}
