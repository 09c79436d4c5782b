package crawler

import (
	"context"
	"log"
	"time"
)

// Runner drives one crawl run. Sources are crawled sequentially (they
// share neither dedup state nor rate limits); records within one page
// run in parallel under the page pool.
type Runner struct {
	Fetch      Fetcher
	MinMatches int              // required-keyword threshold, min 1
	Now        func() time.Time // nil means time.Now

	required []string
	excluded []string
}

// SetKeywords installs the keyword lists for this run. The slices are
// read-only after this call and safely shared by all workers.
func (r *Runner) SetKeywords(required, excluded []string) {
	r.required = required
	r.excluded = excluded
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// RunSource crawls every entry URL of one source and returns the
// accepted batch. Fetch failures stop the failing entry's pagination
// and keep whatever was already accumulated; they never fail the run.
func (r *Runner) RunSource(ctx context.Context, src Source, dedup *DedupState) []Article {
	var batch []Article
	for _, entry := range src.Adapter.EntryURLs() {
		if ctx.Err() != nil {
			break
		}
		batch = append(batch, r.crawlEntry(ctx, src, entry, dedup)...)
	}
	log.Printf("%s: run done, accepted=%d", src.Adapter.Name(), len(batch))
	return batch
}

// crawlEntry paginates one entry URL until a stop condition holds.
// Stop priority: page limit, then empty page, then staleness.
func (r *Runner) crawlEntry(ctx context.Context, src Source, entry string, dedup *DedupState) []Article {
	cfg := src.Config.withDefaults()
	name := src.Adapter.Name()

	var accepted []Article
	staleRun := 0

	for page := 1; ; page++ {
		pageURL := src.Adapter.PageURL(entry, page)
		if pageURL == "" {
			break // entry does not paginate this far
		}

		body, err := r.Fetch(ctx, pageURL)
		if err != nil {
			log.Printf("warn: %s: page %d: %v", name, page, err)
			break // keep what we have, never block other sources
		}

		records, err := src.Adapter.ExtractRecords(body)
		if err != nil {
			log.Printf("warn: %s: parse page %d: %v", name, page, err)
			break
		}

		res := r.processPage(ctx, src, records, dedup)
		if ctx.Err() != nil {
			break // current page's partial result already discarded
		}
		accepted = append(accepted, res.accepted...)
		log.Printf("%s: page %d: records=%d accepted=%d", name, page, len(records), len(res.accepted))

		if page >= cfg.PageLimit {
			break
		}
		if len(records) == 0 {
			break
		}
		if res.parsed > 0 && res.stale == res.parsed {
			staleRun++
			if staleRun >= cfg.StaleStreak {
				break
			}
		} else {
			staleRun = 0
		}

		if cfg.PageDelay > 0 {
			select {
			case <-time.After(cfg.PageDelay):
			case <-ctx.Done():
				return accepted
			}
		}
	}
	return accepted
}
