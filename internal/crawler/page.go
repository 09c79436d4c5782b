package crawler

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"
)

// pageResult is what one page contributes back to the controller.
type pageResult struct {
	accepted []Article
	parsed   int // records whose timestamp normalized
	stale    int // of those, how many fell outside the stale window
}

// processPage runs the per-record pipeline (filter, detail fetch, time
// normalization, dedup) for every record of one page under a bounded
// worker pool. One record's failure is logged and dropped, never
// aborting the page. On cancellation the page's partial result is
// discarded so the store only ever sees complete pages.
func (r *Runner) processPage(ctx context.Context, src Source, records []RawRecord, dedup *DedupState) pageResult {
	cfg := src.Config.withDefaults()

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, cfg.Concurrency)
		res pageResult
	)

	for _, rec := range records {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{} // blocks when the pool is saturated
		go func(rec RawRecord) {
			defer wg.Done()
			defer func() { <-sem }()

			art, parsed, stale, err := r.processRecord(src, rec, dedup)

			mu.Lock()
			defer mu.Unlock()
			if parsed {
				res.parsed++
			}
			if stale {
				res.stale++
			}
			if err != nil {
				var tpe *TimeParseError
				if errors.As(err, &tpe) {
					log.Printf("%s: skip record %q: %v", src.Adapter.Name(), rec.Title, err)
				} else {
					log.Printf("%s: record %q: %v", src.Adapter.Name(), rec.Title, err)
				}
				return
			}
			if art != nil {
				res.accepted = append(res.accepted, *art)
			}
		}(rec)
	}
	wg.Wait()

	if ctx.Err() != nil {
		// never merge a partially processed page
		return pageResult{}
	}
	return res
}

// processRecord takes one raw record through filter, optional detail
// fetch, time normalization and the dedup compare-and-insert. A nil
// article with nil error is an expected rejection, not a failure.
func (r *Runner) processRecord(src Source, rec RawRecord, dedup *DedupState) (art *Article, parsed, stale bool, err error) {
	title := strings.TrimSpace(rec.Title)
	if title == "" || rec.Link == "" {
		return nil, false, false, nil
	}

	now := r.now()
	layouts := src.Adapter.TimeLayouts()
	cfg := src.Config

	// A listing-provided timestamp is checked before anything else, so
	// old pages still signal staleness even when nothing on them passes
	// the keyword filter.
	var t time.Time
	haveTime := rec.RawTime != ""
	if haveTime {
		t, err = NormalizeTime(rec.RawTime, layouts, now)
		if err != nil {
			return nil, false, false, err
		}
		if cfg.StaleWindow > 0 && now.Sub(t) > cfg.StaleWindow {
			return nil, true, true, nil
		}
	}

	if !IsRelevant(title, r.required, r.excluded, r.MinMatches) {
		return nil, haveTime, false, nil
	}
	if dedup.Contains(rec.Link) {
		return nil, haveTime, false, nil
	}

	img, summary := rec.RawImage, rec.RawSummary
	if de, ok := src.Adapter.(DetailExtractor); ok {
		detail, derr := de.ExtractDetail(rec.Link)
		if derr != nil {
			log.Printf("warn: %s: detail %s: %v", src.Adapter.Name(), rec.Link, derr)
		} else {
			if img == "" {
				img = detail.Image
			}
			if summary == "" {
				summary = detail.Summary
			}
			if !haveTime {
				t, err = NormalizeTime(detail.RawTime, layouts, now)
				if err != nil {
					return nil, false, false, err
				}
				haveTime = true
				if cfg.StaleWindow > 0 && now.Sub(t) > cfg.StaleWindow {
					return nil, true, true, nil
				}
			}
		}
	}
	if !haveTime {
		return nil, false, false, &TimeParseError{Raw: rec.RawTime}
	}

	if !dedup.MarkSeen(rec.Link, title) {
		return nil, true, false, nil
	}

	return &Article{
		Title:   title,
		Time:    t.Format("2006-01-02T15:04:05"),
		Img:     img,
		URL:     rec.Link,
		Summary: summary,
	}, true, false, nil
}
