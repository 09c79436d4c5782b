package main

import (
	"log"

	"github.com/minho-song/newsarchiver/internal/adapters"
	"github.com/minho-song/newsarchiver/internal/config"
	"github.com/minho-song/newsarchiver/internal/crawler"
	"github.com/minho-song/newsarchiver/internal/keyword"
	"github.com/minho-song/newsarchiver/internal/scheduler"
	"github.com/minho-song/newsarchiver/internal/storage"
)

// One-shot entry point: run a single crawl pass over every source and
// exit. Suited to cron-style CI runners.
func main() {
	cfg := config.Load()

	var mirror *storage.Mirror
	if cfg.PostgresDSN != "" {
		m, err := storage.NewMirror(cfg.PostgresDSN)
		if err != nil {
			log.Fatalf("init mirror failed: %v", err)
		}
		mirror = m
	}

	fetch := crawler.NewHTTPFetcher(cfg.FetchTimeout, 0)
	sources := adapters.Sources(fetch, adapters.Defaults{
		PageWorkers:      cfg.PageWorkers,
		PageLimit:        cfg.PageLimit,
		StaleWindow:      cfg.StaleWindow,
		StaleStreak:      cfg.StaleStreak,
		PageDelay:        cfg.PageDelay,
		RenderExtractURL: cfg.RenderExtractURL,
	})

	for _, src := range sources {
		if err := mirror.EnsureSource(src.Adapter.Name(), src.Adapter.Name(), src.Adapter.EntryURLs()[0]); err != nil {
			log.Fatalf("ensure source %s failed: %v", src.Adapter.Name(), err)
		}
	}

	runner := &crawler.Runner{Fetch: fetch, MinMatches: cfg.MinKeywords}
	keywords := keyword.NewRemoteStore(cfg.KeywordURL, cfg.KeywordFallback)

	s, err := scheduler.New("", sources, runner, keywords, cfg.DataDir, mirror, cfg.RunTimeout)
	if err != nil {
		log.Fatalf("init scheduler failed: %v", err)
	}

	s.RunOnce()
}
