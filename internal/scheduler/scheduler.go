package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/minho-song/newsarchiver/internal/aggregator"
	"github.com/minho-song/newsarchiver/internal/crawler"
	"github.com/minho-song/newsarchiver/internal/keyword"
	"github.com/minho-song/newsarchiver/internal/storage"
)

// Scheduler owns the periodic crawl pass: keyword load, every source
// crawled in sequence, per-source store merge, optional mirror write,
// then the rolling aggregate rebuild.
type Scheduler struct {
	cron       *cron.Cron
	sources    []crawler.Source
	runner     *crawler.Runner
	keywords   keyword.Store
	dataDir    string
	mirror     *storage.Mirror
	runTimeout time.Duration
}

func New(spec string, sources []crawler.Source, runner *crawler.Runner, keywords keyword.Store, dataDir string, mirror *storage.Mirror, runTimeout time.Duration) (*Scheduler, error) {
	c := cron.New()

	s := &Scheduler{
		cron:       c,
		sources:    sources,
		runner:     runner,
		keywords:   keywords,
		dataDir:    dataDir,
		mirror:     mirror,
		runTimeout: runTimeout,
	}

	if spec != "" {
		if _, err := c.AddFunc(spec, s.runOnce); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	// delay the first pass so API startup is not competing with crawls
	const startupDelay = 15 * time.Second
	time.AfterFunc(startupDelay, func() {
		go s.runOnce()
	})
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// RunOnce is the manual trigger used by cmd/crawl and the API.
func (s *Scheduler) RunOnce() {
	s.runOnce()
}

func (s *Scheduler) runOnce() {
	log.Println("start crawl pass...")

	ctx := context.Background()
	cancel := context.CancelFunc(func() {})
	if s.runTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, s.runTimeout)
	}
	defer cancel()

	required, excluded := s.keywords.Load(ctx)
	s.runner.SetKeywords(required, excluded)

	now := time.Now()
	todayLabel := storage.DayLabel(now)

	// sequential across sources: each run exclusively owns its store
	for _, src := range s.sources {
		if ctx.Err() != nil {
			log.Printf("warn: crawl pass cancelled: %v", ctx.Err())
			break
		}

		name := src.Adapter.Name()
		store := storage.NewFileStore(s.dataDir, name)

		dedup := crawler.NewDedupState()
		dedup.Seed(store.ExistingURLs())

		batch := s.runner.RunSource(ctx, src, dedup)

		added, err := store.Merge(batch, todayLabel)
		if err != nil {
			log.Printf("merge %s error: %v", name, err)
			continue
		}
		if added > 0 {
			log.Printf("%s: merged %d new articles", name, added)
		} else {
			log.Printf("%s: no new articles, today's bucket kept", name)
		}

		if err := s.mirror.SaveBatch(name, batch); err != nil {
			log.Printf("warn: mirror %s: %v", name, err)
		}
	}

	buckets, errs := aggregator.Build(s.dataDir, 2, now)
	for _, e := range errs {
		log.Printf("warn: aggregate: %v", e)
	}
	if err := aggregator.WriteRolling(s.dataDir, buckets); err != nil {
		log.Printf("aggregate write error: %v", err)
		return
	}
	log.Printf("crawl pass done, rolling view has %d articles", aggregator.Count(buckets))
}
