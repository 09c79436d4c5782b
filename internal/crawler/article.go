package crawler

import "time"

// RawRecord is one candidate article as an adapter sees it on a listing
// page. It is ephemeral: produced per page, never persisted.
type RawRecord struct {
	Title      string
	Link       string // absolute by the time the adapter returns it
	RawTime    string // source-native timestamp text, possibly empty
	RawImage   string
	RawSummary string
}

// Article is the canonical persisted form. JSON keys match the on-disk
// store document.
type Article struct {
	Title   string `json:"title"`
	Time    string `json:"time"` // ISO-8601
	Img     string `json:"img"`
	URL     string `json:"url"`
	Summary string `json:"summary"`

	// Source and Date are set only by the aggregator.
	Source string `json:"source,omitempty"`
	Date   string `json:"date,omitempty"`
}

// Detail carries what a per-article detail page adds on top of the
// listing: a better timestamp, an image, a summary. Empty fields mean
// the page had nothing usable.
type Detail struct {
	RawTime string
	Image   string
	Summary string
}

// SourceAdapter abstracts one news site/section: it knows its entry URLs, how
// pagination is expressed in the URL, and how to pull candidate records
// out of a fetched listing page. It never touches the network for
// listing pages; the controller fetches and hands it the bytes.
type SourceAdapter interface {
	Name() string
	EntryURLs() []string

	// PageURL returns the URL for the given 1-based page of an entry,
	// or "" when the entry does not paginate past that page.
	PageURL(entry string, page int) string

	ExtractRecords(body []byte) ([]RawRecord, error)

	// TimeLayouts is the ordered format chain handed to NormalizeTime.
	TimeLayouts() []string
}

// DetailExtractor is implemented by adapters whose listing pages are too
// thin and need a per-record detail fetch. These calls run inside the
// page worker pool, so they share its width limit.
type DetailExtractor interface {
	ExtractDetail(url string) (Detail, error)
}

// SourceConfig bounds one source's crawl.
type SourceConfig struct {
	PageLimit   int           // hard page ceiling per entry URL
	StaleWindow time.Duration // records older than this stop pagination; 0 disables
	StaleStreak int           // consecutive all-stale pages before stopping; min 1
	Concurrency int           // worker pool width per page
	PageDelay   time.Duration // politeness sleep between pages
}

// Source pairs an adapter with its crawl bounds.
type Source struct {
	Adapter SourceAdapter
	Config  SourceConfig
}

func (c SourceConfig) withDefaults() SourceConfig {
	if c.PageLimit <= 0 {
		c.PageLimit = 10
	}
	if c.StaleStreak <= 0 {
		c.StaleStreak = 1
	}
	if c.Concurrency <= 0 {
		c.Concurrency = 3
	}
	return c
}
