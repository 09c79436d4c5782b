// Package adapters holds the site-specific half of the crawler: for
// each source, how listing pages map to candidate records and how much
// a detail page adds. The core never inspects markup; everything
// selector-shaped lives here.
package adapters

import (
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/minho-song/newsarchiver/internal/crawler"
)

const detailUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Defaults are the crawl bounds applied to every source unless the
// site dictates otherwise.
type Defaults struct {
	PageWorkers      int
	PageLimit        int
	StaleWindow      time.Duration
	StaleStreak      int
	PageDelay        time.Duration
	RenderExtractURL string
}

// Sources builds the full source registry. Order is the crawl order.
func Sources(fetch crawler.Fetcher, d Defaults) []crawler.Source {
	cfg := crawler.SourceConfig{
		PageLimit:   d.PageLimit,
		StaleWindow: d.StaleWindow,
		StaleStreak: d.StaleStreak,
		Concurrency: d.PageWorkers,
		PageDelay:   d.PageDelay,
	}

	render := NewRenderClient(d.RenderExtractURL)

	return []crawler.Source{
		{Adapter: &Naver{Fetch: fetch, Render: render}, Config: cfg},
		{Adapter: &Daum{}, Config: cfg},
		{Adapter: &Boannews{}, Config: cfg},
	}
}

// newDetailCollector returns a colly collector restricted to the given
// domains, configured the same way for every detail-page adapter.
func newDetailCollector(domains ...string) *colly.Collector {
	c := colly.NewCollector(
		colly.AllowedDomains(domains...),
		colly.UserAgent(detailUserAgent),
	)
	c.SetRequestTimeout(10 * time.Second)
	return c
}

// absURL joins a possibly relative href onto its site base.
func absURL(base, href string) string {
	href = strings.TrimSpace(href)
	switch {
	case href == "":
		return ""
	case strings.HasPrefix(href, "http"):
		return href
	case strings.HasPrefix(href, "/"):
		return base + href
	default:
		return base + "/" + href
	}
}

// truncateRunes caps s at limit runes, appending an ellipsis marker
// when something was cut.
func truncateRunes(s string, limit int) string {
	s = strings.TrimSpace(s)
	rs := []rune(s)
	if len(rs) <= limit {
		return s
	}
	return string(rs[:limit]) + "..."
}
