package adapters

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"github.com/minho-song/newsarchiver/internal/crawler"
)

const daumBase = "https://news.daum.net"

// Daum crawls the Daum News category fronts. Category pages are a
// single page; only breaking-news entries paginate with ?page=N.
// Listing rows carry the timestamp; summary and image come from the
// article page via a colly detail visit.
type Daum struct{}

func (d *Daum) Name() string { return "daum" }

func (d *Daum) EntryURLs() []string {
	return []string{
		daumBase + "/world",
		daumBase + "/china",
		daumBase + "/northamerica",
		daumBase + "/japan",
		daumBase + "/asia",
		daumBase + "/arab",
		daumBase + "/europe",
		daumBase + "/southamerica",
		daumBase + "/africa",
		daumBase + "/topic",
		daumBase + "/politics",
		daumBase + "/society",
		daumBase + "/economy",
		daumBase + "/climate",
		daumBase + "/breakingnews/world",
	}
}

func (d *Daum) PageURL(entry string, page int) string {
	if !strings.Contains(entry, "breakingnews") {
		if page > 1 {
			return ""
		}
		return entry
	}
	if page == 1 {
		return entry
	}
	return fmt.Sprintf("%s?page=%d", entry, page)
}

func (d *Daum) TimeLayouts() []string {
	// full listing stamp, or bare clock time on "today" rows
	return []string{"2006.01.02. 15:04:05", "15:04"}
}

func (d *Daum) ExtractRecords(body []byte) ([]crawler.RawRecord, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("daum: parse listing: %w", err)
	}

	selector := strings.Join([]string{
		".box_comp.box_news_headline2 .item_newsheadline2",
		".box_comp.box_news_block .item_newsblock",
		".list_newsheadline2 .item_newsheadline2",
		".list_newsbasic .item_newsbasic",
	}, ", ")

	var records []crawler.RawRecord
	doc.Find(selector).Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if href == "" || strings.Contains(href, "javascript") {
			return
		}
		link := absURL(daumBase, href)

		title := strings.TrimSpace(a.Find("span.tit_txt").First().Text())
		if title == "" {
			// headline blocks keep the title in a data attribute
			if dt, ok := a.Attr("data-title"); ok {
				if unescaped, err := url.QueryUnescape(dt); err == nil {
					title = strings.TrimSpace(unescaped)
				}
			}
		}
		if title == "" {
			return
		}

		rawTime := strings.TrimSpace(a.Find("span.txt_info").Last().Text())
		records = append(records, crawler.RawRecord{Title: title, Link: link, RawTime: rawTime})
	})
	return records, nil
}

// ExtractDetail visits the article page for summary and og:image.
func (d *Daum) ExtractDetail(pageURL string) (crawler.Detail, error) {
	c := newDetailCollector("news.daum.net", "v.daum.net", "issue.daum.net")

	var (
		mu     sync.Mutex
		detail crawler.Detail
	)

	c.OnHTML("strong.summary_view", func(e *colly.HTMLElement) {
		mu.Lock()
		defer mu.Unlock()
		if detail.Summary == "" {
			detail.Summary = strings.TrimSpace(e.Text)
		}
	})
	c.OnHTML(`meta[property="og:image"]`, func(e *colly.HTMLElement) {
		mu.Lock()
		defer mu.Unlock()
		if detail.Image == "" {
			detail.Image = e.Attr("content")
		}
	})
	c.OnHTML(`img[alt="thumbnail"]`, func(e *colly.HTMLElement) {
		mu.Lock()
		defer mu.Unlock()
		if detail.Image == "" {
			detail.Image = e.Attr("src")
		}
	})

	if err := c.Visit(pageURL); err != nil {
		return crawler.Detail{}, fmt.Errorf("daum: visit %s: %w", pageURL, err)
	}
	c.Wait()
	return detail, nil
}
