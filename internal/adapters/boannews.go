package adapters

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"github.com/minho-song/newsarchiver/internal/crawler"
)

const (
	boannewsBase = "https://www.boannews.com"
	boannewsList = boannewsBase + "/media/t_list.asp"
)

// Boannews crawls the security-news list, which paginates with ?Page=N
// in strict reverse-chronological order. The listing row carries
// "<writer> | <time>" next to each title.
type Boannews struct{}

func (b *Boannews) Name() string { return "boannews" }

func (b *Boannews) EntryURLs() []string {
	return []string{boannewsList}
}

func (b *Boannews) PageURL(entry string, page int) string {
	if page == 1 {
		return entry
	}
	return fmt.Sprintf("%s?Page=%d", entry, page)
}

func (b *Boannews) TimeLayouts() []string {
	return []string{"2006년 01월 02일 15:04"}
}

func (b *Boannews) ExtractRecords(body []byte) ([]crawler.RawRecord, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("boannews: parse listing: %w", err)
	}

	media := doc.Find("#media").First()
	if media.Length() == 0 {
		return nil, nil
	}

	var records []crawler.RawRecord
	media.Find("span.news_txt").Each(func(_ int, txt *goquery.Selection) {
		title := strings.TrimSpace(txt.Text())
		if title == "" {
			return
		}

		link := b.findLink(txt)
		if link == "" {
			return
		}

		rawTime := b.findTime(txt)
		if rawTime == "" {
			return
		}

		records = append(records, crawler.RawRecord{Title: title, Link: link, RawTime: rawTime})
	})
	return records, nil
}

// findLink locates the anchor for a title span, which may wrap the
// span, sit inside it, or live on a nearby ancestor.
func (b *Boannews) findLink(txt *goquery.Selection) string {
	if txt.Is("a") {
		if href, ok := txt.Attr("href"); ok {
			return b.absMediaURL(href)
		}
	}
	if a := txt.Find("a").First(); a.Length() > 0 {
		if href, ok := a.Attr("href"); ok {
			return b.absMediaURL(href)
		}
	}
	parent := txt.Parent()
	for i := 0; i < 5 && parent.Length() > 0; i++ {
		if a := parent.Find("a").First(); a.Length() > 0 {
			if href, ok := a.Attr("href"); ok {
				return b.absMediaURL(href)
			}
		}
		parent = parent.Parent()
	}
	return ""
}

// findTime reads the "<writer> | 2025년 07월 31일 13:44" span near the
// title and returns the timestamp half.
func (b *Boannews) findTime(txt *goquery.Selection) string {
	parent := txt.Parent()
	for i := 0; i < 5 && parent.Length() > 0; i++ {
		writer := parent.Find("span.news_writer").First()
		if writer.Length() > 0 {
			parts := strings.Split(writer.Text(), "|")
			if len(parts) >= 2 {
				return strings.TrimSpace(parts[1])
			}
			return ""
		}
		parent = parent.Parent()
	}
	return ""
}

func (b *Boannews) absMediaURL(href string) string {
	href = strings.TrimSpace(href)
	switch {
	case href == "":
		return ""
	case strings.HasPrefix(href, "http"):
		return href
	case strings.HasPrefix(href, "/"):
		return boannewsBase + href
	default:
		// list hrefs are relative to /media/
		return boannewsBase + "/media/" + href
	}
}

// ExtractDetail visits the article for a lead image and a body excerpt.
func (b *Boannews) ExtractDetail(pageURL string) (crawler.Detail, error) {
	c := newDetailCollector("www.boannews.com")

	var (
		mu     sync.Mutex
		detail crawler.Detail
	)

	c.OnHTML(".news_content img, .view_content img, #news_content img", func(e *colly.HTMLElement) {
		mu.Lock()
		defer mu.Unlock()
		if detail.Image == "" {
			detail.Image = b.absMediaURL(e.Attr("src"))
		}
	})
	c.OnHTML(".news_content, .view_content, #news_content", func(e *colly.HTMLElement) {
		mu.Lock()
		defer mu.Unlock()
		if detail.Summary == "" {
			detail.Summary = truncateRunes(e.Text, 200)
		}
	})

	if err := c.Visit(pageURL); err != nil {
		return crawler.Detail{}, fmt.Errorf("boannews: visit %s: %w", pageURL, err)
	}
	c.Wait()
	return detail, nil
}
