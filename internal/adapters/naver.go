package adapters

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/minho-song/newsarchiver/internal/crawler"
)

const naverBase = "https://news.naver.com"

// Naver crawls the single-page "latest" blocks of Naver News sections.
// The listing carries only title and link; timestamp, image and summary
// all come from the article detail page. Articles without a static
// summary fall back to the render sidecar when one is configured.
type Naver struct {
	Fetch  crawler.Fetcher
	Render *RenderClient
}

func (n *Naver) Name() string { return "naver" }

func (n *Naver) EntryURLs() []string {
	return []string{
		naverBase + "/section/100", // politics
		naverBase + "/section/101", // economy
		naverBase + "/section/103", // life/culture
		naverBase + "/section/104", // world
		naverBase + "/section/105", // tech/science
		naverBase + "/breakingnews/section/104/231", // asia/australia
		naverBase + "/breakingnews/section/104/232", // europe
		naverBase + "/breakingnews/section/104/233", // latin america
		naverBase + "/breakingnews/section/104/234", // middle east/africa
		naverBase + "/breakingnews/section/104/322", // north america
	}
}

// Section pages are not paginated; each entry is exactly one page.
func (n *Naver) PageURL(entry string, page int) string {
	if page > 1 {
		return ""
	}
	return entry
}

func (n *Naver) TimeLayouts() []string {
	return []string{"2006-01-02 15:04:05"}
}

func (n *Naver) ExtractRecords(body []byte) ([]crawler.RawRecord, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("naver: parse listing: %w", err)
	}

	var records []crawler.RawRecord
	doc.Find("div.section_latest_article ul li").Each(func(_ int, li *goquery.Selection) {
		strong := li.Find("div.sa_text a strong").First()
		title := strings.TrimSpace(strong.Text())
		if title == "" {
			return
		}
		href, _ := strong.Parent().Attr("href")
		link := absURL(naverBase, href)
		if link == "" {
			return
		}
		records = append(records, crawler.RawRecord{Title: title, Link: link})
	})
	return records, nil
}

// ExtractDetail pulls the publish time, lead image and editorial
// summary from the article page. A missing timestamp fails the record:
// the pipeline must not fall back to the current time.
func (n *Naver) ExtractDetail(url string) (crawler.Detail, error) {
	body, err := n.Fetch(context.Background(), url)
	if err != nil {
		return crawler.Detail{}, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return crawler.Detail{}, fmt.Errorf("naver: parse article: %w", err)
	}

	var detail crawler.Detail

	if t := doc.Find(`span[class*="ARTICLE_DATE_TIME"]`).First(); t.Length() > 0 {
		detail.RawTime, _ = t.Attr("data-date-time")
	}

	// newer articles use .media_end_summary, older ones a styled strong
	if s := doc.Find(".media_end_summary").First(); s.Length() > 0 {
		detail.Summary = strings.TrimSpace(s.Text())
	}
	if detail.Summary == "" {
		if s := doc.Find(`article#dic_area strong[style*="border-left: 2px solid"]`).First(); s.Length() > 0 {
			detail.Summary = strings.TrimSpace(s.Text())
		}
	}
	if detail.Summary == "" {
		if s, rerr := n.Render.Summary(context.Background(), url, 200); rerr != nil {
			log.Printf("warn: naver: render summary %s: %v", url, rerr)
		} else if s != "" {
			detail.Summary = s
		}
	}

	if img := doc.Find("img#img1").First(); img.Length() > 0 {
		detail.Image, _ = img.Attr("data-src")
	}

	return detail, nil
}
