package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/minho-song/newsarchiver/internal/crawler"
)

const testLabel = "2025년 07월 31일 목요일"

func testArticles() []crawler.Article {
	return []crawler.Article{
		{Title: "first", Time: "2025-07-31T09:00:00", URL: "https://example.com/1"},
		{Title: "second", Time: "2025-07-31T10:00:00", URL: "https://example.com/2"},
	}
}

func TestMergeIsIdempotent(t *testing.T) {
	store := NewFileStore(t.TempDir(), "stub")

	added, err := store.Merge(testArticles(), testLabel)
	if err != nil {
		t.Fatalf("first merge error: %v", err)
	}
	if added != 2 {
		t.Fatalf("first merge added = %d, want 2", added)
	}

	added, err = store.Merge(testArticles(), testLabel)
	if err != nil {
		t.Fatalf("second merge error: %v", err)
	}
	if added != 0 {
		t.Fatalf("second merge added = %d, want 0", added)
	}

	buckets := store.Load()
	if len(buckets) != 1 {
		t.Fatalf("buckets = %d, want 1", len(buckets))
	}
	if len(buckets[0].Articles) != 2 {
		t.Fatalf("articles = %d, want 2", len(buckets[0].Articles))
	}
}

func TestMergeAppendsOnlyNewURLs(t *testing.T) {
	store := NewFileStore(t.TempDir(), "stub")

	if _, err := store.Merge(testArticles(), testLabel); err != nil {
		t.Fatalf("merge error: %v", err)
	}

	more := append(testArticles(), crawler.Article{
		Title: "third", Time: "2025-07-31T11:00:00", URL: "https://example.com/3",
	})
	added, err := store.Merge(more, testLabel)
	if err != nil {
		t.Fatalf("merge error: %v", err)
	}
	if added != 1 {
		t.Fatalf("added = %d, want 1", added)
	}
}

func TestMergeEmptyBatchStillCreatesTodayBucket(t *testing.T) {
	store := NewFileStore(t.TempDir(), "stub")

	added, err := store.Merge(nil, testLabel)
	if err != nil {
		t.Fatalf("merge error: %v", err)
	}
	if added != 0 {
		t.Fatalf("added = %d, want 0", added)
	}

	buckets := store.Load()
	if len(buckets) != 1 {
		t.Fatalf("buckets = %d, want 1 empty-day marker", len(buckets))
	}
	if buckets[0].Date != testLabel {
		t.Fatalf("bucket date = %q, want %q", buckets[0].Date, testLabel)
	}
	if buckets[0].Articles == nil || len(buckets[0].Articles) != 0 {
		t.Fatalf("bucket articles = %#v, want empty non-nil slice", buckets[0].Articles)
	}
}

func TestMergeKeepsSeparateDayBuckets(t *testing.T) {
	store := NewFileStore(t.TempDir(), "stub")

	if _, err := store.Merge(testArticles(), "2025년 07월 30일 수요일"); err != nil {
		t.Fatalf("merge error: %v", err)
	}
	if _, err := store.Merge([]crawler.Article{
		{Title: "third", Time: "2025-07-31T11:00:00", URL: "https://example.com/3"},
	}, testLabel); err != nil {
		t.Fatalf("merge error: %v", err)
	}

	buckets := store.Load()
	if len(buckets) != 2 {
		t.Fatalf("buckets = %d, want 2", len(buckets))
	}
	// insertion order, not sorted
	if buckets[0].Date != "2025년 07월 30일 수요일" || buckets[1].Date != testLabel {
		t.Fatalf("bucket order = %q, %q", buckets[0].Date, buckets[1].Date)
	}
}

func TestLoadSelfHealsOnCorruptFile(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir, "stub")

	if err := os.WriteFile(store.Path(), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	if got := store.Load(); got != nil {
		t.Fatalf("Load on corrupt file = %#v, want nil", got)
	}

	// merging over the corrupt file starts fresh instead of failing
	added, err := store.Merge(testArticles(), testLabel)
	if err != nil {
		t.Fatalf("merge over corrupt file error: %v", err)
	}
	if added != 2 {
		t.Fatalf("added = %d, want 2", added)
	}
}

func TestExistingURLsWalksAllBuckets(t *testing.T) {
	store := NewFileStore(t.TempDir(), "stub")

	if _, err := store.Merge(testArticles(), "2025년 07월 30일 수요일"); err != nil {
		t.Fatalf("merge error: %v", err)
	}
	if _, err := store.Merge([]crawler.Article{
		{Title: "third", Time: "2025-07-31T11:00:00", URL: "https://example.com/3"},
	}, testLabel); err != nil {
		t.Fatalf("merge error: %v", err)
	}

	urls := store.ExistingURLs()
	if len(urls) != 3 {
		t.Fatalf("ExistingURLs = %v, want 3 entries", urls)
	}
}

func TestSourceFromPath(t *testing.T) {
	if got := SourceFromPath(filepath.Join("news_json", "naver_News.json")); got != "naver" {
		t.Fatalf("SourceFromPath = %q, want %q", got, "naver")
	}
	if got := SourceFromPath("random.json"); got != "" {
		t.Fatalf("SourceFromPath on non-store = %q, want empty", got)
	}
}
