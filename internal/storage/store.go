package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/minho-song/newsarchiver/internal/crawler"
)

// DayBucket groups one calendar day's articles inside a source store.
// At most one bucket exists per distinct date label, and URLs within a
// bucket are pairwise distinct.
type DayBucket struct {
	Date     string            `json:"date"`
	Articles []crawler.Article `json:"articles"`
}

// FileStore is the per-source date-bucketed archive: one JSON document,
// read-merge-written as a whole. That makes Merge unsafe under
// concurrent writers; the runner guarantees one writer per source.
type FileStore struct {
	path string
}

const storeSuffix = "_News.json"

// NewFileStore opens the store for one source under dataDir. The file
// is created on first merge.
func NewFileStore(dataDir, source string) *FileStore {
	return &FileStore{path: filepath.Join(dataDir, source+storeSuffix)}
}

// Path returns the backing file's location.
func (s *FileStore) Path() string { return s.path }

// SourceFromPath recovers the source id from a store filename, e.g.
// "naver_News.json" -> "naver". Empty when the name is not a store.
func SourceFromPath(path string) string {
	base := filepath.Base(path)
	if !strings.HasSuffix(base, storeSuffix) {
		return ""
	}
	return strings.TrimSuffix(base, storeSuffix)
}

// Load reads the persisted document. A missing, empty or malformed file
// is treated as an empty store: self-healing, never fatal.
func (s *FileStore) Load() []DayBucket {
	buckets, err := ReadDocument(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Printf("warn: store %s unreadable, starting empty: %v", s.path, err)
		}
		return nil
	}
	return buckets
}

// ReadDocument reads a store document strictly: any read or decode
// failure is returned. Load absorbs these; the aggregator records them.
func ReadDocument(path string) ([]DayBucket, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	var buckets []DayBucket
	if err := json.Unmarshal(data, &buckets); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return buckets, nil
}

// ExistingURLs walks every bucket once and returns all persisted URLs.
// Used to seed the run's dedup state.
func (s *FileStore) ExistingURLs() []string {
	var urls []string
	for _, b := range s.Load() {
		for _, a := range b.Articles {
			if a.URL != "" {
				urls = append(urls, a.URL)
			}
		}
	}
	return urls
}

// Merge appends newArticles into todayLabel's bucket, skipping URLs the
// bucket already holds, and writes the whole document back. When the
// bucket is absent it is appended even for an empty batch, so a run
// that found nothing still leaves a visible marker for today. Returns
// how many articles were actually added.
func (s *FileStore) Merge(newArticles []crawler.Article, todayLabel string) (int, error) {
	buckets := s.Load()

	added := 0
	var today *DayBucket
	for i := range buckets {
		if buckets[i].Date == todayLabel {
			today = &buckets[i]
			break
		}
	}

	if today != nil {
		seen := make(map[string]struct{}, len(today.Articles))
		for _, a := range today.Articles {
			seen[a.URL] = struct{}{}
		}
		for _, a := range newArticles {
			if _, ok := seen[a.URL]; ok {
				continue
			}
			seen[a.URL] = struct{}{}
			today.Articles = append(today.Articles, a)
			added++
		}
	} else {
		articles := newArticles
		if articles == nil {
			articles = []crawler.Article{}
		}
		buckets = append(buckets, DayBucket{Date: todayLabel, Articles: articles})
		added = len(newArticles)
	}

	if err := writeDocument(s.path, buckets); err != nil {
		return 0, err
	}
	return added, nil
}

// writeDocument replaces the whole document atomically via a temp file
// in the same directory.
func writeDocument(path string, buckets []DayBucket) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}

	data, err := json.MarshalIndent(buckets, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-")
	if err != nil {
		return fmt.Errorf("create temp store: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close store: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace store: %w", err)
	}
	return nil
}
