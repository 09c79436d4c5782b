// Package aggregator rebuilds the rolling two-day view across every
// per-source store: today's and yesterday's buckets from all sources,
// deduplicated globally by URL and tagged with their owning source.
package aggregator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/minho-song/newsarchiver/internal/storage"
)

// RollingFile is the aggregate document's filename inside the data dir.
const RollingFile = "ForTwoDay_News.json"

// StoreError records one store that could not be read. A corrupt store
// is skipped, never fatal to the aggregation.
type StoreError struct {
	Path string
	Err  error
}

func (e StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// Build scans every store under dataDir and assembles the rolling
// window view. Store traversal is in sorted filename order so the
// first-occurrence-wins URL dedup is reproducible.
func Build(dataDir string, windowDays int, now time.Time) ([]storage.DayBucket, []StoreError) {
	if windowDays <= 0 {
		windowDays = 2
	}

	window := make(map[string]struct{}, windowDays)
	for i := 0; i < windowDays; i++ {
		day := now.AddDate(0, 0, -i)
		window[storage.NormalizeDateKey(storage.DayLabel(day))] = struct{}{}
	}

	paths, err := filepath.Glob(filepath.Join(dataDir, "*_News.json"))
	if err != nil {
		return nil, []StoreError{{Path: dataDir, Err: err}}
	}
	sort.Strings(paths)

	var errs []StoreError
	seen := make(map[string]struct{})
	grouped := make(map[string]*storage.DayBucket)
	var order []string

	for _, path := range paths {
		source := storage.SourceFromPath(path)
		if source == "" || filepath.Base(path) == RollingFile {
			continue
		}

		buckets, err := storage.ReadDocument(path)
		if err != nil {
			errs = append(errs, StoreError{Path: path, Err: err})
			continue
		}

		for _, bucket := range buckets {
			key := storage.NormalizeDateKey(bucket.Date)
			if _, ok := window[key]; !ok {
				continue
			}
			for _, a := range bucket.Articles {
				if a.URL == "" {
					continue
				}
				if _, dup := seen[a.URL]; dup {
					continue
				}
				seen[a.URL] = struct{}{}

				a.Source = source
				a.Date = bucket.Date

				out, ok := grouped[key]
				if !ok {
					out = &storage.DayBucket{Date: bucket.Date}
					grouped[key] = out
					order = append(order, key)
				}
				out.Articles = append(out.Articles, a)
			}
		}
	}

	result := make([]storage.DayBucket, 0, len(order))
	for _, key := range order {
		result = append(result, *grouped[key])
	}
	sort.SliceStable(result, func(i, j int) bool {
		ti, erri := storage.ParseDayLabel(result[i].Date)
		tj, errj := storage.ParseDayLabel(result[j].Date)
		if erri != nil || errj != nil {
			return erri == nil // parseable labels sort ahead of broken ones
		}
		return ti.After(tj)
	})

	return result, errs
}

// WriteRolling persists the aggregate document next to the stores.
func WriteRolling(dataDir string, buckets []storage.DayBucket) error {
	if buckets == nil {
		buckets = []storage.DayBucket{}
	}
	data, err := json.MarshalIndent(buckets, "", "  ")
	if err != nil {
		return fmt.Errorf("encode rolling view: %w", err)
	}
	path := filepath.Join(dataDir, RollingFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Count sums the articles across buckets. Used for logging.
func Count(buckets []storage.DayBucket) int {
	n := 0
	for _, b := range buckets {
		n += len(b.Articles)
	}
	return n
}
