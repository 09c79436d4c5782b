package crawler

import "sync"

// DedupState is the run-scoped set of identities already accepted:
// every URL persisted in the source's store plus everything accepted so
// far in this run. It is owned by one source's run and discarded at run
// end; persistence is implicit via the store itself.
type DedupState struct {
	mu     sync.Mutex
	urls   map[string]struct{}
	titles map[string]struct{}
}

func NewDedupState() *DedupState {
	return &DedupState{
		urls:   make(map[string]struct{}),
		titles: make(map[string]struct{}),
	}
}

// Seed inserts URLs read from the persisted store. Called once, before
// any page workers start.
func (d *DedupState) Seed(urls []string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, u := range urls {
		if u != "" {
			d.urls[u] = struct{}{}
		}
	}
}

// Contains reports whether the URL was already seen. A racing writer may
// win between this check and MarkSeen; MarkSeen is the authority.
func (d *DedupState) Contains(url string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.urls[url]
	return ok
}

// MarkSeen is a compare-and-insert: it records the URL (and title, when
// non-empty) and reports whether this caller won. Concurrent workers
// discovering the same URL on one page get exactly one true.
func (d *DedupState) MarkSeen(url, title string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.urls[url]; ok {
		return false
	}
	if title != "" {
		if _, ok := d.titles[title]; ok {
			return false
		}
		d.titles[title] = struct{}{}
	}
	d.urls[url] = struct{}{}
	return true
}
