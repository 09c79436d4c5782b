package crawler

import (
	"fmt"
	"sync"
	"testing"
)

func TestDedupSeedAndContains(t *testing.T) {
	d := NewDedupState()
	d.Seed([]string{"https://example.com/a", "https://example.com/b", ""})

	if !d.Contains("https://example.com/a") {
		t.Fatalf("seeded URL not found")
	}
	if d.Contains("https://example.com/c") {
		t.Fatalf("unseen URL reported as seen")
	}
	if d.Contains("") {
		t.Fatalf("empty URL should never be seeded")
	}
}

func TestDedupMarkSeenSingleWinner(t *testing.T) {
	d := NewDedupState()

	if !d.MarkSeen("https://example.com/a", "title a") {
		t.Fatalf("first MarkSeen lost")
	}
	if d.MarkSeen("https://example.com/a", "title a") {
		t.Fatalf("second MarkSeen for same URL won")
	}
	// same title under a different URL is also a duplicate
	if d.MarkSeen("https://example.com/a-amp", "title a") {
		t.Fatalf("MarkSeen won for an already-seen title")
	}
}

func TestDedupMarkSeenConcurrent(t *testing.T) {
	d := NewDedupState()

	const workers = 32
	var wg sync.WaitGroup
	wins := make(chan string, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// all workers fight over the same URL, each with a distinct title
			if d.MarkSeen("https://example.com/hot", fmt.Sprintf("title %d", i)) {
				wins <- fmt.Sprintf("worker %d", i)
			}
		}(i)
	}
	wg.Wait()
	close(wins)

	var winners []string
	for w := range wins {
		winners = append(winners, w)
	}
	if len(winners) != 1 {
		t.Fatalf("MarkSeen winners = %d (%v), want exactly 1", len(winners), winners)
	}
}
