// Package keyword loads the required/excluded keyword lists that drive
// relevance filtering. The backend is a hosted JSON document (with an
// optional local fallback file); any failure loads as empty lists,
// which makes the relevance filter fail open instead of crashing the
// crawl.
package keyword

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

const maxDocumentBytes = 1 << 20 // 1MB

// The document keeps keywords grouped by category for the editing UI;
// the crawler only consumes the flattened item lists.
type category struct {
	Category string   `json:"category"`
	Items    []string `json:"items"`
}

type document struct {
	Keywords        []category `json:"keywords"`
	ExcludeKeywords []category `json:"exclude_keywords"`
}

// Store loads keyword lists for one run. Load never fails: any backend
// error yields empty lists.
type Store interface {
	Load(ctx context.Context) (required, excluded []string)
}

// RemoteStore reads the document over HTTP, falling back to a local
// file when the URL is unset or unreachable.
type RemoteStore struct {
	URL          string
	FallbackPath string
	Client       *http.Client
}

func NewRemoteStore(url, fallbackPath string) *RemoteStore {
	return &RemoteStore{
		URL:          url,
		FallbackPath: fallbackPath,
		Client:       &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *RemoteStore) Load(ctx context.Context) (required, excluded []string) {
	if s.URL != "" {
		doc, err := s.loadHTTP(ctx)
		if err == nil {
			required, excluded = flatten(doc)
			log.Printf("keywords loaded: %d required, %d excluded", len(required), len(excluded))
			return required, excluded
		}
		log.Printf("warn: keyword store %s: %v", s.URL, err)
	}

	if s.FallbackPath != "" {
		doc, err := s.loadFile()
		if err == nil {
			required, excluded = flatten(doc)
			log.Printf("keywords loaded from %s: %d required, %d excluded", s.FallbackPath, len(required), len(excluded))
			return required, excluded
		}
		log.Printf("warn: keyword fallback %s: %v", s.FallbackPath, err)
	}

	return nil, nil
}

func (s *RemoteStore) loadHTTP(ctx context.Context) (*document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, http.NoBody)
	if err != nil {
		return nil, err
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	var doc document
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxDocumentBytes)).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return &doc, nil
}

func (s *RemoteStore) loadFile() (*document, error) {
	data, err := os.ReadFile(s.FallbackPath)
	if err != nil {
		return nil, err
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return &doc, nil
}

func flatten(doc *document) (required, excluded []string) {
	for _, cat := range doc.Keywords {
		required = append(required, cat.Items...)
	}
	for _, cat := range doc.ExcludeKeywords {
		excluded = append(excluded, cat.Items...)
	}
	return required, excluded
}
