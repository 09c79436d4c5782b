package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// RenderClient talks to the render-extract sidecar, which loads a page
// in a headless browser and returns its rendered body text. Adapters
// use it as the summary fallback for articles whose content only
// appears after JS execution. A nil *RenderClient is valid and every
// call on it reports nothing usable, so adapters never branch on
// whether the sidecar is configured.
type RenderClient struct {
	Endpoint string
	Client   *http.Client
}

// NewRenderClient returns a client for the sidecar at base, or nil
// when base is empty.
func NewRenderClient(base string) *RenderClient {
	if base == "" {
		return nil
	}
	return &RenderClient{
		Endpoint: strings.TrimRight(base, "/") + "/summary",
		// the sidecar caps each render at 20s
		Client: &http.Client{Timeout: 25 * time.Second},
	}
}

type renderRequest struct {
	URL      string `json:"url"`
	MaxChars int    `json:"maxChars"`
}

type renderResponse struct {
	OK      bool   `json:"ok"`
	Summary string `json:"summary"`
	Error   string `json:"error"`
}

// Summary asks the sidecar for the rendered body text of pageURL,
// capped at maxChars runes.
func (rc *RenderClient) Summary(ctx context.Context, pageURL string, maxChars int) (string, error) {
	if rc == nil {
		return "", nil
	}

	payload, err := json.Marshal(renderRequest{URL: pageURL, MaxChars: maxChars})
	if err != nil {
		return "", fmt.Errorf("render-extract: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rc.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("render-extract: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := rc.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("render-extract: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("render-extract: status %d", resp.StatusCode)
	}

	var out renderResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("render-extract: decode response: %w", err)
	}
	if !out.OK {
		return "", fmt.Errorf("render-extract: %s", out.Error)
	}
	return out.Summary, nil
}
