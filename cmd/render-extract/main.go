package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// Sidecar for sources whose article pages only render a summary via
// JS. Adapters that cannot scrape a detail page statically POST here
// and get back the rendered body text for summary use.

type summaryRequest struct {
	URL      string `json:"url"`
	MaxChars int    `json:"maxChars"`
}

type summaryResponse struct {
	OK      bool   `json:"ok"`
	Summary string `json:"summary,omitempty"`
	Error   string `json:"error,omitempty"`
}

func main() {
	// one headless instance for the whole process
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), chromedp.DefaultExecAllocatorOptions[:]...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	// warm up so the first article does not pay browser startup cost
	if err := chromedp.Run(browserCtx); err != nil {
		log.Printf("warn: warmup chromedp failed: %v", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/summary", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req summaryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, summaryResponse{OK: false, Error: "invalid json"})
			return
		}
		if req.URL == "" {
			writeJSON(w, http.StatusBadRequest, summaryResponse{OK: false, Error: "url is required"})
			return
		}
		if req.MaxChars <= 0 || req.MaxChars > 2000 {
			req.MaxChars = 200
		}

		// per-request timeout over the shared browser context
		ctx, cancel := context.WithTimeout(browserCtx, 20*time.Second)
		defer cancel()

		var text string
		err := chromedp.Run(ctx,
			chromedp.Navigate(req.URL),
			chromedp.WaitReady("body", chromedp.ByQuery),
			chromedp.Evaluate(articleTextJS(), &text),
		)
		if err != nil {
			log.Printf("summary error: %v (url=%s)", err, req.URL)
			writeJSON(w, http.StatusOK, summaryResponse{OK: false, Error: err.Error()})
			return
		}

		text = collapseBlankLines(text)
		if text == "" {
			writeJSON(w, http.StatusOK, summaryResponse{OK: false, Error: "empty content"})
			return
		}

		// rune-level cut so Hangul never splits mid-character
		rs := []rune(text)
		if len(rs) > req.MaxChars {
			text = string(rs[:req.MaxChars]) + "..."
		}

		writeJSON(w, http.StatusOK, summaryResponse{OK: true, Summary: text})
	})

	addr := ":" + getEnv("PORT", "4000")
	log.Printf("render-extract listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("http server error: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// articleTextJS extracts article body text in the page: known article
// containers first, long paragraphs as the fallback.
func articleTextJS() string {
	return `(function () {
  function textOf(selector) {
    var el = document.querySelector(selector);
    if (!el) return "";
    return el.innerText || "";
  }

  var selectors = [
    "article#dic_area",
    "article",
    "div.news_content",
    "div#news_content",
    "div.article_view",
    "div.article-body",
    "div.view_content",
    "div#articleBody"
  ];

  var text = "";
  for (var i = 0; i < selectors.length; i++) {
    text = textOf(selectors[i]).trim();
    if (text && text.length > 100) {
      break;
    }
  }

  if (!text || text.length < 100) {
    var nodes = Array.prototype.slice.call(document.querySelectorAll("p"));
    var pieces = [];
    for (var j = 0; j < nodes.length; j++) {
      var t = (nodes[j].innerText || "").trim();
      if (t.length >= 40) {
        pieces.push(t);
      }
      if (pieces.join("\\n\\n").length > 2000) break;
    }
    text = pieces.join("\\n\\n");
  }

  return (text || "").replace(/\\s+\\n/g, "\\n").trim();
})();`
}

func collapseBlankLines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	for strings.Contains(s, "\n\n\n") {
		s = strings.ReplaceAll(s, "\n\n\n", "\n\n")
	}
	return strings.TrimSpace(s)
}
