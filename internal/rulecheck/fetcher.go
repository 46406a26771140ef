package rulecheck

import (
	"context"
	"io"
	"net/http"
	"strings"
)

// Fetcher retrieves the official rule text, trying candidate URLs in order.
type Fetcher struct {
	urls       []string
	httpClient *http.Client
}

// NewFetcher builds a Fetcher over the given candidate URLs. The client's
// timeout bounds each attempt.
func NewFetcher(urls []string, client *http.Client) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{urls: urls, httpClient: client}
}

// Fetch returns the first successfully retrieved page, stripped of markup.
// Every failure mode yields ok=false; rule checking treats that as "no
// official data", never an error.
func (f *Fetcher) Fetch(ctx context.Context) (string, bool) {
	for _, url := range f.urls {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			continue
		}
		req.Header.Set("User-Agent", "pointsgate/1.0")

		resp, err := f.httpClient.Do(req)
		if err != nil {
			continue
		}
		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil || resp.StatusCode != http.StatusOK {
			continue
		}

		if text := stripHTML(string(body)); text != "" {
			return text, true
		}
	}
	return "", false
}

// stripHTML reduces a page to its visible text.
func stripHTML(html string) string {
	html = removeTagAndContent(html, "script")
	html = removeTagAndContent(html, "style")

	var b strings.Builder
	inTag := false
	for _, r := range html {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

func removeTagAndContent(html, tag string) string {
	openTag := "<" + tag
	closeTag := "</" + tag + ">"
	for {
		start := strings.Index(html, openTag)
		if start == -1 {
			break
		}
		end := strings.Index(html[start:], closeTag)
		if end == -1 {
			break
		}
		html = html[:start] + html[start+end+len(closeTag):]
	}
	return html
}
