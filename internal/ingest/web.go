package ingest

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/gocolly/colly/v2"

	"github.com/seaward0/seaward/internal/config"
	"github.com/seaward0/seaward/internal/log"
)

const webUserAgent = "Mozilla/5.0 (compatible; seaward/1.0)"

// webFetcher fetches a web page and reduces it to readable article text.
// Readability extraction is tried first; pages it cannot parse fall back to
// stripped body text so boilerplate-heavy sources still index something.
type webFetcher struct {
	cfg    config.WebScraperConfig
	logger log.Logger
}

func newWebFetcher(cfg config.WebScraperConfig, logger log.Logger) *webFetcher {
	return &webFetcher{cfg: cfg, logger: logger}
}

// Fetch downloads pageURL and extracts its text content.
func (w *webFetcher) Fetch(ctx context.Context, pageURL string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}

	parsed, err := url.Parse(pageURL)
	if err != nil {
		return Document{}, fmt.Errorf("parsing url: %w", err)
	}

	body, err := w.download(pageURL)
	if err != nil {
		return Document{}, err
	}

	doc, err := w.extract(body, parsed)
	if err != nil {
		return Document{}, err
	}
	doc.Source = pageURL
	return doc, nil
}

// download retrieves the raw page body. A fresh collector per fetch keeps
// cookie and visited-URL state from leaking between sources.
func (w *webFetcher) download(pageURL string) ([]byte, error) {
	c := colly.NewCollector(
		colly.UserAgent(webUserAgent),
		colly.MaxDepth(1),
	)
	c.SetRequestTimeout(time.Duration(w.cfg.TimeoutMs) * time.Millisecond)
	if err := c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: w.cfg.Parallelism,
		Delay:       time.Duration(w.cfg.DelayMs) * time.Millisecond,
	}); err != nil {
		return nil, fmt.Errorf("configuring rate limit: %w", err)
	}

	var (
		body     []byte
		fetchErr error
	)
	c.OnResponse(func(r *colly.Response) {
		body = r.Body
	})
	c.OnError(func(r *colly.Response, err error) {
		fetchErr = fmt.Errorf("fetching page (status %d): %w", r.StatusCode, err)
	})

	if err := c.Visit(pageURL); err != nil {
		return nil, fmt.Errorf("visiting %s: %w", pageURL, err)
	}
	c.Wait()

	if fetchErr != nil {
		return nil, fetchErr
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyDocument, pageURL)
	}
	return body, nil
}

// extract reduces raw HTML to plain text.
func (w *webFetcher) extract(body []byte, pageURL *url.URL) (Document, error) {
	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err == nil && strings.TrimSpace(article.TextContent) != "" {
		return Document{
			Title:   article.Title,
			Content: strings.TrimSpace(article.TextContent),
		}, nil
	}
	if err != nil {
		w.logger.Debug("readability extraction failed, falling back to body text",
			"url", pageURL.String(), "error", err)
	}

	gq, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return Document{}, fmt.Errorf("parsing html: %w", err)
	}
	gq.Find("script, style, noscript").Remove()
	text := strings.TrimSpace(gq.Find("body").Text())
	if text == "" {
		return Document{}, fmt.Errorf("%w: %s", ErrEmptyDocument, pageURL)
	}
	return Document{
		Title:   strings.TrimSpace(gq.Find("title").First().Text()),
		Content: collapseWhitespace(text),
	}, nil
}

// collapseWhitespace squeezes runs of blank lines and spaces left behind by
// stripped markup.
func collapseWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
