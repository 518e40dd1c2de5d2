package parser

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"FakeNewsDetector/internal/domain"
	"FakeNewsDetector/internal/ports"
)

const maxBodyBytes = 5 << 20

// bodySelectors are tried in order; the first one yielding paragraphs wins.
var bodySelectors = []string{
	"article p",
	"[itemprop=articleBody] p",
	"main p",
	".article-body p, .story-body p, .post-content p, .entry-content p",
	"p",
}

// HTMLExtractor downloads a news page and extracts title, body text and outlet.
type HTMLExtractor struct {
	client *http.Client
}

var _ ports.ArticleExtractor = (*HTMLExtractor)(nil)

// NewHTMLExtractor wires an HTTP client; nil selects one with a 15s timeout.
func NewHTMLExtractor(client *http.Client) *HTMLExtractor {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &HTMLExtractor{client: client}
}

// Extract fetches pageURL and returns the article it contains.
func (e *HTMLExtractor) Extract(ctx context.Context, pageURL string) (domain.Article, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return domain.Article{}, fmt.Errorf("%w: invalid article url %q", domain.ErrInvalidArticle, pageURL)
	}

	doc, err := e.fetchDocument(ctx, parsed.String())
	if err != nil {
		return domain.Article{}, err
	}

	article := parseArticle(doc, parsed)
	if err := article.Validate(); err != nil {
		return domain.Article{}, fmt.Errorf("no article content at %s: %w", pageURL, err)
	}
	return article, nil
}

func (e *HTMLExtractor) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "FakeNewsDetector/1.0")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned %s", pageURL, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}

func parseArticle(doc *goquery.Document, pageURL *url.URL) domain.Article {
	title := firstNonEmpty(
		metaContent(doc, "og:title"),
		strings.TrimSpace(doc.Find("h1").First().Text()),
		strings.TrimSpace(doc.Find("title").First().Text()),
	)

	var paragraphs []string
	for _, selector := range bodySelectors {
		doc.Find(selector).Each(func(_ int, p *goquery.Selection) {
			if text := collapseSpace(p.Text()); text != "" {
				paragraphs = append(paragraphs, text)
			}
		})
		if len(paragraphs) > 0 {
			break
		}
	}
	text := strings.Join(paragraphs, "\n")
	if text == "" {
		text = metaContent(doc, "og:description")
	}

	return domain.Article{
		Title:  collapseSpace(title),
		Text:   text,
		Source: pageURL.Scheme + "://" + pageURL.Host,
		URL:    pageURL.String(),
	}
}

func metaContent(doc *goquery.Document, property string) string {
	sel := doc.Find(fmt.Sprintf(`meta[property=%q], meta[name=%q]`, property, property)).First()
	content, _ := sel.Attr("content")
	return strings.TrimSpace(content)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
