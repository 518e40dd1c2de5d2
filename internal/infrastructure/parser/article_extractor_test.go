package parser

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"FakeNewsDetector/internal/domain"
)

const samplePage = `<!doctype html>
<html><head>
  <title>Site | Scientists Confirm Earth Is Flat</title>
  <meta property="og:title" content="Scientists Confirm Earth Is Flat">
  <meta property="og:description" content="A summary.">
</head><body>
  <nav><p>Home</p></nav>
  <article>
    <h1>Scientists Confirm Earth Is Flat</h1>
    <p>Anonymous sources   claim NASA has been lying.</p>
    <p>  Shocking revelation follows.</p>
  </article>
</body></html>`

func TestParseArticle(t *testing.T) {
	t.Parallel()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(samplePage))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}
	u, _ := url.Parse("https://www.example.com/news/1")

	article := parseArticle(doc, u)
	if article.Title != "Scientists Confirm Earth Is Flat" {
		t.Fatalf("unexpected title: %q", article.Title)
	}
	if article.Text != "Anonymous sources claim NASA has been lying.\nShocking revelation follows." {
		t.Fatalf("unexpected text: %q", article.Text)
	}
	if article.Source != "https://www.example.com" {
		t.Fatalf("unexpected source: %q", article.Source)
	}
}

func TestParseArticleFallsBackToDescription(t *testing.T) {
	t.Parallel()

	html := `<html><head><title>Only title</title><meta name="og:description" content="Short blurb."></head><body></body></html>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}
	u, _ := url.Parse("http://news.test/a")

	article := parseArticle(doc, u)
	if article.Title != "Only title" || article.Text != "Short blurb." {
		t.Fatalf("unexpected article: %+v", article)
	}
}

func TestExtractFetchesPage(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			t.Errorf("missing user agent")
		}
		_, _ = w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	article, err := NewHTMLExtractor(srv.Client()).Extract(context.Background(), srv.URL+"/story")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if article.URL != srv.URL+"/story" {
		t.Fatalf("unexpected url: %s", article.URL)
	}
}

func TestExtractRejectsBadURL(t *testing.T) {
	t.Parallel()

	_, err := NewHTMLExtractor(nil).Extract(context.Background(), "ftp://example.com/x")
	if !errors.Is(err, domain.ErrInvalidArticle) {
		t.Fatalf("expected ErrInvalidArticle, got %v", err)
	}
}

func TestExtractSurfacesHTTPStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	if _, err := NewHTMLExtractor(srv.Client()).Extract(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error for 404")
	}
}
