package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/matheuskafuri/benkyou/internal/config"
)

const rssBody = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Test</title>
  <link>https://example.com</link>
  <item>
    <title>RBA lifts cash rate</title>
    <link>https://example.com/rba</link>
    <description>&lt;p&gt;The board decided.&lt;/p&gt;</description>
    <pubDate>Tue, 02 Jan 2024 00:00:00 +0000</pubDate>
  </item>
  <item>
    <title>Undated item</title>
    <description>No date here</description>
  </item>
</channel>
</rss>`

const atomBody = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Atom Test</title>
  <entry>
    <title>Merger approved</title>
    <link href="https://example.com/merger"/>
    <summary>Regulator clears takeover</summary>
    <updated>2024-01-01T10:00:00Z</updated>
  </entry>
</feed>`

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != "benkyou-test" {
			t.Errorf("expected user agent benkyou-test, got %q", ua)
		}
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchRSS(t *testing.T) {
	srv := serve(t, http.StatusOK, rssBody)
	f := NewRSSFetcher(5*time.Second, "benkyou-test")

	entries, err := f.Fetch(context.Background(), config.Source{Name: "Test", URL: srv.URL})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	first := entries[0]
	if first.Title != "RBA lifts cash rate" {
		t.Errorf("unexpected title %q", first.Title)
	}
	if first.Link != "https://example.com/rba" {
		t.Errorf("unexpected link %q", first.Link)
	}
	if first.Summary != "<p>The board decided.</p>" {
		t.Errorf("unexpected summary %q", first.Summary)
	}
	if first.PublishedRaw != "Tue, 02 Jan 2024 00:00:00 +0000" {
		t.Errorf("unexpected published %q", first.PublishedRaw)
	}
	if entries[1].PublishedRaw != "" {
		t.Errorf("expected empty published for undated item, got %q", entries[1].PublishedRaw)
	}
}

func TestFetchAtomFallsBackToUpdated(t *testing.T) {
	srv := serve(t, http.StatusOK, atomBody)
	f := NewRSSFetcher(5*time.Second, "benkyou-test")

	entries, err := f.Fetch(context.Background(), config.Source{Name: "Atom", URL: srv.URL})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Summary != "Regulator clears takeover" {
		t.Errorf("unexpected summary %q", entries[0].Summary)
	}
	if entries[0].PublishedRaw != "2024-01-01T10:00:00Z" {
		t.Errorf("expected updated date as fallback, got %q", entries[0].PublishedRaw)
	}
}

func TestFetchHTTPError(t *testing.T) {
	srv := serve(t, http.StatusInternalServerError, "boom")
	f := NewRSSFetcher(5*time.Second, "benkyou-test")

	if _, err := f.Fetch(context.Background(), config.Source{Name: "Broken", URL: srv.URL}); err == nil {
		t.Error("expected error for 500 response")
	}
}

func TestFetchInvalidBody(t *testing.T) {
	srv := serve(t, http.StatusOK, "this is not a feed")
	f := NewRSSFetcher(5*time.Second, "benkyou-test")

	if _, err := f.Fetch(context.Background(), config.Source{Name: "Garbage", URL: srv.URL}); err == nil {
		t.Error("expected error for unparsable body")
	}
}
