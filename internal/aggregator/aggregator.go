package aggregator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/araddon/dateparse"
	"github.com/matheuskafuri/benkyou/internal/classify"
	"github.com/matheuskafuri/benkyou/internal/config"
	"github.com/matheuskafuri/benkyou/internal/feed"
	"github.com/matheuskafuri/benkyou/internal/metrics"
	"github.com/matheuskafuri/benkyou/internal/taxonomy"
	"golang.org/x/sync/errgroup"
)

const (
	MinDays      = 1
	MaxDays      = 365
	MinLimit     = 1
	MaxLimit     = 100
	DefaultDays  = 7
	DefaultLimit = 30

	summaryLen = 300
	allTracks  = "all"
)

var ErrInvalidQuery = errors.New("invalid query")

// ConceptList is the set of concept ids available for a track.
type ConceptList struct {
	Track    string   `json:"track"`
	Concepts []string `json:"concepts"`
}

// Query selects which articles Examples returns.
type Query struct {
	// Concepts requested together; an article must carry every one of them.
	Concepts []string
	Track    string
	Days     int
	Limit    int
}

type Aggregator struct {
	sources     []config.Source
	fetcher     feed.Fetcher
	concurrency int
	logger      *slog.Logger
	now         func() time.Time
}

type Option func(*Aggregator)

// WithConcurrency sets how many sources are fetched at once.
func WithConcurrency(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.concurrency = n
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(a *Aggregator) { a.logger = l }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) { a.now = now }
}

func New(sources []config.Source, fetcher feed.Fetcher, opts ...Option) *Aggregator {
	a := &Aggregator{
		sources:     sources,
		fetcher:     fetcher,
		concurrency: 1,
		logger:      slog.Default(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ListConcepts returns the concepts of track, or of all tracks when track
// is empty or unknown.
func (a *Aggregator) ListConcepts(track string) ConceptList {
	if t, ok := taxonomy.ParseTrack(track); ok {
		return ConceptList{Track: string(t), Concepts: taxonomy.IDs(t)}
	}
	return ConceptList{Track: allTracks, Concepts: taxonomy.IDs("")}
}

func (q Query) validate() error {
	if q.Days < MinDays || q.Days > MaxDays {
		return fmt.Errorf("%w: days must be between %d and %d, got %d", ErrInvalidQuery, MinDays, MaxDays, q.Days)
	}
	if q.Limit < MinLimit || q.Limit > MaxLimit {
		return fmt.Errorf("%w: limit must be between %d and %d, got %d", ErrInvalidQuery, MinLimit, MaxLimit, q.Limit)
	}
	return nil
}

// filter is a validated Query ready to apply to entries.
type filter struct {
	track    taxonomy.Track
	scoped   bool
	required []string
	cutoff   time.Time
}

// Examples fetches every source live and returns the tagged articles that
// pass the query, newest first. A source that fails is skipped.
func (a *Aggregator) Examples(ctx context.Context, q Query) ([]Article, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}

	f := filter{cutoff: a.now().UTC().Add(-time.Duration(q.Days) * 24 * time.Hour)}
	f.track, f.scoped = taxonomy.ParseTrack(q.Track)
	for _, c := range q.Concepts {
		if c != "" {
			f.required = append(f.required, c)
		}
	}

	perSource := make([][]Article, len(a.sources))
	var g errgroup.Group
	g.SetLimit(a.concurrency)
	for i, src := range a.sources {
		g.Go(func() error {
			articles, err := a.collect(ctx, src, f)
			if err != nil {
				a.logger.WarnContext(ctx, "skipping feed source", "source", src.Name, "url", src.URL, "error", err)
				return nil
			}
			perSource[i] = articles
			return nil
		})
	}
	_ = g.Wait()

	var results []Article
	for _, articles := range perSource {
		results = append(results, articles...)
	}

	sortArticles(results)
	if len(results) > q.Limit {
		results = results[:q.Limit]
	}
	if results == nil {
		results = []Article{}
	}
	metrics.ArticlesReturned.Observe(float64(len(results)))
	return results, nil
}

// collect fetches one source and turns its entries into articles. Panics
// are confined to the source that raised them.
func (a *Aggregator) collect(ctx context.Context, src config.Source, f filter) (out []Article, err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("processing %s: panic: %v", src.Name, r)
		}
		result := metrics.ResultOK
		if err != nil {
			result = metrics.ResultError
		}
		metrics.RecordFetch(src.Name, result, time.Since(start).Seconds())
	}()

	entries, err := a.fetcher.Fetch(ctx, src)
	if err != nil {
		return nil, err
	}

	for _, e := range entries {
		if art, ok := buildArticle(src.Name, e, f); ok {
			out = append(out, art)
		}
	}
	return out, nil
}

func buildArticle(source string, e feed.Entry, f filter) (Article, bool) {
	concepts := classify.Match(e.Title + " " + e.Summary)
	if f.scoped {
		concepts = classify.ScopeToTrack(concepts, f.track)
	}
	if len(f.required) > 0 && !classify.ContainsAll(concepts, f.required) {
		return Article{}, false
	}

	published := parsePublished(e.PublishedRaw)
	if published != nil && published.Before(f.cutoff) {
		return Article{}, false
	}

	art := Article{
		Source:    source,
		Title:     e.Title,
		Concepts:  concepts,
		Summary:   classify.Truncate(classify.StripHTML(e.Summary), summaryLen),
		Published: published,
	}
	if e.Link != "" {
		link := e.Link
		art.URL = &link
	}
	return art, true
}

// parsePublished parses a feed date leniently. Dates without a zone are
// taken as UTC; anything unparsable yields nil.
func parsePublished(raw string) *Timestamp {
	if raw == "" {
		return nil
	}
	t, err := dateparse.ParseIn(raw, time.UTC)
	if err != nil {
		return nil
	}
	return &Timestamp{Time: t.UTC()}
}

// sortArticles orders by published ISO string then title, both descending.
// Undated articles use the empty string and therefore come last.
func sortArticles(articles []Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		pi, pj := articles[i].Published.ISO(), articles[j].Published.ISO()
		if pi != pj {
			return pi > pj
		}
		return articles[i].Title > articles[j].Title
	})
}
