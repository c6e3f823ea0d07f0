package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/matheuskafuri/benkyou/internal/aggregator"
)

func TestParseDays(t *testing.T) {
	tests := []struct {
		input string
		want  int
		err   bool
	}{
		{"7d", 7, false},
		{"1d", 1, false},
		{"30", 30, false},
		{"24h", 1, false},
		{"36h", 2, false},
		{"2h30m", 1, false},
		{"invalid", 0, true},
		{"", 0, true},
		{"d", 0, true},
	}

	for _, tt := range tests {
		got, err := parseDays(tt.input)
		if tt.err {
			if err == nil {
				t.Errorf("parseDays(%q): expected error, got %v", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseDays(%q): unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseDays(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestRenderConcepts(t *testing.T) {
	var buf bytes.Buffer
	renderConcepts(&buf, aggregator.New(nil, nil).ListConcepts("arts"))

	out := buf.String()
	if !strings.Contains(out, "arts (4)") {
		t.Errorf("missing header in %q", out)
	}
	for _, id := range []string{"censorship", "copyright", "cultural_policy", "labour_unions"} {
		if !strings.Contains(out, id) {
			t.Errorf("missing concept %q in output", id)
		}
	}
	if strings.Contains(out, "inflation") {
		t.Error("commerce concept listed for arts track")
	}
}

func TestRenderArticles(t *testing.T) {
	link := "https://example.com/a"
	articles := []aggregator.Article{
		{
			Source:    "RBA",
			Title:     "Cash rate held",
			URL:       &link,
			Published: &aggregator.Timestamp{Time: time.Date(2024, 1, 2, 3, 4, 0, 0, time.UTC)},
			Concepts:  []string{"inflation", "monetary_policy"},
			Summary:   "The board left the cash rate unchanged.",
		},
		{Source: "ACCC", Title: "Undated", Concepts: []string{}},
	}

	var buf bytes.Buffer
	renderArticles(&buf, articles)
	out := buf.String()

	for _, want := range []string{
		"Cash rate held",
		"RBA",
		"2024-01-02 03:04",
		"inflation, monetary_policy",
		link,
		"The board left the cash rate unchanged.",
		"Undated",
		"ACCC",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderArticlesEmpty(t *testing.T) {
	var buf bytes.Buffer
	renderArticles(&buf, []aggregator.Article{})
	if !strings.Contains(buf.String(), "No matching articles.") {
		t.Errorf("got %q", buf.String())
	}
}

func TestVersionCommand(t *testing.T) {
	SetVersionInfo("1.2.3", "abc", "today")
	defer SetVersionInfo("dev", "none", "unknown")

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"version"})
	defer rootCmd.SetArgs(nil)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("version: %v", err)
	}
	if got := buf.String(); !strings.Contains(got, "benkyou 1.2.3 (commit: abc, built: today)") {
		t.Errorf("got %q", got)
	}
}
