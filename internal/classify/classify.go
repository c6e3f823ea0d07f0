package classify

import (
	"regexp"
	"sort"
	"strings"

	"github.com/matheuskafuri/benkyou/internal/taxonomy"
)

var tagRE = regexp.MustCompile(`<[^>]+>`)

// StripHTML removes anything that looks like a markup tag and trims the
// result. Entities such as &amp; are left untouched.
func StripHTML(s string) string {
	return strings.TrimSpace(tagRE.ReplaceAllString(s, ""))
}

// Truncate cuts s to n runes and appends an ellipsis when anything was cut.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}

// phrase tables are lowercased once at init
var lowered = lowerPhrases(taxonomy.All())

func lowerPhrases(all map[string]taxonomy.Concept) map[string][]string {
	out := make(map[string][]string, len(all))
	for id, c := range all {
		kws := make([]string, len(c.Phrases))
		for i, kw := range c.Phrases {
			kws[i] = strings.ToLower(kw)
		}
		out[id] = kws
	}
	return out
}

// Match returns the sorted ids of every concept with at least one trigger
// phrase contained in text, ignoring case.
func Match(text string) []string {
	textLower := strings.ToLower(text)
	matched := make([]string, 0)
	for id, kws := range lowered {
		for _, kw := range kws {
			if strings.Contains(textLower, kw) {
				matched = append(matched, id)
				break
			}
		}
	}
	sort.Strings(matched)
	return matched
}

// ScopeToTrack keeps only the ids that belong to track t, preserving order.
func ScopeToTrack(ids []string, t taxonomy.Track) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if taxonomy.Contains(t, id) {
			out = append(out, id)
		}
	}
	return out
}

// ContainsAll reports whether ids is a superset of required.
func ContainsAll(ids, required []string) bool {
	have := make(map[string]bool, len(ids))
	for _, id := range ids {
		have[id] = true
	}
	for _, r := range required {
		if !have[r] {
			return false
		}
	}
	return true
}
