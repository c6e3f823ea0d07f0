package taxonomy

import "sort"

// Track is a top-level grouping of concepts.
type Track string

const (
	Commerce Track = "commerce"
	Arts     Track = "arts"
)

// Concept is a tagged topic with the literal phrases that trigger it.
type Concept struct {
	ID      string
	Track   Track
	Phrases []string
}

// Tracks returns all tracks in declaration order. The flattened lookup in
// All is built in this order, so later tracks win on id collisions.
func Tracks() []Track {
	return []Track{Commerce, Arts}
}

// Phrases are matched as case-insensitive substrings with no word
// boundaries. Short entries such as "bid", "ban", "IP", "QE" and "QT" also
// hit inside longer words ("forbidden", "urban", "ship") and are a known
// source of false positives.
var concepts = map[Track][]Concept{
	Commerce: {
		{ID: "oligopoly", Phrases: []string{"cartel", "price fixing", "collusion", "duopoly", "oligopoly", "ACCC", "OPEC", "petrol", "fuel"}},
		{ID: "monopoly", Phrases: []string{"monopoly", "dominant position", "market power", "antitrust", "competition watchdog", "Section 46"}},
		{ID: "mergers_and_acquisitions", Phrases: []string{"merger", "acquisition", "takeover", "M&A", "scheme of arrangement", "bid"}},
		{ID: "inflation", Phrases: []string{"inflation", "CPI", "consumer price index", "price pressures", "disinflation", "headline inflation"}},
		{ID: "monetary_policy", Phrases: []string{"interest rate", "cash rate", "RBA", "rate hike", "rate cut", "QE", "QT", "policy decision"}},
		{ID: "fiscal_policy", Phrases: []string{"budget deficit", "surplus", "spending", "tax cut", "stimulus", "fiscal"}},
		{ID: "externalities", Phrases: []string{"externality", "pollution", "carbon", "emissions", "tax credit", "subsidy"}},
		{ID: "asymmetric_information", Phrases: []string{"information asymmetry", "insider", "adverse selection", "moral hazard"}},
		{ID: "price_discrimination", Phrases: []string{"price discrimination", "dynamic pricing", "surge pricing", "loyalty pricing"}},
		{ID: "competition_policy", Phrases: []string{"ACCC", "antitrust", "competition authority", "undertaking", "court-enforceable"}},
		{ID: "game_theory", Phrases: []string{"tacit collusion", "Nash equilibrium", "strategic", "coordination", "prisoners' dilemma"}},
	},
	Arts: {
		{ID: "copyright", Phrases: []string{"copyright", "intellectual property", "royalties", "licensing", "fair use", "IP"}},
		{ID: "censorship", Phrases: []string{"censor", "ban", "content moderation", "free speech", "classification board"}},
		{ID: "cultural_policy", Phrases: []string{"arts funding", "grant", "Creative Australia", "cultural policy", "museum"}},
		{ID: "labour_unions", Phrases: []string{"strike", "union", "industrial action", "actors guild"}},
	},
}

var (
	byTrack = buildByTrack()
	flat    = buildFlat()
)

func buildByTrack() map[Track]map[string]Concept {
	out := make(map[Track]map[string]Concept, len(concepts))
	for _, t := range Tracks() {
		m := make(map[string]Concept, len(concepts[t]))
		for _, c := range concepts[t] {
			c.Track = t
			m[c.ID] = c
		}
		out[t] = m
	}
	return out
}

func buildFlat() map[string]Concept {
	out := make(map[string]Concept)
	for _, t := range Tracks() {
		for id, c := range byTrack[t] {
			out[id] = c
		}
	}
	return out
}

// ParseTrack resolves a track identifier. Anything other than a known
// track reports false and callers fall back to the unscoped view.
func ParseTrack(s string) (Track, bool) {
	t := Track(s)
	_, ok := byTrack[t]
	return t, ok
}

// All returns every concept keyed by id, both tracks merged.
func All() map[string]Concept {
	return flat
}

// InTrack returns the concepts owned by t, or nil for an unknown track.
func InTrack(t Track) map[string]Concept {
	return byTrack[t]
}

// Contains reports whether id belongs to track t.
func Contains(t Track, id string) bool {
	_, ok := byTrack[t][id]
	return ok
}

// IDs returns the sorted concept ids of track t. An unknown track yields
// the ids of all tracks combined.
func IDs(t Track) []string {
	src, ok := byTrack[t]
	if !ok {
		src = flat
	}
	ids := make([]string, 0, len(src))
	for id := range src {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
