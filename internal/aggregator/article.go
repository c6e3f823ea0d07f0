package aggregator

import (
	"encoding/json"
	"time"
)

// Article is a feed entry enriched with its matched concepts. It is
// built per request and never stored.
type Article struct {
	Source    string     `json:"source"`
	Title     string     `json:"title"`
	URL       *string    `json:"url"`
	Published *Timestamp `json:"published"`
	Concepts  []string   `json:"concepts"`
	Summary   string     `json:"summary"`
}

// Timestamp is a UTC instant rendered as ISO-8601 with an explicit
// "+00:00" offset, e.g. 2024-01-02T00:00:00+00:00.
type Timestamp struct {
	time.Time
}

const (
	isoLayout      = "2006-01-02T15:04:05-07:00"
	isoMicroLayout = "2006-01-02T15:04:05.000000-07:00"
)

// ISO formats the timestamp; a nil timestamp formats as "".
func (t *Timestamp) ISO() string {
	if t == nil {
		return ""
	}
	u := t.UTC()
	if u.Nanosecond()/int(time.Microsecond) != 0 {
		return u.Format(isoMicroLayout)
	}
	return u.Format(isoLayout)
}

func (t *Timestamp) MarshalJSON() ([]byte, error) {
	if t == nil {
		return []byte("null"), nil
	}
	return json.Marshal(t.ISO())
}
