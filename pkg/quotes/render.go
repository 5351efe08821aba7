package quotes

import (
	"encoding/json"
	"fmt"

	"github.com/quotevault/quotevault/pkg/stores"
)

// quoteDoc is the external JSON shape of a quote. Source and year are
// rendered as explicit nulls rather than omitted, and the internal
// created_at timestamp is not exposed.
type quoteDoc struct {
	ID     int64    `json:"id"`
	Text   string   `json:"text"`
	Author string   `json:"author"`
	Source *string  `json:"source"`
	Year   *int     `json:"year"`
	Tags   []string `json:"tags"`
}

func toDoc(q *stores.Quote) quoteDoc {
	tags := q.Tags
	if tags == nil {
		tags = []string{}
	}
	return quoteDoc{
		ID:     q.ID,
		Text:   q.Text,
		Author: q.Author,
		Source: q.Source,
		Year:   q.Year,
		Tags:   tags,
	}
}

// JSON renders the result as an indented JSON document. Quote lists become
// arrays, single quotes become objects, and a random reference over an
// empty catalog yields an error object rather than null.
func (res *Result) JSON() (string, error) {
	var payload any
	switch res.Kind {
	case KindStats:
		payload = res.Stats
	case KindTags:
		tags := res.Tags
		if tags == nil {
			tags = []stores.TagCount{}
		}
		payload = tags
	case KindID, KindRandom:
		if res.Quote == nil {
			payload = map[string]string{"error": "No quotes available"}
		} else {
			payload = toDoc(res.Quote)
		}
	default:
		docs := make([]quoteDoc, 0, len(res.Quotes))
		for _, q := range res.Quotes {
			docs = append(docs, toDoc(q))
		}
		payload = docs
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}
	return string(data), nil
}
