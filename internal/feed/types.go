package feed

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"
)

// Item is one video entry in the published feed. Field names follow the wire
// format expected by the set-top-box client.
type Item struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	ShortDescription string   `json:"shortDescription"`
	Thumbnail        string   `json:"thumbnail,omitempty"`
	ReleaseDate      string   `json:"releaseDate"`
	Genres           []string `json:"genres"`
	Content          Content  `json:"content"`
	DateAdded        string   `json:"dateAdded"`
}

// Content wraps the playable sources and duration of an item.
type Content struct {
	Duration int           `json:"duration"`
	Videos   []VideoSource `json:"videos"`
}

// VideoSource points at one streamable rendition of an item.
type VideoSource struct {
	URL       string `json:"url"`
	Quality   string `json:"quality"`
	VideoType string `json:"videoType"`
}

// Group is a named bucket of items. Group order in Document.Groups is the
// order the client sees.
type Group struct {
	Label string
	Items []Item
}

// Document is the root feed artifact. On the wire the groups are flattened
// into top-level keys alongside the provider metadata, in group order.
type Document struct {
	ProviderName string
	Language     string
	LastUpdated  time.Time
	BuildID      string
	Groups       []Group
}

// ItemCount returns the total number of items across all groups.
func (d *Document) ItemCount() int {
	count := 0
	for _, group := range d.Groups {
		count += len(group.Items)
	}
	return count
}

// MarshalJSON emits the flattened wire form with deterministic key order:
// provider metadata first, then one key per group.
func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	writeField := func(key string, value any) error {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		encodedKey, err := json.Marshal(key)
		if err != nil {
			return err
		}
		encodedValue, err := json.Marshal(value)
		if err != nil {
			return err
		}
		buf.Write(encodedKey)
		buf.WriteByte(':')
		buf.Write(encodedValue)
		return nil
	}

	if err := writeField("providerName", d.ProviderName); err != nil {
		return nil, err
	}
	if err := writeField("lastUpdated", d.LastUpdated.UTC().Format(time.RFC3339)); err != nil {
		return nil, err
	}
	if err := writeField("language", d.Language); err != nil {
		return nil, err
	}
	if err := writeField("buildId", d.BuildID); err != nil {
		return nil, err
	}
	for _, group := range d.Groups {
		items := group.Items
		if items == nil {
			items = []Item{}
		}
		if err := writeField(group.Label, items); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ParseDocument decodes a published feed, preserving group order. Unknown
// top-level keys are treated as groups, matching the flattened wire form.
func ParseDocument(data []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New("parse feed: expected JSON object")
	}

	doc := &Document{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parse feed: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, errors.New("parse feed: expected object key")
		}

		switch key {
		case "providerName":
			if err := dec.Decode(&doc.ProviderName); err != nil {
				return nil, fmt.Errorf("parse feed: providerName: %w", err)
			}
		case "language":
			if err := dec.Decode(&doc.Language); err != nil {
				return nil, fmt.Errorf("parse feed: language: %w", err)
			}
		case "buildId":
			if err := dec.Decode(&doc.BuildID); err != nil {
				return nil, fmt.Errorf("parse feed: buildId: %w", err)
			}
		case "lastUpdated":
			var raw string
			if err := dec.Decode(&raw); err != nil {
				return nil, fmt.Errorf("parse feed: lastUpdated: %w", err)
			}
			stamp, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				return nil, fmt.Errorf("parse feed: lastUpdated: %w", err)
			}
			doc.LastUpdated = stamp
		default:
			var items []Item
			if err := dec.Decode(&items); err != nil {
				return nil, fmt.Errorf("parse feed: group %q: %w", key, err)
			}
			doc.Groups = append(doc.Groups, Group{Label: key, Items: items})
		}
	}

	if _, err := dec.Token(); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	return doc, nil
}
