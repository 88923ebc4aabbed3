package state

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// DocumentVersion is written into every saved drawing.
const DocumentVersion = 1

type document struct {
	Version int              `json:"version"`
	Strokes []documentStroke `json:"strokes"`
}

type documentStroke struct {
	ID        string    `json:"id"`
	Path      string    `json:"path"`
	Color     string    `json:"color"`
	Width     float64   `json:"width"`
	CreatedAt time.Time `json:"created_at"`
}

// WriteDocument saves strokes as an indented JSON drawing.
func WriteDocument(w io.Writer, strokes []Stroke) error {
	doc := document{Version: DocumentVersion, Strokes: make([]documentStroke, 0, len(strokes))}
	for _, s := range strokes {
		doc.Strokes = append(doc.Strokes, documentStroke{
			ID:        s.ID,
			Path:      s.Path.String(),
			Color:     string(s.Color),
			Width:     s.Width,
			CreatedAt: s.CreatedAt,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// ReadDocument loads a drawing written by WriteDocument. Every stroke is
// validated; a bad path yields a *MalformedPathError.
func ReadDocument(r io.Reader) ([]Stroke, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding drawing: %w", err)
	}
	if doc.Version != DocumentVersion {
		return nil, fmt.Errorf("unsupported drawing version %d", doc.Version)
	}

	clock := SystemClock()
	seen := make(map[string]bool, len(doc.Strokes))
	strokes := make([]Stroke, 0, len(doc.Strokes))
	for i, ds := range doc.Strokes {
		path, err := ParsePath(ds.Path)
		if err != nil {
			return nil, fmt.Errorf("stroke %d: %w", i, err)
		}
		col, err := ParseColor(ds.Color)
		if err != nil {
			return nil, fmt.Errorf("stroke %d: %w", i, err)
		}
		if !ValidWidth(ds.Width) {
			return nil, fmt.Errorf("stroke %d: %w", i, ErrInvalidWidth)
		}
		id := ds.ID
		if id == "" || seen[id] {
			id, _ = clock.stamp()
		}
		seen[id] = true
		strokes = append(strokes, Stroke{ID: id, Path: path, Color: col, Width: ds.Width, CreatedAt: ds.CreatedAt})
	}
	return strokes, nil
}
