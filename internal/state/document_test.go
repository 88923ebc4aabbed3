package state

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentRoundTrip(t *testing.T) {
	c := newTestCanvas(t)
	require.NoError(t, c.SelectColor("#FF00FF"))
	draw(t, c, Point{0.5, 1.25}, Point{3, 4}, Point{-2, 8})
	draw(t, c, Point{9, 9})

	var buf bytes.Buffer
	require.NoError(t, WriteDocument(&buf, c.Strokes()))

	got, err := ReadDocument(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for i, s := range c.Strokes() {
		assert.Equal(t, s.ID, got[i].ID)
		assert.Equal(t, s.Path, got[i].Path)
		assert.Equal(t, s.Color, got[i].Color)
		assert.Equal(t, s.Width, got[i].Width)
		assert.True(t, s.CreatedAt.Equal(got[i].CreatedAt))
	}
}

func TestReadDocumentRejectsCorruptPath(t *testing.T) {
	in := `{"version":1,"strokes":[{"id":"a","path":"M 1 oops","color":"#000000","width":5}]}`
	_, err := ReadDocument(strings.NewReader(in))
	var mpe *MalformedPathError
	require.True(t, errors.As(err, &mpe), "got %v", err)
}

func TestReadDocumentValidation(t *testing.T) {
	cases := map[string]string{
		"not json":  `{`,
		"version":   `{"version":2,"strokes":[]}`,
		"bad color": `{"version":1,"strokes":[{"path":"M 1 2","color":"blue","width":5}]}`,
		"bad width": `{"version":1,"strokes":[{"path":"M 1 2","color":"#000000","width":0}]}`,
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ReadDocument(strings.NewReader(in))
			assert.Error(t, err)
		})
	}
}

func TestReadDocumentAssignsMissingIDs(t *testing.T) {
	in := `{"version":1,"strokes":[
		{"id":"dup","path":"M 1 2","color":"#000000","width":5},
		{"id":"dup","path":"M 3 4","color":"#000000","width":5},
		{"path":"M 5 6","color":"#000000","width":5}]}`
	got, err := ReadDocument(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "dup", got[0].ID)
	assert.NotEqual(t, "dup", got[1].ID)
	assert.NotEmpty(t, got[2].ID)
}
