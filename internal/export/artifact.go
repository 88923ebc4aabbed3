// Package export turns a canvas frame into image artifacts and hands them to
// persistence sinks.
package export

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Artifact is a rendered picture. Sinks never inspect Data.
type Artifact struct {
	ID        string
	Name      string
	MIME      string
	Data      []byte
	Width     int
	Height    int
	CreatedAt time.Time
}

// Sink persists or distributes an artifact and reports where it went.
type Sink interface {
	Publish(a Artifact) (string, error)
}

func newArtifact(data []byte, mime, ext string, w, h int) Artifact {
	now := time.Now()
	id := uuid.NewString()
	return Artifact{
		ID:        id,
		Name:      fmt.Sprintf("smART-%s-%s.%s", now.Format("20060102-150405"), id[:8], ext),
		MIME:      mime,
		Data:      data,
		Width:     w,
		Height:    h,
		CreatedAt: now,
	}
}
