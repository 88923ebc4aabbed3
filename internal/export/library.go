package export

import (
	"errors"
	"log"
	"os"
	"path/filepath"

	"smART/internal/fault"
)

// Library saves pictures into an album folder, the desktop counterpart of a
// phone's camera roll.
type Library struct {
	Dir   string
	Album string
}

var _ Sink = Library{}

// Publish writes a into the album and returns the file path.
func (l Library) Publish(a Artifact) (string, error) {
	if len(a.Data) == 0 {
		return "", fault.New(fault.KindExportFailed, "save", errors.New("empty artifact"))
	}
	dir := filepath.Join(l.Dir, l.Album)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fault.FromIO("save", err, fault.KindExportFailed)
	}
	path := filepath.Join(dir, a.Name)
	if err := os.WriteFile(path, a.Data, 0o644); err != nil {
		return "", fault.FromIO("save", err, fault.KindExportFailed)
	}
	log.Printf("[EXPORT] Saved %s (%d bytes)", path, len(a.Data))
	return path, nil
}
