// Package fault classifies the errors that reach the user. Every kind is
// recoverable: it is reported as a notice and leaves the canvas untouched.
package fault

import (
	"errors"
	"fmt"
	"io/fs"

	"smART/internal/state"
)

// Kind is the category of a user-facing failure.
type Kind int

const (
	KindUnknown Kind = iota
	// KindPermissionDenied means access to a library or file was refused.
	KindPermissionDenied
	// KindCaptureFailed means the canvas could not be rendered to an image.
	KindCaptureFailed
	// KindExportFailed means saving or sharing an image failed.
	KindExportFailed
	// KindMalformedPath means foreign path data could not be decoded.
	KindMalformedPath
)

func (k Kind) String() string {
	switch k {
	case KindPermissionDenied:
		return "permission denied"
	case KindCaptureFailed:
		return "capture failed"
	case KindExportFailed:
		return "export failed"
	case KindMalformedPath:
		return "malformed path"
	default:
		return "unknown"
	}
}

// Error is a failure at an external boundary.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Op == "" && t.Err == nil && t.Kind == e.Kind
}

var (
	ErrPermissionDenied = &Error{Kind: KindPermissionDenied}
	ErrCaptureFailed    = &Error{Kind: KindCaptureFailed}
	ErrExportFailed     = &Error{Kind: KindExportFailed}
)

// New wraps err as a failure of kind k during op.
func New(k Kind, op string, err error) error {
	return &Error{Kind: k, Op: op, Err: err}
}

// FromIO classifies an I/O error: permission problems become
// KindPermissionDenied, everything else fallback.
func FromIO(op string, err error, fallback Kind) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrPermission) {
		return New(KindPermissionDenied, op, err)
	}
	return New(fallback, op, err)
}

// KindOf reports the kind of err.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	var mpe *state.MalformedPathError
	if errors.As(err, &mpe) {
		return KindMalformedPath
	}
	if errors.Is(err, fs.ErrPermission) {
		return KindPermissionDenied
	}
	return KindUnknown
}

// Notice turns err into a short title and message for the user.
func Notice(err error) (title, message string) {
	switch KindOf(err) {
	case KindPermissionDenied:
		return "Permission required", "Access to the photo library or file was refused."
	case KindCaptureFailed:
		return "Error", "Could not capture the drawing."
	case KindExportFailed:
		var fe *Error
		if errors.As(err, &fe) && fe.Op == "share" {
			return "Error", "Could not share image."
		}
		return "Error", "Could not save image."
	case KindMalformedPath:
		return "Error", "The drawing file is damaged and could not be opened."
	default:
		return "Error", err.Error()
	}
}
