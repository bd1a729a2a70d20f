// Package errors defines the small set of failure conditions the wfs core
// and its callers need to distinguish. Values are sentinel errors so callers
// can use errors.Is instead of string matching.
package errors

import "fmt"

// WfsError is a string-backed error, the same shape disko uses for its
// DiskoError values: cheap to compare, safe to use as a map key, and able to
// grow a contextual message without losing its identity under errors.Is.
type WfsError string

func (e WfsError) Error() string {
	return string(e)
}

// WithMessage returns a new error that reports both the sentinel's text and
// extra context, while still satisfying errors.Is(err, e).
func (e WfsError) WithMessage(message string) error {
	return &wrappedError{
		parent:  e,
		message: fmt.Sprintf("%s: %s", string(e), message),
	}
}

type wrappedError struct {
	parent  WfsError
	message string
}

func (e *wrappedError) Error() string {
	return e.message
}

func (e *wrappedError) Unwrap() error {
	return e.parent
}

// The two error kinds that path resolution and allocation report to the host
// callback library (FUSE in this system). ErrInvalidArgument, below, is
// passed through unchanged and surfaces as EINVAL.
const (
	// ErrNotExist is returned for any missing path component, or when a
	// non-directory is encountered where a directory component was
	// expected. The two are deliberately conflated rather than given
	// separate sentinels.
	ErrNotExist = WfsError("no such file or directory")

	// ErrNoSpace is returned when the inode bitmap or data bitmap is
	// exhausted, or a directory has hit its entry-count ceiling.
	ErrNoSpace = WfsError("no space left on device")
)

// ErrInvalidArgument covers input validation that falls outside the
// NOENT/NOSPC taxonomy the FUSE boundary exposes: a formatter call with an
// impossible geometry, or a name that can't fit in a directory entry.
const ErrInvalidArgument = WfsError("invalid argument")
