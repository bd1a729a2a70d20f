package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithMessagePreservesIdentity(t *testing.T) {
	err := ErrNotExist.WithMessage("no such file or directory: foo")
	assert.True(t, errors.Is(err, ErrNotExist))
	assert.False(t, errors.Is(err, ErrNoSpace))
}

func TestWithMessageIncludesContext(t *testing.T) {
	err := ErrNoSpace.WithMessage("directory is full")
	assert.Contains(t, err.Error(), "directory is full")
	assert.Contains(t, err.Error(), string(ErrNoSpace))
}
