package wfs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitPath(t *testing.T) {
	cases := []struct {
		path, parent, leaf string
	}{
		{"/foo", "", "foo"},
		{"/foo/bar", "/foo", "bar"},
		{"/a/b/c", "/a/b", "c"},
		{"noslash", "", "noslash"},
	}

	for _, c := range cases {
		parent, leaf := splitPath(c.path)
		assert.Equal(t, c.parent, parent, "parent of %q", c.path)
		assert.Equal(t, c.leaf, leaf, "leaf of %q", c.path)
	}
}

func TestSplitComponents(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitComponents("/a/b"))
	assert.Equal(t, []string{"a", "b"}, splitComponents("a/b/"))
	assert.Equal(t, []string{}, splitComponents("/"))
	assert.Equal(t, []string{"a"}, splitComponents("a"))
}

func TestLookupRoot(t *testing.T) {
	img := newTestImage(t, 32, 32)

	lr, err := img.Lookup("/")
	assert.NoError(t, err)
	assert.Equal(t, uint32(0), lr.idx)
	assert.True(t, lr.inode.isDirRaw())
}

func TestLookupMissingFails(t *testing.T) {
	img := newTestImage(t, 32, 32)

	_, err := img.Lookup("/nope")
	assert.Error(t, err)
}

func TestLookupThroughNonDirectoryFails(t *testing.T) {
	img := newTestImage(t, 32, 32)

	_, err := img.AddEntry("/", "file", ModeReg|0o644, 0, 0, time.Now())
	require.NoError(t, err)

	_, err = img.Lookup("/file/child")
	assert.Error(t, err)
}
