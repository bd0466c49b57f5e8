package randx

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhotoName(t *testing.T) {
	a, err := PhotoName(".PNG")
	require.NoError(t, err)
	b, err := PhotoName("png")
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(a, ".png"))
	assert.True(t, strings.HasSuffix(b, ".png"))
	assert.NotEqual(t, a, b)
	assert.True(t, IsPhotoName(a))
	assert.True(t, IsPhotoName(b))

	// UUIDv7 names sort by creation time.
	assert.Less(t, a, b)
}

func TestIsPhotoNameRejectsOtherShapes(t *testing.T) {
	for _, name := range []string{
		"",
		"avatar.png",
		"../etc/passwd",
		"0190a4f2-3c4d-4b5e-8f60-718293a4b5c6.png", // version 4
		"0190a4f2-3c4d-7b5e-8f60-718293a4b5c6.png/../x",
	} {
		assert.False(t, IsPhotoName(name), name)
	}
}
