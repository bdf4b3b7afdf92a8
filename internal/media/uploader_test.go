package media

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploaderDisabledWithoutCredentials(t *testing.T) {
	t.Parallel()

	u := NewUploader(Config{SecretID: "id"})
	assert.False(t, u.Enabled())

	_, err := u.UploadPetImage(context.Background(), []byte{1}, "duck.png")
	require.ErrorIs(t, err, ErrUploadUnavailable)
}

func TestUploadRejectsEmptyBytes(t *testing.T) {
	t.Parallel()

	u := NewUploader(Config{})
	_, err := u.UploadPetImage(context.Background(), nil, "duck.png")
	require.Error(t, err)
}

func TestSanitizeFileName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "my_duck.png", sanitizeFileName("my duck.png"))
	assert.Equal(t, "pet.png", sanitizeFileName(""))
	assert.Equal(t, "evil.sh", sanitizeFileName("../../evil.sh"))
}

func TestBuildObjectKeyShape(t *testing.T) {
	t.Parallel()

	key := buildObjectKey("duck.png")
	assert.True(t, strings.HasPrefix(key, "pets/"))
	assert.True(t, strings.HasSuffix(key, "_duck.png"))
}
