package identity

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestLoadOrCreateStable(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sub", "device.json")

	first, err := LoadOrCreate(path)
	require.NoError(t, err)
	_, err = uuid.Parse(first)
	require.NoError(t, err, "device id should be a uuid")

	second, err := LoadOrCreate(path)
	require.NoError(t, err)
	require.Equal(t, first, second, "id must survive restarts")
}

func TestLoadOrCreateMangledFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "device.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	id, err := LoadOrCreate(path)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	again, err := LoadOrCreate(path)
	require.NoError(t, err)
	require.Equal(t, id, again, "regenerated id must be persisted")
}
