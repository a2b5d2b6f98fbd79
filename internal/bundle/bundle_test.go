package bundle

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	cases := map[string]string{
		"Coin Game":        "Coin_Game",
		"  Trio!! ":         "Trio",
		"":                  "unnamed_game",
		"***":               "unnamed_game",
		"Tic-Tac_Toe 2":     "Tic-Tac_Toe_2",
	}
	for input, want := range cases {
		assert.Equal(t, want, Sanitize(input), "input %q", input)
	}
}

func TestEnsureAndRemoveVersionDir(t *testing.T) {
	root, err := NewRoot(t.TempDir())
	require.NoError(t, err)

	dir, err := root.EnsureVersionDir("Coin Game", "1.0.0")
	require.NoError(t, err)
	assert.True(t, root.VersionDirExists("Coin Game", "1.0.0"))
	assert.Equal(t, filepath.Join(root.path, "Coin_Game", "1.0.0"), dir)

	require.NoError(t, root.RemoveVersionDir("Coin Game", "1.0.0"))
	assert.False(t, root.VersionDirExists("Coin Game", "1.0.0"))
}

func TestRemoveGameDirRemovesAllVersions(t *testing.T) {
	root, err := NewRoot(t.TempDir())
	require.NoError(t, err)

	_, err = root.EnsureVersionDir("Coin", "1.0.0")
	require.NoError(t, err)
	_, err = root.EnsureVersionDir("Coin", "1.1.0")
	require.NoError(t, err)

	require.NoError(t, root.RemoveGameDir("Coin"))
	_, statErr := os.Stat(root.GameDir("Coin"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestListFiles(t *testing.T) {
	root, err := NewRoot(t.TempDir())
	require.NoError(t, err)

	dir, err := root.EnsureVersionDir("Coin", "1.0.0")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "client.py"), []byte("print(1)"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "assets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "assets", "art.png"), []byte("x"), 0o644))

	files, err := ListFiles(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)

	names := map[string]bool{}
	for _, f := range files {
		names[f.RelPath] = true
	}
	assert.True(t, names["client.py"])
	assert.True(t, names[filepath.Join("assets", "art.png")])
}
