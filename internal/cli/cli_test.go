package cli

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akowalsk/scopeview/pkg/errors"
	"github.com/akowalsk/scopeview/pkg/session"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	names := map[string]bool{}
	for _, cmd := range root.Commands() {
		names[cmd.Name()] = true
	}
	assert.True(t, names["view"])
	assert.True(t, names["demo"])
	assert.True(t, names["markers"])
	assert.True(t, names["completion"])
}

func TestNewStoreMemory(t *testing.T) {
	f := storeFlags{backend: "memory"}
	st, err := f.newStore(context.Background())
	require.NoError(t, err)
	defer st.Close()

	_, ok := st.(*session.MemoryStore)
	assert.True(t, ok)
}

func TestNewStoreFileUsesStateDir(t *testing.T) {
	dir := t.TempDir()
	f := storeFlags{backend: "file", stateDir: dir}
	st, err := f.newStore(context.Background())
	require.NoError(t, err)
	defer st.Close()

	_, ok := st.(*session.FileStore)
	assert.True(t, ok)
}

func TestNewStoreUnknownBackend(t *testing.T) {
	f := storeFlags{backend: "cassette"}
	_, err := f.newStore(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestStateDirPrefersXDG(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/tmp/xdg-state")

	dir, err := stateDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/xdg-state", appName), dir)
}

func TestStateDirFallsBackToHome(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "")
	t.Setenv("HOME", "/tmp/fake-home")

	dir, err := stateDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/fake-home", ".local", "state", appName), dir)
}
