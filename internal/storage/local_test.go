package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_Lifecycle(t *testing.T) {
	ctx := context.Background()
	st, err := NewLocalStorage(Config{BasePath: t.TempDir()})
	require.NoError(t, err)

	path := "submissions/owner-1/file.txt"

	ok, err := st.Exists(ctx, path)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, st.Save(ctx, path, strings.NewReader("hello"), "text/plain"))

	ok, err = st.Exists(ctx, path)
	require.NoError(t, err)
	assert.True(t, ok)

	rc, err := st.Get(ctx, path)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	require.NoError(t, st.Delete(ctx, path))
	_, err = st.Get(ctx, path)
	assert.ErrorIs(t, err, ErrNotExist)

	// Повторное удаление не ошибка
	assert.NoError(t, st.Delete(ctx, path))
}

func TestLocalStorage_RejectsEscapingPaths(t *testing.T) {
	ctx := context.Background()
	st, err := NewLocalStorage(Config{BasePath: t.TempDir()})
	require.NoError(t, err)

	for _, p := range []string{"../outside.txt", "a/../../b", ""} {
		err := st.Save(ctx, p, strings.NewReader("x"), "text/plain")
		assert.Error(t, err, p)
	}
}

func TestNewStorage_Types(t *testing.T) {
	_, err := NewStorage(Config{Type: "local", BasePath: t.TempDir()})
	assert.NoError(t, err)

	_, err = NewStorage(Config{Type: "cloudflare_r2", Bucket: "b"})
	assert.Error(t, err, "r2 requires an endpoint")

	_, err = NewStorage(Config{Type: "ftp"})
	assert.Error(t, err)
}
