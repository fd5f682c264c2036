package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const statePath = "/home/user/.uni-navigator/state.json"

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	store := NewFileStore(fs, statePath, nil)

	_, ok, err := store.Get(ctx, KeyAuthToken)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, KeyAuthToken, "tok"))
	require.NoError(t, store.Set(ctx, KeyFavorites, `["nu"]`))

	reopened := NewFileStore(fs, statePath, nil)
	v, ok, err := reopened.Get(ctx, KeyAuthToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok", v)

	require.NoError(t, reopened.Delete(ctx, KeyAuthToken))
	_, ok, err = store.Get(ctx, KeyAuthToken)
	require.NoError(t, err)
	assert.False(t, ok)

	exists, err := afero.Exists(fs, statePath+".tmp")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestFileStoreCorruptFileIsEmpty(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, statePath, []byte("{not json"), 0o600))

	core, logs := observer.New(zap.WarnLevel)
	store := NewFileStore(fs, statePath, zap.New(core))

	_, ok, err := store.Get(ctx, KeyProfile)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, logs.FilterMessage("state file is corrupt, starting empty").Len())

	require.NoError(t, store.Set(ctx, KeyProfile, "{}"))
	v, ok, err := store.Get(ctx, KeyProfile)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "{}", v)
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryStore()

	var got []string
	ok, err := GetJSON(ctx, kv, KeyComparison, &got)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, SetJSON(ctx, kv, KeyComparison, []string{"nu-nu-cs", "sdu-sdu-cs"}))
	ok, err = GetJSON(ctx, kv, KeyComparison, &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"nu-nu-cs", "sdu-sdu-cs"}, got)

	require.NoError(t, kv.Set(ctx, KeyFavorites, "nu,kbtu"))
	_, err = GetJSON(ctx, kv, KeyFavorites, &got)
	assert.True(t, errors.Is(err, ErrCorrupt))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{name: "memory", opts: Options{Driver: DriverMemory}},
		{name: "file", opts: Options{Driver: DriverFile, Path: t.TempDir() + "/state.json"}},
		{name: "file without path", opts: Options{Driver: DriverFile}, wantErr: true},
		{name: "redis without address", opts: Options{Driver: DriverRedis}, wantErr: true},
		{name: "unknown", opts: Options{Driver: "etcd"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv, closer, err := Open(ctx, tt.opts, zap.NewNop())
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, kv)
			assert.NoError(t, closer.Close())
		})
	}
}
