package secrets

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestLoadFromOrder(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/uni-navigator/gemini.key", []byte("  from-file \n"), 0o600))
	getenv := env(map[string]string{"GEMINI_API_KEY": " from-env "})

	tests := []struct {
		name string
		src  Source
		want string
	}{
		{name: "file wins", src: Source{File: "/etc/uni-navigator/gemini.key", Env: "GEMINI_API_KEY", Value: "inline"}, want: "from-file"},
		{name: "env before value", src: Source{Env: "GEMINI_API_KEY", Value: "inline"}, want: "from-env"},
		{name: "unset env falls through", src: Source{Env: "UNI_NAVIGATOR_PASSWORD", Value: " inline "}, want: "inline"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadFrom(fs, getenv, tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadFromErrors(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/empty", []byte("   "), 0o600))

	_, err := LoadFrom(fs, env(nil), Source{Name: "gemini api key", Env: "GEMINI_API_KEY"})
	require.ErrorIs(t, err, ErrNotConfigured)
	assert.EqualError(t, err, "gemini api key is not configured")

	_, err = LoadFrom(fs, env(nil), Source{File: "/empty", Value: "inline"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `secret file "/empty" is empty`)
	assert.NotErrorIs(t, err, ErrNotConfigured)

	_, err = LoadFrom(fs, env(nil), Source{Name: "password", File: "/missing"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading password from file")
}

func TestLoadUsesProcessEnvironment(t *testing.T) {
	t.Setenv("UNI_NAVIGATOR_TEST_SECRET", "s3cret")

	got, err := Load(Source{Env: "UNI_NAVIGATOR_TEST_SECRET"})
	require.NoError(t, err)
	assert.Equal(t, "s3cret", got)
}
