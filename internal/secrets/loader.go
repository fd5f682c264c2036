// Package secrets resolves credentials such as the Gemini API key and the
// account password from a file, the environment or an inline value.
package secrets

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/afero"
)

// ErrNotConfigured is returned when no source yields a value.
var ErrNotConfigured = errors.New("not configured")

// Source lists the places a secret may come from, in lookup order.
type Source struct {
	// Name labels the secret in errors.
	Name  string
	File  string
	Env   string
	Value string
}

func (s Source) label() string {
	if name := strings.TrimSpace(s.Name); name != "" {
		return name
	}
	return "secret"
}

// Load resolves src against the OS filesystem and environment.
func Load(src Source) (string, error) {
	return LoadFrom(afero.NewOsFs(), os.Getenv, src)
}

// LoadFrom resolves src using fs for File and getenv for Env. The first
// configured source wins for File; Env falls through to Value when unset.
// Values are trimmed.
func LoadFrom(fs afero.Fs, getenv func(string) string, src Source) (string, error) {
	name := src.label()

	if path := strings.TrimSpace(src.File); path != "" {
		data, err := afero.ReadFile(fs, path)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, path, err)
		}
		secret := strings.TrimSpace(string(data))
		if secret == "" {
			return "", fmt.Errorf("%s file %q is empty", name, path)
		}
		return secret, nil
	}

	if key := strings.TrimSpace(src.Env); key != "" && getenv != nil {
		if secret := strings.TrimSpace(getenv(key)); secret != "" {
			return secret, nil
		}
	}

	if secret := strings.TrimSpace(src.Value); secret != "" {
		return secret, nil
	}

	return "", fmt.Errorf("%s is %w", name, ErrNotConfigured)
}
