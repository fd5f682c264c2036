// Package catalog loads the university reference data and resolves ids
// stored in favorites and comparison lists.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var embedded []byte

var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidCompositeID  = errors.New("composite id must be '<universityId>-<programId>'")
	errDuplicateUniversity = errors.New("duplicate university id")
)

type catalogFile struct {
	Universities []*University `yaml:"universities"`
}

// Catalog is a read-only index over universities. Order follows the source file.
type Catalog struct {
	universities []*University
	byID         map[string]*University
}

// Default returns the catalog compiled into the binary.
func Default() (*Catalog, error) {
	return Parse(embedded)
}

// LoadFile reads a catalog from a YAML file.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// Load reads a catalog from YAML.
func Load(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse builds a catalog from YAML bytes.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return New(file.Universities)
}

// New indexes the given universities after validating them.
func New(universities []*University) (*Catalog, error) {
	c := &Catalog{
		universities: make([]*University, 0, len(universities)),
		byID:         make(map[string]*University, len(universities)),
	}

	for i, u := range universities {
		if u == nil {
			continue
		}
		if strings.TrimSpace(u.ID) == "" {
			return nil, fmt.Errorf("university #%d: id is required", i)
		}
		if strings.Contains(u.ID, "-") {
			return nil, fmt.Errorf("university %q: id must not contain '-'", u.ID)
		}
		if _, ok := c.byID[u.ID]; ok {
			return nil, fmt.Errorf("%w: %s", errDuplicateUniversity, u.ID)
		}

		seen := make(map[string]struct{}, len(u.Programs))
		for _, p := range u.Programs {
			if p == nil || strings.TrimSpace(p.ID) == "" {
				return nil, fmt.Errorf("university %q: program id is required", u.ID)
			}
			if _, ok := seen[p.ID]; ok {
				return nil, fmt.Errorf("university %q: duplicate program id %q", u.ID, p.ID)
			}
			seen[p.ID] = struct{}{}
		}

		c.universities = append(c.universities, u)
		c.byID[u.ID] = u
	}

	return c, nil
}

// Universities returns all universities in catalog order.
func (c *Catalog) Universities() []*University {
	out := make([]*University, len(c.universities))
	copy(out, c.universities)
	return out
}

func (c *Catalog) Len() int {
	return len(c.universities)
}

// University finds a university by id.
func (c *Catalog) University(id string) (*University, error) {
	u, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("university %q: %w", id, ErrNotFound)
	}
	return u, nil
}

// Program finds a program of a university.
func (c *Catalog) Program(universityID, programID string) (*University, *Program, error) {
	u, err := c.University(universityID)
	if err != nil {
		return nil, nil, err
	}

	p, ok := u.Program(programID)
	if !ok {
		return nil, nil, fmt.Errorf("program %q of %q: %w", programID, universityID, ErrNotFound)
	}

	return u, p, nil
}

// Resolve looks up a composite "<universityId>-<programId>" id.
func (c *Catalog) Resolve(compositeID string) (*University, *Program, error) {
	universityID, programID, err := SplitCompositeID(compositeID)
	if err != nil {
		return nil, nil, err
	}
	return c.Program(universityID, programID)
}

// CompositeID joins a university and program id.
func CompositeID(universityID, programID string) string {
	return universityID + "-" + programID
}

// SplitCompositeID splits at the first '-'. University ids never contain one,
// program ids may.
func SplitCompositeID(id string) (string, string, error) {
	universityID, programID, ok := strings.Cut(id, "-")
	if !ok || universityID == "" || programID == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidCompositeID, id)
	}
	return universityID, programID, nil
}
