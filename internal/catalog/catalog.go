// Package catalog holds the read-only package list sold by the storefront.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/baharkarakas/kuota-backend/internal/models"
)

//go:embed default.yaml
var defaultYAML []byte

var ErrNotFound = errors.New("package not found")

// Catalog is the lookup surface the services depend on.
type Catalog interface {
	Get(id models.PackageID) (models.Package, error)
	List() []models.Package
}

type Static struct {
	byID  map[models.PackageID]models.Package
	order []models.Package
}

type file struct {
	Packages []models.Package `yaml:"packages"`
}

func New(pkgs []models.Package) (*Static, error) {
	s := &Static{byID: make(map[models.PackageID]models.Package, len(pkgs))}
	for _, p := range pkgs {
		if p.ID <= 0 {
			return nil, fmt.Errorf("package %q: id must be positive", p.Name)
		}
		if _, dup := s.byID[p.ID]; dup {
			return nil, fmt.Errorf("package %d: duplicate id", p.ID)
		}
		if p.Price < 0 {
			return nil, fmt.Errorf("package %d: negative price", p.ID)
		}
		if !p.Category.Valid() {
			return nil, fmt.Errorf("package %d: unknown category %q", p.ID, p.Category)
		}
		s.byID[p.ID] = p
		s.order = append(s.order, p)
	}
	sort.Slice(s.order, func(i, j int) bool { return s.order[i].ID < s.order[j].ID })
	return s, nil
}

func Parse(data []byte) (*Static, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("catalog: decode yaml: %w", err)
	}
	return New(f.Packages)
}

// Load reads a catalog file. An empty path yields the built-in catalog.
func Load(path string) (*Static, error) {
	if path == "" {
		return Parse(defaultYAML)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read file: %w", err)
	}
	return Parse(data)
}

func (s *Static) Get(id models.PackageID) (models.Package, error) {
	p, ok := s.byID[id]
	if !ok {
		return models.Package{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return p, nil
}

// List returns a copy ordered by id.
func (s *Static) List() []models.Package {
	out := make([]models.Package, len(s.order))
	copy(out, s.order)
	return out
}
