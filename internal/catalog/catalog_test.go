package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/kuota-backend/internal/models"
)

func TestLoad_DefaultCatalog(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	pkgs := c.List()
	require.Len(t, pkgs, 4)
	assert.Equal(t, models.PackageID(1), pkgs[0].ID)

	p, err := c.Get(3)
	require.NoError(t, err)
	assert.Equal(t, int64(50000), p.Price)
	assert.Equal(t, models.CategoryPremium, p.Category)

	_, err = c.Get(99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
packages:
  - id: 9
    name: Mini
    price: 5000
    data: 1GB
    validity: 1 day
    category: basic
`), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	p, err := c.Get(9)
	require.NoError(t, err)
	assert.Equal(t, "Mini", p.Name)
}

func TestNew_RejectsBadEntries(t *testing.T) {
	cases := map[string][]models.Package{
		"duplicate id":   {{ID: 1, Category: models.CategoryBasic}, {ID: 1, Category: models.CategoryBasic}},
		"negative price": {{ID: 1, Price: -1, Category: models.CategoryBasic}},
		"bad category":   {{ID: 1, Category: "gold"}},
		"zero id":        {{ID: 0, Category: models.CategoryBasic}},
	}
	for name, pkgs := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := New(pkgs)
			assert.Error(t, err)
		})
	}
}

func TestList_ReturnsCopy(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	pkgs := c.List()
	pkgs[0].Price = 1
	p, _ := c.Get(pkgs[0].ID)
	assert.NotEqual(t, int64(1), p.Price)
}
