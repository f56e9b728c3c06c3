package verifier

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/shelfcheck/models"
)

func TestLoadExpected_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expected.yaml")
	content := `
- name: Laptop
  quantity: 15
  price: 1200.50
- name: "Monitor 27\""
  quantity: 10
  price: 350
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	got, err := LoadExpected(path)
	require.NoError(t, err)
	assert.Equal(t, []models.Product{
		{Name: "Laptop", Quantity: 15, Price: 1200.50},
		{Name: "Monitor 27\"", Quantity: 10, Price: 350},
	}, got)
}

func TestLoadExpected_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expected.json")
	content := `[{"name":"Mouse","quantity":50,"price":15.99}]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	got, err := LoadExpected(path)
	require.NoError(t, err)
	assert.Equal(t, []models.Product{{Name: "Mouse", Quantity: 50, Price: 15.99}}, got)
}

func TestLoadExpected_Errors(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("[]"), 0o644))
	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("name: [unclosed"), 0o644))

	for _, path := range []string{filepath.Join(dir, "missing.yaml"), empty, broken} {
		_, err := LoadExpected(path)
		assert.Error(t, err, path)
	}
}

func TestDefaultExpected_ReturnsFreshCopy(t *testing.T) {
	a := DefaultExpected()
	a[0].Name = "changed"
	assert.Equal(t, "Laptop", DefaultExpected()[0].Name)
}
