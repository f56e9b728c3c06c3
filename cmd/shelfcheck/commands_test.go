package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductsCmd_PrintsCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"name":"X","quantity":1,"price":1.5}]`), 0o644))

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"products", "--catalog", path})

	require.NoError(t, root.Execute())
	assert.JSONEq(t, `[{"name":"X","quantity":1,"price":1.5}]`, out.String())
}

func TestProductsCmd_KeepsForeignKeys(t *testing.T) {
	content := `[{"nombre":"Laptop","cantidad":15,"precio":1200.5,"sku":"A1"}]`
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"products", "--catalog", path})

	require.NoError(t, root.Execute())
	assert.JSONEq(t, content, out.String())
}

func TestProductsCmd_MissingCatalog(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"products", "--catalog", filepath.Join(t.TempDir(), "missing.json")})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestVerifyCmd_RequiresURL(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"verify"})

	assert.Error(t, root.Execute())
}
