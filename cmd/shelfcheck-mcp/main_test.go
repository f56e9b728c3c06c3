package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callTool(t *testing.T, h func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (*mcp.CallToolResult, string) {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args

	res, err := h(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return res, text.Text
}

func TestListProducts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products", r.URL.Path)
		w.Write([]byte(`[{"name":"Laptop","quantity":15,"price":1200.5},{"name":"Broken","quantity":null,"price":2}]`))
	}))
	defer srv.Close()

	res, text := callTool(t, handleListProducts(srv.URL), nil)

	assert.False(t, res.IsError)
	assert.Contains(t, text, "2 products")
	assert.Contains(t, text, "Laptop  qty=15  price=1200.5")
	assert.Contains(t, text, "Broken  qty=NaN")
}

func TestListProducts_ForeignShapes(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantText string
	}{
		{"spanish keys", `[{"nombre":"Laptop","cantidad":15}]`, `1. {"nombre":"Laptop","cantidad":15}`},
		{"string quantity", `[{"name":"X","quantity":"15"}]`, `"quantity":"15"`},
		{"top-level object", `{"products":[]}`, `"products": []`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			res, text := callTool(t, handleListProducts(srv.URL), nil)

			assert.False(t, res.IsError)
			assert.Contains(t, text, tt.wantText)
		})
	}
}

func TestListProducts_CatalogMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"catalog file not found: x.json","message":"check the path","code":"NOT_FOUND"}`))
	}))
	defer srv.Close()

	res, text := callTool(t, handleListProducts(srv.URL), nil)

	assert.True(t, res.IsError)
	assert.Equal(t, "[NOT_FOUND] catalog file not found: x.json", text)
}

func TestVerifyTable(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantError bool
		wantText  string
	}{
		{"success", http.StatusOK, `{"run_id":"r1","url":"http://shop.test","status":"SUCCESS","message":"data matches expected dataset","extracted":[{"name":"Pen","quantity":3,"price":1.25}]}`, false, "Pen  qty=3  price=1.25"},
		{"mismatch", http.StatusBadRequest, `{"run_id":"r2","url":"http://shop.test","status":"FAILURE","kind":"MISMATCH","message":"data mismatch: expected 4 rows, extracted 5","extracted":[],"diff":"+ Webcam"}`, true, "Kind: MISMATCH"},
		{"missing url", http.StatusBadRequest, `{"error":"missing field 'url' in request body","message":"send {\"url\": ...}","code":"VALIDATION_ERROR"}`, true, "[VALIDATION_ERROR] missing field 'url'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/verify", r.URL.Path)
				var body map[string]string
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, "http://shop.test", body["url"])
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			res, text := callTool(t, handleVerifyTable(srv.URL), map[string]any{"url": "http://shop.test"})

			assert.Equal(t, tt.wantError, res.IsError)
			assert.Contains(t, text, tt.wantText)
		})
	}
}

func TestVerifyTable_RequiresURL(t *testing.T) {
	res, text := callTool(t, handleVerifyTable("http://127.0.0.1:0"), map[string]any{})

	assert.True(t, res.IsError)
	assert.Equal(t, "url is required", text)
}
