package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// product mirrors one catalog entry served by the shelfcheck API.
type product struct {
	Name     string   `json:"name"`
	Quantity *float64 `json:"quantity"`
	Price    *float64 `json:"price"`
}

// verifyResponse mirrors the shelfcheck verification result.
type verifyResponse struct {
	RunID     string    `json:"run_id"`
	URL       string    `json:"url"`
	Status    string    `json:"status"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	Extracted []product `json:"extracted"`
	Diff      string    `json:"diff"`
	Timing    struct {
		TotalMs int64 `json:"total_ms"`
	} `json:"timing"`
}

// errorResponse mirrors the shelfcheck error body.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

func main() {
	apiURL := os.Getenv("SHELFCHECK_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:3000"
	}
	apiURL = strings.TrimRight(apiURL, "/")

	s := server.NewMCPServer(
		"shelfcheck",
		"0.1.0",
		server.WithToolCapabilities(false),
	)

	listProductsTool := mcp.NewTool("list_products",
		mcp.WithDescription("List the products in the shelfcheck catalog (name, quantity and price per item)."),
	)
	s.AddTool(listProductsTool, handleListProducts(apiURL))

	verifyTableTool := mcp.NewTool("verify_table",
		mcp.WithDescription("Open a product page in a headless browser, read its product table and report whether it matches the expected dataset."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The URL of the page rendering the product table"),
		),
	)
	s.AddTool(verifyTableTool, handleVerifyTable(apiURL))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

// apiDo sends a request to the shelfcheck API and returns status and body.
func apiDo(ctx context.Context, client *http.Client, method, url string, payload interface{}) (int, []byte, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, respBody, nil
}

// apiError renders an error body, falling back to the raw status.
func apiError(status int, body []byte) string {
	var e errorResponse
	if err := json.Unmarshal(body, &e); err == nil && e.Error != "" {
		if e.Code != "" {
			return fmt.Sprintf("[%s] %s", e.Code, e.Error)
		}
		return e.Error
	}
	return fmt.Sprintf("API returned status %d", status)
}

func handleListProducts(apiURL string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 30 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		status, body, err := apiDo(ctx, client, http.MethodGet, apiURL+"/api/products", nil)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if status != http.StatusOK {
			return mcp.NewToolResultError(apiError(status, body)), nil
		}

		var catalog []json.RawMessage
		if err := json.Unmarshal(body, &catalog); err != nil {
			// Not an array: show the document as served.
			return mcp.NewToolResultText(indentJSON(body)), nil
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "%d products\n\n", len(catalog))
		for i, item := range catalog {
			var p product
			if err := json.Unmarshal(item, &p); err != nil || p.Name == "" {
				fmt.Fprintf(&sb, "%d. %s\n", i+1, item)
				continue
			}
			fmt.Fprintf(&sb, "%d. %s  qty=%s  price=%s\n", i+1, p.Name, formatNumber(p.Quantity), formatNumber(p.Price))
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func handleVerifyTable(apiURL string) server.ToolHandlerFunc {
	// A run is bounded by the server's navigation and selector timeouts.
	client := &http.Client{Timeout: 120 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}

		status, body, err := apiDo(ctx, client, http.MethodPost, apiURL+"/api/verify", map[string]string{"url": url})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var res verifyResponse
		if err := json.Unmarshal(body, &res); err != nil || res.Status == "" {
			return mcp.NewToolResultError(apiError(status, body)), nil
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "Status: %s\n", res.Status)
		if res.Kind != "" {
			fmt.Fprintf(&sb, "Kind: %s\n", res.Kind)
		}
		fmt.Fprintf(&sb, "Message: %s\nURL: %s\nRun: %s (%d ms)\n", res.Message, res.URL, res.RunID, res.Timing.TotalMs)

		if len(res.Extracted) > 0 {
			sb.WriteString("\nExtracted rows:\n")
			for i, p := range res.Extracted {
				fmt.Fprintf(&sb, "%d. %s  qty=%s  price=%s\n", i+1, p.Name, formatNumber(p.Quantity), formatNumber(p.Price))
			}
		}
		if res.Diff != "" {
			fmt.Fprintf(&sb, "\nDiff (-expected +extracted):\n%s", res.Diff)
		}

		if res.Status != "SUCCESS" {
			return mcp.NewToolResultError(sb.String()), nil
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// indentJSON pretty-prints body, or returns it unchanged if it is not JSON.
func indentJSON(body []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		return string(body)
	}
	return buf.String()
}

// formatNumber prints an unparseable (null) value as NaN.
func formatNumber(f *float64) string {
	if f == nil {
		return "NaN"
	}
	return fmt.Sprintf("%g", *f)
}
