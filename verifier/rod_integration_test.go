//go:build integration

package verifier_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/use-agent/shelfcheck/config"
	"github.com/use-agent/shelfcheck/models"
	"github.com/use-agent/shelfcheck/verifier"
)

// productPage renders rows into #tablaProductos after a short client-side delay.
func productPage(rows string, delay time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, `<!doctype html><html><body>
<div id="app"></div>
<script>
setTimeout(() => {
	document.getElementById('app').innerHTML =
		'<table id="tablaProductos"><thead><tr><th>Producto</th><th>Cantidad</th><th>Precio</th></tr></thead>' +
		'<tbody>%s</tbody></table>';
}, %d);
</script>
</body></html>`, rows, delay.Milliseconds())
	}
}

const expectedRowsHTML = `<tr><td>Laptop</td><td>15</td><td>$1,200.50</td></tr>` +
	`<tr><td>Mouse</td><td>50</td><td>$15.99</td></tr>` +
	`<tr><td>Monitor 27\"</td><td>10</td><td>$350.00</td></tr>` +
	`<tr><td>Teclado Mecánico</td><td>25</td><td>$75.25</td></tr>`

func newRodVerifier(selectorTimeout time.Duration) *verifier.Verifier {
	launcher := verifier.NewRodLauncher(config.BrowserConfig{
		Headless:             true,
		NoSandbox:            true,
		BlockedResourceTypes: []string{"Image", "Font", "Media"},
	})
	return verifier.New(verifier.Config{SelectorTimeout: selectorTimeout}, launcher, nil)
}

func TestRodVerify_Success_Integration(t *testing.T) {
	ts := httptest.NewServer(productPage(expectedRowsHTML, 300*time.Millisecond))
	defer ts.Close()

	res := newRodVerifier(10*time.Second).Verify(context.Background(), ts.URL)

	require.Equal(t, models.StatusSuccess, res.Status, res.Message)
	require.Len(t, res.Extracted, 4)
}

func TestRodVerify_Mismatch_Integration(t *testing.T) {
	rows := expectedRowsHTML + `<tr><td>Webcam</td><td>5</td><td>$40.00</td></tr>`
	ts := httptest.NewServer(productPage(rows, 0))
	defer ts.Close()

	res := newRodVerifier(10*time.Second).Verify(context.Background(), ts.URL)

	require.Equal(t, models.KindMismatch, res.Kind, res.Message)
	require.Equal(t, verifier.DefaultExpected(), res.Expected)
}

func TestRodVerify_TableNeverRenders_Integration(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "<html><body><h1>Loading…</h1></body></html>")
	}))
	defer ts.Close()

	res := newRodVerifier(time.Second).Verify(context.Background(), ts.URL)

	require.Equal(t, models.KindSelectorTimeout, res.Kind, res.Message)
	require.Contains(t, res.Message, "deadline exceeded")
}
