// Package verifier loads a product page in a headless browser, reads its
// product table and checks it against an expected dataset.
package verifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/use-agent/shelfcheck/metrics"
	"github.com/use-agent/shelfcheck/models"
)

// Defaults applied by New to zero Config fields.
const (
	DefaultTableSelector     = "#tablaProductos tbody"
	DefaultNavigationTimeout = 30 * time.Second
	DefaultSelectorTimeout   = 10 * time.Second
)

// Config controls a Verifier.
type Config struct {
	// TableSelector locates the table body holding the product rows.
	TableSelector string

	// NavigationTimeout bounds navigation up to DOMContentLoaded.
	NavigationTimeout time.Duration

	// SelectorTimeout bounds the wait for TableSelector to appear, and
	// separately the row extraction that follows it.
	SelectorTimeout time.Duration

	// Expected is the ordered dataset the table must match.
	// Empty means DefaultExpected.
	Expected []models.Product
}

// Notifier receives every finished result. It must not block.
type Notifier func(res *models.VerificationResult)

// phase is the step a run is in; failures are attributed to it.
type phase string

const (
	phaseLaunching  phase = "LAUNCHING"
	phaseNavigating phase = "NAVIGATING"
	phaseWaiting    phase = "WAITING_FOR_TABLE"
	phaseExtracting phase = "EXTRACTING"
	phaseComparing  phase = "COMPARING"
)

// Verifier runs table verifications. It is safe for concurrent use; runs
// share nothing except the read-only expected dataset.
type Verifier struct {
	cfg      Config
	launcher Launcher
	metrics  *metrics.Metrics
	notify   Notifier
	active   atomic.Int32
}

// New creates a Verifier. m may be nil.
func New(cfg Config, launcher Launcher, m *metrics.Metrics) *Verifier {
	if cfg.TableSelector == "" {
		cfg.TableSelector = DefaultTableSelector
	}
	if cfg.NavigationTimeout <= 0 {
		cfg.NavigationTimeout = DefaultNavigationTimeout
	}
	if cfg.SelectorTimeout <= 0 {
		cfg.SelectorTimeout = DefaultSelectorTimeout
	}
	if len(cfg.Expected) == 0 {
		cfg.Expected = DefaultExpected()
	} else {
		cfg.Expected = models.CloneProducts(cfg.Expected)
	}

	return &Verifier{cfg: cfg, launcher: launcher, metrics: m}
}

// SetNotifier registers fn to be called with every finished result.
// Call it before the Verifier is shared.
func (v *Verifier) SetNotifier(fn Notifier) {
	v.notify = fn
}

// Expected returns a copy of the expected dataset.
func (v *Verifier) Expected() []models.Product {
	return models.CloneProducts(v.cfg.Expected)
}

// Active returns the number of runs currently in flight.
func (v *Verifier) Active() int {
	return int(v.active.Load())
}

// Verify loads url, extracts the product table and compares it with the
// expected dataset.
//
// It never returns an error: launch, navigation, wait and extraction
// failures all become a FAILURE result whose Kind names the cause and
// whose Message embeds the underlying error. The browser session is closed
// on every path. There is exactly one attempt.
func (v *Verifier) Verify(ctx context.Context, url string) *models.VerificationResult {
	start := time.Now()
	res := &models.VerificationResult{
		RunID:     uuid.NewString(),
		URL:       url,
		Extracted: []models.Product{},
	}

	v.active.Add(1)
	v.metrics.IncActive()
	defer func() {
		v.active.Add(-1)
		v.metrics.DecActive()

		res.Timing.TotalMs = time.Since(start).Milliseconds()
		v.metrics.ObserveVerification(string(res.Status), string(res.Kind), time.Since(start))
		slog.Info("verification finished",
			"run_id", res.RunID,
			"url", url,
			"status", res.Status,
			"kind", res.Kind,
			"rows", len(res.Extracted),
			"total_ms", res.Timing.TotalMs,
		)
		if v.notify != nil {
			v.notify(res)
		}
	}()

	products, failedIn, err := v.run(ctx, url, &res.Timing)
	if err != nil {
		v.fail(res, failedIn, err)
		return res
	}

	v.judge(res, products)
	return res
}

// run drives the browser through launch, navigation, wait and extraction.
// On error it also returns the phase that failed.
func (v *Verifier) run(ctx context.Context, url string, timing *models.VerifyTiming) (products []models.Product, current phase, err error) {
	current = phaseLaunching
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	t := time.Now()
	session, err := v.launcher.Launch(ctx)
	timing.LaunchMs = time.Since(t).Milliseconds()
	if err != nil {
		return nil, current, err
	}
	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			slog.Warn("failed to close browser session", "url", url, "error", closeErr)
		}
	}()

	// ── Navigate ─────────────────────────────────────────────────────
	current = phaseNavigating
	t = time.Now()
	navCtx, cancel := context.WithTimeout(ctx, v.cfg.NavigationTimeout)
	err = session.Navigate(navCtx, url)
	cancel()
	timing.NavigationMs = time.Since(t).Milliseconds()
	if err != nil {
		return nil, current, fmt.Errorf("navigate to %s: %w", url, err)
	}

	// ── Wait for the table region ────────────────────────────────────
	current = phaseWaiting
	t = time.Now()
	waitCtx, cancel := context.WithTimeout(ctx, v.cfg.SelectorTimeout)
	err = session.WaitFor(waitCtx, v.cfg.TableSelector)
	cancel()
	timing.WaitMs = time.Since(t).Milliseconds()
	if err != nil {
		return nil, current, fmt.Errorf("wait for %q: %w", v.cfg.TableSelector, err)
	}

	// ── Extract ──────────────────────────────────────────────────────
	current = phaseExtracting
	t = time.Now()
	extractCtx, cancel := context.WithTimeout(ctx, v.cfg.SelectorTimeout)
	rows, err := session.Rows(extractCtx, v.cfg.TableSelector)
	cancel()
	timing.ExtractMs = time.Since(t).Milliseconds()
	if err != nil {
		return nil, current, fmt.Errorf("extract rows from %q: %w", v.cfg.TableSelector, err)
	}

	return ParseRows(rows), phaseComparing, nil
}

// fail fills res for a run that stopped in phase p.
func (v *Verifier) fail(res *models.VerificationResult, p phase, err error) {
	res.Status = models.StatusFailure
	res.Kind = failureKind(p, err)
	res.Message = "automation error: " + err.Error()

	slog.Warn("verification aborted",
		"run_id", res.RunID,
		"url", res.URL,
		"phase", p,
		"kind", res.Kind,
		"error", err,
	)
}

// judge assigns the verdict for a run that extracted products.
func (v *Verifier) judge(res *models.VerificationResult, products []models.Product) {
	res.Extracted = products
	v.metrics.AddRows(len(products))

	switch {
	case len(products) == 0:
		res.Status = models.StatusFailure
		res.Kind = models.KindEmpty
		res.Message = "no data found in table"
	case Equal(products, v.cfg.Expected):
		res.Status = models.StatusSuccess
		res.Message = "data matches expected dataset"
	default:
		res.Status = models.StatusFailure
		res.Kind = models.KindMismatch
		res.Message = "data mismatch"
		if len(products) != len(v.cfg.Expected) {
			res.Message = fmt.Sprintf("data mismatch: expected %d rows, extracted %d",
				len(v.cfg.Expected), len(products))
		}
		res.Expected = v.Expected()
		res.Diff = Diff(products, v.cfg.Expected)
	}
}

// failureKind maps the failing phase and error to a FailureKind.
func failureKind(p phase, err error) models.FailureKind {
	timedOut := errors.Is(err, context.DeadlineExceeded)

	switch p {
	case phaseLaunching:
		return models.KindLaunchFailure
	case phaseNavigating:
		if timedOut {
			return models.KindNavigationTimeout
		}
		return models.KindNavigationFailure
	case phaseWaiting:
		if timedOut {
			return models.KindSelectorTimeout
		}
		return models.KindExtractionFailure
	default:
		return models.KindExtractionFailure
	}
}
