package verifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/use-agent/shelfcheck/config"
	"github.com/ysmood/gson"
)

// rowsJS collects the innerText of every cell of every row below the region.
const rowsJS = `(selector) => {
	const region = document.querySelector(selector);
	if (!region) return [];
	return Array.from(region.querySelectorAll('tr')).map(
		(tr) => Array.from(tr.querySelectorAll('td')).map((td) => td.innerText)
	);
}`

// RodLauncher starts a dedicated Chrome process per Session.
// Nothing is pooled: every verification gets its own browser.
type RodLauncher struct {
	cfg config.BrowserConfig
}

// NewRodLauncher creates a RodLauncher from the browser settings.
func NewRodLauncher(cfg config.BrowserConfig) *RodLauncher {
	return &RodLauncher{cfg: cfg}
}

// Launch starts Chrome, connects over CDP and opens one blank tab.
// On any failure everything started so far is torn down again.
func (l *RodLauncher) Launch(ctx context.Context) (Session, error) {
	ln := launcher.New().
		Headless(l.cfg.Headless).
		NoSandbox(l.cfg.NoSandbox)

	if l.cfg.BrowserBin != "" {
		ln = ln.Bin(l.cfg.BrowserBin)
	}
	if l.cfg.Proxy != "" {
		ln = ln.Proxy(l.cfg.Proxy)
	}
	ln.Set(flags.Flag("disable-dev-shm-usage"))
	ln.Set(flags.Flag("disable-extensions"))
	ln.Set(flags.Flag("no-first-run"))

	controlURL, err := ln.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	slog.Debug("browser launched", "controlURL", controlURL)

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		ln.Kill()
		ln.Cleanup()
		return nil, fmt.Errorf("connect to browser: %w", err)
	}
	// Detach the launch context so Close still works after ctx expires.
	browser = browser.Context(context.Background())

	var page *rod.Page
	if l.cfg.Stealth {
		page, err = stealth.Page(browser)
	} else {
		page, err = browser.Page(proto.TargetCreateTarget{})
	}
	if err != nil {
		_ = browser.Close()
		ln.Kill()
		ln.Cleanup()
		return nil, fmt.Errorf("open tab: %w", err)
	}

	return &rodSession{
		launcher: ln,
		browser:  browser,
		page:     page,
		router:   setupHijack(page, l.cfg.BlockedResourceTypes),
	}, nil
}

type rodSession struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	router   *rod.HijackRouter
}

func (s *rodSession) Navigate(ctx context.Context, url string) error {
	p := s.page.Context(ctx)

	// The lifecycle listener must exist before Navigate or the event is missed.
	wait := p.WaitNavigation(proto.PageLifecycleEventNameDOMContentLoaded)
	if err := p.Navigate(url); err != nil {
		return err
	}
	wait()

	// wait() returns silently when ctx ends first.
	return ctx.Err()
}

func (s *rodSession) WaitFor(ctx context.Context, selector string) error {
	_, err := s.page.Context(ctx).Element(selector)
	return err
}

func (s *rodSession) Rows(ctx context.Context, selector string) ([][]string, error) {
	res, err := s.page.Context(ctx).Eval(rowsJS, selector)
	if err != nil {
		return nil, err
	}
	return rowsFromJSON(res.Value), nil
}

func (s *rodSession) Close() error {
	var errs []error
	if s.router != nil {
		if err := s.router.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop hijack router: %w", err))
		}
	}
	if err := s.browser.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close browser: %w", err))
		s.launcher.Kill()
	}
	s.launcher.Cleanup()
	return errors.Join(errs...)
}

// rowsFromJSON converts the rowsJS result into string cells.
func rowsFromJSON(v gson.JSON) [][]string {
	raw := v.Arr()
	rows := make([][]string, 0, len(raw))
	for _, r := range raw {
		cells := r.Arr()
		row := make([]string, 0, len(cells))
		for _, c := range cells {
			row = append(row, c.Str())
		}
		rows = append(rows, row)
	}
	return rows
}
