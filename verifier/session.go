package verifier

import "context"

// Session is one owned headless-browser tab. Every method honours ctx; a
// Session is used by a single verification run and closed exactly once.
type Session interface {
	// Navigate loads url and returns once the document's DOMContentLoaded
	// event fired. It does not wait for images or other subresources.
	Navigate(ctx context.Context, url string) error

	// WaitFor blocks until an element matching selector exists.
	WaitFor(ctx context.Context, selector string) error

	// Rows returns the rendered text of every td of every tr under the
	// element matching selector, one slice per row, in document order.
	Rows(ctx context.Context, selector string) ([][]string, error)

	// Close releases the tab and the browser process behind it.
	Close() error
}

// Launcher starts a fresh, isolated Session.
type Launcher interface {
	Launch(ctx context.Context) (Session, error)
}

// LauncherFunc adapts a plain function to the Launcher interface.
type LauncherFunc func(ctx context.Context) (Session, error)

func (f LauncherFunc) Launch(ctx context.Context) (Session, error) { return f(ctx) }
