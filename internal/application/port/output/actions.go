package output

import (
	"context"
	"time"

	"apply-autofill/internal/domain/entity"
)

// Element is an opaque handle to a located on-page element.
type Element interface {
	Locator() entity.Locator
}

type LocateOptions struct {
	// Required makes the adapter wait up to Timeout before giving up.
	// Non-required lookups fail fast.
	Required bool
	Timeout  time.Duration
}

// PageProbe answers "does an element matching this description exist right now".
// Absence is a normal negative result, not an error.
type PageProbe interface {
	Exists(ctx context.Context, loc entity.Locator) (bool, error)
}

// ActionPort is the capability set the executor drives the live page through.
// Calls are synchronous; there is never more than one in flight.
type ActionPort interface {
	PageProbe

	// Locate returns entity.ErrElementNotFound (possibly wrapped) when nothing matches.
	Locate(ctx context.Context, loc entity.Locator, opts LocateOptions) (Element, error)
	IsEmpty(ctx context.Context, el Element) (bool, error)
	SetValue(ctx context.Context, el Element, text string) error
	PressEnter(ctx context.Context, el Element) error
	Click(ctx context.Context, el Element) error
	SelectFromOpenList(ctx context.Context, el Element, value string, matchBySubstring bool) (bool, error)
	Upload(ctx context.Context, el Element, filePath string) error
	DragAndDrop(ctx context.Context, src, dst Element) error

	// WaitFor blocks until loc exists or timeout elapses.
	WaitFor(ctx context.Context, loc entity.Locator, timeout time.Duration) (bool, error)
	CurrentURL() string
}

// BrowserPort owns the browser session lifetime.
type BrowserPort interface {
	ActionPort
	SnapshotPort

	Navigate(ctx context.Context, url string) error
	Close()
}

type SnapshotPort interface {
	Snapshot(ctx context.Context) (*entity.PageSnapshot, error)
}
