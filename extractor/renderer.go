package extractor

import (
	"context"
	"time"
)

// Renderer opens a browser page. Implementations must show a visible window
// so a person can solve a CAPTCHA while the extractor waits.
type Renderer interface {
	Open(ctx context.Context) (Page, error)
}

// Page is a single rendered document. Close releases the page and anything
// the renderer started for it.
type Page interface {
	Navigate(ctx context.Context, url string, timeout time.Duration) error
	WaitForSelector(ctx context.Context, selector string, timeout time.Duration) error
	HTML(ctx context.Context) (string, error)
	Close() error
}
