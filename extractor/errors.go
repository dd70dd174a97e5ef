package extractor

import "errors"

var (
	// ErrContentNotReady means the article container did not appear before the
	// wait timed out, usually because a CAPTCHA is still pending. Re-running
	// after solving it is expected to work.
	ErrContentNotReady = errors.New("article content not ready")

	// ErrContentMissing means the wait succeeded but the serialized page has no
	// article container, i.e. the page structure changed.
	ErrContentMissing = errors.New("article content not found after wait")
)
