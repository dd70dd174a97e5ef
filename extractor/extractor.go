package extractor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const defaultTimeout = 60 * time.Second

// Config controls one extraction.
type Config struct {
	Selector          string
	NavigationTimeout time.Duration
	SelectorTimeout   time.Duration
}

// Extractor renders a page, waits for the article container and returns its text.
type Extractor struct {
	renderer Renderer
	cfg      Config
	logger   *zap.Logger
}

func New(renderer Renderer, cfg Config, logger *zap.Logger) (*Extractor, error) {
	if renderer == nil {
		return nil, errors.New("renderer is required")
	}
	if cfg.Selector == "" {
		cfg.Selector = DefaultSelector
	}
	if cfg.NavigationTimeout <= 0 {
		cfg.NavigationTimeout = defaultTimeout
	}
	if cfg.SelectorTimeout <= 0 {
		cfg.SelectorTimeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{renderer: renderer, cfg: cfg, logger: logger}, nil
}

// Extract loads url and returns its article.
//
// A selector wait that fails is ErrContentNotReady: the person at the browser
// may still be solving a CAPTCHA. Cancellation of ctx is returned as is. A
// container that is absent after a successful wait is ErrContentMissing. The
// page is closed on every path.
func (e *Extractor) Extract(ctx context.Context, url string) (art Article, err error) {
	page, err := e.renderer.Open(ctx)
	if err != nil {
		return Article{}, fmt.Errorf("open browser: %w", err)
	}
	defer func() {
		if cerr := page.Close(); cerr != nil {
			e.logger.Warn("close browser page", zap.Error(cerr))
		}
	}()

	e.logger.Info("opening page; solve the CAPTCHA manually if prompted",
		zap.String("url", url),
		zap.Duration("selector_timeout", e.cfg.SelectorTimeout))
	if err := page.Navigate(ctx, url, e.cfg.NavigationTimeout); err != nil {
		return Article{}, err
	}

	if err := page.WaitForSelector(ctx, e.cfg.Selector, e.cfg.SelectorTimeout); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Article{}, fmt.Errorf("wait for %q: %w", e.cfg.Selector, ctxErr)
		}
		e.logger.Warn("article container did not appear",
			zap.String("selector", e.cfg.Selector), zap.Error(err))
		return Article{}, fmt.Errorf("%w: waited %s for %q: %v", ErrContentNotReady, e.cfg.SelectorTimeout, e.cfg.Selector, err)
	}

	raw, err := page.HTML(ctx)
	if err != nil {
		return Article{}, fmt.Errorf("serialize page: %w", err)
	}

	art, err = ParseArticle(raw, e.cfg.Selector)
	if err != nil {
		return Article{}, err
	}
	art.URL = url
	e.logger.Info("article extracted",
		zap.String("title", art.Title),
		zap.Int("body_len", len(art.Body)))
	return art, nil
}
