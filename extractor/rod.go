package extractor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// RodConfig holds browser launch settings.
type RodConfig struct {
	// Bin is the Chrome/Chromium binary; empty lets rod locate or download one.
	Bin string
	// ControlURL attaches to an already running browser instead of launching.
	ControlURL string
}

// RodRenderer drives a headful Chromium through the DevTools protocol.
type RodRenderer struct {
	cfg RodConfig
}

func NewRodRenderer(cfg RodConfig) *RodRenderer {
	return &RodRenderer{cfg: cfg}
}

// Open launches (or attaches to) a visible browser and creates a blank page.
func (r *RodRenderer) Open(_ context.Context) (Page, error) {
	var l *launcher.Launcher
	controlURL := r.cfg.ControlURL
	if controlURL == "" {
		// 必须有界面：人工处理验证码依赖可见窗口。
		l = launcher.New().Headless(false)
		if r.cfg.Bin != "" {
			l = l.Bin(r.cfg.Bin)
		}
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("launch chrome: %w", err)
		}
		controlURL = u
	}

	// 浏览器本身不绑定 ctx，保证取消后仍能正常关闭。
	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		if l != nil {
			l.Kill()
		}
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = browser.Close()
		if l != nil {
			l.Cleanup()
		}
		return nil, fmt.Errorf("create page: %w", err)
	}
	return &rodPage{page: page, browser: browser, launcher: l}, nil
}

type rodPage struct {
	page     *rod.Page
	browser  *rod.Browser
	launcher *launcher.Launcher
}

func (p *rodPage) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	page := p.page.Context(ctx).Timeout(timeout)
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("wait load %s: %w", url, err)
	}
	return nil
}

func (p *rodPage) WaitForSelector(ctx context.Context, selector string, timeout time.Duration) error {
	_, err := p.page.Context(ctx).Timeout(timeout).Element(selector)
	return err
}

func (p *rodPage) HTML(ctx context.Context) (string, error) {
	return p.page.Context(ctx).HTML()
}

func (p *rodPage) Close() error {
	var errs []error
	if err := p.page.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close page: %w", err))
	}
	if p.launcher != nil {
		// 只关闭自己启动的浏览器。
		if err := p.browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close browser: %w", err))
			p.launcher.Kill()
		}
		p.launcher.Cleanup()
	}
	return errors.Join(errs...)
}
