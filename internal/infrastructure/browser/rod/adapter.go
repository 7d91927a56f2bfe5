package rod

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"apply-autofill/internal/application/port/output"
	"apply-autofill/internal/domain/entity"
	"apply-autofill/internal/infrastructure/logger"
)

var _ output.BrowserPort = (*BrowserAdapter)(nil)

const (
	defaultTimeout    = 2 * time.Second
	defaultSlowMotion = 0
)

type BrowserAdapter struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	page     *rod.Page
	timeout  time.Duration
	logger   output.LoggerPort
	closed   bool
}

type BrowserConfig struct {
	Headless   bool
	SlowMotion time.Duration
	// Timeout bounds option lookups in open dropdown lists.
	Timeout   time.Duration
	NoSandbox bool
	DevTools  bool
	Trace     bool
	// Bin is an explicit browser binary; empty lets the launcher find or fetch one.
	Bin    string
	Logger output.LoggerPort
}

func DefaultConfig() BrowserConfig {
	return BrowserConfig{
		Headless:   false,
		SlowMotion: defaultSlowMotion,
		Timeout:    defaultTimeout,
		NoSandbox:  false,
		DevTools:   false,
	}
}

func NewBrowserAdapter(ctx context.Context, cfg BrowserConfig) (*BrowserAdapter, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.NewNop()
	}

	l := launcher.New().
		Headless(cfg.Headless).
		Devtools(cfg.DevTools).
		NoSandbox(cfg.NoSandbox).
		Delete("use-mock-keychain")
	if cfg.Bin != "" {
		l = l.Bin(cfg.Bin)
	}

	url, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().
		ControlURL(url).
		Trace(cfg.Trace).
		SlowMotion(cfg.SlowMotion)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = browser.Close()
		l.Kill()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	return &BrowserAdapter{
		browser:  browser,
		launcher: l,
		page:     page,
		timeout:  cfg.Timeout,
		logger:   cfg.Logger,
	}, nil
}

// element binds a rod element to the locator it was found by.
type element struct {
	el  *rod.Element
	loc entity.Locator
}

func (e *element) Locator() entity.Locator { return e.loc }

func unwrap(el output.Element) (*rod.Element, error) {
	e, ok := el.(*element)
	if !ok || e.el == nil {
		return nil, fmt.Errorf("foreign element handle %T", el)
	}
	return e.el, nil
}

func isXPath(loc entity.Locator) bool {
	s := string(loc)
	return strings.HasPrefix(s, "/") || strings.HasPrefix(s, "(")
}

func (b *BrowserAdapter) Navigate(ctx context.Context, url string) error {
	page := b.page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("wait load: %w", err)
	}
	_ = page.WaitIdle(5 * time.Second)
	return nil
}

// Exists checks the current DOM without waiting.
func (b *BrowserAdapter) Exists(ctx context.Context, loc entity.Locator) (bool, error) {
	has, _, err := b.has(b.page.Context(ctx), loc)
	return has, err
}

func (b *BrowserAdapter) has(page *rod.Page, loc entity.Locator) (bool, *rod.Element, error) {
	if isXPath(loc) {
		return page.HasX(string(loc))
	}
	return page.Has(string(loc))
}

func (b *BrowserAdapter) Locate(ctx context.Context, loc entity.Locator, opts output.LocateOptions) (output.Element, error) {
	page := b.page.Context(ctx)

	if !opts.Required {
		has, el, err := b.has(page, loc)
		if err != nil {
			return nil, fmt.Errorf("probe %s: %w", loc, err)
		}
		if !has {
			return nil, fmt.Errorf("%w: %s", entity.ErrElementNotFound, loc)
		}
		return &element{el: el, loc: loc}, nil
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = b.timeout
	}
	el, err := b.wait(page.Timeout(timeout), loc)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %s after %s: %v", entity.ErrElementNotFound, loc, timeout, err)
	}
	return &element{el: el.CancelTimeout(), loc: loc}, nil
}

func (b *BrowserAdapter) wait(page *rod.Page, loc entity.Locator) (*rod.Element, error) {
	if isXPath(loc) {
		return page.ElementX(string(loc))
	}
	return page.Element(string(loc))
}

func (b *BrowserAdapter) WaitFor(ctx context.Context, loc entity.Locator, timeout time.Duration) (bool, error) {
	_, err := b.wait(b.page.Context(ctx).Timeout(timeout), loc)
	if err == nil {
		return true, nil
	}
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return false, nil
	}
	return false, err
}

func (b *BrowserAdapter) IsEmpty(ctx context.Context, el output.Element) (bool, error) {
	e, err := unwrap(el)
	if err != nil {
		return false, err
	}
	val, err := e.Context(ctx).Property("value")
	if err != nil {
		return false, fmt.Errorf("read value: %w", err)
	}
	return strings.TrimSpace(val.Str()) == "", nil
}

// SetValue clears the field through JS, then types text so the page's input
// handlers fire.
func (b *BrowserAdapter) SetValue(ctx context.Context, el output.Element, text string) error {
	e, err := unwrap(el)
	if err != nil {
		return err
	}
	e = e.Context(ctx)
	if _, err := e.Eval(`() => { this.value = "" }`); err != nil {
		return fmt.Errorf("clear value: %w", err)
	}
	if err := e.Input(text); err != nil {
		return fmt.Errorf("input failed: %w", err)
	}
	return nil
}

func (b *BrowserAdapter) PressEnter(ctx context.Context, el output.Element) error {
	e, err := unwrap(el)
	if err != nil {
		return err
	}
	if err := e.Context(ctx).Type(input.Enter); err != nil {
		return fmt.Errorf("failed to press Enter: %w", err)
	}
	return nil
}

// Click dispatches a DOM click. Overlays on the form intercept real pointer
// events, so the mouse is not used.
func (b *BrowserAdapter) Click(ctx context.Context, el output.Element) error {
	e, err := unwrap(el)
	if err != nil {
		return err
	}
	if _, err := e.Context(ctx).Eval(`() => this.click()`); err != nil {
		return fmt.Errorf("click failed: %w", err)
	}
	return nil
}

func (b *BrowserAdapter) SelectFromOpenList(ctx context.Context, el output.Element, value string, matchBySubstring bool) (bool, error) {
	e, err := unwrap(el)
	if err != nil {
		return false, err
	}
	e = e.Context(ctx)

	if _, err := e.Eval(`() => this.click()`); err != nil {
		return false, fmt.Errorf("open list: %w", err)
	}
	if err := e.Input(value); err != nil {
		return false, fmt.Errorf("type filter: %w", err)
	}

	option := fmt.Sprintf(`//div[text()=%s]`, xpathLiteral(value))
	if matchBySubstring {
		option = fmt.Sprintf(`//div[contains(text(),%s)]`, xpathLiteral(value))
	}

	choice, err := b.page.Context(ctx).Timeout(b.timeout).ElementX(option)
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return false, nil
	}
	if _, err := choice.CancelTimeout().Eval(`() => this.click()`); err != nil {
		return false, fmt.Errorf("pick option %q: %w", value, err)
	}
	return true, nil
}

func (b *BrowserAdapter) Upload(ctx context.Context, el output.Element, filePath string) error {
	e, err := unwrap(el)
	if err != nil {
		return err
	}
	if err := e.Context(ctx).SetFiles([]string{filePath}); err != nil {
		return fmt.Errorf("set files: %w", err)
	}
	return nil
}

func (b *BrowserAdapter) DragAndDrop(ctx context.Context, src, dst output.Element) error {
	from, err := unwrap(src)
	if err != nil {
		return err
	}
	to, err := unwrap(dst)
	if err != nil {
		return err
	}

	mouse := b.page.Context(ctx).Mouse
	if err := from.Context(ctx).Hover(); err != nil {
		return fmt.Errorf("hover source: %w", err)
	}
	if err := mouse.Down(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("mouse down: %w", err)
	}
	if err := to.Context(ctx).Hover(); err != nil {
		_ = mouse.Up(proto.InputMouseButtonLeft, 1)
		return fmt.Errorf("hover target: %w", err)
	}
	if err := mouse.Up(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("mouse up: %w", err)
	}
	return nil
}

func (b *BrowserAdapter) CurrentURL() string {
	info, err := b.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

func (b *BrowserAdapter) Close() {
	if b.closed {
		return
	}
	b.closed = true
	if b.browser != nil {
		_ = b.browser.Close()
	}
	if b.launcher != nil {
		b.launcher.Kill()
		b.launcher.Cleanup()
	}
}

// xpathLiteral quotes s for use inside an XPath expression.
func xpathLiteral(s string) string {
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	if !strings.Contains(s, `'`) {
		return `'` + s + `'`
	}
	parts := strings.Split(s, `"`)
	quoted := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			quoted = append(quoted, `'"'`)
		}
		if p != "" {
			quoted = append(quoted, `"`+p+`"`)
		}
	}
	return "concat(" + strings.Join(quoted, ", ") + ")"
}
