// Package fakepage provides an in-memory page that implements the browser
// ports. Tests describe which locators are present, what values fields hold
// and how clicks change the page.
package fakepage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"apply-autofill/internal/application/port/output"
	"apply-autofill/internal/domain/entity"
)

var _ output.BrowserPort = (*Page)(nil)

type Call struct {
	Op      string
	Locator entity.Locator
	Value   string
}

type element struct {
	loc entity.Locator
}

func (e *element) Locator() entity.Locator { return e.loc }

type Page struct {
	URL string

	// NoScreenshot makes Snapshot return the DOM only.
	NoScreenshot bool

	present   map[entity.Locator]bool
	values    map[entity.Locator]string
	options   map[entity.Locator][]string
	onClick   map[entity.Locator]func(p *Page)
	failOps   map[string]error
	probeErrs map[entity.Locator]error

	Calls     []Call
	Uploads   map[entity.Locator]string
	Drops     [][2]entity.Locator
	Snapshots int
	Closed    bool
}

func New(locs ...entity.Locator) *Page {
	p := &Page{
		URL:       "https://jobs.example.test/apply",
		present:   make(map[entity.Locator]bool),
		values:    make(map[entity.Locator]string),
		options:   make(map[entity.Locator][]string),
		onClick:   make(map[entity.Locator]func(p *Page)),
		failOps:   make(map[string]error),
		probeErrs: make(map[entity.Locator]error),
		Uploads:   make(map[entity.Locator]string),
	}
	p.Show(locs...)
	return p
}

func (p *Page) Show(locs ...entity.Locator) *Page {
	for _, l := range locs {
		p.present[l] = true
	}
	return p
}

func (p *Page) Hide(locs ...entity.Locator) *Page {
	for _, l := range locs {
		delete(p.present, l)
	}
	return p
}

// Replace hides every present locator and shows locs instead.
func (p *Page) Replace(locs ...entity.Locator) *Page {
	p.present = make(map[entity.Locator]bool)
	return p.Show(locs...)
}

func (p *Page) Has(loc entity.Locator) bool {
	return p.present[loc]
}

func (p *Page) WithValue(loc entity.Locator, value string) *Page {
	p.present[loc] = true
	p.values[loc] = value
	return p
}

func (p *Page) Value(loc entity.Locator) string {
	return p.values[loc]
}

func (p *Page) WithOptions(loc entity.Locator, opts ...string) *Page {
	p.present[loc] = true
	p.options[loc] = opts
	return p
}

func (p *Page) OnClick(loc entity.Locator, fn func(p *Page)) *Page {
	p.onClick[loc] = fn
	return p
}

// FailOp makes every call of op ("click", "set_value", ...) return err.
func (p *Page) FailOp(op string, err error) *Page {
	p.failOps[op] = err
	return p
}

func (p *Page) FailProbe(loc entity.Locator, err error) *Page {
	p.probeErrs[loc] = err
	return p
}

// CallsOf returns the recorded calls for op in order.
func (p *Page) CallsOf(op string) []Call {
	var out []Call
	for _, c := range p.Calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

func (p *Page) record(op string, loc entity.Locator, value string) error {
	p.Calls = append(p.Calls, Call{Op: op, Locator: loc, Value: value})
	return p.failOps[op]
}

func (p *Page) Exists(ctx context.Context, loc entity.Locator) (bool, error) {
	if err := p.record("exists", loc, ""); err != nil {
		return false, err
	}
	if err := p.probeErrs[loc]; err != nil {
		return false, err
	}
	return p.present[loc], nil
}

func (p *Page) Locate(ctx context.Context, loc entity.Locator, opts output.LocateOptions) (output.Element, error) {
	if err := p.record("locate", loc, ""); err != nil {
		return nil, err
	}
	if !p.present[loc] {
		return nil, fmt.Errorf("%w: %s", entity.ErrElementNotFound, loc)
	}
	return &element{loc: loc}, nil
}

func (p *Page) IsEmpty(ctx context.Context, el output.Element) (bool, error) {
	if err := p.record("is_empty", el.Locator(), ""); err != nil {
		return false, err
	}
	return strings.TrimSpace(p.values[el.Locator()]) == "", nil
}

func (p *Page) SetValue(ctx context.Context, el output.Element, text string) error {
	if err := p.record("set_value", el.Locator(), text); err != nil {
		return err
	}
	p.values[el.Locator()] = text
	return nil
}

func (p *Page) PressEnter(ctx context.Context, el output.Element) error {
	return p.record("press_enter", el.Locator(), "")
}

func (p *Page) Click(ctx context.Context, el output.Element) error {
	if err := p.record("click", el.Locator(), ""); err != nil {
		return err
	}
	if fn, ok := p.onClick[el.Locator()]; ok {
		fn(p)
	}
	return nil
}

func (p *Page) SelectFromOpenList(ctx context.Context, el output.Element, value string, matchBySubstring bool) (bool, error) {
	if err := p.record("select", el.Locator(), value); err != nil {
		return false, err
	}
	for _, opt := range p.options[el.Locator()] {
		if opt == value || (matchBySubstring && strings.Contains(opt, value)) {
			p.values[el.Locator()] = opt
			return true, nil
		}
	}
	return false, nil
}

func (p *Page) Upload(ctx context.Context, el output.Element, filePath string) error {
	if err := p.record("upload", el.Locator(), filePath); err != nil {
		return err
	}
	p.Uploads[el.Locator()] = filePath
	return nil
}

func (p *Page) DragAndDrop(ctx context.Context, src, dst output.Element) error {
	if err := p.record("drag_drop", src.Locator(), string(dst.Locator())); err != nil {
		return err
	}
	p.Drops = append(p.Drops, [2]entity.Locator{src.Locator(), dst.Locator()})
	return nil
}

func (p *Page) WaitFor(ctx context.Context, loc entity.Locator, timeout time.Duration) (bool, error) {
	if err := p.record("wait_for", loc, ""); err != nil {
		return false, err
	}
	return p.present[loc], nil
}

func (p *Page) CurrentURL() string {
	return p.URL
}

func (p *Page) Navigate(ctx context.Context, url string) error {
	if err := p.record("navigate", entity.Locator(url), ""); err != nil {
		return err
	}
	p.URL = url
	return nil
}

func (p *Page) Snapshot(ctx context.Context) (*entity.PageSnapshot, error) {
	if err := p.record("snapshot", "", ""); err != nil {
		return nil, err
	}
	p.Snapshots++
	snap := &entity.PageSnapshot{URL: p.URL, HTML: "<body></body>"}
	if !p.NoScreenshot {
		snap.Screenshot = &entity.Screenshot{Data: []byte("jpeg"), Format: "jpeg", Width: 1, Height: 1}
	}
	return snap, nil
}

func (p *Page) Close() {
	p.Closed = true
}
