package entity

import (
	"fmt"
	"strings"
)

// Locator is a structural description of an on-page element. The core never
// interprets it; the action adapter does (XPath when it starts with "/").
type Locator string

func (l Locator) String() string {
	return string(l)
}

type ActionKind string

const (
	ActionFill         ActionKind = "FILL"
	ActionClick        ActionKind = "CLICK"
	ActionDropdownFill ActionKind = "DROPDOWN_FILL"
	ActionUpload       ActionKind = "UPLOAD"
	ActionDragDrop     ActionKind = "DRAG_DROP"
)

func (k ActionKind) String() string {
	return string(k)
}

// Options are the behavioral flags of an instruction. Each is independently optional.
type Options struct {
	Required       bool
	OnlyIfEmpty    bool
	PressEnter     bool
	ValueIsPattern bool
}

type Option func(*Options)

func Required() Option       { return func(o *Options) { o.Required = true } }
func OnlyIfEmpty() Option    { return func(o *Options) { o.OnlyIfEmpty = true } }
func PressEnter() Option     { return func(o *Options) { o.PressEnter = true } }
func ValueIsPattern() Option { return func(o *Options) { o.ValueIsPattern = true } }

func buildOptions(opts []Option) Options {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o Options) String() string {
	var flags []string
	if o.Required {
		flags = append(flags, "required")
	}
	if o.OnlyIfEmpty {
		flags = append(flags, "only_if_empty")
	}
	if o.PressEnter {
		flags = append(flags, "press_enter")
	}
	if o.ValueIsPattern {
		flags = append(flags, "value_is_pattern")
	}
	return "{" + strings.Join(flags, ",") + "}"
}

// Instruction is one declarative UI action. The set of implementations is
// closed: Fill, Click, DropdownFill, Upload and DragDrop. Values are immutable
// once constructed.
type Instruction interface {
	Kind() ActionKind
	Options() Options
	String() string

	instruction()
}

var (
	_ Instruction = Fill{}
	_ Instruction = Click{}
	_ Instruction = DropdownFill{}
	_ Instruction = Upload{}
	_ Instruction = DragDrop{}
)

type Fill struct {
	target Locator
	value  string
	opts   Options
}

func NewFill(target Locator, value string, opts ...Option) Fill {
	return Fill{target: target, value: value, opts: buildOptions(opts)}
}

func (f Fill) Target() Locator  { return f.target }
func (f Fill) Value() string    { return f.value }
func (f Fill) Kind() ActionKind { return ActionFill }
func (f Fill) Options() Options { return f.opts }
func (Fill) instruction()       {}
func (f Fill) String() string {
	return fmt.Sprintf("%s %s <- %q %s", f.Kind(), f.target, f.value, f.opts)
}

type Click struct {
	target Locator
	opts   Options
}

func NewClick(target Locator, opts ...Option) Click {
	return Click{target: target, opts: buildOptions(opts)}
}

func (c Click) Target() Locator  { return c.target }
func (c Click) Kind() ActionKind { return ActionClick }
func (c Click) Options() Options { return c.opts }
func (Click) instruction()       {}
func (c Click) String() string {
	return fmt.Sprintf("%s %s %s", c.Kind(), c.target, c.opts)
}

type DropdownFill struct {
	target Locator
	value  string
	opts   Options
}

func NewDropdownFill(target Locator, value string, opts ...Option) DropdownFill {
	return DropdownFill{target: target, value: value, opts: buildOptions(opts)}
}

func (d DropdownFill) Target() Locator  { return d.target }
func (d DropdownFill) Value() string    { return d.value }
func (d DropdownFill) Kind() ActionKind { return ActionDropdownFill }
func (d DropdownFill) Options() Options { return d.opts }
func (DropdownFill) instruction()       {}
func (d DropdownFill) String() string {
	return fmt.Sprintf("%s %s <- %q %s", d.Kind(), d.target, d.value, d.opts)
}

type Upload struct {
	target Locator
	path   string
	opts   Options
}

func NewUpload(target Locator, path string, opts ...Option) Upload {
	return Upload{target: target, path: path, opts: buildOptions(opts)}
}

func (u Upload) Target() Locator  { return u.target }
func (u Upload) Path() string     { return u.path }
func (u Upload) Kind() ActionKind { return ActionUpload }
func (u Upload) Options() Options { return u.opts }
func (Upload) instruction()       {}
func (u Upload) String() string {
	return fmt.Sprintf("%s %s <- %s %s", u.Kind(), u.target, u.path, u.opts)
}

type DragDrop struct {
	source Locator
	target Locator
	opts   Options
}

func NewDragDrop(source, target Locator, opts ...Option) DragDrop {
	return DragDrop{source: source, target: target, opts: buildOptions(opts)}
}

func (d DragDrop) Source() Locator  { return d.source }
func (d DragDrop) Target() Locator  { return d.target }
func (d DragDrop) Kind() ActionKind { return ActionDragDrop }
func (d DragDrop) Options() Options { return d.opts }
func (DragDrop) instruction()       {}
func (d DragDrop) String() string {
	return fmt.Sprintf("%s %s -> %s %s", d.Kind(), d.source, d.target, d.opts)
}

// Queue is an ordered list of instructions consumed by one executor call.
type Queue []Instruction

func (q Queue) Len() int {
	return len(q)
}
