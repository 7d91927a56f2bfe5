package userinteraction

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"

	"apply-autofill/internal/application/port/output"
	"apply-autofill/internal/domain/entity"
)

var _ output.OperatorPort = (*ConsoleOperator)(nil)

var ErrInputClosed = errors.New("operator input closed")

// ConsoleOperator asks the person at the terminal what to do on escalation.
type ConsoleOperator struct {
	in  io.Reader
	out io.Writer

	once  sync.Once
	lines chan string
}

func NewConsoleOperator() *ConsoleOperator {
	return NewConsoleOperatorWithIO(os.Stdin, color.Output)
}

func NewConsoleOperatorWithIO(in io.Reader, out io.Writer) *ConsoleOperator {
	return &ConsoleOperator{in: in, out: out}
}

func (c *ConsoleOperator) RequestDecision(ctx context.Context, esc entity.Escalation) (entity.Decision, error) {
	red := color.New(color.FgRed, color.Bold)
	dim := color.New(color.Faint)

	red.Fprintf(c.out, "\n[MANUAL INTERVENTION REQUIRED] %s\n", esc.Message())
	if esc.URL != "" {
		dim.Fprintf(c.out, "   URL: %s\n", esc.URL)
	}
	for _, path := range esc.Artifacts {
		dim.Fprintf(c.out, "   saved: %s\n", path)
	}

	for {
		fmt.Fprint(c.out, "Fix the page in the browser, then choose:\n  1) resume\n  2) force submit (Save and Continue)\n  3) abort\n> ")

		line, err := c.readLine(ctx)
		if err != nil {
			return 0, err
		}
		d, err := entity.ParseDecision(line)
		if err != nil {
			color.New(color.FgYellow).Fprintf(c.out, "%v, enter 1, 2 or 3\n", err)
			continue
		}
		color.New(color.FgGreen).Fprintf(c.out, "✓ %s\n", d)
		return d, nil
	}
}

func (c *ConsoleOperator) ShowAttempt(ctx context.Context, attempt, maxAttempts int, kind entity.PageKind) {
	cyan := color.New(color.FgCyan, color.Bold)
	cyan.Fprintf(c.out, "\n━━━ Attempt %d/%d: %s ━━━\n", attempt, maxAttempts, kind)
}

func (c *ConsoleOperator) ShowPhase(ctx context.Context, plan, phase string, remaining int) {
	yellow := color.New(color.FgYellow)
	yellow.Fprintf(c.out, "▶ %s/%s", plan, phase)
	if remaining > 0 {
		color.New(color.Faint).Fprintf(c.out, " (%d instructions)", remaining)
	}
	fmt.Fprintln(c.out)
}

// readLine waits for the next input line or ctx. A single reader goroutine
// feeds every call so no line is lost when a wait is cancelled.
func (c *ConsoleOperator) readLine(ctx context.Context) (string, error) {
	c.once.Do(func() {
		c.lines = make(chan string)
		go func() {
			defer close(c.lines)
			scanner := bufio.NewScanner(c.in)
			for scanner.Scan() {
				c.lines <- strings.TrimSpace(scanner.Text())
			}
		}()
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-c.lines:
		if !ok {
			return "", ErrInputClosed
		}
		return line, nil
	}
}
