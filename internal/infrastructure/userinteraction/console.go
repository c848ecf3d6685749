package userinteraction

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"search-agent/internal/application/port/output"
	"search-agent/internal/domain/entity"

	"github.com/fatih/color"
)

var (
	_ output.OutcomePresenter = (*Console)(nil)
	_ output.StepObserver     = (*Console)(nil)
)

type Console struct {
	out io.Writer
}

func NewConsole() *Console {
	return NewConsoleWriter(color.Output)
}

func NewConsoleWriter(out io.Writer) *Console {
	return &Console{out: out}
}

// ReadQuery joins args into a query, falling back to the first line of r.
func ReadQuery(args []string, r io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if r == nil {
		r = os.Stdin
	}

	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read query: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func (c *Console) ShowProcessing(ctx context.Context, query string) {
	cyan := color.New(color.FgCyan, color.Bold)
	cyan.Fprintln(c.out, "\nProcessing Your Query...")

	dim := color.New(color.Faint)
	dim.Fprintf(c.out, "   %s\n", truncate(query, 120))
}

func (c *Console) ShowToolStart(ctx context.Context, toolName, input string) {
	yellow := color.New(color.FgYellow, color.Bold)
	yellow.Fprintf(c.out, "\n🔎 %s\n", toolName)

	dim := color.New(color.Faint)
	dim.Fprintf(c.out, "   Query: %s\n", truncate(strings.TrimSpace(input), 80))
}

func (c *Console) ShowToolResult(ctx context.Context, result string, isError bool) {
	if isError {
		red := color.New(color.FgRed)
		red.Fprint(c.out, "❌ Search failed: ")

		dim := color.New(color.Faint)
		dim.Fprintln(c.out, truncate(result, 300))
		return
	}

	green := color.New(color.FgGreen)
	green.Fprintf(c.out, "✓ %s\n", summarizeResult(result))
}

func (c *Console) ShowOutcome(ctx context.Context, outcome entity.Outcome) {
	switch outcome.Kind {
	case entity.OutcomeSuccess:
		green := color.New(color.FgGreen, color.Bold)
		green.Fprintln(c.out, "\nResponse:")
		fmt.Fprintln(c.out, outcome.Text)
	case entity.OutcomeRejected:
		yellow := color.New(color.FgYellow)
		yellow.Fprintf(c.out, "⚠ %s\n", outcome.UserMessage())
		return
	default:
		red := color.New(color.FgRed, color.Bold)
		red.Fprintf(c.out, "\n%s\n", outcome.UserMessage())
	}

	dim := color.New(color.Faint)
	dim.Fprintf(c.out, "   attempts: %d, elapsed: %s\n", outcome.Attempts, outcome.Elapsed.Round(10*time.Millisecond))
}

func summarizeResult(result string) string {
	lines := strings.Split(strings.TrimSpace(result), "\n")
	if len(lines) == 0 || lines[0] == "" {
		return "empty result"
	}

	count := 0
	for _, line := range lines {
		if len(line) > 0 && line[0] >= '0' && line[0] <= '9' {
			count++
		}
	}
	if count > 0 {
		return fmt.Sprintf("%d result(s), first: %s", count, truncate(lines[0], 100))
	}
	return truncate(lines[0], 100)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	for maxLen > 0 && !utf8.RuneStart(s[maxLen]) {
		maxLen--
	}
	return s[:maxLen] + "..."
}
