package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Skip is returned by Choose when the user declines every option.
const Skip = -1

// ErrTooManyRetries is returned when the user keeps entering invalid input.
var ErrTooManyRetries = errors.New("too many invalid responses")

const maxPromptRetries = 5

// Prompter asks the user to resolve decisions on the terminal.
type Prompter struct {
	writer io.Writer
	reader *NonBlockingReader
}

// NewPrompter creates a prompter reading from reader and writing to writer.
func NewPrompter(reader io.Reader, writer io.Writer) *Prompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}
	return &Prompter{reader: NewNonBlockingReader(reader), writer: writer}
}

// Choose shows details in a box followed by numbered options and returns
// the zero-based choice, or Skip when the user answers "s" or nothing.
func (p *Prompter) Choose(ctx context.Context, title, details string, options []string) (int, error) {
	if _, err := fmt.Fprintln(p.writer, RenderBox(title, details)); err != nil {
		return Skip, fmt.Errorf("failed to write prompt: %w", err)
	}
	for i, opt := range options {
		if _, err := fmt.Fprintf(p.writer, "  [%d] %s\n", i+1, opt); err != nil {
			return Skip, fmt.Errorf("failed to write option: %w", err)
		}
	}
	if _, err := fmt.Fprintln(p.writer, SubtleStyle.Render("  [S] Skip")); err != nil {
		return Skip, fmt.Errorf("failed to write option: %w", err)
	}

	for attempt := 0; attempt < maxPromptRetries; attempt++ {
		if _, err := fmt.Fprint(p.writer, FormatPrompt("Choice")); err != nil {
			return Skip, fmt.Errorf("failed to write prompt: %w", err)
		}

		line, err := p.reader.ReadLine(ctx)
		if err != nil {
			return Skip, err
		}

		answer := strings.ToLower(line)
		if answer == "" || answer == "s" {
			return Skip, nil
		}
		if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(options) {
			return n - 1, nil
		}

		if _, err := fmt.Fprintln(p.writer, FormatError(fmt.Sprintf("Enter a number from 1 to %d, or S to skip", len(options)))); err != nil {
			return Skip, fmt.Errorf("failed to write error: %w", err)
		}
	}
	return Skip, ErrTooManyRetries
}

// Confirm asks a yes/no question. An empty answer selects def.
func (p *Prompter) Confirm(ctx context.Context, question string, def bool) (bool, error) {
	hint := "[y/N]"
	if def {
		hint = "[Y/n]"
	}

	for attempt := 0; attempt < maxPromptRetries; attempt++ {
		if _, err := fmt.Fprint(p.writer, FormatPrompt(question+" "+hint)); err != nil {
			return false, fmt.Errorf("failed to write prompt: %w", err)
		}

		line, err := p.reader.ReadLine(ctx)
		if err != nil {
			return false, err
		}

		switch strings.ToLower(line) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
	}
	return false, ErrTooManyRetries
}
