package session

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"
)

// Prompter asks the user for one line of input.
// It returns io.EOF when no more input is available.
type Prompter interface {
	Prompt(label string) (string, error)
}

// LinePrompter reads answers line by line from a reader, printing each
// label to out first. It suits pipes, scripts and tests.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLinePrompter creates a LinePrompter.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out}
}

// Prompt prints label and returns the next line without its terminator.
func (p *LinePrompter) Prompt(label string) (string, error) {
	if _, err := fmt.Fprint(p.out, label); err != nil {
		return "", err
	}

	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// FormPrompter asks each question with a huh input form. It needs a terminal.
type FormPrompter struct {
	accessible bool
}

// NewFormPrompter creates a FormPrompter. Accessible mode replaces the
// TUI with plain prompts for screen readers.
func NewFormPrompter(accessible bool) *FormPrompter {
	return &FormPrompter{accessible: accessible}
}

// Prompt shows a single-field form titled label. Aborting the form with
// ctrl+c ends input.
func (p *FormPrompter) Prompt(label string) (string, error) {
	var value string
	input := huh.NewInput().
		Title(strings.TrimRight(label, ": ")).
		Value(&value)

	form := huh.NewForm(huh.NewGroup(input)).
		WithShowHelp(false).
		WithAccessible(p.accessible)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", io.EOF
		}
		return "", err
	}
	return value, nil
}
