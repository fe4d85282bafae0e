package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/term"
)

// Test seams for the terminal.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// Prompter reads answers from the user. Passwords are read without echo when
// input is a terminal and as plain lines otherwise, so commands can be
// scripted.
type Prompter struct {
	in  *bufio.Reader
	fd  int
	out io.Writer
}

// NewPrompter reads lines from in. fd is the terminal descriptor behind in.
func NewPrompter(in io.Reader, fd int, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), fd: fd, out: out}
}

// Line prints prompt and reads one line.
func (p *Prompter) Line(prompt string) (string, error) {
	if isTerminal(p.fd) {
		fmt.Fprint(p.out, prompt+": ")
	}
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(prompt), err)
	}
	return strings.TrimSpace(line), nil
}

// Secret prints prompt and reads a value without echo.
func (p *Prompter) Secret(prompt string) (string, error) {
	if !isTerminal(p.fd) {
		line, err := p.in.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && len(line) > 0) {
			return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(prompt), err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fmt.Fprint(p.out, prompt+": ")
	value, err := readPassword(p.fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(prompt), err)
	}
	return string(value), nil
}
