// Package lineedit reads one line of user input per prompt.
package lineedit

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/peterh/liner"
)

// Reader prompts for and returns one line of input. At end of input it
// returns io.EOF.
type Reader interface {
	ReadLine(prompt string) (string, error)
	Close() error
}

// Terminal is an interactive Reader with in-session input history.
type Terminal struct {
	state *liner.State
}

// NewTerminal takes over the controlling terminal until Close.
func NewTerminal() *Terminal {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	return &Terminal{state: state}
}

// ReadLine prompts and reads a line. Ctrl-C abandons the current line and
// yields an empty one.
func (t *Terminal) ReadLine(prompt string) (string, error) {
	line, err := t.state.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(line) != "" {
		t.state.AppendHistory(line)
	}
	return line, nil
}

// Close restores the terminal.
func (t *Terminal) Close() error {
	return t.state.Close()
}

// Plain reads lines from any reader, writing the prompt to w.
type Plain struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPlain creates a Reader over r.
func NewPlain(r io.Reader, w io.Writer) *Plain {
	return &Plain{in: bufio.NewReader(r), out: w}
}

// ReadLine writes prompt and reads up to the next newline. A final line
// without a newline is returned before io.EOF.
func (p *Plain) ReadLine(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	line, err := p.in.ReadString('\n')
	if err == io.EOF && line != "" {
		return line, nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r"), nil
}

// Close is a no-op.
func (p *Plain) Close() error {
	return nil
}
