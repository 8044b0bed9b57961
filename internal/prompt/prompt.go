// Package prompt reads interactive answers from standard input.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"

	"github.com/freema/fgit/internal/apperror"
)

const (
	colorCyan  = "\033[36m"
	colorDim   = "\033[2m"
	colorReset = "\033[0m"
)

type line struct {
	text string
	err  error
}

// Prompter asks questions on out and reads answers line by line from in.
// A read blocks until a full line arrives, the input ends, or the context
// is cancelled. Between calls no read is pending on in, so a child process
// started after a prompt owns the terminal's input.
type Prompter struct {
	in    io.Reader
	out   io.Writer
	color bool

	mu      sync.Mutex
	reader  *bufio.Reader
	pending chan line
}

// New creates a Prompter. Colour is enabled only when out is a terminal.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: in, out: out, color: isTerminal(out)}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// next returns the channel of the in-flight read, starting one if none is
// pending. A read abandoned by a cancelled context is picked up by the next call.
func (p *Prompter) next() chan line {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pending != nil {
		return p.pending
	}
	if p.reader == nil {
		p.reader = bufio.NewReader(p.in)
	}
	ch := make(chan line, 1)
	p.pending = ch
	go func() {
		text, err := p.reader.ReadString('\n')
		if text != "" {
			// a final unterminated line still counts
			err = nil
		}
		ch <- line{text: strings.TrimRight(text, "\r\n"), err: err}
	}()
	return ch
}

func (p *Prompter) done() {
	p.mu.Lock()
	p.pending = nil
	p.mu.Unlock()
}

// ReadLine returns the next input line without its line terminator.
// End of input yields io.EOF; cancellation yields an aborted error.
func (p *Prompter) ReadLine(ctx context.Context) (string, error) {
	select {
	case l := <-p.next():
		p.done()
		if errors.Is(l.err, io.EOF) {
			return "", io.EOF
		}
		if l.err != nil {
			return "", fmt.Errorf("reading input: %w", l.err)
		}
		return l.text, nil
	case <-ctx.Done():
		return "", apperror.Aborted("Aborting...")
	}
}

// Ask prints question and returns the answer line.
func (p *Prompter) Ask(ctx context.Context, question string) (string, error) {
	p.printQuestion(question, "")
	return p.ReadLine(ctx)
}

// Confirm prints question followed by hint (e.g. "(y/N)") and reports whether
// the answer is "y" or "yes", case-insensitively. End of input counts as no.
func (p *Prompter) Confirm(ctx context.Context, question, hint string) (bool, error) {
	p.printQuestion(question, hint)
	answer, err := p.ReadLine(ctx)
	if errors.Is(err, io.EOF) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func (p *Prompter) printQuestion(question, hint string) {
	if !p.color {
		if hint != "" {
			fmt.Fprintf(p.out, "%s %s ", question, hint)
			return
		}
		fmt.Fprintf(p.out, "%s\n", question)
		return
	}
	if hint != "" {
		fmt.Fprintf(p.out, "%s?%s %s %s%s%s ", colorCyan, colorReset, question, colorDim, hint, colorReset)
		return
	}
	fmt.Fprintf(p.out, "%s?%s %s\n", colorCyan, colorReset, question)
}
