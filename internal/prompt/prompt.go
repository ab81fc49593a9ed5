// Package prompt implements the line-based terminal UI: reading labels and
// lengths, pausing for a key press and clearing the screen.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/forest6511/passkeep/internal/cli"
	"github.com/forest6511/passkeep/pkg/passgen"
	"github.com/forest6511/passkeep/pkg/vault"
)

const clearSequence = "\033[H\033[2J"

// Generator produces a password of the requested length.
type Generator interface {
	Generate(length int) (string, error)
}

// Prompter reads answers from in and writes questions to out.
type Prompter struct {
	in    *bufio.Reader
	out   io.Writer
	inFd  int
	outFd int
}

// New creates a Prompter. Raw-mode pausing and screen clearing are only
// used when in and out are terminals.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		in:    bufio.NewReader(in),
		out:   out,
		inFd:  terminalFd(in),
		outFd: terminalFd(out),
	}
}

// terminalFd returns the descriptor of v if it is a terminal, else -1.
func terminalFd(v any) int {
	f, ok := v.(*os.File)
	if !ok {
		return -1
	}
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return -1
	}
	return fd
}

// Println writes a line to the output.
func (p *Prompter) Println(a ...any) {
	fmt.Fprintln(p.out, a...)
}

// Printf writes formatted text to the output.
func (p *Prompter) Printf(format string, a ...any) {
	fmt.Fprintf(p.out, format, a...)
}

// ReadLine prints question and returns the next input line, trimmed.
// io.EOF is returned only when the input ended before any text.
func (p *Prompter) ReadLine(question string) (string, error) {
	if question != "" {
		fmt.Fprintln(p.out, question)
	}
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", io.EOF
		}
		return "", fmt.Errorf("prompt: failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// ReadRequired asks question until a non-empty answer is given.
func (p *Prompter) ReadRequired(question string) (string, error) {
	for {
		answer, err := p.ReadLine(question)
		if err != nil {
			return "", err
		}
		if answer != "" {
			return answer, nil
		}
		fmt.Fprintln(p.out, "A value is required.")
	}
}

// ReadLength asks for a password length until a valid one is entered.
func (p *Prompter) ReadLength() (int, error) {
	for {
		answer, err := p.ReadLine(fmt.Sprintf("How long do you want your password to be?\nEnter a number between %d and %d:\n",
			passgen.MinLength, passgen.MaxLength))
		if err != nil {
			return 0, err
		}

		n, err := passgen.ParseLength(answer)
		switch {
		case err == nil:
			return n, nil
		case errors.Is(err, passgen.ErrLengthOutOfRange):
			fmt.Fprintf(p.out, "Password must be between %d and %d characters.\n", passgen.MinLength, passgen.MaxLength)
		default:
			fmt.Fprintln(p.out, "Please enter a valid integer.")
		}
	}
}

// CollectEntry gathers the label, the username and a length, in that order,
// then generates the password and builds the entry in one step.
func (p *Prompter) CollectEntry(gen Generator) (vault.Entry, error) {
	label, err := p.ReadRequired("Enter the name of the site or application:\n")
	if err != nil {
		return vault.Entry{}, err
	}
	p.Clear()

	username, err := p.ReadLine("Enter your username for the site or application:\n")
	if err != nil {
		return vault.Entry{}, err
	}
	p.Clear()

	length, err := p.ReadLength()
	if err != nil {
		return vault.Entry{}, err
	}
	p.Clear()

	password, err := gen.Generate(length)
	if err != nil {
		return vault.Entry{}, err
	}

	return vault.NewEntry(cli.NormalizeLabel(label), username, password), nil
}

// Pause waits for a key press. On a terminal a single key is enough; other
// inputs need a full line.
func (p *Prompter) Pause() error {
	fmt.Fprint(p.out, "Press any key to continue...\r\n")

	if p.inFd < 0 {
		_, err := p.ReadLine("")
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}

	state, err := term.MakeRaw(p.inFd)
	if err != nil {
		return fmt.Errorf("prompt: failed to enter raw mode: %w", err)
	}
	defer term.Restore(p.inFd, state)

	if _, err := p.in.ReadByte(); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("prompt: failed to read key: %w", err)
	}
	return nil
}

// Clear wipes the screen when the output is a terminal.
func (p *Prompter) Clear() {
	if p.outFd < 0 {
		return
	}
	fmt.Fprint(p.out, clearSequence)
}
