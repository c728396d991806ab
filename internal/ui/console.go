// Package ui provides the console abstraction for the interactive loop:
// line input, output, confirmation prompts, and the startup banner.
package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// IO is the console surface the interactive loop talks to. Console
// implements it over real standard streams; Mock implements it for tests.
type IO interface {
	Print(a ...any)
	Println(a ...any)
	Printf(format string, a ...any)
	Scan() bool
	Text() string
	Confirm(prompt string) (bool, error)
	Stream(content string)
}

// Console implements IO over an input reader and an output writer.
type Console struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewConsole creates a console. Nil arguments default to os.Stdin and
// os.Stdout.
func NewConsole(in io.Reader, out io.Writer) *Console {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	scanner := bufio.NewScanner(in)
	// Pasted prompts can be long; the default 64KB token limit is too small.
	scanner.Buffer(make([]byte, 0, 64*1024), 2*1024*1024)
	return &Console{scanner: scanner, out: out}
}

// Print writes values to the output.
func (c *Console) Print(a ...any) {
	_, _ = fmt.Fprint(c.out, a...)
}

// Println writes values followed by a newline.
func (c *Console) Println(a ...any) {
	_, _ = fmt.Fprintln(c.out, a...)
}

// Printf writes a formatted string.
func (c *Console) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(c.out, format, a...)
}

// Scan advances to the next input line. It returns false at EOF.
func (c *Console) Scan() bool {
	return c.scanner.Scan()
}

// Text returns the current input line.
func (c *Console) Text() string {
	return c.scanner.Text()
}

// Confirm asks a yes/no question and reads answers until one parses.
// EOF before a valid answer returns io.EOF.
func (c *Console) Confirm(prompt string) (bool, error) {
	for {
		c.Print(prompt + " [y/n]: ")
		if !c.Scan() {
			if err := c.scanner.Err(); err != nil {
				return false, err
			}
			return false, io.EOF
		}
		switch strings.ToLower(strings.TrimSpace(c.Text())) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		c.Println("Please answer y or n.")
	}
}

// Stream writes a chunk of streamed content as is.
func (c *Console) Stream(content string) {
	c.Print(content)
}
