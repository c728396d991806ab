package ui

import (
	"fmt"
	"io"
	"strings"
)

// Mock implements IO for tests: scripted inputs, captured output.
type Mock struct {
	inputs     []string
	inputIndex int
	confirms   map[string]bool // prompt substring to answer

	Output strings.Builder
}

// NewMock creates a mock console that replays the given input lines.
func NewMock(inputs ...string) *Mock {
	return &Mock{
		inputs:   inputs,
		confirms: make(map[string]bool),
	}
}

// SetConfirmResponse sets the answer for prompts containing the substring.
func (m *Mock) SetConfirmResponse(promptSubstring string, answer bool) {
	m.confirms[promptSubstring] = answer
}

// Print captures values to the output buffer.
func (m *Mock) Print(a ...any) {
	fmt.Fprint(&m.Output, a...)
}

// Println captures values with a trailing newline.
func (m *Mock) Println(a ...any) {
	fmt.Fprintln(&m.Output, a...)
}

// Printf captures a formatted string.
func (m *Mock) Printf(format string, a ...any) {
	fmt.Fprintf(&m.Output, format, a...)
}

// Scan advances to the next scripted input line.
func (m *Mock) Scan() bool {
	if m.inputIndex >= len(m.inputs) {
		return false
	}
	m.inputIndex++
	return true
}

// Text returns the current scripted input line.
func (m *Mock) Text() string {
	if m.inputIndex-1 < 0 || m.inputIndex-1 >= len(m.inputs) {
		return ""
	}
	return m.inputs[m.inputIndex-1]
}

// Confirm answers from the scripted responses. Unscripted prompts fail
// rather than silently defaulting.
func (m *Mock) Confirm(prompt string) (bool, error) {
	m.Print(prompt + " [y/n]: ")
	for substring, answer := range m.confirms {
		if strings.Contains(prompt, substring) {
			if answer {
				m.Println("y")
				return true, nil
			}
			m.Println("n")
			return false, nil
		}
	}
	return false, io.EOF
}

// Stream captures streamed content.
func (m *Mock) Stream(content string) {
	m.Print(content)
}
