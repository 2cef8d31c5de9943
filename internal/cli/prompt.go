package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// StdinPrompter asks questions on stdout and reads answers from stdin. An
// invalid answer is never accepted silently; the prompt is re-issued until
// a valid one arrives.
type StdinPrompter struct {
	reader *bufio.Reader
}

// NewStdinPrompter creates a prompter over os.Stdin.
func NewStdinPrompter() *StdinPrompter {
	return &StdinPrompter{reader: bufio.NewReader(os.Stdin)}
}

// Confirm asks a yes/no question.
func (p *StdinPrompter) Confirm(question string) bool {
	for {
		fmt.Printf("%s [y/n]: ", question)
		line, err := p.reader.ReadString('\n')
		if err != nil {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		case "n", "no":
			return false
		}
		fmt.Println("Please answer y or n.")
	}
}

// Select asks the user to pick one of the numbered options and returns its
// index.
func (p *StdinPrompter) Select(question string, options []string) int {
	fmt.Println(question)
	for i, opt := range options {
		fmt.Printf("  %d: %s\n", i+1, opt)
	}
	for {
		fmt.Printf("Select (1-%d): ", len(options))
		line, err := p.reader.ReadString('\n')
		if err != nil {
			return 0
		}
		choice, err := strconv.Atoi(strings.TrimSpace(line))
		if err == nil && choice >= 1 && choice <= len(options) {
			return choice - 1
		}
		fmt.Println("Invalid selection.")
	}
}

// Say prints a guidance message on stdout.
func (p *StdinPrompter) Say(message string) {
	fmt.Println(message)
}

// Input asks for a free-form line and returns it trimmed.
func (p *StdinPrompter) Input(question string) string {
	fmt.Printf("%s: ", question)
	line, err := p.reader.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}
