package query

import (
	"bufio"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// ProcessChannel runs the configured solver binary and exchanges
// commands over its stdin/stdout, one command and one response per
// exchange. Responses are read until their parentheses balance, so
// multi-line model output arrives as one response.
type ProcessChannel struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser
	out   *bufio.Reader
}

// StartProcess launches the solver described by the configuration.
func StartProcess(cfg *Config) (*ProcessChannel, error) {
	cmd := exec.Command(cfg.Solver.Path, cfg.Solver.Args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("query: stdin pipe for %s: %w", cfg.Solver.Name, err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("query: stdout pipe for %s: %w", cfg.Solver.Name, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("query: starting %s (%s): %w", cfg.Solver.Name, cfg.Solver.Path, err)
	}
	return &ProcessChannel{
		cmd:   cmd,
		stdin: stdin,
		out:   bufio.NewReader(stdout),
	}, nil
}

// Ask writes one command line and blocks for its response.
func (p *ProcessChannel) Ask(command string) (string, error) {
	if _, err := io.WriteString(p.stdin, command+"\n"); err != nil {
		return "", fmt.Errorf("query: writing command: %w", err)
	}
	return p.readResponse()
}

// readResponse collects lines until parentheses balance. Atom
// responses like "success" or "sat" are a single line. Parentheses
// inside double-quoted segments do not count toward the balance, so an
// error message like (error "unexpected (") frames as one response.
func (p *ProcessChannel) readResponse() (string, error) {
	var lines []string
	depth := 0
	inQuote := false
	for {
		line, err := p.out.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("query: reading response: %w", err)
		}
		line = strings.TrimRight(line, "\r\n")
		lines = append(lines, line)
		depth, inQuote = parenDepth(line, depth, inQuote)
		if depth <= 0 && !inQuote {
			return strings.Join(lines, "\n"), nil
		}
	}
}

// parenDepth folds one line into the running paren balance, carrying
// the in-quote flag across lines for string literals that span them.
func parenDepth(line string, depth int, inQuote bool) (int, bool) {
	for _, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
		case inQuote:
		case r == '(':
			depth++
		case r == ')':
			depth--
		}
	}
	return depth, inQuote
}

// Close shuts the solver's stdin and waits for the process to exit.
func (p *ProcessChannel) Close() error {
	if err := p.stdin.Close(); err != nil {
		p.cmd.Process.Kill()
		return fmt.Errorf("query: closing solver stdin: %w", err)
	}
	if err := p.cmd.Wait(); err != nil {
		return fmt.Errorf("query: waiting for solver exit: %w", err)
	}
	return nil
}
