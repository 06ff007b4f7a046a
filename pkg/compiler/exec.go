package compiler

import (
	"bufio"
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"src.wkbench.dev/pkg/logutil"
)

var logger = logutil.GetLogger("[compiler] ")

// Exec is a Compiler that runs an external command, such as javac. The
// command is run in the source root with Args followed by the files, and its
// combined output is parsed for diagnostics.
type Exec struct {
	// Name of the compiler; defaults to the base name of Command.
	ID      string
	Command string
	Args    []string
}

// NewExec returns an Exec compiler for a command.
func NewExec(command string, args ...string) *Exec {
	return &Exec{Command: command, Args: args}
}

func (c *Exec) Name() string {
	if c.ID != "" {
		return c.ID
	}
	return filepath.Base(c.Command)
}

func (c *Exec) Available() bool {
	_, err := exec.LookPath(c.Command)
	return err == nil
}

func (c *Exec) Compile(ctx context.Context, root string, files []string) (Result, error) {
	args := append(append([]string(nil), c.Args...), files...)
	cmd := exec.CommandContext(ctx, c.Command, args...)
	cmd.Dir = root
	logger.Printf("running %s %q in %s", c.Command, args, root)
	out, err := cmd.CombinedOutput()

	result := ParseOutput(string(out))
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, err
		}
		logger.Printf("%s exited with %d", c.Command, exitErr.ExitCode())
		if result.Errors() == 0 {
			msg := strings.TrimSpace(string(out))
			if msg == "" {
				msg = err.Error()
			}
			result = append(result, Error{Line: -1, Column: -1, Message: msg})
		}
	}
	return result, nil
}

// Matches "file:line: message" and "file:line:column: message", where the
// message may start with "error: " or "warning: ".
var diagLine = regexp.MustCompile(`^(.+?):(\d+):(?:(\d+):)?\s*(?:(error|warning):\s*)?(.*)$`)

// ParseOutput extracts diagnostics from compiler output. Lines that do not
// start with a location, such as source excerpts and summaries, are skipped.
func ParseOutput(out string) Result {
	var result Result
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		m := diagLine.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		line, _ := strconv.Atoi(m[2])
		column := -1
		if m[3] != "" {
			column, _ = strconv.Atoi(m[3])
		}
		result = append(result, Error{
			File:    m[1],
			Line:    line,
			Column:  column,
			Message: m[5],
			Warning: m[4] == "warning",
		})
	}
	return result
}
