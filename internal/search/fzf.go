package search

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// fzf exits with status 1 when nothing matched.
const fzfNoMatchExitCode = 1

// FZF matches terms by piping candidate lines through `fzf --filter`.
type FZF struct {
	path string
}

// NewFZF locates the fzf binary on PATH.
func NewFZF() (*FZF, error) {
	path, err := exec.LookPath("fzf")
	if err != nil {
		return nil, fmt.Errorf("%w: fzf not found on PATH", ErrNoMatcher)
	}
	return &FZF{path: path}, nil
}

func (f *FZF) Match(ctx context.Context, term string, candidates []Candidate) (IDSet, error) {
	var stdin bytes.Buffer
	for _, c := range candidates {
		line := c.Line()
		if strings.TrimSpace(line) == "" {
			continue
		}
		stdin.WriteString(line)
		stdin.WriteByte('\n')
	}

	cmd := exec.CommandContext(ctx, f.path, "--filter", term)
	cmd.Stdin = &stdin
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == fzfNoMatchExitCode {
			return IDSet{}, nil
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("fzf: %w: %s", err, msg)
		}
		return nil, fmt.Errorf("fzf: %w", err)
	}
	log.Debug("fzf matched", "term", term, "output", stdout.Len())
	return parseIDLines(stdout.Bytes()), nil
}

// parseIDLines reads the "<id>:" prefix of every line, skipping lines that
// do not carry one.
func parseIDLines(out []byte) IDSet {
	ids := IDSet{}
	scanner := bufio.NewScanner(bytes.NewReader(out))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		prefix, _, ok := strings.Cut(scanner.Text(), ":")
		if !ok {
			continue
		}
		id, err := strconv.Atoi(strings.TrimSpace(prefix))
		if err != nil {
			continue
		}
		ids[id] = struct{}{}
	}
	return ids
}
