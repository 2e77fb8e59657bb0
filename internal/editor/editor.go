// Package editor hands a note body to an external editor and reads back the
// result.
package editor

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/treykane/norganisers/internal/logging"
)

var log = logging.New("editor")

// ErrNoCommand is returned when the editor command line is blank.
var ErrNoCommand = errors.New("no editor command configured")

// FinishedMsg reports the end of an editing session for NoteID. Text holds
// the edited body and is only meaningful when Err is nil.
type FinishedMsg struct {
	NoteID int
	Text   string
	Err    error
}

// External runs a terminal editor on a temporary file.
type External struct {
	command []string
	tempDir string
}

// NewExternal parses a command line such as "nvim" or "code --wait".
func NewExternal(commandLine string) (*External, error) {
	fields := strings.Fields(commandLine)
	if len(fields) == 0 {
		return nil, ErrNoCommand
	}
	return &External{command: fields}, nil
}

// Command returns the editor command line.
func (e *External) Command() string {
	return strings.Join(e.command, " ")
}

// Edit suspends the program, runs the editor on text and delivers a
// FinishedMsg when it exits.
func (e *External) Edit(noteID int, text string) tea.Cmd {
	path, cmd, err := e.prepare(text)
	if err != nil {
		return func() tea.Msg { return FinishedMsg{NoteID: noteID, Err: err} }
	}
	log.Debug("launching editor", "command", e.Command(), "note", noteID, "path", path)
	return tea.ExecProcess(cmd, func(runErr error) tea.Msg {
		edited, err := collect(path, runErr)
		return FinishedMsg{NoteID: noteID, Text: edited, Err: err}
	})
}

// prepare writes text to a temp file and builds the editor command for it.
func (e *External) prepare(text string) (string, *exec.Cmd, error) {
	if len(e.command) == 0 {
		return "", nil, ErrNoCommand
	}
	tmp, err := os.CreateTemp(e.tempDir, "norganisers-*.md")
	if err != nil {
		return "", nil, fmt.Errorf("create temp file: %w", err)
	}
	path := tmp.Name()
	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		os.Remove(path)
		return "", nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(path)
		return "", nil, fmt.Errorf("write temp file: %w", err)
	}

	args := append(append([]string{}, e.command[1:]...), path)
	return path, exec.Command(e.command[0], args...), nil
}

// collect reads the edited file unless the editor failed, then removes it.
func collect(path string, runErr error) (string, error) {
	defer os.Remove(path)
	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			return "", fmt.Errorf("editor exited with status %d", exitErr.ExitCode())
		}
		return "", fmt.Errorf("run editor: %w", runErr)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read edited note: %w", err)
	}
	return string(data), nil
}
