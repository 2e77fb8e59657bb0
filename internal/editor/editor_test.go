package editor

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func newTestEditor(t *testing.T, commandLine string) *External {
	t.Helper()
	e, err := NewExternal(commandLine)
	if err != nil {
		t.Fatalf("new editor: %v", err)
	}
	e.tempDir = t.TempDir()
	return e
}

func TestNewExternalRejectsBlankCommand(t *testing.T) {
	if _, err := NewExternal("   "); !errors.Is(err, ErrNoCommand) {
		t.Fatalf("expected ErrNoCommand, got %v", err)
	}
}

func TestPrepareWritesTextAndAppendsPath(t *testing.T) {
	e := newTestEditor(t, "code --wait")
	path, cmd, err := e.prepare("hello")
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	defer os.Remove(path)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read temp file: %v", err)
	}
	if string(data) != "hello" {
		t.Fatalf("expected temp file to hold text, got %q", data)
	}
	if got := cmd.Args; len(got) != 3 || got[1] != "--wait" || got[2] != path {
		t.Fatalf("unexpected args %v", got)
	}
	if filepath.Dir(path) != e.tempDir {
		t.Fatalf("expected temp file in %q, got %q", e.tempDir, path)
	}
}

func TestCollectReturnsEditedTextAndRemovesFile(t *testing.T) {
	e := newTestEditor(t, "true")
	path, cmd, err := e.prepare("before")
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if err := os.WriteFile(path, []byte("after"), 0o600); err != nil {
		t.Fatalf("simulate edit: %v", err)
	}

	got, err := collect(path, cmd.Run())
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if got != "after" {
		t.Fatalf("expected edited text, got %q", got)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected temp file to be removed, got %v", err)
	}
}

func TestCollectReportsNonZeroExit(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	path := filepath.Join(t.TempDir(), "note.md")
	if err := os.WriteFile(path, []byte("body"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err := collect(path, exec.Command("sh", "-c", "exit 3").Run())
	if err == nil || !strings.Contains(err.Error(), "status 3") {
		t.Fatalf("expected exit status error, got %v", err)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Fatalf("expected temp file to be removed, got %v", statErr)
	}
}

func TestPreparedCommandReturnsEditorOutput(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	script := filepath.Join(t.TempDir(), "fake-editor.sh")
	body := "#!/bin/sh\nprintf 'edited' > \"$1\"\n"
	if err := os.WriteFile(script, []byte(body), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}

	e := newTestEditor(t, script)
	path, cmd, err := e.prepare("before")
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	got, err := collect(path, cmd.Run())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got != "edited" {
		t.Fatalf("expected edited, got %q", got)
	}
}

func TestEditReturnsCommand(t *testing.T) {
	e := newTestEditor(t, "true")
	if cmd := e.Edit(1, "text"); cmd == nil {
		t.Fatal("expected a command")
	}
}
