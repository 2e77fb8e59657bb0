package app

import (
	"strings"
	"testing"
)

func TestPreviewCacheKeyDependsOnWidthAndText(t *testing.T) {
	base := previewCacheKey(80, "# title")
	if base != previewCacheKey(80, "# title") {
		t.Fatal("expected stable key")
	}
	if base == previewCacheKey(60, "# title") {
		t.Fatal("expected width to change the key")
	}
	if base == previewCacheKey(80, "# title!") {
		t.Fatal("expected text to change the key")
	}
}

func TestRenderWidthBucket(t *testing.T) {
	tests := []struct {
		width int
		want  int
	}{
		{width: 0, want: 80},
		{width: -4, want: 80},
		{width: 7, want: 7},
		{width: 20, want: 20},
		{width: 59, want: 40},
		{width: 61, want: 60},
	}
	for _, tt := range tests {
		if got := renderWidthBucket(tt.width); got != tt.want {
			t.Fatalf("renderWidthBucket(%d): got %d, want %d", tt.width, got, tt.want)
		}
	}
}

func TestSyncPreviewRendersOnceAndCaches(t *testing.T) {
	env := newTestEnv(t)
	m := env.m
	m.viewport.Width = 60
	m.viewport.Height = 10
	m.previewKey = 0

	cmd := m.syncPreview()
	if cmd == nil {
		t.Fatal("expected a render command on cache miss")
	}
	msg, ok := cmd().(previewRenderedMsg)
	if !ok {
		t.Fatal("expected previewRenderedMsg")
	}
	if msg.key != m.previewKey {
		t.Fatal("expected render for the current preview")
	}
	m.handlePreviewRendered(msg)
	if _, ok := m.renderCache[msg.key]; !ok {
		t.Fatal("expected render to be cached")
	}

	env.send(nextNoteMsg{})
	if cmd := m.syncPreview(); cmd != nil {
		t.Fatal("expected no render for an unchanged selection")
	}
	env.send(prevNoteMsg{})
	if m.previewKey != msg.key {
		t.Fatal("expected the first note's key to be current again")
	}
	if !strings.Contains(m.viewport.View(), "long") {
		t.Fatalf("expected cached content to be shown, got %q", m.viewport.View())
	}
}

func TestHandlePreviewRenderedIgnoresStaleRender(t *testing.T) {
	env := newTestEnv(t)
	m := env.m
	m.viewport.Width = 40
	m.viewport.Height = 5
	m.previewKey = 42
	m.viewport.SetContent("current")

	m.handlePreviewRendered(previewRenderedMsg{key: 7, content: "stale"})
	if strings.Contains(m.viewport.View(), "stale") {
		t.Fatal("expected stale render not to replace the preview")
	}
	if m.renderCache[7] != "stale" {
		t.Fatal("expected stale render to be cached anyway")
	}
}

func TestRenderCacheStaysBounded(t *testing.T) {
	env := newTestEnv(t)
	m := env.m
	for i := 0; i < MaxRenderCacheEntries+10; i++ {
		m.handlePreviewRendered(previewRenderedMsg{key: uint64(i + 1), content: "x"})
	}
	if len(m.renderCache) > MaxRenderCacheEntries {
		t.Fatalf("expected at most %d entries, got %d", MaxRenderCacheEntries, len(m.renderCache))
	}
}

func TestRenderMarkdownEmptyBody(t *testing.T) {
	if got := renderMarkdown("  \n", 40); !strings.Contains(got, "(empty note)") {
		t.Fatalf("expected empty placeholder, got %q", got)
	}
}
