// render.go renders the selected note body as Markdown for the preview pane.
//
// Glamour rendering is relatively expensive, so it runs in a Bubble Tea
// command and the output is cached. Cache keys are xxhash digests of the
// width bucket and the note body, so an edited body or a resize past a bucket
// boundary misses, while moving back and forth in the list hits.
//
// Glamour TermRenderer instances are cached per width bucket in a global LRU
// guarded by a mutex. The style comes from NORGANISERS_GLAMOUR_STYLE or
// GLAMOUR_STYLE and defaults to "dark".
package app

import (
	"container/list"
	"encoding/binary"
	"os"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

// previewRenderedMsg carries a finished render back to Update.
type previewRenderedMsg struct {
	key     uint64
	content string
}

var (
	// maxRendererCacheEntries bounds the number of width-specific Glamour
	// renderers retained in memory.
	maxRendererCacheEntries = 8

	rendererCacheMu    sync.Mutex
	rendererCache      = map[int]*glamour.TermRenderer{}
	rendererCacheOrder = list.New()
	rendererCacheNodes = map[int]*list.Element{}
)

// previewCacheKey identifies a render of text at a width bucket.
func previewCacheKey(width int, text string) uint64 {
	var prefix [8]byte
	binary.LittleEndian.PutUint64(prefix[:], uint64(width))
	d := xxhash.New()
	d.Write(prefix[:])
	d.WriteString(text)
	return d.Sum64()
}

// syncPreview points the preview pane at the selected note. Cached renders
// are shown immediately; otherwise a render command is returned.
func (m *Model) syncPreview() tea.Cmd {
	n, ok := m.selectedNote()
	if !ok {
		if m.previewKey != 0 {
			m.previewKey = 0
			m.viewport.SetContent("")
		}
		return nil
	}

	width := renderWidthBucket(m.viewport.Width)
	key := previewCacheKey(width, n.Text)
	if key == m.previewKey {
		return nil
	}
	m.previewKey = key
	m.viewport.GotoTop()
	if content, ok := m.renderCache[key]; ok {
		m.viewport.SetContent(content)
		return nil
	}
	m.viewport.SetContent(mutedStyle.Render("Rendering..."))
	return renderPreviewCmd(key, n.Text, width)
}

// handlePreviewRendered caches a render and shows it if it is still current.
func (m *Model) handlePreviewRendered(msg previewRenderedMsg) (tea.Model, tea.Cmd) {
	if len(m.renderCache) >= MaxRenderCacheEntries {
		for k := range m.renderCache {
			if k != m.previewKey {
				delete(m.renderCache, k)
				break
			}
		}
	}
	m.renderCache[msg.key] = msg.content
	if msg.key == m.previewKey {
		m.viewport.SetContent(msg.content)
	}
	return m, nil
}

// scrollPreview moves the preview viewport for a scroll action.
func (m *Model) scrollPreview(action string) {
	switch action {
	case actionPreviewPageUp:
		m.viewport.ViewUp()
	case actionPreviewPageDown:
		m.viewport.ViewDown()
	case actionPreviewHalfUp:
		m.viewport.HalfViewUp()
	case actionPreviewHalfDown:
		m.viewport.HalfViewDown()
	}
}

func renderPreviewCmd(key uint64, text string, width int) tea.Cmd {
	return func() tea.Msg {
		return previewRenderedMsg{key: key, content: renderMarkdown(text, width)}
	}
}

// renderMarkdown converts note text to ANSI output. If rendering fails the
// raw text is returned so the user still sees the note.
func renderMarkdown(content string, width int) string {
	if strings.TrimSpace(content) == "" {
		return mutedStyle.Render("(empty note)")
	}
	if width <= 0 {
		width = 80
	}
	renderer, err := getRenderer(width)
	if err != nil {
		appLog.Error("create markdown renderer", "width", width, "error", err)
		return content
	}
	out, err := renderer.Render(content)
	if err != nil {
		appLog.Error("render markdown content", "width", width, "error", err)
		return content
	}
	return out
}

// getRenderer returns a cached Glamour renderer wrapping at width.
func getRenderer(width int) (*glamour.TermRenderer, error) {
	rendererCacheMu.Lock()
	defer rendererCacheMu.Unlock()
	if renderer, ok := rendererCache[width]; ok {
		if node, ok := rendererCacheNodes[width]; ok {
			rendererCacheOrder.MoveToBack(node)
		}
		return renderer, nil
	}
	renderer, err := glamour.NewTermRenderer(
		glamourStyleOption(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	rendererCache[width] = renderer
	rendererCacheNodes[width] = rendererCacheOrder.PushBack(width)
	for len(rendererCache) > maxRendererCacheEntries && rendererCacheOrder.Len() > 0 {
		oldest := rendererCacheOrder.Front()
		w, _ := oldest.Value.(int)
		rendererCacheOrder.Remove(oldest)
		delete(rendererCache, w)
		delete(rendererCacheNodes, w)
	}
	return renderer, nil
}

// glamourStyleOption resolves the Glamour style. "auto" queries the
// terminal background; unknown names fall back to dark.
func glamourStyleOption() glamour.TermRendererOption {
	style := strings.ToLower(strings.TrimSpace(os.Getenv("NORGANISERS_GLAMOUR_STYLE")))
	if style == "" {
		style = strings.ToLower(strings.TrimSpace(os.Getenv("GLAMOUR_STYLE")))
	}
	switch style {
	case "auto":
		return glamour.WithAutoStyle()
	case "dark", "light", "notty":
		return glamour.WithStandardStyle(style)
	default:
		return glamour.WithStandardStyle("dark")
	}
}
