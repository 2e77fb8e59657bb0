package app

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/treykane/norganisers/internal/config"
)

// ---------------------------------------------------------------------------
// Action constants
// ---------------------------------------------------------------------------
//
// Each constant below identifies a user-triggerable action while navigating
// the note list. Users can rebind any of them through the "keybindings" map
// in the config file; form and selector keys are fixed.
// ---------------------------------------------------------------------------

const (
	actionNextNote = "note.next"
	actionPrevNote = "note.prev"

	// actionNewNote opens the new-note form.
	actionNewNote = "note.new"

	// actionEditInfo opens the label/tags form for the selected note.
	actionEditInfo = "note.edit_info"

	// actionEditText opens the selected note body in the external editor.
	actionEditText = "note.edit_text"

	actionSearch = "note.search"
	actionDelete = "note.delete"

	actionNextSort = "sort.next"
	actionPrevSort = "sort.prev"

	// actionCleanState drops the filter and returns to the top of the list.
	actionCleanState = "state.clean"

	// actionCopy copies the selected note body to the clipboard.
	actionCopy = "note.copy"

	actionReload = "notes.reload"

	actionPreviewPageUp   = "preview.scroll.page_up"
	actionPreviewPageDown = "preview.scroll.page_down"
	actionPreviewHalfUp   = "preview.scroll.half_up"
	actionPreviewHalfDown = "preview.scroll.half_down"

	actionHelp = "help.toggle"
	actionQuit = "app.quit"
)

// defaultActionKeys maps each action to its factory-default keys, in Bubble
// Tea key notation.
var defaultActionKeys = map[string][]string{
	actionNextNote:        {"j", "down"},
	actionPrevNote:        {"k", "up"},
	actionNewNote:         {"n"},
	actionEditInfo:        {"e"},
	actionEditText:        {"enter"},
	actionSearch:          {"/"},
	actionDelete:          {"d"},
	actionNextSort:        {"s"},
	actionPrevSort:        {"shift+s"},
	actionCleanState:      {"esc"},
	actionCopy:            {"y"},
	actionReload:          {"r"},
	actionPreviewPageUp:   {"pgup"},
	actionPreviewPageDown: {"pgdown"},
	actionPreviewHalfUp:   {"ctrl+u"},
	actionPreviewHalfDown: {"ctrl+d"},
	actionHelp:            {"?"},
	actionQuit:            {"q", "ctrl+c"},
}

// actionHelpText is the short description shown in the help footer.
var actionHelpText = map[string]string{
	actionNextNote:        "next",
	actionPrevNote:        "prev",
	actionNewNote:         "new",
	actionEditInfo:        "edit info",
	actionEditText:        "edit text",
	actionSearch:          "search",
	actionDelete:          "delete",
	actionNextSort:        "sort",
	actionPrevSort:        "sort back",
	actionCleanState:      "reset",
	actionCopy:            "copy",
	actionReload:          "reload",
	actionPreviewPageUp:   "page up",
	actionPreviewPageDown: "page down",
	actionPreviewHalfUp:   "half up",
	actionPreviewHalfDown: "half down",
	actionHelp:            "help",
	actionQuit:            "quit",
}

// navigationOrder fixes the order actions are matched and listed in help.
var navigationOrder = []string{
	actionNextNote, actionPrevNote, actionNewNote, actionEditInfo, actionEditText,
	actionSearch, actionDelete, actionNextSort, actionPrevSort, actionCleanState,
	actionCopy, actionReload, actionPreviewPageUp, actionPreviewPageDown,
	actionPreviewHalfUp, actionPreviewHalfDown, actionHelp, actionQuit,
}

// keyMap holds every binding the UI understands.
type keyMap struct {
	actions map[string]key.Binding

	// Form keys.
	Submit       key.Binding
	Close        key.Binding
	NextField    key.Binding
	PrevField    key.Binding
	Backspace    key.Binding
	CursorLeft   key.Binding
	CursorRight  key.Binding
	CursorHome   key.Binding
	CursorEnd    key.Binding
	OpenSelector key.Binding

	// Selector keys.
	SelNext     key.Binding
	SelPrev     key.Binding
	SelSelect   key.Binding
	SelUnselect key.Binding
	SelToggle   key.Binding
	SelClose    key.Binding
}

// newKeyMap builds the bindings from the defaults and cfg overrides.
func newKeyMap(cfg config.Config) keyMap {
	keys := map[string][]string{}
	for action, defaults := range defaultActionKeys {
		keys[action] = append([]string(nil), defaults...)
	}
	for action, override := range cfg.Keybindings {
		applyKeybindingOverride(keys, action, override)
	}
	warnKeybindingConflicts(keys)

	km := keyMap{actions: map[string]key.Binding{}}
	for action, bound := range keys {
		km.actions[action] = newBinding(bound, actionHelpText[action])
	}

	km.Submit = key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "submit"))
	km.Close = key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "close"))
	km.NextField = key.NewBinding(key.WithKeys("tab"), key.WithHelp("Tab", "next field"))
	km.PrevField = key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("Shift+Tab", "prev field"))
	km.Backspace = key.NewBinding(key.WithKeys("backspace"), key.WithHelp("Backspace", "delete"))
	km.CursorLeft = key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "left"))
	km.CursorRight = key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "right"))
	km.CursorHome = key.NewBinding(key.WithKeys("home", "ctrl+a"), key.WithHelp("Home", "start"))
	km.CursorEnd = key.NewBinding(key.WithKeys("end", "ctrl+e"), key.WithHelp("End", "end"))
	km.OpenSelector = key.NewBinding(key.WithKeys("ctrl+@", "f1"), key.WithHelp("Ctrl+Space/F1", "pick tags"))

	km.SelNext = key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j", "down"))
	km.SelPrev = key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k", "up"))
	km.SelSelect = key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l", "select"))
	km.SelUnselect = key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h", "unselect"))
	km.SelToggle = key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("Space", "toggle"))
	km.SelClose = key.NewBinding(key.WithKeys("enter", "esc"), key.WithHelp("Enter/Esc", "done"))
	return km
}

// newBinding builds a binding whose help label lists every key.
func newBinding(keys []string, desc string) key.Binding {
	var matchKeys, labels []string
	for _, k := range keys {
		for _, variant := range keyVariants(k) {
			if !slices.Contains(matchKeys, variant) {
				matchKeys = append(matchKeys, variant)
			}
		}
		if label := humanizeKeyLabel(k); label != "" && !slices.Contains(labels, label) {
			labels = append(labels, label)
		}
	}
	return key.NewBinding(key.WithKeys(matchKeys...), key.WithHelp(strings.Join(labels, "/"), desc))
}

// action returns the binding for action.
func (km keyMap) action(action string) key.Binding {
	return km.actions[action]
}

// actionFor returns the first navigation action bound to msg, or "".
func (km keyMap) actionFor(msg tea.KeyMsg) string {
	for _, action := range navigationOrder {
		if b, ok := km.actions[action]; ok && key.Matches(msg, b) {
			return action
		}
	}
	return ""
}

// ---------------------------------------------------------------------------
// help.KeyMap implementations
// ---------------------------------------------------------------------------

// navigationHelp lists the navigation bindings for the help footer.
type navigationHelp struct{ km keyMap }

func (h navigationHelp) ShortHelp() []key.Binding {
	return h.bindings(actionNextNote, actionPrevNote, actionNewNote, actionEditInfo, actionEditText,
		actionSearch, actionDelete, actionNextSort, actionHelp, actionQuit)
}

func (h navigationHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		h.bindings(actionNextNote, actionPrevNote, actionCleanState, actionReload),
		h.bindings(actionNewNote, actionEditInfo, actionEditText, actionDelete, actionCopy),
		h.bindings(actionSearch, actionNextSort, actionPrevSort),
		h.bindings(actionPreviewPageUp, actionPreviewPageDown, actionPreviewHalfUp, actionPreviewHalfDown),
		h.bindings(actionHelp, actionQuit),
	}
}

func (h navigationHelp) bindings(actions ...string) []key.Binding {
	out := make([]key.Binding, 0, len(actions))
	for _, action := range actions {
		out = append(out, h.km.action(action))
	}
	return out
}

type formHelp struct{ km keyMap }

func (h formHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.km.Submit, h.km.Close, h.km.NextField, h.km.PrevField, h.km.OpenSelector}
}

func (h formHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		h.ShortHelp(),
		{h.km.Backspace, h.km.CursorLeft, h.km.CursorRight, h.km.CursorHome, h.km.CursorEnd},
	}
}

type selectionHelp struct{ km keyMap }

func (h selectionHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.km.SelNext, h.km.SelPrev, h.km.SelSelect, h.km.SelUnselect, h.km.SelToggle, h.km.SelClose}
}

func (h selectionHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{h.ShortHelp()}
}

// ---------------------------------------------------------------------------
// Overrides and key string normalization
// ---------------------------------------------------------------------------

// applyKeybindingOverride replaces an action's full default key set. Unknown
// actions are logged and ignored.
func applyKeybindingOverride(keys map[string][]string, action, override string) {
	action = strings.TrimSpace(action)
	override = normalizeKeyString(override)
	if action == "" || override == "" {
		return
	}
	if _, ok := defaultActionKeys[action]; !ok {
		appLog.Warn("ignore unknown keybinding action", "action", action)
		return
	}
	keys[action] = []string{override}
}

// warnKeybindingConflicts logs keys claimed by more than one action. The
// action listed first in navigationOrder wins at dispatch time.
func warnKeybindingConflicts(keys map[string][]string) {
	owner := map[string]string{}
	for _, action := range navigationOrder {
		for _, k := range keys[action] {
			if existing, ok := owner[k]; ok {
				appLog.Warn("keybinding conflict ignored", "key", k, "action", action, "existing_action", existing)
				continue
			}
			owner[k] = action
		}
	}
}

// normalizeKeyString converts a user-provided key string into the canonical
// lowercase form used by the binding tables. A single uppercase letter
// becomes "shift+<letter>".
//
//	normalizeKeyString("Ctrl+P")  → "ctrl+p"
//	normalizeKeyString(" S ")     → "shift+s"
func normalizeKeyString(k string) string {
	k = strings.TrimSpace(k)
	if k == "" {
		return ""
	}
	if len([]rune(k)) == 1 && strings.ToUpper(k) == k && strings.ToLower(k) != k {
		return "shift+" + strings.ToLower(k)
	}
	return strings.ToLower(k)
}

// keyVariants returns the strings Bubble Tea may report for k. Shifted
// letters arrive as uppercase runes.
func keyVariants(k string) []string {
	k = normalizeKeyString(k)
	if rest, ok := strings.CutPrefix(k, "shift+"); ok && len([]rune(rest)) == 1 {
		return []string{k, strings.ToUpper(rest)}
	}
	return []string{k}
}

func humanizeKeyLabel(k string) string {
	normalized := normalizeKeyString(k)
	if normalized == "" {
		return ""
	}
	special := map[string]string{
		"up":        "↑",
		"down":      "↓",
		"left":      "←",
		"right":     "→",
		"enter":     "Enter",
		"esc":       "Esc",
		"tab":       "Tab",
		"home":      "Home",
		"end":       "End",
		"pgup":      "PgUp",
		"pgdown":    "PgDn",
		"space":     "Space",
		"backspace": "Backspace",
	}
	parts := strings.Split(normalized, "+")
	for i, part := range parts {
		switch part {
		case "ctrl":
			parts[i] = "Ctrl"
		case "alt":
			parts[i] = "Alt"
		case "shift":
			parts[i] = "Shift"
		default:
			if label, ok := special[part]; ok {
				parts[i] = label
				continue
			}
			if part == "" {
				continue
			}
			runes := []rune(part)
			if len(runes) == 1 && runes[0] >= 'a' && runes[0] <= 'z' {
				parts[i] = part
			} else {
				parts[i] = strings.ToUpper(part[:1]) + part[1:]
			}
		}
	}
	return strings.Join(parts, "+")
}
