package app

import (
	"reflect"
	"testing"
)

func TestSelectionPopupHighlightClamps(t *testing.T) {
	s := NewSelectionPopup([]string{"a", "b"})
	s.Prev()
	if s.Highlight() != 0 {
		t.Fatalf("expected prev at top to stay 0, got %d", s.Highlight())
	}
	s.Next()
	s.Next()
	if s.Highlight() != 1 {
		t.Fatalf("expected next at bottom to stay 1, got %d", s.Highlight())
	}

	empty := NewSelectionPopup(nil)
	empty.Next()
	empty.Select()
	if empty.Highlight() != 0 || empty.SelectedCount() != 0 {
		t.Fatalf("expected empty selector to ignore moves, got highlight %d count %d", empty.Highlight(), empty.SelectedCount())
	}
}

func TestSelectionPopupSelectedItemsFollowItemOrder(t *testing.T) {
	s := NewSelectionPopup([]string{"alpha", "beta", "gamma"})
	s.Next()
	s.Next()
	s.Select()
	s.Prev()
	s.Prev()
	s.Toggle()
	if got := s.SelectedItems(); !reflect.DeepEqual(got, []string{"alpha", "gamma"}) {
		t.Fatalf("unexpected selection %v", got)
	}
	s.Toggle()
	s.Unselect()
	if got := s.SelectedItems(); !reflect.DeepEqual(got, []string{"gamma"}) {
		t.Fatalf("unexpected selection after toggle %v", got)
	}
}

func TestSelectionPopupSnapshotsItems(t *testing.T) {
	items := []string{"a", "b"}
	s := NewSelectionPopup(items)
	items[0] = "changed"
	if s.Items()[0] != "a" {
		t.Fatalf("expected snapshot, got %v", s.Items())
	}
}

func TestPopupSelectorCommitsIntoFocusedField(t *testing.T) {
	p := NewPopup(PopupNewNote, NewForm("title", ""))
	p.NextField()
	p.OpenSelector([]string{"npc", "neverwinter", "tavern"})

	sel := p.Selector()
	sel.Select()
	sel.Next()
	sel.Next()
	sel.Select()
	p.SyncSelection()
	if got := p.Form().FieldContent(fieldTags); got != "npc, tavern" {
		t.Fatalf("expected live sync, got %q", got)
	}

	p.AddChar('x')
	p.NextField()
	if p.Form().FieldContent(fieldTags) != "npc, tavern" || p.State().Focused() != fieldTags {
		t.Fatal("expected text editing and focus changes to be blocked while the selector is open")
	}

	p.CloseSelector()
	if p.Selector() != nil {
		t.Fatal("expected selector to be discarded")
	}
	if got := p.Form().FieldContent(fieldTags); got != "npc, tavern" {
		t.Fatalf("unexpected committed field %q", got)
	}
	if p.State().Cursor(fieldTags) != len("npc, tavern") {
		t.Fatalf("expected cursor at end, got %d", p.State().Cursor(fieldTags))
	}
	if p.Form().FieldContent(fieldLabel) != "title" {
		t.Fatal("expected label untouched")
	}
}

func TestPopupSelectorReseedsFromFieldContent(t *testing.T) {
	p := NewPopup(PopupEditNote, NewForm("title", "npc, custom"))
	p.NextField()
	p.OpenSelector([]string{"neverwinter", "npc"})

	sel := p.Selector()
	if !reflect.DeepEqual(sel.Items(), []string{"neverwinter", "npc", "custom"}) {
		t.Fatalf("unexpected items %v", sel.Items())
	}
	if !reflect.DeepEqual(sel.SelectedItems(), []string{"npc", "custom"}) {
		t.Fatalf("expected typed tags preselected, got %v", sel.SelectedItems())
	}

	p.CloseSelector()
	if got := p.Form().FieldContent(fieldTags); got != "npc, custom" {
		t.Fatalf("expected typed tags kept, got %q", got)
	}

	p.OpenSelector([]string{"neverwinter"})
	sel = p.Selector()
	sel.Next()
	sel.Unselect()
	sel.Next()
	sel.Unselect()
	p.CloseSelector()
	if got := p.Form().FieldContent(fieldTags); got != "" {
		t.Fatalf("expected cleared selection to clear field, got %q", got)
	}
}

func TestPopupReplaceSelectedFieldMovesCursorToEnd(t *testing.T) {
	p := NewPopup(PopupNewNote, NewForm("title", "old"))
	p.NextField()
	p.State().MoveHome()

	p.ReplaceSelectedField("npc, 界")
	if got := p.Form().FieldContent(fieldTags); got != "npc, 界" {
		t.Fatalf("unexpected field %q", got)
	}
	if got := p.State().Cursor(fieldTags); got != 6 {
		t.Fatalf("expected cursor after the last character, got %d", got)
	}
	if p.Form().FieldContent(fieldLabel) != "title" || p.State().Cursor(fieldLabel) != 5 {
		t.Fatal("expected other field untouched")
	}
}

func TestPopupSelectorLocksFocus(t *testing.T) {
	p := NewPopup(PopupSearchNote, NewForm("", ""))
	p.NextField()
	p.OpenSelector([]string{"npc"})
	p.NextField()
	p.Selector().Select()
	p.SyncSelection()
	if got := p.Form().FieldContent(fieldTagQuery); got != "npc" {
		t.Fatalf("expected selection in the tag field, got %q", got)
	}
	if p.Form().FieldContent(fieldQuery) != "" {
		t.Fatal("expected text field untouched")
	}
}
