package cli

import (
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/tabbridge/pkg/bridge"
	"github.com/matzehuels/tabbridge/pkg/config"
)

func newTestTree(t *testing.T) (*session, TreeModel) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	s := c.newSession(config.Default(), nil)

	parent, err := s.client.Create("Composite", nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := parent.Append("Label", bridge.Properties{"id": "title"}); err != nil {
		t.Fatal(err)
	}
	if _, err := parent.Append("Button", bridge.Properties{
		"id":         "ok",
		"layoutData": map[string]any{"left": "#title 8", "top": 0},
	}); err != nil {
		t.Fatal(err)
	}
	return s, NewTreeModel(s.client)
}

func press(m TreeModel, key string) TreeModel {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
	return next.(TreeModel)
}

func TestTreeModelRows(t *testing.T) {
	_, m := newTestTree(t)

	if len(m.Rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(m.Rows))
	}
	depths := []int{m.Rows[0].depth, m.Rows[1].depth, m.Rows[2].depth}
	if depths[0] != 0 || depths[1] != 1 || depths[2] != 1 {
		t.Errorf("depths = %v, want [0 1 1]", depths)
	}
}

func TestTreeModelNavigation(t *testing.T) {
	_, m := newTestTree(t)

	m = press(m, "j")
	m = press(m, "j")
	m = press(m, "j")
	if m.Cursor != 2 {
		t.Errorf("cursor after 3x down = %d, want 2", m.Cursor)
	}
	if got := m.Selected().ID(); got != "ok" {
		t.Errorf("selected = %q, want ok", got)
	}

	m = press(m, "g")
	if m.Cursor != 0 {
		t.Errorf("cursor after g = %d, want 0", m.Cursor)
	}
	m = press(m, "G")
	if m.Cursor != 2 {
		t.Errorf("cursor after G = %d, want 2", m.Cursor)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Error("q should quit")
	}
}

func TestTreeModelView(t *testing.T) {
	s, m := newTestTree(t)

	w, err := s.lookup("ok")
	if err != nil {
		t.Fatal(err)
	}
	m = m.Select(w)
	view := m.View()
	for _, want := range []string{"Widget Tree", "Button #ok", "queued", "#title +8", "[2, 8]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	s.flush()
	if strings.Contains(m.View(), "queued") {
		t.Error("flushed widget still shown as queued")
	}
}

func TestTreeModelEmpty(t *testing.T) {
	c := New(io.Discard, LogInfo)
	s := c.newSession(config.Default(), nil)
	m := NewTreeModel(s.client)

	if m.Selected() != nil {
		t.Error("empty tree has a selection")
	}
	if !strings.Contains(m.View(), "no widgets") {
		t.Error("empty tree view should say so")
	}
}
