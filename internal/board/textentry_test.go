package board

import (
	"testing"

	"pgregory.net/rapid"

	"Whiteboard/internal/geom"
)

func TestTextEntryInactiveIgnoresInput(t *testing.T) {
	var e TextEntry
	e.SetContent("ignored")
	if e.Content() != "" || e.Active() {
		t.Fatal("inactive entry accepted content")
	}
	if _, ok := e.Commit(testStyle, fixedMeasurer{}); ok {
		t.Fatal("inactive entry committed")
	}
}

func TestTextEntryBeginResets(t *testing.T) {
	var e TextEntry
	e.Begin(geom.Pt(1, 2))
	e.SetContent("draft")
	e.Begin(geom.Pt(3, 4))
	if e.Content() != "" || e.Position() != geom.Pt(3, 4) || e.State() != AwaitingInput {
		t.Fatalf("entry = %+v", e)
	}
}

// Property: committed text is as wide as its measurement plus padding, and
// the entry is always inactive afterwards.
func TestTextEntryCommitWidth(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var e TextEntry
		content := rapid.StringMatching(`[a-z ]{0,20}`).Draw(t, "content")
		e.Begin(geom.Pt(0, 0))
		e.SetContent(content)
		s, ok := e.Commit(testStyle, fixedMeasurer{})
		if e.Active() {
			t.Fatal("entry still active after commit")
		}
		blank := true
		for _, r := range content {
			if r != ' ' {
				blank = false
			}
		}
		if ok == blank {
			t.Fatalf("commit of %q: ok = %v", content, ok)
		}
		if ok && *s.Width != float64(10*len(content))+TextPadding {
			t.Fatalf("width = %v for %q", *s.Width, content)
		}
	})
}
