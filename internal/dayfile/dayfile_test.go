package dayfile

import (
	"strings"
	"testing"
	"time"

	"github.com/hvu/timeblock/internal/model"
)

var testDate = time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC)

func TestRoundTrip(t *testing.T) {
	entries := []model.Entry{
		{ID: "b-2", Title: "Lunch | with Sam", StartMinutes: 720, EndMinutes: 780, Color: "#ff6b6b", Done: true},
		{ID: "a-1", Title: "Deep work", StartMinutes: 540, EndMinutes: 660, Color: "#4a9eff"},
		{ID: "c-3", Title: "", StartMinutes: 900, EndMinutes: 945, Color: "#abcdef"},
	}

	got := Unmarshal(Marshal(entries, testDate))
	if len(got) != 3 {
		t.Fatalf("round trip yielded %d entries, want 3", len(got))
	}

	// Output is normalized to chronological order.
	wantOrder := []string{"a-1", "b-2", "c-3"}
	for i, id := range wantOrder {
		if got[i].ID != id {
			t.Fatalf("entry %d id = %q, want %q", i, got[i].ID, id)
		}
	}

	byID := map[string]model.Entry{}
	for _, e := range entries {
		byID[e.ID] = e
	}
	for _, e := range got {
		want := byID[e.ID]
		if e != want {
			t.Errorf("entry %s round-tripped as %+v, want %+v", e.ID, e, want)
		}
	}
}

func TestMarshalOmitsDoneWhenFalse(t *testing.T) {
	doc := string(Marshal([]model.Entry{
		{ID: "x", Title: "t", StartMinutes: 540, EndMinutes: 600, Color: "#4a9eff"},
	}, testDate))

	if strings.Contains(doc, "Done") {
		t.Errorf("done marker must be omitted when false:\n%s", doc)
	}
}

func TestMarshalHeading(t *testing.T) {
	doc := string(Marshal(nil, testDate))
	if !strings.HasPrefix(doc, "# Monday, March 9, 2026\n") {
		t.Errorf("unexpected heading: %q", strings.SplitN(doc, "\n", 2)[0])
	}
}

func TestUnmarshalMetadataDoesNotBleed(t *testing.T) {
	doc := `# Monday, March 9, 2026

## 09:00 - 10:00 | First
- ID: first

## 10:00 - 11:00 | Second
- Color: #ff6b6b
- ID: second
`
	got := Unmarshal([]byte(doc))
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	if got[0].Color != model.DefaultColor {
		t.Errorf("first entry color = %q, want default %q", got[0].Color, model.DefaultColor)
	}
	if got[1].Color != "#ff6b6b" {
		t.Errorf("second entry color = %q", got[1].Color)
	}
}

func TestUnmarshalDefaults(t *testing.T) {
	doc := "## 09:00 - 09:45 | Bare\n"
	got := Unmarshal([]byte(doc))
	if len(got) != 1 {
		t.Fatalf("got %d entries, want 1", len(got))
	}
	e := got[0]
	if e.ID == "" {
		t.Error("missing id should be synthesized")
	}
	if e.Color != model.DefaultColor {
		t.Errorf("color = %q, want default", e.Color)
	}
	if e.Done {
		t.Error("absent done marker means not done")
	}
	if e.StartMinutes != 540 || e.EndMinutes != 585 {
		t.Errorf("times = %d-%d", e.StartMinutes, e.EndMinutes)
	}
}

func TestUnmarshalIgnoresGarbage(t *testing.T) {
	doc := `random prose
# Some heading
not an entry at all
- Color: #123456

## 14:00 - 15:30 | Real entry
- ID: real
- Color: #6bcb77
trailing junk
`
	got := Unmarshal([]byte(doc))
	if len(got) != 1 {
		t.Fatalf("got %d entries, want 1", len(got))
	}
	if got[0].ID != "real" || got[0].Color != "#6bcb77" || got[0].Title != "Real entry" {
		t.Errorf("parsed entry = %+v", got[0])
	}
}

func TestUnmarshalEmptyDocument(t *testing.T) {
	if got := Unmarshal(nil); len(got) != 0 {
		t.Errorf("empty document should yield no entries, got %v", got)
	}
	if got := Unmarshal([]byte("# Just a date\n")); len(got) != 0 {
		t.Errorf("heading-only document should yield no entries, got %v", got)
	}
}

func TestUnmarshalPipeInTitle(t *testing.T) {
	doc := "## 09:00 - 10:00 | a | b | c\n- ID: p\n"
	got := Unmarshal([]byte(doc))
	if len(got) != 1 || got[0].Title != "a | b | c" {
		t.Fatalf("title capture should be greedy, got %+v", got)
	}
}
