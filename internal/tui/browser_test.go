package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/papapumpkin/apogee/internal/optimizer"
	"github.com/papapumpkin/apogee/internal/propellant"
	"github.com/papapumpkin/apogee/internal/vehicle"
)

// testResult builds a small two-candidate search result fixture.
func testResult(t *testing.T) optimizer.Result {
	t.Helper()
	rp1 := propellant.Propellant{Name: "RP-1/LOX", Isp: 263, Density: 806}
	lh2 := propellant.Propellant{Name: "LH2/LOX", Isp: 421, Density: 71}

	mk := func(p propellant.Propellant) vehicle.Rocket {
		return vehicle.Rocket{Stages: []vehicle.Stage{
			{Propellant: p, DryMass: 1000, PropellantMass: 9000},
		}}
	}
	best := mk(lh2)
	second := mk(rp1)
	bestDV, _ := best.TotalDeltaV()
	secondDV, _ := second.TotalDeltaV()

	return optimizer.Result{
		Best:      optimizer.Candidate{Index: 1, Rocket: best, DeltaV: bestDV},
		Evaluated: 2,
		Feasible:  2,
		Ranked: []optimizer.Candidate{
			{Index: 1, Rocket: best, DeltaV: bestDV},
			{Index: 0, Rocket: second, DeltaV: secondDV},
		},
	}
}

func TestNewBrowser_BuildsEntries(t *testing.T) {
	t.Parallel()

	b := NewBrowser("Test Mission", []string{"S1"}, testResult(t))

	if len(b.Entries) != 2 {
		t.Fatalf("len(Entries) = %d, want 2", len(b.Entries))
	}
	if b.Entries[0].Rank != 1 || b.Entries[1].Rank != 2 {
		t.Errorf("ranks = %d, %d, want 1, 2", b.Entries[0].Rank, b.Entries[1].Rank)
	}
	if got := b.Entries[0].Stages[0].Label; got != "S1" {
		t.Errorf("stage label = %q, want %q", got, "S1")
	}
	if got := b.Entries[0].Stages[0].Propellant; got != "LH2/LOX" {
		t.Errorf("top entry propellant = %q, want LH2/LOX", got)
	}
}

func TestBrowser_View(t *testing.T) {
	t.Parallel()

	b := NewBrowser("Test Mission", nil, testResult(t))
	out := b.View()

	for _, want := range []string{"Test Mission", "LH2/LOX", "RP-1/LOX", "2 candidates evaluated"} {
		if !strings.Contains(out, want) {
			t.Errorf("View() missing %q:\n%s", want, out)
		}
	}
}

func TestBrowser_View_Empty(t *testing.T) {
	t.Parallel()

	b := NewBrowser("Empty", nil, optimizer.Result{})
	out := b.View()
	if !strings.Contains(out, "No feasible candidates") {
		t.Errorf("View() missing empty state:\n%s", out)
	}
}

func TestBrowser_CursorNavigation(t *testing.T) {
	t.Parallel()

	b := NewBrowser("Test Mission", nil, testResult(t))

	if b.Selected().Rank != 1 {
		t.Fatalf("initial selection rank = %d, want 1", b.Selected().Rank)
	}

	b.MoveDown()
	if b.Selected().Rank != 2 {
		t.Errorf("after MoveDown, rank = %d, want 2", b.Selected().Rank)
	}

	// Wraps at the bottom.
	b.MoveDown()
	if b.Selected().Rank != 1 {
		t.Errorf("after wrap, rank = %d, want 1", b.Selected().Rank)
	}

	// Wraps at the top.
	b.MoveUp()
	if b.Selected().Rank != 2 {
		t.Errorf("after MoveUp wrap, rank = %d, want 2", b.Selected().Rank)
	}
}

func TestBrowser_Update_Keys(t *testing.T) {
	t.Parallel()

	b := NewBrowser("Test Mission", nil, testResult(t))

	model, _ := b.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	got := model.(Browser)
	if got.Cursor != 1 {
		t.Errorf("cursor after 'j' = %d, want 1", got.Cursor)
	}

	model, cmd := got.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit command after 'q'")
	}
	if out := model.(Browser).View(); out != "" {
		t.Errorf("View() after quit = %q, want empty", out)
	}
}

func TestBrowser_Update_WindowSize(t *testing.T) {
	t.Parallel()

	b := NewBrowser("Test Mission", nil, testResult(t))
	model, _ := b.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	got := model.(Browser)
	if got.Width != 120 || got.Height != 40 {
		t.Errorf("size = %dx%d, want 120x40", got.Width, got.Height)
	}
}
