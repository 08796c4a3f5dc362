// Package tui provides the interactive ranked-candidate browser: a
// bubbletea program for inspecting the top propellant assignments a search
// produced, with a per-stage detail pane for the selected candidate.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/papapumpkin/apogee/internal/optimizer"
)

// StageRow is one stage of a candidate as shown in the detail pane.
type StageRow struct {
	Label      string
	Propellant string
	Isp        float64
	DeltaV     float64
	Volume     float64
}

// Entry is one ranked candidate in the browser list.
type Entry struct {
	Rank   int // 1-based position in the ranking
	Index  int // generation index
	DeltaV float64
	Stages []StageRow
}

// Browser is the bubbletea model for the candidate browser.
type Browser struct {
	Mission   string
	Evaluated int
	Feasible  int
	Entries   []Entry
	Cursor    int
	Width     int
	Height    int
	Keys      KeyMap
	quitting  bool
}

// NewBrowser builds a Browser from a search result. Stage labels may be nil
// or shorter than the stage count; missing labels render as #n.
func NewBrowser(mission string, labels []string, res optimizer.Result) Browser {
	entries := make([]Entry, len(res.Ranked))
	for i, c := range res.Ranked {
		rows := make([]StageRow, len(c.Rocket.Stages))
		for j, s := range c.Rocket.Stages {
			label := fmt.Sprintf("#%d", j+1)
			if j < len(labels) && labels[j] != "" {
				label = labels[j]
			}
			dv, _ := s.DeltaV()
			rows[j] = StageRow{
				Label:      label,
				Propellant: s.Propellant.Name,
				Isp:        s.Propellant.Isp,
				DeltaV:     dv,
				Volume:     s.PropellantVolume(),
			}
		}
		entries[i] = Entry{Rank: i + 1, Index: c.Index, DeltaV: c.DeltaV, Stages: rows}
	}
	return Browser{
		Mission:   mission,
		Evaluated: res.Evaluated,
		Feasible:  res.Feasible,
		Entries:   entries,
		Width:     80,
		Keys:      DefaultKeyMap(),
	}
}

// Init implements tea.Model.
func (b Browser) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (b Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.Width = msg.Width
		b.Height = msg.Height
		return b, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, b.Keys.Quit):
			b.quitting = true
			return b, tea.Quit
		case key.Matches(msg, b.Keys.Up):
			b.MoveUp()
		case key.Matches(msg, b.Keys.Down):
			b.MoveDown()
		}
	}
	return b, nil
}

// MoveUp moves the cursor up, wrapping at the top.
func (b *Browser) MoveUp() {
	if len(b.Entries) == 0 {
		return
	}
	b.Cursor--
	if b.Cursor < 0 {
		b.Cursor = len(b.Entries) - 1
	}
}

// MoveDown moves the cursor down, wrapping at the bottom.
func (b *Browser) MoveDown() {
	if len(b.Entries) == 0 {
		return
	}
	b.Cursor++
	if b.Cursor >= len(b.Entries) {
		b.Cursor = 0
	}
}

// Selected returns the entry under the cursor, or a zero Entry when the list
// is empty.
func (b Browser) Selected() Entry {
	if len(b.Entries) == 0 {
		return Entry{}
	}
	return b.Entries[b.Cursor]
}

// View implements tea.Model.
func (b Browser) View() string {
	if b.quitting {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(styleTitle.Render(fmt.Sprintf("%s — top assignments", b.Mission)))
	sb.WriteString("\n")
	sb.WriteString(styleDim.Render(fmt.Sprintf("%d candidates evaluated, %d feasible", b.Evaluated, b.Feasible)))
	sb.WriteString("\n\n")

	if len(b.Entries) == 0 {
		sb.WriteString(styleDim.Render("No feasible candidates to show."))
		return sb.String()
	}

	for i, e := range b.Entries {
		indicator := "  "
		rowStyle := styleRow
		if i == b.Cursor {
			indicator = selectionIndicator + " "
			rowStyle = styleSelected
		}
		rank := fmt.Sprintf("%2d.", e.Rank)
		if e.Rank == 1 {
			rank = styleBest.Render(rank)
		}
		sb.WriteString(indicator)
		sb.WriteString(rank)
		sb.WriteString(" ")
		sb.WriteString(rowStyle.Render(assignmentSummary(e)))
		sb.WriteString("  ")
		sb.WriteString(styleDeltaV.Render(fmt.Sprintf("%.1f m/s", e.DeltaV)))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(b.detailView())
	sb.WriteString("\n")
	sb.WriteString(styleDim.Render("↑/k ↓/j navigate · q quit"))
	return sb.String()
}

// detailView renders the per-stage table for the selected candidate.
func (b Browser) detailView() string {
	e := b.Selected()
	var sb strings.Builder
	sb.WriteString(styleDetailHeader.Render(fmt.Sprintf("candidate %d", e.Index)))
	sb.WriteString("\n")
	sb.WriteString(styleDim.Render(fmt.Sprintf("%-8s %-12s %6s %10s %10s", "STAGE", "PROPELLANT", "ISP", "Δv", "VOL")))
	sb.WriteString("\n")
	for _, row := range e.Stages {
		sb.WriteString(fmt.Sprintf("%-8s %-12s %6.0f %10.1f %10.1f\n",
			row.Label, row.Propellant, row.Isp, row.DeltaV, row.Volume))
	}
	return sb.String()
}

// assignmentSummary joins a candidate's propellant names stage by stage.
func assignmentSummary(e Entry) string {
	names := make([]string, len(e.Stages))
	for i, s := range e.Stages {
		names[i] = s.Propellant
	}
	if len(names) == 0 {
		return "(no stages)"
	}
	return strings.Join(names, " → ")
}

// Run launches the browser in the alternate screen until the user quits.
func Run(b Browser) error {
	p := tea.NewProgram(b, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
