// Package ui provides stderr-based UI output for apogee.
package ui

import (
	"fmt"
	"os"

	"github.com/papapumpkin/apogee/internal/vehicle"
)

// ANSI color codes.
const (
	reset   = "\033[0m"
	bold    = "\033[1m"
	dim     = "\033[2m"
	blue    = "\033[34m"
	yellow  = "\033[33m"
	green   = "\033[32m"
	red     = "\033[31m"
	cyan    = "\033[36m"
	magenta = "\033[35m"
)

// Printer writes progress and result output to stderr. With NoColor set it
// emits plain text.
type Printer struct {
	NoColor bool
}

func New(noColor bool) *Printer {
	return &Printer{NoColor: noColor}
}

func (p *Printer) c(code string) string {
	if p.NoColor {
		return ""
	}
	return code
}

func (p *Printer) Banner() {
	fmt.Fprintln(os.Stderr, p.c(bold+cyan)+"  ╔═══════════════════════════════════╗"+p.c(reset))
	fmt.Fprintln(os.Stderr, p.c(bold+cyan)+"  ║"+p.c(reset)+p.c(bold)+"  APOGEE  "+p.c(dim)+"delta-v stage optimizer"+p.c(reset)+p.c(bold+cyan)+"  ║"+p.c(reset))
	fmt.Fprintln(os.Stderr, p.c(bold+cyan)+"  ╚═══════════════════════════════════╝"+p.c(reset))
	fmt.Fprintln(os.Stderr)
}

func (p *Printer) MissionLoaded(name string, stages int) {
	fmt.Fprintf(os.Stderr, p.c(cyan)+"◆ mission"+p.c(reset)+" %s — %d stage(s)\n", name, stages)
}

func (p *Printer) SearchStart(candidates, workers int) {
	fmt.Fprintf(os.Stderr, p.c(bold+magenta)+"── searching %d candidate(s) on %d worker(s) ──"+p.c(reset)+"\n",
		candidates, workers)
}

func (p *Printer) SearchDone(feasible, evaluated int) {
	fmt.Fprintf(os.Stderr, p.c(green)+"✓ search complete"+p.c(reset)+p.c(dim)+" (%d/%d feasible)"+p.c(reset)+"\n",
		feasible, evaluated)
}

// BestRocket prints the winning assignment as a per-stage table followed by
// the total delta-v.
func (p *Printer) BestRocket(labels []string, r vehicle.Rocket, totalDeltaV float64) {
	fmt.Fprintln(os.Stderr)
	fmt.Fprintf(os.Stderr, "%s%-8s %-12s %8s %12s %12s%s\n",
		p.c(bold), "STAGE", "PROPELLANT", "ISP", "Δv (m/s)", "VOL (m³)", p.c(reset))
	for i, s := range r.Stages {
		label := fmt.Sprintf("#%d", i+1)
		if i < len(labels) && labels[i] != "" {
			label = labels[i]
		}
		dv, err := s.DeltaV()
		if err != nil {
			fmt.Fprintf(os.Stderr, "%-8s %-12s %8s\n", label, s.Propellant.Name, "error")
			continue
		}
		fmt.Fprintf(os.Stderr, "%-8s %s%-12s%s %8.0f %12.1f %12.1f\n",
			label, p.c(blue), s.Propellant.Name, p.c(reset), s.Propellant.Isp, dv, s.PropellantVolume())
	}
	fmt.Fprintf(os.Stderr, "\n%s★ total Δv %.1f m/s%s\n", p.c(bold+green), totalDeltaV, p.c(reset))
}

// Comparison reports the gain over the mission's as-written assignment.
func (p *Printer) Comparison(asWritten, best float64) {
	gain := best - asWritten
	fmt.Fprintf(os.Stderr, p.c(dim)+"as written: %.1f m/s, gain: %+.1f m/s"+p.c(reset)+"\n",
		asWritten, gain)
}

func (p *Printer) WatchWaiting(path string) {
	fmt.Fprintf(os.Stderr, "\n"+p.c(yellow)+"⏳ watching %s for edits (ctrl-c to stop)"+p.c(reset)+"\n", path)
}

func (p *Printer) Error(msg string) {
	fmt.Fprintf(os.Stderr, p.c(red+bold)+"error: "+p.c(reset)+"%s\n", msg)
}

func (p *Printer) Info(msg string) {
	fmt.Fprintf(os.Stderr, p.c(dim)+"%s"+p.c(reset)+"\n", msg)
}
