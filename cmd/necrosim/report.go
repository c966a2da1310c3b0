package main

import (
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/CarlHaze/Necromancer2DGame/internal/game"
	"github.com/CarlHaze/Necromancer2DGame/internal/service"
	"github.com/CarlHaze/Necromancer2DGame/internal/typechart"
)

func newPrinter() *message.Printer { return message.NewPrinter(language.English) }

// writeChart prints the chart as an attacker × defender grid followed by
// the tier legend.
func writeChart(w io.Writer, p *message.Printer, chart *typechart.Chart) {
	types := chart.Types()
	p.Fprintf(w, "Type chart %q (%d types)\n", chart.Name(), len(types))
	p.Fprintf(w, "%-10s", "atk\\def")
	for _, d := range types {
		p.Fprintf(w, " %8s", d)
	}
	p.Fprintln(w)
	for _, a := range types {
		p.Fprintf(w, "%-10s", a)
		for _, d := range types {
			p.Fprintf(w, " %8.2f", chart.Effectiveness(a, d))
		}
		p.Fprintln(w)
	}
	p.Fprintf(w, "super effective = %.2f, not very effective = %.2f, immune = %.2f\n",
		chart.SuperEffective(), chart.NotVeryEffective(), typechart.Immune)
}

// writeMatchups prints the typical matchups of every combatant: which types
// it hits hard and which types it cannot touch.
func writeMatchups(w io.Writer, p *message.Printer, chart *typechart.Chart, roster []*game.CombatantTemplate) {
	for _, c := range roster {
		for _, m := range c.Moves {
			if m.Effect != game.EffectDamage {
				continue
			}
			for _, d := range chart.Types() {
				mult := chart.Effectiveness(m.Type, d)
				if mult == typechart.Neutral {
					continue
				}
				p.Fprintf(w, "%s's %s vs %s: %s (x%.2f)\n", c.Name, m.Name, d, chart.Describe(mult), mult)
			}
		}
	}
}

// writeReport prints one line per matchup with win rates.
func writeReport(w io.Writer, p *message.Printer, r *service.Report) {
	p.Fprintf(w, "Run %s  chart=%s  seed=%d  battles=%d  elapsed=%v\n", r.RunID, r.Chart, r.Seed, r.Battles, r.Elapsed)
	p.Fprintf(w, "%-16s %-16s %8s %9s %9s %8s %8s\n", "friendly", "hostile", "battles", "friendly", "hostile", "draws", "rounds")
	for _, m := range r.Matchups {
		p.Fprintf(w, "%-16s %-16s %8d %8.1f%% %8.1f%% %7.1f%% %8.1f\n",
			m.Friendly, m.Hostile, m.Battles,
			m.FriendlyWinRate()*100, m.HostileWinRate()*100, m.DrawRate()*100, m.AvgRounds())
	}
}

// writeStoredRun prints a run read back from the ledger.
func writeStoredRun(w io.Writer, p *message.Printer, run *game.SimulationRun, stats []game.MatchupStat) {
	status := "unfinished"
	if run.FinishedAt != nil {
		status = "finished " + run.FinishedAt.Format("2006-01-02 15:04:05")
	}
	p.Fprintf(w, "Run %s  chart=%s  seed=%d  %s  engine=%s\n", run.RunID, run.Chart, run.Seed, status, run.EngineVersion)
	for _, s := range stats {
		p.Fprintf(w, "%-36s %8d battles  friendly %d  hostile %d  draws %d  avg rounds %.1f\n",
			s.MatchupKey, s.Battles, s.FriendlyWins, s.HostileWins, s.Draws, s.AvgRounds)
	}
}
