package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"fieldday/internal/domain"
	"fieldday/internal/engine"
	"fieldday/internal/repo"
)

const unfilledCell = "-"

// renderLineup prints one row per inning with a column per position and the bench last.
func renderLineup(w io.Writer, l domain.Lineup) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	header := table.Row{"Inn"}
	for _, pos := range domain.Positions {
		header = append(header, string(pos))
	}
	header = append(header, "Bench")
	tw.AppendHeader(header)
	for _, inning := range l.Innings {
		row := table.Row{inning.Inning}
		for _, pos := range domain.Positions {
			if p, ok := inning.PlayerAt(pos); ok {
				row = append(row, p.Name)
			} else {
				row = append(row, text.FgRed.Sprint(unfilledCell))
			}
		}
		bench := make([]string, 0, len(inning.Bench))
		for _, b := range inning.Bench {
			bench = append(bench, b.Name)
		}
		row = append(row, strings.Join(bench, ", "))
		tw.AppendRow(row)
	}
	tw.Render()
}

func renderLineupHistory(w io.Writer, items []repo.StoredLineup) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"ID", "Created", "Seed", "Innings", "Unfilled"})
	for _, l := range items {
		unfilled := 0
		for _, inning := range l.Innings {
			unfilled += len(inning.Unfilled())
		}
		tw.AppendRow(table.Row{l.ID, l.CreatedAt, l.Seed, len(l.Innings), unfilled})
	}
	tw.Render()
}

func renderStats(w io.Writer, stats []domain.PlayerLineupStats) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Player", "Infield", "Outfield", "Pitching", "Total"})
	for _, s := range stats {
		tw.AppendRow(table.Row{s.PlayerName, s.InfieldInnings, s.OutfieldInnings, s.PitchingInnings, s.TotalInnings})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	tw.Render()
}

func renderWarnings(w io.Writer, res engine.LineupResult) {
	if res.BenchOverrides > 0 {
		fmt.Fprintf(w, "note: %d inning(s) pulled a pitcher off the bench\n", res.BenchOverrides)
	}
	if len(res.Unfilled) == 0 {
		return
	}
	positions := make([]string, 0, len(res.Unfilled))
	for pos := range res.Unfilled {
		positions = append(positions, pos)
	}
	sort.Strings(positions)
	for _, pos := range positions {
		fmt.Fprintf(w, "warning: %s left unfilled in %d inning(s)\n", pos, res.Unfilled[pos])
	}
}

func renderPlayers(w io.Writer, players []domain.Player) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"#", "ID", "Name", "P", "C", "Never plays"})
	for i, p := range players {
		excluded := make([]string, 0, len(p.ExcludedPositions))
		for _, pos := range p.ExcludedPositions {
			excluded = append(excluded, string(pos))
		}
		tw.AppendRow(table.Row{i + 1, p.ID, p.Name, mark(p.IsPitcher), mark(p.IsCatcher), strings.Join(excluded, ",")})
	}
	tw.Render()
}

func renderGames(w io.Writer, games []domain.Game) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"ID", "Date", "Opponent", "Innings", "Available"})
	for _, g := range games {
		tw.AppendRow(table.Row{g.ID, g.Date, g.Opponent, g.Innings, len(g.AvailablePlayerIDs)})
	}
	tw.Render()
}

func mark(b bool) string {
	if b {
		return "x"
	}
	return ""
}
