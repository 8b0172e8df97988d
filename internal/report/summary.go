package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"psclassify/internal/partition"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	countStyle   = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	warningStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
)

// Summary renders a terminal overview of a classification run: counts,
// the per-criterion breakdown, and any cycle diagnostics.
func Summary(res *partition.Result, mode Mode) string {
	var b strings.Builder

	backups := BackupRows(res, mode)
	signals := SignalRows(res, mode)

	b.WriteString(titleStyle.Render("Seed classification"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  backup seeds: %s\n", countStyle.Render(fmt.Sprintf("%d", countBackups(backups)))))
	b.WriteString(fmt.Sprintf("  signal seeds: %s\n", countStyle.Render(fmt.Sprintf("%d", len(signals)))))
	if len(res.Unparsed) > 0 {
		b.WriteString(fmt.Sprintf("  unparsed:     %s\n", warningStyle.Render(fmt.Sprintf("%d", len(res.Unparsed)))))
	}

	if len(backups) > 0 {
		b.WriteString(titleStyle.Render("By criterion"))
		b.WriteString("\n")
		byCriterion := make(map[string]int)
		for _, row := range backups {
			byCriterion[row.Criterion]++
		}
		criteria := make([]string, 0, len(byCriterion))
		for c := range byCriterion {
			criteria = append(criteria, c)
		}
		sort.Strings(criteria)
		for _, c := range criteria {
			b.WriteString(fmt.Sprintf("  %-32s %d\n", c, byCriterion[c]))
		}
	}

	for _, name := range res.Unparsed {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  unparsed: %s", name)))
		b.WriteString("\n")
	}
	for _, cycle := range res.Cycles {
		b.WriteString(warningStyle.Render(fmt.Sprintf("  backup cycle: %s", strings.Join(cycle, " -> "))))
		b.WriteString("\n")
	}
	return b.String()
}

// countBackups counts distinct backup seeds in the flattened rows.
func countBackups(rows []BackupRow) int {
	names := make(map[string]bool, len(rows))
	for _, row := range rows {
		names[row.Backup] = true
	}
	return len(names)
}
