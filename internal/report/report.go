// Package report turns a classification result into operator-facing
// artifacts: CSV tables for downstream tooling and a styled terminal
// summary. Output-row filtering by prescale (the "mode") happens here, not
// in the classifier.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"

	"psclassify/internal/partition"
)

// Mode selects which output rows are kept, by prescale value.
type Mode string

const (
	// ModeInclusive keeps every row.
	ModeInclusive Mode = "inclusive"
	// ModeUnprescaled keeps rows with prescale 1.
	ModeUnprescaled Mode = "unprescaled"
	// ModePrescaled keeps rows with prescale greater than 1.
	ModePrescaled Mode = "prescaled"
)

// ParseMode validates a mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeInclusive, ModeUnprescaled, ModePrescaled:
		return Mode(s), nil
	}
	return "", fmt.Errorf("report: unknown mode %q (want inclusive, unprescaled or prescaled)", s)
}

func (m Mode) keeps(prescale int64) bool {
	switch m {
	case ModeUnprescaled:
		return prescale == 1
	case ModePrescaled:
		return prescale > 1
	}
	return true
}

// BackupRow is one line of the backup-seed artifact.
type BackupRow struct {
	Backup    string
	Main      string
	Criterion string
	Prescale  int64
}

// BackupRows flattens the backup evidence into sorted rows, applying the
// mode filter to the backup seed's prescale.
func BackupRows(res *partition.Result, mode Mode) []BackupRow {
	var rows []BackupRow
	for backup, matches := range res.Backups {
		if !mode.keeps(res.Prescales[backup]) {
			continue
		}
		for _, m := range matches {
			rows = append(rows, BackupRow{
				Backup:    backup,
				Main:      m.Main,
				Criterion: string(m.Criterion),
				Prescale:  m.Prescale,
			})
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Backup != rows[j].Backup {
			return rows[i].Backup < rows[j].Backup
		}
		return rows[i].Main < rows[j].Main
	})
	return rows
}

// SignalRows lists signal seeds surviving the mode filter, sorted.
func SignalRows(res *partition.Result, mode Mode) []string {
	var rows []string
	for _, name := range res.Signals {
		if mode.keeps(res.Prescales[name]) {
			rows = append(rows, name)
		}
	}
	return rows
}

// WriteBackupCSV writes the backup-seed artifact.
func WriteBackupCSV(path string, rows []BackupRow) error {
	return writeCSV(path, [][]string{{"backup", "main", "criterion", "prescale"}}, func(w *csv.Writer) error {
		for _, r := range rows {
			if err := w.Write([]string{r.Backup, r.Main, r.Criterion, strconv.FormatInt(r.Prescale, 10)}); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteSignalCSV writes the signal-seed artifact.
func WriteSignalCSV(path string, res *partition.Result, mode Mode) error {
	return writeCSV(path, [][]string{{"signal", "prescale"}}, func(w *csv.Writer) error {
		for _, name := range SignalRows(res, mode) {
			if err := w.Write([]string{name, strconv.FormatInt(res.Prescales[name], 10)}); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteUnparsedCSV writes the list of names the parser could not decompose.
func WriteUnparsedCSV(path string, res *partition.Result) error {
	return writeCSV(path, [][]string{{"unparsed"}}, func(w *csv.Writer) error {
		for _, name := range res.Unparsed {
			if err := w.Write([]string{name}); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeCSV(path string, header [][]string, body func(w *csv.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	for _, h := range header {
		if err := w.Write(h); err != nil {
			return fmt.Errorf("report: write %s: %w", path, err)
		}
	}
	if err := body(w); err != nil {
		return fmt.Errorf("report: write %s: %w", path, err)
	}
	w.Flush()
	return w.Error()
}
