// Package pstable reads and writes prescale tables. A table keeps every
// input column so unrelated columns survive a round trip; the classifier
// only consumes the detected seed-name and prescale columns.
package pstable

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"psclassify/internal/seed"
)

// Table is an imported prescale table: the header row plus all data rows,
// with the detected seed-name and prescale column indices.
type Table struct {
	Header  []string
	Rows    [][]string
	NameCol int
	PSCol   int
}

// MalformedRowError reports a data row the core cannot accept: a missing
// seed name or a prescale that is not a non-negative number. Rows are never
// silently skipped.
type MalformedRowError struct {
	Row    int // 1-based data row index, excluding the header
	Reason string
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("malformed table row %d: %s", e.Row, e.Reason)
}

// prescaleHeaders are the accepted names for the prescale column, compared
// case-insensitively. Exactly one column must match.
var prescaleHeaders = map[string]bool{"prescale": true, "ps": true}

// ReadCSV imports a prescale table from a CSV file. The separator is
// sniffed from the header line (comma, semicolon or tab).
func ReadCSV(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pstable: open %s: %w", path, err)
	}
	return parseCSV(string(data))
}

func parseCSV(data string) (*Table, error) {
	r := csv.NewReader(strings.NewReader(data))
	r.Comma = sniffSeparator(data)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("pstable: read csv: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("pstable: table needs a header row and at least one data row")
	}

	t := &Table{Header: records[0], Rows: records[1:]}
	if t.PSCol, err = findPrescaleColumn(t.Header); err != nil {
		return nil, err
	}
	if t.NameCol, err = findNameColumn(t.Rows); err != nil {
		return nil, err
	}
	return t, nil
}

// sniffSeparator picks the candidate separator occurring most often in the
// header line.
func sniffSeparator(data string) rune {
	header := data
	if i := strings.IndexByte(data, '\n'); i >= 0 {
		header = data[:i]
	}
	best, bestCount := ',', strings.Count(header, ",")
	for _, sep := range []rune{';', '\t'} {
		if n := strings.Count(header, string(sep)); n > bestCount {
			best, bestCount = sep, n
		}
	}
	return best
}

// findPrescaleColumn locates the single column whose header names a
// prescale value. None or more than one match is an error so ambiguous
// tables fail loudly.
func findPrescaleColumn(header []string) (int, error) {
	idx := -1
	for i, col := range header {
		if prescaleHeaders[strings.ToLower(strings.TrimSpace(col))] {
			if idx >= 0 {
				return 0, fmt.Errorf("pstable: more than one prescale column (check the table column names)")
			}
			idx = i
		}
	}
	if idx < 0 {
		return 0, fmt.Errorf("pstable: no prescale column identified (check the table column names)")
	}
	return idx, nil
}

// findNameColumn locates the seed-name column as the one with the most
// values starting with "L1_".
func findNameColumn(rows [][]string) (int, error) {
	var counts []int
	for _, row := range rows {
		for i, cell := range row {
			for i >= len(counts) {
				counts = append(counts, 0)
			}
			if strings.HasPrefix(cell, "L1_") {
				counts[i]++
			}
		}
	}
	best, bestCount := -1, 0
	for i, n := range counts {
		if n > bestCount {
			best, bestCount = i, n
		}
	}
	if best < 0 {
		return 0, fmt.Errorf("pstable: no seed name column identified (seed names must start with \"L1_\")")
	}
	return best, nil
}

// Records extracts one seed.Record per data row. A row lacking a name or a
// usable prescale yields a MalformedRowError naming the row.
func (t *Table) Records() ([]seed.Record, error) {
	records := make([]seed.Record, 0, len(t.Rows))
	for i, row := range t.Rows {
		if t.NameCol >= len(row) || strings.TrimSpace(row[t.NameCol]) == "" {
			return nil, &MalformedRowError{Row: i + 1, Reason: "missing seed name"}
		}
		if t.PSCol >= len(row) {
			return nil, &MalformedRowError{Row: i + 1, Reason: "missing prescale"}
		}
		ps, err := parsePrescale(row[t.PSCol])
		if err != nil {
			return nil, &MalformedRowError{Row: i + 1, Reason: err.Error()}
		}
		records = append(records, seed.Record{
			Name:     strings.TrimSpace(row[t.NameCol]),
			Prescale: ps,
		})
	}
	return records, nil
}

// parsePrescale accepts integer prescales and integral floats ("2.0").
func parsePrescale(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("missing prescale")
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		if v < 0 {
			return 0, fmt.Errorf("negative prescale %d", v)
		}
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 || f != math.Trunc(f) {
		return 0, fmt.Errorf("invalid prescale %q", s)
	}
	return int64(f), nil
}

// WriteCSV writes the table back out comma-separated, whatever separator
// the input used.
func (t *Table) WriteCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("pstable: create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.Header); err != nil {
		return fmt.Errorf("pstable: write header: %w", err)
	}
	for _, row := range t.Rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("pstable: write row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}
