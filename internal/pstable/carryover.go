package pstable

import (
	"strconv"

	"psclassify/internal/menu"
)

// MissingValue records a prescale cell that could not be copied from the
// old table and was filled with the estimated default instead.
type MissingValue struct {
	Index  int
	Seed   string
	Column string
	Value  string
}

// estimatedPrescale is used for seeds absent from the old table. Disabled
// until an operator reviews the new row.
const estimatedPrescale = "0"

// CarryOver builds a prescale table for a new menu from an existing table:
// the column layout of the old table is kept, rows follow the menu's
// algorithm order, and every prescale-like cell is copied from the old
// table when the seed exists there. Cells with no source value are filled
// with the estimated default and reported.
func CarryOver(old *Table, algos []menu.Algorithm) (*Table, []MissingValue) {
	indexCol, nameCol := -1, old.NameCol
	for i, col := range old.Header {
		if col == "Index" {
			indexCol = i
		}
	}

	oldRows := make(map[string][]string, len(old.Rows))
	for _, row := range old.Rows {
		if nameCol < len(row) {
			oldRows[row[nameCol]] = row
		}
	}

	out := &Table{
		Header:  append([]string(nil), old.Header...),
		NameCol: old.NameCol,
		PSCol:   old.PSCol,
	}
	var missing []MissingValue

	for _, algo := range algos {
		row := make([]string, len(old.Header))
		src, found := oldRows[algo.Name]
		for col := range row {
			switch {
			case col == indexCol:
				row[col] = strconv.Itoa(algo.Index)
			case col == nameCol:
				row[col] = algo.Name
			case found && col < len(src):
				row[col] = src[col]
			default:
				row[col] = estimatedPrescale
				missing = append(missing, MissingValue{
					Index:  algo.Index,
					Seed:   algo.Name,
					Column: out.Header[col],
					Value:  estimatedPrescale,
				})
			}
		}
		out.Rows = append(out.Rows, row)
	}
	return out, missing
}
