package pstable

import (
	"testing"

	"github.com/stretchr/testify/require"

	"psclassify/internal/menu"
)

func TestCarryOver(t *testing.T) {
	old := &Table{
		Header:  []string{"Index", "Name", "Prescale"},
		NameCol: 1,
		PSCol:   2,
		Rows: [][]string{
			{"0", "L1_SingleMu3", "1"},
			{"1", "L1_SingleMu5", "2"},
		},
	}
	algos := []menu.Algorithm{
		{Name: "L1_SingleMu3", Index: 0},
		{Name: "L1_SingleMu7", Index: 4},
		{Name: "L1_SingleMu5", Index: 9},
	}

	out, missing := CarryOver(old, algos)
	require.Equal(t, old.Header, out.Header)
	require.Len(t, out.Rows, 3)

	// Rows follow menu order; indices come from the menu, values from the
	// old table.
	require.Equal(t, []string{"0", "L1_SingleMu3", "1"}, out.Rows[0])
	require.Equal(t, []string{"4", "L1_SingleMu7", "0"}, out.Rows[1])
	require.Equal(t, []string{"9", "L1_SingleMu5", "2"}, out.Rows[2])

	require.Len(t, missing, 1)
	require.Equal(t, "L1_SingleMu7", missing[0].Seed)
	require.Equal(t, "Prescale", missing[0].Column)
	require.Equal(t, "0", missing[0].Value)
}

func TestCarryOverKeepsUnrelatedColumns(t *testing.T) {
	old := &Table{
		Header:  []string{"Name", "PS", "Comment"},
		NameCol: 0,
		PSCol:   1,
		Rows: [][]string{
			{"L1_SingleMu3", "1", "keep me"},
		},
	}
	out, missing := CarryOver(old, []menu.Algorithm{{Name: "L1_SingleMu3", Index: 0}})
	require.Empty(t, missing)
	require.Equal(t, "keep me", out.Rows[0][2])
}
