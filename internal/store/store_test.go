package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"psclassify/internal/dominance"
	"psclassify/internal/partition"
	"psclassify/internal/report"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestSaveAndListRuns(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	res := &partition.Result{
		Backups: map[string][]partition.BackupMatch{
			"L1_SingleMu5": {
				{Main: "L1_SingleMu3", Criterion: dominance.CriterionHigherThreshold, Prescale: 2},
			},
		},
		Signals:   []string{"L1_SingleMu3"},
		Unparsed:  []string{"L1_ZeroBias"},
		Prescales: map[string]int64{"L1_SingleMu3": 1, "L1_SingleMu5": 2},
	}

	id, err := st.SaveRun(ctx, "table.csv", report.ModeInclusive, res)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	runs, err := st.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.Equal(t, id, runs[0].ID)
	require.Equal(t, "table.csv", runs[0].Source)
	require.Equal(t, 1, runs[0].Backups)
	require.Equal(t, 1, runs[0].Signals)
	require.Equal(t, 1, runs[0].Unparsed)

	results, err := st.RunResults(ctx, id)
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, "backup", results[0].Class)
	require.Equal(t, "L1_SingleMu5", results[0].Seed)
	require.Equal(t, "L1_SingleMu3", results[0].Main)
	require.Equal(t, string(dominance.CriterionHigherThreshold), results[0].Criterion)
	require.Equal(t, "signal", results[1].Class)
}

func TestListRunsNewestFirst(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	res := &partition.Result{
		Backups:   map[string][]partition.BackupMatch{},
		Prescales: map[string]int64{},
	}

	first, err := st.SaveRun(ctx, "a.csv", report.ModeInclusive, res)
	require.NoError(t, err)
	second, err := st.SaveRun(ctx, "b.csv", report.ModeInclusive, res)
	require.NoError(t, err)

	runs, err := st.ListRuns(ctx, 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.Contains(t, []string{first, second}, runs[0].ID)

	all, err := st.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, all, 2)
}
