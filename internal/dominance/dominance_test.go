package dominance

import (
	"testing"

	"github.com/stretchr/testify/require"

	"psclassify/internal/seed"
)

func mustParse(t *testing.T, name string) *seed.Descriptor {
	t.Helper()
	d, err := seed.Parse(name)
	require.NoError(t, err, name)
	return d
}

// eval runs the evaluator with equal prescales and default options.
func eval(t *testing.T, main, cand string) *Relation {
	t.Helper()
	return Evaluate(mustParse(t, main), mustParse(t, cand), 1, 1, Options{})
}

func TestHigherThreshold(t *testing.T) {
	rel := eval(t, "L1_SingleMu3", "L1_SingleMu5")
	require.NotNil(t, rel)
	require.Equal(t, CriterionHigherThreshold, rel.Criterion)
	require.Equal(t, "L1_SingleMu3", rel.Main)
	require.Equal(t, "L1_SingleMu5", rel.Backup)

	// Lower threshold moves in the tighter-main direction instead.
	require.Nil(t, eval(t, "L1_SingleMu5", "L1_SingleMu3"))

	// Two slots raised at once is more than a single threshold change.
	require.Nil(t, eval(t, "L1_DoubleMu_15_7", "L1_DoubleMu_17_9"))

	rel = eval(t, "L1_DoubleMu_15_7", "L1_DoubleMu_17_7")
	require.NotNil(t, rel)
	require.Equal(t, CriterionHigherThreshold, rel.Criterion)
}

func TestLowerQuality(t *testing.T) {
	rel := eval(t, "L1_DoubleMu0_SQ", "L1_DoubleMu0_DQ")
	require.NotNil(t, rel, "DQ is the backup of the stricter SQ form")
	require.Equal(t, CriterionLowerQuality, rel.Criterion)

	require.Nil(t, eval(t, "L1_DoubleMu0_DQ", "L1_DoubleMu0_SQ"))

	// Implicit qualities participate through the family defaults:
	// a bare double-muon seed is DQ, so OQ is its backup.
	rel = eval(t, "L1_DoubleMu0", "L1_DoubleMu0_OQ")
	require.NotNil(t, rel)
	require.Equal(t, CriterionLowerQuality, rel.Criterion)
}

func TestLooserEta(t *testing.T) {
	rel := eval(t, "L1_SingleMu22er2p1", "L1_SingleMu22er2p5")
	require.NotNil(t, rel)
	require.Equal(t, CriterionLooserEta, rel.Criterion)

	// Absent restriction is the loosest value.
	rel = eval(t, "L1_SingleMu22er2p1", "L1_SingleMu22")
	require.NotNil(t, rel)
	require.Equal(t, CriterionLooserEta, rel.Criterion)

	require.Nil(t, eval(t, "L1_SingleMu22", "L1_SingleMu22er2p1"))
}

func TestLooserDR(t *testing.T) {
	rel := eval(t, "L1_DoubleMu4_SQ_OS_dR_Max1p2", "L1_DoubleMu4_SQ_OS_dR_Max1p6")
	require.NotNil(t, rel)
	require.Equal(t, CriterionLooserDR, rel.Criterion)

	rel = eval(t, "L1_DoubleMu4_SQ_OS_dR_Max1p2", "L1_DoubleMu4_SQ_OS")
	require.NotNil(t, rel, "dropping the dR cut entirely is looser")
	require.Equal(t, CriterionLooserDR, rel.Criterion)

	// Loosening both explicit bounds at once is rejected.
	require.Nil(t, eval(t,
		"L1_DoubleMu4_SQ_OS_dR_Max1p2_dR_Min0p5",
		"L1_DoubleMu4_SQ_OS_dR_Max1p6_dR_Min0p3"))
}

func TestWiderMassRange(t *testing.T) {
	rel := eval(t, "L1_DoubleMu4p5_SQ_OS_Mass7to18", "L1_DoubleMu4p5_SQ_OS_Mass5to18")
	require.NotNil(t, rel)
	require.Equal(t, CriterionWiderMass, rel.Criterion)

	// Narrower range moves the wrong way.
	require.Nil(t, eval(t, "L1_DoubleMu4p5_SQ_OS_Mass5to18", "L1_DoubleMu4p5_SQ_OS_Mass7to18"))

	// Shifted range both narrows and widens: incomparable.
	require.Nil(t, eval(t, "L1_DoubleMu4p5_SQ_OS_Mass7to18", "L1_DoubleMu4p5_SQ_OS_Mass8to20"))
}

func TestLooserIsolation(t *testing.T) {
	rel := eval(t, "L1_SingleIsoEG28er2p1", "L1_SingleLooseIsoEG28er2p1")
	require.NotNil(t, rel)
	require.Equal(t, CriterionLooserIsolation, rel.Criterion)

	rel = eval(t, "L1_SingleLooseIsoEG28er2p1", "L1_SingleEG28er2p1")
	require.NotNil(t, rel)
	require.Equal(t, CriterionLooserIsolation, rel.Criterion)

	require.Nil(t, eval(t, "L1_SingleEG28er2p1", "L1_SingleIsoEG28er2p1"))
}

func TestHigherAuxThreshold(t *testing.T) {
	rel := eval(t, "L1_Mu6_HTT240", "L1_Mu6_HTT250")
	require.NotNil(t, rel)
	require.Equal(t, AuxCriterion(seed.AuxHTT), rel.Criterion)
	require.Equal(t, Criterion("higher aux threshold (HTT)"), rel.Criterion)

	// Tag present on only one side: no relation.
	require.Nil(t, eval(t, "L1_Mu6_HTT240", "L1_Mu6"))
	require.Nil(t, eval(t, "L1_Mu6", "L1_Mu6_HTT240"))
}

func TestPrescaleConstraint(t *testing.T) {
	main := mustParse(t, "L1_SingleMu3_er1p2")
	cand := mustParse(t, "L1_SingleMu5_er1p2")

	// Candidate prescale below the main's: rejected by default.
	require.Nil(t, Evaluate(main, cand, 10, 5, Options{}))

	rel := Evaluate(main, cand, 10, 5, Options{NoPrescaleChecks: true})
	require.NotNil(t, rel)
	require.False(t, rel.PrescaleOK)

	rel = Evaluate(main, cand, 5, 10, Options{})
	require.NotNil(t, rel)
	require.True(t, rel.PrescaleOK)
}

func TestTwoDimensionsDiffer(t *testing.T) {
	// Threshold and isolation both loosened/tightened: never a backup.
	require.Nil(t, eval(t, "L1_SingleIsoEG28er2p1", "L1_SingleEG30er2p1"))
	require.Nil(t, eval(t, "L1_SingleEG28er2p1", "L1_SingleIsoEG30er2p1"))
}

func TestEarlyRejection(t *testing.T) {
	// Family mismatch, whatever the other fields say.
	require.Nil(t, eval(t, "L1_SingleMu3", "L1_SingleEG5"))
	require.Nil(t, eval(t, "L1_SingleMu3", "L1_DoubleMu5"))

	// Residual token mismatch guarantees "no other differences".
	require.Nil(t, eval(t, "L1_DoubleMu4_SQ_OS", "L1_DoubleMu5_SQ"))
}

func TestReflexivityAndTies(t *testing.T) {
	for _, name := range []string{"L1_SingleMu3", "L1_DoubleMu0_SQ", "L1_Mu6_HTT240"} {
		if rel := eval(t, name, name); rel != nil {
			t.Fatalf("evaluate(%s, %s) = %+v, want no relation", name, name, rel)
		}
	}
}

// A pair can never be mutual backups: at most one direction yields a
// relation for any pair drawn from a realistic menu.
func TestSymmetryNegative(t *testing.T) {
	names := []string{
		"L1_SingleMu3",
		"L1_SingleMu5",
		"L1_SingleMu22",
		"L1_SingleMu22er2p1",
		"L1_DoubleMu0",
		"L1_DoubleMu0_SQ",
		"L1_DoubleMu0_OQ",
		"L1_DoubleMu_15_7",
		"L1_Mu6_HTT240",
		"L1_Mu6_HTT250",
		"L1_SingleIsoEG28er2p1",
		"L1_SingleEG28er2p1",
		"L1_DoubleMu4p5_SQ_OS_Mass7to18",
		"L1_DoubleMu4p5_SQ_OS_Mass5to18",
	}
	for _, a := range names {
		for _, b := range names {
			if a == b {
				continue
			}
			ab := eval(t, a, b)
			ba := eval(t, b, a)
			if ab != nil && ba != nil {
				t.Fatalf("mutual backup relation between %s and %s", a, b)
			}
		}
	}
}
