package seed

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func TestParseSingleMu(t *testing.T) {
	d, err := Parse("L1_SingleMu3")
	require.NoError(t, err)
	require.Equal(t, Family{Arity: 1, Object: ObjectMu}, d.Family)
	require.Equal(t, []float64{3}, d.Thresholds)
	require.Equal(t, QualitySingle, d.Quality, "single muon seeds default to SQ")
	require.False(t, d.QualityExplicit)
	require.Empty(t, d.Residual)
}

func TestParseThresholdForms(t *testing.T) {
	attached, err := Parse("L1_DoubleMu0")
	require.NoError(t, err)
	require.Equal(t, []float64{0, 0}, attached.Thresholds, "attached threshold replicates per slot")

	positional, err := Parse("L1_DoubleMu_15_7")
	require.NoError(t, err)
	require.Equal(t, []float64{15, 7}, positional.Thresholds)

	triple, err := Parse("L1_TripleMu_5_3_3")
	require.NoError(t, err)
	require.Equal(t, []float64{5, 3, 3}, triple.Thresholds)
	require.Equal(t, QualityDouble, triple.Quality, "multi-muon seeds default to DQ")
}

func TestParseCuts(t *testing.T) {
	d, err := Parse("L1_DoubleMu4p5er2p0_SQ_OS_Mass7to18")
	require.NoError(t, err)
	require.Equal(t, []float64{4.5, 4.5}, d.Thresholds)
	require.Equal(t, f(2.0), d.EtaRestriction)
	require.Equal(t, QualitySingle, d.Quality)
	require.True(t, d.QualityExplicit)
	require.Equal(t, f(7.0), d.MassMin)
	require.Equal(t, f(18.0), d.MassMax)
	require.Equal(t, []string{"OS"}, d.Residual)
}

func TestParseDRBounds(t *testing.T) {
	d, err := Parse("L1_DoubleMu4_SQ_OS_dR_Max1p2")
	require.NoError(t, err)
	require.Equal(t, f(1.2), d.DRMax)
	require.Nil(t, d.DRMin)

	d, err = Parse("L1_DoubleMu0er1p5_SQ_OS_dR_Max1p4_dR_Min0p4")
	require.NoError(t, err)
	require.Equal(t, f(1.4), d.DRMax)
	require.Equal(t, f(0.4), d.DRMin)
	require.Equal(t, f(1.5), d.EtaRestriction)
}

func TestParseAuxThresholds(t *testing.T) {
	d, err := Parse("L1_Mu6_HTT240")
	require.NoError(t, err)
	require.Equal(t, Family{Arity: 1, Object: ObjectMu}, d.Family)
	require.Equal(t, map[AuxTag]float64{AuxHTT: 240}, d.Aux)

	d, err = Parse("L1_DoubleMu3_SQ_ETMHF50_Jet60er2p5")
	require.NoError(t, err)
	require.Equal(t, map[AuxTag]float64{AuxETMHF: 50}, d.Aux)

	d, err = Parse("L1_DoubleMu4p5_SQ_OS_Mass_Min7")
	require.NoError(t, err)
	require.Equal(t, map[AuxTag]float64{AuxMassMin: 7}, d.Aux)
	require.Nil(t, d.MassMin, "Mass_Min is an aux tag, not a range")
}

func TestParseIsolation(t *testing.T) {
	inline, err := Parse("L1_SingleIsoEG28er2p1")
	require.NoError(t, err)
	require.Equal(t, IsolationTight, inline.Isolation)
	require.Equal(t, ObjectEG, inline.Family.Object)

	loose, err := Parse("L1_SingleLooseIsoEG26er2p5")
	require.NoError(t, err)
	require.Equal(t, IsolationLoose, loose.Isolation)
}

func TestParseUnsupported(t *testing.T) {
	for _, name := range []string{
		"L1_ZeroBias",
		"L1_ETM120",
		"HLT_Mu50",
		"L1_DoubleMu_15", // threshold list shorter than object count
	} {
		_, err := Parse(name)
		var unsupported *UnsupportedFormatError
		if !errors.As(err, &unsupported) {
			t.Fatalf("Parse(%q): expected UnsupportedFormatError, got %v", name, err)
		}
	}
}

// Re-serializing a descriptor and parsing it again must reproduce the
// descriptor exactly, whatever the token order of the source name was.
func TestCanonicalNameRoundTrip(t *testing.T) {
	names := []string{
		"L1_SingleMu3",
		"L1_SingleMu22er2p1",
		"L1_DoubleMu0_SQ",
		"L1_DoubleMu_15_7",
		"L1_DoubleMu4p5er2p0_SQ_OS_Mass7to18",
		"L1_DoubleMu0er1p5_SQ_OS_dR_Max1p4",
		"L1_TripleMu_5_3_3",
		"L1_Mu6_HTT240",
		"L1_SingleIsoEG28er2p1",
		"L1_DoubleMu4p5_SQ_OS_Mass_Min7",
	}
	ignoreName := cmpopts.IgnoreFields(Descriptor{}, "Name")
	for _, name := range names {
		d, err := Parse(name)
		require.NoError(t, err, name)

		canon := d.CanonicalName()
		d2, err := Parse(canon)
		require.NoError(t, err, canon)
		if diff := cmp.Diff(d, d2, ignoreName, cmpopts.EquateEmpty()); diff != "" {
			t.Fatalf("round trip of %q via %q changed the descriptor (-first +second):\n%s", name, canon, diff)
		}
		require.Equal(t, canon, d2.CanonicalName(), "canonical form must be a fixed point")
	}
}

func TestParseIsDeterministic(t *testing.T) {
	a, err := Parse("L1_DoubleMu4p5er2p0_SQ_OS_Mass7to18")
	require.NoError(t, err)
	b, err := Parse("L1_DoubleMu4p5er2p0_SQ_OS_Mass7to18")
	require.NoError(t, err)
	if diff := cmp.Diff(a, b, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("two parses of the same name differ:\n%s", diff)
	}
}
