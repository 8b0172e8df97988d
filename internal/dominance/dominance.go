// Package dominance decides, for an ordered pair of seed descriptors,
// whether the second is a backup of the first. The rule set is exact and
// deterministic: the candidate must match the main seed in every comparable
// dimension except exactly one, and that one dimension must move in the
// dimension's backup direction.
package dominance

import (
	"fmt"

	"psclassify/internal/seed"
)

// Criterion names the single dimension that justified a backup relation.
type Criterion string

const (
	CriterionHigherThreshold Criterion = "higher threshold"
	CriterionLooserEta       Criterion = "looser er"
	CriterionLooserDR        Criterion = "looser dR"
	CriterionWiderMass       Criterion = "wider mass range"
	CriterionLowerQuality    Criterion = "lower quality"
	CriterionLooserIsolation Criterion = "looser isolation"
	CriterionManualOverride  Criterion = "manual override"
)

// AuxCriterion builds the criterion for an aux-threshold match, naming the
// tag that differed.
func AuxCriterion(tag seed.AuxTag) Criterion {
	return Criterion(fmt.Sprintf("higher aux threshold (%s)", tag))
}

// Relation records one pairwise backup decision. It is transient: the
// partition builder consumes relations immediately after evaluation.
type Relation struct {
	Main       string
	Backup     string
	Criterion  Criterion
	PrescaleOK bool
}

// Options controls evaluation behavior.
type Options struct {
	// KeepZeroPrescales includes prescale-0 (disabled) records in
	// evaluation. Filtering happens before pairing, in the partition
	// builder; the flag lives here so one options value travels through
	// the whole pipeline.
	KeepZeroPrescales bool

	// NoPrescaleChecks disables the constraint that a backup's prescale
	// must be >= its main's prescale.
	NoPrescaleChecks bool
}

// ordering is the three-valued outcome of comparing one dimension. A
// relation requires exactly one orderLooser and zero orderIncomparable
// across all dimensions; comparison order never affects the outcome.
type ordering int

const (
	orderEqual ordering = iota
	// orderLooser means the candidate moved in this dimension's backup
	// direction.
	orderLooser
	// orderIncomparable covers moves in the tighter direction as well as
	// present/absent mismatches that make the dimension incomparable.
	orderIncomparable
)

// Evaluate reports whether cand is a backup of main. It returns nil when no
// relation holds. Inputs are never mutated; the function is safe to call
// concurrently.
func Evaluate(main, cand *seed.Descriptor, mainPS, candPS int64, opts Options) *Relation {
	// Early rejection, short-circuiting: these guarantee the "no other
	// differences" safety rule before any dimension is compared.
	if main.Family != cand.Family {
		return nil
	}
	if len(main.Thresholds) != len(cand.Thresholds) {
		return nil
	}
	if !main.ResidualEqual(cand) {
		return nil
	}

	var (
		looser    int
		criterion Criterion
	)
	record := func(ord ordering, c Criterion) bool {
		switch ord {
		case orderIncomparable:
			return false
		case orderLooser:
			looser++
			criterion = c
		}
		return true
	}

	if !record(compareThresholds(main.Thresholds, cand.Thresholds), CriterionHigherThreshold) {
		return nil
	}
	if !record(compareEta(main.EtaRestriction, cand.EtaRestriction), CriterionLooserEta) {
		return nil
	}
	if !record(compareDR(main, cand), CriterionLooserDR) {
		return nil
	}
	if !record(compareMass(main, cand), CriterionWiderMass) {
		return nil
	}
	if !record(compareQuality(main.Quality, cand.Quality), CriterionLowerQuality) {
		return nil
	}
	if !record(compareIsolation(main.Isolation, cand.Isolation), CriterionLooserIsolation) {
		return nil
	}
	auxOrd, auxTag := compareAux(main.Aux, cand.Aux)
	if !record(auxOrd, AuxCriterion(auxTag)) {
		return nil
	}

	// Ties are not backup pairs: identical seeds have zero differing
	// dimensions.
	if looser != 1 {
		return nil
	}

	prescaleOK := candPS >= mainPS
	if !opts.NoPrescaleChecks && !prescaleOK {
		return nil
	}

	return &Relation{
		Main:       main.Name,
		Backup:     cand.Name,
		Criterion:  criterion,
		PrescaleOK: prescaleOK,
	}
}

// compareThresholds: the backup direction is a strictly higher cut in
// exactly one object slot, all other slots equal.
func compareThresholds(main, cand []float64) ordering {
	higher := 0
	for i := range main {
		switch {
		case cand[i] > main[i]:
			higher++
		case cand[i] < main[i]:
			return orderIncomparable
		}
	}
	switch higher {
	case 0:
		return orderEqual
	case 1:
		return orderLooser
	}
	return orderIncomparable
}

// compareEta: an absent restriction is the loosest value, so the backup
// direction is a larger bound or no bound at all.
func compareEta(main, cand *float64) ordering {
	switch {
	case main == nil && cand == nil:
		return orderEqual
	case main != nil && cand == nil:
		return orderLooser
	case main == nil:
		return orderIncomparable
	case *cand > *main:
		return orderLooser
	case *cand < *main:
		return orderIncomparable
	}
	return orderEqual
}

// compareDR treats the (dR_Min, dR_Max) pair as one dimension. The backup
// direction is a strictly larger (or absent) dR_Max or a strictly smaller
// (or absent) dR_Min. Loosening both bounds at once only counts when at
// least one side of the loosening involves an unset bound.
func compareDR(main, cand *seed.Descriptor) ordering {
	maxOrd := compareEta(main.DRMax, cand.DRMax) // same absent-is-loosest shape
	minOrd := compareLowerBound(main.DRMin, cand.DRMin)

	if maxOrd == orderIncomparable || minOrd == orderIncomparable {
		return orderIncomparable
	}
	if maxOrd == orderLooser && minOrd == orderLooser {
		bothSet := main.DRMax != nil && cand.DRMax != nil &&
			main.DRMin != nil && cand.DRMin != nil
		if bothSet {
			return orderIncomparable
		}
		return orderLooser
	}
	if maxOrd == orderLooser || minOrd == orderLooser {
		return orderLooser
	}
	return orderEqual
}

// compareLowerBound: for lower bounds the absent value is the smallest, so
// the backup direction is a strictly smaller or absent bound.
func compareLowerBound(main, cand *float64) ordering {
	switch {
	case main == nil && cand == nil:
		return orderEqual
	case main != nil && cand == nil:
		return orderLooser
	case main == nil:
		return orderIncomparable
	case *cand < *main:
		return orderLooser
	case *cand > *main:
		return orderIncomparable
	}
	return orderEqual
}

// compareMass: the backup direction is a strictly wider range. An absent
// range is unbounded and therefore wider than any explicit one.
func compareMass(main, cand *seed.Descriptor) ordering {
	mainSet := main.MassMin != nil && main.MassMax != nil
	candSet := cand.MassMin != nil && cand.MassMax != nil
	switch {
	case !mainSet && !candSet:
		return orderEqual
	case mainSet && !candSet:
		return orderLooser
	case !mainSet:
		return orderIncomparable
	}
	if *cand.MassMin > *main.MassMin || *cand.MassMax < *main.MassMax {
		return orderIncomparable
	}
	if *cand.MassMin < *main.MassMin || *cand.MassMax > *main.MassMax {
		return orderLooser
	}
	return orderEqual
}

// compareQuality: the backup direction is a strictly lower quality per the
// tightness ordering (SQ > DQ > open > none).
func compareQuality(main, cand seed.Quality) ordering {
	switch {
	case cand < main:
		return orderLooser
	case cand > main:
		return orderIncomparable
	}
	return orderEqual
}

// compareIsolation: the backup direction is a strictly lower isolation
// (Iso > LooseIso > none).
func compareIsolation(main, cand seed.Isolation) ordering {
	switch {
	case cand < main:
		return orderLooser
	case cand > main:
		return orderIncomparable
	}
	return orderEqual
}

// compareAux: exactly one tag present on both sides with a strictly higher
// candidate value is the backup direction; every other tag must match
// exactly, including both-absent. A tag present on only one side makes the
// pair incomparable.
func compareAux(main, cand map[seed.AuxTag]float64) (ordering, seed.AuxTag) {
	var (
		looser    int
		looserTag seed.AuxTag
	)
	seen := make(map[seed.AuxTag]bool, len(main)+len(cand))
	for tag := range main {
		seen[tag] = true
	}
	for tag := range cand {
		seen[tag] = true
	}
	for tag := range seen {
		mv, mok := main[tag]
		cv, cok := cand[tag]
		switch {
		case mok != cok:
			return orderIncomparable, ""
		case !mok:
			// both absent
		case cv > mv:
			looser++
			looserTag = tag
		case cv < mv:
			return orderIncomparable, ""
		}
	}
	switch looser {
	case 0:
		return orderEqual, ""
	case 1:
		return orderLooser, looserTag
	}
	return orderIncomparable, ""
}
