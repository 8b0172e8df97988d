// Package seed decomposes L1 trigger seed names into structured, comparable
// descriptors. Parsing is pure and deterministic: a given name always yields
// the same descriptor, and descriptors never share mutable state, so the
// package is safe to call concurrently per name.
package seed

import (
	"fmt"
	"sort"
	"strings"
)

// ObjectType is the trigger object counted by a seed family.
type ObjectType string

const (
	ObjectMu  ObjectType = "Mu"
	ObjectEG  ObjectType = "EG"
	ObjectJet ObjectType = "Jet"
	ObjectTau ObjectType = "Tau"
)

// Family is the object-multiplicity/type signature of a seed. Two seeds can
// only ever be compared when their families match exactly.
type Family struct {
	Arity  int
	Object ObjectType
}

// String renders the family the way it appears in seed names ("DoubleMu").
func (f Family) String() string {
	return multiplicityName(f.Arity) + string(f.Object)
}

func multiplicityName(arity int) string {
	switch arity {
	case 1:
		return "Single"
	case 2:
		return "Double"
	case 3:
		return "Triple"
	case 4:
		return "Quad"
	}
	return fmt.Sprintf("x%d", arity)
}

// Quality is the muon quality requirement, ordered by tightness:
// none < OQ < DQ < SQ. SQ ("single" quality) is the tightest cut,
// OQ ("open" quality) the loosest explicit one.
type Quality int

const (
	QualityNone Quality = iota
	QualityOpen
	QualityDouble // DQ
	QualitySingle // SQ
)

// String returns the token used in seed names, or "" for implicit values.
func (q Quality) String() string {
	switch q {
	case QualityOpen:
		return "OQ"
	case QualityDouble:
		return "DQ"
	case QualitySingle:
		return "SQ"
	}
	return ""
}

// Isolation is the isolation requirement, ordered by tightness:
// none < LooseIso < Iso.
type Isolation int

const (
	IsolationNone Isolation = iota
	IsolationLoose
	IsolationTight
)

func (i Isolation) String() string {
	switch i {
	case IsolationLoose:
		return "LooseIso"
	case IsolationTight:
		return "Iso"
	}
	return ""
}

// AuxTag names an auxiliary threshold cut that may appear anywhere in a seed
// name as the literal tag followed by a numeric suffix (e.g. "HTT240").
type AuxTag string

const (
	AuxEG      AuxTag = "EG"
	AuxETMHF   AuxTag = "ETMHF"
	AuxHTT     AuxTag = "HTT"
	AuxMt      AuxTag = "Mt"
	AuxTau     AuxTag = "Tau"
	AuxMassMin AuxTag = "Mass_Min"
)

// auxTags lists the supported tags in extraction order. Longer tags come
// before tags that are a prefix of them so "ETMHF" is never consumed as "Mt".
var auxTags = []AuxTag{AuxMassMin, AuxETMHF, AuxHTT, AuxEG, AuxMt, AuxTau}

// Record is one row of a prescale table: a seed name and its prescale value.
// Prescale 0 conventionally means the seed is disabled.
type Record struct {
	Name     string
	Prescale int64
}

// Descriptor is the structured form of a seed name. All fields are value
// types or owned slices/maps; a Descriptor is never mutated after Parse
// returns it.
type Descriptor struct {
	// Name is the raw seed name the descriptor was parsed from.
	Name string

	// Family is the multiplicity/object signature (e.g. double muon).
	Family Family

	// Thresholds holds one per-object cut value per slot, Family.Arity long.
	Thresholds []float64

	// EtaRestriction is the "er" bound, nil when unrestricted. An absent
	// restriction is the loosest possible value.
	EtaRestriction *float64

	// DRMin and DRMax bound the angular separation between objects, each
	// independently optional.
	DRMin *float64
	DRMax *float64

	// MassMin and MassMax hold a "MassXtoY" range; both set or both nil.
	MassMin *float64
	MassMax *float64

	// Quality is the muon quality, defaulted by family when not explicit
	// in the name (SQ for single-muon seeds, DQ for multi-muon seeds).
	Quality Quality

	// QualityExplicit records whether the quality token appeared in the
	// name, so CanonicalName can round-trip defaults faithfully.
	QualityExplicit bool

	// Isolation is the isolation requirement, IsolationNone when absent.
	Isolation Isolation

	// Aux maps auxiliary tags to their thresholds, each independently
	// optional.
	Aux map[AuxTag]float64

	// Residual collects every identifier substring the parser did not
	// consume. Two seeds whose residual tokens differ can never be in a
	// backup relation.
	Residual []string
}

// ResidualEqual reports whether two descriptors carry the same unconsumed
// tokens in the same order.
func (d *Descriptor) ResidualEqual(other *Descriptor) bool {
	if len(d.Residual) != len(other.Residual) {
		return false
	}
	for i, tok := range d.Residual {
		if other.Residual[i] != tok {
			return false
		}
	}
	return true
}

// CanonicalName re-serializes the descriptor into a seed name that parses
// back to an equal descriptor. Field order is fixed so the output is
// deterministic regardless of the token order in the source name.
func (d *Descriptor) CanonicalName() string {
	var b strings.Builder
	b.WriteString("L1_")
	b.WriteString(d.Family.String())

	uniform := true
	for _, v := range d.Thresholds[1:] {
		if v != d.Thresholds[0] {
			uniform = false
			break
		}
	}
	if uniform {
		b.WriteString(formatNum(d.Thresholds[0]))
	} else {
		for _, v := range d.Thresholds {
			b.WriteString("_")
			b.WriteString(formatNum(v))
		}
	}

	if d.EtaRestriction != nil {
		b.WriteString("er")
		b.WriteString(formatNum(*d.EtaRestriction))
	}
	if d.QualityExplicit {
		b.WriteString("_")
		b.WriteString(d.Quality.String())
	}
	if d.Isolation != IsolationNone {
		b.WriteString("_")
		b.WriteString(d.Isolation.String())
	}
	if d.MassMin != nil && d.MassMax != nil {
		b.WriteString("_Mass")
		b.WriteString(formatNum(*d.MassMin))
		b.WriteString("to")
		b.WriteString(formatNum(*d.MassMax))
	}
	if d.DRMin != nil {
		b.WriteString("_dR_Min")
		b.WriteString(formatNum(*d.DRMin))
	}
	if d.DRMax != nil {
		b.WriteString("_dR_Max")
		b.WriteString(formatNum(*d.DRMax))
	}
	for _, tag := range sortedAuxTags(d.Aux) {
		b.WriteString("_")
		b.WriteString(string(tag))
		b.WriteString(formatNum(d.Aux[tag]))
	}
	for _, tok := range d.Residual {
		b.WriteString("_")
		b.WriteString(tok)
	}
	return b.String()
}

func sortedAuxTags(aux map[AuxTag]float64) []AuxTag {
	tags := make([]AuxTag, 0, len(aux))
	for tag := range aux {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}

// formatNum renders a cut value using the seed-name decimal convention
// ("2p1" for 2.1, "15" for 15).
func formatNum(v float64) string {
	s := fmt.Sprintf("%g", v)
	return strings.ReplaceAll(s, ".", "p")
}
