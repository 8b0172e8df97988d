package seed

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	familyRe   = regexp.MustCompile(`^L1_(Single|Double|Triple|Quad)?(LooseIso|Iso)?(Mu|EG|Jet|Tau)`)
	attachedRe = regexp.MustCompile(`^\d+(?:p\d+)?`)
	slotRe     = regexp.MustCompile(`^_(\d+(?:p\d+)?)`)

	drMaxRe = regexp.MustCompile(`dR_Max(\d+(?:p\d+)?)`)
	drMinRe = regexp.MustCompile(`dR_Min(\d+(?:p\d+)?)`)
	massRe  = regexp.MustCompile(`Mass_?(\d+(?:p\d+)?)to(\d+(?:p\d+)?)`)
	etaRe   = regexp.MustCompile(`er(\d+(?:p\d+)?)`)

	// One pattern per aux tag: the literal tag followed by its numeric
	// suffix, matched anywhere in the unconsumed part of the name.
	auxRes = buildAuxPatterns()
)

func buildAuxPatterns() map[AuxTag]*regexp.Regexp {
	res := make(map[AuxTag]*regexp.Regexp, len(auxTags))
	for _, tag := range auxTags {
		res[tag] = regexp.MustCompile(regexp.QuoteMeta(string(tag)) + `(\d+(?:p\d+)?)`)
	}
	return res
}

var multiplicityArity = map[string]int{
	"":       1,
	"Single": 1,
	"Double": 2,
	"Triple": 3,
	"Quad":   4,
}

// defaultMuonQuality maps object arity to the quality implied when the seed
// name carries no explicit SQ/DQ/OQ token.
var defaultMuonQuality = map[int]Quality{
	1: QualitySingle,
	2: QualityDouble,
	3: QualityDouble,
	4: QualityDouble,
}

// Parse decomposes a seed name into a Descriptor. It returns
// *UnsupportedFormatError when the family or per-object thresholds cannot
// be determined; anything it recognizes beyond that is consumed into the
// corresponding field and everything else lands in Residual.
func Parse(name string) (*Descriptor, error) {
	m := familyRe.FindStringSubmatch(name)
	if m == nil {
		return nil, &UnsupportedFormatError{Name: name, Reason: "family/object-count not recognized"}
	}

	d := &Descriptor{
		Name: name,
		Family: Family{
			Arity:  multiplicityArity[m[1]],
			Object: ObjectType(m[3]),
		},
		Aux: make(map[AuxTag]float64),
	}
	switch m[2] {
	case "LooseIso":
		d.Isolation = IsolationLoose
	case "Iso":
		d.Isolation = IsolationTight
	}

	rest := name[len(m[0]):]
	rest, err := parseThresholds(d, rest)
	if err != nil {
		return nil, err
	}

	parseCuts(d, rest)

	if d.Quality == QualityNone && d.Family.Object == ObjectMu {
		d.Quality = defaultMuonQuality[d.Family.Arity]
	}
	return d, nil
}

// parseThresholds consumes the per-object cut values directly following the
// family token: either a single attached value replicated across all slots
// ("DoubleMu0") or a positional underscore-separated list ("DoubleMu_15_7").
func parseThresholds(d *Descriptor, rest string) (string, error) {
	arity := d.Family.Arity

	if m := attachedRe.FindString(rest); m != "" {
		v, ok := parseNum(m)
		if !ok {
			return "", &UnsupportedFormatError{Name: d.Name, Reason: "malformed threshold " + m}
		}
		d.Thresholds = make([]float64, arity)
		for i := range d.Thresholds {
			d.Thresholds[i] = v
		}
		return rest[len(m):], nil
	}

	d.Thresholds = make([]float64, 0, arity)
	for len(d.Thresholds) < arity {
		m := slotRe.FindStringSubmatch(rest)
		if m == nil {
			return "", &UnsupportedFormatError{
				Name:   d.Name,
				Reason: "threshold list does not match object count",
			}
		}
		v, ok := parseNum(m[1])
		if !ok {
			return "", &UnsupportedFormatError{Name: d.Name, Reason: "malformed threshold " + m[1]}
		}
		d.Thresholds = append(d.Thresholds, v)
		rest = rest[len(m[0]):]
	}
	return rest, nil
}

// parseCuts extracts every optional cut from the remainder of the name.
// Numeric-suffix patterns are removed by regex scan first (position in the
// string does not matter), then the leftover underscore tokens are walked
// for quality and isolation markers. Whatever survives both passes is the
// residual.
func parseCuts(d *Descriptor, rest string) {
	rest = extractFirst(rest, drMaxRe, func(vals []string) {
		d.DRMax = numPtr(vals[0])
	})
	rest = extractFirst(rest, drMinRe, func(vals []string) {
		d.DRMin = numPtr(vals[0])
	})
	rest = extractFirst(rest, auxRes[AuxMassMin], func(vals []string) {
		if v, ok := parseNum(vals[0]); ok {
			d.Aux[AuxMassMin] = v
		}
	})
	rest = extractFirst(rest, massRe, func(vals []string) {
		d.MassMin = numPtr(vals[0])
		d.MassMax = numPtr(vals[1])
	})
	for _, tag := range auxTags {
		if tag == AuxMassMin {
			continue
		}
		tag := tag
		rest = extractFirst(rest, auxRes[tag], func(vals []string) {
			if v, ok := parseNum(vals[0]); ok {
				d.Aux[tag] = v
			}
		})
	}
	rest = extractFirst(rest, etaRe, func(vals []string) {
		d.EtaRestriction = numPtr(vals[0])
	})

	for _, tok := range strings.Split(rest, "_") {
		switch {
		case tok == "":
		case tok == "SQ" && !d.QualityExplicit:
			d.Quality = QualitySingle
			d.QualityExplicit = true
		case tok == "DQ" && !d.QualityExplicit:
			d.Quality = QualityDouble
			d.QualityExplicit = true
		case tok == "OQ" && !d.QualityExplicit:
			d.Quality = QualityOpen
			d.QualityExplicit = true
		case tok == "LooseIso" && d.Isolation == IsolationNone:
			d.Isolation = IsolationLoose
		case tok == "Iso" && d.Isolation == IsolationNone:
			d.Isolation = IsolationTight
		default:
			d.Residual = append(d.Residual, tok)
		}
	}
}

// extractFirst removes the first match of re from s, hands the capture
// groups to fn, and returns s with the match replaced by a separator so
// neighboring tokens do not fuse. Later matches of the same pattern are
// deliberately left in place and end up in the residual.
func extractFirst(s string, re *regexp.Regexp, fn func(vals []string)) string {
	loc := re.FindStringSubmatchIndex(s)
	if loc == nil {
		return s
	}
	vals := make([]string, 0, len(loc)/2-1)
	for i := 2; i < len(loc); i += 2 {
		vals = append(vals, s[loc[i]:loc[i+1]])
	}
	fn(vals)
	return s[:loc[0]] + "_" + s[loc[1]:]
}

// parseNum converts a cut value using the seed-name decimal convention
// ("1p2" means 1.2).
func parseNum(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, "p", "."), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func numPtr(s string) *float64 {
	if v, ok := parseNum(s); ok {
		return &v
	}
	return nil
}
