// Package partition aggregates pairwise dominance decisions over a whole
// prescale table into a final backup/signal partition, together with the
// evidence that justifies every decision.
package partition

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"

	"github.com/lvlath/go/core"
	"github.com/lvlath/go/dfs"
	"golang.org/x/sync/errgroup"

	"psclassify/internal/dominance"
	"psclassify/internal/seed"
)

// BackupMatch is one piece of evidence for a backup classification: the
// main seed the backup matched, the criterion that matched, and the
// backup's own prescale.
type BackupMatch struct {
	Main      string
	Criterion dominance.Criterion
	Prescale  int64
}

// Result is the final classification of a table. It is built once per run
// and never mutated afterwards.
type Result struct {
	// Backups maps each backup seed name to every distinct relation found
	// for it. A backup legitimately matching more than one main reports
	// all of them.
	Backups map[string][]BackupMatch

	// Signals lists seeds with no outgoing backup relation, sorted.
	Signals []string

	// Unparsed lists seeds the parser could not decompose, sorted. They
	// are neither proven signal nor backup.
	Unparsed []string

	// Cycles holds any backup-of cycles found in the relation graph
	// (A backup-of B, B backup-of C, C backup-of A). They are surfaced as
	// a diagnostic; no resolution order is guessed.
	Cycles [][]string

	// Prescales keeps the input prescale per eligible seed so reporting
	// layers can filter output rows without re-reading the table.
	Prescales map[string]int64
}

// Options controls a classification run.
type Options struct {
	dominance.Options

	// KnownBackups are names force-classified as backups without
	// evaluation, merged into the result with the manual-override
	// criterion.
	KnownBackups []string

	// Workers bounds the number of goroutines evaluating pairs.
	// Zero means runtime.NumCPU().
	Workers int
}

// Classify runs the evaluator over every ordered pair of eligible records
// and resolves the relation set into a partition. For a fixed input and
// options the result is identical on every run.
func Classify(ctx context.Context, records []seed.Record, opts Options) (*Result, error) {
	if opts.Workers < 0 {
		return nil, fmt.Errorf("partition: workers must be >= 0, got %d", opts.Workers)
	}

	byName := make(map[string]seed.Record, len(records))
	for _, rec := range records {
		if _, dup := byName[rec.Name]; dup {
			return nil, fmt.Errorf("partition: duplicate seed name %q", rec.Name)
		}
		byName[rec.Name] = rec
	}

	res := &Result{
		Backups:   make(map[string][]BackupMatch),
		Prescales: make(map[string]int64),
	}

	known := make(map[string]bool, len(opts.KnownBackups))
	for _, name := range opts.KnownBackups {
		known[name] = true
	}

	// Parse every name up front. Unparsed records are reported, never
	// silently dropped. Known backups bypass parsing and evaluation
	// entirely.
	descriptors := make(map[string]*seed.Descriptor, len(records))
	var eligible []string
	for _, rec := range records {
		if !opts.KeepZeroPrescales && rec.Prescale == 0 {
			continue
		}
		if known[rec.Name] {
			res.Backups[rec.Name] = []BackupMatch{{
				Criterion: dominance.CriterionManualOverride,
				Prescale:  rec.Prescale,
			}}
			res.Prescales[rec.Name] = rec.Prescale
			continue
		}
		d, err := seed.Parse(rec.Name)
		if err != nil {
			var unsupported *seed.UnsupportedFormatError
			if errors.As(err, &unsupported) {
				res.Unparsed = append(res.Unparsed, rec.Name)
				continue
			}
			return nil, fmt.Errorf("partition: parse %q: %w", rec.Name, err)
		}
		descriptors[rec.Name] = d
		res.Prescales[rec.Name] = rec.Prescale
		eligible = append(eligible, rec.Name)
	}
	sort.Strings(eligible)
	sort.Strings(res.Unparsed)

	relations, err := evaluateAll(ctx, eligible, descriptors, byName, opts)
	if err != nil {
		return nil, err
	}

	for _, rel := range relations {
		res.Backups[rel.Backup] = append(res.Backups[rel.Backup], BackupMatch{
			Main:      rel.Main,
			Criterion: rel.Criterion,
			Prescale:  byName[rel.Backup].Prescale,
		})
	}
	for _, matches := range res.Backups {
		sort.Slice(matches, func(i, j int) bool {
			if matches[i].Main != matches[j].Main {
				return matches[i].Main < matches[j].Main
			}
			return matches[i].Criterion < matches[j].Criterion
		})
	}

	for _, name := range eligible {
		if _, isBackup := res.Backups[name]; !isBackup {
			res.Signals = append(res.Signals, name)
		}
	}

	res.Cycles, err = findCycles(relations)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// evaluateAll runs the pairwise evaluator over all ordered pairs. Each
// worker owns its slot of the results slice, so no synchronization is
// needed beyond the final merge: descriptors are immutable and evaluation
// of one pair never depends on another.
func evaluateAll(ctx context.Context, names []string, descriptors map[string]*seed.Descriptor,
	byName map[string]seed.Record, opts Options) ([]dominance.Relation, error) {

	workers := opts.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}

	perMain := make([][]dominance.Relation, len(names))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, mainName := range names {
		i, mainName := i, mainName
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			main := descriptors[mainName]
			mainPS := byName[mainName].Prescale
			for _, candName := range names {
				if candName == mainName {
					continue
				}
				rel := dominance.Evaluate(main, descriptors[candName], mainPS,
					byName[candName].Prescale, opts.Options)
				if rel != nil {
					perMain[i] = append(perMain[i], *rel)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var relations []dominance.Relation
	for _, rels := range perMain {
		relations = append(relations, rels...)
	}
	return relations, nil
}

// findCycles builds the backup-of digraph (edge backup -> main) and
// enumerates any cycles in it.
func findCycles(relations []dominance.Relation) ([][]string, error) {
	if len(relations) == 0 {
		return nil, nil
	}
	g, err := core.NewGraph(core.WithDirected(true))
	if err != nil {
		return nil, fmt.Errorf("partition: relation graph: %w", err)
	}
	seen := make(map[[2]string]bool, len(relations))
	for _, rel := range relations {
		key := [2]string{rel.Backup, rel.Main}
		if seen[key] {
			continue
		}
		seen[key] = true
		if _, err := g.AddEdge(rel.Backup, rel.Main, 0); err != nil {
			return nil, fmt.Errorf("partition: relation graph: %w", err)
		}
	}
	detected, err := dfs.DetectCycles(g)
	if err != nil {
		return nil, fmt.Errorf("partition: cycle detection: %w", err)
	}
	if !detected.HasCycle {
		return nil, nil
	}
	return detected.Cycles, nil
}
