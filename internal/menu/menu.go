// Package menu reads L1 trigger menu XML files. Only the algorithm names
// and their indices are consumed; the rest of the menu is irrelevant to
// prescale bookkeeping.
package menu

import (
	"encoding/xml"
	"fmt"
	"os"
	"sort"
)

// Algorithm is one seed definition in a menu: its name and menu index.
type Algorithm struct {
	Name  string
	Index int
}

type xmlMenu struct {
	Algorithms []xmlAlgorithm `xml:"algorithm"`
}

type xmlAlgorithm struct {
	Name  string `xml:"name"`
	Index int    `xml:"index"`
}

// ParseXML reads a menu file and returns its algorithms sorted by index.
func ParseXML(path string) ([]Algorithm, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("menu: open %s: %w", path, err)
	}
	var m xmlMenu
	if err := xml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("menu: parse %s: %w", path, err)
	}
	if len(m.Algorithms) == 0 {
		return nil, fmt.Errorf("menu: no algorithm elements in %s", path)
	}

	algos := make([]Algorithm, 0, len(m.Algorithms))
	for _, a := range m.Algorithms {
		if a.Name == "" {
			return nil, fmt.Errorf("menu: algorithm with index %d has no name", a.Index)
		}
		algos = append(algos, Algorithm{Name: a.Name, Index: a.Index})
	}
	sort.Slice(algos, func(i, j int) bool { return algos[i].Index < algos[j].Index })
	return algos, nil
}
