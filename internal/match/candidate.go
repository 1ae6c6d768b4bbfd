package match

import (
	"cmp"
	"reflect"
	"slices"
)

// DefaultSuggestionScore is the minimum score of a candidate suggested for an unmapped field.
const DefaultSuggestionScore = 0.5

const (
	nameWeight = 0.6
	typeWeight = 0.4
)

var compatibilityWeights = [...]float64{
	Incompatible:   0,
	NeedsTransform: 0.4,
	Convertible:    0.7,
	Assignable:     0.9,
	Identical:      1,
}

// Candidate is a source field that could feed a destination field.
type Candidate struct {
	Source reflect.StructField

	NameScore float64
	Compat    Compatibility
	// Score weighs the name similarity against the type compatibility, higher is better.
	Score float64
}

// CandidateList is ordered by descending score, then by source field name.
type CandidateList []Candidate

// RankCandidates scores the exported source fields against the destination field name and type.
func RankCandidates(name string, typ reflect.Type, sources []reflect.StructField) CandidateList {
	var res CandidateList

	for _, f := range sources {
		if !f.IsExported() {
			continue
		}

		c := Candidate{Source: f, NameScore: Similarity(f.Name, name), Compat: Compare(f.Type, typ)}
		c.Score = score(c.NameScore, c.Compat)
		res = append(res, c)
	}

	res.sort()

	return res
}

func score(name float64, compat Compatibility) float64 {
	return name*nameWeight + compatibilityWeights[compat]*typeWeight
}

func (c CandidateList) sort() {
	slices.SortStableFunc(c, func(a, b Candidate) int {
		if n := cmp.Compare(b.Score, a.Score); n != 0 {
			return n
		}

		return cmp.Compare(a.Source.Name, b.Source.Name)
	})
}

// Top keeps at most n candidates.
func (c CandidateList) Top(n int) CandidateList {
	return c[:min(n, len(c))]
}

// AboveThreshold keeps the candidates scoring at least threshold.
func (c CandidateList) AboveThreshold(threshold float64) CandidateList {
	return slices.DeleteFunc(slices.Clone(c), func(cand Candidate) bool {
		return cand.Score < threshold
	})
}

func (c CandidateList) Names() []string {
	names := make([]string, 0, len(c))
	for _, cand := range c {
		names = append(names, cand.Source.Name)
	}

	return names
}
