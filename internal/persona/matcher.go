package persona

import "sort"

// TopN is the number of ranked candidates returned by Match.
const TopN = 3

// Candidate is an archetype scored against a fingerprint.
type Candidate struct {
	Key        string  `json:"key"`
	Similarity float64 `json:"similarity"`
}

// MatchResult is the outcome of matching a fingerprint against a catalog.
type MatchResult struct {
	Key        string      `json:"key"`
	Similarity float64     `json:"similarity"`
	Top        []Candidate `json:"top"`
}

// Similarity scores a against b in [0, 1] as the weighted mean of per-trait
// ordinal closeness. A value outside its trait vocabulary scores 0.
func Similarity(a, b Fingerprint) float64 {
	var score, weights float64
	for _, t := range Traits() {
		w := t.Weight()
		score += traitScore(t, a.Value(t), b.Value(t)) * w
		weights += w
	}
	return score / weights
}

// CalculateSimilarity is an alias of Similarity.
func CalculateSimilarity(a, b Fingerprint) float64 {
	return Similarity(a, b)
}

func traitScore(t Trait, a, b string) float64 {
	ia, ib := t.index(a), t.index(b)
	if ia < 0 || ib < 0 {
		return 0
	}
	if ia == ib {
		return 1
	}
	d := ia - ib
	if d < 0 {
		d = -d
	}
	return 1 - float64(d)/float64(len(traitSpecs[t].vocab)-1)
}

// Rank scores fp against every archetype, best first. Equal scores keep
// catalog order.
func (c *Catalog) Rank(fp Fingerprint) []Candidate {
	out := make([]Candidate, len(c.archetypes))
	for i, a := range c.archetypes {
		out[i] = Candidate{Key: a.Key, Similarity: Similarity(fp, a.Fingerprint)}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Similarity > out[j].Similarity
	})
	return out
}

// Match returns the best archetype for fp together with the top candidates.
func (c *Catalog) Match(fp Fingerprint) MatchResult {
	ranked := c.Rank(fp)
	n := TopN
	if len(ranked) < n {
		n = len(ranked)
	}
	return MatchResult{
		Key:        ranked[0].Key,
		Similarity: ranked[0].Similarity,
		Top:        ranked[:n:n],
	}
}

// MatchPersona matches fp against the default catalog.
func MatchPersona(fp Fingerprint) MatchResult {
	return Default().Match(fp)
}
