package scoring

import "sort"

// Ranked pairs a score with its competition rank.
type Ranked struct {
	Score Score
	Rank  int
}

// AssignRanks sorts active scores best-first for scheme and assigns
// competition ranks: tied values share a rank and the next distinct value
// takes its 1-based position (1, 2, 2, 4). Under time-with-cap every capped
// score sorts after every scored one; a capped score adjacent to a scored
// one with the same value still shares its rank. The input slice is not
// modified.
func AssignRanks(scores []Score, scheme Scheme) []Ranked {
	if len(scores) == 0 {
		return nil
	}
	sorted := make([]Score, len(scores))
	copy(sorted, scores)
	sort.SliceStable(sorted, func(i, j int) bool {
		return better(sorted[i], sorted[j], scheme)
	})

	out := make([]Ranked, len(sorted))
	rank := 1
	for i, s := range sorted {
		if i > 0 && sorted[i-1].Value != s.Value {
			rank = i + 1
		}
		out[i] = Ranked{Score: s, Rank: rank}
	}
	return out
}

// better reports whether a strictly outperforms b.
func better(a, b Score, scheme Scheme) bool {
	if scheme == SchemeTimeWithCap {
		aCap, bCap := a.Status == StatusCap, b.Status == StatusCap
		if aCap != bCap {
			return bCap
		}
	}
	if scheme.Ascending() {
		return a.Value < b.Value
	}
	return a.Value > b.Value
}

// lastRank is the rank of the worst ranked entry, or 0 when none.
func lastRank(ranked []Ranked) int {
	if len(ranked) == 0 {
		return 0
	}
	return ranked[len(ranked)-1].Rank
}
