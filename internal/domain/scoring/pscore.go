package scoring

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// CalculatePScore scores every athlete by margin relative to the winner.
// The best active value earns 100 and the reference median earns 50; the
// rest are placed linearly on that scale and rounded to two decimals.
// Active athletes get competition ranks. Inactive athletes score 0 and share
// the rank after the active field, except those whose policy is exclude.
func CalculatePScore(scores []Score, scheme Scheme, cfg PScoreConfig, policy StatusPolicy) []Result {
	if len(scores) == 0 {
		return nil
	}
	scheme = scheme.PScoreScheme()

	active, inactive := partition(scores)
	ranked := AssignRanks(active, scheme)
	out := make([]Result, 0, len(scores))

	if len(ranked) > 0 {
		best := ranked[0].Score.Value
		median := pScoreMedian(ranked, cfg.MedianField)
		spread := math.Abs(median - best)
		for _, r := range ranked {
			points := 100.0
			if spread != 0 {
				delta := r.Score.Value - best
				if !scheme.Ascending() {
					delta = best - r.Score.Value
				}
				points = 100 - delta*(50/spread)
			}
			if !cfg.AllowNegatives && points < 0 {
				points = 0
			}
			out = append(out, Result{AthleteID: r.Score.AthleteID, Rank: r.Rank, Points: round2(points)})
		}
	}

	rank := len(ranked) + 1
	for _, s := range inactive {
		if policy.For(s.Status) == HandlingExclude {
			continue
		}
		out = append(out, Result{AthleteID: s.AthleteID, Rank: rank})
	}
	return out
}

// pScoreMedian picks the reference value from scored athletes only,
// falling back to the leading value when every active athlete is capped.
func pScoreMedian(ranked []Ranked, field MedianField) float64 {
	values := make([]float64, 0, len(ranked))
	for _, r := range ranked {
		if r.Score.Status == StatusScored {
			values = append(values, r.Score.Value)
		}
	}
	if len(values) == 0 {
		return ranked[0].Score.Value
	}
	n := len(values)
	if field == MedianAll {
		sorted := append([]float64(nil), values...)
		sort.Float64s(sorted)
		if n%2 == 1 {
			return sorted[n/2]
		}
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	// values are already best-first.
	return values[(n+1)/2-1]
}

func round2(v float64) float64 {
	out := decimal.NewFromFloat(v).Round(2).InexactFloat64()
	if out == 0 {
		return 0
	}
	return out
}
