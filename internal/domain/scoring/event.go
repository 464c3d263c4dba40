package scoring

import "fmt"

// CalculateEventPoints ranks one event's scores within one division and
// awards points under cfg. divisionSize drives autoscaling; when it is not
// positive the number of scores is used. The result maps athlete id to its
// placing and is empty for empty input.
//
// It panics when cfg.Algorithm is not a supported algorithm.
func CalculateEventPoints(scores []Score, scheme Scheme, cfg Config, divisionSize int) map[string]Result {
	if !cfg.Algorithm.Valid() {
		panic(fmt.Errorf("%w: %q", ErrUnknownAlgorithm, string(cfg.Algorithm)))
	}
	out := make(map[string]Result, len(scores))
	if len(scores) == 0 {
		return out
	}
	if divisionSize <= 0 {
		divisionSize = len(scores)
	}

	if cfg.Algorithm == AlgorithmPScore {
		for _, r := range CalculatePScore(scores, scheme, cfg.pScore(), cfg.StatusHandling) {
			out[r.AthleteID] = r
		}
		return out
	}

	pointsAt := func(rank int) float64 { return Points(rank, cfg, divisionSize) }

	active, inactive := partition(scores)
	ranked := AssignRanks(active, scheme)
	for _, r := range ranked {
		out[r.Score.AthleteID] = Result{AthleteID: r.Score.AthleteID, Rank: r.Rank, Points: pointsAt(r.Rank)}
	}

	// Under online a smaller total wins, so a literal 0 would be the best
	// possible result. Zero there means one worse than every participant.
	zero := 0.0
	if cfg.Algorithm == AlgorithmOnline {
		zero = float64(len(scores) + 1)
	}
	for _, r := range resolveInactive(inactive, lastRank(ranked), cfg.StatusHandling, pointsAt, zero) {
		out[r.AthleteID] = r
	}
	return out
}
