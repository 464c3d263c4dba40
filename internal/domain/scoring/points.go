package scoring

import (
	"fmt"
	"math"
	"strconv"
)

// winnerTakesMoreTable holds the points for places 1 through 30.
var winnerTakesMoreTable = [...]float64{
	100, 85, 75, 67, 62, 58, 55, 52, 50, 48,
	46, 44, 42, 40, 38, 36, 34, 32, 30, 28,
	26, 24, 22, 20, 18, 16, 14, 12, 10, 5,
}

// WinnerTakesMoreTable returns a copy of the fixed table.
func WinnerTakesMoreTable() []float64 {
	out := make([]float64, len(winnerTakesMoreTable))
	copy(out, winnerTakesMoreTable[:])
	return out
}

// Points returns the points awarded at rank under cfg for a division of
// divisionSize athletes. P-Score is not positional and always yields 0 here;
// use CalculatePScore or CalculateEventPoints for it.
//
// Points panics when cfg.Algorithm is not a supported algorithm.
func Points(rank int, cfg Config, divisionSize int) float64 {
	switch cfg.Algorithm {
	case AlgorithmTraditional:
		return TraditionalPoints(rank, cfg.traditional(), divisionSize)
	case AlgorithmWinnerTakesMore:
		return WinnerTakesMorePoints(rank, cfg.WinnerTakesMore, divisionSize)
	case AlgorithmOnline:
		return OnlinePoints(rank)
	case AlgorithmCustom:
		return CustomPoints(rank, cfg.customTable(), cfg, divisionSize)
	case AlgorithmPScore:
		return 0
	default:
		panic(fmt.Errorf("%w: %q", ErrUnknownAlgorithm, string(cfg.Algorithm)))
	}
}

// TraditionalPoints deducts a fixed step per place from first place points,
// never going below zero. With AutoScale the step is spread over the
// division, rounded to the nearest half point with a minimum of 1, and
// places inside the division are floored at MinPoints.
func TraditionalPoints(rank int, cfg TraditionalConfig, divisionSize int) float64 {
	if rank < 1 {
		rank = 1
	}
	step := cfg.Step
	floor := 0.0
	if cfg.AutoScale && divisionSize > 1 {
		spread := (cfg.FirstPlacePoints - cfg.MinPoints) / float64(divisionSize-1)
		step = math.Max(1, math.Round(spread*2)/2)
		if rank <= divisionSize {
			floor = math.Max(0, cfg.MinPoints)
		}
	}
	points := math.Round(cfg.FirstPlacePoints - float64(rank-1)*step)
	return math.Max(floor, points)
}

// WinnerTakesMorePoints looks rank up in the front-loaded table. Without
// autoscaling places past 30 score 0. With autoscaling a division smaller
// than the table is stretched across it by linear interpolation, the last
// place is floored at the configured minimum, and places past the division
// receive the minimum.
func WinnerTakesMorePoints(rank int, cfg *WinnerTakesMoreConfig, divisionSize int) float64 {
	if rank < 1 {
		rank = 1
	}
	n := len(winnerTakesMoreTable)
	if cfg == nil || !cfg.AutoScale || divisionSize <= 1 {
		if rank > n {
			return 0
		}
		return winnerTakesMoreTable[rank-1]
	}

	minPoints := cfg.minPoints()
	if rank == 1 {
		return winnerTakesMoreTable[0]
	}
	if rank > divisionSize {
		return minPoints
	}
	if divisionSize >= n {
		return winnerTakesMoreTable[min(rank-1, n-1)]
	}

	position := float64(rank - 1)
	idx := position / float64(divisionSize-1) * float64(n-1)
	lo := int(math.Floor(idx))
	hi := min(lo+1, n-1)
	frac := idx - float64(lo)
	points := math.Round(winnerTakesMoreTable[lo] + (winnerTakesMoreTable[hi]-winnerTakesMoreTable[lo])*frac)
	if rank == divisionSize {
		points = math.Max(points, minPoints)
	}
	return points
}

// OnlinePoints awards one point per place. Lower totals win.
func OnlinePoints(rank int) float64 {
	return float64(max(1, rank))
}

// CustomPoints returns the override for rank when present, otherwise the
// base template's points. A base template other than winner_takes_more
// behaves as traditional.
func CustomPoints(rank int, table CustomTable, cfg Config, divisionSize int) float64 {
	if rank < 1 {
		rank = 1
	}
	if v, ok := table.Overrides[strconv.Itoa(rank)]; ok {
		return v
	}
	if table.BaseTemplate == AlgorithmWinnerTakesMore {
		return WinnerTakesMorePoints(rank, cfg.WinnerTakesMore, divisionSize)
	}
	return TraditionalPoints(rank, cfg.traditional(), divisionSize)
}

// PointsEntry is one row of a generated points table.
type PointsEntry struct {
	Place      int     `json:"place"`
	Points     float64 `json:"points"`
	Overridden bool    `json:"overridden"`
}

// GeneratePointsTable lists the points for places 1 through places under a
// positional config, marking places that come from custom overrides.
// P-Score has no table and yields nil.
func GeneratePointsTable(cfg Config, places, divisionSize int) []PointsEntry {
	if cfg.Algorithm == AlgorithmPScore || places <= 0 {
		return nil
	}
	out := make([]PointsEntry, 0, places)
	for place := 1; place <= places; place++ {
		e := PointsEntry{Place: place, Points: Points(place, cfg, divisionSize)}
		if cfg.Algorithm == AlgorithmCustom && cfg.CustomTable != nil {
			_, e.Overridden = cfg.CustomTable.Overrides[strconv.Itoa(place)]
		}
		out = append(out, e)
	}
	return out
}
