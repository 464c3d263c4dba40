package scoring

// partition splits scores into active (scored, cap) and inactive ones,
// keeping input order.
func partition(scores []Score) (active, inactive []Score) {
	for _, s := range scores {
		if s.Status.Active() {
			active = append(active, s)
		} else {
			inactive = append(inactive, s)
		}
	}
	return active, inactive
}

// resolveInactive places inactive athletes after lastActiveRank according
// to policy. pointsAt supplies the positional points for last_place and
// worst_performance; zeroPoints is what a zero policy awards. Excluded
// athletes are omitted.
func resolveInactive(inactive []Score, lastActiveRank int, policy StatusPolicy, pointsAt func(rank int) float64, zeroPoints float64) []Result {
	out := make([]Result, 0, len(inactive))
	rank := lastActiveRank + 1
	for _, s := range inactive {
		switch policy.For(s.Status) {
		case HandlingExclude:
			continue
		case HandlingZero:
			out = append(out, Result{AthleteID: s.AthleteID, Rank: rank, Points: zeroPoints})
		default:
			out = append(out, Result{AthleteID: s.AthleteID, Rank: rank, Points: pointsAt(rank)})
		}
	}
	return out
}
