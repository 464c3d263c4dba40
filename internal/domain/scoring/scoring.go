// Package scoring ranks the scores of one event within one division and
// converts ranks into points under the configured algorithm.
//
// Everything in this package is a pure function of its inputs. Nothing is
// cached, nothing is logged and no input is mutated, so callers may run
// computations for different events or divisions concurrently and may
// recompute from scratch after any score edit.
package scoring

import "strings"

// Status describes how an athlete finished an event.
type Status string

// Recognised score statuses.
const (
	StatusScored    Status = "scored"
	StatusCap       Status = "cap"
	StatusDNF       Status = "dnf"
	StatusDNS       Status = "dns"
	StatusWithdrawn Status = "withdrawn"
)

// Active reports whether the status takes part in performance ranking.
func (s Status) Active() bool {
	return s == StatusScored || s == StatusCap
}

// ParseStatus maps a stored status onto the engine's statuses.
// Disqualifications count as DNF; unknown and empty values count as DNS.
func ParseStatus(s string) Status {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "scored":
		return StatusScored
	case "cap":
		return StatusCap
	case "dq", "dnf":
		return StatusDNF
	case "withdrawn":
		return StatusWithdrawn
	default:
		return StatusDNS
	}
}

// Score is one athlete's encoded performance in one event.
// Value comparison direction is decided by the event's Scheme.
type Score struct {
	AthleteID string  `json:"athlete_id" yaml:"athlete_id"`
	Value     float64 `json:"value" yaml:"value"`
	Status    Status  `json:"status" yaml:"status"`
}

// Result is the derived placing of one athlete in one event.
type Result struct {
	AthleteID string  `json:"athlete_id"`
	Rank      int     `json:"rank"`
	Points    float64 `json:"points"`
}
