package scoring

import "fmt"

// Scheme classifies the raw metric of an event.
type Scheme string

// Recognised workout schemes.
const (
	SchemeTime        Scheme = "time"
	SchemeTimeWithCap Scheme = "time-with-cap"
	SchemeReps        Scheme = "reps"
	SchemeRoundsReps  Scheme = "rounds-reps"
	SchemeCalories    Scheme = "calories"
	SchemeLoad        Scheme = "load"
	SchemePoints      Scheme = "points"
	SchemePassFail    Scheme = "pass-fail"
	SchemeEMOM        Scheme = "emom"
	SchemeMeters      Scheme = "meters"
	SchemeFeet        Scheme = "feet"
)

// Ascending reports whether lower values are better.
func (s Scheme) Ascending() bool {
	return s == SchemeTime || s == SchemeTimeWithCap
}

// PScoreScheme collapses a scheme onto the five families P-Score knows about:
// time, time-with-cap, reps, load and points.
func (s Scheme) PScoreScheme() Scheme {
	switch s {
	case SchemeTime, SchemeTimeWithCap, SchemeReps, SchemeLoad:
		return s
	case SchemeRoundsReps, SchemeCalories:
		return SchemeReps
	default:
		return SchemePoints
	}
}

// Validate returns ErrUnknownScheme for schemes outside the catalogue.
func (s Scheme) Validate() error {
	switch s {
	case SchemeTime, SchemeTimeWithCap, SchemeReps, SchemeRoundsReps, SchemeCalories,
		SchemeLoad, SchemePoints, SchemePassFail, SchemeEMOM, SchemeMeters, SchemeFeet:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownScheme, string(s))
}
