package leaderboard

import (
	"strconv"
	"strings"

	"github.com/okian/wodboard/internal/domain/model"
	"github.com/okian/wodboard/internal/domain/scoring"
)

// Formatter renders a stored score for display.
type Formatter func(ev model.Event, rec model.ScoreRecord) string

// Option configures an aggregation.
type Option func(*options)

type options struct {
	division  string
	formatter Formatter
}

// WithDivision restricts the leaderboard to one division.
func WithDivision(division string) Option {
	return func(o *options) {
		o.division = division
	}
}

// WithFormatter sets the display formatter for raw values.
func WithFormatter(f Formatter) Option {
	return func(o *options) {
		if f != nil {
			o.formatter = f
		}
	}
}

// DefaultFormatter prints the raw value, marking capped scores and
// replacing inactive ones with their status.
func DefaultFormatter(_ model.Event, rec model.ScoreRecord) string {
	switch rec.Status {
	case scoring.StatusScored:
		return strconv.FormatFloat(rec.Value, 'f', -1, 64)
	case scoring.StatusCap:
		return strconv.FormatFloat(rec.Value, 'f', -1, 64) + " (cap)"
	default:
		return strings.ToUpper(string(rec.Status))
	}
}
