package scoring

import (
	"errors"
	"fmt"
)

// Algorithm names a points algorithm.
type Algorithm string

// Supported algorithms.
const (
	AlgorithmTraditional     Algorithm = "traditional"
	AlgorithmPScore          Algorithm = "p_score"
	AlgorithmWinnerTakesMore Algorithm = "winner_takes_more"
	AlgorithmOnline          Algorithm = "online"
	AlgorithmCustom          Algorithm = "custom"
)

// Algorithms lists every supported algorithm in display order.
func Algorithms() []Algorithm {
	return []Algorithm{
		AlgorithmTraditional,
		AlgorithmPScore,
		AlgorithmWinnerTakesMore,
		AlgorithmOnline,
		AlgorithmCustom,
	}
}

// Valid reports whether a is one of the supported algorithms.
func (a Algorithm) Valid() bool {
	switch a {
	case AlgorithmTraditional, AlgorithmPScore, AlgorithmWinnerTakesMore, AlgorithmOnline, AlgorithmCustom:
		return true
	}
	return false
}

// DisplayName returns a human readable label.
func (a Algorithm) DisplayName() string {
	switch a {
	case AlgorithmTraditional:
		return "Traditional"
	case AlgorithmPScore:
		return "P-Score"
	case AlgorithmWinnerTakesMore:
		return "Winner Takes More"
	case AlgorithmOnline:
		return "Online"
	case AlgorithmCustom:
		return "Custom"
	}
	return string(a)
}

// LowerIsBetter reports whether smaller point totals win.
func (a Algorithm) LowerIsBetter() bool {
	return a == AlgorithmOnline
}

// StatusHandling is the policy applied to an inactive status.
type StatusHandling string

// Inactive status policies. LastPlace and WorstPerformance behave the same.
const (
	HandlingLastPlace        StatusHandling = "last_place"
	HandlingWorstPerformance StatusHandling = "worst_performance"
	HandlingZero             StatusHandling = "zero"
	HandlingExclude          StatusHandling = "exclude"
)

func (h StatusHandling) valid() bool {
	switch h {
	case "", HandlingLastPlace, HandlingWorstPerformance, HandlingZero, HandlingExclude:
		return true
	}
	return false
}

// StatusPolicy assigns a handling to each inactive status. Empty fields
// fall back to the defaults: dnf last_place, dns zero, withdrawn exclude.
type StatusPolicy struct {
	DNF       StatusHandling `json:"dnf,omitempty" yaml:"dnf,omitempty" koanf:"dnf"`
	DNS       StatusHandling `json:"dns,omitempty" yaml:"dns,omitempty" koanf:"dns"`
	Withdrawn StatusHandling `json:"withdrawn,omitempty" yaml:"withdrawn,omitempty" koanf:"withdrawn"`
}

// For returns the effective handling of status s.
func (p StatusPolicy) For(s Status) StatusHandling {
	switch s {
	case StatusDNF:
		if p.DNF != "" {
			return p.DNF
		}
		return HandlingLastPlace
	case StatusDNS:
		if p.DNS != "" {
			return p.DNS
		}
		return HandlingZero
	case StatusWithdrawn:
		if p.Withdrawn != "" {
			return p.Withdrawn
		}
		return HandlingExclude
	}
	return HandlingLastPlace
}

// TraditionalConfig configures fixed-step placement points.
type TraditionalConfig struct {
	FirstPlacePoints float64 `json:"first_place_points" yaml:"first_place_points" koanf:"first_place_points"`
	Step             float64 `json:"step" yaml:"step" koanf:"step"`
	AutoScale        bool    `json:"auto_scale,omitempty" yaml:"auto_scale,omitempty" koanf:"auto_scale"`
	MinPoints        float64 `json:"min_points,omitempty" yaml:"min_points,omitempty" koanf:"min_points"`
}

// WinnerTakesMoreConfig configures the front-loaded table.
// A nil MinPoints means the default floor of 5.
type WinnerTakesMoreConfig struct {
	AutoScale bool `json:"auto_scale,omitempty" yaml:"auto_scale,omitempty" koanf:"auto_scale"`
	MinPoints *int `json:"min_points,omitempty" yaml:"min_points,omitempty" koanf:"min_points"`
}

func (c *WinnerTakesMoreConfig) minPoints() float64 {
	if c == nil || c.MinPoints == nil {
		return defaultWinnerMinPoints
	}
	return float64(*c.MinPoints)
}

// MedianField selects the reference performance for P-Score.
type MedianField string

// Median sources.
const (
	MedianTopHalf MedianField = "top_half"
	MedianAll     MedianField = "all"
)

// PScoreConfig configures performance-margin scoring.
type PScoreConfig struct {
	AllowNegatives bool        `json:"allow_negatives" yaml:"allow_negatives" koanf:"allow_negatives"`
	MedianField    MedianField `json:"median_field" yaml:"median_field" koanf:"median_field"`
}

// CustomTable is a positional template with per-place overrides keyed by
// the decimal place number.
type CustomTable struct {
	BaseTemplate Algorithm          `json:"base_template" yaml:"base_template" koanf:"base_template"`
	Overrides    map[string]float64 `json:"overrides,omitempty" yaml:"overrides,omitempty" koanf:"overrides"`
}

// Config selects and parameterises the algorithm used for an event.
// Nil sections use their defaults.
type Config struct {
	Algorithm       Algorithm              `json:"algorithm" yaml:"algorithm" koanf:"algorithm"`
	Traditional     *TraditionalConfig     `json:"traditional,omitempty" yaml:"traditional,omitempty" koanf:"traditional"`
	WinnerTakesMore *WinnerTakesMoreConfig `json:"winner_takes_more,omitempty" yaml:"winner_takes_more,omitempty" koanf:"winner_takes_more"`
	PScore          *PScoreConfig          `json:"p_score,omitempty" yaml:"p_score,omitempty" koanf:"p_score"`
	CustomTable     *CustomTable           `json:"custom_table,omitempty" yaml:"custom_table,omitempty" koanf:"custom_table"`
	StatusHandling  StatusPolicy           `json:"status_handling" yaml:"status_handling" koanf:"status_handling"`
}

// Validate reports configuration mistakes. The calculators themselves never
// fail on a config; they fall back to defaults instead.
func (c Config) Validate() error {
	var errs []error
	if !c.Algorithm.Valid() {
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, string(c.Algorithm)))
	}
	for _, sh := range []struct {
		status Status
		h      StatusHandling
	}{
		{StatusDNF, c.StatusHandling.DNF},
		{StatusDNS, c.StatusHandling.DNS},
		{StatusWithdrawn, c.StatusHandling.Withdrawn},
	} {
		if !sh.h.valid() {
			errs = append(errs, fmt.Errorf("%w: %s=%q", ErrUnknownStatusHandling, sh.status, string(sh.h)))
		}
	}
	if c.CustomTable != nil {
		switch c.CustomTable.BaseTemplate {
		case AlgorithmTraditional, AlgorithmWinnerTakesMore:
		default:
			errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidBaseTemplate, string(c.CustomTable.BaseTemplate)))
		}
	}
	if c.PScore != nil {
		switch c.PScore.MedianField {
		case MedianTopHalf, MedianAll, "":
		default:
			errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownMedianField, string(c.PScore.MedianField)))
		}
	}
	return errors.Join(errs...)
}

// CanHaveNegativeScores reports whether events scored with c may award
// negative points.
func (c Config) CanHaveNegativeScores() bool {
	if c.Algorithm != AlgorithmPScore {
		return false
	}
	return c.PScore == nil || c.PScore.AllowNegatives
}

func (c Config) traditional() TraditionalConfig {
	if c.Traditional != nil {
		return *c.Traditional
	}
	return DefaultTraditional()
}

func (c Config) pScore() PScoreConfig {
	if c.PScore != nil {
		return *c.PScore
	}
	return DefaultPScore()
}

func (c Config) customTable() CustomTable {
	if c.CustomTable != nil {
		return *c.CustomTable
	}
	return CustomTable{BaseTemplate: AlgorithmTraditional}
}

const defaultWinnerMinPoints = 5

// DefaultTraditional returns 100 points for first place with a step of 5.
func DefaultTraditional() TraditionalConfig {
	return TraditionalConfig{FirstPlacePoints: 100, Step: 5}
}

// DefaultPScore allows negatives and uses the top-half median.
func DefaultPScore() PScoreConfig {
	return PScoreConfig{AllowNegatives: true, MedianField: MedianTopHalf}
}

// DefaultConfig is traditional scoring with the default status policy.
func DefaultConfig() Config {
	t := DefaultTraditional()
	return Config{
		Algorithm:   AlgorithmTraditional,
		Traditional: &t,
		StatusHandling: StatusPolicy{
			DNF:       HandlingLastPlace,
			DNS:       HandlingZero,
			Withdrawn: HandlingExclude,
		},
	}
}
