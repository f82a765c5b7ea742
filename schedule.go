package oneshot

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidSchedule is returned when bands cannot form a progressive schedule.
var ErrInvalidSchedule = errors.New("invalid tax schedule")

// ErrNarrowBand is reported by Schedule.Check for brackets narrower than a search step.
var ErrNarrowBand = errors.New("bracket narrower than search step")

// Band is the user-facing definition of a bracket: an upper bound and the
// marginal rate applied up to it. A zero Upper marks the open-ended top band.
type Band struct {
	Upper decimal.Decimal
	Rate  decimal.Decimal // as a fraction, 0.18 for 18%
}

// B returns the band up to upper taxed at rate percent.
func B(upper float64, rate float64) Band {
	return Band{Upper: decimal.NewFromFloat(upper), Rate: decimal.NewFromFloat(rate).Shift(-2)}
}

// Top returns the open-ended band taxed at rate percent.
func Top(rate float64) Band {
	return Band{Rate: decimal.NewFromFloat(rate).Shift(-2)}
}

// Bracket is a contiguous income band with a single marginal rate. Base is the
// cumulative tax owed on all the income below Lower.
type Bracket struct {
	Lower decimal.Decimal
	Upper decimal.Decimal // zero for the open-ended top bracket
	Rate  decimal.Decimal
	Base  decimal.Decimal
}

// Open reports whether the bracket has no upper bound.
func (b Bracket) Open() bool { return b.Upper.IsZero() }

// RatePercent returns the marginal rate of b in percent.
func (b Bracket) RatePercent() Percent { return Percent(b.Rate.Shift(2).InexactFloat64()) }

// Width returns Upper-Lower, it is meaningless for the open bracket.
func (b Bracket) Width() decimal.Decimal { return b.Upper.Sub(b.Lower) }

// Schedule is a progressive tax table.
type Schedule struct {
	Name     string
	Brackets []Bracket
}

// NewSchedule builds a schedule from its bands, ordered by upper bound.
//
// Upper bounds must be strictly increasing, rates non negative, and only the
// last band open-ended. The base tax of each bracket is derived from the bands
// below it, so the resulting function is continuous.
func NewSchedule(name string, bands ...Band) (Schedule, error) {
	if len(bands) == 0 {
		return Schedule{}, fmt.Errorf("%w %q: no bands", ErrInvalidSchedule, name)
	}
	s := Schedule{Name: name, Brackets: make([]Bracket, 0, len(bands))}
	lower, base := decimal.Zero, decimal.Zero
	for i, band := range bands {
		last := i == len(bands)-1
		if band.Rate.IsNegative() {
			return Schedule{}, fmt.Errorf("%w %q: band %d has a negative rate %s", ErrInvalidSchedule, name, i+1, band.Rate)
		}
		if band.Upper.IsZero() != last {
			if last {
				return Schedule{}, fmt.Errorf("%w %q: the last band must be open-ended", ErrInvalidSchedule, name)
			}
			return Schedule{}, fmt.Errorf("%w %q: only the last band can be open-ended", ErrInvalidSchedule, name)
		}
		if !last && !band.Upper.GreaterThan(lower) {
			return Schedule{}, fmt.Errorf("%w %q: band %d upper bound %s is not above %s", ErrInvalidSchedule, name, i+1, band.Upper, lower)
		}
		s.Brackets = append(s.Brackets, Bracket{Lower: lower, Upper: band.Upper, Rate: band.Rate, Base: base})
		if !last {
			base = base.Add(band.Upper.Sub(lower).Mul(band.Rate))
			lower = band.Upper
		}
	}
	return s, nil
}

// MustSchedule is like NewSchedule but panics on error. It is meant for tables
// defined in code.
func MustSchedule(name string, bands ...Band) Schedule {
	s, err := NewSchedule(name, bands...)
	if err != nil {
		panic(err)
	}
	return s
}

// Tax returns the tax owed on income.
//
// Negative incomes are not taxable and return zero, callers are expected to
// reject them beforehand.
func (s Schedule) Tax(income decimal.Decimal) decimal.Decimal {
	if !income.IsPositive() {
		return decimal.Zero
	}
	for _, b := range s.Brackets {
		if b.Open() || income.LessThanOrEqual(b.Upper) {
			return b.Base.Add(income.Sub(b.Lower).Mul(b.Rate))
		}
	}
	return decimal.Zero
}

// Bands returns the bands s was built from.
func (s Schedule) Bands() []Band {
	bands := make([]Band, len(s.Brackets))
	for i, b := range s.Brackets {
		bands[i] = Band{Upper: b.Upper, Rate: b.Rate}
	}
	return bands
}

// MinWidth returns the width of the narrowest bounded bracket, or zero if the
// schedule has a single open bracket.
func (s Schedule) MinWidth() decimal.Decimal {
	var narrowest decimal.Decimal
	for _, b := range s.Brackets {
		if b.Open() {
			continue
		}
		if narrowest.IsZero() || b.Width().LessThan(narrowest) {
			narrowest = b.Width()
		}
	}
	return narrowest
}

// Check reports every bounded bracket narrower than step.
//
// The split search resolves the optimum to step units, a bracket narrower than
// that can hide a local minimum the search never visits.
func (s Schedule) Check(step decimal.Decimal) error {
	var errs error
	for _, b := range s.Brackets {
		if b.Open() || !b.Width().LessThan(step) {
			continue
		}
		errs = errors.Join(errs, fmt.Errorf("%w: %s bracket %s-%s is %s wide, step is %s", ErrNarrowBand, s.Name, b.Lower, b.Upper, b.Width(), step))
	}
	return errs
}

// Individual is the 2024/2025 South African individual income tax schedule.
var Individual = MustSchedule("Individual",
	B(237100, 0),
	B(370500, 18),
	B(512800, 26),
	B(673000, 31),
	B(857900, 36),
	B(1817000, 39),
	Top(45),
)

// SBC is the Small Business Corporation tax schedule.
var SBC = MustSchedule("SBC",
	B(95750, 0),
	B(365000, 7),
	B(550000, 21),
	Top(27),
)

// IndividualTax returns the tax owed on income under the Individual schedule.
func IndividualTax(income decimal.Decimal) decimal.Decimal { return Individual.Tax(income) }

// SBCTax returns the tax owed on income under the SBC schedule.
func SBCTax(income decimal.Decimal) decimal.Decimal { return SBC.Tax(income) }
