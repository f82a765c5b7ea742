package oneshot

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

// Default search resolution of the split optimizer.
var (
	DefaultCoarseStep = decimal.NewFromInt(1000)
	DefaultFineStep   = decimal.NewFromInt(100)
	DefaultWindow     = decimal.NewFromInt(2000)
)

var hundred = decimal.NewFromInt(100)

// SplitResult is the outcome of an optimization.
type SplitResult struct {
	TotalIncome      Money
	IndividualIncome Money
	IndividualTax    Money
	SBCIncome        Money
	SBCTax           Money
	TotalTax         Money
	EffectiveRate    Percent // TotalTax / TotalIncome

	// Taxes if the whole income was allocated to a single schedule, and what
	// the optimal split saves compared to them.
	AllIndividualTax    Money
	AllSBCTax           Money
	SavingsVsIndividual Money
	SavingsVsSBC        Money
}

// MarshalJSON writes the fields in display order, the effective rate rounded
// to 2 decimals.
func (r SplitResult) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("totalIncome", r.TotalIncome)
	w.Append("individualIncome", r.IndividualIncome)
	w.Append("individualTax", r.IndividualTax)
	w.Append("sbcIncome", r.SBCIncome)
	w.Append("sbcTax", r.SBCTax)
	w.Append("totalTax", r.TotalTax)
	w.Append("effectiveRate", math.Round(float64(r.EffectiveRate)*100)/100)
	w.Append("allIndividualTax", r.AllIndividualTax)
	w.Append("allSbcTax", r.AllSBCTax)
	w.Append("savingsVsIndividual", r.SavingsVsIndividual)
	w.Append("savingsVsSbc", r.SavingsVsSBC)
	return w.MarshalJSON()
}

// Optimizer searches the allocation of an income between two schedules that
// minimizes the total tax.
//
// The search is a grid: first every CoarseStep from 0 to the income, then
// every FineStep within Window of the coarse optimum. Candidates only replace
// the current optimum when strictly better, so ties go to the smallest
// individual share. Zero fields use the package defaults.
type Optimizer struct {
	Individual Schedule
	SBC        Schedule
	CoarseStep decimal.Decimal
	FineStep   decimal.Decimal
	Window     decimal.Decimal
}

// DefaultOptimizer returns the optimizer over the Individual and SBC schedules.
func DefaultOptimizer() Optimizer {
	return NewOptimizer(Individual, SBC)
}

// NewOptimizer returns an optimizer over the given schedules with the default resolution.
func NewOptimizer(individual, sbc Schedule) Optimizer {
	return Optimizer{
		Individual: individual,
		SBC:        sbc,
		CoarseStep: DefaultCoarseStep,
		FineStep:   DefaultFineStep,
		Window:     DefaultWindow,
	}
}

func orDefault(v, def decimal.Decimal) decimal.Decimal {
	if v.IsPositive() {
		return v
	}
	return def
}

func (o Optimizer) coarseStep() decimal.Decimal { return orDefault(o.CoarseStep, DefaultCoarseStep) }
func (o Optimizer) fineStep() decimal.Decimal   { return orDefault(o.FineStep, DefaultFineStep) }
func (o Optimizer) window() decimal.Decimal     { return orDefault(o.Window, DefaultWindow) }

// Check reports the brackets of both schedules narrower than the fine step.
func (o Optimizer) Check() error {
	step := o.fineStep()
	return errors.Join(o.Individual.Check(step), o.SBC.Check(step))
}

// TotalTax returns the tax owed when individual goes to the Individual
// schedule and the rest of income to the SBC one.
func (o Optimizer) TotalTax(income, individual decimal.Decimal) decimal.Decimal {
	return o.Individual.Tax(individual).Add(o.SBC.Tax(income.Sub(individual)))
}

// Split finds the optimal allocation of income.
//
// It returns ErrInvalidIncome, without searching, if income is not strictly positive.
func (o Optimizer) Split(income decimal.Decimal) (SplitResult, error) {
	if err := ValidateIncome(income); err != nil {
		return SplitResult{}, err
	}

	// Start with everything allocated to the SBC.
	best := decimal.Zero
	minTax := o.TotalTax(income, best)

	coarse := o.coarseStep()
	for x := decimal.Zero; x.LessThanOrEqual(income); x = x.Add(coarse) {
		if tax := o.TotalTax(income, x); tax.LessThan(minTax) {
			best, minTax = x, tax
		}
	}

	// Refine around the coarse optimum. The upper end follows the running
	// optimum, while the lower end is fixed at the start.
	fine, window := o.fineStep(), o.window()
	upper := func() decimal.Decimal { return decimal.Min(income, best.Add(window)) }
	for x := decimal.Max(decimal.Zero, best.Sub(window)); x.LessThanOrEqual(upper()); x = x.Add(fine) {
		if tax := o.TotalTax(income, x); tax.LessThan(minTax) {
			best, minTax = x, tax
		}
	}

	return o.result(income, best), nil
}

// result computes the SplitResult when individual is allocated to the Individual schedule.
func (o Optimizer) result(income, individual decimal.Decimal) SplitResult {
	sbc := income.Sub(individual)
	indTax, sbcTax := o.Individual.Tax(individual), o.SBC.Tax(sbc)
	total := indTax.Add(sbcTax)
	allInd, allSBC := o.Individual.Tax(income), o.SBC.Tax(income)

	return SplitResult{
		TotalIncome:         R(income),
		IndividualIncome:    R(individual),
		IndividualTax:       R(indTax),
		SBCIncome:           R(sbc),
		SBCTax:              R(sbcTax),
		TotalTax:            R(total),
		EffectiveRate:       Percent(total.Div(income).Mul(hundred).InexactFloat64()),
		AllIndividualTax:    R(allInd),
		AllSBCTax:           R(allSBC),
		SavingsVsIndividual: R(allInd.Sub(total)),
		SavingsVsSBC:        R(allSBC.Sub(total)),
	}
}

// Split finds the optimal allocation of income between the Individual and SBC
// schedules using the default resolution.
func Split(income decimal.Decimal) (SplitResult, error) {
	return DefaultOptimizer().Split(income)
}
