package renderer

import (
	"github.com/etnz/oneshot"
)

// Split is the view of an optimal split.
// Amounts are Money values, so they already carry their ZAR rendering.
type Split struct {
	TotalIncome      oneshot.Money   `json:"totalIncome"`
	IndividualIncome oneshot.Money   `json:"individualIncome"`
	IndividualTax    oneshot.Money   `json:"individualTax"`
	IndividualShare  oneshot.Percent `json:"individualShare"`
	SBCIncome        oneshot.Money   `json:"sbcIncome"`
	SBCTax           oneshot.Money   `json:"sbcTax"`
	SBCShare         oneshot.Percent `json:"sbcShare"`
	TotalTax         oneshot.Money   `json:"totalTax"`
	EffectiveRate    oneshot.Percent `json:"effectiveRate"`

	AllIndividualTax    oneshot.Money `json:"allIndividualTax"`
	AllSBCTax           oneshot.Money `json:"allSbcTax"`
	SavingsVsIndividual oneshot.Money `json:"savingsVsIndividual"`
	SavingsVsSBC        oneshot.Money `json:"savingsVsSbc"`
}

// NewSplit creates the view of res.
func NewSplit(res oneshot.SplitResult) *Split {
	s := &Split{
		TotalIncome:         res.TotalIncome,
		IndividualIncome:    res.IndividualIncome,
		IndividualTax:       res.IndividualTax,
		SBCIncome:           res.SBCIncome,
		SBCTax:              res.SBCTax,
		TotalTax:            res.TotalTax,
		EffectiveRate:       res.EffectiveRate,
		AllIndividualTax:    res.AllIndividualTax,
		AllSBCTax:           res.AllSBCTax,
		SavingsVsIndividual: res.SavingsVsIndividual,
		SavingsVsSBC:        res.SavingsVsSBC,
	}
	if total := res.TotalIncome.AsFloat(); total > 0 {
		s.IndividualShare = oneshot.Percent(100 * res.IndividualIncome.AsFloat() / total)
		s.SBCShare = 100 - s.IndividualShare
	}
	return s
}
