package renderer

import (
	"fmt"

	"github.com/etnz/oneshot"
	"github.com/shopspring/decimal"
)

// Schedule is the view of a tax schedule.
type Schedule struct {
	Name     string            `json:"name"`
	Step     oneshot.Money     `json:"step"`
	Brackets []ScheduleBracket `json:"brackets"`
	// Narrow counts the brackets narrower than Step.
	Narrow int `json:"narrow,omitempty"`
}

// ScheduleBracket is a row of the schedule table.
type ScheduleBracket struct {
	Range  string          `json:"range"`
	Rate   oneshot.Percent `json:"rate"`
	Base   oneshot.Money   `json:"base"`
	Narrow bool            `json:"narrow,omitempty"`
}

// NewSchedule creates the view of s, flagging the brackets narrower than step.
func NewSchedule(s oneshot.Schedule, step decimal.Decimal) *Schedule {
	v := &Schedule{Name: s.Name, Step: oneshot.R(step)}
	for _, b := range s.Brackets {
		row := ScheduleBracket{Rate: b.RatePercent(), Base: oneshot.R(b.Base)}
		if b.Open() {
			row.Range = fmt.Sprintf("%s and above", oneshot.R(b.Lower))
		} else {
			row.Range = fmt.Sprintf("%s to %s", oneshot.R(b.Lower), oneshot.R(b.Upper))
			row.Narrow = step.IsPositive() && b.Width().LessThan(step)
		}
		if row.Narrow {
			v.Narrow++
		}
		v.Brackets = append(v.Brackets, row)
	}
	return v
}
