package oneshot

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func d(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func TestIndividualTax(t *testing.T) {
	tests := []struct {
		income float64
		want   float64
	}{
		{0, 0},
		{95750, 0},
		{237100, 0},
		{123456.78, 0},
		{-1000, 0},
		{237200.50, 18.09},
		{300000, 11322},
		// bounds of each band
		{370500, 24012},
		{512800, 61010},
		{673000, 110672},
		{857900, 177236},
		{1817000, 551285},
		// right above a bound, the next marginal rate applies
		{857900.01, 177236.0039},
		{1817001, 551285.45},
		{1000000, 232655},
		{2000000, 633635},
		{5000000, 1983635},
	}
	for _, tc := range tests {
		got := IndividualTax(d(tc.income))
		if !got.Equal(d(tc.want)) {
			t.Errorf("IndividualTax(%v) = %v, want %v", tc.income, got, tc.want)
		}
	}
}

func TestSBCTax(t *testing.T) {
	tests := []struct {
		income float64
		want   float64
	}{
		{0, 0},
		{95750, 0},
		{237100, 9894.5},
		{365000, 18847.5},
		{550000, 57697.5},
		{1000000, 179197.5},
		{5000000, 1259197.5},
		{-1, 0},
	}
	for _, tc := range tests {
		got := SBCTax(d(tc.income))
		if !got.Equal(d(tc.want)) {
			t.Errorf("SBCTax(%v) = %v, want %v", tc.income, got, tc.want)
		}
	}
}

func TestScheduleBases(t *testing.T) {
	// Bases are derived from the bands.
	want := []float64{0, 0, 24012, 61010, 110672, 177236, 551285}
	if len(Individual.Brackets) != len(want) {
		t.Fatalf("got %d brackets, want %d", len(Individual.Brackets), len(want))
	}
	for i, b := range Individual.Brackets {
		if !b.Base.Equal(d(want[i])) {
			t.Errorf("bracket %d: got base %v, want %v", i, b.Base, want[i])
		}
	}
	if !Individual.Brackets[len(want)-1].Open() {
		t.Errorf("last bracket should be open")
	}

	wantSBC := []float64{0, 0, 18847.5, 57697.5}
	for i, b := range SBC.Brackets {
		if !b.Base.Equal(d(wantSBC[i])) {
			t.Errorf("SBC bracket %d: got base %v, want %v", i, b.Base, wantSBC[i])
		}
	}
}

func TestScheduleMonotonic(t *testing.T) {
	for _, s := range []Schedule{Individual, SBC} {
		prev := decimal.Zero
		for income := int64(0); income <= 2500000; income += 250 {
			tax := s.Tax(decimal.NewFromInt(income))
			if tax.LessThan(prev) {
				t.Fatalf("%s tax decreases at %d: %v < %v", s.Name, income, tax, prev)
			}
			prev = tax
		}
	}
}

func TestNewScheduleErrors(t *testing.T) {
	tests := []struct {
		name  string
		bands []Band
	}{
		{"no bands", nil},
		{"not increasing", []Band{B(1000, 0), B(500, 10), Top(20)}},
		{"equal bounds", []Band{B(1000, 0), B(1000, 10), Top(20)}},
		{"negative rate", []Band{B(1000, -1), Top(20)}},
		{"closed top", []Band{B(1000, 0), B(2000, 10)}},
		{"open in the middle", []Band{B(1000, 0), Top(10), Top(20)}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewSchedule("test", tc.bands...)
			if !errors.Is(err, ErrInvalidSchedule) {
				t.Errorf("got error %v, want %v", err, ErrInvalidSchedule)
			}
		})
	}
}

func TestScheduleCheck(t *testing.T) {
	if err := Individual.Check(DefaultFineStep); err != nil {
		t.Errorf("Individual.Check() = %v, want nil", err)
	}
	if err := SBC.Check(DefaultFineStep); err != nil {
		t.Errorf("SBC.Check() = %v, want nil", err)
	}

	narrow := MustSchedule("narrow", B(1000, 0), B(1050, 10), B(1080, 20), Top(30))
	if got, want := narrow.MinWidth(), d(30); !got.Equal(want) {
		t.Errorf("MinWidth() = %v, want %v", got, want)
	}
	err := narrow.Check(DefaultFineStep)
	if !errors.Is(err, ErrNarrowBand) {
		t.Fatalf("Check() = %v, want %v", err, ErrNarrowBand)
	}
	if n := len(err.(interface{ Unwrap() []error }).Unwrap()); n != 2 {
		t.Errorf("Check() reported %d brackets, want 2", n)
	}
}

func TestBands(t *testing.T) {
	rebuilt, err := NewSchedule(SBC.Name, SBC.Bands()...)
	if err != nil {
		t.Fatalf("NewSchedule() failed: %v", err)
	}
	for _, income := range []float64{0, 50000, 200000, 400000, 600000} {
		if got, want := rebuilt.Tax(d(income)), SBC.Tax(d(income)); !got.Equal(want) {
			t.Errorf("rebuilt.Tax(%v) = %v, want %v", income, got, want)
		}
	}
	if got := Individual.Brackets[1].RatePercent(); !got.Equal(18) {
		t.Errorf("RatePercent() = %v, want 18%%", got)
	}
}
