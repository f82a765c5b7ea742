package oneshot

import (
	"testing"

	"github.com/Rhymond/go-money"
)

func TestMoneyString(t *testing.T) {
	tests := []struct {
		value float64
		cents int64
	}{
		{0, 0},
		{1000000, 100000000},
		{102379.5, 10237950},
		{0.125, 13},
		{-76818, -7681800},
	}
	for _, tc := range tests {
		got := R(tc.value).String()
		want := money.New(tc.cents, ZAR).Display()
		if got != want {
			t.Errorf("R(%v).String() = %q, want %q", tc.value, got, want)
		}
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a, b := R(450000), R(550000)
	if got, want := a.Add(b), R(1000000); !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := b.Sub(a), R(100000); !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if got := R(0).SignedString(); got != "-" {
		t.Errorf("got %q, want %q", got, "-")
	}
	if got, want := R(12).SignedString(), "+"+R(12).String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if M(10, "").Add(R(5)).Currency() != ZAR {
		t.Errorf("empty currency should adopt the other operand's currency")
	}
}

func TestPercentString(t *testing.T) {
	tests := []struct {
		p    Percent
		want string
	}{
		{0, "0.00%"},
		{10.23795, "10.24%"},
		{45, "45.00%"},
	}
	for _, tc := range tests {
		if got := tc.p.String(); got != tc.want {
			t.Errorf("Percent(%v).String() = %q, want %q", float64(tc.p), got, tc.want)
		}
	}
}
