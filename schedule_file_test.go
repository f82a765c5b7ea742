package oneshot

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDecodeSchedules(t *testing.T) {
	doc := `
individual:
  - {upper: 100000, rate: 0}
  - {upper: 200000, rate: 20}
  - {rate: 40}
sbc:
  - {upper: 50000, rate: 0}
  - {rate: 25}
`
	ind, sbc, err := DecodeSchedules(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("DecodeSchedules() failed: %v", err)
	}
	if ind.Name != Individual.Name || sbc.Name != SBC.Name {
		t.Errorf("got names %q and %q", ind.Name, sbc.Name)
	}
	if got, want := ind.Tax(d(250000)), d(40000); !got.Equal(want) {
		t.Errorf("individual tax = %v, want %v", got, want)
	}
	if got, want := sbc.Tax(d(150000)), d(25000); !got.Equal(want) {
		t.Errorf("sbc tax = %v, want %v", got, want)
	}
}

func TestDecodeSchedules_Invalid(t *testing.T) {
	doc := `
individual:
  - {upper: 100000, rate: 0}
sbc:
  - {rate: 25}
`
	_, _, err := DecodeSchedules(strings.NewReader(doc))
	if !errors.Is(err, ErrInvalidSchedule) {
		t.Errorf("got error %v, want %v", err, ErrInvalidSchedule)
	}

	if _, _, err := DecodeSchedules(strings.NewReader("individual: [")); err == nil {
		t.Errorf("expected a decoding error")
	}
}

func TestEncodeSchedules(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeSchedules(&buf, Individual, SBC); err != nil {
		t.Fatalf("EncodeSchedules() failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "schedules.yaml")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
	o, err := OptimizerFromFile(path)
	if err != nil {
		t.Fatalf("OptimizerFromFile() failed: %v", err)
	}
	for _, income := range []float64{0, 95750, 237100, 1000000, 5000000} {
		if got, want := o.Individual.Tax(d(income)), IndividualTax(d(income)); !got.Equal(want) {
			t.Errorf("individual tax(%v) = %v, want %v", income, got, want)
		}
		if got, want := o.SBC.Tax(d(income)), SBCTax(d(income)); !got.Equal(want) {
			t.Errorf("sbc tax(%v) = %v, want %v", income, got, want)
		}
	}
}

func TestOptimizerFromFile(t *testing.T) {
	o, err := OptimizerFromFile("")
	if err != nil {
		t.Fatalf("OptimizerFromFile(\"\") failed: %v", err)
	}
	if o.Individual.Name != Individual.Name {
		t.Errorf("got %q, want the built-in schedule", o.Individual.Name)
	}
	if _, err := OptimizerFromFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("expected an error for a missing file")
	}
}
