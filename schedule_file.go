package oneshot

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// scheduleFile is the YAML layout of a pair of schedules:
//
//	individual:
//	  - {upper: 237100, rate: 0}
//	  - {upper: 370500, rate: 18}
//	  - {rate: 45}
//	sbc:
//	  - ...
//
// Rates are in percent, the open-ended band has no upper bound.
type scheduleFile struct {
	Individual []bandEntry `yaml:"individual"`
	SBC        []bandEntry `yaml:"sbc"`
}

type bandEntry struct {
	Upper *float64 `yaml:"upper,omitempty"`
	Rate  float64  `yaml:"rate"`
}

func toBands(entries []bandEntry) []Band {
	bands := make([]Band, len(entries))
	for i, e := range entries {
		if e.Upper == nil {
			bands[i] = Top(e.Rate)
		} else {
			bands[i] = B(*e.Upper, e.Rate)
		}
	}
	return bands
}

func toEntries(s Schedule) []bandEntry {
	entries := make([]bandEntry, len(s.Brackets))
	for i, b := range s.Brackets {
		entries[i].Rate = b.Rate.Shift(2).InexactFloat64()
		if !b.Open() {
			upper := b.Upper.InexactFloat64()
			entries[i].Upper = &upper
		}
	}
	return entries
}

// DecodeSchedules reads the Individual and SBC schedules from a YAML document.
func DecodeSchedules(r io.Reader) (individual, sbc Schedule, err error) {
	var f scheduleFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return Schedule{}, Schedule{}, fmt.Errorf("cannot decode schedules: %w", err)
	}
	if individual, err = NewSchedule(Individual.Name, toBands(f.Individual)...); err != nil {
		return Schedule{}, Schedule{}, err
	}
	if sbc, err = NewSchedule(SBC.Name, toBands(f.SBC)...); err != nil {
		return Schedule{}, Schedule{}, err
	}
	return individual, sbc, nil
}

// LoadSchedules reads the schedules stored in a YAML file.
func LoadSchedules(path string) (individual, sbc Schedule, err error) {
	f, err := os.Open(path)
	if err != nil {
		return Schedule{}, Schedule{}, fmt.Errorf("cannot open schedules file: %w", err)
	}
	defer f.Close()
	individual, sbc, err = DecodeSchedules(f)
	if err != nil {
		return Schedule{}, Schedule{}, fmt.Errorf("%s: %w", path, err)
	}
	return individual, sbc, nil
}

// EncodeSchedules writes the schedules in the layout read by DecodeSchedules.
func EncodeSchedules(w io.Writer, individual, sbc Schedule) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(scheduleFile{Individual: toEntries(individual), SBC: toEntries(sbc)}); err != nil {
		return fmt.Errorf("cannot encode schedules: %w", err)
	}
	return enc.Close()
}

// OptimizerFromFile returns the default optimizer running on the schedules of
// path, or on the built-in schedules when path is empty.
func OptimizerFromFile(path string) (Optimizer, error) {
	if path == "" {
		return DefaultOptimizer(), nil
	}
	individual, sbc, err := LoadSchedules(path)
	if err != nil {
		return Optimizer{}, err
	}
	return NewOptimizer(individual, sbc), nil
}
