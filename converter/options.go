package converter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Format is the spreadsheet format produced by the converter.
type Format string

const (
	CSV   Format = "csv"
	Excel Format = "excel"
)

// String implements flag.Value.
func (f Format) String() string { return string(f) }

// Set implements flag.Value.
func (f *Format) Set(s string) error {
	switch v := Format(strings.ToLower(strings.TrimSpace(s))); v {
	case CSV, Excel:
		*f = v
		return nil
	case "xlsx":
		*f = Excel
		return nil
	}
	return fmt.Errorf("unknown output format %q, must be one of csv, excel", s)
}

// Label returns the call to action for this format.
func (f Format) Label() string {
	if f == Excel {
		return "Convert to Excel"
	}
	return "Convert to CSV"
}

// Extension returns the extension of files produced in this format.
func (f Format) Extension() string {
	if f == Excel {
		return ".xlsx"
	}
	return ".csv"
}

// AutoYear lets the server detect the statement year.
const AutoYear = 0

// Options are the conversion settings sent along with the files.
type Options struct {
	InvertAmounts bool   `validate:"-"`
	Format        Format `validate:"oneof=csv excel"`
	Year          int    `validate:"omitempty,gte=1900,lte=9999"` // AutoYear to let the server detect it
}

// DefaultOptions returns the settings the converter form starts with.
func DefaultOptions() Options {
	return Options{Format: Excel, Year: AutoYear}
}

var validate = validator.New()

// Validate checks the options before anything is sent.
func (o Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			var errs error
			for _, fe := range verrs {
				errs = errors.Join(errs, fmt.Errorf("invalid %s %q: must satisfy %s %s", strings.ToLower(fe.Field()), fmt.Sprint(fe.Value()), fe.Tag(), fe.Param()))
			}
			return fmt.Errorf("%w: %w", ErrInvalidOptions, errs)
		}
		return err
	}
	return nil
}

// year returns the value of the statement_year field.
func (o Options) year() string {
	if o.Year == AutoYear {
		return "auto"
	}
	return strconv.Itoa(o.Year)
}

// ParseYear reads a year flag: "auto", "" or a 4 digit year.
func ParseYear(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "auto") {
		return AutoYear, nil
	}
	y, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid statement year %q", ErrInvalidOptions, s)
	}
	return y, nil
}

// YearChoices returns the statement years offered to the user: the current
// year and the five previous ones, most recent first.
func YearChoices(now time.Time) []int {
	years := make([]int, 6)
	for i := range years {
		years[i] = now.Year() - i
	}
	return years
}
