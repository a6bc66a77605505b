package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/govalues/decimal"

	"github.com/peter-kozarec/acs/pkg/acs"
)

const (
	FormatText = "text"
	FormatJSON = "json"

	statScale = 2
	lagScale  = 3
)

var ErrUnknownFormat = errors.New("unknown report format")

func Formats() []string {
	return []string{FormatText, FormatJSON}
}

func Write(w io.Writer, format string, r acs.Result) error {
	switch format {
	case FormatText:
		return WriteText(w, r)
	case FormatJSON:
		return WriteJSON(w, r)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// WriteText renders the classic table: mean and standard deviation with two decimals, one
// row per lag with three.
func WriteText(w io.Writer, r acs.Result) error {
	ew := &errWriter{w: w}

	ew.printf("for %d data points\n", r.N)
	ew.printf("the mean is ... \t%8s\n", Fixed(r.Mean, statScale))
	ew.printf("the std_dev is ... \t%8s\n\n", Fixed(r.StdDev, statScale))
	ew.printf("  j (lag)   r[j] (autocorrelation)\n\n")
	for j, v := range r.R {
		ew.printf("%3d  %11s\n", j+1, Fixed(v, lagScale))
	}
	return ew.err
}

type lagRow struct {
	Lag int         `json:"lag"`
	R   json.Number `json:"r"`
}

type document struct {
	N      int         `json:"n"`
	Mean   json.Number `json:"mean"`
	StdDev json.Number `json:"std_dev"`
	Lags   []lagRow    `json:"lags"`
}

func WriteJSON(w io.Writer, r acs.Result) error {
	doc := document{
		N:      r.N,
		Mean:   json.Number(Fixed(r.Mean, statScale)),
		StdDev: json.Number(Fixed(r.StdDev, statScale)),
		Lags:   make([]lagRow, len(r.R)),
	}
	for j, v := range r.R {
		doc.Lags[j] = lagRow{Lag: j + 1, R: json.Number(Fixed(v, lagScale))}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("unable to encode report: %w", err)
	}
	return nil
}

// Fixed formats v with exactly scale digits after the decimal point. Rounding applies to the
// exact binary value, the way printf's %.Nf does, so 2.675 renders as 2.67 at scale 2.
// Values whose digits overflow the decimal coefficient keep the binary rendering.
func Fixed(v float64, scale int) string {
	s := strconv.FormatFloat(v, 'f', scale, 64)
	d, err := decimal.Parse(s)
	if err != nil {
		return s
	}
	return d.String()
}

type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
