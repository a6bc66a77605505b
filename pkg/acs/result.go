package acs

import (
	"fmt"

	"go.uber.org/zap"
)

// Result holds the statistics of one pass. R[j-1] is the autocorrelation at lag j, r[0] = 1
// is implied and not stored.
type Result struct {
	N      int       `json:"n"`
	Mean   float64   `json:"mean"`
	StdDev float64   `json:"std_dev"`
	R      []float64 `json:"r"`
}

func (r Result) MaxLag() int {
	return len(r.R)
}

func (r Result) Lag(j int) (float64, error) {
	if j == 0 {
		return 1, nil
	}
	if j < 0 || j > len(r.R) {
		return 0, fmt.Errorf("%w: lag %d outside [0, %d]", ErrInvalidParameter, j, len(r.R))
	}
	return r.R[j-1], nil
}

func (r Result) Fields() []zap.Field {
	return []zap.Field{
		zap.Int("n", r.N),
		zap.Float64("mean", r.Mean),
		zap.Float64("std_dev", r.StdDev),
		zap.Int("max_lag", r.MaxLag()),
		zap.Float64s("r", r.R),
	}
}
