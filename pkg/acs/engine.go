package acs

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"go.uber.org/zap"

	"github.com/peter-kozarec/acs/pkg/utility/circular"
)

const defaultVarianceTolerance = 1e-10

var errNonFinite = errors.New("sample is not a finite number")

// Engine computes mean, standard deviation and the autocorrelations r[1..K] of a stream in a
// single pass, holding only the K+1 most recent samples.
type Engine struct {
	logger *zap.Logger
	maxLag int

	varianceTolerance float64
}

func NewEngine(logger *zap.Logger, maxLag int, opts ...EngineOption) (*Engine, error) {
	if maxLag < 1 {
		return nil, fmt.Errorf("%w: max lag must be >= 1, got %d", ErrInvalidParameter, maxLag)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	e := &Engine{
		logger:            logger,
		maxLag:            maxLag,
		varianceTolerance: defaultVarianceTolerance,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Compute runs with a no-op logger and default options.
func Compute(ctx context.Context, src Source, maxLag int) (Result, error) {
	e, err := NewEngine(nil, maxLag)
	if err != nil {
		return Result{}, err
	}
	return e.Compute(ctx, src)
}

func (e *Engine) MaxLag() int {
	return e.maxLag
}

// Compute consumes src exactly once, front to back. Nothing is returned besides the error
// when the source fails, the stream is too short or the statistics are degenerate.
func (e *Engine) Compute(ctx context.Context, src Source) (Result, error) {
	s := newScan(e.maxLag)

	if err := s.prime(ctx, src); err != nil {
		return Result{}, err
	}
	e.logger.Debug("history primed", zap.Int("size", len(s.coSum)))

	if err := s.stream(ctx, src); err != nil {
		return Result{}, err
	}
	e.logger.Debug("stream exhausted", zap.Int("n", s.n))

	s.drain()
	e.logger.Debug("history drained", zap.Uint("head", s.hold.Head()))

	res, err := s.finalize(e.varianceTolerance)
	if err != nil {
		return Result{}, err
	}
	e.logger.Debug("autocorrelation computed", res.Fields()...)
	return res, nil
}

// scan is the state of one pass: the history, the running sum and the per-lag co-sums.
// coSum[j] accumulates x[i]*x[i+j].
type scan struct {
	hold  *circular.Buffer[float64]
	coSum []float64
	sum   float64
	n     int
}

func newScan(maxLag int) *scan {
	size := maxLag + 1
	return &scan{
		hold:  circular.NewBuffer[float64](uint(size)), // #nosec G115
		coSum: make([]float64, size),
	}
}

// read returns false once the source is exhausted.
func (s *scan) read(ctx context.Context, src Source) (float64, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, fmt.Errorf("scan abandoned after %d samples: %w", s.n, err)
	}

	x, err := src.Next()
	if errors.Is(err, ErrEof) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("unable to read sample %d: %w", s.n+1, err)
	}
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, false, &MalformedInputError{
			Position: s.n + 1,
			Input:    strconv.FormatFloat(x, 'g', -1, 64),
			Err:      errNonFinite,
		}
	}
	return x, true, nil
}

func (s *scan) prime(ctx context.Context, src Source) error {
	for !s.hold.IsFull() {
		x, ok, err := s.read(ctx, src)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: stream ended after %d samples, max lag %d needs at least %d",
				ErrInsufficientData, s.n, len(s.coSum)-1, len(s.coSum))
		}
		s.sum += x
		s.hold.Push(x)
		s.n++
	}
	return nil
}

func (s *scan) stream(ctx context.Context, src Source) error {
	for {
		x, ok, err := s.read(ctx, src)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		// The oldest sample is paired against the window before it gets evicted.
		s.accumulate()
		s.sum += x
		s.hold.Push(x)
		s.n++
	}
}

// drain flushes the pairs left among the last K+1 samples, feeding zeros in place of data.
func (s *scan) drain() {
	for range s.coSum {
		s.accumulate()
		s.hold.Push(0)
	}
}

func (s *scan) accumulate() {
	oldest := s.hold.Oldest()
	for j := range s.coSum {
		s.coSum[j] += oldest * s.hold.Ahead(uint(j)) // #nosec G115
	}
}

func (s *scan) finalize(varianceTolerance float64) (Result, error) {
	mean := s.sum / float64(s.n)
	meanSq := mean * mean

	cov := make([]float64, len(s.coSum))
	for j, c := range s.coSum {
		pairs := s.n - j
		if pairs <= 0 {
			return Result{}, fmt.Errorf("%w: no sample pairs at lag %d with n = %d", ErrDegenerateResult, j, s.n)
		}
		cov[j] = c/float64(pairs) - meanSq
	}

	variance := cov[0]
	if variance <= 0 || variance <= varianceTolerance*meanSq {
		return Result{}, fmt.Errorf("%w: variance %g below %g·mean² (%g)",
			ErrDegenerateResult, variance, varianceTolerance, meanSq)
	}

	r := make([]float64, len(cov)-1)
	for j := 1; j < len(cov); j++ {
		r[j-1] = cov[j] / variance
		if math.IsNaN(r[j-1]) || math.IsInf(r[j-1], 0) {
			return Result{}, fmt.Errorf("%w: r[%d] is not finite", ErrDegenerateResult, j)
		}
	}

	return Result{
		N:      s.n,
		Mean:   mean,
		StdDev: math.Sqrt(variance),
		R:      r,
	}, nil
}
