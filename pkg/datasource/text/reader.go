package text

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/peter-kozarec/acs/pkg/acs"
)

var errNonFinite = errors.New("value is not a finite number")

// Reader yields one sample per non-blank line.
type Reader struct {
	logger  *zap.Logger
	name    string
	scanner *bufio.Scanner
	closer  io.Closer
	line    int
}

func NewReader(logger *zap.Logger, name string, r io.Reader) *Reader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reader{
		logger:  logger,
		name:    name,
		scanner: bufio.NewScanner(r),
	}
}

func Open(logger *zap.Logger, path string) (*Reader, error) {
	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("unable to open data source %q: %w", path, err)
	}
	r := NewReader(logger, path, f)
	r.closer = f
	r.logger.Debug("text source opened", zap.String("path", path))
	return r, nil
}

func (r *Reader) Next() (float64, error) {
	for r.scanner.Scan() {
		r.line++
		field := strings.TrimSpace(r.scanner.Text())
		if field == "" {
			continue
		}
		x, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return 0, &acs.MalformedInputError{Position: r.line, Input: field, Err: err}
		}
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, &acs.MalformedInputError{Position: r.line, Input: field, Err: errNonFinite}
		}
		return x, nil
	}
	if err := r.scanner.Err(); err != nil {
		return 0, fmt.Errorf("unable to read %q at line %d: %w", r.name, r.line+1, err)
	}
	return 0, acs.ErrEof
}

// Line returns the number of lines consumed so far, blank ones included.
func (r *Reader) Line() int {
	return r.line
}

func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	r.logger.Debug("text source closed", zap.String("path", r.name), zap.Int("lines", r.Line()))
	return r.closer.Close()
}
