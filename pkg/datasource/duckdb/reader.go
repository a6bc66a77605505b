package duckdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/marcboeker/go-duckdb"
	"go.uber.org/zap"

	"github.com/peter-kozarec/acs/pkg/acs"
)

var ErrNotQueried = errors.New("query has not been issued")

// Reader streams the first column of a query result, one row per sample. An empty data
// source name opens an in-memory database.
type Reader struct {
	logger         *zap.Logger
	dataSourceName string
	db             *sql.DB
	rows           *sql.Rows
	row            int
}

func NewReader(logger *zap.Logger, dataSourceName string) *Reader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reader{
		logger:         logger,
		dataSourceName: dataSourceName,
	}
}

func (r *Reader) Connect(ctx context.Context) error {
	db, err := sql.Open("duckdb", r.dataSourceName)
	if err != nil {
		return fmt.Errorf("unable to open duckdb %q: %w", r.dataSourceName, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("unable to connect to duckdb %q: %w", r.dataSourceName, err)
	}
	r.db = db
	r.logger.Debug("duckdb source connected", zap.String("dsn", r.dataSourceName))
	return nil
}

// Query issues the statement whose first column becomes the sample stream. Ordering is
// the caller's responsibility.
func (r *Reader) Query(ctx context.Context, query string, args ...any) error {
	if r.db == nil {
		return fmt.Errorf("unable to query %q: not connected", r.dataSourceName)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error preparing query: %w", err)
	}
	r.rows = rows
	r.row = 0
	return nil
}

func (r *Reader) Next() (float64, error) {
	if r.rows == nil {
		return 0, ErrNotQueried
	}
	if !r.rows.Next() {
		if err := r.rows.Err(); err != nil {
			return 0, fmt.Errorf("error scanning rows after row %d: %w", r.row, err)
		}
		return 0, acs.ErrEof
	}
	r.row++

	var value sql.NullFloat64
	if err := r.rows.Scan(&value); err != nil {
		return 0, &acs.MalformedInputError{Position: r.row, Err: err}
	}
	if !value.Valid {
		return 0, &acs.MalformedInputError{Position: r.row, Input: "NULL"}
	}
	return value.Float64, nil
}

func (r *Reader) Close() {
	if r.rows != nil {
		_ = r.rows.Close()
	}
	if r.db != nil {
		_ = r.db.Close()
		r.logger.Debug("duckdb source closed", zap.Int("rows", r.row))
	}
}
