package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/peter-kozarec/acs/internal/dbg"
	"github.com/peter-kozarec/acs/pkg/acs"
	"github.com/peter-kozarec/acs/pkg/datasource/binfile"
	"github.com/peter-kozarec/acs/pkg/datasource/duckdb"
	"github.com/peter-kozarec/acs/pkg/datasource/feed"
	"github.com/peter-kozarec/acs/pkg/datasource/text"
	"github.com/peter-kozarec/acs/pkg/report"
	"github.com/peter-kozarec/acs/pkg/utility"
)

const stdinPath = "-"

var errMissingPath = errors.New("please provide a file path as the first argument")

type run struct {
	logger *zap.Logger
	engine *acs.Engine
	format string
	out    io.Writer

	ctx    context.Context
	cancel context.CancelFunc
}

func newRun(c *cli.Context) (*run, error) {
	format := c.String(globalFormat)
	if !slices.Contains(report.Formats(), format) {
		return nil, fmt.Errorf("%w: %q", report.ErrUnknownFormat, format)
	}

	logger, err := dbg.NewLogger(c.String(globalLog))
	if err != nil {
		return nil, err
	}
	logger = logger.With(zap.Stringer("run_id", utility.NewRunID()))

	engine, err := acs.NewEngine(logger.Named("engine"), c.Int(globalMaxLag))
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}

	ctx, cancel := context.WithCancel(c.Context)
	if timeout := c.Duration(globalTimeout); timeout > 0 {
		cancel()
		ctx, cancel = context.WithTimeout(c.Context, timeout)
	}

	return &run{
		logger: logger,
		engine: engine,
		format: format,
		out:    c.App.Writer,
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

func (r *run) analyze(src acs.Source) error {
	r.logger.Info("analysis started", zap.Int("max_lag", r.engine.MaxLag()))

	res, err := r.engine.Compute(r.ctx, src)
	if err != nil {
		r.logger.Error("analysis failed", zap.Error(err))
		return err
	}
	r.logger.Info("analysis finished", res.Fields()...)

	return report.Write(r.out, r.format, res)
}

func (r *run) close() {
	r.cancel()
	_ = r.logger.Sync()
}

func openText(c *cli.Context, logger *zap.Logger, path string) (*text.Reader, error) {
	if path == stdinPath {
		return text.NewReader(logger, "stdin", c.App.Reader), nil
	}
	return text.Open(logger, path)
}

func runText(c *cli.Context) error {
	if c.NArg() < 1 {
		return errMissingPath
	}

	r, err := newRun(c)
	if err != nil {
		return err
	}
	defer r.close()

	src, err := openText(c, r.logger.Named("text"), c.Args().First())
	if err != nil {
		return err
	}
	defer func() {
		_ = src.Close()
	}()

	return r.analyze(src)
}

func runBinary(c *cli.Context) error {
	if c.NArg() < 1 {
		return errMissingPath
	}

	r, err := newRun(c)
	if err != nil {
		return err
	}
	defer r.close()

	src := binfile.NewSource(r.logger.Named("binary"), c.Args().First())
	if err := src.Open(); err != nil {
		return err
	}
	defer src.Close()

	if count, err := src.EntryCount(); err != nil {
		r.logger.Warn("record count unavailable", zap.Error(err))
	} else {
		r.logger.Debug("records available", zap.Int64("records", count))
	}

	return r.analyze(src)
}

func runDuckDB(c *cli.Context) error {
	r, err := newRun(c)
	if err != nil {
		return err
	}
	defer r.close()

	src := duckdb.NewReader(r.logger.Named("duckdb"), c.String(duckdbDSN))
	if err := src.Connect(r.ctx); err != nil {
		return err
	}
	defer src.Close()

	if err := src.Query(r.ctx, c.String(duckdbQuery)); err != nil {
		return err
	}

	return r.analyze(src)
}

func runFeed(c *cli.Context) error {
	r, err := newRun(c)
	if err != nil {
		return err
	}
	defer r.close()

	src, err := feed.Dial(r.ctx, r.logger.Named("feed"), c.String(feedURL),
		feed.WithReadTimeout(c.Duration(globalTimeout)))
	if err != nil {
		return err
	}
	defer func() {
		_ = src.Close()
	}()

	return r.analyze(src)
}

func runConvert(c *cli.Context) error {
	if c.NArg() < 2 {
		return fmt.Errorf("convert needs an input and an output path, got %d arguments", c.NArg())
	}

	logger, err := dbg.NewLogger(c.String(globalLog))
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	src, err := openText(c, logger.Named("text"), c.Args().Get(0))
	if err != nil {
		return err
	}
	defer func() {
		_ = src.Close()
	}()

	out := c.Args().Get(1)
	count, err := binfile.WriteFile(out, src)
	if err != nil {
		return err
	}
	logger.Info("conversion finished", zap.String("path", out), zap.Int("records", count))

	_, err = fmt.Fprintf(c.App.Writer, "%d records written to %s\n", count, out)
	return err
}
