package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/peter-kozarec/acs/internal/dbg"
	"github.com/peter-kozarec/acs/pkg/report"
)

const (
	globalMaxLag  = "max-lag"
	globalFormat  = "format"
	globalLog     = "log"
	globalTimeout = "timeout"

	defaultMaxLag = 50
)

var (
	globalFlags = []cli.Flag{
		&cli.IntFlag{
			Name:    globalMaxLag,
			Aliases: []string{"k"},
			Value:   defaultMaxLag,
			Usage:   "Maximum lag K. The stream must hold at least K+1 samples and K should be much smaller than the stream length",
			EnvVars: []string{"ACS_MAX_LAG"},
		},
		&cli.StringFlag{
			Name:    globalFormat,
			Value:   report.FormatText,
			Usage:   fmt.Sprintf("Report format, one of: %s", strings.Join(report.Formats(), ", ")),
			EnvVars: []string{"ACS_FORMAT"},
		},
		&cli.StringFlag{
			Name:    globalLog,
			Value:   dbg.ModeNone,
			Usage:   fmt.Sprintf("Log mode written to stderr, one of: %s", strings.Join(dbg.Modes(), ", ")),
			EnvVars: []string{"ACS_LOG"},
		},
		&cli.DurationFlag{
			Name:    globalTimeout,
			Value:   0,
			Usage:   "Abandon reading the source after this long. Zero waits forever",
			EnvVars: []string{"ACS_TIMEOUT"},
		},
	}
)

const (
	duckdbDSN   = "dsn"
	duckdbQuery = "query"
)

var (
	duckdbFlags = []cli.Flag{
		&cli.StringFlag{
			Name:  duckdbDSN,
			Usage: "DuckDB database file. Empty opens an in-memory database",
		},
		&cli.StringFlag{
			Name:     duckdbQuery,
			Usage:    "Query whose first numeric column, in row order, is the sample stream",
			Required: true,
		},
	}
)

const (
	feedURL = "url"
)

var (
	feedFlags = []cli.Flag{
		&cli.StringFlag{
			Name:     feedURL,
			Usage:    "Websocket address of the sample feed, e.g. ws://localhost:8080/samples",
			Required: true,
		},
	}
)
