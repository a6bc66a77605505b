package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
)

var Version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		log.Fatalln(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "acs",
		Usage:   "One-pass autocorrelation statistics of a sample stream",
		Version: Version,
		Flags:   globalFlags,
		Commands: []*cli.Command{
			{
				Name:      "text",
				Usage:     "Analyze a text file with one number per line, '-' reads stdin",
				ArgsUsage: "<path|->",
				Action:    runText,
			},
			{
				Name:      "binary",
				Usage:     "Analyze a file of little-endian float64 records",
				ArgsUsage: "<path>",
				Action:    runBinary,
			},
			{
				Name:   "duckdb",
				Usage:  "Analyze the first column of a DuckDB query",
				Flags:  duckdbFlags,
				Action: runDuckDB,
			},
			{
				Name:   "feed",
				Usage:  "Analyze a websocket sample feed until the peer closes it",
				Flags:  feedFlags,
				Action: runFeed,
			},
			{
				Name:      "convert",
				Usage:     "Convert a text series into little-endian float64 records",
				ArgsUsage: "<text path|-> <binary path>",
				Action:    runConvert,
			},
		},
	}
}
