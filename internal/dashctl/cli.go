// Package dashctl generates synthetic datasets and drives a running
// dashboard from the command line.
package dashctl

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/okian/crossdash/internal/domain/model"
	"github.com/okian/crossdash/pkg/logger"
)

// File permission constants.
const (
	outputFilePermission = 0o600
)

// ErrUsage is returned for a malformed command line.
var ErrUsage = errors.New("usage")

// SetupLogging sends log records to w, at debug level when verbose.
func SetupLogging(w io.Writer, verbose bool) error {
	if err := logger.InitWriter(w); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		return logger.SetLevelString("debug")
	}
	return logger.SetLevelString("warn")
}

// Run executes the dashctl command named by args[0].
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		ShowHelp(stderr)
		return fmt.Errorf("%w: missing command", ErrUsage)
	}
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "gen":
		return runGen(rest, stdout, stderr)
	case "state", "country", "toggle", "bench":
		return runRemote(ctx, cmd, rest, stdout, stderr)
	case "help", "-h", "-help", "--help":
		ShowHelp(stdout)
		return nil
	default:
		ShowHelp(stderr)
		return fmt.Errorf("%w: unknown command %q", ErrUsage, cmd)
	}
}

func runGen(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("gen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfg := GenConfig{}
	fs.IntVar(&cfg.Rows, "rows", defaultRows, "Number of data rows")
	fs.IntVar(&cfg.Countries, "countries", defaultCountries, "Number of distinct countries")
	fs.IntVar(&cfg.YearFrom, "from", defaultYearFrom, "First year")
	fs.IntVar(&cfg.YearTo, "to", defaultYearTo, "Last year")
	fs.Float64Var(&cfg.Invalid, "invalid", 0, "Share of rows with an unparseable suicides value")
	fs.Uint64Var(&cfg.Seed, "seed", 1, "Generator seed")
	output := fs.String("o", "", "Output file (default stdout)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	w := stdout
	if *output != "" {
		f, err := os.OpenFile(*output, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, outputFilePermission)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}
	invalid, err := Generate(w, cfg)
	if err != nil {
		return err
	}
	logger.Get().Info(context.Background(), "dataset generated",
		logger.Int("rows", cfg.Rows), logger.Int("invalid", invalid), logger.String("output", *output))
	return nil
}

func runRemote(ctx context.Context, cmd string, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfg := &Config{}
	fs.StringVar(&cfg.BaseURL, "url", DefaultBaseURL, "Base URL of the dashboard")
	fs.DurationVar(&cfg.Timeout, "timeout", DefaultTimeout, "HTTP request timeout")

	var (
		slot    = fs.String("slot", string(model.SlotSelectedSex), "Toggle slot")
		idemKey = fs.String("idempotency-key", "", "Idempotency key (default: a new uuid)")
		bench   BenchConfig
	)
	fs.IntVar(&bench.Toggles, "toggles", defaultToggles, "Number of toggles to send")
	fs.IntVar(&bench.Workers, "workers", defaultWorkers, "Number of concurrent workers")
	fs.IntVar(&bench.Reuse, "reuse", 0, "Repeat the previous idempotency key every n-th toggle")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	c := NewClient(cfg)
	switch cmd {
	case "state":
		st, err := c.State(ctx)
		if err != nil {
			return err
		}
		return printJSON(stdout, st)
	case "country":
		if fs.NArg() != 1 {
			return fmt.Errorf("%w: country <uid|all>", ErrUsage)
		}
		country := fs.Arg(0)
		if strings.EqualFold(country, "all") {
			country = ""
		}
		resp, err := c.SetCountry(ctx, country)
		if err != nil {
			return err
		}
		return printJSON(stdout, resp)
	case "toggle":
		if fs.NArg() != 1 {
			return fmt.Errorf("%w: toggle [-slot s] <key>", ErrUsage)
		}
		resp, err := c.Toggle(ctx, model.Slot(*slot), fs.Arg(0), *idemKey)
		if err != nil {
			return err
		}
		return printJSON(stdout, resp)
	default:
		if err := c.Health(ctx); err != nil {
			return fmt.Errorf("service health check failed: %w", err)
		}
		stats, err := Bench(ctx, c, bench)
		if err != nil {
			return err
		}
		return printJSON(stdout, stats)
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// ShowHelp prints usage information for dashctl.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `dashctl
=======

Generate datasets for and drive a running crossdash dashboard.

Usage:
  dashctl <command> [options]

Commands:
  gen       Write a synthetic uid,sex,year,suicides,population CSV
              -rows int -countries int -from int -to int
              -invalid float -seed uint -o file
  state     Print the dashboard state as JSON
  country   Set the country filter: country <uid|all>
  toggle    Toggle a selection: toggle [-slot selectedSex] [-idempotency-key k] <key>
  bench     Send concurrent sex toggles: -toggles int -workers int -reuse int

Common options for state, country, toggle and bench:
  -url string        Base URL of the dashboard (default "http://localhost:9080")
  -timeout duration  HTTP request timeout (default 30s)

Global options (before the command):
  -verbose           Enable debug logging

Examples:
  dashctl gen -rows 5000 -invalid 0.01 -o data.csv
  CROSSDASH_DATA_URL=data.csv crossdash &
  dashctl country ALB
  dashctl toggle male
  dashctl bench -toggles 1000 -workers 16 -reuse 10
`)
}
