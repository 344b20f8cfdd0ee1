package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/crossdash/internal/dashctl"
)

const defaultRunTimeout = 10 * time.Minute

func main() {
	verbose := flag.Bool("verbose", false, "Enable verbose logging")
	flag.Usage = func() { dashctl.ShowHelp(os.Stderr) }
	flag.Parse()

	if err := dashctl.SetupLogging(os.Stderr, *verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultRunTimeout)
	defer cancel()

	if err := dashctl.Run(ctx, flag.Args(), os.Stdout, os.Stderr); err != nil {
		os.Stderr.WriteString("dashctl: " + err.Error() + "\n")
		if errors.Is(err, dashctl.ErrUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
