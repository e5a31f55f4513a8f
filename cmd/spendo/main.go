package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"spendo/internal/client"
	"spendo/pkg/config"
	"spendo/pkg/logger"

	"go.uber.org/zap"
)

const usage = `Usage: spendo <command> [flags]

Commands:
  dashboard [-days 7|30] [-category name]   totals, category breakdown and daily trend
  add -title t -category c -amount n [-type expense|savings] [-date YYYY-MM-DD] [-description d]
  list [-q query] [-export path]            search records, optionally export them
  edit <id> field=value...                  change fields of one record
  delete <id>                               remove a record
`

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	appLogger, err := logger.NewConsole(cfg.Logger.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	api := client.New(cfg.Client.BaseURL, cfg.Client.Timeout, appLogger)
	shell := &shell{api: api, out: os.Stdout, logger: appLogger}

	if err := shell.run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type recordAPI interface {
	dashboardAPI
	formAPI
	listAPI
}

// shell routes a subcommand to its view.
type shell struct {
	api    recordAPI
	out    io.Writer
	logger *zap.Logger
}

func (s *shell) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(s.out, usage)
		return flag.ErrHelp
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "dashboard":
		return s.dashboard(ctx, rest)
	case "add":
		return s.add(ctx, rest)
	case "list":
		return s.list(ctx, rest)
	case "edit":
		return s.edit(ctx, rest)
	case "delete":
		return s.delete(ctx, rest)
	case "help", "-h", "--help":
		fmt.Fprint(s.out, usage)
		return nil
	}

	fmt.Fprint(s.out, usage)
	return fmt.Errorf("unknown command %q", cmd)
}

func newFlagSet(name string, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	return fs
}
