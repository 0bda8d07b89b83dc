package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/five82/todoable/internal/app"
	"github.com/five82/todoable/internal/config"
	"github.com/five82/todoable/internal/logging"
	"github.com/five82/todoable/internal/todoable"
)

// rootOptions carries global flags and the logger built from them.
type rootOptions struct {
	configPath string
	verbose    bool
	jsonOut    bool

	logger *zap.Logger
}

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "todoable: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "todoable",
		Short: "Manage Todoable lists and items",
		Long: `todoable talks to the Todoable API: lists, items, and a terminal UI.

Credentials come from ~/.config/todoable/config.toml or the
TODOABLE_USERNAME / TODOABLE_PASSWORD environment variables.

Run without arguments to start the terminal UI.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// The TUI owns the terminal and logs to a file instead.
			if isInteractive(cmd) {
				return nil
			}
			level := "warn"
			if opts.verbose {
				level = "debug"
			}
			logger, err := logging.New(level)
			if err != nil {
				return err
			}
			opts.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), app.Options{ConfigPath: opts.configPath})
		},
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Config file (default ~/.config/todoable/config.toml)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging on stderr")
	root.PersistentFlags().BoolVar(&opts.jsonOut, "json", false, "Print results as JSON")

	root.AddCommand(
		newListsCmd(opts),
		newShowCmd(opts),
		newCreateListCmd(opts),
		newRenameListCmd(opts),
		newDeleteListCmd(opts),
		newAddItemCmd(opts),
		newFinishItemCmd(opts),
		newDeleteItemCmd(opts),
		newTUICmd(opts),
	)
	return root
}

func isInteractive(cmd *cobra.Command) bool {
	return !cmd.HasParent() || cmd.Name() == "tui"
}

// connect loads the config and returns an authenticated client.
func (o *rootOptions) connect(ctx context.Context) (todoable.API, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger := o.logger
	if logger == nil {
		logger = zap.NewNop()
	}
	client, err := app.NewClient(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return client, nil
}
