package main

import (
	"errors"
	"fmt"

	"github.com/layer-3/xosclaim/adapters/console"
	"github.com/layer-3/xosclaim/config"
	"github.com/layer-3/xosclaim/core"
	"github.com/layer-3/xosclaim/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var ErrAccountsFailed = errors.New("one or more accounts failed")

type options struct {
	mode         string
	accountsFile string
	keysFile     string
	store        string
	events       string
	proxy        string
	metricsFile  string
	logLevel     string
	strictExit   bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "xosclaim [private-key]",
		Short: "Log in to X.ink with EVM wallets and claim the daily check-in and draws",
		Long: "Logs in with a single private key, with the keys saved in the account log " +
			"(--mode accounts) or with a plain key list (--mode keys). " +
			"Without arguments an interactive prompt offers the same choices.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.mode, "mode", "", "read keys from the account log (accounts) or the key list (keys)")
	flags.StringVar(&opts.accountsFile, "accounts-file", "", "account log path (default account.txt)")
	flags.StringVar(&opts.keysFile, "keys-file", "", "key list path (default private_keys.txt)")
	flags.StringVar(&opts.store, "store", "", "credential store backend: file or redis")
	flags.StringVar(&opts.events, "events", "", "publish run events to: redis")
	flags.StringVar(&opts.proxy, "proxy", "", "forward proxy URL for all requests")
	flags.StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile when done")
	flags.StringVar(&opts.logLevel, "log-level", "", "diagnostic log level (debug, info, warn, error)")
	flags.BoolVar(&opts.strictExit, "strict-exit", false, "exit non-zero when any account fails")

	return cmd
}

// apply overrides the loaded configuration with the flags that were set
func (o *options) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("accounts-file") {
		cfg.Storage.AccountsFile = o.accountsFile
	}
	if flags.Changed("keys-file") {
		cfg.Storage.KeysFile = o.keysFile
	}
	if flags.Changed("store") {
		cfg.Storage.Backend = o.store
	}
	if flags.Changed("events") {
		cfg.Events = o.events
	}
	if flags.Changed("proxy") {
		cfg.Proxy = o.proxy
	}
	if flags.Changed("metrics-file") {
		cfg.Metrics = o.metricsFile
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = o.logLevel
	}
}

func run(cmd *cobra.Command, args []string, opts *options) error {
	ctx := cmd.Context()

	cfg := config.Load()
	opts.apply(cmd, cfg)

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	reporter := console.NewReporter(cmd.OutOrStdout(), cfg.Logging.Timezone)

	source := sourceSingle
	var single string
	switch {
	case len(args) == 1 && opts.mode != "":
		return fmt.Errorf("a private key argument cannot be combined with --mode")
	case len(args) == 1:
		single = args[0]
	case opts.mode != "":
		if source, err = parseMode(opts.mode); err != nil {
			return err
		}
	default:
		if source, single, err = promptSource(cfg.Storage.AccountsFile, cfg.Storage.KeysFile); err != nil {
			return err
		}
	}

	a, err := newApp(cfg, logger, reporter)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("failed to close resources", zap.Error(err))
		}
	}()

	keys, err := loadKeys(ctx, source, single, a.creds, cfg.Storage.KeysFile)
	if err != nil {
		return err
	}

	var summary core.BatchSummary
	switch {
	case len(keys) == 0:
		reporter.Warn("No private keys found.")
	case source == sourceSingle:
		summary.Add(a.orchestrator.RunSingleAccount(ctx, keys[0]))
	default:
		reporter.Info("Found %d accounts", len(keys))
		summary = a.orchestrator.RunBatch(ctx, keys)
	}

	if cfg.Metrics != "" {
		if err := a.recorder.WriteToTextfile(cfg.Metrics); err != nil {
			logger.Warn("failed to write metrics", zap.String("path", cfg.Metrics), zap.Error(err))
		}
	}

	reporter.Success("Process completed. Thank you for using XOS Wallet Client!")

	// Failures are reported above; the exit code only reflects them on request
	if opts.strictExit && summary.FailureCount > 0 {
		return fmt.Errorf("%w: %d of %d", ErrAccountsFailed, summary.FailureCount, summary.TotalAccounts)
	}
	return nil
}
