package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/collection-log-advisor/internal/advisor"
	"github.com/Tiliavir/collection-log-advisor/internal/config"
	"github.com/Tiliavir/collection-log-advisor/internal/kvstore"
	"github.com/Tiliavir/collection-log-advisor/internal/logger"
)

var (
	configPath string

	cfg        config.Config
	store      kvstore.Store
	closeStore = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "cla",
	Short: "Collection Log Advisor – time to your next collection log slot",
	Long: `cla estimates, for every activity, how long it takes to obtain the
next new collection log item, and names the single fastest item to go for.
Settings live in ~/.cla/config.toml, data in ~/.cla/.`,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute is the entry point called from main.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:])
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run executes the command line and closes the store on every return
// path, including command errors.
func run(ctx context.Context, args []string) error {
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(ctx)
	if closeErr := releaseStore(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}

func releaseStore() error {
	err := closeStore()
	closeStore = func() error { return nil }
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.cla/config.toml)")

	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(ratesCmd)
	rootCmd.AddCommand(estimateCmd)
	rootCmd.AddCommand(nextCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(serveCmd)
}

// setup loads the config, configures logging and opens the store.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	if configPath != "" {
		cfg, err = config.LoadFrom(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)

	store, closeStore, err = kvstore.Open(cmd.Context(), cfg.Storage)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger.Global().Debug().Str("backend", cfg.Storage.Backend).Msg("store opened")
	return nil
}

// exitStorage reports a storage or IO failure and exits with status 2.
func exitStorage(err error) {
	_ = releaseStore()
	fmt.Fprintln(os.Stderr, err)
	os.Exit(2)
}

// openAdvisor loads catalog, rates and log. A missing catalog is a usage
// error; anything else is a storage failure.
func openAdvisor(ctx context.Context) (*advisor.Advisor, error) {
	adv, err := advisor.Open(ctx, store)
	if errors.Is(err, advisor.ErrNoCatalog) {
		return nil, err
	}
	if err != nil {
		exitStorage(err)
	}
	return adv, nil
}
