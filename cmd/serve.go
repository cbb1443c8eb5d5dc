package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Tiliavir/collection-log-advisor/internal/logger"
	"github.com/Tiliavir/collection-log-advisor/internal/server"
	"github.com/Tiliavir/collection-log-advisor/internal/watch"
)

var (
	serveAddr     string
	serveWatchLog string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the estimates over HTTP",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config)")
	serveCmd.Flags().StringVar(&serveWatchLog, "watch-log", "", "Re-import this collection log export whenever it changes")
}

func runServe(cmd *cobra.Command, args []string) error {
	adv, err := openAdvisor(cmd.Context())
	if err != nil {
		return err
	}
	addr := serveAddr
	if addr == "" {
		addr = cfg.Server.Addr
	}
	srv := server.New(addr, adv)

	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		return srv.Run(ctx)
	})
	if serveWatchLog != "" {
		g.Go(func() error {
			err := watch.File(ctx, serveWatchLog, func(ctx context.Context) error {
				if err := reimportLogFile(ctx, serveWatchLog, adv.Reload); err != nil {
					return err
				}
				logger.Get(ctx).Info().Str("file", serveWatchLog).Msg("collection log reloaded")
				return nil
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}
	return g.Wait()
}
