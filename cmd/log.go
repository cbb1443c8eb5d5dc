package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/collection-log-advisor/internal/collectionlog"
	"github.com/Tiliavir/collection-log-advisor/internal/kvstore"
	"github.com/Tiliavir/collection-log-advisor/internal/model"
	"github.com/Tiliavir/collection-log-advisor/internal/remote"
)

var logRecent int

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Import and inspect your collection log",
}

var logImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a collection log JSON export",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogImport,
}

var logFetchCmd = &cobra.Command{
	Use:   "fetch <username>",
	Short: "Fetch a collection log from collectionlog.net",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogFetch,
}

var logSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show category progress and recently obtained items",
	Args:  cobra.NoArgs,
	RunE:  runLogSummary,
}

var logModeCmd = &cobra.Command{
	Use:       "mode [iron|main]",
	Short:     "Show or set whether iron or main rates apply",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"iron", "main"},
	RunE:      runLogMode,
}

func init() {
	logSummaryCmd.Flags().IntVar(&logRecent, "recent", collectionlog.DefaultRecentLimit, "Number of recent items to show")

	logCmd.AddCommand(logImportCmd)
	logCmd.AddCommand(logFetchCmd)
	logCmd.AddCommand(logSummaryCmd)
	logCmd.AddCommand(logModeCmd)
}

// readLogFile parses a collection log export.
func readLogFile(path string) (collectionlog.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return collectionlog.Snapshot{}, err
	}
	snap, err := collectionlog.Parse(data)
	if err != nil {
		return collectionlog.Snapshot{}, fmt.Errorf("%s: %w", path, err)
	}
	return snap, nil
}

// reimportLogFile is the watcher callback body: parse, store, reload.
func reimportLogFile(ctx context.Context, path string, reload func(context.Context) error) error {
	snap, err := readLogFile(path)
	if err != nil {
		return err
	}
	if err := collectionlog.Save(ctx, store, snap); err != nil {
		return err
	}
	return reload(ctx)
}

func runLogImport(cmd *cobra.Command, args []string) error {
	snap, err := readLogFile(args[0])
	if err != nil {
		return err
	}
	if err := collectionlog.Save(cmd.Context(), store, snap); err != nil {
		exitStorage(err)
	}
	printImported(cmd.OutOrStdout(), snap)
	return nil
}

func runLogFetch(cmd *cobra.Command, args []string) error {
	client := remote.NewClient(cmd.Context(), cfg.Remote)
	snap, err := client.FetchCollectionLog(cmd.Context(), args[0])
	if errors.Is(err, remote.ErrNotFound) {
		return fmt.Errorf("no collection log found for %q on collectionlog.net", args[0])
	}
	if err != nil {
		return err
	}
	if err := collectionlog.Save(cmd.Context(), store, snap); err != nil {
		exitStorage(err)
	}
	printImported(cmd.OutOrStdout(), snap)
	return nil
}

func printImported(w io.Writer, snap collectionlog.Snapshot) {
	mode := "main"
	if snap.Account().IsIron() {
		mode = "iron"
	}
	fmt.Fprintf(w, "Imported log for %s (%s, using %s rates): %d/%d unique items.\n",
		snap.Username, snap.AccountType, mode, snap.UniqueObtained, snap.UniqueItems)
}

func runLogSummary(cmd *cobra.Command, args []string) error {
	snap, err := collectionlog.Load(cmd.Context(), store)
	if errors.Is(err, kvstore.ErrNotFound) {
		return errors.New("no collection log imported yet (run: cla log import <file> or cla log fetch <username>)")
	}
	if err != nil {
		exitStorage(err)
	}
	printSummary(cmd.OutOrStdout(), snap, logRecent)
	return nil
}

// printSummary prints per-category progress followed by recent items.
func printSummary(w io.Writer, snap collectionlog.Snapshot, recent int) {
	fmt.Fprintf(w, "%s (%s): %d/%d unique items\n\n", snap.Username, snap.AccountType, snap.UniqueObtained, snap.UniqueItems)

	counts := snap.CategoryCounts()
	for _, section := range collectionlog.Sections {
		c := counts[section]
		fmt.Fprintf(w, "%-10s %5d/%-5d %s\n", section, c.Obtained, c.Total, progressBar(c.Obtained, c.Total, 20))
	}

	items := snap.RecentItems(recent)
	if len(items) == 0 {
		return
	}
	fmt.Fprintln(w, "\nRecent items:")
	for _, it := range items {
		at := it.ObtainedAt
		if t, ok := it.ObtainedTime(); ok {
			at = t.Format("2006-01-02")
		}
		fmt.Fprintf(w, "  %s  %s\n", at, it.Name)
	}
}

// progressBar renders obtained/total as a fixed-width bar.
func progressBar(obtained, total, width int) string {
	filled := 0
	if total > 0 {
		filled = obtained * width / total
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}

func runLogMode(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if len(args) == 0 {
		mode, err := collectionlog.Mode(ctx, store)
		if err != nil {
			exitStorage(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), modeName(mode))
		return nil
	}

	var account model.AccountType
	switch strings.ToLower(args[0]) {
	case "iron":
		account = model.AccountIronman
	case "main":
		account = model.AccountNormal
	default:
		return fmt.Errorf("unknown mode %q (want iron or main)", args[0])
	}
	if err := collectionlog.SetMode(ctx, store, account); err != nil {
		exitStorage(err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Using %s rates.\n", modeName(account))
	return nil
}

func modeName(a model.AccountType) string {
	if a.IsIron() {
		return "iron"
	}
	return "main"
}
