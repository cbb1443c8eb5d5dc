package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/collection-log-advisor/internal/advisor"
	"github.com/Tiliavir/collection-log-advisor/internal/estimate"
	"github.com/Tiliavir/collection-log-advisor/internal/logger"
	"github.com/Tiliavir/collection-log-advisor/internal/model"
	"github.com/Tiliavir/collection-log-advisor/internal/timecalc"
	"github.com/Tiliavir/collection-log-advisor/internal/watch"
)

// reportFlags are shared by estimate, next and export.
type reportFlags struct {
	sort      string
	desc      bool
	iron      bool
	main      bool
	extraTime bool
}

func (f *reportFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.sort, "sort", "time", "Sort by: time, name, fastest, progress")
	cmd.Flags().BoolVar(&f.desc, "desc", false, "Sort descending")
	cmd.Flags().BoolVar(&f.iron, "iron", false, "Use iron rates")
	cmd.Flags().BoolVar(&f.main, "main", false, "Use main rates")
	cmd.Flags().BoolVar(&f.extraTime, "with-extra-time", false, "Add each activity's extra time to its estimate")
	cmd.MarkFlagsMutuallyExclusive("iron", "main")
}

// options maps the flags to report options. Without --iron or --main the
// stored account mode applies.
func (f reportFlags) options() (advisor.Options, error) {
	key, err := estimate.ParseSortKey(f.sort)
	if err != nil {
		return advisor.Options{}, err
	}
	opts := advisor.Options{Sort: key, WithExtraTime: f.extraTime}
	if f.desc {
		opts.Direction = estimate.Descending
	}
	switch {
	case f.iron:
		opts.Account = model.AccountIronman
	case f.main:
		opts.Account = model.AccountNormal
	}
	return opts, nil
}

var (
	estimateFlags   reportFlags
	estimateWatch   bool
	estimateLogFile string
)

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Show the time to the next collection log slot per activity",
	Args:  cobra.NoArgs,
	RunE:  runEstimate,
}

func init() {
	estimateFlags.register(estimateCmd)
	estimateCmd.Flags().BoolVar(&estimateWatch, "watch", false, "Re-import --log-file and refresh whenever it changes")
	estimateCmd.Flags().StringVar(&estimateLogFile, "log-file", "", "Collection log export to watch")
}

func runEstimate(cmd *cobra.Command, args []string) error {
	if estimateWatch && estimateLogFile == "" {
		return errors.New("--watch needs --log-file")
	}
	opts, err := estimateFlags.options()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	adv, err := openAdvisor(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	render := func(ctx context.Context) error {
		report, err := adv.Report(ctx, opts)
		if err != nil {
			return err
		}
		return printReport(out, report)
	}
	if err := render(ctx); err != nil {
		exitStorage(err)
	}
	if !estimateWatch {
		return nil
	}

	fmt.Fprintf(out, "\nWatching %s (Ctrl+C to stop)\n", estimateLogFile)
	err = watch.File(ctx, estimateLogFile, func(ctx context.Context) error {
		if err := reimportLogFile(ctx, estimateLogFile, adv.Reload); err != nil {
			return err
		}
		logger.Get(ctx).Info().Str("file", estimateLogFile).Msg("collection log reloaded")
		fmt.Fprintln(out)
		return render(ctx)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// printReport renders the ranked table followed by the next fastest item.
func printReport(w io.Writer, report advisor.Report) error {
	if len(report.Rows) == 0 {
		fmt.Fprintln(w, "No activities found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ACTIVITY\tCOMPL/HR\tNEXT SLOT\tFASTEST SLOT\tFASTEST TIME\tOBTAINED")
	for _, r := range report.Rows {
		name := r.Activity
		if r.Disabled {
			name += " (disabled)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d/%d\n",
			name,
			strconv.FormatFloat(r.CompletionsPerHour, 'f', -1, 64),
			timecalc.FormatDays(r.Time),
			r.FastestName,
			timecalc.FormatDays(r.FastestTime),
			r.Obtained, r.Total,
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	printNext(w, report)
	return nil
}

// printNext prints the single fastest item among enabled activities.
func printNext(w io.Writer, report advisor.Report) {
	if report.Next == nil {
		fmt.Fprintln(w, "Next: nothing left to obtain.")
		return
	}
	n := report.Next
	fmt.Fprintf(w, "Next: %s from %s in %s (%s rates)\n",
		n.FastestName, n.Activity, timecalc.FormatDays(n.FastestTime), modeName(report.Account))
}
