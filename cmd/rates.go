package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/collection-log-advisor/internal/model"
	"github.com/Tiliavir/collection-log-advisor/internal/rates"
	"github.com/Tiliavir/collection-log-advisor/internal/timecalc"
)

var (
	ratesSetMain  float64
	ratesSetIron  float64
	ratesSetExtra float64
)

var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Show and edit completions per hour",
}

var ratesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your rates next to the catalog defaults",
	Args:  cobra.NoArgs,
	RunE:  runRatesList,
}

var ratesSetCmd = &cobra.Command{
	Use:   "set <activity>",
	Short: "Set completions per hour or extra time for an activity",
	Args:  cobra.ExactArgs(1),
	RunE:  runRatesSet,
}

var ratesResetCmd = &cobra.Command{
	Use:   "reset <activity>",
	Short: "Restore an activity's catalog defaults",
	Args:  cobra.ExactArgs(1),
	RunE:  runRatesReset,
}

var ratesDisableCmd = &cobra.Command{
	Use:   "disable <activity>",
	Short: "Exclude an activity from the next fastest pick",
	Args:  cobra.ExactArgs(1),
	RunE:  runRatesDisable,
}

var ratesEnableCmd = &cobra.Command{
	Use:   "enable <activity>",
	Short: "Include a disabled activity again",
	Args:  cobra.ExactArgs(1),
	RunE:  runRatesEnable,
}

func init() {
	ratesSetCmd.Flags().Float64Var(&ratesSetMain, "main", 0, "Completions per hour on a main account")
	ratesSetCmd.Flags().Float64Var(&ratesSetIron, "iron", 0, "Completions per hour on an iron account")
	ratesSetCmd.Flags().Float64Var(&ratesSetExtra, "extra", 0, "Extra hours before the first completion")

	ratesCmd.AddCommand(ratesListCmd)
	ratesCmd.AddCommand(ratesSetCmd)
	ratesCmd.AddCommand(ratesResetCmd)
	ratesCmd.AddCommand(ratesDisableCmd)
	ratesCmd.AddCommand(ratesEnableCmd)
}

func runRatesList(cmd *cobra.Command, args []string) error {
	adv, err := openAdvisor(cmd.Context())
	if err != nil {
		return err
	}
	svc := adv.Rates()
	return printRates(cmd.OutOrStdout(), svc.Rates(), svc.IsDisabled)
}

// printRates prints one line per activity. Values that differ from the
// catalog default are marked with '*'.
func printRates(w io.Writer, table []model.Rate, disabled func(string) bool) error {
	if len(table) == 0 {
		fmt.Fprintln(w, "No rates found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ACTIVITY\tMAIN/HR\tIRON/HR\tEXTRA TIME\tDISABLED")
	for _, r := range table {
		state := ""
		if disabled(r.ActivityName) {
			state = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			r.ActivityName,
			rateCell(r.UserMain, r.DefaultMain),
			rateCell(r.UserIron, r.DefaultIron),
			timecalc.FormatHours(r.UserExtraTime)+marker(r.UserExtraTime, r.DefaultExtraTime),
			state,
		)
	}
	return tw.Flush()
}

func rateCell(user, def float64) string {
	return strconv.FormatFloat(user, 'f', -1, 64) + marker(user, def)
}

func marker(user, def float64) string {
	if user != def {
		return "*"
	}
	return ""
}

// changedFields returns the rate fields whose flags were given.
func changedFields(cmd *cobra.Command) map[rates.Field]float64 {
	fields := map[rates.Field]float64{}
	if cmd.Flags().Changed("main") {
		fields[rates.FieldMain] = ratesSetMain
	}
	if cmd.Flags().Changed("iron") {
		fields[rates.FieldIron] = ratesSetIron
	}
	if cmd.Flags().Changed("extra") {
		fields[rates.FieldExtra] = ratesSetExtra
	}
	return fields
}

func runRatesSet(cmd *cobra.Command, args []string) error {
	fields := changedFields(cmd)
	if len(fields) == 0 {
		return errors.New("nothing to set (use --main, --iron or --extra)")
	}

	adv, err := openAdvisor(cmd.Context())
	if err != nil {
		return err
	}
	if err := rateError(adv.Rates().Apply(cmd.Context(), args[0], rates.Change{Values: fields})); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated %s.\n", args[0])
	return nil
}

func runRatesReset(cmd *cobra.Command, args []string) error {
	adv, err := openAdvisor(cmd.Context())
	if err != nil {
		return err
	}
	if err := rateError(adv.Rates().Reset(cmd.Context(), args[0])); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Reset %s to catalog defaults.\n", args[0])
	return nil
}

func runRatesDisable(cmd *cobra.Command, args []string) error {
	return toggleRate(cmd, args[0], true)
}

func runRatesEnable(cmd *cobra.Command, args []string) error {
	return toggleRate(cmd, args[0], false)
}

func toggleRate(cmd *cobra.Command, activity string, disable bool) error {
	adv, err := openAdvisor(cmd.Context())
	if err != nil {
		return err
	}
	svc := adv.Rates()
	verb, toggle := "Enabled", svc.Enable
	if disable {
		verb, toggle = "Disabled", svc.Disable
	}
	if err := rateError(toggle(cmd.Context(), activity)); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s.\n", verb, activity)
	return nil
}

// rateError returns usage errors and exits on storage failures.
func rateError(err error) error {
	if err == nil || errors.Is(err, rates.ErrUnknownActivity) || errors.Is(err, rates.ErrInvalidValue) {
		return err
	}
	exitStorage(err)
	return nil
}
