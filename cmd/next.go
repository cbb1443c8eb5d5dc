package cmd

import (
	"github.com/spf13/cobra"
)

var nextFlags reportFlags

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Show the single fastest item to go for next",
	Args:  cobra.NoArgs,
	RunE:  runNext,
}

func init() {
	nextFlags.register(nextCmd)
}

func runNext(cmd *cobra.Command, args []string) error {
	opts, err := nextFlags.options()
	if err != nil {
		return err
	}
	adv, err := openAdvisor(cmd.Context())
	if err != nil {
		return err
	}
	report, err := adv.Report(cmd.Context(), opts)
	if err != nil {
		exitStorage(err)
	}
	printNext(cmd.OutOrStdout(), report)
	return nil
}
