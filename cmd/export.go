package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/collection-log-advisor/internal/export"
)

var (
	exportFlags  reportFlags
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the completion time table",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportFlags.register(exportCmd)
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, json, md, xlsx")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to file instead of stdout")
}

func runExport(cmd *cobra.Command, args []string) error {
	format, err := export.ParseFormat(exportFormat)
	if err != nil {
		return err
	}
	if format == export.XLSX && exportOutput == "" {
		return fmt.Errorf("xlsx output needs --output")
	}
	opts, err := exportFlags.options()
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

	if exportOutput == "" {
		if err := export.Write(cmd.OutOrStdout(), format, report); err != nil {
			exitStorage(err)
		}
		return nil
	}

	f, err := os.Create(exportOutput)
	if err != nil {
		exitStorage(err)
	}
	if err := export.Write(f, format, report); err != nil {
		f.Close()
		exitStorage(err)
	}
	if err := f.Close(); err != nil {
		exitStorage(err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d activities to %s\n", len(report.Rows), exportOutput)
	return nil
}
