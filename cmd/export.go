package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/leadscout/leadscout/internal/crm"
	"github.com/leadscout/leadscout/internal/export"
)

var (
	exportFormat string
	exportOut    string
	exportTo     string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the last search's results to CSV, XLSX, or Salesforce",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		records := env.Search.Results()

		if exportTo == "salesforce" {
			sink, err := crm.Connect(cfg.Salesforce)
			if err != nil {
				if eris.Is(err, crm.ErrNotConfigured) {
					return eris.New("salesforce is not configured; set LEADSCOUT_SALESFORCE_DOMAIN and LEADSCOUT_SALESFORCE_CLIENT_ID")
				}
				return err
			}
			report, err := sink.Push(ctx, records)
			if err != nil {
				return err
			}
			zap.L().Info("salesforce push finished",
				zap.Int("pushed", report.Pushed),
				zap.Int("failed", report.Failed),
				zap.Int("skipped", report.Skipped),
			)
			fmt.Printf("pushed %d leads to Salesforce (%d failed, %d skipped)\n",
				report.Pushed, report.Failed, report.Skipped)
			return nil
		}

		out := exportOut
		if out == "" {
			out = export.DefaultFilename
			if exportFormat == "xlsx" {
				out = strings.TrimSuffix(out, ".csv") + ".xlsx"
			}
		}

		f, err := os.Create(out)
		if err != nil {
			return eris.Wrapf(err, "create %s", out)
		}
		defer f.Close() //nolint:errcheck

		switch exportFormat {
		case "xlsx":
			err = export.EncodeXLSX(f, records)
		case "csv", "":
			err = export.EncodeCSV(f, records)
		default:
			err = eris.Errorf("unknown export format %q", exportFormat)
		}
		if err != nil {
			if eris.Is(err, export.ErrNoRecords) {
				_ = os.Remove(out)
				return eris.New("nothing to export; run a search first")
			}
			return err
		}

		fmt.Printf("wrote %d records to %s\n", len(records), out)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "output format: csv or xlsx")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file (default leads.csv / leads.xlsx)")
	exportCmd.Flags().StringVar(&exportTo, "to", "", "push to an external sink instead of a file (salesforce)")
	rootCmd.AddCommand(exportCmd)
}
