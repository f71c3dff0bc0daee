package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/transparentprocure/oversight-service/service"

	log "github.com/sirupsen/logrus"
)

var (
	anomaliesCounty    string
	anomaliesThreshold float64
	anomaliesLimit     int
	highRiskLimit      int
)

var anomaliesCmd = &cobra.Command{
	Use:   "anomalies",
	Short: "List anomalous tenders ordered by variance ratio",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tc, err := newToolContext(cmd, anomaliesThreshold)
		if err != nil {
			return err
		}
		result, err := service.NewTenderService(tc.client, tc.evaluator).GetRankedAnomalies(tc.ctx, anomaliesCounty, anomaliesLimit)
		if err != nil {
			return err
		}
		if result.Error != "" {
			return fmt.Errorf("%s", result.Error)
		}
		log.Debugf("%d anomalies above ratio %.2f", len(result.Anomalies), result.Threshold)
		if outputJson {
			return printJson(cmd.OutOrStdout(), result)
		}
		return printTable(cmd.OutOrStdout(), func(w io.Writer) {
			fmt.Fprintln(w, "ID\tTITLE\tCOUNTY\tRATIO\tVARIANCE\tVALUE")
			for _, row := range result.Anomalies {
				fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%s\t%s %s\n", row.Id, row.Title, row.County, row.Ratio, row.VarianceDisplay, row.Currency, row.ValueDisplay)
			}
		})
	},
}

var highRiskCmd = &cobra.Command{
	Use:   "high-risk",
	Short: "List the contractors with the lowest trust scores",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tc, err := newToolContext(cmd, 0)
		if err != nil {
			return err
		}
		result, err := service.NewContractorService(tc.client, tc.config.GetHighRiskLimit()).GetHighRisk(tc.ctx, highRiskLimit)
		if err != nil {
			return err
		}
		if result.Error != "" {
			return fmt.Errorf("%s", result.Error)
		}
		if outputJson {
			return printJson(cmd.OutOrStdout(), result)
		}
		return printTable(cmd.OutOrStdout(), func(w io.Writer) {
			fmt.Fprintln(w, "ID\tNAME\tSCORE\tRISK\tSTATUS")
			for _, row := range result.Contractors {
				fmt.Fprintf(w, "%s\t%s\t%.0f\t%s\t%s\n", row.Id, row.Name, row.TrustScore, row.RiskLevel, row.Status)
			}
		})
	},
}

var countiesCmd = &cobra.Command{
	Use:   "counties",
	Short: "Summarize tender value and flagged tenders per county",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tc, err := newToolContext(cmd, 0)
		if err != nil {
			return err
		}
		result, err := service.NewTenderService(tc.client, tc.evaluator).GetCountyBreakdown(tc.ctx)
		if err != nil {
			return err
		}
		if result.Error != "" {
			return fmt.Errorf("%s", result.Error)
		}
		if outputJson {
			return printJson(cmd.OutOrStdout(), result)
		}
		return printTable(cmd.OutOrStdout(), func(w io.Writer) {
			fmt.Fprintln(w, "COUNTY\tTENDERS\tFLAGGED\tTOTAL VALUE")
			for _, county := range result.Counties {
				fmt.Fprintf(w, "%s\t%d\t%d\t%.2f\n", county.Name, county.TenderCount, county.Flagged, county.TotalValue)
			}
		})
	},
}

func printJson(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printTable(out io.Writer, write func(w io.Writer)) error {
	if out == nil {
		out = os.Stdout
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	write(w)
	return w.Flush()
}
