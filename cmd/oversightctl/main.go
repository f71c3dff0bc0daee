// oversightctl queries the procurement backend with the system access token and
// prints the same risk rankings the oversight service serves.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/transparentprocure/oversight-service/client"
	"github.com/transparentprocure/oversight-service/risk"
	"github.com/transparentprocure/oversight-service/secctx"
	"github.com/transparentprocure/oversight-service/service"

	log "github.com/sirupsen/logrus"
)

var (
	envFile    string
	outputJson bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "oversightctl",
	Short: "Inspect procurement risk from the command line",
	Long: `oversightctl reads tenders and contractors from the procurement API
configured by PROCUREMENT_API_URL and PROCUREMENT_API_TOKEN and prints
anomaly and contractor risk rankings.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
		if envFile == "" {
			return nil
		}
		if err := godotenv.Load(envFile); err != nil && cmd.Flags().Changed("env-file") {
			return fmt.Errorf("failed to load %s: %w", envFile, err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file with the service configuration")
	rootCmd.PersistentFlags().BoolVar(&outputJson, "json", false, "print JSON instead of a table")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	anomaliesCmd.Flags().StringVar(&anomaliesCounty, "county", "", "restrict tenders to a county")
	anomaliesCmd.Flags().Float64Var(&anomaliesThreshold, "threshold", 0, "variance ratio threshold, configured value when 0")
	anomaliesCmd.Flags().IntVar(&anomaliesLimit, "limit", 10, "maximum rows to print, all when 0")
	highRiskCmd.Flags().IntVar(&highRiskLimit, "limit", 0, "number of contractors, configured value when 0")

	rootCmd.AddCommand(anomaliesCmd, highRiskCmd, countiesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

type toolContext struct {
	ctx       context.Context
	config    service.SystemInfoService
	client    client.ProcurementClient
	evaluator risk.Evaluator
}

func newToolContext(cmd *cobra.Command, threshold float64) (*toolContext, error) {
	config, err := service.NewSystemInfoService()
	if err != nil {
		return nil, err
	}
	if config.GetProcurementApiToken() == "" {
		log.Warn("PROCUREMENT_API_TOKEN is empty, the backend will most likely reject the requests")
	}
	if threshold <= 0 {
		threshold = config.GetVarianceThreshold()
	}
	evaluator, err := risk.NewEvaluator(threshold, config.GetAnomalyFlagPattern())
	if err != nil {
		return nil, err
	}
	return &toolContext{
		ctx:       secctx.MakeSysadminContext(cmd.Context()),
		config:    config,
		client:    client.NewProcurementClient(config.GetProcurementApiUrl(), config.GetProcurementApiToken(), config.GetProcurementApiTimeout()),
		evaluator: evaluator,
	}, nil
}
