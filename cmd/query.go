package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/jobradar/jobradar/internal/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Enrich and rank the whole store against your resume",
	Run: func(cmd *cobra.Command, _ []string) {
		query(cmd)
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)

	queryCmd.Flags().StringP("resume", "r", "", "resume file to match against")
	queryCmd.Flags().IntP("top", "t", 10, "how many top matches to show")
	queryCmd.Flags().Bool("process-with-ai", false, "run structured extraction before embedding")

	viper.BindPFlag("resume-path", queryCmd.Flags().Lookup("resume"))
	viper.BindPFlag("top", queryCmd.Flags().Lookup("top"))
	viper.BindPFlag("process-with-ai", queryCmd.Flags().Lookup("process-with-ai"))
}

func query(_ *cobra.Command) {
	ctx := context.Background()

	zlog, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		zlog.Fatal("getting a config", zap.Error(err))
	}

	resumeText, err := loadResume(config)
	if err != nil {
		zlog.Fatal("loading resume", zap.Error(err))
	}

	p, err := buildPipeline(ctx, config, zlog, true)
	if err != nil {
		zlog.Fatal("building pipeline", zap.Error(err))
	}

	report, err := p.MatchAll(ctx, resumeText)
	if err != nil {
		zlog.Fatal("matching run failed", zap.Error(err))
	}

	fmt.Printf("processed %d records: enriched %d, failed to enrich %d, scored %d\n",
		report.Targets, report.Enriched, report.EnrichFailed, report.Scored)
	printTopMatches(report.Top)
}
