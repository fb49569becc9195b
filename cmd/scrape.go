package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/jobradar/jobradar/internal/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Fetch new postings and merge them into the local store",
	Run: func(cmd *cobra.Command, _ []string) {
		scrape(cmd)
	},
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().StringP("location", "l", "", "location to search postings in")
	scrapeCmd.Flags().IntP("results", "n", 0, "how many postings to request")
	scrapeCmd.Flags().Int("distance", 0, "search radius")
	scrapeCmd.Flags().StringSlice("site", nil, "job board site identifiers")
	scrapeCmd.Flags().StringP("resume", "r", "", "resume file; when set, new postings are matched after the merge")
	scrapeCmd.Flags().Bool("reprocess-all", false, "re-enrich the full store instead of only new postings")
	scrapeCmd.Flags().Bool("process-with-ai", false, "run structured extraction before embedding")

	viper.BindPFlag("search.location", scrapeCmd.Flags().Lookup("location"))
	viper.BindPFlag("search.results-wanted", scrapeCmd.Flags().Lookup("results"))
	viper.BindPFlag("search.distance", scrapeCmd.Flags().Lookup("distance"))
	viper.BindPFlag("search.sites", scrapeCmd.Flags().Lookup("site"))
	viper.BindPFlag("resume-path", scrapeCmd.Flags().Lookup("resume"))
	viper.BindPFlag("reprocess-all", scrapeCmd.Flags().Lookup("reprocess-all"))
	viper.BindPFlag("process-with-ai", scrapeCmd.Flags().Lookup("process-with-ai"))
}

func scrape(_ *cobra.Command) {
	ctx := context.Background()

	zlog, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		zlog.Fatal("getting a config", zap.Error(err))
	}

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	zlog.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config.Search.Location == "" {
		zlog.Fatal("location is required",
			zap.String("hint", "set search.location in the config file or pass --location"),
		)
	}

	// Matching after the merge is optional; only then is a resume (and an
	// API key) needed.
	resumeText := ""
	if config.ResumePath != "" {
		resumeText, err = loadResume(config)
		if err != nil {
			zlog.Fatal("loading resume", zap.Error(err))
		}
	}

	p, err := buildPipeline(ctx, config, zlog, resumeText != "")
	if err != nil {
		zlog.Fatal("building pipeline", zap.Error(err))
	}

	zlog.Info("starting the scrape",
		zap.String("location", config.Search.Location),
		zap.Int("results_wanted", config.Search.ResultsWanted),
		zap.Strings("sites", config.Search.Sites),
	)

	report, err := p.Ingest(ctx, resumeText)
	if err != nil {
		zlog.Fatal("ingestion run failed", zap.Error(err))
	}

	fmt.Printf("fetched %d postings, added %d new jobs, skipped %d duplicates, skipped %d without id\n",
		report.Fetched, report.Added, report.Duplicates, report.MissingID)
	if resumeText != "" {
		fmt.Printf("enriched %d records, failed to enrich %d\n", report.Enriched, report.EnrichFailed)
		printTopMatches(report.Top)
	}
}
