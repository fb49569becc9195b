package cmd

import (
	"log"

	"github.com/jobradar/jobradar/internal/filtering"
	"github.com/jobradar/jobradar/internal/logger"
	"github.com/jobradar/jobradar/internal/rank"
	"github.com/jobradar/jobradar/internal/store"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Show the best matches already scored in the store",
	Run: func(cmd *cobra.Command, _ []string) {
		top(cmd)
	},
}

func init() {
	rootCmd.AddCommand(topCmd)

	topCmd.Flags().IntP("top", "t", 10, "how many matches to show")
	topCmd.Flags().Float64("min-similarity", 0, "drop matches scored below this threshold")

	viper.BindPFlag("top", topCmd.Flags().Lookup("top"))
	viper.BindPFlag("min-similarity", topCmd.Flags().Lookup("min-similarity"))
}

func top(_ *cobra.Command) {
	zlog, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		zlog.Fatal("getting a config", zap.Error(err))
	}

	records := store.New(viper.GetString("storage-path"), zlog).Load()
	if len(records) == 0 {
		zlog.Fatal("the job store is empty, run a scrape first")
	}

	ranked := rank.Rank(records)
	if len(ranked) == 0 {
		zlog.Fatal("no similarity scores in the store, run a query first")
	}

	var excluded []string
	if config.Exclude != nil {
		excluded = config.Exclude.Companies
	}

	steps := []filtering.Filter{
		filtering.NewMinSimilarity(viper.GetFloat64("min-similarity")),
		filtering.NewExcludeCompanies(excluded),
		filtering.NewTopN(viper.GetInt("top")),
	}

	printTopMatches(filtering.Run(steps, ranked, zlog))
}
