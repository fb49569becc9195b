package cmd

import (
	"fmt"
	"log"

	"github.com/jobradar/jobradar/internal/job"
	"github.com/jobradar/jobradar/internal/logger"
	"github.com/jobradar/jobradar/internal/store"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const statsTopN = 5

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show statistics about the job store",
	Run: func(cmd *cobra.Command, _ []string) {
		stats(cmd)
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func stats(_ *cobra.Command) {
	zlog, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	records := store.New(viper.GetString("storage-path"), zlog).Load()
	if len(records) == 0 {
		fmt.Println("no jobs in the store yet")
		return
	}

	summary := job.Summarize(records, statsTopN)

	fmt.Printf("total jobs:            %d\n", summary.Total)
	fmt.Printf("with embeddings:       %d\n", summary.WithEmbedding)
	fmt.Printf("with similarity score: %d\n", summary.WithSimilarity)

	if summary.WithSimilarity > 0 {
		fmt.Printf("average similarity:    %.4f\n", summary.AvgSimilarity)
		fmt.Printf("max similarity:        %.4f\n", summary.MaxSimilarity)
		fmt.Printf("min similarity:        %.4f\n", summary.MinSimilarity)
	}

	if len(summary.TopCompanies) > 0 {
		fmt.Println("top companies:")
		for _, c := range summary.TopCompanies {
			fmt.Printf("  %-40s %d\n", truncate(c.Name, 40), c.Count)
		}
	}

	if len(summary.TopLocations) > 0 {
		fmt.Println("top locations:")
		for _, l := range summary.TopLocations {
			fmt.Printf("  %-40s %d\n", truncate(l.Name, 40), l.Count)
		}
	}
}
