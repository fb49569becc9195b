package cmd

import (
	"fmt"
	"log"

	"github.com/jobradar/jobradar/internal/export"
	"github.com/jobradar/jobradar/internal/logger"
	"github.com/jobradar/jobradar/internal/rank"
	"github.com/jobradar/jobradar/internal/store"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the store (ranked when scores exist) to JSON or CSV",
	Run: func(cmd *cobra.Command, _ []string) {
		exportRun(cmd)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringP("format", "f", export.FormatJSON, "export format: json or csv")
	exportCmd.Flags().StringP("output", "o", "", "output file (required)")
	exportCmd.Flags().IntP("top", "t", 0, "limit to the top N ranked records; 0 exports everything")

	viper.BindPFlag("export.format", exportCmd.Flags().Lookup("format"))
	viper.BindPFlag("export.output", exportCmd.Flags().Lookup("output"))
	viper.BindPFlag("top", exportCmd.Flags().Lookup("top"))
}

func exportRun(_ *cobra.Command) {
	zlog, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	output := viper.GetString("export.output")
	if output == "" {
		zlog.Fatal("output file is required", zap.String("hint", "pass --output"))
	}

	records := store.New(viper.GetString("storage-path"), zlog).Load()
	if len(records) == 0 {
		zlog.Fatal("the job store is empty, nothing to export")
	}

	// Ranked records export in score order; an unscored store exports as-is.
	selected := records
	if ranked := rank.Rank(records); len(ranked) > 0 {
		selected = ranked
	}

	if topN := viper.GetInt("top"); topN > 0 && len(selected) > topN {
		selected = selected[:topN]
	}

	format := viper.GetString("export.format")
	if err := export.Write(selected, format, output); err != nil {
		zlog.Fatal("export failed", zap.Error(err))
	}

	fmt.Printf("exported %d records to %s\n", len(selected), output)
}
