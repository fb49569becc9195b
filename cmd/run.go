package cmd

import (
	"strconv"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	PromptScrape = "Scrape new jobs"
	PromptQuery  = "Match the database against my resume"
	PromptTop    = "View top job matches"
	PromptStats  = "Database statistics"
	PromptExport = "Export results"
	PromptExit   = "Exit"
)

var menu = promptui.Select{
	Label: "What would you like to do?",
	Items: []string{PromptScrape, PromptQuery, PromptTop, PromptStats, PromptExport, PromptExit},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run jobradar in interactive mode",
	Run: func(cmd *cobra.Command, _ []string) {
		runInteractive(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runInteractive(cmd *cobra.Command) {
	for {
		_, action, err := menu.Run()
		if err != nil {
			return
		}

		switch action {
		case PromptScrape:
			askString("Location", "search.location")
			askInt("How many postings", "search.results-wanted")
			askString("Resume file (empty to skip matching)", "resume-path")
			scrape(cmd)
		case PromptQuery:
			askString("Resume file", "resume-path")
			query(cmd)
		case PromptTop:
			askInt("How many matches", "top")
			top(cmd)
		case PromptStats:
			stats(cmd)
		case PromptExport:
			askString("Output file", "export.output")
			askString("Format (json or csv)", "export.format")
			exportRun(cmd)
		case PromptExit:
			return
		}
	}
}

// askString prompts for a value and stores a non-empty answer under the
// viper key, keeping the configured value as the default.
func askString(label, key string) {
	prompt := promptui.Prompt{
		Label:   label,
		Default: viper.GetString(key),
	}

	value, err := prompt.Run()
	if err != nil || value == "" {
		return
	}
	viper.Set(key, value)
}

func askInt(label, key string) {
	prompt := promptui.Prompt{
		Label:   label,
		Default: strconv.Itoa(viper.GetInt(key)),
		Validate: func(input string) error {
			_, err := strconv.Atoi(input)
			return err
		},
	}

	value, err := prompt.Run()
	if err != nil {
		return
	}
	if n, err := strconv.Atoi(value); err == nil {
		viper.Set(key, n)
	}
}
