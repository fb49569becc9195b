package cmd

import (
	"errors"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const app = "jobradar"

type Config struct {
	Search      *SearchConfig `mapstructure:"search"`
	StoragePath string        `mapstructure:"storage-path"`
	ResumePath  string        `mapstructure:"resume-path"`
	Exclude     *struct {
		Companies []string
	}
	ProcessWithAI bool         `mapstructure:"process-with-ai"`
	Board         *BoardConfig `mapstructure:"board"`
	AI            *AIConfig    `mapstructure:"ai"`
}

type SearchConfig struct {
	Location      string   `mapstructure:"location"`
	ResultsWanted int      `mapstructure:"results-wanted"`
	Distance      int      `mapstructure:"distance"`
	Sites         []string `mapstructure:"sites"`
}

type BoardConfig struct {
	APIURL            string  `mapstructure:"api-url"`
	UserAgent         string  `mapstructure:"user-agent"`
	RequestsPerSecond float64 `mapstructure:"requests-per-second"`
	Burst             int     `mapstructure:"burst"`
}

type AIConfig struct {
	Gemini *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey         string `mapstructure:"api-key"`
	APIKeyFile     string `mapstructure:"api-key-file"`
	Model          string `mapstructure:"model"`
	EmbeddingModel string `mapstructure:"embedding-model"`
	MaxRetries     int    `mapstructure:"max-retries"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "jobradar scrapes job postings into a local store and ranks them against your resume",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is jobradar.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("storage-path", "", "directory holding the job store (default: storage)")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("storage-path", rootCmd.PersistentFlags().Lookup("storage-path"))

	viper.SetDefault("storage-path", "storage")
	viper.SetDefault("search.results-wanted", 20)
	viper.SetDefault("search.distance", 25)
	viper.SetDefault("search.sites", []string{"indeed"})
}

func initConfig() {
	// Matches the original tool: secrets and local overrides may live in a
	// dotenv file next to the binary.
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
	}

	// The config file is optional; flags and env cover the rest. A present
	// but broken file is still fatal.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}
	if config.Search == nil {
		config.Search = &SearchConfig{}
	}

	return config, nil
}
