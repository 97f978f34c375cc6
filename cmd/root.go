package cmd

import (
	"log"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "resume-screener"
)

type Config struct {
	JobDescriptionFile string          `mapstructure:"job-description-file"`
	ResumesDir         string          `mapstructure:"resumes-dir"`
	Workers            int             `mapstructure:"workers"`
	Keywords           *KeywordsConfig `mapstructure:"keywords"`
	Gemini             *GeminiConfig   `mapstructure:"gemini"`
	Export             *ExportConfig   `mapstructure:"export"`
}

type KeywordsConfig struct {
	Static   []string     `mapstructure:"static"`
	Generate bool         `mapstructure:"generate"`
	Cache    *CacheConfig `mapstructure:"cache"`
}

type CacheConfig struct {
	Backend string       `mapstructure:"backend"`
	Redis   *RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type GeminiConfig struct {
	APIKey         string        `mapstructure:"api-key"`
	APIKeyFile     string        `mapstructure:"api-key-file"`
	Model          string        `mapstructure:"model"`
	MaxRetries     int           `mapstructure:"max-retries"`
	RequestTimeout time.Duration `mapstructure:"request-timeout"`
	MaxLogLength   int           `mapstructure:"max-log-length"`
}

type ExportConfig struct {
	CSVFile  string `mapstructure:"csv-file"`
	XLSXFile string `mapstructure:"xlsx-file"`
}

// redacted returns a copy that is safe to write to debug logs.
func (c *Config) redacted() *Config {
	if c == nil || c.Gemini == nil || c.Gemini.APIKey == "" {
		return c
	}

	clone := *c
	gemini := *c.Gemini
	gemini.APIKey = "<redacted>"
	clone.Gemini = &gemini

	return &clone
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "resume-screener is a cli for screening a directory of resumes against a job description",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("keywords.cache.redis.addr", "RESUME_SCREENER_REDIS_ADDR"); err != nil {
		log.Fatalf("binding RESUME_SCREENER_REDIS_ADDR environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is resume-screener.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Only the run and keywords commands need a config file.
	if runCmd.CalledAs() == "" && keywordsCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
