package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/spigell/resume-screener/internal/ai/gemini"
	"github.com/spigell/resume-screener/internal/extract"
	"github.com/spigell/resume-screener/internal/keywords"
	"github.com/spigell/resume-screener/internal/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var keywordsCmd = &cobra.Command{
	Use:   "keywords [job-description-file]",
	Short: "Extract screening keywords from a job description and print them",
	Args:  cobra.MaximumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		runKeywords(args)
	},
}

func init() {
	rootCmd.AddCommand(keywordsCmd)
}

func runKeywords(args []string) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	if config == nil || config.Gemini == nil {
		logger.Fatal("gemini configuration is required under the gemini key")
	}

	jdFile := config.JobDescriptionFile
	if len(args) > 0 {
		jdFile = args[0]
	}

	if jdFile == "" {
		logger.Fatal(
			"a job description file is required",
			zap.String("hint", "pass it as an argument or set job-description-file in the configuration file"),
		)
	}

	apiKey, err := resolveAPIKey(config)
	if err != nil {
		logger.Fatal(
			"loading gemini api key",
			zap.Error(err),
			zap.String("hint", "set gemini.api-key-file, gemini.api-key or the GEMINI_API_KEY environment variable"),
		)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, config.Gemini.Model, config.Gemini.MaxRetries, logger)
	if err != nil {
		logger.Fatal("creating gemini client", zap.Error(err))
	}

	store, err := buildKeywordStore(config, logger)
	if err != nil {
		logger.Fatal("creating keyword cache", zap.Error(err))
	}

	jobDescription, err := loadJobDescription(extract.NewService(logger), jdFile)
	if err != nil {
		logger.Fatal("loading job description", zap.Error(err))
	}

	if strings.TrimSpace(jobDescription) == "" {
		logger.Fatal("job description file is empty", zap.String("file", jdFile))
	}

	list, err := keywords.NewGenerator(generator, store, logger, config.Gemini.MaxLogLength).FromJobDescription(ctx, jobDescription)
	if err != nil {
		logger.Fatal("generating keywords", zap.Error(err))
	}

	fmt.Printf("%d keywords for %s:\n", len(list), jdFile)
	for _, keyword := range list {
		fmt.Printf("  - %s\n", keyword)
	}
}
