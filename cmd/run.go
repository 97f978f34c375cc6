package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spigell/resume-screener/internal/ai/gemini"
	"github.com/spigell/resume-screener/internal/export"
	"github.com/spigell/resume-screener/internal/extract"
	"github.com/spigell/resume-screener/internal/keywords"
	"github.com/spigell/resume-screener/internal/logger"
	"github.com/spigell/resume-screener/internal/matching"
	"github.com/spigell/resume-screener/internal/screening"
	"github.com/spigell/resume-screener/internal/secrets"
	"github.com/spigell/resume-screener/internal/textnorm"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptShowDetails = "Show candidate details"
	PromptExportCSV   = "Export results to CSV"
	PromptExportXLSX  = "Export results to XLSX"
	PromptDumpJSON    = "Dump results to a JSON file"
	PromptExit        = "Exit"
	PromptBack        = "back"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What do you want to do?",
	Items: []string{PromptShowDetails, PromptExportCSV, PromptExportXLSX, PromptDumpJSON, PromptExit},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Screen a directory of resumes against a job description",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("auto-export", "y", false, "skip the interactive prompt, write configured reports and exit")
	runCmd.Flags().IntP("workers", "w", 0, "number of resumes screened in parallel")
	runCmd.Flags().StringP("resumes-dir", "r", "", "directory with resume files (pdf, docx, txt)")

	viper.BindPFlag("workers", runCmd.Flags().Lookup("workers"))
	viper.BindPFlag("resumes-dir", runCmd.Flags().Lookup("resumes-dir"))
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the resume-screener", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config.redacted(), "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}

	if config.JobDescriptionFile == "" {
		logger.Fatal("a job description file is required under job-description-file")
	}

	resumesDir := strings.TrimSpace(config.ResumesDir)
	if resumesDir == "" {
		resumesDir = strings.TrimSpace(viper.GetString("resumes-dir"))
	}

	if resumesDir == "" {
		logger.Fatal(
			"a resumes directory is required",
			zap.String("hint", "set resumes-dir in the configuration file or pass --resumes-dir"),
		)
	}

	if config.Gemini == nil {
		logger.Fatal("gemini configuration is required under the gemini key")
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

	logger.Info("gemini client ready", zap.String("model", generator.Model()))

	normalizer, err := textnorm.New()
	if err != nil {
		logger.Fatal("creating text normalizer", zap.Error(err))
	}

	store, err := buildKeywordStore(config, logger)
	if err != nil {
		logger.Fatal("creating keyword cache", zap.Error(err))
	}

	extractor := extract.NewService(logger)

	jobDescription, err := loadJobDescription(extractor, config.JobDescriptionFile)
	if err != nil {
		logger.Fatal("loading job description", zap.Error(err))
	}

	if strings.TrimSpace(jobDescription) == "" {
		logger.Fatal("job description file is empty", zap.String("file", config.JobDescriptionFile))
	}

	keywordGenerator := keywords.NewGenerator(generator, store, logger, config.Gemini.MaxLogLength)

	keywordSet, err := resolveKeywords(ctx, config, keywordGenerator, jobDescription, logger)
	if err != nil {
		logger.Fatal("resolving keywords", zap.Error(err))
	}

	logger.Info("screening keywords resolved", zap.Int("count", len(keywordSet)), zap.Strings("keywords", keywordSet))

	paths, err := collectResumeFiles(resumesDir, logger)
	if err != nil {
		logger.Fatal("collecting resume files", zap.Error(err))
	}

	if len(paths) == 0 {
		logger.Info("exiting", zap.String("reason", "no resume files found"), zap.String("dir", resumesDir))
		return
	}

	resumes, failed := extractResumes(extractor, paths, len(keywordSet), logger)

	evaluator := gemini.NewEvaluator(generator, logger, config.Gemini.MaxLogLength)
	pipeline := screening.NewPipeline(matching.New(normalizer), evaluator, config.Gemini.RequestTimeout, logger)
	runner := screening.NewRunner(pipeline, viper.GetInt("workers"), logger)
	runner.OnProgress(func(done, total int) {
		logger.Info("screened resume", zap.Int("completed", done), zap.Int("total", total))
	})

	results := runner.ScreenAll(ctx, keywordSet, jobDescription, resumes)
	results = append(results, failed...)
	results.Sort()

	printSummary(results)

	if cmd.Flag("auto-export").Value.String() == "true" {
		if err := exportConfigured(config, results, logger); err != nil {
			logger.Fatal("exporting results", zap.Error(err))
		}
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, config, results, logger); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, config *Config, results screening.Results, logger *zap.Logger) error {
	switch action {
	case PromptShowDetails:
		return showDetails(results)
	case PromptExportCSV:
		path := csvExportPath(config)
		if err := export.WriteCSV(path, results); err != nil {
			return fmt.Errorf("export csv: %w", err)
		}
		logger.Info("wrote csv report", zap.String("filename", path))
		return nil
	case PromptExportXLSX:
		path := xlsxExportPath(config)
		if err := export.WriteXLSX(path, results); err != nil {
			return fmt.Errorf("export xlsx: %w", err)
		}
		logger.Info("wrote xlsx report", zap.String("filename", path))
		return nil
	case PromptDumpJSON:
		filename, err := results.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping results to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "done"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func resolveAPIKey(config *Config) (string, error) {
	if config == nil || config.Gemini == nil {
		return "", errors.New("gemini configuration is required")
	}

	return secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: config.Gemini.APIKey,
		File:  config.Gemini.APIKeyFile,
		Env:   "GEMINI_API_KEY",
	})
}

func buildKeywordStore(config *Config, logger *zap.Logger) (keywords.Store, error) {
	var cache *CacheConfig
	if config.Keywords != nil {
		cache = config.Keywords.Cache
	}

	if cache == nil {
		return keywords.NewMemoryStore(), nil
	}

	switch strings.ToLower(strings.TrimSpace(cache.Backend)) {
	case "", "memory":
		return keywords.NewMemoryStore(), nil
	case "redis":
		cfg := keywords.RedisConfig{}
		if cache.Redis != nil {
			cfg = keywords.RedisConfig{
				Addr:     cache.Redis.Addr,
				Password: cache.Redis.Password,
				DB:       cache.Redis.DB,
				TTL:      cache.Redis.TTL,
			}
		}

		if cfg.Addr == "" {
			cfg.Addr = strings.TrimSpace(viper.GetString("keywords.cache.redis.addr"))
		}

		if cfg.Addr == "" {
			return nil, errors.New("keywords.cache.redis.addr is required for the redis cache backend")
		}

		return keywords.NewRedisStore(cfg, logger), nil
	default:
		return nil, fmt.Errorf("unsupported keyword cache backend: %s", cache.Backend)
	}
}

// loadJobDescription extracts the job description text. Formats the resume
// extractor does not know, such as markdown, are read as plain text.
func loadJobDescription(extractor *extract.Service, path string) (string, error) {
	doc, err := extractor.ExtractFile(path)
	if err == nil {
		return doc.Text, nil
	}

	if errors.Is(err, extract.ErrUnsupportedFormat) {
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return "", fmt.Errorf("reading job description: %w", readErr)
		}
		return string(data), nil
	}

	return "", err
}

func resolveKeywords(ctx context.Context, config *Config, generator *keywords.Generator, jobDescription string, logger *zap.Logger) ([]string, error) {
	kwConfig := config.Keywords
	if kwConfig == nil {
		kwConfig = &KeywordsConfig{Generate: true}
	}

	static := keywords.Dedupe(kwConfig.Static)

	if !kwConfig.Generate {
		if len(static) == 0 {
			return nil, errors.New("no keywords: set keywords.static or enable keywords.generate")
		}
		return static, nil
	}

	generated, err := generator.FromJobDescription(ctx, jobDescription)
	if err != nil {
		if len(static) > 0 {
			logger.Warn("keyword generation failed, continuing with static keywords", zap.Error(err))
			return static, nil
		}
		return nil, fmt.Errorf("generating keywords: %w", err)
	}

	return keywords.Merge(static, generated), nil
}

// collectResumeFiles lists the supported resume files in a directory,
// skipping everything the extractor cannot read.
func collectResumeFiles(dir string, logger *zap.Logger) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading resumes directory: %w", err)
	}

	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		if _, err := extract.DetectFormat(entry.Name()); err != nil {
			logger.Warn("skipping unsupported file", zap.String("file", entry.Name()))
			continue
		}

		paths = append(paths, filepath.Join(dir, entry.Name()))
	}

	return paths, nil
}

// extractResumes turns files into screening inputs. Files that cannot be
// extracted become Error results right away so they still show up in the
// report.
func extractResumes(extractor *extract.Service, paths []string, totalKeywords int, logger *zap.Logger) ([]screening.Resume, screening.Results) {
	resumes := make([]screening.Resume, 0, len(paths))
	failed := make(screening.Results, 0)

	for _, path := range paths {
		name := filepath.Base(path)

		doc, err := extractor.ExtractFile(path)
		if err != nil {
			logger.Warn("cannot extract resume", zap.String("file", name), zap.Error(err))

			result := screening.ErrorResult(name, fmt.Sprintf("Error processing file: %v", err))
			result.TotalKeywords = totalKeywords
			failed = append(failed, result)
			continue
		}

		resumes = append(resumes, screening.Resume{ID: name, Text: doc.Text})
	}

	return resumes, failed
}

func exportConfigured(config *Config, results screening.Results, logger *zap.Logger) error {
	if config.Export == nil || (config.Export.CSVFile == "" && config.Export.XLSXFile == "") {
		return errors.New("configure export.csv-file or export.xlsx-file to use --auto-export")
	}

	if config.Export.CSVFile != "" {
		if err := export.WriteCSV(config.Export.CSVFile, results); err != nil {
			return fmt.Errorf("export csv: %w", err)
		}
		logger.Info("wrote csv report", zap.String("filename", config.Export.CSVFile))
	}

	if config.Export.XLSXFile != "" {
		if err := export.WriteXLSX(config.Export.XLSXFile, results); err != nil {
			return fmt.Errorf("export xlsx: %w", err)
		}
		logger.Info("wrote xlsx report", zap.String("filename", config.Export.XLSXFile))
	}

	return nil
}

func csvExportPath(config *Config) string {
	if config.Export != nil && config.Export.CSVFile != "" {
		return config.Export.CSVFile
	}

	return "screening_results.csv"
}

func xlsxExportPath(config *Config) string {
	if config.Export != nil && config.Export.XLSXFile != "" {
		return config.Export.XLSXFile
	}

	return "screening_results.xlsx"
}

func showDetails(results screening.Results) error {
	for {
		candidatePrompt := promptui.Select{
			Label: "Choose a candidate and press ENTER",
			Items: append(results.IDs(), PromptBack),
			Size:  15,
		}

		_, selected, err := candidatePrompt.Run()
		if err != nil {
			return err
		}

		if selected == PromptBack {
			return nil
		}

		result := results.FindByID(selected)
		if result == nil {
			return fmt.Errorf("there is no such candidate %s", selected)
		}

		printResult(result)
	}
}

func printSummary(results screening.Results) {
	stats := results.Stats()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tCANDIDATE\tDECISION\tSCORE\tKEYWORDS\tVERDICT")

	for i, result := range results {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d/%d\t%s\n",
			i+1,
			result.ResumeID,
			result.Decision,
			scoreColumn(result.Score),
			len(result.MatchedKeywords),
			result.TotalKeywords,
			result.Verdict,
		)
	}

	w.Flush()

	fmt.Printf("\n%d candidates: %d shortlisted, %d not shortlisted, %d errors\n",
		stats.Total, stats.Shortlisted, stats.NotShortlisted, stats.Errors)

	if stats.Scored > 0 {
		fmt.Printf("average score: %.1f\n", stats.AverageScore)
	}

	fmt.Println()
}

func printResult(result *screening.Result) {
	fmt.Printf("\n%s\n", result.ResumeID)
	fmt.Printf("  Decision: %s\n", result.Decision)
	fmt.Printf("  Score:    %s\n", scoreColumn(result.Score))
	fmt.Printf("  Keywords: %d/%d matched\n", len(result.MatchedKeywords), result.TotalKeywords)

	if result.Verdict != "" {
		fmt.Printf("  Verdict:  %s\n", result.Verdict.Describe())
	}

	if len(result.MatchedKeywords) > 0 {
		fmt.Printf("  Matched:  %s\n", strings.Join(result.MatchedKeywords, ", "))
	}

	fmt.Printf("  Summary:  %s\n", result.Summary)

	if len(result.RequirementsMet) > 0 {
		fmt.Println("  Requirements met:")
		for _, item := range result.RequirementsMet {
			fmt.Printf("    - %s\n", item)
		}
	}

	if len(result.RequirementsMissing) > 0 {
		fmt.Println("  Requirements missing:")
		for _, item := range result.RequirementsMissing {
			fmt.Printf("    - %s\n", item)
		}
	}

	if result.ErrorMessage != "" {
		fmt.Printf("  Error:    %s\n", result.ErrorMessage)
	}

	fmt.Println()
}

func scoreColumn(score *int) string {
	if score == nil {
		return "N/A"
	}

	return strconv.Itoa(*score)
}
