package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"repcost/internal/classify"
	"repcost/internal/logging"
	"repcost/internal/model"
	"repcost/internal/pipeline"
)

var (
	outPath       string
	region        string
	state         string
	noAI          bool
	noConsolidate bool
	noCache       bool
	dryRun        bool
	cacheDir      string
	workers       int
	oracleName    string
	oracleModel   string
	timeout       time.Duration
)

// estimateCmd represents the estimate command
var estimateCmd = &cobra.Command{
	Use:   "estimate <findings.json>",
	Short: "Build a repair estimate from inspection findings",
	Long: `Estimate prices every issue in a findings file and assembles a
complete repair estimate document:
- Classify each issue by trade category and repair priority
- Price each issue individually (AI oracle or severity matrix)
- Consolidate related issues into bundled line items per trade
- Stabilize prices into realistic bands with regional adjustment
- Score estimate quality across five weighted factors

Example:
  repcost estimate findings.json
  repcost estimate findings.json -o estimate.json --region Austin
  repcost estimate findings.json --no-ai --no-consolidate
  repcost estimate findings.json --oracle anthropic --workers 8`,
	Args: cobra.ExactArgs(1),
	RunE: runEstimate,
}

func init() {
	rootCmd.AddCommand(estimateCmd)

	estimateCmd.Flags().StringVarP(&outPath, "out", "o", "estimate.json", "output JSON path (\"-\" for stdout)")
	estimateCmd.Flags().StringVar(&region, "region", "Default", "pricing region (e.g. Austin, Houston)")
	estimateCmd.Flags().StringVar(&state, "state", "Texas", "property state")
	estimateCmd.Flags().BoolVar(&noAI, "no-ai", false, "skip the oracle, price from the severity matrix")
	estimateCmd.Flags().BoolVar(&noConsolidate, "no-consolidate", false, "keep one line item per issue")
	estimateCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the pricing cache")
	estimateCmd.Flags().BoolVar(&dryRun, "dry-run", false, "classify and count issues, do not price")
	estimateCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "pricing cache directory")
	estimateCmd.Flags().IntVar(&workers, "workers", 0, "concurrent pricing requests")
	estimateCmd.Flags().StringVar(&oracleName, "oracle", "", "oracle provider (openai, anthropic)")
	estimateCmd.Flags().StringVar(&oracleModel, "oracle-model", "", "oracle model name")
	estimateCmd.Flags().DurationVar(&timeout, "timeout", 10*time.Minute, "overall estimate timeout")
}

func runEstimate(cmd *cobra.Command, args []string) error {
	findingsPath := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	findings, err := loadFindings(findingsPath)
	if err != nil {
		return err
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "Loaded %d issues from %s\n", len(findings.Issues), findingsPath)
	}

	if dryRun {
		return printDryRun(findings)
	}

	p := pipeline.NewPipeline(&cfg, pipeline.Options{
		Region:        cfg.Pricing.Region,
		State:         cfg.Pricing.State,
		NoConsolidate: noConsolidate,
		NoCache:       noCache,
	})

	estimate, err := p.Run(ctx, *findings)
	if err != nil {
		return fmt.Errorf("estimate failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ %d issues → %d line items\n", len(findings.Issues), estimate.Summary.ItemsCount)
		fmt.Fprintf(os.Stderr, "✓ Total: $%.2f\n", estimate.Summary.TotalUSD)
		fmt.Fprintf(os.Stderr, "✓ Quality: %.1f/100 (%s)\n", estimate.Quality.OverallScore, estimate.Quality.Grade)
	}

	return writeEstimate(estimate, outPath)
}

// buildConfig merges defaults, config file, environment, and flags.
func buildConfig() (model.Config, error) {
	cfg := model.DefaultConfig()
	if err := loadConfigFile(&cfg); err != nil {
		return cfg, err
	}

	if region != "" {
		cfg.Pricing.Region = region
	}
	if state != "" {
		cfg.Pricing.State = state
	}
	if cacheDir != "" {
		cfg.Cache.Dir = cacheDir
	}
	if workers > 0 {
		cfg.Concurrency.PricingWorkers = workers
	}
	if oracleName != "" {
		cfg.Oracle.Provider = oracleName
	}
	if oracleModel != "" {
		cfg.Oracle.Model = oracleModel
	}
	if noAI {
		cfg.Oracle.Provider = ""
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	// API keys come from the environment, never flags.
	if cfg.Oracle.Provider != "" && cfg.Oracle.APIKey == "" {
		switch cfg.Oracle.Provider {
		case "openai":
			cfg.Oracle.APIKey = os.Getenv("OPENAI_API_KEY")
		case "anthropic":
			cfg.Oracle.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	if err := logging.Initialize(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: "stderr",
	}); err != nil {
		return cfg, fmt.Errorf("initializing logging: %w", err)
	}
	return cfg, nil
}

// printDryRun classifies the issues and reports the distribution
// without pricing anything.
func printDryRun(findings *model.Findings) error {
	byCategory := make(map[string]int)
	byPriority := make(map[string]int)
	for i := range findings.Issues {
		issue := findings.Issues[i]
		classify.CategorizeIssue(&issue)
		classify.ClassifyPriority(&issue)
		byCategory[issue.Category]++
		byPriority[issue.Priority]++
	}

	fmt.Printf("Issues: %d\n\nBy category:\n", len(findings.Issues))
	for _, cat := range model.Categories {
		if n := byCategory[cat]; n > 0 {
			fmt.Printf("  %-14s %d\n", cat, n)
		}
	}
	fmt.Println("\nBy priority:")
	for _, p := range []string{model.PriorityHigh, model.PriorityMedium, model.PriorityLow} {
		if n := byPriority[p]; n > 0 {
			fmt.Printf("  %-14s %d\n", p, n)
		}
	}
	return nil
}

func loadFindings(path string) (*model.Findings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading findings: %w", err)
	}

	var findings model.Findings
	if err := json.Unmarshal(data, &findings); err != nil {
		return nil, fmt.Errorf("parsing findings: %w", err)
	}
	if len(findings.Issues) == 0 {
		return nil, fmt.Errorf("no issues found in %s", path)
	}
	return &findings, nil
}

func writeEstimate(estimate *model.Estimate, path string) error {
	data, err := json.MarshalIndent(estimate, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding estimate: %w", err)
	}
	data = append(data, '\n')

	if path == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing estimate: %w", err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "Wrote %s\n", path)
	}
	return nil
}
