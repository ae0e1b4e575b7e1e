package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/biaslab/internal/cache"
	"github.com/ppiankov/biaslab/internal/collect"
	"github.com/ppiankov/biaslab/internal/experiment"
	"github.com/ppiankov/biaslab/internal/llm"
	"github.com/ppiankov/biaslab/internal/model"
	"github.com/ppiankov/biaslab/internal/worker"
)

var (
	promptsPath    string
	resultsDir     string
	label          string
	runs           int
	workers        int
	collectTimeout time.Duration
	llmProvider    string
	llmModel       string
	llmBaseURL     string
	noCache        bool
	httpProxy      string
	httpsProxy     string
)

// collectCmd represents the collect command
var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Ask an LLM every experiment prompt and save the answers",
	Long: `Collect sends every prompt in prompts.json to the configured LLM provider,
once per run, and writes one Run{n}_{label}_responses.json file per run
into the results directory, ready for validate and analyze.

Requests run concurrently under a per-provider rate limit. Answers are
cached on disk, so re-running a collection does not resend prompts that
already have an answer for the same provider, model and run.

Example:
  biaslab collect --provider openai --model gpt-4o-mini --label chatgpt --runs 3
  biaslab collect --provider anthropic --label claude
  biaslab collect --provider ollama --model llama3 --label llama --workers 1`,
	Args: cobra.NoArgs,
	RunE: runCollect,
}

func init() {
	rootCmd.AddCommand(collectCmd)

	collectCmd.Flags().StringVar(&promptsPath, "prompts", "", "prompts JSON written by 'biaslab design' (default from config)")
	collectCmd.Flags().StringVar(&resultsDir, "results-dir", "", "directory for response files (default from config: results)")
	collectCmd.Flags().StringVar(&label, "label", "", "model_name written into every record (default: model name)")
	collectCmd.Flags().IntVar(&runs, "runs", 1, "number of runs over all prompts")
	collectCmd.Flags().IntVar(&workers, "workers", 4, "number of concurrent requests")
	collectCmd.Flags().DurationVar(&collectTimeout, "timeout", 30*time.Minute, "total timeout for the collection")
	collectCmd.Flags().StringVar(&llmProvider, "provider", "", "LLM provider (openai, anthropic, ollama)")
	collectCmd.Flags().StringVar(&llmModel, "model", "", "LLM model name")
	collectCmd.Flags().StringVar(&llmBaseURL, "base-url", "", "custom API endpoint")
	collectCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the completion cache")
	collectCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	collectCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")
}

func applyCollectFlags(cmd *cobra.Command, cfg *model.Config) {
	flags := cmd.Flags()
	if flags.Changed("prompts") {
		cfg.Collect.PromptsPath = promptsPath
	}
	if flags.Changed("results-dir") {
		cfg.Collect.ResultsDir = resultsDir
	}
	if flags.Changed("label") {
		cfg.Collect.Label = label
	}
	if flags.Changed("runs") {
		cfg.Collect.Runs = runs
	}
	if flags.Changed("workers") {
		cfg.Collect.Workers = workers
	}
	if flags.Changed("timeout") {
		cfg.Collect.Timeout = collectTimeout
	}
	if flags.Changed("provider") {
		cfg.LLM.Provider = llmProvider
	}
	if flags.Changed("model") {
		cfg.LLM.Model = llmModel
	}
	if flags.Changed("base-url") {
		cfg.LLM.BaseURL = llmBaseURL
	}
	if flags.Changed("no-cache") {
		cfg.Cache.Enabled = !noCache
	}
	if flags.Changed("http-proxy") {
		cfg.LLM.HTTPProxy = httpProxy
	}
	if flags.Changed("https-proxy") {
		cfg.LLM.HTTPSProxy = httpsProxy
	}
}

func runCollect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyCollectFlags(cmd, cfg)

	prompts, err := experiment.LoadPrompts(cfg.Collect.PromptsPath)
	if err != nil {
		return err
	}

	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return fmt.Errorf("create provider: %w", err)
	}

	collector, err := collect.New(collect.Options{
		Provider: provider,
		Limiter:  worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize),
		Cache:    cache.FromConfig(cfg.Cache),
		Config:   cfg.Collect,
		LLM:      cfg.LLM,
		Progress: func(done, total int, err error) {
			mark := "✓"
			if err != nil {
				mark = "✗"
			}
			fmt.Fprintf(os.Stderr, "\r%s %d/%d requests", mark, done, total)
		},
	})
	if err != nil {
		return err
	}

	ctx, cancel := interruptContext()
	defer cancel()

	header("biaslab Response Collection")
	fmt.Fprintf(os.Stderr, "  Prompts:      %d (%s)\n", len(prompts), cfg.Collect.PromptsPath)
	fmt.Fprintf(os.Stderr, "  Provider:     %s/%s\n", provider.Name(), cfg.LLM.Model)
	fmt.Fprintf(os.Stderr, "  Label:        %s\n", collector.Label())
	fmt.Fprintf(os.Stderr, "  Runs:         %d\n", cfg.Collect.Runs)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Collect.Workers)
	fmt.Fprintf(os.Stderr, "  Results dir:  %s\n", cfg.Collect.ResultsDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", cfg.Collect.Timeout)
	fmt.Fprintf(os.Stderr, "\n")

	fmt.Fprintf(os.Stderr, "⚙️  Sending %d requests...\n", len(prompts)*cfg.Collect.Runs)
	res, err := collector.Collect(ctx, prompts)
	fmt.Fprintf(os.Stderr, "\n")
	if err != nil && !errors.Is(err, collect.ErrAllFailed) {
		return err
	}

	if res != nil {
		for _, run := range res.Runs {
			if run.Path == "" {
				fmt.Fprintf(os.Stderr, "✗ Run %d: no responses\n", run.Run)
				continue
			}
			fmt.Fprintf(os.Stderr, "✓ Run %d: %d responses -> %s\n", run.Run, len(run.Responses), run.Path)
		}

		header("Collection Complete")
		fmt.Fprintf(os.Stderr, "  Requests:  %d\n", res.Requests)
		fmt.Fprintf(os.Stderr, "  Cached:    %d\n", res.Cached)
		fmt.Fprintf(os.Stderr, "  Failures:  %d\n", res.Failed)
		fmt.Fprintf(os.Stderr, "\n")
	}

	return err
}
