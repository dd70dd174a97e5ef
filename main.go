package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"doc_reviewer/config"
	"doc_reviewer/extractor"
	"doc_reviewer/logging"
	"doc_reviewer/pipeline"
	"doc_reviewer/report"
	"doc_reviewer/reviewer"
)

var (
	cfgFile string
	verbose bool
	logger  *zap.Logger

	// newRenderer is swapped in tests so no browser is launched.
	newRenderer = func(cfg config.BrowserConfig) extractor.Renderer {
		return extractor.NewRodRenderer(extractor.RodConfig{Bin: cfg.Bin, ControlURL: cfg.ControlURL})
	}
)

func newRootCmd() *cobra.Command {
	v := viper.New()
	cmd := &cobra.Command{
		Use:   "doc_reviewer [url]",
		Short: "Critique a documentation article with a local model and print a revised version",
		Long: `doc_reviewer opens the article in a visible browser (solve any CAPTCHA by hand),
extracts its text, asks the model for a structured critique covering readability,
structure, completeness and style guidelines, then asks for a rewrite that applies
the readability and style suggestions.

Without a URL argument the configured target_url is reviewed.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, cfgFile)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if len(args) == 1 {
				cfg.TargetURL = args[0]
			}
			logger, err = logging.New(cfg.Logging.Level, verbose)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			return runReview(cmd, cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is .doc_reviewer.yaml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logs")
	flags.String("selector", config.DefaultSelector, "CSS selector of the article body container")
	flags.String("provider", "ollama-cli", "model provider: ollama-cli, ollama, openai, mock")
	flags.String("model", config.DefaultModelID, "model identifier")
	flags.String("base-url", "", "model endpoint (ollama host or OpenAI-compatible base URL)")
	flags.Duration("model-timeout", 0, "per-call model timeout (0 keeps the configured value)")
	flags.String("format", report.FormatText, "revised article output: text or html")
	flags.Bool("no-color", false, "disable colored output")

	_ = v.BindPFlag("selector", flags.Lookup("selector"))
	_ = v.BindPFlag("model.provider", flags.Lookup("provider"))
	_ = v.BindPFlag("model.id", flags.Lookup("model"))
	_ = v.BindPFlag("model.base_url", flags.Lookup("base-url"))
	_ = v.BindPFlag("output.format", flags.Lookup("format"))
	cmd.PreRun = func(cmd *cobra.Command, _ []string) {
		if d, _ := cmd.Flags().GetDuration("model-timeout"); d > 0 {
			v.Set("model.timeout", d)
		}
		if off, _ := cmd.Flags().GetBool("no-color"); off {
			v.Set("output.colors", false)
		}
	}
	return cmd
}

// runReview runs the pipeline once and applies the exit policy: a page that
// is not ready yet and unusable model output are reported and end the run
// normally, everything else is returned as a failure.
func runReview(cmd *cobra.Command, cfg *config.Config) (err error) {
	printer := report.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(), report.ResolveColors(cfg.Output.Colors))
	defer func() {
		if r := recover(); r != nil {
			logger.Error("unexpected failure", zap.Any("panic", r))
			err = fmt.Errorf("unexpected failure: %v", r)
		}
	}()

	ex, err := extractor.New(newRenderer(cfg.Browser), extractor.Config{
		Selector:          cfg.Selector,
		NavigationTimeout: cfg.Browser.NavigationTimeout,
		SelectorTimeout:   cfg.Browser.SelectorTimeout,
	}, logger.Named("extractor"))
	if err != nil {
		return err
	}
	llm, err := reviewer.NewLLMFromConfig(&reviewer.LLMSettings{
		Provider: cfg.Model.Provider,
		Model:    cfg.Model.ID,
		APIKey:   cfg.Model.APIKey,
		BaseURL:  cfg.Model.BaseURL,
		Command:  cfg.Model.Command,
	})
	if err != nil {
		return err
	}
	agent, err := reviewer.NewAgent(llm,
		reviewer.WithTimeout(cfg.Model.Timeout),
		reviewer.WithLogger(logger.Named("reviewer").With(zap.String("model", cfg.Model.ID))))
	if err != nil {
		return err
	}
	console := report.NewConsole(printer, cfg.Output.PreviewChars, cfg.Output.Format)
	p, err := pipeline.New(ex, agent, console, logger.Named("pipeline"))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	printer.Info("Opening browser. Please solve the CAPTCHA manually if prompted...")
	res, err := p.Run(ctx, cfg.TargetURL)
	logStages(logger, res)

	var outErr *reviewer.OutputError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, extractor.ErrContentNotReady):
		printer.Warning("Timeout waiting for article content. Try solving the CAPTCHA and re-run.")
		logger.Debug("content not ready", zap.Error(err))
		return nil
	case errors.As(err, &outErr):
		printer.Error("Failed to parse JSON from analysis response. Raw output:")
		printer.Print("%s", outErr.Raw)
		printer.Error("Parsing error: %v", outErr.Err)
		return nil
	default:
		logger.Error("review failed", zap.Error(err))
		return err
	}
}

// logStages writes one debug line per stage that ran.
func logStages(log *zap.Logger, res pipeline.Result) {
	for _, rec := range res.Stages {
		fields := []zap.Field{
			zap.String("run_id", res.RunID),
			zap.String("stage", rec.Stage),
			zap.Time("started_at", rec.StartedAt),
			zap.Duration("elapsed", rec.Elapsed),
		}
		if rec.Err != "" {
			fields = append(fields, zap.String("error", rec.Err))
		}
		log.Debug("stage summary", fields...)
	}
}

func main() {
	cmd := newRootCmd()
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
