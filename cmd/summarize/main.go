// Package main provides a CLI for summarizing a document from a file or stdin.
// Usage: summarize [-file path] [-top-k N] [-threshold F] [-format text|html] [-output text|json]
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"extractive-summarizer/internal/config"
	"extractive-summarizer/internal/domain/entity"
	"extractive-summarizer/internal/infra/htmltext"
	"extractive-summarizer/internal/infra/scorer"
	"extractive-summarizer/internal/observability/logging"
	sumUC "extractive-summarizer/internal/usecase/summarize"
)

const usage = `Usage: summarize [-file path] [-top-k N] [-threshold F] [-format text|html] [-output text|json]

Reads the document from stdin when -file is not given.

Examples:
  summarize -file article.txt
  cat page.html | summarize -format html -top-k 5
  summarize -file article.txt -threshold 0.3 -output json
`

// Output is the JSON output format.
type Output struct {
	Summary   string    `json:"summary"`
	Sentences []string  `json:"sentences"`
	Selected  []int     `json:"selected"`
	Scores    []float64 `json:"scores"`
	TopK      int       `json:"top_k"`
	Threshold float64   `json:"threshold"`
	FellBack  bool      `json:"threshold_fallback"`
}

// options are the parsed command line flags.
type options struct {
	file         string
	topK         *int
	threshold    *float64
	format       string
	outputFormat string
	artifactsDir string
	timeout      time.Duration
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env: %v\n", err)
	}
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the command and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n\n%s", err, usage)
		return 2
	}

	// Logs go to stderr so stdout only carries the summary.
	logger := logging.New(stderr, logging.FormatText, logging.ParseLevel(os.Getenv("LOG_LEVEL")))
	slog.SetDefault(logger)

	text, err := readInput(opts.file, stdin)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	svc, closeScorer, err := buildService(opts, logger)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer closeScorer()

	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()

	result, err := svc.Summarize(ctx, entity.SummarizeRequest{
		Text:      text,
		TopK:      opts.topK,
		Threshold: opts.threshold,
		Format:    entity.InputFormat(opts.format),
	})
	if err != nil {
		logger.Error("summarize failed", slog.Any("error", err))
		fmt.Fprintf(stderr, "Error: Summarize failed: %v\n", err)
		return 1
	}

	if err := writeOutput(stdout, opts.outputFormat, result); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("summarize", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }

	var (
		opts      options
		topK      int
		threshold float64
	)
	fs.StringVar(&opts.file, "file", "", "Path to the input document (default: stdin)")
	fs.IntVar(&topK, "top-k", 0, "Maximum number of sentences to keep (default from inference config)")
	fs.Float64Var(&threshold, "threshold", 0, "Minimum sentence score (default from inference config)")
	fs.StringVar(&opts.format, "format", string(entity.InputFormatText), "Input format: text or html")
	fs.StringVar(&opts.outputFormat, "output", "text", "Output format: text or json")
	fs.StringVar(&opts.artifactsDir, "artifacts", "", "Directory holding inference_config.json (default: $ARTIFACTS_DIR)")
	fs.DurationVar(&opts.timeout, "timeout", 2*time.Minute, "Overall timeout")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	// Only flags given explicitly override the inference config.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "top-k":
			opts.topK = &topK
		case "threshold":
			opts.threshold = &threshold
		}
	})

	if !entity.InputFormat(opts.format).IsValid() {
		return nil, fmt.Errorf("invalid format %q (must be 'text' or 'html')", opts.format)
	}
	if opts.outputFormat != "text" && opts.outputFormat != "json" {
		return nil, fmt.Errorf("invalid output %q (must be 'text' or 'json')", opts.outputFormat)
	}
	if opts.timeout <= 0 {
		return nil, fmt.Errorf("timeout must be positive")
	}
	return &opts, nil
}

func readInput(path string, stdin io.Reader) (string, error) {
	if path == "" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	// #nosec G304 -- path comes from the operator's command line
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read input file: %w", err)
	}
	return string(data), nil
}

func buildService(opts *options, logger *slog.Logger) (*sumUC.Service, func(), error) {
	scorerCfg, err := config.LoadScorerConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load scorer configuration: %w", err)
	}
	client, err := scorer.New(scorerCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("create scorer: %w", err)
	}
	closeScorer := func() {
		if err := client.Close(); err != nil {
			logger.Error("failed to close scorer", slog.Any("error", err))
		}
	}

	artifactsDir := opts.artifactsDir
	if artifactsDir == "" {
		artifactsDir = os.Getenv("ARTIFACTS_DIR")
	}
	if artifactsDir == "" {
		artifactsDir = config.DefaultArtifactsDir
	}
	inferenceCfg, err := config.LoadInferenceConfig(filepath.Join(artifactsDir, config.InferenceConfigFile))
	if err != nil {
		closeScorer()
		return nil, nil, fmt.Errorf("load inference configuration: %w", err)
	}

	svc, err := sumUC.NewService(client, inferenceCfg.ServiceConfig(),
		sumUC.WithHTMLExtractor(htmltext.New()),
		sumUC.WithLogger(logger))
	if err != nil {
		closeScorer()
		return nil, nil, fmt.Errorf("create summarize service: %w", err)
	}
	return svc, closeScorer, nil
}

func writeOutput(w io.Writer, format string, result *entity.SummarizeResult) error {
	if format == "json" {
		out := Output{
			Summary:   result.Summary,
			Sentences: entity.Texts(result.Sentences),
			Selected:  result.Selected,
			Scores:    result.Scores,
			TopK:      result.Selection.TopK,
			Threshold: result.Selection.Threshold,
			FellBack:  result.FellBack,
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("encode output: %w", err)
		}
		return nil
	}

	if _, err := fmt.Fprintln(w, result.Summary); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
