// Package cli wires the tubesum command line: flag parsing, configuration
// fallbacks, signal handling, and the pipeline invocation.
package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/yutawtr1214/tubesum/internal/analyzer"
	"github.com/yutawtr1214/tubesum/internal/config"
	"github.com/yutawtr1214/tubesum/internal/gemini"
	"github.com/yutawtr1214/tubesum/internal/models"
	"github.com/yutawtr1214/tubesum/internal/youtube"
)

var version = "0.1.0"

type options struct {
	mode    string
	model   string
	length  string
	format  string
	lang    string
	prompt  string
	stream  bool
	timeout time.Duration
	debug   bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:     "tubesum <video-url>",
		Short:   "Analyze YouTube videos with Gemini",
		Long: `tubesum sends a YouTube video to the Gemini API and turns the response
into a summary, a chapter list, or a problem/resolution breakdown.`,
		Version:       version,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0], opts)
		},
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)

	flags := root.Flags()
	flags.StringVar(&opts.mode, "mode", "summary", "Analysis mode: summary, chapter or solution")
	flags.StringVar(&opts.model, "model", "", "Gemini model identifier (defaults to configuration)")
	flags.StringVar(&opts.length, "length", "", "Summary length: short, normal or detailed")
	flags.StringVar(&opts.format, "format", "", "Output format: text or json")
	flags.StringVar(&opts.lang, "lang", "", "Output language code such as ja or en")
	flags.StringVar(&opts.prompt, "prompt", "", "Extra instructions appended to the prompt")
	flags.BoolVar(&opts.stream, "stream", false, "Print summary text as it is generated")
	flags.DurationVar(&opts.timeout, "timeout", 2*time.Minute, "Overall deadline for the run (0 disables)")
	flags.BoolVar(&opts.debug, "debug", false, "Log the effective request parameters")

	root.AddCommand(newModelsCmd())

	return root
}

func run(cmd *cobra.Command, rawURL string, opts *options) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Flags win; unset flags fall back to the configuration.
	if opts.model == "" {
		opts.model = cfg.Gemini.Model
	}
	if opts.length == "" {
		opts.length = cfg.Defaults.Length
	}
	if opts.format == "" {
		opts.format = cfg.Defaults.Format
	}
	if opts.lang == "" {
		opts.lang = cfg.Defaults.Language
	}

	mode, err := models.ParseMode(opts.mode)
	if err != nil {
		return err
	}
	length, err := models.ParseLength(opts.length)
	if err != nil {
		return err
	}
	format, err := models.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	stream, format, warnings := reconcileStreaming(opts.stream, mode, format)
	for _, warning := range warnings {
		fmt.Fprintln(cmd.ErrOrStderr(), "Warning: "+warning)
	}

	if opts.debug || cfg.Debug {
		log.Printf("Request: mode=%s model=%s length=%s format=%s lang=%s stream=%v timeout=%s",
			mode, opts.model, length, format, opts.lang, stream, opts.timeout)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	client, err := gemini.NewClient(ctx, &cfg.Gemini)
	if err != nil {
		return err
	}
	resolver := youtube.NewResolver(ctx, &cfg.YouTube)

	a := analyzer.New(resolver, client)
	if stream {
		a.StreamTo(cmd.OutOrStdout())
	}

	req := &models.AnalysisRequest{
		Mode:        mode,
		Length:      length,
		ExtraPrompt: opts.prompt,
		Model:       opts.model,
		Language:    opts.lang,
		Stream:      stream,
	}

	result, err := a.Run(ctx, rawURL, req)
	if err != nil {
		return err
	}

	// Streamed summaries were already written fragment by fragment.
	if stream {
		return nil
	}

	out, err := analyzer.Assemble(result, format)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)

	return nil
}

// reconcileStreaming applies the streaming rules: only summary mode
// streams, and streamed output is always plain text.
func reconcileStreaming(stream bool, mode models.Mode, format models.Format) (bool, models.Format, []string) {
	if !stream {
		return false, format, nil
	}

	if mode != models.ModeSummary {
		return false, format, []string{fmt.Sprintf("streaming only applies to summaries; buffering %s output", mode)}
	}
	if format == models.FormatJSON {
		return true, models.FormatText, []string{"streaming emits plain text; ignoring JSON format"}
	}

	return true, format, nil
}

func newModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List known Gemini model identifiers",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, model := range gemini.KnownModels() {
				fmt.Fprintln(cmd.OutOrStdout(), model)
			}
		},
	}
}

// Main runs the root command and returns the process exit code.
func Main() int {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error: "+analyzer.Explain(err))
		return 1
	}
	return 0
}
