package main

import (
	"fmt"
	"time"

	"github.com/dgallion1/testgest/internal/generate"
	"github.com/dgallion1/testgest/internal/output"
	"github.com/dgallion1/testgest/internal/parser"
	"github.com/dgallion1/testgest/internal/pipeline"
	"github.com/spf13/cobra"
)

func newGenerateCmd(root *rootOptions) *cobra.Command {
	var specPath, matrixPath, outDir string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Extract requirements and signals, generate test cases and write a workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := root.cfg
			if specPath == "" {
				specPath = cfg.SpecPath()
			}
			if matrixPath == "" {
				matrixPath = cfg.MatrixPath()
			}
			if outDir != "" {
				cfg.OutputsDir = outDir
			}
			if err := cfg.ValidateLLM(); err != nil {
				return err
			}
			if err := cfg.EnsureDirs(); err != nil {
				return err
			}

			in, err := pipeline.LoadInput(specPath, matrixPath)
			if err != nil {
				return err
			}

			log := root.logger(cmd.ErrOrStderr())
			stats := generate.NewLLMStats(time.Hour)
			client := generate.NewClient(generate.ClientConfig{
				BaseURL:     cfg.LLMBaseURL,
				APIKey:      cfg.LLMAPIKey,
				Model:       cfg.LLMModel,
				Temperature: cfg.LLMTemperature,
				MaxTokens:   cfg.LLMMaxTokens,
				Timeout:     cfg.LLMTimeout,
			}, stats)
			defer client.Close()

			gen := generate.New(client, generate.Options{
				Concurrency: cfg.MaxConcurrentGenerate,
				BatchTokens: cfg.BatchTokens,
			}, log)
			runner := pipeline.NewRunner(gen, parser.Options{FallbackPdftotext: cfg.PDFFallbackPdftotext}, log)

			outcome, err := runner.Run(cmd.Context(), in, nil)
			if err != nil {
				return err
			}
			path, err := output.SaveFile(cfg.OutputsDir, outcome.Cases, time.Now())
			if err != nil {
				return err
			}

			e := outcome.Extraction
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Requirements: %d\n", len(e.Requirements))
			fmt.Fprintf(out, "Signals: %d\n", len(e.Signals))
			if len(e.Skipped) > 0 {
				fmt.Fprintf(out, "Skipped pages: %v\n", e.SkippedPages())
			}
			fmt.Fprintf(out, "Test cases: %d\n", len(outcome.Cases))
			fmt.Fprintf(out, "LLM calls: %d\n", stats.Snapshot().Count)
			fmt.Fprintf(out, "Saved: %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&specPath, "spec", "", "functional specification document (default <inputs>/<spec_file>)")
	cmd.Flags().StringVar(&matrixPath, "matrix", "", "CAN signal matrix workbook or CSV (default <inputs>/<matrix_file>)")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (default <outputs>)")
	return cmd
}
