package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"docpipe/internal/config"
	"docpipe/internal/extract"
	"docpipe/internal/logger"
	"docpipe/internal/retry"
	"docpipe/internal/vision"
)

var extractCmd = &cobra.Command{
	Use:   "extract [file...]",
	Short: "Extract text from documents using a remote vision engine",
	Long: `Process one or more documents (PDF, DOCX, PNG, JPEG, TIFF, BMP, WEBP)
and extract their text.

Scanned PDFs are rasterized page by page and each page is sent to the
configured vision engine. Word-processor files are read directly from their
structure with no remote calls. Remote calls are bounded by a shared
concurrency gate and retried on transient failures; a document that fails
completely is reported in the output with an explicit failure marker rather
than aborting the batch.

Engine selection (OCR_ENGINE or --engine): gemini (default), vision,
documentai, stub.

Required environment variables depend on the engine:
  GEMINI_API_KEY                   - gemini engine
  GOOGLE_APPLICATION_CREDENTIALS   - vision / documentai engines, OR
  GOOGLE_CREDENTIALS               - inline JSON credentials string
  GOOGLE_CLOUD_PROJECT             - documentai engine
  DOCUMENT_AI_PROCESSOR_ID         - documentai engine`,
	Example: `  # Extract a mixed batch, results as JSON on stdout
  docpipe extract records.pdf claim.docx scan.png --json

  # Eight concurrent remote calls, results to a file
  docpipe extract *.pdf --concurrency 8 --json -o results.json

  # Offline smoke run with the stub engine
  docpipe extract sample.pdf --engine stub`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().IntP("concurrency", "c", 0, "Max concurrent remote calls (default from MAX_CONCURRENCY or 8)")
	extractCmd.Flags().String("engine", "", "Vision engine: gemini, vision, documentai, stub (default from OCR_ENGINE)")
	extractCmd.Flags().Int("dpi", 0, "PDF rasterization DPI (default from CONVERSION_DPI or 200)")
	extractCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	extractCmd.Flags().Bool("json", false, "Output as JSON")
	extractCmd.Flags().Int("timeout", 1800, "Batch timeout in seconds")
}

func runExtract(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("extract-cmd")

	cfg, err := config.LoadWithOverrides(func(c *config.Config) {
		if v, _ := cmd.Flags().GetString("engine"); v != "" {
			c.Engine = v
		}
		if v, _ := cmd.Flags().GetInt("concurrency"); v > 0 {
			c.MaxConcurrency = v
		}
		if v, _ := cmd.Flags().GetInt("dpi"); v > 0 {
			c.ConversionDPI = v
		}
	})
	if err != nil {
		log.Error().Err(err).Msg("Configuration invalid")
		return err
	}

	outputPath, _ := cmd.Flags().GetString("output")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	log.Info().
		Int("documents", len(args)).
		Str("engine", cfg.Engine).
		Int("concurrency", cfg.MaxConcurrency).
		Int("timeout", timeoutSecs).
		Msg("Starting batch extraction")

	ctx, cancel := contextWithTimeout(timeoutSecs, log)
	defer cancel()

	engine, err := vision.New(ctx, vision.Config{
		Engine:          cfg.Engine,
		APIKey:          cfg.GeminiAPIKey,
		Model:           cfg.GeminiModel,
		Project:         cfg.GoogleCloudProject,
		Location:        cfg.GoogleCloudLocation,
		ProcessorID:     cfg.DocumentAIProcessorID,
		MaxOutputTokens: cfg.MaxOutputTokens,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to create vision engine")
		return fmt.Errorf("failed to create vision engine: %w", err)
	}
	defer func() {
		if closeErr := engine.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("Failed to close vision engine")
		}
	}()

	extractor := extract.NewExtractor(
		extract.Config{
			DPI:                   cfg.ConversionDPI,
			FallbackDPI:           cfg.FallbackDPI,
			MaxConsecutiveRepeats: cfg.MaxConsecutiveRepeats,
		},
		vision.Throttled(engine, cfg.RequestsPerMinute),
		retry.NewPolicy(cfg.Retries, cfg.RetryDelays),
		extract.NewGate(cfg.MaxConcurrency),
	)

	start := time.Now()
	results := extractor.ExtractAll(ctx, args)

	log.Info().
		Int("documents", len(results)).
		Dur("duration", time.Since(start)).
		Msg("Batch extraction finished")

	return outputExtractResults(results, outputPath, jsonOutput, log)
}

// contextWithTimeout creates a context with timeout and signal handling
func contextWithTimeout(timeoutSecs int, log zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSecs)*time.Second)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			log.Info().
				Str("signal", sig.String()).
				Msg("Received interrupt signal, canceling batch")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// outputExtractResults formats the mapping and writes it to the output path or stdout.
func outputExtractResults(results map[string]extract.Result, outputPath string, jsonOutput bool, log zerolog.Logger) error {
	var outputData []byte
	var err error

	if jsonOutput {
		outputData, err = json.MarshalIndent(results, "", "  ")
		if err != nil {
			log.Error().Err(err).Msg("Failed to marshal JSON output")
			return fmt.Errorf("failed to create JSON output: %w", err)
		}
	} else {
		var sb []byte
		for path, res := range results {
			sb = append(sb, fmt.Sprintf("=== %s ===\n", path)...)
			if !res.Success {
				sb = append(sb, fmt.Sprintf("[extraction failed: %s]\n\n", res.FailureReason)...)
				continue
			}
			sb = append(sb, res.Text...)
			sb = append(sb, "\n\n"...)
		}
		outputData = sb
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, outputData, 0644); err != nil {
			log.Error().
				Err(err).
				Str("output_file", outputPath).
				Msg("Failed to write output file")
			return fmt.Errorf("failed to write output file: %w", err)
		}
		log.Info().
			Str("output_file", outputPath).
			Int("bytes", len(outputData)).
			Msg("Extraction results written to file")
		return nil
	}

	if _, err := os.Stdout.Write(outputData); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
