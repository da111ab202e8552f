package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"

	"docpipe/internal/classify"
	"docpipe/internal/config"
	"docpipe/internal/logger"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [text-file]",
	Short: "Classify extracted text as medical documentation or legal claim",
	Long: `Classify the text content of a file as medical documentation, legal
claim, or ambiguous.

Uses an OpenAI chat model with a structured-output schema; only the opening
portion of the document is sent. The --heuristic flag substitutes an offline
keyword classifier for dry runs without an API key.

Required environment variables:
  OPENAI_API_KEY - unless --heuristic is used`,
	Example: `  # Classify extracted text
  docpipe classify extracted.txt

  # Offline keyword-based classification
  docpipe classify extracted.txt --heuristic`,
	Args: cobra.ExactArgs(1),
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)

	classifyCmd.Flags().Bool("heuristic", false, "Use the offline keyword classifier")
	classifyCmd.Flags().String("model", "", "Chat model name (default from CLASSIFY_MODEL or gpt-4o)")
	classifyCmd.Flags().Int("timeout", 120, "Classification timeout in seconds")
}

func runClassify(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("classify-cmd")

	heuristic, _ := cmd.Flags().GetBool("heuristic")
	model, _ := cmd.Flags().GetString("model")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	text, err := os.ReadFile(args[0])
	if err != nil {
		log.Error().Err(err).Str("file", args[0]).Msg("Failed to read input file")
		return fmt.Errorf("failed to read input file: %w", err)
	}

	var classifier classify.Classifier
	if heuristic {
		classifier = classify.KeywordClassifier{}
	} else {
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			log.Error().Msg("OPENAI_API_KEY not configured")
			return fmt.Errorf("OPENAI_API_KEY is required (or use --heuristic)")
		}
		if model == "" {
			if cfg, cfgErr := config.Load(); cfgErr == nil {
				model = cfg.ClassifyModel
			}
		}
		classifier = classify.NewOpenAIClassifier(openai.NewClient(apiKey), model)
	}

	ctx, cancel := contextWithTimeout(timeoutSecs, log)
	defer cancel()

	start := time.Now()
	result, err := classifier.Classify(ctx, string(text))
	if err != nil {
		log.Error().Err(err).Msg("Classification failed")
		return fmt.Errorf("classification failed: %w", err)
	}

	log.Info().
		Str("label", result.Label()).
		Float64("confidence", result.Confidence).
		Dur("duration", time.Since(start)).
		Msg("Classification complete")

	out := struct {
		Label string `json:"label"`
		*classify.Classification
	}{
		Label:          result.Label(),
		Classification: result,
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to create JSON output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
