// ABOUTME: CLI command that structures a manuscript into a YAML document
// ABOUTME: Wires config, the OpenAI analyzer, and the pipeline together
package commands

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/harper/bookstruct/internal/config"
	"github.com/harper/bookstruct/internal/llm"
	"github.com/harper/bookstruct/internal/structurer"
)

var (
	structureModel       string
	structureChunkSize   int
	structureConcurrency int
	structureBestEffort  bool
)

// NewStructureCmd creates the structure command
func NewStructureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "structure <input.txt> <output.yaml>",
		Short: "Structure a manuscript into chapters and sections",
		Long: `Structure a plain-text manuscript into a YAML document.

The text is chunked, each chunk is analyzed by the configured OpenAI
model for chapter/section boundaries, and the per-chunk results are
merged into one ordered tree. The document is written only after the
full tree passes the reconstruction check; a failed run leaves no
partial output behind.

Requires OPENAI_API_KEY (environment or .env file).`,
		Args: cobra.ExactArgs(2),
		RunE: runStructure,
		Example: `  bookstruct structure manuscript.txt book.yaml
  bookstruct structure --best-effort --concurrency 4 manuscript.txt book.yaml`,
	}

	cmd.Flags().StringVar(&structureModel, "model", "", "OpenAI model to use (default from BOOKSTRUCT_OPENAI_MODEL)")
	cmd.Flags().IntVar(&structureChunkSize, "chunk-size", 0, "Analysis chunk size in characters (default from BOOKSTRUCT_CHUNK_SIZE)")
	cmd.Flags().IntVar(&structureConcurrency, "concurrency", 0, "Concurrent inference calls (default from BOOKSTRUCT_CONCURRENCY)")
	cmd.Flags().BoolVar(&structureBestEffort, "best-effort", false, "Degrade failed chunk analyses to untitled units instead of aborting")

	return cmd
}

func runStructure(cmd *cobra.Command, args []string) error {
	// Load .env for API keys
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if structureModel != "" {
		cfg.ChatModel = structureModel
	}
	if structureChunkSize > 0 {
		cfg.ChunkSize = structureChunkSize
	}
	if structureConcurrency > 0 {
		cfg.Concurrency = structureConcurrency
	}
	if structureBestEffort {
		cfg.BestEffort = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	inputPath, outputPath := args[0], args[1]

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	client, err := llm.NewClient(cfg)
	if err != nil {
		return fmt.Errorf("initializing OpenAI client: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "structuring %s (%d bytes) with %s\n", inputPath, len(data), cfg.ChatModel)
	}

	doc, err := structurer.New(client, cfg).Run(cmd.Context(), string(data))
	if err != nil {
		return err
	}

	if err := doc.Save(outputPath); err != nil {
		return err
	}

	if !quiet {
		printStructureSummary(cmd, doc, inputPath, outputPath)
	}
	return nil
}
