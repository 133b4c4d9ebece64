package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/educationrisehub/faceless-reels-generator/internal/ai"
	"github.com/educationrisehub/faceless-reels-generator/internal/config"
	"github.com/educationrisehub/faceless-reels-generator/internal/content"
	"github.com/educationrisehub/faceless-reels-generator/internal/export"
	"github.com/educationrisehub/faceless-reels-generator/internal/session"
	"github.com/educationrisehub/faceless-reels-generator/internal/storage"
	"github.com/educationrisehub/faceless-reels-generator/internal/storage/sqlite"
	"github.com/educationrisehub/faceless-reels-generator/pkg/logger"
	"github.com/educationrisehub/faceless-reels-generator/pkg/ratelimit"
)

var (
	cfgFile string
	cfg     *config.Config
	log     *logger.Logger
	repo    storage.HistoryRepository
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "faceless",
		Short: "Faceless reels content generator powered by AI",
		Long: `Generates hook scripts, carousel sequences, and 30-day content plans
for faceless short-form video accounts using Claude AI.`,
		PersistentPreRunE: initializeApp,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./configs/config.yaml)")

	// Add subcommands
	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(exportCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func initializeApp(cmd *cobra.Command, args []string) error {
	var err error

	// Load config
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log = logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})

	// Initialize history storage
	repo, err = sqlite.New(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	return nil
}

// newSession wires the generation stack and loads history.
func newSession(ctx context.Context) (*session.Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	limiter := ratelimit.NewLimiter(cfg.RateLimit.AnthropicRequestsPerMinute)
	aiClient := ai.NewClient(cfg.Anthropic, limiter, log)
	generator := ai.NewGenerator(aiClient, log)

	return session.New(ctx, cfg.SessionConfig(), generator, repo, log), nil
}

// ============ GENERATE COMMAND ============

func generateCmd() *cobra.Command {
	var (
		niche       string
		mode        string
		platform    string
		contentType string
		topic       string
		txtPath     string
		csvPath     string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate content with the current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			sess, err := newSession(ctx)
			if err != nil {
				return err
			}

			if niche != "" {
				if err := sess.SetNiche(content.Niche(niche)); err != nil {
					return err
				}
			}
			if mode != "" {
				if err := sess.SetMode(content.Mode(mode)); err != nil {
					return err
				}
			}
			if platform != "" {
				if err := sess.SetPlatform(content.Platform(platform)); err != nil {
					return err
				}
			}
			if contentType != "" {
				if err := sess.SetContentType(content.ContentType(contentType)); err != nil {
					return err
				}
			}
			sess.SetTopic(topic)

			result, err := sess.Generate(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("=== %s • %s • %s ===\n\n", result.Mode.Label(), result.Niche, result.Platform)
			fmt.Print(export.Text(result.Data))
			fmt.Printf("\nResult ID: %s\n", result.ID)

			if txtPath != "" {
				if err := os.WriteFile(txtPath, []byte(export.Text(result.Data)), 0644); err != nil {
					return fmt.Errorf("failed to write %s: %w", txtPath, err)
				}
				fmt.Printf("Wrote %s\n", txtPath)
			}
			if csvPath != "" {
				if err := os.WriteFile(csvPath, []byte(export.CSV(result.Data)), 0644); err != nil {
					return fmt.Errorf("failed to write %s: %w", csvPath, err)
				}
				fmt.Printf("Wrote %s\n", csvPath)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&niche, "niche", "", "niche (Students, Motivation, Fitness, Business, Personal Branding)")
	cmd.Flags().StringVar(&mode, "mode", "", "creation mode (HOOKS, CAROUSEL, PLAN_30)")
	cmd.Flags().StringVar(&platform, "platform", "", "platform (TikTok, Instagram Reels, YouTube Shorts, Facebook Reels)")
	cmd.Flags().StringVar(&contentType, "content-type", "", "content type (Educational, Motivational, ...)")
	cmd.Flags().StringVar(&topic, "topic", "", "topic context (required for CAROUSEL)")
	cmd.Flags().StringVar(&txtPath, "txt", "", "also write a .txt export to this path")
	cmd.Flags().StringVar(&csvPath, "csv", "", "also write a .csv export to this path")
	return cmd
}

// ============ HISTORY COMMANDS ============

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Past generation results",
	}

	cmd.AddCommand(historyListCmd())
	cmd.AddCommand(historyShowCmd())
	cmd.AddCommand(historyClearCmd())
	return cmd
}

func historyListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored generations, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			history, err := loadHistory(context.Background())
			if err != nil {
				return err
			}

			if len(history) == 0 {
				fmt.Println("No history yet.")
				return nil
			}

			for _, r := range history {
				fmt.Printf("%s  %s  %-8s  %-17s  %s\n",
					r.ID,
					r.Timestamp.Format("2006-01-02 15:04"),
					r.Mode,
					r.Niche,
					r.ContentType,
				)
			}
			return nil
		},
	}
}

func historyShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print a stored generation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := findHistoryEntry(context.Background(), args[0])
			if err != nil {
				return err
			}

			fmt.Printf("=== %s • %s • %s ===\n\n", result.Mode.Label(), result.Niche, result.Platform)
			fmt.Print(export.Text(result.Data))
			return nil
		},
	}
}

func historyClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all stored generations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := repo.Clear(context.Background()); err != nil {
				return err
			}
			fmt.Println("History cleared.")
			return nil
		},
	}
}

// ============ EXPORT COMMAND ============

func exportCmd() *cobra.Command {
	var format string
	var outPath string

	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Export a stored generation as txt or csv",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := findHistoryEntry(context.Background(), args[0])
			if err != nil {
				return err
			}

			var body string
			switch format {
			case "txt":
				body = export.Text(result.Data)
			case "csv":
				body = export.CSV(result.Data)
			default:
				return fmt.Errorf("format must be txt or csv, got %q", format)
			}

			if outPath == "" {
				outPath = export.Filename(export.ResultTitle(result.Mode), format)
			}
			if err := os.WriteFile(outPath, []byte(body), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", outPath, err)
			}

			fmt.Printf("Wrote %s\n", outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "txt", "export format: txt or csv")
	cmd.Flags().StringVar(&outPath, "out", "", "output path (default derived from the result)")
	return cmd
}

func loadHistory(ctx context.Context) ([]content.GenerationResult, error) {
	history, err := repo.Load(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Discarding stored history")
		return nil, nil
	}
	return history, nil
}

func findHistoryEntry(ctx context.Context, id string) (content.GenerationResult, error) {
	history, err := loadHistory(ctx)
	if err != nil {
		return content.GenerationResult{}, err
	}
	for _, r := range history {
		if r.ID == id {
			return r, nil
		}
	}
	return content.GenerationResult{}, fmt.Errorf("no history entry with id %q", id)
}
