package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/kerbaras/vnforge/pkg/app"
	"github.com/kerbaras/vnforge/pkg/config"
	"github.com/kerbaras/vnforge/pkg/data"
	"github.com/kerbaras/vnforge/pkg/integrations"
	"github.com/kerbaras/vnforge/pkg/services"
	"github.com/kerbaras/vnforge/pkg/sources"
	"github.com/spf13/cobra"
)

var (
	configPath  string
	libraryPath string
	verbose     bool

	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "vnforge",
	Short: "Author, play and export branching visual novels",
	Long:  "Write branching visual novels as JSON documents, generate their art with Gemini, play them in the terminal and export them to Ren'Py, HTML and EPUB",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if configPath != "" {
			cfg, err = config.LoadFile(configPath)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return err
		}
		if libraryPath != "" {
			cfg.Paths.Library = libraryPath
		}

		level := cfg.Level()
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		// Launch TUI by default. Logs go to a file so they do not tear the
		// alternate screen.
		logFile, err := openLogFile()
		cobra.CheckErr(err)
		defer logFile.Close()
		logger = slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: cfg.Level()}))

		repo, err := openLibrary()
		cobra.CheckErr(err)
		defer repo.Close()

		pipeline, err := newPipeline(cmd.Context())
		if errors.Is(err, config.ErrMissingAPIKey) {
			logger.Warn("art generation disabled", "reason", err)
			pipeline = nil
		} else {
			cobra.CheckErr(err)
			defer pipeline.Close()
		}

		a := app.NewApp(newController(repo), pipeline)
		if err := a.Run(); err != nil {
			cobra.CheckErr(err)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default "+config.Path()+")")
	rootCmd.PersistentFlags().StringVar(&libraryPath, "library", "", "library database path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func openLibrary() (*data.Repository, error) {
	repo, err := data.NewDuckDBRepository(cfg.Paths.Library)
	if err != nil {
		return nil, fmt.Errorf("failed to open library %s: %w", cfg.Paths.Library, err)
	}
	return repo, nil
}

func openLogFile() (io.WriteCloser, error) {
	dir := filepath.Dir(cfg.Paths.Library)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, "vnforge.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}

func newController(repo services.Repository) *services.NovelController {
	return services.NewNovelController(repo, services.ControllerConfig{
		OutputDir: cfg.Paths.OutputDir,
		Export:    integrations.ExportOptions{Author: "vnforge", Lang: "en"},
		Logger:    logger,
	})
}

// openNovel resolves a file path, library id or title. The library is only
// opened when the reference is not a file; the returned close func is always
// safe to call.
func openNovel(ref string) (*services.Document, *services.NovelController, func(), error) {
	if info, err := os.Stat(ref); err == nil && !info.IsDir() {
		c := newController(nil)
		doc, err := c.Open(ref)
		return doc, c, func() {}, err
	}
	repo, err := openLibrary()
	if err != nil {
		return nil, nil, func() {}, err
	}
	c := newController(repo)
	doc, err := c.Open(ref)
	return doc, c, func() { repo.Close() }, err
}

func newPipeline(ctx context.Context) (*services.ArtPipeline, error) {
	key, err := cfg.APIKey()
	if err != nil {
		return nil, err
	}
	gen, err := sources.NewGemini(ctx, sources.GeminiOptions{
		APIKey:      key,
		TextModel:   cfg.AI.TextModel,
		ImageModel:  cfg.AI.ImageModel,
		AspectRatio: cfg.AI.AspectRatio,
		Logger:      logger,
	})
	if err != nil {
		return nil, err
	}
	return services.NewArtPipeline(gen, services.PipelineOptions{
		Spacing: cfg.Pipeline.Spacing,
		Chroma:  integrations.ChromaOptions{MaxHeight: cfg.Pipeline.MaxPortraitHeight},
		Logger:  logger,
	}), nil
}

func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
