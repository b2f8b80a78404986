package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"cloud.google.com/go/storage"
	executions "cloud.google.com/go/workflows/executions/apiv1"
	"github.com/spf13/cobra"

	"github.com/microsmart/mentorflow/internal/config"
	"github.com/microsmart/mentorflow/internal/extract"
	"github.com/microsmart/mentorflow/internal/gcp"
	"github.com/microsmart/mentorflow/internal/run"
	"github.com/microsmart/mentorflow/internal/store"
)

var (
	flagAFM      string
	flagResume   string
	flagLogLevel string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mentorflow",
		Short: "Generate mentoring reports for Greek SMEs from their document folders",
	}

	runCmd := &cobra.Command{
		Use:   "run [folder]",
		Short: "Run the full pipeline for one subject",
		Long: `Run ingests the subject's documents, builds the evidence bundle,
generates the eleven report sections and compiles the final report.

The subject is either a local folder passed as the positional argument,
or a company on the shared drive selected by --afm.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runPipeline,
	}
	runCmd.Flags().StringVar(&flagAFM, "afm", "", "ΑΦΜ of the company to process from the remote document store")
	runCmd.Flags().StringVar(&flagResume, "resume", "", "run id of an interrupted run to resume")
	runCmd.Flags().StringVar(&flagLogLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	ctx := cmd.Context()
	cfg := config.Load()

	logger, closeLog := config.SetupLogger(cfg.LogFile, parseLevel(flagLogLevel))
	defer func() { _ = closeLog() }()

	if flagAFM == "" && len(args) == 0 {
		return fmt.Errorf("either --afm or a local folder argument is required")
	}

	vocab := extract.DefaultVocabulary()
	if cfg.VocabularyPath != "" {
		var err error
		vocab, err = extract.LoadVocabulary(cfg.VocabularyPath)
		if err != nil {
			return fmt.Errorf("failed to load vocabulary: %w", err)
		}
	}

	if err := cfg.ValidateGeneration(); err != nil {
		return err
	}
	engine, err := gcp.NewVertexClient(ctx, cfg.ProjectID, cfg.VertexAIRegion)
	if err != nil {
		return fmt.Errorf("failed to create generation engine: %w", err)
	}
	defer func() { _ = engine.Close() }()

	runner := &run.Runner{
		Cfg:       cfg,
		Engine:    engine,
		Extractor: extract.NewExtractor(vocab),
		Logger:    logger,
	}

	var subjectID string
	if flagAFM != "" {
		if err := cfg.ValidateRemote(); err != nil {
			return err
		}
		subjectID = flagAFM

		subjects, err := store.NewSubjectStore(ctx, cfg.SubjectBucket)
		if err != nil {
			return fmt.Errorf("failed to open subject store: %w", err)
		}
		runner.Store = subjects

		fsClient, err := gcp.NewFirestoreClient(ctx, cfg.ProjectID)
		if err != nil {
			return err
		}
		defer fsClient.Close()
		runner.Registry = run.NewRegistry(fsClient, cfg.RunCollection)

		storageClient, err := storage.NewClient(ctx)
		if err != nil {
			return fmt.Errorf("failed to create storage client: %w", err)
		}
		defer storageClient.Close()
		runner.Storage = storageClient

		execClient, err := executions.NewClient(ctx)
		if err != nil {
			return fmt.Errorf("failed to create workflow executions client: %w", err)
		}
		defer execClient.Close()
		runner.Executions = execClient
	} else {
		folder := args[0]
		subjectID = filepath.Base(filepath.Clean(folder))
		runner.Store = store.NewLocalStore(folder)
	}

	if _, err := runner.Execute(ctx, subjectID, flagResume); err != nil {
		switch {
		case errors.Is(err, store.ErrSubjectNotFound):
			logger.Error("No folder found for the requested subject.", "subject", subjectID)
		case errors.Is(err, store.ErrIntakeFolderMissing):
			logger.Error("The subject folder has no 'mentoring' sub-folder with documents.", "subject", subjectID)
		case errors.Is(err, store.ErrAuth):
			logger.Error("Authentication to the document store failed, check credentials.")
		default:
			logger.Error("Run failed.", "error", err)
		}
		return err
	}
	return nil
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}
