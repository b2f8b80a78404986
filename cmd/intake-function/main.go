package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"sync"

	"cloud.google.com/go/storage"
	executions "cloud.google.com/go/workflows/executions/apiv1"
	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	cloudevents "github.com/cloudevents/sdk-go/v2"

	"github.com/microsmart/mentorflow/internal/config"
	"github.com/microsmart/mentorflow/internal/extract"
	"github.com/microsmart/mentorflow/internal/gcp"
	"github.com/microsmart/mentorflow/internal/run"
	"github.com/microsmart/mentorflow/internal/store"
)

// GCSEvent is the payload of a storage object-finalized event.
type GCSEvent struct {
	Bucket string `json:"bucket"`
	Name   string `json:"name"`
}

var (
	runner  *run.Runner
	once    sync.Once
	initErr error
)

var afmInFolder = regexp.MustCompile(`\b(\d{9})\b`)

func init() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	functions.CloudEvent("RunMentoringPipeline", runMentoringPipeline)
}

// main is required by the Go Functions Framework.
func main() {}

// runMentoringPipeline starts a full run whenever a document lands in a
// subject's mentoring folder.
func runMentoringPipeline(ctx context.Context, e cloudevents.Event) error {
	once.Do(initRunner)
	if initErr != nil {
		slog.Error("Critical error during function initialization", "error", initErr)
		return initErr
	}

	var gcsEvent GCSEvent
	if err := json.Unmarshal(e.Data(), &gcsEvent); err != nil {
		slog.Error("Failed to unmarshal event data", "error", err, "data", string(e.Data()))
		return fmt.Errorf("json.Unmarshal: %w", err)
	}

	// Only uploads into a mentoring intake folder start a run; everything
	// else in the bucket is ignored.
	if !strings.Contains(gcsEvent.Name, "/mentoring/") {
		slog.Info("Ignoring object outside an intake folder.", "object", gcsEvent.Name)
		return nil
	}
	folder, _, _ := strings.Cut(gcsEvent.Name, "/")
	afm := afmInFolder.FindString(folder)
	if afm == "" {
		slog.Warn("Subject folder name carries no ΑΦΜ, skipping.", "folder", folder)
		return nil
	}

	if _, err := runner.Execute(ctx, afm, ""); err != nil {
		return err
	}
	return nil
}

func initRunner() {
	ctx := context.Background()
	cfg := config.Load()
	if initErr = cfg.ValidateRemote(); initErr != nil {
		return
	}
	if initErr = cfg.ValidateGeneration(); initErr != nil {
		return
	}

	vocab := extract.DefaultVocabulary()
	if cfg.VocabularyPath != "" {
		if vocab, initErr = extract.LoadVocabulary(cfg.VocabularyPath); initErr != nil {
			return
		}
	}

	subjects, err := store.NewSubjectStore(ctx, cfg.SubjectBucket)
	if err != nil {
		initErr = err
		return
	}
	engine, err := gcp.NewVertexClient(ctx, cfg.ProjectID, cfg.VertexAIRegion)
	if err != nil {
		initErr = err
		return
	}
	fsClient, err := gcp.NewFirestoreClient(ctx, cfg.ProjectID)
	if err != nil {
		initErr = err
		return
	}
	storageClient, err := storage.NewClient(ctx)
	if err != nil {
		initErr = fmt.Errorf("failed to create storage client: %w", err)
		return
	}
	execClient, err := executions.NewClient(ctx)
	if err != nil {
		initErr = fmt.Errorf("failed to create workflow executions client: %w", err)
		return
	}

	// The function writes under /tmp, the only writable path in the
	// Cloud Functions filesystem.
	cfg.WorkDir = config.GetEnv("MENTORFLOW_WORK_DIR", "/tmp/mentorflow")

	runner = &run.Runner{
		Cfg:        cfg,
		Store:      subjects,
		Engine:     engine,
		Extractor:  extract.NewExtractor(vocab),
		Logger:     slog.Default(),
		Registry:   run.NewRegistry(fsClient, cfg.RunCollection),
		Storage:    storageClient,
		Executions: execClient,
	}
}
