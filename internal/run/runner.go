// Package run wires the full pipeline for one subject: document
// retrieval, classification and extraction, evidence bundling, section
// generation, report compilation and the remote hand-offs.
package run

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"sort"
	"sync"

	"cloud.google.com/go/storage"
	executions "cloud.google.com/go/workflows/executions/apiv1"
	"golang.org/x/sync/errgroup"

	"github.com/microsmart/mentorflow/internal/bundle"
	"github.com/microsmart/mentorflow/internal/classify"
	"github.com/microsmart/mentorflow/internal/compile"
	"github.com/microsmart/mentorflow/internal/config"
	"github.com/microsmart/mentorflow/internal/extract"
	"github.com/microsmart/mentorflow/internal/gcp"
	"github.com/microsmart/mentorflow/internal/models"
	"github.com/microsmart/mentorflow/internal/orchestrate"
	"github.com/microsmart/mentorflow/internal/store"
)

// Runner executes complete runs. The GCP collaborators are optional: a
// local run with none of them still produces the compiled report on disk.
type Runner struct {
	Cfg       config.Config
	Store     store.Store
	Engine    orchestrate.Engine
	Extractor *extract.Extractor
	Logger    *slog.Logger

	// Optional remote collaborators.
	Registry   *Registry
	Storage    *storage.Client
	Executions *executions.Client
}

var afmShape = regexp.MustCompile(`^\d{9}$`)

// Execute performs one run for the subject. When resumeRunID is set the
// existing run directory is reopened and previously persisted section
// results are reused instead of regenerated.
func (r *Runner) Execute(ctx context.Context, subjectID, resumeRunID string) (*models.CompiledReport, error) {
	ws, err := r.openWorkspace(subjectID, resumeRunID)
	if err != nil {
		return nil, err
	}
	logCtx := r.Logger.With("runId", ws.RunID(), "subject", subjectID)
	logCtx.Info("Starting run.")

	report, err := r.execute(ctx, ws, logCtx, subjectID)
	if err != nil {
		if r.Registry != nil {
			if regErr := r.Registry.Fail(context.WithoutCancel(ctx), ws.RunID(), err); regErr != nil {
				logCtx.Warn("Failed to record run failure.", "error", regErr)
			}
		}
		return nil, err
	}
	return report, nil
}

func (r *Runner) execute(ctx context.Context, ws *Workspace, logCtx *slog.Logger, subjectID string) (*models.CompiledReport, error) {
	files, err := r.Store.ListDocuments(ctx, subjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subject documents: %w", err)
	}
	logCtx.Info("Listed subject documents.", "count", len(files))

	if r.Registry != nil {
		if err := r.Registry.Start(ctx, ws.RunID(), subjectID, len(files)); err != nil {
			logCtx.Warn("Failed to register run, continuing.", "error", err)
		}
	}

	// Remote documents are materialized into the run directory so the
	// probes and the extractor operate on local paths.
	if remote, ok := r.Store.(*store.SubjectStore); ok {
		if err := remote.DownloadAll(ctx, logCtx, files, ws.DocumentsDir()); err != nil {
			return nil, fmt.Errorf("failed to download subject documents: %w", err)
		}
		for i := range files {
			files[i].Path = filepath.Join(ws.DocumentsDir(), filepath.FromSlash(files[i].ID))
		}
	}

	b, err := r.ingest(ctx, logCtx, subjectID, files)
	if err != nil {
		return nil, err
	}
	if err := ws.SaveJSON("evidence_bundle.json", b); err != nil {
		return nil, err
	}
	logCtx.Info("Evidence bundle assembled.",
		"structured", len(b.Synopses), "unstructured", len(b.Unstructured), "websiteKnown", b.WebsiteKnown)

	seed, err := ws.LoadSections()
	if err != nil {
		return nil, err
	}
	if len(seed) > 0 {
		logCtx.Info("Resuming with persisted section results.", "count", len(seed))
	}

	var meta models.CompanyMetadata
	if afmShape.MatchString(subjectID) {
		meta.AFM = subjectID
	}

	orch := orchestrate.New(r.Engine, orchestrate.Options{
		MaxAttempts:    r.Cfg.MaxAttempts,
		Concurrency:    r.Cfg.Concurrency,
		AttemptTimeout: r.Cfg.SectionTimeout,
		OnResult: func(res *models.SectionResult) {
			if err := ws.SaveSection(res); err != nil {
				logCtx.Warn("Failed to persist section snapshot.", "section", res.Number, "error", err)
			}
		},
	}, r.Logger)
	results, meta := orch.Run(ctx, ws.RunID(), b, meta, seed)

	report := compile.New(r.Logger).Compile(ws.RunID(), b, results, meta)
	if err := ws.SaveJSON("compiled_report.json", report); err != nil {
		return nil, err
	}
	if err := ws.SaveJSON("manifest.json", report.Manifest); err != nil {
		return nil, err
	}
	logCtx.Info("Report compiled.",
		"succeeded", report.Manifest.Succeeded, "retried", report.Manifest.Retried, "failed", report.Manifest.Failed)

	reportURI, err := r.publish(ctx, logCtx, ws, report)
	if err != nil {
		return nil, err
	}

	if r.Registry != nil {
		if err := r.Registry.Finish(ctx, ws.RunID(), report.Manifest, reportURI); err != nil {
			logCtx.Warn("Failed to finalize run registry entry.", "error", err)
		}
	}

	logCtx.Info("Run complete.", "reportUri", orFallbackURI(reportURI, ws.Dir()))
	return report, nil
}

// ingest probes, classifies and extracts every document concurrently and
// folds the per-file results into the immutable evidence bundle.
func (r *Runner) ingest(ctx context.Context, logCtx *slog.Logger, subjectID string, files []models.SourceFile) (*models.EvidenceBundle, error) {
	var mu sync.Mutex
	inputs := make([]bundle.Input, 0, len(files))

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(r.Cfg.IngestWorkers)

	for _, f := range files {
		eg.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			probe := classify.ProbeFile(f)
			cls := classify.Classify(f, probe)

			var synopses []models.TableSynopsis
			diagnostic := probe.Diagnostic
			if f.Extension == ".xlsx" || f.Extension == ".xls" {
				synopses, diagnostic = r.Extractor.Extract(logCtx, f)
			}

			logCtx.Info("Ingested document.",
				"file", f.ID, "category", cls.Category, "confidence", cls.Confidence, "synopses", len(synopses))

			mu.Lock()
			inputs = append(inputs, bundle.Input{File: f, Classification: cls, Synopses: synopses, Diagnostic: diagnostic})
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("document ingest failed: %w", err)
	}

	sort.Slice(inputs, func(i, j int) bool { return inputs[i].File.ID < inputs[j].File.ID })
	b, err := bundle.Build(subjectID, inputs)
	if err != nil {
		return nil, fmt.Errorf("failed to build evidence bundle: %w", err)
	}
	return b, nil
}

// publish uploads the compiled report snapshot and triggers the render
// workflow. Both are skipped when the corresponding collaborator is not
// configured.
func (r *Runner) publish(ctx context.Context, logCtx *slog.Logger, ws *Workspace, report *models.CompiledReport) (string, error) {
	if r.Storage == nil || r.Cfg.SnapshotBucket == "" {
		return "", nil
	}

	data, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("failed to marshal compiled report: %w", err)
	}
	object := fmt.Sprintf("%s/compiled_report.json", ws.RunID())
	if err := gcp.SaveToGCSAtomically(ctx, r.Storage.Bucket(r.Cfg.SnapshotBucket), object, string(data)); err != nil {
		return "", fmt.Errorf("failed to upload report snapshot: %w", err)
	}
	reportURI := fmt.Sprintf("gs://%s/%s", r.Cfg.SnapshotBucket, object)
	logCtx.Info("Report snapshot uploaded.", "reportUri", reportURI)

	if r.Executions != nil && r.Cfg.RenderWorkflowID != "" {
		err := gcp.TriggerRenderWorkflow(ctx, r.Executions,
			r.Cfg.ProjectID, r.Cfg.WorkflowLocation, r.Cfg.RenderWorkflowID, ws.RunID(), reportURI)
		if err != nil {
			return "", err
		}
		logCtx.Info("Render workflow triggered.", "workflow", r.Cfg.RenderWorkflowID)
	}
	return reportURI, nil
}

func (r *Runner) openWorkspace(subjectID, resumeRunID string) (*Workspace, error) {
	if resumeRunID != "" {
		return OpenWorkspace(r.Cfg.WorkDir, resumeRunID)
	}
	return NewWorkspace(r.Cfg.WorkDir, subjectID)
}

func orFallbackURI(uri, dir string) string {
	if uri == "" {
		return dir
	}
	return uri
}
