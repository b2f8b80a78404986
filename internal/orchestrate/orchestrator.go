// Package orchestrate runs the eleven section generation jobs against a
// shared, read-only evidence bundle: bounded concurrency, per-attempt
// timeouts, schema validation with feedback-augmented retries, and
// failure isolation so one bad section never blocks the other ten.
package orchestrate

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/microsmart/mentorflow/internal/models"
	"github.com/microsmart/mentorflow/internal/sections"
)

// Engine is the external generation collaborator. It either returns a
// payload for validation or an error; the orchestrator treats any
// non-conformant or error response identically as a retryable failure.
type Engine interface {
	Generate(ctx context.Context, req *models.SectionRequest) (json.RawMessage, error)
}

// Options are the operational tuning parameters. They are configuration,
// not constants, because the right values depend on the downstream
// engine's rate limits.
type Options struct {
	MaxAttempts    int
	Concurrency    int
	AttemptTimeout time.Duration

	// OnResult, when set, is invoked once per terminal section result as
	// it completes. Used to persist results incrementally so a cancelled
	// run can resume without redoing finished sections.
	OnResult func(*models.SectionResult)
}

// Orchestrator schedules the section jobs.
type Orchestrator struct {
	engine Engine
	opts   Options
	logger *slog.Logger
}

// New creates an orchestrator. Zero or negative options fall back to the
// conservative defaults (3 attempts, concurrency 4, 120s per attempt).
func New(engine Engine, opts Options, logger *slog.Logger) *Orchestrator {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	if opts.AttemptTimeout <= 0 {
		opts.AttemptTimeout = 120 * time.Second
	}
	return &Orchestrator{engine: engine, opts: opts, logger: logger}
}

// Run executes all eleven jobs and returns the results keyed by section
// number, along with the company metadata extracted from section 1.
// Section 1 runs first because its metadata feeds the other prompts; the
// remaining ten run concurrently up to the concurrency ceiling. Seed
// results (from a previous interrupted run) are reused as-is. Every
// section number present in the fixed table is guaranteed a result entry,
// even on cancellation.
func (o *Orchestrator) Run(ctx context.Context, runID string, b *models.EvidenceBundle, meta models.CompanyMetadata, seed map[int]*models.SectionResult) (map[int]*models.SectionResult, models.CompanyMetadata) {
	results := make(map[int]*models.SectionResult, models.SectionCount)
	var mu sync.Mutex

	evidence, err := sections.Excerpt(b)
	if err != nil {
		// Without a serializable bundle no job can run; fill every slot
		// with the failure so compilation still produces all 11 slots.
		o.logger.Error("Failed to serialize evidence bundle.", "error", err)
		for _, spec := range sections.Specs {
			results[spec.Number] = o.failedResult(spec, 0, err)
		}
		return results, meta
	}

	first, _ := sections.ByNumber(1)
	if seeded, ok := seed[1]; ok {
		o.logger.Info("Reusing persisted result.", "section", 1)
		results[1] = seeded
	} else {
		results[1] = o.runJob(ctx, runID, first, meta, b, evidence)
	}
	if r := results[1]; r.Succeeded() && r.Payload.Metadata != nil {
		meta = *r.Payload.Metadata
		o.logger.Info("Extracted company metadata.", "company", meta.CompanyName, "afm", meta.AFM, "kad", meta.KAD)
	} else {
		o.logger.Warn("Section 1 yielded no metadata, remaining sections run without it.")
	}

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(o.opts.Concurrency)

	for _, spec := range sections.Specs {
		if spec.Number == 1 {
			continue
		}
		if seeded, ok := seed[spec.Number]; ok {
			o.logger.Info("Reusing persisted result.", "section", spec.Number)
			mu.Lock()
			results[spec.Number] = seeded
			mu.Unlock()
			continue
		}
		eg.Go(func() error {
			res := o.runJob(gctx, runID, spec, meta, b, evidence)
			mu.Lock()
			results[spec.Number] = res
			mu.Unlock()
			// Job failures are recorded, never propagated: returning an
			// error here would cancel the sibling jobs.
			return nil
		})
	}
	_ = eg.Wait()

	// On cancellation some slots may have never started; mark them so the
	// compiler still receives all eleven.
	for _, spec := range sections.Specs {
		mu.Lock()
		if _, ok := results[spec.Number]; !ok {
			results[spec.Number] = o.failedResult(spec, 0, fmt.Errorf("run cancelled before section started: %w", ctx.Err()))
		}
		mu.Unlock()
	}

	return results, meta
}

// runJob drives one section through its attempt budget. The timeout is
// per attempt, not per job lifetime, so a fast failure on attempt 1 keeps
// the full retry budget.
func (o *Orchestrator) runJob(ctx context.Context, runID string, spec sections.Spec, meta models.CompanyMetadata, b *models.EvidenceBundle, evidence json.RawMessage) *models.SectionResult {
	logCtx := o.logger.With("runId", runID, "section", spec.Number)
	req := &models.SectionRequest{
		RunID:    runID,
		Number:   spec.Number,
		Title:    spec.Title,
		Prompt:   sections.BuildPrompt(spec, meta, b),
		Evidence: evidence,
	}

	var lastErr error
	for attempt := 1; attempt <= o.opts.MaxAttempts; attempt++ {
		if ctx.Err() != nil {
			lastErr = ctx.Err()
			break
		}
		status := models.JobRunning
		if attempt > 1 {
			status = models.JobRetrying
		}
		logCtx.Info("Starting section attempt.", "attempt", attempt, "status", status)

		attemptCtx, cancel := context.WithTimeout(ctx, o.opts.AttemptTimeout)
		raw, err := o.engine.Generate(attemptCtx, req)
		cancel()

		if err != nil {
			lastErr = err
			logCtx.Warn("Section attempt failed.", "attempt", attempt, "error", err)
			req.Feedback = ""
			continue
		}

		payload, err := models.ParseSection(raw, spec.Number)
		if err != nil {
			lastErr = err
			logCtx.Warn("Section payload failed schema validation.", "attempt", attempt, "error", err)
			// Resubmit with the validation error so the engine can
			// correct its output.
			req.Feedback = err.Error()
			continue
		}

		logCtx.Info("Section generated.", "attempt", attempt)
		res := &models.SectionResult{
			Number:   spec.Number,
			Title:    spec.Title,
			Status:   models.JobSucceeded,
			Attempts: attempt,
			Payload:  payload,
			Raw:      raw,
		}
		o.emit(res)
		return res
	}

	logCtx.Error("Section permanently failed, recording placeholder.", "attempts", o.opts.MaxAttempts, "error", lastErr)
	res := o.failedResult(spec, o.opts.MaxAttempts, lastErr)
	o.emit(res)
	return res
}

func (o *Orchestrator) failedResult(spec sections.Spec, attempts int, err error) *models.SectionResult {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return &models.SectionResult{
		Number:   spec.Number,
		Title:    spec.Title,
		Status:   models.JobFailed,
		Attempts: attempts,
		Error:    msg,
	}
}

func (o *Orchestrator) emit(res *models.SectionResult) {
	if o.opts.OnResult != nil {
		o.opts.OnResult(res)
	}
}
