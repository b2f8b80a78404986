package run

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/microsmart/mentorflow/internal/models"
)

// Registry records run lifecycle state in Firestore so operators can see
// which runs are in flight and which sections need manual follow-up.
type Registry struct {
	client     *firestore.Client
	collection string
}

// NewRegistry returns a registry writing to the given collection.
func NewRegistry(client *firestore.Client, collection string) *Registry {
	return &Registry{client: client, collection: collection}
}

func (r *Registry) doc(runID string) *firestore.DocumentRef {
	return r.client.Collection(r.collection).Doc(runID)
}

// Start registers a new run.
func (r *Registry) Start(ctx context.Context, runID, subjectID string, fileCount int) error {
	_, err := r.doc(runID).Set(ctx, map[string]interface{}{
		"runId":     runID,
		"subjectId": subjectID,
		"status":    "running",
		"fileCount": fileCount,
		"startedAt": firestore.ServerTimestamp,
	})
	if err != nil {
		return fmt.Errorf("failed to register run %s: %w", runID, err)
	}
	return nil
}

// Finish marks a run complete with its manifest counters and the report
// location.
func (r *Registry) Finish(ctx context.Context, runID string, m models.Manifest, reportURI string) error {
	_, err := r.doc(runID).Set(ctx, map[string]interface{}{
		"status":            "completed",
		"sectionsSucceeded": m.Succeeded,
		"sectionsRetried":   m.Retried,
		"sectionsFailed":    m.Failed,
		"reportUri":         reportURI,
		"completedAt":       time.Now().UTC(),
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to finalize run %s: %w", runID, err)
	}
	return nil
}

// Fail marks a run as permanently failed.
func (r *Registry) Fail(ctx context.Context, runID string, cause error) error {
	_, err := r.doc(runID).Set(ctx, map[string]interface{}{
		"status":   "failed",
		"error":    cause.Error(),
		"failedAt": time.Now().UTC(),
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to record run failure %s: %w", runID, err)
	}
	return nil
}
