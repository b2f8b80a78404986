package gcp

import (
	"context"
	"encoding/json"
	"fmt"

	executions "cloud.google.com/go/workflows/executions/apiv1"
	"cloud.google.com/go/workflows/executions/apiv1/executionspb"
)

// TriggerRenderWorkflow hands a compiled report off to the render
// workflow, which turns it into the deliverable document. The argument is
// the run id plus the GCS URI of the compiled report snapshot.
func TriggerRenderWorkflow(ctx context.Context, client *executions.Client, projectID, location, workflowID, runID, reportURI string) error {
	payload := map[string]interface{}{
		"runId":     runID,
		"reportUri": reportURI,
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal render workflow payload: %w", err)
	}

	req := &executionspb.CreateExecutionRequest{
		Parent: fmt.Sprintf("projects/%s/locations/%s/workflows/%s", projectID, location, workflowID),
		Execution: &executionspb.Execution{
			Argument: string(payloadBytes),
		},
	}
	if _, err := client.CreateExecution(ctx, req); err != nil {
		return fmt.Errorf("failed to trigger render workflow execution: %w", err)
	}
	return nil
}
