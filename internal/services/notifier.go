package services

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/workflows/executions/apiv1/executionspb"
	"github.com/googleapis/gax-go/v2"

	"github.com/Lllllllleong/tmpcompliance/internal/models"
)

// Notifier is told about every report that has been stored.
type Notifier interface {
	ReportReady(ctx context.Context, payload models.ReportReadyPayload) error
}

// NopNotifier ignores notifications.
type NopNotifier struct{}

func (NopNotifier) ReportReady(context.Context, models.ReportReadyPayload) error { return nil }

// ExecutionCreator is the part of the Workflows executions client we use.
type ExecutionCreator interface {
	CreateExecution(ctx context.Context, req *executionspb.CreateExecutionRequest, opts ...gax.CallOption) (*executionspb.Execution, error)
}

// WorkflowNotifier hands each finished report off to a Cloud Workflow.
type WorkflowNotifier struct {
	client ExecutionCreator
	parent string
}

// NewWorkflowNotifier targets projects/<project>/locations/<location>/workflows/<workflow>.
func NewWorkflowNotifier(client ExecutionCreator, projectID, location, workflowID string) *WorkflowNotifier {
	return &WorkflowNotifier{
		client: client,
		parent: fmt.Sprintf("projects/%s/locations/%s/workflows/%s", projectID, location, workflowID),
	}
}

func (n *WorkflowNotifier) ReportReady(ctx context.Context, payload models.ReportReadyPayload) error {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal workflow payload: %w", err)
	}
	req := &executionspb.CreateExecutionRequest{
		Parent: n.parent,
		Execution: &executionspb.Execution{
			Argument: string(payloadBytes),
		},
	}
	if _, err := n.client.CreateExecution(ctx, req); err != nil {
		return fmt.Errorf("failed to trigger workflow execution: %w", err)
	}
	return nil
}
