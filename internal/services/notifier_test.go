package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"cloud.google.com/go/workflows/executions/apiv1/executionspb"
	"github.com/googleapis/gax-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lllllllleong/tmpcompliance/internal/models"
)

type fakeExecutions struct {
	req *executionspb.CreateExecutionRequest
	err error
}

func (f *fakeExecutions) CreateExecution(_ context.Context, req *executionspb.CreateExecutionRequest, _ ...gax.CallOption) (*executionspb.Execution, error) {
	f.req = req
	if f.err != nil {
		return nil, f.err
	}
	return &executionspb.Execution{Name: req.Parent + "/executions/1"}, nil
}

func TestWorkflowNotifier_ReportReady(t *testing.T) {
	client := &fakeExecutions{}
	n := NewWorkflowNotifier(client, "proj", "australia-southeast1", "tmp-report-ready")

	payload := models.ReportReadyPayload{
		AnalysisID: "abc",
		Filename:   "plan.pdf",
		ReportName: "compliance_report_abc.pdf",
		IsTMP:      true,
		Score:      11,
	}
	require.NoError(t, n.ReportReady(context.Background(), payload))

	require.NotNil(t, client.req)
	assert.Equal(t, "projects/proj/locations/australia-southeast1/workflows/tmp-report-ready", client.req.Parent)

	var got models.ReportReadyPayload
	require.NoError(t, json.Unmarshal([]byte(client.req.Execution.Argument), &got))
	assert.Equal(t, payload, got)
}

func TestWorkflowNotifier_Error(t *testing.T) {
	n := NewWorkflowNotifier(&fakeExecutions{err: errors.New("permission denied")}, "p", "l", "w")

	err := n.ReportReady(context.Background(), models.ReportReadyPayload{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to trigger workflow execution")
}

func TestInterfaceCompliance(t *testing.T) {
	var _ Recorder = NopRecorder{}
	var _ Recorder = (*FirestoreRecorder)(nil)
	var _ Notifier = NopNotifier{}
	var _ Notifier = (*WorkflowNotifier)(nil)
}
