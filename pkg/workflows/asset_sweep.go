package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"
)

// Asset sweep retry policy.
const (
	sweepMaxAttempts     = 5
	sweepInitialInterval = 2 * time.Second
	sweepActivityTimeout = 30 * time.Second
)

// ErrNothingToSweep is returned by StartAssetSweep for an empty URL list.
var ErrNothingToSweep = errors.New("workflows: no assets to sweep")

// SweepInput lists stored objects left behind by a failed template operation.
type SweepInput struct {
	OperationID string   `json:"operation_id"`
	SearchKey   string   `json:"search_key"`
	URLs        []string `json:"urls"`
}

// SweepResult reports what the sweep removed.
type SweepResult struct {
	Deleted int      `json:"deleted"`
	Failed  []string `json:"failed"`
}

// AssetDeleter removes a stored object by its public URL. Deleting a missing
// object must succeed.
type AssetDeleter interface {
	DeleteByURL(ctx context.Context, url string) error
}

// SweepActivities holds the activity implementations for the asset sweep.
type SweepActivities struct {
	Store AssetDeleter
}

// DeleteAsset deletes one orphaned object. The store error is returned as-is
// so a non-retryable application error stops the retry loop.
func (a *SweepActivities) DeleteAsset(ctx context.Context, url string) error {
	return a.Store.DeleteByURL(ctx, url)
}

// SweepOrphanedAssetsWorkflow deletes every URL in parallel. A URL that still
// fails after the retry policy is reported in the result, not as a workflow failure.
func SweepOrphanedAssetsWorkflow(ctx workflow.Context, in SweepInput) (SweepResult, error) {
	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: sweepActivityTimeout,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    sweepInitialInterval,
			BackoffCoefficient: 2,
			MaximumAttempts:    sweepMaxAttempts,
		},
	})
	log := workflow.GetLogger(ctx)

	var a *SweepActivities
	futures := make([]workflow.Future, len(in.URLs))
	for i, url := range in.URLs {
		futures[i] = workflow.ExecuteActivity(ctx, a.DeleteAsset, url)
	}

	res := SweepResult{Failed: []string{}}
	for i, f := range futures {
		if err := f.Get(ctx, nil); err != nil {
			log.Warn("asset sweep gave up", "url", in.URLs[i], "error", err)
			res.Failed = append(res.Failed, in.URLs[i])
			continue
		}
		res.Deleted++
	}
	log.Info("asset sweep finished", "search_key", in.SearchKey, "deleted", res.Deleted, "failed", len(res.Failed))
	return res, nil
}

// SweepWorkflowID is the workflow id for an operation. Reporting the same
// operation twice joins the running sweep.
func SweepWorkflowID(operationID string) string {
	return "asset-sweep-" + operationID
}

// StartAssetSweep starts SweepOrphanedAssetsWorkflow and returns its run id.
func (tc *TemporalClient) StartAssetSweep(ctx context.Context, in SweepInput) (string, error) {
	if len(in.URLs) == 0 {
		return "", ErrNothingToSweep
	}
	run, err := tc.Client.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:        SweepWorkflowID(in.OperationID),
		TaskQueue: tc.TaskQueue,
	}, SweepOrphanedAssetsWorkflow, in)
	if err != nil {
		return "", fmt.Errorf("start asset sweep: %w", err)
	}
	tc.log.InfoContext(ctx, "asset sweep started",
		"workflow_id", run.GetID(), "run_id", run.GetRunID(), "urls", len(in.URLs))
	return run.GetRunID(), nil
}

// NewSweepWorker returns a worker for the sweep workflow on taskQueue. The
// caller starts and stops it.
func NewSweepWorker(c client.Client, taskQueue string, store AssetDeleter) worker.Worker {
	w := worker.New(c, taskQueue, worker.Options{})
	w.RegisterWorkflow(SweepOrphanedAssetsWorkflow)
	w.RegisterActivity(&SweepActivities{Store: store})
	return w
}
