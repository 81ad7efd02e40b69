// Package jobs hosts the background maintenance tasks processed by the
// Asynq worker.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"

	// TaskTokenSweep removes expired auth token records.
	TaskTokenSweep = "auth:token_sweep"
	// TaskIntegrityScan looks for grant matrix rows orphaned from their parents.
	TaskIntegrityScan = "rbac:integrity_scan"
	// TaskAuditPrune removes audit log entries older than the retention window.
	TaskAuditPrune = "audit:prune"
)

// AuditPrunePayload carries the retention window for audit pruning.
type AuditPrunePayload struct {
	RetentionHours int `json:"retention_hours"`
}

// NewTokenSweepTask constructs the token sweep task.
func NewTokenSweepTask() *asynq.Task {
	return asynq.NewTask(TaskTokenSweep, nil)
}

// NewIntegrityScanTask constructs the integrity scan task.
func NewIntegrityScanTask() *asynq.Task {
	return asynq.NewTask(TaskIntegrityScan, nil)
}

// NewAuditPruneTask constructs the audit prune task.
func NewAuditPruneTask(retentionHours int) (*asynq.Task, error) {
	data, err := json.Marshal(AuditPrunePayload{RetentionHours: retentionHours})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAuditPrune, data), nil
}
