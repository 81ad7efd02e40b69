package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditPruneJob removes audit log entries older than the retention window.
type AuditPruneJob struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewAuditPruneJob constructs the job.
func NewAuditPruneJob(pool *pgxpool.Pool, logger *slog.Logger) *AuditPruneJob {
	return &AuditPruneJob{pool: pool, logger: logger}
}

// Handle processes TaskAuditPrune tasks.
func (j *AuditPruneJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload AuditPrunePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.RetentionHours <= 0 {
		return asynq.SkipRetry
	}
	tag, err := j.pool.Exec(ctx,
		fmt.Sprintf(`DELETE FROM audit_logs WHERE occurred_at < NOW() - INTERVAL '%d hours'`, payload.RetentionHours))
	if err != nil {
		return err
	}
	if j.logger != nil {
		j.logger.Info("audit prune completed", slog.Int64("removed", tag.RowsAffected()))
	}
	return nil
}
