package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TokenSweepJob deletes expired auth token records. Redis expires the live
// tokens on its own; this keeps the postgres issuance log from growing.
type TokenSweepJob struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewTokenSweepJob constructs the job.
func NewTokenSweepJob(pool *pgxpool.Pool, logger *slog.Logger) *TokenSweepJob {
	return &TokenSweepJob{pool: pool, logger: logger}
}

// Handle processes TaskTokenSweep tasks.
func (j *TokenSweepJob) Handle(ctx context.Context, t *asynq.Task) error {
	tag, err := j.pool.Exec(ctx, `DELETE FROM auth_tokens WHERE expires_at < NOW()`)
	if err != nil {
		return err
	}
	if j.logger != nil {
		j.logger.Info("token sweep completed", slog.Int64("removed", tag.RowsAffected()))
	}
	return nil
}
