package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

// IntegrityScanJob counts grant matrix rows and role assignments whose
// parent role, element or user no longer exists. The schema's cascade
// constraints should keep both counts at zero; a non-zero count means the
// store was mutated outside the service and needs operator attention.
type IntegrityScanJob struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewIntegrityScanJob constructs the job.
func NewIntegrityScanJob(pool *pgxpool.Pool, logger *slog.Logger) *IntegrityScanJob {
	return &IntegrityScanJob{pool: pool, logger: logger}
}

// Handle processes TaskIntegrityScan tasks.
func (j *IntegrityScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	var orphanRules, orphanAssignments int64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return j.pool.QueryRow(gctx, `
			SELECT COUNT(*) FROM access_role_rules r
			WHERE NOT EXISTS (SELECT 1 FROM roles WHERE roles.id = r.role_id)
			   OR NOT EXISTS (SELECT 1 FROM business_elements e WHERE e.id = r.element_id)`).
			Scan(&orphanRules)
	})
	g.Go(func() error {
		return j.pool.QueryRow(gctx, `
			SELECT COUNT(*) FROM user_roles ur
			WHERE NOT EXISTS (SELECT 1 FROM users WHERE users.id = ur.user_id)
			   OR NOT EXISTS (SELECT 1 FROM roles WHERE roles.id = ur.role_id)`).
			Scan(&orphanAssignments)
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if j.logger != nil {
		if orphanRules > 0 || orphanAssignments > 0 {
			j.logger.Warn("integrity scan found orphans",
				slog.Int64("orphan_rules", orphanRules),
				slog.Int64("orphan_assignments", orphanAssignments))
		} else {
			j.logger.Info("integrity scan clean")
		}
	}
	return nil
}
