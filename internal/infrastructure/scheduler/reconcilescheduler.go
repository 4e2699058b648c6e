package scheduler

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/go-co-op/gocron/v2"

	deviceapp "watchfleet/internal/application/device"
	"watchfleet/internal/domain/project"
)

// reconcileTimeout bounds one full walk across all projects.
const reconcileTimeout = 10 * time.Minute

// RegisterReconcileJob schedules a periodic fleet sync: every interval it
// walks all projects, reconciles each against the upstream listing, and
// refreshes iccid values. Singleton mode keeps slow runs from piling up.
func (m *Manager) RegisterReconcileJob(
	reconciler *deviceapp.Reconciler,
	projects project.Repository,
	interval time.Duration,
) error {
	if interval <= 0 {
		interval = 30 * time.Minute
	}

	_, err := m.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			defer func() {
				if r := recover(); r != nil {
					m.logger.Errorw("panic in reconcile job",
						"panic", r, "stack", string(debug.Stack()))
				}
			}()

			ctx, cancel := context.WithTimeout(context.Background(), reconcileTimeout)
			defer cancel()
			m.runReconcile(ctx, reconciler, projects)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("device", "reconcile"),
		gocron.WithName("device-reconciler"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered reconcile job", "interval", interval)
	return nil
}

func (m *Manager) runReconcile(ctx context.Context, reconciler *deviceapp.Reconciler, projects project.Repository) {
	start := time.Now()

	all, err := projects.List(ctx)
	if err != nil {
		m.logger.Errorw("failed to list projects for reconcile", "error", err)
		return
	}

	for _, p := range all {
		report, err := reconciler.Reconcile(ctx, p.Name())
		if err != nil {
			m.logger.Errorw("reconcile failed", "project", p.Name(), "error", err)
			continue
		}
		if report.Inserted > 0 || report.Updated > 0 || report.Deleted > 0 {
			m.logger.Infow("reconcile applied changes",
				"project", p.Name(),
				"inserted", report.Inserted,
				"updated", report.Updated,
				"deleted", report.Deleted)
		}

		if _, err := reconciler.UpdateICCID(ctx, p.GroupID()); err != nil {
			m.logger.Warnw("iccid refresh failed", "project", p.Name(), "error", err)
		}
	}

	m.logger.Debugw("reconcile walk completed",
		"projects", len(all), "duration", time.Since(start))
}
