// Package scheduler provides unified scheduler management using gocron v2.
package scheduler

import (
	"sync"

	"github.com/go-co-op/gocron/v2"

	"watchfleet/internal/shared/biztime"
	"watchfleet/internal/shared/logger"
)

// Manager owns the single gocron scheduler instance and its lifecycle.
type Manager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	started   bool
	startedMu sync.RWMutex
}

// NewManager creates a scheduler manager running in the business timezone.
func NewManager(log logger.Interface) (*Manager, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(biztime.Location()),
	)
	if err != nil {
		return nil, err
	}

	return &Manager{
		scheduler: scheduler,
		logger:    log.Named("scheduler"),
	}, nil
}

// Start begins executing registered jobs. Safe to call once.
func (m *Manager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()
	if m.started {
		return
	}
	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler started", "jobs", len(m.scheduler.Jobs()))
}

// Stop shuts the scheduler down, waiting for running jobs to finish.
func (m *Manager) Stop() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()
	if !m.started {
		return nil
	}
	m.started = false
	if err := m.scheduler.Shutdown(); err != nil {
		return err
	}
	m.logger.Infow("scheduler stopped")
	return nil
}
