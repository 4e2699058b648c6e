package command

import (
	"context"
	"fmt"

	"watchfleet/internal/shared/logger"
)

// Service is the application entry point for device commands: it resolves an
// operation into a plan once, then executes it against one device or a fleet.
type Service struct {
	catalog    *Catalog
	dispatcher *Dispatcher
	logger     logger.Interface
}

// NewService creates a command service.
func NewService(catalog *Catalog, dispatcher *Dispatcher, log logger.Interface) *Service {
	return &Service{
		catalog:    catalog,
		dispatcher: dispatcher,
		logger:     log.Named("command-service"),
	}
}

// Run executes an operation against a single device. Plan-level failures
// (unknown operation, missing settings) are returned as errors; device-level
// failures are reported in the outcome.
func (s *Service) Run(ctx context.Context, op Operation, imei, projectName, arg string) (Outcome, error) {
	if imei == "" {
		return Outcome{}, fmt.Errorf("imei is required")
	}

	plan, err := s.catalog.Plan(ctx, op, projectName, arg)
	if err != nil {
		return Outcome{}, err
	}

	outcome := s.dispatcher.Execute(ctx, imei, plan)
	s.logger.Infow("command executed",
		"operation", op, "imei", imei, "status", outcome.Status)
	return outcome, nil
}

// RunBatch executes an operation against many devices, returning one outcome
// per IMEI. Settings are resolved once for the whole batch.
func (s *Service) RunBatch(ctx context.Context, imeis []string, op Operation, projectName, arg string) ([]Outcome, error) {
	if len(imeis) == 0 {
		return nil, fmt.Errorf("no imeis provided")
	}

	plan, err := s.catalog.Plan(ctx, op, projectName, arg)
	if err != nil {
		return nil, err
	}

	s.logger.Infow("dispatching batch command",
		"operation", op, "devices", len(imeis), "project", projectName)
	outcomes := s.dispatcher.Dispatch(ctx, imeis, plan)

	ok := 0
	for _, outcome := range outcomes {
		if outcome.Ok() {
			ok++
		}
	}
	s.logger.Infow("batch command completed",
		"operation", op, "devices", len(imeis), "succeeded", ok)

	return outcomes, nil
}
