package command

import (
	"context"
	"errors"
	"sync"
	"time"

	"watchfleet/internal/infrastructure/miwi"
	"watchfleet/internal/shared/config"
	"watchfleet/internal/shared/logger"
)

// Status classifies how a device fared in a dispatch.
type Status string

const (
	StatusOk      Status = "ok"
	StatusFailed  Status = "failed"
	StatusOffline Status = "offline"
	StatusError   Status = "error"
)

// Outcome is the per-device result of a dispatched operation.
type Outcome struct {
	IMEI      string    `json:"imei"`
	Operation Operation `json:"operation"`
	Status    Status    `json:"status"`
	Detail    string    `json:"detail,omitempty"`
}

// Ok reports whether the outcome is a success.
func (o Outcome) Ok() bool {
	return o.Status == StatusOk
}

// Sender issues a single vendor command. Implemented by miwi.Client.
type Sender interface {
	SendCommand(ctx context.Context, imei, code, value string, timeout time.Duration) error
}

// Toucher records command activity on a device row. Implemented by the
// device repository.
type Toucher interface {
	Touch(ctx context.Context, imei string) error
}

// Dispatcher fans one command plan out across a fleet. Devices are processed
// in chunks; within a chunk each device runs on its own goroutine, and a
// short pause between chunks keeps the vendor API from throttling us.
type Dispatcher struct {
	sender     Sender
	devices    Toucher
	logger     logger.Interface
	chunkSize  int
	chunkDelay time.Duration
}

// NewDispatcher creates a dispatcher with chunking tuned from config.
func NewDispatcher(sender Sender, devices Toucher, cfg config.DispatchConfig, log logger.Interface) *Dispatcher {
	chunkSize := cfg.ChunkSize
	if chunkSize <= 0 {
		chunkSize = 10
	}
	chunkDelay := time.Duration(cfg.ChunkDelayMS) * time.Millisecond
	if cfg.ChunkDelayMS <= 0 {
		chunkDelay = 200 * time.Millisecond
	}
	return &Dispatcher{
		sender:     sender,
		devices:    devices,
		logger:     log.Named("dispatcher"),
		chunkSize:  chunkSize,
		chunkDelay: chunkDelay,
	}
}

// Dispatch runs the plan against every IMEI and returns exactly one outcome
// per input IMEI, in input order. A device failure never aborts the batch.
func (d *Dispatcher) Dispatch(ctx context.Context, imeis []string, plan *Plan) []Outcome {
	outcomes := make([]Outcome, len(imeis))

	for start := 0; start < len(imeis); start += d.chunkSize {
		end := start + d.chunkSize
		if end > len(imeis) {
			end = len(imeis)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(idx int, imei string) {
				defer wg.Done()
				defer func() {
					if r := recover(); r != nil {
						d.logger.Errorw("panic during command dispatch",
							"imei", imei, "operation", plan.Operation, "panic", r)
						outcomes[idx] = Outcome{
							IMEI:      imei,
							Operation: plan.Operation,
							Status:    StatusError,
							Detail:    "internal error",
						}
					}
				}()
				outcomes[idx] = d.Execute(ctx, imei, plan)
			}(i, imeis[i])
		}
		wg.Wait()

		if end < len(imeis) {
			select {
			case <-ctx.Done():
			case <-time.After(d.chunkDelay):
			}
		}
	}

	return outcomes
}

// Execute runs a plan against a single device and classifies the result.
// Sequential plans stop at the first failed step; independent plans attempt
// every step and aggregate failures into the outcome detail.
func (d *Dispatcher) Execute(ctx context.Context, imei string, plan *Plan) Outcome {
	outcome := Outcome{IMEI: imei, Operation: plan.Operation, Status: StatusOk}

	var failures []string
	for _, step := range plan.Steps {
		err := d.sender.SendCommand(ctx, imei, step.Code, step.Value, step.Timeout)
		if err == nil {
			continue
		}

		status, detail := classify(err)
		if !plan.Independent {
			outcome.Status = status
			outcome.Detail = detail
			break
		}

		// Independent plans keep going; the worst status wins.
		if severity(status) > severity(outcome.Status) {
			outcome.Status = status
		}
		failures = append(failures, step.Code+": "+detail)
	}

	if plan.Independent && len(failures) > 0 {
		outcome.Detail = joinDetails(failures)
	}

	if outcome.Ok() && d.devices != nil {
		if err := d.devices.Touch(ctx, imei); err != nil {
			d.logger.Warnw("failed to record command activity", "imei", imei, "error", err)
		}
	}

	return outcome
}

func classify(err error) (Status, string) {
	switch {
	case errors.Is(err, miwi.ErrDeviceOffline):
		return StatusOffline, "device is offline"
	case miwi.IsRequestError(err):
		return StatusFailed, err.Error()
	default:
		return StatusError, err.Error()
	}
}

func severity(s Status) int {
	switch s {
	case StatusOk:
		return 0
	case StatusOffline:
		return 1
	case StatusFailed:
		return 2
	default:
		return 3
	}
}

func joinDetails(failures []string) string {
	detail := failures[0]
	for _, f := range failures[1:] {
		detail += "; " + f
	}
	return detail
}
