package command

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"watchfleet/internal/infrastructure/miwi"
	"watchfleet/internal/shared/config"
	"watchfleet/internal/shared/logger"
)

func newTestDispatcher(sender Sender, devices Toucher) *Dispatcher {
	cfg := config.DispatchConfig{ChunkSize: 10, ChunkDelayMS: 1}
	return NewDispatcher(sender, devices, cfg, logger.NewLogger())
}

func locatePlan() *Plan {
	return &Plan{Operation: OpLocate, Steps: []Step{{Code: "0039"}}}
}

func imeiBatch(n int) []string {
	imeis := make([]string, n)
	for i := range imeis {
		imeis[i] = fmt.Sprintf("8600000000000%02d", i)
	}
	return imeis
}

func TestDispatchReturnsOneOutcomePerIMEI(t *testing.T) {
	sender := newFakeSender()
	dispatcher := newTestDispatcher(sender, nil)
	imeis := imeiBatch(25)

	outcomes := dispatcher.Dispatch(context.Background(), imeis, locatePlan())

	require.Len(t, outcomes, 25)
	for i, outcome := range outcomes {
		assert.Equal(t, imeis[i], outcome.IMEI, "outcomes must preserve input order")
		assert.Equal(t, StatusOk, outcome.Status)
		assert.Equal(t, OpLocate, outcome.Operation)
	}
	assert.Len(t, sender.sent(), 25)
}

func TestDispatchClassifiesPerDeviceFailures(t *testing.T) {
	sender := newFakeSender()
	sender.failIMEI("B", miwi.ErrDeviceOffline)
	sender.failIMEI("C", &miwi.RequestError{Code: 1313, Message: "not supported"})
	sender.failIMEI("D", &miwi.TransportError{Op: "sendcommand", Err: errors.New("timeout")})

	dispatcher := newTestDispatcher(sender, nil)

	outcomes := dispatcher.Dispatch(context.Background(), []string{"A", "B", "C", "D"}, locatePlan())

	require.Len(t, outcomes, 4)
	assert.Equal(t, StatusOk, outcomes[0].Status)
	assert.Equal(t, StatusOffline, outcomes[1].Status)
	assert.Equal(t, StatusFailed, outcomes[2].Status)
	assert.Contains(t, outcomes[2].Detail, "not supported")
	assert.Equal(t, StatusError, outcomes[3].Status)
}

func TestDispatchSurvivesWorkerPanic(t *testing.T) {
	sender := newFakeSender()
	sender.panicIMEI = "B"
	dispatcher := newTestDispatcher(sender, nil)

	outcomes := dispatcher.Dispatch(context.Background(), []string{"A", "B", "C"}, locatePlan())

	require.Len(t, outcomes, 3)
	assert.Equal(t, StatusOk, outcomes[0].Status)
	assert.Equal(t, StatusError, outcomes[1].Status)
	assert.Equal(t, "internal error", outcomes[1].Detail)
	assert.Equal(t, StatusOk, outcomes[2].Status)
}

func TestExecuteSequentialShortCircuit(t *testing.T) {
	sender := newFakeSender()
	sender.failStep("A", "0001", &miwi.RequestError{Code: 9, Message: "rejected"})
	dispatcher := newTestDispatcher(sender, nil)

	plan := &Plan{Operation: OpSetSOS, Steps: []Step{
		{Code: "0001", Value: "111"},
		{Code: "0001", Value: "222"},
	}}

	outcome := dispatcher.Execute(context.Background(), "A", plan)

	assert.Equal(t, StatusFailed, outcome.Status)
	assert.Len(t, sender.callsFor("A"), 1, "second number must not be attempted after a failure")
}

func TestExecuteSequentialAllSteps(t *testing.T) {
	sender := newFakeSender()
	dispatcher := newTestDispatcher(sender, nil)

	plan := &Plan{Operation: OpSetSOS, Steps: []Step{
		{Code: "0001", Value: "111"},
		{Code: "0001", Value: "222"},
	}}

	outcome := dispatcher.Execute(context.Background(), "A", plan)

	require.Equal(t, StatusOk, outcome.Status)
	calls := sender.callsFor("A")
	require.Len(t, calls, 2)
	assert.Equal(t, "111", calls[0].Value)
	assert.Equal(t, "222", calls[1].Value)
}

func TestExecuteIndependentAttemptsEveryStep(t *testing.T) {
	sender := newFakeSender()
	sender.failStep("A", "9113", &miwi.RequestError{Code: 5, Message: "bad switch"})
	dispatcher := newTestDispatcher(sender, nil)

	plan := &Plan{Operation: OpSetHealth, Independent: true, Steps: []Step{
		{Code: "2815", Value: `[{"TimeInterval":"300","Switch":"1"}]`},
		{Code: "9113", Value: "1,1"},
		{Code: "0305", Value: "10"},
	}}

	outcome := dispatcher.Execute(context.Background(), "A", plan)

	assert.Equal(t, StatusFailed, outcome.Status)
	assert.Contains(t, outcome.Detail, "9113")
	assert.Contains(t, outcome.Detail, "bad switch")
	assert.Len(t, sender.callsFor("A"), 3, "independent steps run regardless of earlier failures")
}

func TestExecuteTouchesDeviceOnSuccessOnly(t *testing.T) {
	sender := newFakeSender()
	sender.failIMEI("B", miwi.ErrDeviceOffline)
	devices := &fakeToucher{}
	dispatcher := newTestDispatcher(sender, devices)

	dispatcher.Dispatch(context.Background(), []string{"A", "B"}, locatePlan())

	assert.ElementsMatch(t, []string{"A"}, devices.touchedIMEIs())
}

func TestDispatchChunking(t *testing.T) {
	sender := newFakeSender()
	cfg := config.DispatchConfig{ChunkSize: 2, ChunkDelayMS: 1}
	dispatcher := NewDispatcher(sender, nil, cfg, logger.NewLogger())

	outcomes := dispatcher.Dispatch(context.Background(), []string{"A", "B", "C", "D", "E"}, locatePlan())

	require.Len(t, outcomes, 5)
	assert.Len(t, sender.sent(), 5)
}
