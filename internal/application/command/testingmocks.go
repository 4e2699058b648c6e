package command

import (
	"context"
	"sync"
	"time"

	"watchfleet/internal/domain/setting"

	"github.com/stretchr/testify/mock"
)

type mockSettingsReader struct {
	mock.Mock
}

func (m *mockSettingsReader) GetByField(ctx context.Context, projectName, field string) (*setting.ProjectSetting, error) {
	args := m.Called(ctx, projectName, field)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*setting.ProjectSetting), args.Error(1)
}

// sentCommand records one SendCommand invocation.
type sentCommand struct {
	IMEI    string
	Code    string
	Value   string
	Timeout time.Duration
}

// fakeSender is a concurrency-safe Sender that records every call and
// answers from a programmable response table keyed by IMEI, then by
// IMEI+code for step-level control.
type fakeSender struct {
	mu        sync.Mutex
	calls     []sentCommand
	byIMEI    map[string]error
	byCode    map[string]error
	panicIMEI string
}

func newFakeSender() *fakeSender {
	return &fakeSender{
		byIMEI: make(map[string]error),
		byCode: make(map[string]error),
	}
}

func (f *fakeSender) failIMEI(imei string, err error) {
	f.byIMEI[imei] = err
}

func (f *fakeSender) failStep(imei, code string, err error) {
	f.byCode[imei+"/"+code] = err
}

func (f *fakeSender) SendCommand(ctx context.Context, imei, code, value string, timeout time.Duration) error {
	f.mu.Lock()
	f.calls = append(f.calls, sentCommand{IMEI: imei, Code: code, Value: value, Timeout: timeout})
	f.mu.Unlock()

	if imei == f.panicIMEI {
		panic("sender blew up")
	}
	if err, ok := f.byCode[imei+"/"+code]; ok {
		return err
	}
	return f.byIMEI[imei]
}

func (f *fakeSender) sent() []sentCommand {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]sentCommand, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *fakeSender) callsFor(imei string) []sentCommand {
	var out []sentCommand
	for _, call := range f.sent() {
		if call.IMEI == imei {
			out = append(out, call)
		}
	}
	return out
}

// fakeToucher records which devices had activity recorded.
type fakeToucher struct {
	mu      sync.Mutex
	touched []string
	err     error
}

func (f *fakeToucher) Touch(ctx context.Context, imei string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.touched = append(f.touched, imei)
	return nil
}

func (f *fakeToucher) touchedIMEIs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.touched))
	copy(out, f.touched)
	return out
}
