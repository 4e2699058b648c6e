package device

import (
	"context"
	"sort"
	"sync"

	"watchfleet/internal/domain/device"
	"watchfleet/internal/domain/project"
	"watchfleet/internal/infrastructure/miwi"
	"watchfleet/internal/shared/biztime"

	"github.com/stretchr/testify/mock"
)

type mockVendorAPI struct {
	mock.Mock
}

func (m *mockVendorAPI) ListDevices(ctx context.Context, groupID int) ([]miwi.DeviceInfo, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]miwi.DeviceInfo), args.Error(1)
}

func (m *mockVendorAPI) CheckOnline(ctx context.Context, imeis []string, groupID int) (map[string]bool, error) {
	args := m.Called(ctx, imeis, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]bool), args.Error(1)
}

func (m *mockVendorAPI) CreateGroup(ctx context.Context, name, description string) (int, error) {
	args := m.Called(ctx, name, description)
	return args.Int(0), args.Error(1)
}

func (m *mockVendorAPI) MoveDevicesToGroup(ctx context.Context, groupID int, imeis []string) error {
	args := m.Called(ctx, groupID, imeis)
	return args.Error(0)
}

// memoryDeviceRepo is an in-memory device.Repository that counts writes so
// tests can assert idempotence.
type memoryDeviceRepo struct {
	mu      sync.Mutex
	rows    map[string]*device.Device
	saves   int
	updates int
	deletes int
	nextID  uint
}

func newMemoryDeviceRepo(seed ...*device.Device) *memoryDeviceRepo {
	repo := &memoryDeviceRepo{rows: make(map[string]*device.Device)}
	for _, d := range seed {
		repo.nextID++
		d.SetID(repo.nextID)
		repo.rows[d.IMEI()] = d
	}
	return repo
}

func (r *memoryDeviceRepo) GetByIMEI(_ context.Context, imei string) (*device.Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.rows[imei]
	if !ok {
		return nil, device.ErrDeviceNotFound
	}
	return d, nil
}

func (r *memoryDeviceRepo) ListByProject(_ context.Context, projectName string) ([]*device.Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*device.Device
	for _, d := range r.rows {
		if d.Project() == projectName {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IMEI() < out[j].IMEI() })
	return out, nil
}

func (r *memoryDeviceRepo) List(ctx context.Context, projectName string, filter device.ListFilter) ([]*device.Device, error) {
	return r.ListByProject(ctx, projectName)
}

func (r *memoryDeviceRepo) Save(_ context.Context, d *device.Device) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	r.nextID++
	d.SetID(r.nextID)
	r.rows[d.IMEI()] = d
	return nil
}

func (r *memoryDeviceRepo) Update(_ context.Context, d *device.Device) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates++
	r.rows[d.IMEI()] = d
	return nil
}

func (r *memoryDeviceRepo) Touch(_ context.Context, imei string) error {
	return nil
}

func (r *memoryDeviceRepo) DeleteByIMEI(_ context.Context, imei string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deletes++
	delete(r.rows, imei)
	return nil
}

func (r *memoryDeviceRepo) writeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves + r.updates + r.deletes
}

func (r *memoryDeviceRepo) imeis() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.rows))
	for imei := range r.rows {
		out = append(out, imei)
	}
	sort.Strings(out)
	return out
}

// memoryProjectRepo is an in-memory project.Repository.
type memoryProjectRepo struct {
	mu    sync.Mutex
	rows  map[string]*project.Project
	saves int
}

func newMemoryProjectRepo(seed ...*project.Project) *memoryProjectRepo {
	repo := &memoryProjectRepo{rows: make(map[string]*project.Project)}
	for _, p := range seed {
		repo.rows[p.Name()] = p
	}
	return repo
}

func (r *memoryProjectRepo) GetByName(_ context.Context, name string) (*project.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.rows[name]
	if !ok {
		return nil, project.ErrProjectNotFound
	}
	return p, nil
}

func (r *memoryProjectRepo) List(_ context.Context) ([]*project.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*project.Project
	for _, p := range r.rows {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out, nil
}

func (r *memoryProjectRepo) Save(_ context.Context, p *project.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	r.rows[p.Name()] = p
	return nil
}

func (r *memoryProjectRepo) DeleteByName(_ context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, name)
	return nil
}

func seededDevice(imei, projectName, iccid string, groupID int) *device.Device {
	return device.ReconstructDevice(0, imei, projectName, iccid, "", groupID, "",
		biztime.NowUTC(), biztime.NowUTC())
}
