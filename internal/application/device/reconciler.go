package device

import (
	"context"
	"fmt"

	"watchfleet/internal/domain/device"
	"watchfleet/internal/domain/project"
	"watchfleet/internal/infrastructure/cache"
	"watchfleet/internal/infrastructure/miwi"
	"watchfleet/internal/shared/logger"
)

// VendorAPI is the slice of the vendor client the reconciler depends on.
type VendorAPI interface {
	ListDevices(ctx context.Context, groupID int) ([]miwi.DeviceInfo, error)
	CheckOnline(ctx context.Context, imeis []string, groupID int) (map[string]bool, error)
	CreateGroup(ctx context.Context, name, description string) (int, error)
	MoveDevicesToGroup(ctx context.Context, groupID int, imeis []string) error
}

// FetchError wraps an upstream listing failure. The whole operation aborts,
// as opposed to per-device persistence failures which are logged and skipped.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch upstream device list: %v", e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Report summarizes one reconciliation run.
type Report struct {
	Project  string `json:"project"`
	Inserted int    `json:"inserted"`
	Updated  int    `json:"updated"`
	Deleted  int    `json:"deleted"`
}

// GroupSyncReport summarizes one group sync run.
type GroupSyncReport struct {
	Project string `json:"project"`
	GroupID int    `json:"group_id"`
	Created bool   `json:"created"`
	Moved   int    `json:"moved"`
}

// Reconciler keeps the local device table consistent with the vendor's
// listing for each project: upstream is the source of truth for membership,
// the local rows carry everything else.
type Reconciler struct {
	devices  device.Repository
	projects project.Repository
	vendor   VendorAPI
	online   *cache.OnlineStatusCache
	logger   logger.Interface
}

// NewReconciler creates a reconciler. The online cache may be nil.
func NewReconciler(
	devices device.Repository,
	projects project.Repository,
	vendor VendorAPI,
	online *cache.OnlineStatusCache,
	log logger.Interface,
) *Reconciler {
	return &Reconciler{
		devices:  devices,
		projects: projects,
		vendor:   vendor,
		online:   online,
		logger:   log.Named("reconciler"),
	}
}

// Reconcile diffs the upstream listing against local rows for one project:
// unknown upstream devices are inserted, common rows are updated only when a
// tracked field changed, and local rows absent upstream are deleted. A run
// against an unchanged upstream performs zero writes.
func (r *Reconciler) Reconcile(ctx context.Context, projectName string) (*Report, error) {
	proj, err := r.projects.GetByName(ctx, projectName)
	if err != nil {
		return nil, err
	}

	upstream, err := r.vendor.ListDevices(ctx, proj.GroupID())
	if err != nil {
		return nil, &FetchError{Err: err}
	}

	local, err := r.devices.ListByProject(ctx, projectName)
	if err != nil {
		return nil, fmt.Errorf("failed to list local devices: %w", err)
	}

	upstreamByIMEI := make(map[string]miwi.DeviceInfo, len(upstream))
	for _, info := range upstream {
		upstreamByIMEI[info.IMEI] = info
	}
	localByIMEI := make(map[string]*device.Device, len(local))
	for _, d := range local {
		localByIMEI[d.IMEI()] = d
	}

	report := &Report{Project: projectName}

	for imei, info := range upstreamByIMEI {
		existing, known := localByIMEI[imei]
		if !known {
			if r.insertDevice(ctx, projectName, proj, info) {
				report.Inserted++
			}
			continue
		}
		if r.updateDevice(ctx, existing, proj, info) {
			report.Updated++
		}
	}

	for imei := range localByIMEI {
		if _, still := upstreamByIMEI[imei]; still {
			continue
		}
		if err := r.devices.DeleteByIMEI(ctx, imei); err != nil {
			r.logger.Warnw("failed to delete stale device", "imei", imei, "error", err)
			continue
		}
		report.Deleted++
	}

	r.logger.Infow("reconciliation completed",
		"project", projectName,
		"inserted", report.Inserted,
		"updated", report.Updated,
		"deleted", report.Deleted)

	return report, nil
}

func (r *Reconciler) insertDevice(ctx context.Context, projectName string, proj *project.Project, info miwi.DeviceInfo) bool {
	d, err := device.NewDevice(info.IMEI, projectName)
	if err != nil {
		r.logger.Warnw("skipping invalid upstream device", "imei", info.IMEI, "error", err)
		return false
	}
	d.SetICCID(info.IMSI)
	if proj.HasGroup() {
		d.AssignGroup(proj.GroupID())
	}

	if err := r.devices.Save(ctx, d); err != nil {
		r.logger.Warnw("failed to insert device", "imei", info.IMEI, "error", err)
		return false
	}
	return true
}

func (r *Reconciler) updateDevice(ctx context.Context, d *device.Device, proj *project.Project, info miwi.DeviceInfo) bool {
	changed := d.SetICCID(info.IMSI)
	if proj.HasGroup() && d.AssignGroup(proj.GroupID()) {
		changed = true
	}
	if !changed {
		return false
	}

	if err := r.devices.Update(ctx, d); err != nil {
		r.logger.Warnw("failed to update device", "imei", d.IMEI(), "error", err)
		return false
	}
	return true
}

// SyncGroup ensures the project has an upstream group and that every local
// device carries it: the group is created and linked when absent, and
// devices with a missing or stale group id are moved in one vendor call.
func (r *Reconciler) SyncGroup(ctx context.Context, projectName string) (*GroupSyncReport, error) {
	proj, err := r.projects.GetByName(ctx, projectName)
	if err != nil {
		return nil, err
	}

	report := &GroupSyncReport{Project: projectName}

	if !proj.HasGroup() {
		groupID, err := r.vendor.CreateGroup(ctx, projectName, "")
		if err != nil {
			return nil, fmt.Errorf("failed to create upstream group: %w", err)
		}
		if err := proj.LinkGroup(groupID); err != nil {
			return nil, err
		}
		if err := r.projects.Save(ctx, proj); err != nil {
			return nil, fmt.Errorf("failed to link group to project: %w", err)
		}
		report.Created = true
		r.logger.Infow("created upstream group", "project", projectName, "group_id", groupID)
	}
	report.GroupID = proj.GroupID()

	local, err := r.devices.ListByProject(ctx, projectName)
	if err != nil {
		return nil, fmt.Errorf("failed to list local devices: %w", err)
	}

	var stale []*device.Device
	for _, d := range local {
		if d.GroupID() != proj.GroupID() {
			stale = append(stale, d)
		}
	}
	if len(stale) == 0 {
		return report, nil
	}

	imeis := make([]string, len(stale))
	for i, d := range stale {
		imeis[i] = d.IMEI()
	}
	if err := r.vendor.MoveDevicesToGroup(ctx, proj.GroupID(), imeis); err != nil {
		return nil, fmt.Errorf("failed to move devices to group: %w", err)
	}

	for _, d := range stale {
		d.AssignGroup(proj.GroupID())
		if err := r.devices.Update(ctx, d); err != nil {
			r.logger.Warnw("failed to record device group", "imei", d.IMEI(), "error", err)
			continue
		}
		report.Moved++
	}

	return report, nil
}

// UpdateICCID refreshes local iccid values from the upstream listing. A zero
// groupID walks the full account listing.
func (r *Reconciler) UpdateICCID(ctx context.Context, groupID int) (int, error) {
	upstream, err := r.vendor.ListDevices(ctx, groupID)
	if err != nil {
		return 0, &FetchError{Err: err}
	}

	updated := 0
	for _, info := range upstream {
		if info.IMSI == "" {
			continue
		}
		d, err := r.devices.GetByIMEI(ctx, info.IMEI)
		if err != nil {
			continue // untracked upstream device
		}
		if !d.SetICCID(info.IMSI) {
			continue
		}
		if err := r.devices.Update(ctx, d); err != nil {
			r.logger.Warnw("failed to update iccid", "imei", d.IMEI(), "error", err)
			continue
		}
		updated++
	}

	return updated, nil
}

// CheckOnline reports reachability for the given IMEIs, answering from the
// short-TTL cache where possible and refreshing the rest with one listing
// fetch.
func (r *Reconciler) CheckOnline(ctx context.Context, imeis []string) (map[string]bool, error) {
	result := make(map[string]bool, len(imeis))
	var misses []string

	for _, imei := range imeis {
		up, found, err := r.online.Get(ctx, imei)
		if err != nil {
			r.logger.Warnw("online cache read failed", "imei", imei, "error", err)
			found = false
		}
		if found {
			result[imei] = up
		} else {
			misses = append(misses, imei)
		}
	}

	if len(misses) == 0 {
		return result, nil
	}

	fresh, err := r.vendor.CheckOnline(ctx, misses, 0)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	if err := r.online.SetAll(ctx, fresh); err != nil {
		r.logger.Warnw("online cache write failed", "error", err)
	}
	for imei, up := range fresh {
		result[imei] = up
	}

	return result, nil
}

// InvalidateOnline drops cached reachability flags, called after commands
// that change device power state.
func (r *Reconciler) InvalidateOnline(ctx context.Context, imeis []string) {
	if err := r.online.Invalidate(ctx, imeis...); err != nil {
		r.logger.Warnw("online cache invalidation failed", "error", err)
	}
}
