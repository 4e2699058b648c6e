package miwi

import (
	"context"
	"encoding/json"
	"fmt"
)

// statusOnline is the device Status value meaning reachable.
const statusOnline = 1

// DeviceInfo is one entry of the platform device list.
type DeviceInfo struct {
	IMEI   string `json:"Imei"`
	Status int    `json:"Status"`
	IMSI   string `json:"Imsi"`
}

// Online reports whether the platform considers the device reachable.
func (d DeviceInfo) Online() bool {
	return d.Status == statusOnline
}

type deviceListRequest struct {
	UserID  int    `json:"UserId"`
	MapType string `json:"MapType"`
	GroupID int    `json:"GroupId,omitempty"`
}

// ListDevices fetches the account's device list. A nonzero groupID narrows
// the listing to that platform group.
func (c *Client) ListDevices(ctx context.Context, groupID int) ([]DeviceInfo, error) {
	path := "/api/devicelist/get_devicelist"
	if groupID != 0 {
		path = "/api/devicelist/getdevicelistbygroup"
	}

	payload := deviceListRequest{
		UserID:  c.cfg.UserID,
		MapType: "Google",
		GroupID: groupID,
	}

	result, err := c.postCode(ctx, path, payload, c.listTimeout())
	if err != nil {
		return nil, err
	}

	var devices []DeviceInfo
	if err := json.Unmarshal(result, &devices); err != nil {
		return nil, &TransportError{Op: path, Err: fmt.Errorf("decode device list: %w", err)}
	}
	return devices, nil
}

// CheckOnline reports online status for the given IMEIs based on a single
// device list fetch. Unknown IMEIs map to false.
func (c *Client) CheckOnline(ctx context.Context, imeis []string, groupID int) (map[string]bool, error) {
	devices, err := c.ListDevices(ctx, groupID)
	if err != nil {
		return nil, err
	}

	online := make(map[string]bool, len(imeis))
	for _, imei := range imeis {
		online[imei] = false
	}
	for _, device := range devices {
		if _, ok := online[device.IMEI]; ok && device.Online() {
			online[device.IMEI] = true
		}
	}
	return online, nil
}
