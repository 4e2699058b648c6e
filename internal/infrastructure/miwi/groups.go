package miwi

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// GroupInfo is one platform device group.
type GroupInfo struct {
	ID   int    `json:"GroupId"`
	Name string `json:"GroupName"`
}

// ListGroups fetches all device groups of the account.
func (c *Client) ListGroups(ctx context.Context) ([]GroupInfo, error) {
	payload := struct {
		UserID int `json:"UserId"`
	}{UserID: c.cfg.UserID}

	result, err := c.postState(ctx, "/api/organgroups/getgrouplist", payload, c.listTimeout())
	if err != nil {
		return nil, err
	}

	var groups []GroupInfo
	if err := json.Unmarshal(result, &groups); err != nil {
		return nil, &TransportError{Op: "getgrouplist", Err: fmt.Errorf("decode group list: %w", err)}
	}
	return groups, nil
}

// CreateGroup creates a device group and returns its platform id.
func (c *Client) CreateGroup(ctx context.Context, name, description string) (int, error) {
	payload := struct {
		UserID      int    `json:"UserId"`
		GroupName   string `json:"GroupName"`
		Description string `json:"Description,omitempty"`
	}{UserID: c.cfg.UserID, GroupName: name, Description: description}

	result, err := c.postState(ctx, "/api/organgroups/addgroup", payload, c.commandTimeout())
	if err != nil {
		return 0, err
	}

	var created struct {
		GroupID int `json:"GroupId"`
	}
	if err := json.Unmarshal(result, &created); err != nil {
		return 0, &TransportError{Op: "addgroup", Err: fmt.Errorf("decode created group: %w", err)}
	}

	c.logger.Infow("created device group", "name", name, "group_id", created.GroupID)
	return created.GroupID, nil
}

// DeleteGroup removes a device group by platform id.
func (c *Client) DeleteGroup(ctx context.Context, groupID int) error {
	payload := struct {
		UserID  int `json:"UserId"`
		GroupID int `json:"GroupId"`
	}{UserID: c.cfg.UserID, GroupID: groupID}

	_, err := c.postState(ctx, "/api/organgroups/deletegroup", payload, c.commandTimeout())
	return err
}

// MoveDevicesToGroup assigns the given IMEIs to a group. The platform takes
// the device list as a single comma-joined string.
func (c *Client) MoveDevicesToGroup(ctx context.Context, groupID int, imeis []string) error {
	if len(imeis) == 0 {
		return nil
	}

	payload := struct {
		UserID  int    `json:"UserId"`
		GroupID int    `json:"GroupId"`
		IMEIs   string `json:"Imeis"`
	}{UserID: c.cfg.UserID, GroupID: groupID, IMEIs: strings.Join(imeis, ",")}

	_, err := c.postState(ctx, "/api/organgroups/movedevices", payload, c.commandTimeout())
	return err
}
