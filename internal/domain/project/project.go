package project

import "fmt"

// Project is a client deployment owning a set of devices. At most one
// upstream group id is linked per project; zero means no group yet.
type Project struct {
	id      uint
	name    string
	url     string
	groupID int
}

func NewProject(name, url string) (*Project, error) {
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	return &Project{
		name: name,
		url:  url,
	}, nil
}

// ReconstructProject reconstructs a Project from the persistence layer.
func ReconstructProject(id uint, name, url string, groupID int) *Project {
	return &Project{
		id:      id,
		name:    name,
		url:     url,
		groupID: groupID,
	}
}

func (p *Project) ID() uint     { return p.id }
func (p *Project) Name() string { return p.name }
func (p *Project) URL() string  { return p.url }
func (p *Project) GroupID() int { return p.groupID }

// SetID sets the project ID (only for persistence layer use)
func (p *Project) SetID(id uint) {
	p.id = id
}

func (p *Project) SetURL(url string) {
	p.url = url
}

// LinkGroup records the upstream group created for this project.
func (p *Project) LinkGroup(groupID int) error {
	if groupID <= 0 {
		return fmt.Errorf("invalid group id: %d", groupID)
	}
	p.groupID = groupID
	return nil
}

// UnlinkGroup clears the group link, used after the group is deleted
// upstream.
func (p *Project) UnlinkGroup() {
	p.groupID = 0
}

// HasGroup reports whether an upstream group is linked.
func (p *Project) HasGroup() bool {
	return p.groupID > 0
}
