package models

import "time"

// Role is an organization role. Roles with an empty Own link are global;
// cloning a role for a template or project sets Own to the new owner's
// identifier. A clone always receives a fresh identifier, so the original
// and the clone are distinct entities even when every other field matches.
type Role struct {
	ID               string    `json:"identifier"`
	Own              string    `json:"own,omitempty"`
	Name             string    `json:"name"`
	Description      string    `json:"description,omitempty"`
	Organization     string    `json:"organization"`
	DefaultRole      bool      `json:"default_role"`
	IsProjectSetRole bool      `json:"is_project_set_role"`
	Creator          string    `json:"creator"`
	CreatedAt        time.Time `json:"gmt_create"`
}

// CloneFor returns a copy of the role owned by the given entity, with a
// fresh identifier.
func (r Role) CloneFor(own string) *Role {
	clone := r
	clone.ID = NewID()
	clone.Own = own
	return &clone
}

// CloneRolesFor clones every global (non-project-set) role in the list for
// the given owner. Project-set scoped roles never follow a template.
func CloneRolesFor(roles []*Role, own string) []*Role {
	var clones []*Role
	for _, role := range roles {
		if role.IsProjectSetRole {
			continue
		}
		clones = append(clones, role.CloneFor(own))
	}
	return clones
}

// DefaultGlobalRoles is the role set seeded for a new organization before
// global configuration is provisioned.
func DefaultGlobalRoles(org string) []*Role {
	now := time.Now().UTC()
	return []*Role{
		{ID: NewID(), Name: "Administrator", Organization: org, DefaultRole: true, Creator: SystemCreator, CreatedAt: now},
		{ID: NewID(), Name: "Member", Organization: org, DefaultRole: true, Creator: SystemCreator, CreatedAt: now},
		{ID: NewID(), Name: "Observer", Organization: org, Creator: SystemCreator, CreatedAt: now},
		{ID: NewID(), Name: "ProjectSetAdministrator", Organization: org, IsProjectSetRole: true, Creator: SystemCreator, CreatedAt: now},
	}
}
