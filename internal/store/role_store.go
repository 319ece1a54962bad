package store

import (
	"context"
	"errors"

	"github.com/mosaicdev/mosaic/internal/models"
)

// ErrRoleNotFound is returned when a role lookup misses.
var ErrRoleNotFound = errors.New("role not found")

// RoleStore persists organization roles. Roles with an empty Own link are
// global; owned roles belong to the template or project named by Own.
type RoleStore interface {
	// CreateRoles inserts the given roles.
	CreateRoles(ctx context.Context, roles []*models.Role) error

	// ListGlobalRoles returns the organization's roles that are not owned by
	// any template or project.
	ListGlobalRoles(ctx context.Context, org string) ([]*models.Role, error)

	// ListRolesByOwn returns the roles owned by the given entity.
	ListRolesByOwn(ctx context.Context, org, own string) ([]*models.Role, error)
}
