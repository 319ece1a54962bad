package store

import (
	"context"
	"errors"

	"github.com/mosaicdev/mosaic/internal/models"
)

// ErrSpaceNotFound is returned when a project or project-set lookup misses.
var ErrSpaceNotFound = errors.New("space not found")

// SpaceStore persists projects, project sets, and their memberships.
type SpaceStore interface {
	// SaveProject inserts a new project with its by-value catalogs.
	SaveProject(ctx context.Context, project *models.Project) error

	// SaveProjectSet inserts a new project set.
	SaveProjectSet(ctx context.Context, set *models.ProjectSet) error

	// FindProject returns a project by identifier.
	// Returns ErrSpaceNotFound when it does not exist.
	FindProject(ctx context.Context, id string) (*models.Project, error)

	// FindProjectSet returns a project set by identifier.
	// Returns ErrSpaceNotFound when it does not exist.
	FindProjectSet(ctx context.Context, id string) (*models.ProjectSet, error)

	// ListProjects returns the organization's projects, filtered to one
	// project set when projectSet is non-empty.
	ListProjects(ctx context.Context, org, projectSet string) ([]*models.Project, error)

	// ListProjectSets returns the organization's project sets.
	ListProjectSets(ctx context.Context, org string) ([]*models.ProjectSet, error)

	// AddMembers adds users to a space. Adding an existing member is a no-op.
	AddMembers(ctx context.Context, spaceID string, userIDs []string, operator string) error

	// RemoveMembers removes users from a space.
	RemoveMembers(ctx context.Context, spaceID string, userIDs []string) error

	// ListMemberIDs returns the user ids of a space's members.
	ListMemberIDs(ctx context.Context, spaceID string) ([]string, error)
}
