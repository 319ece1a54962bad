package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mosaicdev/mosaic/internal/models"
)

// RoleStore implements store.RoleStore using in-memory storage.
// This implementation is for testing only - data is lost on restart.
type RoleStore struct {
	mu sync.RWMutex

	roles map[string]*models.Role // identifier -> Role
}

// NewRoleStore creates a new in-memory role store.
func NewRoleStore() *RoleStore {
	return &RoleStore{
		roles: make(map[string]*models.Role),
	}
}

// CreateRoles inserts the given roles.
func (s *RoleStore) CreateRoles(ctx context.Context, roles []*models.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, role := range roles {
		clone := *role
		s.roles[role.ID] = &clone
	}

	return nil
}

// ListGlobalRoles returns the organization's roles with no Own link.
func (s *RoleStore) ListGlobalRoles(ctx context.Context, org string) ([]*models.Role, error) {
	return s.list(func(r *models.Role) bool {
		return r.Organization == org && r.Own == ""
	})
}

// ListRolesByOwn returns the roles owned by the given entity.
func (s *RoleStore) ListRolesByOwn(ctx context.Context, org, own string) ([]*models.Role, error) {
	return s.list(func(r *models.Role) bool {
		return r.Organization == org && r.Own == own
	})
}

func (s *RoleStore) list(match func(*models.Role) bool) ([]*models.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*models.Role
	for _, role := range s.roles {
		if match(role) {
			clone := *role
			result = append(result, &clone)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}

func (s *RoleStore) snapshot() map[string]*models.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := make(map[string]*models.Role, len(s.roles))
	for id, role := range s.roles {
		clone := *role
		snap[id] = &clone
	}
	return snap
}

func (s *RoleStore) restore(snap map[string]*models.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roles = snap
}
