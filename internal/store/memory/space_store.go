package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mosaicdev/mosaic/internal/models"
	"github.com/mosaicdev/mosaic/internal/store"
)

type membership struct {
	userID    string
	creator   string
	createdAt time.Time
}

// SpaceStore implements store.SpaceStore using in-memory storage.
// This implementation is for testing only - data is lost on restart.
type SpaceStore struct {
	mu sync.RWMutex

	projects    map[string]*models.Project
	projectSets map[string]*models.ProjectSet
	members     map[string][]membership // space_id -> members
}

// NewSpaceStore creates a new in-memory space store.
func NewSpaceStore() *SpaceStore {
	return &SpaceStore{
		projects:    make(map[string]*models.Project),
		projectSets: make(map[string]*models.ProjectSet),
		members:     make(map[string][]membership),
	}
}

// SaveProject inserts a new project.
func (s *SpaceStore) SaveProject(ctx context.Context, project *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *project
	s.projects[project.ID] = &clone
	return nil
}

// SaveProjectSet inserts a new project set.
func (s *SpaceStore) SaveProjectSet(ctx context.Context, set *models.ProjectSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *set
	s.projectSets[set.ID] = &clone
	return nil
}

// FindProject returns a project by identifier.
func (s *SpaceStore) FindProject(ctx context.Context, id string) (*models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	project, exists := s.projects[id]
	if !exists {
		return nil, store.ErrSpaceNotFound
	}

	clone := *project
	return &clone, nil
}

// FindProjectSet returns a project set by identifier.
func (s *SpaceStore) FindProjectSet(ctx context.Context, id string) (*models.ProjectSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set, exists := s.projectSets[id]
	if !exists {
		return nil, store.ErrSpaceNotFound
	}

	clone := *set
	return &clone, nil
}

// ListProjects returns the organization's projects, filtered to one project
// set when projectSet is non-empty.
func (s *SpaceStore) ListProjects(ctx context.Context, org, projectSet string) ([]*models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*models.Project
	for _, project := range s.projects {
		if project.Organization != org {
			continue
		}
		if projectSet != "" && project.ProjectSet != projectSet {
			continue
		}
		clone := *project
		result = append(result, &clone)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}

// ListProjectSets returns the organization's project sets.
func (s *SpaceStore) ListProjectSets(ctx context.Context, org string) ([]*models.ProjectSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*models.ProjectSet
	for _, set := range s.projectSets {
		if set.Organization == org {
			clone := *set
			result = append(result, &clone)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}

// AddMembers adds users to a space. Existing memberships are left untouched.
func (s *SpaceStore) AddMembers(ctx context.Context, spaceID string, userIDs []string, operator string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := make(map[string]bool, len(s.members[spaceID]))
	for _, m := range s.members[spaceID] {
		existing[m.userID] = true
	}

	for _, userID := range userIDs {
		if existing[userID] {
			continue
		}
		s.members[spaceID] = append(s.members[spaceID], membership{
			userID:    userID,
			creator:   operator,
			createdAt: time.Now(),
		})
	}

	return nil
}

// RemoveMembers removes users from a space.
func (s *SpaceStore) RemoveMembers(ctx context.Context, spaceID string, userIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	remove := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		remove[id] = true
	}

	var kept []membership
	for _, m := range s.members[spaceID] {
		if !remove[m.userID] {
			kept = append(kept, m)
		}
	}
	s.members[spaceID] = kept

	return nil
}

// ListMemberIDs returns the user ids of a space's members.
func (s *SpaceStore) ListMemberIDs(ctx context.Context, spaceID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []string
	for _, m := range s.members[spaceID] {
		ids = append(ids, m.userID)
	}
	return ids, nil
}

type spaceSnapshot struct {
	projects    map[string]*models.Project
	projectSets map[string]*models.ProjectSet
	members     map[string][]membership
}

func (s *SpaceStore) snapshot() spaceSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := spaceSnapshot{
		projects:    make(map[string]*models.Project, len(s.projects)),
		projectSets: make(map[string]*models.ProjectSet, len(s.projectSets)),
		members:     make(map[string][]membership, len(s.members)),
	}
	for id, project := range s.projects {
		clone := *project
		snap.projects[id] = &clone
	}
	for id, set := range s.projectSets {
		clone := *set
		snap.projectSets[id] = &clone
	}
	for id, members := range s.members {
		snap.members[id] = append([]membership(nil), members...)
	}
	return snap
}

func (s *SpaceStore) restore(snap spaceSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects = snap.projects
	s.projectSets = snap.projectSets
	s.members = snap.members
}
