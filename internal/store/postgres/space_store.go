package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"github.com/mosaicdev/mosaic/internal/models"
	"github.com/mosaicdev/mosaic/internal/store"
)

// SpaceStore implements store.SpaceStore using PostgreSQL. Catalog copies
// (fields, status flow, work item sets) are stored as JSONB columns, so a
// space's configuration is frozen at creation time regardless of later
// template edits.
type SpaceStore struct {
	db Querier
}

// NewSpaceStore creates a PostgreSQL-backed space store.
func NewSpaceStore(db Querier) *SpaceStore {
	return &SpaceStore{db: db}
}

// SaveProject inserts a new project.
func (s *SpaceStore) SaveProject(ctx context.Context, project *models.Project) error {
	fields, err := json.Marshal(project.Fields)
	if err != nil {
		return fmt.Errorf("failed to marshal project fields: %w", err)
	}
	flow, err := json.Marshal(project.StatusFlow)
	if err != nil {
		return fmt.Errorf("failed to marshal project status flow: %w", err)
	}
	sets, err := json.Marshal(project.WorkItemSets)
	if err != nil {
		return fmt.Errorf("failed to marshal project work item sets: %w", err)
	}

	var projectSet any
	if project.ProjectSet != "" {
		projectSet = project.ProjectSet
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO projects (
			identifier, organization, name, custom_code, description, icon,
			creator, gmt_create, template, project_set, status_identifier,
			fields, status_flow, work_item_sets
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
		)
	`,
		project.ID,
		project.Organization,
		project.Name,
		project.CustomCode,
		project.Description,
		project.Icon,
		project.Creator,
		project.CreatedAt,
		project.Template,
		projectSet,
		project.StatusID,
		fields,
		flow,
		sets,
	)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", mapPostgresError(err))
	}

	log.Debug().
		Str("project", project.ID).
		Str("organization", project.Organization).
		Msg("Created project")

	return nil
}

// SaveProjectSet inserts a new project set.
func (s *SpaceStore) SaveProjectSet(ctx context.Context, set *models.ProjectSet) error {
	flow, err := json.Marshal(set.StatusFlow)
	if err != nil {
		return fmt.Errorf("failed to marshal project set status flow: %w", err)
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO project_sets (
			identifier, organization, name, custom_code, description, icon,
			creator, gmt_create, status_identifier, status_flow
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)
	`,
		set.ID,
		set.Organization,
		set.Name,
		set.CustomCode,
		set.Description,
		set.Icon,
		set.Creator,
		set.CreatedAt,
		set.StatusID,
		flow,
	)
	if err != nil {
		return fmt.Errorf("failed to create project set: %w", mapPostgresError(err))
	}

	log.Debug().
		Str("project_set", set.ID).
		Str("organization", set.Organization).
		Msg("Created project set")

	return nil
}

// FindProject returns a project by identifier.
func (s *SpaceStore) FindProject(ctx context.Context, id string) (*models.Project, error) {
	row := s.db.QueryRow(ctx, `
		SELECT identifier, organization, name, custom_code, description, icon,
		       creator, gmt_create, template, project_set, status_identifier,
		       fields, status_flow, work_item_sets
		FROM projects
		WHERE identifier = $1
	`, id)

	project, err := scanProject(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrSpaceNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", mapPostgresError(err))
	}
	return project, nil
}

// FindProjectSet returns a project set by identifier.
func (s *SpaceStore) FindProjectSet(ctx context.Context, id string) (*models.ProjectSet, error) {
	row := s.db.QueryRow(ctx, `
		SELECT identifier, organization, name, custom_code, description, icon,
		       creator, gmt_create, status_identifier, status_flow
		FROM project_sets
		WHERE identifier = $1
	`, id)

	set, err := scanProjectSet(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrSpaceNotFound
		}
		return nil, fmt.Errorf("failed to get project set: %w", mapPostgresError(err))
	}
	return set, nil
}

// ListProjects returns the organization's projects, filtered to one project
// set when projectSet is non-empty.
func (s *SpaceStore) ListProjects(ctx context.Context, org, projectSet string) ([]*models.Project, error) {
	query := `
		SELECT identifier, organization, name, custom_code, description, icon,
		       creator, gmt_create, template, project_set, status_identifier,
		       fields, status_flow, work_item_sets
		FROM projects
		WHERE organization = $1
	`
	args := []any{org}
	if projectSet != "" {
		query += ` AND project_set = $2`
		args = append(args, projectSet)
	}
	query += ` ORDER BY gmt_create DESC`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", mapPostgresError(err))
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating projects: %w", err)
	}

	return projects, nil
}

// ListProjectSets returns the organization's project sets.
func (s *SpaceStore) ListProjectSets(ctx context.Context, org string) ([]*models.ProjectSet, error) {
	rows, err := s.db.Query(ctx, `
		SELECT identifier, organization, name, custom_code, description, icon,
		       creator, gmt_create, status_identifier, status_flow
		FROM project_sets
		WHERE organization = $1
		ORDER BY gmt_create DESC
	`, org)
	if err != nil {
		return nil, fmt.Errorf("failed to list project sets: %w", mapPostgresError(err))
	}
	defer rows.Close()

	var sets []*models.ProjectSet
	for rows.Next() {
		set, err := scanProjectSet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project set: %w", err)
		}
		sets = append(sets, set)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project sets: %w", err)
	}

	return sets, nil
}

// AddMembers adds users to a space. Existing memberships are left untouched.
func (s *SpaceStore) AddMembers(ctx context.Context, spaceID string, userIDs []string, operator string) error {
	for _, userID := range userIDs {
		_, err := s.db.Exec(ctx, `
			INSERT INTO space_members (space_id, user_id, creator, gmt_create)
			VALUES ($1, $2, $3, now())
			ON CONFLICT (space_id, user_id) DO NOTHING
		`, spaceID, userID, operator)
		if err != nil {
			return fmt.Errorf("failed to add space member: %w", mapPostgresError(err))
		}
	}

	log.Debug().
		Str("space", spaceID).
		Int("count", len(userIDs)).
		Msg("Added space members")

	return nil
}

// RemoveMembers removes users from a space.
func (s *SpaceStore) RemoveMembers(ctx context.Context, spaceID string, userIDs []string) error {
	_, err := s.db.Exec(ctx, `
		DELETE FROM space_members WHERE space_id = $1 AND user_id = ANY($2)
	`, spaceID, userIDs)
	if err != nil {
		return fmt.Errorf("failed to remove space members: %w", mapPostgresError(err))
	}
	return nil
}

// ListMemberIDs returns the user ids of a space's members.
func (s *SpaceStore) ListMemberIDs(ctx context.Context, spaceID string) ([]string, error) {
	rows, err := s.db.Query(ctx, `
		SELECT user_id FROM space_members WHERE space_id = $1 ORDER BY gmt_create
	`, spaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list space members: %w", mapPostgresError(err))
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan space member: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating space members: %w", err)
	}

	return ids, nil
}

func scanProject(row pgx.Row) (*models.Project, error) {
	var project models.Project
	var projectSet *string
	var fields, flow, sets []byte
	err := row.Scan(
		&project.ID,
		&project.Organization,
		&project.Name,
		&project.CustomCode,
		&project.Description,
		&project.Icon,
		&project.Creator,
		&project.CreatedAt,
		&project.Template,
		&projectSet,
		&project.StatusID,
		&fields,
		&flow,
		&sets,
	)
	if err != nil {
		return nil, err
	}
	if projectSet != nil {
		project.ProjectSet = *projectSet
	}
	if err := json.Unmarshal(fields, &project.Fields); err != nil {
		return nil, fmt.Errorf("failed to unmarshal project fields: %w", err)
	}
	if err := json.Unmarshal(flow, &project.StatusFlow); err != nil {
		return nil, fmt.Errorf("failed to unmarshal project status flow: %w", err)
	}
	if err := json.Unmarshal(sets, &project.WorkItemSets); err != nil {
		return nil, fmt.Errorf("failed to unmarshal project work item sets: %w", err)
	}
	return &project, nil
}

func scanProjectSet(row pgx.Row) (*models.ProjectSet, error) {
	var set models.ProjectSet
	var flow []byte
	err := row.Scan(
		&set.ID,
		&set.Organization,
		&set.Name,
		&set.CustomCode,
		&set.Description,
		&set.Icon,
		&set.Creator,
		&set.CreatedAt,
		&set.StatusID,
		&flow,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(flow, &set.StatusFlow); err != nil {
		return nil, fmt.Errorf("failed to unmarshal project set status flow: %w", err)
	}
	return &set, nil
}
